package users

import "testing"

func TestNewTableHasOnlyRootPopulated(t *testing.T) {
	table := NewTable()

	for i := 0; i < SlotCount; i++ {
		if !table.Slots[i].Empty() {
			t.Errorf("general-purpose slot %d should start empty, got %+v", i, table.Slots[i])
		}
	}
	if table.Slots[RootSlot].Empty() {
		t.Error("root slot should be populated by NewTable")
	}
	if table.Slots[RootSlot].Role != Administrator {
		t.Errorf("root slot role = %v, want Administrator", table.Slots[RootSlot].Role)
	}
}

func TestFindByCredentials(t *testing.T) {
	table := NewTable()
	if _, ok := table.FindByCredentials("admin", "admin"); !ok {
		t.Error("expected default root credentials to authenticate")
	}
	if _, ok := table.FindByCredentials("admin", "wrong"); ok {
		t.Error("wrong password should not authenticate")
	}
	if _, ok := table.FindByCredentials("nobody", "admin"); ok {
		t.Error("unknown username should not authenticate")
	}
}

func TestAddRejectsDuplicateAndFullTable(t *testing.T) {
	table := NewTable()

	if err := table.Add(User{Username: "alice", Role: ReadOnly}); err != nil {
		t.Fatalf("Add(alice): %v", err)
	}
	if err := table.Add(User{Username: "alice", Role: ModifyPorts}); err == nil {
		t.Error("Add should reject a duplicate username")
	}

	for i := 1; i < SlotCount; i++ {
		if err := table.Add(User{Username: username(i), Role: ReadOnly}); err != nil {
			t.Fatalf("Add(%s): %v", username(i), err)
		}
	}
	if err := table.Add(User{Username: "overflow", Role: ReadOnly}); err == nil {
		t.Error("Add should reject a user once all general-purpose slots are full")
	}
}

func username(i int) string {
	return string(rune('a' + i))
}

func TestAddRejectsEmptyUsername(t *testing.T) {
	table := NewTable()
	if err := table.Add(User{Username: ""}); err == nil {
		t.Error("Add should reject an empty username")
	}
}

func TestUpdateNoSuchUser(t *testing.T) {
	table := NewTable()
	if err := table.Update(User{Username: "ghost"}); err == nil {
		t.Error("Update should error for a username with no matching slot")
	}
}

func TestUpdateOverwritesMatchingSlot(t *testing.T) {
	table := NewTable()
	if err := table.Add(User{Username: "bob", Role: ReadOnly}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := table.Update(User{Username: "bob", Role: Administrator}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if table.Slots[0].Role != Administrator {
		t.Errorf("Slots[0].Role = %v, want Administrator", table.Slots[0].Role)
	}
}

func TestDeleteRejectsRootSlotAndOutOfRange(t *testing.T) {
	table := NewTable()
	if err := table.Delete(RootSlot); err == nil {
		t.Error("Delete should never accept the root slot index")
	}
	if err := table.Delete(-1); err == nil {
		t.Error("Delete should reject a negative index")
	}
	if err := table.Delete(SlotCount); err == nil {
		t.Error("Delete should reject an index at or beyond SlotCount")
	}
}

func TestDeleteClearsSlot(t *testing.T) {
	table := NewTable()
	if err := table.Add(User{Username: "carol", Role: ReadOnly}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := table.Delete(0); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !table.Slots[0].Empty() {
		t.Error("slot 0 should be empty after Delete")
	}
}

func TestRoleString(t *testing.T) {
	cases := map[Role]string{
		ReadOnly:      "read-only",
		ModifyPorts:   "modify-ports",
		ModifySystem:  "modify-system",
		Administrator: "administrator",
		Role(99):      "unknown",
	}
	for role, want := range cases {
		if got := role.String(); got != want {
			t.Errorf("Role(%d).String() = %q, want %q", role, got, want)
		}
	}
}
