package handlers

import (
	"io"
	"strings"
	"testing"

	"switchcore/users"
)

func sendKeys(keys chan<- byte, bs ...byte) {
	for _, b := range bs {
		keys <- b
	}
	close(keys)
}

func TestCheckboxMenuToggleAndConfirm(t *testing.T) {
	var out strings.Builder
	keys := make(chan byte, 4)

	menu := NewCheckboxMenu(&out, 1, []bool{false, false}, func(w io.Writer, checked []bool) {})
	go sendKeys(keys, '\n', 'C')

	res := menu.Run(keys)
	if !res.Confirmed {
		t.Fatal("Run should report Confirmed after a 'C' key")
	}
	if !res.Checked[0] || res.Checked[1] {
		t.Errorf("Checked = %v, want [true false] after toggling row 0", res.Checked)
	}
}

func TestCheckboxMenuExitDiscardsWithoutConfirming(t *testing.T) {
	var out strings.Builder
	keys := make(chan byte, 4)

	menu := NewCheckboxMenu(&out, 1, []bool{false}, func(w io.Writer, checked []bool) {})
	go sendKeys(keys, '\n', 'E')

	res := menu.Run(keys)
	if res.Confirmed {
		t.Error("Run should report not Confirmed after an 'E' key")
	}
}

func TestCheckboxMenuArrowNavigationStaysInBounds(t *testing.T) {
	var out strings.Builder
	keys := make(chan byte, 8)

	menu := NewCheckboxMenu(&out, 1, []bool{false, false}, func(w io.Writer, checked []bool) {})
	// Up from row 0 (no-op), down twice (clamped at last row), then toggle+confirm.
	go sendKeys(keys, keyArrowUp, keyArrowDown, keyArrowDown, '\n', 'C')

	res := menu.Run(keys)
	if !res.Confirmed {
		t.Fatal("Run should confirm")
	}
	if res.Checked[0] || !res.Checked[1] {
		t.Errorf("Checked = %v, want [false true] (cursor clamped at last row)", res.Checked)
	}
}

func TestRunEventMenuAppliesConfirmedSelection(t *testing.T) {
	var out strings.Builder
	keys := make(chan byte, 4)
	names := []string{"User Logged In", "User Logged Out"}

	go sendKeys(keys, '\n', 'C') // toggle row 0 on, confirm

	flags, ok := RunEventMenu(&out, keys, names, 0)
	if !ok {
		t.Fatal("RunEventMenu should report confirmed")
	}
	if flags != 1 {
		t.Errorf("flags = %#x, want bit 0 set", flags)
	}
}

func TestRunEventMenuExitLeavesFlagsUnchanged(t *testing.T) {
	var out strings.Builder
	keys := make(chan byte, 4)
	names := []string{"User Logged In", "User Logged Out"}

	go sendKeys(keys, '\n', 'E')

	flags, ok := RunEventMenu(&out, keys, names, 0x02)
	if ok {
		t.Fatal("RunEventMenu should report not confirmed on exit")
	}
	if flags != 0x02 {
		t.Errorf("flags = %#x, want the original flags unchanged", flags)
	}
}

func TestRunDeleteUsersMenuReportsEmptyDatabase(t *testing.T) {
	var out strings.Builder
	keys := make(chan byte)
	close(keys)
	tbl := users.NewTable() // only the root slot, never listed here

	if !RunDeleteUsersMenu(&out, keys, tbl) {
		t.Fatal("RunDeleteUsersMenu should report true even with nothing to delete")
	}
	if !strings.Contains(out.String(), "NO USERS IN DATABASE") {
		t.Errorf("output = %q, want the empty-database notice", out.String())
	}
}

func TestRunDeleteUsersMenuMarksCheckedForDeleteAndRestForUpdate(t *testing.T) {
	var out strings.Builder
	keys := make(chan byte, 4)
	tbl := users.NewTable()
	tbl.Slots[0] = users.User{Username: "bob"}
	tbl.Slots[1] = users.User{Username: "carol"}

	go sendKeys(keys, '\n', 'C') // check the first listed user, confirm

	if !RunDeleteUsersMenu(&out, keys, tbl) {
		t.Fatal("RunDeleteUsersMenu returned false")
	}
	if tbl.Slots[0].Pending != users.ActionDelete {
		t.Errorf("slot 0 Pending = %v, want ActionDelete", tbl.Slots[0].Pending)
	}
	if tbl.Slots[1].Pending != users.ActionUpdate {
		t.Errorf("slot 1 Pending = %v, want ActionUpdate", tbl.Slots[1].Pending)
	}
}
