package handlers

import (
	"fmt"
	"io"

	"switchcore/users"
)

// ListUsers prints every occupied slot (general-purpose and root),
// grounded on COM_ListUsers's tabular dump.
func ListUsers(w io.Writer, t *users.Table) bool {
	fmt.Fprintf(w, "%-16s %-16s %-16s %s\n", "USERNAME", "FIRST", "LAST", "ROLE")
	for i := range t.Slots {
		u := &t.Slots[i]
		if u.Empty() {
			continue
		}
		fmt.Fprintf(w, "%-16s %-16s %-16s %s\n", u.Username, u.FirstName, u.LastName, u.Role)
	}
	return true
}

// AddUser validates and installs one new general-purpose user, grounded on
// COM_AddUser. Field-length and role-range checks mirror §3's fixed
// 16-byte field width.
func AddUser(t *users.Table, u users.User) bool {
	if len(u.Username) == 0 || len(u.Username) >= users.FieldWidth {
		return false
	}
	if len(u.Password) >= users.FieldWidth || len(u.FirstName) >= users.FieldWidth || len(u.LastName) >= users.FieldWidth {
		return false
	}
	if u.Role < users.ReadOnly || u.Role > users.Administrator {
		return false
	}
	return t.Add(u) == nil
}

// ApplyPendingUserActions compacts the table ahead of a config save: slots
// marked ActionDelete are zeroed, every surviving slot's Pending marker is
// cleared, matching the delete-users menu's deferred-until-save contract
// (§4.5's "[NOTICE]: Save switch configuration to update user database").
func ApplyPendingUserActions(t *users.Table) {
	for i := 0; i < users.SlotCount; i++ {
		switch t.Slots[i].Pending {
		case users.ActionDelete:
			t.Slots[i] = users.User{}
		case users.ActionUpdate, users.ActionAdd:
			t.Slots[i].Pending = users.ActionNone
			t.Slots[i].MarkedForAction = false
		}
	}
}
