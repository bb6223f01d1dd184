// Package users implements the fixed 16-slot user table: fifteen
// general-purpose slots plus one built-in root slot, exactly as described
// in spec §3.
package users

import "switchcore/errcode"

// Role is the total order ReadOnly < ModifyPorts < ModifySystem <
// Administrator, modeled as plain integer constants per spec §4.3.
type Role int

const (
	ReadOnly Role = iota
	ModifyPorts
	ModifySystem
	Administrator
)

func (r Role) String() string {
	switch r {
	case ReadOnly:
		return "read-only"
	case ModifyPorts:
		return "modify-ports"
	case ModifySystem:
		return "modify-system"
	case Administrator:
		return "administrator"
	default:
		return "unknown"
	}
}

// PendingAction marks a user-menu slot for a deferred mutation, applied
// when the admin confirms the delete-users/event menu (§4.5).
type PendingAction int

const (
	ActionNone PendingAction = iota
	ActionAdd
	ActionUpdate
	ActionDelete
)

// field width in bytes for username/first_name/last_name/password, per §3.
const FieldWidth = 16

// SlotCount is the number of general-purpose slots; RootSlot is the
// sixteenth, built-in slot that Delete must never touch.
const (
	SlotCount = 15
	RootSlot  = 15
	TableSize = SlotCount + 1
)

// RecordStride is the on-disk byte width of one user slot record: four
// 16-byte fields plus one permission byte, per spec §4.2 step 4.
const RecordStride = FieldWidth*4 + 1

// User is one table slot. An empty slot has Username[0] == 0.
type User struct {
	Username    string
	FirstName   string
	LastName    string
	Password    string
	Role        Role
	MarkedForAction bool
	Pending     PendingAction
}

// Empty reports whether a slot holds no user.
func (u *User) Empty() bool { return u == nil || u.Username == "" }

// Table is the full 16-slot user table: index 0..14 general purpose,
// index 15 the root slot.
type Table struct {
	Slots [TableSize]User
}

// DefaultRoot returns the built-in root slot's default credentials,
// matching interpreter_task.h's factory defaults.
func DefaultRoot() User {
	return User{Username: "admin", FirstName: "Root", LastName: "Admin", Password: "admin", Role: Administrator}
}

// NewTable returns a table with only the root slot populated.
func NewTable() *Table {
	t := &Table{}
	t.Slots[RootSlot] = DefaultRoot()
	return t
}

// FindByCredentials scans every non-empty slot for a matching
// (username, password) pair, used by the CLI's login prompt (§4.8).
func (t *Table) FindByCredentials(username, password string) (*User, bool) {
	for i := range t.Slots {
		u := &t.Slots[i]
		if u.Empty() {
			continue
		}
		if u.Username == username && u.Password == password {
			return u, true
		}
	}
	return nil, false
}

// Add writes a new user into the first empty general-purpose slot.
// Returns OutOfRangeInput if the table is full or the username collides.
func (t *Table) Add(u User) error {
	if u.Username == "" {
		return &errcode.E{C: errcode.OutOfRangeInput, Op: "users.Add", Msg: "empty username"}
	}
	for i := 0; i < SlotCount; i++ {
		if !t.Slots[i].Empty() && t.Slots[i].Username == u.Username {
			return &errcode.E{C: errcode.OutOfRangeInput, Op: "users.Add", Msg: "duplicate username"}
		}
	}
	for i := 0; i < SlotCount; i++ {
		if t.Slots[i].Empty() {
			t.Slots[i] = u
			return nil
		}
	}
	return &errcode.E{C: errcode.OutOfRangeInput, Op: "users.Add", Msg: "table full"}
}

// Update overwrites an existing non-root slot's fields by username.
func (t *Table) Update(u User) error {
	for i := 0; i < SlotCount; i++ {
		if !t.Slots[i].Empty() && t.Slots[i].Username == u.Username {
			t.Slots[i] = u
			return nil
		}
	}
	return &errcode.E{C: errcode.OutOfRangeInput, Op: "users.Update", Msg: "no such user"}
}

// Delete zeros a general-purpose slot. The root slot (index 15) is never
// reachable through this call; index is always a general-purpose slot
// index in [0, SlotCount).
func (t *Table) Delete(index int) error {
	if index < 0 || index >= SlotCount {
		return &errcode.E{C: errcode.OutOfRangeInput, Op: "users.Delete", Msg: "root slot or out of range"}
	}
	t.Slots[index] = User{}
	return nil
}
