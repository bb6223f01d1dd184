package handlers

import (
	"fmt"
	"io"

	"switchcore/users"
)

// Up/down arrow byte codes as read off the UART, per the original menu
// loops (0x41/0x42 following an escape+bracket prefix the reader already
// stripped).
const (
	keyArrowUp   = 0x41
	keyArrowDown = 0x42
)

// CheckboxMenu is the interactive checkbox UI shared by the event-log and
// delete-users menus (§4.5): a fixed list of rows, each occupying rowHeight
// terminal lines, navigated with arrow keys and toggled with Enter.
type CheckboxMenu struct {
	w          io.Writer
	rowHeight  int
	current    int
	checked    []bool
	renderRows func(w io.Writer, checked []bool)
}

// NewCheckboxMenu renders labels once via renderRows (so callers keep full
// control of per-row formatting) then positions the cursor at the first
// checkbox column, exactly like COM_ManageEvents / COM_DeleteUsersMenu's
// "place cursor in first item checkbox" prologue.
func NewCheckboxMenu(w io.Writer, rowHeight int, initial []bool, renderRows func(w io.Writer, checked []bool)) *CheckboxMenu {
	m := &CheckboxMenu{w: w, rowHeight: rowHeight, checked: append([]bool(nil), initial...), renderRows: renderRows}
	renderRows(w, m.checked)
	for range m.checked {
		fmt.Fprintf(w, "\033[%dA", rowHeight)
	}
	fmt.Fprint(w, "\033[1C")
	return m
}

// menuResult is what a completed checkbox menu run reports.
type menuResult struct {
	Confirmed bool
	Checked   []bool
}

// Run consumes key bytes from keys until 'C'/'c' (confirm) or 'E'/'e' (exit)
// is seen, returning the final checked state and whether it was confirmed.
func (m *CheckboxMenu) Run(keys <-chan byte) menuResult {
	for k := range keys {
		switch k {
		case keyArrowUp:
			if m.current > 0 {
				fmt.Fprintf(m.w, "\033[%dA", m.rowHeight)
				m.current--
			}
		case keyArrowDown:
			if m.current < len(m.checked)-1 {
				fmt.Fprintf(m.w, "\033[%dB", m.rowHeight)
				m.current++
			}
		case '\n', '\r':
			m.checked[m.current] = !m.checked[m.current]
			if m.checked[m.current] {
				fmt.Fprint(m.w, "#\033[1D")
			} else {
				fmt.Fprint(m.w, " \033[1D")
			}
		case 'E', 'e':
			m.finish()
			return menuResult{Confirmed: false, Checked: m.checked}
		case 'C', 'c':
			m.finish()
			return menuResult{Confirmed: true, Checked: m.checked}
		}
	}
	return menuResult{Confirmed: false, Checked: m.checked}
}

func (m *CheckboxMenu) finish() {
	for i := m.current; i < len(m.checked); i++ {
		fmt.Fprintf(m.w, "\033[%dB", m.rowHeight)
	}
	fmt.Fprint(m.w, "\033[2B\033[1D")
}

// RunEventMenu implements the event-log filter checkbox menu: one row per
// declared log code name, toggling membership in the running
// log-status-flags bitmap (bit index == names index). The result is applied
// to flags but not persisted — persistence happens on the next config save,
// matching the original's deferred-save note.
func RunEventMenu(w io.Writer, keys <-chan byte, names []string, flags uint32) (uint32, bool) {
	fmt.Fprint(w, "\nCheck all events to ENABLE/DISABLE by using the arrow keys\nUse <ENTER> to select, <C> to confirm, <E> to exit\n")

	initial := make([]bool, len(names))
	for i := range names {
		initial[i] = flags&(1<<uint(i)) != 0
	}

	menu := NewCheckboxMenu(w, 1, initial, func(w io.Writer, checked []bool) {
		for i, name := range names {
			mark := " "
			if checked[i] {
				mark = "#"
			}
			fmt.Fprintf(w, "[%s] EVENT: %s\n", mark, name)
		}
	})

	res := menu.Run(keys)
	if !res.Confirmed {
		return flags, false
	}
	var out uint32
	for i, on := range res.Checked {
		if on {
			out |= 1 << uint(i)
		}
	}
	fmt.Fprint(w, "\n[NOTICE]: Save switch configuration before turning off system!\n")
	return out, true
}

// RunDeleteUsersMenu implements the delete-users checkbox menu: every
// non-empty general-purpose slot gets a three-line row; on confirm, checked
// slots are marked ActionDelete and unchecked non-empty slots are marked
// ActionUpdate (the compaction-on-save behavior §4.2 describes), matching
// COM_DeleteUsersMenu's confirm branch exactly.
func RunDeleteUsersMenu(w io.Writer, keys <-chan byte, t *users.Table) bool {
	fmt.Fprint(w, "\nCheck all users to DELETE by using the arrow keys\nUse <ENTER> to select, <C> to confirm, <E> to exit\n")

	var indices []int
	for i := 0; i < users.SlotCount; i++ {
		if !t.Slots[i].Empty() {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		fmt.Fprint(w, "\n === NO USERS IN DATABASE === \n")
		return true
	}

	initial := make([]bool, len(indices))
	for i, idx := range indices {
		initial[i] = t.Slots[idx].MarkedForAction
	}

	menu := NewCheckboxMenu(w, 3, initial, func(w io.Writer, checked []bool) {
		for i, idx := range indices {
			u := t.Slots[idx]
			mark := " "
			if checked[i] {
				mark = "#"
			}
			fmt.Fprintf(w, "[%s] USER: %s\n\t%s %s\n\tROLE: %s\n", mark, u.Username, u.FirstName, u.LastName, u.Role)
		}
	})

	res := menu.Run(keys)
	if !res.Confirmed {
		return true
	}
	for i, idx := range indices {
		if res.Checked[i] {
			t.Slots[idx].Pending = users.ActionDelete
		} else {
			t.Slots[idx].Pending = users.ActionUpdate
		}
	}
	fmt.Fprint(w, "\n[NOTICE]: Save switch configuration to update user database\n")
	return true
}
