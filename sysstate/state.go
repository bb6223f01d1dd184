// Package sysstate owns the process-wide mutable state spec §9 calls out:
// the user table, the system/log flags, and the active-session fields the
// CLI task mutates. Modeled as a single owned value guarded by a mutex with
// documented critical sections, per the REDESIGN FLAGS "process-wide
// mutable state" note, rather than threaded through every call as
// parameters.
package sysstate

import (
	"sync"

	"switchcore/users"
)

// Flags is the EEPROM byte 0x1E bitfield (spec §3).
type Flags uint8

const (
	FlagReinitRequest Flags = 1 << 7
	FlagConfigSaved   Flags = 1 << 6
	FlagVLANSaved     Flags = 1 << 5
	FlagUsersSaved    Flags = 1 << 4
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// LogRegionBase and LogRegionSize bound the circular event-log ring; the
// log-status-flags/next-log-slot fields below are clamped against these
// when restored (§4.2 step 2).
const (
	LogRegionBase = 0x1600
	LogEntrySize  = 5
	LogEntryCount = 400
	LogRegionSize = LogEntrySize * LogEntryCount
)

// State is the single owned process-wide value. Fields are grouped by
// owner per spec §5: the first group is mutated only by the CLI task, the
// second only by the event logger and the save-config handler.
type State struct {
	mu sync.Mutex

	// Owned by the CLI task.
	users         *users.Table
	authenticated bool
	activeUser    *users.User
	consoleMode   bool

	// Owned by the event logger task (and the save-config handler, which
	// the design note documents as implicitly serialized against the
	// logger by taking this same mutex for its flag/cursor write-back).
	systemFlags     Flags
	logStatusFlags  uint32
	nextLogSlot     uint32
	previousLogCode *uint8
}

// New returns a State with a fresh (root-only) user table.
func New() *State {
	return &State{
		users:       users.NewTable(),
		nextLogSlot: LogRegionBase,
	}
}

// Users returns the live user table pointer. Callers hold the CLI task's
// implicit single-writer invariant: the CLI interpreter task is the only
// mutator (§5), so readers tolerate in-place mutation without locking,
// matching "readers tolerate in-place mutation because updates are
// single-field writes".
func (s *State) Users() *users.Table { return s.users }

func (s *State) SetAuthenticated(v bool) {
	s.mu.Lock()
	s.authenticated = v
	if !v {
		s.activeUser = nil
	}
	s.mu.Unlock()
}

func (s *State) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *State) SetActiveUser(u *users.User) {
	s.mu.Lock()
	s.activeUser = u
	s.authenticated = u != nil
	s.mu.Unlock()
}

func (s *State) ActiveUser() *users.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeUser
}

func (s *State) SetConsoleMode(v bool) {
	s.mu.Lock()
	s.consoleMode = v
	s.mu.Unlock()
}

func (s *State) ConsoleMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consoleMode
}

func (s *State) SystemFlags() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.systemFlags
}

func (s *State) SetSystemFlags(f Flags) {
	s.mu.Lock()
	s.systemFlags = f
	s.mu.Unlock()
}

func (s *State) LogStatusFlags() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logStatusFlags
}

func (s *State) SetLogStatusFlags(v uint32) {
	s.mu.Lock()
	s.logStatusFlags = v
	s.mu.Unlock()
}

// NextLogSlot returns the next write offset, clamped to the log region.
func (s *State) NextLogSlot() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextLogSlot
}

// AdvanceLogSlot moves the cursor forward by one record, wrapping to the
// region base if the advance would exceed it (§4.7 rule 3).
func (s *State) AdvanceLogSlot() (slot uint32) {
	s.mu.Lock()
	slot = s.nextLogSlot
	next := slot + LogEntrySize
	if next >= LogRegionBase+LogRegionSize {
		next = LogRegionBase
	}
	s.nextLogSlot = next
	s.mu.Unlock()
	return slot
}

// SetNextLogSlot clamps and stores a restored cursor (§4.2 step 2: "clamp
// next-log-slot to >= log-region base").
func (s *State) SetNextLogSlot(v uint32) {
	s.mu.Lock()
	if v < LogRegionBase || v >= LogRegionBase+LogRegionSize {
		v = LogRegionBase
	}
	s.nextLogSlot = v
	s.mu.Unlock()
}

// PreviousLogCode and SetPreviousLogCode implement the same-as-previous
// de-dup rule (§4.7 rule 2). ok is false before the first code is logged.
func (s *State) PreviousLogCode() (code uint8, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.previousLogCode == nil {
		return 0, false
	}
	return *s.previousLogCode, true
}

func (s *State) SetPreviousLogCode(code uint8) {
	s.mu.Lock()
	s.previousLogCode = &code
	s.mu.Unlock()
}
