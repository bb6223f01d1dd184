package sysstate

import (
	"testing"

	"switchcore/users"
)

func TestNewStateStartsUnauthenticated(t *testing.T) {
	st := New()
	if st.Authenticated() {
		t.Error("a fresh State should start unauthenticated")
	}
	if st.ActiveUser() != nil {
		t.Error("a fresh State should start with no active user")
	}
	if st.NextLogSlot() != LogRegionBase {
		t.Errorf("NextLogSlot() = %#x, want %#x", st.NextLogSlot(), LogRegionBase)
	}
}

func TestSetActiveUserImpliesAuthenticated(t *testing.T) {
	st := New()
	u := &users.User{Username: "alice"}

	st.SetActiveUser(u)
	if !st.Authenticated() {
		t.Error("SetActiveUser(non-nil) should mark the session authenticated")
	}
	if st.ActiveUser() != u {
		t.Error("ActiveUser() should return the user just set")
	}

	st.SetActiveUser(nil)
	if st.Authenticated() {
		t.Error("SetActiveUser(nil) should mark the session unauthenticated")
	}
}

func TestSetAuthenticatedFalseClearsActiveUser(t *testing.T) {
	st := New()
	st.SetActiveUser(&users.User{Username: "bob"})

	st.SetAuthenticated(false)
	if st.ActiveUser() != nil {
		t.Error("SetAuthenticated(false) should clear the active user")
	}
}

func TestAdvanceLogSlotWraps(t *testing.T) {
	st := New()
	st.SetNextLogSlot(LogRegionBase + LogRegionSize - LogEntrySize)

	slot := st.AdvanceLogSlot()
	if slot != LogRegionBase+LogRegionSize-LogEntrySize {
		t.Errorf("AdvanceLogSlot returned %#x, want the pre-advance cursor", slot)
	}
	if got := st.NextLogSlot(); got != LogRegionBase {
		t.Errorf("cursor after wraparound = %#x, want %#x", got, LogRegionBase)
	}
}

func TestSetNextLogSlotClampsOutOfRangeValues(t *testing.T) {
	st := New()

	st.SetNextLogSlot(LogRegionBase - 1)
	if got := st.NextLogSlot(); got != LogRegionBase {
		t.Errorf("below-range cursor clamped to %#x, want %#x", got, LogRegionBase)
	}

	st.SetNextLogSlot(LogRegionBase + LogRegionSize)
	if got := st.NextLogSlot(); got != LogRegionBase {
		t.Errorf("at-end cursor clamped to %#x, want %#x", got, LogRegionBase)
	}
}

func TestPreviousLogCodeUnsetUntilFirstWrite(t *testing.T) {
	st := New()
	if _, ok := st.PreviousLogCode(); ok {
		t.Error("PreviousLogCode should report ok=false before any code is logged")
	}
	st.SetPreviousLogCode(0x07)
	code, ok := st.PreviousLogCode()
	if !ok || code != 0x07 {
		t.Errorf("PreviousLogCode() = (%#x, %v), want (0x07, true)", code, ok)
	}
}

func TestFlagsHas(t *testing.T) {
	f := FlagConfigSaved | FlagUsersSaved
	if !f.Has(FlagConfigSaved) {
		t.Error("Has(FlagConfigSaved) should be true")
	}
	if f.Has(FlagVLANSaved) {
		t.Error("Has(FlagVLANSaved) should be false")
	}
}
