package handlers

import (
	"strings"
	"testing"

	"switchcore/eventlog"
	"switchcore/hal"
	"switchcore/sysstate"
)

func writeLogRecord(t *testing.T, dev *hal.Device, slot int, tick uint32, code uint8) {
	t.Helper()
	buf := [sysstate.LogEntrySize]byte{
		byte(tick >> 24), byte(tick >> 16), byte(tick >> 8), byte(tick), code,
	}
	addr := uint32(sysstate.LogRegionBase + slot*sysstate.LogEntrySize)
	if err := dev.BulkWrite(addr, buf[:]); err != nil {
		t.Fatalf("BulkWrite: %v", err)
	}
}

func TestEventStatusReportsPerEventEnabledState(t *testing.T) {
	st := sysstate.New()
	st.SetLogStatusFlags(1 << 0) // User Logged In only

	var out strings.Builder
	if !EventStatus(&out, st) {
		t.Fatal("EventStatus returned false")
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != len(EventNames) {
		t.Fatalf("got %d lines, want %d", len(lines), len(EventNames))
	}
	if !strings.Contains(lines[0], "[enabled] User Logged In") {
		t.Errorf("line 0 = %q, want it enabled", lines[0])
	}
	if !strings.Contains(lines[1], "[disabled] User Logged Out") {
		t.Errorf("line 1 = %q, want it disabled", lines[1])
	}
}

func TestListEventsResolvesBusinessCodeNames(t *testing.T) {
	dev := hal.New(hal.NewSimEEPROM(), hal.NewSimController(), nil)
	writeLogRecord(t, dev, 0, 100, eventlog.CodeVLANChanged)
	writeLogRecord(t, dev, 1, 200, eventlog.CodePortLinkDown)

	var out strings.Builder
	if !ListEvents(&out, dev) {
		t.Fatal("ListEvents returned false")
	}
	if !strings.Contains(out.String(), "VLAN Changed") {
		t.Errorf("output = %q, want it to resolve CodeVLANChanged's name", out.String())
	}
	if !strings.Contains(out.String(), "Port Link Down") {
		t.Errorf("output = %q, want it to resolve CodePortLinkDown's name", out.String())
	}
	if strings.Contains(out.String(), "unknown") {
		t.Errorf("output = %q, should not report any declared business code as unknown", out.String())
	}
}

func TestListEventsReportsUnknownForHALCodes(t *testing.T) {
	dev := hal.New(hal.NewSimEEPROM(), hal.NewSimController(), nil)
	writeLogRecord(t, dev, 0, 50, 0x05) // hal's own IOException code

	var out strings.Builder
	if !ListEvents(&out, dev) {
		t.Fatal("ListEvents returned false")
	}
	if !strings.Contains(out.String(), "unknown") {
		t.Errorf("output = %q, want a HAL-origin code reported as unknown (no declared name)", out.String())
	}
}

func TestListEventsSkipsZeroRecords(t *testing.T) {
	dev := hal.New(hal.NewSimEEPROM(), hal.NewSimController(), nil)
	writeLogRecord(t, dev, 5, 1, eventlog.CodeUserAdded)

	var out strings.Builder
	if !ListEvents(&out, dev) {
		t.Fatal("ListEvents returned false")
	}
	if strings.Count(out.String(), "tick") != 1 {
		t.Errorf("output = %q, want exactly one printed record (the rest are zero-valued and skipped)", out.String())
	}
}

func TestDeleteEventsZeroesRingAndResetsCursor(t *testing.T) {
	dev := hal.New(hal.NewSimEEPROM(), hal.NewSimController(), nil)
	st := sysstate.New()
	writeLogRecord(t, dev, 3, 99, eventlog.CodeUserDeleted)
	st.SetNextLogSlot(sysstate.LogRegionBase + 3*sysstate.LogEntrySize)

	if !DeleteEvents(dev, st) {
		t.Fatal("DeleteEvents returned false")
	}
	if st.NextLogSlot() != sysstate.LogRegionBase {
		t.Errorf("NextLogSlot() = %#x, want the base address after delete", st.NextLogSlot())
	}

	records, err := eventlog.ReadAll(dev)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	for _, r := range records {
		if r.Tick != 0 || r.Code != 0 {
			t.Errorf("record %+v should have been zeroed", r)
		}
	}
}
