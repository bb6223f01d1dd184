package handlers

import (
	"fmt"
	"io"

	"switchcore/eventlog"
	"switchcore/hal"
	"switchcore/sysstate"
)

// EventNames enumerates every loggable code in declaration order, index
// matching the bit position RunEventMenu/EventStatus toggle, grounded on
// COM_EventStatus's fixed event-name table.
var EventNames = []string{
	"User Logged In",
	"User Logged Out",
	"Config Saved",
	"VLAN Changed",
	"User Added",
	"User Updated",
	"User Deleted",
	"Port Link Up",
	"Port Link Down",
}

// EventStatus prints the enabled/disabled state of every declared event,
// grounded on COM_EventStatus.
func EventStatus(w io.Writer, st *sysstate.State) bool {
	flags := st.LogStatusFlags()
	for i, name := range EventNames {
		state := "disabled"
		if flags&(1<<uint(i)) != 0 {
			state = "enabled"
		}
		fmt.Fprintf(w, "  [%s] %s\n", state, name)
	}
	return true
}

// ListEvents dumps the full on-disk ring in slot order from the region
// base (after a wrap this is not oldest-first), grounded
// on COM_ListEvents.
func ListEvents(w io.Writer, dev *hal.Device) bool {
	records, err := eventlog.ReadAll(dev)
	if err != nil {
		return false
	}
	for _, r := range records {
		if r.Tick == 0 && r.Code == 0 {
			continue
		}
		name := "unknown"
		if bit, ok := eventlog.BusinessEventBit(r.Code); ok && int(bit) < len(EventNames) {
			name = EventNames[bit]
		}
		fmt.Fprintf(w, "  [tick %10d] %s\n", r.Tick, name)
	}
	return true
}

// DeleteEvents zeroes the circular log's on-disk region and resets the
// cursor, grounded on COM_DeleteEvents.
func DeleteEvents(dev *hal.Device, st *sysstate.State) bool {
	zero := make([]byte, sysstate.LogEntrySize)
	for i := 0; i < sysstate.LogEntryCount; i++ {
		addr := uint32(sysstate.LogRegionBase + i*sysstate.LogEntrySize)
		if err := dev.BulkWrite(addr, zero); err != nil {
			return false
		}
	}
	st.SetNextLogSlot(sysstate.LogRegionBase)
	return true
}
