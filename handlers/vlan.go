package handlers

import (
	"fmt"
	"io"

	"switchcore/hal"
	"switchcore/persistence"
)

// portControl1TagBit is the tag-insertion-enable bit in port control
// register 0, set once per set-port-vlan call (command_functions.c's
// COM_SetPortVLAN: "Turn on tag insertion for this port").
const portControl1TagBit = 2

// SetPortVLAN implements the set-port-vlan handler: enable tag insertion,
// program the 12-bit default VLAN across port-control registers 3/4, then
// recompute the port's membership mask by scanning the other three user
// ports for a matching default VLAN (AssertVLANS in the original source).
func SetPortVLAN(dev *hal.Device, base hal.PortOffset, vlanID uint16) bool {
	ctrl0Reg := hal.Reg(base, hal.PortControl0Offset)
	ctrl0, err := dev.CtrlRead(ctrl0Reg)
	if err != nil {
		return false
	}
	if err := dev.CtrlWrite(ctrl0Reg, ctrl0|1<<portControl1TagBit); err != nil {
		return false
	}

	ctrl3Reg := hal.Reg(base, hal.PortControl3Offset)
	ctrl3, err := dev.CtrlRead(ctrl3Reg)
	if err != nil {
		return false
	}
	ctrl3 = ctrl3&0xF0 | uint8((vlanID&0xF00)>>8)
	if err := dev.CtrlWrite(ctrl3Reg, ctrl3); err != nil {
		return false
	}

	ctrl4Reg := hal.Reg(base, hal.PortControl4Offset)
	if err := dev.CtrlWrite(ctrl4Reg, uint8(vlanID&0xFF)); err != nil {
		return false
	}

	mask, ok := assertVLANs(dev, vlanID, base)
	if !ok {
		return false
	}
	ctrl1Reg := hal.Reg(base, hal.PortControl1Offset)
	return dev.CtrlWrite(ctrl1Reg, mask&0x1F) == nil
}

// assertVLANs scans the four user ports for a matching default VLAN tag and
// folds the querying port into each match's membership mask, mirroring the
// original's AssertVLANS: every port sharing this default VLAN gets the new
// port OR-ed into its own membership bits, and the return value is the mask
// of which ports matched (indexed in AllUserPorts order).
func assertVLANs(dev *hal.Device, vlanID uint16, portID hal.PortOffset) (uint8, bool) {
	var mask uint8
	queryingIndex := portIndex(portID)

	for i, p := range hal.AllUserPorts {
		ctrl3, err := dev.CtrlRead(hal.Reg(p, hal.PortControl3Offset))
		if err != nil {
			return 0, false
		}
		ctrl4, err := dev.CtrlRead(hal.Reg(p, hal.PortControl4Offset))
		if err != nil {
			return 0, false
		}
		portVLAN := uint16(ctrl3&0x0F)<<8 | uint16(ctrl4)

		if portVLAN != vlanID {
			continue
		}
		mask |= 1 << i

		ctrl1Reg := hal.Reg(p, hal.PortControl1Offset)
		ctrl1, err := dev.CtrlRead(ctrl1Reg)
		if err != nil {
			return 0, false
		}
		if queryingIndex >= 0 {
			ctrl1 |= 1 << queryingIndex
		}
		if err := dev.CtrlWrite(ctrl1Reg, ctrl1); err != nil {
			return 0, false
		}
	}
	return mask, true
}

func portIndex(p hal.PortOffset) int {
	for i, a := range hal.AllUserPorts {
		if a == p {
			return i
		}
	}
	return -1
}

// SetVLANEntry implements the set-vlan-entry handler: the same indirect
// pack/unpack as persistence.WriteVLANEntry, folded with the same
// AssertVLANS membership scan set-port-vlan uses, then mirrored into the
// EEPROM VLAN region with the valid bit set.
func SetVLANEntry(dev *hal.Device, portID hal.PortOffset, vlanID int) bool {
	if vlanID < 1 || vlanID > 4095 {
		return false
	}
	mask, ok := assertVLANs(dev, uint16(vlanID), portID)
	if !ok {
		return false
	}
	entry := persistence.VLANEntry{ID: vlanID, Valid: true, Membership: mask & 0x1F}
	if err := persistence.WriteVLANEntry(dev, entry); err != nil {
		return false
	}

	b := byte(0x80) | (entry.Membership&0x1F)<<2
	return dev.SingleWrite(uint32(0x200+vlanID-1), b) == nil
}

// vlanPageSize is the interactive show-vlan-table pagination width (spec
// §4.5: "paginate 10 entries at a time").
const vlanPageSize = 10

// ShowVLANTable walks the EEPROM VLAN region and paginates output 10
// entries at a time, prompting the caller's confirm function between pages
// (the real UART loop supplies an N/E reader; hostsim/tests can stub it).
func ShowVLANTable(w io.Writer, dev *hal.Device, nextPage func() bool) bool {
	fmt.Fprintln(w, "[Compiling VLAN Table]: Please wait...")

	type row struct {
		id   int
		mask uint8
	}
	var page []row
	printed := 0

	flush := func() {
		if printed == 0 {
			fmt.Fprintln(w, "\nVLAN ID    STATUS     PORTS ASSIGNED")
		}
		for _, r := range page {
			fmt.Fprintf(w, "%-11dACTIVE     0x%02X\n", r.id, r.mask)
		}
		printed += len(page)
		page = page[:0]
	}

	for vlanID := 1; vlanID <= 4095; vlanID++ {
		b, err := dev.SingleRead(uint32(0x200 + vlanID - 1))
		if err != nil {
			return false
		}
		if b&0x80 == 0 {
			continue
		}
		page = append(page, row{id: vlanID, mask: (b >> 2) & 0x1F})
		if len(page) == vlanPageSize {
			flush()
			if nextPage != nil && !nextPage() {
				return true
			}
		}
	}
	if len(page) > 0 {
		flush()
	}
	if printed == 0 {
		fmt.Fprintln(w, "==== NO ENTRIES FOUND IN VLAN TABLE ====")
	}
	return true
}
