package handlers

import (
	"fmt"
	"io"

	"switchcore/hal"
)

// mac48 formats six consecutive bytes as a colon-separated MAC address.
func mac48(b []byte) string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", b[0], b[1], b[2], b[3], b[4], b[5])
}

// sourcePortName maps the dynamic-MAC-table's 3-bit source-port field to
// its CLI name, per command_functions.c's COM_ShowDynamicMACTable switch.
func sourcePortName(code byte) string {
	switch code {
	case 0x00:
		return "f3"
	case 0x01:
		return "f2"
	case 0x02:
		return "f1"
	case 0x03:
		return "f0"
	default:
		return "exp-port"
	}
}

// forwardingPorts renders the static-MAC-table entry's per-port forwarding
// bitmap (bits 4..0 of the second data byte: f3,f2,f1,f0,exp-port).
func forwardingPorts(b byte) string {
	s := ""
	if b&(1<<4) != 0 {
		s += " f3 "
	}
	if b&(1<<3) != 0 {
		s += " f2 "
	}
	if b&(1<<2) != 0 {
		s += " f1 "
	}
	if b&(1<<1) != 0 {
		s += " f0 "
	}
	if b&(1<<0) != 0 {
		s += " exp-port"
	}
	return s
}

func setIndirectWindow(dev *hal.Device, ctl0Base uint8, entry uint16) error {
	if err := dev.CtrlWrite(hal.IndirectAccessControl0, ctl0Base|uint8((entry&0x300)>>8)); err != nil {
		return err
	}
	return dev.CtrlWrite(hal.IndirectAccessControl1, uint8(entry&0xFF))
}

// ShowStaticMACTable walks all 1024 static-MAC-table entries and prints the
// valid ones, matching COM_ShowStaticMACTable's column layout exactly.
func ShowStaticMACTable(w io.Writer, dev *hal.Device) bool {
	const reg6EBase = 0x10 // read(bit4=1) | table-select StaticMAC(00) at bits [3:2]
	printed := 0

	for entry := uint16(0); entry < 0x400; entry++ {
		if err := setIndirectWindow(dev, reg6EBase, entry); err != nil {
			return false
		}
		data, err := dev.CtrlBulkRead(hal.IndirectDataReg7, 8)
		if err != nil {
			return false
		}
		if data[1]>>5&1 == 0 {
			if entry == 0 {
				fmt.Fprintln(w, "\n==== NO ENTRIES FOUND IN STATIC MAC TABLE ====")
				return true
			}
			continue
		}
		if printed == 0 {
			fmt.Fprintln(w, "== FILTER ID ==\t == USE FID ==\t == OVERRIDE STP ==\t == FORWARDING PORTS ==\t == MAC ADDRESS ==")
		}
		useFID := "FALSE"
		if data[0]&1 != 0 {
			useFID = "TRUE"
		}
		overrideSTP := "NO"
		if data[1]>>7&1 != 0 {
			overrideSTP = "YES"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", data[0]>>1, useFID, overrideSTP, forwardingPorts(data[1]), mac48(data[2:8]))
		printed++
	}
	fmt.Fprintln(w, "\n==== END OF STATIC MAC TABLE ====")
	return true
}

// ShowDynamicMACTable walks the dynamic-MAC-table's reported entry count
// (re-read every iteration, since the table can shrink mid-walk) and prints
// each entry, matching COM_ShowDynamicMACTable.
func ShowDynamicMACTable(w io.Writer, dev *hal.Device) bool {
	const reg6EBase = 0x18 // read(bit4=1) | table-select DynamicMAC(10) at bits [3:2]
	totalEntries := uint16(0x400)
	printed := 0

	for entry := uint16(0); entry < totalEntries; entry++ {
		if err := setIndirectWindow(dev, reg6EBase, entry); err != nil {
			return false
		}
		data, err := dev.CtrlBulkRead(hal.IndirectDataReg8, 9)
		if err != nil {
			return false
		}
		if data[0]>>7&1 != 0 {
			fmt.Fprintln(w, "\n==== NO ENTRIES FOUND IN DYNAMIC MAC TABLE ====")
			return true
		}
		totalEntries = (uint16(data[0]&0x7F)<<3 | uint16(data[1]&0xE0)>>5) + 1
		if entry > totalEntries {
			fmt.Fprintln(w, "\n==== END OF TABLE ====")
			return true
		}
		if printed == 0 {
			fmt.Fprintln(w, "\n\t== MAC ADDRESS ==\t == SOURCE PORT ==\t == FILTER ID ==")
		}
		fmt.Fprintf(w, "\t%s\t\t%s\t\t\t%d\n", mac48(data[3:9]), sourcePortName(data[1]&0x07), data[2]&0x7F)
		printed++
	}
	fmt.Fprintln(w, "\n==== END OF DYNAMIC MAC TABLE ====")
	return true
}
