package handlers

import (
	"fmt"
	"io"

	"switchcore/hal"
)

// ShowPortStatus prints the live register-derived state of one port: link
// up/down, speed, duplex, and VLAN membership, grounded on
// COM_ShowPortStatus / ShowPortStatus's PortConfigMappings walk, simplified
// to the fields spec §4.5 actually calls out rather than every mapped bit.
func ShowPortStatus(w io.Writer, dev *hal.Device, base hal.PortOffset, label string) bool {
	status1, err := dev.CtrlRead(hal.Reg(base, hal.PortStatus1Offset))
	if err != nil {
		return false
	}
	ctrl5, err := dev.CtrlRead(hal.Reg(base, hal.PortControl5Offset))
	if err != nil {
		return false
	}
	ctrl1, err := dev.CtrlRead(hal.Reg(base, hal.PortControl1Offset))
	if err != nil {
		return false
	}
	ctrl6, err := dev.CtrlRead(hal.Reg(base, hal.PortControl6Offset))
	if err != nil {
		return false
	}

	link := "down"
	if status1>>5&1 != 0 {
		link = "up"
	}
	speed := "10BaseT"
	if ctrl5>>6&1 != 0 {
		speed = "100BaseTX"
	}
	duplex := "half"
	if ctrl5>>5&1 != 0 {
		duplex = "full"
	}
	enabled := "enabled"
	if ctrl6>>3&1 != 0 {
		enabled = "disabled"
	}

	fmt.Fprintf(w, "Configuration for <%s>\n", label)
	fmt.Fprintf(w, "  Link:       %s\n", link)
	fmt.Fprintf(w, "  Admin:      %s\n", enabled)
	fmt.Fprintf(w, "  Speed:      %s\n", speed)
	fmt.Fprintf(w, "  Duplex:     %s\n", duplex)
	fmt.Fprintf(w, "  Membership: 0x%02X\n", ctrl1&0x1F)
	return true
}

// ShowGlobalStatus prints the chip-wide settings gated by system-command
// toggles (rapid-link-aging, large-packets, power-saving, led-mode),
// grounded on ShowGlobalStatus's register dump.
func ShowGlobalStatus(w io.Writer, dev *hal.Device) bool {
	gc0, err := dev.CtrlRead(hal.GlobalControl0)
	if err != nil {
		return false
	}
	gc1, err := dev.CtrlRead(hal.GlobalControl1)
	if err != nil {
		return false
	}
	gc9, err := dev.CtrlRead(hal.GlobalControl9)
	if err != nil {
		return false
	}

	fmt.Fprintf(w, "  Rapid link aging: %s\n", onOff(gc0&1 != 0))
	fmt.Fprintf(w, "  Large packets:    %s\n", onOff(gc1>>6&1 != 0))
	fmt.Fprintf(w, "  Power saving:     %s\n", onOff(gc9>>3&1 == 0))
	fmt.Fprintf(w, "  LED mode:         %d\n", gc9>>1&1)
	return true
}

func onOff(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}
