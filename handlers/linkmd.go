package handlers

import (
	"math"

	"switchcore/hal"
	"switchcore/x/mathx"
)

// CableState is the LinkMD result's 2-bit cable-state field.
type CableState int

const (
	CableNormal CableState = iota
	CableOpen
	CableShort
	CableFail
)

func (s CableState) String() string {
	switch s {
	case CableNormal:
		return "Normal"
	case CableOpen:
		return "Open"
	case CableShort:
		return "Short"
	default:
		return "Fail"
	}
}

// LinkMDResult reports the diagnostic outcome, per spec §4.5.
type LinkMDResult struct {
	State    CableState
	Distance int
}

const (
	linkMDDiagStartBit = 0
	linkMDAutoNegBit   = 7 // port-control4 auto-negotiation enable
	linkMDAutoMDIXBit  = 2 // port-control4 auto-MDI/X disable-sense bit
)

// RunLinkMD performs the cable-diagnostics sequence exactly as spec §4.5
// describes: disable auto-neg/auto-MDI-X, start the diagnostic, poll until
// it clears, read cable-state and distance, compute the fault distance,
// restore auto-neg/auto-MDI-X.
func RunLinkMD(dev *hal.Device, base hal.PortOffset) (LinkMDResult, bool) {
	ctrl4Reg := hal.Reg(base, hal.PortControl4Offset)

	ctrl4, err := dev.CtrlRead(ctrl4Reg)
	if err != nil {
		return LinkMDResult{}, false
	}
	savedCtrl4 := ctrl4
	ctrl4 = ctrl4 &^ (1 << linkMDAutoNegBit) &^ (1 << linkMDAutoMDIXBit)
	if err := dev.CtrlWrite(ctrl4Reg, ctrl4); err != nil {
		return LinkMDResult{}, false
	}

	if !SelfClearingBit(dev, hal.Reg(base, hal.PortLinkMD0Offset), linkMDDiagStartBit) {
		dev.CtrlWrite(ctrl4Reg, savedCtrl4)
		return LinkMDResult{}, false
	}

	md0, err := dev.CtrlRead(hal.Reg(base, hal.PortLinkMD0Offset))
	if err != nil {
		dev.CtrlWrite(ctrl4Reg, savedCtrl4)
		return LinkMDResult{}, false
	}
	md1, err := dev.CtrlRead(hal.Reg(base, hal.PortLinkMD1Offset))
	if err != nil {
		dev.CtrlWrite(ctrl4Reg, savedCtrl4)
		return LinkMDResult{}, false
	}

	state := CableState((md0 >> 6) & 0x03)
	rawDistance := int((uint16(md0&0x1F) << 8) | uint16(md1))
	distance := mathx.Clamp(int(math.Round(0.4*float64(rawDistance-26))), 0, 200)

	if err := dev.CtrlWrite(ctrl4Reg, savedCtrl4); err != nil {
		return LinkMDResult{}, false
	}

	return LinkMDResult{State: state, Distance: distance}, true
}
