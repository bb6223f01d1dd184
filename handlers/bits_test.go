package handlers

import (
	"testing"

	"switchcore/hal"
)

func TestSetBitThenClearBit(t *testing.T) {
	dev := hal.New(hal.NewSimEEPROM(), hal.NewSimController(), nil)

	if !SetBit(dev, hal.Port1Offset, hal.PortControl2Offset, 3) {
		t.Fatal("SetBit failed")
	}
	v, err := dev.CtrlRead(hal.Reg(hal.Port1Offset, hal.PortControl2Offset))
	if err != nil {
		t.Fatalf("CtrlRead: %v", err)
	}
	if v&(1<<3) == 0 {
		t.Error("bit 3 should be set")
	}

	if !ClearBit(dev, hal.Port1Offset, hal.PortControl2Offset, 3) {
		t.Fatal("ClearBit failed")
	}
	v, err = dev.CtrlRead(hal.Reg(hal.Port1Offset, hal.PortControl2Offset))
	if err != nil {
		t.Fatalf("CtrlRead: %v", err)
	}
	if v&(1<<3) != 0 {
		t.Error("bit 3 should be cleared")
	}
}

func TestSelfClearingBitSucceedsOnFlushBit(t *testing.T) {
	dev := hal.New(hal.NewSimEEPROM(), hal.NewSimController(), nil)

	if !SelfClearingBit(dev, hal.GlobalControl0, hal.GlobalControl0FlushBit) {
		t.Fatal("SelfClearingBit should succeed against the simulator's self-clearing flush bit")
	}
}

func TestSelfClearingBitFailsOnNonSelfClearingRegister(t *testing.T) {
	dev := hal.New(hal.NewSimEEPROM(), hal.NewSimController(), nil)

	if SelfClearingBit(dev, hal.GlobalControl1, 0) {
		t.Error("SelfClearingBit should fail against a register the simulator never auto-clears")
	}
}
