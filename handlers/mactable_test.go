package handlers

import (
	"strings"
	"testing"

	"switchcore/hal"
)

func TestShowStaticMACTableReportsNoEntriesOnFreshController(t *testing.T) {
	dev := hal.New(hal.NewSimEEPROM(), hal.NewSimController(), nil)
	var out strings.Builder

	if !ShowStaticMACTable(&out, dev) {
		t.Fatal("ShowStaticMACTable returned false")
	}
	if !strings.Contains(out.String(), "NO ENTRIES FOUND IN STATIC MAC TABLE") {
		t.Errorf("output = %q, want the empty-table report", out.String())
	}
}

func TestShowStaticMACTableReportsOneValidEntry(t *testing.T) {
	dev := hal.New(hal.NewSimEEPROM(), hal.NewSimController(), nil)

	const reg6EBase = 0x10
	if err := setIndirectWindow(dev, reg6EBase, 0); err != nil {
		t.Fatalf("setIndirectWindow: %v", err)
	}
	writes := map[uint8]byte{
		hal.IndirectDataReg7: 0x07, // filter id 3, useFID true
		hal.IndirectDataReg6: 0x23, // valid, forwarding f0+exp-port
		hal.IndirectDataReg5: 0xAA,
		hal.IndirectDataReg4: 0xBB,
		hal.IndirectDataReg3: 0xCC,
		hal.IndirectDataReg2: 0xDD,
		hal.IndirectDataReg1: 0xEE,
		hal.IndirectDataReg0: 0xFF,
	}
	for reg, val := range writes {
		if err := dev.CtrlWrite(reg, val); err != nil {
			t.Fatalf("CtrlWrite(%#x): %v", reg, err)
		}
	}

	var out strings.Builder
	if !ShowStaticMACTable(&out, dev) {
		t.Fatal("ShowStaticMACTable returned false")
	}
	got := out.String()
	for _, want := range []string{"== FILTER ID ==", "3\tTRUE\tNO", "f0", "exp-port", "AA:BB:CC:DD:EE:FF", "END OF STATIC MAC TABLE"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q, got %q", want, got)
		}
	}
}

func TestShowDynamicMACTableReportsNoEntries(t *testing.T) {
	dev := hal.New(hal.NewSimEEPROM(), hal.NewSimController(), nil)

	const reg6EBase = 0x18
	if err := setIndirectWindow(dev, reg6EBase, 0); err != nil {
		t.Fatalf("setIndirectWindow: %v", err)
	}
	if err := dev.CtrlWrite(hal.IndirectDataReg8, 0x80); err != nil {
		t.Fatalf("CtrlWrite: %v", err)
	}

	var out strings.Builder
	if !ShowDynamicMACTable(&out, dev) {
		t.Fatal("ShowDynamicMACTable returned false")
	}
	if !strings.Contains(out.String(), "NO ENTRIES FOUND IN DYNAMIC MAC TABLE") {
		t.Errorf("output = %q, want the empty-table report", out.String())
	}
}

func TestSourcePortNameAndForwardingPorts(t *testing.T) {
	cases := []struct {
		code byte
		want string
	}{
		{0x00, "f3"}, {0x01, "f2"}, {0x02, "f1"}, {0x03, "f0"}, {0x07, "exp-port"},
	}
	for _, c := range cases {
		if got := sourcePortName(c.code); got != c.want {
			t.Errorf("sourcePortName(%#x) = %q, want %q", c.code, got, c.want)
		}
	}

	if got := forwardingPorts(0x1F); !strings.Contains(got, "f3") || !strings.Contains(got, "exp-port") {
		t.Errorf("forwardingPorts(0x1F) = %q, want all ports mentioned", got)
	}
}
