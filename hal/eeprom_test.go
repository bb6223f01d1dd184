package hal

import "testing"

func newTestEEPROMDevice() *Device {
	return New(NewSimEEPROM(), NewSimController(), nil)
}

func TestFreshEEPROMReadsAsErasedZero(t *testing.T) {
	d := newTestEEPROMDevice()
	b, err := d.SingleRead(0x1234)
	if err != nil {
		t.Fatalf("SingleRead: %v", err)
	}
	if b != 0x00 {
		t.Errorf("SingleRead on an untouched address = %#x, want 0x00 (matching a factory-erased chip)", b)
	}
}

func TestSingleWriteReadRoundTrip(t *testing.T) {
	d := newTestEEPROMDevice()
	if err := d.SingleWrite(0x10, 0x5A); err != nil {
		t.Fatalf("SingleWrite: %v", err)
	}
	got, err := d.SingleRead(0x10)
	if err != nil {
		t.Fatalf("SingleRead: %v", err)
	}
	if got != 0x5A {
		t.Errorf("SingleRead after SingleWrite(0x5A) = %#x, want 0x5A", got)
	}
}

func TestSingleWriteRejectsOutOfRangeAddress(t *testing.T) {
	d := newTestEEPROMDevice()
	if err := d.SingleWrite(eepromCapacity, 0x01); err == nil {
		t.Error("SingleWrite at capacity should be rejected")
	}
}

func TestSingleReadRejectsOutOfRangeAddress(t *testing.T) {
	d := newTestEEPROMDevice()
	if _, err := d.SingleRead(eepromCapacity); err == nil {
		t.Error("SingleRead at capacity should be rejected")
	}
}

func TestBulkWriteReadRoundTrip(t *testing.T) {
	d := newTestEEPROMDevice()
	data := []byte{0x01, 0x02, 0x03, 0x04}
	if err := d.BulkWrite(0x40, data); err != nil {
		t.Fatalf("BulkWrite: %v", err)
	}
	out := make([]byte, len(data))
	if err := d.BulkRead(0x40, out); err != nil {
		t.Fatalf("BulkRead: %v", err)
	}
	for i := range data {
		if out[i] != data[i] {
			t.Errorf("out[%d] = %#x, want %#x", i, out[i], data[i])
		}
	}
}

func TestBulkWriteRejectsOverflowingRange(t *testing.T) {
	d := newTestEEPROMDevice()
	if err := d.BulkWrite(eepromCapacity-2, make([]byte, 4)); err == nil {
		t.Error("BulkWrite spanning past capacity should be rejected")
	}
}

func TestPageEraseResetsPageToLogicalZero(t *testing.T) {
	d := newTestEEPROMDevice()
	if err := d.SingleWrite(0x300, 0x77); err != nil {
		t.Fatalf("SingleWrite: %v", err)
	}
	if err := d.PageErase(0x300); err != nil {
		t.Fatalf("PageErase: %v", err)
	}
	got, err := d.SingleRead(0x300)
	if err != nil {
		t.Fatalf("SingleRead: %v", err)
	}
	if got != 0x00 {
		t.Errorf("SingleRead after PageErase = %#x, want 0x00", got)
	}
}

func TestPageEraseOnlyAffectsItsOwnPage(t *testing.T) {
	d := newTestEEPROMDevice()
	if err := d.SingleWrite(0x300, 0x11); err != nil {
		t.Fatalf("SingleWrite: %v", err)
	}
	if err := d.SingleWrite(0x400, 0x22); err != nil { // next 256-byte page
		t.Fatalf("SingleWrite: %v", err)
	}
	if err := d.PageErase(0x300); err != nil {
		t.Fatalf("PageErase: %v", err)
	}
	got, err := d.SingleRead(0x400)
	if err != nil {
		t.Fatalf("SingleRead: %v", err)
	}
	if got != 0x22 {
		t.Errorf("SingleRead(0x400) after erasing page at 0x300 = %#x, want unaffected 0x22", got)
	}
}

func TestChipEraseResetsEverythingToLogicalZero(t *testing.T) {
	d := newTestEEPROMDevice()
	if err := d.SingleWrite(0x00, 0x99); err != nil {
		t.Fatalf("SingleWrite: %v", err)
	}
	if err := d.SingleWrite(0x5000, 0x88); err != nil {
		t.Fatalf("SingleWrite: %v", err)
	}
	if err := d.ChipErase(); err != nil {
		t.Fatalf("ChipErase: %v", err)
	}
	for _, addr := range []uint32{0x00, 0x5000} {
		got, err := d.SingleRead(addr)
		if err != nil {
			t.Fatalf("SingleRead: %v", err)
		}
		if got != 0x00 {
			t.Errorf("SingleRead(%#x) after ChipErase = %#x, want 0x00", addr, got)
		}
	}
}
