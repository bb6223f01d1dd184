package hal

import (
	"sync"
	"time"

	"switchcore/errcode"
)

// eepromChannel is the CS-bracketed SPI transaction primitive the EEPROM
// operations are built on: w is clocked out while simultaneously clocking in
// len(w) bytes, exactly like tinygo.org/x/drivers.SPI.Tx(w, r) with r sized
// to match w. Real hardware asserts chip-select for the call's duration;
// the host fake just indexes into an in-memory image.
type eepromChannel interface {
	transact(w []byte) ([]byte, error)
}

// Microchip 25AA1024-family opcodes (128 KiB SPI EEPROM), matching the part
// named in the original firmware's eee_hal.c.
const (
	opWREN  = 0x06
	opWRDI  = 0x04
	opRDSR  = 0x05
	opWRSR  = 0x01
	opREAD  = 0x03
	opWRITE = 0x02
	opPE    = 0x42 // page erase
	opCE    = 0xC7 // chip erase
)

const (
	eepromCapacity   = 131072 // 128 KiB, 17-bit addressing
	eepromPageSize   = 256
	statusWIPBit     = 0
	writeSettleDelay = 5 * time.Millisecond
	erasePollDelay   = 5 * time.Millisecond
)

type eeprom struct {
	ch eepromChannel
	mu sync.Mutex
}

func addrBytes(addr uint32) [3]byte {
	return [3]byte{byte(addr >> 16), byte(addr >> 8), byte(addr)}
}

// SingleWrite writes one inverted byte at addr and verifies it by readback,
// exactly as eee_hal.c's EEPROMSingleWrite: write-enable, write, settle,
// read back, compare. A mismatch logs an IOException and returns
// TransientDeviceError; the inversion (^0xFF) is the bit-exact-migration
// invariant from spec §4.1 and must never be skipped.
func (d *Device) SingleWrite(addr uint32, b byte) error {
	if addr >= eepromCapacity {
		return &errcode.E{C: errcode.OutOfRangeInput, Op: "hal.SingleWrite"}
	}
	d.eeprom.mu.Lock()
	defer d.eeprom.mu.Unlock()

	ab := addrBytes(addr)
	if err := d.eepromWriteEnable(); err != nil {
		return wrapDriverErr("hal.SingleWrite", err)
	}
	inverted := b ^ 0xFF
	w := []byte{opWRITE, ab[0], ab[1], ab[2], inverted}
	if _, err := d.eeprom.ch.transact(w); err != nil {
		return wrapDriverErr("hal.SingleWrite", err)
	}
	time.Sleep(writeSettleDelay)

	got, err := d.singleReadLocked(addr)
	if err != nil {
		return wrapDriverErr("hal.SingleWrite", err)
	}
	if got != b {
		d.logIOException()
		return &errcode.E{C: errcode.TransientDeviceError, Op: "hal.SingleWrite", Msg: "readback verify mismatch"}
	}
	d.logCode(logCodeEEPROMWrite)
	return nil
}

// SingleRead returns the logical (un-inverted) byte stored at addr.
func (d *Device) SingleRead(addr uint32) (byte, error) {
	if addr >= eepromCapacity {
		return 0, &errcode.E{C: errcode.OutOfRangeInput, Op: "hal.SingleRead"}
	}
	d.eeprom.mu.Lock()
	defer d.eeprom.mu.Unlock()

	b, err := d.singleReadLocked(addr)
	if err != nil {
		return 0, wrapDriverErr("hal.SingleRead", err)
	}
	d.logCode(logCodeEEPROMRead)
	return b, nil
}

// singleReadLocked assumes the EEPROM mutex is already held, used both by
// the public SingleRead and by SingleWrite's own verify step.
func (d *Device) singleReadLocked(addr uint32) (byte, error) {
	ab := addrBytes(addr)
	w := []byte{opREAD, ab[0], ab[1], ab[2], 0x00}
	r, err := d.eeprom.ch.transact(w)
	if err != nil {
		return 0, err
	}
	return r[len(r)-1] ^ 0xFF, nil
}

// BulkWrite writes data starting at start, one SingleWrite per byte,
// stopping (and having already logged) at the first failure.
func (d *Device) BulkWrite(start uint32, data []byte) error {
	if start >= eepromCapacity || uint64(start)+uint64(len(data)) > eepromCapacity {
		return &errcode.E{C: errcode.OutOfRangeInput, Op: "hal.BulkWrite"}
	}
	for i, b := range data {
		if err := d.SingleWrite(start+uint32(i), b); err != nil {
			return err
		}
	}
	return nil
}

// BulkRead fills out starting at start, symmetric bounds check to BulkWrite.
func (d *Device) BulkRead(start uint32, out []byte) error {
	if start >= eepromCapacity || uint64(start)+uint64(len(out)) > eepromCapacity {
		return &errcode.E{C: errcode.OutOfRangeInput, Op: "hal.BulkRead"}
	}
	for i := range out {
		b, err := d.SingleRead(start + uint32(i))
		if err != nil {
			return err
		}
		out[i] = b
	}
	return nil
}

// PageErase erases the 256-byte page containing pageAddr and polls the
// status register's WIP bit until the device reports completion.
func (d *Device) PageErase(pageAddr uint32) error {
	if pageAddr >= eepromCapacity {
		return &errcode.E{C: errcode.OutOfRangeInput, Op: "hal.PageErase"}
	}
	d.eeprom.mu.Lock()
	defer d.eeprom.mu.Unlock()

	if err := d.eepromWriteEnable(); err != nil {
		return wrapDriverErr("hal.PageErase", err)
	}
	ab := addrBytes(pageAddr)
	if _, err := d.eeprom.ch.transact([]byte{opPE, ab[0], ab[1], ab[2]}); err != nil {
		return wrapDriverErr("hal.PageErase", err)
	}
	if err := d.pollWIPLocked(); err != nil {
		return wrapDriverErr("hal.PageErase", err)
	}
	return nil
}

// ChipErase erases the entire device and returns after a conservative
// fixed settle, matching eee_hal.c's lack of a WIP poll on this path.
func (d *Device) ChipErase() error {
	d.eeprom.mu.Lock()
	defer d.eeprom.mu.Unlock()

	if err := d.eepromWriteEnable(); err != nil {
		return wrapDriverErr("hal.ChipErase", err)
	}
	if _, err := d.eeprom.ch.transact([]byte{opCE}); err != nil {
		return wrapDriverErr("hal.ChipErase", err)
	}
	time.Sleep(100 * time.Millisecond)
	return nil
}

func (d *Device) eepromWriteEnable() error {
	_, err := d.eeprom.ch.transact([]byte{opWREN})
	return err
}

func (d *Device) pollWIPLocked() error {
	for {
		r, err := d.eeprom.ch.transact([]byte{opRDSR, 0x00})
		if err != nil {
			return err
		}
		status := r[len(r)-1]
		if status&(1<<statusWIPBit) == 0 {
			return nil
		}
		time.Sleep(erasePollDelay)
	}
}
