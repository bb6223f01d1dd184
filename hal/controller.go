package hal

import (
	"sync"

	"switchcore/errcode"
)

// ctrlChannel is the switch controller's CS-bracketed SPI transaction
// primitive, same shape as eepromChannel but a separate type so the two
// devices can never accidentally share a transport or a mutex.
type ctrlChannel interface {
	transact(w []byte) ([]byte, error)
}

// Switch-controller SPI opcodes, ported from the KSZ8895MLUB command set
// referenced throughout command_functions.c (read/write single register).
const (
	ctrlOpRead  = 0x60
	ctrlOpWrite = 0x40
)

type ctrl struct {
	ch ctrlChannel
	mu sync.Mutex
}

// CtrlRead returns the byte at a single controller register.
func (d *Device) CtrlRead(reg uint8) (byte, error) {
	d.ctrl.mu.Lock()
	defer d.ctrl.mu.Unlock()

	r, err := d.ctrl.ch.transact([]byte{ctrlOpRead, reg, 0x00})
	if err != nil {
		return 0, wrapDriverErr("hal.CtrlRead", err)
	}
	d.logCode(logCodeCtrlRead)
	return r[len(r)-1], nil
}

// CtrlBulkRead fills out with n consecutive registers starting at start.
func (d *Device) CtrlBulkRead(start uint8, n int) ([]byte, error) {
	d.ctrl.mu.Lock()
	defer d.ctrl.mu.Unlock()

	w := make([]byte, n+2)
	w[0] = ctrlOpRead
	w[1] = start
	r, err := d.ctrl.ch.transact(w)
	if err != nil {
		return nil, wrapDriverErr("hal.CtrlBulkRead", err)
	}
	d.logCode(logCodeCtrlRead)
	out := make([]byte, n)
	copy(out, r[2:])
	return out, nil
}

// CtrlWrite writes a single controller register with no readback verify:
// the controller itself asserts self-clearing/status bits, so a verify
// loop is the caller's responsibility when one is actually needed (§4.1).
func (d *Device) CtrlWrite(reg uint8, b byte) error {
	d.ctrl.mu.Lock()
	defer d.ctrl.mu.Unlock()

	if _, err := d.ctrl.ch.transact([]byte{ctrlOpWrite, reg, b}); err != nil {
		return wrapDriverErr("hal.CtrlWrite", err)
	}
	d.logCode(logCodeCtrlWrite)
	return nil
}

// CtrlSetBit and CtrlClearBit implement the set-bit/clear-bit handler
// pattern from §4.5: read-modify-write followed by a bounded poll-verify.
func (d *Device) CtrlSetBit(reg uint8, bit uint, retries int, delay func()) error {
	return d.ctrlPollBit(reg, bit, true, retries, delay)
}

func (d *Device) CtrlClearBit(reg uint8, bit uint, retries int, delay func()) error {
	return d.ctrlPollBit(reg, bit, false, retries, delay)
}

func (d *Device) ctrlPollBit(reg uint8, bit uint, want bool, retries int, delay func()) error {
	for attempt := 0; attempt <= retries; attempt++ {
		v, err := d.CtrlRead(reg)
		if err != nil {
			return err
		}
		set := v&(1<<bit) != 0
		if set == want && attempt > 0 {
			return nil
		}
		if set != want {
			if want {
				v |= 1 << bit
			} else {
				v &^= 1 << bit
			}
			if err := d.CtrlWrite(reg, v); err != nil {
				return err
			}
		}
		v2, err := d.CtrlRead(reg)
		if err != nil {
			return err
		}
		if (v2&(1<<bit) != 0) == want {
			return nil
		}
		if delay != nil {
			delay()
		}
	}
	return &errcode.E{C: errcode.TransientDeviceError, Op: "hal.ctrlPollBit", Msg: "retry exhaustion"}
}

// CtrlWaitSelfClearing polls reg until bit reads zero, bounded by retries.
// Used by self-clearing-bit handlers (diagnostic-start, MAC-flush).
func (d *Device) CtrlWaitSelfClearing(reg uint8, bit uint, retries int, delay func()) error {
	for attempt := 0; attempt <= retries; attempt++ {
		v, err := d.CtrlRead(reg)
		if err != nil {
			return err
		}
		if v&(1<<bit) == 0 {
			return nil
		}
		if delay != nil {
			delay()
		}
	}
	return &errcode.E{C: errcode.TransientDeviceError, Op: "hal.CtrlWaitSelfClearing", Msg: "retry exhaustion"}
}
