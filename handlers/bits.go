// Package handlers implements the command-handler contract shared by the
// CLI and the I²C dispatcher (spec §4.3/§4.4): a handler takes an
// accumulated parameter buffer and returns a boolean success signal.
package handlers

import (
	"switchcore/hal"
)

// Handler is the contract every CLI terminal node and I²C code-table entry
// invokes.
type Handler func(params []byte) bool

// maxBitRetries bounds set-bit/clear-bit/self-clearing-bit polling, per
// spec §4.5 ("up to 10 retries").
const maxBitRetries = 10

// shortDelay is the cooperative yield between poll attempts (~5ms class,
// per spec §5's three cooperative delay tiers).
var shortDelay = func() { cooperativeSleep(shortDelayMS) }

// SetBit sets bit in the register at base+offset and polls for the write
// to stick, failing after maxBitRetries.
func SetBit(dev *hal.Device, base hal.PortOffset, offset uint8, bit uint) bool {
	err := dev.CtrlSetBit(hal.Reg(base, offset), bit, maxBitRetries, shortDelay)
	return err == nil
}

// ClearBit is SetBit's complement.
func ClearBit(dev *hal.Device, base hal.PortOffset, offset uint8, bit uint) bool {
	err := dev.CtrlClearBit(hal.Reg(base, offset), bit, maxBitRetries, shortDelay)
	return err == nil
}

// SelfClearingBit sets bit then polls until the device clears it itself,
// the pattern the diagnostic-start and MAC-flush bits both use.
func SelfClearingBit(dev *hal.Device, reg uint8, bit uint) bool {
	v, err := dev.CtrlRead(reg)
	if err != nil {
		return false
	}
	if err := dev.CtrlWrite(reg, v|1<<bit); err != nil {
		return false
	}
	return dev.CtrlWaitSelfClearing(reg, bit, maxBitRetries, shortDelay) == nil
}
