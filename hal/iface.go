// Package hal serializes all SPI access to the two devices this firmware
// owns: the 128 KiB serial EEPROM and the switch controller. Every exported
// operation acquires the owning channel's mutex for the full transaction,
// grounded on eee_hal.c's xSemaphoreTake/xSemaphoreGive bracketing and on
// the teacher's per-resource exclusion pattern (bus.Bus.mu held for the
// duration of a trie mutation).
package hal

import (
	"switchcore/bus"
	"switchcore/errcode"
)

// spiPort is the minimal transaction primitive both the EEPROM and the
// switch-controller channels need. tinygo.org/x/drivers.SPI (Tx(w, r
// []byte) error) satisfies this on real hardware; the host build supplies
// an in-memory fake instead.
type spiPort interface {
	Tx(w, r []byte) error
}

// LogTopic is the bus topic every successful device touch publishes a
// one-byte event code to. eventlog.Logger is the sole subscriber in
// production wiring, but nothing in this package assumes that — publishing
// on a topic with no subscriber is simply dropped, which is the "writers
// enqueue non-blockingly; if the task isn't running, the code is dropped"
// rule from spec §4.7.
var LogTopic = bus.T("log", "enqueue")

// Device owns both SPI channels plus the bus connection used to fan out
// read/write-op log codes. Zero value is not usable; construct with New.
type Device struct {
	eeprom eeprom
	ctrl   ctrl
	log    *bus.Connection
}

// New wires a Device around already-constructed channel transports and a
// bus connection used purely for log fan-out.
func New(eepromCh eepromChannel, ctrlCh ctrlChannel, log *bus.Connection) *Device {
	return &Device{
		eeprom: eeprom{ch: eepromCh},
		ctrl:   ctrl{ch: ctrlCh},
		log:    log,
	}
}

func (d *Device) logCode(code uint8) {
	if d.log == nil {
		return
	}
	d.log.Publish(d.log.NewMessage(LogTopic, code, false))
}

// logIOException is used on the one failure path spec §4.1 calls out
// explicitly: an EEPROM write-verify mismatch.
func (d *Device) logIOException() { d.logCode(logCodeIOException) }

// Event codes the HAL itself is responsible for. The full taxonomy
// (UserLoggedIn, VLANChanged, etc.) lives in eventlog; the HAL only needs
// these five because they're the only ones §4.1 and §4.7 attribute to it.
const (
	logCodeEEPROMRead    uint8 = 0x01
	logCodeEEPROMWrite   uint8 = 0x02
	logCodeCtrlRead      uint8 = 0x03
	logCodeCtrlWrite     uint8 = 0x04
	logCodeIOException   uint8 = 0x05
)

// wrapDriverErr turns a low-level transport error into the taxonomy's
// TransientDeviceError, per errcode.MapDriverErr.
func wrapDriverErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &errcode.E{C: errcode.MapDriverErr(err), Op: op, Err: err}
}
