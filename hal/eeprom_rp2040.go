//go:build rp2040 || rp2350

package hal

import (
	"machine"

	"tinygo.org/x/drivers"
)

// realEEPROM bridges the CS-bracketed transact() primitive onto a shared
// tinygo.org/x/drivers.SPI bus plus a dedicated chip-select GPIO, mirroring
// how the original firmware's EthoControllerSingleRead/Write take explicit
// SSI base/pin arguments per device.
type realEEPROM struct {
	spi drivers.SPI
	cs  machine.Pin
}

// NewEEPROMChannel constructs the rp2040 EEPROM transport over spi, with cs
// as the dedicated EEPROM chip-select pin (already configured as output).
func NewEEPROMChannel(spi drivers.SPI, cs machine.Pin) eepromChannel {
	return &realEEPROM{spi: spi, cs: cs}
}

func (e *realEEPROM) transact(w []byte) ([]byte, error) {
	r := make([]byte, len(w))
	e.cs.Low()
	err := e.spi.Tx(w, r)
	e.cs.High()
	return r, err
}
