//go:build rp2040 || rp2350

package hal

import (
	"machine"

	"tinygo.org/x/drivers"
)

// realController bridges the CS-bracketed transact() primitive onto a
// shared SPI bus plus the controller's own chip-select GPIO, matching
// EthoControllerSingleRead/Write's SSI base/pin arguments in the original
// firmware.
type realController struct {
	spi drivers.SPI
	cs  machine.Pin
}

// NewControllerChannel constructs the rp2040 switch-controller transport.
func NewControllerChannel(spi drivers.SPI, cs machine.Pin) ctrlChannel {
	return &realController{spi: spi, cs: cs}
}

func (c *realController) transact(w []byte) ([]byte, error) {
	r := make([]byte, len(w))
	c.cs.Low()
	err := c.spi.Tx(w, r)
	c.cs.High()
	return r, err
}
