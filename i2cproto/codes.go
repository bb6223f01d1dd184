package i2cproto

import (
	"switchcore/eventlog"
	"switchcore/handlers"
	"switchcore/hal"
	"switchcore/persistence"
	"switchcore/sysstate"
)

// portBlockBase is the per-block port offset, indexed by quick-control
// block number (0 => codes 0x10-0x1F, ... 3 => codes 0x40-0x4F). The I²C
// block numbering runs opposite to the register offset: i2c_task.h's
// PORT1_OFFSET_HEX (block 0) resolves to ETHO_PORT4_HARDWARE_HEX (0x40),
// the same inversion portmap reproduces for the CLI's f0..f3 naming.
var portBlockBase = [4]hal.PortOffset{
	hal.Port4Offset,
	hal.Port3Offset,
	hal.Port2Offset,
	hal.Port1Offset,
}

// asByte adapts a handlers.Handler (bool success) to the I²C dispatcher's
// HandlerFunc (byte return), mapping true/false to 1/0 as the original's
// I2C_SetBitEthernetController family does by returning a plain bool cast
// to its wire byte.
func asByte(h handlers.Handler) HandlerFunc {
	return func(params []byte) byte {
		if h(params) {
			return 1
		}
		return 0
	}
}

// BuildTable constructs the full 256-entry code table (§4.4), wiring
// administrative codes 0x00-0x0F and the four 16-entry per-port
// quick-control blocks (0x10-0x4F) to the same handlers the CLI tree
// calls, grounded on i2c_task.h's I2C_Mappings table.
func BuildTable(dev *hal.Device, st *sysstate.State, logger *eventlog.Logger) *Table {
	t := NewTable()
	registerAdminCodes(t, dev, st, logger)
	for block, base := range portBlockBase {
		registerPortBlock(t, dev, uint8(0x10+block*0x10), base)
	}
	return t
}

// registerAdminCodes wires 0x00-0x03, grounded on I2C_WriteReadFromEthernetController,
// I2C_SaveSwitchConfiguration, and I2C_ClearSwitchConfiguration.
// I2C_DownloadSwitchConfiguration (0x02) streams all 256 controller
// registers back over the wire one at a time; that doesn't fit this
// dispatcher's single-return-byte Transport contract (see dispatcher.go's
// Transport doc), so it is left at its unimplemented default rather than
// faked. 0x04-0x0F have no I2C_Mappings entry in the original either.
func registerAdminCodes(t *Table, dev *hal.Device, st *sysstate.State, logger *eventlog.Logger) {
	t.Register(0x00, 0, 3, 1, nil, func(params []byte) byte {
		reg, data, write := params[0], params[1], params[2] != 0
		if write {
			if err := dev.CtrlWrite(reg, data); err != nil {
				return 0
			}
			return data
		}
		v, err := dev.CtrlRead(reg)
		if err != nil {
			return 0
		}
		return v
	})

	t.Register(0x01, 0, 0, 1, nil, asByte(func(params []byte) bool {
		return persistence.SaveConfig(dev, st, logger, nil) == nil
	}))

	t.Register(0x03, 0, 0, 1, nil, asByte(func(params []byte) bool {
		return persistence.ClearSavedConfig(dev, st) == nil
	}))
}

// registerPortBlock wires one port's 16-entry quick-control block
// (on/off, duplex, speed, auto-MDIX, auto-neg restart, TX/RX gating),
// grounded on i2c_task.h's per-port I2C_Mappings rows 0x?0-0x?C. Slots
// 0x?D-0x?F (diagnostics, VLAN, status) are I2CNotImplementedFunction in
// the original too and stay at their unimplemented default.
func registerPortBlock(t *Table, dev *hal.Device, codeBase uint8, base hal.PortOffset) {
	set := func(offset uint8, bit uint) HandlerFunc {
		return asByte(func(params []byte) bool { return handlers.SetBit(dev, base, offset, bit) })
	}
	clear := func(offset uint8, bit uint) HandlerFunc {
		return asByte(func(params []byte) bool { return handlers.ClearBit(dev, base, offset, bit) })
	}
	selfClearing := func(offset uint8, bit uint) HandlerFunc {
		return asByte(func(params []byte) bool { return handlers.SelfClearingBit(dev, hal.Reg(base, offset), bit) })
	}

	reg := func(code uint8, h HandlerFunc) { t.Register(codeBase+code, 3, 0, 1, nil, h) }

	reg(0x00, clear(hal.PortControl6Offset, 3)) // port on
	reg(0x01, set(hal.PortControl6Offset, 3))   // port off
	reg(0x02, set(hal.PortControl5Offset, 5))   // full-duplex
	reg(0x03, clear(hal.PortControl5Offset, 5)) // half-duplex
	reg(0x04, clear(hal.PortControl5Offset, 6)) // 10BaseT
	reg(0x05, set(hal.PortControl5Offset, 6))   // 100BaseT
	reg(0x06, clear(hal.PortControl6Offset, 2)) // auto-MDIX enable
	reg(0x07, set(hal.PortControl6Offset, 2))   // auto-MDIX disable
	reg(0x08, selfClearing(hal.PortControl6Offset, 5)) // restart auto-neg
	reg(0x09, set(hal.PortControl2Offset, 2))          // TX on
	reg(0x0A, clear(hal.PortControl2Offset, 2))        // TX off
	reg(0x0B, set(hal.PortControl2Offset, 1))          // RX on
	reg(0x0C, clear(hal.PortControl2Offset, 1))        // RX off
}
