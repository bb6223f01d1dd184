package hal

// Switch-controller register map, ported from interpreter_task.h's
// ETHO_PORTn_HARDWARE_HEX / *_OFFSET_HEX / INDIRECT_* / GLOBAL_CONTROL_*
// constants. Port offsets intentionally run in reverse of the logical
// f0..f3 CLI naming — see portmap for the inversion documented in spec §6.

// PortOffset is the base register address of one of the four user ports or
// the expansion port inside the switch controller's register space.
type PortOffset uint8

const (
	Port1Offset PortOffset = 0x10
	Port2Offset PortOffset = 0x20
	Port3Offset PortOffset = 0x30
	Port4Offset PortOffset = 0x40
)

// AllUserPorts is the controller's declared port order (ascending base
// address), used by the port monitor's fixed scan order.
var AllUserPorts = [4]PortOffset{Port1Offset, Port2Offset, Port3Offset, Port4Offset}

// ExpansionPortOffset is the fifth (uplink) port, enumerated separately
// because it has no f0..f3 CLI name.
const ExpansionPortOffset PortOffset = 0x50

// Per-port control/status register offsets, relative to a PortOffset.
const (
	PortControl0Offset = 0x0
	PortControl1Offset = 0x1
	PortControl2Offset = 0x2
	PortControl3Offset = 0x3
	PortControl4Offset = 0x4
	PortLinkMD0Offset  = 0xA
	PortLinkMD1Offset  = 0xB
	PortControl5Offset = 0xC
	PortControl6Offset = 0xD
	PortStatus0Offset  = 0x9
	PortStatus1Offset  = 0xE
	PortStatus2Offset  = 0xF
)

// Reg composes a port's base offset with a per-port register offset.
func Reg(p PortOffset, offset uint8) uint8 { return uint8(p) + offset }

// Global (non-per-port) registers.
const (
	GlobalControl0 uint8 = 0x02
	GlobalControl1 uint8 = 0x03
	GlobalControl2 uint8 = 0x04
	GlobalControl3 uint8 = 0x05
	GlobalControl9 uint8 = 0x0B

	InterruptStatusRegister uint8 = 0x7C
)

// GlobalControl0FlushBit is the self-clearing dynamic-MAC-flush bit the
// port monitor asserts and polls on every link transition (§4.6).
const GlobalControl0FlushBit = 5

// PortControl2LearnDisableBit disables MAC learning on a port while its
// dynamic entries are flushed. Grounded on port_monitor_task.c's
// "Disable port learning for port N" sequence, which always targets
// offset 0x2 within the port's register block (PORT_CONTROL2_OFFSET).
const PortControl2LearnDisableBit = 0

// Indirect-access control/data registers (VLAN, static-MAC, dynamic-MAC
// table windows).
const (
	IndirectAccessControl0 uint8 = 0x6E
	IndirectAccessControl1 uint8 = 0x6F

	IndirectControlReadTypeBit = 0x04 // bit position; 1=read, 0=write
	IndirectControlTableSelect = 0x02 // bit position of the 2-bit table select
	IndirectControlAddressHigh = 0x00 // bit position of the 2-bit address-high field

	IndirectDataReg8 uint8 = 0x70
	IndirectDataReg7 uint8 = 0x71
	IndirectDataReg6 uint8 = 0x72
	IndirectDataReg5 uint8 = 0x73
	IndirectDataReg4 uint8 = 0x74
	IndirectDataReg3 uint8 = 0x75
	IndirectDataReg2 uint8 = 0x76
	IndirectDataReg1 uint8 = 0x77
	IndirectDataReg0 uint8 = 0x78
)

// IndirectTable selects which of the controller's large tables an
// indirect-access transaction addresses.
type IndirectTable uint8

const (
	IndirectTableStaticMAC  IndirectTable = 0
	IndirectTableVLAN       IndirectTable = 1
	IndirectTableDynamicMAC IndirectTable = 2
)

// Read-type values for the indirect-access control register's read/write
// bit (IndirectControlReadTypeBit).
const (
	IndirectReadTypeWrite = 0
	IndirectReadTypeRead  = 1
)
