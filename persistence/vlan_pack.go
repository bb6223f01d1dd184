package persistence

import (
	"switchcore/errcode"
	"switchcore/hal"
)

// VLANEntry is the logical view of one VLAN table row (spec §3).
type VLANEntry struct {
	ID         int  // 1..4095
	Membership uint8 // 5 bits: four user ports + expansion
	Valid      bool
}

// groupOf and positionOf split a vlan_id into the indirect table's
// group/position addressing, per §4.2.
func groupOf(vlanID int) int    { return vlanID / 4 }
func positionOf(vlanID int) int { return vlanID % 4 }

// unpackPosition extracts (valid, membership) for one of the four entries
// packed into a seven-byte indirect-data window, per the bit-position
// table in spec §4.2. The remaining bits of the 13-bit packed field (VID
// tag bits beyond the 5-bit membership + valid bit) aren't named by the
// spec's decomposition; every position's pack mask covers only its own
// valid and membership bits, so those bits are left untouched.
func unpackPosition(data [7]byte, pos int) (valid bool, membership uint8) {
	switch pos {
	case 0:
		valid = data[5]&0x10 != 0
		membership = (data[6]>>7&0x1)<<4 | data[5]&0x0F
	case 1:
		valid = data[3]&0x02 != 0
		membership = (data[3]&0x01)<<4 | data[4]>>4
	case 2:
		valid = data[2]&0x40 != 0
		membership = (data[2] >> 1) & 0x1F
	case 3:
		valid = data[0]&0x08 != 0
		membership = (data[0]&0x07)<<2 | data[1]>>6
	}
	return
}

// packPosition writes (valid, membership) back into position pos of data,
// disturbing only the bits that position owns — the other three positions
// in the same group must be unchanged (§8 invariant 5).
func packPosition(data *[7]byte, pos int, valid bool, membership uint8) {
	b2u := func(b bool) byte {
		if b {
			return 1
		}
		return 0
	}
	switch pos {
	case 0:
		data[5] = data[5]&^0x1F | b2u(valid)<<4 | membership&0x0F
		data[6] = data[6]&^0x80 | (membership>>4&0x1)<<7
	case 1:
		data[3] = data[3]&^0x03 | b2u(valid)<<1 | membership>>4&0x1
		data[4] = data[4]&^0xF0 | (membership&0x0F)<<4
	case 2:
		data[2] = data[2]&^0x7E | b2u(valid)<<6 | (membership&0x1F)<<1
	case 3:
		data[0] = data[0]&^0x0F | b2u(valid)<<3 | (membership>>2)&0x07
		data[1] = data[1]&^0xC0 | (membership&0x03)<<6
	}
}

// indirectDataRegs lists the seven indirect-data registers in data[0]
// (lowest) .. data[6] order, i.e. IndirectDataReg0 .. IndirectDataReg6.
var indirectDataRegs = [7]uint8{
	hal.IndirectDataReg0, hal.IndirectDataReg1, hal.IndirectDataReg2, hal.IndirectDataReg3,
	hal.IndirectDataReg4, hal.IndirectDataReg5, hal.IndirectDataReg6,
}

// setIndirectAddress programs the two indirect-access-control registers
// for the given table/group/direction. This reproduces the source's
// observed overwrite-not-mask behavior (§9 Open Question 1):
// indirect_access_data is written with exactly the low eight bits of the
// group index, replacing whatever was in that register rather than
// OR-ing into it. Preserved verbatim; do not "fix" without field
// verification.
func setIndirectAddress(dev *hal.Device, table hal.IndirectTable, group int, write bool) error {
	readType := byte(hal.IndirectReadTypeWrite)
	if !write {
		readType = hal.IndirectReadTypeRead
	}
	ctl0 := byte(table)<<hal.IndirectControlTableSelect |
		readType<<hal.IndirectControlReadTypeBit |
		byte(group>>8&0x3)<<hal.IndirectControlAddressHigh
	if err := dev.CtrlWrite(hal.IndirectAccessControl0, ctl0); err != nil {
		return err
	}
	// Overwrite, not mask: matches command_functions.c's
	// `indirect_access_data = (indirect_reg_addr & 0xFF)` lines.
	return dev.CtrlWrite(hal.IndirectAccessControl1, byte(group&0xFF))
}

func readIndirectGroup(dev *hal.Device, table hal.IndirectTable, group int) ([7]byte, error) {
	var data [7]byte
	if err := setIndirectAddress(dev, table, group, false); err != nil {
		return data, err
	}
	for i, reg := range indirectDataRegs {
		b, err := dev.CtrlRead(reg)
		if err != nil {
			return data, err
		}
		data[i] = b
	}
	return data, nil
}

func writeIndirectGroup(dev *hal.Device, table hal.IndirectTable, group int, data [7]byte) error {
	if err := setIndirectAddress(dev, table, group, true); err != nil {
		return err
	}
	for i, reg := range indirectDataRegs {
		if err := dev.CtrlWrite(reg, data[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReadVLANEntry performs the full indirect read-modify (read-only here)
// sequence for one vlan_id (§4.2).
func ReadVLANEntry(dev *hal.Device, vlanID int) (VLANEntry, error) {
	if vlanID < 1 || vlanID > 4095 {
		return VLANEntry{}, &errcode.E{C: errcode.OutOfRangeInput, Op: "persistence.ReadVLANEntry"}
	}
	group, pos := groupOf(vlanID), positionOf(vlanID)
	data, err := readIndirectGroup(dev, hal.IndirectTableVLAN, group)
	if err != nil {
		return VLANEntry{}, err
	}
	valid, membership := unpackPosition(data, pos)
	return VLANEntry{ID: vlanID, Membership: membership, Valid: valid}, nil
}

// WriteVLANEntry read-modify-writes a single position within its group,
// leaving the other three positions in that group untouched.
func WriteVLANEntry(dev *hal.Device, e VLANEntry) error {
	if e.ID < 1 || e.ID > 4095 {
		return &errcode.E{C: errcode.OutOfRangeInput, Op: "persistence.WriteVLANEntry"}
	}
	group, pos := groupOf(e.ID), positionOf(e.ID)
	data, err := readIndirectGroup(dev, hal.IndirectTableVLAN, group)
	if err != nil {
		return err
	}
	packPosition(&data, pos, e.Valid, e.Membership&0x1F)
	return writeIndirectGroup(dev, hal.IndirectTableVLAN, group, data)
}
