package persistence

import (
	"strings"

	"switchcore/hal"
	"switchcore/users"
)

// UserTableBase is the EEPROM base address of the 15-slot user table
// (external interfaces: 0x1200-0x15CE, 15 slots x 65-byte stride).
const UserTableBase = 0x1200

func fixedField(s string) [users.FieldWidth]byte {
	var b [users.FieldWidth]byte
	copy(b[:], s)
	return b
}

func fieldString(b []byte) string {
	i := 0
	for i < len(b) && b[i] != 0 {
		i++
	}
	return strings.TrimRight(string(b[:i]), "\x00")
}

// readUserSlot bulk-reads one 65-byte record: username, password, first,
// last (each 16 bytes) then one permission byte, matching the field order
// spec §4.2 step 4 gives (username, password, first, last).
func readUserSlot(dev *hal.Device, slot int) (users.User, error) {
	buf := make([]byte, users.RecordStride)
	addr := uint32(UserTableBase + slot*users.RecordStride)
	if err := dev.BulkRead(addr, buf); err != nil {
		return users.User{}, err
	}
	u := users.User{
		Username:  fieldString(buf[0:16]),
		Password:  fieldString(buf[16:32]),
		FirstName: fieldString(buf[32:48]),
		LastName:  fieldString(buf[48:64]),
		Role:      users.Role(buf[64]),
	}
	return u, nil
}

// writeUserSlot mirrors readUserSlot in reverse. A zero-value User writes
// an all-zero record, which is how Delete is persisted (§4.2 SaveConfig:
// "compacting remaining slots" means every slot is rewritten from the live
// table, not an in-place memmove of trailing slots).
func writeUserSlot(dev *hal.Device, slot int, u users.User) error {
	var buf [users.RecordStride]byte
	un, pw, fn, ln := fixedField(u.Username), fixedField(u.Password), fixedField(u.FirstName), fixedField(u.LastName)
	copy(buf[0:16], un[:])
	copy(buf[16:32], pw[:])
	copy(buf[32:48], fn[:])
	copy(buf[48:64], ln[:])
	buf[64] = byte(u.Role)
	return dev.BulkWrite(uint32(UserTableBase+slot*users.RecordStride), buf[:])
}

// RestoreUsers implements §4.2 step 4: for each of the 15 general-purpose
// slots, read its record and install it into the live table.
func RestoreUsers(dev *hal.Device, t *users.Table) error {
	for slot := 0; slot < users.SlotCount; slot++ {
		u, err := readUserSlot(dev, slot)
		if err != nil {
			return err
		}
		t.Slots[slot] = u
	}
	return nil
}

// SaveUsers writes every general-purpose slot (including empty ones, as
// all-zero records) back to EEPROM. The root slot is never persisted: it
// is a built-in default, not a §3 "Delete never overwrites root" concern
// moved to disk.
func SaveUsers(dev *hal.Device, t *users.Table) error {
	for slot := 0; slot < users.SlotCount; slot++ {
		if err := writeUserSlot(dev, slot, t.Slots[slot]); err != nil {
			return err
		}
	}
	return nil
}
