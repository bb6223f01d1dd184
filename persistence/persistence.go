// Package persistence implements boot-time restore, save, and the VLAN
// indirect-table pack/unpack described in spec §4.2.
package persistence

import (
	"switchcore/eventlog"
	"switchcore/hal"
	"switchcore/sysstate"
	"switchcore/users"
)

// EEPROM region base addresses, per the external-interfaces layout table.
const (
	SystemFlagsAddr    = 0x1E
	LogStatusFlagsAddr = 0x1F
	NextLogSlotAddr    = 0x23
	ControllerRegsBase = 0x100
	ControllerRegCount = 256
	VLANTableBase      = 0x200
	VLANTableMax       = 4095
)

// ProgressReporter is the subset of handlers.Progress that long-running
// restore/save steps drive. Declared here (rather than importing
// package handlers) so persistence has no dependency on the command-handler
// layer — handlers.Progress satisfies this structurally.
type ProgressReporter interface {
	Reset(total int)
	Increment()
	Fill()
	FillError()
}

type noopProgress struct{}

func (noopProgress) Reset(int)   {}
func (noopProgress) Increment()  {}
func (noopProgress) Fill()       {}
func (noopProgress) FillError()  {}

func withProgress(p ProgressReporter) ProgressReporter {
	if p == nil {
		return noopProgress{}
	}
	return p
}

func vlanEEPROMAddr(vlanID int) uint32 { return uint32(VLANTableBase + vlanID - 1) }

// BootRestore implements the exact four-step sequence of spec §4.2, gated
// on system-flags bits 7/6/5/4. Invoked once before any task starts, with
// UART echo suppressed by the caller.
func BootRestore(dev *hal.Device, st *sysstate.State, progress ProgressReporter) error {
	progress = withProgress(progress)

	flagsByte, err := dev.SingleRead(SystemFlagsAddr)
	if err != nil {
		return err
	}
	flags := sysstate.Flags(flagsByte)
	st.SetSystemFlags(flags)

	if flags.Has(sysstate.FlagReinitRequest) {
		if err := dev.ChipErase(); err != nil {
			return err
		}
		return nil
	}

	if flags.Has(sysstate.FlagConfigSaved) {
		if err := restoreControllerRegs(dev, progress); err != nil {
			return err
		}
		if err := restoreLogCursor(dev, st); err != nil {
			return err
		}
	}

	if flags.Has(sysstate.FlagVLANSaved) {
		if err := restoreVLANTable(dev, progress); err != nil {
			return err
		}
	}

	if flags.Has(sysstate.FlagUsersSaved) {
		progress.Reset(users.SlotCount)
		if err := RestoreUsers(dev, st.Users()); err != nil {
			return err
		}
		progress.Fill()
	}

	return nil
}

func restoreControllerRegs(dev *hal.Device, progress ProgressReporter) error {
	progress.Reset(ControllerRegCount)
	for reg := 0; reg < ControllerRegCount; reg++ {
		b, err := dev.SingleRead(uint32(ControllerRegsBase + reg))
		if err != nil {
			return err
		}
		if err := dev.CtrlWrite(uint8(reg), b); err != nil {
			return err
		}
		progress.Increment()
	}
	progress.Fill()
	return nil
}

func restoreLogCursor(dev *hal.Device, st *sysstate.State) error {
	buf := make([]byte, 8)
	if err := dev.BulkRead(LogStatusFlagsAddr, buf); err != nil {
		return err
	}
	logFlags := be32(buf[0:4])
	nextSlot := be32(buf[4:8])
	st.SetLogStatusFlags(logFlags)
	st.SetNextLogSlot(nextSlot) // clamps to >= log-region base internally
	return nil
}

func restoreVLANTable(dev *hal.Device, progress ProgressReporter) error {
	progress.Reset(VLANTableMax)
	for vlanID := 1; vlanID <= VLANTableMax; vlanID++ {
		b, err := dev.SingleRead(vlanEEPROMAddr(vlanID))
		if err != nil {
			return err
		}
		if b&0x80 != 0 {
			entry := VLANEntry{
				ID:         vlanID,
				Valid:      true,
				Membership: (b >> 2) & 0x1F,
			}
			if err := WriteVLANEntry(dev, entry); err != nil {
				return err
			}
		}
		progress.Increment()
	}
	progress.Fill()
	return nil
}

// SaveConfig mirrors restore in reverse, per spec §4.2 "Save running
// config".
func SaveConfig(dev *hal.Device, st *sysstate.State, logger *eventlog.Logger, progress ProgressReporter) error {
	progress = withProgress(progress)

	progress.Reset(ControllerRegCount)
	for reg := 0; reg < ControllerRegCount; reg++ {
		b, err := dev.CtrlRead(uint8(reg))
		if err != nil {
			return err
		}
		if err := dev.SingleWrite(uint32(ControllerRegsBase+reg), b); err != nil {
			progress.FillError()
			return err
		}
		progress.Increment()
	}
	progress.Fill()

	// COM_SaveSwitchConfiguration only saves VLAN state when
	// global_control_3 && 0x80 is true — a logical, not bitwise, AND, so
	// the branch runs whenever the byte is any non-zero value, not just
	// when bit 7 is set. Preserved verbatim per Open Question 2.
	gc3, err := dev.CtrlRead(hal.GlobalControl3)
	if err != nil {
		return err
	}
	if gc3 != 0 {
		if err := saveVLANTable(dev, progress); err != nil {
			return err
		}
	}

	progress.Reset(users.SlotCount)
	if err := SaveUsers(dev, st.Users()); err != nil {
		return err
	}
	progress.Fill()

	if err := saveLogFlags(dev, st); err != nil {
		return err
	}

	st.SetSystemFlags(st.SystemFlags() |
		sysstate.FlagConfigSaved | sysstate.FlagVLANSaved | sysstate.FlagUsersSaved | 0x01)
	if err := dev.SingleWrite(SystemFlagsAddr, uint8(st.SystemFlags())); err != nil {
		return err
	}

	if logger != nil {
		logger.Submit(eventlog.CodeConfigSaved)
	}
	return nil
}

// ClearSavedConfig zeros the EEPROM's controller-register mirror
// (0x100-0x1FE) and drops the config-saved flag, grounded on
// `I2C_ClearSwitchConfiguration`'s "null out 0x100-0x1FF and clear its
// flag bit" behavior.
func ClearSavedConfig(dev *hal.Device, st *sysstate.State) error {
	for addr := uint32(ControllerRegsBase); addr < ControllerRegsBase+ControllerRegCount-1; addr++ {
		if err := dev.SingleWrite(addr, 0x00); err != nil {
			return err
		}
	}
	st.SetSystemFlags(st.SystemFlags() &^ sysstate.FlagConfigSaved)
	return dev.SingleWrite(SystemFlagsAddr, uint8(st.SystemFlags()))
}

// saveVLANTable page-erases the VLAN region then reconstructs each
// per-vlan EEPROM record from the indirect table, the reverse of restore.
func saveVLANTable(dev *hal.Device, progress ProgressReporter) error {
	progress.Reset(VLANTableMax/eepromPageSizeConst + 1)
	for pageAddr := uint32(VLANTableBase); pageAddr < VLANTableBase+VLANTableMax; pageAddr += eepromPageSizeConst {
		if err := dev.PageErase(pageAddr); err != nil {
			return err
		}
		progress.Increment()
	}
	progress.Reset(VLANTableMax)
	for vlanID := 1; vlanID <= VLANTableMax; vlanID++ {
		entry, err := ReadVLANEntry(dev, vlanID)
		if err != nil {
			return err
		}
		var b byte
		if entry.Valid {
			b = 0x80 | (entry.Membership&0x1F)<<2
		}
		if err := dev.SingleWrite(vlanEEPROMAddr(vlanID), b); err != nil {
			return err
		}
		progress.Increment()
	}
	progress.Fill()
	return nil
}

func saveLogFlags(dev *hal.Device, st *sysstate.State) error {
	var buf [8]byte
	putBE32(buf[0:4], st.LogStatusFlags())
	putBE32(buf[4:8], st.NextLogSlot())
	return dev.BulkWrite(LogStatusFlagsAddr, buf[:])
}

const eepromPageSizeConst = 256

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func putBE32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
