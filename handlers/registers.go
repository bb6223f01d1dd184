package handlers

import (
	"fmt"
	"io"

	"switchcore/hal"
)

// ReadControllerRegister prints the raw value of one switch-controller
// register, grounded on COM_ReadFromEthernetController.
func ReadControllerRegister(w io.Writer, dev *hal.Device, reg uint8) bool {
	v, err := dev.CtrlRead(reg)
	if err != nil {
		return false
	}
	fmt.Fprintf(w, "Register 0x%02X: 0x%02X\n", reg, v)
	return true
}

// WriteControllerRegister writes data to one switch-controller register,
// grounded on COM_WriteToEthernetController.
func WriteControllerRegister(dev *hal.Device, reg, data uint8) bool {
	return dev.CtrlWrite(reg, data) == nil
}

// ReadEEPROMRegister prints the raw byte at an EEPROM address, grounded on
// COM_ReadFromEEPROM.
func ReadEEPROMRegister(w io.Writer, dev *hal.Device, addr uint32) bool {
	v, err := dev.SingleRead(addr)
	if err != nil {
		return false
	}
	fmt.Fprintf(w, "EEPROM[0x%04X]: 0x%02X\n", addr, v)
	return true
}

// WriteEEPROMRegister writes one byte to an EEPROM address, grounded on
// COM_WriteToEEPOM.
func WriteEEPROMRegister(dev *hal.Device, addr uint32, data uint8) bool {
	return dev.SingleWrite(addr, data) == nil
}

// ReinitializeEEPROM chip-erases the EEPROM, requiring a restart before the
// device is usable again, grounded on COM_ReinitializeEEPROM.
func ReinitializeEEPROM(dev *hal.Device) bool {
	return dev.ChipErase() == nil
}
