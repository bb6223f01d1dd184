package handlers

import (
	"fmt"
	"io"
)

// ResetConfirm implements the two-step confirmation COM_ResetTivaC uses: the
// first invocation arms the reset and reports false, the second performs
// reset (by invoking doReset) and reports true. armed is owned by the
// caller (the CLI's Env, not its Session) and threaded back in, since
// handlers are otherwise stateless.
func ResetConfirm(w io.Writer, armed bool, doReset func()) bool {
	if !armed {
		fmt.Fprint(w, "\nAre you sure? Type 'system reset' again to confirm\n")
		return false
	}
	doReset()
	return true
}

// I2CSendLoopback is the loopback command's synchronous report: a no-op stub
// in this module, since the I²C master byte primitives a real send would
// drive are an external collaborator (see DESIGN.md's Transport entry) —
// the handler only validates framing.
func I2CSendLoopback(command byte, params []byte) bool {
	return len(params) <= 19
}
