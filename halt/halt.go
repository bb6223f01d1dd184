// Package halt implements the fatal-invariant-violation stop documented in
// spec §7: a handful of conditions (a full submit queue, a corrupted command
// tree) are never supposed to happen and are not propagated as errors.
package halt

import "fmt"

// Fatal reports an unreachable invariant violation and stops the process.
// Grounded on the kernel's stack-overflow hook in the original firmware,
// which prints diagnostics and halts rather than returning to its caller;
// Go has no equivalent of a fixed-size task stack overflowing, so this is
// reserved for the one case spec.md still calls out as fatal: a full
// non-blocking submit queue (§7 QueueFull).
func Fatal(op string, err error) {
	panic(fmt.Sprintf("switchcore: fatal invariant violation in %s: %v", op, err))
}
