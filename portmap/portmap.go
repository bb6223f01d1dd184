// Package portmap implements the CLI's inverted port naming: logical
// f0..f3 map to descending controller register offsets, per spec §6.
package portmap

import "switchcore/errcode"

// Offset is a switch-controller port base register address.
type Offset uint8

const (
	F0 Offset = 0x40
	F1 Offset = 0x30
	F2 Offset = 0x20
	F3 Offset = 0x10
)

var byName = map[string]Offset{"f0": F0, "f1": F1, "f2": F2, "f3": F3}

var byOffset = map[Offset]string{F0: "f0", F1: "f1", F2: "f2", F3: "f3"}

// Lookup resolves a CLI port token ("f0".."f3") to its controller offset.
func Lookup(name string) (Offset, error) {
	if off, ok := byName[name]; ok {
		return off, nil
	}
	return 0, &errcode.E{C: errcode.OutOfRangeInput, Op: "portmap.Lookup", Msg: "unknown port " + name}
}

// Name renders a controller offset back to its CLI name, used by the port
// monitor's connect/disconnect notices. Returns "expansion" for any offset
// that isn't one of the four user ports.
func Name(off Offset) string {
	if n, ok := byOffset[off]; ok {
		return n
	}
	return "expansion"
}
