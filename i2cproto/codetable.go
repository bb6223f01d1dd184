// Package i2cproto implements the binary I²C command dispatcher (§4.4): a
// 256-entry code table, slave-ISR packet reassembly, and the dispatcher
// task that looks up, builds parameters for, and invokes each code's
// handler.
package i2cproto

// HandlerFunc is the I²C-side handler contract: a byte array in, one byte
// out — distinct from the CLI's handlers.Handler (bool success signal),
// per spec §3's "I²C code entry" fields.
type HandlerFunc func(params []byte) byte

// maxStaticParams bounds CodeEntry.StaticParams, per spec §3.
const maxStaticParams = 20

// CodeEntry is one slot of the 256-entry code table (spec §3).
type CodeEntry struct {
	Code             uint8
	StaticParamCount int
	CustomParamCount int
	ReturnCount      int
	StaticParams     [maxStaticParams]byte
	Handler          HandlerFunc
}

// unimplementedHandler backs every "not implemented" slot named in spec §9
// Open Question 3: return 0, no side effects.
func unimplementedHandler(params []byte) byte { return 0 }

// Table is the full 256-entry code table, indexed by code. registered
// tracks which slots have actually been installed by Register, since
// CodeEntry's zero value (Code==0) is otherwise indistinguishable from a
// legitimately registered code 0x00.
type Table struct {
	Entries    [256]CodeEntry
	registered [256]bool
}

// NewTable returns a table with every slot defaulted to an unimplemented,
// zero-param, zero-return entry.
func NewTable() *Table {
	t := &Table{}
	for i := range t.Entries {
		t.Entries[i] = CodeEntry{Code: uint8(i), Handler: unimplementedHandler}
	}
	return t
}

// Register installs a handler at code.
func (t *Table) Register(code uint8, staticParamCount, customParamCount, returnCount int, staticParams []byte, h HandlerFunc) {
	e := &t.Entries[code]
	e.Code = code
	e.StaticParamCount = staticParamCount
	e.CustomParamCount = customParamCount
	e.ReturnCount = returnCount
	copy(e.StaticParams[:], staticParams)
	e.Handler = h
	t.registered[code] = true
}

// Lookup returns the entry for code and whether it is a registered slot
// whose Code field matches, implementing §4.4's "if the entry's code field
// does not match the received code (including unused slots), drop the
// packet" rule; the dispatcher relies on this one call for both checks.
func (t *Table) Lookup(code uint8) (CodeEntry, bool) {
	e := t.Entries[code]
	return e, t.registered[code] && e.Code == code
}
