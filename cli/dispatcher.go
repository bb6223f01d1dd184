package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"switchcore/users"
)

// Session holds the per-connection state a single CLI task owns across
// lines: which user is active. The system-reset two-step confirmation's
// armed flag lives on Env instead, since it belongs to the command tree's
// single "reset" handler, not the session walking it.
type Session struct {
	Tree       *Tree
	ActiveUser *users.User
}

// result distinguishes the six walk outcomes spec §4.3 names, so Dispatch
// can report exactly the text each one calls for.
type result int

const (
	resultInvoked result = iota
	resultTooManyParams
	resultUnauthorized
	resultHelp
	resultNotRecognized
	resultIncomplete
)

// Dispatch tokenizes one input line and walks it against the session's
// command tree, writing the CLI's response to w. Implements §4.3 steps
// 1-6 verbatim: depth-by-depth entry matching, static/user-param
// accumulation, terminal invocation with permission and trailing-token
// checks, '?' help rendering, and the two distinct "no match" outcomes.
func Dispatch(w io.Writer, s *Session, line string) {
	tokens := Tokenize(line)
	if len(tokens) > MaxTokens {
		fmt.Fprintln(w, "Too Many Tokens Entered")
		return
	}
	if len(tokens) == 1 && tokens[0] == "?" {
		renderHelp(w, s.Tree.Root(), s.ActiveUser)
		return
	}
	if len(tokens) == 0 {
		return
	}

	menu := s.Tree.Root()
	params := make([]byte, 0, ParamBufferCap)
	descended := false

	for depth := 0; depth < MaxDepth; depth++ {
		if depth >= len(tokens) {
			fmt.Fprintf(w, "Incomplete Command Entered: %s\n", strings.Join(tokens, " "))
			return
		}

		tok := tokens[depth]
		_, entry, ok := matchEntry(menu, tok)
		if !ok {
			if descended {
				fmt.Fprintf(w, "Incomplete Command Entered: %s\n", strings.Join(tokens[:depth], " "))
			} else {
				fmt.Fprintln(w, "Command Not Recognized")
			}
			return
		}

		if entry.UserProvidesParams {
			b, ok := packToken(tok, entry.ParamWidth)
			if !ok {
				fmt.Fprintln(w, "Invalid Parameter")
				return
			}
			params = append(params, b...)
		} else {
			params = append(params, entry.StaticParams[:entry.StaticParamCount]...)
		}

		if entry.IsTerminal {
			if len(tokens) > depth+1 {
				fmt.Fprintln(w, "Too Many Parameters Entered")
				return
			}
			if s.ActiveUser == nil || s.ActiveUser.Role < entry.RequiredPermission {
				fmt.Fprintln(w, "Unauthorized: insufficient permission")
				return
			}
			if entry.Handler(params) {
				fmt.Fprintln(w, "OK")
			} else {
				fmt.Fprintln(w, "FAILED")
			}
			return
		}

		menu = &s.Tree.Menus[entry.ChildMenu]
		descended = true
	}

	fmt.Fprintln(w, "Command Not Recognized")
}

// matchEntry finds the entry in menu whose text equals tok, or the first
// user-provides-params entry if none matches literally (§4.3 step 2).
func matchEntry(menu *Menu, tok string) (int, *Node, bool) {
	for i := range menu.Entries {
		if menu.Entries[i].Text == tok {
			return i, &menu.Entries[i], true
		}
	}
	for i := range menu.Entries {
		if menu.Entries[i].UserProvidesParams {
			return i, &menu.Entries[i], true
		}
	}
	return -1, nil, false
}

// renderHelp prints the current menu's entries, marking ones the active
// user cannot invoke, per §4.3 step 5.
func renderHelp(w io.Writer, menu *Menu, active *users.User) {
	role := users.ReadOnly
	if active != nil {
		role = active.Role
	}
	for _, e := range menu.Entries {
		marker := ""
		if role < e.RequiredPermission {
			marker = " (*)"
		}
		fmt.Fprintf(w, "  %-20s %s%s\n", e.Text, e.Help, marker)
	}
}

// parseByteToken parses a CLI numeric token (hex "0x.." or decimal) into a
// single byte, per COM_ReadFromEthernetController/COM_WriteToEthernetController's
// strtol(..., 0) convention.
func parseByteToken(tok string) (byte, bool) {
	v, err := strconv.ParseUint(tok, 0, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}

// parseUint16Token parses a wider numeric token (e.g. a VLAN ID up to
// 4095) into a uint16.
func parseUint16Token(tok string) (uint16, bool) {
	v, err := strconv.ParseUint(tok, 0, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}

// packToken converts one user-supplied token into width bytes (1 or 2,
// big-endian), the numeric convention every user-provides-params command
// in this tree uses (register addresses, EEPROM data, VLAN IDs, I²C
// command codes).
func packToken(tok string, width int) ([]byte, bool) {
	switch width {
	case 2:
		v, ok := parseUint16Token(tok)
		if !ok {
			return nil, false
		}
		return []byte{byte(v >> 8), byte(v)}, true
	default:
		b, ok := parseByteToken(tok)
		if !ok {
			return nil, false
		}
		return []byte{b}, true
	}
}
