// Package cli implements the hierarchical command-line parser and
// dispatcher (spec §4.3): a DAG of command nodes walked against a tokenized
// input line, gated by per-node permission requirements.
package cli

import (
	"switchcore/handlers"
	"switchcore/users"
)

// maxStaticParams bounds Node.StaticParams, per spec §3.
const maxStaticParams = 15

// MaxDepth and MaxTokens bound the walk, per spec §4.3.
const (
	MaxDepth  = 12
	MaxTokens = 127
)

// ParamBufferCap bounds the accumulated handler parameter buffer.
const ParamBufferCap = 20

// Node is one command-tree entry (spec §3 "Command node"). Nodes live in an
// arena (`[]Node`) and reference children by integer index, never by
// pointer — a DAG by construction, avoiding the original's cyclic
// statically-linked tree of structures (§9 REDESIGN FLAGS).
type Node struct {
	Text               string
	Help               string
	IsTerminal         bool
	ParamsRequired     int
	UserProvidesParams bool
	ParamWidth         int // bytes the user-supplied token packs into, when UserProvidesParams
	Handler            handlers.Handler
	StaticParams       [maxStaticParams]byte
	StaticParamCount   int
	ChildMenu          int // index into Tree.Menus; valid only if !IsTerminal
	RequiredPermission users.Role
}

// Menu is an ordered list of sibling nodes, indexed by position within
// Tree.Menus.
type Menu struct {
	Name    string
	Entries []Node
}

// Tree owns every menu in the command DAG. RootMenu indexes the top-level
// menu entries are walked from.
type Tree struct {
	Menus    []Menu
	RootMenu int
}

// Root returns the top-level menu.
func (t *Tree) Root() *Menu { return &t.Menus[t.RootMenu] }

// AddMenu appends a new, empty menu and returns its index, for use as a
// ChildMenu target while constructing the tree.
func (t *Tree) AddMenu(name string) int {
	t.Menus = append(t.Menus, Menu{Name: name})
	return len(t.Menus) - 1
}

// ValidateTree checks the structural closedness invariant (spec §8
// invariant 3): every non-terminal node's child menu is a valid index and
// every terminal node's handler is non-nil, and static_param_count never
// exceeds params_required.
func (t *Tree) ValidateTree() bool {
	for _, m := range t.Menus {
		for _, n := range m.Entries {
			if n.IsTerminal {
				if n.Handler == nil {
					return false
				}
			} else {
				if n.ChildMenu < 0 || n.ChildMenu >= len(t.Menus) {
					return false
				}
			}
			if n.StaticParamCount > n.ParamsRequired {
				return false
			}
		}
	}
	return true
}
