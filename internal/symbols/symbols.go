// Package symbols implements the identifier/scope table that the parser
// and resolver consult. It is the "external collaborator" spec.md §6
// describes narrowly: the emitter only ever receives identifiers through
// internal/resolve's Result.Lookup, reads their Type, and writes
// Address/HasAddress back for arrays.
//
// Grounded on the teacher's internal/semantic/symbols.go SymbolTable, with
// the kanso-specific Kind/Mutable/Used bookkeeping trimmed to what μC's
// narrower semantics (no structs, no mutability tracking) actually need.
package symbols

import "muc/internal/types"

// Identifier is produced once per declaration and shared by every
// reference to that name for the rest of its scope.
type Identifier struct {
	Name       string
	Type       types.Type
	ArrayCount int  // element count, meaningful only when IsArray()
	Dummy      bool // placeholder from parser error recovery; skip semantic checks
	Address    int  // stack slot index for arrays with known count; set by the emitter
	HasAddress bool
}

// IsArray reports whether this identifier names an array-typed variable.
func (id *Identifier) IsArray() bool {
	return types.IsArray(id.Type)
}

// Table is a chained lexical scope: function parameters and block-local
// declarations each push a new Table whose parent is the enclosing scope.
type Table struct {
	names  map[string]*Identifier
	parent *Table
}

// NewTable creates a table nested inside parent (nil for the global/function scope).
func NewTable(parent *Table) *Table {
	return &Table{names: make(map[string]*Identifier), parent: parent}
}

// Define installs a new identifier in this scope, shadowing any identifier
// of the same name in an enclosing scope.
func (t *Table) Define(name string, typ types.Type) *Identifier {
	id := &Identifier{Name: name, Type: typ}
	t.names[name] = id
	return id
}

// DefineArray installs a new array identifier with a known element count.
func (t *Table) DefineArray(name string, typ types.Type, count int) *Identifier {
	id := &Identifier{Name: name, Type: typ, ArrayCount: count}
	t.names[name] = id
	return id
}

// Lookup searches this scope and its ancestors for name.
func (t *Table) Lookup(name string) *Identifier {
	if id, ok := t.names[name]; ok {
		return id
	}
	if t.parent != nil {
		return t.parent.Lookup(name)
	}
	return nil
}

// LookupLocal searches only this scope, without consulting ancestors —
// used to detect redeclaration within the same block.
func (t *Table) LookupLocal(name string) *Identifier {
	return t.names[name]
}

// Dummy returns a placeholder identifier for parser error recovery: the
// emitter and resolver both skip semantic checks against it (spec.md
// glossary "Dummy identifier").
func Dummy(name string) *Identifier {
	return &Identifier{Name: name, Type: types.Int{}, Dummy: true}
}
