// Package ir is the typed SSA intermediate representation the emitter
// builds and the optimizer rewrites. Grounded on the teacher's
// internal/ir (types.go's Instruction/Terminator interface pair, one
// concrete struct per opcode, Program/Function/BasicBlock/Value as
// reference types held in owner-managed slices), trimmed to μC's much
// smaller opcode set and without the EVM-specific storage/memory-region
// machinery.
package ir

import "muc/internal/types"

// Value is anything an instruction operand can reference: a compile-time
// constant, a function argument, a deduplicated string literal, or
// another instruction's own result (every Instruction is also a Value,
// mirroring the teacher's pattern of result values holding a DefInst
// back-pointer — here the instruction simply *is* the value).
type Value interface {
	ValueType() types.Type
}

// Constant is a compile-time integer constant, already wrapped to the
// bit width of its Type per spec's two's-complement rules.
type Constant struct {
	Val int32
	Typ types.Type
}

func (c *Constant) ValueType() types.Type { return c.Typ }

// Argument is a function parameter, one instance shared by every read of
// that parameter within the function.
type Argument struct {
	Name string
	Typ  types.Type
}

func (a *Argument) ValueType() types.Type { return a.Typ }

// GlobalString is a reference to a deduplicated string literal in the
// owning Module's string pool, grounded on uscc's StringTable.
type GlobalString struct {
	Name  string // module-unique label, e.g. ".str.0"
	Value string
}

func (g *GlobalString) ValueType() types.Type { return types.Pointer{Elem: types.Char{}} }

// Module is the whole compiled translation unit.
type Module struct {
	Name      string
	Functions []*Function
	Strings   []*GlobalString
}

// InternString returns the GlobalString for s, creating and appending a
// new deduplicated entry if this is the first occurrence.
func (m *Module) InternString(s string) *GlobalString {
	for _, g := range m.Strings {
		if g.Value == s {
			return g
		}
	}
	g := &GlobalString{Name: ".str." + itoa(len(m.Strings)), Value: s}
	m.Strings = append(m.Strings, g)
	return g
}

// Function is one compiled function: its signature plus the basic
// blocks of its body. A declared-only function (no body, e.g. the
// "printf" builtin) has a nil Entry and no Blocks.
type Function struct {
	Name     string
	Params   []*Argument
	Return   types.Type
	Variadic bool
	Entry    *BasicBlock
	Blocks   []*BasicBlock

	nextValueID int
	nextBlockID int
}

// NewFunction creates an empty function shell; AddBlock populates Blocks.
func NewFunction(name string, params []*Argument, ret types.Type) *Function {
	return &Function{Name: name, Params: params, Return: ret}
}

// AddBlock appends and returns a new block owned by f, grounded on the
// teacher's pattern of growing Function.Blocks in place (ast_conversion/
// builder.go). The first block added becomes the entry block.
func (f *Function) AddBlock(label string) *BasicBlock {
	if label == "" {
		label = "bb"
	}
	b := &BasicBlock{Name: labelf(label, f.nextBlockID), Func: f}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	if f.Entry == nil {
		f.Entry = b
	}
	return b
}

// RemoveBlock deletes b from f.Blocks, rebuilding the owning slice
// exactly as the teacher's DeadCodeElimination.eliminateDeadBlocks does.
func (f *Function) RemoveBlock(b *BasicBlock) {
	kept := f.Blocks[:0]
	for _, blk := range f.Blocks {
		if blk != b {
			kept = append(kept, blk)
		}
	}
	f.Blocks = kept
}

func (f *Function) nextID() int {
	id := f.nextValueID
	f.nextValueID++
	return id
}

func labelf(prefix string, n int) string {
	if n == 0 {
		return prefix
	}
	return prefix + "." + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// BasicBlock is a maximal straight-line instruction sequence, ending in
// exactly one Terminator once construction completes.
type BasicBlock struct {
	Name         string
	Func         *Function
	Instructions []Instruction
	Terminator   Terminator
	Preds        []*BasicBlock
	Succs        []*BasicBlock

	// Sealed marks that every predecessor of this block is known, per
	// the Braun SSA construction algorithm (spec.md §4.2.3).
	Sealed bool
}

// Append adds inst to the end of b's instruction list.
func (b *BasicBlock) Append(inst Instruction) {
	b.Instructions = append(b.Instructions, inst)
}

// RemoveInstruction deletes inst from b's instruction list, rebuilding
// the slice in place — the same pattern RemoveBlock uses at function
// scope.
func (b *BasicBlock) RemoveInstruction(inst Instruction) {
	kept := b.Instructions[:0]
	for _, in := range b.Instructions {
		if in != inst {
			kept = append(kept, in)
		}
	}
	b.Instructions = kept
}

// SetTerminator installs t as b's terminator and wires Preds/Succs on
// both ends, grounded on the teacher's BranchTerminator/JumpTerminator
// GetSuccessors pattern.
func (b *BasicBlock) SetTerminator(t Terminator) {
	b.Terminator = t
	for _, succ := range t.Successors() {
		b.Succs = append(b.Succs, succ)
		succ.Preds = append(succ.Preds, b)
	}
}

// ClearTerminator unwires b's current terminator (if any) from its
// successors' predecessor lists, leaving b ready for SetTerminator to
// install a replacement. Used by optimizer passes that rewrite a
// terminator in place, such as ConstantBranch folding a Br into a Jmp.
func (b *BasicBlock) ClearTerminator() {
	if b.Terminator == nil {
		return
	}
	for _, succ := range b.Terminator.Successors() {
		succ.RemovePredecessor(b)
	}
	b.Terminator = nil
	b.Succs = nil
}

// RemovePredecessor drops pred from b's predecessor list, mirroring
// LLVM's (and uscc's) removePredecessor used by ConstantBranch/DeadBlocks
// when a branch is rewired or a block is deleted.
func (b *BasicBlock) RemovePredecessor(pred *BasicBlock) {
	kept := b.Preds[:0]
	for _, p := range b.Preds {
		if p != pred {
			kept = append(kept, p)
		}
	}
	b.Preds = kept
}

func (b *BasicBlock) removeSuccessor(succ *BasicBlock) {
	kept := b.Succs[:0]
	for _, s := range b.Succs {
		if s != succ {
			kept = append(kept, s)
		}
	}
	b.Succs = kept
}
