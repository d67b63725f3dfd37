package ir

import "muc/internal/types"

// Instruction is any non-terminating IR operation. Every Instruction is
// also a Value: other instructions reference it directly as an operand
// when they use its result, exactly as LLVM's Instruction-is-a-Value
// model works and as uscc's Value*-everywhere API assumes.
type Instruction interface {
	Value
	ID() int
	Block() *BasicBlock
	Operands() []Value
	Effects() []Effect
}

// Terminator ends a BasicBlock and names its successors.
type Terminator interface {
	Instruction
	Successors() []*BasicBlock
}

// MathOp mirrors ast.MathOp without importing internal/ast, since IR is
// a layer below the AST.
type MathOp int

const (
	Add MathOp = iota
	Sub
	Mul
	SDiv
	SRem
)

// BinaryMath computes an arithmetic result of the wider of its two
// operand types (spec.md §4.3.1 two's-complement wraparound semantics).
type BinaryMath struct {
	id          int
	block       *BasicBlock
	Op          MathOp
	Typ         types.Type
	Left, Right Value
}

func NewBinaryMath(b *BasicBlock, op MathOp, typ types.Type, left, right Value) *BinaryMath {
	i := &BinaryMath{id: b.Func.nextID(), block: b, Op: op, Typ: typ, Left: left, Right: right}
	b.Append(i)
	return i
}

func (i *BinaryMath) ValueType() types.Type { return i.Typ }
func (i *BinaryMath) ID() int               { return i.id }
func (i *BinaryMath) Block() *BasicBlock    { return i.block }
func (i *BinaryMath) Operands() []Value     { return []Value{i.Left, i.Right} }

// CmpOp mirrors ast.CmpOp.
type CmpOp int

const (
	Eq CmpOp = iota
	Ne
	Slt
	Sgt
)

// BinaryCmp computes a relational/equality result, always zero-extended
// to a 32-bit Int per spec.md §4.3.1 (no separate boolean type).
type BinaryCmp struct {
	id          int
	block       *BasicBlock
	Op          CmpOp
	Left, Right Value
}

func NewBinaryCmp(b *BasicBlock, op CmpOp, left, right Value) *BinaryCmp {
	i := &BinaryCmp{id: b.Func.nextID(), block: b, Op: op, Left: left, Right: right}
	b.Append(i)
	return i
}

func (i *BinaryCmp) ValueType() types.Type { return types.Int{} }
func (i *BinaryCmp) ID() int               { return i.id }
func (i *BinaryCmp) Block() *BasicBlock    { return i.block }
func (i *BinaryCmp) Operands() []Value     { return []Value{i.Left, i.Right} }

// Not computes a logical negation (0 -> 1, nonzero -> 0), result always Int.
type Not struct {
	id    int
	block *BasicBlock
	X     Value
}

func NewNot(b *BasicBlock, x Value) *Not {
	i := &Not{id: b.Func.nextID(), block: b, X: x}
	b.Append(i)
	return i
}

func (i *Not) ValueType() types.Type { return types.Int{} }
func (i *Not) ID() int               { return i.id }
func (i *Not) Block() *BasicBlock    { return i.block }
func (i *Not) Operands() []Value     { return []Value{i.X} }

// SExt sign-extends a narrower value (char) to int, used for "(int) x"
// and for any char value flowing into an int-typed context.
type SExt struct {
	id    int
	block *BasicBlock
	X     Value
}

func NewSExt(b *BasicBlock, x Value) *SExt {
	i := &SExt{id: b.Func.nextID(), block: b, X: x}
	b.Append(i)
	return i
}

func (i *SExt) ValueType() types.Type { return types.Int{} }
func (i *SExt) ID() int               { return i.id }
func (i *SExt) Block() *BasicBlock    { return i.block }
func (i *SExt) Operands() []Value     { return []Value{i.X} }

// Trunc truncates a wider value (int) down to char, used for "(char) x".
type Trunc struct {
	id    int
	block *BasicBlock
	X     Value
}

func NewTrunc(b *BasicBlock, x Value) *Trunc {
	i := &Trunc{id: b.Func.nextID(), block: b, X: x}
	b.Append(i)
	return i
}

func (i *Trunc) ValueType() types.Type { return types.Char{} }
func (i *Trunc) ID() int               { return i.id }
func (i *Trunc) Block() *BasicBlock    { return i.block }
func (i *Trunc) Operands() []Value     { return []Value{i.X} }

// Alloca reserves stack storage for a fixed-size local array, the one
// place μC's SSA form falls back to addressable memory (spec.md §4.2.1:
// arrays are never promoted to registers).
type Alloca struct {
	id    int
	block *BasicBlock
	Elem  types.Type
	Count int
}

func NewAlloca(b *BasicBlock, elem types.Type, count int) *Alloca {
	i := &Alloca{id: b.Func.nextID(), block: b, Elem: elem, Count: count}
	b.Append(i)
	return i
}

func (i *Alloca) ValueType() types.Type { return types.Pointer{Elem: i.Elem} }
func (i *Alloca) ID() int               { return i.id }
func (i *Alloca) Block() *BasicBlock    { return i.block }
func (i *Alloca) Operands() []Value     { return nil }

// GEP computes the address of one element of an array, shared by array
// reads and writes exactly as uscc's ASTArraySub computes one address
// that ASTArrayExpr (read) Loads from and ASTAssignArrayStmt (write)
// Stores to.
type GEP struct {
	id       int
	block    *BasicBlock
	Base     Value
	Index    Value
	ElemType types.Type
}

func NewGEP(b *BasicBlock, base, index Value, elem types.Type) *GEP {
	i := &GEP{id: b.Func.nextID(), block: b, Base: base, Index: index, ElemType: elem}
	b.Append(i)
	return i
}

func (i *GEP) ValueType() types.Type { return types.Pointer{Elem: i.ElemType} }
func (i *GEP) ID() int               { return i.id }
func (i *GEP) Block() *BasicBlock    { return i.block }
func (i *GEP) Operands() []Value     { return []Value{i.Base, i.Index} }

// Load reads the value stored at an address produced by Alloca or GEP.
type Load struct {
	id    int
	block *BasicBlock
	Addr  Value
	Typ   types.Type
}

func NewLoad(b *BasicBlock, addr Value, typ types.Type) *Load {
	i := &Load{id: b.Func.nextID(), block: b, Addr: addr, Typ: typ}
	b.Append(i)
	return i
}

func (i *Load) ValueType() types.Type { return i.Typ }
func (i *Load) ID() int               { return i.id }
func (i *Load) Block() *BasicBlock    { return i.block }
func (i *Load) Operands() []Value     { return []Value{i.Addr} }

// Store writes Val to Addr; it has no result, mirroring the teacher's
// StoreInstruction.GetResult() == nil.
type Store struct {
	id    int
	block *BasicBlock
	Addr  Value
	Val   Value
}

func NewStore(b *BasicBlock, addr, val Value) *Store {
	i := &Store{id: b.Func.nextID(), block: b, Addr: addr, Val: val}
	b.Append(i)
	return i
}

func (i *Store) ValueType() types.Type { return types.Void{} }
func (i *Store) ID() int               { return i.id }
func (i *Store) Block() *BasicBlock    { return i.block }
func (i *Store) Operands() []Value     { return []Value{i.Addr, i.Val} }

// Call invokes a named function. Typ is types.Void{} for a void call
// used only for its side effect (e.g. a bare "f(x);" statement).
type Call struct {
	id     int
	block  *BasicBlock
	Callee string
	Args   []Value
	Typ    types.Type
}

func NewCall(b *BasicBlock, callee string, args []Value, typ types.Type) *Call {
	i := &Call{id: b.Func.nextID(), block: b, Callee: callee, Args: args, Typ: typ}
	b.Append(i)
	return i
}

func (i *Call) ValueType() types.Type { return i.Typ }
func (i *Call) ID() int               { return i.id }
func (i *Call) Block() *BasicBlock    { return i.block }
func (i *Call) Operands() []Value     { return i.Args }

// PhiEdge is one incoming (predecessor, value) pair of a Phi. Kept as an
// ordered slice on Phi rather than a map so printing and the trivial-phi
// check have deterministic operand order.
type PhiEdge struct {
	Pred  *BasicBlock
	Value Value
}

// Phi joins values flowing in from multiple predecessors, lazily
// populated by the SSA builder (spec.md §4.2.2/4.2.4).
type Phi struct {
	id       int
	block    *BasicBlock
	Typ      types.Type
	Incoming []PhiEdge
}

// NewPhi creates an empty Phi and prepends it to block's instruction
// list (Phis are conventionally ordered first in a block).
func NewPhi(b *BasicBlock, typ types.Type) *Phi {
	i := &Phi{id: b.Func.nextID(), block: b, Typ: typ}
	b.Instructions = append([]Instruction{i}, b.Instructions...)
	return i
}

func (i *Phi) ValueType() types.Type { return i.Typ }
func (i *Phi) ID() int               { return i.id }
func (i *Phi) Block() *BasicBlock    { return i.block }
func (i *Phi) Operands() []Value {
	ops := make([]Value, len(i.Incoming))
	for idx, e := range i.Incoming {
		ops[idx] = e.Value
	}
	return ops
}

// AddIncoming records that pred supplies val, replacing any existing
// edge from pred (used when addPhiOperands revisits a predecessor).
func (i *Phi) AddIncoming(pred *BasicBlock, val Value) {
	for idx, e := range i.Incoming {
		if e.Pred == pred {
			i.Incoming[idx].Value = val
			return
		}
	}
	i.Incoming = append(i.Incoming, PhiEdge{Pred: pred, Value: val})
}

// RemoveIncoming drops the incoming edge from pred, used when a
// predecessor is dropped from the CFG (ConstantBranch, DeadBlocks).
func (i *Phi) RemoveIncoming(pred *BasicBlock) {
	kept := i.Incoming[:0]
	for _, e := range i.Incoming {
		if e.Pred != pred {
			kept = append(kept, e)
		}
	}
	i.Incoming = kept
}

// Relocate moves inst's reported owning block to to, used by LICM after
// it has already spliced inst into to's instruction slice. Restricted to
// the opcodes LICM ever hoists (binary arithmetic, compare, cast, GEP);
// callers must not relocate a Phi or terminator.
func Relocate(inst Instruction, to *BasicBlock) {
	switch i := inst.(type) {
	case *BinaryMath:
		i.block = to
	case *BinaryCmp:
		i.block = to
	case *Not:
		i.block = to
	case *SExt:
		i.block = to
	case *Trunc:
		i.block = to
	case *GEP:
		i.block = to
	default:
		panic("ir: Relocate called on a non-hoistable instruction type")
	}
}

// ReplaceAllUsesWith substitutes every operand reference to old with
// repl across f — used by tryRemoveTrivialPhi and by the optimizer's
// constant-propagation pass. Scans every instruction and terminator in
// every block, which is simple and adequate at μC's program sizes.
func ReplaceAllUsesWith(f *Function, old Value, repl Value) {
	replace := func(v Value) Value {
		if v == old {
			return repl
		}
		return v
	}
	for _, b := range f.Blocks {
		for _, inst := range b.Instructions {
			switch in := inst.(type) {
			case *BinaryMath:
				in.Left, in.Right = replace(in.Left), replace(in.Right)
			case *BinaryCmp:
				in.Left, in.Right = replace(in.Left), replace(in.Right)
			case *Not:
				in.X = replace(in.X)
			case *SExt:
				in.X = replace(in.X)
			case *Trunc:
				in.X = replace(in.X)
			case *GEP:
				in.Base, in.Index = replace(in.Base), replace(in.Index)
			case *Load:
				in.Addr = replace(in.Addr)
			case *Store:
				in.Addr, in.Val = replace(in.Addr), replace(in.Val)
			case *Call:
				for idx := range in.Args {
					in.Args[idx] = replace(in.Args[idx])
				}
			case *Phi:
				for idx := range in.Incoming {
					in.Incoming[idx].Value = replace(in.Incoming[idx].Value)
				}
			}
		}
		switch t := b.Terminator.(type) {
		case *Br:
			t.Cond = replace(t.Cond)
		case *Ret:
			if t.Val != nil {
				t.Val = replace(t.Val)
			}
		}
	}
}
