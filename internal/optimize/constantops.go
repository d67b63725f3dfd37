package optimize

import (
	"muc/internal/ir"
	"muc/internal/types"
)

// ConstantOps folds every instruction whose operands are all Constant,
// replacing its uses with the folded value and removing it, iterated to
// a fixpoint within one function (spec.md §4.3.1). original_source/'s
// opt/ directory has no constant-folding pass at all (only
// ConstantBranch.cpp, DeadBlocks.cpp, and the stub SSABuilder.cpp/
// LICM.cpp), so there is no reference body to port here: the two-phase
// find-then-erase structure matches ConstantBranch/DeadBlocks below,
// but the fold arithmetic itself is written fresh from spec.md
// §4.3.1's two's-complement and div-by-zero rules.
type ConstantOps struct{}

func (*ConstantOps) Name() string              { return "ConstantOps" }
func (*ConstantOps) RequiredAnalyses() []string { return nil }
func (*ConstantOps) PreservesCFG() bool        { return true }

func (p *ConstantOps) Run(fn *ir.Function) bool {
	changed := false
	for {
		if !p.runOnce(fn) {
			break
		}
		changed = true
	}
	return changed
}

func (p *ConstantOps) runOnce(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		kept := b.Instructions[:0]
		for _, inst := range b.Instructions {
			folded := foldInstruction(inst)
			if folded == nil {
				kept = append(kept, inst)
				continue
			}
			ir.ReplaceAllUsesWith(fn, inst, folded)
			changed = true
		}
		b.Instructions = kept
	}
	return changed
}

// foldInstruction evaluates inst at compile time if every operand is a
// Constant and the opcode is foldable, returning the resulting Constant
// or nil if inst cannot be folded (not all-constant, or an sdiv/srem by
// zero, which is left for runtime per spec.md §4.3.1).
func foldInstruction(inst ir.Instruction) *ir.Constant {
	switch i := inst.(type) {
	case *ir.BinaryMath:
		l, lok := i.Left.(*ir.Constant)
		r, rok := i.Right.(*ir.Constant)
		if !lok || !rok {
			return nil
		}
		return foldMath(i.Op, l, r, i.Typ)
	case *ir.BinaryCmp:
		l, lok := i.Left.(*ir.Constant)
		r, rok := i.Right.(*ir.Constant)
		if !lok || !rok {
			return nil
		}
		return foldCmp(i.Op, l, r)
	case *ir.Not:
		x, ok := i.X.(*ir.Constant)
		if !ok {
			return nil
		}
		if x.Val == 0 {
			return &ir.Constant{Val: 1, Typ: types.Int{}}
		}
		return &ir.Constant{Val: 0, Typ: types.Int{}}
	case *ir.SExt:
		x, ok := i.X.(*ir.Constant)
		if !ok {
			return nil
		}
		return &ir.Constant{Val: wrap(int64(x.Val), types.Int{}), Typ: types.Int{}}
	case *ir.Trunc:
		x, ok := i.X.(*ir.Constant)
		if !ok {
			return nil
		}
		return &ir.Constant{Val: wrap(int64(x.Val), types.Char{}), Typ: types.Char{}}
	default:
		return nil
	}
}

func foldMath(op ir.MathOp, l, r *ir.Constant, typ types.Type) *ir.Constant {
	a, b := int64(l.Val), int64(r.Val)
	var result int64
	switch op {
	case ir.Add:
		result = a + b
	case ir.Sub:
		result = a - b
	case ir.Mul:
		result = a * b
	case ir.SDiv:
		if b == 0 {
			return nil // left un-evaluated: do not trap at compile time
		}
		result = a / b
	case ir.SRem:
		if b == 0 {
			return nil
		}
		result = a % b
	default:
		return nil
	}
	return &ir.Constant{Val: wrap(result, typ), Typ: typ}
}

func foldCmp(op ir.CmpOp, l, r *ir.Constant) *ir.Constant {
	a, b := int64(l.Val), int64(r.Val)
	var truth bool
	switch op {
	case ir.Eq:
		truth = a == b
	case ir.Ne:
		truth = a != b
	case ir.Slt:
		truth = a < b
	case ir.Sgt:
		truth = a > b
	}
	// Comparisons produce i1 and are immediately zero-extended by the
	// emitter's convention (spec.md §4.3.1's "fold the extension too"):
	// since there is no separate i1 type in this IR, the folded constant
	// is already the zero-extended i32 0/1.
	if truth {
		return &ir.Constant{Val: 1, Typ: types.Int{}}
	}
	return &ir.Constant{Val: 0, Typ: types.Int{}}
}

// wrap applies two's-complement wraparound to fit v into typ's bit width.
func wrap(v int64, typ types.Type) int32 {
	bits := types.Bits(typ)
	mask := int64(1)<<uint(bits) - 1
	v &= mask
	signBit := int64(1) << uint(bits-1)
	if v&signBit != 0 {
		v -= mask + 1
	}
	return int32(v)
}
