package ir

// Effect classifies what an instruction can do to memory or control
// flow, consulted by LICM to decide what is safe to hoist out of a
// loop. Grounded on the teacher's internal/ir/effects.go (a GetEffects()
// method per instruction type, returning a PureEffect/MemoryEffectOp/
// StorageEffect), trimmed to μC's two kinds of effect since there is no
// storage layer here.
type Effect interface {
	EffectKind() string
}

// PureEffect marks an instruction that only reads its operands and
// produces a result: safe to hoist, reorder, or delete if unused.
type PureEffect struct{}

func (PureEffect) EffectKind() string { return "pure" }

// MemoryEffect marks a read or write through a pointer (Alloca/GEP
// address). Conservative: LICM never hoists a MemoryEffect instruction
// since μC arrays may alias through a parameter pointer.
type MemoryEffect struct {
	Write bool
}

func (MemoryEffect) EffectKind() string { return "memory" }

// CallEffect marks a call to another function, which may read or write
// any memory reachable through its arguments and can have unbounded
// side effects (e.g. printf) — never hoisted, never treated as pure.
type CallEffect struct{}

func (CallEffect) EffectKind() string { return "call" }

// TrapEffect marks an instruction that can fault when executed
// speculatively — a division or remainder whose divisor is not proven
// nonzero at compile time (spec.md §4.3.4 rule 2: "no division by a
// non-proven-nonzero divisor"). LICM never hoists a TrapEffect
// instruction: running it in the loop's always-reached preheader could
// introduce a fault that the original control flow never reached.
type TrapEffect struct{}

func (TrapEffect) EffectKind() string { return "trap" }

func (i *BinaryMath) Effects() []Effect {
	if (i.Op == SDiv || i.Op == SRem) && !isNonzeroConstant(i.Right) {
		return []Effect{TrapEffect{}}
	}
	return []Effect{PureEffect{}}
}

func isNonzeroConstant(v Value) bool {
	c, ok := v.(*Constant)
	return ok && c.Val != 0
}

func (i *BinaryCmp) Effects() []Effect { return []Effect{PureEffect{}} }
func (i *Not) Effects() []Effect       { return []Effect{PureEffect{}} }
func (i *SExt) Effects() []Effect      { return []Effect{PureEffect{}} }
func (i *Trunc) Effects() []Effect     { return []Effect{PureEffect{}} }
func (i *Alloca) Effects() []Effect    { return []Effect{MemoryEffect{Write: true}} }
func (i *GEP) Effects() []Effect       { return []Effect{PureEffect{}} }
func (i *Load) Effects() []Effect      { return []Effect{MemoryEffect{Write: false}} }
func (i *Store) Effects() []Effect     { return []Effect{MemoryEffect{Write: true}} }
func (i *Call) Effects() []Effect      { return []Effect{CallEffect{}} }
func (i *Phi) Effects() []Effect       { return []Effect{PureEffect{}} }

func (i *Ret) Effects() []Effect { return []Effect{PureEffect{}} }
func (i *Jmp) Effects() []Effect { return []Effect{PureEffect{}} }
func (i *Br) Effects() []Effect  { return []Effect{PureEffect{}} }

// IsPure reports whether every effect inst carries is PureEffect —
// LICM's hoistability test (spec.md §4.3.6).
func IsPure(inst Instruction) bool {
	for _, e := range inst.Effects() {
		if _, ok := e.(PureEffect); !ok {
			return false
		}
	}
	return true
}
