package optimize

import (
	"muc/internal/cfg"
	"muc/internal/ir"
)

// LICM hoists loop-invariant, side-effect-free instructions out of
// natural loops into their preheader (spec.md §4.3.4-4.3.6). Designed
// directly from the spec's algorithm description: uscc's LICM.cpp is an
// unfilled stub in original_source/, so there is no reference body to
// port — only the dominator/loop analyses it assumes (internal/cfg) are
// grounded on established textbook algorithms.
type LICM struct{}

func (*LICM) Name() string              { return "LICM" }
func (*LICM) RequiredAnalyses() []string { return []string{"DeadBlocks"} }
func (*LICM) PreservesCFG() bool        { return true }

func (*LICM) Run(fn *ir.Function) bool {
	dom := cfg.Dominators(fn)
	loops := cfg.NaturalLoops(fn, dom)
	preorder := dom.PreOrder()

	changed := false
	for _, loop := range loops {
		if loop.Preheader == nil {
			continue // no preheader: skip, per spec.md §4.3.4
		}
		exclusive := exclusiveBlocks(loop, loops)
		if hoistLoop(loop, exclusive, preorder) {
			changed = true
		}
	}
	return changed
}

// exclusiveBlocks returns the blocks belonging to loop but not to any
// other loop nested strictly inside it (spec.md §4.3.4: "nested-loop
// blocks are skipped; the nested loop will be handled as its own
// loop"). A loop is nested inside another when its block set is a
// proper subset of the outer loop's.
func exclusiveBlocks(loop *cfg.Loop, all []*cfg.Loop) map[*ir.BasicBlock]bool {
	exclusive := make(map[*ir.BasicBlock]bool, len(loop.Blocks))
	for b := range loop.Blocks {
		exclusive[b] = true
	}
	for _, other := range all {
		if other == loop || len(other.Blocks) >= len(loop.Blocks) {
			continue
		}
		nested := true
		for b := range other.Blocks {
			if !loop.Blocks[b] {
				nested = false
				break
			}
		}
		if nested {
			for b := range other.Blocks {
				delete(exclusive, b)
			}
		}
	}
	return exclusive
}

// hoistLoop walks fn's blocks in dominator-tree pre-order, restricted to
// loop's own exclusive blocks, hoisting every instruction proven
// loop-invariant as it goes. Pre-order guarantees an instruction's
// operand-defining instructions, if themselves hoistable, have already
// been moved to the preheader by the time this instruction is
// considered — so a chain of invariant computations converges in one pass.
func hoistLoop(loop *cfg.Loop, exclusive map[*ir.BasicBlock]bool, preorder []*ir.BasicBlock) bool {
	changed := false
	hoisted := make(map[ir.Value]bool)

	for _, b := range preorder {
		if !exclusive[b] {
			continue
		}

		kept := b.Instructions[:0]
		for _, inst := range b.Instructions {
			if canHoist(inst, loop, hoisted) {
				moveToPreheader(inst, loop.Preheader)
				hoisted[inst.(ir.Value)] = true
				changed = true
				continue
			}
			kept = append(kept, inst)
		}
		b.Instructions = kept
	}
	return changed
}

// canHoist implements spec.md §4.3.4's three-part safety test: every
// operand loop-invariant, the instruction pure, and its opcode in the
// hoistable set (binary arithmetic, compare, cast, GEP — Phi and memory
// ops are never hoisted). ir.IsPure is what actually enforces rule 2's
// "no division by a non-proven-nonzero divisor": an SDiv/SRem whose
// divisor isn't a nonzero constant reports TrapEffect rather than
// PureEffect (internal/ir/effects.go), so it fails the purity check
// here and is never hoisted into the always-executed preheader.
func canHoist(inst ir.Instruction, loop *cfg.Loop, hoisted map[ir.Value]bool) bool {
	if !hoistableOpcode(inst) {
		return false
	}
	if !ir.IsPure(inst) {
		return false
	}
	for _, op := range inst.Operands() {
		if !isInvariant(op, loop, hoisted) {
			return false
		}
	}
	return true
}

func hoistableOpcode(inst ir.Instruction) bool {
	switch inst.(type) {
	case *ir.BinaryMath, *ir.BinaryCmp, *ir.Not, *ir.SExt, *ir.Trunc, *ir.GEP:
		return true
	default:
		return false
	}
}

// isInvariant reports whether v is defined outside the loop: a
// Constant/Argument/GlobalString always qualifies; an Instruction
// qualifies if its defining block is outside the loop's block set, or
// if it has already been hoisted to the preheader this pass.
func isInvariant(v ir.Value, loop *cfg.Loop, hoisted map[ir.Value]bool) bool {
	inst, ok := v.(ir.Instruction)
	if !ok {
		return true // Constant, Argument, GlobalString
	}
	if hoisted[v] {
		return true
	}
	return !loop.Blocks[inst.Block()]
}

// moveToPreheader relocates inst from its current block to the end of
// preheader's instruction list, immediately before preheader's
// terminator (spec.md §4.3.4).
func moveToPreheader(inst ir.Instruction, preheader *ir.BasicBlock) {
	preheader.Instructions = append(preheader.Instructions, inst)
	ir.Relocate(inst, preheader)
}
