// Package verify checks a module's structural invariants after
// emission and again after optimization (spec.md §7 regime 2: these
// are programming-error checks, not user-facing diagnostics — a
// failure means the compiler itself is broken, so it panics rather
// than returning an error). Grounded on the teacher's internal/ir
// verifier pass (a Violation-style panic carrying a message and the
// offending node), trimmed to the four structural properties μC's core
// actually needs (P1-P4 of spec.md §8; P5-P7 are properties of the
// optimizer's behavior across repeated runs and are not checked by this
// structural walk).
package verify

import (
	"fmt"

	"muc/internal/cfg"
	"muc/internal/ir"
)

// Violation is panicked by Module when a structural invariant fails.
// It is never recovered except by cmd/muc's top-level handler, which
// reports it as a compiler bug and exits non-zero.
type Violation struct {
	Message string
}

func (v Violation) Error() string { return v.Message }

func fail(format string, args ...interface{}) {
	panic(Violation{Message: fmt.Sprintf(format, args...)})
}

// Module checks every function in m against P1-P4 and panics with a
// Violation on the first failure found.
func Module(m *ir.Module) {
	for _, fn := range m.Functions {
		Function(fn)
	}
}

// Function checks one function's blocks, predecessors, PHIs, and
// dominance against the structural invariants.
func Function(fn *ir.Function) {
	if fn.Entry == nil {
		return // declare-only (e.g. printf)
	}
	checkPredecessors(fn)
	checkPhis(fn)
	checkDominance(fn)
}

// checkPredecessors asserts P1: every block's predecessor list equals
// the set of blocks whose terminator actually targets it.
func checkPredecessors(fn *ir.Function) {
	actual := make(map[*ir.BasicBlock]map[*ir.BasicBlock]bool)
	for _, b := range fn.Blocks {
		actual[b] = make(map[*ir.BasicBlock]bool)
	}
	for _, b := range fn.Blocks {
		if b.Terminator == nil {
			fail("block %s has no terminator", b.Name)
		}
		for _, succ := range b.Terminator.Successors() {
			actual[succ][b] = true
		}
	}
	for _, b := range fn.Blocks {
		want := actual[b]
		if len(want) != len(b.Preds) {
			fail("block %s: predecessor list has %d entries, CFG edges give %d", b.Name, len(b.Preds), len(want))
		}
		for _, p := range b.Preds {
			if !want[p] {
				fail("block %s lists %s as a predecessor, but no terminator targets it", b.Name, p.Name)
			}
		}
	}
}

// checkPhis asserts P2 and P4: every PHI's operand count equals its
// block's predecessor count with each predecessor appearing exactly
// once, and no PHI is trivial.
func checkPhis(fn *ir.Function) {
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			phi, ok := inst.(*ir.Phi)
			if !ok {
				continue
			}
			if len(phi.Incoming) != len(b.Preds) {
				fail("phi %%%d in block %s has %d incoming values, block has %d predecessors", phi.ID(), b.Name, len(phi.Incoming), len(b.Preds))
			}
			seen := make(map[*ir.BasicBlock]bool)
			for _, e := range phi.Incoming {
				if seen[e.Pred] {
					fail("phi %%%d in block %s lists predecessor %s more than once", phi.ID(), b.Name, e.Pred.Name)
				}
				seen[e.Pred] = true
			}
			if isTrivial(phi) {
				fail("phi %%%d in block %s is trivial and should have been eliminated", phi.ID(), b.Name)
			}
		}
	}
}

func isTrivial(phi *ir.Phi) bool {
	var same ir.Value
	for _, e := range phi.Incoming {
		if e.Value == ir.Value(phi) {
			continue
		}
		if same == nil {
			same = e.Value
			continue
		}
		if e.Value != same {
			return false
		}
	}
	return true
}

// checkDominance asserts P3: every use of an instruction is in a block
// dominated by the instruction's defining block (PHI incoming values
// are checked against their corresponding predecessor instead, since a
// PHI operand is live at the END of the predecessor, not at the PHI's
// own position).
func checkDominance(fn *ir.Function) {
	dom := cfg.Dominators(fn)
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			for _, op := range inst.Operands() {
				checkOperandDominance(dom, b, inst, op)
			}
		}
		if b.Terminator != nil {
			for _, op := range b.Terminator.Operands() {
				checkOperandDominance(dom, b, b.Terminator, op)
			}
		}
	}
}

func checkOperandDominance(dom *cfg.DomTree, useBlock *ir.BasicBlock, user ir.Instruction, op ir.Value) {
	defInst, ok := op.(ir.Instruction)
	if !ok {
		return // Constant/Argument/GlobalString: always available
	}
	defBlock := defInst.Block()

	if phi, isPhi := user.(*ir.Phi); isPhi {
		for _, e := range phi.Incoming {
			if e.Value == op {
				if !dom.Dominates(defBlock, e.Pred) {
					fail("value %%%d does not dominate incoming edge from %s to phi %%%d", defInst.ID(), e.Pred.Name, phi.ID())
				}
			}
		}
		return
	}

	if !dom.Dominates(defBlock, useBlock) {
		fail("value %%%d defined in %s does not dominate its use in %s", defInst.ID(), defBlock.Name, useBlock.Name)
	}
}
