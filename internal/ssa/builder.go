// Package ssa implements the Braun-Buchwald-Hack on-the-fly SSA
// construction algorithm ("Simple and Efficient Construction of Static
// Single Assignment Form"), driven by internal/emit as it lowers the
// AST one basic block at a time. Method names and signatures are
// grounded on uscc's SSABuilder.cpp (reset/writeVariable/readVariable/
// addBlock/sealBlock/readVariableRecursive/addPhiOperands/
// tryRemoveTrivialPhi), whose bodies are unimplemented stubs in
// original_source/ — the algorithm itself follows the Braun paper as
// described by spec.md §4.2.
package ssa

import (
	"muc/internal/ir"
	"muc/internal/symbols"
)

// Builder tracks per-block reaching definitions for every variable
// during emission of a single function. Create a fresh Builder (or call
// Reset) per function.
type Builder struct {
	currentDef     map[*ir.BasicBlock]map[*symbols.Identifier]ir.Value
	incompletePhis map[*ir.BasicBlock]map[*symbols.Identifier]*ir.Phi
}

// NewBuilder returns a Builder ready for one function's emission.
func NewBuilder() *Builder {
	b := &Builder{}
	b.Reset()
	return b
}

// Reset clears all per-function state, ready to emit the next function.
func (b *Builder) Reset() {
	b.currentDef = make(map[*ir.BasicBlock]map[*symbols.Identifier]ir.Value)
	b.incompletePhis = make(map[*ir.BasicBlock]map[*symbols.Identifier]*ir.Phi)
}

// AddBlock registers blk with the builder. Pass sealed=true only when
// every predecessor blk will ever have is already wired (e.g. the
// function entry block, or a block whose only edges are from blocks
// emitted strictly before it with no back-edge).
func (b *Builder) AddBlock(blk *ir.BasicBlock, sealed bool) {
	b.currentDef[blk] = make(map[*symbols.Identifier]ir.Value)
	if sealed {
		blk.Sealed = true
		return
	}
	b.incompletePhis[blk] = make(map[*symbols.Identifier]*ir.Phi)
}

// WriteVariable records that v's reaching definition at the end of blk is val.
func (b *Builder) WriteVariable(v *symbols.Identifier, blk *ir.BasicBlock, val ir.Value) {
	b.currentDef[blk][v] = val
}

// ReadVariable returns v's reaching definition at the end of blk,
// recursing through predecessors (and inserting PHIs) as needed.
func (b *Builder) ReadVariable(v *symbols.Identifier, blk *ir.BasicBlock) ir.Value {
	if val, ok := b.currentDef[blk][v]; ok {
		return val
	}
	return b.readVariableRecursive(v, blk)
}

func (b *Builder) readVariableRecursive(v *symbols.Identifier, blk *ir.BasicBlock) ir.Value {
	var val ir.Value

	switch {
	case !blk.Sealed:
		phi := ir.NewPhi(blk, v.Type)
		b.incompletePhis[blk][v] = phi
		val = phi
	case len(blk.Preds) == 1:
		val = b.ReadVariable(v, blk.Preds[0])
	case len(blk.Preds) == 0:
		// A sealed block with no predecessors reading a variable with no
		// prior write is an uninitialized local read; μC has no
		// definite-assignment check, so it evaluates to the type's zero
		// value rather than being treated as a builder error.
		val = &ir.Constant{Val: 0, Typ: v.Type}
	default:
		phi := ir.NewPhi(blk, v.Type)
		b.WriteVariable(v, blk, phi) // break cycles before recursing into predecessors
		val = b.addPhiOperands(v, phi)
	}

	b.WriteVariable(v, blk, val)
	return val
}

func (b *Builder) addPhiOperands(v *symbols.Identifier, phi *ir.Phi) ir.Value {
	for _, pred := range phi.Block().Preds {
		phi.AddIncoming(pred, b.ReadVariable(v, pred))
	}
	return b.tryRemoveTrivialPhi(phi)
}

// tryRemoveTrivialPhi collapses phi to its single non-self operand when
// all of its incoming values are either phi itself or one other value,
// and recursively re-simplifies every PHI that had used phi (since
// removing one trivial PHI can make another trivial). A PHI whose
// incoming values are all itself (no real definition reaches it) is
// left in place as a placeholder, per spec.
func (b *Builder) tryRemoveTrivialPhi(phi *ir.Phi) ir.Value {
	var same ir.Value
	for _, e := range phi.Incoming {
		if e.Value == ir.Value(phi) || e.Value == same {
			continue
		}
		if same != nil {
			return phi // merges at least two distinct values: not trivial
		}
		same = e.Value
	}
	if same == nil {
		return phi // undefined on every path: keep as placeholder
	}

	users := b.phiUsersOf(phi)

	ir.ReplaceAllUsesWith(phi.Block().Func, phi, same)
	phi.Block().RemoveInstruction(phi)
	for _, defs := range b.currentDef {
		for v, val := range defs {
			if val == ir.Value(phi) {
				defs[v] = same
			}
		}
	}

	for _, user := range users {
		if user != phi {
			b.tryRemoveTrivialPhi(user)
		}
	}
	return same
}

// phiUsersOf finds every other PHI in the function that currently lists
// target as one of its incoming values, collected before
// ReplaceAllUsesWith rewrites them away.
func (b *Builder) phiUsersOf(target *ir.Phi) []*ir.Phi {
	var users []*ir.Phi
	for _, blk := range target.Block().Func.Blocks {
		for _, inst := range blk.Instructions {
			p, ok := inst.(*ir.Phi)
			if !ok || p == target {
				continue
			}
			for _, e := range p.Incoming {
				if e.Value == ir.Value(target) {
					users = append(users, p)
					break
				}
			}
		}
	}
	return users
}

// SealBlock commits blk's final predecessor set, completing every PHI
// that was left incomplete while blk was open (spec.md §4.2's
// loop-header treatment: a loop header must stay unsealed until its
// back-edge is wired, or the back-edge contributes no incoming and the
// resulting SSA is silently wrong).
func (b *Builder) SealBlock(blk *ir.BasicBlock) {
	for v, phi := range b.incompletePhis[blk] {
		b.addPhiOperands(v, phi)
	}
	delete(b.incompletePhis, blk)
	blk.Sealed = true
}
