package optimize

import "muc/internal/ir"

// ConstantBranch rewrites every conditional branch whose condition is a
// known Constant into an unconditional jump, dropping the not-taken
// edge (spec.md §4.3.2). Ported from uscc's ConstantBranch.cpp: collect
// the conditional branches to fold first, then rewrite each — splitting
// the find and mutate phases avoids mutating the block list while
// iterating it.
type ConstantBranch struct{}

func (*ConstantBranch) Name() string              { return "ConstantBranch" }
func (*ConstantBranch) RequiredAnalyses() []string { return []string{"ConstantOps"} }
func (*ConstantBranch) PreservesCFG() bool        { return false }

func (*ConstantBranch) Run(fn *ir.Function) bool {
	var toFold []*ir.Br
	for _, b := range fn.Blocks {
		if br, ok := b.Terminator.(*ir.Br); ok {
			if _, isConst := br.Cond.(*ir.Constant); isConst {
				toFold = append(toFold, br)
			}
		}
	}

	for _, br := range toFold {
		block := br.Block()
		cond := br.Cond.(*ir.Constant)

		taken, notTaken := br.Then, br.Else
		if cond.Val == 0 {
			taken, notTaken = br.Else, br.Then
		}

		block.ClearTerminator()
		notTaken.RemovePredecessor(block)
		dropPhiIncoming(notTaken, block)
		ir.NewJmp(block, taken)
	}

	return len(toFold) > 0
}

// dropPhiIncoming removes the incoming edge from pred in every PHI at
// the head of blk, mirroring uscc's removePredecessor which also prunes
// any PHI operand naming the removed predecessor. A PHI left trivial by
// the removal (every remaining incoming value is itself or one other
// value) is replaced by that value and erased; PHIs that used it are
// not re-examined here.
func dropPhiIncoming(blk, pred *ir.BasicBlock) {
	for _, inst := range append([]ir.Instruction(nil), blk.Instructions...) {
		phi, ok := inst.(*ir.Phi)
		if !ok {
			continue
		}
		phi.RemoveIncoming(pred)
		var same ir.Value
		trivial := true
		for _, e := range phi.Incoming {
			if e.Value != ir.Value(phi) && e.Value != same {
				trivial = trivial && same == nil
				same = e.Value
			}
		}
		if trivial && same != nil {
			ir.ReplaceAllUsesWith(blk.Func, phi, same)
			blk.RemoveInstruction(phi)
		}
	}
}
