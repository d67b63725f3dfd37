package optimize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"muc/internal/ir"
	"muc/internal/optimize"
	"muc/internal/types"
)

// A Br with a constant-true condition folds to a Jmp to Then; the
// not-taken block loses entry as a predecessor, and any phi at the
// head of the not-taken block drops the incoming edge from entry.
func TestConstantBranchFoldsTakenSide(t *testing.T) {
	fn := ir.NewFunction("f", nil, types.Int{})
	entry := fn.AddBlock("entry")
	other := fn.AddBlock("other") // a second predecessor of els, besides entry
	then := fn.AddBlock("then")
	els := fn.AddBlock("else")

	ir.NewBr(entry, constI(1), then, els)
	ir.NewJmp(other, els)
	ir.NewRet(then, nil)
	ir.NewRet(els, nil)

	phi := ir.NewPhi(els, types.Int{})
	phi.AddIncoming(entry, constI(10))
	phi.AddIncoming(other, constI(20))

	pass := &optimize.ConstantBranch{}
	changed := pass.Run(fn)
	assert.True(t, changed)

	jmp, ok := entry.Terminator.(*ir.Jmp)
	if assert.True(t, ok, "branch should have folded to a jump") {
		assert.Equal(t, then, jmp.Target)
	}

	assert.NotContains(t, els.Preds, entry)
	assert.Contains(t, els.Preds, other)
	assert.Equal(t, 1, len(phi.Incoming))
	assert.Equal(t, other, phi.Incoming[0].Pred)
}

func TestConstantBranchLeavesNonConstantAlone(t *testing.T) {
	fn := ir.NewFunction("f", []*ir.Argument{{Name: "n", Typ: types.Int{}}}, types.Int{})
	entry := fn.AddBlock("entry")
	then := fn.AddBlock("then")
	els := fn.AddBlock("else")

	ir.NewBr(entry, fn.Params[0], then, els)
	ir.NewRet(then, nil)
	ir.NewRet(els, nil)

	pass := &optimize.ConstantBranch{}
	changed := pass.Run(fn)
	assert.False(t, changed)
	_, stillBr := entry.Terminator.(*ir.Br)
	assert.True(t, stillBr)
}
