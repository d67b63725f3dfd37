package ssa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"muc/internal/ir"
	"muc/internal/ssa"
	"muc/internal/symbols"
	"muc/internal/types"
)

func newTestFunction(name string) *ir.Function {
	return ir.NewFunction(name, nil, types.Int{})
}

// A single straight-line block: write then read must return the same
// value without ever allocating a Phi.
func TestReadAfterWriteSameBlock(t *testing.T) {
	fn := newTestFunction("f")
	b := ssa.NewBuilder()
	entry := fn.AddBlock("entry")
	b.AddBlock(entry, true)

	x := &symbols.Identifier{Name: "x", Type: types.Int{}}
	c := &ir.Constant{Val: 42, Typ: types.Int{}}
	b.WriteVariable(x, entry, c)

	got := b.ReadVariable(x, entry)
	assert.Equal(t, ir.Value(c), got)
}

// A linear chain of sealed single-predecessor blocks must resolve a
// read by walking straight back to the write without inserting a Phi.
func TestSinglePredecessorChainNoPhi(t *testing.T) {
	fn := newTestFunction("f")
	b := ssa.NewBuilder()

	entry := fn.AddBlock("entry")
	b.AddBlock(entry, true)
	x := &symbols.Identifier{Name: "x", Type: types.Int{}}
	c := &ir.Constant{Val: 7, Typ: types.Int{}}
	b.WriteVariable(x, entry, c)

	mid := fn.AddBlock("mid")
	b.AddBlock(mid, true)
	ir.NewJmp(entry, mid)

	tail := fn.AddBlock("tail")
	b.AddBlock(tail, true)
	ir.NewJmp(mid, tail)

	got := b.ReadVariable(x, tail)
	assert.Equal(t, ir.Value(c), got)
}

// Two predecessors writing the same value must collapse to a trivial
// Phi that tryRemoveTrivialPhi eliminates, returning the shared value
// directly rather than a Phi.
func TestTrivialPhiElimination(t *testing.T) {
	fn := newTestFunction("f")
	b := ssa.NewBuilder()
	x := &symbols.Identifier{Name: "x", Type: types.Int{}}
	c := &ir.Constant{Val: 1, Typ: types.Int{}}

	entry := fn.AddBlock("entry")
	b.AddBlock(entry, true)

	left := fn.AddBlock("left")
	b.AddBlock(left, true)
	b.WriteVariable(x, left, c)

	right := fn.AddBlock("right")
	b.AddBlock(right, true)
	b.WriteVariable(x, right, c)

	join := fn.AddBlock("join")
	b.AddBlock(join, false)
	ir.NewJmp(left, join)
	ir.NewJmp(right, join)
	b.SealBlock(join)

	got := b.ReadVariable(x, join)
	assert.Equal(t, ir.Value(c), got)
	for _, inst := range join.Instructions {
		_, isPhi := inst.(*ir.Phi)
		assert.False(t, isPhi, "trivial phi should have been removed")
	}
}

// Two predecessors writing different values must keep a genuine Phi
// with one incoming edge per predecessor.
func TestGenuinePhiKept(t *testing.T) {
	fn := newTestFunction("f")
	b := ssa.NewBuilder()
	x := &symbols.Identifier{Name: "x", Type: types.Int{}}

	entry := fn.AddBlock("entry")
	b.AddBlock(entry, true)

	left := fn.AddBlock("left")
	b.AddBlock(left, true)
	cLeft := &ir.Constant{Val: 1, Typ: types.Int{}}
	b.WriteVariable(x, left, cLeft)

	right := fn.AddBlock("right")
	b.AddBlock(right, true)
	cRight := &ir.Constant{Val: 2, Typ: types.Int{}}
	b.WriteVariable(x, right, cRight)

	join := fn.AddBlock("join")
	b.AddBlock(join, false)
	ir.NewJmp(left, join)
	ir.NewJmp(right, join)
	b.SealBlock(join)

	got := b.ReadVariable(x, join)
	phi, isPhi := got.(*ir.Phi)
	if assert.True(t, isPhi, "expected a genuine phi") {
		assert.Equal(t, 2, len(phi.Incoming))
	}
}

// A loop header must stay unsealed until its back edge is linked: a
// read inside the loop body before the header is sealed must still
// resolve correctly to the loop-carried value once sealing completes.
func TestLoopHeaderSealedAfterBackEdge(t *testing.T) {
	fn := newTestFunction("f")
	b := ssa.NewBuilder()
	x := &symbols.Identifier{Name: "x", Type: types.Int{}}

	entry := fn.AddBlock("entry")
	b.AddBlock(entry, true)
	zero := &ir.Constant{Val: 0, Typ: types.Int{}}
	b.WriteVariable(x, entry, zero)

	header := fn.AddBlock("header")
	b.AddBlock(header, false) // unsealed: back edge not yet known
	ir.NewJmp(entry, header)

	// Body reads x while header is still unsealed: must get an
	// incomplete phi, not a resolved constant.
	body := fn.AddBlock("body")
	b.AddBlock(body, true)
	ir.NewJmp(header, body)
	headerRead := b.ReadVariable(x, header)
	_, isPhi := headerRead.(*ir.Phi)
	assert.True(t, isPhi, "unsealed header read must produce a phi placeholder")

	one := &ir.Constant{Val: 1, Typ: types.Int{}}
	sum := ir.NewBinaryMath(body, ir.Add, types.Int{}, headerRead, one)
	b.WriteVariable(x, body, sum)

	ir.NewJmp(body, header) // back edge linked
	b.SealBlock(header)     // now safe to seal

	got := b.ReadVariable(x, header)
	phi, isPhi := got.(*ir.Phi)
	if assert.True(t, isPhi, "loop-carried value must be a genuine phi") {
		assert.Equal(t, 2, len(phi.Incoming))
	}
}

// An unreachable variable read (a sealed block with zero predecessors
// and no prior write) must return a zero constant of the variable's
// type rather than panicking.
func TestUnreachableReadReturnsZero(t *testing.T) {
	fn := newTestFunction("f")
	b := ssa.NewBuilder()
	x := &symbols.Identifier{Name: "x", Type: types.Int{}}

	dead := fn.AddBlock("dead")
	b.AddBlock(dead, true) // sealed, zero preds

	got := b.ReadVariable(x, dead)
	c, ok := got.(*ir.Constant)
	if assert.True(t, ok) {
		assert.Equal(t, int32(0), c.Val)
	}
}
