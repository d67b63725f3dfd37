package cfg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"muc/internal/cfg"
	"muc/internal/ir"
	"muc/internal/types"
)

// Diamond CFG: entry -> {left, right} -> join. The entry dominates
// every block; left and right dominate only themselves; join is
// dominated by entry but by neither arm.
func TestDominatorsDiamond(t *testing.T) {
	fn := ir.NewFunction("f", nil, types.Int{})
	entry := fn.AddBlock("entry")
	left := fn.AddBlock("left")
	right := fn.AddBlock("right")
	join := fn.AddBlock("join")

	cond := &ir.Constant{Val: 1, Typ: types.Int{}}
	ir.NewBr(entry, cond, left, right)
	ir.NewJmp(left, join)
	ir.NewJmp(right, join)
	ir.NewRet(join, nil)

	dom := cfg.Dominators(fn)
	assert.True(t, dom.Dominates(entry, join))
	assert.True(t, dom.Dominates(entry, left))
	assert.True(t, dom.Dominates(entry, right))
	assert.False(t, dom.Dominates(left, join))
	assert.False(t, dom.Dominates(right, join))
	assert.Equal(t, entry, dom.ImmediateDominator(join))
}

// A single natural loop (entry -> header -> body -> header, header ->
// exit) must be found with the correct preheader and block set.
func TestNaturalLoopsSimple(t *testing.T) {
	fn := ir.NewFunction("f", nil, types.Int{})
	entry := fn.AddBlock("entry")
	header := fn.AddBlock("header")
	body := fn.AddBlock("body")
	exit := fn.AddBlock("exit")

	ir.NewJmp(entry, header)
	cond := &ir.Constant{Val: 1, Typ: types.Int{}}
	ir.NewBr(header, cond, body, exit)
	ir.NewJmp(body, header)
	ir.NewRet(exit, nil)

	dom := cfg.Dominators(fn)
	loops := cfg.NaturalLoops(fn, dom)
	if !assert.Equal(t, 1, len(loops)) {
		return
	}

	loop := loops[0]
	assert.Equal(t, header, loop.Header)
	assert.Equal(t, entry, loop.Preheader)
	assert.True(t, loop.Blocks[header])
	assert.True(t, loop.Blocks[body])
	assert.False(t, loop.Blocks[exit])
	assert.False(t, loop.Blocks[entry])
}

// A header reached by two outside-the-loop predecessors has no unique
// preheader and LICM must skip it.
func TestNaturalLoopsNoPreheader(t *testing.T) {
	fn := ir.NewFunction("f", nil, types.Int{})
	entry := fn.AddBlock("entry")
	pre1 := fn.AddBlock("pre1")
	pre2 := fn.AddBlock("pre2")
	header := fn.AddBlock("header")
	body := fn.AddBlock("body")
	exit := fn.AddBlock("exit")

	cond := &ir.Constant{Val: 1, Typ: types.Int{}}
	ir.NewBr(entry, cond, pre1, pre2)
	ir.NewJmp(pre1, header)
	ir.NewJmp(pre2, header)
	ir.NewBr(header, cond, body, exit)
	ir.NewJmp(body, header)
	ir.NewRet(exit, nil)

	dom := cfg.Dominators(fn)
	loops := cfg.NaturalLoops(fn, dom)
	if assert.Equal(t, 1, len(loops)) {
		assert.Nil(t, loops[0].Preheader)
	}
}
