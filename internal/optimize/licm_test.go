package optimize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"muc/internal/ir"
	"muc/internal/optimize"
	"muc/internal/types"
)

// An expression depending only on a function argument and a constant
// is loop-invariant and must be hoisted to the preheader; an
// expression depending on the loop-carried phi must stay in the body.
func TestLICMHoistsInvariantExpression(t *testing.T) {
	arg := &ir.Argument{Name: "a", Typ: types.Int{}}
	fn := ir.NewFunction("f", []*ir.Argument{arg}, types.Int{})

	entry := fn.AddBlock("entry") // becomes the loop's preheader
	header := fn.AddBlock("header")
	body := fn.AddBlock("body")
	exit := fn.AddBlock("exit")

	ir.NewJmp(entry, header)

	phi := ir.NewPhi(header, types.Int{})
	cond := ir.NewBinaryCmp(header, ir.Slt, phi, constI(10))
	ir.NewBr(header, cond, body, exit)

	invariant := ir.NewBinaryMath(body, ir.Add, types.Int{}, arg, constI(1))
	next := ir.NewBinaryMath(body, ir.Add, types.Int{}, phi, constI(1))
	ir.NewJmp(body, header)

	phi.AddIncoming(entry, constI(0))
	phi.AddIncoming(body, next)

	ir.NewRet(exit, nil)

	pass := &optimize.LICM{}
	changed := pass.Run(fn)
	assert.True(t, changed)

	assert.Contains(t, entry.Instructions, ir.Instruction(invariant))
	assert.NotContains(t, body.Instructions, ir.Instruction(invariant))
	assert.Contains(t, body.Instructions, ir.Instruction(next))
	assert.Equal(t, entry, invariant.Block())
}

// A division whose divisor is a variable (not a proven-nonzero
// constant) is loop-invariant by value but must stay in the body: the
// loop may never execute at runtime (spec.md §4.3.4 rule 2), and
// hoisting it into the always-executed preheader would introduce a
// trap, e.g. a divide-by-zero, that the source program never reached.
func TestLICMSkipsDivisionByUnprovenDivisor(t *testing.T) {
	n := &ir.Argument{Name: "n", Typ: types.Int{}}
	d := &ir.Argument{Name: "d", Typ: types.Int{}}
	fn := ir.NewFunction("f", []*ir.Argument{n, d}, types.Int{})

	entry := fn.AddBlock("entry")
	header := fn.AddBlock("header")
	body := fn.AddBlock("body")
	exit := fn.AddBlock("exit")

	ir.NewJmp(entry, header)

	phi := ir.NewPhi(header, types.Int{})
	cond := ir.NewBinaryCmp(header, ir.Slt, phi, constI(3))
	ir.NewBr(header, cond, body, exit)

	div := ir.NewBinaryMath(body, ir.SDiv, types.Int{}, n, d)
	next := ir.NewBinaryMath(body, ir.Add, types.Int{}, phi, constI(1))
	ir.NewJmp(body, header)

	phi.AddIncoming(entry, constI(5))
	phi.AddIncoming(body, next)

	ir.NewRet(exit, nil)

	pass := &optimize.LICM{}
	pass.Run(fn)

	assert.Contains(t, body.Instructions, ir.Instruction(div))
	assert.NotContains(t, entry.Instructions, ir.Instruction(div))
	assert.Equal(t, body, div.Block())
}

// A division by a provably-nonzero constant divisor carries no trap
// risk and is hoisted like any other loop-invariant pure instruction.
func TestLICMHoistsDivisionByNonzeroConstant(t *testing.T) {
	n := &ir.Argument{Name: "n", Typ: types.Int{}}
	fn := ir.NewFunction("f", []*ir.Argument{n}, types.Int{})

	entry := fn.AddBlock("entry")
	header := fn.AddBlock("header")
	body := fn.AddBlock("body")
	exit := fn.AddBlock("exit")

	ir.NewJmp(entry, header)

	phi := ir.NewPhi(header, types.Int{})
	cond := ir.NewBinaryCmp(header, ir.Slt, phi, constI(3))
	ir.NewBr(header, cond, body, exit)

	div := ir.NewBinaryMath(body, ir.SDiv, types.Int{}, n, constI(2))
	next := ir.NewBinaryMath(body, ir.Add, types.Int{}, phi, constI(1))
	ir.NewJmp(body, header)

	phi.AddIncoming(entry, constI(0))
	phi.AddIncoming(body, next)

	ir.NewRet(exit, nil)

	pass := &optimize.LICM{}
	changed := pass.Run(fn)
	assert.True(t, changed)

	assert.Contains(t, entry.Instructions, ir.Instruction(div))
	assert.NotContains(t, body.Instructions, ir.Instruction(div))
}

// A loop whose header has more than one predecessor outside the loop
// has no preheader, and LICM must leave it untouched.
func TestLICMSkipsLoopWithoutPreheader(t *testing.T) {
	arg := &ir.Argument{Name: "a", Typ: types.Int{}}
	fn := ir.NewFunction("f", []*ir.Argument{arg}, types.Int{})

	entry := fn.AddBlock("entry")
	pre1 := fn.AddBlock("pre1")
	pre2 := fn.AddBlock("pre2")
	header := fn.AddBlock("header")
	body := fn.AddBlock("body")
	exit := fn.AddBlock("exit")

	ir.NewBr(entry, constI(1), pre1, pre2)
	ir.NewJmp(pre1, header)
	ir.NewJmp(pre2, header)

	phi := ir.NewPhi(header, types.Int{})
	cond := ir.NewBinaryCmp(header, ir.Slt, phi, constI(10))
	ir.NewBr(header, cond, body, exit)

	invariant := ir.NewBinaryMath(body, ir.Add, types.Int{}, arg, constI(1))
	ir.NewJmp(body, header)
	phi.AddIncoming(pre1, constI(0))
	phi.AddIncoming(pre2, constI(0))
	phi.AddIncoming(body, invariant)

	ir.NewRet(exit, nil)

	pass := &optimize.LICM{}
	changed := pass.Run(fn)
	assert.False(t, changed)
	assert.Contains(t, body.Instructions, ir.Instruction(invariant))
}
