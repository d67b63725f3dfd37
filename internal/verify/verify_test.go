package verify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"muc/internal/ir"
	"muc/internal/types"
	"muc/internal/verify"
)

func constI(v int32) *ir.Constant { return &ir.Constant{Val: v, Typ: types.Int{}} }

// A well-formed diamond with a correctly-populated phi must pass every
// check without panicking.
func TestModuleAcceptsWellFormedFunction(t *testing.T) {
	fn := ir.NewFunction("f", nil, types.Int{})
	entry := fn.AddBlock("entry")
	left := fn.AddBlock("left")
	right := fn.AddBlock("right")
	join := fn.AddBlock("join")

	ir.NewBr(entry, constI(1), left, right)
	ir.NewJmp(left, join)
	ir.NewJmp(right, join)

	phi := ir.NewPhi(join, types.Int{})
	phi.AddIncoming(left, constI(10))
	phi.AddIncoming(right, constI(20))
	ir.NewRet(join, phi)

	m := &ir.Module{Name: "m", Functions: []*ir.Function{fn}}
	assert.NotPanics(t, func() { verify.Module(m) })
}

// A declare-only function (e.g. printf) has no entry block and must
// be skipped rather than panicking on a nil block list.
func TestFunctionSkipsDeclareOnly(t *testing.T) {
	fn := ir.NewFunction("printf", nil, types.Int{})
	assert.NotPanics(t, func() { verify.Function(fn) })
}

// A phi with fewer incoming edges than its block has predecessors
// violates P2 and must panic with a Violation.
func TestCheckPhisCatchesArityMismatch(t *testing.T) {
	fn := ir.NewFunction("f", nil, types.Int{})
	entry := fn.AddBlock("entry")
	left := fn.AddBlock("left")
	right := fn.AddBlock("right")
	join := fn.AddBlock("join")

	ir.NewBr(entry, constI(1), left, right)
	ir.NewJmp(left, join)
	ir.NewJmp(right, join)

	phi := ir.NewPhi(join, types.Int{})
	phi.AddIncoming(left, constI(10)) // missing the "right" edge
	ir.NewRet(join, phi)

	assert.Panics(t, func() { verify.Function(fn) })
	func() {
		defer func() {
			r := recover()
			_, ok := r.(verify.Violation)
			assert.True(t, ok, "expected a verify.Violation panic")
		}()
		verify.Function(fn)
	}()
}

// A value used in a block its defining block does not dominate
// violates P3.
func TestCheckDominanceCatchesNonDominatingUse(t *testing.T) {
	fn := ir.NewFunction("f", nil, types.Int{})
	entry := fn.AddBlock("entry")
	left := fn.AddBlock("left")
	right := fn.AddBlock("right")

	onlyInLeft := ir.NewBinaryMath(left, ir.Add, types.Int{}, constI(1), constI(2))
	ir.NewBr(entry, constI(1), left, right)
	ir.NewJmp(left, right)
	// right uses a value defined only in left, but left does not
	// dominate right (entry can reach right directly).
	ir.NewRet(right, onlyInLeft)

	assert.Panics(t, func() { verify.Function(fn) })
}
