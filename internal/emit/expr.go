package emit

import (
	"muc/internal/ast"
	"muc/internal/ir"
	"muc/internal/types"
)

// expr lowers e to a Value, re-reading e.current internally wherever a
// sub-emission might have redirected control flow (logical && / ||).
func (e *emitter) expr(expr ast.Expr) ir.Value {
	switch ex := expr.(type) {
	case *ast.ConstantExpr:
		return &ir.Constant{Val: ex.Value, Typ: types.Int{}}
	case *ast.StringExpr:
		return e.module.InternString(ex.Value)
	case *ast.IdentExpr:
		id := e.binding.Lookup(ex)
		return e.builder.ReadVariable(id, e.current)
	case *ast.ArrayRefExpr:
		return e.arrayRef(ex)
	case *ast.FuncCallExpr:
		return e.call(ex)
	case *ast.IncExpr:
		return e.incDec(ex, ex.Name, ir.Add)
	case *ast.DecExpr:
		return e.incDec(ex, ex.Name, ir.Sub)
	case *ast.AddrOfArrayExpr:
		id := e.binding.Lookup(ex)
		return e.arrayAddr[id]
	case *ast.IntCastExpr:
		return e.cast(ex.Value, types.Int{})
	case *ast.CharCastExpr:
		return e.cast(ex.Value, types.Char{})
	case *ast.BinaryCmpExpr:
		return e.binaryCmp(ex)
	case *ast.BinaryMathExpr:
		return e.binaryMath(ex)
	case *ast.LogicalAndExpr:
		return e.logicalAnd(ex)
	case *ast.LogicalOrExpr:
		return e.logicalOr(ex)
	case *ast.NotExpr:
		val := e.expr(ex.Value)
		return ir.NewNot(e.current, val)
	default:
		return &ir.Constant{Val: 0, Typ: types.Int{}}
	}
}

func (e *emitter) arrayRef(ex *ast.ArrayRefExpr) ir.Value {
	id := e.binding.Lookup(ex)
	addr := e.elementAddr(id, ex.Index)
	return ir.NewLoad(e.current, addr, types.ElementType(id.Type))
}

// call decays any "&name" argument (an AddrOfArrayExpr, the only place a
// fixed local array name appears as a value) into its element pointer
// via GEP index 0, since μC has no array-valued parameters — only
// pointers.
func (e *emitter) call(ex *ast.FuncCallExpr) ir.Value {
	args := make([]ir.Value, len(ex.Args))
	for i, a := range ex.Args {
		args[i] = e.expr(a)
		if _, isAddr := a.(*ast.AddrOfArrayExpr); isAddr {
			zero := &ir.Constant{Val: 0, Typ: types.Int{}}
			args[i] = ir.NewGEP(e.current, args[i], zero, types.ElementType(args[i].ValueType()))
		}
	}

	sig := e.binding.Globals.Lookup(ex.Name)
	retType := types.Type(types.Int{})
	if sig != nil {
		if fn, ok := sig.Type.(types.Function); ok {
			retType = fn.Return
		}
	}
	return ir.NewCall(e.current, ex.Name, args, retType)
}

// incDec lowers postfix "name++"/"name--". Despite the postfix spelling
// both evaluate to the POST-mutation value (ast.IncExpr's doc comment):
// the new value is written back to the variable and also returned as
// the expression's result.
func (e *emitter) incDec(node ast.Node, name string, op ir.MathOp) ir.Value {
	id := e.binding.Lookup(node)
	cur := e.builder.ReadVariable(id, e.current)
	one := &ir.Constant{Val: 1, Typ: cur.ValueType()}
	next := ir.NewBinaryMath(e.current, op, cur.ValueType(), cur, one)
	e.builder.WriteVariable(id, e.current, next)
	return next
}

func (e *emitter) cast(value ast.Expr, target types.Type) ir.Value {
	val := e.expr(value)
	if val.ValueType().Equal(target) {
		return val
	}
	if _, toChar := target.(types.Char); toChar {
		return ir.NewTrunc(e.current, val)
	}
	return ir.NewSExt(e.current, val)
}

func (e *emitter) binaryCmp(ex *ast.BinaryCmpExpr) ir.Value {
	left := e.expr(ex.Left)
	right := e.expr(ex.Right)
	return ir.NewBinaryCmp(e.current, cmpOpOf(ex.Op), left, right)
}

func cmpOpOf(op ast.CmpOp) ir.CmpOp {
	switch op {
	case ast.CmpEq:
		return ir.Eq
	case ast.CmpNe:
		return ir.Ne
	case ast.CmpLt:
		return ir.Slt
	case ast.CmpGt:
		return ir.Sgt
	default:
		return ir.Eq
	}
}

func (e *emitter) binaryMath(ex *ast.BinaryMathExpr) ir.Value {
	left := e.expr(ex.Left)
	right := e.expr(ex.Right)
	typ := left.ValueType()
	if types.Bits(right.ValueType()) > types.Bits(typ) {
		typ = right.ValueType()
	}
	return ir.NewBinaryMath(e.current, mathOpOf(ex.Op), typ, left, right)
}

func mathOpOf(op ast.MathOp) ir.MathOp {
	switch op {
	case ast.MathAdd:
		return ir.Add
	case ast.MathSub:
		return ir.Sub
	case ast.MathMul:
		return ir.Mul
	case ast.MathDiv:
		return ir.SDiv
	case ast.MathRem:
		return ir.SRem
	default:
		return ir.Add
	}
}

// logicalAnd short-circuits: if Left is falsy, the result is 0 without
// evaluating Right; otherwise the result is Right reduced to 0/1.
// Grounded on spec.md §4.1: a fresh rhs block and end block, a PHI at
// end joining (const 0, lhs_block) and (rhs_result, rhs_block).
func (e *emitter) logicalAnd(ex *ast.LogicalAndExpr) ir.Value {
	left := e.expr(ex.Left)
	left = truthy(e.current, left)
	lhsBlock := e.current

	rhsBlk := e.fn.AddBlock("and.rhs")
	e.builder.AddBlock(rhsBlk, false)
	endBlk := e.fn.AddBlock("and.end")
	e.builder.AddBlock(endBlk, false)

	ir.NewBr(e.current, left, rhsBlk, endBlk)
	e.builder.SealBlock(rhsBlk)

	e.current = rhsBlk
	right := e.expr(ex.Right)
	rhsResult := truthy(e.current, right)
	rhsEnd := e.current
	ir.NewJmp(e.current, endBlk)

	e.builder.SealBlock(endBlk)
	e.current = endBlk
	phi := ir.NewPhi(endBlk, types.Int{})
	phi.AddIncoming(lhsBlock, &ir.Constant{Val: 0, Typ: types.Int{}})
	phi.AddIncoming(rhsEnd, rhsResult)
	return phi
}

// logicalOr is symmetric: if Left is truthy, the result is 1 without
// evaluating Right; otherwise the result is Right reduced to 0/1.
func (e *emitter) logicalOr(ex *ast.LogicalOrExpr) ir.Value {
	left := e.expr(ex.Left)
	left = truthy(e.current, left)
	lhsBlock := e.current

	rhsBlk := e.fn.AddBlock("or.rhs")
	e.builder.AddBlock(rhsBlk, false)
	endBlk := e.fn.AddBlock("or.end")
	e.builder.AddBlock(endBlk, false)

	ir.NewBr(e.current, left, endBlk, rhsBlk)
	e.builder.SealBlock(rhsBlk)

	e.current = rhsBlk
	right := e.expr(ex.Right)
	rhsResult := truthy(e.current, right)
	rhsEnd := e.current
	ir.NewJmp(e.current, endBlk)

	e.builder.SealBlock(endBlk)
	e.current = endBlk
	phi := ir.NewPhi(endBlk, types.Int{})
	phi.AddIncoming(lhsBlock, &ir.Constant{Val: 1, Typ: types.Int{}})
	phi.AddIncoming(rhsEnd, rhsResult)
	return phi
}

// truthy reduces v to 0/1 by comparing against zero, the same
// "icmp ne 0" conversion used wherever a scalar feeds a branch
// condition (spec.md §4.1).
func truthy(blk *ir.BasicBlock, v ir.Value) ir.Value {
	zero := &ir.Constant{Val: 0, Typ: v.ValueType()}
	return ir.NewBinaryCmp(blk, ir.Ne, v, zero)
}
