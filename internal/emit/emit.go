// Package emit lowers a resolved AST into the SSA internal/ir form,
// driving an internal/ssa.Builder one basic block at a time. Grounded
// on uscc's ASTEmit.cpp: one method per node kind, a shared emission
// context carrying the current module/function/block, and AST-to-IR
// lowering driven entirely off a resolver's bindings rather than
// re-deriving scope information during emission.
package emit

import (
	"muc/internal/ast"
	"muc/internal/ir"
	"muc/internal/resolve"
	"muc/internal/ssa"
	"muc/internal/symbols"
	"muc/internal/types"
)

// emitter holds everything needed while lowering one function body.
// current is re-read after every sub-emission that might redirect
// control flow (short-circuit operators) and never cached across a
// call that emits nested expressions or statements.
type emitter struct {
	module  *ir.Module
	binding *resolve.Result
	builder *ssa.Builder

	fn      *ir.Function
	current *ir.BasicBlock

	// arrayAddr holds the stack allocation for every fixed-size local
	// array of the function currently being lowered, populated up front
	// by allocateLocalArrays before any statement is emitted.
	arrayAddr map[*symbols.Identifier]*ir.Alloca
}

// Program lowers a fully resolved program to an IR module. prog and
// binding must come from a resolve.Resolve call that reported no
// errors; the emitter performs no semantic validation of its own.
func Program(name string, prog *ast.Program, binding *resolve.Result) *ir.Module {
	e := &emitter{module: &ir.Module{Name: name}, binding: binding, builder: ssa.NewBuilder()}

	if needsPrintf(prog) {
		e.module.Functions = append(e.module.Functions, printfDecl())
	}
	for _, fn := range prog.Functions {
		e.module.Functions = append(e.module.Functions, e.function(fn))
	}
	return e.module
}

func needsPrintf(prog *ast.Program) bool {
	for _, fn := range prog.Functions {
		if usesPrintf(fn.Body) {
			return true
		}
	}
	return false
}

func usesPrintf(c *ast.Compound) bool {
	for _, d := range c.Decls {
		if d.Init != nil && exprUsesPrintf(d.Init) {
			return true
		}
	}
	for _, s := range c.Stmts {
		if stmtUsesPrintf(s) {
			return true
		}
	}
	return false
}

func stmtUsesPrintf(s ast.Stmt) bool {
	switch st := s.(type) {
	case *ast.Compound:
		return usesPrintf(st)
	case *ast.IfStmt:
		return stmtUsesPrintf(st.Then) || (st.Else != nil && stmtUsesPrintf(st.Else)) || exprUsesPrintf(st.Cond)
	case *ast.WhileStmt:
		return stmtUsesPrintf(st.Body) || exprUsesPrintf(st.Cond)
	case *ast.ReturnStmt:
		return st.Value != nil && exprUsesPrintf(st.Value)
	case *ast.ExprStmt:
		return exprUsesPrintf(st.Value)
	case *ast.AssignStmt:
		return exprUsesPrintf(st.Value)
	case *ast.AssignArrayStmt:
		return exprUsesPrintf(st.Index) || exprUsesPrintf(st.Value)
	default:
		return false
	}
}

func exprUsesPrintf(e ast.Expr) bool {
	switch expr := e.(type) {
	case *ast.FuncCallExpr:
		if expr.Name == "printf" {
			return true
		}
		for _, a := range expr.Args {
			if exprUsesPrintf(a) {
				return true
			}
		}
		return false
	case *ast.BinaryCmpExpr:
		return exprUsesPrintf(expr.Left) || exprUsesPrintf(expr.Right)
	case *ast.BinaryMathExpr:
		return exprUsesPrintf(expr.Left) || exprUsesPrintf(expr.Right)
	case *ast.LogicalAndExpr:
		return exprUsesPrintf(expr.Left) || exprUsesPrintf(expr.Right)
	case *ast.LogicalOrExpr:
		return exprUsesPrintf(expr.Left) || exprUsesPrintf(expr.Right)
	case *ast.NotExpr:
		return exprUsesPrintf(expr.Value)
	case *ast.IntCastExpr:
		return exprUsesPrintf(expr.Value)
	case *ast.CharCastExpr:
		return exprUsesPrintf(expr.Value)
	case *ast.ArrayRefExpr:
		return exprUsesPrintf(expr.Index)
	default:
		return false
	}
}

func printfDecl() *ir.Function {
	return ir.NewFunction("printf", []*ir.Argument{{Name: "fmt", Typ: types.Pointer{Elem: types.Char{}}}}, types.Int{})
}

func baseType(name string) types.Type {
	switch name {
	case "char":
		return types.Char{}
	case "void":
		return types.Void{}
	default:
		return types.Int{}
	}
}

func (e *emitter) function(fn *ast.Function) *ir.Function {
	params := make([]*ir.Argument, len(fn.Params))
	for i, p := range fn.Params {
		pt := baseType(p.Type)
		if p.IsArray {
			pt = types.Pointer{Elem: pt}
		}
		params[i] = &ir.Argument{Name: p.Name, Typ: pt}
	}

	f := ir.NewFunction(fn.Name, params, baseType(fn.ReturnType))
	e.fn = f
	e.builder.Reset()
	e.arrayAddr = make(map[*symbols.Identifier]*ir.Alloca)

	entry := f.AddBlock("entry")
	e.builder.AddBlock(entry, true)
	e.current = entry

	for i, p := range fn.Params {
		id := e.binding.Lookup(p)
		if id != nil {
			e.builder.WriteVariable(id, e.current, params[i])
		}
	}

	e.allocateLocalArrays(fn.Body)
	e.compound(fn.Body)

	if e.current.Terminator == nil {
		if _, void := f.Return.(types.Void); void {
			ir.NewRet(e.current, nil)
		} else {
			ir.NewRet(e.current, &ir.Constant{Val: 0, Typ: f.Return})
		}
	}

	return f
}

// allocateLocalArrays emits an Alloca for every fixed-size array declared
// anywhere in fn's body, all in the entry block, before any statement
// runs: scalars never get a stack slot, and a known-count array gets
// exactly one entry-block allocation.
func (e *emitter) allocateLocalArrays(c *ast.Compound) {
	for _, d := range c.Decls {
		if d.Count <= 0 {
			continue
		}
		id := e.binding.Lookup(d)
		if id == nil {
			continue
		}
		elem := types.ElementType(id.Type)
		alloca := ir.NewAlloca(e.current, elem, d.Count)
		id.Address = alloca.ID()
		id.HasAddress = true
		e.arrayAddr[id] = alloca
	}
	for _, s := range c.Stmts {
		e.allocateLocalArraysStmt(s)
	}
}

func (e *emitter) allocateLocalArraysStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Compound:
		e.allocateLocalArrays(st)
	case *ast.IfStmt:
		e.allocateLocalArraysStmt(st.Then)
		if st.Else != nil {
			e.allocateLocalArraysStmt(st.Else)
		}
	case *ast.WhileStmt:
		e.allocateLocalArraysStmt(st.Body)
	}
}
