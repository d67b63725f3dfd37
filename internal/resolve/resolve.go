// Package resolve walks a parsed *ast.Program, binding every name
// reference to a *symbols.Identifier and reporting regime-1 semantic
// errors (undefined name, redeclaration, array/scalar misuse, wrong
// argument count). Grounded on the teacher's internal/semantic.Analyzer:
// one struct accumulating errors.CompilerError values while walking the
// tree with a chained scope, though μC's narrower type system (no
// structs, no imports, no mutability tracking) collapses the teacher's
// ContextRegistry/FunctionRegistry/ModuleRegistry down to a single
// symbols.Table for function signatures.
package resolve

import (
	"fmt"

	"muc/internal/ast"
	"muc/internal/errors"
	"muc/internal/symbols"
	"muc/internal/types"
)

// Result is the output of a successful-enough resolution pass: every
// name-referencing AST node the resolver visited, mapped to the
// identifier it refers to. Lookups after a failed resolution may be
// partial; callers should not emit code when Resolve returns errors.
type Result struct {
	Idents  map[ast.Node]*symbols.Identifier
	Globals *symbols.Table
}

// Lookup returns the identifier resolved for node, or nil if node was
// never visited (e.g. it belongs to a function that failed to parse).
func (r *Result) Lookup(node ast.Node) *symbols.Identifier {
	return r.Idents[node]
}

type resolver struct {
	global *symbols.Table
	idents map[ast.Node]*symbols.Identifier
	errs   []errors.CompilerError

	fnName string
	fnRet  types.Type
}

// printfSignature is injected into the global scope unconditionally,
// mirroring uscc's Emitter registering "i32 printf(i8*, ...)" only when
// the parser noticed a call to it; μC always makes it available rather
// than threading a mNeedPrintf flag through the resolver.
func printfSignature() types.Type {
	return types.Function{
		Params:   []types.Type{types.Pointer{Elem: types.Char{}}},
		Return:   types.Int{},
		Variadic: true,
	}
}

// Resolve binds names across prog and returns every semantic error found.
func Resolve(prog *ast.Program) (*Result, []errors.CompilerError) {
	r := &resolver{
		global: symbols.NewTable(nil),
		idents: make(map[ast.Node]*symbols.Identifier),
	}
	r.global.Define("printf", printfSignature())

	for _, fn := range prog.Functions {
		r.declareFunction(fn)
	}
	for _, fn := range prog.Functions {
		r.resolveFunction(fn)
	}

	return &Result{Idents: r.idents, Globals: r.global}, r.errs
}

func (r *resolver) errorf(code string, pos ast.Position, format string, args ...interface{}) {
	r.errs = append(r.errs, errors.CompilerError{
		Level:    errors.Error,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
		Length:   1,
	})
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

func (r *resolver) declareFunction(fn *ast.Function) {
	if existing := r.global.LookupLocal(fn.Name); existing != nil {
		r.errorf(errors.ErrorDuplicateDeclaration, fn.Pos, "function %q is already declared", fn.Name)
		return
	}

	params := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		pt := baseType(p.Type)
		if p.IsArray {
			pt = types.Pointer{Elem: pt}
		}
		params[i] = pt
	}

	r.global.Define(fn.Name, types.Function{Params: params, Return: baseType(fn.ReturnType)})
}

func (r *resolver) resolveFunction(fn *ast.Function) {
	r.fnName = fn.Name
	r.fnRet = baseType(fn.ReturnType)

	scope := symbols.NewTable(r.global)
	for _, p := range fn.Params {
		if scope.LookupLocal(p.Name) != nil {
			r.errorf(errors.ErrorDuplicateDeclaration, p.Pos, "parameter %q declared twice", p.Name)
			continue
		}
		pt := baseType(p.Type)
		if p.IsArray {
			id := scope.Define(p.Name, types.Pointer{Elem: pt})
			id.ArrayCount = -1 // not locally allocated: a caller-owned array
			r.idents[p] = id
		} else {
			r.idents[p] = scope.Define(p.Name, pt)
		}
	}

	r.resolveCompound(fn.Body, scope)
}

func (r *resolver) resolveCompound(c *ast.Compound, parent *symbols.Table) *symbols.Table {
	scope := symbols.NewTable(parent)
	for _, d := range c.Decls {
		r.resolveDecl(d, scope)
	}
	for _, s := range c.Stmts {
		r.resolveStmt(s, scope)
	}
	return scope
}

func (r *resolver) resolveDecl(d *ast.Decl, scope *symbols.Table) {
	if scope.LookupLocal(d.Name) != nil {
		r.errorf(errors.ErrorDuplicateDeclaration, d.Pos, "%q is already declared in this scope", d.Name)
		return
	}

	et := baseType(d.Type)
	var id *symbols.Identifier
	if d.Count > 0 {
		var arr types.Type
		if _, ok := et.(types.Char); ok {
			arr = types.CharArray{Count: d.Count}
		} else {
			arr = types.IntArray{Count: d.Count}
		}
		id = scope.DefineArray(d.Name, arr, d.Count)
	} else {
		id = scope.Define(d.Name, et)
	}
	r.idents[d] = id

	if d.Init != nil {
		initType := r.resolveExpr(d.Init, scope)
		if types.IsArray(initType) || isPointer(initType) {
			r.errorf(errors.ErrorTypeMismatch, d.Init.NodePos(), "cannot initialize %q with an array or pointer value", d.Name)
		}
	}
}

func (r *resolver) resolveStmt(s ast.Stmt, scope *symbols.Table) {
	switch st := s.(type) {
	case *ast.Compound:
		r.resolveCompound(st, scope)
	case *ast.IfStmt:
		r.requireScalar(r.resolveExpr(st.Cond, scope), st.Cond.NodePos(), "if condition")
		r.resolveStmt(st.Then, scope)
		if st.Else != nil {
			r.resolveStmt(st.Else, scope)
		}
	case *ast.WhileStmt:
		r.requireScalar(r.resolveExpr(st.Cond, scope), st.Cond.NodePos(), "while condition")
		r.resolveStmt(st.Body, scope)
	case *ast.ReturnStmt:
		r.resolveReturn(st, scope)
	case *ast.ExprStmt:
		r.resolveExpr(st.Value, scope)
	case *ast.AssignStmt:
		r.resolveAssign(st, scope)
	case *ast.AssignArrayStmt:
		r.resolveAssignArray(st, scope)
	case *ast.NullStmt:
		// no-op
	}
}

func (r *resolver) resolveReturn(st *ast.ReturnStmt, scope *symbols.Table) {
	if _, void := r.fnRet.(types.Void); void {
		if st.Value != nil {
			r.errorf(errors.ErrorInvalidReturnType, st.Pos, "function %q returns void but a value was given", r.fnName)
			r.resolveExpr(st.Value, scope)
		}
		return
	}
	if st.Value == nil {
		r.errorf(errors.ErrorInvalidReturnType, st.Pos, "function %q must return a value", r.fnName)
		return
	}
	vt := r.resolveExpr(st.Value, scope)
	if types.IsArray(vt) || isPointer(vt) {
		r.errorf(errors.ErrorInvalidReturnType, st.Value.NodePos(), "cannot return an array or pointer by value")
	}
}

func (r *resolver) resolveAssign(st *ast.AssignStmt, scope *symbols.Table) {
	id := r.lookup(st.Name, st.Pos, scope)
	r.idents[st] = id
	if id != nil && !id.Dummy && (types.IsArray(id.Type) || isPointer(id.Type)) {
		r.errorf(errors.ErrorArrayMismatch, st.Pos, "cannot assign directly to array %q; assign to an element instead", st.Name)
	}
	r.resolveExpr(st.Value, scope)
}

func (r *resolver) resolveAssignArray(st *ast.AssignArrayStmt, scope *symbols.Table) {
	id := r.lookup(st.Name, st.Pos, scope)
	r.idents[st] = id
	if id != nil && !id.Dummy && !types.IsArray(id.Type) && !isPointer(id.Type) {
		r.errorf(errors.ErrorArrayMismatch, st.Pos, "%q is not an array", st.Name)
	}
	r.resolveExpr(st.Index, scope)
	r.resolveExpr(st.Value, scope)
}

// resolveExpr resolves e against scope and returns its type, recording
// every name binding along the way in r.idents.
func (r *resolver) resolveExpr(e ast.Expr, scope *symbols.Table) types.Type {
	switch expr := e.(type) {
	case *ast.ConstantExpr:
		return types.Int{}
	case *ast.StringExpr:
		return types.Pointer{Elem: types.Char{}}
	case *ast.IdentExpr:
		id := r.lookup(expr.Name, expr.Pos, scope)
		r.idents[expr] = id
		if id.Dummy {
			return types.Int{}
		}
		if types.IsArray(id.Type) && id.ArrayCount > 0 {
			r.errorf(errors.ErrorArrayMismatch, expr.Pos, "%q is an array; use &%s or index it", expr.Name, expr.Name)
		}
		return id.Type
	case *ast.ArrayRefExpr:
		id := r.lookup(expr.Name, expr.Pos, scope)
		r.idents[expr] = id
		r.requireScalar(r.resolveExpr(expr.Index, scope), expr.Index.NodePos(), "array index")
		if id.Dummy {
			return types.Int{}
		}
		if !types.IsArray(id.Type) && !isPointer(id.Type) {
			r.errorf(errors.ErrorArrayMismatch, expr.Pos, "%q is not an array", expr.Name)
			return types.Int{}
		}
		return types.ElementType(id.Type)
	case *ast.AddrOfArrayExpr:
		id := r.lookup(expr.Name, expr.Pos, scope)
		r.idents[expr] = id
		if id.Dummy {
			return types.Pointer{Elem: types.Int{}}
		}
		if !types.IsArray(id.Type) || id.ArrayCount <= 0 {
			r.errorf(errors.ErrorArrayMismatch, expr.Pos, "'&%s' requires a fixed-size local array", expr.Name)
			return types.Pointer{Elem: types.Int{}}
		}
		return types.Decay(id.Type)
	case *ast.FuncCallExpr:
		return r.resolveCall(expr, scope)
	case *ast.IncExpr:
		return r.resolveIncDec(expr.Name, expr, scope)
	case *ast.DecExpr:
		return r.resolveIncDec(expr.Name, expr, scope)
	case *ast.IntCastExpr:
		r.requireScalar(r.resolveExpr(expr.Value, scope), expr.Value.NodePos(), "cast operand")
		return types.Int{}
	case *ast.CharCastExpr:
		r.requireScalar(r.resolveExpr(expr.Value, scope), expr.Value.NodePos(), "cast operand")
		return types.Char{}
	case *ast.BinaryCmpExpr:
		r.requireScalar(r.resolveExpr(expr.Left, scope), expr.Left.NodePos(), "comparison operand")
		r.requireScalar(r.resolveExpr(expr.Right, scope), expr.Right.NodePos(), "comparison operand")
		return types.Int{}
	case *ast.BinaryMathExpr:
		r.requireScalar(r.resolveExpr(expr.Left, scope), expr.Left.NodePos(), "arithmetic operand")
		r.requireScalar(r.resolveExpr(expr.Right, scope), expr.Right.NodePos(), "arithmetic operand")
		return types.Int{}
	case *ast.LogicalAndExpr:
		r.requireScalar(r.resolveExpr(expr.Left, scope), expr.Left.NodePos(), "'&&' operand")
		r.requireScalar(r.resolveExpr(expr.Right, scope), expr.Right.NodePos(), "'&&' operand")
		return types.Int{}
	case *ast.LogicalOrExpr:
		r.requireScalar(r.resolveExpr(expr.Left, scope), expr.Left.NodePos(), "'||' operand")
		r.requireScalar(r.resolveExpr(expr.Right, scope), expr.Right.NodePos(), "'||' operand")
		return types.Int{}
	case *ast.NotExpr:
		r.requireScalar(r.resolveExpr(expr.Value, scope), expr.Value.NodePos(), "'!' operand")
		return types.Int{}
	default:
		return types.Int{}
	}
}

func (r *resolver) resolveIncDec(name string, e ast.Expr, scope *symbols.Table) types.Type {
	id := r.lookup(name, e.NodePos(), scope)
	r.idents[e] = id
	if id.Dummy {
		return types.Int{}
	}
	if types.IsArray(id.Type) || isPointer(id.Type) {
		r.errorf(errors.ErrorInvalidOperation, e.NodePos(), "'++'/'--' requires a scalar variable, not %q", name)
		return types.Int{}
	}
	return id.Type
}

func (r *resolver) resolveCall(call *ast.FuncCallExpr, scope *symbols.Table) types.Type {
	id := r.global.LookupLocal(call.Name)
	r.idents[call] = id
	if id == nil {
		r.errorf(errors.ErrorUndefinedFunction, call.Pos, "call to undefined function %q", call.Name)
		for _, a := range call.Args {
			r.resolveExpr(a, scope)
		}
		return types.Int{}
	}

	sig, ok := id.Type.(types.Function)
	if !ok {
		r.errorf(errors.ErrorUndefinedFunction, call.Pos, "%q is not callable", call.Name)
		return types.Int{}
	}

	if len(call.Args) < len(sig.Params) || (!sig.Variadic && len(call.Args) != len(sig.Params)) {
		r.errorf(errors.ErrorInvalidArguments, call.Pos, "%q expects %d argument(s), got %d", call.Name, len(sig.Params), len(call.Args))
	}
	for _, a := range call.Args {
		r.resolveExpr(a, scope)
	}
	return sig.Return
}

func (r *resolver) lookup(name string, pos ast.Position, scope *symbols.Table) *symbols.Identifier {
	if id := scope.Lookup(name); id != nil {
		return id
	}
	r.errorf(errors.ErrorUndefinedVariable, pos, "undefined variable %q", name)
	return symbols.Dummy(name)
}

func (r *resolver) requireScalar(t types.Type, pos ast.Position, what string) {
	if types.IsArray(t) || isPointer(t) {
		r.errorf(errors.ErrorInvalidOperation, pos, "%s must be a scalar value", what)
	}
}

func isPointer(t types.Type) bool {
	_, ok := t.(types.Pointer)
	return ok
}
