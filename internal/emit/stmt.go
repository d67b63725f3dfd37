package emit

import (
	"muc/internal/ast"
	"muc/internal/ir"
	"muc/internal/symbols"
	"muc/internal/types"
)

// compound lowers decls (for their initializer side effect only; stack
// allocation already happened up front) then statements in source order.
func (e *emitter) compound(c *ast.Compound) {
	for _, d := range c.Decls {
		e.decl(d)
	}
	for _, s := range c.Stmts {
		e.stmt(s)
	}
}

func (e *emitter) decl(d *ast.Decl) {
	if d.Init == nil {
		return
	}
	id := e.binding.Lookup(d)
	val := e.expr(d.Init)
	e.builder.WriteVariable(id, e.current, val)
}

func (e *emitter) stmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Compound:
		e.compound(st)
	case *ast.IfStmt:
		e.ifStmt(st)
	case *ast.WhileStmt:
		e.whileStmt(st)
	case *ast.ReturnStmt:
		e.returnStmt(st)
	case *ast.ExprStmt:
		e.expr(st.Value)
	case *ast.AssignStmt:
		e.assignStmt(st)
	case *ast.AssignArrayStmt:
		e.assignArrayStmt(st)
	case *ast.NullStmt:
		// no-op
	}
}

func (e *emitter) returnStmt(st *ast.ReturnStmt) {
	if st.Value == nil {
		ir.NewRet(e.current, nil)
		return
	}
	val := e.expr(st.Value)
	ir.NewRet(e.current, val)
}

func (e *emitter) assignStmt(st *ast.AssignStmt) {
	id := e.binding.Lookup(st)
	val := e.expr(st.Value)
	e.builder.WriteVariable(id, e.current, val)
}

func (e *emitter) assignArrayStmt(st *ast.AssignArrayStmt) {
	id := e.binding.Lookup(st)
	val := e.expr(st.Value)
	addr := e.elementAddr(id, st.Index)
	ir.NewStore(e.current, addr, val)
}

// elementAddr computes the address of one element of the array named by
// id, decaying a fixed local array to its Alloca or using a pointer
// parameter's value directly, exactly as uscc's ASTArraySub does for
// both read and write.
func (e *emitter) elementAddr(id *symbols.Identifier, index ast.Expr) ir.Value {
	idxVal := e.expr(index)
	base := e.arrayBase(id)
	elem := types.ElementType(id.Type)
	return ir.NewGEP(e.current, base, idxVal, elem)
}

// arrayBase returns the pointer value naming id's storage: the Alloca
// for a fixed local array, or id's own SSA value for a decayed pointer
// parameter (ArrayCount == -1, per spec's "not locally allocated" convention).
func (e *emitter) arrayBase(id *symbols.Identifier) ir.Value {
	if alloca, ok := e.arrayAddr[id]; ok {
		return alloca
	}
	return e.builder.ReadVariable(id, e.current)
}

// ifStmt follows spec.md §4.1: then/else/end blocks created unsealed;
// both arms are sealed once their one predecessor (the branch or the
// previous block) is fixed, end is sealed only after both arms'
// unconditional jumps to it are installed.
func (e *emitter) ifStmt(st *ast.IfStmt) {
	thenBlk := e.fn.AddBlock("if.then")
	e.builder.AddBlock(thenBlk, false)

	var elseBlk *ir.BasicBlock
	if st.Else != nil {
		elseBlk = e.fn.AddBlock("if.else")
		e.builder.AddBlock(elseBlk, false)
	}
	endBlk := e.fn.AddBlock("if.end")
	e.builder.AddBlock(endBlk, false)

	cond := e.expr(st.Cond)
	cond = truthy(e.current, cond)
	branchTarget := endBlk
	if elseBlk != nil {
		branchTarget = elseBlk
	}
	ir.NewBr(e.current, cond, thenBlk, branchTarget)
	e.builder.SealBlock(thenBlk)
	if elseBlk != nil {
		e.builder.SealBlock(elseBlk)
	}

	e.current = thenBlk
	e.stmt(st.Then)
	if e.current.Terminator == nil {
		ir.NewJmp(e.current, endBlk)
	}

	if st.Else != nil {
		e.current = elseBlk
		e.stmt(st.Else)
		if e.current.Terminator == nil {
			ir.NewJmp(e.current, endBlk)
		}
	}

	e.builder.SealBlock(endBlk)
	e.current = endBlk
}

// whileStmt follows spec.md §4.1 exactly: cond is added unsealed (it
// will gain the loop's back-edge), the back-edge is linked by emitting
// body's terminating jump to cond, and only THEN is cond sealed — the
// critical ordering the Braun algorithm requires for loop headers.
func (e *emitter) whileStmt(st *ast.WhileStmt) {
	condBlk := e.fn.AddBlock("while.cond")
	e.builder.AddBlock(condBlk, false)
	bodyBlk := e.fn.AddBlock("while.body")
	e.builder.AddBlock(bodyBlk, false)
	endBlk := e.fn.AddBlock("while.end")
	e.builder.AddBlock(endBlk, false)

	ir.NewJmp(e.current, condBlk)

	e.current = condBlk
	cond := e.expr(st.Cond)
	cond = truthy(e.current, cond)
	ir.NewBr(e.current, cond, bodyBlk, endBlk)
	e.builder.SealBlock(bodyBlk)

	e.current = bodyBlk
	e.stmt(st.Body)
	if e.current.Terminator == nil {
		ir.NewJmp(e.current, condBlk)
	}

	e.builder.SealBlock(condBlk)
	e.builder.SealBlock(endBlk)
	e.current = endBlk
}
