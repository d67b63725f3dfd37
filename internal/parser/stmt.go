package parser

import "muc/internal/ast"

func (p *Parser) parseProgram() *ast.Program {
	var fns []*ast.Function
	for !p.isAtEnd() {
		fns = append(fns, p.parseFunction())
	}
	return &ast.Program{Functions: fns}
}

func (p *Parser) isTypeStart() bool {
	return p.check(INT) || p.check(CHAR)
}

func (p *Parser) parseFunction() *ast.Function {
	typeTok := p.advance() // INT | CHAR | VOID, or a recovery token
	if typeTok.Type != INT && typeTok.Type != CHAR && typeTok.Type != VOID {
		p.errorAt(p.pos(typeTok), "expected a return type")
	}
	nameTok := p.consume(IDENTIFIER, "expected function name")
	p.consume(LEFT_PAREN, "expected '(' after function name")

	var params []*ast.Param
	if !p.check(RIGHT_PAREN) {
		params = append(params, p.parseParam())
		for p.match(COMMA) {
			params = append(params, p.parseParam())
		}
	}
	p.consume(RIGHT_PAREN, "expected ')' after parameters")

	body := p.parseCompound()
	return &ast.Function{
		Pos:        p.pos(typeTok),
		ReturnType: typeTok.Lexeme,
		Name:       nameTok.Lexeme,
		Params:     params,
		Body:       body,
	}
}

func (p *Parser) parseParam() *ast.Param {
	typeTok := p.advance()
	nameTok := p.consume(IDENTIFIER, "expected parameter name")
	isArray := false
	if p.check(LEFT_BRACKET) {
		p.advance()
		p.consume(RIGHT_BRACKET, "expected ']' after '[' in parameter")
		isArray = true
	}
	return &ast.Param{Pos: p.pos(typeTok), Type: typeTok.Lexeme, Name: nameTok.Lexeme, IsArray: isArray}
}

func (p *Parser) parseCompound() *ast.Compound {
	tok := p.consume(LEFT_BRACE, "expected '{'")

	var decls []*ast.Decl
	for p.isTypeStart() {
		decls = append(decls, p.parseDecl())
	}

	var stmts []ast.Stmt
	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		stmts = append(stmts, p.parseStatement())
	}
	p.consume(RIGHT_BRACE, "expected '}'")

	return &ast.Compound{Pos: p.pos(tok), Decls: decls, Stmts: stmts}
}

// parseDecl parses a local declaration, including an optional scalar
// initializer ("int x = 1;"). Arrays are never initialized here; a
// string-literal array initializer, as the original language allows,
// is out of scope — declare and assign element-by-element instead.
func (p *Parser) parseDecl() *ast.Decl {
	typeTok := p.advance()
	nameTok := p.consume(IDENTIFIER, "expected identifier in declaration")

	count := 0
	isArray := false
	if p.check(LEFT_BRACKET) {
		p.advance()
		numTok := p.consume(NUMBER, "expected array size")
		count = int(parseIntLiteral(numTok.Lexeme))
		p.consume(RIGHT_BRACKET, "expected ']'")
		isArray = true
	}

	var init ast.Expr
	if p.check(EQUAL) {
		tok := p.advance()
		if isArray {
			p.errorAt(p.pos(tok), "array declarations cannot have an initializer")
		}
		init = p.parseExpr()
	}
	p.consume(SEMICOLON, "expected ';' after declaration")

	return &ast.Decl{Pos: p.pos(typeTok), Type: typeTok.Lexeme, Name: nameTok.Lexeme, Count: count, Init: init}
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.peek().Type {
	case IF:
		return p.parseIf()
	case WHILE:
		return p.parseWhile()
	case RETURN:
		return p.parseReturn()
	case LEFT_BRACE:
		return p.parseCompound()
	case SEMICOLON:
		tok := p.advance()
		return &ast.NullStmt{Pos: p.pos(tok)}
	default:
		return p.parseSimpleStatement()
	}
}

func (p *Parser) parseIf() ast.Stmt {
	tok := p.consume(IF, "expected 'if'")
	p.consume(LEFT_PAREN, "expected '(' after 'if'")
	cond := p.parseExpr()
	p.consume(RIGHT_PAREN, "expected ')' after condition")
	then := p.parseStatement()

	var elseStmt ast.Stmt
	if p.check(ELSE) {
		p.advance()
		elseStmt = p.parseStatement()
	}
	return &ast.IfStmt{Pos: p.pos(tok), Cond: cond, Then: then, Else: elseStmt}
}

func (p *Parser) parseWhile() ast.Stmt {
	tok := p.consume(WHILE, "expected 'while'")
	p.consume(LEFT_PAREN, "expected '(' after 'while'")
	cond := p.parseExpr()
	p.consume(RIGHT_PAREN, "expected ')' after condition")
	body := p.parseStatement()
	return &ast.WhileStmt{Pos: p.pos(tok), Cond: cond, Body: body}
}

func (p *Parser) parseReturn() ast.Stmt {
	tok := p.consume(RETURN, "expected 'return'")
	var value ast.Expr
	if !p.check(SEMICOLON) {
		value = p.parseExpr()
	}
	p.consume(SEMICOLON, "expected ';' after return statement")
	return &ast.ReturnStmt{Pos: p.pos(tok), Value: value}
}

// parseSimpleStatement parses an expression and, if it is immediately
// followed by '=', reinterprets it as an assignment. This avoids
// special-casing assignment targets ahead of time.
func (p *Parser) parseSimpleStatement() ast.Stmt {
	expr := p.parseExpr()

	if p.check(EQUAL) {
		p.advance()
		value := p.parseExpr()
		p.consume(SEMICOLON, "expected ';' after assignment")

		switch target := expr.(type) {
		case *ast.IdentExpr:
			return &ast.AssignStmt{Pos: target.Pos, Name: target.Name, Value: value}
		case *ast.ArrayRefExpr:
			return &ast.AssignArrayStmt{Pos: target.Pos, Name: target.Name, Index: target.Index, Value: value}
		default:
			p.errorAt(expr.NodePos(), "invalid assignment target")
			return &ast.NullStmt{Pos: expr.NodePos()}
		}
	}

	p.consume(SEMICOLON, "expected ';' after expression")
	return &ast.ExprStmt{Pos: expr.NodePos(), Value: expr}
}
