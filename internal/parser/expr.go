package parser

import "muc/internal/ast"

// binaryPrecedence is a standard Pratt precedence table, split by the
// closed expression-node categories (comparison vs. arithmetic vs.
// logical) rather than a single generic BinaryExpr.
var binaryPrecedence = map[TokenType]int{
	OR:           1,
	AND:          2,
	EQUAL_EQUAL:  3,
	BANG_EQUAL:   3,
	LESS:         4,
	GREATER:      4,
	PLUS:         5,
	MINUS:        5,
	STAR:         6,
	SLASH:        6,
	PERCENT:      6,
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parsePratt(1)
}

func (p *Parser) parsePratt(minPrec int) ast.Expr {
	left := p.parseUnary()

	for {
		tok := p.peek()
		prec, ok := binaryPrecedence[tok.Type]
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		right := p.parsePratt(prec + 1)
		left = buildBinary(tok, left, right)
	}

	return left
}

func buildBinary(opTok Token, left, right ast.Expr) ast.Expr {
	pos := left.NodePos()
	switch opTok.Type {
	case OR:
		return &ast.LogicalOrExpr{Pos: pos, Left: left, Right: right}
	case AND:
		return &ast.LogicalAndExpr{Pos: pos, Left: left, Right: right}
	case EQUAL_EQUAL:
		return &ast.BinaryCmpExpr{Pos: pos, Op: ast.CmpEq, Left: left, Right: right}
	case BANG_EQUAL:
		return &ast.BinaryCmpExpr{Pos: pos, Op: ast.CmpNe, Left: left, Right: right}
	case LESS:
		return &ast.BinaryCmpExpr{Pos: pos, Op: ast.CmpLt, Left: left, Right: right}
	case GREATER:
		return &ast.BinaryCmpExpr{Pos: pos, Op: ast.CmpGt, Left: left, Right: right}
	case PLUS:
		return &ast.BinaryMathExpr{Pos: pos, Op: ast.MathAdd, Left: left, Right: right}
	case MINUS:
		return &ast.BinaryMathExpr{Pos: pos, Op: ast.MathSub, Left: left, Right: right}
	case STAR:
		return &ast.BinaryMathExpr{Pos: pos, Op: ast.MathMul, Left: left, Right: right}
	case SLASH:
		return &ast.BinaryMathExpr{Pos: pos, Op: ast.MathDiv, Left: left, Right: right}
	case PERCENT:
		return &ast.BinaryMathExpr{Pos: pos, Op: ast.MathRem, Left: left, Right: right}
	default:
		return left
	}
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.peek().Type {
	case BANG:
		tok := p.advance()
		return &ast.NotExpr{Pos: p.pos(tok), Value: p.parseUnary()}
	case LEFT_PAREN:
		if p.peekAt(1).Type == INT && p.peekAt(2).Type == RIGHT_PAREN {
			tok := p.advance()
			p.advance()
			p.advance()
			return &ast.IntCastExpr{Pos: p.pos(tok), Value: p.parseUnary()}
		}
		if p.peekAt(1).Type == CHAR && p.peekAt(2).Type == RIGHT_PAREN {
			tok := p.advance()
			p.advance()
			p.advance()
			return &ast.CharCastExpr{Pos: p.pos(tok), Value: p.parseUnary()}
		}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.peek().Type {
		case INCREMENT:
			tok := p.advance()
			if id, ok := expr.(*ast.IdentExpr); ok {
				expr = &ast.IncExpr{Pos: id.Pos, Name: id.Name}
			} else {
				p.errorAt(p.pos(tok), "'++' requires a variable operand")
			}
		case DECREMENT:
			tok := p.advance()
			if id, ok := expr.(*ast.IdentExpr); ok {
				expr = &ast.DecExpr{Pos: id.Pos, Name: id.Name}
			} else {
				p.errorAt(p.pos(tok), "'--' requires a variable operand")
			}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	switch tok.Type {
	case NUMBER:
		p.advance()
		return &ast.ConstantExpr{Pos: p.pos(tok), Value: parseIntLiteral(tok.Lexeme)}
	case STRING:
		p.advance()
		return &ast.StringExpr{Pos: p.pos(tok), Value: tok.Lexeme}
	case AMPERSAND:
		p.advance()
		nameTok := p.consume(IDENTIFIER, "expected identifier after '&'")
		return &ast.AddrOfArrayExpr{Pos: p.pos(tok), Name: nameTok.Lexeme}
	case IDENTIFIER:
		p.advance()
		name := tok.Lexeme
		switch p.peek().Type {
		case LEFT_PAREN:
			p.advance()
			var args []ast.Expr
			if !p.check(RIGHT_PAREN) {
				args = append(args, p.parseExpr())
				for p.match(COMMA) {
					args = append(args, p.parseExpr())
				}
			}
			p.consume(RIGHT_PAREN, "expected ')' after arguments")
			return &ast.FuncCallExpr{Pos: p.pos(tok), Name: name, Args: args}
		case LEFT_BRACKET:
			p.advance()
			idx := p.parseExpr()
			p.consume(RIGHT_BRACKET, "expected ']' after array index")
			return &ast.ArrayRefExpr{Pos: p.pos(tok), Name: name, Index: idx}
		default:
			return &ast.IdentExpr{Pos: p.pos(tok), Name: name}
		}
	case LEFT_PAREN:
		p.advance()
		e := p.parseExpr()
		p.consume(RIGHT_PAREN, "expected ')'")
		return e
	}

	p.errorAt(p.pos(tok), "unexpected token in expression: "+tok.Lexeme)
	if !p.isAtEnd() {
		p.advance()
	}
	return &ast.ConstantExpr{Pos: p.pos(tok), Value: 0}
}
