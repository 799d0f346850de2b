package behavior

import "fmt"

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) parseProgram() ([]stmt, error) {
	var stmts []stmt
	for !p.check(tokenEOF) {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *parser) statement() (stmt, error) {
	switch {
	case p.check(tokenLet):
		return p.letStatement()
	case p.check(tokenIf):
		return p.ifStatement()
	case p.check(tokenIdent) && p.checkAt(1, tokenAssign):
		return p.assignStatement()
	default:
		return p.exprStatement()
	}
}

func (p *parser) letStatement() (stmt, error) {
	keyword := p.advance()
	name, err := p.expect(tokenIdent, "expected variable name after 'let'")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenAssign, "expected '=' after variable name"); err != nil {
		return nil, err
	}
	init, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.terminator()
	return &letStmt{name: name.lexeme, init: init, line: keyword.line}, nil
}

func (p *parser) assignStatement() (stmt, error) {
	name := p.advance()
	p.advance() // '='
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.terminator()
	return &assignStmt{name: name.lexeme, value: value, line: name.line}, nil
}

func (p *parser) ifStatement() (stmt, error) {
	keyword := p.advance()
	if _, err := p.expect(tokenLeftParen, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenRightParen, "expected ')' after condition"); err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}

	var alt []stmt
	if p.check(tokenElse) {
		p.advance()
		if p.check(tokenIf) {
			nested, err := p.ifStatement()
			if err != nil {
				return nil, err
			}
			alt = []stmt{nested}
		} else {
			alt, err = p.block()
			if err != nil {
				return nil, err
			}
		}
	}
	return &ifStmt{cond: cond, then: then, alt: alt, line: keyword.line}, nil
}

func (p *parser) block() ([]stmt, error) {
	if _, err := p.expect(tokenLeftBrace, "expected '{'"); err != nil {
		return nil, err
	}
	var stmts []stmt
	for !p.check(tokenRightBrace) {
		if p.check(tokenEOF) {
			return nil, p.errorAt(p.peek(), "unterminated block")
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	p.advance() // '}'
	return stmts, nil
}

func (p *parser) exprStatement() (stmt, error) {
	start := p.peek()
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, ok := value.(*callExpr); !ok {
		return nil, p.errorAt(start, "expression statement must be a call")
	}
	p.terminator()
	return &exprStmt{value: value, line: start.line}, nil
}

// terminator consumes an optional trailing semicolon.
func (p *parser) terminator() {
	if p.check(tokenSemicolon) {
		p.advance()
	}
}

func (p *parser) expression() (expr, error) {
	return p.or()
}

func (p *parser) or() (expr, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.check(tokenOr) {
		op := p.advance()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: op.kind, left: left, right: right, line: op.line}
	}
	return left, nil
}

func (p *parser) and() (expr, error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.check(tokenAnd) {
		op := p.advance()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: op.kind, left: left, right: right, line: op.line}
	}
	return left, nil
}

func (p *parser) equality() (expr, error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.check(tokenEqual) || p.check(tokenNotEqual) {
		op := p.advance()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: op.kind, left: left, right: right, line: op.line}
	}
	return left, nil
}

func (p *parser) comparison() (expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.check(tokenLess) || p.check(tokenLessEqual) || p.check(tokenGreater) || p.check(tokenGreaterEqual) {
		op := p.advance()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: op.kind, left: left, right: right, line: op.line}
	}
	return left, nil
}

func (p *parser) term() (expr, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.check(tokenPlus) || p.check(tokenMinus) {
		op := p.advance()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: op.kind, left: left, right: right, line: op.line}
	}
	return left, nil
}

func (p *parser) factor() (expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.check(tokenStar) || p.check(tokenSlash) || p.check(tokenPercent) {
		op := p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: op.kind, left: left, right: right, line: op.line}
	}
	return left, nil
}

func (p *parser) unary() (expr, error) {
	if p.check(tokenMinus) || p.check(tokenBang) {
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &unaryExpr{op: op.kind, operand: operand, line: op.line}, nil
	}
	return p.postfix()
}

func (p *parser) postfix() (expr, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(tokenDot):
			dot := p.advance()
			name, err := p.expect(tokenIdent, "expected field name after '.'")
			if err != nil {
				return nil, err
			}
			e = &memberExpr{object: e, field: name.lexeme, line: dot.line}
		case p.check(tokenLeftParen):
			paren := p.advance()
			var args []expr
			if !p.check(tokenRightParen) {
				for {
					arg, err := p.expression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.check(tokenComma) {
						break
					}
					p.advance()
				}
			}
			if _, err := p.expect(tokenRightParen, "expected ')' after arguments"); err != nil {
				return nil, err
			}
			e = &callExpr{callee: e, args: args, line: paren.line}
		default:
			return e, nil
		}
	}
}

func (p *parser) primary() (expr, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenNumber:
		p.advance()
		return &numberLit{value: tok.number, line: tok.line}, nil
	case tokenString:
		p.advance()
		return &stringLit{value: tok.lexeme, line: tok.line}, nil
	case tokenTrue:
		p.advance()
		return &boolLit{value: true, line: tok.line}, nil
	case tokenFalse:
		p.advance()
		return &boolLit{value: false, line: tok.line}, nil
	case tokenIdent:
		p.advance()
		return &identExpr{name: tok.lexeme, line: tok.line}, nil
	case tokenLeftParen:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRightParen, "expected ')'"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, p.errorAt(tok, fmt.Sprintf("unexpected token %s", tok))
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) check(kind tokenKind) bool { return p.tokens[p.pos].kind == kind }

func (p *parser) checkAt(offset int, kind tokenKind) bool {
	if p.pos+offset >= len(p.tokens) {
		return false
	}
	return p.tokens[p.pos+offset].kind == kind
}

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind, msg string) (token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token{}, p.errorAt(p.peek(), msg)
}

func (p *parser) errorAt(tok token, msg string) error {
	return &CompileError{Line: tok.line, Col: tok.col, Msg: msg}
}
