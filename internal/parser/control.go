package parser

import (
	"github.com/typelang/typc/internal/ast"
	"github.com/typelang/typc/internal/diagnostics"
	"github.com/typelang/typc/internal/token"
)

func (p *Parser) parseIfExpression() ast.Expression {
	expression := &ast.IfExpression{Token: p.curToken}

	p.nextToken() // consume 'if'
	expression.Condition = p.parseExpression(LOWEST)
	if expression.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expression.Consequence = p.parseBlock()
	if expression.Consequence == nil {
		return nil
	}

	// Both branches are required: a one-armed conditional has no meaning
	// over types.
	if !p.expectPeek(token.ELSE) {
		return nil
	}

	if p.peekTokenIs(token.IF) {
		p.nextToken()
		ifExpr := p.parseIfExpression()
		if ifExpr == nil {
			return nil
		}
		expression.Alternative = &ast.Block{
			Token:      ifExpr.GetToken(),
			Statements: []ast.Statement{&ast.ExpressionStatement{Token: ifExpr.GetToken(), Expression: ifExpr}},
		}
		return expression
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expression.Alternative = p.parseBlock()
	if expression.Alternative == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseMatchExpression() ast.Expression {
	me := &ast.MatchExpression{Token: p.curToken}

	p.nextToken() // consume 'match'
	me.Subject = p.parseExpression(LOWEST)
	if me.Subject == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.peekError(token.RBRACE)
			return nil
		}
		p.nextToken()

		arm := p.parseMatchArm()
		if arm == nil {
			return nil
		}
		me.Arms = append(me.Arms, arm)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}

	return me
}

// parseMatchArm parses one `#[...]`-attributed `pattern => body` arm.
// curToken is the arm's first token on entry and the body's last token on
// exit.
func (p *Parser) parseMatchArm() *ast.MatchArm {
	arm := &ast.MatchArm{Token: p.curToken}

	for p.curTokenIs(token.POUND) {
		if !p.parseArmAttribute(arm) {
			return nil
		}
		p.nextToken()
	}

	arm.Pattern = p.parsePattern()
	if arm.Pattern == nil {
		return nil
	}

	if !p.expectPeek(token.FAT_ARROW) {
		return nil
	}

	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		arm.Body = p.parseBlock()
		if arm.Body == nil {
			return nil
		}
		return arm
	}

	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	arm.Body = &ast.Block{
		Token:      expr.GetToken(),
		Statements: []ast.Statement{&ast.ExpressionStatement{Token: expr.GetToken(), Expression: expr}},
	}
	return arm
}

// parseArmAttribute parses `#[generics(a, b: Bound)]` or `#[capture(x)]`.
// curToken is '#' on entry and ']' on exit.
func (p *Parser) parseArmAttribute(arm *ast.MatchArm) bool {
	if !p.expectPeek(token.LBRACKET) {
		return false
	}
	if !p.expectPeek(token.IDENT_LOWER) {
		return false
	}
	kind := p.curToken.Literal.(string)
	kindTok := p.curToken

	if !p.expectPeek(token.LPAREN) {
		return false
	}

	switch kind {
	case "generics":
		for !p.peekTokenIs(token.RPAREN) {
			if !p.expectPeek(token.IDENT_LOWER) {
				return false
			}
			gp := &ast.GenericParam{Token: p.curToken, Name: p.curToken.Literal.(string)}
			if p.peekTokenIs(token.COLON) {
				p.nextToken() // :
				p.nextToken() // bound start
				gp.Bound = p.parseBound()
				if p.failed() {
					return false
				}
			}
			arm.Generics = append(arm.Generics, gp)
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
			}
		}
	case "capture":
		for !p.peekTokenIs(token.RPAREN) {
			if !p.expectPeek(token.IDENT_LOWER) {
				return false
			}
			arm.Captures = append(arm.Captures, &ast.Ident{Token: p.curToken, Value: p.curToken.Literal.(string)})
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
			}
		}
	default:
		p.errorf(diagnostics.ErrS005, kindTok, "unknown arm attribute %q (expected 'generics' or 'capture')", kind)
		return false
	}

	if !p.expectPeek(token.RPAREN) {
		return false
	}
	if !p.expectPeek(token.RBRACKET) {
		return false
	}
	return true
}

// parsePattern parses a bare placeholder, a marker shape, or a nested
// constructor pattern `Shape::<p1, p2>`.
func (p *Parser) parsePattern() ast.Pattern {
	switch p.curToken.Type {
	case token.IDENT_LOWER:
		return &ast.VarPattern{Token: p.curToken, Name: p.curToken.Literal.(string)}
	case token.IDENT_UPPER:
		cp := &ast.ConstructorPattern{Token: p.curToken, Shape: p.curToken.Literal.(string)}
		if !p.peekTokenIs(token.PATH_SEP) {
			return cp // marker shape
		}
		p.nextToken() // ::
		if !p.expectPeek(token.LT) {
			return nil
		}
		for {
			p.nextToken()
			sub := p.parsePattern()
			if sub == nil {
				return nil
			}
			cp.Subs = append(cp.Subs, sub)
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
		if !p.expectPeek(token.GT) {
			return nil
		}
		return cp
	default:
		p.errorf(diagnostics.ErrS001, p.curToken, "expected pattern, got %q", p.curToken.Lexeme)
		return nil
	}
}
