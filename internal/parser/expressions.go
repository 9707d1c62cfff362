package parser

import (
	"math/big"

	"github.com/typelang/typc/internal/ast"
	"github.com/typelang/typc/internal/diagnostics"
	"github.com/typelang/typc/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.errorf(diagnostics.ErrS004, p.curToken, "expression too complex: recursion depth limit exceeded")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

func (p *Parser) parseIdent() ast.Expression {
	return &ast.Ident{Token: p.curToken, Value: p.curToken.Literal.(string)}
}

// parseUpperExpression handles capitalized paths: a call F(args), a
// constructor Shape::<args>, or a bare marker reference.
func (p *Parser) parseUpperExpression() ast.Expression {
	tok := p.curToken
	name := p.curToken.Literal.(string)

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken() // (
		call := &ast.CallExpression{Token: p.curToken, Function: name}
		call.Arguments = p.parseExpressionList(token.RPAREN)
		if p.failed() {
			return nil
		}
		return call
	}

	if p.peekTokenIs(token.PATH_SEP) {
		p.nextToken() // ::
		if !p.expectPeek(token.LT) {
			return nil
		}
		ctor := &ast.ConstructorExpression{Token: tok, Shape: name}
		ctor.Arguments = p.parseExpressionList(token.GT)
		if p.failed() {
			return nil
		}
		return ctor
	}

	return &ast.Ident{Token: tok, Value: name}
}

// parseExpressionList parses a comma-separated list terminated by end.
// curToken is the opening delimiter on entry and end on exit.
func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	var list []ast.Expression

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	list = append(list, first)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // ,
		p.nextToken()
		next := p.parseExpression(LOWEST)
		if next == nil {
			return nil
		}
		list = append(list, next)
	}

	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	return &ast.IntegerLiteral{
		Token:    p.curToken,
		Value:    p.curToken.Literal.(*big.Int),
		Unsigned: p.curToken.Type == token.UINT,
	}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal.(string),
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}

	// A minus directly before an integer literal is the literal's sign,
	// not a negation capability call.
	if expression.Operator == "-" {
		if lit, ok := expression.Right.(*ast.IntegerLiteral); ok && !lit.Negative {
			if lit.Unsigned {
				p.errorf(diagnostics.ErrS003, expression.Token, "unsigned literal cannot carry a sign")
				return nil
			}
			return &ast.IntegerLiteral{Token: expression.Token, Value: lit.Value, Negative: true}
		}
	}

	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal.(string),
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expression := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	expression.Index = p.parseExpression(LOWEST)
	if expression.Index == nil {
		return nil
	}

	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return expression
}

// parseDotCallExpression parses the `lhs.Op(args)` sugar.
func (p *Parser) parseDotCallExpression(left ast.Expression) ast.Expression {
	expression := &ast.DotCallExpression{Token: p.curToken, Left: left}

	if !p.expectPeek(token.IDENT_UPPER) {
		return nil
	}
	expression.Method = p.curToken.Literal.(string)

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	expression.Arguments = p.parseExpressionList(token.RPAREN)
	if p.failed() {
		return nil
	}
	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken() // consume '('

	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}
