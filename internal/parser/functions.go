package parser

import (
	"github.com/typelang/typc/internal/ast"
	"github.com/typelang/typc/internal/diagnostics"
	"github.com/typelang/typc/internal/token"
)

// parseFunctionDef parses one full definition:
//
//	fn Name<g1, g2: Bound>(arg: Bound, Shape::<a, b>: Bound) -> Bound
//	where g1: Other
//	{ body }
//
// curToken is the 'fn' keyword on entry and the closing '}' on exit.
func (p *Parser) parseFunctionDef() *ast.FunctionDef {
	fn := &ast.FunctionDef{Token: p.curToken}

	if !p.expectPeek(token.IDENT_UPPER) {
		return nil
	}
	fn.Name = p.curToken.Literal.(string)

	if p.peekTokenIs(token.LT) {
		p.nextToken() // consume name, curToken = <
		fn.Generics = p.parseGenericList()
		if p.failed() {
			return nil
		}
	}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	fn.Params = p.parseParamList()
	if p.failed() {
		return nil
	}

	if p.peekTokenIs(token.ARROW) {
		p.nextToken() // ->
		p.nextToken() // bound start
		fn.Return = p.parseBound()
		if p.failed() {
			return nil
		}
	}

	if p.peekTokenIs(token.WHERE) {
		p.nextToken()
		p.parseWhereClause(fn)
		if p.failed() {
			return nil
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlock()
	if fn.Body == nil {
		return nil
	}

	return fn
}

// parseGenericList parses `<g1, g2: Bound>`. curToken is '<' on entry and
// '>' on exit.
func (p *Parser) parseGenericList() []*ast.GenericParam {
	var generics []*ast.GenericParam

	if p.peekTokenIs(token.GT) {
		p.nextToken()
		return generics
	}

	for {
		if !p.expectPeek(token.IDENT_LOWER) {
			return nil
		}
		gp := &ast.GenericParam{Token: p.curToken, Name: p.curToken.Literal.(string)}

		if p.peekTokenIs(token.COLON) {
			p.nextToken() // :
			p.nextToken() // bound start
			gp.Bound = p.parseBound()
			if p.failed() {
				return nil
			}
		}
		generics = append(generics, gp)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if !p.expectPeek(token.GT) {
		return nil
	}
	return generics
}

// parseParamList parses `(pattern: Bound, ...)`. curToken is '(' on entry
// and ')' on exit.
func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	for {
		p.nextToken()
		param := &ast.Param{Token: p.curToken}
		param.Pattern = p.parsePattern()
		if param.Pattern == nil {
			return nil
		}

		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		param.Bound = p.parseBound()
		if p.failed() {
			return nil
		}
		params = append(params, param)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

// parseWhereClause parses `where name: Bound, name: Bound` and merges each
// predicate into the named generic or argument. curToken is 'where' on
// entry and the last predicate's bound on exit.
func (p *Parser) parseWhereClause(fn *ast.FunctionDef) {
	for {
		if !p.expectPeek(token.IDENT_LOWER) {
			return
		}
		nameTok := p.curToken
		name := p.curToken.Literal.(string)

		if !p.expectPeek(token.COLON) {
			return
		}
		p.nextToken()
		bound := p.parseBound()
		if p.failed() {
			return
		}

		if !p.mergeWherePredicate(fn, name, bound) {
			p.errorf(diagnostics.ErrS001, nameTok, "where clause names unknown generic %q", name)
			return
		}

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		return
	}
}

// mergeWherePredicate unions the predicate's paths into the generic list
// entry or the var-pattern argument with the given name.
func (p *Parser) mergeWherePredicate(fn *ast.FunctionDef, name string, bound *ast.Bound) bool {
	if gp := fn.Generic(name); gp != nil {
		gp.Bound = unionBounds(gp.Bound, bound)
		return true
	}
	for _, param := range fn.Params {
		if vp, ok := param.Pattern.(*ast.VarPattern); ok && vp.Name == name {
			param.Bound = unionBounds(param.Bound, bound)
			return true
		}
	}
	return false
}

func unionBounds(a, b *ast.Bound) *ast.Bound {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	merged := &ast.Bound{Token: a.Token, Paths: append([]string{}, a.Paths...)}
	for _, path := range b.Paths {
		found := false
		for _, existing := range merged.Paths {
			if existing == path {
				found = true
				break
			}
		}
		if !found {
			merged.Paths = append(merged.Paths, path)
		}
	}
	return merged
}

// parseBound parses `_` or a `+`-joined list of constraint paths. curToken
// is the first bound token on entry and the last on exit.
func (p *Parser) parseBound() *ast.Bound {
	bound := &ast.Bound{Token: p.curToken}

	if p.curTokenIs(token.UNDERSCORE) {
		return bound
	}

	for {
		if !p.curTokenIs(token.IDENT_UPPER) {
			p.errorf(diagnostics.ErrS001, p.curToken, "expected bound (uppercase path or '_'), got %q", p.curToken.Lexeme)
			return nil
		}
		bound.Paths = append(bound.Paths, p.curToken.Literal.(string))

		if p.peekTokenIs(token.PLUS) {
			p.nextToken() // +
			p.nextToken() // next path
			continue
		}
		return bound
	}
}

// parseBlock parses `{ let ...; ...; result }`. curToken is '{' on entry
// and '}' on exit.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Token: p.curToken}

	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.peekError(token.RBRACE)
			return nil
		}
		p.nextToken()

		if p.curTokenIs(token.LET) {
			stmt := p.parseLetStatement()
			if stmt == nil {
				return nil
			}
			block.Statements = append(block.Statements, stmt)
			continue
		}

		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		block.Statements = append(block.Statements, &ast.ExpressionStatement{Token: expr.GetToken(), Expression: expr})

		// The result expression is the block's last statement.
		if !p.expectPeek(token.RBRACE) {
			return nil
		}
		return block
	}

	p.nextToken() // consume }
	return block
}

// parseLetStatement parses `let name: Bound = expr;`. curToken is 'let' on
// entry and ';' on exit.
func (p *Parser) parseLetStatement() *ast.LetStatement {
	stmt := &ast.LetStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT_LOWER) {
		return nil
	}
	stmt.Name = p.curToken.Literal.(string)

	if p.peekTokenIs(token.COLON) {
		p.nextToken() // :
		p.nextToken() // bound start
		stmt.Bound = p.parseBound()
		if p.failed() {
			return nil
		}
	}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}
