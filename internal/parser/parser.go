package parser

import (
	"github.com/typelang/typc/internal/ast"
	"github.com/typelang/typc/internal/diagnostics"
	"github.com/typelang/typc/internal/pipeline"
	"github.com/typelang/typc/internal/token"
)

// MaxRecursionDepth bounds expression nesting to keep malformed input from
// exhausting the stack.
const MaxRecursionDepth = 200

// Operator precedence levels, lowest first.
const (
	LOWEST      = iota + 1
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	BIT_OR      // |
	BIT_AND     // &
	EQUALS      // ==
	LESSGREATER // < <= > >=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x *x
	CALL        // F(x), a[i], lhs.Op(rhs)
)

var precedences = map[token.TokenType]int{
	token.OR:        LOGIC_OR,
	token.AND:       LOGIC_AND,
	token.PIPE:      BIT_OR,
	token.AMPERSAND: BIT_AND,
	token.EQ:        EQUALS,
	token.LT:        LESSGREATER,
	token.GT:        LESSGREATER,
	token.LTE:       LESSGREATER,
	token.GTE:       LESSGREATER,
	token.PLUS:      SUM,
	token.MINUS:     SUM,
	token.ASTERISK:  PRODUCT,
	token.SLASH:     PRODUCT,
	token.PERCENT:   PRODUCT,
	token.LBRACKET:  CALL,
	token.DOT:       CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	stream *token.Stream
	ctx    *pipeline.PipelineContext

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	depth int
}

func New(stream *token.Stream, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{stream: stream, ctx: ctx}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT_LOWER: p.parseIdent,
		token.IDENT_UPPER: p.parseUpperExpression,
		token.INT:         p.parseIntegerLiteral,
		token.UINT:        p.parseIntegerLiteral,
		token.TRUE:        p.parseBooleanLiteral,
		token.FALSE:       p.parseBooleanLiteral,
		token.MINUS:       p.parsePrefixExpression,
		token.BANG:        p.parsePrefixExpression,
		token.ASTERISK:    p.parsePrefixExpression,
		token.LPAREN:      p.parseGroupedExpression,
		token.IF:          p.parseIfExpression,
		token.MATCH:       p.parseMatchExpression,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.PLUS:      p.parseInfixExpression,
		token.MINUS:     p.parseInfixExpression,
		token.ASTERISK:  p.parseInfixExpression,
		token.SLASH:     p.parseInfixExpression,
		token.PERCENT:   p.parseInfixExpression,
		token.LT:        p.parseInfixExpression,
		token.GT:        p.parseInfixExpression,
		token.LTE:       p.parseInfixExpression,
		token.GTE:       p.parseInfixExpression,
		token.EQ:        p.parseInfixExpression,
		token.AMPERSAND: p.parseInfixExpression,
		token.PIPE:      p.parseInfixExpression,
		token.AND:       p.parseInfixExpression,
		token.OR:        p.parseInfixExpression,
		token.LBRACKET:  p.parseIndexExpression,
		token.DOT:       p.parseDotCallExpression,
	}

	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()

	return p
}

// ParseProgram parses the block's ordered list of fn definitions. Parsing
// stops at the first error: no recovery, no partial AST.
func (p *Parser) ParseProgram() []*ast.FunctionDef {
	var fns []*ast.FunctionDef

	for !p.curTokenIs(token.EOF) {
		if !p.curTokenIs(token.FN) {
			p.errorf(diagnostics.ErrS001, p.curToken, "expected 'fn', got %q", p.curToken.Lexeme)
			return nil
		}
		fn := p.parseFunctionDef()
		if fn == nil || p.failed() {
			return nil
		}
		fns = append(fns, fn)
		p.nextToken()
	}

	return fns
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.stream.Next()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	code := diagnostics.ErrS001
	if p.peekTokenIs(token.EOF) {
		code = diagnostics.ErrS002
	}
	p.errorf(code, p.peekToken, "expected %q, got %q", string(t), p.peekToken.Lexeme)
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	code := diagnostics.ErrS001
	if tok.Type == token.EOF {
		code = diagnostics.ErrS002
	}
	p.errorf(code, tok, "unexpected token %q in expression", tok.Lexeme)
}

func (p *Parser) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(code, tok, format, args...))
}

func (p *Parser) failed() bool {
	return len(p.ctx.Errors) > 0
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}
