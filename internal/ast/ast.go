package ast

import (
	"github.com/typelang/typc/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
}

// Statement is a Node that represents a statement inside a body block.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Bound is a constraint set a type value must satisfy in a position.
// An empty Paths slice is the unconstrained bound `_`.
type Bound struct {
	Token token.Token
	Paths []string
}

// IsAny reports whether the bound places no constraint.
func (b *Bound) IsAny() bool {
	return b == nil || len(b.Paths) == 0
}

// PathSet returns the constraint paths, never nil.
func (b *Bound) PathSet() []string {
	if b == nil {
		return nil
	}
	return b.Paths
}

// GenericParam is one entry of a function's generic list: a name with the
// union of bounds declared inline and in the where clause.
type GenericParam struct {
	Token token.Token
	Name  string
	Bound *Bound
}

func (gp *GenericParam) GetToken() token.Token {
	if gp == nil {
		return token.Token{}
	}
	return gp.Token
}

// Param is one function argument: a pattern (bare name or constructor
// shape) plus its declared bound.
type Param struct {
	Token   token.Token
	Pattern Pattern
	Bound   *Bound
}

func (p *Param) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// FunctionDef is a single fn definition of the DSL block. It is owned by
// the compilation unit and immutable once parsed.
type FunctionDef struct {
	Token    token.Token // the 'fn' token
	Name     string
	Generics []*GenericParam
	Params   []*Param
	Return   *Bound // nil means `_`
	Body     *Block
}

func (fd *FunctionDef) Accept(v Visitor)     { v.VisitFunctionDef(fd) }
func (fd *FunctionDef) TokenLiteral() string { return fd.Token.Lexeme }
func (fd *FunctionDef) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}

// Generic returns the generic parameter with the given name, or nil.
func (fd *FunctionDef) Generic(name string) *GenericParam {
	for _, gp := range fd.Generics {
		if gp.Name == name {
			return gp
		}
	}
	return nil
}

// Block is a brace-delimited body: zero or more let statements followed by
// a result expression.
type Block struct {
	Token      token.Token // the '{' token
	Statements []Statement
}

func (b *Block) Accept(v Visitor)     { v.VisitBlock(b) }
func (b *Block) TokenLiteral() string { return b.Token.Lexeme }
func (b *Block) GetToken() token.Token {
	if b == nil {
		return token.Token{}
	}
	return b.Token
}

// Lets returns the leading let statements of the block.
func (b *Block) Lets() []*LetStatement {
	var lets []*LetStatement
	for _, stmt := range b.Statements {
		if ls, ok := stmt.(*LetStatement); ok {
			lets = append(lets, ls)
		}
	}
	return lets
}

// Result returns the block's trailing result expression, or nil if the
// block has none.
func (b *Block) Result() Expression {
	if b == nil || len(b.Statements) == 0 {
		return nil
	}
	if es, ok := b.Statements[len(b.Statements)-1].(*ExpressionStatement); ok {
		return es.Expression
	}
	return nil
}

// LetStatement is `let name: Bound = expr;`.
type LetStatement struct {
	Token token.Token // the 'let' token
	Name  string
	Bound *Bound // nil means `_`
	Value Expression
}

func (ls *LetStatement) Accept(v Visitor)     { v.VisitLetStatement(ls) }
func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Lexeme }
func (ls *LetStatement) GetToken() token.Token {
	if ls == nil {
		return token.Token{}
	}
	return ls.Token
}

// ExpressionStatement wraps the block's trailing result expression.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) Accept(v Visitor)     { v.VisitExpressionStatement(es) }
func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}
