package ast

import (
	"math/big"

	"github.com/typelang/typc/internal/token"
)

// Ident is a reference to a generic, a let binding, or a marker shape.
type Ident struct {
	Token token.Token
	Value string
}

func (i *Ident) Accept(v Visitor)     { v.VisitIdent(i) }
func (i *Ident) expressionNode()      {}
func (i *Ident) TokenLiteral() string { return i.Token.Lexeme }
func (i *Ident) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// IsUpper reports whether the identifier names a shape or marker (leading
// capital) rather than a generic.
func (i *Ident) IsUpper() bool {
	return len(i.Value) > 0 && i.Value[0] >= 'A' && i.Value[0] <= 'Z'
}

// IntegerLiteral is an integer with an optional sign and a signed/unsigned
// form. Unsuffixed literals are signed. Value holds the magnitude.
type IntegerLiteral struct {
	Token    token.Token
	Value    *big.Int
	Negative bool
	Unsigned bool
}

func (il *IntegerLiteral) Accept(v Visitor)     { v.VisitIntegerLiteral(il) }
func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token {
	if il == nil {
		return token.Token{}
	}
	return il.Token
}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) Accept(v Visitor)     { v.VisitBooleanLiteral(bl) }
func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Lexeme }
func (bl *BooleanLiteral) GetToken() token.Token {
	if bl == nil {
		return token.Token{}
	}
	return bl.Token
}

// PrefixExpression is a unary operator application: -x, !x, *x.
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) Accept(v Visitor)     { v.VisitPrefixExpression(pe) }
func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token {
	if pe == nil {
		return token.Token{}
	}
	return pe.Token
}

// InfixExpression is a binary operator application.
type InfixExpression struct {
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (ie *InfixExpression) Accept(v Visitor)     { v.VisitInfixExpression(ie) }
func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}

// IndexExpression is `lhs[rhs]`.
type IndexExpression struct {
	Token token.Token // the '[' token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) Accept(v Visitor)     { v.VisitIndexExpression(ie) }
func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}

// CallExpression invokes another FunctionDef (or this one, recursively).
type CallExpression struct {
	Token     token.Token // the '(' token
	Function  string
	Arguments []Expression
}

func (ce *CallExpression) Accept(v Visitor)     { v.VisitCallExpression(ce) }
func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}

// DotCallExpression is the `lhs.Op(args)` sugar: a qualified projection of
// the Op capability's output.
type DotCallExpression struct {
	Token     token.Token // the '.' token
	Left      Expression
	Method    string
	Arguments []Expression
}

func (dc *DotCallExpression) Accept(v Visitor)     { v.VisitDotCallExpression(dc) }
func (dc *DotCallExpression) expressionNode()      {}
func (dc *DotCallExpression) TokenLiteral() string { return dc.Token.Lexeme }
func (dc *DotCallExpression) GetToken() token.Token {
	if dc == nil {
		return token.Token{}
	}
	return dc.Token
}

// ConstructorExpression applies a shape to type arguments: Cons::<h, t>.
type ConstructorExpression struct {
	Token     token.Token
	Shape     string
	Arguments []Expression
}

func (ce *ConstructorExpression) Accept(v Visitor)     { v.VisitConstructorExpression(ce) }
func (ce *ConstructorExpression) expressionNode()      {}
func (ce *ConstructorExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *ConstructorExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}

// IfExpression is a two-armed conditional over a boolean-valued subject.
type IfExpression struct {
	Token       token.Token // the 'if' token
	Condition   Expression
	Consequence *Block
	Alternative *Block
}

func (ie *IfExpression) Accept(v Visitor)     { v.VisitIfExpression(ie) }
func (ie *IfExpression) expressionNode()      {}
func (ie *IfExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *IfExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}

// MatchArm is one ordered arm of a match: the attribute-declared fresh
// generics, the attribute-declared captures, the pattern and the body.
type MatchArm struct {
	Token      token.Token
	Generics   []*GenericParam
	Captures   []*Ident
	Pattern    Pattern
	Body       *Block
}

func (ma *MatchArm) GetToken() token.Token {
	if ma == nil {
		return token.Token{}
	}
	return ma.Token
}

// MatchExpression tests a generic against ordered arms; the first
// structurally matching arm wins, and arms need not be exhaustive.
type MatchExpression struct {
	Token   token.Token // the 'match' token
	Subject Expression
	Arms    []*MatchArm
}

func (me *MatchExpression) Accept(v Visitor)     { v.VisitMatchExpression(me) }
func (me *MatchExpression) expressionNode()      {}
func (me *MatchExpression) TokenLiteral() string { return me.Token.Lexeme }
func (me *MatchExpression) GetToken() token.Token {
	if me == nil {
		return token.Token{}
	}
	return me.Token
}
