package ast

import (
	"github.com/typelang/typc/internal/token"
)

// Pattern is either a bare generic placeholder or a constructor shape
// applied to nested sub-patterns.
type Pattern interface {
	Node
	patternNode()
	GetToken() token.Token
}

// VarPattern is a bare generic placeholder. The name either introduces a
// fresh generic or references one captured from an enclosing scope.
type VarPattern struct {
	Token token.Token
	Name  string
}

func (vp *VarPattern) Accept(v Visitor)     { v.VisitVarPattern(vp) }
func (vp *VarPattern) patternNode()         {}
func (vp *VarPattern) TokenLiteral() string { return vp.Token.Lexeme }
func (vp *VarPattern) GetToken() token.Token {
	if vp == nil {
		return token.Token{}
	}
	return vp.Token
}

// ConstructorPattern is a named shape applied to sub-patterns. Zero
// sub-patterns is a marker shape (an empty/terminal case).
type ConstructorPattern struct {
	Token token.Token
	Shape string
	Subs  []Pattern
}

func (cp *ConstructorPattern) Accept(v Visitor)     { v.VisitConstructorPattern(cp) }
func (cp *ConstructorPattern) patternNode()         {}
func (cp *ConstructorPattern) TokenLiteral() string { return cp.Token.Lexeme }
func (cp *ConstructorPattern) GetToken() token.Token {
	if cp == nil {
		return token.Token{}
	}
	return cp.Token
}

// IsMarker reports whether the pattern is a zero-slot marker shape.
func (cp *ConstructorPattern) IsMarker() bool {
	return len(cp.Subs) == 0
}

// Names appends, in source order, every placeholder name appearing in the
// pattern (including nested sub-patterns).
func PatternNames(p Pattern) []string {
	var names []string
	var walk func(Pattern)
	walk = func(p Pattern) {
		switch pat := p.(type) {
		case *VarPattern:
			names = append(names, pat.Name)
		case *ConstructorPattern:
			for _, sub := range pat.Subs {
				walk(sub)
			}
		}
	}
	walk(p)
	return names
}
