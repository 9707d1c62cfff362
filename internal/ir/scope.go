package ir

import (
	"github.com/typelang/typc/internal/ast"
)

// Scope tracks the generics visible at one point of a decision tree. Each
// match arm gets a fresh child scope; sibling arms never share one.
type Scope struct {
	parent *Scope
	names  []string // introduction order
	bounds map[string]*ast.Bound
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, bounds: make(map[string]*ast.Bound)}
}

func (s *Scope) Parent() *Scope { return s.parent }

// Introduce binds a generic in this scope. Re-introducing a name already
// present in this same scope is the caller's error to detect via Owner.
func (s *Scope) Introduce(name string, bound *ast.Bound) {
	if _, ok := s.bounds[name]; !ok {
		s.names = append(s.names, name)
	}
	s.bounds[name] = bound
}

// Lookup resolves a name against this scope and its ancestors, returning
// its bound and the scope that introduced it.
func (s *Scope) Lookup(name string) (*ast.Bound, *Scope, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bounds[name]; ok {
			return b, cur, true
		}
	}
	return nil, nil, false
}

// Owner returns the nearest scope introducing name, or nil.
func (s *Scope) Owner(name string) *Scope {
	_, owner, ok := s.Lookup(name)
	if !ok {
		return nil
	}
	return owner
}

// IntroducedHere reports whether this scope itself introduces name.
func (s *Scope) IntroducedHere(name string) bool {
	_, ok := s.bounds[name]
	return ok
}

// Names returns the generics this scope itself introduces, in
// introduction order.
func (s *Scope) Names() []string {
	return append([]string(nil), s.names...)
}

// AncestorIntroduces reports whether a strict ancestor of this scope
// introduces name. This is the capture legality check: siblings are not
// ancestors.
func (s *Scope) AncestorIntroduces(name string) bool {
	if s.parent == nil {
		return false
	}
	_, _, ok := s.parent.Lookup(name)
	return ok
}

// Visible returns every visible generic name, root scope first, each
// scope's names in introduction order. A name re-bound in a descendant
// appears once, at its first introduction.
func (s *Scope) Visible() []string {
	var chain []*Scope
	for cur := s; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	seen := make(map[string]bool)
	var names []string
	for i := len(chain) - 1; i >= 0; i-- {
		for _, name := range chain[i].names {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
