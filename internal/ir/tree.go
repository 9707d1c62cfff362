// Package ir holds the decision-tree intermediate representation produced
// by the matcher and consumed by the resolver and the emitter.
package ir

import (
	"fmt"

	"github.com/typelang/typc/internal/ast"
)

// Tree is the fully expanded form of one FunctionDef: the root scope
// (explicit generics plus argument-introduced generics), the body's
// leading let bindings and either a leaf result or a root decision node.
type Tree struct {
	Fn    *ast.FunctionDef
	Scope *Scope

	Lets []*Let

	// Exactly one of Leaf and Root is set.
	Leaf ast.Expression
	Root *Node
}

// Let is one body binding. A plain initializer keeps its expression; a
// branching initializer (match/if) is hoisted into its own decision node
// whose output the name binds to.
type Let struct {
	Stmt *ast.LetStatement
	Node *Node // non-nil when the initializer branches
}

// Node tests one subject against an ordered list of patterns. For a match
// the subject is the discriminee generic; for an if it is the condition
// expression, tested against the two boolean constants; for a nested
// constructor pattern it is the synthetic slot generic introduced by the
// parent arm.
type Node struct {
	// Path is the node's deterministic position ("0" for the root,
	// parent path + "_" + arm index below). Auxiliary declaration names
	// derive from it, so no global naming state exists.
	Path string

	Subject ast.Expression
	Scope   *Scope
	Arms    []*Arm
}

// Arm is one (pattern, child-scope, body-or-subtree) entry of a decision
// node. Sibling arms always test distinct top-level shapes (the builder
// merges arms sharing one), so exactly one arm can apply to any subject;
// arms need not be exhaustive.
type Arm struct {
	Pattern    ast.Pattern
	Introduced []*ast.GenericParam
	Captured   []string
	Scope      *Scope

	// Renames aliases a slot generic of an enclosing merged pattern to
	// this arm's own name for it (introduced here, or a capture).
	Renames map[string]string

	Lets []*Let

	// Exactly one of Body and Child is set.
	Body  ast.Expression
	Child *Node
}

// EntryParams lists a function's entry declaration parameters in order:
// the explicit generics, then one slot per argument. A var-pattern
// argument reuses its own name (deduplicated against the generics); a
// constructor-pattern argument gets a deterministic _a<index> slot name.
func EntryParams(fn *ast.FunctionDef) []string {
	seen := make(map[string]bool)
	var params []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			params = append(params, name)
		}
	}

	for _, gp := range fn.Generics {
		add(gp.Name)
	}
	for i, param := range fn.Params {
		if vp, ok := param.Pattern.(*ast.VarPattern); ok {
			add(vp.Name)
			continue
		}
		add(fmt.Sprintf("_a%d", i))
	}
	return params
}

// SubjectName returns the tested generic's name when the subject is a
// plain identifier, and "" for condition-expression subjects.
func (n *Node) SubjectName() string {
	if id, ok := n.Subject.(*ast.Ident); ok && !id.IsUpper() {
		return id.Value
	}
	return ""
}
