// Package resolver checks the decision trees for bound consistency: every
// referenced generic must be visible, every capture must come from a
// strict ancestor scope, and every declared bound must be satisfied by
// the inferred one.
package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/typelang/typc/internal/ast"
	"github.com/typelang/typc/internal/config"
	"github.com/typelang/typc/internal/diagnostics"
	"github.com/typelang/typc/internal/ir"
	"github.com/typelang/typc/internal/pipeline"
	"github.com/typelang/typc/internal/token"
)

type Resolver struct {
	ctx    *pipeline.PipelineContext
	errors []*diagnostics.DiagnosticError
}

func New(ctx *pipeline.PipelineContext) *Resolver {
	return &Resolver{ctx: ctx}
}

func (r *Resolver) Errors() []*diagnostics.DiagnosticError {
	return r.errors
}

func (r *Resolver) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	r.errors = append(r.errors, diagnostics.NewError(code, tok, format, args...))
}

// letEnv layers let-binding bounds over the generic scopes; each block
// level gets its own frame.
type letEnv struct {
	parent *letEnv
	bounds map[string][]string
}

func newLetEnv(parent *letEnv) *letEnv {
	return &letEnv{parent: parent, bounds: make(map[string][]string)}
}

func (e *letEnv) lookup(name string) ([]string, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if b, ok := cur.bounds[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// target is what a decision tree's reachable leaves must satisfy: the
// function's declared return bound, or a hoisted let's declared bound.
type target struct {
	bound *ast.Bound
	what  string
}

// ResolveTree checks one function's decision tree top to bottom. All
// reachable leaves must satisfy the declared return bound.
func (r *Resolver) ResolveTree(t *ir.Tree) {
	env := newLetEnv(nil)
	r.resolveLets(t.Lets, t.Scope, env)

	tgt := target{bound: t.Fn.Return, what: t.Fn.Name + " declares return bound"}
	if t.Leaf != nil {
		r.checkResult(tgt, t.Leaf, t.Scope, env)
		return
	}
	r.resolveNode(tgt, t.Root, env)
}

// resolveLets checks each binding and records its bound for the block:
// the declared one when present (after checking it holds), otherwise the
// inferred one. A hoisted branching initializer is resolved as its own
// subtree whose leaves must satisfy the binding's declared bound.
func (r *Resolver) resolveLets(lets []*ir.Let, scope *ir.Scope, env *letEnv) {
	for _, let := range lets {
		stmt := let.Stmt
		if let.Node != nil {
			tgt := target{bound: stmt.Bound, what: fmt.Sprintf("let %q declares bound", stmt.Name)}
			r.resolveNode(tgt, let.Node, env)
			env.bounds[stmt.Name] = stmt.Bound.PathSet()
			continue
		}

		inferred := r.infer(stmt.Value, scope, env)
		if stmt.Bound != nil && !satisfies(stmt.Bound, inferred) {
			r.errorf(diagnostics.ErrR003, stmt.Token,
				"let %q declares bound %s but its value only provides %s",
				stmt.Name, boundText(stmt.Bound.PathSet()), boundText(inferred))
		}
		if stmt.Bound != nil && !stmt.Bound.IsAny() {
			env.bounds[stmt.Name] = stmt.Bound.PathSet()
		} else {
			env.bounds[stmt.Name] = inferred
		}
	}
}

func (r *Resolver) checkResult(tgt target, result ast.Expression, scope *ir.Scope, env *letEnv) {
	inferred := r.infer(result, scope, env)
	if tgt.bound != nil && !satisfies(tgt.bound, inferred) {
		r.errorf(diagnostics.ErrR003, result.GetToken(),
			"%s %s but this result only provides %s",
			tgt.what, boundText(tgt.bound.PathSet()), boundText(inferred))
	}
}

func (r *Resolver) resolveNode(tgt target, node *ir.Node, env *letEnv) {
	// Condition subjects must be boolean-valued; generic subjects were
	// checked for visibility when the tree was built.
	if node.SubjectName() == "" {
		inferred := r.infer(node.Subject, node.Scope, env)
		if len(inferred) > 0 && !contains(inferred, config.BoolBound) {
			r.errorf(diagnostics.ErrR003, node.Subject.GetToken(),
				"condition provides %s, expected %s", boundText(inferred), config.BoolBound)
		}
	}

	for _, arm := range node.Arms {
		r.resolveArm(tgt, arm, env)
	}
}

func (r *Resolver) resolveArm(tgt target, arm *ir.Arm, env *letEnv) {
	r.checkCaptures(arm)
	r.checkRebinds(arm)

	armEnv := newLetEnv(env)
	r.resolveLets(arm.Lets, arm.Scope, armEnv)

	if arm.Body != nil {
		r.checkResult(tgt, arm.Body, arm.Scope, armEnv)
		return
	}
	if arm.Child != nil {
		r.resolveNode(tgt, arm.Child, armEnv)
	}
}

// checkCaptures validates both the explicit capture attribute and the
// implicit captures: any pattern name the arm does not introduce itself
// must be bound by a strict ancestor scope. A name introduced by a
// sibling arm is not visible here and cannot be captured.
func (r *Resolver) checkCaptures(arm *ir.Arm) {
	tok := patternToken(arm.Pattern)

	for _, name := range arm.Captured {
		if !arm.Scope.AncestorIntroduces(name) {
			r.errorf(diagnostics.ErrR002, tok,
				"cannot capture %q: no enclosing arm or signature introduces it", name)
		}
	}

	for _, name := range ast.PatternNames(arm.Pattern) {
		if arm.Scope.IntroducedHere(name) {
			continue
		}
		if !arm.Scope.AncestorIntroduces(name) {
			r.errorf(diagnostics.ErrR002, tok,
				"pattern reuses %q, which no enclosing scope introduces; declare it in the arm's generics or capture it", name)
		}
	}

	// Slot aliases from a merged sibling group follow the same rule as
	// pattern names.
	for _, name := range renameTargets(arm.Renames) {
		if arm.Scope.IntroducedHere(name) {
			continue
		}
		if !arm.Scope.AncestorIntroduces(name) {
			r.errorf(diagnostics.ErrR002, tok,
				"pattern reuses %q, which no enclosing scope introduces; declare it in the arm's generics or capture it", name)
		}
	}
}

// renameTargets lists an arm's slot-alias names in slot order, so errors
// are reported deterministically.
func renameTargets(renames map[string]string) []string {
	if len(renames) == 0 {
		return nil
	}
	slots := make([]string, 0, len(renames))
	for slot := range renames {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	names := make([]string, 0, len(slots))
	for _, slot := range slots {
		names = append(names, renames[slot])
	}
	return names
}

// checkRebinds rejects an arm generic that shadows an ancestor binding
// under a different bound. Re-introducing a name with the identical bound
// is allowed and simply shadows.
func (r *Resolver) checkRebinds(arm *ir.Arm) {
	for _, gp := range arm.Introduced {
		ancestor, _, ok := arm.Scope.Parent().Lookup(gp.Name)
		if !ok {
			continue
		}
		if !sameBound(ancestor, gp.Bound) {
			r.errorf(diagnostics.ErrR004, gp.Token,
				"generic %q re-binds an enclosing generic with a different bound", gp.Name)
		}
	}
}

// satisfies reports whether the inferred bound paths cover every declared
// path. An absent or `_` declaration accepts anything.
func satisfies(declared *ast.Bound, inferred []string) bool {
	if declared == nil || declared.IsAny() {
		return true
	}
	for _, path := range declared.PathSet() {
		if !contains(inferred, path) {
			return false
		}
	}
	return true
}

func sameBound(a, b *ast.Bound) bool {
	ap, bp := a.PathSet(), b.PathSet()
	if len(ap) != len(bp) {
		return false
	}
	for _, p := range ap {
		if !contains(bp, p) {
			return false
		}
	}
	return true
}

func contains(paths []string, path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}

func boundText(paths []string) string {
	if len(paths) == 0 {
		return "_"
	}
	return strings.Join(paths, " + ")
}

func patternToken(p ast.Pattern) token.Token {
	switch pat := p.(type) {
	case *ast.VarPattern:
		return pat.Token
	case *ast.ConstructorPattern:
		return pat.Token
	}
	return token.Token{}
}
