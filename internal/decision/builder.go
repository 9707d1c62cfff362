// Package decision expands function bodies into explicit decision trees:
// every match and if becomes a node testing one subject against patterns,
// with scoped generic introduction per arm. Sibling arms sharing a
// top-level shape are merged into a single arm whose chained child node
// discriminates on the first slot their sub-patterns diverge on, so every
// emitted specialization keeps a distinct head.
package decision

import (
	"fmt"

	"github.com/typelang/typc/internal/ast"
	"github.com/typelang/typc/internal/config"
	"github.com/typelang/typc/internal/diagnostics"
	"github.com/typelang/typc/internal/ir"
	"github.com/typelang/typc/internal/token"
)

type Builder struct {
	names  config.Names
	errors []*diagnostics.DiagnosticError
}

func NewBuilder(names config.Names) *Builder {
	return &Builder{names: names}
}

func (b *Builder) Errors() []*diagnostics.DiagnosticError {
	return b.errors
}

func (b *Builder) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	b.errors = append(b.errors, diagnostics.NewError(code, tok, format, args...))
}

// Build expands one FunctionDef. The root scope holds the explicit
// generics plus the generics introduced by argument patterns.
func (b *Builder) Build(fn *ast.FunctionDef) *ir.Tree {
	scope := ir.NewScope(nil)

	for _, gp := range fn.Generics {
		if scope.IntroducedHere(gp.Name) {
			b.errorf(diagnostics.ErrR004, gp.Token, "generic %q declared twice", gp.Name)
			return nil
		}
		scope.Introduce(gp.Name, gp.Bound)
	}

	for _, param := range fn.Params {
		if !b.introduceParam(scope, param) {
			return nil
		}
	}

	tree := &ir.Tree{Fn: fn, Scope: scope}
	lets, leaf, root, ok := b.buildBlock(fn.Body, scope, "0")
	if !ok {
		return nil
	}
	tree.Lets = lets
	tree.Leaf = leaf
	tree.Root = root
	return tree
}

// introduceParam binds a var-pattern argument (with its declared bound) or
// the fresh placeholders of a constructor-pattern argument.
func (b *Builder) introduceParam(scope *ir.Scope, param *ast.Param) bool {
	switch pat := param.Pattern.(type) {
	case *ast.VarPattern:
		if scope.IntroducedHere(pat.Name) {
			existing, _, _ := scope.Lookup(pat.Name)
			if !boundsEqual(existing, param.Bound) {
				b.errorf(diagnostics.ErrR004, pat.Token, "argument %q re-binds a generic with a different bound", pat.Name)
				return false
			}
			return true
		}
		scope.Introduce(pat.Name, param.Bound)
		return true
	case *ast.ConstructorPattern:
		// Placeholders inside an argument pattern either reference an
		// explicit generic or introduce a fresh unconstrained one. A
		// shared name across two argument patterns requires the matched
		// slots to resolve to the identical type.
		for _, name := range ast.PatternNames(param.Pattern) {
			if _, _, ok := scope.Lookup(name); !ok {
				scope.Introduce(name, nil)
			}
		}
		return true
	}
	b.errorf(diagnostics.ErrS001, param.Token, "unsupported argument pattern")
	return false
}

// buildBlock compiles a body block: leading lets plus either a leaf result
// or a decision subtree for a trailing match/if. A let whose initializer
// is itself a match/if hoists the initializer into its own decision node;
// the binding then names that node's output.
func (b *Builder) buildBlock(block *ast.Block, scope *ir.Scope, path string) ([]*ir.Let, ast.Expression, *ir.Node, bool) {
	if block == nil || block.Result() == nil {
		b.errorf(diagnostics.ErrD001, block.GetToken(), "body has no result expression")
		return nil, nil, nil, false
	}

	var lets []*ir.Let
	for i, let := range block.Lets() {
		letPath := fmt.Sprintf("%s_l%d", path, i)
		switch value := let.Value.(type) {
		case *ast.MatchExpression:
			node := b.buildMatch(value, scope, letPath)
			if node == nil {
				return nil, nil, nil, false
			}
			lets = append(lets, &ir.Let{Stmt: let, Node: node})
		case *ast.IfExpression:
			node := b.buildIf(value, scope, letPath)
			if node == nil {
				return nil, nil, nil, false
			}
			lets = append(lets, &ir.Let{Stmt: let, Node: node})
		default:
			if branch := findBranch(let.Value); branch != nil {
				b.errorf(diagnostics.ErrD001, branch.GetToken(), "match/if nested inside a larger expression is not supported; bind it with its own let first")
				return nil, nil, nil, false
			}
			lets = append(lets, &ir.Let{Stmt: let})
		}
	}

	switch result := block.Result().(type) {
	case *ast.MatchExpression:
		node := b.buildMatch(result, scope, path)
		if node == nil {
			return nil, nil, nil, false
		}
		return lets, nil, node, true
	case *ast.IfExpression:
		node := b.buildIf(result, scope, path)
		if node == nil {
			return nil, nil, nil, false
		}
		return lets, nil, node, true
	default:
		if branch := findBranch(result); branch != nil {
			b.errorf(diagnostics.ErrD001, branch.GetToken(), "match/if nested inside a larger expression is not supported; bind it with its own let first")
			return nil, nil, nil, false
		}
		return lets, result, nil, true
	}
}

// buildMatch compiles a match into a decision node. The subject must be a
// generic visible in the enclosing scope.
func (b *Builder) buildMatch(me *ast.MatchExpression, scope *ir.Scope, path string) *ir.Node {
	subj, ok := me.Subject.(*ast.Ident)
	if !ok || subj.IsUpper() {
		b.errorf(diagnostics.ErrD002, me.Subject.GetToken(), "match subject must be a generic")
		return nil
	}
	if _, _, found := scope.Lookup(subj.Value); !found {
		b.errorf(diagnostics.ErrR001, subj.Token, "unknown generic %q", subj.Value)
		return nil
	}

	inputs := make([]*armInput, 0, len(me.Arms))
	for _, arm := range me.Arms {
		in := &armInput{
			token:    arm.Pattern.GetToken(),
			pattern:  arm.Pattern,
			generics: arm.Generics,
			body:     arm.Body,
		}
		for _, capture := range arm.Captures {
			in.captures = append(in.captures, capture.Value)
		}
		inputs = append(inputs, in)
	}

	return b.buildNode(me.Subject, inputs, scope, path)
}

// buildIf compiles an if into a two-arm decision node over the boolean
// constants; the condition expression is the node's subject.
func (b *Builder) buildIf(ie *ast.IfExpression, scope *ir.Scope, path string) *ir.Node {
	if branch := findBranch(ie.Condition); branch != nil {
		b.errorf(diagnostics.ErrD001, branch.GetToken(), "match/if nested inside a larger expression is not supported; bind it with its own let first")
		return nil
	}

	node := &ir.Node{Path: path, Subject: ie.Condition, Scope: scope}

	branches := []struct {
		shape string
		block *ast.Block
	}{
		{b.names.True, ie.Consequence},
		{b.names.False, ie.Alternative},
	}

	for i, branch := range branches {
		armScope := ir.NewScope(scope)
		arm := &ir.Arm{
			Pattern: &ast.ConstructorPattern{Token: ie.Token, Shape: branch.shape},
			Scope:   armScope,
		}
		lets, leaf, child, ok := b.buildBlock(branch.block, armScope, fmt.Sprintf("%s_%d", path, i))
		if !ok {
			return nil
		}
		arm.Lets = lets
		arm.Body = leaf
		arm.Child = child
		node.Arms = append(node.Arms, arm)
	}

	return node
}

// armInput is one arm awaiting compilation at a node, together with the
// material a merged enclosing group threads through: slot aliases for the
// merged pattern's binding positions, leftover slot tests beyond the
// discriminating one, and the next free synthetic slot number.
type armInput struct {
	token    token.Token
	pattern  ast.Pattern
	generics []*ast.GenericParam
	captures []string
	body     *ast.Block

	renames []slotBinding
	rest    []*restTest
	synth   int
}

// slotBinding aliases a merged pattern's slot generic to an arm's own name
// for that position.
type slotBinding struct {
	slot  string
	name  string
	token token.Token
}

// restTest is a constructor test an arm makes against a slot other than
// the one its group discriminates on; it chains onto the arm's own node.
type restTest struct {
	slot    string
	token   token.Token
	pattern *ast.ConstructorPattern
}

// buildNode compiles the arms testing one subject. Arms are grouped by
// top-level shape in source order; each group becomes exactly one arm of
// the node, so no two sibling specializations can apply to the same
// subject. A catch-all variable arm is only legal on its own: next to
// constructor arms its blanket implementation would conflict with every
// sibling.
func (b *Builder) buildNode(subject ast.Expression, inputs []*armInput, scope *ir.Scope, path string) *ir.Node {
	if len(inputs) > 1 {
		for _, in := range inputs {
			if vp, ok := in.pattern.(*ast.VarPattern); ok {
				b.errorf(diagnostics.ErrD003, in.token, "catch-all %q cannot share a match with other arms: it applies to every subject the sibling arms apply to", vp.Name)
				return nil
			}
		}
	}

	type group struct {
		arms []*armInput
	}
	var groups []*group
	index := make(map[string]int)
	for _, in := range inputs {
		cp, isCtor := in.pattern.(*ast.ConstructorPattern)
		if !isCtor {
			groups = append(groups, &group{arms: []*armInput{in}})
			continue
		}
		gi, seen := index[cp.Shape]
		if !seen {
			index[cp.Shape] = len(groups)
			groups = append(groups, &group{arms: []*armInput{in}})
			continue
		}
		first := groups[gi].arms[0].pattern.(*ast.ConstructorPattern)
		if len(first.Subs) != len(cp.Subs) {
			b.errorf(diagnostics.ErrD003, in.token, "shape %q is matched with %d slots here but %d in an earlier arm", cp.Shape, len(cp.Subs), len(first.Subs))
			return nil
		}
		groups[gi].arms = append(groups[gi].arms, in)
	}

	node := &ir.Node{Path: path, Subject: subject, Scope: scope}
	for i, g := range groups {
		armPath := fmt.Sprintf("%s_%d", path, i)
		var built *ir.Arm
		if len(g.arms) == 1 {
			built = b.buildSingle(g.arms[0], scope, armPath)
		} else {
			built = b.buildMerged(g.arms, scope, armPath)
		}
		if built == nil {
			return nil
		}
		node.Arms = append(node.Arms, built)
	}
	return node
}

// buildSingle compiles one arm that owns its shape outright: introduces
// the attribute-declared generics into a fresh child scope, applies any
// slot aliases inherited from a merged group, splits nested constructor
// patterns into chained single-arm child nodes, then compiles the body in
// the innermost scope.
func (b *Builder) buildSingle(in *armInput, scope *ir.Scope, path string) *ir.Arm {
	armScope := ir.NewScope(scope)

	declared := make(map[string]*ast.GenericParam, len(in.generics))
	for _, gp := range in.generics {
		if _, dup := declared[gp.Name]; dup {
			b.errorf(diagnostics.ErrR004, gp.Token, "generic %q declared twice in arm attribute", gp.Name)
			return nil
		}
		declared[gp.Name] = gp
	}

	built := &ir.Arm{Pattern: in.pattern, Introduced: in.generics, Captured: in.captures, Scope: armScope}

	// A slot alias binding a declared generic introduces it here with its
	// declared bound; anything else must be a capture of an ancestor
	// generic, which the resolver verifies.
	if len(in.renames) > 0 {
		built.Renames = make(map[string]string, len(in.renames))
		for _, rb := range in.renames {
			built.Renames[rb.slot] = rb.name
			if gp, ok := declared[rb.name]; ok && gp != nil && !armScope.IntroducedHere(rb.name) {
				armScope.Introduce(rb.name, gp.Bound)
				declared[rb.name] = nil
			}
		}
	}

	// Split the pattern: the top-level shape stays on this arm, every
	// nested constructor becomes a synthetic slot generic tested by a
	// chained child node. Tests against other slots of an enclosing
	// merged pattern chain on after the arm's own.
	synth := in.synth
	flat, nested := decompose(in.pattern, &synth)
	for _, rt := range in.rest {
		nested = append(nested, chainEntries(rt.slot, rt.token, rt.pattern, &synth)...)
	}

	// A declared generic belongs to the scope of the pattern level that
	// first mentions it; anything else would leave the outer
	// implementation with an unbound parameter.
	introduce := func(s *ir.Scope, names []string) {
		for _, name := range names {
			if gp, ok := declared[name]; ok && gp != nil {
				if s.IntroducedHere(name) {
					continue
				}
				s.Introduce(name, gp.Bound)
				declared[name] = nil
			}
		}
	}
	introduce(armScope, ast.PatternNames(flat))
	built.Pattern = flat

	// Only the flat pattern's own slot generics live on the outer arm;
	// deeper slots are introduced by the chained scope that tests them.
	topSlots := make(map[string]bool)
	for _, name := range ast.PatternNames(flat) {
		topSlots[name] = true
	}
	for _, n := range nested {
		if topSlots[n.slot] {
			armScope.Introduce(n.slot, nil)
		}
	}

	// Chain the nested tests, innermost last.
	innerScope := armScope
	innerArm := built
	bodyPath := path
	for _, n := range nested {
		childScope := ir.NewScope(innerScope)
		introduce(childScope, ast.PatternNames(n.pattern))
		for _, s := range n.slots {
			childScope.Introduce(s, nil)
		}

		childNode := &ir.Node{
			Path:    bodyPath,
			Subject: &ast.Ident{Token: n.token, Value: n.slot},
			Scope:   innerScope,
		}
		childArm := &ir.Arm{Pattern: n.pattern, Scope: childScope}
		childNode.Arms = []*ir.Arm{childArm}

		innerArm.Child = childNode
		innerArm = childArm
		innerScope = childScope
		bodyPath = bodyPath + "_0"
	}

	// Generics declared but never mentioned in the pattern land on the
	// innermost scope so the resolver sees them.
	for _, gp := range in.generics {
		if declared[gp.Name] != nil {
			innerScope.Introduce(gp.Name, gp.Bound)
		}
	}

	lets, leaf, child, ok := b.buildBlock(in.body, innerScope, bodyPath)
	if !ok {
		return nil
	}
	innerArm.Lets = lets
	innerArm.Body = leaf
	innerArm.Child = child

	return built
}

// buildMerged compiles a group of arms sharing one top-level shape into a
// single arm. The shared pattern binds every slot to a neutral synthetic
// generic; a chained child node then discriminates on the first slot any
// of the arms tests with a constructor, carrying each arm's variable
// bindings as slot aliases and its other slot tests as leftover tests.
func (b *Builder) buildMerged(arms []*armInput, scope *ir.Scope, path string) *ir.Arm {
	first := arms[0].pattern.(*ast.ConstructorPattern)
	arity := len(first.Subs)

	armScope := ir.NewScope(scope)
	flat := &ast.ConstructorPattern{Token: first.Token, Shape: first.Shape}
	base := arms[0].synth
	slots := make([]string, arity)
	for i := 0; i < arity; i++ {
		slots[i] = fmt.Sprintf("_p%d", base+i)
		armScope.Introduce(slots[i], nil)
		flat.Subs = append(flat.Subs, &ast.VarPattern{Token: first.Token, Name: slots[i]})
	}
	built := &ir.Arm{Pattern: flat, Scope: armScope}

	type armParts struct {
		in    *armInput
		tests map[string]*restTest
		binds []slotBinding
	}
	parts := make([]*armParts, len(arms))
	var order []string
	seen := make(map[string]bool)
	note := func(slot string) {
		if !seen[slot] {
			seen[slot] = true
			order = append(order, slot)
		}
	}
	for idx, in := range arms {
		cp := in.pattern.(*ast.ConstructorPattern)
		p := &armParts{in: in, tests: make(map[string]*restTest)}
		for c, sub := range cp.Subs {
			switch s := sub.(type) {
			case *ast.VarPattern:
				p.binds = append(p.binds, slotBinding{slot: slots[c], name: s.Name, token: s.Token})
			case *ast.ConstructorPattern:
				p.tests[slots[c]] = &restTest{slot: slots[c], token: s.Token, pattern: s}
				note(slots[c])
			}
		}
		for _, rt := range in.rest {
			p.tests[rt.slot] = rt
			note(rt.slot)
		}
		parts[idx] = p
	}

	if len(order) == 0 {
		dup := arms[1]
		b.errorf(diagnostics.ErrD003, dup.token, "arm repeats the shape %q of an earlier arm and can never apply", first.Shape)
		return nil
	}
	pivot := order[0]

	children := make([]*armInput, len(parts))
	for idx, p := range parts {
		test, tested := p.tests[pivot]
		if !tested {
			b.errorf(diagnostics.ErrD003, p.in.token, "arm shares shape %q with a sibling but leaves open a slot the sibling tests; the two would apply to the same subject", first.Shape)
			return nil
		}
		child := &armInput{
			token:    test.pattern.Token,
			pattern:  test.pattern,
			generics: p.in.generics,
			captures: p.in.captures,
			body:     p.in.body,
			synth:    base + arity,
		}
		child.renames = append(append([]slotBinding(nil), p.in.renames...), p.binds...)
		for _, slot := range order {
			if slot == pivot {
				continue
			}
			if rt, tests := p.tests[slot]; tests {
				child.rest = append(child.rest, rt)
			}
		}
		children[idx] = child
	}

	subjectToken := first.Token
	child := b.buildNode(&ast.Ident{Token: subjectToken, Value: pivot}, children, armScope, path)
	if child == nil {
		return nil
	}
	built.Child = child
	return built
}

// nestedSlot records one nested constructor sub-pattern split out of an
// arm pattern: the synthetic generic standing in for the slot, the nested
// pattern itself, and that pattern's own synthetic slots.
type nestedSlot struct {
	slot    string
	token   token.Token
	pattern ast.Pattern
	slots   []string
}

// chainEntries turns a leftover slot test into nestedSlot chain entries,
// flattening the tested pattern the same way decompose flattens an arm's
// own sub-patterns.
func chainEntries(slot string, tok token.Token, pattern ast.Pattern, synth *int) []*nestedSlot {
	flat, deeper := decompose(pattern, synth)
	entry := &nestedSlot{slot: slot, token: tok, pattern: flat}
	for _, d := range deeper {
		if directSlot(flat, d.slot) {
			entry.slots = append(entry.slots, d.slot)
		}
	}
	return append([]*nestedSlot{entry}, deeper...)
}

// decompose flattens one pattern level: nested constructor sub-patterns
// are replaced by deterministic synthetic slot generics (_p0, _p1, ...
// numbered depth-first across the whole arm pattern) and returned,
// depth-first, for chaining.
func decompose(pattern ast.Pattern, synth *int) (ast.Pattern, []*nestedSlot) {
	cp, ok := pattern.(*ast.ConstructorPattern)
	if !ok || len(cp.Subs) == 0 {
		return pattern, nil
	}

	flat := &ast.ConstructorPattern{Token: cp.Token, Shape: cp.Shape}
	var nested []*nestedSlot

	for _, sub := range cp.Subs {
		inner, innerIsCtor := sub.(*ast.ConstructorPattern)
		if !innerIsCtor {
			flat.Subs = append(flat.Subs, sub)
			continue
		}

		slot := fmt.Sprintf("_p%d", *synth)
		*synth = *synth + 1
		flat.Subs = append(flat.Subs, &ast.VarPattern{Token: inner.Token, Name: slot})

		innerFlat, deeper := decompose(inner, synth)
		entry := &nestedSlot{slot: slot, token: inner.Token, pattern: innerFlat}
		for _, d := range deeper {
			if directSlot(innerFlat, d.slot) {
				entry.slots = append(entry.slots, d.slot)
			}
		}
		nested = append(nested, entry)
		nested = append(nested, deeper...)
	}

	return flat, nested
}

// directSlot reports whether name is a slot variable of this flat pattern
// level itself (as opposed to a deeper chained level).
func directSlot(flat ast.Pattern, name string) bool {
	for _, n := range ast.PatternNames(flat) {
		if n == name {
			return true
		}
	}
	return false
}

// findBranch returns the first match/if nested anywhere in expr, or nil.
func findBranch(expr ast.Expression) ast.Expression {
	switch e := expr.(type) {
	case nil:
		return nil
	case *ast.MatchExpression, *ast.IfExpression:
		return e
	case *ast.PrefixExpression:
		return findBranch(e.Right)
	case *ast.InfixExpression:
		if f := findBranch(e.Left); f != nil {
			return f
		}
		return findBranch(e.Right)
	case *ast.IndexExpression:
		if f := findBranch(e.Left); f != nil {
			return f
		}
		return findBranch(e.Index)
	case *ast.CallExpression:
		for _, arg := range e.Arguments {
			if f := findBranch(arg); f != nil {
				return f
			}
		}
	case *ast.DotCallExpression:
		if f := findBranch(e.Left); f != nil {
			return f
		}
		for _, arg := range e.Arguments {
			if f := findBranch(arg); f != nil {
				return f
			}
		}
	case *ast.ConstructorExpression:
		for _, arg := range e.Arguments {
			if f := findBranch(arg); f != nil {
				return f
			}
		}
	}
	return nil
}

func boundsEqual(a, b *ast.Bound) bool {
	ap, bp := a.PathSet(), b.PathSet()
	if len(ap) != len(bp) {
		return false
	}
	seen := make(map[string]bool, len(ap))
	for _, p := range ap {
		seen[p] = true
	}
	for _, p := range bp {
		if !seen[p] {
			return false
		}
	}
	return true
}
