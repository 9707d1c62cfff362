package decision_test

import (
	"reflect"
	"testing"

	"github.com/typelang/typc/internal/ast"
	"github.com/typelang/typc/internal/config"
	"github.com/typelang/typc/internal/decision"
	"github.com/typelang/typc/internal/ir"
	"github.com/typelang/typc/internal/lexer"
	"github.com/typelang/typc/internal/parser"
	"github.com/typelang/typc/internal/pipeline"
	"github.com/typelang/typc/internal/resolver"
)

// term is a concrete type value: a shape applied to arguments. The
// interpreter below evaluates decision trees over terms exactly the way
// the emitted declarations resolve over types, so these tests pin the
// trees' semantics without a host compiler.
type term struct {
	shape string
	args  []term
}

func mk(shape string, args ...term) term {
	return term{shape: shape, args: args}
}

type interp struct {
	trees map[string]*ir.Tree
}

func compile(t *testing.T, input string) *interp {
	t.Helper()
	ctx := pipeline.NewPipelineContext(input)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if !ctx.HasErrors() {
		ctx = decision.NewBuilderProcessor(config.DefaultNames()).Process(ctx)
	}
	if !ctx.HasErrors() {
		ctx = (&resolver.ResolverProcessor{}).Process(ctx)
	}
	if ctx.HasErrors() {
		t.Fatalf("compile failed: %s", ctx.Errors[0].Error())
	}

	in := &interp{trees: make(map[string]*ir.Tree)}
	for _, tree := range ctx.Trees {
		in.trees[tree.Fn.Name] = tree
	}
	return in
}

func (in *interp) call(t *testing.T, name string, args ...term) term {
	t.Helper()
	result, ok := in.apply(name, args)
	if !ok {
		t.Fatalf("%s did not resolve for %v", name, args)
	}
	return result
}

func (in *interp) callFails(t *testing.T, name string, args ...term) {
	t.Helper()
	if result, ok := in.apply(name, args); ok {
		t.Fatalf("%s unexpectedly resolved to %v", name, result)
	}
}

func (in *interp) apply(name string, args []term) (term, bool) {
	tree, ok := in.trees[name]
	if !ok {
		return term{}, false
	}

	env := make(map[string]term)
	i := 0
	for _, gp := range tree.Fn.Generics {
		if i >= len(args) {
			return term{}, false
		}
		env[gp.Name] = args[i]
		i++
	}
	for _, param := range tree.Fn.Params {
		if i >= len(args) {
			return term{}, false
		}
		if !in.match(param.Pattern, args[i], env) {
			return term{}, false
		}
		i++
	}
	if i != len(args) {
		return term{}, false
	}

	return in.evalBody(tree.Lets, tree.Leaf, tree.Root, env)
}

func (in *interp) evalBody(lets []*ir.Let, leaf ast.Expression, root *ir.Node, env map[string]term) (term, bool) {
	for _, let := range lets {
		var value term
		var ok bool
		if let.Node != nil {
			value, ok = in.evalNode(let.Node, env)
		} else {
			value, ok = in.eval(let.Stmt.Value, env)
		}
		if !ok {
			return term{}, false
		}
		env[let.Stmt.Name] = value
	}
	if leaf != nil {
		return in.eval(leaf, env)
	}
	return in.evalNode(root, env)
}

// evalNode commits to the single arm whose top-level shape matches the
// subject, exactly as specialization picks exactly one implementation;
// there is no backtracking into a later arm when the subtree fails.
func (in *interp) evalNode(node *ir.Node, env map[string]term) (term, bool) {
	subject, ok := in.subjectValue(node, env)
	if !ok {
		return term{}, false
	}

	for _, arm := range node.Arms {
		armEnv := copyEnv(env)
		if !in.match(arm.Pattern, subject, armEnv) {
			continue
		}
		for slot, name := range arm.Renames {
			value, bound := armEnv[slot]
			if !bound {
				return term{}, false
			}
			if prior, seen := armEnv[name]; seen {
				if !reflect.DeepEqual(prior, value) {
					return term{}, false
				}
				continue
			}
			armEnv[name] = value
		}
		return in.evalBody(arm.Lets, arm.Body, arm.Child, armEnv)
	}
	return term{}, false
}

func (in *interp) subjectValue(node *ir.Node, env map[string]term) (term, bool) {
	if name := node.SubjectName(); name != "" {
		value, ok := env[name]
		return value, ok
	}
	return in.eval(node.Subject, env)
}

// match binds pattern placeholders in env. A placeholder already bound
// (a capture) only matches an identical term.
func (in *interp) match(pattern ast.Pattern, value term, env map[string]term) bool {
	switch pat := pattern.(type) {
	case *ast.VarPattern:
		if bound, ok := env[pat.Name]; ok {
			return reflect.DeepEqual(bound, value)
		}
		env[pat.Name] = value
		return true
	case *ast.ConstructorPattern:
		if value.shape != pat.Shape || len(value.args) != len(pat.Subs) {
			return false
		}
		for i, sub := range pat.Subs {
			if !in.match(sub, value.args[i], env) {
				return false
			}
		}
		return true
	}
	return false
}

func (in *interp) eval(expr ast.Expression, env map[string]term) (term, bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		if e.IsUpper() {
			return mk(e.Value), true
		}
		value, ok := env[e.Value]
		return value, ok
	case *ast.BooleanLiteral:
		if e.Value {
			return mk("True"), true
		}
		return mk("False"), true
	case *ast.ConstructorExpression:
		result := term{shape: e.Shape}
		for _, arg := range e.Arguments {
			value, ok := in.eval(arg, env)
			if !ok {
				return term{}, false
			}
			result.args = append(result.args, value)
		}
		return result, true
	case *ast.CallExpression:
		var args []term
		for _, arg := range e.Arguments {
			value, ok := in.eval(arg, env)
			if !ok {
				return term{}, false
			}
			args = append(args, value)
		}
		return in.apply(e.Function, args)
	}
	return term{}, false
}

func copyEnv(env map[string]term) map[string]term {
	dup := make(map[string]term, len(env))
	for k, v := range env {
		dup[k] = v
	}
	return dup
}

// A three-state cycle: each application moves one step, three return to
// the start.
func TestThreeStateCycle(t *testing.T) {
	in := compile(t, `fn Next<s>() -> _ {
	match s {
		A => B,
		B => C,
		C => A,
	}
}
fn Thrice<s>() -> _ { Next(Next(Next(s))) }`)

	if got := in.call(t, "Next", mk("A")); got.shape != "B" {
		t.Fatalf("Next(A) = %s, want B", got.shape)
	}
	if got := in.call(t, "Thrice", mk("A")); got.shape != "A" {
		t.Fatalf("Thrice(A) = %s, want A", got.shape)
	}
	in.callFails(t, "Next", mk("D"))
}

// Structural recursion over a linked shape with a distinct terminal
// shape: the single-slot terminal arm returns its slot, the recursive arm
// calls back with the tail.
func TestStructuralRecursionLast(t *testing.T) {
	in := compile(t, `fn Last<l>() -> _ {
	match l {
		#[generics(x)]
		One::<x> => x,
		#[generics(h, t)]
		Cons::<h, t> => Last(t),
	}
}`)

	list := mk("Cons", mk("X"), mk("Cons", mk("Y"), mk("One", mk("Z"))))
	if got := in.call(t, "Last", list); got.shape != "Z" {
		t.Fatalf("Last = %s, want Z", got.shape)
	}

	single := mk("One", mk("X"))
	if got := in.call(t, "Last", single); got.shape != "X" {
		t.Fatalf("Last(single) = %s, want X", got.shape)
	}

	in.callFails(t, "Last", mk("Nil"))
}

// Arms sharing a top-level shape are decided by the slot their
// sub-patterns diverge on; both bodies stay reachable and the aliased
// head slot binds per arm.
func TestSharedShapeSiblingArms(t *testing.T) {
	in := compile(t, `fn Tail<l>() -> _ {
	match l {
		#[generics(h)]
		Cons::<h, Nil> => Nil,
		#[generics(h2, x, t)]
		Cons::<h2, Cons::<x, t>> => Cons::<x, t>,
	}
}`)

	if got := in.call(t, "Tail", mk("Cons", mk("A"), mk("Nil"))); got.shape != "Nil" {
		t.Fatalf("Tail(one element) = %s, want Nil", got.shape)
	}

	rest := in.call(t, "Tail", mk("Cons", mk("A"), mk("Cons", mk("B"), mk("Nil"))))
	if !reflect.DeepEqual(rest, mk("Cons", mk("B"), mk("Nil"))) {
		t.Fatalf("Tail(two elements) = %v", rest)
	}

	in.callFails(t, "Tail", mk("Nil"))
}

// A name introduced while destructuring the first structure constrains
// the match against the second: both heads must be the same type, and
// mismatched heads simply fail to resolve.
func TestCaptureAcrossTwoStructures(t *testing.T) {
	in := compile(t, `fn SameHead<a, b>() -> _ {
	match a {
		#[generics(x, t)]
		Cons::<x, t> => match b {
			#[generics(u)]
			#[capture(x)]
			Cons::<x, u> => True,
		},
	}
}`)

	same := in.call(t, "SameHead",
		mk("Cons", mk("X"), mk("Nil")),
		mk("Cons", mk("X"), mk("Cons", mk("Y"), mk("Nil"))))
	if same.shape != "True" {
		t.Fatalf("same heads = %s, want True", same.shape)
	}

	in.callFails(t, "SameHead",
		mk("Cons", mk("X"), mk("Nil")),
		mk("Cons", mk("Y"), mk("Nil")))
}

// With every arm testing its own shape, source order carries no weight:
// the same arms in reversed order resolve identically.
func TestArmOrderIrrelevantForDistinctShapes(t *testing.T) {
	in := compile(t, `fn Fwd<s>() -> _ {
	match s {
		A => One,
		B => Two,
	}
}
fn Rev<s>() -> _ {
	match s {
		B => Two,
		A => One,
	}
}`)

	for _, subject := range []string{"A", "B"} {
		fwd := in.call(t, "Fwd", mk(subject))
		rev := in.call(t, "Rev", mk(subject))
		if fwd.shape != rev.shape {
			t.Fatalf("Fwd(%s) = %s but Rev(%s) = %s", subject, fwd.shape, subject, rev.shape)
		}
	}
}

// A hoisted branching let binds its node's output; the body result reads
// the binding like any other name.
func TestLetBranchBindsName(t *testing.T) {
	in := compile(t, `fn Flip<b>() -> _ {
	let inv = match b {
		True => False,
		False => True,
	};
	inv
}`)

	if got := in.call(t, "Flip", mk("True")); got.shape != "False" {
		t.Fatalf("Flip(True) = %s, want False", got.shape)
	}
	if got := in.call(t, "Flip", mk("False")); got.shape != "True" {
		t.Fatalf("Flip(False) = %s, want True", got.shape)
	}
	in.callFails(t, "Flip", mk("Maybe"))
}
