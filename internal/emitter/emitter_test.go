package emitter_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/typelang/typc/internal/config"
	"github.com/typelang/typc/internal/decision"
	"github.com/typelang/typc/internal/emitter"
	"github.com/typelang/typc/internal/lexer"
	"github.com/typelang/typc/internal/parser"
	"github.com/typelang/typc/internal/pipeline"
	"github.com/typelang/typc/internal/resolver"
)

func emit(t *testing.T, input string, cfg *config.Config) string {
	t.Helper()
	ctx := pipeline.NewPipelineContext(input)
	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		decision.NewBuilderProcessor(cfg.Names),
		&resolver.ResolverProcessor{},
		emitter.NewEmitterProcessor(cfg),
	).Run(ctx)

	if ctx.HasErrors() {
		t.Fatalf("pipeline failed: %s", ctx.Errors[0].Error())
	}
	return ctx.Output
}

func assertContains(t *testing.T, output string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q.\noutput:\n%s", want, output)
		}
	}
}

func TestEmitLeafFunction(t *testing.T) {
	output := emit(t, "fn Double<n: Unsigned>() -> Unsigned { n + n }", config.Default())

	assertContains(t, output,
		"pub trait Double<n>",
		"n: Unsigned,",
		"type Output;",
		"pub type DoubleOp<n> = <() as Double<n>>::Output;",
		"impl<n> Double<n> for ()",
		"n: Add<n>,",
		"type Output = <n as Add<n>>::Output;",
	)
}

func TestEmitLiteralEncodings(t *testing.T) {
	output := emit(t, "fn Consts() -> _ { Pack::<3u, -2i, 0u, 0i> }", config.Default())

	assertContains(t, output,
		"Pack<UInt<UInt<UTerm, B1>, B1>, NInt<UInt<UInt<UTerm, B1>, B0>>, UTerm, Z0>",
	)
}

func TestEmitMatchSteps(t *testing.T) {
	output := emit(t, `fn Next<s>() -> _ {
	match s {
		A => B,
		B => C,
	}
}`, config.Default())

	assertContains(t, output,
		"pub trait Next<s> {",
		"(): __Next::Step0<s, s>,",
		"type Output = <() as __Next::Step0<s, s>>::Output;",
		"#[allow(non_snake_case)]",
		"mod __Next {",
		"use super::*;",
		"pub trait Step0<s, __subject> {",
		"impl Step0<A, A> for () {",
		"type Output = B;",
		"impl Step0<B, B> for () {",
		"type Output = C;",
	)
}

func TestEmitConditional(t *testing.T) {
	output := emit(t, "fn F<n: Unsigned>() -> Unsigned { if n == 0u { 1u } else { n } }", config.Default())

	assertContains(t, output,
		"n: IsEqual<UTerm>,",
		"(): __F::Step0<n, <n as IsEqual<UTerm>>::Output>,",
		"impl<n> Step0<n, True> for ()",
		"type Output = UInt<UTerm, B1>;",
		"impl<n> Step0<n, False> for ()",
		"type Output = n;",
	)
}

func TestEmitIntroducedGenericsAndForwardedBounds(t *testing.T) {
	output := emit(t, `fn Head<l>() -> _ {
	match l {
		#[generics(h: Unsigned, t)]
		Cons::<h, t> => h,
	}
}`, config.Default())

	assertContains(t, output,
		"pub trait Step0<l, __subject> {",
		"impl<h, t> Step0<Cons<h, t>, Cons<h, t>> for ()",
		"h: Unsigned,",
		"type Output = h;",
	)
}

func TestEmitStructuralRecursion(t *testing.T) {
	output := emit(t, `fn Last<l>() -> _ {
	match l {
		#[generics(x)]
		One::<x> => x,
		#[generics(h, t)]
		Cons::<h, t> => Last(t),
	}
}`, config.Default())

	assertContains(t, output,
		"impl<x> Step0<One<x>, One<x>> for () {",
		"type Output = x;",
		"impl<h, t> Step0<Cons<h, t>, Cons<h, t>> for ()",
		"(): Last<t>,",
		"type Output = <() as Last<t>>::Output;",
	)
}

// Arms sharing a top-level shape emit exactly one specialization of the
// step trait for that shape; the per-arm sub-tests move into a chained
// step whose heads differ. Two sibling specializations with unifiable
// heads would be rejected by the host's coherence check.
func TestEmitSharedShapeMerge(t *testing.T) {
	output := emit(t, `fn Tail<l>() -> _ {
	match l {
		#[generics(h)]
		Cons::<h, Nil> => Nil,
		#[generics(h2, x, t)]
		Cons::<h2, Cons::<x, t>> => Cons::<x, t>,
	}
}`, config.Default())

	assertContains(t, output,
		"impl<_p0, _p1> Step0<Cons<_p0, _p1>, Cons<_p0, _p1>> for ()",
		"(): Step0_0<Cons<_p0, _p1>, _p0, _p1, _p1>,",
		"pub trait Step0_0<l, _p0, _p1, __subject> {",
		"impl<l, h> Step0_0<l, h, Nil, Nil> for () {",
		"type Output = Nil;",
		"impl<l, h2, x, t> Step0_0<l, h2, Cons<x, t>, Cons<x, t>> for () {",
		"type Output = Cons<x, t>;",
	)

	if got := strings.Count(output, "Step0<Cons"); got != 1 {
		t.Errorf("expected exactly one Step0 specialization for Cons, found %d.\noutput:\n%s", got, output)
	}
}

// A branching let initializer becomes its own step; the binding
// substitutes as the step's output projection everywhere it is read.
func TestEmitLetBranchHoisting(t *testing.T) {
	output := emit(t, `fn F<n: Unsigned>() -> Unsigned {
	let m: Unsigned = if n < 2u { 0u } else { n };
	m + m
}`, config.Default())

	assertContains(t, output,
		"n: IsLess<UInt<UInt<UTerm, B1>, B0>>,",
		"(): __F::Step0_l0<n, <n as IsLess<UInt<UInt<UTerm, B1>, B0>>>::Output>,",
		"pub trait Step0_l0<n, __subject> {",
		"impl<n> Step0_l0<n, True> for ()",
		"type Output = UTerm;",
		"impl<n> Step0_l0<n, False> for ()",
		"type Output = n;",
		" as Add<<() as __F::Step0_l0<",
	)
}

func TestEmitLetSubstitution(t *testing.T) {
	output := emit(t, `fn F<n: Unsigned>() -> Unsigned {
	let m = n + 1u;
	m * m
}`, config.Default())

	assertContains(t, output,
		"n: Add<UInt<UTerm, B1>>,",
		"<n as Add<UInt<UTerm, B1>>>::Output: Mul<<n as Add<UInt<UTerm, B1>>>::Output>,",
		"type Output = <<n as Add<UInt<UTerm, B1>>>::Output as Mul<<n as Add<UInt<UTerm, B1>>>::Output>>::Output;",
	)
}

func TestEmitDotCallAndIndex(t *testing.T) {
	output := emit(t, "fn F<a, b>() -> _ { a.Combine(b)[0u] }", config.Default())

	assertContains(t, output,
		"a: Combine<b>,",
		"<a as Combine<b>>::Output: Index<UTerm>,",
		"type Output = <<a as Combine<b>>::Output as Index<UTerm>>::Output;",
	)
}

func TestEmitConstructorParamSpecializesSlot(t *testing.T) {
	output := emit(t, "fn Fst(Pair::<x, y>: _) -> _ { x }", config.Default())

	assertContains(t, output,
		"pub trait Fst<_a0> {",
		"pub type FstOp<_a0> = <() as Fst<_a0>>::Output;",
		"impl<x, y> Fst<Pair<x, y>> for () {",
		"type Output = x;",
	)
}

func TestEmitPrelude(t *testing.T) {
	cfg := config.Default()
	cfg.Prelude = []string{"use crate::num::*;", "use crate::bool::*;"}

	output := emit(t, "fn Id<v>(x: _) -> _ { x }", cfg)

	if !strings.HasPrefix(output, "use crate::num::*;\nuse crate::bool::*;\n\n") {
		t.Fatalf("prelude missing from output head:\n%s", output)
	}
}

func TestEmitRenamedCollaborators(t *testing.T) {
	cfg, err := config.Parse([]byte("names:\n  uterm: T0\n  uint: Bits\n  b1: I\n"))
	if err != nil {
		t.Fatal(err)
	}

	output := emit(t, "fn One() -> _ { 1u }", cfg)
	assertContains(t, output, "type Output = Bits<T0, I>;")
}

// Fixtures pair a source file with the lines its output must contain.
func TestEmitFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no fixtures found")
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			archive := txtar.Parse(data)

			var source, contains string
			for _, file := range archive.Files {
				switch file.Name {
				case "source.typ":
					source = string(file.Data)
				case "contains":
					contains = string(file.Data)
				}
			}
			if source == "" || contains == "" {
				t.Fatal("fixture needs source.typ and contains sections")
			}

			output := emit(t, source, config.Default())
			for _, line := range strings.Split(strings.TrimSpace(contains), "\n") {
				assertContains(t, output, strings.TrimSpace(line))
			}
		})
	}
}
