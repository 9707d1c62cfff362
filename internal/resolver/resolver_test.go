package resolver_test

import (
	"testing"

	"github.com/typelang/typc/internal/config"
	"github.com/typelang/typc/internal/decision"
	"github.com/typelang/typc/internal/diagnostics"
	"github.com/typelang/typc/internal/lexer"
	"github.com/typelang/typc/internal/parser"
	"github.com/typelang/typc/internal/pipeline"
	"github.com/typelang/typc/internal/resolver"
)

func resolve(t *testing.T, input string) *pipeline.PipelineContext {
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
	return ctx
}

// expectResolverError asserts that an error with the given code is produced.
func expectResolverError(t *testing.T, input string, code diagnostics.ErrorCode) {
	t.Helper()
	ctx := resolve(t, input)
	if !ctx.HasErrors() {
		t.Fatalf("expected error %s, got none", code)
	}
	for _, err := range ctx.Errors {
		if err.Code == code {
			return
		}
	}
	t.Fatalf("expected error %s, got %s: %s", code, ctx.Errors[0].Code, ctx.Errors[0].Message)
}

func expectNoResolverErrors(t *testing.T, input string) {
	t.Helper()
	ctx := resolve(t, input)
	if ctx.HasErrors() {
		t.Fatalf("expected no errors, got %s: %s", ctx.Errors[0].Code, ctx.Errors[0].Message)
	}
}

func TestR001_UnknownGenericInBody(t *testing.T) {
	expectResolverError(t, "fn F<n>() -> _ { n + q }", diagnostics.ErrR001)
}

func TestR001_UnknownGenericInLet(t *testing.T) {
	expectResolverError(t, "fn F<n>() -> _ { let x = q; n }", diagnostics.ErrR001)
}

func TestR002_SiblingArmNameIsNotACapture(t *testing.T) {
	// h is introduced by the first arm; the second arm's scope is a
	// sibling, so reusing h there is rejected.
	expectResolverError(t, `fn F<l>() -> _ {
	match l {
		#[generics(h, t)]
		Cons::<h, t> => h,
		Box::<h> => h,
	}
}`, diagnostics.ErrR002)
}

func TestR002_ExplicitCaptureOfUnknown(t *testing.T) {
	expectResolverError(t, `fn F<l>() -> _ {
	match l {
		#[capture(q)]
		Cons::<q, Nil> => q,
	}
}`, diagnostics.ErrR002)
}

func TestCaptureFromSignatureIsAllowed(t *testing.T) {
	// g comes from the function signature, a strict ancestor of the arm.
	expectNoResolverErrors(t, `fn Contains<g, l>() -> _ {
	match l {
		#[generics(t_rest)]
		#[capture(g)]
		Cons::<g, t_rest> => True,
	}
}`)
}

func TestCaptureFromOuterArmIsAllowed(t *testing.T) {
	expectNoResolverErrors(t, `fn F<a, b>() -> _ {
	match a {
		#[generics(x, t)]
		Cons::<x, t> => match b {
			#[generics(u)]
			#[capture(x)]
			Cons::<x, u> => True,
			Nil => False,
		},
		Nil => False,
	}
}`)
}

func TestR003_ReturnBoundMismatch(t *testing.T) {
	// A comparison provides Bool, not Unsigned.
	expectResolverError(t, "fn F<n: Unsigned>() -> Unsigned { n == 0u }", diagnostics.ErrR003)
}

func TestR003_LetBoundMismatch(t *testing.T) {
	expectResolverError(t, "fn F<n: Unsigned>() -> _ { let b: Bool = n + 1u; b }", diagnostics.ErrR003)
}

func TestR003_ConditionMustBeBool(t *testing.T) {
	expectResolverError(t, "fn F<n: Unsigned>() -> _ { if n { A } else { B } }", diagnostics.ErrR003)
}

func TestR003_IncompatibleIfBranchBounds(t *testing.T) {
	// The consequence provides Bool, the alternative Unsigned; a single
	// declared return bound cannot accept both.
	expectResolverError(t, "fn F<n: Unsigned>() -> Unsigned { if n == 0u { true } else { n } }", diagnostics.ErrR003)
}

func TestR003_HoistedLetBranchBoundMismatch(t *testing.T) {
	// Every branch of a hoisted initializer must satisfy the binding's
	// declared bound.
	expectResolverError(t, `fn F<n: Unsigned, b>() -> _ {
	let m: Unsigned = match b {
		True => true,
		False => n,
	};
	m
}`, diagnostics.ErrR003)
}

func TestHoistedLetBoundFlowsToUses(t *testing.T) {
	expectNoResolverErrors(t, `fn F<n: Unsigned>() -> Unsigned {
	let m: Unsigned = if n < 2u { 0u } else { n };
	m + m
}`)
}

func TestR003_CallArity(t *testing.T) {
	expectResolverError(t, `fn G<n: Unsigned>() -> Unsigned { n }
fn F<m: Unsigned>() -> Unsigned { G(m, m) }`, diagnostics.ErrR003)
}

func TestR004_ArmRebindsWithDifferentBound(t *testing.T) {
	expectResolverError(t, `fn F<n: Unsigned, l>() -> _ {
	match l {
		#[generics(n: Bool)]
		Box::<n> => n,
	}
}`, diagnostics.ErrR004)
}

func TestRebindWithSameBoundIsAllowed(t *testing.T) {
	expectNoResolverErrors(t, `fn F<n: Unsigned, l>() -> _ {
	match l {
		#[generics(n: Unsigned)]
		Box::<n> => n,
	}
}`)
}

func TestArithmeticKeepsLeftBound(t *testing.T) {
	expectNoResolverErrors(t, "fn F<n: Unsigned>(m: Unsigned) -> Unsigned { n + m * 2u }")
}

func TestComparisonProvidesBool(t *testing.T) {
	expectNoResolverErrors(t, "fn F<n: Unsigned>(m: Unsigned) -> Bool { n < m }")
}

func TestUnconstrainedReturnAcceptsAnything(t *testing.T) {
	expectNoResolverErrors(t, "fn F<n: Unsigned>() -> _ { n == 0u }")
}

func TestCalleeReturnBoundFlowsToCaller(t *testing.T) {
	expectNoResolverErrors(t, `fn G<n: Unsigned>() -> Unsigned { n }
fn F<m: Unsigned>() -> Unsigned { G(m) }`)
}

func TestUnknownCalleeIsAllowed(t *testing.T) {
	// Host environments may provide declarations the source never
	// defines; their results carry no bound knowledge.
	expectNoResolverErrors(t, "fn F<m>() -> _ { External(m) }")
}

func TestMarkerResultHasNoBound(t *testing.T) {
	expectResolverError(t, "fn F() -> Unsigned { Marker }", diagnostics.ErrR003)
}
