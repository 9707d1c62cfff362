package resolver

import (
	"github.com/typelang/typc/internal/ast"
	"github.com/typelang/typc/internal/config"
	"github.com/typelang/typc/internal/diagnostics"
	"github.com/typelang/typc/internal/ir"
	"github.com/typelang/typc/internal/lowering"
)

// infer derives the bound paths an expression is known to satisfy. An
// empty result means nothing is known, which any `_` bound accepts.
// Unknown references are reported as a side effect.
func (r *Resolver) infer(expr ast.Expression, scope *ir.Scope, env *letEnv) []string {
	switch e := expr.(type) {
	case *ast.Ident:
		if e.IsUpper() {
			// Marker reference; no bound knowledge.
			return nil
		}
		if bound, ok := env.lookup(e.Value); ok {
			return bound
		}
		if bound, _, ok := scope.Lookup(e.Value); ok {
			return bound.PathSet()
		}
		r.errorf(diagnostics.ErrR001, e.Token, "unknown generic %q", e.Value)
		return nil

	case *ast.IntegerLiteral:
		if e.Unsigned {
			return []string{config.UnsignedBound}
		}
		return []string{config.IntegerBound}

	case *ast.BooleanLiteral:
		return []string{config.BoolBound}

	case *ast.PrefixExpression:
		operand := r.infer(e.Right, scope, env)
		return lowering.UnaryResultBound(e.Operator, operand)

	case *ast.InfixExpression:
		left := r.infer(e.Left, scope, env)
		r.infer(e.Right, scope, env)
		return lowering.BinaryResultBound(e.Operator, left)

	case *ast.IndexExpression:
		r.infer(e.Left, scope, env)
		r.infer(e.Index, scope, env)
		return nil

	case *ast.CallExpression:
		for _, arg := range e.Arguments {
			r.infer(arg, scope, env)
		}
		callee := r.ctx.Function(e.Function)
		if callee == nil {
			// Unknown functions are allowed: the host environment may
			// provide the declaration. Their result bound is unknown.
			return nil
		}
		if want := len(ir.EntryParams(callee)); want != len(e.Arguments) {
			r.errorf(diagnostics.ErrR003, e.Token,
				"%s takes %d arguments, got %d", e.Function, want, len(e.Arguments))
		}
		if callee.Return != nil {
			return callee.Return.PathSet()
		}
		return nil

	case *ast.DotCallExpression:
		r.infer(e.Left, scope, env)
		for _, arg := range e.Arguments {
			r.infer(arg, scope, env)
		}
		return nil

	case *ast.ConstructorExpression:
		for _, arg := range e.Arguments {
			r.infer(arg, scope, env)
		}
		return nil
	}

	return nil
}
