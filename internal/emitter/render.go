package emitter

import (
	"fmt"
	"strings"

	"github.com/typelang/typc/internal/ast"
	"github.com/typelang/typc/internal/config"
	"github.com/typelang/typc/internal/diagnostics"
	"github.com/typelang/typc/internal/lowering"
	"github.com/typelang/typc/internal/token"
)

// renderer turns expressions into type-level text, collecting the trait
// obligations each application entails. env substitutes generic and
// let-binding names; unmapped names render as themselves.
type renderer struct {
	names  config.Names
	errors []*diagnostics.DiagnosticError
}

func (rn *renderer) errorf(tok token.Token, format string, args ...interface{}) {
	rn.errors = append(rn.errors, diagnostics.NewError(diagnostics.ErrE001, tok, format, args...))
}

type env map[string]string

func (e env) resolve(name string) string {
	if mapped, ok := e[name]; ok {
		return mapped
	}
	return name
}

func (e env) extend() env {
	child := make(env, len(e))
	for k, v := range e {
		child[k] = v
	}
	return child
}

// render returns the type text of expr plus the obligations its operator
// and call applications add to the enclosing where-clause.
func (rn *renderer) render(expr ast.Expression, e env) (string, []string) {
	switch x := expr.(type) {
	case *ast.Ident:
		if x.IsUpper() {
			return x.Value, nil
		}
		return e.resolve(x.Value), nil

	case *ast.IntegerLiteral:
		if x.Unsigned {
			return lowering.EncodeUnsigned(x.Value, rn.names), nil
		}
		return lowering.EncodeInteger(x.Value, x.Negative, rn.names), nil

	case *ast.BooleanLiteral:
		if x.Value {
			return rn.names.True, nil
		}
		return rn.names.False, nil

	case *ast.PrefixExpression:
		operand, obls := rn.render(x.Right, e)
		cap, ok := lowering.UnaryCapability(x.Operator)
		if !ok {
			rn.errorf(x.Token, "operator %q has no capability mapping", x.Operator)
			return "", obls
		}
		obls = append(obls, fmt.Sprintf("%s: %s", operand, cap.Trait))
		return fmt.Sprintf("<%s as %s>::Output", operand, cap.Trait), obls

	case *ast.InfixExpression:
		left, obls := rn.render(x.Left, e)
		right, rightObls := rn.render(x.Right, e)
		obls = append(obls, rightObls...)
		cap, ok := lowering.BinaryCapability(x.Operator)
		if !ok {
			rn.errorf(x.Token, "operator %q has no capability mapping", x.Operator)
			return "", obls
		}
		obls = append(obls, fmt.Sprintf("%s: %s<%s>", left, cap.Trait, right))
		return fmt.Sprintf("<%s as %s<%s>>::Output", left, cap.Trait, right), obls

	case *ast.IndexExpression:
		left, obls := rn.render(x.Left, e)
		index, indexObls := rn.render(x.Index, e)
		obls = append(obls, indexObls...)
		obls = append(obls, fmt.Sprintf("%s: %s<%s>", left, lowering.IndexCapability, index))
		return fmt.Sprintf("<%s as %s<%s>>::Output", left, lowering.IndexCapability, index), obls

	case *ast.CallExpression:
		args, obls := rn.renderList(x.Arguments, e)
		target := x.Function
		if len(args) > 0 {
			target = fmt.Sprintf("%s<%s>", x.Function, strings.Join(args, ", "))
		}
		obls = append(obls, fmt.Sprintf("(): %s", target))
		return fmt.Sprintf("<() as %s>::Output", target), obls

	case *ast.DotCallExpression:
		left, obls := rn.render(x.Left, e)
		args, argObls := rn.renderList(x.Arguments, e)
		obls = append(obls, argObls...)
		target := x.Method
		if len(args) > 0 {
			target = fmt.Sprintf("%s<%s>", x.Method, strings.Join(args, ", "))
		}
		obls = append(obls, fmt.Sprintf("%s: %s", left, target))
		return fmt.Sprintf("<%s as %s>::Output", left, target), obls

	case *ast.ConstructorExpression:
		args, obls := rn.renderList(x.Arguments, e)
		if len(args) == 0 {
			return x.Shape, obls
		}
		return fmt.Sprintf("%s<%s>", x.Shape, strings.Join(args, ", ")), obls
	}

	rn.errorf(expr.GetToken(), "expression cannot be rendered as a type")
	return "", nil
}

func (rn *renderer) renderList(exprs []ast.Expression, e env) ([]string, []string) {
	var rendered []string
	var obls []string
	for _, expr := range exprs {
		text, exprObls := rn.render(expr, e)
		rendered = append(rendered, text)
		obls = append(obls, exprObls...)
	}
	return rendered, obls
}

// renderPattern renders a (flat) pattern as the type an implementation
// specializes on.
func renderPattern(p ast.Pattern, e env) string {
	switch pat := p.(type) {
	case *ast.VarPattern:
		return e.resolve(pat.Name)
	case *ast.ConstructorPattern:
		if len(pat.Subs) == 0 {
			return pat.Shape
		}
		subs := make([]string, len(pat.Subs))
		for i, sub := range pat.Subs {
			subs[i] = renderPattern(sub, e)
		}
		return fmt.Sprintf("%s<%s>", pat.Shape, strings.Join(subs, ", "))
	}
	return ""
}

// dedup keeps the first occurrence of each obligation.
func dedup(obls []string) []string {
	seen := make(map[string]bool, len(obls))
	var out []string
	for _, o := range obls {
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}
