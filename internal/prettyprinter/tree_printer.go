package prettyprinter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/typelang/typc/internal/ast"
)

// TreePrinter dumps an AST's structure one node per line, ignoring token
// positions. Two parses of equivalent source produce identical dumps, so
// tests compare these instead of walking nodes by hand.
type TreePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

func (p *TreePrinter) Print(fns []*ast.FunctionDef) string {
	for _, fn := range fns {
		fn.Accept(p)
	}
	return p.buf.String()
}

func (p *TreePrinter) PrintExpression(expr ast.Expression) string {
	expr.Accept(p)
	return p.buf.String()
}

func (p *TreePrinter) node(format string, args ...interface{}) {
	p.buf.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *TreePrinter) nested(fn func()) {
	p.indent++
	fn()
	p.indent--
}

func boundText(bound *ast.Bound) string {
	if bound == nil {
		return "<none>"
	}
	if bound.IsAny() {
		return "_"
	}
	return strings.Join(bound.PathSet(), "+")
}

func (p *TreePrinter) VisitFunctionDef(fd *ast.FunctionDef) {
	p.node("fn %s return=%s", fd.Name, boundText(fd.Return))
	p.nested(func() {
		for _, gp := range fd.Generics {
			p.node("generic %s: %s", gp.Name, boundText(gp.Bound))
		}
		for _, param := range fd.Params {
			p.node("param: %s", boundText(param.Bound))
			p.nested(func() { param.Pattern.Accept(p) })
		}
		fd.Body.Accept(p)
	})
}

func (p *TreePrinter) VisitBlock(b *ast.Block) {
	p.node("block")
	p.nested(func() {
		for _, stmt := range b.Statements {
			stmt.Accept(p)
		}
	})
}

func (p *TreePrinter) VisitLetStatement(ls *ast.LetStatement) {
	p.node("let %s: %s", ls.Name, boundText(ls.Bound))
	p.nested(func() { ls.Value.Accept(p) })
}

func (p *TreePrinter) VisitExpressionStatement(es *ast.ExpressionStatement) {
	es.Expression.Accept(p)
}

func (p *TreePrinter) VisitIdent(i *ast.Ident) {
	p.node("ident %s", i.Value)
}

func (p *TreePrinter) VisitIntegerLiteral(il *ast.IntegerLiteral) {
	sign := ""
	if il.Negative {
		sign = "-"
	}
	suffix := "i"
	if il.Unsigned {
		suffix = "u"
	}
	p.node("int %s%s%s", sign, il.Value.String(), suffix)
}

func (p *TreePrinter) VisitBooleanLiteral(bl *ast.BooleanLiteral) {
	p.node("bool %v", bl.Value)
}

func (p *TreePrinter) VisitPrefixExpression(pe *ast.PrefixExpression) {
	p.node("prefix %s", pe.Operator)
	p.nested(func() { pe.Right.Accept(p) })
}

func (p *TreePrinter) VisitInfixExpression(ie *ast.InfixExpression) {
	p.node("infix %s", ie.Operator)
	p.nested(func() {
		ie.Left.Accept(p)
		ie.Right.Accept(p)
	})
}

func (p *TreePrinter) VisitIndexExpression(ie *ast.IndexExpression) {
	p.node("index")
	p.nested(func() {
		ie.Left.Accept(p)
		ie.Index.Accept(p)
	})
}

func (p *TreePrinter) VisitCallExpression(ce *ast.CallExpression) {
	p.node("call %s", ce.Function)
	p.nested(func() {
		for _, arg := range ce.Arguments {
			arg.Accept(p)
		}
	})
}

func (p *TreePrinter) VisitDotCallExpression(dc *ast.DotCallExpression) {
	p.node("dotcall %s", dc.Method)
	p.nested(func() {
		dc.Left.Accept(p)
		for _, arg := range dc.Arguments {
			arg.Accept(p)
		}
	})
}

func (p *TreePrinter) VisitConstructorExpression(ce *ast.ConstructorExpression) {
	p.node("constructor %s", ce.Shape)
	p.nested(func() {
		for _, arg := range ce.Arguments {
			arg.Accept(p)
		}
	})
}

func (p *TreePrinter) VisitIfExpression(ie *ast.IfExpression) {
	p.node("if")
	p.nested(func() {
		ie.Condition.Accept(p)
		ie.Consequence.Accept(p)
		ie.Alternative.Accept(p)
	})
}

func (p *TreePrinter) VisitMatchExpression(me *ast.MatchExpression) {
	p.node("match")
	p.nested(func() {
		me.Subject.Accept(p)
		for _, arm := range me.Arms {
			var parts []string
			for _, gp := range arm.Generics {
				parts = append(parts, fmt.Sprintf("%s: %s", gp.Name, boundText(gp.Bound)))
			}
			var captures []string
			for _, c := range arm.Captures {
				captures = append(captures, c.Value)
			}
			p.node("arm generics=[%s] captures=[%s]",
				strings.Join(parts, ", "), strings.Join(captures, ", "))
			p.nested(func() {
				arm.Pattern.Accept(p)
				arm.Body.Accept(p)
			})
		}
	})
}

func (p *TreePrinter) VisitVarPattern(vp *ast.VarPattern) {
	p.node("pat-var %s", vp.Name)
}

func (p *TreePrinter) VisitConstructorPattern(cp *ast.ConstructorPattern) {
	p.node("pat-ctor %s", cp.Shape)
	p.nested(func() {
		for _, sub := range cp.Subs {
			sub.Accept(p)
		}
	})
}
