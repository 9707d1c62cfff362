// Package prettyprinter renders ASTs back to text: CodePrinter produces
// canonical source, TreePrinter produces a position-free structural dump
// used to compare parse results.
package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/typelang/typc/internal/ast"
)

// Operator precedence (higher = binds tighter); mirrors the parser.
var operatorPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"&":  4,
	"==": 5,
	"<":  6,
	">":  6,
	"<=": 6,
	">=": 6,
	"+":  7,
	"-":  7,
	"*":  8,
	"/":  8,
	"%":  8,
}

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10
}

// CodePrinter renders an AST as canonical source text.
type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders a sequence of function definitions.
func (p *CodePrinter) Print(fns []*ast.FunctionDef) string {
	for i, fn := range fns {
		if i > 0 {
			p.buf.WriteString("\n")
		}
		fn.Accept(p)
	}
	return p.buf.String()
}

// PrintExpression renders a single expression.
func (p *CodePrinter) PrintExpression(expr ast.Expression) string {
	expr.Accept(p)
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeIndent() {
	p.buf.WriteString(strings.Repeat("    ", p.indent))
}

func (p *CodePrinter) writeBound(bound *ast.Bound) {
	if bound == nil || bound.IsAny() {
		p.write("_")
		return
	}
	p.write(strings.Join(bound.PathSet(), " + "))
}

func (p *CodePrinter) VisitFunctionDef(fd *ast.FunctionDef) {
	p.write("fn ")
	p.write(fd.Name)

	if len(fd.Generics) > 0 {
		p.write("<")
		for i, gp := range fd.Generics {
			if i > 0 {
				p.write(", ")
			}
			p.write(gp.Name)
			if gp.Bound != nil && !gp.Bound.IsAny() {
				p.write(": ")
				p.writeBound(gp.Bound)
			}
		}
		p.write(">")
	}

	p.write("(")
	for i, param := range fd.Params {
		if i > 0 {
			p.write(", ")
		}
		param.Pattern.Accept(p)
		p.write(": ")
		p.writeBound(param.Bound)
	}
	p.write(")")

	if fd.Return != nil {
		p.write(" -> ")
		p.writeBound(fd.Return)
	}

	p.write(" ")
	fd.Body.Accept(p)
	p.write("\n")
}

func (p *CodePrinter) VisitBlock(b *ast.Block) {
	p.write("{\n")
	p.indent++
	for _, stmt := range b.Statements {
		p.writeIndent()
		stmt.Accept(p)
		p.write("\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitLetStatement(ls *ast.LetStatement) {
	p.write("let ")
	p.write(ls.Name)
	if ls.Bound != nil {
		p.write(": ")
		p.writeBound(ls.Bound)
	}
	p.write(" = ")
	ls.Value.Accept(p)
	p.write(";")
}

func (p *CodePrinter) VisitExpressionStatement(es *ast.ExpressionStatement) {
	es.Expression.Accept(p)
}

func (p *CodePrinter) VisitIdent(i *ast.Ident) {
	p.write(i.Value)
}

func (p *CodePrinter) VisitIntegerLiteral(il *ast.IntegerLiteral) {
	if il.Negative {
		p.write("-")
	}
	p.write(il.Value.String())
	if il.Unsigned {
		p.write("u")
	} else {
		p.write("i")
	}
}

func (p *CodePrinter) VisitBooleanLiteral(bl *ast.BooleanLiteral) {
	if bl.Value {
		p.write("true")
	} else {
		p.write("false")
	}
}

func (p *CodePrinter) VisitPrefixExpression(pe *ast.PrefixExpression) {
	p.write(pe.Operator)
	p.printOperand(pe.Right, 9)
}

func (p *CodePrinter) VisitInfixExpression(ie *ast.InfixExpression) {
	prec := getPrecedence(ie.Operator)
	p.printOperand(ie.Left, prec)
	p.write(" ")
	p.write(ie.Operator)
	p.write(" ")
	// Operators are left-associative: an equal-precedence right child
	// needs parens to survive a round trip.
	p.printOperand(ie.Right, prec+1)
}

func (p *CodePrinter) printOperand(expr ast.Expression, minPrec int) {
	if inner, ok := expr.(*ast.InfixExpression); ok && getPrecedence(inner.Operator) < minPrec {
		p.write("(")
		expr.Accept(p)
		p.write(")")
		return
	}
	expr.Accept(p)
}

func (p *CodePrinter) VisitIndexExpression(ie *ast.IndexExpression) {
	p.printOperand(ie.Left, 9)
	p.write("[")
	ie.Index.Accept(p)
	p.write("]")
}

func (p *CodePrinter) VisitCallExpression(ce *ast.CallExpression) {
	p.write(ce.Function)
	p.write("(")
	p.printList(ce.Arguments)
	p.write(")")
}

func (p *CodePrinter) VisitDotCallExpression(dc *ast.DotCallExpression) {
	p.printOperand(dc.Left, 9)
	p.write(".")
	p.write(dc.Method)
	p.write("(")
	p.printList(dc.Arguments)
	p.write(")")
}

func (p *CodePrinter) VisitConstructorExpression(ce *ast.ConstructorExpression) {
	p.write(ce.Shape)
	p.write("::<")
	p.printList(ce.Arguments)
	p.write(">")
}

func (p *CodePrinter) printList(exprs []ast.Expression) {
	for i, expr := range exprs {
		if i > 0 {
			p.write(", ")
		}
		expr.Accept(p)
	}
}

func (p *CodePrinter) VisitIfExpression(ie *ast.IfExpression) {
	p.write("if ")
	ie.Condition.Accept(p)
	p.write(" ")
	ie.Consequence.Accept(p)
	p.write(" else ")
	ie.Alternative.Accept(p)
}

func (p *CodePrinter) VisitMatchExpression(me *ast.MatchExpression) {
	p.write("match ")
	me.Subject.Accept(p)
	p.write(" {\n")
	p.indent++
	for _, arm := range me.Arms {
		if len(arm.Generics) > 0 {
			p.writeIndent()
			p.write("#[generics(")
			for i, gp := range arm.Generics {
				if i > 0 {
					p.write(", ")
				}
				p.write(gp.Name)
				if gp.Bound != nil && !gp.Bound.IsAny() {
					p.write(": ")
					p.writeBound(gp.Bound)
				}
			}
			p.write(")]\n")
		}
		if len(arm.Captures) > 0 {
			p.writeIndent()
			p.write("#[capture(")
			for i, c := range arm.Captures {
				if i > 0 {
					p.write(", ")
				}
				p.write(c.Value)
			}
			p.write(")]\n")
		}
		p.writeIndent()
		arm.Pattern.Accept(p)
		p.write(" => ")
		arm.Body.Accept(p)
		p.write(",\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitVarPattern(vp *ast.VarPattern) {
	p.write(vp.Name)
}

func (p *CodePrinter) VisitConstructorPattern(cp *ast.ConstructorPattern) {
	p.write(cp.Shape)
	if len(cp.Subs) == 0 {
		return
	}
	p.write("::<")
	for i, sub := range cp.Subs {
		if i > 0 {
			p.write(", ")
		}
		sub.Accept(p)
	}
	p.write(">")
}
