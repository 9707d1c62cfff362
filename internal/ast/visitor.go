package ast

// Visitor is implemented by AST walkers (the prettyprinter, primarily).
type Visitor interface {
	VisitFunctionDef(fd *FunctionDef)
	VisitBlock(b *Block)
	VisitLetStatement(ls *LetStatement)
	VisitExpressionStatement(es *ExpressionStatement)

	VisitIdent(i *Ident)
	VisitIntegerLiteral(il *IntegerLiteral)
	VisitBooleanLiteral(bl *BooleanLiteral)
	VisitPrefixExpression(pe *PrefixExpression)
	VisitInfixExpression(ie *InfixExpression)
	VisitIndexExpression(ie *IndexExpression)
	VisitCallExpression(ce *CallExpression)
	VisitDotCallExpression(dc *DotCallExpression)
	VisitConstructorExpression(ce *ConstructorExpression)
	VisitIfExpression(ie *IfExpression)
	VisitMatchExpression(me *MatchExpression)

	VisitVarPattern(vp *VarPattern)
	VisitConstructorPattern(cp *ConstructorPattern)
}
