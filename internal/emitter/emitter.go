// Package emitter turns resolved decision trees into the declaration
// graph consumed by the host language: one public entry trait and alias
// per function, one entry implementation, and a private module of step
// traits encoding the function's decision nodes.
package emitter

import (
	"fmt"
	"strings"

	"github.com/typelang/typc/internal/ast"
	"github.com/typelang/typc/internal/config"
	"github.com/typelang/typc/internal/diagnostics"
	"github.com/typelang/typc/internal/ir"
)

type Options struct {
	Names   config.Names
	Prelude []string
}

type Emitter struct {
	opts Options
	rn   *renderer
	buf  strings.Builder
}

func New(opts Options) *Emitter {
	return &Emitter{
		opts: opts,
		rn:   &renderer{names: opts.Names},
	}
}

// Emit renders every tree into one output file. Declarations keep the
// source order of their functions.
func (em *Emitter) Emit(trees []*ir.Tree) (string, []*diagnostics.DiagnosticError) {
	for _, line := range em.opts.Prelude {
		em.line(0, "%s", line)
	}
	if len(em.opts.Prelude) > 0 {
		em.line(0, "")
	}

	for i, tree := range trees {
		if i > 0 {
			em.line(0, "")
		}
		em.emitFunction(tree)
	}

	return em.buf.String(), em.rn.errors
}

func (em *Emitter) line(indent int, format string, args ...interface{}) {
	em.buf.WriteString(strings.Repeat("    ", indent))
	fmt.Fprintf(&em.buf, format, args...)
	em.buf.WriteByte('\n')
}

func (em *Emitter) emitFunction(t *ir.Tree) {
	fn := t.Fn
	entryParams := ir.EntryParams(fn)

	em.emitEntryTrait(fn, entryParams)
	em.line(0, "")
	em.emitEntryAlias(fn, entryParams)
	em.line(0, "")
	em.emitEntryImpl(t, entryParams)

	if t.Root == nil && !hasHoisted(t.Lets) {
		return
	}
	em.line(0, "")
	em.line(0, "#[allow(non_snake_case)]")
	em.line(0, "mod __%s {", fn.Name)
	em.line(1, "use super::*;")
	// Inside the module the step traits are in scope unqualified, so the
	// bindings are re-rendered without the module qualifier.
	modEnv, _ := em.bindLets(t.Lets, env{}, "")
	for _, let := range t.Lets {
		if let.Node != nil {
			em.emitNode(let.Node, modEnv)
		}
	}
	if t.Root != nil {
		em.emitNode(t.Root, modEnv)
	}
	em.line(0, "}")
}

func hasHoisted(lets []*ir.Let) bool {
	for _, let := range lets {
		if let.Node != nil {
			return true
		}
	}
	return false
}

// emitEntryTrait writes the public capability a caller names: its
// parameters are the function's generics followed by one slot per
// argument, its where-clause carries the declared bounds.
func (em *Emitter) emitEntryTrait(fn *ast.FunctionDef, entryParams []string) {
	var preds []string
	seen := make(map[string]bool)
	addPred := func(name string, bound *ast.Bound) {
		if bound == nil || bound.IsAny() || seen[name] {
			return
		}
		seen[name] = true
		preds = append(preds, fmt.Sprintf("%s: %s", name, strings.Join(bound.PathSet(), " + ")))
	}

	for _, gp := range fn.Generics {
		addPred(gp.Name, gp.Bound)
	}
	for i, param := range fn.Params {
		if vp, ok := param.Pattern.(*ast.VarPattern); ok {
			addPred(vp.Name, param.Bound)
			continue
		}
		addPred(fmt.Sprintf("_a%d", i), param.Bound)
	}

	head := fmt.Sprintf("pub trait %s%s", fn.Name, paramList(entryParams))
	if len(preds) == 0 {
		em.line(0, "%s {", head)
	} else {
		em.line(0, "%s", head)
		em.line(0, "where")
		for _, pred := range preds {
			em.line(1, "%s,", pred)
		}
		em.line(0, "{")
	}
	em.line(1, "type Output;")
	em.line(0, "}")
}

// emitEntryAlias writes the `<Name>Op` shorthand so call sites read as
// an application instead of a projection.
func (em *Emitter) emitEntryAlias(fn *ast.FunctionDef, entryParams []string) {
	em.line(0, "pub type %sOp%s = <() as %s%s>::Output;",
		fn.Name, paramList(entryParams), fn.Name, argList(entryParams))
}

// emitEntryImpl writes the single entry implementation: argument
// constructor patterns specialize their slot, everything else stays
// generic, and the output either is the rendered leaf or defers to the
// root step trait.
func (em *Emitter) emitEntryImpl(t *ir.Tree, entryParams []string) {
	fn := t.Fn

	var implGenerics []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			implGenerics = append(implGenerics, name)
		}
	}
	for _, gp := range fn.Generics {
		add(gp.Name)
	}
	var traitArgs []string
	for _, gp := range fn.Generics {
		traitArgs = append(traitArgs, gp.Name)
	}
	for _, param := range fn.Params {
		if vp, ok := param.Pattern.(*ast.VarPattern); ok {
			add(vp.Name)
			traitArgs = append(traitArgs, vp.Name)
			continue
		}
		for _, name := range ast.PatternNames(param.Pattern) {
			add(name)
		}
		traitArgs = append(traitArgs, renderPattern(param.Pattern, env{}))
	}

	var preds []string
	for _, g := range implGenerics {
		if bound, _, ok := t.Scope.Lookup(g); ok && bound != nil && !bound.IsAny() {
			preds = append(preds, fmt.Sprintf("%s: %s", g, strings.Join(bound.PathSet(), " + ")))
		}
	}

	e, obls := em.bindLets(t.Lets, env{}, fmt.Sprintf("__%s::", fn.Name))

	var output string
	if t.Leaf != nil {
		body, bodyObls := em.rn.render(t.Leaf, e)
		obls = append(obls, bodyObls...)
		output = body
	} else {
		target, stepObls := em.invokeStep(t.Root, e, fmt.Sprintf("__%s::", fn.Name))
		obls = append(obls, stepObls...)
		obls = append(obls, fmt.Sprintf("(): %s", target))
		output = fmt.Sprintf("<() as %s>::Output", target)
	}
	preds = dedup(append(preds, obls...))

	head := fmt.Sprintf("impl%s %s<%s> for ()", paramList(implGenerics), fn.Name, strings.Join(traitArgs, ", "))
	if len(fn.Generics) == 0 && len(fn.Params) == 0 {
		head = fmt.Sprintf("impl %s for ()", fn.Name)
	}
	em.emitImplBody(0, head, preds, output)
}

// emitNode writes the step trait for one decision node plus one
// implementation per arm, then recurses into the arms' subtrees. The
// inherited environment carries let bindings from enclosing blocks so
// deeper bodies substitute their full type text.
func (em *Emitter) emitNode(node *ir.Node, inherited env) {
	visible := node.Scope.Visible()

	em.line(0, "")
	em.line(1, "pub trait %s<%s> {", stepName(node.Path), strings.Join(append(append([]string{}, visible...), "__subject"), ", "))
	em.line(2, "type Output;")
	em.line(1, "}")

	subjName := node.SubjectName()

	childEnvs := make([]env, len(node.Arms))
	for i, arm := range node.Arms {
		patType := renderPattern(arm.Pattern, env{})

		// subst rewrites the names this arm's head specializes away: the
		// subject, and slots of an enclosing merged pattern the arm
		// aliases to its own names.
		subst := env{}
		if subjName != "" {
			subst[subjName] = patType
		}
		for slot, name := range arm.Renames {
			subst[slot] = name
		}
		renderEnv := inherited.extend()
		for k, v := range subst {
			renderEnv[k] = v
		}

		var free []string
		seen := make(map[string]bool)
		for _, v := range visible {
			if v == subjName {
				continue
			}
			if _, aliased := arm.Renames[v]; aliased {
				continue
			}
			if !seen[v] {
				seen[v] = true
				free = append(free, v)
			}
		}
		for _, v := range arm.Scope.Names() {
			if !seen[v] && v != subjName {
				seen[v] = true
				free = append(free, v)
			}
		}

		var traitArgs []string
		for _, v := range visible {
			traitArgs = append(traitArgs, subst.resolve(v))
		}
		traitArgs = append(traitArgs, patType)

		var preds []string
		for _, g := range free {
			if bound, _, ok := arm.Scope.Lookup(g); ok && bound != nil && !bound.IsAny() {
				preds = append(preds, fmt.Sprintf("%s: %s", g, strings.Join(bound.PathSet(), " + ")))
			}
		}

		e, obls := em.bindLets(arm.Lets, renderEnv, "")

		// Children re-establish head substitutions positionally through
		// their own trait arguments; only let bindings flow down.
		childEnv := inherited.extend()
		for _, let := range arm.Lets {
			childEnv[let.Stmt.Name] = e[let.Stmt.Name]
		}
		childEnvs[i] = childEnv

		var output string
		if arm.Body != nil {
			body, bodyObls := em.rn.render(arm.Body, e)
			obls = append(obls, bodyObls...)
			output = body
		} else if arm.Child != nil {
			target, stepObls := em.invokeStep(arm.Child, e, "")
			obls = append(obls, stepObls...)
			obls = append(obls, fmt.Sprintf("(): %s", target))
			output = fmt.Sprintf("<() as %s>::Output", target)
		}
		preds = dedup(append(preds, obls...))

		head := fmt.Sprintf("impl%s %s<%s> for ()", paramList(free), stepName(node.Path), strings.Join(traitArgs, ", "))
		em.line(0, "")
		em.emitImplBody(1, head, preds, output)
	}

	for i, arm := range node.Arms {
		for _, let := range arm.Lets {
			if let.Node != nil {
				em.emitNode(let.Node, childEnvs[i])
			}
		}
		if arm.Child != nil {
			em.emitNode(arm.Child, childEnvs[i])
		}
	}
}

// bindLets folds each binding into the environment as its rendered value,
// so later references substitute the full type text. A hoisted branching
// binding becomes a step-trait projection plus the obligation that the
// step holds; qualifier locates the step trait from the caller's side of
// the module boundary.
func (em *Emitter) bindLets(lets []*ir.Let, e env, qualifier string) (env, []string) {
	var obls []string
	for _, let := range lets {
		var text string
		if let.Node != nil {
			target, stepObls := em.invokeStep(let.Node, e, qualifier)
			obls = append(obls, stepObls...)
			obls = append(obls, fmt.Sprintf("(): %s", target))
			text = fmt.Sprintf("<() as %s>::Output", target)
		} else {
			var valueObls []string
			text, valueObls = em.rn.render(let.Stmt.Value, e)
			obls = append(obls, valueObls...)
		}
		e = e.extend()
		e[let.Stmt.Name] = text
	}
	return e, obls
}

// invokeStep builds the application of a node's step trait from its
// invoker's environment: the node's visible generics in order, then the
// tested subject.
func (em *Emitter) invokeStep(node *ir.Node, e env, qualifier string) (string, []string) {
	var args []string
	for _, v := range node.Scope.Visible() {
		args = append(args, e.resolve(v))
	}

	var obls []string
	if name := node.SubjectName(); name != "" {
		args = append(args, e.resolve(name))
	} else {
		subj, subjObls := em.rn.render(node.Subject, e)
		obls = append(obls, subjObls...)
		args = append(args, subj)
	}

	return fmt.Sprintf("%s%s<%s>", qualifier, stepName(node.Path), strings.Join(args, ", ")), obls
}

func (em *Emitter) emitImplBody(indent int, head string, preds []string, output string) {
	if len(preds) == 0 {
		em.line(indent, "%s {", head)
	} else {
		em.line(indent, "%s", head)
		em.line(indent, "where")
		for _, pred := range preds {
			em.line(indent+1, "%s,", pred)
		}
		em.line(indent, "{")
	}
	em.line(indent+1, "type Output = %s;", output)
	em.line(indent, "}")
}

func stepName(path string) string {
	return "Step" + path
}

func paramList(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "<" + strings.Join(params, ", ") + ">"
}

func argList(params []string) string {
	return paramList(params)
}
