package pipeline

import (
	"github.com/google/uuid"

	"github.com/typelang/typc/internal/ast"
	"github.com/typelang/typc/internal/diagnostics"
	"github.com/typelang/typc/internal/ir"
	"github.com/typelang/typc/internal/token"
)

// Processor is a single stage of the compilation pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries one DSL block through the pipeline. All
// intermediate state lives here and is discarded after emission; nothing
// is shared across blocks.
type PipelineContext struct {
	// ID correlates diagnostics of one compilation in debug output.
	ID string

	FilePath   string
	SourceCode string

	TokenStream *token.Stream
	Functions   []*ast.FunctionDef
	Trees       []*ir.Tree

	// Output holds the emitted declaration graph.
	Output string

	Errors []*diagnostics.DiagnosticError
}

func NewPipelineContext(sourceCode string) *PipelineContext {
	return &PipelineContext{
		ID:         uuid.NewString(),
		SourceCode: sourceCode,
	}
}

// HasErrors reports whether any stage recorded a diagnostic.
func (ctx *PipelineContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}

// Function returns the parsed FunctionDef with the given name, or nil.
// The resolver uses this to consume callee signatures (declared bounds
// only, never bodies).
func (ctx *PipelineContext) Function(name string) *ast.FunctionDef {
	for _, fn := range ctx.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}
