package resolver

import (
	"github.com/typelang/typc/internal/pipeline"
)

// ResolverProcessor validates every decision tree. Emission only runs
// when resolution reports no errors.
type ResolverProcessor struct{}

func (rp *ResolverProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	resolver := New(ctx)

	for _, tree := range ctx.Trees {
		resolver.ResolveTree(tree)
	}

	for _, err := range resolver.Errors() {
		if err.File == "" {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
	}

	return ctx
}
