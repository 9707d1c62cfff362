package decision

import (
	"github.com/typelang/typc/internal/config"
	"github.com/typelang/typc/internal/pipeline"
)

// BuilderProcessor runs decision-tree expansion over every parsed
// function. Any build error aborts the pipeline before resolution.
type BuilderProcessor struct {
	Names config.Names
}

func NewBuilderProcessor(names config.Names) *BuilderProcessor {
	return &BuilderProcessor{Names: names}
}

func (bp *BuilderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	builder := NewBuilder(bp.Names)

	for _, fn := range ctx.Functions {
		tree := builder.Build(fn)
		if tree != nil {
			ctx.Trees = append(ctx.Trees, tree)
		}
	}

	for _, err := range builder.Errors() {
		if err.File == "" {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
	}

	return ctx
}
