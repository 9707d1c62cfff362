package emitter

import (
	"github.com/typelang/typc/internal/config"
	"github.com/typelang/typc/internal/pipeline"
)

// EmitterProcessor renders the declaration graph into ctx.Output. It
// only runs when every earlier stage succeeded, so ctx.Trees is
// complete and resolved here.
type EmitterProcessor struct {
	Config *config.Config
}

func NewEmitterProcessor(cfg *config.Config) *EmitterProcessor {
	return &EmitterProcessor{Config: cfg}
}

func (ep *EmitterProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	emitter := New(Options{
		Names:   ep.Config.Names,
		Prelude: ep.Config.Prelude,
	})

	output, errs := emitter.Emit(ctx.Trees)
	for _, err := range errs {
		if err.File == "" {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
	}
	if len(errs) == 0 {
		ctx.Output = output
	}

	return ctx
}
