package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Stages after the first failing one are
// skipped: the front end reports errors immediately and emits no partial
// or degraded declaration graph.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		if len(ctx.Errors) > 0 {
			break
		}
		ctx = processor.Process(ctx)
	}
	return ctx
}
