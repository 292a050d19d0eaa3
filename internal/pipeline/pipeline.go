package pipeline

// Pipeline runs a fixed sequence of stages over one compilation unit.
type Pipeline struct {
	stages []Processor
}

// New returns a pipeline running stages in the given order.
func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run hands ctx to every stage in turn and returns what the last one
// produced. Stages decide for themselves whether earlier diagnostics
// stop them.
func (p *Pipeline) Run(ctx *PipelineContext) *PipelineContext {
	for _, stage := range p.stages {
		ctx = stage.Process(ctx)
	}
	return ctx
}
