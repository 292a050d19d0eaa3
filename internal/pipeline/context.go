package pipeline

import (
	"github.com/google/uuid"

	"github.com/funvibe/jvmstatic/internal/bytecode"
	"github.com/funvibe/jvmstatic/internal/config"
	"github.com/funvibe/jvmstatic/internal/diagnostics"
	"github.com/funvibe/jvmstatic/internal/synth"
	"github.com/funvibe/jvmstatic/internal/typesystem"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// MethodCode is the emitted body of one method.
type MethodCode struct {
	Method *typesystem.Method
	Code   *bytecode.Code
}

// PipelineContext carries one compilation unit through the stages. A
// context owns its registry and factory; contexts are never shared
// between units.
type PipelineContext struct {
	FilePath string
	Source   []byte
	RunID    uuid.UUID
	Options  *config.Options

	UnitName string
	Registry *typesystem.Registry
	Factory  *synth.Factory

	Methods []MethodCode
	// Output is the disassembly of every compiled method.
	Output string

	Errors diagnostics.List
}

// NewPipelineContext creates a context for source with a fresh run id.
// Nil options select the defaults.
func NewPipelineContext(source []byte, opts *config.Options) *PipelineContext {
	if opts == nil {
		opts = config.DefaultOptions()
	}
	return &PipelineContext{
		Source:  source,
		RunID:   uuid.New(),
		Options: opts,
	}
}

// NewFactory returns the context's factory, creating it over the
// registry with counters seeded from the options.
func (ctx *PipelineContext) NewFactory() *synth.Factory {
	if ctx.Factory == nil {
		names := synth.NewNameAllocator(ctx.Options.SyntheticBase, ctx.Options.TempBase)
		ctx.Factory = synth.NewFactory(ctx.Registry, names)
	}
	return ctx.Factory
}
