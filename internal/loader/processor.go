package loader

import (
	"github.com/funvibe/jvmstatic/internal/pipeline"
)

// LoaderProcessor decodes ctx.Source into a fresh registry.
type LoaderProcessor struct{}

func (lp *LoaderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	unit, errs := Decode(ctx.Source, ctx.FilePath, nil)
	ctx.UnitName = unit.Name
	ctx.Registry = unit.Registry

	for _, err := range errs {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}
	ctx.Errors = append(ctx.Errors, errs...)
	return ctx
}
