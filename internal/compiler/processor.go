package compiler

import (
	"github.com/funvibe/jvmstatic/internal/pipeline"
)

// CompilerProcessor compiles every method of a loaded unit. It does
// nothing when an earlier stage failed.
type CompilerProcessor struct{}

func (cp *CompilerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Registry == nil || ctx.Errors.HasErrors() {
		return ctx
	}

	unit := CompileUnit(ctx.NewFactory())
	for _, cm := range unit.Methods {
		ctx.Methods = append(ctx.Methods, pipeline.MethodCode{Method: cm.Method, Code: cm.Code})
	}
	for _, err := range unit.Errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}
	ctx.Errors = append(ctx.Errors, unit.Errors...)
	ctx.Output = unit.Disassemble()
	return ctx
}
