// Package stepform renders multi-step forms described by a FormConfig
// document. The root package re-exports the pipeline entry points; the
// building blocks live under pkg/.
package stepform

import (
	"context"

	"github.com/goliatone/go-stepform/pkg/orchestrator"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/schema"
)

// RenderOptions describes per-request presentation settings.
type RenderOptions = render.RenderOptions

// Transformer patches a decoded form before it is interpreted.
type Transformer = orchestrator.Transformer

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the form at source and renders the step at index with
// the named renderer (vanilla when empty).
func GenerateHTML(ctx context.Context, source schema.Source, step int, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:   source,
		Step:     step,
		Renderer: rendererName,
	})
}

// GenerateHTMLFromConfig renders an already decoded form, bypassing the
// loader.
func GenerateHTMLFromConfig(ctx context.Context, cfg schema.FormConfig, step int, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Config:   &cfg,
		Step:     step,
		Renderer: rendererName,
	})
}
