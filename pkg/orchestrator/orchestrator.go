package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-stepform/internal/loader"
	"github.com/goliatone/go-stepform/pkg/interpreter"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/renderers/vanilla"
	"github.com/goliatone/go-stepform/pkg/schema"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom form loader.
func WithLoader(l schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = l
	}
}

// WithInterpreter injects a configured interpreter (locale, markup policy,
// depth limit).
func WithInterpreter(in *interpreter.Interpreter) Option {
	return func(o *Orchestrator) {
		o.interp = in
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that can patch the decoded form
// before it is interpreted.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// Orchestrator coordinates the full pipeline from form source to rendered
// output. Missing collaborators default to the file loader, the default
// interpreter and a registry holding the vanilla renderer.
type Orchestrator struct {
	loader          schema.Loader
	interp          *interpreter.Interpreter
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render of one step.
type Request struct {
	// Source identifies where the form document lives. Optional when Document
	// or Config is supplied.
	Source schema.Source

	// Document bypasses the loader.
	Document *schema.Document

	// Config bypasses loading and decoding.
	Config *schema.FormConfig

	// Step selects the active step by its position in the visible list. It is
	// clamped into range.
	Step int

	// Renderer names the renderer to use. Empty selects the default.
	Renderer string

	RenderOptions render.RenderOptions
}

// Generate loads, interprets and renders the requested step.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	view, err := o.Interpret(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, view, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Interpret runs the pipeline up to the View without rendering.
func (o *Orchestrator) Interpret(ctx context.Context, req Request) (interpreter.View, error) {
	cfg, err := o.Config(ctx, req)
	if err != nil {
		return interpreter.View{}, err
	}

	session := interpreter.NewSessionWith(o.interp, cfg)
	return session.SelectStep(req.Step), nil
}

// Config resolves and transforms the form configuration of req.
func (o *Orchestrator) Config(ctx context.Context, req Request) (schema.FormConfig, error) {
	if ctx == nil {
		return schema.FormConfig{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return schema.FormConfig{}, err
	}
	if err := o.initialiseErr; err != nil {
		return schema.FormConfig{}, err
	}

	cfg, err := o.resolveConfig(ctx, req)
	if err != nil {
		return schema.FormConfig{}, err
	}
	if err := o.applyTransformer(ctx, &cfg); err != nil {
		return schema.FormConfig{}, err
	}
	return cfg, nil
}

func (o *Orchestrator) resolveConfig(ctx context.Context, req Request) (schema.FormConfig, error) {
	if req.Config != nil {
		return *req.Config, nil
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return schema.FormConfig{}, err
	}
	cfg, err := doc.Config()
	if err != nil {
		return schema.FormConfig{}, fmt.Errorf("orchestrator: decode document: %w", err)
	}
	return cfg, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (schema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return schema.Document{}, errors.New("orchestrator: source, document or config is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, cfg *schema.FormConfig) error {
	if o.transformer == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, cfg); err != nil {
		return fmt.Errorf("orchestrator: transform form: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = loader.New(schema.NewLoaderOptions())
	}
	if o.interp == nil {
		o.interp = interpreter.New()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
