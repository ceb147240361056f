package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-stepform/pkg/interpreter"
	"github.com/goliatone/go-stepform/pkg/render"
	rendertemplate "github.com/goliatone/go-stepform/pkg/render/template"
	"github.com/goliatone/go-stepform/pkg/render/template/pongo"
	"github.com/goliatone/go-stepform/pkg/renderers/vanilla/components"
)

// Name is the registry name of the vanilla renderer.
const Name = "vanilla"

const (
	pageTemplate   = "templates/page.tmpl"
	pagePartialKey = "forms.page"
	metaSeparator  = " · "
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithInlineStylesheet controls whether the embedded stylesheet is inlined
// when the caller links no stylesheets. Enabled by default.
func WithInlineStylesheet(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStyles = enabled
	}
}

// Renderer produces an HTML page (or fragment) for an interpreted View.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	registry     *components.Registry
	inlineStyles bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), inlineStyles: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:    renderer,
		registry:     cfg.registry,
		inlineStyles: cfg.inlineStyles,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, view interpreter.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}

	partials := components.DefaultPartials()
	if options.Theme != nil {
		for key, value := range options.Theme.Partials {
			if strings.TrimSpace(value) != "" {
				partials[key] = value
			}
		}
	}

	fieldsRenderer := newComponentRenderer(r.templates, r.registry, partials)

	var fieldsHTML strings.Builder
	if view.Active != nil {
		for _, field := range view.Active.Fields {
			markup, err := fieldsRenderer.render(field)
			if err != nil {
				return nil, fmt.Errorf("vanilla renderer: %w", err)
			}
			fieldsHTML.WriteString(markup)
		}
	}

	data := r.buildPage(view, options, fieldsRenderer)
	data.FieldsHTML = fieldsHTML.String()

	templateName := pageTemplate
	if candidate := strings.TrimSpace(partials[pagePartialKey]); candidate != "" {
		templateName = candidate
	}

	result, err := r.templates.RenderTemplate(templateName, map[string]any{
		"page": data,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type pageData struct {
	Lang         string     `json:"lang"`
	Title        string     `json:"title"`
	Heading      string     `json:"heading"`
	Meta         string     `json:"meta,omitempty"`
	Partial      bool       `json:"partial"`
	Interactive  bool       `json:"interactive"`
	Empty        bool       `json:"empty"`
	EmptyMessage string     `json:"empty_message,omitempty"`
	Index        int        `json:"index"`
	Count        int        `json:"count"`
	Position     string     `json:"position,omitempty"`
	Links        []stepLink `json:"links"`
	Step         *section   `json:"step,omitempty"`
	FieldsHTML   string     `json:"fields_html"`
	Previous     navControl `json:"previous"`
	Next         navControl `json:"next"`
	Stylesheets  []string   `json:"stylesheets,omitempty"`
	Scripts      []string   `json:"scripts,omitempty"`
	InlineCSS    string     `json:"inline_css,omitempty"`
	Theme        pageTheme  `json:"theme"`
}

type stepLink struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Index    int    `json:"index"`
	Active   bool   `json:"active"`
	Endpoint string `json:"endpoint"`
}

type section struct {
	Key      string `json:"key"`
	Anchor   string `json:"anchor"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

type navControl struct {
	Label    string `json:"label"`
	Endpoint string `json:"endpoint"`
	Enabled  bool   `json:"enabled"`
}

type pageTheme struct {
	Name    string `json:"name,omitempty"`
	Variant string `json:"variant,omitempty"`
	CSSVars string `json:"css_vars,omitempty"`
}

func (r *Renderer) buildPage(view interpreter.View, options render.RenderOptions, fieldsRenderer *componentRenderer) pageData {
	data := pageData{
		Lang:         pageLang(view.Locale),
		Title:        firstNonEmpty(options.Title, view.Name, "Form"),
		Heading:      view.Name,
		Meta:         joinNonEmpty(metaSeparator, view.FormTypeName, view.ProgramName),
		Partial:      options.Partial,
		Interactive:  options.Interactive,
		Empty:        view.Empty,
		EmptyMessage: view.EmptyMessage,
		Index:        view.Index,
		Count:        view.Count,
		Position:     view.Position,
	}

	for _, label := range view.Steps {
		data.Links = append(data.Links, stepLink{
			Key:      label.Key,
			Label:    label.Label,
			Index:    label.Index,
			Active:   label.Active,
			Endpoint: options.StepEndpoint(label.Index),
		})
	}

	if active := view.Active; active != nil {
		data.Step = &section{
			Key:      active.Key,
			Anchor:   active.Anchor,
			Title:    active.Title,
			Subtitle: active.Subtitle,
		}
		if nav := active.Navigation; nav != nil {
			data.Previous = navControl{
				Label:    nav.PreviousLabel,
				Endpoint: options.Endpoint("previous"),
				Enabled:  nav.HasPrevious,
			}
			data.Next = navControl{
				Label:    nav.NextLabel,
				Endpoint: options.Endpoint("next"),
				Enabled:  nav.HasNext,
			}
		}
	}

	data.Stylesheets = append(data.Stylesheets, options.Stylesheets...)
	componentStyles, componentScripts := fieldsRenderer.assets()
	data.Stylesheets = append(data.Stylesheets, componentStyles...)
	for _, script := range componentScripts {
		if script.Src != "" {
			data.Scripts = append(data.Scripts, script.Src)
		}
	}

	if cfg := options.Theme; cfg != nil {
		data.Theme = pageTheme{
			Name:    cfg.Theme,
			Variant: cfg.Variant,
			CSSVars: render.CSSVarsStyle(cfg.CSSVars),
		}
		if cfg.AssetURL != nil {
			if href := cfg.AssetURL(StylesheetName); href != "" {
				data.Stylesheets = append(data.Stylesheets, href)
			}
		}
	}

	if len(data.Stylesheets) == 0 && r.inlineStyles {
		data.InlineCSS = defaultStylesheet()
	}
	return data
}

func pageLang(locale string) string {
	if locale = strings.TrimSpace(locale); locale == "" {
		return "en"
	}
	return locale
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, sep)
}
