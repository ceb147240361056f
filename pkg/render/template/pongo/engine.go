// Package pongo implements template.TemplateRenderer on top of pongo2.
//
// Template data is passed through its JSON form, so templates address struct
// fields by their json tag names.
package pongo

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-stepform/pkg/render/template"
)

// Option configures an Engine.
type Option func(*Engine)

// WithFS adds a template filesystem. Filesystems are searched in the order
// they are supplied.
func WithFS(files fs.FS) Option {
	return func(e *Engine) {
		if files != nil {
			e.loaders = append(e.loaders, pongo2.NewFSLoader(files))
		}
	}
}

// WithExtension sets the extension appended to template names that lack it.
// Defaults to ".tmpl".
func WithExtension(ext string) Option {
	return func(e *Engine) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		e.extension = ext
	}
}

// Engine renders pongo2 templates. Parsed files are cached by path.
type Engine struct {
	set       *pongo2.TemplateSet
	loaders   []pongo2.TemplateLoader
	extension string

	mu    sync.Mutex
	cache map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine. At least one WithFS option is required.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		extension: ".tmpl",
		cache:     make(map[string]*pongo2.Template),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if len(e.loaders) == 0 {
		return nil, errors.New("pongo: no template filesystem configured")
	}
	e.set = pongo2.NewSet("stepform", e.loaders...)
	return e, nil
}

// RenderTemplate executes the template file at name.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	path := name
	if !strings.HasSuffix(path, e.extension) {
		path += e.extension
	}
	tmpl, err := e.lookup(path)
	if err != nil {
		return "", err
	}
	return execute(tmpl, path, data, out)
}

// RenderString parses and executes content as an inline template.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("pongo: parse inline template: %w", err)
	}
	return execute(tmpl, "inline", data, out)
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo: load template %q: %w", path, err)
	}
	e.cache[path] = tmpl
	return tmpl, nil
}

func execute(tmpl *pongo2.Template, label string, data any, out []io.Writer) (string, error) {
	ctx, err := contextFor(data)
	if err != nil {
		return "", fmt.Errorf("pongo: template %q: %w", label, err)
	}
	rendered, err := tmpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("pongo: execute template %q: %w", label, err)
	}
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// contextFor turns data into a pongo2 context through a JSON round trip.
func contextFor(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode data: %w", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("data must be an object, got %T", data)
	}
	return pongo2.Context(wholeNumbers(decoded).(map[string]any)), nil
}

// wholeNumbers converts integral floats back to ints so templates print "3"
// rather than "3.000000".
func wholeNumbers(value any) any {
	switch v := value.(type) {
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int(v)
		}
		return v
	case map[string]any:
		for key, item := range v {
			v[key] = wholeNumbers(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = wholeNumbers(item)
		}
		return v
	default:
		return v
	}
}
