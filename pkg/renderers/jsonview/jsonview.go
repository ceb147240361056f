// Package jsonview renders an interpreted View as JSON for client-side shells.
package jsonview

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-stepform/pkg/interpreter"
	"github.com/goliatone/go-stepform/pkg/render"
)

// Name is the registry name of the JSON renderer.
const Name = "json"

type Option func(*Renderer)

// WithIndent pretty-prints the payload using indent per level.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer writes {"view": ..., "links": ...}. Links are only populated
// when RenderOptions.Interactive is set.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// Payload is the document written by Render.
type Payload struct {
	View  interpreter.View `json:"view"`
	Links *Links           `json:"links,omitempty"`
}

// Links are the navigation endpoints of an interactive shell.
type Links struct {
	Previous string   `json:"previous,omitempty"`
	Next     string   `json:"next,omitempty"`
	Steps    []string `json:"steps,omitempty"`
}

func (r *Renderer) Render(ctx context.Context, view interpreter.View, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("jsonview: %w", err)
	}

	payload := Payload{View: view}
	if options.Interactive {
		links := &Links{}
		if view.CanPrevious {
			links.Previous = options.Endpoint("previous")
		}
		if view.CanNext {
			links.Next = options.Endpoint("next")
		}
		for _, step := range view.Steps {
			links.Steps = append(links.Steps, options.StepEndpoint(step.Index))
		}
		payload.Links = links
	}

	var (
		out []byte
		err error
	)
	if r.indent != "" {
		out, err = json.MarshalIndent(payload, "", r.indent)
	} else {
		out, err = json.Marshal(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonview: marshal view: %w", err)
	}
	return out, nil
}
