// Package compose assembles one step into a titled section of rendered
// fields with optional navigation controls.
package compose

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-stepform/pkg/fields"
	"github.com/goliatone/go-stepform/pkg/i18n"
	"github.com/goliatone/go-stepform/pkg/schema"
)

const subtitleSeparator = " · "

// Navigation describes the previous/next controls shown with a step.
type Navigation struct {
	HasPrevious   bool   `json:"hasPrevious"`
	HasNext       bool   `json:"hasNext"`
	PreviousLabel string `json:"previousLabel"`
	NextLabel     string `json:"nextLabel"`
}

// Step is a composed section ready for a renderer.
type Step struct {
	Key        string         `json:"key"`
	Anchor     string         `json:"anchor"`
	Title      string         `json:"title"`
	Subtitle   string         `json:"subtitle,omitempty"`
	EntityName string         `json:"entityName,omitempty"`
	Order      *int           `json:"order,omitempty"`
	Index      int            `json:"index"`
	Fields     []fields.Field `json:"fields"`
	Navigation *Navigation    `json:"navigation,omitempty"`
}

// Option configures a Composer.
type Option func(*Composer)

// WithFieldRenderer replaces the field renderer.
func WithFieldRenderer(renderer *fields.Renderer) Option {
	return func(c *Composer) {
		if renderer != nil {
			c.fields = renderer
		}
	}
}

// WithMessages sets the messages used for subtitles and navigation labels.
func WithMessages(messages i18n.Messages) Option {
	return func(c *Composer) {
		c.messages = messages
	}
}

// Composer builds Steps. It is stateless.
type Composer struct {
	fields   *fields.Renderer
	messages i18n.Messages
}

// New constructs a Composer. Without WithFieldRenderer a default renderer
// sharing the composer's messages is used.
func New(opts ...Option) *Composer {
	c := &Composer{messages: i18n.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.fields == nil {
		c.fields = fields.New(fields.WithMessages(c.messages))
	}
	return c
}

// Compose renders step at index (its position among visible steps). The
// boolean is false when the step has no field inputs; nothing should be
// rendered then. A nil nav omits navigation controls.
func (c *Composer) Compose(step schema.Step, index int, nav *Navigation) (Step, bool) {
	rendered := c.fields.RenderAll(step.Actions)
	if len(rendered) == 0 {
		return Step{}, false
	}

	key := StepKey(step, index)
	out := Step{
		Key:        key,
		Anchor:     "step-" + anchorSlug(key),
		Title:      StepTitle(step, index),
		Subtitle:   c.subtitle(step),
		EntityName: strings.TrimSpace(step.EntityName),
		Order:      step.Order,
		Index:      index,
		Fields:     rendered,
	}

	if nav != nil {
		controls := *nav
		if controls.PreviousLabel == "" {
			controls.PreviousLabel = c.messages.Text(i18n.KeyPrevious)
		}
		if controls.NextLabel == "" {
			controls.NextLabel = c.messages.Text(i18n.KeyNext)
		}
		out.Navigation = &controls
	}
	return out, true
}

func (c *Composer) subtitle(step schema.Step) string {
	parts := make([]string, 0, 2)
	if entity := strings.TrimSpace(step.EntityName); entity != "" {
		parts = append(parts, c.messages.Text(i18n.KeyEntity, entity))
	}
	if step.Order != nil {
		parts = append(parts, c.messages.Text(i18n.KeyStepOrder, *step.Order))
	}
	return strings.Join(parts, subtitleSeparator)
}

// StepKey resolves the list key of a step: StepId, then Name, then a
// positional key.
func StepKey(step schema.Step, index int) string {
	if id := strings.TrimSpace(step.StepID); id != "" {
		return id
	}
	if name := strings.TrimSpace(step.Name); name != "" {
		return name
	}
	return fmt.Sprintf("step-%d", index+1)
}

// StepTitle resolves the heading of a step: Name, then EntityName, then key.
func StepTitle(step schema.Step, index int) string {
	if name := strings.TrimSpace(step.Name); name != "" {
		return name
	}
	if entity := strings.TrimSpace(step.EntityName); entity != "" {
		return entity
	}
	return StepKey(step, index)
}

func anchorSlug(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	dash := false
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
