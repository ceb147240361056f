// Package interpreter turns a form configuration plus a navigation state
// into a View: the step list, the active step's field tree, a position
// label, and previous/next availability.
//
// Interpret is a pure function. Session owns the navigation state of one
// interactive session and routes every callback through the sequencer.
package interpreter

import (
	"strings"

	"github.com/goliatone/go-stepform/pkg/compose"
	"github.com/goliatone/go-stepform/pkg/fields"
	"github.com/goliatone/go-stepform/pkg/i18n"
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/sequencer"
	"github.com/goliatone/go-stepform/pkg/visibility"
)

// StepLabel is one entry of the navigation list.
type StepLabel struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Index  int    `json:"index"`
	Active bool   `json:"active"`
}

// View is the complete output of one interpretation pass.
type View struct {
	Name         string `json:"name,omitempty"`
	FormTypeName string `json:"formTypeName,omitempty"`
	ProgramName  string `json:"programName,omitempty"`

	Steps    []StepLabel   `json:"steps"`
	Active   *compose.Step `json:"active,omitempty"`
	Index    int           `json:"index"`
	Count    int           `json:"count"`
	Position string        `json:"position,omitempty"`

	CanPrevious bool `json:"canPrevious"`
	CanNext     bool `json:"canNext"`

	Empty        bool   `json:"empty"`
	EmptyMessage string `json:"emptyMessage,omitempty"`
	Locale       string `json:"locale,omitempty"`
}

// State returns the navigation state the view was produced from.
func (v View) State() sequencer.State {
	return sequencer.State{Index: v.Index, Count: v.Count}
}

// Option configures an Interpreter.
type Option func(*config)

type config struct {
	messages   i18n.Messages
	markup     fields.MarkupPolicy
	maxDepth   int
	composer   *compose.Composer
	hasLocale  bool
	translator i18n.Translator
	locale     string
}

// WithLocale selects the locale of generated labels.
func WithLocale(locale string) Option {
	return func(cfg *config) {
		cfg.locale = strings.TrimSpace(locale)
		cfg.hasLocale = true
	}
}

// WithTranslator installs a translator for generated labels.
func WithTranslator(t i18n.Translator) Option {
	return func(cfg *config) {
		cfg.translator = t
		cfg.hasLocale = true
	}
}

// WithMarkupPolicy installs a policy applied to markup descriptions.
func WithMarkupPolicy(policy fields.MarkupPolicy) Option {
	return func(cfg *config) {
		cfg.markup = policy
	}
}

// WithMaxDepth limits group expansion depth. Zero means unlimited.
func WithMaxDepth(depth int) Option {
	return func(cfg *config) {
		cfg.maxDepth = depth
	}
}

// WithComposer replaces the step composer. Locale, markup, and depth options
// are ignored when a composer is supplied.
func WithComposer(c *compose.Composer) Option {
	return func(cfg *config) {
		cfg.composer = c
	}
}

// Interpreter produces Views. It is stateless and safe for concurrent use.
type Interpreter struct {
	composer *compose.Composer
	messages i18n.Messages
	locale   string
}

// New constructs an Interpreter.
func New(opts ...Option) *Interpreter {
	cfg := config{messages: i18n.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.hasLocale {
		cfg.messages = i18n.Bind(cfg.translator, cfg.locale)
	}

	composer := cfg.composer
	if composer == nil {
		renderer := fields.New(
			fields.WithMessages(cfg.messages),
			fields.WithMarkupPolicy(cfg.markup),
			fields.WithMaxDepth(cfg.maxDepth),
		)
		composer = compose.New(
			compose.WithMessages(cfg.messages),
			compose.WithFieldRenderer(renderer),
		)
	}

	return &Interpreter{
		composer: composer,
		messages: cfg.messages,
		locale:   cfg.locale,
	}
}

var defaultInterpreter = New()

// Interpret renders cfg with the default interpreter.
func Interpret(cfg schema.FormConfig, state sequencer.State) View {
	return defaultInterpreter.Interpret(cfg, state)
}

// Interpret renders cfg at state. A state whose Count differs from the number
// of visible steps is reset to the first step.
func (in *Interpreter) Interpret(cfg schema.FormConfig, state sequencer.State) View {
	steps := visibility.VisibleSteps(cfg.Steps)
	state = state.Resize(len(steps))
	return in.view(cfg, steps, state)
}

func (in *Interpreter) view(cfg schema.FormConfig, steps []schema.Step, state sequencer.State) View {
	view := View{
		Name:         strings.TrimSpace(cfg.Name),
		FormTypeName: strings.TrimSpace(cfg.FormTypeName),
		ProgramName:  strings.TrimSpace(cfg.Metadata.ProgramName),
		Steps:        make([]StepLabel, 0, len(steps)),
		Index:        state.Index,
		Count:        state.Count,
		CanPrevious:  state.HasPrevious(),
		CanNext:      state.HasNext(),
		Locale:       in.locale,
	}

	if state.Empty() {
		view.Empty = true
		view.EmptyMessage = in.messages.Text(i18n.KeyEmptyForm)
		return view
	}

	for i, step := range steps {
		view.Steps = append(view.Steps, StepLabel{
			Key:    compose.StepKey(step, i),
			Label:  compose.StepTitle(step, i),
			Index:  i,
			Active: i == state.Index,
		})
	}

	nav := &compose.Navigation{
		HasPrevious: view.CanPrevious,
		HasNext:     view.CanNext,
	}
	if active, ok := in.composer.Compose(steps[state.Index], state.Index, nav); ok {
		view.Active = &active
	}
	view.Position = in.messages.Text(i18n.KeyPosition, state.Position(), state.Count)
	return view
}
