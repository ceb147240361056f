package interpreter

import (
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/sequencer"
	"github.com/goliatone/go-stepform/pkg/visibility"
)

// Session holds one form and its navigation state. Navigation callbacks
// return the View after the move. A Session is not safe for concurrent use.
type Session struct {
	interp *Interpreter
	cfg    schema.FormConfig
	steps  []schema.Step
	state  sequencer.State
}

// NewSession starts a session on cfg at the first visible step.
func NewSession(cfg schema.FormConfig, opts ...Option) *Session {
	return NewSessionWith(New(opts...), cfg)
}

// NewSessionWith starts a session using an existing Interpreter.
func NewSessionWith(interp *Interpreter, cfg schema.FormConfig) *Session {
	if interp == nil {
		interp = defaultInterpreter
	}
	s := &Session{interp: interp}
	s.Load(cfg)
	return s
}

// Load replaces the form and starts over from the first step.
func (s *Session) Load(cfg schema.FormConfig) View {
	s.cfg = cfg
	s.steps = visibility.VisibleSteps(cfg.Steps)
	s.state = sequencer.New(len(s.steps))
	return s.View()
}

// Restore applies a previously saved state. A saved state recorded against a
// different number of visible steps resets to the first step.
func (s *Session) Restore(state sequencer.State) View {
	s.state = state.Resize(len(s.steps))
	return s.View()
}

// View renders the current state.
func (s *Session) View() View {
	return s.interp.view(s.cfg, s.steps, s.state)
}

// SelectStep jumps to index, clamped into range.
func (s *Session) SelectStep(index int) View {
	s.state = s.state.GoTo(index)
	return s.View()
}

// GoPrevious moves back one step. It is a no-op on the first step.
func (s *Session) GoPrevious() View {
	s.state = s.state.Previous()
	return s.View()
}

// GoNext moves forward one step. It is a no-op on the last step.
func (s *Session) GoNext() View {
	s.state = s.state.Next()
	return s.View()
}

// State returns the current navigation state.
func (s *Session) State() sequencer.State {
	return s.state
}

// Config returns the loaded form.
func (s *Session) Config() schema.FormConfig {
	return s.cfg
}
