package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-stepform/pkg/i18n"
	"github.com/goliatone/go-stepform/pkg/interpreter"
	"github.com/goliatone/go-stepform/pkg/render"
)

type navAction int

const (
	actionPrevious navAction = iota
	actionNext
	actionJump
	actionQuit
)

// Navigator runs an interactive loop over a Session: it prints the current
// view and asks the driver where to go next. Every choice is routed through
// the Session callbacks.
type Navigator struct {
	session  *interpreter.Session
	renderer *Renderer
	driver   PromptDriver
	messages *i18n.Messages
}

// NewNavigator binds a Navigator to session. Without WithPromptDriver the
// survey driver writing to stdout is used.
func NewNavigator(session *interpreter.Session, options ...Option) (*Navigator, error) {
	if session == nil {
		return nil, ErrNoSession
	}
	renderer := New(options...)
	driver := renderer.settings.driver
	if driver == nil {
		driver = NewSurveyDriver(nil)
	}
	return &Navigator{
		session:  session,
		renderer: renderer,
		driver:   driver,
		messages: renderer.settings.messages,
	}, nil
}

// Run loops until the user quits or the driver fails. It returns the last
// view shown. An interrupt is reported as ErrAborted.
func (n *Navigator) Run(ctx context.Context) (interpreter.View, error) {
	view := n.session.View()
	for {
		if err := n.show(ctx, view); err != nil {
			return view, err
		}
		if view.Empty {
			return view, nil
		}

		messages := n.messagesFor(view)
		labels, actions := n.actions(view, messages)
		choice, err := n.driver.Select(ctx, SelectConfig{
			Message:      messages.Text(i18n.KeyPrompt),
			Options:      labels,
			DefaultIndex: defaultAction(actions),
		})
		if err != nil {
			return view, wrapDriverErr(err)
		}
		if choice < 0 || choice >= len(actions) {
			return view, fmt.Errorf("tui: invalid selection %d", choice)
		}

		switch actions[choice] {
		case actionPrevious:
			view = n.session.GoPrevious()
		case actionNext:
			view = n.session.GoNext()
		case actionJump:
			index, err := n.pickStep(ctx, view, messages)
			if err != nil {
				return view, err
			}
			view = n.session.SelectStep(index)
		case actionQuit:
			return view, nil
		}
	}
}

func (n *Navigator) show(ctx context.Context, view interpreter.View) error {
	out, err := n.renderer.Render(ctx, view, render.RenderOptions{})
	if err != nil {
		return err
	}
	if err := n.driver.Info(ctx, string(out)); err != nil {
		return wrapDriverErr(err)
	}
	return nil
}

func (n *Navigator) actions(view interpreter.View, messages i18n.Messages) ([]string, []navAction) {
	var (
		labels  []string
		actions []navAction
	)
	previous := messages.Text(i18n.KeyPrevious)
	next := messages.Text(i18n.KeyNext)
	if view.Active != nil && view.Active.Navigation != nil {
		previous = view.Active.Navigation.PreviousLabel
		next = view.Active.Navigation.NextLabel
	}
	if view.CanNext {
		labels = append(labels, next)
		actions = append(actions, actionNext)
	}
	if view.CanPrevious {
		labels = append(labels, previous)
		actions = append(actions, actionPrevious)
	}
	if view.Count > 1 {
		labels = append(labels, messages.Text(i18n.KeyJump))
		actions = append(actions, actionJump)
	}
	labels = append(labels, messages.Text(i18n.KeyQuit))
	actions = append(actions, actionQuit)
	return labels, actions
}

func (n *Navigator) pickStep(ctx context.Context, view interpreter.View, messages i18n.Messages) (int, error) {
	options := make([]string, len(view.Steps))
	for i, step := range view.Steps {
		options[i] = fmt.Sprintf("%d. %s", step.Index+1, step.Label)
	}
	index, err := n.driver.Select(ctx, SelectConfig{
		Message:      messages.Text(i18n.KeyChooseStep),
		Options:      options,
		DefaultIndex: view.Index,
	})
	if err != nil {
		return 0, wrapDriverErr(err)
	}
	if index < 0 || index >= len(options) {
		return 0, fmt.Errorf("tui: invalid step selection %d", index)
	}
	return index, nil
}

func (n *Navigator) messagesFor(view interpreter.View) i18n.Messages {
	if n.messages != nil {
		return *n.messages
	}
	return i18n.Bind(nil, view.Locale)
}

func defaultAction(actions []navAction) int {
	for i, action := range actions {
		if action == actionNext {
			return i
		}
	}
	return 0
}

func wrapDriverErr(err error) error {
	if errors.Is(err, ErrAborted) {
		return ErrAborted
	}
	return fmt.Errorf("tui: prompt: %w", err)
}
