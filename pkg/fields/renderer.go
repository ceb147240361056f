package fields

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/goliatone/go-stepform/pkg/i18n"
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/visibility"
)

const (
	textareaRows      = 4
	numberStep        = "any"
	expandedThreshold = 3
	maxExpandedRows   = 6
	defaultFieldName  = "field"
)

// MarkupPolicy transforms description markup before it is exposed. The
// default policy returns the markup unchanged.
type MarkupPolicy func(markup string) string

// Option configures a Renderer.
type Option func(*Renderer)

// WithMarkupPolicy installs a policy applied to markup descriptions.
func WithMarkupPolicy(policy MarkupPolicy) Option {
	return func(r *Renderer) {
		if policy != nil {
			r.markup = policy
		}
	}
}

// WithMessages sets the messages used for placeholders and notices.
func WithMessages(messages i18n.Messages) Option {
	return func(r *Renderer) {
		r.messages = messages
	}
}

// WithMaxDepth stops expanding groups below depth levels of nesting. Zero
// or a negative value means unlimited.
func WithMaxDepth(depth int) Option {
	return func(r *Renderer) {
		r.maxDepth = depth
	}
}

// Renderer converts actions into Fields. It holds no per-call state and is
// safe for concurrent use.
type Renderer struct {
	markup   MarkupPolicy
	messages i18n.Messages
	maxDepth int
}

// New constructs a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		markup:   identityMarkup,
		messages: i18n.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func identityMarkup(markup string) string { return markup }

// Render converts one action. Callers are expected to pass field inputs; the
// action type is not re-checked here.
func (r *Renderer) Render(action schema.Action) Field {
	return r.render(action, make(map[string]struct{}), 0)
}

// RenderAll renders the qualifying actions of actions in display order.
func (r *Renderer) RenderAll(actions []schema.Action) []Field {
	qualifying := visibility.Qualifies(actions)
	if len(qualifying) == 0 {
		return nil
	}
	out := make([]Field, 0, len(qualifying))
	for _, action := range qualifying {
		out = append(out, r.Render(action))
	}
	return out
}

func (r *Renderer) render(action schema.Action, path map[string]struct{}, depth int) Field {
	props := action.Properties
	field := Field{
		Key:               FieldKey(action),
		Name:              BindingName(action),
		ActionID:          action.ActionID,
		Label:             label(action),
		DataType:          props.DataType,
		Order:             action.OrderValue(),
		Required:          props.IsRequired,
		ReadOnly:          props.IsReadOnly,
		Hidden:            props.IsHidden,
		Description:       r.describe(props.Description),
		ValidationMessage: strings.TrimSpace(props.ValidationMessage),
	}

	children := visibility.Qualifies(props.ChildActions)
	if len(children) > 0 {
		id := strings.TrimSpace(action.ActionID)
		_, repeated := path[id]
		switch {
		case id != "" && repeated:
			field.Truncated = true
		case r.maxDepth > 0 && depth >= r.maxDepth:
			field.Truncated = true
		default:
			return r.group(field, id, children, path, depth)
		}
	}

	r.dispatch(&field, props)
	return field
}

func (r *Renderer) group(field Field, id string, children []schema.Action, path map[string]struct{}, depth int) Field {
	field.Kind = KindGroup
	if field.Label == "" {
		field.Label = r.messages.Text(i18n.KeyGroupLabel)
	}

	if id != "" {
		path[id] = struct{}{}
		defer delete(path, id)
	}

	field.Children = make([]Field, 0, len(children))
	for _, child := range children {
		field.Children = append(field.Children, r.render(child, path, depth+1))
	}
	return field
}

// dispatch assigns the input representation for a leaf field.
func (r *Renderer) dispatch(field *Field, props schema.FieldProperties) {
	dataType, _ := props.DataType.Canonical()
	switch dataType {
	case schema.DataTypeSingleLineText:
		field.Kind = KindText
		field.Placeholder = r.messages.Text(i18n.KeyHintText)
	case schema.DataTypeLookup:
		field.Kind = KindText
		field.Placeholder = r.messages.Text(i18n.KeyHintLookup)
	case schema.DataTypeMultiLineText:
		field.Kind = KindTextarea
		field.Rows = textareaRows
		field.Placeholder = r.messages.Text(i18n.KeyHintMultiLine)
	case schema.DataTypeWholeNumber, schema.DataTypeDecimal, schema.DataTypeCurrency:
		field.Kind = KindNumber
		field.Step = numberStep
		field.Placeholder = r.messages.Text(i18n.KeyHintNumeric)
	case schema.DataTypeYesNo:
		field.Kind = KindToggle
	case schema.DataTypeChoice:
		r.choice(field, props)
	default:
		field.Kind = KindText
		field.Placeholder = r.messages.Text(i18n.KeyHintDefault)
	}
}

func (r *Renderer) choice(field *Field, props schema.FieldProperties) {
	if len(props.Choices) == 0 {
		field.Kind = KindChoicePlaceholder
		field.Notice = r.messages.Text(i18n.KeyNoOptions)
		return
	}

	field.Kind = KindSelect
	field.Multiple = props.CanSelectMultiple

	options := make([]SelectOption, 0, len(props.Choices)+1)
	if !field.Multiple {
		options = append(options, SelectOption{
			Label:       r.messages.Text(i18n.KeyChoicePlaceholder),
			Placeholder: true,
			Disabled:    true,
		})
	}
	fallback := r.messages.Text(i18n.KeyOptionLabel)
	for _, choice := range props.Choices {
		options = append(options, resolveChoice(choice, fallback))
	}
	field.Options = options

	if field.Multiple && len(props.Choices) > expandedThreshold {
		field.Rows = min(len(props.Choices), maxExpandedRows)
	}
}

func resolveChoice(choice schema.Choice, fallback string) SelectOption {
	value := strings.TrimSpace(choice.Value)
	text := strings.TrimSpace(choice.Label)
	switch {
	case value == "" && text == "":
		return SelectOption{Label: fallback}
	case value == "":
		value = text
	case text == "":
		text = value
	}
	return SelectOption{Value: value, Label: text}
}

func (r *Renderer) describe(raw string) Description {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Description{Kind: DescriptionNone}
	}
	if strings.HasPrefix(trimmed, "<") {
		return Description{Kind: DescriptionMarkup, Content: r.markup(trimmed)}
	}
	return Description{Kind: DescriptionText, Content: trimmed}
}

// BindingName resolves the input binding name of action.
func BindingName(action schema.Action) string {
	return firstNonEmpty(
		action.Properties.LogicalName,
		action.ActionID,
		action.Name,
		defaultFieldName,
	)
}

// FieldKey resolves the list key of action.
func FieldKey(action schema.Action) string {
	return firstNonEmpty(action.ActionID, action.Name, BindingName(action))
}

func label(action schema.Action) string {
	return firstNonEmpty(
		action.Properties.Label,
		action.Name,
		action.Properties.LogicalName,
	)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return norm.NFC.String(trimmed)
		}
	}
	return ""
}
