// Package fields maps field-input actions onto renderer-neutral field
// descriptions. The mapping is total: unknown data types, missing properties,
// and self-referential nesting all produce a usable Field.
package fields

import "github.com/goliatone/go-stepform/pkg/schema"

// Kind enumerates the input representations a renderer must support.
type Kind string

const (
	KindText              Kind = "text"
	KindTextarea          Kind = "textarea"
	KindNumber            Kind = "number"
	KindToggle            Kind = "toggle"
	KindSelect            Kind = "select"
	KindChoicePlaceholder Kind = "choice-placeholder"
	KindGroup             Kind = "group"
)

// Kinds lists every Kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindText,
		KindTextarea,
		KindNumber,
		KindToggle,
		KindSelect,
		KindChoicePlaceholder,
		KindGroup,
	}
}

// DescriptionKind tells renderers whether Content is text or markup.
type DescriptionKind string

const (
	DescriptionNone   DescriptionKind = "none"
	DescriptionText   DescriptionKind = "text"
	DescriptionMarkup DescriptionKind = "markup"
)

// Description is the help content attached to a field or group.
type Description struct {
	Kind    DescriptionKind `json:"kind"`
	Content string          `json:"content,omitempty"`
}

// IsZero reports whether nothing should be rendered.
func (d Description) IsZero() bool {
	return d.Kind == "" || d.Kind == DescriptionNone || d.Content == ""
}

// SelectOption is one entry of a select control.
type SelectOption struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Placeholder bool   `json:"placeholder,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

// Field is the rendered form of one field-input action. Group fields carry
// Children and no input attributes.
type Field struct {
	// Key identifies the field in rendered lists (ActionId, then Name).
	Key string `json:"key"`
	// Name is the input binding name (LogicalName, then ActionId, then Name).
	Name     string          `json:"name"`
	ActionID string          `json:"actionId,omitempty"`
	Label    string          `json:"label,omitempty"`
	DataType schema.DataType `json:"dataType,omitempty"`
	Kind     Kind            `json:"kind"`
	Order    int             `json:"order"`

	Rows        int            `json:"rows,omitempty"`
	Step        string         `json:"step,omitempty"`
	Multiple    bool           `json:"multiple,omitempty"`
	Options     []SelectOption `json:"options,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	Notice      string         `json:"notice,omitempty"`

	Required bool `json:"required,omitempty"`
	ReadOnly bool `json:"readOnly,omitempty"`
	Hidden   bool `json:"hidden,omitempty"`

	Description       Description `json:"description"`
	ValidationMessage string      `json:"validationMessage,omitempty"`

	Children []Field `json:"children,omitempty"`
	// Truncated marks a field whose qualifying children were not expanded
	// because of a repeated ActionId on the path or the depth limit.
	Truncated bool `json:"truncated,omitempty"`
}

// IsGroup reports whether the field renders as a composite group.
func (f Field) IsGroup() bool {
	return f.Kind == KindGroup
}

// Walk visits f and its descendants depth first. Returning false from fn
// stops the descent into that field's children.
func (f Field) Walk(fn func(Field, int) bool) {
	walk(f, 0, fn)
}

func walk(f Field, depth int, fn func(Field, int) bool) {
	if !fn(f, depth) {
		return
	}
	for _, child := range f.Children {
		walk(child, depth+1, fn)
	}
}
