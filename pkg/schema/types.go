package schema

// FormConfig is the top-level form document. It is treated as immutable once
// decoded.
type FormConfig struct {
	Name         string   `json:"Name,omitempty" yaml:"Name,omitempty"`
	FormTypeName string   `json:"FormTypeName,omitempty" yaml:"FormTypeName,omitempty"`
	Metadata     Metadata `json:"Metadata,omitempty" yaml:"Metadata,omitempty"`
	Steps        []Step   `json:"Steps,omitempty" yaml:"Steps,omitempty"`
}

// Metadata describes the program a form belongs to. Keys other than
// ProgramName are preserved in Extra.
type Metadata struct {
	ProgramName string         `json:"ProgramName,omitempty" yaml:"ProgramName,omitempty"`
	Extra       map[string]any `json:"-" yaml:"-" mapstructure:",remain"`
}

// Step groups the actions presented together on one page of the form.
type Step struct {
	StepID     string   `json:"StepId,omitempty" yaml:"StepId,omitempty" mapstructure:"StepId"`
	Name       string   `json:"Name,omitempty" yaml:"Name,omitempty"`
	EntityName string   `json:"EntityName,omitempty" yaml:"EntityName,omitempty"`
	Order      *int     `json:"Order,omitempty" yaml:"Order,omitempty"`
	Actions    []Action `json:"Actions,omitempty" yaml:"Actions,omitempty"`
}

// OrderValue returns the declared order or 0 when absent.
func (s Step) OrderValue() int {
	return orderValue(s.Order)
}

// Action is one unit of step behaviour. Only field-input actions carry
// meaningful Properties.
type Action struct {
	ActionID   string          `json:"ActionId,omitempty" yaml:"ActionId,omitempty" mapstructure:"ActionId"`
	Name       string          `json:"Name,omitempty" yaml:"Name,omitempty"`
	Type       ActionType      `json:"Type,omitempty" yaml:"Type,omitempty"`
	Order      *int            `json:"Order,omitempty" yaml:"Order,omitempty"`
	Properties FieldProperties `json:"Properties,omitempty" yaml:"Properties,omitempty"`
}

// OrderValue returns the declared order or 0 when absent.
func (a Action) OrderValue() int {
	return orderValue(a.Order)
}

// IsFieldInput reports whether the action renders an input.
func (a Action) IsFieldInput() bool {
	return a.Type.IsFieldInput()
}

// FieldProperties describes how a field-input action is presented.
type FieldProperties struct {
	LogicalName       string   `json:"LogicalName,omitempty" yaml:"LogicalName,omitempty"`
	Label             string   `json:"Label,omitempty" yaml:"Label,omitempty"`
	DataType          DataType `json:"DataType,omitempty" yaml:"DataType,omitempty"`
	Description       string   `json:"Description,omitempty" yaml:"Description,omitempty"`
	IsRequired        bool     `json:"IsRequired,omitempty" yaml:"IsRequired,omitempty"`
	IsReadOnly        bool     `json:"IsReadOnly,omitempty" yaml:"IsReadOnly,omitempty"`
	IsHidden          bool     `json:"IsHidden,omitempty" yaml:"IsHidden,omitempty"`
	ValidationMessage string   `json:"ValidationMessage,omitempty" yaml:"ValidationMessage,omitempty"`
	ChildActions      []Action `json:"ChildActions,omitempty" yaml:"ChildActions,omitempty"`
	Choices           []Choice `json:"Choices,omitempty" yaml:"Choices,omitempty"`
	CanSelectMultiple bool     `json:"CanSelectMultiple,omitempty" yaml:"CanSelectMultiple,omitempty"`
}

// Choice is a selectable option of a Choice field.
type Choice struct {
	Value string `json:"Value,omitempty" yaml:"Value,omitempty"`
	Label string `json:"Label,omitempty" yaml:"Label,omitempty"`
}

// Int returns a pointer to v. It keeps fixtures declaring Order values terse.
func Int(v int) *int {
	return &v
}

func orderValue(order *int) int {
	if order == nil {
		return 0
	}
	return *order
}
