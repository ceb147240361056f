package schema

import "strings"

// ActionType identifies the behaviour of an action. Only field inputs are
// interpreted; every other value is carried through untouched.
type ActionType string

// ActionTypeFieldInput marks actions that render an input.
const ActionTypeFieldInput ActionType = "Field_Input"

// IsFieldInput reports whether t names a field-input action, tolerating case
// and separator differences ("field_input", "FieldInput", "field-input").
func (t ActionType) IsFieldInput() bool {
	return canonicalToken(string(t)) == canonicalToken(string(ActionTypeFieldInput))
}

// DataType is the declared data type of a field.
type DataType string

const (
	DataTypeSingleLineText DataType = "SingleLineText"
	DataTypeMultiLineText  DataType = "MultiLineText"
	DataTypeWholeNumber    DataType = "WholeNumber"
	DataTypeDecimal        DataType = "Decimal"
	DataTypeCurrency       DataType = "Currency"
	DataTypeYesNo          DataType = "YesNo"
	DataTypeChoice         DataType = "Choice"
	DataTypeLookup         DataType = "Lookup"
)

var knownDataTypes = []DataType{
	DataTypeSingleLineText,
	DataTypeMultiLineText,
	DataTypeWholeNumber,
	DataTypeDecimal,
	DataTypeCurrency,
	DataTypeYesNo,
	DataTypeChoice,
	DataTypeLookup,
}

// KnownDataTypes lists the recognised data types in declaration order.
func KnownDataTypes() []DataType {
	return append([]DataType(nil), knownDataTypes...)
}

// Canonical maps d onto one of the known data types. The second return value
// is false for empty or unrecognised values.
func (d DataType) Canonical() (DataType, bool) {
	token := canonicalToken(string(d))
	if token == "" {
		return "", false
	}
	for _, known := range knownDataTypes {
		if canonicalToken(string(known)) == token {
			return known, true
		}
	}
	return "", false
}

func canonicalToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch r {
		case ' ', '_', '-', '.':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
