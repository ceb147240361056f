package vanilla

import "github.com/goliatone/go-stepform/pkg/fields"

func fieldsFixture() fields.Field {
	return fields.Field{
		Key:               "k",
		Name:              "k",
		Kind:              fields.KindText,
		Hidden:            true,
		ReadOnly:          true,
		Truncated:         true,
		ValidationMessage: "Required <now>",
	}
}
