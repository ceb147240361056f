// Package testsupport holds fixtures and helpers shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/schema"
)

// LoadDocument reads a fixture from disk into a schema.Document.
func LoadDocument(t *testing.T, path string) schema.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (schema.Document, error) {
	if path == "" {
		return schema.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		return schema.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustDecode decodes an inline JSON or YAML payload.
func MustDecode(t *testing.T, raw string) schema.FormConfig {
	t.Helper()

	cfg, err := schema.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode form: %v", err)
	}
	return cfg
}

// TwoStepConfig returns a small form with two visible steps and one step
// without field inputs.
func TwoStepConfig() schema.FormConfig {
	return schema.FormConfig{
		Name:         "Intake",
		FormTypeName: "Application",
		Metadata:     schema.Metadata{ProgramName: "Housing"},
		Steps: []schema.Step{
			{
				StepID:     "details",
				Name:       "Details",
				EntityName: "case",
				Order:      schema.Int(2),
				Actions: []schema.Action{
					{
						ActionID: "notes",
						Type:     schema.ActionTypeFieldInput,
						Properties: schema.FieldProperties{
							LogicalName: "notes",
							Label:       "Notes",
							DataType:    schema.DataTypeMultiLineText,
							Description: "<b>Optional</b> context",
						},
					},
				},
			},
			{
				StepID: "buttons",
				Name:   "Buttons",
				Order:  schema.Int(0),
				Actions: []schema.Action{
					{ActionID: "save", Type: "Button"},
				},
			},
			{
				StepID:     "contact",
				Name:       "Contact",
				EntityName: "contact",
				Order:      schema.Int(1),
				Actions: []schema.Action{
					{
						ActionID: "first",
						Type:     schema.ActionTypeFieldInput,
						Order:    schema.Int(1),
						Properties: schema.FieldProperties{
							LogicalName: "firstname",
							Label:       "First name",
							DataType:    schema.DataTypeSingleLineText,
							IsRequired:  true,
						},
					},
					{
						ActionID: "answer",
						Type:     schema.ActionTypeFieldInput,
						Order:    schema.Int(2),
						Properties: schema.FieldProperties{
							LogicalName: "answer",
							Label:       "Answer",
							DataType:    schema.DataTypeChoice,
							Choices: []schema.Choice{
								{Value: "y", Label: "Yes"},
								{Value: "n", Label: "No"},
							},
						},
					},
				},
			},
		},
	}
}

// Diff returns a cmp diff between want and got.
func Diff(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
