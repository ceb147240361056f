package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-stepform/pkg/fields"
	"github.com/goliatone/go-stepform/pkg/schema"
)

// Transformer patches a decoded FormConfig before it is interpreted.
type Transformer interface {
	Transform(ctx context.Context, cfg *schema.FormConfig) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, cfg *schema.FormConfig) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, cfg *schema.FormConfig) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, cfg)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// Steps are matched by StepId (or Name) and fields by their binding name,
// searched through nested child actions:
//
//	{
//	  "name": "Intake (pilot)",
//	  "programName": "Housing",
//	  "steps": {"contact": {"name": "About you", "order": 1}},
//	  "fields": {
//	    "firstname": {"label": "Given name", "required": true}
//	  }
//	}
type JSONPresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Name        string                `json:"name"`
	ProgramName string                `json:"programName"`
	Steps       map[string]stepPatch  `json:"steps"`
	Fields      map[string]fieldPatch `json:"fields"`
}

type stepPatch struct {
	Name  string `json:"name"`
	Order *int   `json:"order"`
}

type fieldPatch struct {
	Label             string `json:"label"`
	Description       string `json:"description"`
	ValidationMessage string `json:"validationMessage"`
	Required          *bool  `json:"required"`
	ReadOnly          *bool  `json:"readOnly"`
	Hidden            *bool  `json:"hidden"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a preset document from fsys.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the patches onto cfg. Steps and actions are copied before
// they are modified so the caller's slices are never shared with the result.
func (t *JSONPresetTransformer) Transform(ctx context.Context, cfg *schema.FormConfig) error {
	if cfg == nil {
		return errors.New("json preset transformer: form config is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Name != "" {
		cfg.Name = t.document.Name
	}
	if t.document.ProgramName != "" {
		cfg.Metadata.ProgramName = t.document.ProgramName
	}

	cfg.Steps = append([]schema.Step(nil), cfg.Steps...)
	for key, patch := range t.document.Steps {
		step := findStep(cfg.Steps, key)
		if step == nil {
			return fmt.Errorf("json preset transformer: step %q not found", key)
		}
		if patch.Name != "" {
			step.Name = patch.Name
		}
		if patch.Order != nil {
			step.Order = schema.Int(*patch.Order)
		}
	}

	for key, patch := range t.document.Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !patchField(cfg.Steps, key, patch) {
			return fmt.Errorf("json preset transformer: field %q not found", key)
		}
	}
	return nil
}

func findStep(steps []schema.Step, key string) *schema.Step {
	for idx := range steps {
		step := &steps[idx]
		if step.StepID == key || (step.StepID == "" && step.Name == key) {
			return step
		}
	}
	return nil
}

// patchField applies patch to every action whose binding name is key.
func patchField(steps []schema.Step, key string, patch fieldPatch) bool {
	found := false
	for idx := range steps {
		steps[idx].Actions = append([]schema.Action(nil), steps[idx].Actions...)
		if patchActions(steps[idx].Actions, key, patch, 0) {
			found = true
		}
	}
	return found
}

const maxPatchDepth = 64

func patchActions(actions []schema.Action, key string, patch fieldPatch, depth int) bool {
	if depth > maxPatchDepth {
		return false
	}
	found := false
	for idx := range actions {
		action := &actions[idx]
		if fields.BindingName(*action) == key {
			applyFieldPatch(&action.Properties, patch)
			found = true
		}
		if len(action.Properties.ChildActions) > 0 {
			action.Properties.ChildActions = append([]schema.Action(nil), action.Properties.ChildActions...)
			if patchActions(action.Properties.ChildActions, key, patch, depth+1) {
				found = true
			}
		}
	}
	return found
}

func applyFieldPatch(props *schema.FieldProperties, patch fieldPatch) {
	if patch.Label != "" {
		props.Label = patch.Label
	}
	if patch.Description != "" {
		props.Description = patch.Description
	}
	if patch.ValidationMessage != "" {
		props.ValidationMessage = patch.ValidationMessage
	}
	if patch.Required != nil {
		props.IsRequired = *patch.Required
	}
	if patch.ReadOnly != nil {
		props.IsReadOnly = *patch.ReadOnly
	}
	if patch.Hidden != nil {
		props.IsHidden = *patch.Hidden
	}
}
