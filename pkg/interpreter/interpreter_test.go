package interpreter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/fields"
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/sequencer"
)

func textInput(id string) schema.Action {
	return schema.Action{
		ActionID: id,
		Type:     schema.ActionTypeFieldInput,
		Properties: schema.FieldProperties{
			DataType: schema.DataTypeSingleLineText,
		},
	}
}

func threeSteps() schema.FormConfig {
	return schema.FormConfig{
		Name:         "Intake",
		FormTypeName: "Application",
		Metadata:     schema.Metadata{ProgramName: "Housing"},
		Steps: []schema.Step{
			{StepID: "c", Name: "Third", Order: schema.Int(3), Actions: []schema.Action{textInput("c1")}},
			{StepID: "a", Name: "First", Order: schema.Int(1), Actions: []schema.Action{textInput("a1")}},
			{StepID: "skip", Name: "Buttons", Order: schema.Int(0), Actions: []schema.Action{{Type: "Button"}}},
			{StepID: "b", Name: "Second", Order: schema.Int(2), Actions: []schema.Action{textInput("b1")}},
		},
	}
}

func TestInterpretSingleVisibleStep(t *testing.T) {
	cfg := schema.FormConfig{
		Steps: []schema.Step{
			{StepID: "A", Name: "Step A", Order: schema.Int(1), Actions: []schema.Action{textInput("a1")}},
			{StepID: "B", Name: "Step B", Order: schema.Int(0), Actions: []schema.Action{{ActionID: "b1", Type: "Button"}}},
		},
	}

	view := Interpret(cfg, sequencer.New(2))

	want := []StepLabel{{Key: "A", Label: "Step A", Index: 0, Active: true}}
	if diff := cmp.Diff(want, view.Steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
	if view.Position != "Step 1 of 1" {
		t.Fatalf("unexpected position %q", view.Position)
	}
	if view.CanPrevious || view.CanNext {
		t.Fatalf("expected navigation disabled, got previous=%v next=%v", view.CanPrevious, view.CanNext)
	}
	if view.Active == nil || view.Active.Key != "A" {
		t.Fatalf("expected active step A, got %+v", view.Active)
	}
	if len(view.Active.Fields) != 1 || view.Active.Fields[0].Kind != fields.KindText {
		t.Fatalf("expected one text field, got %+v", view.Active.Fields)
	}
	nav := view.Active.Navigation
	if nav == nil || nav.HasPrevious || nav.HasNext {
		t.Fatalf("expected disabled navigation on active step, got %+v", nav)
	}
}

func TestInterpretEmptyForm(t *testing.T) {
	cfg := schema.FormConfig{
		Name:  "Nothing",
		Steps: []schema.Step{{Name: "Buttons", Actions: []schema.Action{{Type: "Button"}}}},
	}

	view := Interpret(cfg, sequencer.State{Index: 3, Count: 1})
	if !view.Empty {
		t.Fatalf("expected empty view")
	}
	if view.EmptyMessage != "No field inputs were provided in this configuration." {
		t.Fatalf("unexpected empty message %q", view.EmptyMessage)
	}
	if view.Active != nil || len(view.Steps) != 0 || view.Index != 0 || view.Position != "" {
		t.Fatalf("expected no rendered step, got %+v", view)
	}
	if view.Name != "Nothing" {
		t.Fatalf("expected header preserved, got %q", view.Name)
	}
}

func TestInterpretHeaderAndOrdering(t *testing.T) {
	view := Interpret(threeSteps(), sequencer.New(3).GoTo(1))

	if view.Name != "Intake" || view.FormTypeName != "Application" || view.ProgramName != "Housing" {
		t.Fatalf("unexpected header %+v", view)
	}
	keys := []string{}
	for _, step := range view.Steps {
		keys = append(keys, step.Key)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, keys); diff != "" {
		t.Fatalf("step order mismatch (-want +got):\n%s", diff)
	}
	if !view.Steps[1].Active || view.Steps[0].Active || view.Steps[2].Active {
		t.Fatalf("expected only second step active, got %+v", view.Steps)
	}
	if view.Active.Key != "b" || view.Position != "Step 2 of 3" {
		t.Fatalf("unexpected active %q position %q", view.Active.Key, view.Position)
	}
	if !view.CanPrevious || !view.CanNext {
		t.Fatalf("expected both directions available")
	}
}

func TestInterpretResetsMismatchedState(t *testing.T) {
	view := Interpret(threeSteps(), sequencer.State{Index: 2, Count: 5})
	if view.Index != 0 || view.Count != 3 {
		t.Fatalf("expected reset to first of 3, got index %d count %d", view.Index, view.Count)
	}
}

func TestInterpretIsIdempotent(t *testing.T) {
	cfg := threeSteps()
	state := sequencer.New(3).GoTo(2)
	if diff := cmp.Diff(Interpret(cfg, state), Interpret(cfg, state)); diff != "" {
		t.Fatalf("interpret not idempotent:\n%s", diff)
	}
}

func TestInterpretLocale(t *testing.T) {
	view := New(WithLocale("es")).Interpret(threeSteps(), sequencer.New(3))
	if view.Position != "Paso 1 de 3" {
		t.Fatalf("unexpected localized position %q", view.Position)
	}
	if view.Active.Navigation.NextLabel != "Siguiente" {
		t.Fatalf("unexpected localized next label %q", view.Active.Navigation.NextLabel)
	}
	if view.Locale != "es" {
		t.Fatalf("expected locale recorded, got %q", view.Locale)
	}
}

func TestInterpretMarkupPolicy(t *testing.T) {
	action := textInput("d")
	action.Properties.Description = "<b>raw</b>"
	cfg := schema.FormConfig{Steps: []schema.Step{{Name: "S", Actions: []schema.Action{action}}}}

	view := New(WithMarkupPolicy(func(string) string { return "clean" })).Interpret(cfg, sequencer.New(1))
	if got := view.Active.Fields[0].Description.Content; got != "clean" {
		t.Fatalf("expected markup policy applied, got %q", got)
	}
}
