package compose

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/schema"
)

func fieldInput(id string, order int) schema.Action {
	return schema.Action{
		ActionID: id,
		Type:     schema.ActionTypeFieldInput,
		Order:    schema.Int(order),
		Properties: schema.FieldProperties{
			DataType: schema.DataTypeSingleLineText,
		},
	}
}

func TestComposeStep(t *testing.T) {
	step := schema.Step{
		StepID:     "S 1",
		Name:       "Applicant",
		EntityName: "contact",
		Order:      schema.Int(2),
		Actions: []schema.Action{
			fieldInput("b", 2),
			{ActionID: "save", Type: "Button"},
			fieldInput("a", 1),
		},
	}

	got, ok := New().Compose(step, 0, nil)
	if !ok {
		t.Fatalf("expected step to compose")
	}
	if got.Key != "S 1" || got.Anchor != "step-s-1" {
		t.Fatalf("unexpected key %q anchor %q", got.Key, got.Anchor)
	}
	if got.Title != "Applicant" {
		t.Fatalf("unexpected title %q", got.Title)
	}
	if got.Subtitle != "Entity: contact · Step 2" {
		t.Fatalf("unexpected subtitle %q", got.Subtitle)
	}
	keys := []string{}
	for _, f := range got.Fields {
		keys = append(keys, f.Key)
	}
	if diff := cmp.Diff([]string{"a", "b"}, keys); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if got.Navigation != nil {
		t.Fatalf("expected no navigation without affordances")
	}
}

func TestComposeWithoutFieldInputs(t *testing.T) {
	step := schema.Step{Name: "Buttons", Actions: []schema.Action{{Type: "Button"}}}
	if _, ok := New().Compose(step, 0, nil); ok {
		t.Fatalf("expected step without field inputs to render nothing")
	}
}

func TestComposeNavigation(t *testing.T) {
	step := schema.Step{Name: "Only", Actions: []schema.Action{fieldInput("a", 0)}}

	got, ok := New().Compose(step, 1, &Navigation{HasPrevious: true})
	if !ok {
		t.Fatalf("expected step to compose")
	}
	want := &Navigation{HasPrevious: true, HasNext: false, PreviousLabel: "Previous", NextLabel: "Next"}
	if diff := cmp.Diff(want, got.Navigation); diff != "" {
		t.Fatalf("navigation mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		step     schema.Step
		key      string
		title    string
		subtitle string
	}{
		{
			name:     "entity title",
			step:     schema.Step{EntityName: "account", Actions: []schema.Action{fieldInput("a", 0)}},
			key:      "step-3",
			title:    "account",
			subtitle: "Entity: account",
		},
		{
			name:     "positional key",
			step:     schema.Step{Order: schema.Int(0), Actions: []schema.Action{fieldInput("a", 0)}},
			key:      "step-3",
			title:    "step-3",
			subtitle: "Step 0",
		},
		{
			name:  "name key",
			step:  schema.Step{Name: "Intro", Actions: []schema.Action{fieldInput("a", 0)}},
			key:   "Intro",
			title: "Intro",
		},
	}

	c := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := c.Compose(tc.step, 2, nil)
			if !ok {
				t.Fatalf("expected step to compose")
			}
			if got.Key != tc.key || got.Title != tc.title || got.Subtitle != tc.subtitle {
				t.Fatalf("got key %q title %q subtitle %q", got.Key, got.Title, got.Subtitle)
			}
		})
	}
}

func TestComposeIsIdempotent(t *testing.T) {
	step := schema.Step{StepID: "x", Actions: []schema.Action{fieldInput("a", 1), fieldInput("b", 0)}}
	c := New()
	first, _ := c.Compose(step, 0, &Navigation{HasNext: true})
	second, _ := c.Compose(step, 0, &Navigation{HasNext: true})
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("compose not idempotent:\n%s", diff)
	}
}
