package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/muesli/termenv"

	"github.com/goliatone/go-stepform/pkg/interpreter"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/sequencer"
	"github.com/goliatone/go-stepform/pkg/testsupport"
)

func TestMarkdownActiveStep(t *testing.T) {
	view := interpreter.Interpret(testsupport.TwoStepConfig(), sequencer.State{})
	md := Markdown(view)

	for _, want := range []string{
		"# Intake\n",
		"_Application · Housing_\n",
		"## Contact\n",
		"Entity: contact · Step 1\n",
		"- **First name** \\*: Please enter a value...\n",
		"- **Answer**: one of Yes, No\n",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected markdown to contain %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "Details") {
		t.Fatalf("inactive step leaked into markdown\n%s", md)
	}
}

func TestMarkdownStripsDescriptionMarkup(t *testing.T) {
	view := interpreter.Interpret(testsupport.TwoStepConfig(), sequencer.State{Index: 1, Count: 2})
	md := Markdown(view)

	if !strings.Contains(md, "  Optional context\n") {
		t.Fatalf("expected plain description\n%s", md)
	}
	if strings.Contains(md, "<b>") {
		t.Fatalf("markup leaked into markdown\n%s", md)
	}
}

func TestMarkdownNestedAndEscaped(t *testing.T) {
	cfg := schema.FormConfig{
		Steps: []schema.Step{{
			StepID: "s",
			Actions: []schema.Action{{
				ActionID: "parent",
				Type:     schema.ActionTypeFieldInput,
				Properties: schema.FieldProperties{
					Label: "Parent_group",
					ChildActions: []schema.Action{{
						ActionID: "child",
						Type:     schema.ActionTypeFieldInput,
						Properties: schema.FieldProperties{
							Label:      "Child *",
							DataType:   schema.DataTypeYesNo,
							IsReadOnly: true,
						},
					}},
				},
			}},
		}},
	}
	md := Markdown(interpreter.Interpret(cfg, sequencer.State{}))

	for _, want := range []string{
		"- **Parent\\_group**\n",
		"  - **Child \\***: yes / no _(read-only)_\n",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected markdown to contain %q\n%s", want, md)
		}
	}
}

func TestMarkdownEmptyForm(t *testing.T) {
	view := interpreter.Interpret(schema.FormConfig{Name: "Blank"}, sequencer.State{})
	md := Markdown(view)

	if md != "# Blank\n\nNo field inputs were provided in this configuration.\n" {
		t.Fatalf("unexpected markdown %q", md)
	}
}

func TestStepListAndNavigationLine(t *testing.T) {
	r := New(WithColorProfile(termenv.Ascii))
	view := interpreter.Interpret(testsupport.TwoStepConfig(), sequencer.State{})

	if got, want := r.StepList(view), "> 1. Contact\n  2. Details\n"; got != want {
		t.Fatalf("step list mismatch\nwant %q\ngot  %q", want, got)
	}
	if got, want := r.NavigationLine(view), "[Previous]  Step 1 of 2  [Next]"; got != want {
		t.Fatalf("navigation line mismatch\nwant %q\ngot  %q", want, got)
	}
}

func TestRenderRawMarkdown(t *testing.T) {
	r := New(WithRawMarkdown(), WithColorProfile(termenv.Ascii))
	view := interpreter.Interpret(testsupport.TwoStepConfig(), sequencer.State{})

	out, err := r.Render(context.Background(), view, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := string(out)
	if !strings.HasPrefix(text, "> 1. Contact\n") {
		t.Fatalf("expected step list first, got %q", text)
	}
	if !strings.HasSuffix(text, "[Previous]  Step 1 of 2  [Next]\n") {
		t.Fatalf("expected navigation line last, got %q", text)
	}
	if r.ContentType() != "text/markdown; charset=utf-8" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRenderGlamour(t *testing.T) {
	r := New(WithTheme(Theme{Style: "notty"}), WithColorProfile(termenv.Ascii))
	view := interpreter.Interpret(testsupport.TwoStepConfig(), sequencer.State{})

	out, err := r.Render(context.Background(), view, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Intake", "Contact", "First name", "Step 1 of 2"} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("expected output to contain %q\n%s", want, out)
		}
	}
}
