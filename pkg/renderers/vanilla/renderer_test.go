package vanilla

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-stepform/internal/debugdata"
	"github.com/goliatone/go-stepform/pkg/interpreter"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/render/template/pongo"
	"github.com/goliatone/go-stepform/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/sequencer"
	"github.com/goliatone/go-stepform/pkg/testsupport"
)

func renderView(t *testing.T, renderer *Renderer, view interpreter.View, options render.RenderOptions) string {
	t.Helper()

	out, err := renderer.Render(context.Background(), view, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func mustRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()

	renderer, err := New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func assertContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, output)
		}
	}
}

func assertNotContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(output, fragment) {
			t.Fatalf("expected output not to contain %q\n%s", fragment, output)
		}
	}
}

func TestRendererMetadata(t *testing.T) {
	renderer := mustRenderer(t)
	if renderer.Name() != "vanilla" {
		t.Fatalf("unexpected name %q", renderer.Name())
	}
	if !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}

func TestRenderFirstStep(t *testing.T) {
	view := interpreter.Interpret(testsupport.TwoStepConfig(), sequencer.State{})
	output := renderView(t, mustRenderer(t), view, render.RenderOptions{})

	assertContains(t, output,
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<h1>Intake</h1>",
		`<p class="stepform-meta">Application · Housing</p>`,
		`<label for="sf-firstname" id="sf-firstname-label">First name<span class="stepform-required" aria-hidden="true">*</span></label>`,
		`<input type="text" id="sf-firstname" name="firstname" class="stepform-input" placeholder="Please enter a value..." required>`,
		`<option value="" disabled selected hidden>Select an option</option>`,
		`<option value="y">Yes</option>`,
		`<option value="n">No</option>`,
		`<span class="stepform-position">Step 1 of 2</span>`,
		`data-nav="previous" disabled>Previous</button>`,
		`data-nav="next">Next</button>`,
		`aria-current="step"`,
		".stepform-app {",
	)
	assertNotContains(t, output, "Buttons", `class="stepform-empty"`)

	first := strings.Index(output, `data-field-key="first"`)
	answer := strings.Index(output, `data-field-key="answer"`)
	if first < 0 || answer < 0 || first > answer {
		t.Fatalf("expected fields in order, got first=%d answer=%d", first, answer)
	}
}

func TestRenderLastStepDescriptionMarkup(t *testing.T) {
	view := interpreter.Interpret(testsupport.TwoStepConfig(), sequencer.State{Index: 1, Count: 2})
	output := renderView(t, mustRenderer(t), view, render.RenderOptions{})

	assertContains(t, output,
		`<small class="stepform-description"><b>Optional</b> context</small>`,
		`<textarea id="sf-notes" name="notes" rows="4"`,
		`placeholder="Please provide additional details..."`,
		`data-nav="previous">Previous</button>`,
		`data-nav="next" disabled>Next</button>`,
		"Step 2 of 2",
	)
}

func TestRenderTextDescriptionIsEscaped(t *testing.T) {
	cfg := schema.FormConfig{
		Name: "Escapes",
		Steps: []schema.Step{{
			StepID: "only",
			Actions: []schema.Action{{
				ActionID: "a",
				Type:     schema.ActionTypeFieldInput,
				Properties: schema.FieldProperties{
					LogicalName: "a",
					Label:       "A & B",
					Description: "use x > 3",
				},
			}},
		}},
	}
	output := renderView(t, mustRenderer(t), interpreter.Interpret(cfg, sequencer.State{}), render.RenderOptions{})

	assertContains(t, output,
		`<small class="stepform-description">use x &gt; 3</small>`,
		`>A &amp; B</label>`,
		`placeholder="Please input a value..."`,
	)
}

func TestRenderEmptyForm(t *testing.T) {
	cfg := schema.FormConfig{
		Name:  "Nothing",
		Steps: []schema.Step{{StepID: "s", Actions: []schema.Action{{ActionID: "b", Type: "Button"}}}},
	}
	output := renderView(t, mustRenderer(t), interpreter.Interpret(cfg, sequencer.State{}), render.RenderOptions{})

	assertContains(t, output,
		`<p class="stepform-empty">No field inputs were provided in this configuration.</p>`,
	)
	assertNotContains(t, output, `class="stepform-navigation"`, `class="stepform-steps"`)
}

func TestRenderInteractiveEndpoints(t *testing.T) {
	view := interpreter.Interpret(testsupport.TwoStepConfig(), sequencer.State{})
	output := renderView(t, mustRenderer(t), view, render.RenderOptions{
		BasePath:    "/forms/intake/",
		Interactive: true,
	})

	assertContains(t, output,
		`<form method="post" action="/forms/intake/previous"><button type="submit" data-nav="previous" disabled>`,
		`<form method="post" action="/forms/intake/next"><button type="submit" data-nav="next">`,
		`action="/forms/intake/steps/1"`,
	)
}

func TestRenderPartial(t *testing.T) {
	view := interpreter.Interpret(testsupport.TwoStepConfig(), sequencer.State{})
	output := renderView(t, mustRenderer(t), view, render.RenderOptions{Partial: true})

	if !strings.HasPrefix(output, `<div class="stepform-app"`) {
		t.Fatalf("expected partial to start with app container, got %q", output[:min(len(output), 80)])
	}
	assertNotContains(t, output, "<!DOCTYPE html>", "<head>", "</body>")
}

func TestRenderStylesheetsDisableInlineCSS(t *testing.T) {
	view := interpreter.Interpret(testsupport.TwoStepConfig(), sequencer.State{})
	output := renderView(t, mustRenderer(t), view, render.RenderOptions{
		Title:       "Custom title",
		Stylesheets: []string{"/assets/site.css"},
	})

	assertContains(t, output,
		"<title>Custom title</title>",
		`<link rel="stylesheet" href="/assets/site.css">`,
	)
	assertNotContains(t, output, ".stepform-app {")
}

func TestRenderNestedGroup(t *testing.T) {
	cfg, err := debugdata.Document().Config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	view := interpreter.Interpret(cfg, sequencer.State{Index: 1, Count: 3})
	output := renderView(t, mustRenderer(t), view, render.RenderOptions{})

	assertContains(t, output,
		`<fieldset class="stepform-group" role="group" data-field-key="members" aria-labelledby="sf-members-label">`,
		`<legend id="sf-members-label" class="stepform-group-title">Other members</legend>`,
		`<small class="stepform-description">List everyone who lives with you.</small>`,
		`<label for="sf-member_name" id="sf-member_name-label">Full name</label>`,
		`<option value="spouse">Spouse or partner</option>`,
	)

	open := strings.Index(output, "<fieldset")
	child := strings.Index(output, `data-field-key="member-name"`)
	closing := strings.Index(output, "</fieldset>")
	if !(open < child && child < closing) {
		t.Fatalf("expected child field inside the group, got open=%d child=%d close=%d", open, child, closing)
	}
}

func TestRenderThemeConfig(t *testing.T) {
	overrides := fstest.MapFS{
		"themes/civic/text.tmpl": {Data: []byte(`<input type="text" id="{{ control_id }}" class="civic-input">`)},
	}
	engine, err := pongo.New(pongo.WithFS(TemplatesFS()), pongo.WithFS(overrides))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	renderer := mustRenderer(t, WithTemplateRenderer(engine))

	view := interpreter.Interpret(testsupport.TwoStepConfig(), sequencer.State{})
	output := renderView(t, renderer, view, render.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme:    "civic",
			Variant:  "dark",
			Partials: map[string]string{"forms.text": "themes/civic/text.tmpl"},
			CSSVars:  map[string]string{"--brand": "#102030"},
			AssetURL: func(name string) string { return "/themes/civic/" + name },
		},
	})

	assertContains(t, output,
		`data-theme="civic"`,
		`data-theme-variant="dark"`,
		`:root { --brand: #102030; }`,
		`<input type="text" id="sf-firstname" class="civic-input">`,
		`<link rel="stylesheet" href="/themes/civic/stepform.css">`,
	)
}

func TestRenderUnknownComponent(t *testing.T) {
	renderer := mustRenderer(t, WithComponentRegistry(components.New()))
	view := interpreter.Interpret(testsupport.TwoStepConfig(), sequencer.State{})

	_, err := renderer.Render(context.Background(), view, render.RenderOptions{})
	if err == nil {
		t.Fatalf("expected error for unregistered component")
	}
	if !strings.Contains(err.Error(), `component "text" not registered for field "first"`) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRenderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	view := interpreter.Interpret(testsupport.TwoStepConfig(), sequencer.State{})
	_, err := mustRenderer(t).Render(ctx, view, render.RenderOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBuildFieldMarkupStateClasses(t *testing.T) {
	markup := buildFieldMarkup(fieldsFixture(), "text", `<input type="text">`)

	assertContains(t, markup,
		`<div class="stepform-field is-hidden is-readonly is-truncated" data-component="text" data-field-key="k" data-hidden="true" data-truncated="true">`,
		`    <input type="text">`,
		`<small class="stepform-validation" role="alert">Required &lt;now&gt;</small>`,
	)
	assertNotContains(t, markup, "<label")
}

func TestRenderHiddenGroupAndChildShareStateClass(t *testing.T) {
	cfg := testsupport.MustDecode(t, `
Name: Hidden markers
Steps:
  - StepId: only
    Name: Only
    Actions:
      - ActionId: household
        Type: Field_Input
        Properties:
          LogicalName: household
          Label: Household
          IsHidden: true
          ChildActions:
            - ActionId: size
              Type: Field_Input
              Properties:
                LogicalName: size
                Label: Size
                DataType: WholeNumber
                IsHidden: true
`)
	view := interpreter.Interpret(cfg, sequencer.State{})
	output := renderView(t, mustRenderer(t), view, render.RenderOptions{})

	assertContains(t, output,
		`<fieldset class="stepform-group `+components.ClassHidden+`"`,
		`<div class="stepform-field `+components.ClassHidden+`" data-component="number"`,
	)
	if ClassHidden != components.ClassHidden {
		t.Fatalf("wrapper and group hidden classes differ: %q vs %q", ClassHidden, components.ClassHidden)
	}
}
