package orchestrator_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-stepform/pkg/interpreter"
	"github.com/goliatone/go-stepform/pkg/orchestrator"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/testsupport"
)

type stubRenderer struct {
	name string
	last interpreter.View
	opts render.RenderOptions
}

func (s *stubRenderer) Name() string        { return s.name }
func (s *stubRenderer) ContentType() string { return "text/plain" }

func (s *stubRenderer) Render(_ context.Context, view interpreter.View, opts render.RenderOptions) ([]byte, error) {
	s.last = view
	s.opts = opts
	return []byte(s.name + ":" + view.Position), nil
}

func newRegistry(t *testing.T, renderers ...render.Renderer) *render.Registry {
	t.Helper()
	registry := render.NewRegistry()
	for _, r := range renderers {
		if err := registry.Register(r); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	return registry
}

func TestOrchestrator_GenerateFromConfig(t *testing.T) {
	stub := &stubRenderer{name: "stub"}
	orch := orchestrator.New(
		orchestrator.WithRegistry(newRegistry(t, stub)),
		orchestrator.WithDefaultRenderer("stub"),
	)

	cfg := testsupport.TwoStepConfig()
	out, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Config:        &cfg,
		Step:          1,
		RenderOptions: render.RenderOptions{Title: "Custom"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "stub:Step 2 of 2" {
		t.Fatalf("unexpected output %q", out)
	}
	if stub.last.Active == nil || stub.last.Active.Key != "details" {
		t.Fatalf("expected details step, got %+v", stub.last.Active)
	}
	if stub.opts.Title != "Custom" {
		t.Fatalf("render options not forwarded: %+v", stub.opts)
	}
}

func TestOrchestrator_StepIsClamped(t *testing.T) {
	orch := orchestrator.New()
	cfg := testsupport.TwoStepConfig()

	view, err := orch.Interpret(testsupport.Context(), orchestrator.Request{Config: &cfg, Step: 42})
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if view.Index != 1 || view.CanNext {
		t.Fatalf("expected last step, got index=%d canNext=%v", view.Index, view.CanNext)
	}
}

func TestOrchestrator_DefaultRendererFromFile(t *testing.T) {
	orch := orchestrator.New()

	out, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Source: schema.SourceFromFile(filepath.Join("testdata", "intake.json")),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	for _, want := range []string{"File intake", `name="a"`, "Step 1 of 1"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestOrchestrator_Errors(t *testing.T) {
	stub := &stubRenderer{name: "stub"}
	orch := orchestrator.New(orchestrator.WithRegistry(newRegistry(t, stub)))
	ctx := testsupport.Context()

	if _, err := orch.Generate(ctx, orchestrator.Request{}); err == nil {
		t.Fatal("expected error without a source")
	}

	cfg := testsupport.TwoStepConfig()
	if _, err := orch.Generate(ctx, orchestrator.Request{Config: &cfg, Renderer: "missing"}); err == nil {
		t.Fatal("expected error for unknown renderer")
	}

	// Without an explicit name the first registered renderer is used.
	out, err := orch.Generate(ctx, orchestrator.Request{Config: &cfg})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(string(out), "stub:") {
		t.Fatalf("expected stub output, got %q", out)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := orch.Generate(cancelled, orchestrator.Request{Config: &cfg}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if _, err := orch.Generate(ctx, orchestrator.Request{
		Source: schema.SourceFromFile(filepath.Join("testdata", "missing.json")),
	}); err == nil || !strings.Contains(err.Error(), "load document") {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestOrchestrator_AppliesTransformer(t *testing.T) {
	stub := &stubRenderer{name: "stub"}
	called := false
	orch := orchestrator.New(
		orchestrator.WithRegistry(newRegistry(t, stub)),
		orchestrator.WithTransformer(orchestrator.TransformerFunc(func(_ context.Context, cfg *schema.FormConfig) error {
			called = true
			cfg.Name = "Patched"
			return nil
		})),
	)

	cfg := testsupport.TwoStepConfig()
	if _, err := orch.Generate(testsupport.Context(), orchestrator.Request{Config: &cfg}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !called {
		t.Fatal("expected transformer to be invoked")
	}
	if stub.last.Name != "Patched" {
		t.Fatalf("transformer mutation missing: %q", stub.last.Name)
	}
}

func TestOrchestrator_TransformerErrorAborts(t *testing.T) {
	orch := orchestrator.New(
		orchestrator.WithRegistry(newRegistry(t, &stubRenderer{name: "stub"})),
		orchestrator.WithTransformer(orchestrator.TransformerFunc(func(context.Context, *schema.FormConfig) error {
			return errors.New("boom")
		})),
	)

	cfg := testsupport.TwoStepConfig()
	_, err := orch.Generate(testsupport.Context(), orchestrator.Request{Config: &cfg})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected transformer error, got %v", err)
	}
}

func TestOrchestrator_GenerateFromDocument(t *testing.T) {
	stub := &stubRenderer{name: "stub"}
	orch := orchestrator.New(orchestrator.WithRegistry(newRegistry(t, stub)))

	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "intake.json"))
	if _, err := orch.Generate(testsupport.Context(), orchestrator.Request{Document: &doc}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if stub.last.Name != "File intake" || stub.last.Count != 1 {
		t.Fatalf("unexpected view: %+v", stub.last)
	}
}
