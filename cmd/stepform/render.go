package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-stepform/pkg/orchestrator"
)

// formatRenderers maps --format values onto registered renderer names.
var formatRenderers = map[string]string{
	"html":     "vanilla",
	"json":     "json",
	"markdown": "tui",
}

type renderOptions struct {
	format string
	step   int
	out    string
	title  string
}

func newRenderCommand(a *app) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one step of the form",
		Long: `Render one step of the form as a standalone HTML page, a JSON view, or
terminal Markdown. Steps are numbered from 1 in display order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "html", "output format (html|json|markdown)")
	cmd.Flags().IntVar(&opts.step, "step", 1, "step number to render")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.title, "title", "", "page title override")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, opts *renderOptions) error {
	rendererName, ok := formatRenderers[opts.format]
	if !ok {
		return fmt.Errorf("invalid format %q: must be one of html, json, markdown", opts.format)
	}

	ctx := cmd.Context()
	form, err := a.loadForm(ctx)
	if err != nil {
		return err
	}
	registry, err := a.registry()
	if err != nil {
		return err
	}
	renderOpts, err := a.renderOptions()
	if err != nil {
		return err
	}
	renderOpts.Title = opts.title

	gen := orchestrator.New(
		orchestrator.WithInterpreter(a.interpreter()),
		orchestrator.WithRegistry(registry),
	)
	output, err := gen.Generate(ctx, orchestrator.Request{
		Config:        &form,
		Step:          opts.step - 1,
		Renderer:      rendererName,
		RenderOptions: renderOpts,
	})
	if err != nil {
		return err
	}

	if opts.out == "" {
		_, err = cmd.OutOrStdout().Write(output)
		return err
	}
	if err := os.WriteFile(opts.out, output, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	a.logger.InfoContext(ctx, "form written", "path", opts.out, "format", opts.format)
	return nil
}
