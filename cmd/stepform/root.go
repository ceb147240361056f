package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-stepform/internal/config"
	"github.com/goliatone/go-stepform/internal/loader"
	"github.com/goliatone/go-stepform/internal/logging"
	"github.com/goliatone/go-stepform/pkg/interpreter"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/renderers/jsonview"
	"github.com/goliatone/go-stepform/pkg/renderers/tui"
	"github.com/goliatone/go-stepform/pkg/renderers/vanilla"
	"github.com/goliatone/go-stepform/pkg/sanitize"
	"github.com/goliatone/go-stepform/pkg/schema"
)

// RootOptions holds the persistent flags shared by every command.
type RootOptions struct {
	ConfigPath string
	Source     string
	Fallback   bool
	LogLevel   string
	Locale     string
	Sanitize   bool
}

// app is the resolved runtime state built before each command runs.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

// NewRootCommand creates the stepform command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	state := &app{}

	cmd := &cobra.Command{
		Use:   "stepform",
		Short: "Render multi-step forms from FormConfig documents",
		Long: `stepform interprets a FormConfig document (JSON or YAML) and presents it
one step at a time as HTML, JSON, Markdown, an HTTP service or a terminal session.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.setup(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "configuration file (YAML)")
	flags.StringVarP(&opts.Source, "source", "s", "", "form document path or URL")
	flags.BoolVar(&opts.Fallback, "fallback", true, "use the embedded debug form when the source cannot be loaded")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")
	flags.StringVar(&opts.Locale, "locale", "", "BCP 47 locale for labels and messages")
	flags.BoolVar(&opts.Sanitize, "sanitize", true, "sanitize markup descriptions")

	cmd.AddCommand(newRenderCommand(state))
	cmd.AddCommand(newInspectCommand(state))
	cmd.AddCommand(newLintCommand(state))
	cmd.AddCommand(newServeCommand(state))
	cmd.AddCommand(newTUICommand(state))

	return cmd
}

// setup loads the configuration file and lets explicitly set flags override
// it.
func (a *app) setup(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = opts.Source
	}
	if flags.Changed("fallback") || opts.ConfigPath == "" {
		cfg.Fallback = opts.Fallback
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.LogLevel
	}
	if flags.Changed("locale") {
		cfg.Locale = opts.Locale
	}
	if flags.Changed("sanitize") || opts.ConfigPath == "" {
		cfg.Sanitize = opts.Sanitize
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.NewWriter(cmd.ErrOrStderr(), level, logging.Format(cfg.LogFormat))
	return nil
}

func (a *app) source() (schema.Source, error) {
	return schema.ParseSource(a.cfg.Source)
}

func (a *app) baseLoader() schema.Loader {
	var options []schema.LoaderOption
	if a.cfg.HTTP.Enabled {
		options = append(options, schema.WithHTTP(a.cfg.HTTP.Timeout))
	}
	return loader.New(schema.NewLoaderOptions(options...))
}

// documentLoader returns the configured loader. With fallback enabled it
// never fails.
func (a *app) documentLoader() schema.Loader {
	base := a.baseLoader()
	if !a.cfg.Fallback {
		return base
	}
	return loader.NewFallback(base, logging.WithComponent(a.logger, "loader"))
}

// loadForm resolves and decodes the configured source.
func (a *app) loadForm(ctx context.Context) (schema.FormConfig, error) {
	src, err := a.source()
	if err != nil {
		return schema.FormConfig{}, err
	}
	if src == nil && !a.cfg.Fallback {
		return schema.FormConfig{}, errors.New("stepform: --source is required when fallback is disabled")
	}

	doc, err := a.documentLoader().Load(ctx, src)
	if err != nil {
		return schema.FormConfig{}, err
	}
	form, err := doc.Config()
	if err != nil {
		return schema.FormConfig{}, fmt.Errorf("stepform: decode %s: %w", doc.Location(), err)
	}
	a.logger.DebugContext(ctx, "form loaded", "source", doc.Location(), "steps", len(form.Steps))
	return form, nil
}

func (a *app) interpreter() *interpreter.Interpreter {
	options := []interpreter.Option{
		interpreter.WithLocale(a.cfg.Locale),
		interpreter.WithMaxDepth(a.cfg.MaxDepth),
	}
	if a.cfg.Sanitize {
		options = append(options, interpreter.WithMarkupPolicy(sanitize.Markup))
	}
	return interpreter.New(options...)
}

// registry holds every renderer the command line can select.
func (a *app) registry() (*render.Registry, error) {
	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	for _, r := range []render.Renderer{html, jsonview.New(jsonview.WithIndent("  ")), tui.New()} {
		if err := registry.Register(r); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// renderOptions carries the configured theme.
func (a *app) renderOptions() (render.RenderOptions, error) {
	selection, err := a.cfg.ThemeSelection()
	if err != nil {
		return render.RenderOptions{}, err
	}
	return render.RenderOptions{Theme: render.ThemeConfig(selection, nil)}, nil
}
