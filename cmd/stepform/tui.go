package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-stepform/pkg/interpreter"
	"github.com/goliatone/go-stepform/pkg/renderers/tui"
)

func newTUICommand(a *app) *cobra.Command {
	var (
		width int
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Walk through the form in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			form, err := a.loadForm(ctx)
			if err != nil {
				return err
			}

			options := []tui.Option{
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())),
				tui.WithWordWrap(width),
			}
			if raw {
				options = append(options, tui.WithRawMarkdown())
			}

			navigator, err := tui.NewNavigator(interpreter.NewSessionWith(a.interpreter(), form), options...)
			if err != nil {
				return err
			}
			view, err := navigator.Run(ctx)
			if errors.Is(err, tui.ErrAborted) {
				a.logger.DebugContext(ctx, "session aborted", "position", view.Position)
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "word wrap width")
	cmd.Flags().BoolVar(&raw, "raw", false, "print Markdown without styling")
	return cmd
}
