package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-stepform/pkg/interpreter"
	"github.com/goliatone/go-stepform/pkg/sequencer"
)

func newInspectCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the interpreted view as JSON",
		Long: `Print the interpreted view of the first step as JSON. With --all every
visible step is printed in display order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := a.loadForm(cmd.Context())
			if err != nil {
				return err
			}

			session := interpreter.NewSessionWith(a.interpreter(), form)
			var payload any = session.View()
			if all {
				payload = allViews(session)
			}

			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return err
			}
			data = append(data, '\n')
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "print every step")
	return cmd
}

// allViews walks the session from the first to the last step.
func allViews(session *interpreter.Session) []interpreter.View {
	view := session.Restore(sequencer.State{})
	views := []interpreter.View{view}
	for view.CanNext {
		view = session.GoNext()
		views = append(views, view)
	}
	return views
}
