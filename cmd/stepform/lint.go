package main

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-stepform/internal/lint"
)

// errLintFailed is returned when the report has error-level issues.
var errLintFailed = errors.New("lint: form has errors")

func newLintCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Report data-quality problems in the form document",
		Long: `Check the source document against the FormConfig schema and report
duplicate identities, cyclic nesting, unknown data types, choices without
options and forms without visible steps. The fallback form is never linted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid format %q: must be one of text, json", format)
			}

			src, err := a.source()
			if err != nil {
				return err
			}
			if src == nil {
				return errors.New("stepform: lint requires --source")
			}

			doc, err := a.baseLoader().Load(cmd.Context(), src)
			if err != nil {
				return err
			}

			report, err := lint.Document(doc)
			if err != nil {
				return err
			}
			if err := writeReport(cmd, report, format); err != nil {
				return err
			}
			if report.HasErrors() {
				return errLintFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text|json)")
	return cmd
}

func writeReport(cmd *cobra.Command, report lint.Report, format string) error {
	out := cmd.OutOrStdout()
	if format == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	for _, issue := range report.Issues {
		if _, err := fmt.Fprintln(out, issue.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "%s: %d error(s), %d warning(s), %d info\n",
		report.Source,
		report.Count(lint.SeverityError),
		report.Count(lint.SeverityWarning),
		report.Count(lint.SeverityInfo),
	)
	return err
}
