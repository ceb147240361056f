// Package tui renders interpreted views for terminals and drives interactive
// navigation through survey prompts.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/goliatone/go-stepform/pkg/fields"
	"github.com/goliatone/go-stepform/pkg/interpreter"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/sanitize"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

const metaSeparator = " · "

// Renderer implements render.Renderer for terminals: a termenv-styled step
// list followed by the active step as glamour-rendered markdown.
type Renderer struct {
	settings settings
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a terminal renderer.
func New(options ...Option) *Renderer {
	s := defaultSettings()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&s)
	}
	return &Renderer{settings: s}
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the media type of Render output.
func (r *Renderer) ContentType() string {
	if r.settings.markdown {
		return "text/markdown; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Render writes the step list, the active step and its navigation line.
func (r *Renderer) Render(ctx context.Context, view interpreter.View, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	body := Markdown(view)
	if !r.settings.markdown {
		term, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.settings.theme.Style),
			glamour.WithWordWrap(r.settings.wordWrap),
		)
		if err != nil {
			return nil, fmt.Errorf("tui: configure markdown renderer: %w", err)
		}
		body, err = term.Render(body)
		if err != nil {
			return nil, fmt.Errorf("tui: render markdown: %w", err)
		}
	}

	var out bytes.Buffer
	if list := r.StepList(view); list != "" {
		out.WriteString(list)
		out.WriteByte('\n')
	}
	out.WriteString(body)
	if nav := r.NavigationLine(view); nav != "" {
		if !strings.HasSuffix(body, "\n") {
			out.WriteByte('\n')
		}
		out.WriteString(nav)
		out.WriteByte('\n')
	}
	return out.Bytes(), nil
}

// StepList renders one line per visible step, marking the active one.
func (r *Renderer) StepList(view interpreter.View) string {
	if view.Empty || len(view.Steps) == 0 {
		return ""
	}
	output := termenv.NewOutput(&bytes.Buffer{}, termenv.WithProfile(r.settings.profile))
	pad := strings.Repeat(" ", len(r.settings.theme.ActiveMarker))

	var b strings.Builder
	for _, step := range view.Steps {
		line := fmt.Sprintf("%d. %s", step.Index+1, step.Label)
		if step.Active {
			styled := output.String(r.settings.theme.ActiveMarker + " " + line).
				Bold().
				Foreground(output.Color(r.settings.theme.Accent))
			b.WriteString(styled.String())
		} else {
			b.WriteString(pad + " " + line)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// NavigationLine renders the previous/next controls around the position
// label. Unavailable controls are faint.
func (r *Renderer) NavigationLine(view interpreter.View) string {
	if view.Active == nil || view.Active.Navigation == nil {
		return ""
	}
	nav := view.Active.Navigation
	output := termenv.NewOutput(&bytes.Buffer{}, termenv.WithProfile(r.settings.profile))

	control := func(label string, enabled bool) string {
		text := "[" + label + "]"
		if enabled {
			return output.String(text).Bold().String()
		}
		return output.String(text).Faint().String()
	}
	return strings.Join([]string{
		control(nav.PreviousLabel, nav.HasPrevious),
		view.Position,
		control(nav.NextLabel, nav.HasNext),
	}, "  ")
}

// Markdown renders the header and active step of view as markdown.
func Markdown(view interpreter.View) string {
	var b strings.Builder

	if name := strings.TrimSpace(view.Name); name != "" {
		b.WriteString("# " + escapeMarkdown(name) + "\n\n")
	}
	if meta := joinNonEmpty(metaSeparator, view.FormTypeName, view.ProgramName); meta != "" {
		b.WriteString("_" + escapeMarkdown(meta) + "_\n\n")
	}

	if view.Empty || view.Active == nil {
		b.WriteString(escapeMarkdown(view.EmptyMessage) + "\n")
		return b.String()
	}

	step := view.Active
	b.WriteString("## " + escapeMarkdown(step.Title) + "\n\n")
	if step.Subtitle != "" {
		b.WriteString(escapeMarkdown(step.Subtitle) + "\n\n")
	}
	for _, field := range step.Fields {
		writeField(&b, field, 0)
	}
	return b.String()
}

func writeField(b *strings.Builder, field fields.Field, depth int) {
	indent := strings.Repeat("  ", depth)

	b.WriteString(indent + "- **" + escapeMarkdown(field.Label) + "**")
	if field.Required {
		b.WriteString(" \\*")
	}
	if summary := fieldSummary(field); summary != "" {
		b.WriteString(": " + escapeMarkdown(summary))
	}
	var flags []string
	if field.ReadOnly {
		flags = append(flags, "read-only")
	}
	if field.Hidden {
		flags = append(flags, "hidden")
	}
	if field.Truncated {
		flags = append(flags, "nested fields omitted")
	}
	if len(flags) > 0 {
		b.WriteString(" _(" + strings.Join(flags, ", ") + ")_")
	}
	b.WriteByte('\n')

	if desc := descriptionText(field.Description); desc != "" {
		b.WriteString(indent + "  " + escapeMarkdown(desc) + "\n")
	}
	if msg := strings.TrimSpace(field.ValidationMessage); msg != "" {
		b.WriteString(indent + "  **" + escapeMarkdown(msg) + "**\n")
	}
	for _, child := range field.Children {
		writeField(b, child, depth+1)
	}
}

func fieldSummary(field fields.Field) string {
	switch field.Kind {
	case fields.KindSelect:
		labels := make([]string, 0, len(field.Options))
		for _, option := range field.Options {
			if option.Placeholder {
				continue
			}
			labels = append(labels, option.Label)
		}
		if field.Multiple {
			return "any of " + strings.Join(labels, ", ")
		}
		return "one of " + strings.Join(labels, ", ")
	case fields.KindChoicePlaceholder:
		return field.Notice
	case fields.KindToggle:
		return "yes / no"
	case fields.KindGroup:
		return ""
	default:
		return field.Placeholder
	}
}

func descriptionText(desc fields.Description) string {
	if desc.IsZero() {
		return ""
	}
	if desc.Kind == fields.DescriptionMarkup {
		return strings.TrimSpace(sanitize.Text(desc.Content))
	}
	return strings.TrimSpace(desc.Content)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, sep)
}
