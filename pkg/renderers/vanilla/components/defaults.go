package components

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-stepform/pkg/fields"
)

const templatePrefix = "templates/components/"

// Canonical component names. They match fields.Kind values.
const (
	NameText              = string(fields.KindText)
	NameTextarea          = string(fields.KindTextarea)
	NameNumber            = string(fields.KindNumber)
	NameToggle            = string(fields.KindToggle)
	NameSelect            = string(fields.KindSelect)
	NameChoicePlaceholder = string(fields.KindChoicePlaceholder)
	NameGroup             = string(fields.KindGroup)
)

// State classes marking a field or group wrapper.
const (
	ClassHidden    = "is-hidden"
	ClassReadOnly  = "is-readonly"
	ClassTruncated = "is-truncated"
)

// PartialKeys maps component names onto theme partial keys.
var PartialKeys = map[string]string{
	NameText:              "forms.text",
	NameTextarea:          "forms.textarea",
	NameNumber:            "forms.number",
	NameToggle:            "forms.toggle",
	NameSelect:            "forms.select",
	NameChoicePlaceholder: "forms.choice-placeholder",
}

// DefaultPartials returns the built-in template path for every partial key.
func DefaultPartials() map[string]string {
	out := make(map[string]string, len(PartialKeys))
	for name, key := range PartialKeys {
		out[key] = templatePath(name)
	}
	return out
}

func templatePath(name string) string {
	return templatePrefix + strings.ReplaceAll(name, "-", "_") + ".tmpl"
}

// NewDefaultRegistry constructs a registry with a component for every
// fields.Kind.
func NewDefaultRegistry() *Registry {
	registry := New()
	for name, key := range PartialKeys {
		registry.MustRegister(name, Descriptor{
			Renderer: templateComponentRenderer(key, templatePath(name)),
		})
	}
	registry.MustRegister(NameGroup, Descriptor{
		Renderer: groupRenderer,
	})
	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field fields.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if data.ThemePartials != nil {
			if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		payload := map[string]any{
			"field":      field,
			"control_id": ControlID(field.Name),
		}
		render := data.Template.RenderTemplate
		if isInlineTemplate(resolvedTemplate) {
			render = data.Template.RenderString
		}
		rendered, err := render(resolvedTemplate, payload)
		if err != nil {
			return fmt.Errorf("components: render %q partial: %w", partialKey, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// isInlineTemplate reports whether a theme partial holds template content
// rather than a template path.
func isInlineTemplate(partial string) bool {
	return strings.Contains(partial, "{{") || strings.Contains(partial, "{%")
}

// groupRenderer writes a fieldset holding the group's label, description,
// and each child rendered through RenderChild. Recursion stays in Go so
// nesting depth is bounded only by the field tree.
func groupRenderer(buf *bytes.Buffer, field fields.Field, data ComponentData) error {
	var builder strings.Builder

	classes := []string{"stepform-group"}
	if field.Hidden {
		classes = append(classes, ClassHidden)
	}

	builder.WriteString(`<fieldset class="`)
	builder.WriteString(strings.Join(classes, " "))
	builder.WriteString(`" role="group"`)
	if key := strings.TrimSpace(field.Key); key != "" {
		builder.WriteString(` data-field-key="`)
		builder.WriteString(html.EscapeString(key))
		builder.WriteString(`"`)
	}
	if field.Hidden {
		builder.WriteString(` data-hidden="true"`)
	}
	labelID := ""
	if strings.TrimSpace(field.Label) != "" {
		labelID = LabelID(field.Name)
		builder.WriteString(` aria-labelledby="`)
		builder.WriteString(html.EscapeString(labelID))
		builder.WriteString(`"`)
	}
	builder.WriteString(">\n")

	if label := strings.TrimSpace(field.Label); label != "" {
		builder.WriteString(`<legend id="`)
		builder.WriteString(html.EscapeString(labelID))
		builder.WriteString(`" class="stepform-group-title">`)
		builder.WriteString(html.EscapeString(label))
		builder.WriteString("</legend>\n")
	}
	WriteDescription(&builder, field.Description)

	builder.WriteString(`<div class="stepform-group-children">` + "\n")
	if data.RenderChild != nil {
		for _, child := range field.Children {
			rendered, err := data.RenderChild(child)
			if err != nil {
				return err
			}
			builder.WriteString(rendered)
		}
	}
	builder.WriteString("</div>\n</fieldset>\n")

	buf.WriteString(builder.String())
	return nil
}

// WriteDescription writes a field description. Markup is emitted verbatim;
// text is escaped.
func WriteDescription(builder *strings.Builder, desc fields.Description) {
	if desc.IsZero() {
		return
	}
	builder.WriteString(`<small class="stepform-description">`)
	if desc.Kind == fields.DescriptionMarkup {
		builder.WriteString(desc.Content)
	} else {
		builder.WriteString(html.EscapeString(desc.Content))
	}
	builder.WriteString("</small>\n")
}

// ControlID returns the DOM id of the control bound to name.
func ControlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "sf-" + trimmed
}

// LabelID returns the DOM id of the label or legend for name.
func LabelID(name string) string {
	controlID := ControlID(name)
	if controlID == "" {
		return ""
	}
	return controlID + "-label"
}
