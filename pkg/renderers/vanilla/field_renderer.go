package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/goliatone/go-stepform/pkg/fields"
	"github.com/goliatone/go-stepform/pkg/render/template"
	"github.com/goliatone/go-stepform/pkg/renderers/vanilla/components"
)

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, partials map[string]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		partials:       partials,
		usedComponents: make(map[string]struct{}),
	}
}

func (r *componentRenderer) render(field fields.Field) (string, error) {
	componentName := string(field.Kind)
	if componentName == "" {
		componentName = components.NameText
	}

	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, field.Key)
	}

	data := components.ComponentData{
		Template:      r.templates,
		RenderChild:   r.render,
		ThemePartials: r.partials,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, field.Key, err)
	}

	r.usedComponents[componentName] = struct{}{}

	if field.IsGroup() {
		return control.String(), nil
	}
	return buildFieldMarkup(field, componentName, control.String()), nil
}

func (r *componentRenderer) assets() (stylesheets []string, scripts []components.Script) {
	if r.registry == nil || len(r.usedComponents) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Assets(names)
}

func buildFieldMarkup(field fields.Field, componentName, control string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	classes := []string{string(ClassField)}
	if field.Hidden {
		classes = append(classes, ClassHidden)
	}
	if field.ReadOnly {
		classes = append(classes, ClassReadOnly)
	}
	if field.Truncated {
		classes = append(classes, ClassTruncated)
	}

	builder.WriteString(`<div class="`)
	builder.WriteString(strings.Join(classes, " "))
	builder.WriteString(`"`)

	if componentName != "" {
		builder.WriteString(` data-component="`)
		builder.WriteString(html.EscapeString(componentName))
		builder.WriteString(`"`)
	}
	if key := strings.TrimSpace(field.Key); key != "" {
		builder.WriteString(` data-field-key="`)
		builder.WriteString(html.EscapeString(key))
		builder.WriteString(`"`)
	}
	if field.Hidden {
		builder.WriteString(` data-hidden="true"`)
	}
	if field.Truncated {
		builder.WriteString(` data-truncated="true"`)
	}
	builder.WriteString(">\n")

	if label := strings.TrimSpace(field.Label); label != "" {
		builder.WriteString(`    <label for="`)
		builder.WriteString(html.EscapeString(components.ControlID(field.Name)))
		builder.WriteString(`" id="`)
		builder.WriteString(html.EscapeString(components.LabelID(field.Name)))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(label))
		if field.Required {
			builder.WriteString(`<span class="stepform-required" aria-hidden="true">*</span>`)
		}
		builder.WriteString("</label>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	var desc strings.Builder
	components.WriteDescription(&desc, field.Description)
	if desc.Len() > 0 {
		builder.WriteString("    ")
		builder.WriteString(desc.String())
	}

	if msg := strings.TrimSpace(field.ValidationMessage); msg != "" {
		builder.WriteString(`    <small class="stepform-validation" role="alert">`)
		builder.WriteString(html.EscapeString(msg))
		builder.WriteString("</small>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}
