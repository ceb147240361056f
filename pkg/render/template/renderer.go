package template

import (
	"io"
)

// TemplateRenderer executes template files or inline template content. When
// writers are supplied the output is also written to each of them.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any, out ...io.Writer) (string, error)
}
