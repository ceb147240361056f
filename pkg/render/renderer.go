package render

import (
	"context"

	"github.com/goliatone/go-stepform/pkg/interpreter"
)

// Renderer converts an interpreted View into a byte representation (HTML,
// JSON, terminal markdown).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view interpreter.View, options RenderOptions) ([]byte, error)
}
