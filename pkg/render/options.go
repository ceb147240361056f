package render

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the interpreted View.
type RenderOptions struct {
	// BasePath prefixes navigation endpoints when Interactive is set, e.g.
	// "/forms/intake" produces forms posting to "/forms/intake/next".
	BasePath string
	// Interactive renders navigation as forms posting to BasePath. Without it
	// controls are rendered as disabled-aware buttons only.
	Interactive bool
	// Partial renders the step section without the surrounding page.
	Partial bool
	// Title overrides the page title derived from the form name.
	Title string
	// Stylesheets are linked from the page head in order.
	Stylesheets []string
	// Theme carries resolved theme tokens, partial overrides, and assets.
	Theme *theme.RendererConfig
}

// Endpoint joins BasePath and a navigation action.
func (o RenderOptions) Endpoint(action string) string {
	base := strings.TrimRight(strings.TrimSpace(o.BasePath), "/")
	action = strings.Trim(strings.TrimSpace(action), "/")
	if action == "" {
		if base == "" {
			return "/"
		}
		return base
	}
	return base + "/" + action
}

// StepEndpoint returns the jump endpoint for a step index.
func (o RenderOptions) StepEndpoint(index int) string {
	return o.Endpoint(fmt.Sprintf("steps/%d", index))
}
