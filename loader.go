package stepform

import (
	"log/slog"

	"github.com/goliatone/go-stepform/internal/loader"
	"github.com/goliatone/go-stepform/pkg/schema"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return loader.New(schema.NewLoaderOptions(options...))
}

// NewFallbackLoader wraps next so that any load or decode failure yields the
// embedded debug form instead of an error.
func NewFallbackLoader(next schema.Loader, logger *slog.Logger) schema.Loader {
	return loader.NewFallback(next, logger)
}
