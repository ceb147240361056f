// Package loader resolves form documents from files, fs.FS bundles, HTTP
// endpoints, and the embedded debug document.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-stepform/internal/debugdata"
	"github.com/goliatone/go-stepform/pkg/schema"
)

// ErrHTTPDisabled is returned for URL sources when no HTTP client is
// configured.
var ErrHTTPDisabled = errors.New("loader: http support disabled")

// Loader implements schema.Loader by delegating to file, fs.FS, or HTTP
// strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// Ensure the implementation satisfies the public interface.
var _ schema.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options schema.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTP:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a document from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case schema.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case schema.SourceKindURL:
		if !l.allowHTTP {
			return schema.Document{}, ErrHTTPDisabled
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	case schema.SourceKindEmbedded:
		data = debugdata.Raw()
	default:
		err = fmt.Errorf("loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return schema.Document{}, fmt.Errorf("loader: load %s: %w", src.Location(), err)
	}

	return schema.NewDocument(src, data)
}

// Fallback wraps a Loader so failures resolve to the embedded debug document.
// The failure is logged; callers always receive a usable Document.
type Fallback struct {
	next   schema.Loader
	logger *slog.Logger
}

var _ schema.Loader = (*Fallback)(nil)

// NewFallback wraps next. A nil logger uses slog.Default.
func NewFallback(next schema.Loader, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{next: next, logger: logger}
}

// Load returns the document from the wrapped loader, or the debug document
// when loading or decoding fails.
func (f *Fallback) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if f.next != nil && src != nil {
		doc, err := f.next.Load(ctx, src)
		if err == nil {
			if _, err = doc.Config(); err == nil {
				return doc, nil
			}
		}
		f.logger.WarnContext(ctx, "form source unavailable, using debug document",
			"source", src.Location(),
			"err", err,
		)
	}
	return debugdata.Document(), nil
}
