package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig flattens a theme selection into renderer configuration. Variant
// tokens, templates, and assets override the base manifest; fallbacks fill
// partial keys the manifest leaves unset. A nil selection returns nil.
func ThemeConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil {
		return nil
	}

	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: copyStringMap(fallbacks),
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}

	manifest := selection.Manifest
	if manifest == nil {
		cfg.AssetURL = func(string) string { return "" }
		return cfg
	}

	prefix := manifest.Assets.Prefix
	files := copyStringMap(manifest.Assets.Files)
	mergeStrings(cfg.Tokens, manifest.Tokens)
	cfg.Partials = mergeStrings(cfg.Partials, manifest.Templates)

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		mergeStrings(cfg.Tokens, variant.Tokens)
		cfg.Partials = mergeStrings(cfg.Partials, variant.Templates)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
		files = mergeStrings(files, variant.Assets.Files)
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars[cssVarName(key)] = value
	}
	cfg.AssetURL = assetResolver(prefix, files)
	return cfg
}

// CSSVarsStyle renders CSS custom properties as a sorted declaration list
// suitable for a style attribute or :root block.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteByte(';')
	}
	return b.String()
}

func cssVarName(token string) string {
	token = strings.TrimSpace(token)
	token = strings.NewReplacer(".", "-", "_", "-", " ", "-").Replace(token)
	if strings.HasPrefix(token, "--") {
		return token
	}
	return "--" + token
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		file := strings.TrimSpace(files[key])
		if file == "" {
			return ""
		}
		if strings.HasPrefix(file, "/") || strings.Contains(file, "://") || prefix == "" {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func mergeStrings(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

// ManifestSelector resolves themes from an in-memory set of manifests. It
// satisfies theme.ThemeSelector.
type ManifestSelector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector constructs a selector that falls back to defaultTheme
// and defaultVariant when Select receives empty names.
func NewManifestSelector(defaultTheme, defaultVariant string) *ManifestSelector {
	return &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
}

// Register adds a manifest keyed by its Name. Duplicate names are rejected.
func (s *ManifestSelector) Register(manifest *theme.Manifest) error {
	if manifest == nil {
		return fmt.Errorf("render: theme manifest is required")
	}
	name := strings.TrimSpace(manifest.Name)
	if name == "" {
		return fmt.Errorf("render: theme manifest name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[name]; exists {
		return fmt.Errorf("render: theme %q already registered", name)
	}
	s.manifests[name] = manifest
	return nil
}

// Select resolves name and variant, applying the defaults for empty values.
// Unknown variants are an error; an empty variant selects the base manifest.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}

	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}
