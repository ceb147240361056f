// Package config loads the stepform command configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-stepform/pkg/render"
)

// Store backends for server navigation state.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the full command configuration. Zero values are replaced by
// Default before validation.
type Config struct {
	Source    string `yaml:"source"`
	Fallback  bool   `yaml:"fallback"`
	Locale    string `yaml:"locale" validate:"omitempty,bcp47_language_tag"`
	LogLevel  string `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	LogFormat string `yaml:"log_format" validate:"omitempty,oneof=text json"`
	Sanitize  bool   `yaml:"sanitize"`
	MaxDepth  int    `yaml:"max_depth" validate:"gte=0"`

	HTTP   HTTPConfig   `yaml:"http"`
	Server ServerConfig `yaml:"server"`
	Theme  ThemeConfig  `yaml:"theme"`
}

// HTTPConfig controls remote form sources.
type HTTPConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// ServerConfig configures `stepform serve`.
type ServerConfig struct {
	Addr       string        `yaml:"addr" validate:"required,hostname_port"`
	BasePath   string        `yaml:"base_path" validate:"omitempty,startswith=/"`
	Store      string        `yaml:"store" validate:"required,oneof=memory redis"`
	Cookie     string        `yaml:"cookie" validate:"required,alphanum"`
	SessionTTL time.Duration `yaml:"session_ttl" validate:"gte=0"`
	Metrics    bool          `yaml:"metrics"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig configures the Redis session store.
type RedisConfig struct {
	Addr     string `yaml:"addr" validate:"omitempty,hostname_port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
	Prefix   string `yaml:"prefix"`
}

// ThemeConfig selects a theme from the manifests declared inline.
type ThemeConfig struct {
	Name      string           `yaml:"name"`
	Variant   string           `yaml:"variant"`
	Manifests []ManifestConfig `yaml:"manifests" validate:"dive"`
}

// ManifestConfig is the YAML shape of a theme manifest.
type ManifestConfig struct {
	Name      string                   `yaml:"name" validate:"required"`
	Version   string                   `yaml:"version"`
	Tokens    map[string]string        `yaml:"tokens"`
	Templates map[string]string        `yaml:"templates"`
	Assets    AssetsConfig             `yaml:"assets"`
	Variants  map[string]VariantConfig `yaml:"variants"`
}

// VariantConfig overrides manifest values for one variant.
type VariantConfig struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    AssetsConfig      `yaml:"assets"`
}

// AssetsConfig maps logical asset names onto files under Prefix.
type AssetsConfig struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Fallback:  true,
		LogLevel:  "info",
		LogFormat: "text",
		HTTP: HTTPConfig{
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Addr:       "127.0.0.1:8080",
			Store:      StoreMemory,
			Cookie:     "stepform",
			SessionTTL: 24 * time.Hour,
			Metrics:    true,
			Redis: RedisConfig{
				Addr:   "127.0.0.1:6379",
				Prefix: "stepform:session:",
			},
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads path over Default and validates the result. An empty path
// returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode unmarshals YAML into cfg, rejecting unknown keys.
func Decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

// Validate checks field constraints and cross-field rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config: invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: validate: %w", err)
	}
	if c.Server.Store == StoreRedis && strings.TrimSpace(c.Server.Redis.Addr) == "" {
		return errors.New("config: server.redis.addr is required when server.store is redis")
	}
	if c.Theme.Name != "" && !c.hasManifest(c.Theme.Name) {
		return fmt.Errorf("config: theme %q has no manifest", c.Theme.Name)
	}
	return nil
}

func (c Config) hasManifest(name string) bool {
	for _, m := range c.Theme.Manifests {
		if m.Name == name {
			return true
		}
	}
	return false
}

// ThemeSelection resolves the configured theme. It returns nil when no theme
// is selected.
func (c Config) ThemeSelection() (*theme.Selection, error) {
	if strings.TrimSpace(c.Theme.Name) == "" {
		return nil, nil
	}
	selector := render.NewManifestSelector(c.Theme.Name, c.Theme.Variant)
	for _, m := range c.Theme.Manifests {
		if err := selector.Register(m.Manifest()); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	selection, err := selector.Select("", "")
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return selection, nil
}

// Manifest converts the YAML shape into a go-theme manifest.
func (m ManifestConfig) Manifest() *theme.Manifest {
	out := &theme.Manifest{
		Name:      m.Name,
		Version:   m.Version,
		Tokens:    m.Tokens,
		Templates: m.Templates,
		Assets:    theme.Assets{Prefix: m.Assets.Prefix, Files: m.Assets.Files},
	}
	if len(m.Variants) > 0 {
		out.Variants = make(map[string]theme.Variant, len(m.Variants))
		for name, v := range m.Variants {
			out.Variants[name] = theme.Variant{
				Tokens:    v.Tokens,
				Templates: v.Templates,
				Assets:    theme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
			}
		}
	}
	return out
}
