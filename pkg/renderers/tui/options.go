package tui

import (
	"github.com/muesli/termenv"

	"github.com/goliatone/go-stepform/pkg/i18n"
)

// Theme captures the styling applied to terminal output.
type Theme struct {
	// Style is a glamour standard style name ("dark", "light", "notty", ...).
	Style string
	// Accent colours the active step marker.
	Accent string
	// ActiveMarker prefixes the active step in the step list.
	ActiveMarker string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{
	Style:        "dark",
	Accent:       "#2f5d8a",
	ActiveMarker: ">",
}

// Option configures the TUI renderer and navigator.
type Option func(*settings)

type settings struct {
	driver   PromptDriver
	theme    Theme
	wordWrap int
	profile  termenv.Profile
	markdown bool
	messages *i18n.Messages
}

func defaultSettings() settings {
	return settings{
		theme:    DefaultTheme,
		wordWrap: 80,
		profile:  termenv.ColorProfile(),
	}
}

// WithPromptDriver overrides the prompt driver used by the navigator.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *settings) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies styling hints. Empty fields keep their defaults.
func WithTheme(theme Theme) Option {
	return func(s *settings) {
		if theme.Style != "" {
			s.theme.Style = theme.Style
		}
		if theme.Accent != "" {
			s.theme.Accent = theme.Accent
		}
		if theme.ActiveMarker != "" {
			s.theme.ActiveMarker = theme.ActiveMarker
		}
	}
}

// WithWordWrap sets the glamour wrap width. Zero disables wrapping.
func WithWordWrap(width int) Option {
	return func(s *settings) {
		if width >= 0 {
			s.wordWrap = width
		}
	}
}

// WithColorProfile forces a termenv profile. termenv.Ascii disables colour.
func WithColorProfile(profile termenv.Profile) Option {
	return func(s *settings) {
		s.profile = profile
	}
}

// WithRawMarkdown skips glamour and emits the markdown source.
func WithRawMarkdown() Option {
	return func(s *settings) {
		s.markdown = true
	}
}

// WithMessages sets the messages used for navigator prompts. By default the
// built-in catalog is bound to the view's locale.
func WithMessages(messages i18n.Messages) Option {
	return func(s *settings) {
		s.messages = &messages
	}
}
