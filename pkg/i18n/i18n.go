// Package i18n supplies the user-visible strings produced while interpreting
// a form: position labels, placeholders, navigation labels.
package i18n

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys understood by the default catalog.
const (
	KeyPosition          = "stepform.position"
	KeyEmptyForm         = "stepform.empty"
	KeyChoicePlaceholder = "stepform.choice.placeholder"
	KeyNoOptions         = "stepform.choice.none"
	KeyOptionLabel       = "stepform.choice.option"
	KeyPrevious          = "stepform.nav.previous"
	KeyNext              = "stepform.nav.next"
	KeyEntity            = "stepform.subtitle.entity"
	KeyStepOrder         = "stepform.subtitle.order"
	KeyRequired          = "stepform.field.required"
	KeyGroupLabel        = "stepform.field.group"
	KeyHintText          = "stepform.hint.text"
	KeyHintMultiLine     = "stepform.hint.multiline"
	KeyHintNumeric       = "stepform.hint.numeric"
	KeyHintLookup        = "stepform.hint.lookup"
	KeyHintDefault       = "stepform.hint.default"
	KeyPrompt            = "stepform.prompt.action"
	KeyJump              = "stepform.prompt.jump"
	KeyChooseStep        = "stepform.prompt.step"
	KeyQuit              = "stepform.prompt.quit"
)

// ErrMissingTranslation is returned when a key is absent from every catalog.
var ErrMissingTranslation = errors.New("i18n: missing translation")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls fn.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

var english = map[string]string{
	KeyPosition:          "Step %d of %d",
	KeyEmptyForm:         "No field inputs were provided in this configuration.",
	KeyChoicePlaceholder: "Select an option",
	KeyNoOptions:         "No options are configured for this field yet.",
	KeyOptionLabel:       "Option",
	KeyPrevious:          "Previous",
	KeyNext:              "Next",
	KeyEntity:            "Entity: %s",
	KeyStepOrder:         "Step %d",
	KeyRequired:          "required",
	KeyGroupLabel:        "Nested fields",
	KeyHintText:          "Please enter a value...",
	KeyHintMultiLine:     "Please provide additional details...",
	KeyHintNumeric:       "Please enter a numeric value...",
	KeyHintLookup:        "Please search for a record...",
	KeyHintDefault:       "Please input a value...",
	KeyPrompt:            "What would you like to do?",
	KeyJump:              "Jump to step",
	KeyChooseStep:        "Choose a step",
	KeyQuit:              "Quit",
}

var spanish = map[string]string{
	KeyPosition:          "Paso %d de %d",
	KeyEmptyForm:         "Esta configuración no define campos de entrada.",
	KeyChoicePlaceholder: "Seleccione una opción",
	KeyNoOptions:         "Este campo aún no tiene opciones configuradas.",
	KeyOptionLabel:       "Opción",
	KeyPrevious:          "Anterior",
	KeyNext:              "Siguiente",
	KeyEntity:            "Entidad: %s",
	KeyStepOrder:         "Paso %d",
	KeyRequired:          "obligatorio",
	KeyGroupLabel:        "Campos anidados",
	KeyHintText:          "Introduzca un valor...",
	KeyHintMultiLine:     "Añada más detalles...",
	KeyHintNumeric:       "Introduzca un valor numérico...",
	KeyHintLookup:        "Busque un registro...",
	KeyHintDefault:       "Introduzca un valor...",
	KeyPrompt:            "¿Qué desea hacer?",
	KeyJump:              "Ir al paso",
	KeyChooseStep:        "Elija un paso",
	KeyQuit:              "Salir",
}

// Catalog is a Translator backed by an x/text message catalog. English is the
// fallback language.
type Catalog struct {
	builder *catalog.Builder
	matcher language.Matcher
	tags    []language.Tag
	keys    map[string]struct{}
}

// Option customises a Catalog.
type Option func(*catalogConfig)

type catalogConfig struct {
	messages map[string]map[string]string
	order    []language.Tag
}

// WithMessages adds or overrides messages for the given locale.
func WithMessages(locale string, messages map[string]string) Option {
	return func(cfg *catalogConfig) {
		tag, err := language.Parse(strings.TrimSpace(locale))
		if err != nil || len(messages) == 0 {
			return
		}
		cfg.add(tag, messages)
	}
}

func (cfg *catalogConfig) add(tag language.Tag, messages map[string]string) {
	existing, ok := cfg.messages[tag.String()]
	if !ok {
		existing = make(map[string]string, len(messages))
		cfg.messages[tag.String()] = existing
		cfg.order = append(cfg.order, tag)
	}
	for key, msg := range messages {
		existing[key] = msg
	}
}

// NewCatalog builds the default catalog (English and Spanish) plus any
// messages supplied through options.
func NewCatalog(opts ...Option) (*Catalog, error) {
	cfg := &catalogConfig{messages: make(map[string]map[string]string)}
	cfg.add(language.English, english)
	cfg.add(language.Spanish, spanish)
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	keys := make(map[string]struct{})
	base := cfg.messages[language.English.String()]
	for _, tag := range cfg.order {
		messages := cfg.messages[tag.String()]
		for key, msg := range base {
			if _, ok := messages[key]; !ok {
				messages[key] = msg
			}
		}
		for key, msg := range messages {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("i18n: set %s/%s: %w", tag, key, err)
			}
			keys[key] = struct{}{}
		}
	}

	return &Catalog{
		builder: builder,
		matcher: language.NewMatcher(cfg.order),
		tags:    cfg.order,
		keys:    keys,
	}, nil
}

// MustCatalog panics if the catalog cannot be built.
func MustCatalog(opts ...Option) *Catalog {
	c, err := NewCatalog(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Translate formats key for locale. Unknown locales resolve to English.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	if _, ok := c.keys[key]; !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingTranslation, key)
	}
	printer := message.NewPrinter(c.match(locale), message.Catalog(c.builder))
	return printer.Sprintf(key, args...), nil
}

func (c *Catalog) match(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	_, index, confidence := c.matcher.Match(tag)
	if confidence == language.No {
		return language.English
	}
	return c.tags[index]
}

// Messages binds a Translator to one locale and never fails: a missing or
// failing translation falls back to the English default, then to the key.
type Messages struct {
	Locale     string
	Translator Translator
}

// Default returns English messages backed by the built-in catalog.
func Default() Messages {
	return Messages{Translator: defaultCatalog}
}

// Bind returns Messages for locale. A nil translator uses the built-in catalog.
func Bind(t Translator, locale string) Messages {
	if t == nil {
		t = defaultCatalog
	}
	return Messages{Locale: locale, Translator: t}
}

// Text resolves key with args.
func (m Messages) Text(key string, args ...any) string {
	if m.Translator != nil {
		if msg, err := m.Translator.Translate(m.Locale, key, args...); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	if format, ok := english[key]; ok {
		if len(args) == 0 {
			return format
		}
		return fmt.Sprintf(format, args...)
	}
	return key
}

var defaultCatalog = MustCatalog()
