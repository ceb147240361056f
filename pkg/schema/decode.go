package schema

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Decode parses a JSON or YAML payload into a FormConfig. Decoding is lenient:
// keys match case-insensitively, scalars are coerced between strings, numbers,
// and booleans, and values of the wrong shape decode as their zero value. Only
// a payload that is neither JSON nor YAML produces an error.
func Decode(raw []byte) (FormConfig, error) {
	payload, err := parseMap(raw)
	if err != nil {
		return FormConfig{}, err
	}
	return DecodeMap(payload)
}

// DecodeMap maps an already parsed document onto a FormConfig.
func DecodeMap(payload map[string]any) (FormConfig, error) {
	var cfg FormConfig
	if len(payload) == 0 {
		return cfg, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook:       lenientHook,
	})
	if err != nil {
		return FormConfig{}, fmt.Errorf("schema: configure decoder: %w", err)
	}
	if err := decoder.Decode(payload); err != nil {
		return FormConfig{}, fmt.Errorf("schema: decode form config: %w", err)
	}
	return cfg, nil
}

func parseMap(raw []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(raw, utf8BOM))
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("schema: document is empty")
	}

	var payload map[string]any
	if err := gojson.Unmarshal(trimmed, &payload); err == nil {
		return payload, nil
	}

	payload = nil
	if err := yaml.Unmarshal(trimmed, &payload); err == nil {
		return payload, nil
	}

	return nil, fmt.Errorf("schema: parse document: invalid JSON or YAML")
}

// lenientHook replaces values of the wrong shape with zero-value equivalents
// so one malformed member never rejects the whole document.
func lenientHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if data == nil {
		return nil, nil
	}

	switch to.Kind() {
	case reflect.Struct:
		if from.Kind() != reflect.Map {
			return map[string]any{}, nil
		}
	case reflect.Slice:
		if from.Kind() != reflect.Slice && from.Kind() != reflect.Array {
			return []any{}, nil
		}
	case reflect.Map:
		if from.Kind() != reflect.Map {
			return map[string]any{}, nil
		}
	case reflect.String:
		if from.Kind() == reflect.Map || from.Kind() == reflect.Slice {
			return "", nil
		}
	case reflect.Bool:
		if from.Kind() == reflect.String {
			return parseLooseBool(reflect.ValueOf(data).String()), nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch from.Kind() {
		case reflect.String:
			return parseLooseInt(reflect.ValueOf(data).String()), nil
		case reflect.Map, reflect.Slice:
			return 0, nil
		}
	}
	return data, nil
}

func parseLooseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "y", "1", "on":
		return true
	default:
		return false
	}
}

func parseLooseInt(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return int(f)
	}
	return 0
}
