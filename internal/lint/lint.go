// Package lint reports data-quality problems in form documents. The
// interpreter tolerates every issue reported here; lint makes them visible.
package lint

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/goliatone/go-stepform/pkg/fields"
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/visibility"
)

// Severity ranks an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue codes.
const (
	CodeStructure       = "structure"
	CodeNoVisibleSteps  = "no-visible-steps"
	CodeDuplicateField  = "duplicate-field"
	CodeDuplicateStep   = "duplicate-step"
	CodeCycle           = "cyclic-nesting"
	CodeUnknownDataType = "unknown-data-type"
	CodeEmptyChoice     = "choice-without-options"
)

// Issue is one finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s %s: %s", i.Severity, i.Code, i.Path, i.Message)
}

// Report collects the issues of one document.
type Report struct {
	Source string  `json:"source,omitempty"`
	Issues []Issue `json:"issues"`
}

// HasErrors reports whether any issue has error severity.
func (r Report) HasErrors() bool {
	return r.Count(SeverityError) > 0
}

// Count returns the number of issues with severity s.
func (r Report) Count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

//go:embed formconfig.schema.json
var formSchema []byte

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(formSchema))
	})
	return compiledSchema, schemaErr
}

// Document lints a document: structural checks on the raw payload, then
// quality checks on the decoded configuration.
func Document(doc schema.Document) (Report, error) {
	report := Report{Source: doc.Location()}

	payload, err := doc.Map()
	if err != nil {
		return report, fmt.Errorf("lint: parse document: %w", err)
	}
	structural, err := Structure(payload)
	if err != nil {
		return report, err
	}
	report.Issues = append(report.Issues, structural...)

	cfg, err := schema.DecodeMap(payload)
	if err != nil {
		return report, fmt.Errorf("lint: decode document: %w", err)
	}
	report.Issues = append(report.Issues, Config(cfg)...)
	return report, nil
}

// Structure validates payload against the embedded FormConfig JSON Schema.
// Violations are warnings because decoding coerces or drops them.
func Structure(payload map[string]any) ([]Issue, error) {
	compiled, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("lint: compile schema: %w", err)
	}
	result, err := compiled.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("lint: validate structure: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	issues := make([]Issue, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Code:     CodeStructure,
			Path:     structurePath(resultErr.Field()),
			Message:  resultErr.Description(),
		})
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return issues, nil
}

// structurePath turns gojsonschema's "Steps.0.Actions" into "Steps[0].Actions".
func structurePath(field string) string {
	if field == "(root)" {
		return ""
	}
	parts := strings.Split(field, ".")
	var b strings.Builder
	for _, part := range parts {
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Config runs the data-quality checks over a decoded configuration.
func Config(cfg schema.FormConfig) []Issue {
	var issues []Issue

	if len(visibility.VisibleSteps(cfg.Steps)) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     CodeNoVisibleSteps,
			Message:  "no step contains a field input; the form renders as empty",
		})
	}

	stepIDs := make(map[string]string)
	for i, step := range cfg.Steps {
		path := fmt.Sprintf("Steps[%d]", i)
		if id := strings.TrimSpace(step.StepID); id != "" {
			if first, ok := stepIDs[id]; ok {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Code:     CodeDuplicateStep,
					Path:     path,
					Message:  fmt.Sprintf("StepId %q already used by %s", id, first),
				})
			} else {
				stepIDs[id] = path
			}
		}
		issues = append(issues, checkActions(step.Actions, path+".Actions", nil)...)
	}
	return issues
}

func checkActions(actions []schema.Action, path string, ancestors []string) []Issue {
	var issues []Issue
	seen := make(map[string]string)

	for i, action := range actions {
		if !action.IsFieldInput() {
			continue
		}
		actionPath := fmt.Sprintf("%s[%d]", path, i)

		name := fields.BindingName(action)
		if first, ok := seen[name]; ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Code:     CodeDuplicateField,
				Path:     actionPath,
				Message:  fmt.Sprintf("field %q already bound by %s", name, first),
			})
		} else {
			seen[name] = actionPath
		}

		id := strings.TrimSpace(action.ActionID)
		if id != "" && contains(ancestors, id) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Code:     CodeCycle,
				Path:     actionPath,
				Message:  fmt.Sprintf("ActionId %q repeats an ancestor; nested fields are truncated", id),
			})
			continue
		}

		props := action.Properties
		if visibility.HasQualifying(props.ChildActions) {
			next := ancestors
			if id != "" {
				next = append(append([]string(nil), ancestors...), id)
			}
			issues = append(issues, checkActions(props.ChildActions, actionPath+".Properties.ChildActions", next)...)
			continue
		}

		if props.DataType != "" {
			if _, ok := props.DataType.Canonical(); !ok {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Code:     CodeUnknownDataType,
					Path:     actionPath + ".Properties.DataType",
					Message:  fmt.Sprintf("unknown DataType %q renders as a text input", props.DataType),
				})
			}
		}
		if canonical, _ := props.DataType.Canonical(); canonical == schema.DataTypeChoice && len(props.Choices) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityInfo,
				Code:     CodeEmptyChoice,
				Path:     actionPath + ".Properties.Choices",
				Message:  "Choice field has no options; a placeholder notice is shown",
			})
		}
	}
	return issues
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
