package vanilla

import "github.com/goliatone/go-stepform/pkg/renderers/vanilla/components"

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassApp        ChromeClass = "stepform-app"
	ClassHeader     ChromeClass = "stepform-header"
	ClassSteps      ChromeClass = "stepform-steps"
	ClassSection    ChromeClass = "stepform-step"
	ClassField      ChromeClass = "stepform-field"
	ClassNavigation ChromeClass = "stepform-navigation"
	ClassEmpty      ChromeClass = "stepform-empty"
)

// State classes added to a field wrapper. Groups use the same values.
const (
	ClassHidden    = components.ClassHidden
	ClassReadOnly  = components.ClassReadOnly
	ClassTruncated = components.ClassTruncated
)
