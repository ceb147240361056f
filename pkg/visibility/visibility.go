// Package visibility decides which steps and actions take part in rendering.
//
// An action qualifies when it is a field input. A step is visible when at
// least one of its actions qualifies. Both levels are returned in ascending
// Order, with ties kept in declaration order.
package visibility

import (
	"sort"

	"github.com/goliatone/go-stepform/pkg/schema"
)

// Qualifies returns the field-input actions of actions sorted by Order. The
// input slice is not modified.
func Qualifies(actions []schema.Action) []schema.Action {
	if len(actions) == 0 {
		return nil
	}

	out := make([]schema.Action, 0, len(actions))
	for _, action := range actions {
		if action.IsFieldInput() {
			out = append(out, action)
		}
	}
	if len(out) == 0 {
		return nil
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderValue() < out[j].OrderValue()
	})
	return out
}

// HasQualifying reports whether any action in actions is a field input
// without allocating the filtered list.
func HasQualifying(actions []schema.Action) bool {
	for _, action := range actions {
		if action.IsFieldInput() {
			return true
		}
	}
	return false
}

// VisibleSteps returns the steps that contain at least one field input,
// sorted by Order.
func VisibleSteps(steps []schema.Step) []schema.Step {
	if len(steps) == 0 {
		return nil
	}

	out := make([]schema.Step, 0, len(steps))
	for _, step := range steps {
		if HasQualifying(step.Actions) {
			out = append(out, step)
		}
	}
	if len(out) == 0 {
		return nil
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderValue() < out[j].OrderValue()
	})
	return out
}
