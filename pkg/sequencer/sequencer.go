// Package sequencer tracks the active step of a multi-step form.
//
// State is a value: every operation returns a new State and never mutates the
// receiver, so callers own exactly one copy per session.
package sequencer

// State is the navigation position over Count visible steps. Index is always
// within [0, Count-1], or 0 when Count is 0.
type State struct {
	Index int `json:"index"`
	Count int `json:"count"`
}

// New returns the initial state for count visible steps.
func New(count int) State {
	if count < 0 {
		count = 0
	}
	return State{Count: count}
}

// Empty reports whether there are no visible steps.
func (s State) Empty() bool {
	return s.Count <= 0
}

// GoTo moves to index, clamped into range.
func (s State) GoTo(index int) State {
	s.Count = max(s.Count, 0)
	s.Index = clamp(index, s.Count)
	return s
}

// Next moves one step forward. It is a no-op on the last step.
func (s State) Next() State {
	return s.GoTo(s.Index + 1)
}

// Previous moves one step back. It is a no-op on the first step.
func (s State) Previous() State {
	return s.GoTo(s.Index - 1)
}

// HasPrevious reports whether Previous would move.
func (s State) HasPrevious() bool {
	return !s.Empty() && s.Index > 0
}

// HasNext reports whether Next would move.
func (s State) HasNext() bool {
	return !s.Empty() && s.Index < s.Count-1
}

// Resize adapts the state to a new visible step count. A changed count resets
// the index to 0; an unchanged count keeps the (re-clamped) position.
func (s State) Resize(count int) State {
	if count < 0 {
		count = 0
	}
	if count != s.Count {
		return New(count)
	}
	return s.GoTo(s.Index)
}

// Position returns the 1-based position of the active step, or 0 when empty.
func (s State) Position() int {
	if s.Empty() {
		return 0
	}
	return s.Index + 1
}

func clamp(index, count int) int {
	if count <= 0 || index < 0 {
		return 0
	}
	if index > count-1 {
		return count - 1
	}
	return index
}
