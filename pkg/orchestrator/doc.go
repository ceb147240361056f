// Package orchestrator wires the loader → decoder → interpreter → renderer
// pipeline behind a single entry point.
package orchestrator
