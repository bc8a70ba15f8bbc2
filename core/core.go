package core

import "github.com/google/uuid"

// Canvas dimensions in logical pixels. The board is one fixed-size shared
// surface; bounding boxes clamp to these bounds and generator prompts quote
// them, so they are compile-time constants rather than configuration.
const (
	CanvasWidth  = 15000.0
	CanvasHeight = 8000.0
)

// DefaultAuthor labels events submitted without a display name.
const DefaultAuthor = "Anonymous"

// Clamp restricts v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NewID generates a unique identifier for agents, sessions and viewers.
//
// Identifiers are UUID strings; uniqueness is the only guarantee callers may
// rely on.
func NewID() string { return uuid.NewString() }
