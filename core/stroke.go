package core

import "strings"

// Point is a single canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one pen movement produced by a stroke generator: an ordered list
// of points replayed as connected segments, sharing a single color and width.
// Coordinates are in the local frame of the session that requested it.
type Stroke struct {
	Points []Point
	Color  string
	Width  float64
}

// Drawable reports whether the stroke has enough points to produce at least
// one segment.
func (s Stroke) Drawable() bool { return len(s.Points) >= 2 }

// IsErase reports whether the stroke paints pure white. The board treats white
// strokes as erasing and throttles them separately.
func (s Stroke) IsErase() bool {
	c := strings.ToLower(strings.TrimSpace(s.Color))
	return c == "#ffffff" || c == "#fff"
}
