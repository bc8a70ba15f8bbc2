package testutil

import (
	"github.com/hupe1980/drawboard/core"
)

// EventBuilder provides a fluent helper for constructing draw events in tests.
// Example:
//
//	ev := NewEventBuilder().Author("Picasso").Color("#ff0000").Line(0, 0, 40, 40).Build()
//
// Chain only the parts you need; sensible defaults are applied. The geometry
// method picks the action kind; color and width may be set before or after it.
type EventBuilder struct {
	author string
	color  string
	width  float64

	kind   string
	coords [4]float64
	points []core.Point
	fill   bool
	close  bool
}

// NewEventBuilder creates a builder with default author "agent" and the
// default stroke style.
func NewEventBuilder() *EventBuilder {
	return &EventBuilder{
		author: "agent",
		color:  core.DefaultColor,
		width:  core.DefaultWidth,
		kind:   core.KindLine,
	}
}

// Author sets the author name recorded on the event (chainable).
func (b *EventBuilder) Author(name string) *EventBuilder { b.author = name; return b }

// Color sets the stroke color (chainable).
func (b *EventBuilder) Color(c string) *EventBuilder { b.color = c; return b }

// Width sets the stroke width (chainable).
func (b *EventBuilder) Width(w float64) *EventBuilder { b.width = w; return b }

// Fill marks circle and rect actions as filled (chainable).
func (b *EventBuilder) Fill() *EventBuilder { b.fill = true; return b }

// Closed marks path actions as closed (chainable).
func (b *EventBuilder) Closed() *EventBuilder { b.close = true; return b }

// Line makes the event a line from (x1,y1) to (x2,y2) (chainable).
func (b *EventBuilder) Line(x1, y1, x2, y2 float64) *EventBuilder {
	b.kind = core.KindLine
	b.coords = [4]float64{x1, y1, x2, y2}
	return b
}

// Circle makes the event a circle centered at (x,y) with radius r (chainable).
func (b *EventBuilder) Circle(x, y, r float64) *EventBuilder {
	b.kind = core.KindCircle
	b.coords = [4]float64{x, y, r, 0}
	return b
}

// Rect makes the event a rectangle anchored at (x,y) with size w x h
// (chainable).
func (b *EventBuilder) Rect(x, y, w, h float64) *EventBuilder {
	b.kind = core.KindRect
	b.coords = [4]float64{x, y, w, h}
	return b
}

// Path makes the event a path through the given points (chainable).
func (b *EventBuilder) Path(points ...core.Point) *EventBuilder {
	b.kind = core.KindPath
	b.points = points
	return b
}

// Clear makes the event a full-canvas clear (chainable).
func (b *EventBuilder) Clear() *EventBuilder {
	b.kind = core.KindClear
	return b
}

// Build constructs the core.DrawEvent value.
func (b *EventBuilder) Build() core.DrawEvent {
	var action core.Action
	switch b.kind {
	case core.KindCircle:
		action = core.Circle{X: b.coords[0], Y: b.coords[1], R: b.coords[2], Color: b.color, Fill: b.fill, Width: b.width}
	case core.KindRect:
		action = core.Rect{X: b.coords[0], Y: b.coords[1], W: b.coords[2], H: b.coords[3], Color: b.color, Fill: b.fill, Width: b.width}
	case core.KindPath:
		action = core.Path{Points: append([]core.Point{}, b.points...), Color: b.color, Width: b.width, Close: b.close}
	case core.KindClear:
		action = core.Clear{}
	default:
		action = core.Line{X1: b.coords[0], Y1: b.coords[1], X2: b.coords[2], Y2: b.coords[3], Color: b.color, Width: b.width}
	}
	return core.NewDrawEvent(b.author, action)
}
