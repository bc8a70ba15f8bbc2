package testutil

import (
	"github.com/hupe1980/drawboard/core"
)

// LogBuilder assembles event histories with fluent chaining for tests.
// Example:
//
//	events := NewLogBuilder().
//	    Line("a", 10, 10, 50, 50).
//	    Circle("b", 20, 20, 5).
//	    Events()
//
// The quick-add methods use the default stroke style; use Event with an
// EventBuilder for anything fancier.
type LogBuilder struct {
	events []core.DrawEvent
}

// NewLogBuilder creates an empty history builder.
func NewLogBuilder() *LogBuilder { return &LogBuilder{} }

// Event appends a pre-built event (chainable).
func (b *LogBuilder) Event(ev core.DrawEvent) *LogBuilder {
	b.events = append(b.events, ev)
	return b
}

// Line appends a default-styled line event (chainable).
func (b *LogBuilder) Line(author string, x1, y1, x2, y2 float64) *LogBuilder {
	return b.Event(NewEventBuilder().Author(author).Line(x1, y1, x2, y2).Build())
}

// Circle appends a default-styled circle event (chainable).
func (b *LogBuilder) Circle(author string, x, y, r float64) *LogBuilder {
	return b.Event(NewEventBuilder().Author(author).Circle(x, y, r).Build())
}

// Rect appends a default-styled rect event (chainable).
func (b *LogBuilder) Rect(author string, x, y, w, h float64) *LogBuilder {
	return b.Event(NewEventBuilder().Author(author).Rect(x, y, w, h).Build())
}

// Path appends a default-styled path event (chainable).
func (b *LogBuilder) Path(author string, points ...core.Point) *LogBuilder {
	return b.Event(NewEventBuilder().Author(author).Path(points...).Build())
}

// Clear appends a full-canvas clear event (chainable).
func (b *LogBuilder) Clear(author string) *LogBuilder {
	return b.Event(NewEventBuilder().Author(author).Clear().Build())
}

// Events returns the accumulated history in append order.
func (b *LogBuilder) Events() []core.DrawEvent {
	return append([]core.DrawEvent{}, b.events...)
}

// Log returns a fresh EventLog seeded with the accumulated history.
func (b *LogBuilder) Log() *core.EventLog {
	log := core.NewEventLog()
	for _, ev := range b.events {
		log.Append(ev)
	}
	return log
}
