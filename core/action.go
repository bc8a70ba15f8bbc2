package core

import (
	"encoding/json"
	"fmt"
)

// Action kind discriminators as they appear on the wire.
const (
	KindLine   = "line"
	KindCircle = "circle"
	KindRect   = "rect"
	KindPath   = "path"
	KindClear  = "clear"
)

// Default styling applied when a submitted action omits color or width.
const (
	DefaultColor = "#000000"
	DefaultWidth = 2.0
)

// Action represents one drawing command applied to the canvas. Concrete action
// types implement the unexported isAction marker enabling a closed set, so
// consumers (bounding box, digest, offset translation) can switch exhaustively.
//
// Actions are immutable values; Translate returns a shifted copy.
type Action interface {
	isAction()

	// Kind returns the wire discriminator ("line", "circle", ...).
	Kind() string

	// Translate returns a copy of the action shifted by (dx, dy) into another
	// coordinate frame. Translating by (dx, dy) and then (-dx, -dy) yields the
	// original geometry.
	Translate(dx, dy float64) Action
}

// Line is a straight segment between two points.
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// isAction implements the Action interface for Line.
func (Line) isAction() {}

// Kind returns the wire discriminator for Line.
func (Line) Kind() string { return KindLine }

// Translate returns the line shifted by (dx, dy).
func (l Line) Translate(dx, dy float64) Action {
	l.X1 += dx
	l.Y1 += dy
	l.X2 += dx
	l.Y2 += dy
	return l
}

// MarshalJSON emits the tagged wire form.
func (l Line) MarshalJSON() ([]byte, error) {
	type alias Line
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: KindLine, alias: alias(l)})
}

// Circle is a circle described by its center and radius.
type Circle struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	R     float64 `json:"r"`
	Color string  `json:"color"`
	Fill  bool    `json:"fill"`
	Width float64 `json:"width"`
}

// isAction implements the Action interface for Circle.
func (Circle) isAction() {}

// Kind returns the wire discriminator for Circle.
func (Circle) Kind() string { return KindCircle }

// Translate returns the circle shifted by (dx, dy).
func (c Circle) Translate(dx, dy float64) Action {
	c.X += dx
	c.Y += dy
	return c
}

// MarshalJSON emits the tagged wire form.
func (c Circle) MarshalJSON() ([]byte, error) {
	type alias Circle
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: KindCircle, alias: alias(c)})
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Color string  `json:"color"`
	Fill  bool    `json:"fill"`
	Width float64 `json:"width"`
}

// isAction implements the Action interface for Rect.
func (Rect) isAction() {}

// Kind returns the wire discriminator for Rect.
func (Rect) Kind() string { return KindRect }

// Translate returns the rectangle shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Action {
	r.X += dx
	r.Y += dy
	return r
}

// MarshalJSON emits the tagged wire form.
func (r Rect) MarshalJSON() ([]byte, error) {
	type alias Rect
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: KindRect, alias: alias(r)})
}

// Path is a polyline through two or more points, optionally closed.
type Path struct {
	Points []Point `json:"points"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Close  bool    `json:"close"`
}

// isAction implements the Action interface for Path.
func (Path) isAction() {}

// Kind returns the wire discriminator for Path.
func (Path) Kind() string { return KindPath }

// Translate returns the path shifted by (dx, dy). The point slice is copied.
func (p Path) Translate(dx, dy float64) Action {
	pts := make([]Point, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = Point{X: pt.X + dx, Y: pt.Y + dy}
	}
	p.Points = pts
	return p
}

// MarshalJSON emits the tagged wire form.
func (p Path) MarshalJSON() ([]byte, error) {
	type alias Path
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: KindPath, alias: alias(p)})
}

// Clear wipes the whole canvas. Submission surfaces normally reject it.
type Clear struct{}

// isAction implements the Action interface for Clear.
func (Clear) isAction() {}

// Kind returns the wire discriminator for Clear.
func (Clear) Kind() string { return KindClear }

// Translate is a no-op for Clear.
func (c Clear) Translate(dx, dy float64) Action { return c }

// MarshalJSON emits the tagged wire form.
func (Clear) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{Type: KindClear})
}

// ParseAction decodes a single tagged action. Geometry fields are required;
// color, width, fill and close fall back to their defaults when omitted.
// Unknown discriminators and malformed geometry yield an error.
func ParseAction(data []byte) (Action, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid action: %w", err)
	}

	switch head.Type {
	case KindLine:
		var w struct {
			X1    *float64 `json:"x1"`
			Y1    *float64 `json:"y1"`
			X2    *float64 `json:"x2"`
			Y2    *float64 `json:"y2"`
			Color *string  `json:"color"`
			Width *float64 `json:"width"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("invalid line action: %w", err)
		}
		if w.X1 == nil || w.Y1 == nil || w.X2 == nil || w.Y2 == nil {
			return nil, fmt.Errorf("line action requires x1, y1, x2, y2")
		}
		return Line{
			X1:    *w.X1,
			Y1:    *w.Y1,
			X2:    *w.X2,
			Y2:    *w.Y2,
			Color: stringOr(w.Color, DefaultColor),
			Width: floatOr(w.Width, DefaultWidth),
		}, nil
	case KindCircle:
		var w struct {
			X     *float64 `json:"x"`
			Y     *float64 `json:"y"`
			R     *float64 `json:"r"`
			Color *string  `json:"color"`
			Fill  bool     `json:"fill"`
			Width *float64 `json:"width"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("invalid circle action: %w", err)
		}
		if w.X == nil || w.Y == nil || w.R == nil {
			return nil, fmt.Errorf("circle action requires x, y, r")
		}
		return Circle{
			X:     *w.X,
			Y:     *w.Y,
			R:     *w.R,
			Color: stringOr(w.Color, DefaultColor),
			Fill:  w.Fill,
			Width: floatOr(w.Width, DefaultWidth),
		}, nil
	case KindRect:
		var w struct {
			X     *float64 `json:"x"`
			Y     *float64 `json:"y"`
			W     *float64 `json:"w"`
			H     *float64 `json:"h"`
			Color *string  `json:"color"`
			Fill  bool     `json:"fill"`
			Width *float64 `json:"width"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("invalid rect action: %w", err)
		}
		if w.X == nil || w.Y == nil || w.W == nil || w.H == nil {
			return nil, fmt.Errorf("rect action requires x, y, w, h")
		}
		return Rect{
			X:     *w.X,
			Y:     *w.Y,
			W:     *w.W,
			H:     *w.H,
			Color: stringOr(w.Color, DefaultColor),
			Fill:  w.Fill,
			Width: floatOr(w.Width, DefaultWidth),
		}, nil
	case KindPath:
		var w struct {
			Points []struct {
				X *float64 `json:"x"`
				Y *float64 `json:"y"`
			} `json:"points"`
			Color *string  `json:"color"`
			Width *float64 `json:"width"`
			Close bool     `json:"close"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("invalid path action: %w", err)
		}
		if len(w.Points) == 0 {
			return nil, fmt.Errorf("path action requires points")
		}
		pts := make([]Point, len(w.Points))
		for i, p := range w.Points {
			if p.X == nil || p.Y == nil {
				return nil, fmt.Errorf("path point %d requires x and y", i)
			}
			pts[i] = Point{X: *p.X, Y: *p.Y}
		}
		return Path{
			Points: pts,
			Color:  stringOr(w.Color, DefaultColor),
			Width:  floatOr(w.Width, DefaultWidth),
			Close:  w.Close,
		}, nil
	case KindClear:
		return Clear{}, nil
	case "":
		return nil, fmt.Errorf("action type missing")
	default:
		return nil, fmt.Errorf("unknown action type %q", head.Type)
	}
}

func stringOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
