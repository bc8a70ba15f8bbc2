package canvas

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/drawboard/core"
)

// DefaultPad is the margin added around the drawn region before clamping to
// the canvas bounds.
const DefaultPad = 200.0

// Box is an axis-aligned region of the canvas.
type Box struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// BoundingBox collects every coordinate the events reference, pads the hull
// by pad and clamps it to the canvas. The second return is false when the
// events carry no geometry (empty input or only clears).
func BoundingBox(events []core.DrawEvent, pad float64) (Box, bool) {
	var xs, ys []float64
	for _, ev := range events {
		switch a := ev.Action.(type) {
		case core.Line:
			xs = append(xs, a.X1, a.X2)
			ys = append(ys, a.Y1, a.Y2)
		case core.Circle:
			xs = append(xs, a.X, a.X-a.R, a.X+a.R)
			ys = append(ys, a.Y, a.Y-a.R, a.Y+a.R)
		case core.Rect:
			xs = append(xs, a.X, a.X+a.W)
			ys = append(ys, a.Y, a.Y+a.H)
		case core.Path:
			for _, p := range a.Points {
				xs = append(xs, p.X)
				ys = append(ys, p.Y)
			}
		case core.Clear:
			// no geometry
		}
	}
	if len(xs) == 0 || len(ys) == 0 {
		return Box{}, false
	}

	minX, maxX := xs[0], xs[0]
	for _, v := range xs[1:] {
		if v < minX {
			minX = v
		}
		if v > maxX {
			maxX = v
		}
	}
	minY, maxY := ys[0], ys[0]
	for _, v := range ys[1:] {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	return Box{
		MinX: max(0, minX-pad),
		MinY: max(0, minY-pad),
		MaxX: min(core.CanvasWidth, maxX+pad),
		MaxY: min(core.CanvasHeight, maxY+pad),
	}, true
}

// Digest summarizes up to maxItems of the most recent events, newest first,
// for inclusion in a generator prompt. The first line is a region hint built
// from the padded bounding box of the same window, so the generator keeps new
// strokes adjacent to what is already drawn.
func Digest(events []core.DrawEvent, maxItems int, pad float64) string {
	if len(events) == 0 {
		return "(canvas empty)"
	}

	recent := make([]core.DrawEvent, 0, len(events))
	start := 0
	if maxItems > 0 && maxItems < len(events) {
		start = len(events) - maxItems
	}
	for i := len(events) - 1; i >= start; i-- {
		recent = append(recent, events[i])
	}

	var lines []string
	if box, ok := BoundingBox(recent, pad); ok {
		lines = append(lines, fmt.Sprintf(
			"[Stay connected] Everything drawn so far sits in the region x=%.0f~%.0f, y=%.0f~%.0f. Draw your next stroke inside or right next to this region so the canvas stays one picture.",
			box.MinX, box.MaxX, box.MinY, box.MaxY))
		lines = append(lines, "")
	}

	for _, ev := range recent {
		lines = append(lines, describe(ev))
	}
	return strings.Join(lines, "\n")
}

func describe(ev core.DrawEvent) string {
	name := ev.Author
	if name == "" {
		name = "?"
	}
	switch a := ev.Action.(type) {
	case core.Line:
		return fmt.Sprintf("- [%s] line from (%s,%s) to (%s,%s) color=%s",
			name, num(a.X1), num(a.Y1), num(a.X2), num(a.Y2), a.Color)
	case core.Circle:
		return fmt.Sprintf("- [%s] circle center=(%s,%s) r=%s color=%s",
			name, num(a.X), num(a.Y), num(a.R), a.Color)
	case core.Rect:
		return fmt.Sprintf("- [%s] rect left-top=(%s,%s) size=%sx%s color=%s",
			name, num(a.X), num(a.Y), num(a.W), num(a.H), a.Color)
	case core.Path:
		if len(a.Points) == 0 {
			return fmt.Sprintf("- [%s] path 0", name)
		}
		minX, maxX := a.Points[0].X, a.Points[0].X
		minY, maxY := a.Points[0].Y, a.Points[0].Y
		for _, p := range a.Points[1:] {
			minX = min(minX, p.X)
			maxX = max(maxX, p.X)
			minY = min(minY, p.Y)
			maxY = max(maxY, p.Y)
		}
		return fmt.Sprintf("- [%s] path %d @(%.0f-%.0f,%.0f-%.0f) %s",
			name, len(a.Points), minX, maxX, minY, maxY, a.Color)
	case core.Clear:
		return fmt.Sprintf("- [%s] clear", name)
	default:
		return fmt.Sprintf("- [%s] %s", name, ev.Action.Kind())
	}
}

// num renders a coordinate the shortest way ("10", "10.5"), never with an
// exponent.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
