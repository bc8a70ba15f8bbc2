package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/drawboard/core"
)

// ErrInvalidStroke is returned when a model response decodes as JSON but does
// not contain a usable stroke in any accepted shape.
var ErrInvalidStroke = errors.New("AI did not return a valid stroke")

// ErrNotCommandList is returned when a compose response is valid JSON but not
// an array of drawing commands.
var ErrNotCommandList = errors.New("AI did not return a list of commands")

const snippetLen = 120

// StripFences removes a surrounding markdown code fence from a model
// response. Models regularly wrap their JSON in ``` blocks despite being told
// not to.
func StripFences(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		} else {
			content = content[3:]
		}
	}
	if strings.HasSuffix(content, "```") {
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = strings.TrimSpace(content[:idx])
		}
	}
	return content
}

// wirePoint decodes leniently: missing or null coordinates become 0 rather
// than rejecting the whole stroke.
type wirePoint struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func (p wirePoint) toPoint() core.Point {
	var pt core.Point
	if p.X != nil {
		pt.X = *p.X
	}
	if p.Y != nil {
		pt.Y = *p.Y
	}
	return pt
}

type strokeWire struct {
	Points []wirePoint `json:"points"`
	Color  *string     `json:"color"`
	Width  *float64    `json:"width"`
}

func (w strokeWire) toStroke() *core.Stroke {
	stroke := &core.Stroke{Color: core.DefaultColor, Width: core.DefaultWidth}
	if w.Color != nil {
		stroke.Color = *w.Color
	}
	if w.Width != nil {
		stroke.Width = *w.Width
	}
	stroke.Points = make([]core.Point, len(w.Points))
	for i, p := range w.Points {
		stroke.Points[i] = p.toPoint()
	}
	return stroke
}

// commandWire covers the fields of both path and line commands so a single
// decode handles either shape of array response.
type commandWire struct {
	Type   string      `json:"type"`
	Points []wirePoint `json:"points"`
	X1     *float64    `json:"x1"`
	Y1     *float64    `json:"y1"`
	X2     *float64    `json:"x2"`
	Y2     *float64    `json:"y2"`
	Color  *string     `json:"color"`
	Width  *float64    `json:"width"`
}

// ParseStroke decodes a model response into a stroke. Three shapes are
// accepted: the requested {"points", "color", "width"} object, a command
// array whose first element is a path, and a command array whose first
// element is a line. Anything else is rejected; single-point strokes pass
// through and are treated as a no-op by the drawing loop.
func ParseStroke(content string) (*core.Stroke, error) {
	cleaned := strings.TrimSpace(StripFences(content))
	switch {
	case strings.HasPrefix(cleaned, "{"):
		var wire strokeWire
		if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
			return nil, decodeError(cleaned, err)
		}
		if len(wire.Points) == 0 {
			return nil, ErrInvalidStroke
		}
		return wire.toStroke(), nil
	case strings.HasPrefix(cleaned, "["):
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
			return nil, decodeError(cleaned, err)
		}
		if len(items) == 0 {
			return nil, ErrInvalidStroke
		}
		var first commandWire
		if err := json.Unmarshal(items[0], &first); err != nil {
			return nil, ErrInvalidStroke
		}
		switch {
		case first.Type == core.KindPath && len(first.Points) > 0:
			return strokeWire{Points: first.Points, Color: first.Color, Width: first.Width}.toStroke(), nil
		case first.Type == core.KindLine:
			return strokeWire{
				Points: []wirePoint{{X: first.X1, Y: first.Y1}, {X: first.X2, Y: first.Y2}},
				Color:  first.Color,
				Width:  first.Width,
			}.toStroke(), nil
		}
		return nil, ErrInvalidStroke
	default:
		var probe any
		if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
			return nil, decodeError(cleaned, err)
		}
		return nil, ErrInvalidStroke
	}
}

// ParseCommands decodes a compose response into drawing actions. Elements
// that are not valid commands are dropped rather than failing the batch; a
// response that is not a JSON array at all fails with ErrNotCommandList.
func ParseCommands(content string) ([]core.Action, error) {
	cleaned := strings.TrimSpace(StripFences(content))
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		var probe any
		if json.Unmarshal([]byte(cleaned), &probe) == nil {
			return nil, ErrNotCommandList
		}
		return nil, decodeError(cleaned, err)
	}
	actions := make([]core.Action, 0, len(items))
	for _, item := range items {
		action, err := core.ParseAction(item)
		if err != nil {
			continue
		}
		actions = append(actions, action)
	}
	return actions, nil
}

// decodeError wraps a JSON error together with the head of the offending
// response, so the diagnostic shown to viewers points at what the model
// actually said.
func decodeError(content string, err error) error {
	snippet := strings.TrimSpace(content)
	if len(snippet) > snippetLen {
		snippet = snippet[:snippetLen] + "..."
	}
	return fmt.Errorf("cannot parse response as JSON: %v (response begins with %q)", err, snippet)
}
