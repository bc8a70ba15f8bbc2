package core

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseAction_LineDefaults(t *testing.T) {
	act, err := ParseAction([]byte(`{"type":"line","x1":10,"y1":20,"x2":30,"y2":40}`))
	if err != nil {
		t.Fatalf("ParseAction failed: %v", err)
	}
	line, ok := act.(Line)
	if !ok {
		t.Fatalf("Expected Line, got %T", act)
	}
	if line.X1 != 10 || line.Y1 != 20 || line.X2 != 30 || line.Y2 != 40 {
		t.Fatalf("Line geometry wrong: %+v", line)
	}
	if line.Color != DefaultColor || line.Width != DefaultWidth {
		t.Fatalf("Line defaults not applied: %+v", line)
	}
}

func TestParseAction_GeometryRequired(t *testing.T) {
	cases := []string{
		`{"type":"line","x1":1,"y1":2,"x2":3}`,
		`{"type":"circle","x":1,"y":2}`,
		`{"type":"rect","x":1,"y":2,"w":3}`,
		`{"type":"path"}`,
		`{"type":"path","points":[]}`,
		`{"type":"path","points":[{"x":1}]}`,
	}
	for _, c := range cases {
		if _, err := ParseAction([]byte(c)); err == nil {
			t.Errorf("Expected parse error for %s", c)
		}
	}
}

func TestParseAction_UnknownType(t *testing.T) {
	if _, err := ParseAction([]byte(`{"type":"star","x":1}`)); err == nil {
		t.Error("Expected error for unknown type")
	}
	if _, err := ParseAction([]byte(`{"x":1}`)); err == nil {
		t.Error("Expected error for missing type")
	}
	if _, err := ParseAction([]byte(`not json`)); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestParseAction_OverridesAndFlags(t *testing.T) {
	act, err := ParseAction([]byte(`{"type":"circle","x":5,"y":6,"r":7,"color":"#ff0000","fill":true,"width":9}`))
	if err != nil {
		t.Fatalf("ParseAction failed: %v", err)
	}
	c := act.(Circle)
	if c.Color != "#ff0000" || !c.Fill || c.Width != 9 {
		t.Fatalf("Circle overrides not applied: %+v", c)
	}

	act, err = ParseAction([]byte(`{"type":"path","points":[{"x":1,"y":2},{"x":3,"y":4}],"close":true}`))
	if err != nil {
		t.Fatalf("ParseAction failed: %v", err)
	}
	p := act.(Path)
	if len(p.Points) != 2 || !p.Close || p.Color != DefaultColor {
		t.Fatalf("Path parse wrong: %+v", p)
	}
}

func TestAction_MarshalRoundTrip(t *testing.T) {
	actions := []Action{
		Line{X1: 1, Y1: 2, X2: 3, Y2: 4, Color: "#123456", Width: 3},
		Circle{X: 10, Y: 20, R: 5, Color: "#abcdef", Fill: true, Width: 2},
		Rect{X: 0, Y: 0, W: 100, H: 50, Color: "#000000", Width: 4},
		Path{Points: []Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, Color: "#fff", Width: 6, Close: true},
		Clear{},
	}
	for _, in := range actions {
		data, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("Marshal %T failed: %v", in, err)
		}

		var tagged map[string]any
		if err := json.Unmarshal(data, &tagged); err != nil {
			t.Fatalf("Marshal %T produced invalid JSON: %v", in, err)
		}
		if tagged["type"] != in.Kind() {
			t.Fatalf("Marshal %T missing discriminator: %s", in, data)
		}

		out, err := ParseAction(data)
		if err != nil {
			t.Fatalf("ParseAction after Marshal %T failed: %v", in, err)
		}
		if !reflect.DeepEqual(in, out) {
			t.Fatalf("Round trip changed action: in=%+v out=%+v", in, out)
		}
	}
}

func TestAction_TranslateRoundTrip(t *testing.T) {
	actions := []Action{
		Line{X1: 1, Y1: 2, X2: 3, Y2: 4},
		Circle{X: 10, Y: 20, R: 5},
		Rect{X: 0, Y: 0, W: 100, H: 50},
		Path{Points: []Point{{X: 1, Y: 1}, {X: 2, Y: 2}}},
		Clear{},
	}
	for _, in := range actions {
		back := in.Translate(70, -30).Translate(-70, 30)
		if !reflect.DeepEqual(in, back) {
			t.Fatalf("Translate round trip changed %T: in=%+v back=%+v", in, in, back)
		}
	}
}

func TestAction_TranslateCopiesPath(t *testing.T) {
	p := Path{Points: []Point{{X: 1, Y: 1}}}
	moved := p.Translate(5, 5).(Path)
	if p.Points[0].X != 1 {
		t.Fatalf("Translate mutated the original path: %+v", p)
	}
	if moved.Points[0].X != 6 || moved.Points[0].Y != 6 {
		t.Fatalf("Translate produced wrong geometry: %+v", moved)
	}
}
