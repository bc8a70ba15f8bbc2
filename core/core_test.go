package core

import "testing"

func TestStroke_Drawable(t *testing.T) {
	if (Stroke{}).Drawable() {
		t.Error("Empty stroke should not be drawable")
	}
	if (Stroke{Points: []Point{{X: 1, Y: 1}}}).Drawable() {
		t.Error("Single point stroke should not be drawable")
	}
	if !(Stroke{Points: []Point{{X: 1, Y: 1}, {X: 2, Y: 2}}}).Drawable() {
		t.Error("Two point stroke should be drawable")
	}
}

func TestStroke_IsErase(t *testing.T) {
	cases := map[string]bool{
		"#ffffff": true,
		"#FFFFFF": true,
		"#fff":    true,
		" #fff ":  true,
		"#000000": false,
		"#fffffe": false,
		"white":   false,
		"":        false,
	}
	for color, want := range cases {
		s := Stroke{Color: color}
		if s.IsErase() != want {
			t.Errorf("IsErase(%q) = %v, want %v", color, s.IsErase(), want)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-5, 0, 10) != 0 {
		t.Error("Clamp below range failed")
	}
	if Clamp(15, 0, 10) != 10 {
		t.Error("Clamp above range failed")
	}
	if Clamp(5, 0, 10) != 5 {
		t.Error("Clamp inside range failed")
	}
}
