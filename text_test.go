package sapling

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadFont(t *testing.T) {
	f, err := LoadFont(goregular.TTF, 16)
	if err != nil {
		t.Fatal(err)
	}
	if f.LineHeight() <= 0 {
		t.Errorf("LineHeight = %v", f.LineHeight())
	}
	w, h := f.Measure("Hello")
	if w <= 0 || h <= 0 {
		t.Errorf("Measure = %v x %v", w, h)
	}
	wide, _ := f.Measure("Hello, world")
	if wide <= w {
		t.Errorf("longer text measured %v, want > %v", wide, w)
	}
	if f.Face().Size != 16 {
		t.Errorf("face size = %v", f.Face().Size)
	}
}

func TestLoadFontBadData(t *testing.T) {
	if _, err := LoadFont([]byte("not a font"), 12); err == nil {
		t.Error("expected error")
	}
}

func TestLabelOrigin(t *testing.T) {
	ui := NewUI()
	id := ui.NewView("btn", ViewProps{Padding: Edges{Left: 4, Top: 2, Right: 6, Bottom: 8}}, IdentityTransform(), 100, 50)
	v := ui.View(id)

	cases := []struct {
		h, v Alignment
		want Vec2
	}{
		{AlignUnaligned, AlignUnaligned, Vec2{4, 2}},
		{AlignStart, AlignStart, Vec2{4, 2}},
		// Padded box is x 4..94, y 2..42.
		{AlignCenter, AlignCenter, Vec2{4 + (90-30)/2.0, 2 + (40-10)/2.0}},
		{AlignEnd, AlignEnd, Vec2{94 - 30, 42 - 10}},
	}
	for _, c := range cases {
		l := &Label{Text: "x", Horizontal: c.h, Vertical: c.v}
		assertVec(t, "origin", labelOrigin(v, l, 30, 10), c.want)
	}
}
