package sapling

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	cases := map[string]string{
		"after play":   "after_play",
		"  menu.v2  ":  "menu.v2",
		"ui/menu:open": "ui_menu_open",
		"\t":           "unlabeled",
		"héllo":        "h_llo",
	}
	for in, want := range cases {
		if got := sanitizeLabel(in); got != want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWritePNGRoundTrip(t *testing.T) {
	img := unpremultiply([]byte{255, 0, 0, 255, 0, 0, 0, 0}, 2, 1)
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := writePNG(path, img); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := got.Bounds(); b.Dx() != 2 || b.Dy() != 1 {
		t.Errorf("bounds = %v", b)
	}
	if r, _, _, a := got.At(0, 0).RGBA(); r != 0xffff || a != 0xffff {
		t.Errorf("pixel 0 = %v", got.At(0, 0))
	}
}

func TestWritePNGMissingDir(t *testing.T) {
	img := unpremultiply(make([]byte, 4), 1, 1)
	if err := writePNG(filepath.Join(t.TempDir(), "nope", "x.png"), img); err == nil {
		t.Error("expected error")
	}
}

func TestScreenshotQueue(t *testing.T) {
	s := NewScene()
	s.Screenshot("a")
	s.Screenshot("b")
	if !equalStrings(s.screenshots, []string{"a", "b"}) {
		t.Errorf("queue = %v", s.screenshots)
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		100, 50, 0, 200, // half-ish alpha
		10, 20, 30, 255, // opaque
		0, 0, 0, 0, // transparent
	}
	img := unpremultiply(pixels, 3, 1)
	want := []byte{127, 63, 0, 200, 10, 20, 30, 255, 0, 0, 0, 0}
	for i := range want {
		if img.Pix[i] != want[i] {
			t.Errorf("pix[%d] = %d, want %d", i, img.Pix[i], want[i])
		}
	}
}
