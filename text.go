package sapling

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Font wraps an Ebitengine text/v2 face at a fixed size.
type Font struct {
	face       *text.GoTextFace
	lineHeight float64
}

// LoadFont loads a TrueType or OpenType font from raw data at the given size.
func LoadFont(ttfData []byte, size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("sapling: parse font: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &Font{face: face, lineHeight: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// Face returns the underlying face for direct text/v2 drawing.
func (f *Font) Face() *text.GoTextFace { return f.face }

// LineHeight returns the distance between baselines.
func (f *Font) LineHeight() float64 { return f.lineHeight }

// Measure returns the size of s drawn with f.
func (f *Font) Measure(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lineHeight)
}

// Label is text drawn inside a view's padded box.
type Label struct {
	Text string
	// Font nil means the drawing UIRenderer's Font.
	Font  *Font
	Color Color
	// Unaligned places the text at the start of the axis.
	Horizontal Alignment
	Vertical   Alignment
}

// labelOrigin returns the view-local top-left of a w x h label.
func labelOrigin(v *View, l *Label, w, h float64) Vec2 {
	pad := v.Props.Padding
	x, ok := alignAxis(l.Horizontal, pad.Left, v.Width-pad.Right, w, 0, 0)
	if !ok {
		x = pad.Left
	}
	y, ok := alignAxis(l.Vertical, pad.Top, v.Height-pad.Bottom, h, 0, 0)
	if !ok {
		y = pad.Top
	}
	return Vec2{x, y}
}

func drawLabel(target *ebiten.Image, v *View, font *Font) {
	l := v.Label
	if l.Font != nil {
		font = l.Font
	}
	if font == nil || l.Text == "" || l.Color.A <= 0 {
		return
	}
	w, h := font.Measure(l.Text)
	origin := labelOrigin(v, l, w, h)

	op := &text.DrawOptions{}
	op.GeoM.Translate(origin.X, origin.Y)
	op.GeoM.Concat(worldGeoM(*v.world))
	c := l.Color
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	op.LineSpacing = font.lineHeight
	text.Draw(target, l.Text, font.face, op)
}
