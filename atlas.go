package sapling

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"os"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// Region is a named sub-rectangle of an atlas page.
type Region struct {
	Page int
	// Rect is the packed pixels on the page.
	Rect image.Rectangle
	// SourceSize is the untrimmed size as authored.
	SourceSize image.Point
	// Trim is where Rect's top-left sits inside the untrimmed source.
	Trim image.Point
}

// Atlas holds one or more page images and a map of named regions.
type Atlas struct {
	Pages   []*ebiten.Image
	regions map[string]Region
}

var magentaPixel *ebiten.Image

func placeholderImage() *ebiten.Image {
	if magentaPixel == nil {
		magentaPixel = ebiten.NewImage(1, 1)
		magentaPixel.Fill(color.RGBA{R: 255, B: 255, A: 255})
	}
	return magentaPixel
}

// Region returns the named region.
func (a *Atlas) Region(name string) (Region, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Names returns the region names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.regions))
	for name := range a.regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply points s at the named region. The pivot is set so the untrimmed
// source's top-left lands on the sprite's pose. A missing region shows a 1x1
// magenta placeholder and reports false.
func (a *Atlas) Apply(s *Sprite, name string) bool {
	r, ok := a.regions[name]
	if !ok || r.Page >= len(a.Pages) || a.Pages[r.Page] == nil {
		if globalDebug {
			_, _ = fmt.Fprintf(os.Stderr, "[sapling] atlas region %q not found, using placeholder\n", name)
		}
		s.Image = placeholderImage()
		s.Clip = image.Rectangle{}
		s.Pivot = Vec2{}
		return false
	}
	s.Image = a.Pages[r.Page]
	s.Clip = r.Rect
	s.Pivot = Vec2{-float64(r.Trim.X), -float64(r.Trim.Y)}
	return true
}

// NewSprite creates a sprite bound to transform showing the named region.
func (a *Atlas) NewSprite(transform *Transform, name string) *Sprite {
	s := NewSprite(transform, nil)
	a.Apply(s, name)
	return s
}

// LoadAtlas parses TexturePacker JSON and associates the given page images.
// Both the hash format (a single "frames" object) and the multi-page array
// format ("textures" with per-page frames) are accepted. Rotated regions are
// rejected.
func LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("sapling: parse atlas: %w", err)
	}

	atlas := &Atlas{Pages: pages, regions: make(map[string]Region)}
	switch {
	case probe.Textures != nil:
		var textures []atlasPage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, fmt.Errorf("sapling: parse atlas textures: %w", err)
		}
		for i, tex := range textures {
			if err := atlas.addFrames(tex.Frames, i); err != nil {
				return nil, err
			}
		}
	case probe.Frames != nil:
		var frames map[string]atlasFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("sapling: parse atlas frames: %w", err)
		}
		if err := atlas.addFrames(frames, 0); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("sapling: atlas JSON has neither \"frames\" nor \"textures\"")
	}
	return atlas, nil
}

func (a *Atlas) addFrames(frames map[string]atlasFrame, page int) error {
	for name, f := range frames {
		if f.Rotated {
			return fmt.Errorf("sapling: atlas region %q: rotated regions are not supported", name)
		}
		r := Region{
			Page:       page,
			Rect:       image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+f.Frame.W, f.Frame.Y+f.Frame.H),
			SourceSize: image.Pt(f.SourceSize.W, f.SourceSize.H),
			Trim:       image.Pt(f.SpriteSourceSize.X, f.SpriteSourceSize.Y),
		}
		if r.SourceSize == (image.Point{}) {
			r.SourceSize = r.Rect.Size()
		}
		a.regions[name] = r
	}
	return nil
}

type atlasRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type atlasFrame struct {
	Frame            atlasRect `json:"frame"`
	Rotated          bool      `json:"rotated"`
	SpriteSourceSize atlasRect `json:"spriteSourceSize"`
	SourceSize       struct {
		W int `json:"w"`
		H int `json:"h"`
	} `json:"sourceSize"`
}

type atlasPage struct {
	Image  string                `json:"image"`
	Frames map[string]atlasFrame `json:"frames"`
}
