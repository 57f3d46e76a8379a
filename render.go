package sapling

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sprite draws an image at a world transform. It only reads the transform
// slot; the slot is normally shared with a node and possibly a rigidbody.
type Sprite struct {
	Image     *ebiten.Image
	Clip      image.Rectangle // source rectangle; empty means the whole image
	Pivot     Vec2            // in source pixels, the point placed at the pose
	Color     Color
	BlendMode BlendMode
	Layer     int
	Visible   bool
	flipX     bool
	flipY     bool
	transform *Transform
	renderer  *Renderer
}

// NewSprite creates a visible, untinted sprite bound to transform.
func NewSprite(transform *Transform, img *ebiten.Image) *Sprite {
	if transform == nil {
		panic("sapling: NewSprite requires a world transform slot")
	}
	return &Sprite{Image: img, Color: ColorWhite, Visible: true, transform: transform}
}

// Transform returns the slot the sprite reads.
func (s *Sprite) Transform() *Transform { return s.transform }

// FlipX toggles horizontal mirroring.
func (s *Sprite) FlipX() { s.flipX = !s.flipX }

// FlipY toggles vertical mirroring.
func (s *Sprite) FlipY() { s.flipY = !s.flipY }

// FlippedX reports whether the sprite is mirrored horizontally.
func (s *Sprite) FlippedX() bool { return s.flipX }

// FlippedY reports whether the sprite is mirrored vertically.
func (s *Sprite) FlippedY() bool { return s.flipY }

// Update implements Component.
func (s *Sprite) Update(dt float64) {}

// PostPhysicsUpdate implements Component.
func (s *Sprite) PostPhysicsUpdate(dt float64) {}

// Release unregisters the sprite from its renderer.
func (s *Sprite) Release() {
	if s.renderer != nil {
		s.renderer.Remove(s)
	}
}

// source returns the sub-image to draw, or nil.
func (s *Sprite) source() *ebiten.Image {
	if s.Image == nil {
		return nil
	}
	if s.Clip.Empty() {
		return s.Image
	}
	return s.Image.SubImage(s.Clip).(*ebiten.Image)
}

// size returns the dimensions of the drawn source region.
func (s *Sprite) size() (w, h float64) {
	if !s.Clip.Empty() {
		return float64(s.Clip.Dx()), float64(s.Clip.Dy())
	}
	if s.Image != nil {
		b := s.Image.Bounds()
		return float64(b.Dx()), float64(b.Dy())
	}
	return 0, 0
}

// GeoM returns the matrix placing the sprite's source pixels in world space:
// pivot offset and flips first, then the world pose.
func (s *Sprite) GeoM() ebiten.GeoM {
	w, h := s.size()
	var g ebiten.GeoM
	if s.flipX {
		g.Scale(-1, 1)
		g.Translate(w, 0)
	}
	if s.flipY {
		g.Scale(1, -1)
		g.Translate(0, h)
	}
	g.Translate(-s.Pivot.X, -s.Pivot.Y)
	g.Concat(worldGeoM(*s.transform))
	return g
}

// worldGeoM converts a transform into an ebiten.GeoM. Transform matrices
// multiply row vectors; GeoM multiplies column vectors, hence the transpose.
func worldGeoM(t Transform) ebiten.GeoM {
	m := t.Matrix()
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0][0])
	g.SetElement(0, 1, m[1][0])
	g.SetElement(1, 0, m[0][1])
	g.SetElement(1, 1, m[1][1])
	g.SetElement(0, 2, t.Position.X)
	g.SetElement(1, 2, t.Position.Y)
	return g
}

// drawCommand is one queued sprite draw.
type drawCommand struct {
	sprite *Sprite
	layer  int
	order  int // insertion order for a stable sort
}

// Renderer draws registered sprites ordered by Layer, then by registration
// order.
type Renderer struct {
	sprites  []*Sprite
	commands []drawCommand
	sortBuf  []drawCommand
	// Camera, when non-nil, maps world space to the screen and culls
	// sprites outside its visible bounds.
	Camera *Camera

	culled int
}

// Add registers s for drawing, moving it from any other renderer.
func (r *Renderer) Add(s *Sprite) {
	if s.renderer == r {
		return
	}
	if s.renderer != nil {
		s.renderer.Remove(s)
	}
	s.renderer = r
	r.sprites = append(r.sprites, s)
}

// Remove unregisters s. Returns true if it was registered.
func (r *Renderer) Remove(s *Sprite) bool {
	for i, o := range r.sprites {
		if o == s {
			copy(r.sprites[i:], r.sprites[i+1:])
			r.sprites[len(r.sprites)-1] = nil
			r.sprites = r.sprites[:len(r.sprites)-1]
			s.renderer = nil
			return true
		}
	}
	return false
}

// Len returns the number of registered sprites.
func (r *Renderer) Len() int { return len(r.sprites) }

// Culled returns how many sprites the last Draw skipped as off-camera.
func (r *Renderer) Culled() int { return r.culled }

// Draw submits every visible sprite to target. World transforms must be
// current.
func (r *Renderer) Draw(target *ebiten.Image) {
	r.collect()
	r.culled = 0
	var view ebiten.GeoM
	var bounds Rect
	cull := false
	if r.Camera != nil {
		view = r.Camera.GeoM()
		bounds = r.Camera.VisibleBounds()
		cull = r.Camera.CullEnabled
	}
	var op ebiten.DrawImageOptions
	for i := range r.commands {
		s := r.commands[i].sprite
		src := s.source()
		if src == nil {
			continue
		}
		op.GeoM = s.GeoM()
		if cull {
			w, h := s.size()
			if !geoMAABB(op.GeoM, 0, 0, w, h).Intersects(bounds) {
				r.culled++
				continue
			}
		}
		op.GeoM.Concat(view)
		op.ColorScale.Reset()
		op.ColorScale.Scale(float32(s.Color.R*s.Color.A), float32(s.Color.G*s.Color.A), float32(s.Color.B*s.Color.A), float32(s.Color.A))
		op.Blend = s.BlendMode.EbitenBlend()
		target.DrawImage(src, &op)
	}
}

// collect fills r.commands with visible sprites in draw order.
func (r *Renderer) collect() {
	r.commands = r.commands[:0]
	for i, s := range r.sprites {
		if s.Visible {
			r.commands = append(r.commands, drawCommand{sprite: s, layer: s.Layer, order: i})
		}
	}
	r.mergeSort()
}

// mergeSort sorts r.commands in place using r.sortBuf as scratch space.
// Bottom-up merge sort: no allocations once the buffer reaches its
// high-water mark.
func (r *Renderer) mergeSort() {
	n := len(r.commands)
	if n <= 1 {
		return
	}
	if cap(r.sortBuf) < n {
		r.sortBuf = make([]drawCommand, n)
	}
	r.sortBuf = r.sortBuf[:n]

	a, b := r.commands, r.sortBuf
	swapped := false
	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}
	if swapped {
		copy(r.commands, r.sortBuf)
	}
}

func commandLessOrEqual(a, b drawCommand) bool {
	if a.layer != b.layer {
		return a.layer < b.layer
	}
	return a.order <= b.order
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []drawCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:hi], src[i:mid])
	copy(dst[k:hi], src[j:hi])
}

// UIRenderer fills the box of every visible view under Root that has a
// non-transparent Background, then draws its Label. Invisible views hide
// their subtree.
type UIRenderer struct {
	UI   *UI
	Root ViewID
	// Font is used by labels without their own.
	Font *Font
}

// Draw submits the view boxes to target in tree order, parents first. World
// transforms must be current.
func (r *UIRenderer) Draw(target *ebiten.Image) {
	if r.UI == nil || r.UI.View(r.Root) == nil {
		return
	}
	var op ebiten.DrawImageOptions
	r.UI.Walk(r.Root, func(v *View) bool {
		if !v.visible {
			return false
		}
		if v.Background.A > 0 && v.Width > 0 && v.Height > 0 {
			op.GeoM.Reset()
			op.GeoM.Scale(v.Width, v.Height)
			op.GeoM.Concat(worldGeoM(*v.world))
			op.ColorScale.Reset()
			c := v.Background
			op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
			target.DrawImage(whitePixel, &op)
		}
		if v.Label != nil {
			drawLabel(target, v, r.Font)
		}
		return true
	})
}
