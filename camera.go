package sapling

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera controls the view into the world: position, zoom, rotation and
// viewport. It never touches the transform tree; it only maps between world
// and screen space.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in degrees (clockwise).
	Rotation float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	// CullEnabled skips sprites whose world AABB doesn't intersect the
	// camera's visible bounds.
	CullEnabled bool

	followTarget *Transform
	followOffset Vec2
	followLerp   float64

	// BoundsEnabled clamps the camera position so the visible area stays
	// within Bounds.
	BoundsEnabled bool
	Bounds        Rect

	view    ebiten.GeoM
	invView ebiten.GeoM
	key     [6]float64 // inputs the cached matrices were built from
	valid   bool

	scroll *scrollAnim
}

// NewCamera creates a camera centered on the origin rendering into viewport.
func NewCamera(viewport Rect) *Camera {
	return &Camera{Zoom: 1, Viewport: viewport, CullEnabled: true}
}

// Follow makes the camera track a world transform slot with the given offset
// and lerp factor. A lerp of 1.0 snaps immediately.
func (c *Camera) Follow(target *Transform, offset Vec2, lerp float64) {
	c.followTarget = target
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera to the given world position over duration
// seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scroll = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool { return c.scroll != nil }

// SetBounds enables camera bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables camera bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// Update advances follow, scroll and bounds clamping. Follow reads the
// target's world slot, so call it after world transforms are propagated.
func (c *Camera) Update(dt float64) {
	if c.followTarget != nil {
		tx := c.followTarget.Position.X + c.followOffset.X
		ty := c.followTarget.Position.Y + c.followOffset.Y
		c.X += (tx - c.X) * c.followLerp
		c.Y += (ty - c.Y) * c.followLerp
	}

	if s := c.scroll; s != nil {
		if !s.doneX {
			val, done := s.tweenX.Update(float32(dt))
			c.X = float64(val)
			s.doneX = done
		}
		if !s.doneY {
			val, done := s.tweenY.Update(float32(dt))
			c.Y = float64(val)
			s.doneY = done
		}
		if s.doneX && s.doneY {
			c.scroll = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds restricts the camera position so the visible area stays
// within Bounds.
func (c *Camera) clampToBounds() {
	halfW := c.Viewport.Width / (2 * c.Zoom)
	halfH := c.Viewport.Height / (2 * c.Zoom)

	minX := c.Bounds.X + halfW
	maxX := c.Bounds.X + c.Bounds.Width - halfW
	minY := c.Bounds.Y + halfH
	maxY := c.Bounds.Y + c.Bounds.Height - halfH

	// Bounds smaller than the visible area: center.
	if minX > maxX {
		c.X = c.Bounds.X + c.Bounds.Width/2
	} else {
		c.X = math.Max(minX, math.Min(c.X, maxX))
	}
	if minY > maxY {
		c.Y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		c.Y = math.Max(minY, math.Min(c.Y, maxY))
	}
}

// GeoM returns the world-to-screen matrix:
// Translate(-X, -Y), Rotate(-Rotation), Scale(Zoom), Translate(viewport center).
func (c *Camera) GeoM() ebiten.GeoM {
	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	key := [6]float64{c.X, c.Y, c.Zoom, c.Rotation, cx, cy}
	if c.valid && key == c.key {
		return c.view
	}
	var g ebiten.GeoM
	g.Translate(-c.X, -c.Y)
	g.Rotate(-deg2rad(c.Rotation))
	g.Scale(c.Zoom, c.Zoom)
	g.Translate(cx, cy)
	c.view = g
	c.invView = g
	c.invView.Invert()
	c.key = key
	c.valid = true
	return c.view
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(p Vec2) Vec2 {
	g := c.GeoM()
	x, y := g.Apply(p.X, p.Y)
	return Vec2{x, y}
}

// ScreenToWorld converts screen coordinates to world coordinates. It has the
// signature EbitenInput.ScreenToWorld expects.
func (c *Camera) ScreenToWorld(sx, sy float64) Vec2 {
	c.GeoM()
	x, y := c.invView.Apply(sx, sy)
	return Vec2{x, y}
}

// VisibleBounds returns the axis-aligned world rectangle the camera sees.
func (c *Camera) VisibleBounds() Rect {
	c.GeoM()
	return geoMAABB(c.invView, c.Viewport.X, c.Viewport.Y, c.Viewport.Width, c.Viewport.Height)
}

// geoMAABB transforms the rectangle (x, y, w, h) by g and returns the
// axis-aligned box around the result.
func geoMAABB(g ebiten.GeoM, x, y, w, h float64) Rect {
	x0, y0 := g.Apply(x, y)
	x1, y1 := g.Apply(x+w, y)
	x2, y2 := g.Apply(x+w, y+h)
	x3, y3 := g.Apply(x, y+h)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
