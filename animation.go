package sapling

import (
	"image"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// tweenField selects a component of a node's local transform.
type tweenField uint8

const (
	fieldPositionX tweenField = iota
	fieldPositionY
	fieldRotation
	fieldScaleX
	fieldScaleY
)

func (f tweenField) ptr(t *Transform) *float64 {
	switch f {
	case fieldPositionX:
		return &t.Position.X
	case fieldPositionY:
		return &t.Position.Y
	case fieldRotation:
		return &t.Rotation
	case fieldScaleX:
		return &t.Scale.X
	default:
		return &t.Scale.Y
	}
}

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// the convenience constructors (TweenPosition, TweenScale, TweenRotation,
// TweenColor) and call Update(dt) each frame, or store it on an entity as a
// component.
//
// Node tweens write the node's local transform, so the result shows after
// the next world propagation pass. If the target node is freed, the group
// stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int

	// Node targets are resolved every update; the arena may move.
	tree    *Tree
	node    NodeID
	nfields [4]tweenField

	// Stable pointer targets (sprite colors).
	fields [4]*float64

	Done bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target. It implements Component.
func (g *TweenGroup) Update(dt float64) {
	if g.Done {
		return
	}

	var local *Transform
	if g.tree != nil {
		if !g.tree.Alive(g.node) {
			g.Done = true
			return
		}
		local = g.tree.LocalRef(g.node)
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(float32(dt))
		if local != nil {
			*g.nfields[i].ptr(local) = float64(val)
		} else {
			*g.fields[i] = float64(val)
		}
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// PostPhysicsUpdate implements Component.
func (g *TweenGroup) PostPhysicsUpdate(dt float64) {}

func newNodeTween(tree *Tree, id NodeID, duration float32, fn ease.TweenFunc, to []float64, fields ...tweenField) *TweenGroup {
	g := &TweenGroup{count: len(fields), tree: tree, node: id}
	local := tree.Local(id)
	for i, f := range fields {
		g.tweens[i] = gween.New(float32(*f.ptr(&local)), float32(to[i]), duration, fn)
		g.nfields[i] = f
	}
	return g
}

// TweenPosition animates the node's local position to (toX, toY).
func TweenPosition(tree *Tree, id NodeID, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newNodeTween(tree, id, duration, fn, []float64{toX, toY}, fieldPositionX, fieldPositionY)
}

// TweenScale animates the node's local scale to (toSX, toSY).
func TweenScale(tree *Tree, id NodeID, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newNodeTween(tree, id, duration, fn, []float64{toSX, toSY}, fieldScaleX, fieldScaleY)
}

// TweenRotation animates the node's local rotation to the given angle in
// degrees. The angle is not wrapped; tweening from 350 to 10 turns backwards.
func TweenRotation(tree *Tree, id NodeID, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newNodeTween(tree, id, duration, fn, []float64{to}, fieldRotation)
}

// TweenColor animates all four components of a sprite's tint.
func TweenColor(s *Sprite, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 4}
	g.tweens[0] = gween.New(float32(s.Color.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(s.Color.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(s.Color.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(s.Color.A), float32(to.A), duration, fn)
	g.fields[0] = &s.Color.R
	g.fields[1] = &s.Color.G
	g.fields[2] = &s.Color.B
	g.fields[3] = &s.Color.A
	return g
}

// AnimatorSheet steps a sprite through equally sized frames laid out left to
// right, top to bottom in its image. Frames advance every FrameTime seconds.
type AnimatorSheet struct {
	sprite      *Sprite
	frameW      int
	frameH      int
	columns     int
	numFrames   int
	FrameTime   float64
	Loop        bool
	current     int
	accumulated float64
	paused      bool
}

// NewAnimatorSheet creates an animator over numFrames frames of frameW x
// frameH pixels, starting at the top-left of the sprite's image, and shows
// frame 0. Panics if the sprite has no image or a frame doesn't fit.
func NewAnimatorSheet(s *Sprite, frameW, frameH, numFrames int, frameTime float64, loop bool) *AnimatorSheet {
	if s == nil || s.Image == nil {
		panic("sapling: AnimatorSheet requires a sprite with an image")
	}
	cols := s.Image.Bounds().Dx() / max(frameW, 1)
	if frameW <= 0 || frameH <= 0 || cols == 0 || numFrames <= 0 {
		panic("sapling: AnimatorSheet frame does not fit the image")
	}
	a := &AnimatorSheet{
		sprite:    s,
		frameW:    frameW,
		frameH:    frameH,
		columns:   cols,
		numFrames: numFrames,
		FrameTime: frameTime,
		Loop:      loop,
	}
	a.apply()
	return a
}

// Frame returns the current frame index.
func (a *AnimatorSheet) Frame() int { return a.current }

// NumFrames returns the number of frames.
func (a *AnimatorSheet) NumFrames() int { return a.numFrames }

// SetFrame jumps to frame i, clamped to the valid range.
func (a *AnimatorSheet) SetFrame(i int) {
	a.current = min(max(i, 0), a.numFrames-1)
	a.accumulated = 0
	a.apply()
}

// Pause stops frame advancement.
func (a *AnimatorSheet) Pause() { a.paused = true }

// Play resumes frame advancement.
func (a *AnimatorSheet) Play() { a.paused = false }

// Reset returns to frame 0 and resumes.
func (a *AnimatorSheet) Reset() {
	a.paused = false
	a.SetFrame(0)
}

// Done reports whether a non-looping animation has reached its last frame.
func (a *AnimatorSheet) Done() bool {
	return !a.Loop && a.current+1 >= a.numFrames
}

// Update implements Component.
func (a *AnimatorSheet) Update(dt float64) {
	if a.paused || a.FrameTime <= 0 || a.Done() {
		return
	}
	a.accumulated += dt
	changed := false
	for a.accumulated >= a.FrameTime {
		a.accumulated -= a.FrameTime
		if a.current+1 >= a.numFrames {
			if !a.Loop {
				a.accumulated = 0
				break
			}
			a.current = 0
		} else {
			a.current++
		}
		changed = true
	}
	if changed {
		a.apply()
	}
}

// PostPhysicsUpdate implements Component.
func (a *AnimatorSheet) PostPhysicsUpdate(dt float64) {}

func (a *AnimatorSheet) apply() {
	x := (a.current % a.columns) * a.frameW
	y := (a.current / a.columns) * a.frameH
	origin := a.sprite.Image.Bounds().Min
	a.sprite.Clip = image.Rect(x, y, x+a.frameW, y+a.frameH).Add(origin)
}
