package sapling

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// TouchPhase identifies a kind of touch event.
type TouchPhase uint8

const (
	TouchDown TouchPhase = iota // pointer pressed this frame
	TouchDrag                   // pointer held and still down
	TouchUp                     // pointer released this frame
)

// String returns the phase name.
func (p TouchPhase) String() string {
	switch p {
	case TouchDown:
		return "down"
	case TouchDrag:
		return "drag"
	case TouchUp:
		return "up"
	default:
		return "unknown"
	}
}

// TouchContext is passed to a view's touch hooks.
type TouchContext struct {
	UI       *UI
	View     ViewID
	Phase    TouchPhase
	Position Vec2 // same space as world transforms
	Local    Vec2 // Position in the view's local space
	// HandledByChild is true when at least one child of the view contained
	// the point and received the event first.
	HandledByChild bool
}

// TouchEvent is forwarded to a TouchSink for every view that receives a
// touch event.
type TouchEvent struct {
	Phase          TouchPhase
	View           ViewID
	Name           string
	Position       Vec2
	Local          Vec2
	HandledByChild bool
}

// TouchSink receives delivered touch events, e.g. to bridge them into an ECS.
type TouchSink interface {
	EmitTouch(event TouchEvent)
}

// TouchState is one frame of pointer input.
type TouchState struct {
	Position Vec2
	Pressed  bool // went down this frame
	Held     bool // down this frame (includes Pressed)
	Released bool // went up this frame
}

// InputSource supplies one TouchState per frame. Positions must be in the
// same space as the UI's world transforms.
type InputSource interface {
	Touch() TouchState
}

// --- Dispatch ---

// HandleInput reads one frame from src and dispatches touch down, drag and
// up events into the tree rooted at id. World transforms must be current.
// Returns true if any child of id consumed an event.
func (ui *UI) HandleInput(id ViewID, src InputSource) bool {
	st := src.Touch()
	handled := false
	if st.Pressed {
		handled = ui.HandleTouchDown(id, st.Position) || handled
	} else if st.Held {
		handled = ui.HandleTouchDrag(id, st.Position) || handled
	}
	if st.Released {
		handled = ui.HandleTouchUp(id, st.Position) || handled
	}
	return handled
}

// HandleTouchDown delivers a touch-down at p. Returns true if a child of id
// consumed it.
func (ui *UI) HandleTouchDown(id ViewID, p Vec2) bool {
	return ui.dispatch(id, TouchDown, p)
}

// HandleTouchDrag delivers a drag at p. Returns true if a child of id
// consumed it.
func (ui *UI) HandleTouchDrag(id ViewID, p Vec2) bool {
	return ui.dispatch(id, TouchDrag, p)
}

// HandleTouchUp delivers a touch-up at p. Returns true if a child of id
// consumed it.
func (ui *UI) HandleTouchUp(id ViewID, p Vec2) bool {
	return ui.dispatch(id, TouchUp, p)
}

// dispatch sends the event depth-first to every active child whose box
// contains p, then runs the view's own hook.
func (ui *UI) dispatch(id ViewID, phase TouchPhase, p Vec2) bool {
	v := ui.get(id)
	handled := false
	for i := 0; i < len(v.children); i++ {
		c := v.children[i]
		cv := ui.View(c)
		if cv == nil || !cv.active || !cv.WorldRect().Contains(p.X, p.Y) {
			continue
		}
		ui.dispatch(c, phase, p)
		handled = true
	}

	var hook func(TouchContext)
	switch phase {
	case TouchDown:
		hook = v.OnTouchDown
	case TouchDrag:
		hook = v.OnTouchDrag
	case TouchUp:
		hook = v.OnTouchUp
	}
	if hook == nil && ui.sink == nil {
		return handled
	}
	local := ui.tree.NodeWorldToLocalPoint(v.node, p)
	if hook != nil {
		hook(TouchContext{UI: ui, View: id, Phase: phase, Position: p, Local: local, HandledByChild: handled})
	}
	if ui.sink != nil {
		ui.sink.EmitTouch(TouchEvent{
			Phase: phase, View: id, Name: v.Name,
			Position: p, Local: local, HandledByChild: handled,
		})
	}
	return handled
}

// --- Ebitengine input ---

// EbitenInput reads the mouse, or the first active touch when one exists,
// from Ebitengine. Screen coordinates are mapped through ScreenToWorld when
// set.
type EbitenInput struct {
	ScreenToWorld func(x, y float64) Vec2

	touchIDs []ebiten.TouchID
	touch    ebiten.TouchID
	touching bool
	last     Vec2
}

// Touch implements InputSource.
func (in *EbitenInput) Touch() TouchState {
	if st, ok := in.readTouch(); ok {
		return st
	}
	mx, my := ebiten.CursorPosition()
	pos := in.toWorld(float64(mx), float64(my))
	return TouchState{
		Position: pos,
		Pressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Held:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Released: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}
}

func (in *EbitenInput) readTouch() (TouchState, bool) {
	if in.touching {
		if inpututil.IsTouchJustReleased(in.touch) {
			in.touching = false
			return TouchState{Position: in.last, Released: true}, true
		}
		x, y := ebiten.TouchPosition(in.touch)
		in.last = in.toWorld(float64(x), float64(y))
		return TouchState{Position: in.last, Held: true}, true
	}
	in.touchIDs = inpututil.AppendJustPressedTouchIDs(in.touchIDs[:0])
	if len(in.touchIDs) == 0 {
		return TouchState{}, false
	}
	in.touch = in.touchIDs[0]
	in.touching = true
	x, y := ebiten.TouchPosition(in.touch)
	in.last = in.toWorld(float64(x), float64(y))
	return TouchState{Position: in.last, Pressed: true, Held: true}, true
}

func (in *EbitenInput) toWorld(x, y float64) Vec2 {
	if in.ScreenToWorld != nil {
		return in.ScreenToWorld(x, y)
	}
	return Vec2{x, y}
}
