package sapling

import "testing"

func TestInjectClick(t *testing.T) {
	in := &InjectedInput{}
	in.InjectClick(50, 60)
	if in.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", in.Pending())
	}

	// Frame 1: press
	st := in.Touch()
	if !st.Pressed || !st.Held || st.Released {
		t.Errorf("frame 1 = %+v", st)
	}
	assertVec(t, "press position", st.Position, Vec2{50, 60})

	// Frame 2: release
	st = in.Touch()
	if st.Pressed || st.Held || !st.Released {
		t.Errorf("frame 2 = %+v", st)
	}
	if in.Pending() != 0 {
		t.Errorf("pending = %d after two frames", in.Pending())
	}
}

func TestInjectDrag(t *testing.T) {
	in := &InjectedInput{}
	in.InjectDrag(0, 0, 100, 40, 6)
	if in.Pending() != 6 {
		t.Fatalf("pending = %d, want 6", in.Pending())
	}
	if st := in.Touch(); !st.Pressed {
		t.Errorf("first frame should press: %+v", st)
	}
	for i := 1; i <= 4; i++ {
		st := in.Touch()
		if st.Pressed || !st.Held || st.Released {
			t.Errorf("move %d = %+v", i, st)
		}
		f := float64(i) / 5
		assertVec(t, "move", st.Position, Vec2{100 * f, 40 * f})
	}
	st := in.Touch()
	if !st.Released {
		t.Errorf("last frame should release: %+v", st)
	}
	assertVec(t, "release position", st.Position, Vec2{100, 40})
}

func TestInjectDragMinimumFrames(t *testing.T) {
	in := &InjectedInput{}
	in.InjectDrag(0, 0, 10, 10, 0)
	if in.Pending() != 2 {
		t.Errorf("pending = %d, want 2", in.Pending())
	}
}

func TestInjectEmptyQueue(t *testing.T) {
	in := &InjectedInput{}
	if st := in.Touch(); st != (TouchState{}) {
		t.Errorf("empty queue returned %+v", st)
	}
}

func TestInjectClickOnView(t *testing.T) {
	ui, root, _, btn, _ := newTouchUI()
	downs, ups := 0, 0
	v := ui.View(btn)
	v.OnTouchDown = func(TouchContext) { downs++ }
	v.OnTouchUp = func(TouchContext) { ups++ }

	in := &InjectedInput{}
	in.InjectClick(25, 25)
	ui.HandleInput(root, in)
	if downs != 1 || ups != 0 {
		t.Fatalf("after press: downs=%d ups=%d", downs, ups)
	}
	ui.HandleInput(root, in)
	if downs != 1 || ups != 1 {
		t.Errorf("after release: downs=%d ups=%d", downs, ups)
	}
}
