package sapling

// InjectedInput is an InputSource fed by queued synthetic events. Each call
// to Touch consumes one queued frame; an empty queue reports no input. Use it
// for tests and scripted runs.
type InjectedInput struct {
	queue []TouchState
}

// Pending returns the number of queued frames.
func (in *InjectedInput) Pending() int {
	return len(in.queue)
}

// InjectPress queues a press at (x, y).
func (in *InjectedInput) InjectPress(x, y float64) {
	in.queue = append(in.queue, TouchState{Position: Vec2{x, y}, Pressed: true, Held: true})
}

// InjectMove queues a frame with the pointer held at (x, y). Use it between
// InjectPress and InjectRelease to simulate a drag.
func (in *InjectedInput) InjectMove(x, y float64) {
	in.queue = append(in.queue, TouchState{Position: Vec2{x, y}, Held: true})
}

// InjectRelease queues a release at (x, y).
func (in *InjectedInput) InjectRelease(x, y float64) {
	in.queue = append(in.queue, TouchState{Position: Vec2{x, y}, Released: true})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (in *InjectedInput) InjectClick(x, y float64) {
	in.InjectPress(x, y)
	in.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), linearly interpolated moves
// over frames-2 intermediate frames, and a release at (toX, toY). The
// sequence consumes `frames` frames; the minimum is 2.
func (in *InjectedInput) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	in.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		in.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	in.InjectRelease(toX, toY)
}

// Touch implements InputSource.
func (in *InjectedInput) Touch() TouchState {
	if len(in.queue) == 0 {
		return TouchState{}
	}
	st := in.queue[0]
	copy(in.queue, in.queue[1:])
	in.queue = in.queue[:len(in.queue)-1]
	return st
}
