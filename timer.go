package sapling

import "time"

// Timer measures frame deltas and a smoothed frames-per-second value.
type Timer struct {
	// Now returns the current time. Defaults to time.Now; tests substitute a
	// fake clock.
	Now func() time.Time

	last    time.Time
	started bool
	delta   float64
	fps     float64
	// MaxDelta clamps a single step, e.g. after the window was dragged or
	// the process suspended. Zero disables clamping.
	MaxDelta float64
}

// fpsSmoothing is the weight of the newest sample in the FPS average.
const fpsSmoothing = 0.1

// Tick records a frame boundary and returns the seconds elapsed since the
// previous Tick. The first call returns 0.
func (t *Timer) Tick() float64 {
	now := t.now()
	if !t.started {
		t.started = true
		t.last = now
		t.delta = 0
		return 0
	}
	d := now.Sub(t.last).Seconds()
	t.last = now
	if t.MaxDelta > 0 && d > t.MaxDelta {
		d = t.MaxDelta
	}
	t.delta = d
	if d > 0 {
		inst := 1 / d
		if t.fps == 0 {
			t.fps = inst
		} else {
			t.fps += (inst - t.fps) * fpsSmoothing
		}
	}
	return d
}

// Delta returns the last step in seconds.
func (t *Timer) Delta() float64 { return t.delta }

// FPS returns the smoothed frame rate.
func (t *Timer) FPS() float64 { return t.fps }

// Reset forgets the previous frame boundary.
func (t *Timer) Reset() {
	t.started = false
	t.delta = 0
	t.fps = 0
}

func (t *Timer) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}
