package sapling

import (
	"fmt"
	"os"
	"time"
)

// globalDebug mirrors the most recently set Scene debug flag so that tree
// operations without a Scene reference can run their checks.
var globalDebug bool

// SetDebugMode enables or disables tree sanity warnings for all trees.
// Scene.SetDebugMode also sets this.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// debugStats holds per-frame phase timings. Only populated when the scene is
// in debug mode.
type debugStats struct {
	entityTime  time.Duration
	worldTime   time.Duration
	physicsTime time.Duration
	localTime   time.Duration
	uiTime      time.Duration
	entities    int
	nodes       int
	bodies      int
}

// debugLog prints the frame's phase timings to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.entityTime + stats.worldTime + stats.physicsTime + stats.localTime + stats.uiTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[sapling] entities: %v | world: %v | physics: %v | local: %v | ui: %v | total: %v\n",
		stats.entityTime, stats.worldTime, stats.physicsTime, stats.localTime, stats.uiTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[sapling] entities: %d | nodes: %d | bodies: %d\n",
		stats.entities, stats.nodes, stats.bodies)
}

// debugCheckTreeDepth warns on stderr if the depth of id exceeds the
// threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(t *Tree, id NodeID) {
	depth := 0
	for p := id; p != 0; p = t.get(p).parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[sapling] warning: tree depth %d exceeds %d (node %#x)\n",
			depth, debugMaxTreeDepth, uint64(id))
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(t *Tree, id NodeID) {
	if n := len(t.get(id).children); n > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[sapling] warning: node %#x has %d children (threshold %d)\n",
			uint64(id), n, debugMaxChildCount)
	}
}

// debugCheckTransform warns when a propagated world transform contains
// non-finite values, typically the result of a zero scale on an ancestor.
func debugCheckTransform(id NodeID, w Transform) {
	if isFinite(w.Position.X) && isFinite(w.Position.Y) && isFinite(w.Rotation) &&
		isFinite(w.Scale.X) && isFinite(w.Scale.Y) {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[sapling] warning: node %#x has a non-finite world transform %+v\n",
		uint64(id), w)
}

func isFinite(f float64) bool {
	return f-f == 0
}

// timed runs fn and returns its duration.
func timed(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}
