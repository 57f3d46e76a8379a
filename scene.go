package sapling

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene owns a transform tree with a single root, the entities placed in it,
// an optional physics world, an optional UI tree and the renderers. It
// implements ebiten.Game.
//
// Each Step runs these phases in order, after advancing an attached
// InputScript:
//
//  1. entity Update components, then the update func
//  2. world propagation from the root
//  3. physics step
//  4. local propagation from the root, then world propagation again
//  5. entity PostPhysicsUpdate components, camera
//  6. UI layout, UI world propagation, UI state, UI input
type Scene struct {
	tree      *Tree
	pool      *TransformPool
	root      NodeID
	rootWorld *Transform

	entities []*Entity2D
	physics  *PhysicsWorld

	renderer   Renderer
	camera     *Camera
	ui         *UI
	uiRoot     ViewID
	uiRenderer UIRenderer
	uiReloader *UIReloader
	input      InputSource
	script     *InputScript

	// ClearColor fills the screen before drawing when its alpha is positive.
	ClearColor Color
	// FixedStep, when positive, is the dt passed to Step by Update. Zero
	// uses 1/TPS.
	FixedStep float64
	// ScreenshotDir is where Screenshot writes PNG files. Empty means
	// "screenshots".
	ScreenshotDir string

	screenshots []string

	updateFunc func() error
	timer      Timer
	width      int
	height     int
	debug      bool
	frame      uint64
}

// NewScene creates a scene with an identity root node.
func NewScene() *Scene {
	tree := NewTree()
	pool := &TransformPool{}
	rootWorld := pool.Get()
	s := &Scene{
		tree:      tree,
		pool:      pool,
		rootWorld: rootWorld,
		root:      tree.NewNode(rootWorld),
	}
	return s
}

// Tree returns the scene's transform tree.
func (s *Scene) Tree() *Tree { return s.tree }

// Root returns the root node. Its world transform is the frame of every
// top-level entity.
func (s *Scene) Root() NodeID { return s.root }

// Pool returns the pool the scene allocates entity world slots from.
func (s *Scene) Pool() *TransformPool { return s.pool }

// Entities returns the live entities in creation order. The returned slice
// MUST NOT be mutated.
func (s *Scene) Entities() []*Entity2D { return s.entities }

// NewEntity creates an entity at the world transform t, attached under the
// root.
func (s *Scene) NewEntity(t Transform) *Entity2D {
	return s.NewChildEntity(nil, t)
}

// NewChildEntity creates an entity at the world transform t attached under
// parent, or under the root when parent is nil. The entity keeps its world
// pose; its local transform is derived from the parent's last propagated
// frame.
func (s *Scene) NewChildEntity(parent *Entity2D, t Transform) *Entity2D {
	e := NewEntity2D(s.tree, s.pool, t)
	p := s.root
	if parent != nil {
		p = parent.node
	}
	s.tree.AddChild(p, e.node)
	s.entities = append(s.entities, e)
	return e
}

// Reparent moves e under parent (or the root when parent is nil), keeping
// its world pose.
func (s *Scene) Reparent(e, parent *Entity2D) {
	p := s.root
	if parent != nil {
		p = parent.node
	}
	s.tree.AddChild(p, e.node)
}

// DestroyEntity releases e's components and frees its node. Children of e
// are moved under the root with their poses preserved.
func (s *Scene) DestroyEntity(e *Entity2D) {
	if e.world == nil {
		return
	}
	children := append([]NodeID(nil), s.tree.Children(e.node)...)
	for _, c := range children {
		s.tree.AddChild(s.root, c)
	}
	e.Destroy()
	for i, o := range s.entities {
		if o == e {
			copy(s.entities[i:], s.entities[i+1:])
			s.entities[len(s.entities)-1] = nil
			s.entities = s.entities[:len(s.entities)-1]
			break
		}
	}
}

// --- Physics ---

// EnablePhysics creates the scene's physics world. Calling it again replaces
// the world; bodies of the old world are not migrated.
func (s *Scene) EnablePhysics(cfg PhysicsConfig) *PhysicsWorld {
	s.physics = NewPhysicsWorld(cfg)
	return s.physics
}

// Physics returns the physics world, or nil.
func (s *Scene) Physics() *PhysicsWorld { return s.physics }

// AddRigidbody creates a body bound to e's world slot and stores it in e's
// rigidbody slot. Panics if physics is not enabled.
func (s *Scene) AddRigidbody(e *Entity2D, def BodyDef) *Rigidbody {
	if s.physics == nil {
		panic("sapling: AddRigidbody without EnablePhysics")
	}
	rb := s.physics.NewRigidbody(e.world, def)
	e.AddComponent(KindRigidbody, rb)
	return rb
}

// --- Rendering ---

// Renderer returns the scene's sprite renderer.
func (s *Scene) Renderer() *Renderer { return &s.renderer }

// AddSprite creates a sprite bound to e's world slot, registers it with the
// renderer and stores it in e's render slot.
func (s *Scene) AddSprite(e *Entity2D, img *ebiten.Image) *Sprite {
	sp := NewSprite(e.world, img)
	s.renderer.Add(sp)
	e.AddComponent(KindRender, sp)
	return sp
}

// SetCamera sets the camera used for drawing sprites. A nil camera draws in
// world coordinates.
func (s *Scene) SetCamera(c *Camera) {
	s.camera = c
	s.renderer.Camera = c
}

// Camera returns the scene camera, or nil.
func (s *Scene) Camera() *Camera { return s.camera }

// --- UI ---

// SetUI attaches a UI tree rooted at root. The scene lays it out, propagates
// it, runs its hooks and feeds it input every step.
func (s *Scene) SetUI(ui *UI, root ViewID) {
	s.ui = ui
	s.uiRoot = root
	s.uiRenderer.UI = ui
	s.uiRenderer.Root = root
}

// SetUIFont sets the font used by labels that have none of their own.
func (s *Scene) SetUIFont(f *Font) { s.uiRenderer.Font = f }

// UI returns the attached UI and its root.
func (s *Scene) UI() (*UI, ViewID) { return s.ui, s.uiRoot }

// SetUIReloader makes the scene poll r at the start of every UI phase and
// swap in the reloaded tree. Pass nil to stop.
func (s *Scene) SetUIReloader(r *UIReloader) { s.uiReloader = r }

// SetInput sets the source of UI touch input.
func (s *Scene) SetInput(src InputSource) { s.input = src }

// --- Frame loop ---

// SetUpdateFunc sets a callback run once per step after entity updates and
// before world propagation. A non-nil error stops the step and is returned
// from Update.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetDebugMode enables or disables debug mode. When enabled, tree depth and
// child count warnings are printed and per-step phase timings are logged to
// stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	SetDebugMode(enabled)
}

// Frame returns the number of completed steps.
func (s *Scene) Frame() uint64 { return s.frame }

// FPS returns the smoothed update rate measured by the scene timer.
func (s *Scene) FPS() float64 { return s.timer.FPS() }

// Step advances the scene by dt seconds.
func (s *Scene) Step(dt float64) error {
	var stats debugStats
	var err error

	if s.script != nil {
		s.script.step(s)
	}

	stats.entityTime = timed(func() {
		for i := 0; i < len(s.entities); i++ {
			s.entities[i].UpdateComponents(dt)
		}
		if s.updateFunc != nil {
			err = s.updateFunc()
		}
	})
	if err != nil {
		return err
	}

	stats.worldTime = timed(func() { s.tree.SyncWorld(s.root) })

	if s.physics != nil {
		stats.physicsTime = timed(func() { s.physics.Step(dt) })
		stats.localTime = timed(func() {
			s.tree.SyncLocal(s.root)
			s.tree.SyncWorld(s.root)
		})
	}

	for i := 0; i < len(s.entities); i++ {
		s.entities[i].PostPhysicsUpdateComponents(dt)
	}
	if s.camera != nil {
		s.camera.Update(dt)
	}

	if s.ui != nil {
		stats.uiTime = timed(func() {
			s.reloadUI()
			s.ui.UpdateLayout(s.uiRoot)
			s.ui.SyncTransforms(s.uiRoot)
			s.ui.UpdateState(s.uiRoot)
			if s.input != nil {
				s.ui.HandleInput(s.uiRoot, s.input)
			}
		})
	}

	s.frame++
	if s.debug {
		stats.entities = len(s.entities)
		stats.nodes = s.tree.Len()
		if s.physics != nil {
			stats.bodies = s.physics.NumBodies()
		}
		s.debugLog(stats)
	}
	return nil
}

func (s *Scene) reloadUI() {
	if s.uiReloader == nil {
		return
	}
	id, ok, err := s.uiReloader.Poll(s.ui, s.uiRoot)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[sapling] ui reload: %v\n", err)
		return
	}
	if ok {
		s.SetUI(s.ui, id)
		if s.debug {
			_, _ = fmt.Fprintf(os.Stderr, "[sapling] ui reloaded from %s\n", s.uiReloader.Path)
		}
	}
}

// Update implements ebiten.Game.
func (s *Scene) Update() error {
	s.timer.Tick()
	dt := s.FixedStep
	if dt <= 0 {
		dt = 1.0 / float64(ebiten.TPS())
	}
	return s.Step(dt)
}

// Draw implements ebiten.Game. Sprites are drawn first, then the UI.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	s.renderer.Draw(screen)
	if s.ui != nil {
		s.uiRenderer.Draw(screen)
	}
	s.flushScreenshots(screen)
}

// SetLogicalSize fixes the size Layout reports. Zero follows the window.
func (s *Scene) SetLogicalSize(width, height int) {
	s.width = width
	s.height = height
}

// Layout implements ebiten.Game.
func (s *Scene) Layout(outsideWidth, outsideHeight int) (int, int) {
	if s.width > 0 && s.height > 0 {
		return s.width, s.height
	}
	return outsideWidth, outsideHeight
}
