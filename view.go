package sapling

// ViewID is a stable handle to a view in a UI. The zero value refers to no
// view.
type ViewID uint64

func makeViewID(index, gen uint32) ViewID {
	return ViewID(uint64(gen)<<nodeIndexBits | uint64(index))
}

func (id ViewID) index() uint32 { return uint32(id) }

func (id ViewID) generation() uint32 { return uint32(uint64(id) >> nodeIndexBits) }

// Valid reports whether id is non-zero.
func (id ViewID) Valid() bool { return id != 0 }

// Alignment positions a view along one axis of its parent's content box.
type Alignment uint8

const (
	AlignUnaligned Alignment = iota // keep the view's own local position
	AlignStart                      // left or top edge
	AlignCenter                     // centered
	AlignEnd                        // right or bottom edge
)

// ViewFlags is a bitmask of layout flags.
type ViewFlags uint8

const (
	// FitContents sizes the view to enclose its active children plus
	// padding.
	FitContents ViewFlags = 1 << iota
)

// Edges holds spacing on four sides, in the parent's units.
type Edges struct {
	Left, Right, Top, Bottom float64
}

// Horizontal returns Left + Right.
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns Top + Bottom.
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }

// ViewProps are the layout settings of a view.
type ViewProps struct {
	Flags      ViewFlags
	Horizontal Alignment
	Vertical   Alignment
	Margin     Edges
	Padding    Edges
}

// View is one element of a UI tree. Its position, rotation and scale live in
// a transform node owned by the UI; its world transform corresponds to the
// point (0, 0) of the view's local box, which extends Width x Height from
// there.
//
// Views are created by UI.NewView and must not be copied.
type View struct {
	Name     string
	Props    ViewProps
	Width    float64
	Height   float64
	Layout   Layout
	UserData any

	// Background fills the view's box when drawn by a UIRenderer. The zero
	// value is transparent.
	Background Color
	Label      *Label

	// Per-view hooks (nil by default).
	OnUpdate    func(ui *UI, id ViewID)
	OnTouchDown func(TouchContext)
	OnTouchDrag func(TouchContext)
	OnTouchUp   func(TouchContext)

	id       ViewID
	gen      uint32
	alive    bool
	node     NodeID
	world    *Transform
	active   bool
	visible  bool
	parent   ViewID
	children []ViewID
}

// ID returns the view's handle.
func (v *View) ID() ViewID { return v.id }

// Active reports whether the view receives layout, state and input updates.
func (v *View) Active() bool { return v.active }

// Visible reports whether the view is drawn.
func (v *View) Visible() bool { return v.visible }

// Children returns the ordered child list. The returned slice MUST NOT be
// mutated by the caller.
func (v *View) Children() []ViewID { return v.children }

// Parent returns the parent view, or zero for a root.
func (v *View) Parent() ViewID { return v.parent }

// World returns the view's world transform.
func (v *View) World() Transform { return *v.world }

// WorldWidth returns Width scaled by the world scale.
func (v *View) WorldWidth() float64 { return v.Width * v.world.Scale.X }

// WorldHeight returns Height scaled by the world scale.
func (v *View) WorldHeight() float64 { return v.Height * v.world.Scale.Y }

// WorldRect returns the axis-aligned world box used for hit testing.
func (v *View) WorldRect() Rect {
	return Rect{X: v.world.Position.X, Y: v.world.Position.Y, Width: v.WorldWidth(), Height: v.WorldHeight()}
}

// UI is an arena of views forming one or more UI trees. It keeps its own
// transform Tree, parallel to the view hierarchy.
type UI struct {
	tree  *Tree
	views []*View
	free  []uint32
	sink  TouchSink
}

// NewUI creates an empty UI.
func NewUI() *UI {
	return &UI{tree: NewTree(), views: make([]*View, 1, 32)}
}

// Tree returns the transform tree backing the UI.
func (ui *UI) Tree() *Tree { return ui.tree }

// SetTouchSink forwards every delivered touch event to sink. Pass nil to
// disable.
func (ui *UI) SetTouchSink(sink TouchSink) { ui.sink = sink }

// NewView creates a detached, active and visible view. transform is the
// view's initial pose; with no parent it is both local and world.
func (ui *UI) NewView(name string, props ViewProps, transform Transform, width, height float64) ViewID {
	var idx uint32
	if n := len(ui.free); n > 0 {
		idx = ui.free[n-1]
		ui.free = ui.free[:n-1]
	} else {
		ui.views = append(ui.views, nil)
		idx = uint32(len(ui.views) - 1)
	}
	var gen uint32 = 1
	if old := ui.views[idx]; old != nil {
		gen = old.gen + 1
	}
	world := new(Transform)
	*world = transform
	v := &View{
		Name:    name,
		Props:   props,
		Width:   width,
		Height:  height,
		Layout:  FreeLayout{},
		gen:     gen,
		alive:   true,
		world:   world,
		active:  true,
		visible: true,
	}
	v.id = makeViewID(idx, gen)
	v.node = ui.tree.NewNode(world)
	ui.views[idx] = v
	return v.id
}

// View resolves id, or returns nil for a stale or invalid handle. The
// pointer stays valid for the life of the view.
func (ui *UI) View(id ViewID) *View {
	idx := id.index()
	if idx == 0 || int(idx) >= len(ui.views) {
		return nil
	}
	v := ui.views[idx]
	if v == nil || !v.alive || v.gen != id.generation() {
		return nil
	}
	return v
}

func (ui *UI) get(id ViewID) *View {
	v := ui.View(id)
	if v == nil {
		panic("sapling: stale or invalid view handle")
	}
	return v
}

// Free removes the view from its parent and releases it. Children become
// roots; they are not freed.
func (ui *UI) Free(id ViewID) {
	v := ui.get(id)
	if v.parent != 0 {
		ui.RemoveChild(v.parent, id)
	}
	for _, c := range v.children {
		if cv := ui.View(c); cv != nil {
			cv.parent = 0
		}
	}
	ui.tree.Free(v.node)
	v.children = nil
	v.alive = false
	v.OnUpdate, v.OnTouchDown, v.OnTouchDrag, v.OnTouchUp = nil, nil, nil, nil
	v.UserData = nil
	ui.free = append(ui.free, id.index())
}

// FreeTree frees id and all of its descendants.
func (ui *UI) FreeTree(id ViewID) {
	v := ui.get(id)
	children := append([]ViewID(nil), v.children...)
	for _, c := range children {
		if ui.View(c) != nil {
			ui.FreeTree(c)
		}
	}
	ui.Free(id)
}

// Len returns the number of live views.
func (ui *UI) Len() int {
	return len(ui.views) - 1 - len(ui.free)
}

// Find returns the first live view with the given name.
func (ui *UI) Find(name string) (ViewID, bool) {
	for _, v := range ui.views {
		if v != nil && v.alive && v.Name == name {
			return v.id, true
		}
	}
	return 0, false
}

// AddChild appends child to parent and returns child. Like Tree.AddChild,
// the child's local transform is rebuilt from its world transform against
// the parent's cached frame, so the child does not move.
func (ui *UI) AddChild(parent, child ViewID) ViewID {
	pv, cv := ui.get(parent), ui.get(child)
	ui.tree.AddChild(pv.node, cv.node)
	if cv.parent != 0 {
		if old := ui.View(cv.parent); old != nil {
			old.children = removeViewID(old.children, child)
		}
	}
	cv.parent = parent
	pv.children = append(pv.children, child)
	return child
}

// RemoveChild removes child from parent's children. Returns true if found.
func (ui *UI) RemoveChild(parent, child ViewID) bool {
	pv := ui.View(parent)
	if pv == nil {
		return false
	}
	n := len(pv.children)
	pv.children = removeViewID(pv.children, child)
	if len(pv.children) == n {
		return false
	}
	if cv := ui.View(child); cv != nil {
		ui.tree.RemoveChild(pv.node, cv.node)
		cv.parent = 0
	}
	return true
}

func removeViewID(s []ViewID, id ViewID) []ViewID {
	for i, c := range s {
		if c == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = 0
			return s[:len(s)-1]
		}
	}
	return s
}

// Local returns the view's local transform.
func (ui *UI) Local(id ViewID) Transform {
	return ui.tree.Local(ui.get(id).node)
}

// SetLocal replaces the view's local transform.
func (ui *UI) SetLocal(id ViewID, t Transform) {
	ui.tree.SetLocal(ui.get(id).node, t)
}

// SetPosition sets the view's local position.
func (ui *UI) SetPosition(id ViewID, x, y float64) {
	ui.tree.LocalRef(ui.get(id).node).Position = Vec2{x, y}
}

// UpdateTransforms refreshes world transforms of the tree rooted at id. Call
// it after UpdateLayout.
func (ui *UI) UpdateTransforms(id ViewID, parent Transform, parentMat Mat2) {
	ui.tree.UpdateAllWorldTransforms(ui.get(id).node, parent, parentMat)
}

// SyncTransforms runs UpdateTransforms with an identity context.
func (ui *UI) SyncTransforms(id ViewID) {
	ui.UpdateTransforms(id, IdentityTransform(), IdentityMat2)
}

// UpdateState runs the view's OnUpdate hook, then recurses into active
// children.
func (ui *UI) UpdateState(id ViewID) {
	v := ui.get(id)
	if v.OnUpdate != nil {
		v.OnUpdate(ui, id)
	}
	for _, c := range v.children {
		if cv := ui.View(c); cv != nil && cv.active {
			ui.UpdateState(c)
		}
	}
}

// SetActive sets the active flag on id and every descendant, whatever their
// current state.
func (ui *UI) SetActive(id ViewID, active bool) {
	v := ui.get(id)
	v.active = active
	for _, c := range v.children {
		ui.SetActive(c, active)
	}
}

// SetVisible sets the visible flag on id and every descendant, whatever their
// current state.
func (ui *UI) SetVisible(id ViewID, visible bool) {
	v := ui.get(id)
	v.visible = visible
	for _, c := range v.children {
		ui.SetVisible(c, visible)
	}
}

// Inside reports whether p lies in the view's world box. Edges count as
// inside. World transforms must be current.
func (ui *UI) Inside(id ViewID, p Vec2) bool {
	return ui.get(id).WorldRect().Contains(p.X, p.Y)
}

// Walk visits id and its descendants pre-order. Returning false from fn
// skips that view's descendants.
func (ui *UI) Walk(id ViewID, fn func(v *View) bool) {
	v := ui.get(id)
	if !fn(v) {
		return
	}
	for _, c := range v.children {
		ui.Walk(c, fn)
	}
}
