package sapling

// Component is per-entity behavior driven once per frame by its owner.
// Update runs in the game phase, before world transforms are propagated;
// PostPhysicsUpdate runs after the physics step and the local resync.
type Component interface {
	Update(dt float64)
	PostPhysicsUpdate(dt float64)
}

// Releaser is implemented by components that hold resources outside the
// entity, such as a physics body. Release is called when the component is
// replaced, removed or its entity destroyed.
type Releaser interface {
	Release()
}

// ComponentKind is the closed set of component slots an entity can fill.
type ComponentKind uint8

const (
	KindAnimator ComponentKind = iota
	KindCollider
	KindRigidbody
	KindRender
	KindTween
	KindBehavior
	kindCount
)

var kindNames = [kindCount]string{
	KindAnimator:  "animator",
	KindCollider:  "collider",
	KindRigidbody: "rigidbody",
	KindRender:    "render",
	KindTween:     "tween",
	KindBehavior:  "behavior",
}

// String returns the kind name.
func (k ComponentKind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// Entity owns a table of components, at most one per kind. Components are
// updated in kind order.
type Entity struct {
	components [kindCount]Component
}

// AddComponent stores c under kind, releasing any component it replaces.
// Panics on an unknown kind.
func (e *Entity) AddComponent(kind ComponentKind, c Component) {
	if kind >= kindCount {
		panic("sapling: unknown component kind")
	}
	release(e.components[kind])
	e.components[kind] = c
}

// Component returns the component stored under kind, or nil.
func (e *Entity) Component(kind ComponentKind) Component {
	if kind >= kindCount {
		return nil
	}
	return e.components[kind]
}

// RemoveComponent releases and clears the component under kind. Returns true
// if one was present.
func (e *Entity) RemoveComponent(kind ComponentKind) bool {
	if kind >= kindCount || e.components[kind] == nil {
		return false
	}
	release(e.components[kind])
	e.components[kind] = nil
	return true
}

// UpdateComponents calls Update on every component.
func (e *Entity) UpdateComponents(dt float64) {
	for _, c := range e.components {
		if c != nil {
			c.Update(dt)
		}
	}
}

// PostPhysicsUpdateComponents calls PostPhysicsUpdate on every component.
func (e *Entity) PostPhysicsUpdateComponents(dt float64) {
	for _, c := range e.components {
		if c != nil {
			c.PostPhysicsUpdate(dt)
		}
	}
}

// ReleaseAll releases and clears every component.
func (e *Entity) ReleaseAll() {
	for i, c := range e.components {
		release(c)
		e.components[i] = nil
	}
}

func release(c Component) {
	if r, ok := c.(Releaser); ok {
		r.Release()
	}
}

// GetComponent returns the component under kind as a T.
func GetComponent[T Component](e *Entity, kind ComponentKind) (T, bool) {
	var zero T
	c := e.Component(kind)
	if c == nil {
		return zero, false
	}
	cast, ok := c.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}

// Entity2D is an entity placed in a transform tree. Its world transform slot
// comes from a TransformPool and is shared with its node and with any
// component that reads or writes the pose (sprites, rigidbodies).
type Entity2D struct {
	Entity

	tree  *Tree
	pool  *TransformPool
	node  NodeID
	world *Transform
}

// NewEntity2D allocates a world slot from pool, initializes it to t and
// creates a detached node for it in tree.
func NewEntity2D(tree *Tree, pool *TransformPool, t Transform) *Entity2D {
	world := pool.Get()
	*world = t
	return &Entity2D{tree: tree, pool: pool, node: tree.NewNode(world), world: world}
}

// Node returns the entity's node handle.
func (e *Entity2D) Node() NodeID { return e.node }

// World returns the entity's shared world transform slot.
func (e *Entity2D) World() *Transform { return e.world }

// Local returns a pointer to the entity's local transform for game logic
// edits. It must not be retained across node creation.
func (e *Entity2D) Local() *Transform { return e.tree.LocalRef(e.node) }

// Destroy releases all components, frees the node and returns the world
// slot to the pool. Children of the node become roots.
func (e *Entity2D) Destroy() {
	if e.world == nil {
		return
	}
	e.ReleaseAll()
	e.tree.Free(e.node)
	e.pool.Put(e.world)
	e.world = nil
	e.node = 0
}
