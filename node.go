package sapling

// NodeID is a stable handle to a node in a Tree. The zero value refers to no
// node. Handles carry a generation so that a freed and reused slot does not
// alias an old handle.
type NodeID uint64

const nodeIndexBits = 32

func makeNodeID(index, gen uint32) NodeID {
	return NodeID(uint64(gen)<<nodeIndexBits | uint64(index))
}

func (id NodeID) index() uint32 { return uint32(id) }

func (id NodeID) generation() uint32 { return uint32(uint64(id) >> nodeIndexBits) }

// Valid reports whether id is non-zero. It does not check liveness; use
// Tree.Alive for that.
func (id NodeID) Valid() bool { return id != 0 }

// node is the arena record behind a NodeID.
type node struct {
	gen   uint32
	alive bool

	local Transform
	// world is owned by whoever drives this node (an entity, a physics body,
	// a UI view). Third parties may write it between propagation passes.
	world *Transform
	// cached and cachedMat are only written by this node's own update
	// calls. They are the frozen reference used for children's conversions.
	cached    Transform
	cachedMat Mat2

	parent   NodeID
	children []NodeID
}

// Tree is an arena of transform nodes. Nodes refer to each other by NodeID,
// so the arena may grow without invalidating any parent or child link.
//
// A Tree is not safe for concurrent use. Mutating child lists while a
// propagation pass runs over the same tree is not supported.
type Tree struct {
	nodes []node
	free  []uint32
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	// Slot 0 is reserved so that the zero NodeID never resolves.
	return &Tree{nodes: make([]node, 1, 64)}
}

// NewNode creates a detached node bound to the caller-owned world transform
// slot. The node never allocates or frees that slot. The local transform
// starts equal to the current world transform, and the cache is seeded from
// it so the node can act as a parent before its first update.
func (t *Tree) NewNode(world *Transform) NodeID {
	if world == nil {
		panic("sapling: NewNode requires a world transform slot")
	}
	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.nodes = append(t.nodes, node{})
		idx = uint32(len(t.nodes) - 1)
	}
	nd := &t.nodes[idx]
	nd.gen++
	nd.alive = true
	nd.world = world
	nd.local = *world
	nd.cached = *world
	nd.cachedMat = world.Matrix()
	nd.parent = 0
	nd.children = nd.children[:0]
	return makeNodeID(idx, nd.gen)
}

// Free detaches id from its parent, orphans its children and recycles the
// slot. World transform storage of the node and of its children is left
// untouched.
func (t *Tree) Free(id NodeID) {
	nd := t.get(id)
	if nd.parent != 0 {
		t.RemoveChild(nd.parent, id)
	}
	for _, c := range nd.children {
		if cn := t.lookup(c); cn != nil {
			cn.parent = 0
		}
	}
	clear(nd.children)
	nd.children = nd.children[:0]
	nd.alive = false
	nd.world = nil
	t.free = append(t.free, id.index())
}

// Alive reports whether id refers to a live node of this tree.
func (t *Tree) Alive(id NodeID) bool {
	return t.lookup(id) != nil
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	return len(t.nodes) - 1 - len(t.free)
}

func (t *Tree) lookup(id NodeID) *node {
	idx := id.index()
	if idx == 0 || int(idx) >= len(t.nodes) {
		return nil
	}
	nd := &t.nodes[idx]
	if !nd.alive || nd.gen != id.generation() {
		return nil
	}
	return nd
}

// get resolves id or panics. The returned pointer is only valid until the
// next NewNode call, which may grow the arena.
func (t *Tree) get(id NodeID) *node {
	nd := t.lookup(id)
	if nd == nil {
		panic("sapling: stale or invalid node handle")
	}
	return nd
}

// --- Tree manipulation ---

// AddChild appends child to parent's children and returns child.
//
// The child's local transform is overwritten: it becomes the child's current
// world transform expressed relative to the parent's cached world transform,
// so the child keeps its world pose. If child already has a parent it is
// removed from it first. Panics if child is parent or one of its ancestors.
func (t *Tree) AddChild(parent, child NodeID) NodeID {
	if t.isAncestor(child, parent) {
		panic("sapling: adding child would create a cycle")
	}
	cn := t.get(child)
	if cn.parent != 0 {
		t.RemoveChild(cn.parent, child)
	}
	pn := t.get(parent)
	cn.local = WorldToLocal(*cn.world, pn.cached, pn.cachedMat)
	cn.parent = parent
	pn.children = append(pn.children, child)
	if globalDebug {
		debugCheckTreeDepth(t, child)
		debugCheckChildCount(t, parent)
	}
	return child
}

// RemoveChild searches parent's children for child and removes it. Returns
// true if the child was found. The child keeps its local transform.
func (t *Tree) RemoveChild(parent, child NodeID) bool {
	pn := t.lookup(parent)
	if pn == nil {
		return false
	}
	for i, c := range pn.children {
		if c == child {
			copy(pn.children[i:], pn.children[i+1:])
			pn.children[len(pn.children)-1] = 0
			pn.children = pn.children[:len(pn.children)-1]
			if cn := t.lookup(child); cn != nil && cn.parent == parent {
				cn.parent = 0
			}
			return true
		}
	}
	return false
}

// Children returns the ordered child list. The returned slice MUST NOT be
// mutated by the caller.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.get(id).children
}

// Parent returns the parent of id, or zero for a root.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.get(id).parent
}

// isAncestor reports whether candidate is node or one of its ancestors.
func (t *Tree) isAncestor(candidate, id NodeID) bool {
	for p := id; p != 0; {
		if p == candidate {
			return true
		}
		nd := t.lookup(p)
		if nd == nil {
			return false
		}
		p = nd.parent
	}
	return false
}

// --- Accessors ---

// Local returns the node's local transform.
func (t *Tree) Local(id NodeID) Transform {
	return t.get(id).local
}

// SetLocal replaces the node's local transform. World state is refreshed by
// the next world propagation pass.
func (t *Tree) SetLocal(id NodeID, local Transform) {
	t.get(id).local = local
}

// LocalRef returns a pointer to the node's local transform for in-place
// edits. It must not be retained across NewNode calls.
func (t *Tree) LocalRef(id NodeID) *Transform {
	return &t.get(id).local
}

// World returns the shared world transform slot of the node.
func (t *Tree) World(id NodeID) *Transform {
	return t.get(id).world
}

// Cached returns the world transform recorded by the node's last update.
func (t *Tree) Cached(id NodeID) Transform {
	return t.get(id).cached
}

// CachedMatrix returns the matrix recorded by the node's last update.
func (t *Tree) CachedMatrix(id NodeID) Mat2 {
	return t.get(id).cachedMat
}

// TransformationMatrix returns the matrix derived from the node's current
// world transform, which may differ from the cache after external writes.
func (t *Tree) TransformationMatrix(id NodeID) Mat2 {
	return t.get(id).world.Matrix()
}

// --- Propagation ---

// UpdateWorldTransform recomputes the node's world transform from its local
// transform and the given parent context, writes it into the shared slot and
// refreshes the cache.
func (t *Tree) UpdateWorldTransform(id NodeID, parent Transform, parentMat Mat2) {
	nd := t.get(id)
	w := LocalToWorld(nd.local, parent, parentMat)
	if globalDebug {
		debugCheckTransform(id, w)
	}
	*nd.world = w
	nd.cached = w
	nd.cachedMat = w.Matrix()
}

// UpdateLocalTransform recomputes the node's local transform from its current
// world transform and the given parent context. The cache is not touched.
func (t *Tree) UpdateLocalTransform(id NodeID, parent Transform, parentMat Mat2) {
	nd := t.get(id)
	nd.local = WorldToLocal(*nd.world, parent, parentMat)
}

// UpdateAllWorldTransforms refreshes world transforms in the subtree rooted at
// id, pre-order. Each child receives its parent's freshly computed world
// transform as context.
func (t *Tree) UpdateAllWorldTransforms(id NodeID, parent Transform, parentMat Mat2) {
	t.UpdateWorldTransform(id, parent, parentMat)
	nd := t.get(id)
	w, m := nd.cached, nd.cachedMat
	for i := 0; i < len(nd.children); i++ {
		t.UpdateAllWorldTransforms(nd.children[i], w, m)
		nd = t.get(id)
	}
}

// UpdateAllLocalTransforms recomputes local transforms in the subtree rooted
// at id from the current world transforms, pre-order.
//
// Children receive this node's cached world transform, not its new local
// result. The cache still holds the pose from before any external write, so
// a child whose own world transform is untouched keeps its local transform
// even when an ancestor was moved externally.
func (t *Tree) UpdateAllLocalTransforms(id NodeID, parent Transform, parentMat Mat2) {
	t.UpdateLocalTransform(id, parent, parentMat)
	nd := t.get(id)
	c, m := nd.cached, nd.cachedMat
	for i := 0; i < len(nd.children); i++ {
		t.UpdateAllLocalTransforms(nd.children[i], c, m)
		nd = t.get(id)
	}
}

// SyncWorld runs UpdateAllWorldTransforms from id with an identity context.
func (t *Tree) SyncWorld(id NodeID) {
	t.UpdateAllWorldTransforms(id, IdentityTransform(), IdentityMat2)
}

// SyncLocal runs UpdateAllLocalTransforms from id with an identity context.
func (t *Tree) SyncLocal(id NodeID) {
	t.UpdateAllLocalTransforms(id, IdentityTransform(), IdentityMat2)
}

// --- Conversion against the cached frame ---

// NodeLocalToWorld maps a transform from the node's local space to world
// space using the node's cached world transform.
func (t *Tree) NodeLocalToWorld(id NodeID, local Transform) Transform {
	nd := t.get(id)
	return LocalToWorld(local, nd.cached, nd.cachedMat)
}

// NodeWorldToLocal maps a world transform into the node's local space using
// the node's cached world transform.
func (t *Tree) NodeWorldToLocal(id NodeID, world Transform) Transform {
	nd := t.get(id)
	return WorldToLocal(world, nd.cached, nd.cachedMat)
}

// NodeLocalToWorldPoint maps a point from the node's local space to world
// space.
func (t *Tree) NodeLocalToWorldPoint(id NodeID, p Vec2) Vec2 {
	nd := t.get(id)
	return LocalToWorldPoint(p, nd.cached.Position, nd.cachedMat)
}

// NodeWorldToLocalPoint maps a world point into the node's local space.
func (t *Tree) NodeWorldToLocalPoint(id NodeID, p Vec2) Vec2 {
	nd := t.get(id)
	return WorldToLocalPoint(p, nd.cached.Position, nd.cachedMat)
}

// NodeLocalToWorldRotation adds the node's cached world rotation.
func (t *Tree) NodeLocalToWorldRotation(id NodeID, r float64) float64 {
	return LocalToWorldRotation(r, t.get(id).cached.Rotation)
}

// NodeWorldToLocalRotation subtracts the node's cached world rotation.
func (t *Tree) NodeWorldToLocalRotation(id NodeID, r float64) float64 {
	return WorldToLocalRotation(r, t.get(id).cached.Rotation)
}

// NodeLocalToWorldScale multiplies by the node's cached world scale.
func (t *Tree) NodeLocalToWorldScale(id NodeID, s Vec2) Vec2 {
	return LocalToWorldScale(s, t.get(id).cached.Scale)
}

// NodeWorldToLocalScale divides by the node's cached world scale.
func (t *Tree) NodeWorldToLocalScale(id NodeID, s Vec2) Vec2 {
	return WorldToLocalScale(s, t.get(id).cached.Scale)
}
