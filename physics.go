package sapling

import (
	"math"

	"github.com/jakecoffman/cp"
)

// MaxCollisionLayers is the number of distinct collision layers.
const MaxCollisionLayers = 32

const collisionTypeCollider cp.CollisionType = 1

// CollisionLayer selects which colliders interact. Valid values are
// 0..MaxCollisionLayers-1.
type CollisionLayer uint8

// PhysicsConfig configures a PhysicsWorld.
type PhysicsConfig struct {
	Gravity    Vec2
	Iterations int // solver iterations; zero keeps the Chipmunk default
}

// PhysicsWorld adapts a Chipmunk space to shared world transform slots.
// Each Step pushes externally changed poses into the simulation, steps it
// and writes the resulting poses back into the slots. Between the two the
// tree must not run a propagation pass.
type PhysicsWorld struct {
	space     *cp.Space
	bodies    []*Rigidbody
	colliders map[*cp.Shape]*Collider
	masks     [MaxCollisionLayers]uint
}

// NewPhysicsWorld creates a world where all layers collide.
func NewPhysicsWorld(cfg PhysicsConfig) *PhysicsWorld {
	space := cp.NewSpace()
	if cfg.Iterations > 0 {
		space.Iterations = uint(cfg.Iterations)
	}
	space.SetGravity(cp.Vector{X: cfg.Gravity.X, Y: cfg.Gravity.Y})

	pw := &PhysicsWorld{
		space:     space,
		colliders: make(map[*cp.Shape]*Collider),
	}
	pw.AllLayersCollideOn()

	handler := space.NewCollisionHandler(collisionTypeCollider, collisionTypeCollider)
	handler.UserData = pw
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		a, b := arb.Shapes()
		ca, cb := pw.colliders[a], pw.colliders[b]
		if ca == nil || cb == nil {
			return true
		}
		if ca.onCollision != nil {
			ca.onCollision(cb.owner)
		}
		if cb.onCollision != nil {
			cb.onCollision(ca.owner)
		}
		return true
	}
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	return pw.space
}

// NumBodies returns the number of live rigidbodies.
func (pw *PhysicsWorld) NumBodies() int {
	return len(pw.bodies)
}

// --- Layers ---

// SetLayersCollide turns collision between two layers on or off.
func (pw *PhysicsWorld) SetLayersCollide(a, b CollisionLayer, collides bool) {
	if collides {
		pw.masks[a] |= 1 << b
		pw.masks[b] |= 1 << a
	} else {
		pw.masks[a] &^= 1 << b
		pw.masks[b] &^= 1 << a
	}
	pw.refreshFilters()
}

// DoLayersCollide reports whether collision between two layers is on.
func (pw *PhysicsWorld) DoLayersCollide(a, b CollisionLayer) bool {
	return pw.masks[a]&(1<<b) != 0
}

// AllLayersCollideOn enables collision between every pair of layers.
func (pw *PhysicsWorld) AllLayersCollideOn() {
	for i := range pw.masks {
		pw.masks[i] = 1<<MaxCollisionLayers - 1
	}
	pw.refreshFilters()
}

// AllLayersCollideOff disables collision between every pair of layers.
func (pw *PhysicsWorld) AllLayersCollideOff() {
	for i := range pw.masks {
		pw.masks[i] = 0
	}
	pw.refreshFilters()
}

func (pw *PhysicsWorld) filter(layer CollisionLayer) cp.ShapeFilter {
	return cp.ShapeFilter{Group: cp.NO_GROUP, Categories: 1 << layer, Mask: pw.masks[layer]}
}

func (pw *PhysicsWorld) refreshFilters() {
	for shape, c := range pw.colliders {
		shape.SetFilter(pw.filter(c.layer))
	}
}

// --- Bodies ---

// BodyType selects how a rigidbody is simulated.
type BodyType uint8

const (
	BodyDynamic   BodyType = iota // moved by forces, gravity and contacts
	BodyKinematic                 // moved only by its velocity
)

// BodyDef describes a rigidbody.
type BodyDef struct {
	Type          BodyType
	Mass          float64 // dynamic only; <= 0 means 1
	FixedRotation bool
}

// Rigidbody is a simulated body bound to a world transform slot. It is a
// Component so an entity can own it; releasing it removes the body and its
// colliders from the space.
type Rigidbody struct {
	pw        *PhysicsWorld
	body      *cp.Body
	transform *Transform
	colliders []*Collider
	def       BodyDef
	moment    float64
	synced    Transform // pose last exchanged with the simulation
}

// NewRigidbody creates a body at the slot's current pose. The slot must
// outlive the body.
func (pw *PhysicsWorld) NewRigidbody(transform *Transform, def BodyDef) *Rigidbody {
	if transform == nil {
		panic("sapling: NewRigidbody requires a world transform slot")
	}
	var body *cp.Body
	switch def.Type {
	case BodyKinematic:
		body = cp.NewKinematicBody()
	default:
		if def.Mass <= 0 {
			def.Mass = 1
		}
		// The moment is recomputed as colliders are attached.
		body = cp.NewBody(def.Mass, math.Inf(1))
	}
	rb := &Rigidbody{pw: pw, body: body, transform: transform, def: def}
	body.SetPosition(cp.Vector{X: transform.Position.X, Y: transform.Position.Y})
	body.SetAngle(deg2rad(transform.Rotation))
	rb.synced = *transform
	pw.space.AddBody(body)
	pw.bodies = append(pw.bodies, rb)
	return rb
}

// Body returns the underlying Chipmunk body.
func (rb *Rigidbody) Body() *cp.Body { return rb.body }

// Transform returns the world slot the body is bound to.
func (rb *Rigidbody) Transform() *Transform { return rb.transform }

// Velocity returns the linear velocity in world units per second.
func (rb *Rigidbody) Velocity() Vec2 {
	v := rb.body.Velocity()
	return Vec2{v.X, v.Y}
}

// SetVelocity sets the linear velocity.
func (rb *Rigidbody) SetVelocity(v Vec2) {
	rb.body.SetVelocity(v.X, v.Y)
}

// AngularVelocity returns the angular velocity in degrees per second.
func (rb *Rigidbody) AngularVelocity() float64 {
	return rad2deg(rb.body.AngularVelocity())
}

// SetAngularVelocity sets the angular velocity in degrees per second.
func (rb *Rigidbody) SetAngularVelocity(degPerSec float64) {
	rb.body.SetAngularVelocity(deg2rad(degPerSec))
}

// Update implements Component.
func (rb *Rigidbody) Update(dt float64) {}

// PostPhysicsUpdate implements Component.
func (rb *Rigidbody) PostPhysicsUpdate(dt float64) {}

// Release removes the body and its colliders from the space.
func (rb *Rigidbody) Release() {
	if rb.pw == nil {
		return
	}
	for _, c := range rb.colliders {
		c.detach()
	}
	rb.colliders = nil
	rb.pw.space.RemoveBody(rb.body)
	for i, b := range rb.pw.bodies {
		if b == rb {
			copy(rb.pw.bodies[i:], rb.pw.bodies[i+1:])
			rb.pw.bodies[len(rb.pw.bodies)-1] = nil
			rb.pw.bodies = rb.pw.bodies[:len(rb.pw.bodies)-1]
			break
		}
	}
	rb.pw = nil
}

// push copies the slot pose into the body when it changed since the last
// exchange, so bodies left alone by game logic are not teleported.
func (rb *Rigidbody) push() {
	t := *rb.transform
	if t.Position != rb.synced.Position {
		rb.body.SetPosition(cp.Vector{X: t.Position.X, Y: t.Position.Y})
	}
	if t.Rotation != rb.synced.Rotation {
		rb.body.SetAngle(deg2rad(t.Rotation))
	}
	rb.synced = t
}

// pull writes the simulated pose into the slot. Scale is left alone.
func (rb *Rigidbody) pull() {
	p := rb.body.Position()
	rb.transform.Position = Vec2{p.X, p.Y}
	rb.transform.Rotation = rad2deg(rb.body.Angle())
	rb.synced = *rb.transform
}

func (rb *Rigidbody) addMoment(m float64) {
	if rb.def.Type != BodyDynamic || rb.def.FixedRotation {
		return
	}
	rb.moment += m
	rb.body.SetMoment(rb.moment)
}

// Step pushes changed poses, advances the simulation by dt seconds and
// writes the new poses into every body's world slot.
func (pw *PhysicsWorld) Step(dt float64) {
	for _, rb := range pw.bodies {
		rb.push()
	}
	pw.space.Step(dt)
	for _, rb := range pw.bodies {
		rb.pull()
	}
}

// --- Colliders ---

// ColliderDef holds settings shared by all collider shapes.
type ColliderDef struct {
	Layer      CollisionLayer
	Sensor     bool
	Friction   float64
	Elasticity float64
	// Owner is passed to the other collider's OnCollision.
	Owner       any
	OnCollision func(other any)
}

// AABBDef describes a box. Origin is the box's top-left corner relative to
// the body position.
type AABBDef struct {
	ColliderDef
	Dims   Vec2
	Origin Vec2
}

// CircleDef describes a circle centered at Center relative to the body.
type CircleDef struct {
	ColliderDef
	Radius float64
	Center Vec2
}

// PolyDef describes a convex polygon in body-relative coordinates.
type PolyDef struct {
	ColliderDef
	Points []Vec2
}

// Collider is a shape attached to a rigidbody. It is a Component so it can
// sit in an entity's collider slot; releasing it removes the shape.
type Collider struct {
	pw          *PhysicsWorld
	shape       *cp.Shape
	body        *Rigidbody
	layer       CollisionLayer
	owner       any
	onCollision func(other any)
}

// AddAABB attaches a box collider to body.
func (pw *PhysicsWorld) AddAABB(body *Rigidbody, def AABBDef) *Collider {
	bb := cp.BB{L: def.Origin.X, B: def.Origin.Y, R: def.Origin.X + def.Dims.X, T: def.Origin.Y + def.Dims.Y}
	shape := cp.NewBox2(body.body, bb, 0)
	body.addMoment(cp.MomentForBox(body.def.Mass, def.Dims.X, def.Dims.Y))
	return pw.attach(body, shape, def.ColliderDef)
}

// AddCircle attaches a circle collider to body.
func (pw *PhysicsWorld) AddCircle(body *Rigidbody, def CircleDef) *Collider {
	offset := cp.Vector{X: def.Center.X, Y: def.Center.Y}
	shape := cp.NewCircle(body.body, def.Radius, offset)
	body.addMoment(cp.MomentForCircle(body.def.Mass, 0, def.Radius, offset))
	return pw.attach(body, shape, def.ColliderDef)
}

// AddPoly attaches a convex polygon collider to body.
func (pw *PhysicsWorld) AddPoly(body *Rigidbody, def PolyDef) *Collider {
	verts := make([]cp.Vector, len(def.Points))
	for i, p := range def.Points {
		verts[i] = cp.Vector{X: p.X, Y: p.Y}
	}
	shape := cp.NewPolyShapeRaw(body.body, len(verts), verts, 0)
	body.addMoment(polyMoment(body.def.Mass, def.Points))
	return pw.attach(body, shape, def.ColliderDef)
}

func (pw *PhysicsWorld) attach(body *Rigidbody, shape *cp.Shape, def ColliderDef) *Collider {
	shape.SetCollisionType(collisionTypeCollider)
	shape.SetSensor(def.Sensor)
	shape.SetFriction(def.Friction)
	shape.SetElasticity(def.Elasticity)
	shape.SetFilter(pw.filter(def.Layer))
	pw.space.AddShape(shape)

	c := &Collider{
		pw:          pw,
		shape:       shape,
		body:        body,
		layer:       def.Layer,
		owner:       def.Owner,
		onCollision: def.OnCollision,
	}
	pw.colliders[shape] = c
	body.colliders = append(body.colliders, c)
	return c
}

// Shape returns the underlying Chipmunk shape.
func (c *Collider) Shape() *cp.Shape { return c.shape }

// Layer returns the collider's collision layer.
func (c *Collider) Layer() CollisionLayer { return c.layer }

// Update implements Component.
func (c *Collider) Update(dt float64) {}

// PostPhysicsUpdate implements Component.
func (c *Collider) PostPhysicsUpdate(dt float64) {}

// Release removes the shape from the space and from its body.
func (c *Collider) Release() {
	if c.pw == nil {
		return
	}
	if c.body != nil {
		for i, o := range c.body.colliders {
			if o == c {
				c.body.colliders = append(c.body.colliders[:i], c.body.colliders[i+1:]...)
				break
			}
		}
	}
	c.detach()
}

func (c *Collider) detach() {
	if c.pw == nil {
		return
	}
	c.pw.space.RemoveShape(c.shape)
	delete(c.pw.colliders, c.shape)
	c.pw = nil
}

// polyMoment returns the moment of inertia of a uniform-density polygon
// about the body origin.
func polyMoment(mass float64, pts []Vec2) float64 {
	var num, den float64
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		cross := math.Abs(a.X*b.Y - b.X*a.Y)
		num += cross * (a.X*a.X + a.Y*a.Y + a.X*b.X + a.Y*b.Y + b.X*b.X + b.Y*b.Y)
		den += cross
	}
	if den == 0 {
		return 0
	}
	return mass * num / (6 * den)
}
