package sapling

import "math"

// Vec2 is a 2D vector used for positions, scales, sizes and input points.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns the component-wise product of v and s.
func (v Vec2) Scale(s Vec2) Vec2 { return Vec2{v.X * s.X, v.Y * s.Y} }

// Div returns the component-wise quotient of v and s. A zero component in s
// yields an infinite or NaN component.
func (v Vec2) Div(s Vec2) Vec2 { return Vec2{v.X / s.X, v.Y / s.Y} }

// Mul multiplies v as a row vector by m.
//
//	[x y] | m00 m01 |
//	      | m10 m11 |
func (v Vec2) Mul(m Mat2) Vec2 {
	return Vec2{
		v.X*m[0][0] + v.Y*m[1][0],
		v.X*m[0][1] + v.Y*m[1][1],
	}
}

// Mat2 is the linear part of a 2D transform. Translation is kept separately
// in Transform.Position and applied additively.
type Mat2 [2][2]float64

// IdentityMat2 is the identity matrix.
var IdentityMat2 = Mat2{{1, 0}, {0, 1}}

// TransMat builds the matrix that scales by (sx, sy) and then rotates by
// radians, for row vectors multiplied on the left.
func TransMat(radians, sx, sy float64) Mat2 {
	sin, cos := math.Sincos(radians)
	return Mat2{
		{sx * cos, sx * sin},
		{-sy * sin, sy * cos},
	}
}

// Det returns the determinant of m.
func (m Mat2) Det() float64 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// Inverse returns the inverse of m. Singular matrices are not detected; the
// result holds non-finite values in that case.
func (m Mat2) Inverse() Mat2 {
	inv := 1 / m.Det()
	return Mat2{
		{m[1][1] * inv, -m[0][1] * inv},
		{-m[1][0] * inv, m[0][0] * inv},
	}
}

// Transform is a 2D pose: position, rotation in degrees and non-uniform
// scale. It is a plain value; composing transforms never mutates operands.
type Transform struct {
	Position Vec2
	Rotation float64
	Scale    Vec2
}

// IdentityTransform returns the transform at the origin with no rotation and
// unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: Vec2{1, 1}}
}

// NewTransform returns a transform with the given components.
func NewTransform(position Vec2, rotation float64, scale Vec2) Transform {
	return Transform{Position: position, Rotation: rotation, Scale: scale}
}

// Matrix returns the rotation and scale part of t as a Mat2.
func (t Transform) Matrix() Mat2 {
	return TransMat(deg2rad(t.Rotation), t.Scale.X, t.Scale.Y)
}

// Compose returns local expressed in the space whose origin is t.
func (t Transform) Compose(local Transform) Transform {
	return LocalToWorld(local, t, t.Matrix())
}

// Inverse returns the transform i such that t.Compose(i) is the identity.
// Exact for uniform scale; non-uniform scale combined with rotation does not
// have an inverse in this representation.
func (t Transform) Inverse() Transform {
	scale := Vec2{1 / t.Scale.X, 1 / t.Scale.Y}
	rot := -t.Rotation
	pos := Vec2{-t.Position.X, -t.Position.Y}.Mul(TransMat(deg2rad(rot), scale.X, scale.Y))
	return Transform{Position: pos, Rotation: rot, Scale: scale}
}

// --- local -> world ---

// LocalToWorldPoint maps a point from the space described by (origin, mat)
// into world space.
func LocalToWorldPoint(local, origin Vec2, mat Mat2) Vec2 {
	return local.Mul(mat).Add(origin)
}

// LocalToWorldRotation adds the space rotation. No wrapping is performed.
func LocalToWorldRotation(local, space float64) float64 {
	return local + space
}

// LocalToWorldScale multiplies scales component-wise.
func LocalToWorldScale(local, space Vec2) Vec2 {
	return local.Scale(space)
}

// LocalToWorld maps a transform from the space whose world pose is origin and
// whose matrix is mat into world space.
func LocalToWorld(local, origin Transform, mat Mat2) Transform {
	return Transform{
		Position: LocalToWorldPoint(local.Position, origin.Position, mat),
		Rotation: LocalToWorldRotation(local.Rotation, origin.Rotation),
		Scale:    LocalToWorldScale(local.Scale, origin.Scale),
	}
}

// --- world -> local ---

// WorldToLocalPoint maps a world point into the space described by
// (origin, mat).
func WorldToLocalPoint(world, origin Vec2, mat Mat2) Vec2 {
	return world.Sub(origin).Mul(mat.Inverse())
}

// WorldToLocalRotation subtracts the space rotation.
func WorldToLocalRotation(world, space float64) float64 {
	return world - space
}

// WorldToLocalScale divides scales component-wise. The space scale must not
// have zero components.
func WorldToLocalScale(world, space Vec2) Vec2 {
	return world.Div(space)
}

// WorldToLocal maps a world transform into the space whose world pose is
// origin and whose matrix is mat. It inverts LocalToWorld for the same
// origin and matrix.
func WorldToLocal(world, origin Transform, mat Mat2) Transform {
	return Transform{
		Position: WorldToLocalPoint(world.Position, origin.Position, mat),
		Rotation: WorldToLocalRotation(world.Rotation, origin.Rotation),
		Scale:    WorldToLocalScale(world.Scale, origin.Scale),
	}
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

func rad2deg(r float64) float64 { return r * 180 / math.Pi }
