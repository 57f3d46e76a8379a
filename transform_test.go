package sapling

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want Vec2) {
	t.Helper()
	if math.Abs(got.X-want.X) > epsilon || math.Abs(got.Y-want.Y) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertTransform(t *testing.T, name string, got, want Transform) {
	t.Helper()
	assertVec(t, name+".Position", got.Position, want.Position)
	assertNear(t, name+".Rotation", got.Rotation, want.Rotation)
	assertVec(t, name+".Scale", got.Scale, want.Scale)
}

func assertMat(t *testing.T, name string, got, want Mat2) {
	t.Helper()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(got[i][j]-want[i][j]) > epsilon {
				t.Errorf("%s[%d][%d] = %v, want %v (full: %v vs %v)", name, i, j, got[i][j], want[i][j], got, want)
			}
		}
	}
}

// --- Mat2 ---

func TestTransMatIdentity(t *testing.T) {
	assertMat(t, "identity", TransMat(0, 1, 1), IdentityMat2)
}

func TestTransMatScale(t *testing.T) {
	assertMat(t, "scale", TransMat(0, 2, 3), Mat2{{2, 0}, {0, 3}})
}

func TestTransMatRotation90(t *testing.T) {
	// (1, 0) rotates to (0, 1); (0, 1) to (-1, 0).
	m := TransMat(math.Pi/2, 1, 1)
	assertVec(t, "x axis", Vec2{1, 0}.Mul(m), Vec2{0, 1})
	assertVec(t, "y axis", Vec2{0, 1}.Mul(m), Vec2{-1, 0})
}

func TestTransMatScalesBeforeRotating(t *testing.T) {
	m := TransMat(math.Pi/2, 2, 1)
	// Scale x by 2 first, then rotate: (1, 0) -> (2, 0) -> (0, 2).
	assertVec(t, "scaled x", Vec2{1, 0}.Mul(m), Vec2{0, 2})
}

func TestMat2Inverse(t *testing.T) {
	m := TransMat(deg2rad(33), 2, 0.5)
	inv := m.Inverse()
	p := Vec2{7, -3}
	assertVec(t, "round trip", p.Mul(m).Mul(inv), p)
}

func TestMat2InverseSingular(t *testing.T) {
	inv := TransMat(0, 0, 1).Inverse()
	if !math.IsInf(inv[0][0], 0) && !math.IsNaN(inv[0][0]) {
		t.Errorf("singular inverse[0][0] = %v, want non-finite", inv[0][0])
	}
}

// --- Conversions ---

func TestLocalToWorldIdentityParent(t *testing.T) {
	cases := []Transform{
		IdentityTransform(),
		NewTransform(Vec2{10, -4}, 45, Vec2{2, 3}),
		NewTransform(Vec2{-1, 0.5}, -720, Vec2{0.25, 1}),
	}
	for _, tr := range cases {
		got := LocalToWorld(tr, IdentityTransform(), IdentityMat2)
		assertTransform(t, "identity parent", got, tr)
	}
}

func TestLocalToWorldComponents(t *testing.T) {
	parent := NewTransform(Vec2{100, 50}, 90, Vec2{2, 2})
	local := NewTransform(Vec2{10, 0}, 15, Vec2{0.5, 3})
	got := LocalToWorld(local, parent, parent.Matrix())

	// (10, 0) scaled by 2 -> (20, 0), rotated 90 -> (0, 20), offset.
	assertVec(t, "position", got.Position, Vec2{100, 70})
	assertNear(t, "rotation", got.Rotation, 105)
	assertVec(t, "scale", got.Scale, Vec2{1, 6})
}

func TestRotationNotWrapped(t *testing.T) {
	assertNear(t, "sum", LocalToWorldRotation(350, 30), 380)
	assertNear(t, "difference", WorldToLocalRotation(10, 30), -20)
}

func TestWorldToLocalRoundTrip(t *testing.T) {
	parents := []Transform{
		IdentityTransform(),
		NewTransform(Vec2{5, 5}, 30, Vec2{1, 1}),
		NewTransform(Vec2{-20, 40}, 200, Vec2{2, 0.5}),
		NewTransform(Vec2{0, 0}, -45, Vec2{-1, 3}),
	}
	locals := []Transform{
		IdentityTransform(),
		NewTransform(Vec2{3, -7}, 12, Vec2{1, 2}),
		NewTransform(Vec2{100, 0}, -400, Vec2{0.1, 10}),
	}
	for _, p := range parents {
		m := p.Matrix()
		for _, l := range locals {
			w := LocalToWorld(l, p, m)
			assertTransform(t, "round trip", WorldToLocal(w, p, m), l)
		}
	}
}

func TestWorldToLocalZeroScale(t *testing.T) {
	parent := NewTransform(Vec2{}, 0, Vec2{0, 1})
	got := WorldToLocal(IdentityTransform(), parent, parent.Matrix())
	if !math.IsInf(got.Scale.X, 1) {
		t.Errorf("scale.X = %v, want +Inf", got.Scale.X)
	}
}

func TestComposeInverse(t *testing.T) {
	tr := NewTransform(Vec2{12, -3}, 37, Vec2{2, 2})
	got := tr.Compose(tr.Inverse())
	assertTransform(t, "t * t^-1", got, IdentityTransform())
}

func TestComposeMatchesLocalToWorld(t *testing.T) {
	parent := NewTransform(Vec2{1, 2}, 60, Vec2{3, 1})
	local := NewTransform(Vec2{4, 5}, 10, Vec2{1, 2})
	assertTransform(t, "compose", parent.Compose(local), LocalToWorld(local, parent, parent.Matrix()))
}

func TestVecOps(t *testing.T) {
	a, b := Vec2{6, 8}, Vec2{2, 4}
	assertVec(t, "add", a.Add(b), Vec2{8, 12})
	assertVec(t, "sub", a.Sub(b), Vec2{4, 4})
	assertVec(t, "scale", a.Scale(b), Vec2{12, 32})
	assertVec(t, "div", a.Div(b), Vec2{3, 2})
}

// --- Benchmarks ---

func BenchmarkLocalToWorld(b *testing.B) {
	parent := NewTransform(Vec2{10, 20}, 30, Vec2{2, 2})
	m := parent.Matrix()
	local := NewTransform(Vec2{1, 1}, 5, Vec2{1, 1})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = LocalToWorld(local, parent, m)
	}
}

func BenchmarkWorldToLocal(b *testing.B) {
	parent := NewTransform(Vec2{10, 20}, 30, Vec2{2, 2})
	m := parent.Matrix()
	world := NewTransform(Vec2{1, 1}, 5, Vec2{1, 1})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = WorldToLocal(world, parent, m)
	}
}
