package spatialmath

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.viam.com/test"
)

func TestAABB(t *testing.T) {
	t.Run("from points", func(t *testing.T) {
		bb := AABBFromPoints(mgl32.Vec3{1, -2, 3}, mgl32.Vec3{-1, 4, 0}, mgl32.Vec3{0, 0, 5})
		test.That(t, Vec3AlmostEqual(bb.Min, mgl32.Vec3{-1, -2, 0}, 1e-6), test.ShouldBeTrue)
		test.That(t, Vec3AlmostEqual(bb.Max, mgl32.Vec3{1, 4, 5}, 1e-6), test.ShouldBeTrue)
	})

	t.Run("union and include", func(t *testing.T) {
		a := NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
		b := NewAABB(mgl32.Vec3{2, -1, 0}, mgl32.Vec3{3, 0.5, 1})
		u := a.Union(b)
		test.That(t, Vec3AlmostEqual(u.Min, mgl32.Vec3{0, -1, 0}, 1e-6), test.ShouldBeTrue)
		test.That(t, Vec3AlmostEqual(u.Max, mgl32.Vec3{3, 1, 1}, 1e-6), test.ShouldBeTrue)

		g := a.IncludePoint(mgl32.Vec3{-4, 0.5, 2})
		test.That(t, Vec3AlmostEqual(g.Min, mgl32.Vec3{-4, 0, 0}, 1e-6), test.ShouldBeTrue)
		test.That(t, Vec3AlmostEqual(g.Max, mgl32.Vec3{1, 1, 2}, 1e-6), test.ShouldBeTrue)
	})

	t.Run("empty box absorbs nothing", func(t *testing.T) {
		e := NewEmptyAABB()
		a := NewAABB(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
		test.That(t, e.Overlaps(a), test.ShouldBeFalse)
		u := e.Union(a)
		test.That(t, Vec3AlmostEqual(u.Min, a.Min, 1e-6), test.ShouldBeTrue)
		test.That(t, Vec3AlmostEqual(u.Max, a.Max, 1e-6), test.ShouldBeTrue)
	})

	t.Run("overlap is inclusive at faces", func(t *testing.T) {
		a := NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
		touching := NewAABB(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{2, 1, 1})
		apart := NewAABB(mgl32.Vec3{1.001, 0, 0}, mgl32.Vec3{2, 1, 1})
		test.That(t, a.Overlaps(touching), test.ShouldBeTrue)
		test.That(t, a.Overlaps(apart), test.ShouldBeFalse)
	})

	t.Run("expand and translate", func(t *testing.T) {
		a := NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
		e := a.ExpandedBy(0.5)
		test.That(t, Vec3AlmostEqual(e.Min, mgl32.Vec3{-0.5, -0.5, -0.5}, 1e-6), test.ShouldBeTrue)
		tr := a.Translated(mgl32.Vec3{1, 2, 3})
		test.That(t, Vec3AlmostEqual(tr.Max, mgl32.Vec3{2, 3, 4}, 1e-6), test.ShouldBeTrue)
		test.That(t, Vec3AlmostEqual(a.Center(), mgl32.Vec3{0.5, 0.5, 0.5}, 1e-6), test.ShouldBeTrue)
	})

	t.Run("contains point", func(t *testing.T) {
		a := NewAABB(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
		test.That(t, a.ContainsPoint(mgl32.Vec3{0, 0, 0}), test.ShouldBeTrue)
		test.That(t, a.ContainsPoint(mgl32.Vec3{1, 1, 1}), test.ShouldBeTrue)
		test.That(t, a.ContainsPoint(mgl32.Vec3{1.1, 0, 0}), test.ShouldBeFalse)
	})
}
