package spatialmath

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.viam.com/test"
)

func TestRay(t *testing.T) {
	r := NewRay(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{5, 0, 0})

	t.Run("direction and length", func(t *testing.T) {
		test.That(t, Vec3AlmostEqual(r.Dir(), mgl32.Vec3{4, 0, 0}, 1e-6), test.ShouldBeTrue)
		test.That(t, r.Length(), test.ShouldAlmostEqual, 4, 1e-6)
	})

	t.Run("point at fraction", func(t *testing.T) {
		test.That(t, Vec3AlmostEqual(r.At(0), r.Start, 1e-6), test.ShouldBeTrue)
		test.That(t, Vec3AlmostEqual(r.At(1), r.End, 1e-6), test.ShouldBeTrue)
		test.That(t, Vec3AlmostEqual(r.At(0.25), mgl32.Vec3{2, 0, 0}, 1e-6), test.ShouldBeTrue)
	})

	t.Run("transform into a rotated frame", func(t *testing.T) {
		pose := NewPoseFromAxisAngle(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}, math32.Pi/2)
		local := r.Transformed(pose)
		test.That(t, Vec3AlmostEqual(local.Start, pose.InverseTransformPoint(r.Start), 1e-6), test.ShouldBeTrue)
		test.That(t, Vec3AlmostEqual(local.End, pose.InverseTransformPoint(r.End), 1e-6), test.ShouldBeTrue)
		// Fractions survive the transform.
		test.That(t, Vec3AlmostEqual(local.At(0.5), pose.InverseTransformPoint(r.At(0.5)), 1e-6), test.ShouldBeTrue)
	})

	t.Run("uniform scaling", func(t *testing.T) {
		scaled := r.Scaled(0.5)
		test.That(t, Vec3AlmostEqual(scaled.Start, mgl32.Vec3{0.5, 0, 0}, 1e-6), test.ShouldBeTrue)
		test.That(t, scaled.Length(), test.ShouldAlmostEqual, 2, 1e-6)
	})

	t.Run("bounding box", func(t *testing.T) {
		diag := NewRay(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{-1, 5, 0})
		bb := diag.BoundingBox()
		test.That(t, Vec3AlmostEqual(bb.Min, mgl32.Vec3{-1, 2, 0}, 1e-6), test.ShouldBeTrue)
		test.That(t, Vec3AlmostEqual(bb.Max, mgl32.Vec3{1, 5, 3}, 1e-6), test.ShouldBeTrue)
	})
}
