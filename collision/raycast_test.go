package collision

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.viam.com/test"

	"go.viam.com/collide/spatialmath"
)

func mustSphere(t *testing.T, radius float32) Shape {
	t.Helper()
	s, err := NewSphere(radius)
	test.That(t, err, test.ShouldBeNil)
	return s
}

func mustBox(t *testing.T, dims mgl32.Vec3) Shape {
	t.Helper()
	b, err := NewBox(dims)
	test.That(t, err, test.ShouldBeNil)
	return b
}

func mustCapsule(t *testing.T, radius, length float32) Shape {
	t.Helper()
	c, err := NewCapsule(radius, length)
	test.That(t, err, test.ShouldBeNil)
	return c
}

// cubeHull is a unit-half-extent cube expressed as a convex hull, for
// exercising the support-function paths with a shape whose exact answers are
// easy to state.
func cubeHull(t *testing.T, half float32) Shape {
	t.Helper()
	h, err := NewConvexHull([]mgl32.Vec3{
		{-half, -half, -half}, {half, -half, -half},
		{-half, half, -half}, {half, half, -half},
		{-half, -half, half}, {half, -half, half},
		{-half, half, half}, {half, half, half},
	})
	test.That(t, err, test.ShouldBeNil)
	return h
}

func mustCompound(t *testing.T, children []CompoundChild) Shape {
	t.Helper()
	c, err := NewCompound(children)
	test.That(t, err, test.ShouldBeNil)
	return c
}

func TestRaycastSphere(t *testing.T) {
	s := mustSphere(t, 1)
	origin := spatialmath.NewZeroPose()

	t.Run("head-on entry", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{5, 0, 0})
		res, hit := Raycast(ray, s, origin)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Position, mgl32.Vec3{-1, 0, 0}, 1e-4), test.ShouldBeTrue)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Normal, mgl32.Vec3{-1, 0, 0}, 1e-4), test.ShouldBeTrue)
		test.That(t, res.Fraction, test.ShouldAlmostEqual, 0.4, 1e-4)
		test.That(t, res.Distance, test.ShouldAlmostEqual, 4, 1e-3)
		test.That(t, res.SubShapeIndex, test.ShouldEqual, 0)
	})

	t.Run("starts inside", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{5, 0, 0})
		res, hit := Raycast(ray, s, origin)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, res.Fraction, test.ShouldAlmostEqual, 0, 1e-6)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Normal, mgl32.Vec3{-1, 0, 0}, 1e-4), test.ShouldBeTrue)
	})

	t.Run("pointing away misses", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{-15, 0, 0})
		_, hit := Raycast(ray, s, origin)
		test.That(t, hit, test.ShouldBeFalse)
	})

	t.Run("stops short of the surface", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{-2, 0, 0})
		_, hit := Raycast(ray, s, origin)
		test.That(t, hit, test.ShouldBeFalse)
	})

	t.Run("grazing offset misses", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{-5, 1.5, 0}, mgl32.Vec3{5, 1.5, 0})
		_, hit := Raycast(ray, s, origin)
		test.That(t, hit, test.ShouldBeFalse)
	})

	t.Run("respects the pose", func(t *testing.T) {
		pose := spatialmath.NewPoseFromPoint(mgl32.Vec3{0, 10, 0})
		ray := spatialmath.NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 20, 0})
		res, hit := Raycast(ray, s, pose)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Position, mgl32.Vec3{0, 9, 0}, 1e-4), test.ShouldBeTrue)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Normal, mgl32.Vec3{0, -1, 0}, 1e-4), test.ShouldBeTrue)
	})
}

func TestRaycastBox(t *testing.T) {
	b := mustBox(t, mgl32.Vec3{2, 2, 2})
	origin := spatialmath.NewZeroPose()

	t.Run("face entry and normal", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -10})
		res, hit := Raycast(ray, b, origin)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Position, mgl32.Vec3{0, 0, 1}, 1e-4), test.ShouldBeTrue)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Normal, mgl32.Vec3{0, 0, 1}, 1e-4), test.ShouldBeTrue)
		test.That(t, res.Fraction, test.ShouldAlmostEqual, 0.45, 1e-4)
	})

	t.Run("axis-parallel ray outside the slab misses", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{-5, 2, 0}, mgl32.Vec3{5, 2, 0})
		_, hit := Raycast(ray, b, origin)
		test.That(t, hit, test.ShouldBeFalse)
	})

	t.Run("starts inside", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{0.5, 0, 0}, mgl32.Vec3{5, 0, 0})
		res, hit := Raycast(ray, b, origin)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, res.Fraction, test.ShouldAlmostEqual, 0, 1e-6)
	})

	t.Run("rotated box", func(t *testing.T) {
		pose := spatialmath.NewPoseFromAxisAngle(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 0.7853982)
		ray := spatialmath.NewRay(mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{5, 0, 0})
		res, hit := Raycast(ray, b, pose)
		test.That(t, hit, test.ShouldBeTrue)
		// The corner of the rotated cube faces the ray at x = -sqrt(2).
		test.That(t, res.Position.X(), test.ShouldAlmostEqual, -1.4142135, 1e-3)
	})
}

func TestRaycastCapsule(t *testing.T) {
	c := mustCapsule(t, 1, 6)
	origin := spatialmath.NewZeroPose()

	t.Run("hits the side cylinder", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{-5, 0, 1}, mgl32.Vec3{5, 0, 1})
		res, hit := Raycast(ray, c, origin)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Position, mgl32.Vec3{-1, 0, 1}, 1e-4), test.ShouldBeTrue)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Normal, mgl32.Vec3{-1, 0, 0}, 1e-4), test.ShouldBeTrue)
	})

	t.Run("hits an end cap", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -10})
		res, hit := Raycast(ray, c, origin)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Position, mgl32.Vec3{0, 0, 3}, 1e-4), test.ShouldBeTrue)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Normal, mgl32.Vec3{0, 0, 1}, 1e-4), test.ShouldBeTrue)
	})

	t.Run("starts inside", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{0, 0, 10})
		res, hit := Raycast(ray, c, origin)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, res.Fraction, test.ShouldAlmostEqual, 0, 1e-6)
	})

	t.Run("parallel offset miss", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{-5, 2.5, 0}, mgl32.Vec3{5, 2.5, 0})
		_, hit := Raycast(ray, c, origin)
		test.That(t, hit, test.ShouldBeFalse)
	})
}

func TestRaycastTriangle(t *testing.T) {
	tri, err := NewTriangleShape(mgl32.Vec3{-1, -1, 0}, mgl32.Vec3{1, -1, 0}, mgl32.Vec3{0, 1, 0})
	test.That(t, err, test.ShouldBeNil)
	origin := spatialmath.NewZeroPose()

	t.Run("front face", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -5})
		res, hit := Raycast(ray, tri, origin)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Position, mgl32.Vec3{0, 0, 0}, 1e-4), test.ShouldBeTrue)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Normal, mgl32.Vec3{0, 0, 1}, 1e-4), test.ShouldBeTrue)
		test.That(t, res.Fraction, test.ShouldAlmostEqual, 0.5, 1e-4)
	})

	t.Run("back face reports a flipped normal", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 5})
		res, hit := Raycast(ray, tri, origin)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Normal, mgl32.Vec3{0, 0, -1}, 1e-4), test.ShouldBeTrue)
	})

	t.Run("outside the edges misses", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{2, 2, 5}, mgl32.Vec3{2, 2, -5})
		_, hit := Raycast(ray, tri, origin)
		test.That(t, hit, test.ShouldBeFalse)
	})

	t.Run("parallel to the plane misses", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{-5, 0, 0.5}, mgl32.Vec3{5, 0, 0.5})
		_, hit := Raycast(ray, tri, origin)
		test.That(t, hit, test.ShouldBeFalse)
	})
}

func TestRaycastConvexHull(t *testing.T) {
	h := cubeHull(t, 1)
	origin := spatialmath.NewZeroPose()

	t.Run("face entry within tolerance", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{-5, 0.2, 0.3}, mgl32.Vec3{5, 0.2, 0.3})
		res, hit := Raycast(ray, h, origin)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, res.Position.X(), test.ShouldAlmostEqual, -1, 1e-2)
		test.That(t, res.Normal.X(), test.ShouldAlmostEqual, -1, 0.05)
	})

	t.Run("starts inside", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{5, 0, 0})
		res, hit := Raycast(ray, h, origin)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, res.Fraction, test.ShouldAlmostEqual, 0, 1e-6)
	})

	t.Run("passes beside the hull", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{-5, 3, 0}, mgl32.Vec3{5, 3, 0})
		_, hit := Raycast(ray, h, origin)
		test.That(t, hit, test.ShouldBeFalse)
	})
}

func TestRaycastCompound(t *testing.T) {
	s := mustSphere(t, 1)
	c := mustCompound(t, []CompoundChild{
		{Shape: s, Pose: spatialmath.NewPoseFromPoint(mgl32.Vec3{-10, 0, 0}), Scale: 1},
		{Shape: s, Pose: spatialmath.NewPoseFromPoint(mgl32.Vec3{10, 0, 0}), Scale: 1},
	})
	origin := spatialmath.NewZeroPose()

	t.Run("reports the first child struck", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{-20, 0, 0}, mgl32.Vec3{20, 0, 0})
		res, hit := Raycast(ray, c, origin)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, res.SubShapeIndex, test.ShouldEqual, 0)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Position, mgl32.Vec3{-11, 0, 0}, 1e-3), test.ShouldBeTrue)
		test.That(t, res.Fraction, test.ShouldAlmostEqual, 9.0/40.0, 1e-4)
	})

	t.Run("opposite direction reports the other child", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{20, 0, 0}, mgl32.Vec3{-20, 0, 0})
		res, hit := Raycast(ray, c, origin)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, res.SubShapeIndex, test.ShouldEqual, 1)
	})

	t.Run("scaled child", func(t *testing.T) {
		scaled := mustCompound(t, []CompoundChild{
			{Shape: s, Pose: spatialmath.NewZeroPose(), Scale: 3},
		})
		ray := spatialmath.NewRay(mgl32.Vec3{-10, 0, 0}, mgl32.Vec3{10, 0, 0})
		res, hit := Raycast(ray, scaled, origin)
		test.That(t, hit, test.ShouldBeTrue)
		test.That(t, spatialmath.Vec3AlmostEqual(res.Position, mgl32.Vec3{-3, 0, 0}, 1e-3), test.ShouldBeTrue)
		test.That(t, res.Fraction, test.ShouldAlmostEqual, 0.35, 1e-4)
	})

	t.Run("misses every child", func(t *testing.T) {
		ray := spatialmath.NewRay(mgl32.Vec3{-20, 5, 0}, mgl32.Vec3{20, 5, 0})
		_, hit := Raycast(ray, c, origin)
		test.That(t, hit, test.ShouldBeFalse)
	})
}
