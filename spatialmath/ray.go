package spatialmath

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a world-space line segment from Start to End. Hit fractions are
// measured along the segment: 0 is Start, 1 is End. Closest-hit traversals
// shrink End in place as better hits are found; Start is immutable for the
// duration of a query.
type Ray struct {
	Start mgl32.Vec3
	End   mgl32.Vec3
}

// NewRay constructs a ray from two world-space points.
func NewRay(start, end mgl32.Vec3) Ray {
	return Ray{Start: start, End: end}
}

// Dir returns the unnormalized direction from Start to End.
func (r Ray) Dir() mgl32.Vec3 {
	return r.End.Sub(r.Start)
}

// Length returns the world-space length of the ray.
func (r Ray) Length() float32 {
	return r.Dir().Len()
}

// At returns the point at the given fraction along the ray.
func (r Ray) At(fraction float32) mgl32.Vec3 {
	return r.Start.Add(r.Dir().Mul(fraction))
}

// Transformed returns the ray expressed in the local space of the given pose,
// applying the inverse transform to both endpoints. Fractions along the
// transformed ray are identical to fractions along the original.
func (r Ray) Transformed(pose Pose) Ray {
	return Ray{
		Start: pose.InverseTransformPoint(r.Start),
		End:   pose.InverseTransformPoint(r.End),
	}
}

// Scaled returns the ray with both endpoints divided by the given uniform
// scale. Fractions are scale-invariant.
func (r Ray) Scaled(inverseScale float32) Ray {
	return Ray{Start: r.Start.Mul(inverseScale), End: r.End.Mul(inverseScale)}
}

// BoundingBox returns the smallest AABB enclosing the ray.
func (r Ray) BoundingBox() AABB {
	return AABBFromPoints(r.Start, r.End)
}
