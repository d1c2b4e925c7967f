// Package spatialmath defines the single-precision geometric primitives used
// by the collision query engine: rigid transforms, rays, and axis-aligned
// bounding boxes, plus the closest-point helpers shared by the narrow phase.
package spatialmath

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Pose is a rigid transform mapping between a shape's local space and world
// space. It is composed of a unit quaternion rotation and a translation; there
// is no scale component. Pose is a value type and is safe to copy.
type Pose struct {
	translation mgl32.Vec3
	rotation    mgl32.Quat
}

// NewPose returns a Pose with the given translation and rotation. The rotation
// is normalized so that downstream math may assume a unit quaternion.
func NewPose(translation mgl32.Vec3, rotation mgl32.Quat) Pose {
	return Pose{translation: translation, rotation: rotation.Normalize()}
}

// NewPoseFromPoint returns a Pose with the given translation and no rotation.
func NewPoseFromPoint(translation mgl32.Vec3) Pose {
	return Pose{translation: translation, rotation: mgl32.QuatIdent()}
}

// NewZeroPose returns the identity transform.
func NewZeroPose() Pose {
	return Pose{rotation: mgl32.QuatIdent()}
}

// NewPoseFromAxisAngle returns a Pose rotating by angle radians about the
// given axis, then translating by translation.
func NewPoseFromAxisAngle(translation, axis mgl32.Vec3, angle float32) Pose {
	return Pose{translation: translation, rotation: mgl32.QuatRotate(angle, axis.Normalize())}
}

// Point returns the translation component of the pose.
func (p Pose) Point() mgl32.Vec3 {
	return p.translation
}

// Orientation returns the rotation component of the pose.
func (p Pose) Orientation() mgl32.Quat {
	return p.rotation
}

// Compose returns the pose equivalent to applying b first, then a.
func Compose(a, b Pose) Pose {
	return Pose{
		translation: a.translation.Add(a.rotation.Rotate(b.translation)),
		rotation:    a.rotation.Mul(b.rotation).Normalize(),
	}
}

// Inverse returns the pose that undoes p.
func (p Pose) Inverse() Pose {
	inv := p.rotation.Conjugate()
	return Pose{
		translation: inv.Rotate(p.translation).Mul(-1),
		rotation:    inv,
	}
}

// TransformPoint maps a local-space point into world space.
func (p Pose) TransformPoint(pt mgl32.Vec3) mgl32.Vec3 {
	return p.rotation.Rotate(pt).Add(p.translation)
}

// InverseTransformPoint maps a world-space point into local space.
func (p Pose) InverseTransformPoint(pt mgl32.Vec3) mgl32.Vec3 {
	return p.rotation.Conjugate().Rotate(pt.Sub(p.translation))
}

// RotateVector maps a local-space direction into world space. Directions are
// unaffected by translation.
func (p Pose) RotateVector(v mgl32.Vec3) mgl32.Vec3 {
	return p.rotation.Rotate(v)
}

// InverseRotateVector maps a world-space direction into local space.
func (p Pose) InverseRotateVector(v mgl32.Vec3) mgl32.Vec3 {
	return p.rotation.Conjugate().Rotate(v)
}

// String returns a human readable string that represents the pose.
func (p Pose) String() string {
	return fmt.Sprintf("Position: X:%.2f, Y:%.2f, Z:%.2f | Rotation: W:%.3f, X:%.3f, Y:%.3f, Z:%.3f",
		p.translation.X(), p.translation.Y(), p.translation.Z(),
		p.rotation.W, p.rotation.V.X(), p.rotation.V.Y(), p.rotation.V.Z())
}

// PoseAlmostEqual compares two poses and returns whether their translations
// and rotations agree within epsilon.
func PoseAlmostEqual(a, b Pose, epsilon float32) bool {
	if !a.translation.ApproxEqualThreshold(b.translation, epsilon) {
		return false
	}
	// q and -q represent the same rotation.
	qa, qb := a.rotation, b.rotation
	if qa.Dot(qb) < 0 {
		qb = mgl32.Quat{W: -qb.W, V: qb.V.Mul(-1)}
	}
	return mgl32.FloatEqualThreshold(qa.W, qb.W, epsilon) && qa.V.ApproxEqualThreshold(qb.V, epsilon)
}
