package spatialmath

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box described by its minimum and maximum
// corners. It is used to seed broad-phase candidate searches; all exact
// geometry happens in the narrow phase.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB returns the bounding box with the given corners. Callers are
// responsible for min <= max on every axis.
func NewAABB(min, max mgl32.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewEmptyAABB returns an inverted box that unions as the identity: any point
// added to it becomes the box.
func NewEmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// AABBFromPoints returns the smallest box enclosing all given points.
func AABBFromPoints(points ...mgl32.Vec3) AABB {
	bb := NewEmptyAABB()
	for _, pt := range points {
		bb = bb.IncludePoint(pt)
	}
	return bb
}

// AABBFromCenterRadius returns the box enclosing a sphere.
func AABBFromCenterRadius(center mgl32.Vec3, radius float32) AABB {
	r := mgl32.Vec3{radius, radius, radius}
	return AABB{Min: center.Sub(r), Max: center.Add(r)}
}

// Center returns the midpoint of the box.
func (bb AABB) Center() mgl32.Vec3 {
	return bb.Min.Add(bb.Max).Mul(0.5)
}

// Union returns the smallest box enclosing both boxes.
func (bb AABB) Union(other AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{
			math32.Min(bb.Min.X(), other.Min.X()),
			math32.Min(bb.Min.Y(), other.Min.Y()),
			math32.Min(bb.Min.Z(), other.Min.Z()),
		},
		Max: mgl32.Vec3{
			math32.Max(bb.Max.X(), other.Max.X()),
			math32.Max(bb.Max.Y(), other.Max.Y()),
			math32.Max(bb.Max.Z(), other.Max.Z()),
		},
	}
}

// IncludePoint returns the box grown to contain the given point.
func (bb AABB) IncludePoint(pt mgl32.Vec3) AABB {
	return AABB{
		Min: mgl32.Vec3{
			math32.Min(bb.Min.X(), pt.X()),
			math32.Min(bb.Min.Y(), pt.Y()),
			math32.Min(bb.Min.Z(), pt.Z()),
		},
		Max: mgl32.Vec3{
			math32.Max(bb.Max.X(), pt.X()),
			math32.Max(bb.Max.Y(), pt.Y()),
			math32.Max(bb.Max.Z(), pt.Z()),
		},
	}
}

// ExpandedBy returns the box grown by margin on every side.
func (bb AABB) ExpandedBy(margin float32) AABB {
	m := mgl32.Vec3{margin, margin, margin}
	return AABB{Min: bb.Min.Sub(m), Max: bb.Max.Add(m)}
}

// Translated returns the box shifted by offset.
func (bb AABB) Translated(offset mgl32.Vec3) AABB {
	return AABB{Min: bb.Min.Add(offset), Max: bb.Max.Add(offset)}
}

// Overlaps reports whether the two boxes share any volume. Touching faces
// count as overlapping.
func (bb AABB) Overlaps(other AABB) bool {
	return bb.Min.X() <= other.Max.X() && bb.Max.X() >= other.Min.X() &&
		bb.Min.Y() <= other.Max.Y() && bb.Max.Y() >= other.Min.Y() &&
		bb.Min.Z() <= other.Max.Z() && bb.Max.Z() >= other.Min.Z()
}

// ContainsPoint reports whether the point lies inside or on the box.
func (bb AABB) ContainsPoint(pt mgl32.Vec3) bool {
	return pt.X() >= bb.Min.X() && pt.X() <= bb.Max.X() &&
		pt.Y() >= bb.Min.Y() && pt.Y() <= bb.Max.Y() &&
		pt.Z() >= bb.Min.Z() && pt.Z() <= bb.Max.Z()
}
