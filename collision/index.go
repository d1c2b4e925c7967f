package collision

import (
	"go.viam.com/collide/spatialmath"
)

// Body is one candidate collider held by a spatial index: a shape at a world
// pose with its cached world-space bounds and a caller-assigned identifier.
type Body struct {
	Shape  Shape
	Pose   spatialmath.Pose
	Bounds spatialmath.AABB
	Index  int
}

// NewBody builds a Body, computing its world bounds from the shape and pose.
func NewBody(index int, shape Shape, pose spatialmath.Pose) Body {
	return Body{
		Shape:  shape,
		Pose:   pose,
		Bounds: shape.BoundingBox(pose),
		Index:  index,
	}
}

// Visitor receives candidate bodies during a broad-phase traversal.
type Visitor interface {
	Visit(body Body)
}

// Index is the broad-phase contract the query entry points consume: deliver
// every body whose bounds overlap the query bounds, in a deterministic order.
// Delivering extra bodies is allowed; the narrow phase rejects them.
type Index interface {
	VisitOverlapping(bounds spatialmath.AABB, visitor Visitor)
}

// StaticIndex is the trivial Index: a fixed slice of bodies filtered by AABB
// overlap on every traversal. It serves small and short-lived scenes where
// building a hierarchy is not worth the setup cost.
type StaticIndex struct {
	bodies []Body
}

// NewStaticIndex wraps a snapshot of bodies. The slice is retained, not
// copied.
func NewStaticIndex(bodies []Body) *StaticIndex {
	return &StaticIndex{bodies: bodies}
}

// Len returns the number of bodies held by the index.
func (si *StaticIndex) Len() int {
	return len(si.bodies)
}

func (si *StaticIndex) VisitOverlapping(bounds spatialmath.AABB, visitor Visitor) {
	for _, body := range si.bodies {
		if body.Bounds.Overlaps(bounds) {
			visitor.Visit(body)
		}
	}
}
