package collision

import (
	"github.com/go-gl/mathgl/mgl32"

	"go.viam.com/collide/spatialmath"
)

// noSubShape is the internal "no hit yet" sentinel for sub-shape indices.
// Every producer initializes its result to noSubShape before any narrow-phase
// call and only overwrites it on an accepted hit. Entry points clamp the index
// to a minimum of 0 before returning, so callers never observe the sentinel.
const noSubShape = -1

// RaycastResult describes a single raycast hit. All coordinates are world
// space. Records are produced fresh per query and never mutated after the
// query returns.
type RaycastResult struct {
	// Position is the entry point on the shape surface.
	Position mgl32.Vec3
	// Normal is the outward surface normal at Position.
	Normal mgl32.Vec3
	// Fraction locates the hit along the ray: 0 at Start, 1 at End.
	Fraction float32
	// Distance is the world-space distance from the ray start to Position.
	Distance float32
	// SubShapeIndex is the compound child that was hit, or 0 for non-compound
	// shapes.
	SubShapeIndex int
}

// PointDistanceResult describes the closest point on a shape to a query point.
type PointDistanceResult struct {
	// Position is the closest point on the shape surface.
	Position mgl32.Vec3
	// Normal is the outward surface normal at Position.
	Normal mgl32.Vec3
	// Distance is the signed distance from the query point to the surface:
	// negative when the query point is inside a solid shape.
	Distance float32
	// SubShapeIndex is the compound child that was hit, or 0 for non-compound
	// shapes.
	SubShapeIndex int
}

// ShapeDistanceResult describes the closest pair of points between two shapes.
type ShapeDistanceResult struct {
	// PointOnQuery is the closest point on the query shape.
	PointOnQuery mgl32.Vec3
	// PointOnTarget is the closest point on the target shape.
	PointOnTarget mgl32.Vec3
	// Distance is the separation between the two shapes; 0 when overlapping.
	Distance float32
	// SubShapeIndex is the target compound child that was hit, or 0 for
	// non-compound targets.
	SubShapeIndex int
}

// ShapeCastResult describes the first contact of a swept shape.
type ShapeCastResult struct {
	// Position is the contact point on the target surface.
	Position mgl32.Vec3
	// Normal is the outward target-surface normal at Position.
	Normal mgl32.Vec3
	// Fraction is how far along the sweep the contact occurs: 0 at the start
	// transform, 1 at the swept end position.
	Fraction float32
	// SubShapeIndex is the target compound child that was hit, or 0 for
	// non-compound targets.
	SubShapeIndex int
}

// BodyInfo identifies which body of a spatial index produced a broad-phase
// hit. It is written only when a narrow-phase hit improves on (or, for any-hit
// queries, first satisfies) the current best.
type BodyInfo struct {
	// BodyIndex is the opaque index the spatial index assigned to the body.
	BodyIndex int
	// Bounds is the body's stored bounding box.
	Bounds spatialmath.AABB
}

// clampSubShape maps the internal -1 sentinel to the 0 callers are promised.
func clampSubShape(index int) int {
	if index < 0 {
		return 0
	}
	return index
}
