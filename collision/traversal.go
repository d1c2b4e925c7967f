package collision

import (
	"github.com/go-gl/mathgl/mgl32"

	"go.viam.com/collide/spatialmath"
)

// This file holds the scene-level query entry points. Each one derives query
// bounds, walks the broad phase through an Index, and applies either the
// closest-hit policy (narrow-phase every candidate, keep the minimum) or the
// any-hit policy (accept the first narrow-phase hit and ignore the rest of
// the traversal). Results returned to callers always carry a clamped,
// non-negative sub-collider index.

// RaycastClosest finds the nearest ray hit across all bodies in the index.
func RaycastClosest(index Index, ray spatialmath.Ray) (RaycastResult, BodyInfo, bool) {
	v := raycastClosestVisitor{original: ray, working: ray, limit: 1}
	v.best.SubShapeIndex = noSubShape
	index.VisitOverlapping(ray.BoundingBox(), &v)
	if v.best.SubShapeIndex < 0 {
		return RaycastResult{}, BodyInfo{}, false
	}
	v.best.SubShapeIndex = clampSubShape(v.best.SubShapeIndex)
	return v.best, v.info, true
}

// RaycastAny reports an arbitrary ray hit, stopping the narrow phase as soon
// as one body is struck.
func RaycastAny(index Index, ray spatialmath.Ray) (RaycastResult, BodyInfo, bool) {
	v := raycastAnyVisitor{ray: ray}
	v.best.SubShapeIndex = noSubShape
	index.VisitOverlapping(ray.BoundingBox(), &v)
	if v.best.SubShapeIndex < 0 {
		return RaycastResult{}, BodyInfo{}, false
	}
	v.best.SubShapeIndex = clampSubShape(v.best.SubShapeIndex)
	return v.best, v.info, true
}

// PointDistanceClosest finds the body closest to a point within maxDist.
func PointDistanceClosest(index Index, point mgl32.Vec3, maxDist float32) (PointDistanceResult, BodyInfo, bool) {
	v := pointDistanceClosestVisitor{point: point, cutoff: maxDist}
	v.best.SubShapeIndex = noSubShape
	index.VisitOverlapping(spatialmath.AABBFromCenterRadius(point, maxDist), &v)
	if v.best.SubShapeIndex < 0 {
		return PointDistanceResult{}, BodyInfo{}, false
	}
	v.best.SubShapeIndex = clampSubShape(v.best.SubShapeIndex)
	return v.best, v.info, true
}

// PointDistanceAny reports an arbitrary body within maxDist of the point.
func PointDistanceAny(index Index, point mgl32.Vec3, maxDist float32) (PointDistanceResult, BodyInfo, bool) {
	v := pointDistanceAnyVisitor{point: point, maxDist: maxDist}
	v.best.SubShapeIndex = noSubShape
	index.VisitOverlapping(spatialmath.AABBFromCenterRadius(point, maxDist), &v)
	if v.best.SubShapeIndex < 0 {
		return PointDistanceResult{}, BodyInfo{}, false
	}
	v.best.SubShapeIndex = clampSubShape(v.best.SubShapeIndex)
	return v.best, v.info, true
}

// ShapeDistanceClosest finds the body with the smallest separation from the
// posed query shape, within maxDist.
func ShapeDistanceClosest(index Index, query Shape, queryPose spatialmath.Pose, maxDist float32) (ShapeDistanceResult, BodyInfo, bool) {
	v := shapeDistanceClosestVisitor{query: query, queryPose: queryPose, cutoff: maxDist}
	v.best.SubShapeIndex = noSubShape
	index.VisitOverlapping(query.BoundingBox(queryPose).ExpandedBy(maxDist), &v)
	if v.best.SubShapeIndex < 0 {
		return ShapeDistanceResult{}, BodyInfo{}, false
	}
	v.best.SubShapeIndex = clampSubShape(v.best.SubShapeIndex)
	return v.best, v.info, true
}

// ShapeDistanceAny reports an arbitrary body within maxDist of the posed
// query shape.
func ShapeDistanceAny(index Index, query Shape, queryPose spatialmath.Pose, maxDist float32) (ShapeDistanceResult, BodyInfo, bool) {
	v := shapeDistanceAnyVisitor{query: query, queryPose: queryPose, maxDist: maxDist}
	v.best.SubShapeIndex = noSubShape
	index.VisitOverlapping(query.BoundingBox(queryPose).ExpandedBy(maxDist), &v)
	if v.best.SubShapeIndex < 0 {
		return ShapeDistanceResult{}, BodyInfo{}, false
	}
	v.best.SubShapeIndex = clampSubShape(v.best.SubShapeIndex)
	return v.best, v.info, true
}

// ShapeCastClosest sweeps the query shape along the translation and returns
// the earliest contact across all bodies.
func ShapeCastClosest(index Index, query Shape, startPose spatialmath.Pose, translation mgl32.Vec3) (ShapeCastResult, BodyInfo, bool) {
	v := shapeCastClosestVisitor{query: query, startPose: startPose, translation: translation, limit: 1}
	v.best.SubShapeIndex = noSubShape
	index.VisitOverlapping(sweepBounds(query, startPose, translation), &v)
	if v.best.SubShapeIndex < 0 {
		return ShapeCastResult{}, BodyInfo{}, false
	}
	v.best.SubShapeIndex = clampSubShape(v.best.SubShapeIndex)
	return v.best, v.info, true
}

// ShapeCastAny reports an arbitrary contact along the sweep.
func ShapeCastAny(index Index, query Shape, startPose spatialmath.Pose, translation mgl32.Vec3) (ShapeCastResult, BodyInfo, bool) {
	v := shapeCastAnyVisitor{query: query, startPose: startPose, translation: translation}
	v.best.SubShapeIndex = noSubShape
	index.VisitOverlapping(sweepBounds(query, startPose, translation), &v)
	if v.best.SubShapeIndex < 0 {
		return ShapeCastResult{}, BodyInfo{}, false
	}
	v.best.SubShapeIndex = clampSubShape(v.best.SubShapeIndex)
	return v.best, v.info, true
}

// sweepBounds is the union of the query bounds at both ends of the sweep,
// which contains the swept volume for a translation-only motion.
func sweepBounds(query Shape, startPose spatialmath.Pose, translation mgl32.Vec3) spatialmath.AABB {
	start := query.BoundingBox(startPose)
	return start.Union(start.Translated(translation))
}

type raycastClosestVisitor struct {
	original spatialmath.Ray
	working  spatialmath.Ray
	limit    float32
	best     RaycastResult
	info     BodyInfo
}

func (v *raycastClosestVisitor) Visit(body Body) {
	res, ok := Raycast(v.working, body.Shape, body.Pose)
	if !ok {
		return
	}
	// The hit fraction is relative to the working ray; rescale to the
	// original before comparing.
	global := res.Fraction * v.limit
	if v.best.SubShapeIndex >= 0 && global >= v.best.Fraction {
		return
	}
	res.Fraction = global
	v.best = res
	v.info = BodyInfo{BodyIndex: body.Index, Bounds: body.Bounds}
	v.working.End = v.original.At(global)
	v.limit = global
}

type raycastAnyVisitor struct {
	ray  spatialmath.Ray
	best RaycastResult
	info BodyInfo
}

func (v *raycastAnyVisitor) Visit(body Body) {
	if v.best.SubShapeIndex >= 0 {
		return
	}
	res, ok := Raycast(v.ray, body.Shape, body.Pose)
	if !ok {
		return
	}
	v.best = res
	v.info = BodyInfo{BodyIndex: body.Index, Bounds: body.Bounds}
}

type pointDistanceClosestVisitor struct {
	point  mgl32.Vec3
	cutoff float32
	best   PointDistanceResult
	info   BodyInfo
}

func (v *pointDistanceClosestVisitor) Visit(body Body) {
	res, ok := PointDistance(v.point, v.cutoff, body.Shape, body.Pose)
	if !ok {
		return
	}
	if v.best.SubShapeIndex >= 0 && res.Distance >= v.best.Distance {
		return
	}
	v.best = res
	v.info = BodyInfo{BodyIndex: body.Index, Bounds: body.Bounds}
	v.cutoff = res.Distance
}

type pointDistanceAnyVisitor struct {
	point   mgl32.Vec3
	maxDist float32
	best    PointDistanceResult
	info    BodyInfo
}

func (v *pointDistanceAnyVisitor) Visit(body Body) {
	if v.best.SubShapeIndex >= 0 {
		return
	}
	res, ok := PointDistance(v.point, v.maxDist, body.Shape, body.Pose)
	if !ok {
		return
	}
	v.best = res
	v.info = BodyInfo{BodyIndex: body.Index, Bounds: body.Bounds}
}

type shapeDistanceClosestVisitor struct {
	query     Shape
	queryPose spatialmath.Pose
	cutoff    float32
	best      ShapeDistanceResult
	info      BodyInfo
}

func (v *shapeDistanceClosestVisitor) Visit(body Body) {
	res, ok := ShapeDistance(v.query, v.queryPose, v.cutoff, body.Shape, body.Pose)
	if !ok {
		return
	}
	if v.best.SubShapeIndex >= 0 && res.Distance >= v.best.Distance {
		return
	}
	v.best = res
	v.info = BodyInfo{BodyIndex: body.Index, Bounds: body.Bounds}
	v.cutoff = res.Distance
}

type shapeDistanceAnyVisitor struct {
	query     Shape
	queryPose spatialmath.Pose
	maxDist   float32
	best      ShapeDistanceResult
	info      BodyInfo
}

func (v *shapeDistanceAnyVisitor) Visit(body Body) {
	if v.best.SubShapeIndex >= 0 {
		return
	}
	res, ok := ShapeDistance(v.query, v.queryPose, v.maxDist, body.Shape, body.Pose)
	if !ok {
		return
	}
	v.best = res
	v.info = BodyInfo{BodyIndex: body.Index, Bounds: body.Bounds}
}

type shapeCastClosestVisitor struct {
	query       Shape
	startPose   spatialmath.Pose
	translation mgl32.Vec3
	limit       float32
	best        ShapeCastResult
	info        BodyInfo
}

func (v *shapeCastClosestVisitor) Visit(body Body) {
	res, ok := shapeCastWithLimit(v.query, v.startPose, v.translation, body.Shape, body.Pose, v.limit)
	if !ok {
		return
	}
	if v.best.SubShapeIndex >= 0 && res.Fraction >= v.best.Fraction {
		return
	}
	v.best = res
	v.info = BodyInfo{BodyIndex: body.Index, Bounds: body.Bounds}
	v.limit = res.Fraction
}

type shapeCastAnyVisitor struct {
	query       Shape
	startPose   spatialmath.Pose
	translation mgl32.Vec3
	best        ShapeCastResult
	info        BodyInfo
}

func (v *shapeCastAnyVisitor) Visit(body Body) {
	if v.best.SubShapeIndex >= 0 {
		return
	}
	res, ok := ShapeCast(v.query, v.startPose, v.translation, body.Shape, body.Pose)
	if !ok {
		return
	}
	v.best = res
	v.info = BodyInfo{BodyIndex: body.Index, Bounds: body.Bounds}
}
