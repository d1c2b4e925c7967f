package collision

import (
	"github.com/go-gl/mathgl/mgl32"

	"go.viam.com/collide/spatialmath"
)

// ShapeDistance computes the closest pair of points between a posed convex
// query shape and a target collider. The query shape must not be a compound;
// compounds are supported on the target side only, where the closest child
// wins and its index is reported. Distance is never negative: overlapping
// shapes report 0. A query succeeds only when the distance is at most
// maxDist.
func ShapeDistance(query Shape, queryPose spatialmath.Pose, maxDist float32, target Shape, targetPose spatialmath.Pose) (ShapeDistanceResult, bool) {
	if _, ok := query.(*Compound); ok {
		return ShapeDistanceResult{}, false
	}

	if compound, ok := target.(*Compound); ok {
		var best ShapeDistanceResult
		best.SubShapeIndex = noSubShape
		cutoff := maxDist
		for i, child := range compound.children {
			childPose := spatialmath.Compose(targetPose, child.Pose)
			pa, pb, dist, ok := shapeDistancePair(query, queryPose, child.Shape, childPose, child.Scale, cutoff)
			if !ok {
				continue
			}
			if best.SubShapeIndex >= 0 && dist >= best.Distance {
				continue
			}
			best = ShapeDistanceResult{
				PointOnQuery:  pa,
				PointOnTarget: pb,
				Distance:      dist,
				SubShapeIndex: i,
			}
			cutoff = dist
		}
		if best.SubShapeIndex < 0 {
			return ShapeDistanceResult{}, false
		}
		return best, true
	}

	pa, pb, dist, ok := shapeDistancePair(query, queryPose, target, targetPose, 1, maxDist)
	if !ok {
		return ShapeDistanceResult{}, false
	}
	return ShapeDistanceResult{
		PointOnQuery:  pa,
		PointOnTarget: pb,
		Distance:      dist,
		SubShapeIndex: 0,
	}, true
}

// shapeDistancePair measures one convex/convex pairing in world space.
// Analytic routines cover the sphere and capsule pairings; everything else
// goes through GJK on scaled support functions.
func shapeDistancePair(query Shape, queryPose spatialmath.Pose, target Shape, targetPose spatialmath.Pose, targetScale, maxDist float32) (mgl32.Vec3, mgl32.Vec3, float32, bool) {
	// Bounding sphere rejection before any exact work.
	centerDist := targetPose.Point().Sub(queryPose.Point()).Len()
	if centerDist-boundingRadiusOf(query)-targetScale*boundingRadiusOf(target) > maxDist {
		return mgl32.Vec3{}, mgl32.Vec3{}, 0, false
	}

	switch q := query.(type) {
	case *sphere:
		switch t := target.(type) {
		case *sphere:
			return finishCenterDistance(
				queryPose.Point(), q.radius,
				targetPose.Point(), t.radius*targetScale,
				maxDist)
		case *capsule:
			onQ, onT := spatialmath.SegmentSegmentClosestPoints(
				queryPose.Point(), queryPose.Point(),
				targetPose.TransformPoint(t.segA.Mul(targetScale)),
				targetPose.TransformPoint(t.segB.Mul(targetScale)))
			return finishCenterDistance(onQ, q.radius, onT, t.radius*targetScale, maxDist)
		case *box:
			local := targetPose.InverseTransformPoint(queryPose.Point())
			half := t.halfSize.Mul(targetScale)
			var closest mgl32.Vec3
			inside := true
			for i := 0; i < 3; i++ {
				closest[i] = mgl32.Clamp(local[i], -half[i], half[i])
				if closest[i] != local[i] {
					inside = false
				}
			}
			if inside {
				if maxDist < 0 {
					return mgl32.Vec3{}, mgl32.Vec3{}, 0, false
				}
				center := queryPose.Point()
				return center, center, 0, true
			}
			onBox := targetPose.TransformPoint(closest)
			return finishCenterDistance(queryPose.Point(), q.radius, onBox, 0, maxDist)
		}
	case *capsule:
		qa := queryPose.TransformPoint(q.segA)
		qb := queryPose.TransformPoint(q.segB)
		switch t := target.(type) {
		case *sphere:
			onQ := spatialmath.ClosestPointOnSegment(qa, qb, targetPose.Point())
			return finishCenterDistance(onQ, q.radius, targetPose.Point(), t.radius*targetScale, maxDist)
		case *capsule:
			onQ, onT := spatialmath.SegmentSegmentClosestPoints(qa, qb,
				targetPose.TransformPoint(t.segA.Mul(targetScale)),
				targetPose.TransformPoint(t.segB.Mul(targetScale)))
			return finishCenterDistance(onQ, q.radius, onT, t.radius*targetScale, maxDist)
		}
	}

	a := newSupportSet(query, queryPose, 1)
	b := newSupportSet(target, targetPose, targetScale)
	res := gjkDistance(a, b, targetPose.Point().Sub(queryPose.Point()))
	if res.overlapping {
		// Contact points are ill defined under overlap; report the midpoint
		// between the shape origins for both.
		if maxDist < 0 {
			return mgl32.Vec3{}, mgl32.Vec3{}, 0, false
		}
		mid := queryPose.Point().Add(targetPose.Point()).Mul(0.5)
		return mid, mid, 0, true
	}
	if res.distance > maxDist {
		return mgl32.Vec3{}, mgl32.Vec3{}, 0, false
	}
	return res.pointA, res.pointB, res.distance, true
}

// finishCenterDistance turns a closest pair of core points (segment or center
// points of round shapes) into surface witness points inflated by the radii.
func finishCenterDistance(coreA mgl32.Vec3, radiusA float32, coreB mgl32.Vec3, radiusB, maxDist float32) (mgl32.Vec3, mgl32.Vec3, float32, bool) {
	delta := coreB.Sub(coreA)
	dist := delta.Len() - radiusA - radiusB
	if dist < 0 {
		dist = 0
	}
	if dist > maxDist {
		return mgl32.Vec3{}, mgl32.Vec3{}, 0, false
	}
	n := spatialmath.SafeNormalize(delta, mgl32.Vec3{1, 0, 0})
	return coreA.Add(n.Mul(radiusA)), coreB.Sub(n.Mul(radiusB)), dist, true
}
