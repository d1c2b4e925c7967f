package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"go.viam.com/collide/spatialmath"
)

// PointDistance measures the distance from a world-space point to a collider
// at the given pose. The result reports the closest point on the collider
// surface, the outward normal there, and the signed distance: negative when
// the point is inside a solid shape. A query succeeds only when the distance
// is at most maxDist; anything farther is reported as a miss.
func PointDistance(point mgl32.Vec3, maxDist float32, shape Shape, pose spatialmath.Pose) (PointDistanceResult, bool) {
	if compound, ok := shape.(*Compound); ok {
		return pointDistanceCompound(point, maxDist, compound, pose)
	}

	local := pose.InverseTransformPoint(point)
	dist, surface, normal, ok := pointDistanceConvexLocal(local, shape, maxDist)
	if !ok {
		return PointDistanceResult{}, false
	}
	return PointDistanceResult{
		Position:      pose.TransformPoint(surface),
		Normal:        pose.RotateVector(normal),
		Distance:      dist,
		SubShapeIndex: 0,
	}, true
}

func pointDistanceCompound(point mgl32.Vec3, maxDist float32, c *Compound, pose spatialmath.Pose) (PointDistanceResult, bool) {
	local := pose.InverseTransformPoint(point)

	var best PointDistanceResult
	best.SubShapeIndex = noSubShape
	cutoff := maxDist
	for i, child := range c.children {
		childPoint := child.Pose.InverseTransformPoint(local).Mul(1 / child.Scale)
		dist, surface, normal, ok := pointDistanceConvexLocal(childPoint, child.Shape, cutoff/child.Scale)
		if !ok {
			continue
		}
		// Uniform scale multiplies every distance in the child's frame.
		dist *= child.Scale
		if best.SubShapeIndex >= 0 && dist >= best.Distance {
			continue
		}
		best = PointDistanceResult{
			Position:      pose.TransformPoint(child.Pose.TransformPoint(surface.Mul(child.Scale))),
			Normal:        pose.RotateVector(child.Pose.RotateVector(normal)),
			Distance:      dist,
			SubShapeIndex: i,
		}
		cutoff = dist
	}
	if best.SubShapeIndex < 0 {
		return PointDistanceResult{}, false
	}
	return best, true
}

// pointDistanceConvexLocal computes the signed distance from a shape-local
// point together with the closest surface point and outward normal there.
func pointDistanceConvexLocal(pt mgl32.Vec3, shape Shape, maxDist float32) (float32, mgl32.Vec3, mgl32.Vec3, bool) {
	switch s := shape.(type) {
	case *sphere:
		dist := pt.Len() - s.radius
		if dist > maxDist {
			return 0, mgl32.Vec3{}, mgl32.Vec3{}, false
		}
		normal := spatialmath.SafeNormalize(pt, mgl32.Vec3{1, 0, 0})
		return dist, normal.Mul(s.radius), normal, true

	case *capsule:
		onAxis := spatialmath.ClosestPointOnSegment(s.segA, s.segB, pt)
		dist := pt.Sub(onAxis).Len() - s.radius
		if dist > maxDist {
			return 0, mgl32.Vec3{}, mgl32.Vec3{}, false
		}
		normal := spatialmath.SafeNormalize(pt.Sub(onAxis), mgl32.Vec3{1, 0, 0})
		return dist, onAxis.Add(normal.Mul(s.radius)), normal, true

	case *box:
		return pointDistanceBoxLocal(pt, s.halfSize, maxDist)

	case *triangle:
		closest := spatialmath.ClosestPointOnTriangle(pt, s.p0, s.p1, s.p2)
		dist := pt.Sub(closest).Len()
		if dist > maxDist {
			return 0, mgl32.Vec3{}, mgl32.Vec3{}, false
		}
		normal := spatialmath.SafeNormalize(pt.Sub(closest), s.normal)
		return dist, closest, normal, true

	case *convexHull:
		return pointDistanceHullLocal(pt, s, maxDist)

	default:
		return 0, mgl32.Vec3{}, mgl32.Vec3{}, false
	}
}

func pointDistanceBoxLocal(pt, halfSize mgl32.Vec3, maxDist float32) (float32, mgl32.Vec3, mgl32.Vec3, bool) {
	inside := true
	var closest mgl32.Vec3
	for i := 0; i < 3; i++ {
		closest[i] = pt[i]
		if pt[i] < -halfSize[i] {
			closest[i] = -halfSize[i]
			inside = false
		} else if pt[i] > halfSize[i] {
			closest[i] = halfSize[i]
			inside = false
		}
	}
	if !inside {
		dist := pt.Sub(closest).Len()
		if dist > maxDist {
			return 0, mgl32.Vec3{}, mgl32.Vec3{}, false
		}
		return dist, closest, spatialmath.SafeNormalize(pt.Sub(closest), mgl32.Vec3{1, 0, 0}), true
	}

	// Inside: penetration depth is the distance to the nearest face.
	minAxis := 0
	minPen := halfSize[0] - math32.Abs(pt[0])
	for i := 1; i < 3; i++ {
		if pen := halfSize[i] - math32.Abs(pt[i]); pen < minPen {
			minPen = pen
			minAxis = i
		}
	}
	dist := -minPen
	if dist > maxDist {
		return 0, mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	var normal mgl32.Vec3
	if pt[minAxis] < 0 {
		normal[minAxis] = -1
	} else {
		normal[minAxis] = 1
	}
	surface := pt
	surface[minAxis] = normal[minAxis] * halfSize[minAxis]
	return dist, surface, normal, true
}

func pointDistanceHullLocal(pt mgl32.Vec3, hull *convexHull, maxDist float32) (float32, mgl32.Vec3, mgl32.Vec3, bool) {
	hs := newSupportSet(hull, spatialmath.NewZeroPose(), 1)
	res := gjkDistance(hs, pointSupportSet(pt), pt.Sub(hull.center))
	if !res.overlapping {
		if res.distance > maxDist {
			return 0, mgl32.Vec3{}, mgl32.Vec3{}, false
		}
		fallback := spatialmath.SafeNormalize(pt.Sub(hull.center), mgl32.Vec3{1, 0, 0})
		normal := spatialmath.SafeNormalize(pt.Sub(res.pointA), fallback)
		return res.distance, res.pointA, normal, true
	}

	depth, normal, ok := epaPenetration(hs, pointSupportSet(pt), res.simplex)
	if !ok {
		// Degenerate hull; report surface contact at the point itself.
		depth, normal = 0, spatialmath.SafeNormalize(pt.Sub(hull.center), mgl32.Vec3{1, 0, 0})
	}
	dist := -depth
	if dist > maxDist {
		return 0, mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	return dist, pt.Add(normal.Mul(depth)), normal, true
}
