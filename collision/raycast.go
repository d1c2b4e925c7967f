package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"go.viam.com/collide/spatialmath"
)

// Raycast tests a world-space ray against a single collider at the given pose.
// On a hit, the result holds the entry point, outward surface normal, and the
// fraction along the ray, all in world space. A ray whose start point is
// already inside a solid shape hits at fraction 0 with the negated ray
// direction as its normal. On a miss the returned result is meaningless and
// must not be read.
func Raycast(ray spatialmath.Ray, shape Shape, pose spatialmath.Pose) (RaycastResult, bool) {
	if compound, ok := shape.(*Compound); ok {
		local := ray.Transformed(pose)
		frac, normal, idx, hit := raycastCompoundLocal(local, compound)
		if !hit {
			return RaycastResult{}, false
		}
		return RaycastResult{
			Position:      ray.At(frac),
			Normal:        pose.RotateVector(normal),
			Fraction:      frac,
			Distance:      frac * ray.Length(),
			SubShapeIndex: idx,
		}, true
	}

	frac, normal, hit := raycastConvexLocal(ray.Transformed(pose), shape)
	if !hit {
		return RaycastResult{}, false
	}
	return RaycastResult{
		Position:      ray.At(frac),
		Normal:        pose.RotateVector(normal),
		Fraction:      frac,
		Distance:      frac * ray.Length(),
		SubShapeIndex: 0,
	}, true
}

// raycastCompoundLocal fans a compound-local ray out across all children in
// order, keeping the closest hit and its child index. After each accepted
// improvement the working ray end is pulled in to the hit point, so later
// children are tested against a strictly shorter ray.
func raycastCompoundLocal(local spatialmath.Ray, c *Compound) (float32, mgl32.Vec3, int, bool) {
	var bestFrac float32
	var bestNormal mgl32.Vec3
	bestIdx := noSubShape

	working := local
	limit := float32(1)
	for i, child := range c.children {
		childRay := working.Transformed(child.Pose).Scaled(1 / child.Scale)
		frac, normal, hit := raycastConvexLocal(childRay, child.Shape)
		if !hit {
			continue
		}
		// Fractions are relative to the current working ray; rescale to the
		// original.
		global := frac * limit
		if bestIdx < 0 || global < bestFrac {
			bestFrac = global
			bestNormal = child.Pose.RotateVector(normal)
			bestIdx = i
			working.End = local.At(global)
			limit = global
		}
	}
	if bestIdx < 0 {
		return 0, mgl32.Vec3{}, noSubShape, false
	}
	return bestFrac, bestNormal, bestIdx, true
}

// raycastConvexLocal dispatches a shape-local ray to the routine for the
// concrete shape variant.
func raycastConvexLocal(local spatialmath.Ray, shape Shape) (float32, mgl32.Vec3, bool) {
	switch s := shape.(type) {
	case *sphere:
		return raycastSphereLocal(local, s.radius)
	case *capsule:
		return raycastCapsuleLocal(local, s)
	case *box:
		return raycastBoxLocal(local, s.halfSize)
	case *triangle:
		return raycastTriangleLocal(local, s)
	case *convexHull:
		return raycastHullLocal(local, s)
	default:
		return 0, mgl32.Vec3{}, false
	}
}

// insideHitNormal is the implementation-defined (but consistent) normal
// reported when a ray starts inside a solid shape: the negated ray direction.
func insideHitNormal(local spatialmath.Ray) mgl32.Vec3 {
	return spatialmath.SafeNormalize(local.Dir().Mul(-1), mgl32.Vec3{1, 0, 0})
}

func raycastSphereLocal(local spatialmath.Ray, radius float32) (float32, mgl32.Vec3, bool) {
	m := local.Start
	c := m.Dot(m) - radius*radius
	if c <= 0 {
		return 0, insideHitNormal(local), true
	}

	dir := local.Dir()
	length := dir.Len()
	if length == 0 {
		return 0, mgl32.Vec3{}, false
	}
	u := dir.Mul(1 / length)
	b := m.Dot(u)
	// Start is outside and the ray points away from the sphere.
	if b > 0 {
		return 0, mgl32.Vec3{}, false
	}
	discr := b*b - c
	if discr < 0 {
		return 0, mgl32.Vec3{}, false
	}
	t := -b - math32.Sqrt(discr)
	if t < 0 {
		t = 0
	}
	if t > length {
		return 0, mgl32.Vec3{}, false
	}
	frac := t / length
	hit := local.At(frac)
	return frac, spatialmath.SafeNormalize(hit, u.Mul(-1)), true
}

func raycastCapsuleLocal(local spatialmath.Ray, c *capsule) (float32, mgl32.Vec3, bool) {
	if spatialmath.DistToLineSegment(c.segA, c.segB, local.Start) <= c.radius {
		return 0, insideHitNormal(local), true
	}

	dir := local.Dir()
	length := dir.Len()
	if length == 0 {
		return 0, mgl32.Vec3{}, false
	}
	u := dir.Mul(1 / length)

	bestT := length + 1
	var bestN mgl32.Vec3
	found := false

	// Side cylinder: x^2 + y^2 = r^2 within the segment's Z band.
	a2 := u.X()*u.X() + u.Y()*u.Y()
	if a2 > 1e-12 {
		b2 := local.Start.X()*u.X() + local.Start.Y()*u.Y()
		c2 := local.Start.X()*local.Start.X() + local.Start.Y()*local.Start.Y() - c.radius*c.radius
		if discr := b2*b2 - a2*c2; discr >= 0 {
			t := (-b2 - math32.Sqrt(discr)) / a2
			if t >= 0 && t <= length {
				z := local.Start.Z() + u.Z()*t
				if z >= c.segA.Z() && z <= c.segB.Z() {
					p := local.Start.Add(u.Mul(t))
					bestT = t
					bestN = spatialmath.SafeNormalize(mgl32.Vec3{p.X(), p.Y(), 0}, u.Mul(-1))
					found = true
				}
			}
		}
	}

	// End cap spheres.
	for _, capCenter := range [2]mgl32.Vec3{c.segA, c.segB} {
		m := local.Start.Sub(capCenter)
		cc := m.Dot(m) - c.radius*c.radius
		b := m.Dot(u)
		discr := b*b - cc
		if discr < 0 {
			continue
		}
		t := -b - math32.Sqrt(discr)
		if t >= 0 && t <= length && (!found || t < bestT) {
			p := local.Start.Add(u.Mul(t))
			bestT = t
			bestN = spatialmath.SafeNormalize(p.Sub(capCenter), u.Mul(-1))
			found = true
		}
	}

	if !found {
		return 0, mgl32.Vec3{}, false
	}
	return bestT / length, bestN, true
}

func raycastBoxLocal(local spatialmath.Ray, halfSize mgl32.Vec3) (float32, mgl32.Vec3, bool) {
	dir := local.Dir()

	tmin := float32(math32.Inf(-1))
	tmax := float32(math32.Inf(1))
	enterAxis := -1
	for i := 0; i < 3; i++ {
		o, d, h := local.Start[i], dir[i], halfSize[i]
		if math32.Abs(d) < 1e-12 {
			// Parallel to this slab; miss unless already between the faces.
			if o < -h || o > h {
				return 0, mgl32.Vec3{}, false
			}
			continue
		}
		t1 := (-h - o) / d
		t2 := (h - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
			enterAxis = i
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, mgl32.Vec3{}, false
		}
	}
	if tmax < 0 {
		return 0, mgl32.Vec3{}, false
	}
	if tmin < 0 || enterAxis < 0 {
		return 0, insideHitNormal(local), true
	}
	if tmin > 1 {
		return 0, mgl32.Vec3{}, false
	}
	var normal mgl32.Vec3
	if dir[enterAxis] > 0 {
		normal[enterAxis] = -1
	} else {
		normal[enterAxis] = 1
	}
	return tmin, normal, true
}

// raycastTriangleLocal is a double-sided Moller-Trumbore test. Triangles have
// no volume, so there is no "starts inside" case; the reported normal is the
// face normal oriented against the ray.
func raycastTriangleLocal(local spatialmath.Ray, tri *triangle) (float32, mgl32.Vec3, bool) {
	const eps = 1e-9
	dir := local.Dir()
	e1 := tri.p1.Sub(tri.p0)
	e2 := tri.p2.Sub(tri.p0)
	pvec := dir.Cross(e2)
	det := e1.Dot(pvec)
	if det > -eps && det < eps {
		return 0, mgl32.Vec3{}, false
	}
	invDet := 1 / det
	tvec := local.Start.Sub(tri.p0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, mgl32.Vec3{}, false
	}
	qvec := tvec.Cross(e1)
	v := dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, mgl32.Vec3{}, false
	}
	t := e2.Dot(qvec) * invDet
	if t < 0 || t > 1 {
		return 0, mgl32.Vec3{}, false
	}
	normal := tri.normal
	if normal.Dot(dir) > 0 {
		normal = normal.Mul(-1)
	}
	return t, normal, true
}

// raycastHullLocal sphere-traces the ray against the hull using the exact
// point distance from GJK: each step advances by the current distance to the
// hull, which can never overshoot a convex surface.
func raycastHullLocal(local spatialmath.Ray, hull *convexHull) (float32, mgl32.Vec3, bool) {
	const tol = 1e-4
	hs := newSupportSet(hull, spatialmath.NewZeroPose(), 1)

	start := gjkDistance(hs, pointSupportSet(local.Start), local.Start.Sub(hull.center))
	if start.overlapping {
		return 0, insideHitNormal(local), true
	}
	if start.distance <= tol {
		n := spatialmath.SafeNormalize(local.Start.Sub(start.pointA), insideHitNormal(local))
		return 0, n, true
	}

	length := local.Length()
	if length == 0 {
		return 0, mgl32.Vec3{}, false
	}

	frac := float32(0)
	lastNormal := insideHitNormal(local)
	for iter := 0; iter < 64; iter++ {
		p := local.At(frac)
		res := gjkDistance(hs, pointSupportSet(p), p.Sub(hull.center))
		if res.overlapping {
			return frac, lastNormal, true
		}
		n := spatialmath.SafeNormalize(p.Sub(res.pointA), lastNormal)
		if res.distance <= tol {
			return frac, n, true
		}
		lastNormal = n
		frac += res.distance / length
		if frac > 1 {
			return 0, mgl32.Vec3{}, false
		}
	}
	return 0, mgl32.Vec3{}, false
}
