package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"go.viam.com/collide/spatialmath"
)

// supportSet is a convex shape positioned in world space: the combination of
// local-space parameters, pose, and uniform scale that the GJK machinery
// queries through a support function.
type supportSet struct {
	shape Shape
	pose  spatialmath.Pose
	scale float32
}

func newSupportSet(shape Shape, pose spatialmath.Pose, scale float32) supportSet {
	return supportSet{shape: shape, pose: pose, scale: scale}
}

// pointSupportSet wraps a world-space point as a degenerate convex set.
func pointSupportSet(pt mgl32.Vec3) supportSet {
	return supportSet{shape: sharedPoint, pose: spatialmath.NewPoseFromPoint(pt), scale: 1}
}

var sharedPoint = &point{}

// support returns the world-space support point of the set in direction dir.
func (s supportSet) support(dir mgl32.Vec3) mgl32.Vec3 {
	local, ok := localSupport(s.shape, s.pose.InverseRotateVector(dir))
	if !ok {
		return s.pose.Point()
	}
	return s.pose.TransformPoint(local.Mul(s.scale))
}

// minkowskiPoint is a support point of the Minkowski difference A - B together
// with the supports of A and B that produced it.
type minkowskiPoint struct {
	w mgl32.Vec3
	a mgl32.Vec3
	b mgl32.Vec3
}

// minkowskiSupport returns support_A(d) - support_B(-d), a support point of
// the Minkowski difference A - B in direction d.
func minkowskiSupport(a, b supportSet, d mgl32.Vec3) minkowskiPoint {
	pa := a.support(d)
	pb := b.support(d.Mul(-1))
	return minkowskiPoint{w: pa.Sub(pb), a: pa, b: pb}
}

// gjkSimplex is a 1-4 point simplex in Minkowski space, with barycentric
// weights of the point closest to the origin over the retained vertices.
type gjkSimplex struct {
	pts [4]minkowskiPoint
	wts [4]float32
	n   int
}

func simplexOf(pts ...minkowskiPoint) gjkSimplex {
	var s gjkSimplex
	s.n = copy(s.pts[:], pts)
	return s
}

// witnesses returns the closest points on A and B reconstructed from the
// simplex weights.
func (s *gjkSimplex) witnesses() (mgl32.Vec3, mgl32.Vec3) {
	var pa, pb mgl32.Vec3
	for i := 0; i < s.n; i++ {
		pa = pa.Add(s.pts[i].a.Mul(s.wts[i]))
		pb = pb.Add(s.pts[i].b.Mul(s.wts[i]))
	}
	return pa, pb
}

// simplexFromSegment returns the point on segment [a,b] closest to the origin
// along with the reduced, weighted simplex.
func simplexFromSegment(a, b minkowskiPoint) (mgl32.Vec3, gjkSimplex) {
	ab := b.w.Sub(a.w)
	denom := ab.LenSqr()
	if denom < 1e-20 {
		s := simplexOf(a)
		s.wts[0] = 1
		return a.w, s
	}
	t := a.w.Mul(-1).Dot(ab) / denom
	if t <= 0 {
		s := simplexOf(a)
		s.wts[0] = 1
		return a.w, s
	}
	if t >= 1 {
		s := simplexOf(b)
		s.wts[0] = 1
		return b.w, s
	}
	s := simplexOf(a, b)
	s.wts[0], s.wts[1] = 1-t, t
	return a.w.Add(ab.Mul(t)), s
}

// simplexFromTriangle returns the point on triangle [a,b,c] closest to the
// origin along with the reduced, weighted simplex. Uses Ericson's Voronoi
// region method from "Real-Time Collision Detection".
func simplexFromTriangle(a, b, c minkowskiPoint) (mgl32.Vec3, gjkSimplex) {
	ab := b.w.Sub(a.w)
	ac := c.w.Sub(a.w)
	ao := a.w.Mul(-1)

	d1 := ab.Dot(ao)
	d2 := ac.Dot(ao)
	if d1 <= 0 && d2 <= 0 {
		s := simplexOf(a)
		s.wts[0] = 1
		return a.w, s
	}

	bo := b.w.Mul(-1)
	d3 := ab.Dot(bo)
	d4 := ac.Dot(bo)
	if d3 >= 0 && d4 <= d3 {
		s := simplexOf(b)
		s.wts[0] = 1
		return b.w, s
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		s := simplexOf(a, b)
		s.wts[0], s.wts[1] = 1-v, v
		return a.w.Add(ab.Mul(v)), s
	}

	co := c.w.Mul(-1)
	d5 := ab.Dot(co)
	d6 := ac.Dot(co)
	if d6 >= 0 && d5 <= d6 {
		s := simplexOf(c)
		s.wts[0] = 1
		return c.w, s
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		s := simplexOf(a, c)
		s.wts[0], s.wts[1] = 1-w, w
		return a.w.Add(ac.Mul(w)), s
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		s := simplexOf(b, c)
		s.wts[0], s.wts[1] = 1-w, w
		return b.w.Add(c.w.Sub(b.w).Mul(w)), s
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	s := simplexOf(a, b, c)
	s.wts[0], s.wts[1], s.wts[2] = 1-v-w, v, w
	return a.w.Add(ab.Mul(v)).Add(ac.Mul(w)), s
}

// originInTetrahedron checks whether the origin is inside the tetrahedron by
// verifying it is on the interior side of every face.
func originInTetrahedron(pts *[4]minkowskiPoint) bool {
	faces := [4][4]int{
		{0, 1, 2, 3},
		{0, 1, 3, 2},
		{0, 2, 3, 1},
		{1, 2, 3, 0},
	}
	for _, f := range faces {
		p0, p1, p2 := pts[f[0]].w, pts[f[1]].w, pts[f[2]].w
		normal := p1.Sub(p0).Cross(p2.Sub(p0))
		dOrigin := normal.Dot(p0.Mul(-1))
		dOpp := normal.Dot(pts[f[3]].w.Sub(p0))
		if dOrigin*dOpp < 0 {
			return false
		}
	}
	return true
}

// simplexFromTetrahedron returns the point on the tetrahedron closest to the
// origin. The boolean reports whether the origin is contained, meaning the
// shapes overlap.
func simplexFromTetrahedron(pts *[4]minkowskiPoint) (mgl32.Vec3, gjkSimplex, bool) {
	if originInTetrahedron(pts) {
		var s gjkSimplex
		s.pts = *pts
		s.n = 4
		s.wts = [4]float32{0.25, 0.25, 0.25, 0.25}
		return mgl32.Vec3{}, s, true
	}
	faces := [4][3]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}
	bestDist := float32(math32.MaxFloat32)
	var bestV mgl32.Vec3
	var bestS gjkSimplex
	for _, f := range faces {
		v, s := simplexFromTriangle(pts[f[0]], pts[f[1]], pts[f[2]])
		if d := v.LenSqr(); d < bestDist {
			bestDist = d
			bestV = v
			bestS = s
		}
	}
	return bestV, bestS, false
}

// gjkResult is the outcome of a GJK distance query between two convex sets.
type gjkResult struct {
	distance    float32
	pointA      mgl32.Vec3
	pointB      mgl32.Vec3
	overlapping bool
	simplex     gjkSimplex
}

// gjkDistance computes the Euclidean distance between two convex sets using
// the GJK algorithm, seeded with an initial search direction. A good seed
// (e.g. the vector between shape centers) reduces iterations. On overlap the
// returned distance is 0 and the final simplex is retained for the expanding
// polytope pass; the witness points are then meaningless.
// Typically converges in 3-6 iterations.
func gjkDistance(a, b supportSet, seed mgl32.Vec3) gjkResult {
	d := seed
	if d.LenSqr() < 1e-12 {
		d = mgl32.Vec3{1, 0, 0}
	}

	w := minkowskiSupport(a, b, d)
	simp := simplexOf(w)
	simp.wts[0] = 1
	v := w.w

	const maxIter = 64
	const eps = 1e-5

	for iter := 0; iter < maxIter; iter++ {
		vv := v.LenSqr()
		if vv < 1e-10 {
			return gjkResult{overlapping: true, simplex: simp}
		}

		d = v.Mul(-1)
		w = minkowskiSupport(a, b, d)

		// No meaningful progress toward the origin; v is the closest point.
		if vv-v.Dot(w.w) <= eps*vv {
			break
		}

		simp.pts[simp.n] = w
		simp.n++
		switch simp.n {
		case 2:
			v, simp = simplexFromSegment(simp.pts[0], simp.pts[1])
		case 3:
			v, simp = simplexFromTriangle(simp.pts[0], simp.pts[1], simp.pts[2])
		case 4:
			var inside bool
			v, simp, inside = simplexFromTetrahedron(&simp.pts)
			if inside {
				return gjkResult{overlapping: true, simplex: simp}
			}
		}
	}

	pa, pb := simp.witnesses()
	return gjkResult{distance: v.Len(), pointA: pa, pointB: pb, simplex: simp}
}
