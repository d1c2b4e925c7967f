package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"go.viam.com/collide/spatialmath"
)

// Expanding polytope algorithm, run after gjkDistance reports an overlap to
// recover penetration depth and separation direction. The polytope starts
// from the final GJK simplex and is expanded toward the closest boundary face
// of the Minkowski difference. All storage is fixed-capacity so the query
// path stays allocation-free.
//
// Reference: Van den Bergen, "Proximity Queries and Penetration Depth
// Computation on 3D Game Objects" (2001).

const (
	epaMaxIterations = 32
	epaMaxFaces      = 64
	epaTolerance     = 1e-4
)

type epaFace struct {
	a, b, c  mgl32.Vec3
	normal   mgl32.Vec3
	distance float32
	dead     bool
}

// makeEPAFace builds a face whose normal points away from the origin. Reports
// false for degenerate (zero-area) triangles.
func makeEPAFace(a, b, c mgl32.Vec3) (epaFace, bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l < 1e-10 {
		return epaFace{}, false
	}
	n = n.Mul(1 / l)
	d := a.Dot(n)
	if d < 0 {
		n = n.Mul(-1)
		d = -d
	}
	return epaFace{a: a, b: b, c: c, normal: n, distance: d}, true
}

// epaPenetration returns the penetration depth of two overlapping convex sets
// and the unit direction along which translating set B by depth separates
// them. For a hull-vs-point query this is the hull's outward surface normal
// at the exit point. Reports false only when the polytope is too degenerate
// to expand.
func epaPenetration(a, b supportSet, simplex gjkSimplex) (float32, mgl32.Vec3, bool) {
	var verts [4]mgl32.Vec3
	n := expandSimplex(a, b, &simplex, &verts)
	if n < 4 {
		// Centers coincide or the difference is flat; estimate from centers.
		dir := spatialmath.SafeNormalize(b.pose.Point().Sub(a.pose.Point()), mgl32.Vec3{0, 1, 0})
		return 0, dir, true
	}

	var faces [epaMaxFaces]epaFace
	nFaces := 0
	addFace := func(p0, p1, p2 mgl32.Vec3) {
		if nFaces >= epaMaxFaces {
			return
		}
		if f, ok := makeEPAFace(p0, p1, p2); ok {
			faces[nFaces] = f
			nFaces++
		}
	}
	addFace(verts[0], verts[1], verts[2])
	addFace(verts[0], verts[1], verts[3])
	addFace(verts[0], verts[2], verts[3])
	addFace(verts[1], verts[2], verts[3])
	if nFaces == 0 {
		dir := spatialmath.SafeNormalize(b.pose.Point().Sub(a.pose.Point()), mgl32.Vec3{0, 1, 0})
		return 0, dir, true
	}

	for iter := 0; iter < epaMaxIterations; iter++ {
		closest := -1
		minDist := float32(math32.MaxFloat32)
		for i := 0; i < nFaces; i++ {
			if !faces[i].dead && faces[i].distance < minDist {
				minDist = faces[i].distance
				closest = i
			}
		}
		if closest < 0 {
			break
		}
		face := faces[closest]

		support := minkowskiSupport(a, b, face.normal).w
		improvement := support.Dot(face.normal) - face.distance
		if improvement < epaTolerance {
			return face.distance, face.normal, true
		}

		// Remove every face visible from the new point and stitch new faces
		// along the horizon.
		var edges [epaMaxFaces * 3][2]mgl32.Vec3
		nEdges := 0
		pushEdge := func(p0, p1 mgl32.Vec3) {
			// A shared edge appears twice with opposite winding; keep only
			// unique edges, which form the horizon.
			for i := 0; i < nEdges; i++ {
				if (edges[i][0] == p0 && edges[i][1] == p1) || (edges[i][0] == p1 && edges[i][1] == p0) {
					edges[i] = edges[nEdges-1]
					nEdges--
					return
				}
			}
			if nEdges < len(edges) {
				edges[nEdges] = [2]mgl32.Vec3{p0, p1}
				nEdges++
			}
		}
		removed := 0
		for i := 0; i < nFaces; i++ {
			f := &faces[i]
			if f.dead {
				continue
			}
			if f.normal.Dot(support.Sub(f.a)) > 0 {
				f.dead = true
				removed++
				pushEdge(f.a, f.b)
				pushEdge(f.b, f.c)
				pushEdge(f.c, f.a)
			}
		}
		if removed == 0 {
			// Numerical stall; the closest face is the best answer available.
			return face.distance, face.normal, true
		}
		for i := 0; i < nEdges; i++ {
			addFace(edges[i][0], edges[i][1], support)
		}
	}

	// Out of iterations or capacity; report the closest remaining face.
	closest := -1
	minDist := float32(math32.MaxFloat32)
	for i := 0; i < nFaces; i++ {
		if !faces[i].dead && faces[i].distance < minDist {
			minDist = faces[i].distance
			closest = i
		}
	}
	if closest < 0 {
		return 0, mgl32.Vec3{0, 1, 0}, false
	}
	return faces[closest].distance, faces[closest].normal, true
}

// expandSimplex grows a degenerate GJK termination simplex into four
// affinely independent Minkowski vertices. Returns the vertex count achieved.
func expandSimplex(a, b supportSet, simplex *gjkSimplex, out *[4]mgl32.Vec3) int {
	n := 0
	for i := 0; i < simplex.n && n < 4; i++ {
		w := simplex.pts[i].w
		if !containsVec(out[:n], w) {
			out[n] = w
			n++
		}
	}
	probes := [6]mgl32.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	for _, d := range probes {
		if n >= 4 && !coplanar(out) {
			break
		}
		w := minkowskiSupport(a, b, d).w
		if !containsVec(out[:minInt(n, 4)], w) {
			if n < 4 {
				out[n] = w
				n++
			} else if coplanar(out) {
				out[3] = w
			}
		}
	}
	if n == 4 && coplanar(out) {
		return 3
	}
	return n
}

func containsVec(vs []mgl32.Vec3, v mgl32.Vec3) bool {
	for _, x := range vs {
		if x.Sub(v).LenSqr() < 1e-10 {
			return true
		}
	}
	return false
}

func coplanar(vs *[4]mgl32.Vec3) bool {
	n := vs[1].Sub(vs[0]).Cross(vs[2].Sub(vs[0]))
	return math32.Abs(n.Dot(vs[3].Sub(vs[0]))) < 1e-9
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
