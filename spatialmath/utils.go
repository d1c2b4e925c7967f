package spatialmath

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Float32AlmostEqual compares two float32s and returns whether they differ by
// less than epsilon.
func Float32AlmostEqual(a, b, epsilon float32) bool {
	return math32.Abs(a-b) < epsilon
}

// Vec3AlmostEqual compares two vectors componentwise against epsilon.
func Vec3AlmostEqual(a, b mgl32.Vec3, epsilon float32) bool {
	return Float32AlmostEqual(a.X(), b.X(), epsilon) &&
		Float32AlmostEqual(a.Y(), b.Y(), epsilon) &&
		Float32AlmostEqual(a.Z(), b.Z(), epsilon)
}

// ClosestPointOnSegment returns the point on segment [segA, segB] closest to
// the given point.
// Reference: https://github.com/gszauer/GamePhysicsCookbook/blob/master/Code/Geometry3D.cpp
func ClosestPointOnSegment(segA, segB, point mgl32.Vec3) mgl32.Vec3 {
	ab := segB.Sub(segA)
	denom := ab.LenSqr()
	if denom == 0 {
		return segA
	}
	t := mgl32.Clamp(point.Sub(segA).Dot(ab)/denom, 0, 1)
	return segA.Add(ab.Mul(t))
}

// DistToLineSegment returns the distance from the point to segment [segA, segB].
func DistToLineSegment(segA, segB, point mgl32.Vec3) float32 {
	return point.Sub(ClosestPointOnSegment(segA, segB, point)).Len()
}

// SegmentSegmentClosestPoints returns the pair of closest points between
// segments [aStart, aEnd] and [bStart, bEnd], the first on segment a, the
// second on segment b.
// Reference: Ericson, "Real-Time Collision Detection", section 5.1.9.
func SegmentSegmentClosestPoints(aStart, aEnd, bStart, bEnd mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	d1 := aEnd.Sub(aStart)
	d2 := bEnd.Sub(bStart)
	r := aStart.Sub(bStart)
	a := d1.LenSqr()
	e := d2.LenSqr()
	f := d2.Dot(r)

	var s, t float32
	switch {
	case a == 0 && e == 0:
		return aStart, bStart
	case a == 0:
		s = 0
		t = mgl32.Clamp(f/e, 0, 1)
	default:
		c := d1.Dot(r)
		if e == 0 {
			t = 0
			s = mgl32.Clamp(-c/a, 0, 1)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom != 0 {
				s = mgl32.Clamp((b*f-c*e)/denom, 0, 1)
			} else {
				s = 0
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = mgl32.Clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = mgl32.Clamp((b-c)/a, 0, 1)
			}
		}
	}
	return aStart.Add(d1.Mul(s)), bStart.Add(d2.Mul(t))
}

// SegmentDistanceToSegment returns the distance between the two segments.
func SegmentDistanceToSegment(aStart, aEnd, bStart, bEnd mgl32.Vec3) float32 {
	pa, pb := SegmentSegmentClosestPoints(aStart, aEnd, bStart, bEnd)
	return pa.Sub(pb).Len()
}

// PlaneNormal returns the unit normal of the plane through the three points,
// following right-hand winding. Degenerate triangles yield a zero vector.
func PlaneNormal(p0, p1, p2 mgl32.Vec3) mgl32.Vec3 {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl32.Vec3{}
}

// ClosestPointOnTriangle returns the point on triangle (p0, p1, p2) closest to
// the given point.
// Reference: Ericson, "Real-Time Collision Detection", section 5.1.5.
func ClosestPointOnTriangle(point, p0, p1, p2 mgl32.Vec3) mgl32.Vec3 {
	ab := p1.Sub(p0)
	ac := p2.Sub(p0)
	ap := point.Sub(p0)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return p0
	}

	bp := point.Sub(p1)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return p1
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return p0.Add(ab.Mul(v))
	}

	cp := point.Sub(p2)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return p2
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return p0.Add(ac.Mul(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return p1.Add(p2.Sub(p1).Mul(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return p0.Add(ab.Mul(v)).Add(ac.Mul(w))
}

// SafeNormalize returns v normalized, or fallback if v is too short to
// normalize meaningfully.
func SafeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	if l := v.Len(); l > 1e-12 {
		return v.Mul(1 / l)
	}
	return fallback
}

// Hypot3 returns the Euclidean length of (x, y, z) without constructing a vector.
func Hypot3(x, y, z float32) float32 {
	return math32.Sqrt(x*x + y*y + z*z)
}
