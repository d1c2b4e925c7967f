package collision

import (
	"github.com/go-gl/mathgl/mgl32"

	"go.viam.com/collide/spatialmath"
)

const (
	shapeCastTolerance  = 1e-4
	shapeCastIterations = 64
)

// ShapeCast sweeps a posed convex query shape along a translation vector and
// reports the first contact with the target collider. The result fraction is
// the portion of the translation travelled before contact, with the contact
// position and outward normal taken on the target's surface. A cast that
// already overlaps the target at its start pose hits at fraction 0. The query
// shape must not be a compound; compound targets report the child index of
// the earliest contact.
func ShapeCast(query Shape, startPose spatialmath.Pose, translation mgl32.Vec3, target Shape, targetPose spatialmath.Pose) (ShapeCastResult, bool) {
	return shapeCastWithLimit(query, startPose, translation, target, targetPose, 1)
}

// shapeCastWithLimit is ShapeCast with an upper bound on the accepted
// fraction, used by traversal to skip contacts beyond the best hit so far.
func shapeCastWithLimit(query Shape, startPose spatialmath.Pose, translation mgl32.Vec3, target Shape, targetPose spatialmath.Pose, maxFrac float32) (ShapeCastResult, bool) {
	if _, ok := query.(*Compound); ok {
		return ShapeCastResult{}, false
	}

	if compound, ok := target.(*Compound); ok {
		var best ShapeCastResult
		best.SubShapeIndex = noSubShape
		limit := maxFrac
		for i, child := range compound.children {
			childPose := spatialmath.Compose(targetPose, child.Pose)
			res, ok := shapeCastConvex(query, startPose, translation, child.Shape, childPose, child.Scale, limit)
			if !ok {
				continue
			}
			if best.SubShapeIndex >= 0 && res.Fraction >= best.Fraction {
				continue
			}
			res.SubShapeIndex = i
			best = res
			limit = res.Fraction
		}
		if best.SubShapeIndex < 0 {
			return ShapeCastResult{}, false
		}
		return best, true
	}

	res, ok := shapeCastConvex(query, startPose, translation, target, targetPose, 1, maxFrac)
	if !ok {
		return ShapeCastResult{}, false
	}
	res.SubShapeIndex = 0
	return res, true
}

// shapeCastConvex advances the query along the sweep by the current
// separation distance projected on the closing direction, which can never
// tunnel through a convex target. Rotation is held fixed over the sweep.
func shapeCastConvex(query Shape, startPose spatialmath.Pose, translation mgl32.Vec3, target Shape, targetPose spatialmath.Pose, targetScale, maxFrac float32) (ShapeCastResult, bool) {
	b := newSupportSet(target, targetPose, targetScale)
	seed := targetPose.Point().Sub(startPose.Point())

	frac := float32(0)
	for iter := 0; iter < shapeCastIterations; iter++ {
		pose := spatialmath.NewPose(startPose.Point().Add(translation.Mul(frac)), startPose.Orientation())
		a := newSupportSet(query, pose, 1)
		res := gjkDistance(a, b, seed)

		if res.overlapping {
			if frac > 0 {
				// Overshoot past the contact tolerance cannot happen with
				// conservative steps; an overlap mid-sweep means a degenerate
				// pairing. Report contact at the current fraction.
				return ShapeCastResult{
					Position: pose.Point(),
					Normal:   spatialmath.SafeNormalize(pose.Point().Sub(targetPose.Point()), mgl32.Vec3{1, 0, 0}),
					Fraction: frac,
				}, frac <= maxFrac
			}
			return shapeCastInitialOverlap(a, b, res.simplex, pose, translation)
		}

		// Separation axis from query to target.
		n := spatialmath.SafeNormalize(res.pointB.Sub(res.pointA), seed)
		if res.distance <= shapeCastTolerance {
			if frac > maxFrac {
				return ShapeCastResult{}, false
			}
			return ShapeCastResult{
				Position: res.pointB,
				Normal:   n.Mul(-1),
				Fraction: frac,
			}, true
		}

		closing := translation.Dot(n)
		if closing <= 1e-9 {
			// Not moving toward the target along the separating axis.
			return ShapeCastResult{}, false
		}
		frac += res.distance / closing
		if frac > maxFrac {
			return ShapeCastResult{}, false
		}
	}
	return ShapeCastResult{}, false
}

// shapeCastInitialOverlap resolves a cast that starts in penetration: the hit
// is at fraction 0 with a best-effort normal from the expanding polytope.
func shapeCastInitialOverlap(a, b supportSet, simplex gjkSimplex, pose spatialmath.Pose, translation mgl32.Vec3) (ShapeCastResult, bool) {
	fallback := spatialmath.SafeNormalize(translation.Mul(-1), mgl32.Vec3{1, 0, 0})
	depth, sep, ok := epaPenetration(a, b, simplex)
	normal := fallback
	position := pose.Point()
	if ok {
		// Translating the target by depth*sep separates the pair, so the
		// outward target normal faces the opposite way.
		normal = sep.Mul(-1)
		position = pose.Point().Add(sep.Mul(depth * 0.5))
	}
	return ShapeCastResult{Position: position, Normal: normal, Fraction: 0}, true
}
