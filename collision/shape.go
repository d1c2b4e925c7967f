// Package collision implements the narrow-phase intersection routines,
// compound dispatch, and broad-phase traversal policies of the collision
// query engine. It answers raycast, point-distance, shape-distance, and
// shape-cast queries against single colliders or whole spatial indexes,
// reporting either the closest qualifying hit or any qualifying hit.
package collision

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"go.viam.com/collide/spatialmath"
)

// Shape is a collider in its local space. The set of implementations is
// closed: sphere, capsule, box, triangle, convex hull, and compound. Shapes
// store only their local-space parameters; a world-space pose is supplied per
// query. Shapes are immutable after construction and may be shared by any
// number of concurrent queries.
type Shape interface {
	fmt.Stringer

	// BoundingBox returns the world-space AABB of the shape at the given pose.
	BoundingBox(pose spatialmath.Pose) spatialmath.AABB
}

type sphere struct {
	radius float32
}

// NewSphere instantiates a sphere centered on its local origin.
func NewSphere(radius float32) (Shape, error) {
	if radius < 0 {
		return nil, newBadDimensionsError("sphere")
	}
	return &sphere{radius: radius}, nil
}

func (s *sphere) String() string {
	return fmt.Sprintf("Type: Sphere | Radius: %.2f", s.radius)
}

func (s *sphere) BoundingBox(pose spatialmath.Pose) spatialmath.AABB {
	return boundsOf(s, pose, 1)
}

// capsule is a capsule aligned with its local Z axis, centered on the origin.
//
// ....___________________
// .../                   \
// .x|  |-------O-------|  |x
// ...\___________________/
//
// length is the distance between the x's, i.e. internal segment length plus
// 2*radius. segA and segB are the precomputed endpoints of the internal
// segment.
type capsule struct {
	radius float32
	length float32
	segA   mgl32.Vec3
	segB   mgl32.Vec3
}

// NewCapsule instantiates a capsule. A capsule whose length equals its
// diameter collapses to a sphere.
func NewCapsule(radius, length float32) (Shape, error) {
	if radius < 0 || length < 0 {
		return nil, newBadDimensionsError("capsule")
	}
	if length < radius*2 {
		return nil, newBadCapsuleLengthError(length, radius)
	}
	if length == radius*2 {
		return NewSphere(radius)
	}
	half := length/2 - radius
	return &capsule{
		radius: radius,
		length: length,
		segA:   mgl32.Vec3{0, 0, -half},
		segB:   mgl32.Vec3{0, 0, half},
	}, nil
}

func (c *capsule) String() string {
	return fmt.Sprintf("Type: Capsule | Radius: %.2f, Length: %.2f", c.radius, c.length)
}

func (c *capsule) BoundingBox(pose spatialmath.Pose) spatialmath.AABB {
	return boundsOf(c, pose, 1)
}

// box is a rectangular prism centered on its local origin, axis-aligned in
// local space.
type box struct {
	halfSize mgl32.Vec3
}

// NewBox instantiates a box with the given full dimensions. Zero dimensions
// are allowed for degenerate slabs and planes.
func NewBox(dims mgl32.Vec3) (Shape, error) {
	if dims.X() < 0 || dims.Y() < 0 || dims.Z() < 0 {
		return nil, newBadDimensionsError("box")
	}
	return &box{halfSize: dims.Mul(0.5)}, nil
}

func (b *box) String() string {
	return fmt.Sprintf("Type: Box | Dims: X:%.2f, Y:%.2f, Z:%.2f",
		2*b.halfSize.X(), 2*b.halfSize.Y(), 2*b.halfSize.Z())
}

func (b *box) BoundingBox(pose spatialmath.Pose) spatialmath.AABB {
	return boundsOf(b, pose, 1)
}

// triangle is a single two-sided triangle. It has zero volume, so it is never
// "solid": point distances to it are unsigned and a ray starting on it is not
// treated as starting inside.
type triangle struct {
	p0     mgl32.Vec3
	p1     mgl32.Vec3
	p2     mgl32.Vec3
	normal mgl32.Vec3
}

// NewTriangleShape instantiates a triangle from three local-space vertices.
// Degenerate triangles are accepted; their routines return zero normals.
func NewTriangleShape(p0, p1, p2 mgl32.Vec3) (Shape, error) {
	return &triangle{
		p0:     p0,
		p1:     p1,
		p2:     p2,
		normal: spatialmath.PlaneNormal(p0, p1, p2),
	}, nil
}

func (t *triangle) String() string {
	return "Type: Triangle"
}

func (t *triangle) BoundingBox(pose spatialmath.Pose) spatialmath.AABB {
	return boundsOf(t, pose, 1)
}

// convexHull is the convex hull of a set of local-space vertices, addressed
// purely through its support function.
type convexHull struct {
	vertices       []mgl32.Vec3
	center         mgl32.Vec3
	boundingRadius float32
}

// NewConvexHull instantiates a convex hull from its vertices. The vertex slice
// is copied; interior vertices are harmless but waste support-function time.
func NewConvexHull(vertices []mgl32.Vec3) (Shape, error) {
	if len(vertices) == 0 {
		return nil, newEmptyShapeError("convex hull")
	}
	verts := make([]mgl32.Vec3, len(vertices))
	copy(verts, vertices)
	var center mgl32.Vec3
	for _, v := range verts {
		center = center.Add(v)
	}
	center = center.Mul(1 / float32(len(verts)))
	var radius float32
	for _, v := range verts {
		if l := v.Len(); l > radius {
			radius = l
		}
	}
	return &convexHull{vertices: verts, center: center, boundingRadius: radius}, nil
}

func (h *convexHull) String() string {
	return fmt.Sprintf("Type: ConvexHull | Vertices: %d", len(h.vertices))
}

func (h *convexHull) BoundingBox(pose spatialmath.Pose) spatialmath.AABB {
	return boundsOf(h, pose, 1)
}

// CompoundChild is one entry of a compound collider: a non-compound shape, its
// transform relative to the compound origin, and a uniform scale.
type CompoundChild struct {
	Shape Shape
	Pose  spatialmath.Pose
	Scale float32
}

// Compound is an ordered list of child shapes, each with a local transform and
// uniform scale. The child list is baked once at construction and shared
// read-only by every query that touches the compound; compounds are not
// recursively nested.
type Compound struct {
	children []CompoundChild
}

// NewCompound instantiates a compound collider. Children must be non-compound
// shapes with positive scale.
func NewCompound(children []CompoundChild) (*Compound, error) {
	if len(children) == 0 {
		return nil, newEmptyShapeError("compound")
	}
	baked := make([]CompoundChild, len(children))
	copy(baked, children)
	for i, child := range baked {
		if child.Shape == nil {
			return nil, newEmptyShapeError("compound child")
		}
		if _, ok := child.Shape.(*Compound); ok {
			return nil, newNestedCompoundError(i)
		}
		if child.Scale <= 0 {
			return nil, newBadDimensionsError("compound child scale")
		}
	}
	return &Compound{children: baked}, nil
}

// Children returns the compound's child list. The returned slice is shared and
// must be treated as read-only.
func (c *Compound) Children() []CompoundChild {
	return c.children
}

func (c *Compound) String() string {
	return fmt.Sprintf("Type: Compound | Children: %d", len(c.children))
}

// BoundingBox returns the union of the world-space boxes of all children.
func (c *Compound) BoundingBox(pose spatialmath.Pose) spatialmath.AABB {
	bb := spatialmath.NewEmptyAABB()
	for _, child := range c.children {
		bb = bb.Union(boundsOf(child.Shape, spatialmath.Compose(pose, child.Pose), child.Scale))
	}
	return bb
}

// boundsOf returns the world-space AABB of a shape at the given pose and
// uniform scale.
func boundsOf(shape Shape, pose spatialmath.Pose, scale float32) spatialmath.AABB {
	switch s := shape.(type) {
	case *sphere:
		return spatialmath.AABBFromCenterRadius(pose.Point(), s.radius*scale)
	case *capsule:
		a := pose.TransformPoint(s.segA.Mul(scale))
		b := pose.TransformPoint(s.segB.Mul(scale))
		r := s.radius * scale
		return spatialmath.AABBFromCenterRadius(a, r).Union(spatialmath.AABBFromCenterRadius(b, r))
	case *box:
		ex := pose.RotateVector(mgl32.Vec3{s.halfSize.X() * scale, 0, 0})
		ey := pose.RotateVector(mgl32.Vec3{0, s.halfSize.Y() * scale, 0})
		ez := pose.RotateVector(mgl32.Vec3{0, 0, s.halfSize.Z() * scale})
		extent := mgl32.Vec3{
			math32.Abs(ex.X()) + math32.Abs(ey.X()) + math32.Abs(ez.X()),
			math32.Abs(ex.Y()) + math32.Abs(ey.Y()) + math32.Abs(ez.Y()),
			math32.Abs(ex.Z()) + math32.Abs(ey.Z()) + math32.Abs(ez.Z()),
		}
		center := pose.Point()
		return spatialmath.NewAABB(center.Sub(extent), center.Add(extent))
	case *triangle:
		return spatialmath.AABBFromPoints(
			pose.TransformPoint(s.p0.Mul(scale)),
			pose.TransformPoint(s.p1.Mul(scale)),
			pose.TransformPoint(s.p2.Mul(scale)),
		)
	case *convexHull:
		bb := spatialmath.NewEmptyAABB()
		for _, v := range s.vertices {
			bb = bb.IncludePoint(pose.TransformPoint(v.Mul(scale)))
		}
		return bb
	case *Compound:
		bb := spatialmath.NewEmptyAABB()
		for _, child := range s.children {
			bb = bb.Union(boundsOf(child.Shape, spatialmath.Compose(pose, child.Pose), child.Scale*scale))
		}
		return bb
	default:
		return spatialmath.NewEmptyAABB()
	}
}

// localSupport returns the local-space support point of a convex shape in the
// given direction: the point of the shape furthest along dir. Compounds are
// not convex and report false.
func localSupport(shape Shape, dir mgl32.Vec3) (mgl32.Vec3, bool) {
	switch s := shape.(type) {
	case *sphere:
		return spatialmath.SafeNormalize(dir, mgl32.Vec3{1, 0, 0}).Mul(s.radius), true
	case *capsule:
		end := s.segA
		if dir.Z() >= 0 {
			end = s.segB
		}
		return end.Add(spatialmath.SafeNormalize(dir, mgl32.Vec3{1, 0, 0}).Mul(s.radius)), true
	case *box:
		return mgl32.Vec3{
			math32.Copysign(s.halfSize.X(), dir.X()),
			math32.Copysign(s.halfSize.Y(), dir.Y()),
			math32.Copysign(s.halfSize.Z(), dir.Z()),
		}, true
	case *triangle:
		best := s.p0
		bestDot := dir.Dot(s.p0)
		if d := dir.Dot(s.p1); d > bestDot {
			best, bestDot = s.p1, d
		}
		if d := dir.Dot(s.p2); d > bestDot {
			best = s.p2
		}
		return best, true
	case *convexHull:
		best := s.vertices[0]
		bestDot := dir.Dot(best)
		for _, v := range s.vertices[1:] {
			if d := dir.Dot(v); d > bestDot {
				best, bestDot = v, d
			}
		}
		return best, true
	case *point:
		return mgl32.Vec3{}, true
	default:
		return mgl32.Vec3{}, false
	}
}

// boundingRadiusOf returns a radius about the shape's local origin that
// encloses the shape, used for conservative early-out tests.
func boundingRadiusOf(shape Shape) float32 {
	switch s := shape.(type) {
	case *sphere:
		return s.radius
	case *capsule:
		return s.length / 2
	case *box:
		return s.halfSize.Len()
	case *triangle:
		return math32.Max(s.p0.Len(), math32.Max(s.p1.Len(), s.p2.Len()))
	case *convexHull:
		return s.boundingRadius
	case *Compound:
		var r float32
		for _, child := range s.children {
			if cr := child.Pose.Point().Len() + child.Scale*boundingRadiusOf(child.Shape); cr > r {
				r = cr
			}
		}
		return r
	default:
		return 0
	}
}

// point is an internal degenerate shape used to run point queries through the
// same support machinery as the other convex variants.
type point struct{}

func (p *point) String() string {
	return "Type: Point"
}

func (p *point) BoundingBox(pose spatialmath.Pose) spatialmath.AABB {
	return spatialmath.AABBFromPoints(pose.Point())
}
