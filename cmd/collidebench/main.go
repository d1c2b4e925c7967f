// Package main benchmarks the collision query entry points against a
// randomized scene and prints latency statistics for each query family.
package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"github.com/edaniels/golog"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/collide/collision"
	"go.viam.com/collide/spatialmath"
)

var logger = golog.NewDevelopmentLogger("collidebench")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	flags := flag.NewFlagSet("collidebench", flag.ContinueOnError)
	numBodies := flags.Int("bodies", 512, "number of bodies in the scene")
	numQueries := flags.Int("queries", 2000, "queries per family")
	seed := flags.Int64("seed", 1, "scene random seed")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}
	if *numBodies <= 0 || *numQueries <= 0 {
		return errors.New("bodies and queries must be positive")
	}

	rng := rand.New(rand.NewSource(*seed))
	scene, err := buildScene(rng, *numBodies)
	if err != nil {
		return err
	}
	logger.Infow("scene ready", "bodies", *numBodies, "seed", *seed)

	probe, err := collision.NewSphere(0.5)
	if err != nil {
		return err
	}

	families := []struct {
		name string
		run  func(*rand.Rand) bool
	}{
		{"raycast/closest", func(r *rand.Rand) bool {
			_, _, hit := collision.RaycastClosest(scene, randomRay(r))
			return hit
		}},
		{"raycast/any", func(r *rand.Rand) bool {
			_, _, hit := collision.RaycastAny(scene, randomRay(r))
			return hit
		}},
		{"pointdistance/closest", func(r *rand.Rand) bool {
			_, _, hit := collision.PointDistanceClosest(scene, randomPoint(r), 5)
			return hit
		}},
		{"pointdistance/any", func(r *rand.Rand) bool {
			_, _, hit := collision.PointDistanceAny(scene, randomPoint(r), 5)
			return hit
		}},
		{"shapedistance/closest", func(r *rand.Rand) bool {
			_, _, hit := collision.ShapeDistanceClosest(scene, probe, spatialmath.NewPoseFromPoint(randomPoint(r)), 5)
			return hit
		}},
		{"shapedistance/any", func(r *rand.Rand) bool {
			_, _, hit := collision.ShapeDistanceAny(scene, probe, spatialmath.NewPoseFromPoint(randomPoint(r)), 5)
			return hit
		}},
		{"shapecast/closest", func(r *rand.Rand) bool {
			_, _, hit := collision.ShapeCastClosest(scene, probe, spatialmath.NewPoseFromPoint(randomPoint(r)), randomSweep(r))
			return hit
		}},
		{"shapecast/any", func(r *rand.Rand) bool {
			_, _, hit := collision.ShapeCastAny(scene, probe, spatialmath.NewPoseFromPoint(randomPoint(r)), randomSweep(r))
			return hit
		}},
	}

	for _, family := range families {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		latencies := make([]float64, 0, *numQueries)
		hits := 0
		for i := 0; i < *numQueries; i++ {
			start := time.Now()
			if family.run(rng) {
				hits++
			}
			latencies = append(latencies, float64(time.Since(start).Nanoseconds())/1e3)
		}
		mean := stat.Mean(latencies, nil)
		sigma := stat.StdDev(latencies, nil)
		logger.Infow(family.name,
			"queries", *numQueries,
			"hits", hits,
			"mean_us", mean,
			"stddev_us", sigma,
		)
	}
	return nil
}

const sceneExtent = 50

// buildScene scatters a mix of all shape variants through a cube of side
// 2*sceneExtent.
func buildScene(rng *rand.Rand, numBodies int) (*collision.StaticIndex, error) {
	bodies := make([]collision.Body, 0, numBodies)
	for i := 0; i < numBodies; i++ {
		shape, err := randomShape(rng)
		if err != nil {
			return nil, err
		}
		pose := spatialmath.NewPoseFromAxisAngle(
			randomPoint(rng),
			randomDir(rng),
			rng.Float32()*6.28318,
		)
		bodies = append(bodies, collision.NewBody(i, shape, pose))
	}
	return collision.NewStaticIndex(bodies), nil
}

func randomShape(rng *rand.Rand) (collision.Shape, error) {
	switch rng.Intn(6) {
	case 0:
		return collision.NewSphere(0.5 + rng.Float32())
	case 1:
		r := 0.3 + rng.Float32()*0.5
		return collision.NewCapsule(r, 2*r+rng.Float32()*3)
	case 2:
		return collision.NewBox(mgl32.Vec3{
			0.5 + rng.Float32()*2,
			0.5 + rng.Float32()*2,
			0.5 + rng.Float32()*2,
		})
	case 3:
		return collision.NewTriangleShape(
			randomDir(rng).Mul(1 + rng.Float32()),
			randomDir(rng).Mul(1 + rng.Float32()),
			randomDir(rng).Mul(1 + rng.Float32()),
		)
	case 4:
		verts := make([]mgl32.Vec3, 8)
		for i := range verts {
			verts[i] = randomDir(rng).Mul(0.5 + rng.Float32()*1.5)
		}
		return collision.NewConvexHull(verts)
	default:
		child, err := collision.NewSphere(0.5 + rng.Float32()*0.5)
		if err != nil {
			return nil, err
		}
		children := make([]collision.CompoundChild, 2+rng.Intn(3))
		for i := range children {
			children[i] = collision.CompoundChild{
				Shape: child,
				Pose:  spatialmath.NewPoseFromPoint(randomDir(rng).Mul(rng.Float32() * 3)),
				Scale: 0.5 + rng.Float32(),
			}
		}
		compound, err := collision.NewCompound(children)
		if err != nil {
			return nil, err
		}
		return compound, nil
	}
}

func randomPoint(rng *rand.Rand) mgl32.Vec3 {
	return mgl32.Vec3{
		(rng.Float32()*2 - 1) * sceneExtent,
		(rng.Float32()*2 - 1) * sceneExtent,
		(rng.Float32()*2 - 1) * sceneExtent,
	}
}

func randomDir(rng *rand.Rand) mgl32.Vec3 {
	v := mgl32.Vec3{
		rng.Float32()*2 - 1,
		rng.Float32()*2 - 1,
		rng.Float32()*2 - 1,
	}
	return spatialmath.SafeNormalize(v, mgl32.Vec3{1, 0, 0})
}

func randomRay(rng *rand.Rand) spatialmath.Ray {
	start := randomPoint(rng)
	return spatialmath.NewRay(start, start.Add(randomDir(rng).Mul(rng.Float32()*2*sceneExtent)))
}

func randomSweep(rng *rand.Rand) mgl32.Vec3 {
	return randomDir(rng).Mul(rng.Float32() * 20)
}
