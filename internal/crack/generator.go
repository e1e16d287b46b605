// Package crack generates the jagged boundary paths left behind by a
// completed tear. Generation is a pure function of the origin and the
// configured parameters: no RNG state, so the same origin always
// yields the same crack, which keeps mask fills reproducible.
package crack

import (
	"math"

	"peelsim/internal/config"
	"peelsim/internal/geom"
	"peelsim/internal/noise"
)

// Branch is a secondary path splitting off the primary crack.
type Branch struct {
	// Start indexes the primary waypoint the branch splits from.
	Start  int
	Points []geom.Vec
}

type Generator struct {
	cfg config.CrackConfig
}

func NewGenerator(cfg config.CrackConfig) *Generator {
	return &Generator{cfg: cfg}
}

// BuildPath walks from the origin to the nearest viewport edge in
// fixed-size steps, perturbing each step perpendicular to the travel
// direction with deterministic noise. The jitter tapers to zero near
// the target edge so the path lands cleanly, and every waypoint is
// clamped into [0,1]. The first waypoint is exactly the origin.
func (g *Generator) BuildPath(origin geom.Vec) []geom.Vec {
	origin = origin.Clamp01()
	target := nearestEdgePoint(origin)

	total := origin.DistTo(target)
	steps := int(math.Ceil(total / g.cfg.Step))
	if steps < 1 {
		steps = 1
	}

	dir := target.Sub(origin).Normalize(geom.Vec{X: 0, Y: -1})
	perp := dir.Perp()

	path := make([]geom.Vec, 0, steps+1)
	path = append(path, origin)

	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		base := origin.Add(dir.Scale(total * t))

		taper := math.Min(1, (1-t)/g.cfg.EdgeTaper)
		jitter := noise.Signed2(base.X, base.Y) * g.cfg.Jaggedness * taper

		path = append(path, base.Add(perp.Scale(jitter)).Clamp01())
	}

	return append(path, target)
}

// BuildBranches derives one or two secondary paths from the primary.
// Branch count, start index, deviation angle and length budget all
// come from the same noise function applied to path-derived inputs, so
// branches are as reproducible as the primary. Branches jitter the
// same way but stop when their length budget runs out instead of
// seeking an edge.
func (g *Generator) BuildBranches(primary []geom.Vec) []Branch {
	if len(primary) < 3 {
		return nil
	}

	first := primary[0]
	last := primary[len(primary)-1]

	count := 1
	if noise.Hash2(first.X+last.X, first.Y+last.Y) >= 0.5 {
		count = 2
	}

	branches := make([]Branch, 0, count)
	for j := 0; j < count; j++ {
		seed := float64(j + 1)

		// Split somewhere in the middle half of the primary.
		span := len(primary) / 2
		start := len(primary)/4 + int(noise.Hash2(seed, first.X+first.Y)*float64(span))
		if start >= len(primary)-1 {
			start = len(primary) - 2
		}

		angle := (g.cfg.BranchAngleMin +
			noise.Hash2(seed, last.X+last.Y)*(g.cfg.BranchAngleMax-g.cfg.BranchAngleMin)) *
			math.Pi / 180
		if j%2 == 1 {
			angle = -angle
		}

		budget := g.cfg.BranchLenMin +
			noise.Hash2(seed, first.X+last.Y)*(g.cfg.BranchLenMax-g.cfg.BranchLenMin)

		along := primary[start+1].Sub(primary[start]).Normalize(geom.Vec{X: 0, Y: -1})
		dir := along.Rotate(angle)

		pts := g.walkBranch(primary[start], dir, budget)
		if len(pts) > 1 {
			branches = append(branches, Branch{Start: start, Points: pts})
		}
	}
	return branches
}

func (g *Generator) walkBranch(from, dir geom.Vec, budget float64) []geom.Vec {
	steps := int(math.Ceil(budget / g.cfg.Step))
	if steps < 1 {
		steps = 1
	}
	perp := dir.Perp()

	pts := make([]geom.Vec, 0, steps+1)
	pts = append(pts, from)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		base := from.Add(dir.Scale(budget * t))

		taper := math.Min(1, (1-t)/g.cfg.EdgeTaper)
		jitter := noise.Signed2(base.X, base.Y) * g.cfg.Jaggedness * taper

		pts = append(pts, base.Add(perp.Scale(jitter)).Clamp01())
	}
	return pts
}

// PathNormal returns the unit average perpendicular of the path,
// used as the outward normal when a crack becomes a grab zone.
func PathNormal(path []geom.Vec) geom.Vec {
	if len(path) < 2 {
		return geom.Vec{X: 0, Y: 1}
	}
	var sum geom.Vec
	for i := 1; i < len(path); i++ {
		sum = sum.Add(path[i].Sub(path[i-1]).Perp())
	}
	return sum.Normalize(geom.Vec{X: 0, Y: 1})
}

// nearestEdgePoint projects the origin perpendicularly onto whichever
// viewport edge is closest.
func nearestEdgePoint(o geom.Vec) geom.Vec {
	type edge struct {
		dist  float64
		point geom.Vec
	}
	// bottom, top, left, right
	edges := []edge{
		{o.Y, geom.Vec{X: o.X, Y: 0}},
		{1 - o.Y, geom.Vec{X: o.X, Y: 1}},
		{o.X, geom.Vec{X: 0, Y: o.Y}},
		{1 - o.X, geom.Vec{X: 1, Y: o.Y}},
	}
	best := edges[0]
	for _, e := range edges[1:] {
		if e.dist < best.dist {
			best = e
		}
	}
	return best.point
}
