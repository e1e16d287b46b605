// Package zones tracks the proximity-queryable grab zones a peel
// gesture may start from: four fixed viewport-edge zones plus the
// boundaries of completed tears.
package zones

import (
	"peelsim/internal/config"
	"peelsim/internal/geom"
)

// Kind distinguishes the fixed edge zones from crack boundaries.
type Kind int

const (
	EdgeZone Kind = iota
	CrackZone
)

// Zone is an ordered sequence of UV waypoints sharing one outward unit
// normal. Edge zones are rebuilt on reset; crack zones are UV-relative
// and permanent for the session.
type Zone struct {
	Kind      Kind
	Waypoints []geom.Vec
	Normal    geom.Vec
}

// Hit is the result of a nearest-zone query.
type Hit struct {
	Zone     *Zone
	Point    geom.Vec
	Normal   geom.Vec
	Distance float64 // physical pixels
}

// Tracker owns the zone list; no other component mutates it.
type Tracker struct {
	cfg   config.ZonesConfig
	zones []*Zone
}

func NewTracker(cfg config.ZonesConfig) *Tracker {
	t := &Tracker{cfg: cfg}
	t.Reset()
	return t
}

// Reset discards crack-boundary zones and rebuilds the four fixed edge
// zones, each sampled evenly along its viewport edge.
func (t *Tracker) Reset() {
	n := t.cfg.EdgeSamples
	t.zones = []*Zone{
		edgeZone(n, func(f float64) geom.Vec { return geom.Vec{X: f, Y: 0} }, geom.Vec{X: 0, Y: -1}),
		edgeZone(n, func(f float64) geom.Vec { return geom.Vec{X: f, Y: 1} }, geom.Vec{X: 0, Y: 1}),
		edgeZone(n, func(f float64) geom.Vec { return geom.Vec{X: 0, Y: f} }, geom.Vec{X: -1, Y: 0}),
		edgeZone(n, func(f float64) geom.Vec { return geom.Vec{X: 1, Y: f} }, geom.Vec{X: 1, Y: 0}),
	}
}

func edgeZone(samples int, along func(float64) geom.Vec, normal geom.Vec) *Zone {
	wps := make([]geom.Vec, samples)
	for i := range wps {
		wps[i] = along(float64(i) / float64(samples-1))
	}
	return &Zone{Kind: EdgeZone, Waypoints: wps, Normal: normal}
}

// Nearest scans every zone waypoint and returns the closest one within
// the snap radius, or nil. Distances are measured in physical pixels
// so proximity feels the same at any aspect ratio. The scan is
// O(zones x samples); fine at session scale, a quantized-cell index
// would replace it if zones accumulated without bound.
func (t *Tracker) Nearest(cursor geom.Vec, vp geom.Viewport) *Hit {
	var best *Hit
	for _, z := range t.zones {
		for _, wp := range z.Waypoints {
			d := vp.PixelDist(cursor, wp)
			if best == nil || d < best.Distance {
				best = &Hit{Zone: z, Point: wp, Normal: z.Normal, Distance: d}
			}
		}
	}
	if best == nil || best.Distance > t.cfg.SnapRadiusPx {
		return nil
	}
	return best
}

// AddCrackBoundary registers a completed crack path as a new zone,
// making the fresh edge immediately re-peelable. The normal applies to
// the whole zone.
func (t *Tracker) AddCrackBoundary(path []geom.Vec, normal geom.Vec) {
	if len(path) == 0 {
		return
	}
	wps := make([]geom.Vec, len(path))
	copy(wps, path)
	t.zones = append(t.zones, &Zone{Kind: CrackZone, Waypoints: wps, Normal: normal})
}

// Count returns the number of zones currently tracked.
func (t *Tracker) Count() int { return len(t.zones) }

// Zones returns the tracked zones. Callers must treat them as
// read-only.
func (t *Tracker) Zones() []*Zone { return t.zones }
