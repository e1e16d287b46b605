package zones

import (
	"math"
	"testing"

	"peelsim/internal/config"
	"peelsim/internal/geom"
)

var testVP = geom.Viewport{W: 1000, H: 800}

func TestInitialEdgeZones(t *testing.T) {
	tr := NewTracker(config.Default().Zones)

	if tr.Count() != 4 {
		t.Fatalf("expected 4 fixed zones, got %d", tr.Count())
	}
	for _, z := range tr.Zones() {
		if z.Kind != EdgeZone {
			t.Error("initial zones should all be edge zones")
		}
		if len(z.Waypoints) != config.DefaultEdgeSamples {
			t.Errorf("expected %d waypoints, got %d", config.DefaultEdgeSamples, len(z.Waypoints))
		}
		if math.Abs(z.Normal.Len()-1) > 1e-12 {
			t.Errorf("edge normal not unit length: %+v", z.Normal)
		}
	}
}

func TestNearestExactCoincidence(t *testing.T) {
	tr := NewTracker(config.Default().Zones)

	// Bottom edge has a waypoint at exactly (0.5, 0).
	hit := tr.Nearest(geom.Vec{X: 0.5, Y: 0}, testVP)
	if hit == nil {
		t.Fatal("expected a hit on an exact waypoint")
	}
	if hit.Distance != 0 {
		t.Errorf("exact coincidence should report distance 0, got %f", hit.Distance)
	}
	if hit.Normal != (geom.Vec{X: 0, Y: -1}) {
		t.Errorf("wrong normal for bottom edge: %+v", hit.Normal)
	}
}

func TestNearestNullIffBeyondRadius(t *testing.T) {
	cfg := config.Default().Zones
	tr := NewTracker(cfg)

	cursors := []geom.Vec{
		{X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.01}, {X: 0.02, Y: 0.3},
		{X: 0.5, Y: 0.014}, {X: 0.5, Y: 0.016},
	}
	for _, cursor := range cursors {
		// Brute-force ground truth over every waypoint.
		min := math.Inf(1)
		for _, z := range tr.Zones() {
			for _, wp := range z.Waypoints {
				if d := testVP.PixelDist(cursor, wp); d < min {
					min = d
				}
			}
		}

		hit := tr.Nearest(cursor, testVP)
		if min > cfg.SnapRadiusPx && hit != nil {
			t.Errorf("cursor %+v: min %fpx beyond radius but got a hit", cursor, min)
		}
		if min <= cfg.SnapRadiusPx {
			if hit == nil {
				t.Errorf("cursor %+v: min %fpx within radius but got nil", cursor, min)
			} else if math.Abs(hit.Distance-min) > 1e-9 {
				t.Errorf("cursor %+v: hit distance %f, want %f", cursor, hit.Distance, min)
			}
		}
	}
}

func TestNearestRespectsAspectRatio(t *testing.T) {
	tr := NewTracker(config.Default().Zones)

	// 10px above a bottom waypoint on a tall viewport: inside radius.
	tall := geom.Viewport{W: 100, H: 1000}
	if tr.Nearest(geom.Vec{X: 0.5, Y: 0.01}, tall) == nil {
		t.Error("10px away should hit")
	}
	// Same UV offset on a much taller viewport is further in pixels.
	taller := geom.Viewport{W: 100, H: 10000}
	if tr.Nearest(geom.Vec{X: 0.5, Y: 0.01}, taller) != nil {
		t.Error("100px away should miss")
	}
}

func TestAddCrackBoundary(t *testing.T) {
	tr := NewTracker(config.Default().Zones)

	path := []geom.Vec{{X: 0.4, Y: 0.4}, {X: 0.45, Y: 0.45}, {X: 0.5, Y: 0.5}}
	tr.AddCrackBoundary(path, geom.Vec{X: 0, Y: 1})

	if tr.Count() != 5 {
		t.Fatalf("expected 5 zones, got %d", tr.Count())
	}

	hit := tr.Nearest(geom.Vec{X: 0.45, Y: 0.45}, testVP)
	if hit == nil || hit.Zone.Kind != CrackZone {
		t.Fatal("new crack boundary should be immediately grabbable")
	}

	// The tracker keeps its own copy of the waypoints.
	path[0] = geom.Vec{X: 0, Y: 0}
	if tr.Zones()[4].Waypoints[0] != (geom.Vec{X: 0.4, Y: 0.4}) {
		t.Error("tracker must copy the path, not alias it")
	}

	// Empty paths are ignored.
	tr.AddCrackBoundary(nil, geom.Vec{X: 0, Y: 1})
	if tr.Count() != 5 {
		t.Error("empty path should not add a zone")
	}
}

func TestResetRestoresFixedZones(t *testing.T) {
	tr := NewTracker(config.Default().Zones)
	tr.AddCrackBoundary([]geom.Vec{{X: 0.3, Y: 0.3}}, geom.Vec{X: 1, Y: 0})
	tr.AddCrackBoundary([]geom.Vec{{X: 0.7, Y: 0.7}}, geom.Vec{X: 1, Y: 0})

	tr.Reset()
	if tr.Count() != 4 {
		t.Fatalf("expected 4 zones after reset, got %d", tr.Count())
	}
	for _, z := range tr.Zones() {
		if z.Kind != EdgeZone {
			t.Error("crack zones should not survive reset")
		}
	}
}
