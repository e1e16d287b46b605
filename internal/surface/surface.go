// Package surface wires the peel controller, grab zone tracker, crack
// generator and tear mask into one interactive simulation.
//
// Everything advances from a single per-frame Update call driven by
// the host's render loop. A fixed-timestep accumulator decouples the
// spring integration from the frame cadence: wall-clock deltas are
// clamped, accumulated, and consumed in fixed sub-steps, so the
// physics is frame-rate independent and reproducible for a given
// input/time sequence. Nothing here is safe for concurrent use; the
// renderer reads the Frame snapshot once per frame on the same
// goroutine.
package surface

import (
	"time"

	"peelsim/internal/config"
	"peelsim/internal/crack"
	"peelsim/internal/geom"
	"peelsim/internal/mask"
	"peelsim/internal/peel"
	"peelsim/internal/zones"
)

// tearRingSize bounds the transient flash buffer; flashDuration is how
// long a completed tear stays in the frame snapshot for overlay
// effects. Expiry is a pure function of (now, spawn time).
const (
	tearRingSize  = 8
	flashDuration = 0.6
)

// Tear records one completed detachment.
type Tear struct {
	Primary  []geom.Vec
	Branches []crack.Branch
	Origin   geom.Vec
	Spawn    float64 // simulation time of the snap-off
}

// Frame is the per-frame snapshot published to the renderer.
type Frame struct {
	State        peel.State
	FoldPoint    geom.Vec
	FoldDir      geom.Vec
	Progress     float64
	CurlRadius   float64
	TornFraction float64
	ZoneCount    int
	// Mask is a read-only view of the tear field.
	Mask *mask.Mask
	// RecentTears holds unexpired tears for flash overlays, newest
	// last. The slice is a per-frame copy; mutating it is harmless.
	RecentTears []Tear
}

// Surface is the orchestration hub. It exclusively routes pointer
// input and owns the frame clock; component state stays owned by the
// components themselves.
type Surface struct {
	cfg     config.Config
	vp      geom.Viewport
	ctrl    *peel.Controller
	tracker *zones.Tracker
	gen     *crack.Generator
	field   *mask.Mask

	simTime     float64
	accumulator float64
	tears       [tearRingSize]Tear
	tearCount   int

	lastHit *zones.Hit

	// OnSnapOff fires exactly once per completed tear, synchronously
	// within the pointer-up that caused it.
	OnSnapOff func(front, normal geom.Vec)
	// OnHoverChange fires on every HOVER <-> IDLE transition.
	OnHoverChange func(hit *zones.Hit)
	// OnCleared fires once when the torn fraction crosses the cleared
	// threshold.
	OnCleared func()
}

// New builds a surface for the given viewport. All tunables come from
// cfg; nothing reads package-level state.
func New(cfg config.Config, vp geom.Viewport) *Surface {
	s := &Surface{
		cfg:     cfg,
		vp:      vp,
		ctrl:    peel.NewController(cfg.Peel),
		tracker: zones.NewTracker(cfg.Zones),
		gen:     crack.NewGenerator(cfg.Crack),
		field:   mask.New(cfg.Mask),
	}

	s.ctrl.OnHoverChange = func(g *peel.Grab) {
		if s.OnHoverChange == nil {
			return
		}
		if g == nil {
			s.OnHoverChange(nil)
			return
		}
		s.OnHoverChange(s.lastHit)
	}
	s.ctrl.OnSnapOff = s.snapOff
	s.field.OnCleared = func() {
		if s.OnCleared != nil {
			s.OnCleared()
		}
	}
	return s
}

func (s *Surface) Viewport() geom.Viewport { return s.vp }

// PointerMove routes a pointer position in UV space. Hover tracking
// while idle, drag retargeting while peeling.
func (s *Surface) PointerMove(uv geom.Vec) {
	switch s.ctrl.State() {
	case peel.Idle, peel.Hover:
		hit := s.tracker.Nearest(uv, s.vp)
		s.lastHit = hit
		if hit == nil {
			s.ctrl.SetHover(nil)
			return
		}
		s.ctrl.SetHover(&peel.Grab{Point: hit.Point, Normal: hit.Normal})
	case peel.Peeling:
		s.ctrl.UpdateDragTarget(uv)
	}
}

// PointerDown begins a peel if the pointer is over a grab zone.
func (s *Surface) PointerDown(uv geom.Vec) {
	s.PointerMove(uv)
	s.ctrl.BeginPeel()
}

// PointerUp releases the gesture; past the snap threshold this runs
// the whole tear pipeline synchronously.
func (s *Surface) PointerUp(uv geom.Vec) {
	s.PointerMove(uv)
	s.ctrl.Release()
}

// Update advances the simulation by an elapsed wall-clock duration.
// The delta is clamped so a suspended host cannot destabilize the
// spring, then consumed in zero or more fixed sub-steps.
func (s *Surface) Update(elapsed time.Duration) {
	d := elapsed.Seconds()
	if d < 0 {
		d = 0
	}
	if d > s.cfg.Frame.MaxFrameDelta {
		d = s.cfg.Frame.MaxFrameDelta
	}

	s.accumulator += d
	dt := s.cfg.Peel.Dt
	for s.accumulator >= dt {
		s.ctrl.Step(dt)
		s.accumulator -= dt
		s.simTime += dt
	}
}

// Frame publishes the render snapshot for the current state.
func (s *Surface) Frame() Frame {
	f := Frame{
		State:        s.ctrl.State(),
		FoldPoint:    s.ctrl.PeelFront(),
		FoldDir:      s.ctrl.Direction(),
		Progress:     s.ctrl.Progress(),
		CurlRadius:   s.cfg.Frame.CurlRadius,
		TornFraction: s.field.TornFraction(),
		ZoneCount:    s.tracker.Count(),
		Mask:         s.field,
	}

	// Filtered copy per frame; no splice-during-iteration.
	for i := 0; i < tearRingSize; i++ {
		t := s.tears[(s.tearCount+i)%tearRingSize]
		if t.Primary != nil && s.simTime-t.Spawn < flashDuration {
			f.RecentTears = append(f.RecentTears, t)
		}
	}
	return f
}

// TornFraction is a convenience passthrough for callers that do not
// need a full frame.
func (s *Surface) TornFraction() float64 { return s.field.TornFraction() }

func (s *Surface) State() peel.State { return s.ctrl.State() }

func (s *Surface) ZoneCount() int { return s.tracker.Count() }

func (s *Surface) TearCount() int { return s.tearCount }

// Reset restores the whole simulation: controller to Idle, mask to
// intact, tracker to its four fixed zones, fraction to zero.
func (s *Surface) Reset() {
	s.ctrl.Reset()
	s.tracker.Reset()
	s.field.Reset()
	s.tears = [tearRingSize]Tear{}
	s.tearCount = 0
	s.accumulator = 0
	s.lastHit = nil
}

// Resize records the new viewport. Fixed-zone proximity is defined in
// physical pixels and is always evaluated against the current
// viewport, so only the stored size changes; crack-boundary UV
// waypoints are untouched.
func (s *Surface) Resize(vp geom.Viewport) {
	s.vp = vp
}

// snapOff runs the detachment pipeline: crack generation from the peel
// front, polygon close and mask fill, then zone registration so the
// new boundary is immediately re-peelable.
func (s *Surface) snapOff(front, normal geom.Vec) {
	primary := s.gen.BuildPath(front)
	branches := s.gen.BuildBranches(primary)

	if poly := mask.CloseAgainstViewport(primary); poly != nil {
		s.field.FillPolygon(poly)
	}

	s.tracker.AddCrackBoundary(primary, crack.PathNormal(primary))
	for _, br := range branches {
		s.tracker.AddCrackBoundary(br.Points, crack.PathNormal(br.Points))
	}

	s.tears[s.tearCount%tearRingSize] = Tear{
		Primary:  primary,
		Branches: branches,
		Origin:   front,
		Spawn:    s.simTime,
	}
	s.tearCount++

	if s.OnSnapOff != nil {
		s.OnSnapOff(front, normal)
	}
}
