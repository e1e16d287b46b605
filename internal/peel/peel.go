// Package peel implements the peel gesture state machine and its
// fixed-timestep spring-damper integrator.
//
// The machine is IDLE ⇄ HOVER → PEELING → {SNAP_BACK → IDLE,
// SNAP_OFF → IDLE}. Every transition is an explicit function of an
// input event; the only timed transition, SNAP_OFF → IDLE, runs on a
// fixed-step cooldown counter so a given input/time sequence always
// reproduces the same states.
//
// Pointer input can arrive stale or duplicated, so calls that are not
// valid in the current state are silent no-ops. Misuse never corrupts
// state and never panics.
package peel

import (
	"math"

	"peelsim/internal/config"
	"peelsim/internal/geom"
)

// State is the peel machine state.
type State int

const (
	Idle State = iota
	Hover
	Peeling
	SnapBack
	SnapOff
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Hover:
		return "HOVER"
	case Peeling:
		return "PEELING"
	case SnapBack:
		return "SNAP_BACK"
	case SnapOff:
		return "SNAP_OFF"
	default:
		return "UNKNOWN"
	}
}

// Grab is the point a peel gesture starts from and the outward normal
// of the zone it came from.
type Grab struct {
	Point  geom.Vec
	Normal geom.Vec
}

// Controller owns all peel state. Grab point, direction and progress
// are meaningful only while the state is not Idle.
type Controller struct {
	cfg config.PeelConfig

	state    State
	grab     geom.Vec
	normal   geom.Vec
	dir      geom.Vec
	progress float64
	velocity float64
	target   float64
	cooldown int

	// OnHoverChange fires on every HOVER <-> IDLE transition with the
	// grab under the pointer, or nil when hover is lost.
	OnHoverChange func(g *Grab)

	// OnSnapOff fires exactly once per completed tear, synchronously
	// inside Release, with the peel-front UV and the grab normal.
	OnSnapOff func(front, normal geom.Vec)
}

func NewController(cfg config.PeelConfig) *Controller {
	return &Controller{cfg: cfg}
}

func (c *Controller) State() State         { return c.state }
func (c *Controller) Progress() float64    { return c.progress }
func (c *Controller) Velocity() float64    { return c.velocity }
func (c *Controller) Target() float64      { return c.target }
func (c *Controller) GrabPoint() geom.Vec  { return c.grab }
func (c *Controller) GrabNormal() geom.Vec { return c.normal }
func (c *Controller) Direction() geom.Vec  { return c.dir }

// PeelFront returns the advancing crease position: the grab point
// displaced along the peel direction by the current progress.
func (c *Controller) PeelFront() geom.Vec {
	return c.grab.Add(c.dir.Scale(c.progress))
}

// SetHover updates the hovered grab, or clears it with nil. Valid only
// in Idle and Hover.
func (c *Controller) SetHover(g *Grab) {
	if c.state != Idle && c.state != Hover {
		return
	}

	if g == nil {
		if c.state == Hover {
			c.state = Idle
			c.notifyHover(nil)
		}
		return
	}

	c.grab = g.Point
	c.normal = g.Normal
	c.dir = g.Normal
	if c.state == Idle {
		c.state = Hover
		c.notifyHover(g)
	}
}

// BeginPeel starts a drag gesture. Valid only in Hover.
func (c *Controller) BeginPeel() {
	if c.state != Hover {
		return
	}
	c.state = Peeling
	c.progress = 0
	c.velocity = 0
	c.target = 0
}

// UpdateDragTarget retargets the spring from the cursor position.
// Valid only in Peeling. The peel direction follows the displacement
// only once it leaves a small dead zone, so the direction is stable
// near the grab point but can swing mid-gesture.
func (c *Controller) UpdateDragTarget(cursor geom.Vec) {
	if c.state != Peeling {
		return
	}

	disp := cursor.Sub(c.grab)
	dist := disp.Len()

	c.target = math.Min(1, c.cfg.DragGain*dist)
	if dist > c.cfg.DeadZone {
		c.dir = disp.Normalize(c.dir)
	}
}

// Release ends the drag. Valid only in Peeling. Past the snap
// threshold the flap detaches (SnapOff, snap-off callback fires once);
// otherwise it springs back toward zero (SnapBack).
func (c *Controller) Release() {
	if c.state != Peeling {
		return
	}

	if c.progress >= c.cfg.SnapThreshold {
		c.state = SnapOff
		c.cooldown = int(math.Ceil(c.cfg.SnapOffDelay / c.cfg.Dt))
		if c.OnSnapOff != nil {
			c.OnSnapOff(c.PeelFront(), c.normal)
		}
		return
	}

	c.state = SnapBack
	c.target = 0
}

// Step advances one fixed timestep. In Peeling and SnapBack it
// integrates the spring; in SnapOff it counts down the cosmetic
// detach delay. Other states ignore it.
func (c *Controller) Step(dt float64) {
	switch c.state {
	case Peeling, SnapBack:
		err := c.target - c.progress
		c.velocity = c.velocity*c.cfg.Damping + err*c.cfg.SpringK*dt
		c.progress = geom.Clamp(c.progress+c.velocity, 0, 1)

		if c.state == SnapBack &&
			math.Abs(c.progress) < c.cfg.SettleProgress &&
			math.Abs(c.velocity) < c.cfg.SettleVelocity {
			c.zero()
		}
	case SnapOff:
		c.cooldown--
		if c.cooldown <= 0 {
			c.zero()
		}
	}
}

// Reset forces the controller back to Idle with everything zeroed.
func (c *Controller) Reset() {
	c.zero()
	c.grab = geom.Vec{}
	c.normal = geom.Vec{}
	c.dir = geom.Vec{}
}

func (c *Controller) zero() {
	c.state = Idle
	c.progress = 0
	c.velocity = 0
	c.target = 0
	c.cooldown = 0
}

func (c *Controller) notifyHover(g *Grab) {
	if c.OnHoverChange != nil {
		c.OnHoverChange(g)
	}
}
