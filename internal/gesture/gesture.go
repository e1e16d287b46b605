// Package gesture replays scripted pointer input against a surface.
// Headless runs and tests share this driver, so a script always
// produces the same timeline for the same configuration.
package gesture

import (
	"sort"
	"time"

	"peelsim/internal/geom"
	"peelsim/internal/peel"
	"peelsim/internal/surface"
)

type EventKind int

const (
	Move EventKind = iota
	Down
	Up
)

func (k EventKind) String() string {
	switch k {
	case Move:
		return "move"
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return "unknown"
	}
}

// Event is one timed pointer action in UV space.
type Event struct {
	At   float64 // seconds from script start
	Kind EventKind
	Pos  geom.Vec
}

// Script is a named pointer choreography.
type Script struct {
	Name     string
	Duration float64
	Events   []Event
}

// Sample is one frame of the recorded timeline.
type Sample struct {
	T        float64
	State    peel.State
	Progress float64
	Fraction float64
	Zones    int
}

// Result is the outcome of a played script.
type Result struct {
	Script        string
	Samples       []Sample
	Tears         int
	FinalFraction float64
	ZoneCount     int
	Cleared       bool
}

// frame matches the default integrator step so one playback frame is
// one sub-step.
const frame = time.Second / 60

// Play dispatches the script's events in order, advancing the surface
// one frame at a time and recording a sample per frame.
func Play(s *surface.Surface, sc Script) *Result {
	events := make([]Event, len(sc.Events))
	copy(events, sc.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })

	res := &Result{Script: sc.Name}

	cleared := false
	prevCleared := s.OnCleared
	s.OnCleared = func() {
		cleared = true
		if prevCleared != nil {
			prevCleared()
		}
	}
	defer func() { s.OnCleared = prevCleared }()

	frames := int(sc.Duration / frame.Seconds())
	next := 0
	t := 0.0
	for i := 0; i <= frames; i++ {
		for next < len(events) && events[next].At <= t {
			dispatch(s, events[next])
			next++
		}

		s.Update(frame)
		t += frame.Seconds()

		f := s.Frame()
		res.Samples = append(res.Samples, Sample{
			T:        t,
			State:    f.State,
			Progress: f.Progress,
			Fraction: f.TornFraction,
			Zones:    f.ZoneCount,
		})
	}

	res.Tears = s.TearCount()
	res.FinalFraction = s.TornFraction()
	res.ZoneCount = s.ZoneCount()
	res.Cleared = cleared
	return res
}

func dispatch(s *surface.Surface, e Event) {
	switch e.Kind {
	case Move:
		s.PointerMove(e.Pos)
	case Down:
		s.PointerDown(e.Pos)
	case Up:
		s.PointerUp(e.Pos)
	}
}
