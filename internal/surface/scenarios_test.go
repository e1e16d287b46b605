package surface_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"peelsim/internal/config"
	"peelsim/internal/geom"
	"peelsim/internal/peel"
	"peelsim/internal/surface"
	"peelsim/internal/zones"
)

var (
	testVP   = geom.Viewport{W: 1000, H: 800}
	edgeGrab = geom.Vec{X: 0.5, Y: 0} // waypoint on the bottom edge
	farPull  = geom.Vec{X: 0.5, Y: 0.5}
)

// frameStep is one 60Hz frame; exactly one fixed sub-step at the
// default dt.
const frameStep = time.Second / 60

func stepN(s *surface.Surface, n int) {
	for i := 0; i < n; i++ {
		s.Update(frameStep)
	}
}

// dragUntil pulls toward cursor until progress passes p.
func dragUntil(s *surface.Surface, cursor geom.Vec, p float64) {
	for i := 0; i < 1000 && s.Frame().Progress < p; i++ {
		s.PointerMove(cursor)
		s.Update(frameStep)
	}
}

var _ = Describe("Surface", func() {
	var (
		s        *surface.Surface
		snapOffs int
		hovers   []*zones.Hit
		cleared  int
	)

	BeforeEach(func() {
		s = surface.New(config.Default(), testVP)
		snapOffs = 0
		hovers = nil
		cleared = 0
		s.OnSnapOff = func(front, normal geom.Vec) { snapOffs++ }
		s.OnHoverChange = func(hit *zones.Hit) { hovers = append(hovers, hit) }
		s.OnCleared = func() { cleared++ }
	})

	Describe("scenario A: a full tear", func() {
		It("snaps off once, registers a crack zone, and grows the torn fraction", func() {
			Expect(s.State()).To(Equal(peel.Idle))
			Expect(s.ZoneCount()).To(Equal(4))

			s.PointerMove(edgeGrab)
			Expect(s.State()).To(Equal(peel.Hover))
			Expect(hovers).To(HaveLen(1))
			Expect(hovers[0]).NotTo(BeNil())
			Expect(hovers[0].Distance).To(BeZero())

			s.PointerDown(edgeGrab)
			Expect(s.State()).To(Equal(peel.Peeling))

			dragUntil(s, farPull, 0.35)
			Expect(s.Frame().Progress).To(BeNumerically(">=", 0.35))

			s.PointerUp(farPull)

			Expect(snapOffs).To(Equal(1))
			Expect(s.State()).To(Equal(peel.SnapOff))
			Expect(s.ZoneCount()).To(BeNumerically(">", 4), "crack boundary becomes a zone")
			Expect(s.TornFraction()).To(BeNumerically(">", 0))
			Expect(s.TearCount()).To(Equal(1))

			// The cosmetic delay is a fixed-step countdown back to Idle.
			stepN(s, 25)
			Expect(s.State()).To(Equal(peel.Idle))
			Expect(snapOffs).To(Equal(1), "snap-off fires exactly once")
		})

		It("publishes the tear as a transient flash that expires", func() {
			s.PointerDown(edgeGrab)
			dragUntil(s, farPull, 0.35)
			s.PointerUp(farPull)

			Expect(s.Frame().RecentTears).To(HaveLen(1))

			// flashDuration is 0.6s of simulation time.
			stepN(s, 40)
			Expect(s.Frame().RecentTears).To(BeEmpty())
		})
	})

	Describe("scenario B: an insufficient pull", func() {
		It("springs back to Idle and tears nothing", func() {
			s.PointerDown(edgeGrab)

			// A short pull: target well below the snap threshold.
			shortPull := geom.Vec{X: 0.5, Y: 0.09}
			for i := 0; i < 60; i++ {
				s.PointerMove(shortPull)
				s.Update(frameStep)
			}
			Expect(s.Frame().Progress).To(BeNumerically("<", 0.35))
			Expect(s.Frame().Progress).To(BeNumerically(">", 0.05))

			s.PointerUp(shortPull)
			Expect(s.State()).To(Equal(peel.SnapBack))
			Expect(snapOffs).To(BeZero())

			stepN(s, 300)
			Expect(s.State()).To(Equal(peel.Idle))
			Expect(s.Frame().Progress).To(BeNumerically("~", 0, 0.01))
			Expect(s.TornFraction()).To(BeZero())
			Expect(s.ZoneCount()).To(Equal(4))
		})
	})

	Describe("scenario C: reset", func() {
		It("restores fraction, zones and state", func() {
			s.PointerDown(edgeGrab)
			dragUntil(s, farPull, 0.35)
			s.PointerUp(farPull)
			Expect(s.TornFraction()).To(BeNumerically(">", 0))

			s.Reset()
			Expect(s.TornFraction()).To(BeZero())
			Expect(s.ZoneCount()).To(Equal(4))
			Expect(s.State()).To(Equal(peel.Idle))
			Expect(s.TearCount()).To(BeZero())
			Expect(s.Frame().RecentTears).To(BeEmpty())
		})
	})

	Describe("hover notifications", func() {
		It("fires on every HOVER/IDLE transition with the hit or nil", func() {
			s.PointerMove(edgeGrab)
			s.PointerMove(geom.Vec{X: 0.5, Y: 0.5})
			s.PointerMove(edgeGrab)

			Expect(hovers).To(HaveLen(3))
			Expect(hovers[0]).NotTo(BeNil())
			Expect(hovers[1]).To(BeNil())
			Expect(hovers[2]).NotTo(BeNil())
		})

		It("stays quiet while the pointer wanders far from any zone", func() {
			s.PointerMove(geom.Vec{X: 0.4, Y: 0.6})
			s.PointerMove(geom.Vec{X: 0.6, Y: 0.4})
			Expect(hovers).To(BeEmpty())
		})
	})

	Describe("fixed-timestep accumulator", func() {
		It("clamps oversized frame deltas", func() {
			s.PointerDown(edgeGrab)
			s.PointerMove(farPull)

			// A 10s hiccup (host suspended) must advance the
			// simulation no further than one MaxFrameDelta does.
			s.Update(10 * time.Second)
			p1 := s.Frame().Progress

			r := surface.New(config.Default(), testVP)
			r.PointerDown(edgeGrab)
			r.PointerMove(farPull)
			r.Update(50 * time.Millisecond)

			Expect(p1).To(Equal(r.Frame().Progress))
		})

		It("reproduces the same trajectory for the same input sequence", func() {
			run := func() []float64 {
				x := surface.New(config.Default(), testVP)
				x.PointerDown(edgeGrab)
				var trace []float64
				for i := 0; i < 30; i++ {
					x.PointerMove(farPull)
					x.Update(frameStep)
					trace = append(trace, x.Frame().Progress)
				}
				return trace
			}
			Expect(run()).To(Equal(run()))
		})
	})

	Describe("resize", func() {
		It("re-derives pixel proximity and keeps crack zones", func() {
			s.PointerDown(edgeGrab)
			dragUntil(s, farPull, 0.35)
			s.PointerUp(farPull)
			zoneCount := s.ZoneCount()
			Expect(zoneCount).To(BeNumerically(">", 4))

			s.Resize(geom.Viewport{W: 200, H: 8000})
			Expect(s.ZoneCount()).To(Equal(zoneCount), "crack zones survive resize")

			// 0.005 UV above the bottom edge is 4px on the old
			// viewport but 40px on the new one: no longer hoverable.
			stepN(s, 25) // let SnapOff finish
			s.PointerMove(geom.Vec{X: 0.5, Y: 0.005})
			Expect(s.State()).To(Equal(peel.Idle))
		})
	})

	Describe("cleared signal", func() {
		It("fires once when the fraction crosses the threshold", func() {
			cfg := config.Default()
			cfg.Mask.ClearedThreshold = 0.01

			c := surface.New(cfg, testVP)
			clears := 0
			c.OnCleared = func() { clears++ }

			c.PointerDown(edgeGrab)
			dragUntil(c, farPull, 0.35)
			c.PointerUp(farPull)

			Expect(c.TornFraction()).To(BeNumerically(">=", 0.01))
			Expect(clears).To(Equal(1))
		})
	})
})
