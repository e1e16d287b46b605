package viz

import "github.com/charmbracelet/harmonica"

// gauge smooths the displayed torn fraction with a spring so the
// number glides instead of jumping on each tear. Presentation only;
// the simulation's own fraction stays exact.
type gauge struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

func newGauge(fps int) *gauge {
	return &gauge{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.8)}
}

func (g *gauge) step(target float64) float64 {
	g.pos, g.vel = g.spring.Update(g.pos, g.vel, target)
	return g.pos
}

func (g *gauge) reset() {
	g.pos = 0
	g.vel = 0
}
