// Package mask records the permanently removed surface area as a 2D
// field over UV space plus a monotonic torn-fraction counter. The
// simulation only writes; the renderer samples the field read-only.
package mask

import (
	"peelsim/internal/config"
	"peelsim/internal/geom"
)

// Mask is the tear record. Cell value 1 means intact, 0 removed.
// Filling is additive and idempotent: cells are never un-removed
// except by Reset.
type Mask struct {
	cfg      config.MaskConfig
	res      int
	cells    []uint8
	fraction float64
	cleared  bool

	// OnCleared fires once when the torn fraction crosses the cleared
	// threshold. Reset re-arms it.
	OnCleared func()
}

func New(cfg config.MaskConfig) *Mask {
	m := &Mask{cfg: cfg, res: cfg.Resolution}
	m.cells = make([]uint8, m.res*m.res)
	m.Reset()
	return m
}

// Resolution returns the field's cells-per-axis.
func (m *Mask) Resolution() int { return m.res }

// At reports the cell value at grid coordinates, 1 intact / 0 removed.
// Out-of-range coordinates read as intact.
func (m *Mask) At(ix, iy int) uint8 {
	if ix < 0 || iy < 0 || ix >= m.res || iy >= m.res {
		return 1
	}
	return m.cells[iy*m.res+ix]
}

// Sample reads the field at a UV position.
func (m *Mask) Sample(u geom.Vec) uint8 {
	u = u.Clamp01()
	ix := int(u.X * float64(m.res))
	iy := int(u.Y * float64(m.res))
	if ix == m.res {
		ix--
	}
	if iy == m.res {
		iy--
	}
	return m.At(ix, iy)
}

// TornFraction returns the accumulated removed-area estimate in [0,1].
func (m *Mask) TornFraction() float64 { return m.fraction }

// Reset restores the field to fully intact and the fraction to zero.
func (m *Mask) Reset() {
	for i := range m.cells {
		m.cells[i] = 1
	}
	m.fraction = 0
	m.cleared = false
}

// FillPolygon rasterizes a closed UV polygon, marks covered cells
// removed, and credits the tear's area estimate to the torn fraction.
// Winding does not matter; coverage uses the even-odd rule with one
// sample per cell center.
func (m *Mask) FillPolygon(poly []geom.Vec) {
	if len(poly) < 3 {
		return
	}

	m.rasterize(poly)

	var area float64
	if m.cfg.ExactArea {
		area = ShoelaceArea(poly)
	} else {
		area = BBoxArea(poly) * m.cfg.AreaFactor
	}

	m.fraction = geom.Clamp(m.fraction+area, 0, 1)
	if !m.cleared && m.fraction >= m.cfg.ClearedThreshold {
		m.cleared = true
		if m.OnCleared != nil {
			m.OnCleared()
		}
	}
}

// rasterize scanlines the polygon: for each row of cell centers it
// collects the x-intercepts of the polygon edges, sorts them, and
// removes the cells between alternating pairs.
func (m *Mask) rasterize(poly []geom.Vec) {
	minY, maxY := poly[0].Y, poly[0].Y
	for _, p := range poly[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	iy0 := int(minY * float64(m.res))
	iy1 := int(maxY * float64(m.res))
	if iy0 < 0 {
		iy0 = 0
	}
	if iy1 >= m.res {
		iy1 = m.res - 1
	}

	xs := make([]float64, 0, 8)
	for iy := iy0; iy <= iy1; iy++ {
		cy := (float64(iy) + 0.5) / float64(m.res)

		xs = xs[:0]
		for i := 0; i < len(poly); i++ {
			a := poly[i]
			b := poly[(i+1)%len(poly)]
			if (a.Y <= cy) == (b.Y <= cy) {
				continue
			}
			t := (cy - a.Y) / (b.Y - a.Y)
			xs = append(xs, a.X+t*(b.X-a.X))
		}
		if len(xs) < 2 {
			continue
		}
		insertionSort(xs)

		for k := 0; k+1 < len(xs); k += 2 {
			ix0 := int(xs[k]*float64(m.res) + 0.5)
			ix1 := int(xs[k+1]*float64(m.res) - 0.5)
			if ix0 < 0 {
				ix0 = 0
			}
			if ix1 >= m.res {
				ix1 = m.res - 1
			}
			for ix := ix0; ix <= ix1; ix++ {
				m.cells[iy*m.res+ix] = 0
			}
		}
	}
}

// insertionSort keeps the hot path allocation-free; intercept lists
// are tiny (almost always 2, occasionally 4-6 on jagged rows).
func insertionSort(xs []float64) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}
