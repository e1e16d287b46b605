package mask

import (
	"math"

	"peelsim/internal/geom"
)

// Viewport corners in counterclockwise order.
var corners = [4]geom.Vec{
	{X: 0, Y: 0},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
}

// CloseAgainstViewport turns a crack path into a closed polygon by
// appending the viewport corner(s) between the corner nearest the
// path's terminal point and the corner nearest its origin. Of the two
// ways around the boundary it walks the one with fewer corners, so
// the tear removes the smaller region adjoining the crack.
func CloseAgainstViewport(path []geom.Vec) []geom.Vec {
	if len(path) < 2 {
		return nil
	}

	poly := make([]geom.Vec, len(path), len(path)+4)
	copy(poly, path)

	cEnd := nearestCorner(path[len(path)-1])
	cStart := nearestCorner(path[0])

	forward := (cStart - cEnd + 4) % 4
	backward := (cEnd - cStart + 4) % 4

	step := 1
	steps := forward
	if backward < forward {
		step = -1
		steps = backward
	}

	for i, c := 0, cEnd; i <= steps; i++ {
		poly = append(poly, corners[c])
		c = (c + step + 4) % 4
	}
	return poly
}

func nearestCorner(p geom.Vec) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range corners {
		if d := p.DistTo(c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// ShoelaceArea returns the exact area of a closed polygon.
func ShoelaceArea(poly []geom.Vec) float64 {
	if len(poly) < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < len(poly); i++ {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) / 2
}

// BBoxArea returns the area of the polygon's bounding box, the cheap
// torn-fraction proxy used when exact_area is off.
func BBoxArea(poly []geom.Vec) float64 {
	if len(poly) == 0 {
		return 0
	}
	minX, maxX := poly[0].X, poly[0].X
	minY, maxY := poly[0].Y, poly[0].Y
	for _, p := range poly[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return (maxX - minX) * (maxY - minY)
}
