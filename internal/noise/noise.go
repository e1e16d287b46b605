// Package noise provides a stateless pseudo-noise function. Crack
// generation must be reproducible for a given origin, so there is no
// RNG state anywhere: every value is a pure function of its inputs.
package noise

import "math"

// Hash2 maps two reals to [0,1). Same inputs always yield the same
// output. The constants are the widely used fractional-sine hash.
func Hash2(x, y float64) float64 {
	v := math.Sin(x*12.9898+y*78.233) * 43758.5453
	return v - math.Floor(v)
}

// Signed2 maps two reals to [-1,1).
func Signed2(x, y float64) float64 {
	return Hash2(x, y)*2 - 1
}
