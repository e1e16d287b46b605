// Package geom provides UV-space vectors and viewport mapping for the
// peel simulation. UV coordinates are normalized to [0,1]x[0,1] with
// y=0 at the viewport bottom, so all geometry is resolution-independent.
package geom

import "math"

// Epsilon guards divisions by near-zero vector lengths.
const Epsilon = 1e-9

// Vec is a point or direction in UV space.
type Vec struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (v Vec) Add(o Vec) Vec        { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec        { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(s float64) Vec  { return Vec{v.X * s, v.Y * s} }
func (v Vec) Dot(o Vec) float64    { return v.X*o.X + v.Y*o.Y }
func (v Vec) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec) DistTo(o Vec) float64 { return v.Sub(o).Len() }

// Perp returns v rotated 90 degrees counterclockwise.
func (v Vec) Perp() Vec { return Vec{-v.Y, v.X} }

// Normalize returns the unit vector along v. A degenerate input keeps
// the caller's previous direction useful: the provided fallback is
// returned instead of propagating NaN.
func (v Vec) Normalize(fallback Vec) Vec {
	l := v.Len()
	if l < Epsilon {
		return fallback
	}
	return Vec{v.X / l, v.Y / l}
}

// Rotate returns v rotated by the given angle in radians.
func (v Vec) Rotate(angle float64) Vec {
	s, c := math.Sincos(angle)
	return Vec{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Clamp01 clamps both components into [0,1].
func (v Vec) Clamp01() Vec {
	return Vec{Clamp(v.X, 0, 1), Clamp(v.Y, 0, 1)}
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Viewport holds the physical pixel dimensions of the surface.
type Viewport struct {
	W float64
	H float64
}

// PixelDist converts the UV separation of a and b into physical pixels,
// scaling each axis independently so proximity feels the same at any
// aspect ratio.
func (vp Viewport) PixelDist(a, b Vec) float64 {
	dx := (a.X - b.X) * vp.W
	dy := (a.Y - b.Y) * vp.H
	return math.Hypot(dx, dy)
}

// FromPixels maps a physical pointer position to UV space. The vertical
// axis is inverted: raw screen y grows downward, UV y grows upward.
func (vp Viewport) FromPixels(px, py float64) Vec {
	if vp.W < Epsilon || vp.H < Epsilon {
		return Vec{}
	}
	return Vec{px / vp.W, 1 - py/vp.H}.Clamp01()
}
