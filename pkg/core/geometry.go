// pkg/core/geometry.go
package core

import "math"

// Point is a position or a displacement on the 2D game map.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Scale returns p multiplied by k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Length treats p as a vector and returns its length.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Normalized returns the unit vector in the direction of p.
// The zero vector normalizes to itself.
func (p Point) Normalized() Point {
	l := p.Length()
	if l == 0 {
		return Point{}
	}
	return Point{X: p.X / l, Y: p.Y / l}
}

// DistanceTo2 returns the squared distance between p and o.
func (p Point) DistanceTo2(o Point) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return dx*dx + dy*dy
}

// DistanceTo returns the distance between p and o.
func (p Point) DistanceTo(o Point) float64 {
	return math.Sqrt(p.DistanceTo2(o))
}

// RotateCounterClockwise rotates p about center by angle radians.
func (p Point) RotateCounterClockwise(angle float64, center Point) Point {
	sin, cos := math.Sincos(angle)
	dx := p.X - center.X
	dy := p.Y - center.Y
	return Point{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}
