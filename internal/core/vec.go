package core

import "math"

// IVec2 is an integer grid coordinate.
type IVec2 struct {
	X, Y int
}

// Add returns the component-wise sum.
func (v IVec2) Add(o IVec2) IVec2 { return IVec2{X: v.X + o.X, Y: v.Y + o.Y} }

// DistanceSquared returns the squared euclidean distance between two coordinates.
func (v IVec2) DistanceSquared(o IVec2) int {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return dx*dx + dy*dy
}

// Vec2 is a world-space vector. Wind vectors and world positions use it.
type Vec2 struct {
	X, Y float64
}

// Add returns the component-wise sum.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns the component-wise difference.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Scale multiplies both components by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

// Length returns the euclidean length.
func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// AngleTo returns the signed angle in radians that rotates v onto o, in
// [-pi, pi]. Zero vectors yield zero.
func (v Vec2) AngleTo(o Vec2) float64 {
	if (v.X == 0 && v.Y == 0) || (o.X == 0 && o.Y == 0) {
		return 0
	}
	cross := v.X*o.Y - v.Y*o.X
	dot := v.X*o.X + v.Y*o.Y
	return math.Atan2(cross, dot)
}

// FromPolar builds a vector from an angle in degrees (0 = +x, counter-clockwise)
// and a length.
func FromPolar(degrees, length float64) Vec2 {
	rad := degrees * math.Pi / 180
	return Vec2{X: math.Cos(rad) * length, Y: math.Sin(rad) * length}
}
