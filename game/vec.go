package game

import "math"

// Vec2 is a 2D vector with float32 components.
type Vec2 struct {
	X float32 `msgpack:"x"`
	Y float32 `msgpack:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) Len() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Normalize returns the unit vector in v's direction, or the zero vector
// when v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Mix returns v*(1-t) + o*t, the blend used by velocity smoothing.
func (v Vec2) Mix(o Vec2, t float32) Vec2 {
	return v.Scale(1 - t).Add(o.Scale(t))
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
