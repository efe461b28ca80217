package math3d

import "math"

// Vec2 represents a 2D vector.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Splat2 returns a Vec2 with both components set to d.
func Splat2(d float64) Vec2 {
	return Vec2{d, d}
}

// Add returns the vector sum a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns the scalar product a * s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Div returns the scalar division a / s.
func (a Vec2) Div(s float64) Vec2 {
	return Vec2{a.X / s, a.Y / s}
}

// Dot returns the dot product a · b.
func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Cross returns the scalar (z-component) cross product of a and b.
func (a Vec2) Cross(b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Len returns the length (magnitude) of the vector.
func (a Vec2) Len() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y)
}

// Normalize returns the unit vector in the same direction.
// The caller must guarantee a nonzero length; a zero vector
// propagates IEEE NaN through the result.
func (a Vec2) Normalize() Vec2 {
	l := a.Len()
	return Vec2{a.X / l, a.Y / l}
}

// Negate returns the negated vector.
func (a Vec2) Negate() Vec2 {
	return Vec2{-a.X, -a.Y}
}

// Lerp returns the linear interpolation between a and b by t.
func (a Vec2) Lerp(b Vec2, t float64) Vec2 {
	return Vec2{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
	}
}

// Min returns the component-wise minimum.
func (a Vec2) Min(b Vec2) Vec2 {
	return Vec2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)}
}

// Max returns the component-wise maximum.
func (a Vec2) Max(b Vec2) Vec2 {
	return Vec2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)}
}
