package render

import "github.com/taigrr/pinhole/pkg/math3d"

// Attributes carries the per-vertex values interpolated across a
// triangle's surface. Both operations act channel-wise, so any field
// added here interpolates for free as long as Scale and Add cover it.
type Attributes struct {
	Colour Colour
	UV     math3d.Vec2
}

// Scale multiplies every attribute channel by s.
func (a Attributes) Scale(s float64) Attributes {
	return Attributes{
		Colour: a.Colour.Scale(s),
		UV:     a.UV.Scale(s),
	}
}

// Add sums attributes channel-wise.
func (a Attributes) Add(o Attributes) Attributes {
	return Attributes{
		Colour: a.Colour.Add(o.Colour),
		UV:     a.UV.Add(o.UV),
	}
}

// Vertex is a position with its interpolated attributes. Depending on
// the pipeline stage the position is in world, camera or raster space;
// the attributes ride along unchanged until rasterization.
type Vertex struct {
	Position math3d.Vec3
	Attr     Attributes
}

// Triangle is the unit of rasterization.
type Triangle struct {
	V0, V1, V2 Vertex
}

// Transform returns a copy of the triangle with every vertex position
// multiplied through m. Attributes are untouched.
func (t Triangle) Transform(m math3d.Mat4) Triangle {
	t.V0.Position = m.MulPoint(t.V0.Position)
	t.V1.Position = m.MulPoint(t.V1.Position)
	t.V2.Position = m.MulPoint(t.V2.Position)
	return t
}

// TransformInPlace multiplies the triangle's vertex positions through m,
// mutating the receiver. Preferred in per-frame loops to avoid copies.
func (t *Triangle) TransformInPlace(m math3d.Mat4) {
	t.V0.Position = m.MulPoint(t.V0.Position)
	t.V1.Position = m.MulPoint(t.V1.Position)
	t.V2.Position = m.MulPoint(t.V2.Position)
}

// BoundingBox returns the triangle's axis-aligned bounds in the xy
// plane.
func (t Triangle) BoundingBox() (min, max math3d.Vec2) {
	p0 := t.V0.Position.XY()
	p1 := t.V1.Position.XY()
	p2 := t.V2.Position.XY()
	return p0.Min(p1).Min(p2), p0.Max(p1).Max(p2)
}
