package render

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// WindingOrder declares which vertex ordering a rasterizer treats as
// front-facing. Triangles wound the other way are culled.
type WindingOrder int

const (
	Clockwise WindingOrder = iota
	CounterClockwise
)

// Triangles whose doubled signed area is at or below this are treated as
// degenerate and skipped. Comparisons are written so NaN areas fail too.
const areaEpsilon = 1e-9

// Rasterizer fills triangles given in raster coordinates into a
// PixelSink using the incremental edge-function algorithm. The zero
// value rasterizes clockwise triangles.
//
// Pixel coverage is decided at pixel centers, with the top-left fill
// rule breaking ties on shared edges so adjacent triangles never double
// cover or leave gaps.
type Rasterizer struct {
	Winding WindingOrder
}

// edge is one directed triangle side with its precomputed per-pixel
// steps. The winding sign is folded in so inside is uniformly w >= 0.
type edge struct {
	w    float64 // biased accumulator at the current pixel
	row  float64 // biased accumulator at the start of the current column
	dwdx float64
	dwdy float64
	bias float64
}

func (r *Rasterizer) sign() float64 {
	if r.Winding == CounterClockwise {
		return -1
	}
	return 1
}

// edgeFn is the signed parallelogram area of (b-a, p-a), negated for
// counter-clockwise winding so points inside a front-facing triangle
// always evaluate non-negative.
func (r *Rasterizer) edgeFn(a, b, p math3d.Vec2) float64 {
	e := (p.X-a.X)*(b.Y-a.Y) - (p.Y-a.Y)*(b.X-a.X)
	return r.sign() * e
}

// isTopLeft reports whether the directed edge a->b is a top or left edge
// of a front-facing triangle. With a bottom-left raster origin a top
// edge is horizontal with the interior below it, and a left edge goes
// downward; which direction that is depends on the winding.
func (r *Rasterizer) isTopLeft(a, b math3d.Vec2) bool {
	if r.Winding == CounterClockwise {
		top := a.Y == b.Y && a.X > b.X
		left := a.Y > b.Y
		return top || left
	}
	top := a.Y == b.Y && a.X < b.X
	left := a.Y < b.Y
	return top || left
}

func (r *Rasterizer) edgeBias(a, b math3d.Vec2) float64 {
	if r.isTopLeft(a, b) {
		return 0
	}
	return -1
}

func (r *Rasterizer) newEdge(a, b, origin math3d.Vec2) edge {
	s := r.sign()
	bias := r.edgeBias(a, b)
	w := r.edgeFn(a, b, origin) + bias
	return edge{
		w:    w,
		row:  w,
		dwdx: s * (b.Y - a.Y),
		dwdy: s * (a.X - b.X),
		bias: bias,
	}
}

// DrawTriangle rasterizes a raster-space triangle with affine attribute
// interpolation. Cheaper than the perspective-correct variant and exact
// whenever all three vertices share the same depth.
func (r *Rasterizer) DrawTriangle(sink PixelSink, tri Triangle) {
	r.scan(sink, tri, func(l0, l1, l2 float64) (Colour, bool) {
		attr := tri.V0.Attr.Scale(l0).
			Add(tri.V1.Attr.Scale(l1)).
			Add(tri.V2.Attr.Scale(l2))
		return attr.Colour, true
	})
}

// DrawTrianglePerspective rasterizes a projected triangle with
// perspective-correct attribute interpolation. Vertex Z must hold the
// pre-projection camera-space depth; attributes are divided by it up
// front and the reciprocal depth is interpolated alongside, so each
// pixel multiplies back by its own interpolated depth.
func (r *Rasterizer) DrawTrianglePerspective(sink PixelSink, tri Triangle) {
	iz0 := 1 / tri.V0.Position.Z
	iz1 := 1 / tri.V1.Position.Z
	iz2 := 1 / tri.V2.Position.Z

	a0 := tri.V0.Attr.Scale(iz0)
	a1 := tri.V1.Attr.Scale(iz1)
	a2 := tri.V2.Attr.Scale(iz2)

	r.scan(sink, tri, func(l0, l1, l2 float64) (Colour, bool) {
		iz := l0*iz0 + l1*iz1 + l2*iz2
		if iz == 0 {
			return Colour{}, false
		}
		attr := a0.Scale(l0).Add(a1.Scale(l1)).Add(a2.Scale(l2)).Scale(1 / iz)
		return attr.Colour, true
	})
}

// scan walks the triangle's clamped bounding box column by column,
// stepping the three biased edge accumulators incrementally, and calls
// shade with the unbiased barycentric weights of each covered pixel.
func (r *Rasterizer) scan(sink PixelSink, tri Triangle, shade func(l0, l1, l2 float64) (Colour, bool)) {
	if !tri.V0.Position.IsFinite() || !tri.V1.Position.IsFinite() || !tri.V2.Position.IsFinite() {
		return
	}

	p0 := tri.V0.Position.XY()
	p1 := tri.V1.Position.XY()
	p2 := tri.V2.Position.XY()

	// Doubled signed area. Written inverted so NaN skips along with
	// degenerate and back-facing triangles.
	area := r.edgeFn(p0, p1, p2)
	if !(area > areaEpsilon) {
		return
	}

	size := sink.Size()
	bbMin, bbMax := tri.BoundingBox()
	x0 := max(int(math.Floor(bbMin.X)), 0)
	y0 := max(int(math.Floor(bbMin.Y)), 0)
	x1 := min(int(math.Ceil(bbMax.X)), size.X-1)
	y1 := min(int(math.Ceil(bbMax.Y)), size.Y-1)
	if x0 > x1 || y0 > y1 {
		return
	}

	// Evaluate the edge functions once at the first pixel center, then
	// only add deltas from here on.
	origin := math3d.V2(float64(x0)+0.5, float64(y0)+0.5)
	e0 := r.newEdge(p0, p1, origin)
	e1 := r.newEdge(p1, p2, origin)
	e2 := r.newEdge(p2, p0, origin)

	for x := x0; x <= x1; x++ {
		e0.w, e1.w, e2.w = e0.row, e1.row, e2.row

		for y := y0; y <= y1; y++ {
			if e0.w >= 0 && e1.w >= 0 && e2.w >= 0 {
				// Each vertex weighs by the edge opposite it, with the
				// fill-rule bias backed out.
				l0 := (e1.w - e1.bias) / area
				l1 := (e2.w - e2.bias) / area
				l2 := (e0.w - e0.bias) / area

				if c, ok := shade(l0, l1, l2); ok {
					// A sink refusing a pixel does not abort the scan.
					_ = sink.Write(x, y, c)
				}
			}

			e0.w += e0.dwdy
			e1.w += e1.dwdy
			e2.w += e2.dwdy
		}

		e0.row += e0.dwdx
		e1.row += e1.dwdx
		e2.row += e2.dwdx
	}
}
