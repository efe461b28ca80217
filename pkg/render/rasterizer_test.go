package render

import (
	"image"
	"math"
	"testing"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// countingSink records how often each pixel is written and with what
// colour, so fill-rule tests can assert exact coverage.
type countingSink struct {
	w, h   int
	writes map[image.Point]int
	colour map[image.Point]Colour
}

func newCountingSink(w, h int) *countingSink {
	return &countingSink{
		w: w, h: h,
		writes: make(map[image.Point]int),
		colour: make(map[image.Point]Colour),
	}
}

func (s *countingSink) Write(x, y int, c Colour) error {
	p := image.Pt(x, y)
	s.writes[p]++
	s.colour[p] = c
	return nil
}

func (s *countingSink) Read(x, y int) (Colour, error) {
	return s.colour[image.Pt(x, y)], nil
}

func (s *countingSink) Size() image.Point {
	return image.Pt(s.w, s.h)
}

// flatTriangle builds a raster-space triangle at depth z with one
// colour on all vertices.
func flatTriangle(p0, p1, p2 math3d.Vec2, z float64, c Colour) Triangle {
	attr := Attributes{Colour: c}
	return Triangle{
		V0: Vertex{Position: math3d.V3(p0.X, p0.Y, z), Attr: attr},
		V1: Vertex{Position: math3d.V3(p1.X, p1.Y, z), Attr: attr},
		V2: Vertex{Position: math3d.V3(p2.X, p2.Y, z), Attr: attr},
	}
}

func TestDrawTriangleCoverage(t *testing.T) {
	sink := newCountingSink(8, 8)
	rast := &Rasterizer{Winding: CounterClockwise}

	tri := flatTriangle(math3d.V2(0, 0), math3d.V2(4, 0), math3d.V2(0, 4), 1, Red)
	rast.DrawTriangle(sink, tri)

	if got := sink.colour[image.Pt(1, 1)]; got != Red {
		t.Errorf("pixel (1,1) = %+v, want red", got)
	}
	if n := sink.writes[image.Pt(4, 4)]; n != 0 {
		t.Errorf("pixel (4,4) written %d times, want untouched", n)
	}
}

func TestBackfaceCulled(t *testing.T) {
	tests := []struct {
		name    string
		winding WindingOrder
		drawn   bool
	}{
		{"ccw rasterizer accepts ccw", CounterClockwise, true},
		{"cw rasterizer rejects ccw", Clockwise, false},
	}

	// (0,0) -> (4,0) -> (0,4) is wound counter-clockwise.
	tri := flatTriangle(math3d.V2(0, 0), math3d.V2(4, 0), math3d.V2(0, 4), 1, White)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := newCountingSink(8, 8)
			rast := &Rasterizer{Winding: tt.winding}
			rast.DrawTriangle(sink, tri)

			if drawn := len(sink.writes) > 0; drawn != tt.drawn {
				t.Errorf("drawn = %v, want %v", drawn, tt.drawn)
			}
		})
	}
}

func TestSharedEdgePixelsDrawnExactlyOnce(t *testing.T) {
	tests := []struct {
		name   string
		first  Triangle
		second Triangle
	}{
		{
			// Quad split along the diagonal x+y = 4, which passes
			// through four pixel centers.
			name:   "diagonal edge",
			first:  flatTriangle(math3d.V2(0, 0), math3d.V2(4, 0), math3d.V2(0, 4), 1, Red),
			second: flatTriangle(math3d.V2(4, 0), math3d.V2(4, 4), math3d.V2(0, 4), 1, Green),
		},
		{
			// Two triangles meeting along the horizontal y = 2.5,
			// which runs through a row of pixel centers.
			name:   "horizontal edge",
			first:  flatTriangle(math3d.V2(0, 2.5), math3d.V2(4, 2.5), math3d.V2(2, 4.5), 1, Red),
			second: flatTriangle(math3d.V2(0, 2.5), math3d.V2(2, 0.5), math3d.V2(4, 2.5), 1, Green),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := newCountingSink(8, 8)
			rast := &Rasterizer{Winding: CounterClockwise}

			rast.DrawTriangle(sink, tt.first)
			rast.DrawTriangle(sink, tt.second)

			for p, n := range sink.writes {
				if n != 1 {
					t.Errorf("pixel %v written %d times", p, n)
				}
			}
			if len(sink.writes) == 0 {
				t.Fatal("nothing drawn")
			}
		})
	}
}

func TestBarycentricWeights(t *testing.T) {
	sink := newCountingSink(8, 8)
	rast := &Rasterizer{Winding: CounterClockwise}

	// One primary colour per vertex makes the interpolated channels
	// read back the barycentric weights directly.
	tri := Triangle{
		V0: Vertex{Position: math3d.V3(0, 0, 1), Attr: Attributes{Colour: Red}},
		V1: Vertex{Position: math3d.V3(6, 0, 1), Attr: Attributes{Colour: Green}},
		V2: Vertex{Position: math3d.V3(0, 6, 1), Attr: Attributes{Colour: Blue}},
	}
	rast.DrawTriangle(sink, tri)

	for p, c := range sink.colour {
		sum := c.R + c.G + c.B
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("pixel %v weight sum = %v, want 1", p, sum)
		}
	}

	// Pixel center (2.5, 2.5) has barycentrics (1/6, 5/12, 5/12).
	c := sink.colour[image.Pt(2, 2)]
	if math.Abs(c.R-1.0/6) > 1e-9 || math.Abs(c.G-5.0/12) > 1e-9 || math.Abs(c.B-5.0/12) > 1e-9 {
		t.Errorf("pixel (2,2) = %+v, want (1/6, 5/12, 5/12)", c)
	}
}

func TestDegenerateTrianglesDrawNothing(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name string
		tri  Triangle
	}{
		{"zero area", flatTriangle(math3d.V2(1, 1), math3d.V2(3, 3), math3d.V2(5, 5), 1, White)},
		{"coincident vertices", flatTriangle(math3d.V2(2, 2), math3d.V2(2, 2), math3d.V2(2, 2), 1, White)},
		{"nan vertex", flatTriangle(math3d.V2(0, 0), math3d.V2(4, 0), math3d.V2(nan, 4), 1, White)},
		{"infinite vertex", flatTriangle(math3d.V2(0, 0), math3d.V2(math.Inf(1), 0), math3d.V2(0, 4), 1, White)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := newCountingSink(8, 8)
			rast := &Rasterizer{Winding: CounterClockwise}
			rast.DrawTriangle(sink, tt.tri)

			if len(sink.writes) != 0 {
				t.Errorf("wrote %d pixels, want none", len(sink.writes))
			}
		})
	}
}

func TestScanClampedToSink(t *testing.T) {
	sink := newCountingSink(4, 4)
	rast := &Rasterizer{Winding: CounterClockwise}

	// Triangle far larger than the sink: every pixel covered, none
	// outside.
	tri := flatTriangle(math3d.V2(-20, -20), math3d.V2(40, -20), math3d.V2(-20, 40), 1, White)
	rast.DrawTriangle(sink, tri)

	if len(sink.writes) != 16 {
		t.Fatalf("wrote %d pixels, want 16", len(sink.writes))
	}
	for p := range sink.writes {
		if p.X < 0 || p.X >= 4 || p.Y < 0 || p.Y >= 4 {
			t.Errorf("wrote out-of-bounds pixel %v", p)
		}
	}
}

func TestPerspectiveMatchesAffineAtEqualDepth(t *testing.T) {
	affine := newCountingSink(16, 16)
	persp := newCountingSink(16, 16)
	rast := &Rasterizer{Winding: CounterClockwise}

	tri := Triangle{
		V0: Vertex{Position: math3d.V3(1, 1, 3), Attr: Attributes{Colour: Red}},
		V1: Vertex{Position: math3d.V3(14, 2, 3), Attr: Attributes{Colour: Green}},
		V2: Vertex{Position: math3d.V3(5, 13, 3), Attr: Attributes{Colour: Blue}},
	}

	rast.DrawTriangle(affine, tri)
	rast.DrawTrianglePerspective(persp, tri)

	if len(affine.writes) != len(persp.writes) {
		t.Fatalf("coverage differs: affine %d, perspective %d", len(affine.writes), len(persp.writes))
	}

	for p, ac := range affine.colour {
		pc := persp.colour[p]
		if math.Abs(ac.R-pc.R) > 1e-9 || math.Abs(ac.G-pc.G) > 1e-9 || math.Abs(ac.B-pc.B) > 1e-9 {
			t.Errorf("pixel %v differs: affine %+v, perspective %+v", p, ac, pc)
		}
	}
}

func TestPerspectiveWeightsTowardNearVertex(t *testing.T) {
	affine := newCountingSink(16, 16)
	persp := newCountingSink(16, 16)
	rast := &Rasterizer{Winding: CounterClockwise}

	// V0 is much closer than the others and fully red; with perspective
	// correction interior pixels weigh it more than affine blending.
	tri := Triangle{
		V0: Vertex{Position: math3d.V3(1, 1, 1), Attr: Attributes{Colour: Red}},
		V1: Vertex{Position: math3d.V3(14, 1, 5), Attr: Attributes{Colour: Black}},
		V2: Vertex{Position: math3d.V3(7, 14, 5), Attr: Attributes{Colour: Black}},
	}

	rast.DrawTriangle(affine, tri)
	rast.DrawTrianglePerspective(persp, tri)

	p := image.Pt(7, 6)
	ac, pc := affine.colour[p], persp.colour[p]
	if affine.writes[p] == 0 || persp.writes[p] == 0 {
		t.Fatalf("probe pixel %v not covered", p)
	}
	if pc.R <= ac.R {
		t.Errorf("perspective red %v not greater than affine red %v", pc.R, ac.R)
	}
}

func TestDrawTriangleIntoFramebuffer(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	rast := &Rasterizer{Winding: CounterClockwise}

	tri := flatTriangle(math3d.V2(0, 0), math3d.V2(8, 0), math3d.V2(0, 8), 1, Red)
	rast.DrawTriangle(fb, tri)

	got, err := fb.Read(1, 1)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.RGBA8() != (RGBA8{R: 255, A: 255}) {
		t.Errorf("pixel (1,1) = %+v, want opaque red", got)
	}

	got, err = fb.Read(7, 7)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != Blank {
		t.Errorf("pixel (7,7) = %+v, want blank", got)
	}
}

func BenchmarkDrawTriangle(b *testing.B) {
	fb := NewFramebuffer(256, 256)
	rast := &Rasterizer{Winding: CounterClockwise}
	tri := Triangle{
		V0: Vertex{Position: math3d.V3(10, 10, 2), Attr: Attributes{Colour: Red}},
		V1: Vertex{Position: math3d.V3(240, 30, 2), Attr: Attributes{Colour: Green}},
		V2: Vertex{Position: math3d.V3(120, 240, 2), Attr: Attributes{Colour: Blue}},
	}

	for b.Loop() {
		rast.DrawTriangle(fb, tri)
	}
}

func BenchmarkDrawTrianglePerspective(b *testing.B) {
	fb := NewFramebuffer(256, 256)
	rast := &Rasterizer{Winding: CounterClockwise}
	tri := Triangle{
		V0: Vertex{Position: math3d.V3(10, 10, 1), Attr: Attributes{Colour: Red}},
		V1: Vertex{Position: math3d.V3(240, 30, 4), Attr: Attributes{Colour: Green}},
		V2: Vertex{Position: math3d.V3(120, 240, 8), Attr: Attributes{Colour: Blue}},
	}

	for b.Loop() {
		rast.DrawTrianglePerspective(fb, tri)
	}
}
