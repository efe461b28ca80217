package render

import (
	"github.com/taigrr/pinhole/pkg/math3d"
)

// Wireframe draws line primitives from world space into a framebuffer
// through a camera. Segments with an endpoint outside the clip range or
// the canvas are dropped whole rather than clipped; for debug overlays
// that is good enough.
type Wireframe struct {
	cam *Camera
	fb  *Framebuffer
}

func NewWireframe(cam *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{cam: cam, fb: fb}
}

// DrawLine3D projects both endpoints and draws the raster segment
// between them. Reports whether the segment was drawn.
func (w *Wireframe) DrawLine3D(a, b math3d.Vec3, c Colour) bool {
	pa, err := w.cam.PointToRaster(a)
	if err != nil {
		return false
	}
	pb, err := w.cam.PointToRaster(b)
	if err != nil {
		return false
	}
	w.fb.DrawLine(pa.X, pa.Y, pb.X, pb.Y, c)
	return true
}

// DrawTriangleEdges outlines a world-space triangle.
func (w *Wireframe) DrawTriangleEdges(tri Triangle, c Colour) {
	w.DrawLine3D(tri.V0.Position, tri.V1.Position, c)
	w.DrawLine3D(tri.V1.Position, tri.V2.Position, c)
	w.DrawLine3D(tri.V2.Position, tri.V0.Position, c)
}

// DrawAxes draws the world axes from the origin, each in its
// conventional colour (x red, y green, z blue).
func (w *Wireframe) DrawAxes(length float64) {
	o := math3d.Zero3()
	w.DrawLine3D(o, math3d.V3(length, 0, 0), Red)
	w.DrawLine3D(o, math3d.V3(0, length, 0), Green)
	w.DrawLine3D(o, math3d.V3(0, 0, length), Blue)
}

// DrawGrid draws an n by n cell grid on the xz plane centered on the
// origin, cell units wide per cell.
func (w *Wireframe) DrawGrid(n int, cell float64, c Colour) {
	half := float64(n) * cell / 2
	for i := 0; i <= n; i++ {
		d := -half + float64(i)*cell
		w.DrawLine3D(math3d.V3(d, 0, -half), math3d.V3(d, 0, half), c)
		w.DrawLine3D(math3d.V3(-half, 0, d), math3d.V3(half, 0, d), c)
	}
}
