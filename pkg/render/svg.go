package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// SVGExporter writes projected wireframe geometry as an SVG document.
// It shares raster coordinates with the rest of the pipeline, flipping
// y on output since SVG puts the origin at the top left.
type SVGExporter struct {
	canvas *svg.SVG
	cam    *Camera
	height int
}

// NewSVGExporter starts an SVG document sized to the camera's raster
// resolution. Call Close to finish the document.
func NewSVGExporter(w io.Writer, cam *Camera) *SVGExporter {
	res := cam.Resolution()
	canvas := svg.New(w)
	canvas.Start(res.X, res.Y)
	return &SVGExporter{canvas: canvas, cam: cam, height: res.Y}
}

// Line projects a world-space segment and writes it as an SVG line.
// Segments with a non-projectable endpoint are dropped, matching
// Wireframe behavior.
func (e *SVGExporter) Line(a, b math3d.Vec3, c Colour) bool {
	pa, err := e.cam.PointToRaster(a)
	if err != nil {
		return false
	}
	pb, err := e.cam.PointToRaster(b)
	if err != nil {
		return false
	}

	rgba := c.RGBA8()
	style := fmt.Sprintf("stroke:rgb(%d,%d,%d);stroke-width:1", rgba.R, rgba.G, rgba.B)
	e.canvas.Line(pa.X, e.height-1-pa.Y, pb.X, e.height-1-pb.Y, style)
	return true
}

// Triangle writes the three edges of a world-space triangle.
func (e *SVGExporter) Triangle(tri Triangle, c Colour) {
	e.Line(tri.V0.Position, tri.V1.Position, c)
	e.Line(tri.V1.Position, tri.V2.Position, c)
	e.Line(tri.V2.Position, tri.V0.Position, c)
}

// Close ends the SVG document. The exporter must not be used after.
func (e *SVGExporter) Close() {
	e.canvas.End()
}
