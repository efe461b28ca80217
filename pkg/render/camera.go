package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// Projection errors. Both are expected, frequent, per-point rejections:
// the caller decides whether a failed vertex culls the whole triangle.
var (
	// ErrPointClipped means the camera-space depth fell outside the
	// [near, far] range.
	ErrPointClipped = errors.New("point clipped by near/far plane")

	// ErrPointOutsideCanvas means the projected point fell outside the
	// visible screen window.
	ErrPointOutsideCanvas = errors.New("point outside canvas")
)

// FitGate selects how the film gate is fitted to the resolution gate when
// their aspect ratios differ.
type FitGate int

const (
	// FitFill shrinks the film gate so the canvas fits entirely inside
	// the visible raster (letterboxing, no cropping).
	FitFill FitGate = iota

	// FitOverscan grows the film gate so the raster fully covers the
	// canvas (cropping, no letterboxing).
	FitOverscan
)

// Camera models a physically based pinhole camera looking down its own
// z axis. All physical dimensions are in millimeters; the virtual canvas
// sits at the near clipping plane.
//
// Intrinsics are fixed at construction: the derived values (angles of
// view, gate aspect ratios, canvas size, screen window) are computed once
// and never per frame. Only the world-to-camera transform may change
// between frames, via SetTransform.
type Camera struct {
	worldToCamera math3d.Mat4
	imageSize     image.Point
	focalLength   float64
	aperture      math3d.Vec2
	near, far     float64
	fit           FitGate

	horizontalAOV float64
	verticalAOV   float64
	filmAspect    float64
	resAspect     float64
	canvas        math3d.Vec2
	windowMin     math3d.Vec2
	windowMax     math3d.Vec2
}

// NewCamera builds a camera from its physical parameters and derives the
// cached projection quantities.
//
// imageSize is the raster resolution in pixels, focalLength the distance
// between the pinhole and the film in mm, aperture the physical film
// dimensions in mm. Preconditions (validated here): positive resolution,
// focal length and aperture, and 0 < near < far.
func NewCamera(worldToCamera math3d.Mat4, imageSize image.Point, focalLength float64, aperture math3d.Vec2, near, far float64, fit FitGate) (*Camera, error) {
	switch {
	case imageSize.X <= 0 || imageSize.Y <= 0:
		return nil, fmt.Errorf("camera: image size %v must be positive", imageSize)
	case focalLength <= 0:
		return nil, fmt.Errorf("camera: focal length %g must be positive", focalLength)
	case aperture.X <= 0 || aperture.Y <= 0:
		return nil, fmt.Errorf("camera: aperture %v must be positive", aperture)
	case near <= 0 || near >= far:
		return nil, fmt.Errorf("camera: need 0 < near < far, got near=%g far=%g", near, far)
	}

	c := &Camera{
		worldToCamera: worldToCamera,
		imageSize:     imageSize,
		focalLength:   focalLength,
		aperture:      aperture,
		near:          near,
		far:           far,
		fit:           fit,
	}

	c.horizontalAOV = 2 * math.Atan(aperture.X/2/focalLength)
	c.verticalAOV = 2 * math.Atan(aperture.Y/2/focalLength)

	c.filmAspect = aperture.X / aperture.Y
	c.resAspect = float64(imageSize.X) / float64(imageSize.Y)

	// Fit the film gate to the resolution gate: Fill shrinks the wider
	// gate, Overscan grows the narrower one.
	sx, sy := 1.0, 1.0
	switch fit {
	case FitFill:
		if c.filmAspect > c.resAspect {
			sx = c.resAspect / c.filmAspect
		} else {
			sy = c.filmAspect / c.resAspect
		}
	case FitOverscan:
		if c.filmAspect > c.resAspect {
			sy = c.filmAspect / c.resAspect
		} else {
			sx = c.resAspect / c.filmAspect
		}
	}

	// Project the half-aperture onto the near plane (similar triangles).
	canvasHeight := aperture.Y / 2 / focalLength * near
	c.canvas = math3d.V2(canvasHeight*c.filmAspect*sx, canvasHeight*sy)

	c.windowMax = c.canvas.Scale(0.5)
	c.windowMin = c.windowMax.Negate()

	return c, nil
}

// SetTransform replaces the world-to-camera matrix. Intrinsics and the
// derived canvas are untouched; changing those requires a new camera.
func (c *Camera) SetTransform(worldToCamera math3d.Mat4) {
	c.worldToCamera = worldToCamera
}

// Transform returns the current world-to-camera matrix.
func (c *Camera) Transform() math3d.Mat4 {
	return c.worldToCamera
}

// Resolution returns the raster resolution in pixels.
func (c *Camera) Resolution() image.Point {
	return c.imageSize
}

// CanvasSize returns the canvas dimensions at the near plane.
func (c *Camera) CanvasSize() math3d.Vec2 {
	return c.canvas
}

// ScreenWindow returns the bottom-left and top-right canvas extents.
func (c *Camera) ScreenWindow() (min, max math3d.Vec2) {
	return c.windowMin, c.windowMax
}

// AngleOfView returns the horizontal and vertical angles of view in
// radians.
func (c *Camera) AngleOfView() (horizontal, vertical float64) {
	return c.horizontalAOV, c.verticalAOV
}

// ClipPlanes returns the near and far clip distances.
func (c *Camera) ClipPlanes() (near, far float64) {
	return c.near, c.far
}

// PointToScreen converts a point from world space to screen space: the
// canvas plane at the near clip distance, with the camera-space depth
// passed through in Z for later perspective correction.
//
// Returns ErrPointClipped when the camera-space depth falls outside
// [near, far].
func (c *Camera) PointToScreen(worldPoint math3d.Vec3) (math3d.Vec3, error) {
	cam := c.worldToCamera.MulPoint(worldPoint)

	if cam.Z < c.near || cam.Z > c.far {
		return math3d.Vec3{}, fmt.Errorf("%w: depth %g outside [%g, %g]", ErrPointClipped, cam.Z, c.near, c.far)
	}

	// Z-divide onto the canvas at the near plane. The negated x divisor
	// accounts for the camera looking down its own depth axis while y
	// keeps its sign.
	return math3d.V3(
		cam.X/-cam.Z*c.near,
		cam.Y/cam.Z*c.near,
		cam.Z,
	), nil
}

// ScreenToRaster converts a screen-space point to integer raster (pixel)
// coordinates with a bottom-left origin.
//
// Returns ErrPointOutsideCanvas when the point falls outside the screen
// window.
func (c *Camera) ScreenToRaster(screenPoint math3d.Vec3) (image.Point, error) {
	ndcX := screenPoint.X/c.canvas.X + 0.5
	ndcY := screenPoint.Y/c.canvas.Y + 0.5

	if ndcX < 0 || ndcX > 1 || ndcY < 0 || ndcY > 1 {
		return image.Point{}, fmt.Errorf("%w: ndc (%g, %g)", ErrPointOutsideCanvas, ndcX, ndcY)
	}

	x := int(math.Floor(ndcX * float64(c.imageSize.X)))
	y := int(math.Floor(ndcY * float64(c.imageSize.Y)))

	// The top/right canvas edge (ndc exactly 1) belongs to the last
	// pixel column/row.
	if x == c.imageSize.X {
		x = c.imageSize.X - 1
	}
	if y == c.imageSize.Y {
		y = c.imageSize.Y - 1
	}

	return image.Pt(x, y), nil
}

// PointToRaster converts a point from world space to raster space,
// propagating either projection failure unchanged.
func (c *Camera) PointToRaster(worldPoint math3d.Vec3) (image.Point, error) {
	screen, err := c.PointToScreen(worldPoint)
	if err != nil {
		return image.Point{}, err
	}
	return c.ScreenToRaster(screen)
}

// ProjectVertex projects a world-space vertex to continuous raster
// coordinates, keeping the camera-space depth in Z so the rasterizer can
// interpolate perspective-correctly. Unlike ScreenToRaster no canvas
// bounds check is applied; the rasterizer clamps its scan to the sink.
func (c *Camera) ProjectVertex(v Vertex) (Vertex, error) {
	screen, err := c.PointToScreen(v.Position)
	if err != nil {
		return Vertex{}, err
	}

	ndcX := screen.X/c.canvas.X + 0.5
	ndcY := screen.Y/c.canvas.Y + 0.5

	return Vertex{
		Position: math3d.V3(
			ndcX*float64(c.imageSize.X),
			ndcY*float64(c.imageSize.Y),
			screen.Z,
		),
		Attr: v.Attr,
	}, nil
}

// ProjectTriangle projects all three vertices of a world-space triangle
// to raster space. A depth-clipped vertex rejects the whole triangle;
// the error is propagated unchanged.
func (c *Camera) ProjectTriangle(tri Triangle) (Triangle, error) {
	v0, err := c.ProjectVertex(tri.V0)
	if err != nil {
		return Triangle{}, err
	}
	v1, err := c.ProjectVertex(tri.V1)
	if err != nil {
		return Triangle{}, err
	}
	v2, err := c.ProjectVertex(tri.V2)
	if err != nil {
		return Triangle{}, err
	}
	return Triangle{V0: v0, V1: v1, V2: v2}, nil
}
