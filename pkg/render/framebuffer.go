package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
)

// ErrPixelOutsideBuffer is returned by PixelSink implementations when a
// read or write coordinate falls outside [0,width)x[0,height). The
// rasterizer treats it as a per-pixel no-op.
var ErrPixelOutsideBuffer = errors.New("pixel outside buffer")

// PixelSink is the storage contract the rasterizer and wireframe painter
// depend on. The origin is the bottom-left pixel; valid coordinates are
// [0,width)x[0,height).
//
// A sink is exclusively owned by the caller driving the frame loop;
// implementations are not required to be safe for concurrent use.
type PixelSink interface {
	Write(x, y int, c Colour) error
	Read(x, y int) (Colour, error)
	Size() image.Point
}

// Framebuffer is the concrete pixel sink: a row-major RGBA8 store with a
// bottom-left origin.
type Framebuffer struct {
	width  int
	height int
	pixels []RGBA8
}

// NewFramebuffer creates a framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		pixels: make([]RGBA8, width*height),
	}
}

// Size returns the framebuffer dimensions in pixels.
func (fb *Framebuffer) Size() image.Point {
	return image.Pt(fb.width, fb.height)
}

// index maps bottom-left pixel coordinates to the row-major slice index.
func (fb *Framebuffer) index(x, y int) (int, error) {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrPixelOutsideBuffer, x, y, fb.width, fb.height)
	}
	return x + (fb.height-1-y)*fb.width, nil
}

// Write stores a colour at (x, y), converting to the byte representation.
func (fb *Framebuffer) Write(x, y int, c Colour) error {
	i, err := fb.index(x, y)
	if err != nil {
		return err
	}
	fb.pixels[i] = c.RGBA8()
	return nil
}

// Read returns the colour at (x, y).
func (fb *Framebuffer) Read(x, y int) (Colour, error) {
	i, err := fb.index(x, y)
	if err != nil {
		return Colour{}, err
	}
	return fb.pixels[i].Colour(), nil
}

// Clear fills the framebuffer with a solid colour.
func (fb *Framebuffer) Clear(c Colour) {
	px := c.RGBA8()
	for i := range fb.pixels {
		fb.pixels[i] = px
	}
}

// Scale writes the framebuffer's contents into dst, expanding each source
// pixel into a factor x factor block. dst must be at least factor times
// as large in both dimensions.
func (fb *Framebuffer) Scale(dst *Framebuffer, factor int) error {
	if dst.width < fb.width*factor || dst.height < fb.height*factor {
		return fmt.Errorf("scale: destination %dx%d too small for %dx%d at factor %d",
			dst.width, dst.height, fb.width, fb.height, factor)
	}
	for y := range fb.height {
		for x := range fb.width {
			c, err := fb.Read(x, y)
			if err != nil {
				return err
			}
			for dy := range factor {
				for dx := range factor {
					if err := dst.Write(x*factor+dx, y*factor+dy, c); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm. Out-of-bounds segments are dropped pixel by pixel.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Colour) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		_ = fb.Write(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA. The
// bottom-left origin flips to the image convention's top-left.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	for row := range fb.height {
		for x := range fb.width {
			img.SetRGBA(x, row, fb.pixels[x+row*fb.width].RGBA())
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}
