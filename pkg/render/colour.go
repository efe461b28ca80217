// Package render implements the software pinhole rendering pipeline:
// camera projection, triangle rasterization, and the framebuffer the
// rasterizer writes into.
package render

import (
	"image/color"
	"math"
)

// Colour is an RGBA colour with normalized [0,1] float channels. This is
// the interpolation representation: Scale and Add are unsaturated so that
// barycentric weighting stays linear.
type Colour struct {
	R, G, B, A float64
}

// Scale returns the colour with every channel multiplied by s.
func (c Colour) Scale(s float64) Colour {
	return Colour{c.R * s, c.G * s, c.B * s, c.A * s}
}

// Add returns the channel-wise sum. No clamping is applied; convert to
// RGBA8 to saturate.
func (c Colour) Add(o Colour) Colour {
	return Colour{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

// RGBA8 converts to the byte representation, clamping each channel to
// [0,255].
func (c Colour) RGBA8() RGBA8 {
	return RGBA8{
		R: channelToByte(c.R),
		G: channelToByte(c.G),
		B: channelToByte(c.B),
		A: channelToByte(c.A),
	}
}

// RGBA8 is the byte representation of a colour, one octet per channel.
// This is the storage form at the pixel-sink boundary.
type RGBA8 struct {
	R, G, B, A uint8
}

// Add returns the channel-wise sum, saturating at 255.
func (c RGBA8) Add(o RGBA8) RGBA8 {
	return RGBA8{
		R: saturatingAdd(c.R, o.R),
		G: saturatingAdd(c.G, o.G),
		B: saturatingAdd(c.B, o.B),
		A: saturatingAdd(c.A, o.A),
	}
}

// Colour converts back to the normalized float representation.
func (c RGBA8) Colour() Colour {
	return Colour{
		R: byteToChannel(c.R),
		G: byteToChannel(c.G),
		B: byteToChannel(c.B),
		A: byteToChannel(c.A),
	}
}

// RGBA converts to the standard library's 8-bit colour type.
func (c RGBA8) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// channelToByte converts a normalized [0,1] channel to a byte [0,255],
// clamping out-of-range input.
func channelToByte(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// byteToChannel converts a byte channel [0,255] to normalized [0,1].
func byteToChannel(b uint8) float64 {
	return float64(b) / 255.0
}

func saturatingAdd(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

// Named colours used by the demo scene and tests.
var (
	Blank = Colour{0, 0, 0, 0}
	Black = Colour{0, 0, 0, 1}
	White = Colour{1, 1, 1, 1}
	Red   = Colour{1, 0, 0, 1}
	Green = Colour{0, 1, 0, 1}
	Blue  = Colour{0, 0, 1, 1}
)
