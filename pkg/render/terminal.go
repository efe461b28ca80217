package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells on the screen. Each
// terminal row packs two framebuffer rows into one upper-half-block
// rune, foreground on top and background below. The framebuffer height
// should be twice the terminal height.
//
// The framebuffer origin is bottom left while the terminal's is top
// left, so rows are walked in opposite directions.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := fb.height - 1 - row*2
		botY := topY - 1

		for col := area.Min.X; col < area.Max.X && col < fb.width; col++ {
			top, _ := fb.Read(col, topY)
			bot, _ := fb.Read(col, botY)

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(top.RGBA8()),
					Bg: cellColor(bot.RGBA8()),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// cellColor maps a pixel to a terminal cell color. Fully transparent
// pixels map to nil so the terminal's own background shows through.
func cellColor(c RGBA8) color.Color {
	if c.A == 0 {
		return nil
	}
	return c.RGBA()
}

// TerminalRenderer displays framebuffers on a terminal.
type TerminalRenderer struct {
	term   *uv.Terminal
	width  int
	height int
}

// NewTerminalRenderer wraps a terminal of the given cell size.
func NewTerminalRenderer(term *uv.Terminal, width, height int) *TerminalRenderer {
	return &TerminalRenderer{term: term, width: width, height: height}
}

// FramebufferSize returns the pixel dimensions a framebuffer should
// have to fill this terminal: one pixel per column, two per row.
func (r *TerminalRenderer) FramebufferSize() (width, height int) {
	return r.width, r.height * 2
}

// Render draws the framebuffer into the terminal's cell buffer.
func (r *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(r.term, uv.Rect(0, 0, r.width, r.height))
}

// Flush pushes the cell buffer to the terminal.
func (r *TerminalRenderer) Flush() error {
	return r.term.Display()
}
