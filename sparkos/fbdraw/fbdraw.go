// Package fbdraw draws into RGB565 hal framebuffers: filled rectangles and
// tinyfont text.
package fbdraw

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/idreamsi/pebble-boxyface/hal"
)

// Font is the system text font.
var Font tinyfont.Fonter = &proggy.TinySZ8pt7b

// Display adapts a hal.Framebuffer to drivers.Displayer. Drawing outside the
// framebuffer is clipped. Non-RGB565 framebuffers are ignored.
type Display struct {
	fb hal.Framebuffer
}

var _ drivers.Displayer = (*Display)(nil)

func New(fb hal.Framebuffer) *Display {
	return &Display{fb: fb}
}

func (d *Display) ok() bool {
	return d.fb != nil && d.fb.Format() == hal.PixelFormatRGB565 && d.fb.Buffer() != nil
}

func (d *Display) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *Display) SetPixel(x, y int16, c color.RGBA) {
	d.Fill(int(x), int(y), 1, 1, c)
}

// Display presents the whole framebuffer.
func (d *Display) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *Display) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	d.Fill(int(x), int(y), int(width), int(height), c)
	return nil
}

func (d *Display) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

// Fill paints the rectangle (x, y, w, h) with c.
func (d *Display) Fill(x, y, w, h int, c color.RGBA) {
	if !d.ok() {
		return
	}
	buf := d.fb.Buffer()
	fw, fh := d.fb.Width(), d.fb.Height()

	x0 := clampInt(x, 0, fw)
	y0 := clampInt(y, 0, fh)
	x1 := clampInt(x+w, 0, fw)
	y1 := clampInt(y+h, 0, fh)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	pixel := hal.RGB565(c.R, c.G, c.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)

	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off+1 >= len(buf) {
				break
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
}

// At returns the colour stored at (x, y), expanded from RGB565.
func (d *Display) At(x, y int) (color.RGBA, bool) {
	if !d.ok() || x < 0 || y < 0 || x >= d.fb.Width() || y >= d.fb.Height() {
		return color.RGBA{}, false
	}
	buf := d.fb.Buffer()
	off := y*d.fb.StrideBytes() + x*2
	if off+1 >= len(buf) {
		return color.RGBA{}, false
	}
	r, g, b := hal.RGB888(uint16(buf[off]) | uint16(buf[off+1])<<8)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, true
}

// LineHeight is the vertical advance of Font.
func LineHeight() int {
	return int(Font.GetYAdvance())
}

// TextWidth is the advance of s in Font.
func TextWidth(s string) int {
	_, w := tinyfont.LineWidth(Font, s)
	return int(w)
}

// WriteText draws s with the top of its tallest glyph at y.
func WriteText(d *Display, x, y int, s string, c color.RGBA) {
	tinyfont.WriteLine(d, Font, int16(x), int16(y+ascent(s)), s, c)
}

// ascent is the distance from the top of the tallest glyph of s to the baseline.
func ascent(s string) int {
	a := 0
	for _, r := range s {
		info := Font.GetGlyph(r).Info()
		if up := -int(info.YOffset); up > a {
			a = up
		}
	}
	return a
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
