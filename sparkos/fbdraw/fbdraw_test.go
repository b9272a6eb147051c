package fbdraw

import (
	"image/color"
	"testing"

	"github.com/idreamsi/pebble-boxyface/hal"
)

type memFB struct {
	w, h     int
	buf      []byte
	presents int
}

func newMemFB(w, h int) *memFB { return &memFB{w: w, h: h, buf: make([]byte, w*h*2)} }

func (f *memFB) Width() int              { return f.w }
func (f *memFB) Height() int             { return f.h }
func (f *memFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *memFB) StrideBytes() int        { return f.w * 2 }
func (f *memFB) Buffer() []byte          { return f.buf }
func (f *memFB) ClearRGB(r, g, b uint8)  {}
func (f *memFB) Present() error          { f.presents++; return nil }

var red = color.RGBA{R: 0xff, A: 0xff}

func TestFillClipsToFramebuffer(t *testing.T) {
	fb := newMemFB(4, 3)
	d := New(fb)
	d.Fill(-2, 1, 4, 10, red)

	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			c, ok := d.At(x, y)
			if !ok {
				t.Fatalf("At(%d,%d) ok = false", x, y)
			}
			want := x < 2 && y >= 1
			if got := c == red; got != want {
				t.Fatalf("pixel (%d,%d) red = %v, want %v", x, y, got, want)
			}
		}
	}
	if _, ok := d.At(4, 0); ok {
		t.Fatal("At(4,0) ok = true outside the framebuffer")
	}
}

func TestDisplayerInterface(t *testing.T) {
	fb := newMemFB(2, 2)
	d := New(fb)
	if w, h := d.Size(); w != 2 || h != 2 {
		t.Fatalf("Size() = %d,%d, want 2,2", w, h)
	}
	d.SetPixel(1, 1, red)
	if c, _ := d.At(1, 1); c != red {
		t.Fatalf("At(1,1) = %v, want red", c)
	}
	if err := d.Display(); err != nil || fb.presents != 1 {
		t.Fatalf("Display() = %v, presents = %d", err, fb.presents)
	}
}

func TestWriteTextStaysInLine(t *testing.T) {
	fb := newMemFB(64, 24)
	d := New(fb)
	WriteText(d, 0, 8, "12:05", red)

	lit := 0
	for y := 0; y < 24; y++ {
		for x := 0; x < 64; x++ {
			if c, _ := d.At(x, y); c == red {
				lit++
				if y < 8 || y >= 8+LineHeight() {
					t.Fatalf("text pixel at y=%d outside line [8,%d)", y, 8+LineHeight())
				}
			}
		}
	}
	if lit == 0 {
		t.Fatal("WriteText() drew nothing")
	}
	if w := TextWidth("12:05"); w <= 0 || w > 64 {
		t.Fatalf("TextWidth() = %d", w)
	}
}
