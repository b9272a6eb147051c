package hal

import (
	"errors"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// ErrQuit is returned by an app step to stop the host runner cleanly.
var ErrQuit = errors.New("quit")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb, stored little-endian.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Time provides a base tick stream.
//
// One tick is one millisecond of (possibly simulated) time.
type Time interface {
	Ticks() <-chan uint64
}

// Clock is the wall clock together with the user's clock style.
type Clock interface {
	Now() time.Time
	Use24h() bool
}

// HAL provides the only contact point between the OS and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Time() Time
	Clock() Clock
}

// App is what the host runners drive: one Step per frame, focus changes and
// an orderly stop.
type App interface {
	// Step returns ErrQuit once the app has exited on its own.
	Step() error
	SetActive(active bool) error
	// Shutdown asks the app to stop. The channel is closed once it has.
	Shutdown() (<-chan struct{}, error)
}

// RectPresenter is implemented by framebuffers that can push a sub-rectangle
// to the panel instead of the whole buffer.
type RectPresenter interface {
	PresentRect(x, y, w, h int) error
}

// PresentRect presents the region (x, y, w, h) of fb, falling back to a full
// Present when fb cannot update partially.
func PresentRect(fb Framebuffer, x, y, w, h int) error {
	if rp, ok := fb.(RectPresenter); ok {
		return rp.PresentRect(x, y, w, h)
	}
	return fb.Present()
}

// clipRect intersects (x, y, w, h) with (0, 0, maxW, maxH).
func clipRect(x, y, w, h, maxW, maxH int) (int, int, int, int, bool) {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > maxW {
		w = maxW - x
	}
	if y+h > maxH {
		h = maxH - y
	}
	if w <= 0 || h <= 0 {
		return 0, 0, 0, 0, false
	}
	return x, y, w, h, true
}
