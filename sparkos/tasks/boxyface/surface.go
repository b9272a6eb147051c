package boxyface

import (
	"image/color"

	"github.com/idreamsi/pebble-boxyface/sparkos/fbdraw"
	"github.com/idreamsi/pebble-boxyface/sparkos/watchface"
)

// surface paints watchface rectangles into the framebuffer.
type surface struct {
	d *fbdraw.Display
}

func (s surface) FillRect(r watchface.Rect, c color.RGBA) {
	s.d.Fill(r.X, r.Y, r.W, r.H, c)
}
