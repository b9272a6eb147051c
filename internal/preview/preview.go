// Package preview renders the watchface to an image for screenshots and
// design review without a device or window.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/idreamsi/pebble-boxyface/sparkos/watchface"
)

// ErrBadColor is returned by ParseColor.
var ErrBadColor = errors.New("preview: bad colour")

// Options describe one rendered frame.
type Options struct {
	Face   watchface.Config
	Width  int
	Height int
	Time   time.Time
	Use24h bool
	// Scale is the integer zoom applied after rendering. Values below 1
	// render at native size.
	Scale int
}

// Render paints the face for opts.Time onto a new image.
func Render(opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("preview: bad size %dx%d", opts.Width, opts.Height)
	}
	face, err := watchface.New(opts.Face)
	if err != nil {
		return nil, err
	}
	bounds := watchface.Rect{W: opts.Width, H: opts.Height}
	if err := face.Load(bounds, opts.Time, opts.Use24h); err != nil {
		return nil, err
	}
	defer face.Unload()

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	face.OnRedraw(imageSurface{img: img})

	if opts.Scale <= 1 {
		return img, nil
	}
	big := image.NewRGBA(image.Rect(0, 0, opts.Width*opts.Scale, opts.Height*opts.Scale))
	xdraw.NearestNeighbor.Scale(big, big.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return big, nil
}

// WritePNG encodes img to w.
func WritePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}

type imageSurface struct {
	img *image.RGBA
}

func (s imageSurface) FillRect(r watchface.Rect, c color.RGBA) {
	rect := image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
	xdraw.Draw(s.img, rect, image.NewUniform(c), image.Point{}, xdraw.Src)
}

// ParseColor accepts "#rrggbb", "0xrrggbb" or "rrggbb".
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return watchface.RGB(uint32(v)), nil
}

// ParseTime accepts RFC3339 or a bare 15:04 on the date of now.
func ParseTime(s string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	hm, err := time.ParseInLocation("15:04", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: want RFC3339 or 15:04", s)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, now.Location()), nil
}

// PresetSize returns the face preset by name together with the display it
// was sized for. "auto" is the same as "classic".
func PresetSize(name string) (watchface.Config, int, int, error) {
	switch strings.ToLower(name) {
	case "", "auto", "classic":
		return watchface.Classic(), 144, 168, nil
	case "large":
		return watchface.Large(), 320, 320, nil
	default:
		return watchface.Config{}, 0, 0, fmt.Errorf("preview: unknown preset %q", name)
	}
}
