package watchface

import "image/color"

// ColorKey names a colour the phone companion may override.
type ColorKey uint8

const (
	KeyBackgroundColor ColorKey = iota + 1
	KeyDigitColor
	KeyDigitBackgroundColor
	KeyDigitBorderColor
)

// Valid reports whether k names a known colour.
func (k ColorKey) Valid() bool {
	return k >= KeyBackgroundColor && k <= KeyDigitBorderColor
}

func (k ColorKey) String() string {
	switch k {
	case KeyBackgroundColor:
		return "BACKGROUND_COLOR"
	case KeyDigitColor:
		return "DIGIT_COLOR"
	case KeyDigitBackgroundColor:
		return "DIGIT_BACKGROUND_COLOR"
	case KeyDigitBorderColor:
		return "DIGIT_BORDER_COLOR"
	default:
		return "unknown"
	}
}

// Settings are colour overrides pushed by the phone. They take effect the
// next time a Controller is loaded.
type Settings map[ColorKey]color.RGBA

// sunny maps each of the 64 palette colours (2 bits per channel) to the
// brightened value the companion colour picker shows for it.
var sunny = map[uint32]uint32{
	0x000000: 0x000000, 0x000055: 0x001e41, 0x0000aa: 0x004387, 0x0000ff: 0x0068ca,
	0x005500: 0x2b4a2c, 0x005555: 0x27514f, 0x0055aa: 0x16638d, 0x0055ff: 0x007dce,
	0x00aa00: 0x5e9860, 0x00aa55: 0x5c9b72, 0x00aaaa: 0x57a5a2, 0x00aaff: 0x4cb4db,
	0x00ff00: 0x8ee391, 0x00ff55: 0x8ee69e, 0x00ffaa: 0x8aebc0, 0x00ffff: 0x84f5f1,
	0x550000: 0x4a161b, 0x550055: 0x482748, 0x5500aa: 0x40488a, 0x5500ff: 0x2f6bcc,
	0x555500: 0x564e36, 0x555555: 0x545454, 0x5555aa: 0x4f6790, 0x5555ff: 0x4180d0,
	0x55aa00: 0x759a64, 0x55aa55: 0x759d76, 0x55aaaa: 0x71a6a4, 0x55aaff: 0x69b5dd,
	0x55ff00: 0x9ee594, 0x55ff55: 0x9de7a0, 0x55ffaa: 0x9becc2, 0x55ffff: 0x95f6f2,
	0xaa0000: 0x99353f, 0xaa0055: 0x983e5a, 0xaa00aa: 0x955694, 0xaa00ff: 0x8f74d2,
	0xaa5500: 0x9d5b4d, 0xaa5555: 0x9d6064, 0xaa55aa: 0x9a7099, 0xaa55ff: 0x9587d5,
	0xaaaa00: 0xafa072, 0xaaaa55: 0xaea382, 0xaaaaaa: 0xababab, 0xaaaaff: 0xa7bae2,
	0xaaff00: 0xc9e89d, 0xaaff55: 0xc9eaa7, 0xaaffaa: 0xc7f0c8, 0xaaffff: 0xc3f9f7,
	0xff0000: 0xe35462, 0xff0055: 0xe25874, 0xff00aa: 0xe16aa3, 0xff00ff: 0xde83dc,
	0xff5500: 0xe66e6b, 0xff5555: 0xe6727c, 0xff55aa: 0xe37fa7, 0xff55ff: 0xe194df,
	0xffaa00: 0xf1aa86, 0xffaa55: 0xf1ad93, 0xffaaaa: 0xefb5b8, 0xffaaff: 0xecc3eb,
	0xffff00: 0xffeeab, 0xffff55: 0xfff1b5, 0xffffaa: 0xfff6d3, 0xffffff: 0xffffff,
}

var unsunny = func() map[uint32]uint32 {
	m := make(map[uint32]uint32, len(sunny))
	for base, shown := range sunny {
		m[shown] = base
	}
	return m
}()

// RGB unpacks a 0xRRGGBB value.
func RGB(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// PackRGB is the inverse of RGB; alpha is dropped.
func PackRGB(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Sunny returns the companion-picker value for a palette colour.
func Sunny(c color.RGBA) (uint32, bool) {
	v, ok := sunny[PackRGB(Quantize(c))]
	return v, ok
}

// FromSunny maps a companion-picker value back to its palette colour.
// Values outside the picker table are quantized per channel; exact reports
// whether the table had the value.
func FromSunny(v uint32) (c color.RGBA, exact bool) {
	if base, ok := unsunny[v]; ok {
		return RGB(base), true
	}
	return Quantize(RGB(v)), false
}

// Quantize snaps each channel to the nearest of 0x00, 0x55, 0xaa, 0xff.
func Quantize(c color.RGBA) color.RGBA {
	q := func(v uint8) uint8 {
		return uint8((int(v) + 0x2a) / 0x55 * 0x55)
	}
	return color.RGBA{R: q(c.R), G: q(c.G), B: q(c.B), A: 0xff}
}
