package watchface

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("watchface: invalid config")

// Alignment places the digit group vertically inside the window.
type Alignment uint8

const (
	AlignTop Alignment = iota
	AlignMiddle
	AlignBottom
)

func (a Alignment) String() string {
	switch a {
	case AlignTop:
		return "top"
	case AlignMiddle:
		return "middle"
	case AlignBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// ParseAlignment accepts "top", "middle" or "bottom" (case-insensitive).
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return AlignTop, nil
	case "middle":
		return AlignMiddle, nil
	case "bottom":
		return AlignBottom, nil
	default:
		return 0, fmt.Errorf("%w: unknown alignment %q", ErrInvalidConfig, s)
	}
}

// Config holds everything that is fixed for the lifetime of a Controller.
type Config struct {
	Align           Alignment
	HourLeadingZero bool
	Font            *Font

	BackgroundColor      color.RGBA
	DigitColor           color.RGBA
	DigitBackgroundColor color.RGBA
	DigitBorderColor     color.RGBA

	// Border is the inset inside each slot and the thickness of the group's
	// top and bottom strips.
	Border     int
	SlotWidth  int
	SlotHeight int
	// TopOffset is the gap between the group and the window edge for
	// AlignTop and AlignBottom.
	TopOffset int
}

// Classic sizes the face for a 144x168 watch display.
func Classic() Config {
	return Config{
		Align:                AlignMiddle,
		HourLeadingZero:      true,
		Font:                 &DefaultFont,
		BackgroundColor:      color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff},
		DigitColor:           color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		DigitBackgroundColor: color.RGBA{R: 0x00, G: 0x00, B: 0x55, A: 0xff},
		DigitBorderColor:     color.RGBA{R: 0x55, G: 0xaa, B: 0xff, A: 0xff},
		Border:               3,
		SlotWidth:            36,
		SlotHeight:           60,
		TopOffset:            10,
	}
}

// Large sizes the face for a 320x320 panel.
func Large() Config {
	c := Classic()
	c.Border = 6
	c.SlotWidth = 80
	c.SlotHeight = 130
	c.TopOffset = 24
	return c
}

// Preset picks Large when four of its slots fit in width, Classic otherwise.
func Preset(width int) Config {
	if l := Large(); width >= SlotCount*l.SlotWidth {
		return l
	}
	return Classic()
}

// GroupHeight is the height of the digit group: one slot plus both strips.
func (c Config) GroupHeight() int { return c.SlotHeight + 2*c.Border }

// Validate checks that the font is well formed and that every slot leaves at
// least one pixel per grid cell.
func (c Config) Validate() error {
	if c.Align > AlignBottom {
		return fmt.Errorf("%w: alignment %d", ErrInvalidConfig, c.Align)
	}
	if err := c.Font.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Border < 0 || c.TopOffset < 0 {
		return fmt.Errorf("%w: negative border or offset", ErrInvalidConfig)
	}
	if c.SlotWidth-2*c.Border < Cols || c.SlotHeight-2*c.Border < Rows {
		return fmt.Errorf("%w: slot %dx%d too small for a %dx%d grid with border %d",
			ErrInvalidConfig, c.SlotWidth, c.SlotHeight, Cols, Rows, c.Border)
	}
	return nil
}

// WithSettings returns c with the colours present in s replaced.
func (c Config) WithSettings(s Settings) Config {
	for k, v := range s {
		switch k {
		case KeyBackgroundColor:
			c.BackgroundColor = v
		case KeyDigitColor:
			c.DigitColor = v
		case KeyDigitBackgroundColor:
			c.DigitBackgroundColor = v
		case KeyDigitBorderColor:
			c.DigitBorderColor = v
		}
	}
	return c
}
