package watchface

import (
	"errors"
	"testing"
	"time"
)

var classicBounds = Rect{W: 144, H: 168}

func at(h, m int) time.Time {
	return time.Date(2026, 10, 16, h, m, 0, 0, time.UTC)
}

func TestLayoutAlignment(t *testing.T) {
	cfg := Classic()
	gh := cfg.GroupHeight()
	tests := []struct {
		align Alignment
		wantY int
	}{
		{AlignTop, cfg.TopOffset},
		{AlignMiddle, 168/2 - gh/2},
		{AlignBottom, 168 - cfg.TopOffset - gh},
	}
	for _, tt := range tests {
		cfg.Align = tt.align
		group, slots := Layout(cfg, classicBounds)
		if group.Y != tt.wantY || group.W != 144 || group.H != gh {
			t.Fatalf("Layout(%s) group = %v, want y=%d w=144 h=%d", tt.align, group, tt.wantY, gh)
		}
		for i, s := range slots {
			want := Rect{X: i * cfg.SlotWidth, Y: cfg.Border, W: cfg.SlotWidth, H: cfg.SlotHeight}
			if s != want {
				t.Fatalf("Layout(%s) slot %d = %v, want %v", tt.align, i, s, want)
			}
		}
	}
}

func TestControllerLifecycle(t *testing.T) {
	cfg := Classic()
	cfg.HourLeadingZero = false
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.State() != StateUninitialized {
		t.Fatalf("State() = %s, want uninitialized", c.State())
	}

	c.OnTick(at(9, 0), true)
	if _, ok := c.Dirty(); ok {
		t.Fatal("tick before Load marked the face dirty")
	}

	if err := c.Load(classicBounds, at(13, 5), false); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := c.Load(classicBounds, at(13, 5), false); !errors.Is(err, ErrAlreadyLoaded) {
		t.Fatalf("second Load = %v, want ErrAlreadyLoaded", err)
	}
	if got, want := c.Digits(), [SlotCount]Digit{Blank, 1, 0, 5}; got != want {
		t.Fatalf("Digits() = %v, want %v", got, want)
	}

	area, ok := c.Dirty()
	if !ok || area != classicBounds {
		t.Fatalf("Dirty() after Load = %v, %v; want window", area, ok)
	}

	var s recordSurface
	if area, ok := c.OnRedraw(&s); !ok || area != classicBounds {
		t.Fatalf("OnRedraw() = %v, %v; want window", area, ok)
	}
	if s.fills[0].r != classicBounds || s.fills[0].c != cfg.BackgroundColor {
		t.Fatalf("first fill = %v, want window background", s.fills[0])
	}
	// window + group + 2 strips + cells of 1, 0, 5.
	want := 4 + DefaultFont.Count(1) + DefaultFont.Count(0) + DefaultFont.Count(5)
	if len(s.fills) != want {
		t.Fatalf("OnRedraw() = %d fills, want %d", len(s.fills), want)
	}

	if _, ok := c.OnRedraw(&s); ok {
		t.Fatal("OnRedraw() without a tick painted again")
	}

	c.OnTick(at(22, 48), true)
	area, ok = c.Dirty()
	if !ok || area != c.Group() {
		t.Fatalf("Dirty() after tick = %v, %v; want group %v", area, ok, c.Group())
	}
	s.fills = nil
	c.OnRedraw(&s)
	if s.fills[0].r != c.Group() {
		t.Fatalf("tick redraw starts at %v, want group %v", s.fills[0].r, c.Group())
	}
	for _, f := range s.fills {
		if !c.Group().Contains(f.r) {
			t.Fatalf("tick redraw fill %v outside group %v", f.r, c.Group())
		}
	}
	if got, want := c.Digits(), [SlotCount]Digit{2, 2, 4, 8}; got != want {
		t.Fatalf("Digits() = %v, want %v", got, want)
	}

	if err := c.Unload(); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	if err := c.Unload(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("second Unload = %v, want ErrNotLoaded", err)
	}
	c.OnTick(at(1, 1), true)
	if _, ok := c.Dirty(); ok {
		t.Fatal("tick after Unload marked the face dirty")
	}
}

func TestControllerSlotsPaintInsideWindow(t *testing.T) {
	for _, align := range []Alignment{AlignTop, AlignMiddle, AlignBottom} {
		cfg := Large()
		cfg.Align = align
		c, err := New(cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		bounds := Rect{W: 320, H: 320}
		if err := c.Load(bounds, at(18, 28), true); err != nil {
			t.Fatalf("Load: %v", err)
		}
		var s recordSurface
		c.OnRedraw(&s)
		for _, f := range s.fills {
			if !bounds.Contains(f.r) {
				t.Fatalf("%s: fill %v outside window", align, f.r)
			}
		}
	}
}

func TestNewRejectsTinySlots(t *testing.T) {
	cfg := Classic()
	cfg.SlotWidth = 2*cfg.Border + Cols - 1
	if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("New() = %v, want ErrInvalidConfig", err)
	}
}

func TestWithSettings(t *testing.T) {
	cfg := Classic().WithSettings(Settings{
		KeyDigitColor:       RGB(0xff0000),
		KeyDigitBorderColor: RGB(0x00ff00),
	})
	if cfg.DigitColor != RGB(0xff0000) || cfg.DigitBorderColor != RGB(0x00ff00) {
		t.Fatalf("WithSettings() colours = %v, %v", cfg.DigitColor, cfg.DigitBorderColor)
	}
	if cfg.BackgroundColor != Classic().BackgroundColor {
		t.Fatal("WithSettings() changed an unset colour")
	}
}

func TestParseAlignment(t *testing.T) {
	for _, a := range []Alignment{AlignTop, AlignMiddle, AlignBottom} {
		got, err := ParseAlignment(a.String())
		if err != nil || got != a {
			t.Fatalf("ParseAlignment(%q) = %v, %v", a.String(), got, err)
		}
	}
	if got, err := ParseAlignment(" Bottom "); err != nil || got != AlignBottom {
		t.Fatalf("ParseAlignment(\" Bottom \") = %v, %v, want bottom", got, err)
	}
	for _, s := range []string{"sideways", "center", ""} {
		if _, err := ParseAlignment(s); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("ParseAlignment(%q) = %v, want ErrInvalidConfig", s, err)
		}
	}
}

func TestPreset(t *testing.T) {
	if got := Preset(144); got.SlotWidth != Classic().SlotWidth {
		t.Fatalf("Preset(144).SlotWidth = %d, want classic", got.SlotWidth)
	}
	if got := Preset(320); got.SlotWidth != Large().SlotWidth {
		t.Fatalf("Preset(320).SlotWidth = %d, want large", got.SlotWidth)
	}
}

func TestControllerInvalidate(t *testing.T) {
	c, err := New(Classic())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Invalidate()
	if _, ok := c.Dirty(); ok {
		t.Fatal("Invalidate before Load marked the face dirty")
	}

	if err := c.Load(classicBounds, at(7, 30), true); err != nil {
		t.Fatalf("Load: %v", err)
	}
	var s recordSurface
	c.OnRedraw(&s)

	c.Invalidate()
	if area, ok := c.Dirty(); !ok || area != classicBounds {
		t.Fatalf("Dirty() after Invalidate = %v, %v; want window", area, ok)
	}
}
