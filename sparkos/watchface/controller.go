package watchface

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAlreadyLoaded = errors.New("watchface: already loaded")
	ErrNotLoaded     = errors.New("watchface: not loaded")
)

// State is the controller lifecycle state.
type State uint8

const (
	StateUninitialized State = iota
	StateRunning
	StateUnloaded
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateUnloaded:
		return "unloaded"
	default:
		return "unknown"
	}
}

// Slot is one digit position. Rect is relative to the group.
type Slot struct {
	Digit Digit
	Rect  Rect
}

// Layout positions the digit group inside bounds and the slots inside the
// group. The group spans the full width of bounds.
func Layout(cfg Config, bounds Rect) (group Rect, slots [SlotCount]Rect) {
	gh := cfg.GroupHeight()

	var y int
	switch cfg.Align {
	case AlignTop:
		y = cfg.TopOffset
	case AlignMiddle:
		y = bounds.H/2 - gh/2
	default:
		y = bounds.H - cfg.TopOffset - gh
	}

	group = Rect{X: bounds.X, Y: bounds.Y + y, W: bounds.W, H: gh}
	for i := range slots {
		slots[i] = Rect{X: i * cfg.SlotWidth, Y: cfg.Border, W: cfg.SlotWidth, H: cfg.SlotHeight}
	}
	return group, slots
}

// Controller owns the face state between ticks and paints it on request.
//
// It is not safe for concurrent use; ticks and redraws are expected from a
// single event loop.
type Controller struct {
	cfg   Config
	state State

	bounds Rect
	group  Rect
	slots  [SlotCount]Slot
	use24h bool

	dirtyWindow bool
	dirtyGroup  bool
}

// New validates cfg and returns an uninitialized controller.
func New(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{cfg: cfg}, nil
}

// Config returns the controller configuration.
func (c *Controller) Config() Config { return c.cfg }

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Load lays the face out inside bounds and computes the initial digits.
func (c *Controller) Load(bounds Rect, now time.Time, use24h bool) error {
	if c.state != StateUninitialized {
		return fmt.Errorf("load in state %s: %w", c.state, ErrAlreadyLoaded)
	}

	group, rects := Layout(c.cfg, bounds)
	c.bounds = bounds
	c.group = group
	for i := range c.slots {
		c.slots[i] = Slot{Digit: 0, Rect: rects[i]}
	}
	c.state = StateRunning
	c.dirtyWindow = true

	c.OnTick(now, use24h)
	return nil
}

// OnTick recomputes the digits for now and marks the group dirty.
// Ticks outside the running state are ignored.
func (c *Controller) OnTick(now time.Time, use24h bool) {
	if c.state != StateRunning {
		return
	}
	c.use24h = use24h
	digits := FormatTime(now, use24h, c.cfg.HourLeadingZero)
	for i := range c.slots {
		c.slots[i].Digit = digits[i]
	}
	c.dirtyGroup = true
}

// Invalidate marks the whole window dirty, as after Load.
func (c *Controller) Invalidate() {
	if c.state == StateRunning {
		c.dirtyWindow = true
	}
}

// Dirty returns the area the next OnRedraw will paint.
func (c *Controller) Dirty() (Rect, bool) {
	switch {
	case c.state != StateRunning:
		return Rect{}, false
	case c.dirtyWindow:
		return c.bounds, true
	case c.dirtyGroup:
		return c.group, true
	default:
		return Rect{}, false
	}
}

// OnRedraw paints the dirty area onto s and returns it.
func (c *Controller) OnRedraw(s Surface) (Rect, bool) {
	area, ok := c.Dirty()
	if !ok {
		return Rect{}, false
	}

	if c.dirtyWindow {
		s.FillRect(c.bounds, c.cfg.BackgroundColor)
	}

	gs := Offset(s, c.group.X, c.group.Y)
	RenderGroup(gs, Rect{W: c.group.W, H: c.group.H}, c.cfg.Border, c.cfg.DigitBackgroundColor, c.cfg.DigitBorderColor)
	for i := range c.slots {
		sl := &c.slots[i]
		ls := Offset(gs, sl.Rect.X, sl.Rect.Y)
		RenderDigit(ls, sl.Digit, c.cfg.Font, Rect{W: sl.Rect.W, H: sl.Rect.H}, c.cfg.Border, c.cfg.DigitColor)
	}

	c.dirtyWindow = false
	c.dirtyGroup = false
	return area, true
}

// Unload releases the slots. The controller ignores ticks afterwards.
func (c *Controller) Unload() error {
	if c.state != StateRunning {
		return ErrNotLoaded
	}
	c.state = StateUnloaded
	c.slots = [SlotCount]Slot{}
	c.dirtyWindow = false
	c.dirtyGroup = false
	return nil
}

// Digits returns the digits currently shown, left to right.
func (c *Controller) Digits() [SlotCount]Digit {
	var d [SlotCount]Digit
	for i := range c.slots {
		d[i] = c.slots[i].Digit
	}
	return d
}

// Slots returns the slots with rectangles relative to the group.
func (c *Controller) Slots() [SlotCount]Slot { return c.slots }

// Group returns the digit group rectangle in window coordinates.
func (c *Controller) Group() Rect { return c.group }

// Use24h reports the clock style of the last tick.
func (c *Controller) Use24h() bool { return c.use24h }
