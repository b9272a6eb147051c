package boxyface

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/idreamsi/pebble-boxyface/hal"
	logclient "github.com/idreamsi/pebble-boxyface/sparkos/client/logger"
	timeclient "github.com/idreamsi/pebble-boxyface/sparkos/client/time"
	"github.com/idreamsi/pebble-boxyface/sparkos/fbdraw"
	"github.com/idreamsi/pebble-boxyface/sparkos/kernel"
	"github.com/idreamsi/pebble-boxyface/sparkos/proto"
	"github.com/idreamsi/pebble-boxyface/sparkos/watchface"
)

// Config selects the face and the optional date line.
type Config struct {
	Face watchface.Config
	// ShowDate draws the date next to the digit group when there is room.
	ShowDate bool
}

// Task runs the watchface: it follows minute ticks from the time service,
// applies colour settings and presents the dirty area of each frame.
type Task struct {
	disp    hal.Display
	ep      kernel.Capability
	timeCap kernel.Capability
	logCap  kernel.Capability
	cfg     Config

	fb       hal.Framebuffer
	d        *fbdraw.Display
	face     *watchface.Controller
	time     *timeclient.Client
	settings watchface.Settings
	last     timeclient.Tick
	active   bool

	done chan struct{}
}

// New returns a task that receives on ep. ep needs both rights: the task
// receives on it and hands its send right to the time service.
func New(disp hal.Display, ep, timeCap, logCap kernel.Capability, cfg Config) *Task {
	return &Task{
		disp:     disp,
		ep:       ep,
		timeCap:  timeCap,
		logCap:   logCap,
		cfg:      cfg,
		settings: make(watchface.Settings),
		active:   true,
		done:     make(chan struct{}),
	}
}

// Done is closed when Run returns.
func (t *Task) Done() <-chan struct{} { return t.done }

func (t *Task) Run(ctx *kernel.Context) {
	defer close(t.done)

	ch, ok := ctx.RecvChan(t.ep.Restrict(kernel.RightRecv))
	if !ok {
		return
	}
	if err := t.start(ctx); err != nil {
		t.logf(ctx, "boxyface: %v", err)
		return
	}

	for msg := range ch {
		switch proto.Kind(msg.Kind) {
		case proto.MsgTick:
			tick, ok := timeclient.DecodeTick(msg)
			if !ok {
				continue
			}
			t.onTick(tick)

		case proto.MsgSettings:
			settings, ok := proto.DecodeSettingsPayload(msg.Payload())
			if !ok {
				t.logf(ctx, "boxyface: bad settings payload (%d bytes)", msg.Len)
				continue
			}
			if err := t.applySettings(settings); err != nil {
				t.logf(ctx, "boxyface: settings: %v", err)
				continue
			}
			t.logf(ctx, "boxyface: applied %d settings", len(settings))

		case proto.MsgAppControl:
			active, ok := proto.DecodeAppControlPayload(msg.Payload())
			if !ok {
				continue
			}
			t.setActive(active)

		case proto.MsgAppShutdown:
			t.shutdown(ctx)
			return

		case proto.MsgError:
			code, ref, _, ok := proto.DecodeErrorPayload(msg.Payload())
			if ok {
				t.logf(ctx, "boxyface: %s failed: %s", ref, code)
			}
		}
	}
}

func (t *Task) start(ctx *kernel.Context) error {
	if t.disp == nil {
		return errors.New("no display")
	}
	t.fb = t.disp.Framebuffer()
	if t.fb == nil {
		return errors.New("no framebuffer")
	}
	if t.fb.Format() != hal.PixelFormatRGB565 {
		return fmt.Errorf("unsupported pixel format %d", t.fb.Format())
	}
	t.d = fbdraw.New(t.fb)

	// The service handles requests in order, so the Now reply also confirms
	// the subscription.
	t.time = timeclient.New(t.timeCap)
	if err := t.time.Subscribe(ctx, t.ep.Restrict(kernel.RightSend), proto.UnitMinute); err != nil {
		return err
	}
	now, err := t.time.Now(ctx)
	if err != nil {
		return err
	}
	t.last = now

	face, err := t.load(t.cfg.Face)
	if err != nil {
		return err
	}
	t.face = face
	t.redraw(true)

	t.logf(ctx, "boxyface: loaded %dx%d align=%s at %s",
		t.fb.Width(), t.fb.Height(), t.cfg.Face.Align, now.Time.Format("15:04"))
	return nil
}

func (t *Task) load(cfg watchface.Config) (*watchface.Controller, error) {
	face, err := watchface.New(cfg)
	if err != nil {
		return nil, err
	}
	bounds := watchface.Rect{W: t.fb.Width(), H: t.fb.Height()}
	if err := face.Load(bounds, t.last.Time, t.last.Use24h); err != nil {
		return nil, err
	}
	return face, nil
}

func (t *Task) onTick(tick timeclient.Tick) {
	t.last = tick
	t.face.OnTick(tick.Time, tick.Use24h)
	t.redraw(tick.Changed.Has(proto.UnitDay))
}

// applySettings swaps in a controller built from the merged settings. The
// running controller is left untouched if the new one cannot load.
func (t *Task) applySettings(settings []proto.Setting) error {
	merged := make(watchface.Settings, len(t.settings)+len(settings))
	for k, v := range t.settings {
		merged[k] = v
	}
	for _, s := range settings {
		key, ok := colorKey(s.Key)
		if !ok {
			continue
		}
		merged[key] = watchface.RGB(s.Value)
	}

	face, err := t.load(t.cfg.Face.WithSettings(merged))
	if err != nil {
		return err
	}
	_ = t.face.Unload()
	t.face = face
	t.settings = merged
	t.redraw(true)
	return nil
}

func colorKey(k proto.SettingKey) (watchface.ColorKey, bool) {
	switch k {
	case proto.SettingBackgroundColor:
		return watchface.KeyBackgroundColor, true
	case proto.SettingDigitColor:
		return watchface.KeyDigitColor, true
	case proto.SettingDigitBackgroundColor:
		return watchface.KeyDigitBackgroundColor, true
	case proto.SettingDigitBorderColor:
		return watchface.KeyDigitBorderColor, true
	}
	return 0, false
}

func (t *Task) setActive(active bool) {
	if active == t.active {
		return
	}
	t.active = active
	if active {
		t.face.Invalidate()
		t.redraw(true)
	}
}

func (t *Task) shutdown(ctx *kernel.Context) {
	if err := t.time.Unsubscribe(ctx, t.ep.Restrict(kernel.RightSend)); err != nil {
		t.logf(ctx, "boxyface: unsubscribe: %v", err)
	}
	_ = t.face.Unload()
	t.logf(ctx, "boxyface: unloaded")
}

// redraw paints and presents the dirty area. withDate also repaints the date
// line.
func (t *Task) redraw(withDate bool) {
	if !t.active {
		return
	}
	area, ok := t.face.OnRedraw(surface{d: t.d})
	if ok && area.W == t.fb.Width() && area.H == t.fb.Height() {
		withDate = true
	}
	if withDate && t.cfg.ShowDate {
		if r, drawn := t.drawDate(); drawn {
			area = union(area, r, ok)
			ok = true
		}
	}
	if !ok {
		return
	}
	_ = hal.PresentRect(t.fb, area.X, area.Y, area.W, area.H)
}

const dateGap = 4

// drawDate writes the date centred below the digit group, or above it when
// the group sits at the bottom.
func (t *Task) drawDate() (watchface.Rect, bool) {
	group := t.face.Group()
	lh := fbdraw.LineHeight()
	y := group.Y + group.H + dateGap
	if y+lh > t.fb.Height() {
		y = group.Y - dateGap - lh
	}
	if y < 0 {
		return watchface.Rect{}, false
	}

	cfg := t.face.Config()
	line := watchface.Rect{X: 0, Y: y, W: t.fb.Width(), H: lh}
	t.d.Fill(line.X, line.Y, line.W, line.H, cfg.BackgroundColor)

	text := t.last.Time.Format("Mon Jan 2")
	x := (t.fb.Width() - fbdraw.TextWidth(text)) / 2
	fbdraw.WriteText(t.d, x, y, text, textColor(cfg))
	return line, true
}

func textColor(cfg watchface.Config) color.RGBA {
	if cfg.DigitBorderColor != cfg.BackgroundColor {
		return cfg.DigitBorderColor
	}
	return cfg.DigitColor
}

func union(a, b watchface.Rect, haveA bool) watchface.Rect {
	if !haveA {
		return b
	}
	x0, y0 := min(a.X, b.X), min(a.Y, b.Y)
	x1, y1 := max(a.X+a.W, b.X+b.W), max(a.Y+a.H, b.Y+b.H)
	return watchface.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// logf waits out a full logger queue, sleeping on the time service once the
// client is up.
func (t *Task) logf(ctx *kernel.Context, format string, args ...any) {
	if !t.logCap.Valid() {
		return
	}
	_ = logclient.LogRetry(ctx, t.time, t.logCap, fmt.Sprintf(format, args...))
}
