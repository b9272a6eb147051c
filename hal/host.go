//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// HostConfig configures the desktop HAL.
type HostConfig struct {
	// Width and Height of the framebuffer. Zero selects 144x168.
	Width  int
	Height int
	// Scale is the window zoom factor. Zero selects 2.
	Scale int

	// FakeTime, when non-zero, starts a simulated wall clock at this instant
	// instead of reading the system clock.
	FakeTime time.Time
	// Speed multiplies the advance of the simulated clock per elapsed
	// millisecond. Ignored for the system clock.
	Speed int

	Use24h bool

	// Log receives the log lines. Nil selects stdout.
	Log io.Writer
}

// shutdownTimeout bounds how long a runner waits for the app to unload.
const shutdownTimeout = 2 * time.Second

func (c HostConfig) withDefaults() HostConfig {
	if c.Width <= 0 || c.Height <= 0 {
		c.Width, c.Height = 144, 168
	}
	if c.Scale <= 0 {
		c.Scale = 2
	}
	if c.Speed <= 0 {
		c.Speed = 1
	}
	if c.Log == nil {
		c.Log = os.Stdout
	}
	return c
}

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	t      *hostTime
	clock  *hostClock
}

// New returns a host HAL implementation.
func New(cfg HostConfig) HAL {
	return newHostHAL(cfg)
}

func newHostHAL(cfg HostConfig) *hostHAL {
	cfg = cfg.withDefaults()
	return &hostHAL{
		logger: &hostLogger{w: cfg.Log},
		fb:     newHostFramebuffer(cfg.Width, cfg.Height),
		t:      newHostTime(),
		clock:  newHostClock(cfg),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Clock() Clock     { return h.clock }

// step advances the tick stream by the elapsed real time and moves the
// simulated clock along with it.
func (h *hostHAL) step() {
	n := h.t.step()
	h.clock.advance(time.Duration(n) * time.Millisecond)
}

// shutdown stops app and keeps the tick stream running until it reports
// done, so tasks blocked on ticks can still finish.
func (h *hostHAL) shutdown(app App) error {
	if app == nil {
		return nil
	}
	done, err := app.Shutdown()
	if done == nil {
		return err
	}

	t := time.NewTicker(time.Millisecond)
	defer t.Stop()
	timeout := time.NewTimer(shutdownTimeout)
	defer timeout.Stop()
	for {
		select {
		case <-done:
			return err
		case <-t.C:
			h.step()
		case <-timeout.C:
			return errors.Join(err, errors.New("app did not stop within "+shutdownTimeout.String()))
		}
	}
}

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostClock struct {
	clk    clockwork.Clock
	fake   *clockwork.FakeClock
	speed  time.Duration
	use24h bool
}

func newHostClock(cfg HostConfig) *hostClock {
	c := &hostClock{speed: time.Duration(cfg.Speed), use24h: cfg.Use24h}
	if cfg.FakeTime.IsZero() {
		c.clk = clockwork.NewRealClock()
		return c
	}
	c.fake = clockwork.NewFakeClockAt(cfg.FakeTime)
	c.clk = c.fake
	return c
}

func (c *hostClock) Now() time.Time { return c.clk.Now() }
func (c *hostClock) Use24h() bool   { return c.use24h }

func (c *hostClock) advance(d time.Duration) {
	if c.fake == nil || d <= 0 {
		return
	}
	c.fake.Advance(d * c.speed)
}
