//go:build !tinygo

package hal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func TestHostTimeStepsPerMillisecond(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	ht := newHostTime()
	ht.now = func() time.Time { return now }

	if n := ht.step(); n != 1 {
		t.Fatalf("first step() = %d, want 1", n)
	}
	now = now.Add(2500 * time.Microsecond)
	if n := ht.step(); n != 2 {
		t.Fatalf("step() after 2.5ms = %d, want 2", n)
	}
	now = now.Add(600 * time.Microsecond)
	if n := ht.step(); n != 1 {
		t.Fatalf("step() with carried remainder = %d, want 1", n)
	}

	var last uint64
	for len(ht.ch) > 0 {
		last = <-ht.ch
	}
	if last != 4 {
		t.Fatalf("last tick = %d, want 4", last)
	}
}

func TestHostClockFakeTimeAdvancesWithSpeed(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 59, 0, 0, time.UTC)
	c := newHostClock(HostConfig{FakeTime: start, Speed: 60, Use24h: true}.withDefaults())

	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}
	c.advance(time.Second)
	if got, want := c.Now(), start.Add(time.Minute); !got.Equal(want) {
		t.Fatalf("Now() after 1s at speed 60 = %v, want %v", got, want)
	}
	if !c.Use24h() {
		t.Fatal("Use24h() = false, want true")
	}
}

func TestHostClockRealIgnoresAdvance(t *testing.T) {
	c := newHostClock(HostConfig{}.withDefaults())
	before := time.Now()
	c.advance(time.Hour)
	if got := c.Now(); got.Sub(before) > time.Minute {
		t.Fatalf("real clock moved by %v after advance", got.Sub(before))
	}
}

func TestHostFramebufferPresent(t *testing.T) {
	fb := newHostFramebuffer(2, 1)
	fb.ClearRGB(0xff, 0, 0)

	snap := make([]byte, len(fb.buf))
	fb.snapshotRGB565(snap)
	if !bytes.Equal(snap, make([]byte, 4)) {
		t.Fatalf("snapshot before Present() = % x, want zeros", snap)
	}

	if err := fb.Present(); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	fb.snapshotRGB565(snap)
	if want := []byte{0x00, 0xF8, 0x00, 0xF8}; !bytes.Equal(snap, want) {
		t.Fatalf("snapshot after Present() = % x, want % x", snap, want)
	}
}

func TestHostLogger(t *testing.T) {
	var buf bytes.Buffer
	h := newHostHAL(HostConfig{Log: &buf})
	h.Logger().WriteLineString("a")
	h.Logger().WriteLineBytes([]byte("b"))
	if got := buf.String(); got != "a\nb\n" {
		t.Fatalf("log output = %q", got)
	}
	if w, hgt := h.fb.Width(), h.fb.Height(); w != 144 || hgt != 168 {
		t.Fatalf("default framebuffer = %dx%d, want 144x168", w, hgt)
	}
}

func TestHostFramebufferPresentRect(t *testing.T) {
	fb := newHostFramebuffer(3, 2)
	fb.ClearRGB(0xff, 0xff, 0xff)
	if err := PresentRect(fb, 1, 1, 5, 5); err != nil {
		t.Fatalf("PresentRect() error = %v", err)
	}

	snap := make([]byte, len(fb.buf))
	fb.snapshotRGB565(snap)
	for px := 0; px < 6; px++ {
		x, y := px%3, px/3
		lit := snap[px*2] != 0
		if want := x >= 1 && y >= 1; lit != want {
			t.Fatalf("pixel (%d,%d) presented = %v, want %v", x, y, lit, want)
		}
	}
}

func TestClipRect(t *testing.T) {
	tests := []struct {
		x, y, w, h     int
		wx, wy, ww, wh int
		ok             bool
	}{
		{0, 0, 10, 10, 0, 0, 10, 10, true},
		{-2, -3, 10, 10, 0, 0, 8, 7, true},
		{5, 5, 10, 10, 5, 5, 5, 5, true},
		{10, 0, 1, 1, 0, 0, 0, 0, false},
		{0, 0, 0, 4, 0, 0, 0, 0, false},
	}
	for _, tt := range tests {
		x, y, w, h, ok := clipRect(tt.x, tt.y, tt.w, tt.h, 10, 10)
		if ok != tt.ok || x != tt.wx || y != tt.wy || w != tt.ww || h != tt.wh {
			t.Fatalf("clipRect(%d,%d,%d,%d) = %d,%d,%d,%d,%v, want %d,%d,%d,%d,%v",
				tt.x, tt.y, tt.w, tt.h, x, y, w, h, ok, tt.wx, tt.wy, tt.ww, tt.wh, tt.ok)
		}
	}
}

// fakeApp exits when asked and counts frames. Its Shutdown only completes
// once another host tick arrives.
type fakeApp struct {
	ticks    <-chan uint64
	steps    int
	quitAt   int
	shutdown int
}

func (a *fakeApp) Step() error {
	a.steps++
	if a.quitAt > 0 && a.steps >= a.quitAt {
		return ErrQuit
	}
	return nil
}

func (a *fakeApp) SetActive(bool) error { return nil }

func (a *fakeApp) Shutdown() (<-chan struct{}, error) {
	a.shutdown++
	done := make(chan struct{})
	go func() {
		for len(a.ticks) > 0 {
			<-a.ticks
		}
		<-a.ticks
		close(done)
	}()
	return done, nil
}

func TestRunHeadlessShutsDownApp(t *testing.T) {
	var buf bytes.Buffer
	app := &fakeApp{}
	newApp := func(h HAL) App {
		app.ticks = h.Time().Ticks()
		return app
	}
	err := RunHeadless(context.Background(), newApp, HostConfig{Log: &buf}, HeadlessConfig{Hz: 500, Ticks: 3})
	if err != nil {
		t.Fatalf("RunHeadless() error = %v", err)
	}
	if app.steps != 3 || app.shutdown != 1 {
		t.Fatalf("steps = %d shutdown = %d, want 3 and 1", app.steps, app.shutdown)
	}
}

func TestRunHeadlessCancelShutsDownApp(t *testing.T) {
	app := &fakeApp{}
	newApp := func(h HAL) App {
		app.ticks = h.Time().Ticks()
		return app
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := RunHeadless(ctx, newApp, HostConfig{Log: io.Discard}, HeadlessConfig{Hz: 500})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("RunHeadless() error = %v, want deadline exceeded", err)
	}
	if app.shutdown != 1 {
		t.Fatalf("shutdown = %d, want 1", app.shutdown)
	}
}

func TestRunHeadlessQuitSkipsShutdown(t *testing.T) {
	app := &fakeApp{quitAt: 2}
	err := RunHeadless(context.Background(), func(HAL) App { return app }, HostConfig{Log: io.Discard}, HeadlessConfig{Hz: 500})
	if err != nil {
		t.Fatalf("RunHeadless() error = %v", err)
	}
	if app.shutdown != 0 {
		t.Fatalf("shutdown = %d after ErrQuit, want 0", app.shutdown)
	}
}
