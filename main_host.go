//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/idreamsi/pebble-boxyface/app"
	"github.com/idreamsi/pebble-boxyface/hal"
	"github.com/idreamsi/pebble-boxyface/internal/preview"
	"github.com/idreamsi/pebble-boxyface/sparkos/services/phonelink"
	"github.com/idreamsi/pebble-boxyface/sparkos/watchface"
)

func main() {
	var (
		cfg      hal.HeadlessConfig
		host     hal.HostConfig
		appCfg   app.Config
		align    string
		fakeTime string
		ble      bool
	)
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.IntVar(&host.Width, "width", 144, "Framebuffer width.")
	flag.IntVar(&host.Height, "height", 168, "Framebuffer height.")
	flag.IntVar(&host.Scale, "scale", 2, "Window zoom factor.")
	flag.BoolVar(&host.Use24h, "24h", true, "Use the 24-hour clock style.")
	flag.StringVar(&fakeTime, "fake-time", "", "Start a simulated clock at this time (RFC3339 or 15:04).")
	flag.IntVar(&host.Speed, "speed", 1, "Simulated clock speed multiplier (with -fake-time).")
	flag.StringVar(&align, "align", "middle", "Digit group alignment: top, middle or bottom.")
	flag.BoolVar(&appCfg.HourLeadingZero, "leading-zero", true, "Pad single-digit hours with a zero.")
	flag.BoolVar(&appCfg.ShowDate, "date", false, "Draw the date below the digits.")
	flag.BoolVar(&ble, "ble", false, "Advertise the phone settings link over Bluetooth LE.")
	flag.Parse()

	a, err := watchface.ParseAlignment(align)
	if err != nil {
		fatal(err)
	}
	appCfg.Align = a

	if fakeTime != "" {
		t, err := preview.ParseTime(fakeTime, time.Now())
		if err != nil {
			fatal(err)
		}
		host.FakeTime = t
	}
	if ble {
		appCfg.Radio = phonelink.NewBLE("Boxyface")
	}

	newApp := func(h hal.HAL) hal.App { return app.New(h, appCfg) }

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, host, cfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fatal(err)
		}
		return
	}

	if err := hal.RunWindow(newApp, host); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
