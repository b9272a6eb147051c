package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/idreamsi/pebble-boxyface/internal/preview"
	"github.com/idreamsi/pebble-boxyface/sparkos/watchface"
)

type renderFlags struct {
	preset      string
	width       int
	height      int
	at          string
	align       string
	use24h      bool
	leadingZero bool
	scale       int
	out         string

	background      string
	digit           string
	digitBackground string
	digitBorder     string
}

func newRenderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame",
		Long: `Render draws the face for a given time and writes it as a PNG.
Flags not given on the command line are read from the config file or from
FACEPNG_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(f, time.Now())
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.preset, "preset", "classic", "face preset: classic or large")
	fl.IntVar(&f.width, "width", 0, "window width (default from preset)")
	fl.IntVar(&f.height, "height", 0, "window height (default from preset)")
	fl.StringVar(&f.at, "time", "", "time to show, RFC3339 or 15:04 (default now)")
	fl.StringVar(&f.align, "align", "middle", "digit group alignment: top, middle or bottom")
	fl.BoolVar(&f.use24h, "24h", true, "use the 24-hour clock style")
	fl.BoolVar(&f.leadingZero, "leading-zero", true, "pad single-digit hours with a zero")
	fl.IntVar(&f.scale, "scale", 1, "integer zoom factor")
	fl.StringVarP(&f.out, "out", "o", "boxyface.png", "output file, - for stdout")
	fl.StringVar(&f.background, "background-color", "", "window colour (#rrggbb)")
	fl.StringVar(&f.digit, "digit-color", "", "digit colour (#rrggbb)")
	fl.StringVar(&f.digitBackground, "digit-background-color", "", "digit group colour (#rrggbb)")
	fl.StringVar(&f.digitBorder, "digit-border-color", "", "digit group strip colour (#rrggbb)")
	return cmd
}

func (f renderFlags) options(now time.Time) (preview.Options, error) {
	face, w, h, err := preview.PresetSize(f.preset)
	if err != nil {
		return preview.Options{}, err
	}
	if f.width > 0 {
		w = f.width
	}
	if f.height > 0 {
		h = f.height
	}
	if face.Align, err = watchface.ParseAlignment(f.align); err != nil {
		return preview.Options{}, err
	}
	face.HourLeadingZero = f.leadingZero

	for _, c := range []struct {
		val string
		dst *color.RGBA
	}{
		{f.background, &face.BackgroundColor},
		{f.digit, &face.DigitColor},
		{f.digitBackground, &face.DigitBackgroundColor},
		{f.digitBorder, &face.DigitBorderColor},
	} {
		if c.val == "" {
			continue
		}
		if *c.dst, err = preview.ParseColor(c.val); err != nil {
			return preview.Options{}, err
		}
	}

	at := now
	if f.at != "" {
		if at, err = preview.ParseTime(f.at, now); err != nil {
			return preview.Options{}, err
		}
	}

	return preview.Options{
		Face:   face,
		Width:  w,
		Height: h,
		Time:   at,
		Use24h: f.use24h,
		Scale:  f.scale,
	}, nil
}

func runRender(f renderFlags, now time.Time) error {
	opts, err := f.options(now)
	if err != nil {
		return err
	}
	img, err := preview.Render(opts)
	if err != nil {
		return err
	}

	if f.out == "-" {
		return preview.WritePNG(os.Stdout, img)
	}
	out, err := os.Create(f.out)
	if err != nil {
		return err
	}
	if err := preview.WritePNG(out, img); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", f.out, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	slog.Info("rendered face",
		"out", f.out,
		"time", opts.Time.Format("15:04"),
		"size", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
	return nil
}
