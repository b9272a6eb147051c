package main

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idreamsi/pebble-boxyface/sparkos/watchface"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "face.png")
	_, err := execute(t, "render", "--time", "18:08", "--scale", "2", "--out", out)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 288, img.Bounds().Dx())
	assert.Equal(t, 336, img.Bounds().Dy())
}

func TestRenderReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "face.yaml")
	out := filepath.Join(dir, "face.png")
	require.NoError(t, os.WriteFile(cfg, []byte("background-color: \"#ff0000\"\nalign: top\n"), 0o644))

	_, err := execute(t, "--config", cfg, "render", "--time", "09:41", "--out", out)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	r, g, b, _ := img.At(0, img.Bounds().Dy()-1).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0, 0}, [3]uint32{r, g, b}, "background from config")
}

func TestRenderFlagBeatsConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "face.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("align: top\n"), 0o644))

	root := newRootCmd()
	root.SetArgs([]string{"--config", cfg, "render", "--align", "bottom", "--out", filepath.Join(dir, "x.png")})
	require.NoError(t, root.Execute())

	render, _, err := root.Find([]string{"render"})
	require.NoError(t, err)
	got, err := render.Flags().GetString("align")
	require.NoError(t, err)
	assert.Equal(t, "bottom", got)
}

func TestRenderMissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "render")
	assert.Error(t, err)
}

func TestRenderFlagsOptions(t *testing.T) {
	now := time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)
	f := renderFlags{
		preset:      "large",
		at:          "07:05",
		align:       "bottom",
		leadingZero: false,
		scale:       2,
		digit:       "#00ff00",
	}
	opts, err := f.options(now)
	require.NoError(t, err)
	assert.Equal(t, 320, opts.Width)
	assert.Equal(t, 320, opts.Height)
	assert.Equal(t, watchface.AlignBottom, opts.Face.Align)
	assert.False(t, opts.Face.HourLeadingZero)
	assert.Equal(t, color.RGBA{G: 0xff, A: 0xff}, opts.Face.DigitColor)
	assert.Equal(t, watchface.Classic().BackgroundColor, opts.Face.BackgroundColor)
	assert.Equal(t, time.Date(2024, 6, 1, 7, 5, 0, 0, time.UTC), opts.Time)

	f.align = "sideways"
	_, err = f.options(now)
	assert.ErrorIs(t, err, watchface.ErrInvalidConfig)

	f.align = "top"
	f.digit = "green"
	_, err = f.options(now)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "facepng ")
}
