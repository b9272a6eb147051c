//go:build !tinygo && cgo

package hal

import (
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/idreamsi/pebble-boxyface/internal/buildinfo"
)

// RunWindow starts a desktop window that displays the framebuffer.
// It blocks until the window closes or the app returns ErrQuit. Losing window
// focus sends the app to the background.
func RunWindow(newApp func(HAL) App, host HostConfig) error {
	host = host.withDefaults()
	h := newHostHAL(host)
	app := newApp(h)

	g := &hostGame{h: h, app: app, focused: true}
	ebiten.SetWindowTitle("Boxyface (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*host.Scale, h.fb.height*host.Scale)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		return errors.Join(err, h.shutdown(app))
	}
	if g.quit {
		return nil
	}
	return h.shutdown(app)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	app     App

	focused bool
	// quit is set once the app exited by itself.
	quit bool
}

func (g *hostGame) Update() error {
	g.h.step()
	if g.app == nil {
		return nil
	}
	if f := ebiten.IsFocused(); f != g.focused {
		g.focused = f
		if err := g.app.SetActive(f); err != nil {
			g.h.logger.WriteLineString("host: " + err.Error())
		}
	}
	if err := g.app.Step(); err != nil {
		if errors.Is(err, ErrQuit) {
			g.quit = true
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)
	rgb565ToRGBA(g.img.Pix, g.scratch)

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
