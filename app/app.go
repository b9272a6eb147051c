package app

import (
	"fmt"

	"github.com/idreamsi/pebble-boxyface/hal"
	"github.com/idreamsi/pebble-boxyface/internal/buildinfo"
	"github.com/idreamsi/pebble-boxyface/sparkos/kernel"
	"github.com/idreamsi/pebble-boxyface/sparkos/proto"
	"github.com/idreamsi/pebble-boxyface/sparkos/services/logger"
	"github.com/idreamsi/pebble-boxyface/sparkos/services/phonelink"
	timesvc "github.com/idreamsi/pebble-boxyface/sparkos/services/time"
	"github.com/idreamsi/pebble-boxyface/sparkos/tasks/boxyface"
	"github.com/idreamsi/pebble-boxyface/sparkos/watchface"
)

// Config selects the face and the optional services.
type Config struct {
	// Face replaces the preset picked from the display width.
	Face *watchface.Config

	// Align and HourLeadingZero apply to the preset only.
	Align           watchface.Alignment
	HourLeadingZero bool

	ShowDate bool

	// Radio, when set, runs the phone link that pushes colour settings.
	Radio phonelink.Radio
}

// System is a booted kernel with the watchface and its services.
type System struct {
	k       *kernel.Kernel
	face    *boxyface.Task
	faceCap kernel.Capability
}

// New boots the system for a host runner. A boot failure is logged and
// reported by the first Step.
func New(h hal.HAL, cfg Config) hal.App {
	sys, err := Boot(h, cfg)
	if err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString("boxyface: " + err.Error())
		}
		return failedApp{err: err}
	}
	return sys
}

type failedApp struct{ err error }

func (a failedApp) Step() error          { return a.err }
func (a failedApp) SetActive(bool) error { return a.err }

func (a failedApp) Shutdown() (<-chan struct{}, error) {
	done := make(chan struct{})
	close(done)
	return done, nil
}

// Run boots the system and blocks forever (TinyGo/native entrypoint).
func Run(h hal.HAL, cfg Config) {
	_ = New(h, cfg)
	select {}
}

// Boot validates cfg, wires the tasks onto a new kernel and starts it.
func Boot(h hal.HAL, cfg Config) (*System, error) {
	face, err := faceConfig(h, cfg)
	if err != nil {
		return nil, err
	}

	installPanicHandler(h)
	if l := h.Logger(); l != nil {
		l.WriteLineString("boxyface " + buildinfo.String())
	}

	k := kernel.New()

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	timeEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	faceEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	logCap := logEP.Restrict(kernel.RightSend)
	timeCap := timeEP.Restrict(kernel.RightSend)
	faceCap := faceEP.Restrict(kernel.RightSend)

	k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))
	k.AddTask(timesvc.New(h.Clock(), timeEP.Restrict(kernel.RightRecv)))

	task := boxyface.New(h.Display(), faceEP, timeCap, logCap, boxyface.Config{
		Face:     face,
		ShowDate: cfg.ShowDate,
	})
	k.AddTask(task)

	if cfg.Radio != nil {
		linkEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
		k.AddTask(phonelink.New(cfg.Radio, linkEP, faceCap, logCap))
	}

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					k.TickTo(seq)
				}
			}()
		}
	}

	return &System{k: k, face: task, faceCap: faceCap}, nil
}

// Step is called once per host frame. It reports hal.ErrQuit once the
// watchface has exited.
func (s *System) Step() error {
	select {
	case <-s.face.Done():
		return hal.ErrQuit
	default:
		return nil
	}
}

// SetActive moves the watchface to the foreground or background.
func (s *System) SetActive(active bool) error {
	if res := s.k.SendTo(s.faceCap, uint16(proto.MsgAppControl), proto.AppControlPayload(active)); res != kernel.SendOK {
		return fmt.Errorf("app control: %s", res)
	}
	return nil
}

// Shutdown asks the watchface to unload and returns a channel closed once it
// has.
func (s *System) Shutdown() (<-chan struct{}, error) {
	select {
	case <-s.face.Done():
		return s.face.Done(), nil
	default:
	}
	if res := s.k.SendTo(s.faceCap, uint16(proto.MsgAppShutdown), nil); res != kernel.SendOK {
		return s.face.Done(), fmt.Errorf("shutdown: %s", res)
	}
	return s.face.Done(), nil
}

func faceConfig(h hal.HAL, cfg Config) (watchface.Config, error) {
	if cfg.Face != nil {
		return *cfg.Face, cfg.Face.Validate()
	}
	width := 0
	if d := h.Display(); d != nil {
		if fb := d.Framebuffer(); fb != nil {
			width = fb.Width()
		}
	}
	face := watchface.Preset(width)
	face.Align = cfg.Align
	face.HourLeadingZero = cfg.HourLeadingZero
	return face, face.Validate()
}
