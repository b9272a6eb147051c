// Package phonelink receives colour settings from the phone companion and
// forwards them to the watchface.
package phonelink

import (
	"fmt"

	logclient "github.com/idreamsi/pebble-boxyface/sparkos/client/logger"
	"github.com/idreamsi/pebble-boxyface/sparkos/kernel"
	"github.com/idreamsi/pebble-boxyface/sparkos/proto"
	"github.com/idreamsi/pebble-boxyface/sparkos/watchface"
)

// Radio delivers raw settings writes from the phone. Start must return once
// the link is up; onWrite may be called from any goroutine.
type Radio interface {
	Start(onWrite func(value []byte)) error
}

const retryLimit = 100

// Service bridges a Radio to the watchface endpoint.
type Service struct {
	radio   Radio
	ep      kernel.Capability
	faceCap kernel.Capability
	logCap  kernel.Capability
}

// New returns a service receiving on ep. ep needs both rights: radio writes
// are queued on it from the radio's goroutine.
func New(radio Radio, ep, faceCap, logCap kernel.Capability) *Service {
	return &Service{radio: radio, ep: ep, faceCap: faceCap, logCap: logCap}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep.Restrict(kernel.RightRecv))
	if !ok || s.radio == nil {
		return
	}

	inbox := s.ep.Restrict(kernel.RightSend)
	err := s.radio.Start(func(value []byte) {
		// Runs on the radio goroutine; only queue the raw write. Writes
		// larger than a message or arriving on a full queue are lost.
		_ = ctx.SendToCapResult(inbox, uint16(proto.MsgSettings), value, kernel.Capability{})
	})
	if err != nil {
		s.logf(ctx, "phonelink: start: %v", err)
		return
	}
	s.logf(ctx, "phonelink: advertising")

	for msg := range ch {
		if proto.Kind(msg.Kind) != proto.MsgSettings {
			continue
		}
		settings, ok := Translate(msg.Payload())
		if !ok {
			s.logf(ctx, "phonelink: dropped malformed write (%d bytes)", msg.Len)
			continue
		}
		if len(settings) == 0 {
			continue
		}
		res := ctx.SendToCapRetry(s.faceCap, uint16(proto.MsgSettings), proto.SettingsPayload(settings), kernel.Capability{}, retryLimit)
		if res != kernel.SendOK {
			s.logf(ctx, "phonelink: forward settings: %s", res)
		}
	}
}

// Translate decodes a companion write and maps each colour from the
// picker's display-corrected value to its palette colour. Unknown keys are
// dropped.
func Translate(payload []byte) ([]proto.Setting, bool) {
	in, ok := proto.DecodeSettingsPayload(payload)
	if !ok {
		return nil, false
	}
	out := in[:0]
	for _, st := range in {
		if !st.Key.Valid() {
			continue
		}
		c, _ := watchface.FromSunny(st.Value)
		out = append(out, proto.Setting{Key: st.Key, Value: watchface.PackRGB(c)})
	}
	return out, true
}

func (s *Service) logf(ctx *kernel.Context, format string, args ...any) {
	if !s.logCap.Valid() {
		return
	}
	// No time client here: a full logger queue is retried on kernel ticks.
	_ = logclient.LogRetry(ctx, nil, s.logCap, fmt.Sprintf(format, args...))
}
