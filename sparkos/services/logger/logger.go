package logger

import (
	"github.com/idreamsi/pebble-boxyface/hal"
	"github.com/idreamsi/pebble-boxyface/sparkos/kernel"
	"github.com/idreamsi/pebble-boxyface/sparkos/proto"
)

// Service writes MsgLogLine payloads to the HAL logger, one line each.
type Service struct {
	log hal.Logger
	ep  kernel.Capability
}

func New(log hal.Logger, ep kernel.Capability) *Service {
	return &Service{log: log, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}
	for msg := range ch {
		if s.log == nil {
			continue
		}
		if proto.Kind(msg.Kind) != proto.MsgLogLine {
			continue
		}
		s.log.WriteLineBytes(msg.Payload())
	}
}
