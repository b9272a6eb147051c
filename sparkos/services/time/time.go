package timesvc

import (
	"time"

	"github.com/idreamsi/pebble-boxyface/hal"
	"github.com/idreamsi/pebble-boxyface/sparkos/kernel"
	"github.com/idreamsi/pebble-boxyface/sparkos/proto"
)

const (
	maxSleepers    = 32
	maxSubscribers = 8
)

type sleeper struct {
	inUse bool
	due   uint64
	id    uint32
	reply kernel.Capability
}

type subscriber struct {
	inUse bool
	units proto.TimeUnits
	reply kernel.Capability
}

// Service wakes sleepers after a number of kernel ticks and notifies
// subscribers when a calendar unit of the wall clock changes.
type Service struct {
	clock hal.Clock
	ep    kernel.Capability

	now      uint64
	last     time.Time
	sleepers [maxSleepers]sleeper
	subs     [maxSubscribers]subscriber
}

func New(clock hal.Clock, ep kernel.Capability) *Service {
	return &Service{clock: clock, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}

	done := make(chan struct{})
	defer close(done)

	s.now = ctx.NowTick()
	if s.clock != nil {
		s.last = s.clock.Now()
	}

	tickCh := ctx.Ticks(done)

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.handle(ctx, msg)
		case tick := <-tickCh:
			s.now = tick
			s.wakeReady(ctx)
			s.sample(ctx)
		}
	}
}

func (s *Service) handle(ctx *kernel.Context, msg kernel.Message) {
	if !msg.Cap.Valid() {
		return
	}
	switch proto.Kind(msg.Kind) {
	case proto.MsgSleep:
		s.handleSleep(ctx, msg)
	case proto.MsgTickSubscribe:
		s.handleSubscribe(ctx, msg)
	case proto.MsgTickUnsubscribe:
		s.unsubscribe(msg.Cap)
	case proto.MsgNow:
		if s.clock == nil {
			s.sendErr(ctx, msg.Cap, proto.ErrNotFound, proto.MsgNow, 0)
			return
		}
		_ = ctx.SendToCapRetry(msg.Cap, uint16(proto.MsgTick), s.tickPayload(s.clock.Now(), 0), kernel.Capability{}, retryLimit)
	default:
		s.sendErr(ctx, msg.Cap, proto.ErrBadMessage, proto.Kind(msg.Kind), 0)
	}
}

const retryLimit = 16

func (s *Service) handleSleep(ctx *kernel.Context, msg kernel.Message) {
	requestID, dt, ok := proto.DecodeSleepPayload(msg.Payload())
	if !ok {
		s.sendErr(ctx, msg.Cap, proto.ErrBadMessage, proto.MsgSleep, 0)
		return
	}
	if dt == 0 {
		_ = ctx.SendToCap(msg.Cap, uint16(proto.MsgWake), proto.WakePayload(requestID), kernel.Capability{})
		return
	}
	if ok := s.schedule(s.now+uint64(dt), requestID, msg.Cap); !ok {
		s.sendErr(ctx, msg.Cap, proto.ErrOverflow, proto.MsgSleep, requestID)
	}
}

func (s *Service) handleSubscribe(ctx *kernel.Context, msg kernel.Message) {
	units, ok := proto.DecodeTickSubscribePayload(msg.Payload())
	if !ok || units&proto.UnitsAll == 0 {
		s.sendErr(ctx, msg.Cap, proto.ErrBadMessage, proto.MsgTickSubscribe, 0)
		return
	}

	free := -1
	for i := range s.subs {
		sub := &s.subs[i]
		if sub.inUse && sub.reply.SameEndpoint(msg.Cap) {
			sub.units = units
			return
		}
		if !sub.inUse && free < 0 {
			free = i
		}
	}
	if free < 0 {
		s.sendErr(ctx, msg.Cap, proto.ErrOverflow, proto.MsgTickSubscribe, 0)
		return
	}
	s.subs[free] = subscriber{inUse: true, units: units, reply: msg.Cap}
}

func (s *Service) unsubscribe(reply kernel.Capability) {
	for i := range s.subs {
		if s.subs[i].inUse && s.subs[i].reply.SameEndpoint(reply) {
			s.subs[i] = subscriber{}
		}
	}
}

func (s *Service) sendErr(ctx *kernel.Context, to kernel.Capability, code proto.ErrCode, ref proto.Kind, requestID uint32) {
	payload := proto.ErrorPayload(code, ref, proto.ErrorDetailWithRequestID(requestID, nil))
	_ = ctx.SendToCap(to, uint16(proto.MsgError), payload, kernel.Capability{})
}

func (s *Service) schedule(due uint64, requestID uint32, reply kernel.Capability) bool {
	for i := range s.sleepers {
		if s.sleepers[i].inUse {
			continue
		}
		s.sleepers[i] = sleeper{inUse: true, due: due, id: requestID, reply: reply}
		return true
	}
	return false
}

func (s *Service) wakeReady(ctx *kernel.Context) {
	for i := range s.sleepers {
		sl := &s.sleepers[i]
		if !sl.inUse || sl.due > s.now {
			continue
		}
		_ = ctx.SendToCap(sl.reply, uint16(proto.MsgWake), proto.WakePayload(sl.id), kernel.Capability{})
		*sl = sleeper{}
	}
}

// sample reads the wall clock and notifies every subscriber whose units
// changed since the previous sample.
func (s *Service) sample(ctx *kernel.Context) {
	if s.clock == nil {
		return
	}
	now := s.clock.Now()
	changed := ChangedUnits(s.last, now)
	s.last = now
	if changed == 0 {
		return
	}

	var payload []byte
	for i := range s.subs {
		sub := &s.subs[i]
		if !sub.inUse || !sub.units.Has(changed) {
			continue
		}
		if payload == nil {
			payload = s.tickPayload(now, changed)
		}
		res := ctx.SendToCapRetry(sub.reply, uint16(proto.MsgTick), payload, kernel.Capability{}, retryLimit)
		if res == kernel.SendErrNoEndpoint {
			*sub = subscriber{}
		}
	}
}

func (s *Service) tickPayload(now time.Time, changed proto.TimeUnits) []byte {
	_, offset := now.Zone()
	var flags proto.TickFlags
	if s.clock.Use24h() {
		flags |= proto.Tick24h
	}
	return proto.TickPayload(now.Unix(), int32(offset), changed, flags)
}

// ChangedUnits reports which calendar units differ between prev and now.
// A change in a unit implies a change in every smaller unit.
func ChangedUnits(prev, now time.Time) proto.TimeUnits {
	var u proto.TimeUnits
	switch {
	case prev.Year() != now.Year():
		u |= proto.UnitYear
		fallthrough
	case prev.Month() != now.Month():
		u |= proto.UnitMonth
		fallthrough
	case prev.Day() != now.Day():
		u |= proto.UnitDay
		fallthrough
	case prev.Hour() != now.Hour():
		u |= proto.UnitHour
		fallthrough
	case prev.Minute() != now.Minute():
		u |= proto.UnitMinute
		fallthrough
	case prev.Second() != now.Second():
		u |= proto.UnitSecond
	}
	return u
}
