package time

import (
	"errors"
	"fmt"
	gotime "time"

	"github.com/idreamsi/pebble-boxyface/sparkos/kernel"
	"github.com/idreamsi/pebble-boxyface/sparkos/proto"
)

const retryLimit = 500

// Tick is a decoded MsgTick.
type Tick struct {
	Time    gotime.Time
	Changed proto.TimeUnits
	Use24h  bool
}

// DecodeTick decodes a MsgTick message. The time carries the sender's zone offset.
func DecodeTick(msg kernel.Message) (Tick, bool) {
	if proto.Kind(msg.Kind) != proto.MsgTick {
		return Tick{}, false
	}
	unix, offset, changed, flags, ok := proto.DecodeTickPayload(msg.Payload())
	if !ok {
		return Tick{}, false
	}
	loc := gotime.FixedZone("", int(offset))
	return Tick{
		Time:    gotime.Unix(unix, 0).In(loc),
		Changed: changed,
		Use24h:  flags&proto.Tick24h != 0,
	}, true
}

// Client talks to the time service from a single task.
type Client struct {
	timeCap kernel.Capability

	replyXfer kernel.Capability
	replyCh   <-chan kernel.Message

	nextRequestID uint32
}

func New(timeCap kernel.Capability) *Client {
	return &Client{timeCap: timeCap, nextRequestID: 1}
}

func (c *Client) ensureReply(ctx *kernel.Context) error {
	if ctx == nil {
		return errors.New("time client: nil context")
	}
	if c.replyCh != nil {
		return nil
	}

	ep := ctx.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	if !ep.Valid() {
		return errors.New("time client: failed to allocate reply endpoint")
	}
	ch, ok := ctx.RecvChan(ep.Restrict(kernel.RightRecv))
	if !ok {
		return errors.New("time client: failed to receive from reply endpoint")
	}
	c.replyXfer = ep.Restrict(kernel.RightSend)
	c.replyCh = ch
	return nil
}

func (c *Client) nextID() uint32 {
	id := c.nextRequestID
	c.nextRequestID++
	if c.nextRequestID == 0 {
		c.nextRequestID = 1
	}
	return id
}

func (c *Client) send(ctx *kernel.Context, kind proto.Kind, payload []byte, xfer kernel.Capability) error {
	if !c.timeCap.Valid() {
		return fmt.Errorf("time client: missing capability for %s", kind)
	}
	res := ctx.SendToCapRetry(c.timeCap, uint16(kind), payload, xfer, retryLimit)
	if res != kernel.SendOK {
		return fmt.Errorf("time client send %s: %s", kind, res)
	}
	return nil
}

// Sleep blocks the calling task for dt kernel ticks.
func (c *Client) Sleep(ctx *kernel.Context, dt uint32) error {
	if err := c.ensureReply(ctx); err != nil {
		return err
	}

	reqID := c.nextID()
	if err := c.send(ctx, proto.MsgSleep, proto.SleepPayload(reqID, dt), c.replyXfer); err != nil {
		return err
	}

	for msg := range c.replyCh {
		switch proto.Kind(msg.Kind) {
		case proto.MsgWake:
			gotID, ok := proto.DecodeWakePayload(msg.Payload())
			if !ok || gotID != reqID {
				continue
			}
			return nil
		case proto.MsgError:
			code, ref, detail, ok := proto.DecodeErrorPayload(msg.Payload())
			if !ok || ref != proto.MsgSleep {
				continue
			}
			if gotID, _, ok := proto.DecodeErrorDetailWithRequestID(detail); ok && gotID != reqID {
				continue
			}
			return fmt.Errorf("time sleep: %s", code)
		}
	}
	return errors.New("time sleep: reply endpoint closed")
}

// Now asks the time service for the current wall time and clock style.
func (c *Client) Now(ctx *kernel.Context) (Tick, error) {
	if err := c.ensureReply(ctx); err != nil {
		return Tick{}, err
	}
	if err := c.send(ctx, proto.MsgNow, nil, c.replyXfer); err != nil {
		return Tick{}, err
	}

	for msg := range c.replyCh {
		switch proto.Kind(msg.Kind) {
		case proto.MsgTick:
			tick, ok := DecodeTick(msg)
			if !ok {
				return Tick{}, errors.New("time now: bad payload")
			}
			return tick, nil
		case proto.MsgError:
			code, ref, _, ok := proto.DecodeErrorPayload(msg.Payload())
			if !ok || ref != proto.MsgNow {
				continue
			}
			return Tick{}, fmt.Errorf("time now: %s", code)
		}
	}
	return Tick{}, errors.New("time now: reply endpoint closed")
}

// Subscribe asks the time service to send MsgTick to tickCap whenever one of
// units changes. Subscribing the same endpoint again replaces its units.
// Errors from the service (such as a full subscriber table) arrive on tickCap
// as MsgError.
func (c *Client) Subscribe(ctx *kernel.Context, tickCap kernel.Capability, units proto.TimeUnits) error {
	if ctx == nil {
		return errors.New("time subscribe: nil context")
	}
	if !tickCap.Valid() {
		return errors.New("time subscribe: invalid tick capability")
	}
	return c.send(ctx, proto.MsgTickSubscribe, proto.TickSubscribePayload(units), tickCap)
}

// Unsubscribe stops tick delivery to tickCap.
func (c *Client) Unsubscribe(ctx *kernel.Context, tickCap kernel.Capability) error {
	if ctx == nil {
		return errors.New("time unsubscribe: nil context")
	}
	return c.send(ctx, proto.MsgTickUnsubscribe, nil, tickCap)
}
