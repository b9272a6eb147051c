package logger

import (
	"fmt"

	timeclient "github.com/idreamsi/pebble-boxyface/sparkos/client/time"
	"github.com/idreamsi/pebble-boxyface/sparkos/kernel"
	"github.com/idreamsi/pebble-boxyface/sparkos/proto"
)

// Log sends a log line to the logger service.
//
// The call is best-effort: it may drop on queue full.
func Log(ctx *kernel.Context, logCap kernel.Capability, line string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	b := []byte(line)
	if len(b) > kernel.MaxMessageBytes {
		b = b[:kernel.MaxMessageBytes]
	}
	return ctx.SendToCapResult(logCap, uint16(proto.MsgLogLine), proto.LogLinePayload(b), kernel.Capability{})
}

const retryLimit = 50

// LogRetry sends a log line, sleeping one tick through the time service
// between attempts while the logger queue is full.
func LogRetry(ctx *kernel.Context, tc *timeclient.Client, logCap kernel.Capability, line string) error {
	if ctx == nil {
		return fmt.Errorf("logger retry: nil context")
	}
	for i := 0; ; i++ {
		res := Log(ctx, logCap, line)
		switch res {
		case kernel.SendOK:
			return nil
		case kernel.SendErrQueueFull:
			if i >= retryLimit {
				return fmt.Errorf("logger send: %s", res)
			}
			if tc == nil {
				ctx.BlockOnTick()
				continue
			}
			if err := tc.Sleep(ctx, 1); err != nil {
				return fmt.Errorf("logger retry backoff: %w", err)
			}
		default:
			return fmt.Errorf("logger send: %s", res)
		}
	}
}
