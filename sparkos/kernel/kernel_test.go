package kernel

import (
	"testing"
	"time"
)

const testTimeout = time.Second

func TestMessagePayloadClampsLen(t *testing.T) {
	var msg Message
	msg.Len = MaxMessageBytes + 10
	if got := len(msg.Payload()); got != MaxMessageBytes {
		t.Fatalf("len(Payload()) = %d, want %d", got, MaxMessageBytes)
	}
}

func TestRestrictDropsRights(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)

	recvOnly := ep.Restrict(RightRecv)
	if !recvOnly.Valid() || recvOnly.canSend() {
		t.Fatalf("Restrict(RightRecv) = %+v, want recv only", recvOnly)
	}
	if got := recvOnly.Restrict(RightSend); got.Valid() {
		t.Fatalf("Restrict of missing right = %+v, want invalid", got)
	}
	if !recvOnly.SameEndpoint(ep.Restrict(RightSend)) {
		t.Fatal("SameEndpoint() = false for restrictions of one endpoint")
	}

	ctx := &Context{k: k, taskID: 1}
	if res := ctx.SendToCapResult(recvOnly, 1, nil, Capability{}); res != SendErrToNoSendRight {
		t.Fatalf("send via recv-only cap = %s, want %s", res, SendErrToNoSendRight)
	}
	if _, ok := ctx.RecvChan(ep.Restrict(RightSend)); ok {
		t.Fatal("RecvChan via send-only cap ok = true, want false")
	}
}

func TestSendRejectsLargePayload(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	res := k.SendTo(ep, 1, make([]byte, MaxMessageBytes+1))
	if res != SendErrPayloadTooLarge {
		t.Fatalf("SendTo() = %s, want %s", res, SendErrPayloadTooLarge)
	}
}

func TestRecvAfterClose(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}

	close(k.endpoints[ep.ep].ch)

	ch, ok := ctx.RecvChan(ep)
	if !ok {
		t.Fatal("RecvChan() ok = false")
	}
	if _, ok := <-ch; ok {
		t.Fatal("receive ok = true after close")
	}
	if res := ctx.SendToCapResult(ep, 1, []byte("x"), Capability{}); res != SendErrNoEndpoint {
		t.Fatalf("send after close = %s, want %s", res, SendErrNoEndpoint)
	}
}

func fill(t *testing.T, ctx *Context, to Capability) {
	t.Helper()
	for i := 0; i < mailboxSlots; i++ {
		if res := ctx.SendToCapResult(to, 1, []byte("x"), Capability{}); res != SendOK {
			t.Fatalf("filling slot %d: %s", i, res)
		}
	}
}

func TestSendToCapRetry(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		drain bool
		want  SendResult
	}{
		{"zero limit does not block", 0, false, SendErrQueueFull},
		{"gives up after limit", 1, false, SendErrQueueFull},
		{"succeeds after drain", 5, true, SendOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := New()
			ep := k.NewEndpoint(RightSend | RightRecv)
			ctx := &Context{k: k, taskID: 1}
			fill(t, ctx, ep.Restrict(RightSend))

			done := make(chan SendResult, 1)
			go func() {
				done <- ctx.SendToCapRetry(ep.Restrict(RightSend), 1, []byte("y"), Capability{}, tt.limit)
			}()

			if tt.drain {
				ch, _ := ctx.RecvChan(ep)
				<-ch
			}
			stop := make(chan struct{})
			defer close(stop)
			go func() {
				for i := uint64(1); ; i++ {
					select {
					case <-stop:
						return
					default:
					}
					k.TickTo(i)
					time.Sleep(time.Millisecond)
				}
			}()

			select {
			case res := <-done:
				if res != tt.want {
					t.Fatalf("SendToCapRetry() = %s, want %s", res, tt.want)
				}
			case <-time.After(testTimeout):
				t.Fatal("timed out waiting for retry")
			}
		})
	}
}

type echoTask struct {
	in  Capability
	out chan<- Message
}

func (e *echoTask) Run(ctx *Context) {
	ch, ok := ctx.RecvChan(e.in)
	if !ok {
		return
	}
	for msg := range ch {
		e.out <- msg
	}
}

func TestAddTaskDeliversMessages(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	out := make(chan Message, 1)
	k.AddTask(&echoTask{in: ep.Restrict(RightRecv), out: out})

	if res := k.SendTo(ep.Restrict(RightSend), 7, []byte("hi")); res != SendOK {
		t.Fatalf("SendTo() = %s", res)
	}
	select {
	case msg := <-out:
		if msg.Kind != 7 || string(msg.Payload()) != "hi" {
			t.Fatalf("got kind=%d payload=%q, want 7 %q", msg.Kind, msg.Payload(), "hi")
		}
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for message")
	}
}

func TestTicks(t *testing.T) {
	k := New()
	ctx := &Context{k: k}
	done := make(chan struct{})
	ticks := ctx.Ticks(done)

	k.TickTo(3)
	k.TickTo(2)
	select {
	case v := <-ticks:
		if v != 3 {
			t.Fatalf("first tick = %d, want 3", v)
		}
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for tick")
	}
	if now := ctx.NowTick(); now != 3 {
		t.Fatalf("NowTick() = %d, want 3 (ticks never go backwards)", now)
	}
}

func TestTicksStopsWithoutFurtherTicks(t *testing.T) {
	k := New()
	ctx := &Context{k: k}
	done := make(chan struct{})
	ticks := ctx.Ticks(done)

	// Let the stream block waiting for a tick that never comes.
	time.Sleep(10 * time.Millisecond)
	close(done)

	select {
	case _, ok := <-ticks:
		if ok {
			t.Fatal("tick delivered after done")
		}
	case <-time.After(testTimeout):
		t.Fatal("tick stream still running after done")
	}
}

func TestBlockOnTick(t *testing.T) {
	k := New()
	ctx := &Context{k: k}
	woke := make(chan struct{})
	go func() {
		ctx.BlockOnTick()
		close(woke)
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-woke:
		t.Fatal("BlockOnTick() returned before a tick")
	default:
	}
	deadline := time.After(testTimeout)
	for i := uint64(1); ; i++ {
		k.TickTo(i)
		select {
		case <-woke:
			return
		case <-deadline:
			t.Fatal("BlockOnTick() did not wake")
		case <-time.After(time.Millisecond):
		}
	}
}
