package phonelink

import (
	"errors"
	"testing"
	"time"

	"github.com/idreamsi/pebble-boxyface/sparkos/kernel"
	"github.com/idreamsi/pebble-boxyface/sparkos/proto"
)

const testTimeout = time.Second

type fakeRadio struct {
	started chan func([]byte)
	err     error
}

func (r *fakeRadio) Start(onWrite func([]byte)) error {
	if r.err != nil {
		return r.err
	}
	r.started <- onWrite
	return nil
}

type forwardTask struct {
	in  kernel.Capability
	out chan<- kernel.Message
}

func (f *forwardTask) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(f.in)
	if !ok {
		return
	}
	for msg := range ch {
		f.out <- msg
	}
}

func startService(t *testing.T, radio Radio) (chan kernel.Message, func([]byte)) {
	t.Helper()
	k := kernel.New()
	linkEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	faceEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	out := make(chan kernel.Message, 8)

	k.AddTask(&forwardTask{in: faceEP.Restrict(kernel.RightRecv), out: out})
	k.AddTask(New(radio, linkEP, faceEP.Restrict(kernel.RightSend), kernel.Capability{}))

	fr, ok := radio.(*fakeRadio)
	if !ok {
		return out, nil
	}
	select {
	case write := <-fr.started:
		return out, write
	case <-time.After(testTimeout):
		t.Fatal("radio not started")
		return nil, nil
	}
}

func TestForwardsTranslatedSettings(t *testing.T) {
	out, write := startService(t, &fakeRadio{started: make(chan func([]byte), 1)})

	write(proto.SettingsPayload([]proto.Setting{
		{Key: proto.SettingDigitColor, Value: 0xe35462},
		{Key: 42, Value: 0x123456},
		{Key: proto.SettingBackgroundColor, Value: 0x0000fe},
	}))

	select {
	case msg := <-out:
		if proto.Kind(msg.Kind) != proto.MsgSettings {
			t.Fatalf("kind = %s, want settings", proto.Kind(msg.Kind))
		}
		got, ok := proto.DecodeSettingsPayload(msg.Payload())
		want := []proto.Setting{
			{Key: proto.SettingDigitColor, Value: 0xff0000},
			{Key: proto.SettingBackgroundColor, Value: 0x0000ff},
		}
		if !ok || len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Fatalf("forwarded %v, want %v", got, want)
		}
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for settings")
	}
}

func TestDropsMalformedWrites(t *testing.T) {
	out, write := startService(t, &fakeRadio{started: make(chan func([]byte), 1)})

	write([]byte{1, 2})
	write(proto.SettingsPayload([]proto.Setting{{Key: 77, Value: 1}}))
	select {
	case msg := <-out:
		t.Fatalf("unexpected %s message", proto.Kind(msg.Kind))
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRadioStartFailureStopsService(t *testing.T) {
	out, _ := startService(t, &fakeRadio{err: errors.New("no adapter")})
	select {
	case msg := <-out:
		t.Fatalf("unexpected %s message", proto.Kind(msg.Kind))
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTranslate(t *testing.T) {
	if _, ok := Translate([]byte{1}); ok {
		t.Fatal("Translate(short) ok = true")
	}
	got, ok := Translate(proto.SettingsPayload([]proto.Setting{{Key: proto.SettingDigitBorderColor, Value: 0x69b5dd}}))
	if !ok || len(got) != 1 || got[0].Value != 0x55aaff {
		t.Fatalf("Translate() = %v, %v, want 0x55aaff", got, ok)
	}
}
