//go:build tinygo && baremetal && picocalc

package hal

import "machine"

type picoCalcHAL struct {
	logger *uartLogger
	fb     *picoCalcFramebuffer
	t      *tinyGoTime
	clock  tinyGoClock
}

// New returns a PicoCalc HAL implementation (Pico/Pico2 on the PicoCalc carrier).
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	disp, err := newPicoCalcDisplay()
	if err != nil {
		disp = newPicoCalcDisplayStub()
	}

	return &picoCalcHAL{
		logger: &uartLogger{uart: uart},
		fb:     disp,
		t:      newTinyGoTime(),
		clock:  tinyGoClock{use24h: true},
	}
}

func (h *picoCalcHAL) Logger() Logger   { return h.logger }
func (h *picoCalcHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *picoCalcHAL) Time() Time       { return h.t }
func (h *picoCalcHAL) Clock() Clock     { return h.clock }

type picoCalcFramebuffer struct {
	w      int
	h      int
	stride int
	buf    []byte

	lcd *ili9488
}

func (f *picoCalcFramebuffer) Width() int          { return f.w }
func (f *picoCalcFramebuffer) Height() int         { return f.h }
func (f *picoCalcFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *picoCalcFramebuffer) StrideBytes() int    { return f.stride }
func (f *picoCalcFramebuffer) Buffer() []byte      { return f.buf }

func (f *picoCalcFramebuffer) ClearRGB(r, g, b uint8) {
	fillRGB565(f.buf, r, g, b)
}

func (f *picoCalcFramebuffer) Present() error {
	return f.PresentRect(0, 0, f.w, f.h)
}

// PresentRect pushes only the given region to the panel.
func (f *picoCalcFramebuffer) PresentRect(x, y, w, h int) error {
	if f.lcd == nil {
		return ErrNotImplemented
	}
	x, y, w, h, ok := clipRect(x, y, w, h, f.w, f.h)
	if !ok {
		return nil
	}
	return f.lcd.blitRect(f.buf, f.stride, x, y, w, h)
}

func newPicoCalcDisplay() (*picoCalcFramebuffer, error) {
	lcd, err := initILI9488()
	if err != nil {
		return nil, err
	}
	fb := newPicoCalcDisplayStub()
	fb.lcd = lcd
	return fb, nil
}

func newPicoCalcDisplayStub() *picoCalcFramebuffer {
	const w = 320
	const h = 320
	return &picoCalcFramebuffer{
		w:      w,
		h:      h,
		stride: w * 2,
		buf:    make([]byte, w*h*2),
	}
}
