package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"github.com/idreamsi/pebble-boxyface/hal"
	"github.com/idreamsi/pebble-boxyface/sparkos/fbdraw"
	"github.com/idreamsi/pebble-boxyface/sparkos/kernel"
)

func installPanicHandler(h hal.HAL) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		lines := panicLines(info)
		if l := h.Logger(); l != nil {
			for _, line := range lines {
				l.WriteLineString(line)
			}
		}

		if disp := h.Display(); disp != nil {
			if fb := disp.Framebuffer(); fb != nil {
				drawPanic(fb, lines)
				_ = fb.Present()
			}
		}
		select {}
	})
}

func panicLines(info kernel.PanicInfo) []string {
	lines := []string{
		"Boxyface panic:",
		fmt.Sprintf("task: %d", info.TaskID),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, strings.ReplaceAll(line, "\t", " "))
	}
	return lines
}

// drawPanic paints lines black on white, wrapped to the framebuffer width,
// and stops at the bottom edge. It returns the number of rows drawn.
func drawPanic(fb hal.Framebuffer, lines []string) int {
	fb.ClearRGB(255, 255, 255)

	lineH := fbdraw.LineHeight()
	charW := fbdraw.TextWidth("0")
	if lineH <= 0 || charW <= 0 {
		return 0
	}
	cols := max(fb.Width()/charW, 1)

	d := fbdraw.New(fb)
	fg := color.RGBA{A: 255}
	rows := 0
	for _, line := range lines {
		for len(line) > 0 {
			y := rows * lineH
			if y+lineH > fb.Height() {
				return rows
			}
			chunk, rest := takeRunes(line, cols)
			fbdraw.WriteText(d, 0, y, chunk, fg)
			rows++
			line = strings.TrimLeft(rest, " ")
		}
	}
	return rows
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
