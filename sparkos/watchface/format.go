package watchface

import "time"

// Digit is a single glyph value in 0..9, or Blank.
type Digit int8

// Blank renders nothing. Used for a suppressed hour leading zero.
const Blank Digit = -1

// Slot indices, left to right.
const (
	SlotHourTens = iota
	SlotHourOnes
	SlotMinuteTens
	SlotMinuteOnes

	SlotCount
)

// Format converts a wall-clock hour (0..23) and minute (0..59) into the four
// digits shown on the face.
//
// In 12h mode the hour is folded into 1..12. When hourLeadingZero is false a
// zero hour tens digit is replaced by Blank; minutes always keep their
// leading zero.
func Format(hour, minute int, use24h, hourLeadingZero bool) [SlotCount]Digit {
	h := hour
	if !use24h {
		h = hour12(hour)
	}

	var d [SlotCount]Digit
	d[SlotHourTens] = Digit(h / 10)
	d[SlotHourOnes] = Digit(h % 10)
	if d[SlotHourTens] == 0 && !hourLeadingZero {
		d[SlotHourTens] = Blank
	}
	d[SlotMinuteTens] = Digit(minute / 10)
	d[SlotMinuteOnes] = Digit(minute % 10)
	return d
}

// FormatTime is Format applied to t's hour and minute in t's location.
func FormatTime(t time.Time, use24h, hourLeadingZero bool) [SlotCount]Digit {
	return Format(t.Hour(), t.Minute(), use24h, hourLeadingZero)
}

func hour12(hour int) int {
	hour %= 12
	if hour == 0 {
		return 12
	}
	return hour
}
