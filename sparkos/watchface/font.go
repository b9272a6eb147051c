package watchface

import (
	"fmt"
	"math/bits"
)

// Glyph grid size.
const (
	Rows = 5
	Cols = 3
)

// Font maps each digit to Rows row patterns of Cols bits.
//
// Bits are stored as 0b00000xxx with bit (Cols-1) as the leftmost column.
type Font [10][Rows]uint8

// DefaultFont is the blocky 3x5 face font.
var DefaultFont = Font{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b110, 0b010, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

const colMask = 1<<Cols - 1

// Validate reports the first row pattern that uses bits outside the grid.
func (f *Font) Validate() error {
	if f == nil {
		return fmt.Errorf("font: nil")
	}
	for d := range f {
		for row, v := range f[d] {
			if v&^colMask != 0 {
				return fmt.Errorf("font: digit %d row %d: pattern %#b wider than %d columns", d, row, v, Cols)
			}
		}
	}
	return nil
}

// Set reports whether the cell at row, col of digit d is filled.
// Out of range arguments report false.
func (f *Font) Set(d Digit, row, col int) bool {
	if d < 0 || int(d) >= len(f) || row < 0 || row >= Rows || col < 0 || col >= Cols {
		return false
	}
	return f[d][row]&(1<<(Cols-col-1)) != 0
}

// Count returns the number of filled cells of digit d.
func (f *Font) Count(d Digit) int {
	if d < 0 || int(d) >= len(f) {
		return 0
	}
	n := 0
	for _, v := range f[d] {
		n += bits.OnesCount8(v & colMask)
	}
	return n
}
