package watchface

import "image/color"

// Rect is a pixel rectangle: origin plus size.
type Rect struct {
	X, Y int
	W, H int
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

// Overlaps reports whether r and o share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Translate returns r moved by dx, dy.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Surface is the drawing primitive the face needs.
type Surface interface {
	FillRect(r Rect, c color.RGBA)
}

type offsetSurface struct {
	base   Surface
	dx, dy int
}

func (s offsetSurface) FillRect(r Rect, c color.RGBA) {
	s.base.FillRect(r.Translate(s.dx, s.dy), c)
}

// Offset returns a Surface whose origin sits at (dx, dy) of s.
func Offset(s Surface, dx, dy int) Surface {
	if o, ok := s.(offsetSurface); ok {
		return offsetSurface{base: o.base, dx: o.dx + dx, dy: o.dy + dy}
	}
	return offsetSurface{base: s, dx: dx, dy: dy}
}

func cellSize(region Rect, border int) (w, h int) {
	return (region.W - 2*border) / Cols, (region.H - 2*border) / Rows
}

// Cells returns the filled cells of d inside region, row-major.
//
// The region minus border on every side is split into Rows x Cols cells using
// truncating division; remainder pixels on the right and bottom stay
// uncovered. Blank yields no cells.
func Cells(d Digit, font *Font, region Rect, border int) []Rect {
	if d == Blank || font == nil {
		return nil
	}
	cw, ch := cellSize(region, border)
	if cw <= 0 || ch <= 0 {
		return nil
	}
	cells := make([]Rect, 0, Rows*Cols)
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if !font.Set(d, row, col) {
				continue
			}
			cells = append(cells, Rect{
				X: region.X + border + col*cw,
				Y: region.Y + border + row*ch,
				W: cw,
				H: ch,
			})
		}
	}
	return cells
}

// RenderDigit paints d into region and returns the number of cells filled.
func RenderDigit(s Surface, d Digit, font *Font, region Rect, border int, c color.RGBA) int {
	if d == Blank || font == nil || d < 0 || int(d) >= len(font) {
		return 0
	}
	cw, ch := cellSize(region, border)
	if cw <= 0 || ch <= 0 {
		return 0
	}

	n := 0
	for row := 0; row < Rows; row++ {
		v := font[d][row]
		for col := 0; col < Cols; col++ {
			if v&(1<<(Cols-col-1)) == 0 {
				continue
			}
			s.FillRect(Rect{
				X: region.X + border + col*cw,
				Y: region.Y + border + row*ch,
				W: cw,
				H: ch,
			}, c)
			n++
		}
	}
	return n
}

// RenderGroup paints the digit group background and the border strips along
// its top and bottom edges.
func RenderGroup(s Surface, group Rect, border int, bg, borderColor color.RGBA) {
	s.FillRect(group, bg)
	if border <= 0 {
		return
	}
	s.FillRect(Rect{X: group.X, Y: group.Y, W: group.W, H: border}, borderColor)
	s.FillRect(Rect{X: group.X, Y: group.Y + group.H - border, W: group.W, H: border}, borderColor)
}
