package render

import "github.com/gdamore/tcell/v2"

// Cell is one composed terminal cell
// Rune 0 marks an empty cell; images treat it as transparent
type Cell struct {
	Rune  rune
	Fg    RGB
	Bg    RGB
	Attrs tcell.AttrMask
}

// Empty reports whether the cell carries no glyph
func (c Cell) Empty() bool {
	return c.Rune == 0
}
