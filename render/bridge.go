package render

import "github.com/gdamore/tcell/v2"

// TcellToRGB converts tcell.Color to RGB
// ColorDefault and palette-less colors map to black
func TcellToRGB(c tcell.Color) RGB {
	if c == tcell.ColorDefault {
		return RGBBlack
	}
	r, g, b := c.RGB()
	if r < 0 {
		return RGBBlack
	}
	return RGB{uint8(r), uint8(g), uint8(b)}
}

// RGBToTcell converts RGB to tcell.Color
func RGBToTcell(rgb RGB) tcell.Color {
	return tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B))
}

// cellStyle builds the tcell style for a composed cell
func cellStyle(c Cell) tcell.Style {
	return tcell.StyleDefault.
		Foreground(RGBToTcell(c.Fg)).
		Background(RGBToTcell(c.Bg)).
		Attributes(c.Attrs)
}
