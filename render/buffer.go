package render

// Buffer is a row-major cell grid composited during a frame
type Buffer struct {
	cells  []Cell
	width  int
	height int
}

// NewBuffer creates a buffer with the specified dimensions
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Fill(Cell{})
}

// Size returns the buffer dimensions
func (b *Buffer) Size() (int, int) {
	return b.width, b.height
}

// Fill sets every cell to c using exponential copy
func (b *Buffer) Fill(c Cell) {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = c
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// inBounds returns true if in buffer bounds
func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Get returns the cell at x,y
func (b *Buffer) Get(x, y int) (Cell, bool) {
	if !b.inBounds(x, y) {
		return Cell{}, false
	}
	return b.cells[y*b.width+x], true
}

// Set replaces the cell at x,y
func (b *Buffer) Set(x, y int, c Cell) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = c
}

// Blend composites src over the cell at x,y with alpha
// Glyph and attributes are replaced when src carries a glyph and alpha is positive
func (b *Buffer) Blend(x, y int, src Cell, alpha float64) {
	if alpha <= 0 || !b.inBounds(x, y) {
		return
	}
	dst := &b.cells[y*b.width+x]
	if src.Rune != 0 {
		// Glyph fades in from the cell it covers
		dst.Fg = Blend(dst.Bg, src.Fg, alpha)
		dst.Rune = src.Rune
		dst.Attrs = src.Attrs
	}
	dst.Bg = Blend(dst.Bg, src.Bg, alpha)
}

// BlendFg writes a glyph over the existing background
func (b *Buffer) BlendFg(x, y int, r rune, fg RGB, alpha float64) {
	if alpha <= 0 || !b.inBounds(x, y) {
		return
	}
	dst := &b.cells[y*b.width+x]
	dst.Rune = r
	dst.Fg = Blend(dst.Bg, fg, alpha)
	dst.Attrs = 0
}
