package render

import (
	"github.com/gdamore/tcell/v2"
)

// Image is a cell grid that can be drawn onto a Canvas
// At reports false for transparent cells
type Image interface {
	Size() (int, int)
	At(x, y int) (Cell, bool)
}

// Canvas is the rendering context used by the frame orchestrator and scenes
// Drawing happens between Begin and End; Save/Restore and SaveTx/RestoreTx must be balanced
type Canvas interface {
	// Save pushes alpha and transform; Restore pops both
	Save()
	Restore()
	// SaveTx pushes the transform only; RestoreTx pops it
	SaveTx()
	RestoreTx()

	Begin()
	End()
	Clear(r, g, b, a float32)

	Translate(dx, dy int)
	SetAlpha(a float64)
	Alpha() float64

	DrawImage(img Image, x, y int)
	DrawCell(x, y int, c Cell)
	DrawText(x, y int, text string, fg RGB)

	Size() (int, int)
}

type transform struct {
	dx, dy int
}

type brushState struct {
	alpha float64
	tx    transform
}

// Context is a Canvas composing into a Buffer and flushing to a tcell.Screen on End
type Context struct {
	screen tcell.Screen
	buf    *Buffer

	alpha float64
	tx    transform

	brushStack []brushState
	txStack    []transform

	drawing bool
	begins  int
	ends    int
}

// NewContext creates a context over screen sized to the current screen
func NewContext(screen tcell.Screen) *Context {
	w, h := screen.Size()
	return &Context{
		screen:     screen,
		buf:        NewBuffer(w, h),
		alpha:      1.0,
		brushStack: make([]brushState, 0, 4),
		txStack:    make([]transform, 0, 4),
	}
}

// Screen returns the underlying surface
func (c *Context) Screen() tcell.Screen {
	return c.screen
}

// Buffer returns the frame buffer, valid until the next Begin
func (c *Context) Buffer() *Buffer {
	return c.buf
}

func (c *Context) Save() {
	c.brushStack = append(c.brushStack, brushState{alpha: c.alpha, tx: c.tx})
}

// Restore is a no-op on an empty stack
func (c *Context) Restore() {
	n := len(c.brushStack)
	if n == 0 {
		return
	}
	st := c.brushStack[n-1]
	c.brushStack = c.brushStack[:n-1]
	c.alpha = st.alpha
	c.tx = st.tx
}

func (c *Context) SaveTx() {
	c.txStack = append(c.txStack, c.tx)
}

// RestoreTx is a no-op on an empty stack
func (c *Context) RestoreTx() {
	n := len(c.txStack)
	if n == 0 {
		return
	}
	c.tx = c.txStack[n-1]
	c.txStack = c.txStack[:n-1]
}

// Depth returns the number of unbalanced Save and SaveTx calls
func (c *Context) Depth() (brush, tx int) {
	return len(c.brushStack), len(c.txStack)
}

// Begin starts a frame, resizing the buffer to the screen
func (c *Context) Begin() {
	if c.drawing {
		return
	}
	w, h := c.screen.Size()
	if bw, bh := c.buf.Size(); bw != w || bh != h {
		c.buf.Resize(w, h)
	}
	c.drawing = true
	c.begins++
}

// End flushes the frame to the screen
func (c *Context) End() {
	if !c.drawing {
		return
	}
	c.drawing = false
	c.ends++

	w, h := c.buf.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := c.buf.cells[y*w+x]
			r := cell.Rune
			if r == 0 {
				r = ' '
			}
			c.screen.SetContent(x, y, r, nil, cellStyle(cell))
		}
	}
	c.screen.Show()
}

// Drawing reports whether a frame is open
func (c *Context) Drawing() bool {
	return c.drawing
}

// Frames returns the number of Begin and End calls that opened and closed a frame
func (c *Context) Frames() (begins, ends int) {
	return c.begins, c.ends
}

// Clear fills the frame with the color scaled by a
func (c *Context) Clear(r, g, b, a float32) {
	bg := Scale(RGBFromFloat(r, g, b), float64(a))
	c.buf.Fill(Cell{Fg: RGBText, Bg: bg})
}

func (c *Context) Translate(dx, dy int) {
	c.tx.dx += dx
	c.tx.dy += dy
}

// SetAlpha sets the global blend factor, clamped to [0,1]
func (c *Context) SetAlpha(a float64) {
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	c.alpha = a
}

func (c *Context) Alpha() float64 {
	return c.alpha
}

// DrawImage composites img with its top-left corner at x,y
func (c *Context) DrawImage(img Image, x, y int) {
	if img == nil || c.alpha <= 0 {
		return
	}
	w, h := img.Size()
	ox, oy := x+c.tx.dx, y+c.tx.dy
	for iy := 0; iy < h; iy++ {
		for ix := 0; ix < w; ix++ {
			cell, ok := img.At(ix, iy)
			if !ok {
				continue
			}
			c.buf.Blend(ox+ix, oy+iy, cell, c.alpha)
		}
	}
}

func (c *Context) DrawCell(x, y int, cell Cell) {
	c.buf.Blend(x+c.tx.dx, y+c.tx.dy, cell, c.alpha)
}

// DrawText writes text on one row, keeping the background
func (c *Context) DrawText(x, y int, text string, fg RGB) {
	ox, oy := x+c.tx.dx, y+c.tx.dy
	i := 0
	for _, r := range text {
		c.buf.BlendFg(ox+i, oy, r, fg, c.alpha)
		i++
	}
}

// Size returns the frame dimensions
func (c *Context) Size() (int, int) {
	return c.buf.Size()
}
