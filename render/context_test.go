package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func contentAt(t *testing.T, screen tcell.Screen, x, y int) (rune, RGB, RGB) {
	t.Helper()
	r, _, style, _ := screen.GetContent(x, y)
	fg, bg, _ := style.Decompose()
	return r, TcellToRGB(fg), TcellToRGB(bg)
}

func TestContextClearAndFlush(t *testing.T) {
	screen := newSimScreen(t, 10, 4)
	ctx := NewContext(screen)

	ctx.Begin()
	ctx.Clear(1, 0, 0, 1)
	ctx.DrawText(2, 1, "FPS", RGBWhite)
	ctx.End()

	_, _, bg := contentAt(t, screen, 0, 0)
	if bg != (RGB{255, 0, 0}) {
		t.Errorf("Expected red background, got %+v", bg)
	}

	r, fg, bg := contentAt(t, screen, 3, 1)
	if r != 'P' {
		t.Errorf("Expected 'P' at 3,1, got %q", r)
	}
	if fg != RGBWhite {
		t.Errorf("Expected white text, got %+v", fg)
	}
	if bg != (RGB{255, 0, 0}) {
		t.Errorf("Text must keep the cleared background, got %+v", bg)
	}

	begins, ends := ctx.Frames()
	if begins != 1 || ends != 1 {
		t.Errorf("Expected 1 begin and 1 end, got %d/%d", begins, ends)
	}
}

func TestContextClearScaledByAlpha(t *testing.T) {
	screen := newSimScreen(t, 4, 2)
	ctx := NewContext(screen)

	ctx.Begin()
	ctx.Clear(1, 1, 1, 0)
	ctx.End()

	_, _, bg := contentAt(t, screen, 1, 1)
	if bg != RGBBlack {
		t.Errorf("Expected black for zero alpha clear, got %+v", bg)
	}
}

func TestContextBeginEndIdempotent(t *testing.T) {
	screen := newSimScreen(t, 4, 2)
	ctx := NewContext(screen)

	ctx.End()
	ctx.Begin()
	ctx.Begin()
	if !ctx.Drawing() {
		t.Fatal("Expected open frame")
	}
	ctx.End()
	ctx.End()

	begins, ends := ctx.Frames()
	if begins != 1 || ends != 1 {
		t.Errorf("Expected balanced single frame, got %d/%d", begins, ends)
	}
}

func TestContextSaveRestore(t *testing.T) {
	screen := newSimScreen(t, 4, 2)
	ctx := NewContext(screen)

	ctx.Save()
	ctx.SetAlpha(0.25)
	ctx.Translate(2, 1)
	ctx.SaveTx()
	ctx.Translate(5, 5)
	ctx.RestoreTx()
	if ctx.tx != (transform{2, 1}) {
		t.Errorf("RestoreTx should return to 2,1, got %+v", ctx.tx)
	}
	ctx.Restore()

	if ctx.Alpha() != 1.0 {
		t.Errorf("Expected alpha restored to 1, got %f", ctx.Alpha())
	}
	if ctx.tx != (transform{}) {
		t.Errorf("Expected identity transform, got %+v", ctx.tx)
	}

	brush, tx := ctx.Depth()
	if brush != 0 || tx != 0 {
		t.Errorf("Expected empty stacks, got %d/%d", brush, tx)
	}

	// Unbalanced pops are ignored
	ctx.Restore()
	ctx.RestoreTx()
}

func TestContextDrawImageAlpha(t *testing.T) {
	screen := newSimScreen(t, 6, 3)
	ctx := NewContext(screen)

	img := NewTextureFromCells(2, 1, []Cell{
		{Rune: '#', Fg: RGB{200, 100, 0}, Bg: RGB{100, 100, 100}},
		{},
	})

	ctx.Begin()
	ctx.Clear(0, 0, 0, 0)
	ctx.Save()
	ctx.SetAlpha(0.5)
	ctx.Translate(1, 1)
	ctx.DrawImage(img, 0, 0)
	ctx.Restore()
	ctx.End()

	r, fg, bg := contentAt(t, screen, 1, 1)
	if r != '#' {
		t.Errorf("Expected '#' at translated position, got %q", r)
	}
	if fg != (RGB{100, 50, 0}) {
		t.Errorf("Expected half-blended fg, got %+v", fg)
	}
	if bg != (RGB{50, 50, 50}) {
		t.Errorf("Expected half-blended bg, got %+v", bg)
	}

	// Transparent cell leaves the clear color
	r, _, bg = contentAt(t, screen, 2, 1)
	if r != ' ' || bg != RGBBlack {
		t.Errorf("Expected untouched cell, got %q %+v", r, bg)
	}
}

func TestContextZeroAlphaDrawsNothing(t *testing.T) {
	screen := newSimScreen(t, 4, 1)
	ctx := NewContext(screen)

	ctx.Begin()
	ctx.Clear(0, 0, 0, 0)
	ctx.SetAlpha(0)
	ctx.DrawCell(0, 0, Cell{Rune: 'X', Fg: RGBWhite, Bg: RGBWhite})
	ctx.DrawText(1, 0, "Y", RGBWhite)
	ctx.End()

	for x := 0; x < 2; x++ {
		if r, _, _ := contentAt(t, screen, x, 0); r != ' ' {
			t.Errorf("Expected blank at %d, got %q", x, r)
		}
	}
}

func TestContextResizesOnBegin(t *testing.T) {
	screen := newSimScreen(t, 4, 2)
	ctx := NewContext(screen)

	screen.SetSize(8, 5)
	ctx.Begin()
	w, h := ctx.Size()
	ctx.End()

	if w != 8 || h != 5 {
		t.Errorf("Expected 8x5 after resize, got %dx%d", w, h)
	}
}
