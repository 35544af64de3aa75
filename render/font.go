package render

import "unicode"

// Font is a fixed glyph set for diagnostics text
// Characters outside the set render as blanks so unsupported text never garbles the overlay
type Font struct {
	glyphs map[rune]struct{}
	closed bool
}

// NewFont builds a font from charset
func NewFont(charset string) *Font {
	glyphs := make(map[rune]struct{}, len(charset))
	for _, r := range charset {
		glyphs[r] = struct{}{}
	}
	return &Font{glyphs: glyphs}
}

// Has reports whether r, or its upper-case form, is in the set
func (f *Font) Has(r rune) bool {
	_, ok := f.glyph(r)
	return ok
}

func (f *Font) glyph(r rune) (rune, bool) {
	if _, ok := f.glyphs[r]; ok {
		return r, true
	}
	if u := unicode.ToUpper(r); u != r {
		if _, ok := f.glyphs[u]; ok {
			return u, true
		}
	}
	return ' ', false
}

// DrawString draws text at x,y; no-op after Close
func (f *Font) DrawString(target Canvas, text string, x, y int, fg RGB) {
	if f.closed || target == nil {
		return
	}
	var b []rune
	for _, r := range text {
		g, _ := f.glyph(r)
		b = append(b, g)
	}
	target.DrawText(x, y, string(b), fg)
}

// Closed reports whether Close was called
func (f *Font) Closed() bool {
	return f.closed
}

// Close releases the glyph table; safe to call more than once
func (f *Font) Close() error {
	f.closed = true
	f.glyphs = nil
	return nil
}
