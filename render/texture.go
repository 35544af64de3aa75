package render

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrTextureDisposed is returned when loading a closed texture
var ErrTextureDisposed = errors.New("texture disposed")

// ErrUnsupportedTexture is returned for files that are neither PNG nor text
var ErrUnsupportedTexture = errors.New("unsupported texture format")

// Texture is a cell image loaded lazily from a PNG or a text file
type Texture struct {
	path     string
	maxWidth int
	source   *string

	cells  []Cell
	width  int
	height int

	loaded   bool
	disposed bool
}

// NewTexture creates an unloaded texture for path
// PNG images are scaled down to at most maxWidth columns; zero keeps one column per pixel
func NewTexture(path string, maxWidth int) *Texture {
	return &Texture{path: path, maxWidth: maxWidth}
}

// NewTextureFromText creates an unloaded texture over in-memory ASCII art
func NewTextureFromText(name, text string) *Texture {
	return &Texture{path: name, source: &text}
}

// NewTextureFromCells creates a loaded texture over cells in row-major order
func NewTextureFromCells(width, height int, cells []Cell) *Texture {
	if len(cells) < width*height {
		grown := make([]Cell, width*height)
		copy(grown, cells)
		cells = grown
	}
	return &Texture{
		cells:  cells,
		width:  width,
		height: height,
		loaded: true,
	}
}

// Path returns the source file
func (t *Texture) Path() string {
	return t.path
}

// Load reads and converts the source file; repeated calls after success are no-ops
func (t *Texture) Load() error {
	if t.disposed {
		return ErrTextureDisposed
	}
	if t.loaded {
		return nil
	}

	var err error
	switch ext := strings.ToLower(filepath.Ext(t.path)); {
	case t.source != nil:
		err = t.parseText(strings.NewReader(*t.source))
	case ext == ".png":
		err = t.loadPNG()
	case ext == ".txt":
		err = t.loadText()
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedTexture, t.path)
	}
	if err != nil {
		return err
	}
	t.loaded = true
	return nil
}

func (t *Texture) loadPNG() error {
	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode texture %s: %w", t.path, err)
	}

	width := img.Bounds().Dx()
	if t.maxWidth > 0 && width > t.maxWidth {
		width = t.maxWidth
	}
	t.cells, t.width, t.height = ConvertImage(img, width, ConvertQuadrant)
	return nil
}

func (t *Texture) loadText() error {
	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()
	return t.parseText(f)
}

// parseText reads ASCII art; spaces are transparent
func (t *Texture) parseText(r io.Reader) error {
	var lines [][]rune
	width := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := []rune(strings.TrimRight(scanner.Text(), "\r"))
		if len(line) > width {
			width = len(line)
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read texture %s: %w", t.path, err)
	}

	// Trailing blank lines carry no glyphs
	for len(lines) > 0 && strings.TrimSpace(string(lines[len(lines)-1])) == "" {
		lines = lines[:len(lines)-1]
	}

	t.width, t.height = width, len(lines)
	t.cells = make([]Cell, width*len(lines))
	for y, line := range lines {
		for x, r := range line {
			if r == ' ' || r == '\t' {
				continue
			}
			t.cells[y*width+x] = Cell{Rune: r, Fg: RGBText}
		}
	}
	return nil
}

// Loaded reports whether the texture holds cell data
func (t *Texture) Loaded() bool {
	return t.loaded && !t.disposed
}

// Disposed reports whether Close was called
func (t *Texture) Disposed() bool {
	return t.disposed
}

// Close releases cell data; safe to call more than once
func (t *Texture) Close() error {
	t.disposed = true
	t.loaded = false
	t.cells = nil
	t.source = nil
	return nil
}

// Size returns the dimensions in cells, zero until loaded
func (t *Texture) Size() (int, int) {
	if !t.Loaded() {
		return 0, 0
	}
	return t.width, t.height
}

// At returns the cell at x,y, false for empty cells
func (t *Texture) At(x, y int) (Cell, bool) {
	if !t.Loaded() || x < 0 || y < 0 || x >= t.width || y >= t.height {
		return Cell{}, false
	}
	c := t.cells[y*t.width+x]
	return c, !c.Empty()
}
