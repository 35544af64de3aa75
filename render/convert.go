package render

import (
	"image"
	"image/color"
)

// quadrantChars maps 4-bit patterns to Unicode quadrant characters
// Bit order: 0=UL, 1=UR, 2=LL, 3=LR (1 = foreground)
var quadrantChars = [16]rune{
	' ', '▘', '▝', '▀',
	'▖', '▌', '▞', '▛',
	'▗', '▚', '▐', '▜',
	'▄', '▙', '▟', '█',
}

// ConvertMode selects how image pixels map to cells
type ConvertMode int

const (
	// ConvertBackground samples one pixel per cell into the background color
	ConvertBackground ConvertMode = iota
	// ConvertQuadrant samples 2x2 pixels per cell using quadrant glyphs
	ConvertQuadrant
)

// alphaCutoff is the 16-bit alpha below which a sample counts as transparent
const alphaCutoff = 0x8000

// ConvertImage converts an image to cells at targetWidth columns
// Terminal cells are roughly 2:1, so rows are halved to keep the aspect ratio
// Fully transparent regions become empty cells
func ConvertImage(img image.Image, targetWidth int, mode ConvertMode) ([]Cell, int, int) {
	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()
	if srcW == 0 || srcH == 0 || targetWidth <= 0 {
		return nil, 0, 0
	}

	aspectRatio := float64(srcH) / float64(srcW)
	outW := targetWidth
	outH := int(float64(targetWidth) * aspectRatio * 0.5)
	if outH < 1 {
		outH = 1
	}

	cells := make([]Cell, outW*outH)
	switch mode {
	case ConvertQuadrant:
		convertQuadrant(img, cells, outW, outH)
	default:
		convertBackground(img, cells, outW, outH)
	}
	return cells, outW, outH
}

// sample maps grid position gx,gy of a gridW x gridH grid to a source pixel
func sample(img image.Image, gx, gy, gridW, gridH int) (RGB, bool) {
	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	sx := bounds.Min.X + (gx*srcW+srcW/2)/gridW
	sy := bounds.Min.Y + (gy*srcH+srcH/2)/gridH
	if sx >= bounds.Max.X {
		sx = bounds.Max.X - 1
	}
	if sy >= bounds.Max.Y {
		sy = bounds.Max.Y - 1
	}
	return colorToRGB(img.At(sx, sy))
}

// convertBackground renders using background colors only
func convertBackground(img image.Image, cells []Cell, outW, outH int) {
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			rgb, opaque := sample(img, x, y, outW, outH)
			if !opaque {
				continue
			}
			cells[y*outW+x] = Cell{Rune: ' ', Fg: RGBText, Bg: rgb}
		}
	}
}

// convertQuadrant renders using quadrant characters with fg/bg colors
func convertQuadrant(img image.Image, cells []Cell, outW, outH int) {
	gridW := outW * 2
	gridH := outH * 2
	offsets := [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			var pixels [4]RGB
			anyOpaque := false
			for i, off := range offsets {
				rgb, opaque := sample(img, x*2+off[0], y*2+off[1], gridW, gridH)
				pixels[i] = rgb
				anyOpaque = anyOpaque || opaque
			}
			if !anyOpaque {
				continue
			}

			char, fg, bg := bestQuadrant(pixels)
			cells[y*outW+x] = Cell{Rune: char, Fg: fg, Bg: bg}
		}
	}
}

// bestQuadrant finds the quadrant glyph and fg/bg pair with the least color error
func bestQuadrant(pixels [4]RGB) (rune, RGB, RGB) {
	bestError := int(^uint(0) >> 1)
	bestPattern := 0
	var bestFg, bestBg RGB

	for pattern := 0; pattern < 16; pattern++ {
		fg, bg, err := patternColors(pixels, pattern)
		if err < bestError {
			bestError = err
			bestPattern = pattern
			bestFg = fg
			bestBg = bg
		}
	}
	return quadrantChars[bestPattern], bestFg, bestBg
}

// patternColors averages each group of a bit pattern and returns the total squared error
func patternColors(pixels [4]RGB, pattern int) (fg, bg RGB, totalError int) {
	var fgSum, bgSum [3]int
	var fgCount, bgCount int

	for i := 0; i < 4; i++ {
		sum := &bgSum
		if pattern&(1<<i) != 0 {
			sum = &fgSum
			fgCount++
		} else {
			bgCount++
		}
		sum[0] += int(pixels[i].R)
		sum[1] += int(pixels[i].G)
		sum[2] += int(pixels[i].B)
	}

	if fgCount > 0 {
		fg = RGB{uint8(fgSum[0] / fgCount), uint8(fgSum[1] / fgCount), uint8(fgSum[2] / fgCount)}
	}
	if bgCount > 0 {
		bg = RGB{uint8(bgSum[0] / bgCount), uint8(bgSum[1] / bgCount), uint8(bgSum[2] / bgCount)}
	}

	for i := 0; i < 4; i++ {
		target := bg
		if pattern&(1<<i) != 0 {
			target = fg
		}
		totalError += distanceSq(pixels[i], target)
	}
	return fg, bg, totalError
}

// colorToRGB converts color.Color to RGB, un-premultiplying alpha
// Returns false for samples under the transparency cutoff
func colorToRGB(c color.Color) (RGB, bool) {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return RGBBlack, false
	}
	return RGB{
		R: uint8((r * 0xff) / a),
		G: uint8((g * 0xff) / a),
		B: uint8((b * 0xff) / a),
	}, a >= alphaCutoff
}
