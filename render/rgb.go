package render

// RGB is a 24-bit color
type RGB struct {
	R, G, B uint8
}

// Predefined colors
var (
	RGBBlack = RGB{0, 0, 0}
	RGBWhite = RGB{255, 255, 255}

	// RGBText is the default foreground for ASCII art and diagnostics
	RGBText = RGB{220, 220, 220}
)

// RGBFromFloat converts [0,1] channels to RGB, clamping out-of-range values
func RGBFromFloat(r, g, b float32) RGB {
	return RGB{
		R: clamp(float64(r) * 255.0),
		G: clamp(float64(g) * 255.0),
		B: clamp(float64(b) * 255.0),
	}
}

// clamp converts float to uint8 with saturation
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v + 0.5)
}

// Blend mixes src over c with alpha
// If alpha is 1.0 or 0.0, we return early to save math
func Blend(c, src RGB, alpha float64) RGB {
	if alpha >= 1.0 {
		return src
	}
	if alpha <= 0.0 {
		return c
	}

	inv := 1.0 - alpha

	return RGB{
		R: clamp(float64(src.R)*alpha + float64(c.R)*inv),
		G: clamp(float64(src.G)*alpha + float64(c.G)*inv),
		B: clamp(float64(src.B)*alpha + float64(c.B)*inv),
	}
}

// Scale multiplies all channels by factor (0.0-1.0)
func Scale(c RGB, factor float64) RGB {
	return RGB{
		R: clamp(float64(c.R) * factor),
		G: clamp(float64(c.G) * factor),
		B: clamp(float64(c.B) * factor),
	}
}

// Lerp linearly interpolates between two colors
// t=0 returns a, t=1 returns b
func Lerp(a, b RGB, t float64) RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return RGB{
		R: clamp(float64(a.R) + t*float64(int(b.R)-int(a.R))),
		G: clamp(float64(a.G) + t*float64(int(b.G)-int(a.G))),
		B: clamp(float64(a.B) + t*float64(int(b.B)-int(a.B))),
	}
}

// distanceSq computes squared Euclidean distance in RGB space
func distanceSq(a, b RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}
