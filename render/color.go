package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette
var (
	Background = colorful.Color{R: 0.10, G: 0.11, B: 0.15}
	Relaxed    = colorful.Color{R: 0.45, G: 0.85, B: 0.45}
	Stretched  = colorful.Color{R: 0.95, G: 0.85, B: 0.30}
	Breaking   = colorful.Color{R: 0.95, G: 0.30, B: 0.25}
	Pinned     = colorful.Color{R: 0.55, G: 0.65, B: 1.00}
	EntityFg   = colorful.Color{R: 0.40, G: 0.90, B: 0.95}
	StaticFg   = colorful.Color{R: 0.45, G: 0.50, B: 0.75}
	ColliderFg = colorful.Color{R: 0.85, G: 0.55, B: 0.95}
	VelocityFg = colorful.Color{R: 0.95, G: 0.95, B: 0.40}
	HUDFg      = colorful.Color{R: 0.80, G: 0.82, B: 0.88}
)

// StrainSaturation is the absolute strain drawn fully red
const StrainSaturation = 0.25

// StrainColor maps link strain onto relaxed, stretched and breaking hues,
// blended in Lab space so the midpoint stays perceptually even
func StrainColor(strain float64) colorful.Color {
	t := math.Min(math.Abs(strain)/StrainSaturation, 1)
	if t < 0.5 {
		return Relaxed.BlendLab(Stretched, t*2).Clamped()
	}
	return Stretched.BlendLab(Breaking, (t-0.5)*2).Clamped()
}

// Dim scales a colour toward the background by f in [0, 1]
func Dim(c colorful.Color, f float64) colorful.Color {
	return Background.BlendRgb(c, f)
}
