package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Viridis anchor colors, blended in Lab space for perceptual uniformity.
var viridisAnchors = []string{
	"#440154", "#472d7b", "#3b528b", "#2c728e", "#21918c",
	"#28ae80", "#5ec962", "#addc30", "#fde725",
}

var viridis []colorful.Color

func init() {
	viridis = make([]colorful.Color, len(viridisAnchors))
	for i, hex := range viridisAnchors {
		c, err := colorful.Hex(hex)
		if err != nil {
			panic("render: bad viridis anchor " + hex)
		}
		viridis[i] = c
	}
}

// colormapAt maps t in [0,1] onto the viridis gradient. Out-of-range values
// are clamped.
func colormapAt(t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	pos := t * float64(len(viridis)-1)
	i := int(pos)
	if i >= len(viridis)-1 {
		return toRGBA(viridis[len(viridis)-1])
	}
	return toRGBA(viridis[i].BlendLab(viridis[i+1], pos-float64(i)))
}

// colormapLUT precomputes n gradient entries for per-pixel lookups.
func colormapLUT(n int) []color.RGBA {
	lut := make([]color.RGBA, n)
	for i := range lut {
		lut[i] = colormapAt(float64(i) / float64(n-1))
	}
	return lut
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
