package imageproc

import (
	"image"

	"github.com/Jessomadic/sc-trade-companion/pkg/colorutil"
	"github.com/Jessomadic/sc-trade-companion/pkg/geometry"

	"github.com/anthonynsimon/bild/effect"
)

// NormalizePolarity inverts light-on-dark captures. Kiosk listings render
// bright text on a dark background, while recognizers expect dark text on a
// light background; a capture whose average color reads as dark gets
// inverted, anything else passes through unchanged.
func NormalizePolarity() Manipulation {
	return ManipulationFunc(func(img image.Image) (image.Image, error) {
		bounds := img.Bounds()
		avg, err := colorutil.AverageColor(img, geometry.RectInt{
			X:      bounds.Min.X,
			Y:      bounds.Min.Y,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		})
		if err != nil {
			return nil, err
		}
		if colorutil.IsDark(avg) {
			return effect.Invert(img), nil
		}
		return img, nil
	})
}
