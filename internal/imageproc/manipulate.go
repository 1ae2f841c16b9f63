// Package imageproc provides the preprocessing manipulations applied to
// kiosk captures before recognition, plus shared raster conversion helpers.
package imageproc

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/Jessomadic/sc-trade-companion/internal/align"
	"github.com/Jessomadic/sc-trade-companion/pkg/geometry"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// Manipulation is one step of a preprocessing chain. Apply returns a new
// image and leaves its input untouched unless documented otherwise.
type Manipulation interface {
	Apply(img image.Image) (image.Image, error)
}

// ManipulationFunc adapts a function to the Manipulation interface.
type ManipulationFunc func(image.Image) (image.Image, error)

func (f ManipulationFunc) Apply(img image.Image) (image.Image, error) {
	return f(img)
}

// AlignToTemplate normalizes a capture into the frame of a reference
// template, validating the warp against the template and keeping the
// original capture when the alignment quality is too poor.
type AlignToTemplate struct {
	template      image.Image
	minSimilarity float64
}

// NewAlignToTemplate uses the default validation threshold.
func NewAlignToTemplate(template image.Image) *AlignToTemplate {
	return NewAlignToTemplateWithThreshold(template, align.DefaultMinSimilarity)
}

// NewAlignToTemplateWithThreshold uses a custom validation threshold;
// 0 disables validation.
func NewAlignToTemplateWithThreshold(template image.Image, minSimilarity float64) *AlignToTemplate {
	return &AlignToTemplate{template: template, minSimilarity: minSimilarity}
}

func (a *AlignToTemplate) Apply(img image.Image) (image.Image, error) {
	if a.template == nil {
		return nil, fmt.Errorf("align to template: no template loaded")
	}
	return align.AlignToReference(img, a.template, a.minSimilarity)
}

// Grayscale converts to grayscale, preserving dimensions.
func Grayscale() Manipulation {
	return ManipulationFunc(func(img image.Image) (image.Image, error) {
		return imaging.Grayscale(img), nil
	})
}

// Invert inverts all colors.
func Invert() Manipulation {
	return ManipulationFunc(func(img image.Image) (image.Image, error) {
		return effect.Invert(img), nil
	})
}

// BrightnessContrast adjusts brightness then contrast; both changes are
// fractions in [-1, 1] where 0 leaves the image unchanged.
func BrightnessContrast(brightness, contrast float64) Manipulation {
	return ManipulationFunc(func(img image.Image) (image.Image, error) {
		return adjust.Contrast(adjust.Brightness(img, brightness), contrast), nil
	})
}

// ScaleToHeight scales to the given height, keeping the aspect ratio.
func ScaleToHeight(height int) Manipulation {
	return ManipulationFunc(func(img image.Image) (image.Image, error) {
		if height <= 0 {
			return nil, fmt.Errorf("scale to height: invalid height %d", height)
		}
		return imaging.Resize(img, 0, height, imaging.Lanczos), nil
	})
}

// Crop extracts a rectangle, which must lie within the image.
func Crop(region geometry.RectInt) Manipulation {
	return ManipulationFunc(func(img image.Image) (image.Image, error) {
		bounds := img.Bounds()
		r := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height)
		if !r.In(bounds) {
			return nil, fmt.Errorf("crop %v out of image bounds %v", r, bounds)
		}
		return imaging.Crop(img, r), nil
	})
}

// InvertColors inverts colors in place. Destructive: transacts on the
// original image.
func InvertColors(img *image.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255 - img.Pix[i]
		img.Pix[i+1] = 255 - img.Pix[i+1]
		img.Pix[i+2] = 255 - img.Pix[i+2]
	}
}

// AdjustBrightnessAndContrast rescales each channel in place as
// p' = contrastScale*p + brightnessOffset, clamped to [0, 255].
// Destructive: transacts on the original image.
func AdjustBrightnessAndContrast(img *image.RGBA, contrastScale, brightnessOffset float64) {
	for i := 0; i < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := contrastScale*float64(img.Pix[i+c]) + brightnessOffset
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			img.Pix[i+c] = uint8(v + 0.5)
		}
	}
}

// ToRGBA returns img as *image.RGBA with origin (0,0), copying only when
// necessary.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// MakeCopy returns an independent RGBA copy of img.
func MakeCopy(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}
