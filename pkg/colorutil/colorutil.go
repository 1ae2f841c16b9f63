// Package colorutil provides shared color utilities for capture analysis.
package colorutil

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Jessomadic/sc-trade-companion/pkg/geometry"

	"github.com/lucasb-eyer/go-colorful"
)

// Common colors used for debug overlays.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

// AverageColor returns the mean color of a region. The region must lie
// within the image bounds.
func AverageColor(img image.Image, region geometry.RectInt) (color.RGBA, error) {
	r := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height)
	if !r.In(img.Bounds()) {
		return color.RGBA{}, fmt.Errorf("region %v out of image bounds %v", r, img.Bounds())
	}
	if r.Empty() {
		return color.RGBA{}, fmt.Errorf("empty region %v", r)
	}

	var sumR, sumG, sumB uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			sumR += uint64(cr >> 8)
			sumG += uint64(cg >> 8)
			sumB += uint64(cb >> 8)
		}
	}

	n := uint64(r.Dx() * r.Dy())
	return color.RGBA{
		R: uint8(sumR / n),
		G: uint8(sumG / n),
		B: uint8(sumB / n),
		A: 255,
	}, nil
}

// DominantColor returns the most common color of a region after
// quantizing each channel into buckets of 25 levels. The bucket winner is
// averaged back, so the result is a real color from the region's
// neighborhood rather than a bucket corner.
func DominantColor(img image.Image, region geometry.RectInt) (color.RGBA, error) {
	r := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height)
	if !r.In(img.Bounds()) {
		return color.RGBA{}, fmt.Errorf("region %v out of image bounds %v", r, img.Bounds())
	}
	if r.Empty() {
		return color.RGBA{}, fmt.Errorf("empty region %v", r)
	}

	type bucket struct {
		count            int
		sumR, sumG, sumB uint64
	}
	buckets := make(map[[3]uint8]*bucket)

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r8, g8, b8 := uint8(cr>>8), uint8(cg>>8), uint8(cb>>8)
			key := [3]uint8{r8 / 25, g8 / 25, b8 / 25}
			b, ok := buckets[key]
			if !ok {
				b = &bucket{}
				buckets[key] = b
			}
			b.count++
			b.sumR += uint64(r8)
			b.sumG += uint64(g8)
			b.sumB += uint64(b8)
		}
	}

	var best *bucket
	for _, b := range buckets {
		if best == nil || b.count > best.count {
			best = b
		}
	}

	n := uint64(best.count)
	return color.RGBA{
		R: uint8(best.sumR / n),
		G: uint8(best.sumG / n),
		B: uint8(best.sumB / n),
		A: 255,
	}, nil
}

// Distance returns the perceptual distance between two colors in CIE Lab
// space. 0 is identical; distances above roughly 0.2 read as clearly
// different colors.
func Distance(a, b color.RGBA) float64 {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	return ca.DistanceLab(cb)
}

// IsDark reports whether a color reads as dark, using Lab lightness.
func IsDark(c color.RGBA) bool {
	cc := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	l, _, _ := cc.Lab()
	return l < 0.5
}
