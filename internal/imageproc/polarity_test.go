package imageproc

import (
	"image"
	"image/color"
	"testing"
)

func TestNormalizePolarityInvertsLightOnDark(t *testing.T) {
	// Dark background, a few bright text pixels.
	img := solidImage(10, 10, color.RGBA{R: 20, G: 20, B: 20, A: 255})
	img.SetRGBA(3, 3, color.RGBA{R: 240, G: 240, B: 240, A: 255})

	out, err := NormalizePolarity().Apply(img)
	if err != nil {
		t.Fatalf("NormalizePolarity: %v", err)
	}

	r, _, _, _ := out.At(0, 0).RGBA()
	if r>>8 != 235 {
		t.Errorf("background not inverted: got %d, want 235", r>>8)
	}
	tr, _, _, _ := out.At(3, 3).RGBA()
	if tr>>8 != 15 {
		t.Errorf("text pixel not inverted: got %d, want 15", tr>>8)
	}
}

func TestNormalizePolarityKeepsDarkOnLight(t *testing.T) {
	img := solidImage(10, 10, color.RGBA{R: 230, G: 230, B: 230, A: 255})
	img.SetRGBA(5, 5, color.RGBA{R: 10, G: 10, B: 10, A: 255})

	out, err := NormalizePolarity().Apply(img)
	if err != nil {
		t.Fatalf("NormalizePolarity: %v", err)
	}
	if out != image.Image(img) {
		t.Error("dark-on-light capture should pass through unchanged")
	}
}
