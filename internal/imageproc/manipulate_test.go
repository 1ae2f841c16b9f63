package imageproc

import (
	"image"
	"image/color"
	"testing"

	"github.com/Jessomadic/sc-trade-companion/pkg/geometry"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestInvertColorsInPlace(t *testing.T) {
	img := solidImage(2, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	InvertColors(img)

	got := img.RGBAAt(0, 0)
	want := color.RGBA{R: 245, G: 235, B: 225, A: 255}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestInvertColorsPreservesAlpha(t *testing.T) {
	img := solidImage(1, 1, color.RGBA{R: 100, G: 100, B: 100, A: 128})

	InvertColors(img)

	if a := img.RGBAAt(0, 0).A; a != 128 {
		t.Errorf("alpha changed to %d", a)
	}
}

func TestAdjustBrightnessAndContrastClamps(t *testing.T) {
	img := solidImage(1, 1, color.RGBA{R: 200, G: 10, B: 128, A: 255})

	AdjustBrightnessAndContrast(img, 2.0, 50)

	got := img.RGBAAt(0, 0)
	if got.R != 255 {
		t.Errorf("red should clamp to 255, got %d", got.R)
	}
	if got.G != 70 {
		t.Errorf("green: got %d, want 70", got.G)
	}
	if got.A != 255 {
		t.Errorf("alpha changed to %d", got.A)
	}
}

func TestAdjustBrightnessAndContrastDarkens(t *testing.T) {
	img := solidImage(1, 1, color.RGBA{R: 100, G: 100, B: 100, A: 255})

	AdjustBrightnessAndContrast(img, 1.0, -200)

	if got := img.RGBAAt(0, 0).R; got != 0 {
		t.Errorf("should clamp to 0, got %d", got)
	}
}

func TestScaleToHeightKeepsAspectRatio(t *testing.T) {
	img := solidImage(400, 200, color.RGBA{A: 255})

	scaled, err := ScaleToHeight(100).Apply(img)
	if err != nil {
		t.Fatalf("ScaleToHeight: %v", err)
	}

	bounds := scaled.Bounds()
	if bounds.Dy() != 100 || bounds.Dx() != 200 {
		t.Errorf("got %dx%d, want 200x100", bounds.Dx(), bounds.Dy())
	}
}

func TestScaleToHeightRejectsInvalidHeight(t *testing.T) {
	if _, err := ScaleToHeight(0).Apply(solidImage(4, 4, color.RGBA{})); err == nil {
		t.Fatal("expected error for height 0")
	}
}

func TestCropExtractsRegion(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.SetRGBA(5, 5, color.RGBA{R: 255, A: 255})

	cropped, err := Crop(geometry.RectInt{X: 4, Y: 4, Width: 3, Height: 3}).Apply(img)
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}

	bounds := cropped.Bounds()
	if bounds.Dx() != 3 || bounds.Dy() != 3 {
		t.Fatalf("got %dx%d, want 3x3", bounds.Dx(), bounds.Dy())
	}
	r, _, _, _ := cropped.At(bounds.Min.X+1, bounds.Min.Y+1).RGBA()
	if r == 0 {
		t.Error("marker pixel missing from cropped region")
	}
}

func TestCropOutOfBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if _, err := Crop(geometry.RectInt{X: 8, Y: 8, Width: 5, Height: 5}).Apply(img); err == nil {
		t.Fatal("expected error for out of bounds crop")
	}
}

func TestGrayscalePreservesDimensions(t *testing.T) {
	img := solidImage(7, 3, color.RGBA{R: 200, G: 50, B: 10, A: 255})

	gray, err := Grayscale().Apply(img)
	if err != nil {
		t.Fatalf("Grayscale: %v", err)
	}
	bounds := gray.Bounds()
	if bounds.Dx() != 7 || bounds.Dy() != 3 {
		t.Errorf("got %dx%d, want 7x3", bounds.Dx(), bounds.Dy())
	}
}

func TestToRGBAReusesCompatibleImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if ToRGBA(img) != img {
		t.Error("expected the same image back")
	}
}

func TestToRGBANormalizesOrigin(t *testing.T) {
	img := image.NewRGBA(image.Rect(2, 2, 6, 6))
	img.SetRGBA(3, 3, color.RGBA{G: 255, A: 255})

	rgba := ToRGBA(img)
	if rgba.Bounds().Min != (image.Point{}) {
		t.Fatalf("origin not normalized: %v", rgba.Bounds())
	}
	if got := rgba.RGBAAt(1, 1); got.G != 255 {
		t.Errorf("pixel not translated, got %v", got)
	}
}

func TestMakeCopyIsIndependent(t *testing.T) {
	img := solidImage(2, 2, color.RGBA{R: 50, A: 255})
	dup := MakeCopy(img)

	img.SetRGBA(0, 0, color.RGBA{R: 200, A: 255})

	if dup.RGBAAt(0, 0).R != 50 {
		t.Error("copy shares pixels with the original")
	}
}
