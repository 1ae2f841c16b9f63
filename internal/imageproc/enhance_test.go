package imageproc

import (
	"image"
	"image/color"
	"testing"
)

// bimodalImage has two well-separated brightness populations, the shape
// Otsu's method is built for.
func bimodalImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			v := uint8(30)
			if x >= 20 {
				v = 220
			}
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestOtsuThresholdProducesBinaryOutput(t *testing.T) {
	out, err := OtsuThreshold().Apply(bimodalImage())
	if err != nil {
		t.Fatalf("OtsuThreshold: %v", err)
	}
	if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 40 {
		t.Fatalf("dimensions changed: %v", out.Bounds())
	}

	// Away from the edge between the populations every pixel must be driven
	// to one of the two extremes, blur notwithstanding.
	for _, x := range []int{2, 37} {
		r, _, _, _ := out.At(x, 20).RGBA()
		if v := r >> 8; v != 0 && v != 255 {
			t.Errorf("pixel at x=%d is %d, want 0 or 255", x, v)
		}
	}
	dark, _, _, _ := out.At(2, 20).RGBA()
	bright, _, _, _ := out.At(37, 20).RGBA()
	if dark>>8 != 0 || bright>>8 != 255 {
		t.Errorf("sides not split: dark=%d bright=%d", dark>>8, bright>>8)
	}
}

func TestCLAHERejectsInvalidParams(t *testing.T) {
	if _, err := CLAHE(0, 8).Apply(bimodalImage()); err == nil {
		t.Error("expected error for zero clip limit")
	}
	if _, err := CLAHE(2.0, 0).Apply(bimodalImage()); err == nil {
		t.Error("expected error for zero tile size")
	}
}

func TestGaussianBlurStepRejectsEvenKernel(t *testing.T) {
	if _, err := GaussianBlurStep(4, 1.0).Apply(bimodalImage()); err == nil {
		t.Error("expected error for an even kernel size")
	}
}

func TestAdaptiveThresholdRejectsTinyBlock(t *testing.T) {
	if _, err := AdaptiveThreshold(1, 5).Apply(bimodalImage()); err == nil {
		t.Error("expected error for block size below 3")
	}
}
