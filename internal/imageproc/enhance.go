package imageproc

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// EqualizeHistogram spreads the grayscale histogram over the full range.
// Good for captures with a compressed brightness band.
func EqualizeHistogram() Manipulation {
	return ManipulationFunc(func(img image.Image) (image.Image, error) {
		gray, err := grayMat(img)
		if err != nil {
			return nil, err
		}
		defer gray.Close()

		equalized := gocv.NewMat()
		defer equalized.Close()
		gocv.EqualizeHist(gray, &equalized)

		return equalized.ToImage()
	})
}

// CLAHE applies contrast limited adaptive histogram equalization. Unlike
// EqualizeHistogram it works on local tiles, so bright UI chrome does not
// wash out the dim listing text.
func CLAHE(clipLimit float64, tileSize int) Manipulation {
	return ManipulationFunc(func(img image.Image) (image.Image, error) {
		if clipLimit <= 0 || tileSize <= 0 {
			return nil, fmt.Errorf("clahe: invalid params clip=%v tile=%d", clipLimit, tileSize)
		}
		gray, err := grayMat(img)
		if err != nil {
			return nil, err
		}
		defer gray.Close()

		clahe := gocv.NewCLAHEWithParams(clipLimit, image.Point{X: tileSize, Y: tileSize})
		defer clahe.Close()

		enhanced := gocv.NewMat()
		defer enhanced.Close()
		clahe.Apply(gray, &enhanced)

		return enhanced.ToImage()
	})
}

// GaussianBlurStep smooths capture noise before thresholding. Kernel size
// must be odd.
func GaussianBlurStep(kernelSize int, sigma float64) Manipulation {
	return ManipulationFunc(func(img image.Image) (image.Image, error) {
		if kernelSize <= 0 || kernelSize%2 == 0 {
			return nil, fmt.Errorf("gaussian blur: kernel size %d must be positive and odd", kernelSize)
		}
		gray, err := grayMat(img)
		if err != nil {
			return nil, err
		}
		defer gray.Close()

		blurred := gocv.NewMat()
		defer blurred.Close()
		gocv.GaussianBlur(gray, &blurred, image.Point{X: kernelSize, Y: kernelSize}, sigma, sigma, gocv.BorderDefault)

		return blurred.ToImage()
	})
}

// AdaptiveThreshold binarizes against a per-neighborhood mean. Block size
// is forced odd; c is subtracted from the local mean.
func AdaptiveThreshold(blockSize, c int) Manipulation {
	return ManipulationFunc(func(img image.Image) (image.Image, error) {
		if blockSize < 3 {
			return nil, fmt.Errorf("adaptive threshold: block size %d too small", blockSize)
		}
		if blockSize%2 == 0 {
			blockSize++
		}
		gray, err := grayMat(img)
		if err != nil {
			return nil, err
		}
		defer gray.Close()

		binary := gocv.NewMat()
		defer binary.Close()
		gocv.AdaptiveThreshold(gray, &binary, 255,
			gocv.AdaptiveThresholdMean, gocv.ThresholdBinary, blockSize, float32(c))

		return binary.ToImage()
	})
}

// OtsuThreshold binarizes with an automatically selected global threshold.
// A 5x5 Gaussian blur runs first so capture noise does not skew the
// histogram Otsu picks from.
func OtsuThreshold() Manipulation {
	return ManipulationFunc(func(img image.Image) (image.Image, error) {
		gray, err := grayMat(img)
		if err != nil {
			return nil, err
		}
		defer gray.Close()

		blurred := gocv.NewMat()
		defer blurred.Close()
		gocv.GaussianBlur(gray, &blurred, image.Point{X: 5, Y: 5}, 0, 0, gocv.BorderDefault)

		binary := gocv.NewMat()
		defer binary.Close()
		gocv.Threshold(blurred, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

		return binary.ToImage()
	})
}

// grayMat converts an image to a single channel grayscale Mat. The caller
// owns the returned Mat.
func grayMat(img image.Image) (gocv.Mat, error) {
	rgba, err := gocv.ImageToMatRGBA(ToRGBA(img))
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("convert image to mat: %w", err)
	}
	defer rgba.Close()

	gray := gocv.NewMat()
	gocv.CvtColor(rgba, &gray, gocv.ColorRGBAToGray)
	return gray, nil
}
