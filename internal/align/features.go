package align

import (
	"fmt"
	"image"
	"image/draw"
	"sort"

	"gocv.io/x/gocv"
)

const (
	// maxFeatures is the ORB keypoint cap. gocv.NewORB's default detector is
	// configured for this many oriented keypoints.
	maxFeatures = 500

	// keepMatchFraction is the share of best matches retained for homography
	// estimation.
	keepMatchFraction = 0.1

	// minHomographyMatches is the minimum number of correspondences needed to
	// solve a projective transform.
	minHomographyMatches = 4
)

// imageFeatures holds detected keypoints and their binary descriptors for one
// image. Close must be called to release the descriptor Mat.
type imageFeatures struct {
	keypoints   []gocv.KeyPoint
	descriptors gocv.Mat
}

func (f *imageFeatures) Close() {
	f.descriptors.Close()
}

// detectFeatures extracts the blue channel of img and detects ORB keypoints
// with rotation-invariant binary descriptors on it. The blue channel is used
// deliberately: it carries the best discriminative texture of the kiosk
// reference art, better than a full grayscale conversion.
func detectFeatures(img image.Image) (*imageFeatures, error) {
	blue, err := blueChannel(img)
	if err != nil {
		return nil, err
	}
	defer blue.Close()

	orb := gocv.NewORB()
	defer orb.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	keypoints, descriptors := orb.DetectAndCompute(blue, mask)
	return &imageFeatures{keypoints: keypoints, descriptors: descriptors}, nil
}

// blueChannel returns the blue channel of img as a single-channel Mat.
func blueChannel(img image.Image) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGBA(toRGBA(img))
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("convert image to mat: %w", err)
	}
	defer mat.Close()

	channels := gocv.Split(mat)
	if len(channels) != 4 {
		for _, ch := range channels {
			ch.Close()
		}
		return gocv.Mat{}, fmt.Errorf("expected 4 channels, got %d", len(channels))
	}

	// RGBA layout: index 2 is the blue channel.
	for i, ch := range channels {
		if i != 2 {
			ch.Close()
		}
	}
	return channels[2], nil
}

// matchFeatures computes nearest-neighbor correspondences between query and
// train descriptors using brute-force Hamming distance.
func matchFeatures(query, train gocv.Mat) []gocv.DMatch {
	matcher := gocv.NewBFMatcherWithParams(gocv.NormHamming, false)
	defer matcher.Close()

	knn := matcher.KnnMatch(query, train, 1)
	matches := make([]gocv.DMatch, 0, len(knn))
	for _, candidates := range knn {
		if len(candidates) > 0 {
			matches = append(matches, candidates[0])
		}
	}
	return matches
}

// filterMatches sorts matches ascending by distance and keeps the best 10%,
// but never fewer than the 4 required to solve a homography. Fails when fewer
// than 4 matches exist at all.
func filterMatches(matches []gocv.DMatch) ([]gocv.DMatch, error) {
	if len(matches) < minHomographyMatches {
		return nil, ErrInsufficientMatches
	}

	sorted := make([]gocv.DMatch, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Distance < sorted[j].Distance
	})

	keep := int(float64(len(sorted)) * keepMatchFraction)
	if keep < minHomographyMatches {
		keep = minHomographyMatches
	}
	if keep > len(sorted) {
		keep = len(sorted)
	}
	return sorted[:keep], nil
}

// toRGBA returns img as *image.RGBA, copying only when necessary.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}
