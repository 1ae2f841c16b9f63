// Package align normalizes captured kiosk screenshots into the coordinate
// frame of a known reference template using ORB feature matching and a
// RANSAC-estimated homography, and scores how well two images match.
package align

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/Jessomadic/sc-trade-companion/pkg/geometry"

	"gocv.io/x/gocv"
)

var (
	// ErrInsufficientMatches is returned when fewer than 4 feature
	// correspondences exist, making homography estimation impossible.
	ErrInsufficientMatches = errors.New("insufficient matches for homography computation")

	// ErrDegenerateHomography is returned when the estimator cannot produce a
	// usable projective transform from the correspondences.
	ErrDegenerateHomography = errors.New("failed to compute homography matrix")
)

// AlignToReference warps capture into the pixel frame of reference.
//
// When minSimilarity > 0 the warped result is validated against the reference
// with Similarity; if the score falls below the threshold the ORIGINAL capture
// is returned unchanged, so a bad warp never corrupts an otherwise readable
// capture. A threshold of 0 skips validation entirely. Values outside [0,1]
// are not rejected; a threshold above 1 practically always takes the
// soft-fail path.
//
// Outright failures (too few matches, degenerate homography) return an error
// and never a partial image.
func AlignToReference(capture, reference image.Image, minSimilarity float64) (image.Image, error) {
	refFeatures, err := detectFeatures(reference)
	if err != nil {
		return nil, fmt.Errorf("reference features: %w", err)
	}
	defer refFeatures.Close()

	capFeatures, err := detectFeatures(capture)
	if err != nil {
		return nil, fmt.Errorf("capture features: %w", err)
	}
	defer capFeatures.Close()

	matches := matchFeatures(refFeatures.descriptors, capFeatures.descriptors)
	good, err := filterMatches(matches)
	if err != nil {
		return nil, err
	}

	// Query side indexes the reference, train side the capture. The
	// homography maps capture space into reference space.
	capturePts := make([]geometry.Point2D, len(good))
	referencePts := make([]geometry.Point2D, len(good))
	for i, m := range good {
		ref := refFeatures.keypoints[m.QueryIdx]
		kp := capFeatures.keypoints[m.TrainIdx]
		referencePts[i] = geometry.Point2D{X: ref.X, Y: ref.Y}
		capturePts[i] = geometry.Point2D{X: kp.X, Y: kp.Y}
	}

	homography, err := estimateHomographyRANSAC(capturePts, referencePts)
	if err != nil {
		return nil, err
	}

	refBounds := reference.Bounds()
	aligned, err := warpPerspective(capture, homography, refBounds.Dx(), refBounds.Dy())
	if err != nil {
		return nil, fmt.Errorf("warp capture: %w", err)
	}

	if minSimilarity > 0 {
		score := Similarity(aligned, reference)
		if score < minSimilarity {
			log.Printf("align: quality below threshold: %.3f < %.3f, keeping original capture",
				score, minSimilarity)
			return capture, nil
		}
	}

	return aligned, nil
}

// warpPerspective maps img through the homography into a width x height frame.
func warpPerspective(img image.Image, transform geometry.ProjectiveTransform, width, height int) (image.Image, error) {
	src, err := gocv.ImageToMatRGBA(toRGBA(img))
	if err != nil {
		return nil, err
	}
	defer src.Close()

	hm := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	defer hm.Close()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			hm.SetDoubleAt(row, col, transform.M[row][col])
		}
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.WarpPerspective(src, &dst, hm, image.Pt(width, height))

	return dst.ToImage()
}
