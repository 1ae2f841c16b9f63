package align

import (
	"image"
)

const (
	// goodMatchDistance is the Hamming distance below which a descriptor
	// match counts as "good" for the similarity score.
	goodMatchDistance = 50.0

	// DefaultMinSimilarity is the empirically tuned threshold used when
	// validating a template alignment.
	DefaultMinSimilarity = 0.12
)

// Similarity scores how well two images match based on feature-match density,
// in [0, 1]. It runs the same blue-channel ORB detection as the aligner on
// both images, counts matches whose Hamming distance is below
// goodMatchDistance, and normalizes by the smaller keypoint count.
//
// The score is an ordinal signal, not a calibrated probability; callers must
// tune thresholds empirically. Missing features or zero matches yield 0.0,
// never an error.
func Similarity(a, b image.Image) float64 {
	aFeatures, err := detectFeatures(a)
	if err != nil {
		return 0
	}
	defer aFeatures.Close()

	bFeatures, err := detectFeatures(b)
	if err != nil {
		return 0
	}
	defer bFeatures.Close()

	if len(aFeatures.keypoints) == 0 || len(bFeatures.keypoints) == 0 {
		return 0
	}

	matches := matchFeatures(aFeatures.descriptors, bFeatures.descriptors)
	if len(matches) == 0 {
		return 0
	}

	goodMatches := 0
	for _, m := range matches {
		if m.Distance < goodMatchDistance {
			goodMatches++
		}
	}

	minKeypoints := min(len(aFeatures.keypoints), len(bFeatures.keypoints))
	score := float64(goodMatches) / float64(minKeypoints)

	return min(1.0, max(0.0, score))
}
