package align

import (
	"math/rand"

	"github.com/Jessomadic/sc-trade-companion/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

const (
	ransacIterations      = 2000
	ransacReprojThreshold = 3.0
)

// estimateHomographyRANSAC fits a projective transform mapping src points
// onto dst points, tolerating outlier correspondences. It repeatedly samples
// minimal 4-point subsets, solves the direct linear transform for each, and
// keeps the solution with the most inliers, refitting on all inliers at the
// end using least squares.
func estimateHomographyRANSAC(src, dst []geometry.Point2D) (geometry.ProjectiveTransform, error) {
	n := len(src)
	if n != len(dst) || n < minHomographyMatches {
		return geometry.ProjectiveTransform{}, ErrInsufficientMatches
	}

	var bestTransform geometry.ProjectiveTransform
	var bestInliers []int

	for iter := 0; iter < ransacIterations; iter++ {
		indices := rand.Perm(n)[:minHomographyMatches]

		sampleSrc := make([]geometry.Point2D, minHomographyMatches)
		sampleDst := make([]geometry.Point2D, minHomographyMatches)
		for i, idx := range indices {
			sampleSrc[i] = src[idx]
			sampleDst[i] = dst[idx]
		}

		transform, err := solveHomography(sampleSrc, sampleDst)
		if err != nil {
			continue
		}

		var inliers []int
		for i := range src {
			if transform.Apply(src[i]).Distance(dst[i]) < ransacReprojThreshold {
				inliers = append(inliers, i)
			}
		}

		if len(inliers) > len(bestInliers) {
			bestInliers = inliers
			bestTransform = transform
		}
	}

	if len(bestInliers) < minHomographyMatches {
		return geometry.ProjectiveTransform{}, ErrDegenerateHomography
	}

	// Refit on all inliers for accuracy.
	inlierSrc := make([]geometry.Point2D, len(bestInliers))
	inlierDst := make([]geometry.Point2D, len(bestInliers))
	for i, idx := range bestInliers {
		inlierSrc[i] = src[idx]
		inlierDst[i] = dst[idx]
	}

	refined, err := solveHomography(inlierSrc, inlierDst)
	if err != nil {
		refined = bestTransform
	}

	if refined.IsDegenerate() {
		return geometry.ProjectiveTransform{}, ErrDegenerateHomography
	}
	return refined, nil
}

// solveHomography solves the direct linear transform for a homography with
// h33 fixed to 1, using QR least squares over the 2n x 8 system:
//
//	x' = (h11 x + h12 y + h13) / (h31 x + h32 y + 1)
//	y' = (h21 x + h22 y + h23) / (h31 x + h32 y + 1)
func solveHomography(src, dst []geometry.Point2D) (geometry.ProjectiveTransform, error) {
	n := len(src)
	if n < minHomographyMatches {
		return geometry.ProjectiveTransform{}, ErrInsufficientMatches
	}

	a := mat.NewDense(n*2, 8, nil)
	b := mat.NewVecDense(n*2, nil)

	for i := 0; i < n; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		a.Set(i*2, 0, x)
		a.Set(i*2, 1, y)
		a.Set(i*2, 2, 1)
		a.Set(i*2, 6, -xp*x)
		a.Set(i*2, 7, -xp*y)
		b.SetVec(i*2, xp)

		a.Set(i*2+1, 3, x)
		a.Set(i*2+1, 4, y)
		a.Set(i*2+1, 5, 1)
		a.Set(i*2+1, 6, -yp*x)
		a.Set(i*2+1, 7, -yp*y)
		b.SetVec(i*2+1, yp)
	}

	var qr mat.QR
	qr.Factorize(a)

	var h mat.VecDense
	if err := qr.SolveVecTo(&h, false, b); err != nil {
		return geometry.ProjectiveTransform{}, ErrDegenerateHomography
	}

	transform := geometry.ProjectiveTransform{M: [3][3]float64{
		{h.AtVec(0), h.AtVec(1), h.AtVec(2)},
		{h.AtVec(3), h.AtVec(4), h.AtVec(5)},
		{h.AtVec(6), h.AtVec(7), 1},
	}}

	if transform.IsDegenerate() {
		return geometry.ProjectiveTransform{}, ErrDegenerateHomography
	}
	return transform, nil
}
