// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// RectInt represents a rectangle with integer coordinates.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ProjectiveTransform represents a 3x3 homography mapping points from one
// planar image into another.
// [m00 m01 m02]
// [m10 m11 m12]
// [m20 m21 m22]
type ProjectiveTransform struct {
	M [3][3]float64
}

// Apply maps a point through the homography, performing the perspective
// divide. Points mapped to the line at infinity (w ~= 0) yield +Inf coordinates.
func (t ProjectiveTransform) Apply(p Point2D) Point2D {
	w := t.M[2][0]*p.X + t.M[2][1]*p.Y + t.M[2][2]
	if math.Abs(w) < 1e-12 {
		return Point2D{X: math.Inf(1), Y: math.Inf(1)}
	}
	return Point2D{
		X: (t.M[0][0]*p.X + t.M[0][1]*p.Y + t.M[0][2]) / w,
		Y: (t.M[1][0]*p.X + t.M[1][1]*p.Y + t.M[1][2]) / w,
	}
}

// Det returns the determinant of the homography matrix.
func (t ProjectiveTransform) Det() float64 {
	m := t.M
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// IsDegenerate reports whether the homography collapses the plane (zero or
// near-zero determinant), which makes it unusable for warping.
func (t ProjectiveTransform) IsDegenerate() bool {
	return math.Abs(t.Det()) < 1e-9
}
