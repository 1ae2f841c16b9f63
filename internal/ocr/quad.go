package ocr

import (
	"math"

	"github.com/Jessomadic/sc-trade-companion/pkg/geometry"
)

// BoundingQuad is the quadrilateral bounding box produced by the recognition
// engine for a word or line: four corners in clockwise order starting from
// the top-left, (X1,Y1) -> (X2,Y2) -> (X3,Y3) -> (X4,Y4).
type BoundingQuad struct {
	X1, Y1 float32
	X2, Y2 float32
	X3, Y3 float32
	X4, Y4 float32
}

// ToRect converts the quad to an axis-aligned rectangle spanned by the
// top-left (X1,Y1) and bottom-right (X3,Y3) corners. Rotation and skew are
// dropped on purpose: downstream consumers expect axis-aligned regions, so a
// rotated word yields a rectangle that may not tightly bound it.
func (q BoundingQuad) ToRect() geometry.RectInt {
	return geometry.RectInt{
		X:      roundf(q.X1),
		Y:      roundf(q.Y1),
		Width:  roundf(q.X3 - q.X1),
		Height: roundf(q.Y3 - q.Y1),
	}
}

func roundf(v float32) int {
	return int(math.Round(float64(v)))
}
