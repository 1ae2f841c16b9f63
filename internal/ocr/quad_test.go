package ocr

import (
	"testing"

	"github.com/Jessomadic/sc-trade-companion/pkg/geometry"
)

func TestBoundingQuadToRect(t *testing.T) {
	tests := []struct {
		name string
		quad BoundingQuad
		want geometry.RectInt
	}{
		{
			name: "axis aligned",
			quad: BoundingQuad{X1: 10, Y1: 20, X2: 50, Y2: 20, X3: 50, Y3: 60, X4: 10, Y4: 60},
			want: geometry.RectInt{X: 10, Y: 20, Width: 40, Height: 40},
		},
		{
			name: "fractional corners round to nearest",
			quad: BoundingQuad{X1: 10.6, Y1: 19.4, X3: 49.5, Y3: 60.2},
			want: geometry.RectInt{X: 11, Y: 19, Width: 39, Height: 41},
		},
		{
			name: "skewed quad uses only corners one and three",
			quad: BoundingQuad{X1: 10, Y1: 20, X2: 55, Y2: 25, X3: 50, Y3: 60, X4: 5, Y4: 55},
			want: geometry.RectInt{X: 10, Y: 20, Width: 40, Height: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.quad.ToRect(); got != tt.want {
				t.Errorf("ToRect() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
