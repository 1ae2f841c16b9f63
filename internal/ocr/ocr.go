// Package ocr defines the text-recognition surface shared by the native
// OneOCR bridge and the Tesseract fallback: recognized words with their
// locations in the submitted image.
package ocr

import (
	"image"

	"github.com/Jessomadic/sc-trade-companion/pkg/geometry"
)

// LocatedWord is one recognized word: its text, case-normalized to lowercase,
// and its axis-aligned rectangle in the coordinate space of the image that
// was submitted for recognition.
type LocatedWord struct {
	Text string
	Rect geometry.RectInt
}

// Recognizer turns a raster image into located words. Implementations emit
// words in line-then-word order (top-to-bottom, left-to-right as laid out by
// the engine); downstream row grouping depends on that ordering. An image
// with no text yields an empty, non-nil slice.
type Recognizer interface {
	Recognize(img image.Image) ([]LocatedWord, error)
	Close() error
}
