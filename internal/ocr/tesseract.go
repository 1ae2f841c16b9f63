package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/Jessomadic/sc-trade-companion/pkg/geometry"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes words with the Tesseract engine. It implements
// Recognizer and serves as an alternative pipeline engine alongside the
// native OneOCR bridge.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract creates a Tesseract-backed recognizer.
func NewTesseract() (*Tesseract, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Kiosk listings mix names and numbers; dictionary correction hurts more
	// than it helps.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	return &Tesseract{client: client}, nil
}

// Close releases the underlying Tesseract client.
func (t *Tesseract) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

// Recognize runs word-level OCR over the whole image. Words are emitted in
// Tesseract's natural layout order (lines top to bottom, words left to
// right) with lowercased text.
func (t *Tesseract) Recognize(img image.Image) ([]LocatedWord, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	if err := t.client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}

	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get boxes: %w", err)
	}

	words := make([]LocatedWord, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}

		words = append(words, LocatedWord{
			Text: strings.ToLower(text),
			Rect: geometry.RectInt{
				X:      box.Box.Min.X,
				Y:      box.Box.Min.Y,
				Width:  box.Box.Dx(),
				Height: box.Box.Dy(),
			},
		})
	}

	return words, nil
}
