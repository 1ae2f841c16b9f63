package commodity

import (
	"testing"

	"github.com/Jessomadic/sc-trade-companion/internal/ocr"
	"github.com/Jessomadic/sc-trade-companion/pkg/geometry"
)

func word(text string, x, y, w, h int) ocr.LocatedWord {
	return ocr.LocatedWord{Text: text, Rect: geometry.RectInt{X: x, Y: y, Width: w, Height: h}}
}

func TestWordRowParserGroupsByVerticalOverlap(t *testing.T) {
	words := []ocr.LocatedWord{
		word("laranite", 10, 100, 80, 20),
		word("24.5", 200, 103, 40, 18), // same row, slightly offset
		word("agricium", 10, 140, 90, 20),
		word("12.1", 200, 141, 40, 20),
	}

	listings := WordRowParser{}.Parse(words)
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}
	if len(listings[0].Words) != 2 || listings[0].Words[0].Text != "laranite" {
		t.Errorf("first row wrong: %v", listings[0].Words)
	}
	if len(listings[1].Words) != 2 || listings[1].Words[0].Text != "agricium" {
		t.Errorf("second row wrong: %v", listings[1].Words)
	}
}

func TestWordRowParserRestoresLeftToRightOrder(t *testing.T) {
	// Price arrives before the name despite sitting to its right.
	words := []ocr.LocatedWord{
		word("24.5", 200, 100, 40, 20),
		word("laranite", 10, 100, 80, 20),
	}

	listings := WordRowParser{}.Parse(words)
	if len(listings) != 1 {
		t.Fatalf("got %d listings, want 1", len(listings))
	}
	if listings[0].Words[0].Text != "laranite" || listings[0].Words[1].Text != "24.5" {
		t.Errorf("row not ordered left to right: %v", listings[0].Words)
	}
}

func TestWordRowParserEmptyInput(t *testing.T) {
	if listings := (WordRowParser{}).Parse(nil); len(listings) != 0 {
		t.Fatalf("expected no listings, got %d", len(listings))
	}
}
