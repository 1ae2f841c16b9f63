package commodity

import (
	"errors"
	"image"
	"testing"

	"github.com/Jessomadic/sc-trade-companion/internal/ocr"
	"github.com/Jessomadic/sc-trade-companion/pkg/geometry"
)

type fakeRecognizer struct {
	words []ocr.LocatedWord
	err   error
}

func (f fakeRecognizer) Recognize(img image.Image) ([]ocr.LocatedWord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.words, nil
}

func (f fakeRecognizer) Close() error { return nil }

// wordOnRow puts a word on its own visual row so each word becomes one listing.
func wordOnRow(text string, row int) ocr.LocatedWord {
	return ocr.LocatedWord{
		Text: text,
		Rect: geometry.RectInt{X: 10, Y: row * 30, Width: 60, Height: 20},
	}
}

func rowsRecognizer(count int) fakeRecognizer {
	words := make([]ocr.LocatedWord, count)
	for i := range words {
		words[i] = wordOnRow("item", i)
	}
	return fakeRecognizer{words: words}
}

func testCapture() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 8, 8))
}

func TestSelectBestPicksLargestListingCount(t *testing.T) {
	configs := []Config{
		{Name: "broken", Recognizer: fakeRecognizer{err: errors.New("engine exploded")}},
		{Name: "empty", Recognizer: fakeRecognizer{}},
		{Name: "good", Recognizer: rowsRecognizer(5)},
	}

	submission, err := SelectBest(testCapture(), configs)
	if err != nil {
		t.Fatalf("SelectBest: %v", err)
	}
	if submission.Pipeline != "good" {
		t.Errorf("selected pipeline %q, want %q", submission.Pipeline, "good")
	}
	if len(submission.Listings) != 5 {
		t.Errorf("got %d listings, want 5", len(submission.Listings))
	}
}

func TestSelectBestAllPipelinesFail(t *testing.T) {
	configs := []Config{
		{Name: "broken", Recognizer: fakeRecognizer{err: errors.New("boom")}},
		{Name: "empty", Recognizer: fakeRecognizer{}},
	}

	_, err := SelectBest(testCapture(), configs)
	if !errors.Is(err, ErrNoListings) {
		t.Fatalf("expected ErrNoListings, got %v", err)
	}
}

func TestSelectBestNoPipelines(t *testing.T) {
	_, err := SelectBest(testCapture(), nil)
	if !errors.Is(err, ErrNoListings) {
		t.Fatalf("expected ErrNoListings, got %v", err)
	}
}

func TestSelectBestTieFirstSeenWins(t *testing.T) {
	configs := []Config{
		{Name: "first", Recognizer: rowsRecognizer(3)},
		{Name: "second", Recognizer: rowsRecognizer(3)},
	}

	submission, err := SelectBest(testCapture(), configs)
	if err != nil {
		t.Fatalf("SelectBest: %v", err)
	}
	if submission.Pipeline != "first" {
		t.Errorf("tie should go to the first config, got %q", submission.Pipeline)
	}
}

func TestSelectBestStrictlyLargerWins(t *testing.T) {
	configs := []Config{
		{Name: "small", Recognizer: rowsRecognizer(2)},
		{Name: "large", Recognizer: rowsRecognizer(7)},
	}

	submission, err := SelectBest(testCapture(), configs)
	if err != nil {
		t.Fatalf("SelectBest: %v", err)
	}
	if submission.Pipeline != "large" || len(submission.Listings) != 7 {
		t.Errorf("got %q with %d listings", submission.Pipeline, len(submission.Listings))
	}
}

func TestRunWithoutRecognizer(t *testing.T) {
	if _, err := Run(Config{Name: "bare"}, testCapture()); err == nil {
		t.Fatal("expected error for a config without a recognizer")
	}
}
