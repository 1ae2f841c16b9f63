// Package commodity assembles kiosk extraction pipelines and selects the
// best submission among their results.
package commodity

import (
	"sort"

	"github.com/Jessomadic/sc-trade-companion/internal/ocr"
)

// Listing is one row of the kiosk's commodity table: the located words that
// sit on the same visual line. Interpreting the words (names, prices) is left
// to downstream consumers.
type Listing struct {
	Words []ocr.LocatedWord
}

// Submission is the outcome of one extraction pipeline run. Its listing
// count is the fitness signal used for best-effort selection.
type Submission struct {
	Pipeline string
	Listings []Listing
}

// ListingParser groups located words into listings.
type ListingParser interface {
	Parse(words []ocr.LocatedWord) []Listing
}

// WordRowParser groups words into rows by vertical overlap of their
// rectangles: two words belong to the same row when the vertical center of
// one falls inside the other's vertical span. It relies on recognizers
// emitting words top-to-bottom.
type WordRowParser struct{}

func (WordRowParser) Parse(words []ocr.LocatedWord) []Listing {
	ordered := make([]ocr.LocatedWord, len(words))
	copy(ordered, words)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Rect.Y < ordered[j].Rect.Y
	})

	var listings []Listing
	for _, word := range ordered {
		if n := len(listings); n > 0 && sameRow(listings[n-1].Words[0], word) {
			listings[n-1].Words = append(listings[n-1].Words, word)
			continue
		}
		listings = append(listings, Listing{Words: []ocr.LocatedWord{word}})
	}

	// Restore left-to-right order within each row.
	for i := range listings {
		sort.SliceStable(listings[i].Words, func(a, b int) bool {
			return listings[i].Words[a].Rect.X < listings[i].Words[b].Rect.X
		})
	}
	return listings
}

func sameRow(a, b ocr.LocatedWord) bool {
	centerB := b.Rect.Y + b.Rect.Height/2
	return centerB >= a.Rect.Y && centerB < a.Rect.Y+a.Rect.Height
}
