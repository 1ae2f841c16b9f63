package commodity

import (
	"fmt"
	"image"
	"log"

	"github.com/Jessomadic/sc-trade-companion/internal/imageproc"
	"github.com/Jessomadic/sc-trade-companion/internal/ocr"
)

// Config describes one extraction pipeline: an ordered preprocessing chain
// (typically starting with template alignment), a recognition engine and a
// listing parser. Configs are plain values; differently tuned configs are
// fanned out by SelectBest.
type Config struct {
	// Name identifies the pipeline in logs and submissions.
	Name string
	// Preprocess is applied to the capture in order before recognition.
	Preprocess []imageproc.Manipulation
	// Recognizer extracts located words from the preprocessed capture.
	Recognizer ocr.Recognizer
	// Parser groups words into listings; WordRowParser when nil.
	Parser ListingParser
	// Debug enables per-stage diagnostics.
	Debug bool
}

// Run executes a single pipeline against a capture and returns its
// submission. Every stage failure is returned as an error; Run never returns
// a partial submission.
func Run(cfg Config, capture image.Image) (Submission, error) {
	if cfg.Recognizer == nil {
		return Submission{}, fmt.Errorf("pipeline %q: no recognizer configured", cfg.Name)
	}

	processed := capture
	for i, manipulation := range cfg.Preprocess {
		var err error
		processed, err = manipulation.Apply(processed)
		if err != nil {
			return Submission{}, fmt.Errorf("pipeline %q: preprocess step %d: %w", cfg.Name, i, err)
		}
	}

	words, err := cfg.Recognizer.Recognize(processed)
	if err != nil {
		return Submission{}, fmt.Errorf("pipeline %q: recognize: %w", cfg.Name, err)
	}

	parser := cfg.Parser
	if parser == nil {
		parser = WordRowParser{}
	}
	listings := parser.Parse(words)

	if cfg.Debug {
		log.Printf("pipeline %q: %d words, %d listings", cfg.Name, len(words), len(listings))
	}

	return Submission{Pipeline: cfg.Name, Listings: listings}, nil
}
