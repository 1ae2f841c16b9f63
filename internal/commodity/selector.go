package commodity

import (
	"errors"
	"image"
	"sync"
)

// ErrNoListings is the selector's single failure mode: every pipeline either
// failed or produced an empty submission.
var ErrNoListings = errors.New("no listings found")

// pipelineResult carries one pipeline's outcome to the final reduction;
// a failed run is an absent candidate, not a selector failure.
type pipelineResult struct {
	submission Submission
	err        error
}

// SelectBest runs every pipeline against the same capture and keeps the
// submission with the most listings. Pipelines are independent (each owns
// its aligner and recognizer state), so they run concurrently; the only
// synchronization point is the reduction after all of them finish. Ties are
// broken by config order, first seen wins. The returned submission always
// has at least one listing.
func SelectBest(capture image.Image, configs []Config) (Submission, error) {
	results := make([]pipelineResult, len(configs))

	var wg sync.WaitGroup
	for i, cfg := range configs {
		wg.Add(1)
		go func(i int, cfg Config) {
			defer wg.Done()
			submission, err := Run(cfg, capture)
			results[i] = pipelineResult{submission: submission, err: err}
		}(i, cfg)
	}
	wg.Wait()

	best := -1
	for i, r := range results {
		if r.err != nil || len(r.submission.Listings) == 0 {
			continue
		}
		if best == -1 || len(r.submission.Listings) > len(results[best].submission.Listings) {
			best = i
		}
	}

	if best == -1 {
		return Submission{}, ErrNoListings
	}
	return results[best].submission, nil
}
