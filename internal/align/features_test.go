package align

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func matchesWithDistances(distances ...float64) []gocv.DMatch {
	matches := make([]gocv.DMatch, len(distances))
	for i, d := range distances {
		matches[i] = gocv.DMatch{QueryIdx: i, TrainIdx: i, Distance: d}
	}
	return matches
}

func TestFilterMatchesKeepsBestTenPercent(t *testing.T) {
	distances := make([]float64, 100)
	for i := range distances {
		distances[i] = float64(100 - i) // descending so sorting matters
	}

	good, err := filterMatches(matchesWithDistances(distances...))
	if err != nil {
		t.Fatalf("filterMatches: %v", err)
	}
	if len(good) != 10 {
		t.Fatalf("expected 10 retained matches, got %d", len(good))
	}
	for i := 1; i < len(good); i++ {
		if good[i].Distance < good[i-1].Distance {
			t.Fatal("retained matches not sorted ascending by distance")
		}
	}
	if good[len(good)-1].Distance > 10 {
		t.Errorf("kept a match with distance %.1f; the 10 best should all be <= 10",
			good[len(good)-1].Distance)
	}
}

func TestFilterMatchesFloorsAtFour(t *testing.T) {
	// 10% of 6 is 0, but homography estimation needs 4 correspondences.
	good, err := filterMatches(matchesWithDistances(30, 10, 50, 20, 60, 40))
	if err != nil {
		t.Fatalf("filterMatches: %v", err)
	}
	if len(good) != 4 {
		t.Fatalf("expected floor of 4 matches, got %d", len(good))
	}
	if good[0].Distance != 10 || good[3].Distance != 40 {
		t.Errorf("wrong matches retained: %v", good)
	}
}

func TestFilterMatchesExactlyFourAttempts(t *testing.T) {
	// Exactly 4 matches must not short-circuit as insufficient.
	good, err := filterMatches(matchesWithDistances(4, 3, 2, 1))
	if err != nil {
		t.Fatalf("filterMatches with 4 matches must succeed, got %v", err)
	}
	if len(good) != 4 {
		t.Fatalf("expected all 4 matches retained, got %d", len(good))
	}
}

func TestFilterMatchesInsufficient(t *testing.T) {
	_, err := filterMatches(matchesWithDistances(1, 2, 3))
	if !errors.Is(err, ErrInsufficientMatches) {
		t.Fatalf("expected ErrInsufficientMatches, got %v", err)
	}
}

func TestFilterMatchesDoesNotMutateInput(t *testing.T) {
	input := matchesWithDistances(50, 10, 40, 20, 30)
	if _, err := filterMatches(input); err != nil {
		t.Fatalf("filterMatches: %v", err)
	}
	if input[0].Distance != 50 {
		t.Error("filterMatches reordered the caller's slice")
	}
}
