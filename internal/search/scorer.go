package search

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/franz/songbook/internal/util"
)

// Scorer rates how well a query matches a corpus key, from 0 to 100.
// Implementations may return any value below cutoff when the real score is
// below cutoff. They must be safe for concurrent use.
type Scorer interface {
	Score(query, choice string, cutoff float64) float64
}

// IndelScorer is the partial ratio over the normalized Indel similarity.
type IndelScorer struct{}

func (IndelScorer) Score(query, choice string, cutoff float64) float64 {
	return partialRatio(query, choice, cutoff).score
}

// LevenshteinScorer finds the best window like IndelScorer and rescores it
// with the normalized Levenshtein similarity, which penalizes substitutions
// once instead of twice.
type LevenshteinScorer struct{}

func (LevenshteinScorer) Score(query, choice string, cutoff float64) float64 {
	needle, hay := []rune(query), []rune(choice)
	if len(needle) > len(hay) {
		needle, hay = hay, needle
	}
	if len(needle) == 0 {
		return 0
	}

	window := hay
	if len(needle) < len(hay) {
		al := align(needle, hay, cutoff)
		if al.end == al.start {
			return 0
		}
		window = hay[al.start:al.end]
	}

	d := levenshtein.ComputeDistance(string(needle), string(window))
	longest := len(needle)
	if len(window) > longest {
		longest = len(window)
	}
	return 100 * (1 - float64(d)/float64(longest))
}

// ScorerByName returns the scorer configured under search.scorer.
func ScorerByName(name string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "indel", "partial":
		return IndelScorer{}, nil
	case "levenshtein":
		return LevenshteinScorer{}, nil
	default:
		return nil, fmt.Errorf("unknown scorer %q: %w", name, util.ErrInvalidConfig)
	}
}
