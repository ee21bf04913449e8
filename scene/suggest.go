// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"slices"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

const (
	maxSuggestions = 3
	minSimilarity  = 0.5
)

// suggest returns the candidates most similar to id.
func suggest(id string, candidates []string) []string {
	type scored struct {
		s     string
		score float64
	}
	lev := metrics.NewLevenshtein()
	var best []scored
	for _, c := range candidates {
		if c == id {
			continue
		}
		if x := strutil.Similarity(id, c, lev); x >= minSimilarity {
			best = append(best, scored{c, x})
		}
	}
	slices.SortStableFunc(best, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})
	var s []string
	for i := range min(len(best), maxSuggestions) {
		s = append(s, best[i].s)
	}
	return s
}
