// Package meta aggregates resolved placements into meta-share snapshots
// and computes cross-region comparisons and forecasts over them.
package meta

import (
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/deckwatch/deckwatch/internal/storage/models"
)

// ComputeArchetypeShares computes each archetype's share of a batch of
// resolved placements belonging to one dimension key. Placements with a
// blank archetype are excluded defensively; the cascade never produces
// them, but a snapshot must not contain a blank key regardless. The
// returned sample size counts only the placements that participated.
//
// For any non-empty valid input the shares sum to 1.0 within floating
// tolerance.
func ComputeArchetypeShares(placements []*models.Placement) (map[string]float64, int) {
	counts := make(map[string]int)
	total := 0
	for _, p := range placements {
		if p == nil {
			continue
		}
		name := strings.TrimSpace(p.Archetype)
		if name == "" {
			continue
		}
		counts[name]++
		total++
	}

	shares := make(map[string]float64, len(counts))
	if total == 0 {
		return shares, 0
	}
	for name, count := range counts {
		shares[name] = float64(count) / float64(total)
	}
	return shares, total
}

// DiversityIndex computes Simpson's diversity index over a share
// distribution: 1 minus the probability that two placements drawn at
// random belong to the same archetype. Bounded to [0,1]; higher means a
// more even spread.
func DiversityIndex(shares map[string]float64) float64 {
	if len(shares) == 0 {
		return 0
	}
	values := make([]float64, 0, len(shares))
	for _, s := range shares {
		values = append(values, s)
	}
	index := 1 - floats.Dot(values, values)
	if index < 0 {
		return 0
	}
	if index > 1 {
		return 1
	}
	return index
}
