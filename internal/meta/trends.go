package meta

import (
	"gonum.org/v1/gonum/stat"

	"github.com/deckwatch/deckwatch/internal/storage/models"
)

// Trend directions. Movement within the epsilon band is stable.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// defaultTrendEpsilon is the share movement below which week-over-week
// change is treated as noise.
const defaultTrendEpsilon = 0.005

// ComputeTrends computes the week-over-week share delta per archetype.
// Archetypes absent from the previous snapshot have no previous share and
// their whole current share counts as change; archetypes that vanished
// from the current snapshot are reported at zero share, trending down.
func ComputeTrends(current, previous map[string]float64, epsilon float64) map[string]models.Trend {
	if epsilon <= 0 {
		epsilon = defaultTrendEpsilon
	}

	trends := make(map[string]models.Trend, len(current))
	for name, share := range current {
		if prev, ok := previous[name]; ok {
			p := prev
			trends[name] = models.Trend{
				Change:        share - prev,
				Direction:     classifyDirection(share-prev, epsilon),
				PreviousShare: &p,
			}
		} else {
			trends[name] = models.Trend{
				Change:    share,
				Direction: classifyDirection(share, epsilon),
			}
		}
	}
	for name, prev := range previous {
		if _, ok := current[name]; ok {
			continue
		}
		p := prev
		trends[name] = models.Trend{
			Change:        -prev,
			Direction:     classifyDirection(-prev, epsilon),
			PreviousShare: &p,
		}
	}
	return trends
}

func classifyDirection(change, epsilon float64) string {
	switch {
	case change > epsilon:
		return TrendUp
	case change < -epsilon:
		return TrendDown
	default:
		return TrendStable
	}
}

// TrendSlope fits a least-squares line through a chronological share
// series (oldest first) and returns its slope in share per step. Series
// shorter than two points have no slope.
func TrendSlope(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, series, nil, false)
	return slope
}
