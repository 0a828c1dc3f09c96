package meta

import (
	"context"
	"fmt"
	"sort"

	"github.com/deckwatch/deckwatch/internal/storage/models"
)

// ForecastEntry is one archetype expected to carry over from the leading
// region's meta, enriched with snapshot metadata and art.
type ForecastEntry struct {
	Archetype string        `json:"archetype"`
	Share     float64       `json:"share"`
	Tier      string        `json:"tier,omitempty"`
	Trend     *models.Trend `json:"trend,omitempty"`
	// Slope is the least-squares share movement per snapshot over the
	// trailing series, present when at least one prior snapshot exists.
	Slope     *float64 `json:"slope,omitempty"`
	SpriteURL string   `json:"sprite_url,omitempty"`
}

// Forecast projects the leading region's current meta onto an upcoming
// format window.
type Forecast struct {
	Region     string          `json:"region"`
	Format     string          `json:"format"`
	Entries    []ForecastEntry `json:"entries"`
	SampleSize int             `json:"sample_size"`
	Confidence string          `json:"confidence"`
}

// FormatForecast builds a forecast from the leading region's latest
// snapshot: archetypes below the configured minimum share are dropped,
// the rest sorted by descending share and truncated to topN, each entry
// enriched with tier, trend, and sprite metadata.
//
// Returns *MissingDataError when the leading region has no snapshot at
// all; a snapshot with zero qualifying archetypes yields an empty
// forecast, not an error.
func (e *Engine) FormatForecast(ctx context.Context, format string, topN int) (*Forecast, error) {
	region := e.config.LeadingRegion
	bestOf := e.config.bestOfFor(region)

	snap, err := e.snapshots.Latest(ctx, region, format, bestOf)
	if err != nil {
		return nil, fmt.Errorf("load %s snapshot: %w", region, err)
	}
	if snap == nil {
		return nil, &MissingDataError{Region: region, Format: format, BestOf: bestOf}
	}

	history, err := e.shareHistory(ctx, region, format, bestOf, snap.Key)
	if err != nil {
		return nil, err
	}

	entries := make([]ForecastEntry, 0, len(snap.ArchetypeShares))
	for name, share := range snap.ArchetypeShares {
		if share < e.config.MinForecastShare {
			continue
		}
		entry := ForecastEntry{
			Archetype: name,
			Share:     share,
			Tier:      snap.TierAssignments[name],
		}
		if trend, ok := snap.Trends[name]; ok {
			t := trend
			entry.Trend = &t
		}
		if len(history) > 0 {
			series := make([]float64, 0, len(history)+1)
			for _, past := range history {
				series = append(series, past[name])
			}
			series = append(series, share)
			slope := TrendSlope(series)
			entry.Slope = &slope
		}
		if e.spriteURL != nil {
			entry.SpriteURL = e.spriteURL(name)
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Share != entries[j].Share {
			return entries[i].Share > entries[j].Share
		}
		return entries[i].Archetype < entries[j].Archetype
	})
	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}

	return &Forecast{
		Region:     region,
		Format:     format,
		Entries:    entries,
		SampleSize: snap.SampleSize,
		Confidence: e.config.Bands.Band(snap.SampleSize, e.freshnessDays(snap)),
	}, nil
}

// slopeHistoryDepth caps how many prior snapshots feed the share-series
// slope.
const slopeHistoryDepth = 3

// shareHistory walks back from cutoff and returns up to slopeHistoryDepth
// prior share maps, oldest first.
func (e *Engine) shareHistory(ctx context.Context, region, format string, bestOf int, cutoff models.SnapshotKey) ([]map[string]float64, error) {
	var history []map[string]float64
	for i := 0; i < slopeHistoryDepth; i++ {
		prev, err := e.snapshots.LatestBefore(ctx, region, format, bestOf, cutoff)
		if err != nil {
			return nil, fmt.Errorf("load %s share history: %w", region, err)
		}
		if prev == nil {
			break
		}
		history = append([]map[string]float64{prev.ArchetypeShares}, history...)
		cutoff = prev.Key
	}
	return history, nil
}
