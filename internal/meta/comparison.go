package meta

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/deckwatch/deckwatch/internal/storage/models"
)

// SnapshotSource is the persistence collaborator the comparison engine
// reads from. Absent snapshots are reported as (nil, nil); errors are for
// backing-store failures and propagate untouched.
type SnapshotSource interface {
	// Latest returns the most recent snapshot for the dimension, or nil
	// when none exists.
	Latest(ctx context.Context, region, format string, bestOf int) (*models.MetaSnapshot, error)

	// LatestBefore returns the most recent snapshot dated strictly before
	// the cutoff, or nil when none exists.
	LatestBefore(ctx context.Context, region, format string, bestOf int, cutoff models.SnapshotKey) (*models.MetaSnapshot, error)
}

// MissingDataError names the side of a comparison or forecast that has no
// snapshot at all. It is actionable by the caller and deliberately loud.
type MissingDataError struct {
	Region string
	Format string
	BestOf int
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("no meta snapshot for region %q (format %s, best-of-%d)", e.Region, e.Format, e.BestOf)
}

// EngineConfig holds the comparison engine's regional conventions and
// thresholds. All values are configuration, not invariants.
type EngineConfig struct {
	// LeadingRegion is the region whose meta develops first (its sets
	// release earlier), used as the forecast source.
	LeadingRegion string

	// BestOfByRegion records each region's conventional match format;
	// DefaultBestOf covers regions not listed.
	BestOfByRegion map[string]int
	DefaultBestOf  int

	// MinForecastShare drops fringe archetypes from forecasts.
	MinForecastShare float64

	// LeadingOnlyThreshold flags archetypes established in the leading
	// region but entirely absent from the other side.
	LeadingOnlyThreshold float64

	Bands BandConfig
}

// DefaultEngineConfig mirrors production conventions: JP leads on
// best-of-1, everyone else reports best-of-3.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		LeadingRegion:        "JP",
		BestOfByRegion:       map[string]int{"JP": 1},
		DefaultBestOf:        3,
		MinForecastShare:     0.01,
		LeadingOnlyThreshold: 0.005,
		Bands:                DefaultBandConfig(),
	}
}

// bestOfFor returns a region's conventional best-of.
func (c EngineConfig) bestOfFor(region string) int {
	if bo, ok := c.BestOfByRegion[region]; ok {
		return bo
	}
	return c.DefaultBestOf
}

// ComparisonEntry is one archetype's standing on both sides of a region
// comparison. A side without the archetype is zero-filled.
type ComparisonEntry struct {
	Archetype string  `json:"archetype"`
	ShareA    float64 `json:"share_a"`
	ShareB    float64 `json:"share_b"`
	// Divergence is ShareA minus ShareB; positive means region A plays
	// more of it.
	Divergence float64 `json:"divergence"`
	// LeadingOnly marks archetypes established on side A but entirely
	// absent on side B.
	LeadingOnly bool `json:"leading_only,omitempty"`
}

// Comparison is the result of comparing two regions' latest snapshots,
// optionally alongside a lag-adjusted set.
type Comparison struct {
	RegionA     string            `json:"region_a"`
	RegionB     string            `json:"region_b"`
	Format      string            `json:"format"`
	Entries     []ComparisonEntry `json:"entries"`
	LagDays     int               `json:"lag_days,omitempty"`
	Lagged      []ComparisonEntry `json:"lagged,omitempty"`
	SampleA     int               `json:"sample_a"`
	SampleB     int               `json:"sample_b"`
	ConfidenceA string            `json:"confidence_a"`
	ConfidenceB string            `json:"confidence_b"`
}

// Engine computes comparisons and forecasts over persisted snapshots.
type Engine struct {
	snapshots SnapshotSource
	config    EngineConfig

	// spriteURL enriches forecast entries with archetype art. Optional.
	spriteURL func(archetype string) string

	// now supplies the reference time for freshness; injectable for
	// tests.
	now func() time.Time
}

// NewEngine creates a comparison engine over a snapshot source.
func NewEngine(snapshots SnapshotSource, config EngineConfig) *Engine {
	return &Engine{snapshots: snapshots, config: config, now: time.Now}
}

// withClock overrides the freshness reference time in tests.
func (e *Engine) withClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// freshnessDays is the whole number of days between a snapshot's date and
// now, floored at zero.
func (e *Engine) freshnessDays(snap *models.MetaSnapshot) int {
	days := int(e.now().Sub(snap.Key.Date).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// WithSpriteLookup installs the sprite enrichment used by forecasts.
func (e *Engine) WithSpriteLookup(f func(archetype string) string) *Engine {
	e.spriteURL = f
	return e
}

// CompareRegions compares two regions' latest snapshots for a format at
// each region's conventional best-of. With lagDays > 0 it additionally
// produces a lag-adjusted comparison from region A's older snapshot; when
// no historical snapshot exists at that lag the lagged set is simply
// omitted.
//
// Returns *MissingDataError naming the absent side if either region has
// no snapshot at all.
func (e *Engine) CompareRegions(ctx context.Context, regionA, regionB, format string, lagDays, topN int) (*Comparison, error) {
	bestOfA := e.config.bestOfFor(regionA)
	bestOfB := e.config.bestOfFor(regionB)

	snapA, err := e.snapshots.Latest(ctx, regionA, format, bestOfA)
	if err != nil {
		return nil, fmt.Errorf("load %s snapshot: %w", regionA, err)
	}
	if snapA == nil {
		return nil, &MissingDataError{Region: regionA, Format: format, BestOf: bestOfA}
	}
	snapB, err := e.snapshots.Latest(ctx, regionB, format, bestOfB)
	if err != nil {
		return nil, fmt.Errorf("load %s snapshot: %w", regionB, err)
	}
	if snapB == nil {
		return nil, &MissingDataError{Region: regionB, Format: format, BestOf: bestOfB}
	}

	cmp := &Comparison{
		RegionA:     regionA,
		RegionB:     regionB,
		Format:      format,
		Entries:     e.diverge(snapA.ArchetypeShares, snapB.ArchetypeShares, topN),
		SampleA:     snapA.SampleSize,
		SampleB:     snapB.SampleSize,
		ConfidenceA: e.config.Bands.Band(snapA.SampleSize, e.freshnessDays(snapA)),
		ConfidenceB: e.config.Bands.Band(snapB.SampleSize, e.freshnessDays(snapB)),
	}

	if lagDays > 0 {
		cmp.LagDays = lagDays
		cutoff := snapA.Key
		cutoff.Date = snapA.Key.Date.AddDate(0, 0, -lagDays+1)
		lagged, err := e.snapshots.LatestBefore(ctx, regionA, format, bestOfA, cutoff)
		if err != nil {
			return nil, fmt.Errorf("load lagged %s snapshot: %w", regionA, err)
		}
		if lagged != nil {
			cmp.Lagged = e.diverge(lagged.ArchetypeShares, snapB.ArchetypeShares, topN)
		}
	}

	return cmp, nil
}

// diverge builds zero-filled divergence entries over the union of both
// share maps, sorted by combined prominence and truncated to topN.
func (e *Engine) diverge(sharesA, sharesB map[string]float64, topN int) []ComparisonEntry {
	names := make(map[string]struct{}, len(sharesA)+len(sharesB))
	for name := range sharesA {
		names[name] = struct{}{}
	}
	for name := range sharesB {
		names[name] = struct{}{}
	}

	entries := make([]ComparisonEntry, 0, len(names))
	for name := range names {
		a := sharesA[name]
		b := sharesB[name]
		entries = append(entries, ComparisonEntry{
			Archetype:   name,
			ShareA:      a,
			ShareB:      b,
			Divergence:  a - b,
			LeadingOnly: b == 0 && a >= e.config.LeadingOnlyThreshold,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		pi := entries[i].ShareA + entries[i].ShareB
		pj := entries[j].ShareA + entries[j].ShareB
		if pi != pj {
			return pi > pj
		}
		return entries[i].Archetype < entries[j].Archetype
	})

	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}
