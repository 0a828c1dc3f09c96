package meta

import (
	"time"

	"github.com/deckwatch/deckwatch/internal/storage/models"
)

// KeyedPlacement pairs a resolved placement with the dimension key of the
// tournament it came from.
type KeyedPlacement struct {
	Key       models.SnapshotKey
	Placement *models.Placement
}

// SnapshotOptions tune snapshot construction.
type SnapshotOptions struct {
	Tiers TierThresholds

	// TrendEpsilon is the share movement treated as noise when
	// classifying trend direction. Zero means the default.
	TrendEpsilon float64

	// Previous supplies the prior snapshot for a key, used for
	// week-over-week trends. Nil or a nil return means no history.
	Previous func(key models.SnapshotKey) *models.MetaSnapshot
}

// BuildSnapshot aggregates one dimension key's placements into a
// snapshot. Trends are empty when no previous snapshot exists.
func BuildSnapshot(key models.SnapshotKey, placements []*models.Placement, opts SnapshotOptions) *models.MetaSnapshot {
	shares, sampleSize := ComputeArchetypeShares(placements)

	var previousShares map[string]float64
	if opts.Previous != nil {
		if prev := opts.Previous(key); prev != nil {
			previousShares = prev.ArchetypeShares
		}
	}

	trends := map[string]models.Trend{}
	if previousShares != nil {
		trends = ComputeTrends(shares, previousShares, opts.TrendEpsilon)
	}

	return &models.MetaSnapshot{
		Key:             key,
		ArchetypeShares: shares,
		SampleSize:      sampleSize,
		DiversityIndex:  DiversityIndex(shares),
		TierAssignments: opts.Tiers.AssignTiers(shares),
		Trends:          trends,
		CreatedAt:       time.Now().UTC(),
	}
}

// BuildSnapshots groups a mixed batch by dimension key and builds one
// snapshot per key. Aggregation per key is a pure fold, so callers may
// shard batches by key before calling this.
func BuildSnapshots(batch []KeyedPlacement, opts SnapshotOptions) []*models.MetaSnapshot {
	groups := make(map[models.SnapshotKey][]*models.Placement)
	var order []models.SnapshotKey
	for _, kp := range batch {
		if kp.Placement == nil {
			continue
		}
		if _, seen := groups[kp.Key]; !seen {
			order = append(order, kp.Key)
		}
		groups[kp.Key] = append(groups[kp.Key], kp.Placement)
	}

	snapshots := make([]*models.MetaSnapshot, 0, len(order))
	for _, key := range order {
		snapshots = append(snapshots, BuildSnapshot(key, groups[key], opts))
	}
	return snapshots
}
