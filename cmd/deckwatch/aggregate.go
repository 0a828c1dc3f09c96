package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deckwatch/deckwatch/internal/meta"
	"github.com/deckwatch/deckwatch/internal/storage/models"
	"github.com/deckwatch/deckwatch/internal/storage/repository"
)

// tournamentBatch is the aggregate input shape: resolved placements
// grouped under the tournament's meta dimension.
type tournamentBatch struct {
	Date       string              `json:"date"`
	Region     string              `json:"region"`
	Format     string              `json:"format"`
	BestOf     int                 `json:"best_of"`
	Placements []*models.Placement `json:"placements"`
}

func newAggregateCommand(a *app) *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate resolved placements into meta snapshots",
		Long: `Aggregate groups resolved placements by their meta dimension (date,
region, format, best-of), computes archetype shares, diversity, tiers,
and week-over-week trends against the previous stored snapshot, and
upserts one snapshot per dimension.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			batches, err := readBatches(inputPath)
			if err != nil {
				return err
			}

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			return a.aggregate(cmd.Context(), repository.NewSnapshotRepository(db.Conn()), batches)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "resolved tournament batches JSON file (- for stdin)")
	return cmd
}

func (a *app) aggregate(ctx context.Context, repo repository.SnapshotRepository, batches []tournamentBatch) error {
	keyed, err := keyPlacements(batches)
	if err != nil {
		return err
	}

	opts := meta.SnapshotOptions{
		Tiers:        a.cfg.TierThresholds(),
		TrendEpsilon: a.cfg.Meta.TrendEpsilon,
		Previous: func(key models.SnapshotKey) *models.MetaSnapshot {
			prev, err := repo.LatestBefore(ctx, key.Region, key.Format, key.BestOf, key)
			if err != nil {
				a.logger.Warn("previous snapshot lookup failed",
					zap.String("region", key.Region),
					zap.Error(err))
				return nil
			}
			return prev
		},
	}

	snapshots := meta.BuildSnapshots(keyed, opts)
	for _, snap := range snapshots {
		if err := repo.Upsert(ctx, snap); err != nil {
			return err
		}
		a.logger.Info("snapshot stored",
			zap.String("date", snap.Key.Date.Format("2006-01-02")),
			zap.String("region", snap.Key.Region),
			zap.String("format", snap.Key.Format),
			zap.Int("best_of", snap.Key.BestOf),
			zap.Int("sample_size", snap.SampleSize),
			zap.Float64("diversity", snap.DiversityIndex),
			zap.Int("archetypes", len(snap.ArchetypeShares)))
	}

	a.logger.Info("aggregation complete",
		zap.Int("batches", len(batches)),
		zap.Int("snapshots", len(snapshots)))
	return nil
}

func keyPlacements(batches []tournamentBatch) ([]meta.KeyedPlacement, error) {
	var keyed []meta.KeyedPlacement
	for i, batch := range batches {
		date, err := time.Parse("2006-01-02", batch.Date)
		if err != nil {
			return nil, fmt.Errorf("batch %d: parse date %q: %w", i, batch.Date, err)
		}
		if batch.Format == "" {
			return nil, fmt.Errorf("batch %d: format is required", i)
		}
		if batch.BestOf <= 0 {
			return nil, fmt.Errorf("batch %d: best_of must be positive", i)
		}
		key := models.SnapshotKey{
			Date:   date,
			Region: batch.Region,
			Format: batch.Format,
			BestOf: batch.BestOf,
		}
		for _, p := range batch.Placements {
			keyed = append(keyed, meta.KeyedPlacement{Key: key, Placement: p})
		}
	}
	return keyed, nil
}

func readBatches(path string) ([]tournamentBatch, error) {
	var reader io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		reader = f
	}

	var batches []tournamentBatch
	if err := json.NewDecoder(reader).Decode(&batches); err != nil {
		return nil, fmt.Errorf("decode tournament batches: %w", err)
	}
	return batches, nil
}
