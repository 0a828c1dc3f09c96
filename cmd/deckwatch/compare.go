package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deckwatch/deckwatch/internal/meta"
	"github.com/deckwatch/deckwatch/internal/storage/repository"
)

func newCompareCommand(a *app) *cobra.Command {
	var (
		regionA    string
		regionB    string
		format     string
		lagDays    int
		topN       int
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two regions' latest meta snapshots",
		Long: `Compare diverges two regions' archetype shares at each region's
conventional best-of. With --lag it additionally compares region A's
snapshot from that many days earlier, which is how the leading region's
past meta is lined up against a trailing region's present.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			engine := meta.NewEngine(repository.NewSnapshotRepository(db.Conn()), a.cfg.EngineConfig())
			comparison, err := engine.CompareRegions(cmd.Context(), regionA, regionB, format, lagDays, topN)
			if err != nil {
				var missing *meta.MissingDataError
				if errors.As(err, &missing) {
					a.logger.Error("comparison needs snapshots on both sides",
						zap.String("region", missing.Region),
						zap.String("format", missing.Format),
						zap.Int("best_of", missing.BestOf))
				}
				return err
			}

			return writeJSON(outputPath, comparison)
		},
	}

	cmd.Flags().StringVar(&regionA, "region-a", "JP", "first region (side A of the divergence)")
	cmd.Flags().StringVar(&regionB, "region-b", "EN", "second region")
	cmd.Flags().StringVar(&format, "format", "standard", "game format")
	cmd.Flags().IntVar(&lagDays, "lag", 0, "additionally compare region A from this many days earlier")
	cmd.Flags().IntVar(&topN, "top", 0, "limit entries to the N most prominent archetypes (0 = all)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "-", "comparison JSON file (- for stdout)")
	return cmd
}
