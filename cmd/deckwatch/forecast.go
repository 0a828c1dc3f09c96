package main

import (
	"github.com/spf13/cobra"

	"github.com/deckwatch/deckwatch/internal/dataset"
	"github.com/deckwatch/deckwatch/internal/meta"
	"github.com/deckwatch/deckwatch/internal/storage/repository"
)

func newForecastCommand(a *app) *cobra.Command {
	var (
		format     string
		topN       int
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast a format from the leading region's meta",
		Long: `Forecast projects the leading region's latest snapshot onto an
upcoming format window: archetypes below the configured share floor are
dropped, the rest are ranked by share and enriched with tier, trend, and
sprite art where the sprite index knows the archetype.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			engine := meta.NewEngine(repository.NewSnapshotRepository(db.Conn()), a.cfg.EngineConfig())

			// Sprite enrichment is best-effort: a missing or empty sprite
			// index just yields entries without art.
			if bundle, err := dataset.Load(a.dataPaths()); err == nil {
				engine.WithSpriteLookup(func(archetype string) string {
					if url, ok := bundle.Sprites.ArtFor(archetype); ok {
						return url
					}
					return ""
				})
			}

			forecast, err := engine.FormatForecast(cmd.Context(), format, topN)
			if err != nil {
				return err
			}
			return writeJSON(outputPath, forecast)
		},
	}

	cmd.Flags().StringVar(&format, "format", "standard", "game format")
	cmd.Flags().IntVar(&topN, "top", 0, "limit entries to the N largest shares (0 = all)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "-", "forecast JSON file (- for stdout)")
	return cmd
}
