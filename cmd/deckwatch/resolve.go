package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deckwatch/deckwatch/internal/archetype"
	"github.com/deckwatch/deckwatch/internal/dataset"
	"github.com/deckwatch/deckwatch/internal/signature"
	"github.com/deckwatch/deckwatch/internal/storage/models"
	"github.com/deckwatch/deckwatch/internal/storage/repository"
)

func newResolveCommand(a *app) *cobra.Command {
	var (
		inputPath  string
		outputPath string
		translate  bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve scraped placements to archetypes",
		Long: `Resolve runs the archetype resolution cascade over a batch of
placements read as JSON: sprite lookup, sprite auto-derivation, signature
card detection, then the normalized text label. With --translate, deck
card ids are mapped through the stored JP/EN mappings before signature
lookup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			placements, err := readPlacements(inputPath)
			if err != nil {
				return err
			}

			bundle, err := dataset.Load(a.dataPaths())
			if err != nil {
				return err
			}

			var translator signature.Translator
			if translate {
				translator, err = a.buildTranslator(ctx, placements)
				if err != nil {
					return err
				}
			}

			resolver := archetype.NewResolver(bundle.ResolverConfig(a.cfg.Resolver.Workers, translator))
			if err := resolver.ResolveAll(ctx, placements); err != nil {
				return fmt.Errorf("resolve batch: %w", err)
			}

			for _, p := range placements {
				for _, warning := range archetype.ValidatePlacement(p) {
					a.logger.Warn("placement validation",
						zap.String("tournament", p.TournamentID),
						zap.Int("placement", p.Placement),
						zap.String("warning", warning))
				}
			}

			a.logger.Info("batch resolved", zap.Int("placements", len(placements)))
			return writeJSON(outputPath, placements)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "placements JSON file (- for stdin)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "-", "resolved placements JSON file (- for stdout)")
	cmd.Flags().BoolVar(&translate, "translate", false, "translate deck card ids through stored JP/EN mappings")
	return cmd
}

// buildTranslator prefetches the mappings for every card id in the batch
// and returns a synchronous id translator over them.
func (a *app) buildTranslator(ctx context.Context, placements []*models.Placement) (signature.Translator, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, p := range placements {
		for _, card := range p.Decklist {
			if card.CardID != "" && !seen[card.CardID] {
				seen[card.CardID] = true
				ids = append(ids, card.CardID)
			}
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	db, err := a.openDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	mappings, err := repository.NewCardMappingRepository(db.Conn()).FindByCardIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load card mappings: %w", err)
	}

	byJP := make(map[string]string, len(mappings))
	for _, m := range mappings {
		byJP[m.JPCardID] = m.ENCardID
	}
	a.logger.Debug("translator built",
		zap.Int("batch_ids", len(ids)),
		zap.Int("mapped", len(byJP)))

	return func(id string) string {
		if en, ok := byJP[id]; ok {
			return en
		}
		return id
	}, nil
}

func readPlacements(path string) ([]*models.Placement, error) {
	var reader io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		reader = f
	}

	var placements []*models.Placement
	if err := json.NewDecoder(reader).Decode(&placements); err != nil {
		return nil, fmt.Errorf("decode placements: %w", err)
	}
	return placements, nil
}

func writeJSON(path string, v any) error {
	var writer io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		writer = f
	}

	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
