package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deckwatch/deckwatch/internal/storage/repository"
)

func newPromoteCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promote <jp-card-id> <official-en-id>",
		Short: "Promote a placeholder mapping to an official card id",
		Long: `Promote rewrites the synthetic mapping created when a JP-only card
was first seen, pointing it at the card's official EN id. The synthetic
flag and the placeholder reference are cleared in the same statement, so
lookups switch over atomically.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jpID, officialID := args[0], args[1]

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewCardMappingRepository(db.Conn())
			if err := repo.Promote(cmd.Context(), jpID, officialID); err != nil {
				return err
			}

			a.logger.Info("mapping promoted",
				zap.String("jp_card_id", jpID),
				zap.String("en_card_id", officialID))
			return nil
		},
	}
	return cmd
}
