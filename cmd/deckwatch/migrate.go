package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deckwatch/deckwatch/internal/storage"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.Migrate(a.cfg.Database.Path); err != nil {
				return err
			}

			version, dirty, err := storage.MigrationVersion(a.cfg.Database.Path)
			if err != nil {
				return err
			}
			a.logger.Info("database migrated",
				zap.String("path", a.cfg.Database.Path),
				zap.Uint("version", version),
				zap.Bool("dirty", dirty))
			return nil
		},
	}
}
