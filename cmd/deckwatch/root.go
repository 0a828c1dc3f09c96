package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deckwatch/deckwatch/internal/config"
	"github.com/deckwatch/deckwatch/internal/dataset"
	"github.com/deckwatch/deckwatch/internal/storage"
)

// app carries the state shared by subcommands: flags resolved into a
// validated config and a logger. The database is opened lazily because
// several commands never touch it.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "deckwatch",
		Short: "Tournament meta engine: archetype resolution, aggregation, comparison, forecasting",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "deckwatch.toml", "path to the configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newResolveCommand(a),
		newAggregateCommand(a),
		newCompareCommand(a),
		newForecastCommand(a),
		newVariantsCommand(),
		newPromoteCommand(a),
		newMigrateCommand(a),
		newWatchCommand(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	if a.verbose {
		a.logger, err = zap.NewDevelopment()
	} else {
		a.logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	return nil
}

// openDB opens the configured sqlite database, migrating it when
// configured to.
func (a *app) openDB() (*storage.DB, error) {
	return storage.Open(&storage.Config{
		Path:        a.cfg.Database.Path,
		AutoMigrate: a.cfg.Database.AutoMigrate,
	})
}

func (a *app) dataPaths() dataset.Paths {
	return dataset.Paths{
		Signatures: a.cfg.SignaturePath(),
		Sprites:    a.cfg.SpritePath(),
		Aliases:    a.cfg.AliasPath(),
	}
}
