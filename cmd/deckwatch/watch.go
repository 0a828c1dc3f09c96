package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deckwatch/deckwatch/internal/dataset"
)

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the index data files and reload them on change",
		Long: `Watch holds the archetype indices in memory and reloads them whenever
the signature, sprite, or alias file changes on disk. A broken edit
keeps the previous indices in service until the file is fixed. Runs
until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := a.dataPaths()

			// Fail fast on a broken initial state rather than watching it.
			bundle, err := dataset.Load(paths)
			if err != nil {
				return err
			}
			a.logger.Info("indices loaded",
				zap.Int("signature_cards", bundle.Signatures.Len()),
				zap.Int("aliases", bundle.Aliases.Len()))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			watcher := dataset.NewWatcher(paths, a.logger, nil)
			return watcher.Run(ctx)
		},
	}
}
