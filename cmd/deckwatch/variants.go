package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckwatch/deckwatch/internal/cardid"
)

func newVariantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "variants <card-id>",
		Short: "Print the lookup variants generated for a card id",
		Long: `Variants prints every id spelling the batch resolver will try for a
card id, covering the zero-padding differences between providers
(sv3-5, sv03-05, sv3-005, ...). The original id is always first.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, v := range cardid.GenerateVariants(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
		},
	}
}
