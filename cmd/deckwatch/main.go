// Command deckwatch is the tournament meta engine CLI: it resolves
// scraped placements to archetypes, aggregates them into meta snapshots,
// and serves comparisons and forecasts from the snapshot store.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
