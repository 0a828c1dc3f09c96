package main

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/deckwatch/deckwatch/internal/config"
	"github.com/deckwatch/deckwatch/internal/storage"
	"github.com/deckwatch/deckwatch/internal/storage/models"
	"github.com/deckwatch/deckwatch/internal/storage/repository"
)

func testApp(t *testing.T) (*app, repository.SnapshotRepository) {
	t.Helper()

	db, err := storage.Open(&storage.Config{
		Path:        filepath.Join(t.TempDir(), "deckwatch_test.db"),
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	a := &app{cfg: config.DefaultConfig(), logger: zap.NewNop()}
	return a, repository.NewSnapshotRepository(db.Conn())
}

func resolvedPlacement(archetype string) *models.Placement {
	return &models.Placement{
		Archetype:       archetype,
		DetectionMethod: "sprite_lookup",
		Confidence:      0.95,
	}
}

func TestAggregateStoresOneSnapshotPerDimension(t *testing.T) {
	a, repo := testApp(t)
	ctx := context.Background()

	batches := []tournamentBatch{
		{
			Date: "2025-06-15", Region: "JP", Format: "standard", BestOf: 1,
			Placements: []*models.Placement{
				resolvedPlacement("Charizard ex"),
				resolvedPlacement("Charizard ex"),
				resolvedPlacement("Gardevoir ex"),
			},
		},
		{
			Date: "2025-06-15", Region: "EN", Format: "standard", BestOf: 3,
			Placements: []*models.Placement{
				resolvedPlacement("Lost Box"),
			},
		},
	}

	if err := a.aggregate(ctx, repo, batches); err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	jp, err := repo.Latest(ctx, "JP", "standard", 1)
	if err != nil {
		t.Fatalf("load JP snapshot: %v", err)
	}
	if jp == nil {
		t.Fatal("expected a stored JP snapshot")
	}
	if jp.SampleSize != 3 {
		t.Errorf("expected JP sample size 3, got %d", jp.SampleSize)
	}
	if got := jp.ArchetypeShares["Charizard ex"]; got < 0.66 || got > 0.67 {
		t.Errorf("expected Charizard share ~2/3, got %v", got)
	}
	if jp.TierAssignments["Charizard ex"] != "S" {
		t.Errorf("expected S tier at 2/3 share, got %q", jp.TierAssignments["Charizard ex"])
	}

	en, err := repo.Latest(ctx, "EN", "standard", 3)
	if err != nil {
		t.Fatalf("load EN snapshot: %v", err)
	}
	if en == nil || en.SampleSize != 1 {
		t.Fatalf("expected EN snapshot with sample size 1, got %+v", en)
	}
}

func TestAggregateComputesTrendsAgainstStoredHistory(t *testing.T) {
	a, repo := testApp(t)
	ctx := context.Background()

	week1 := []tournamentBatch{{
		Date: "2025-06-08", Region: "JP", Format: "standard", BestOf: 1,
		Placements: []*models.Placement{
			resolvedPlacement("Charizard ex"),
			resolvedPlacement("Gardevoir ex"),
		},
	}}
	week2 := []tournamentBatch{{
		Date: "2025-06-15", Region: "JP", Format: "standard", BestOf: 1,
		Placements: []*models.Placement{
			resolvedPlacement("Charizard ex"),
			resolvedPlacement("Charizard ex"),
			resolvedPlacement("Charizard ex"),
			resolvedPlacement("Gardevoir ex"),
		},
	}}

	if err := a.aggregate(ctx, repo, week1); err != nil {
		t.Fatalf("aggregate week 1: %v", err)
	}
	if err := a.aggregate(ctx, repo, week2); err != nil {
		t.Fatalf("aggregate week 2: %v", err)
	}

	snap, err := repo.Latest(ctx, "JP", "standard", 1)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	trend, ok := snap.Trends["Charizard ex"]
	if !ok {
		t.Fatal("expected a trend for Charizard ex once history exists")
	}
	if trend.Direction != "up" {
		t.Errorf("expected upward trend from 0.5 to 0.75, got %q", trend.Direction)
	}
}

func TestKeyPlacementsValidation(t *testing.T) {
	tests := []struct {
		name  string
		batch tournamentBatch
	}{
		{"bad date", tournamentBatch{Date: "June 15", Format: "standard", BestOf: 3}},
		{"missing format", tournamentBatch{Date: "2025-06-15", BestOf: 3}},
		{"zero best-of", tournamentBatch{Date: "2025-06-15", Format: "standard"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := keyPlacements([]tournamentBatch{tt.batch}); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
