package meta

import (
	"math"
	"strings"
	"testing"

	"github.com/deckwatch/deckwatch/internal/storage/models"
)

func resolved(archetype string) *models.Placement {
	return &models.Placement{Archetype: archetype, DetectionMethod: "sprite_lookup", Confidence: 0.95}
}

func TestComputeArchetypeShares(t *testing.T) {
	placements := []*models.Placement{
		resolved("Charizard ex"),
		resolved("Charizard ex"),
		resolved("Gardevoir ex"),
		resolved("Chien-Pao ex"),
	}

	shares, sample := ComputeArchetypeShares(placements)
	if sample != 4 {
		t.Fatalf("sample = %d, want 4", sample)
	}
	if got := shares["Charizard ex"]; got != 0.5 {
		t.Errorf("Charizard ex share = %v, want 0.5", got)
	}
	if got := shares["Gardevoir ex"]; got != 0.25 {
		t.Errorf("Gardevoir ex share = %v, want 0.25", got)
	}
}

func TestComputeArchetypeShares_SumsToOne(t *testing.T) {
	tests := []struct {
		name       string
		archetypes []string
	}{
		{name: "single archetype", archetypes: []string{"Charizard ex"}},
		{name: "even split", archetypes: []string{"A", "B", "C", "D"}},
		{name: "awkward thirds", archetypes: []string{"A", "A", "B"}},
		{name: "many archetypes", archetypes: []string{"A", "B", "C", "D", "E", "F", "G"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var placements []*models.Placement
			for _, a := range tt.archetypes {
				placements = append(placements, resolved(a))
			}
			shares, _ := ComputeArchetypeShares(placements)

			sum := 0.0
			for _, s := range shares {
				sum += s
			}
			if math.Abs(sum-1.0) > 0.01 {
				t.Errorf("shares sum = %v, want 1.0 within tolerance", sum)
			}
		})
	}
}

func TestComputeArchetypeShares_ExcludesBlankArchetypes(t *testing.T) {
	placements := []*models.Placement{
		resolved("Charizard ex"),
		resolved(""),
		resolved("   "),
		nil,
		resolved("Gardevoir ex"),
	}

	shares, sample := ComputeArchetypeShares(placements)
	if sample != 2 {
		t.Fatalf("sample = %d, want 2 (blank and nil excluded)", sample)
	}
	for name := range shares {
		if strings.TrimSpace(name) == "" {
			t.Errorf("shares contains blank key %q", name)
		}
	}
	if shares["Charizard ex"] != 0.5 {
		t.Errorf("Charizard ex share = %v, want 0.5 of valid placements", shares["Charizard ex"])
	}
}

func TestComputeArchetypeShares_EmptyInput(t *testing.T) {
	shares, sample := ComputeArchetypeShares(nil)
	if sample != 0 || len(shares) != 0 {
		t.Errorf("empty input produced shares %v sample %d", shares, sample)
	}
}

func TestDiversityIndex(t *testing.T) {
	tests := []struct {
		name   string
		shares map[string]float64
		want   float64
	}{
		{name: "empty field", shares: nil, want: 0},
		{name: "single archetype", shares: map[string]float64{"A": 1.0}, want: 0},
		{name: "even pair", shares: map[string]float64{"A": 0.5, "B": 0.5}, want: 0.5},
		{name: "even quartet", shares: map[string]float64{"A": 0.25, "B": 0.25, "C": 0.25, "D": 0.25}, want: 0.75},
		{name: "skewed pair", shares: map[string]float64{"A": 0.9, "B": 0.1}, want: 0.18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiversityIndex(tt.shares)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DiversityIndex() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiversityIndex_Bounded(t *testing.T) {
	// A more even spread always scores at least as high, and everything
	// stays in [0,1].
	skewed := map[string]float64{"A": 0.97, "B": 0.01, "C": 0.01, "D": 0.01}
	even := map[string]float64{"A": 0.25, "B": 0.25, "C": 0.25, "D": 0.25}

	ds, de := DiversityIndex(skewed), DiversityIndex(even)
	if ds < 0 || ds > 1 || de < 0 || de > 1 {
		t.Errorf("diversity out of bounds: skewed=%v even=%v", ds, de)
	}
	if de <= ds {
		t.Errorf("even spread %v must score above skewed %v", de, ds)
	}
}
