package meta

import "testing"

func TestBandConfig_Band(t *testing.T) {
	bands := DefaultBandConfig()

	tests := []struct {
		name      string
		sample    int
		freshness int
		want      string
	}{
		{name: "exact high boundary", sample: 200, freshness: 3, want: BandHigh},
		{name: "one sample short of high", sample: 199, freshness: 3, want: BandMedium},
		{name: "one day too stale for high", sample: 200, freshness: 4, want: BandMedium},
		{name: "exact medium boundary", sample: 50, freshness: 7, want: BandMedium},
		{name: "medium sample but too stale", sample: 50, freshness: 8, want: BandLow},
		{name: "fresh but tiny sample", sample: 49, freshness: 0, want: BandLow},
		{name: "huge fresh sample", sample: 5000, freshness: 0, want: BandHigh},
		{name: "zero sample", sample: 0, freshness: 0, want: BandLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bands.Band(tt.sample, tt.freshness); got != tt.want {
				t.Errorf("Band(%d, %d) = %q, want %q", tt.sample, tt.freshness, got, tt.want)
			}
		})
	}
}

func TestTierThresholds_Assign(t *testing.T) {
	tiers := DefaultTierThresholds()

	tests := []struct {
		share float64
		want  string
	}{
		{share: 0.30, want: TierS},
		{share: 0.15, want: TierS},
		{share: 0.149, want: TierA},
		{share: 0.08, want: TierA},
		{share: 0.05, want: TierB},
		{share: 0.04, want: TierB},
		{share: 0.01, want: TierC},
		{share: 0.009, want: TierRogue},
		{share: 0, want: TierRogue},
	}

	for _, tt := range tests {
		if got := tiers.Assign(tt.share); got != tt.want {
			t.Errorf("Assign(%v) = %q, want %q", tt.share, got, tt.want)
		}
	}
}

func TestTierThresholds_AssignTiers(t *testing.T) {
	tiers := DefaultTierThresholds()
	got := tiers.AssignTiers(map[string]float64{
		"Charizard ex": 0.22,
		"Gardevoir ex": 0.09,
		"Fringe":       0.002,
	})

	want := map[string]string{
		"Charizard ex": TierS,
		"Gardevoir ex": TierA,
		"Fringe":       TierRogue,
	}
	for name, tier := range want {
		if got[name] != tier {
			t.Errorf("tier[%s] = %q, want %q", name, got[name], tier)
		}
	}
}
