package meta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckwatch/deckwatch/internal/storage/models"
)

func TestFormatForecast(t *testing.T) {
	jp := snap("JP", 1, 15, map[string]float64{
		"Charizard ex": 0.30,
		"Chien-Pao ex": 0.20,
		"Gardevoir ex": 0.05,
		"Fringe Deck":  0.009, // below the 1% floor
	}, 400)
	jp.TierAssignments = map[string]string{
		"Charizard ex": TierS,
		"Chien-Pao ex": TierS,
		"Gardevoir ex": TierB,
	}
	prev := 0.25
	jp.Trends = map[string]models.Trend{
		"Charizard ex": {Change: 0.05, Direction: TrendUp, PreviousShare: &prev},
	}

	engine := testEngine(&fakeSource{snapshots: []*models.MetaSnapshot{jp}}).
		WithSpriteLookup(func(archetype string) string {
			if archetype == "Charizard ex" {
				return "https://cdn.example.net/pokemon/charizard.png"
			}
			return ""
		})

	forecast, err := engine.FormatForecast(context.Background(), "standard", 0)
	require.NoError(t, err)

	require.Len(t, forecast.Entries, 3, "sub-floor archetypes must be dropped")
	assert.Equal(t, "Charizard ex", forecast.Entries[0].Archetype)
	assert.Equal(t, "Chien-Pao ex", forecast.Entries[1].Archetype)
	assert.Equal(t, "Gardevoir ex", forecast.Entries[2].Archetype)

	top := forecast.Entries[0]
	assert.Equal(t, TierS, top.Tier)
	require.NotNil(t, top.Trend)
	assert.Equal(t, TrendUp, top.Trend.Direction)
	assert.Equal(t, "https://cdn.example.net/pokemon/charizard.png", top.SpriteURL)

	assert.Equal(t, 400, forecast.SampleSize)
	assert.Equal(t, BandHigh, forecast.Confidence)
}

func TestFormatForecast_SlopeFromHistory(t *testing.T) {
	src := &fakeSource{snapshots: []*models.MetaSnapshot{
		snap("JP", 1, 1, map[string]float64{"Charizard ex": 0.10}, 300),
		snap("JP", 1, 8, map[string]float64{"Charizard ex": 0.20}, 300),
		snap("JP", 1, 15, map[string]float64{"Charizard ex": 0.30}, 300),
	}}
	engine := testEngine(src)

	forecast, err := engine.FormatForecast(context.Background(), "standard", 0)
	require.NoError(t, err)
	require.Len(t, forecast.Entries, 1)

	entry := forecast.Entries[0]
	require.NotNil(t, entry.Slope, "history should produce a slope")
	// Series 0.10, 0.20, 0.30 rises exactly 0.10 per snapshot.
	assert.InDelta(t, 0.10, *entry.Slope, 1e-9)
}

func TestFormatForecast_NoHistoryNoSlope(t *testing.T) {
	jp := snap("JP", 1, 15, map[string]float64{"Charizard ex": 0.30}, 300)
	engine := testEngine(&fakeSource{snapshots: []*models.MetaSnapshot{jp}})

	forecast, err := engine.FormatForecast(context.Background(), "standard", 0)
	require.NoError(t, err)
	require.Len(t, forecast.Entries, 1)
	assert.Nil(t, forecast.Entries[0].Slope)
}

func TestFormatForecast_TopN(t *testing.T) {
	jp := snap("JP", 1, 15, map[string]float64{"A": 0.4, "B": 0.3, "C": 0.2}, 100)
	engine := testEngine(&fakeSource{snapshots: []*models.MetaSnapshot{jp}})

	forecast, err := engine.FormatForecast(context.Background(), "standard", 2)
	require.NoError(t, err)
	require.Len(t, forecast.Entries, 2)
	assert.Equal(t, "A", forecast.Entries[0].Archetype)
}

func TestFormatForecast_NoSnapshotFailsLoud(t *testing.T) {
	engine := testEngine(&fakeSource{})

	_, err := engine.FormatForecast(context.Background(), "standard", 0)
	var missing *MissingDataError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "JP", missing.Region)
}

func TestFormatForecast_NothingQualifyingIsEmptyNotError(t *testing.T) {
	jp := snap("JP", 1, 15, map[string]float64{"Dust": 0.004, "Motes": 0.006}, 500)
	engine := testEngine(&fakeSource{snapshots: []*models.MetaSnapshot{jp}})

	forecast, err := engine.FormatForecast(context.Background(), "standard", 0)
	require.NoError(t, err)
	assert.Empty(t, forecast.Entries)
}
