// Package models defines the persistence-facing records shared between
// the resolution engine and the storage layer.
package models

import "time"

// DecklistCard is one scraped decklist line. Name is provider-supplied
// and optional; Quantity is frequently missing or mangled upstream and is
// defaulted during detection, not here.
type DecklistCard struct {
	CardID   string `json:"card_id"`
	Name     string `json:"name,omitempty"`
	Quantity int    `json:"quantity"`
}

// Placement is a single tournament result as scraped from a provider,
// mutated in place by the resolution cascade with the resolved archetype
// fields.
type Placement struct {
	TournamentID string         `json:"tournament_id"`
	Placement    int            `json:"placement"`
	PlayerName   string         `json:"player_name"`
	Country      string         `json:"country,omitempty"`
	SpriteURLs   []string       `json:"sprite_urls,omitempty"`
	RawArchetype string         `json:"raw_archetype"`
	Decklist     []DecklistCard `json:"decklist,omitempty"`

	// Written back by the resolution cascade.
	Archetype           string   `json:"archetype,omitempty"`
	DetectionMethod     string   `json:"detection_method,omitempty"`
	Confidence          float64  `json:"confidence,omitempty"`
	RawArchetypeSprites []string `json:"raw_archetype_sprites,omitempty"`
}

// CardIDMapping links a JP catalog id to its EN counterpart. A synthetic
// mapping references exactly one placeholder card; promotion to an
// official id clears both the flag and the reference atomically.
type CardIDMapping struct {
	ID            int64      `json:"id"`
	JPCardID      string     `json:"jp_card_id"`
	ENCardID      string     `json:"en_card_id"`
	Confidence    float64    `json:"confidence"`
	IsSynthetic   bool       `json:"is_synthetic"`
	PlaceholderID *int64     `json:"placeholder_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	PromotedAt    *time.Time `json:"promoted_at,omitempty"`
}

// PlaceholderCard is a temporary stand-in for a card with no official id
// in the target catalog yet.
type PlaceholderCard struct {
	ID         int64     `json:"id"`
	TempCardID string    `json:"temp_card_id"`
	SourceID   string    `json:"source_id"`
	Name       string    `json:"name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SnapshotKey identifies one meta dimension: a date, an optional region,
// a format, and a best-of convention.
type SnapshotKey struct {
	Date   time.Time `json:"date"`
	Region string    `json:"region,omitempty"`
	Format string    `json:"format"`
	BestOf int       `json:"best_of"`
}

// Trend is the week-over-week movement of one archetype's share.
type Trend struct {
	Change        float64  `json:"change"`
	Direction     string   `json:"direction"`
	PreviousShare *float64 `json:"previous_share,omitempty"`
}

// MetaSnapshot is the aggregated state of one meta dimension. Later
// snapshots for the same key replace earlier ones.
type MetaSnapshot struct {
	Key             SnapshotKey        `json:"key"`
	ArchetypeShares map[string]float64 `json:"archetype_shares"`
	SampleSize      int                `json:"sample_size"`
	DiversityIndex  float64            `json:"diversity_index"`
	TierAssignments map[string]string  `json:"tier_assignments"`
	Trends          map[string]Trend   `json:"trends"`
	CreatedAt       time.Time          `json:"created_at"`
}
