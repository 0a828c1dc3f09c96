// Package repository implements the persistence collaborators the engine
// assumes: snapshot upserts keyed on the meta dimension and the card id
// mapping store with its placeholder guarantees.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deckwatch/deckwatch/internal/storage/models"
)

const dateLayout = "2006-01-02"

// SnapshotRepository persists meta snapshots. A later snapshot for the
// same dimension key replaces the earlier one.
type SnapshotRepository interface {
	// Upsert inserts the snapshot, replacing any existing row with the
	// same (date, region, format, best_of) key.
	Upsert(ctx context.Context, snap *models.MetaSnapshot) error

	// Latest returns the most recent snapshot for the dimension, or nil
	// when none exists.
	Latest(ctx context.Context, region, format string, bestOf int) (*models.MetaSnapshot, error)

	// LatestBefore returns the most recent snapshot dated strictly before
	// the cutoff, or nil when none exists.
	LatestBefore(ctx context.Context, region, format string, bestOf int, cutoff models.SnapshotKey) (*models.MetaSnapshot, error)

	// Get returns the snapshot for an exact dimension key, or nil.
	Get(ctx context.Context, key models.SnapshotKey) (*models.MetaSnapshot, error)
}

type snapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a snapshot repository over db.
func NewSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Upsert(ctx context.Context, snap *models.MetaSnapshot) error {
	shares, err := json.Marshal(snap.ArchetypeShares)
	if err != nil {
		return fmt.Errorf("marshal archetype shares: %w", err)
	}
	tiers, err := json.Marshal(snap.TierAssignments)
	if err != nil {
		return fmt.Errorf("marshal tier assignments: %w", err)
	}
	trends, err := json.Marshal(snap.Trends)
	if err != nil {
		return fmt.Errorf("marshal trends: %w", err)
	}

	createdAt := snap.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO meta_snapshots (
			snapshot_date, region, format, best_of,
			archetype_shares, sample_size, diversity_index,
			tier_assignments, trends, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (snapshot_date, region, format, best_of) DO UPDATE SET
			archetype_shares = excluded.archetype_shares,
			sample_size = excluded.sample_size,
			diversity_index = excluded.diversity_index,
			tier_assignments = excluded.tier_assignments,
			trends = excluded.trends,
			created_at = excluded.created_at
	`
	_, err = r.db.ExecContext(ctx, query,
		snap.Key.Date.Format(dateLayout),
		snap.Key.Region,
		snap.Key.Format,
		snap.Key.BestOf,
		string(shares),
		snap.SampleSize,
		snap.DiversityIndex,
		string(tiers),
		string(trends),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepository) Latest(ctx context.Context, region, format string, bestOf int) (*models.MetaSnapshot, error) {
	query := `
		SELECT snapshot_date, region, format, best_of,
		       archetype_shares, sample_size, diversity_index,
		       tier_assignments, trends, created_at
		FROM meta_snapshots
		WHERE region = ? AND format = ? AND best_of = ?
		ORDER BY snapshot_date DESC
		LIMIT 1
	`
	return r.queryOne(ctx, query, region, format, bestOf)
}

func (r *snapshotRepository) LatestBefore(ctx context.Context, region, format string, bestOf int, cutoff models.SnapshotKey) (*models.MetaSnapshot, error) {
	query := `
		SELECT snapshot_date, region, format, best_of,
		       archetype_shares, sample_size, diversity_index,
		       tier_assignments, trends, created_at
		FROM meta_snapshots
		WHERE region = ? AND format = ? AND best_of = ? AND snapshot_date < ?
		ORDER BY snapshot_date DESC
		LIMIT 1
	`
	return r.queryOne(ctx, query, region, format, bestOf, cutoff.Date.Format(dateLayout))
}

func (r *snapshotRepository) Get(ctx context.Context, key models.SnapshotKey) (*models.MetaSnapshot, error) {
	query := `
		SELECT snapshot_date, region, format, best_of,
		       archetype_shares, sample_size, diversity_index,
		       tier_assignments, trends, created_at
		FROM meta_snapshots
		WHERE snapshot_date = ? AND region = ? AND format = ? AND best_of = ?
	`
	return r.queryOne(ctx, query, key.Date.Format(dateLayout), key.Region, key.Format, key.BestOf)
}

func (r *snapshotRepository) queryOne(ctx context.Context, query string, args ...any) (*models.MetaSnapshot, error) {
	row := r.db.QueryRowContext(ctx, query, args...)

	var (
		snap      models.MetaSnapshot
		date      string
		shares    string
		tiers     string
		trends    string
		createdAt string
	)
	err := row.Scan(
		&date, &snap.Key.Region, &snap.Key.Format, &snap.Key.BestOf,
		&shares, &snap.SampleSize, &snap.DiversityIndex,
		&tiers, &trends, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}

	if snap.Key.Date, err = time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("parse snapshot date %q: %w", date, err)
	}
	if snap.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if err := json.Unmarshal([]byte(shares), &snap.ArchetypeShares); err != nil {
		return nil, fmt.Errorf("unmarshal archetype shares: %w", err)
	}
	if err := json.Unmarshal([]byte(tiers), &snap.TierAssignments); err != nil {
		return nil, fmt.Errorf("unmarshal tier assignments: %w", err)
	}
	if err := json.Unmarshal([]byte(trends), &snap.Trends); err != nil {
		return nil, fmt.Errorf("unmarshal trends: %w", err)
	}
	return &snap, nil
}
