package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deckwatch/deckwatch/internal/cardid"
	"github.com/deckwatch/deckwatch/internal/storage/models"
)

// CardMappingRepository stores JP/EN card id mappings and the placeholder
// cards that back synthetic mappings. Placeholder creation is serialized
// on the source id so concurrent discovery of the same unreleased card
// yields exactly one record.
type CardMappingRepository interface {
	// FindByCardIDs returns every mapping whose JP or EN id appears in
	// ids.
	FindByCardIDs(ctx context.Context, ids []string) ([]models.CardIDMapping, error)

	// GetByJPID returns the mapping for a JP card id, or nil.
	GetByJPID(ctx context.Context, jpCardID string) (*models.CardIDMapping, error)

	// EnsurePlaceholder returns the synthetic mapping for sourceID,
	// minting a placeholder card and mapping on first encounter. Repeated
	// calls with the same sourceID return the same mapping.
	EnsurePlaceholder(ctx context.Context, sourceID, name string) (*models.CardIDMapping, error)

	// Promote rewrites a synthetic mapping to the official EN id,
	// clearing the synthetic flag and the placeholder reference in one
	// transaction. Fails if no mapping exists for jpCardID.
	Promote(ctx context.Context, jpCardID, officialENID string) error
}

type cardMappingRepository struct {
	db *sql.DB
}

// NewCardMappingRepository creates a card mapping repository over db.
func NewCardMappingRepository(db *sql.DB) CardMappingRepository {
	return &cardMappingRepository{db: db}
}

func (r *cardMappingRepository) FindByCardIDs(ctx context.Context, ids []string) ([]models.CardIDMapping, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	marks := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`
		SELECT id, jp_card_id, en_card_id, confidence, is_synthetic, placeholder_id, created_at, promoted_at
		FROM card_id_mappings
		WHERE jp_card_id IN (%s) OR en_card_id IN (%s)
		ORDER BY id
	`, marks, marks)

	args := make([]any, 0, len(ids)*2)
	for i := 0; i < 2; i++ {
		for _, id := range ids {
			args = append(args, id)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query card mappings: %w", err)
	}
	defer rows.Close()

	var mappings []models.CardIDMapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate card mappings: %w", err)
	}
	return mappings, nil
}

func (r *cardMappingRepository) GetByJPID(ctx context.Context, jpCardID string) (*models.CardIDMapping, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, jp_card_id, en_card_id, confidence, is_synthetic, placeholder_id, created_at, promoted_at
		FROM card_id_mappings
		WHERE jp_card_id = ?
	`, jpCardID)

	m, err := scanMapping(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *cardMappingRepository) EnsurePlaceholder(ctx context.Context, sourceID, name string) (*models.CardIDMapping, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin placeholder transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Fast path: the mapping already exists; the unique key on
	// jp_card_id makes this the serialization point.
	existing, err := getByJPIDTx(ctx, tx, sourceID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	tempID := cardid.NewPlaceholderID()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO placeholder_cards (temp_card_id, source_id, name, created_at)
		VALUES (?, ?, ?, ?)
	`, tempID, sourceID, name, now)
	if err != nil {
		return nil, fmt.Errorf("insert placeholder card: %w", err)
	}
	placeholderID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("placeholder card id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO card_id_mappings (jp_card_id, en_card_id, confidence, is_synthetic, placeholder_id, created_at)
		VALUES (?, ?, 1.0, 1, ?, ?)
	`, sourceID, tempID, placeholderID, now); err != nil {
		return nil, fmt.Errorf("insert synthetic mapping: %w", err)
	}

	created, err := getByJPIDTx(ctx, tx, sourceID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit placeholder transaction: %w", err)
	}
	return created, nil
}

func (r *cardMappingRepository) Promote(ctx context.Context, jpCardID, officialENID string) error {
	if officialENID == "" {
		return fmt.Errorf("cannot promote %q to an empty official id", jpCardID)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := r.db.ExecContext(ctx, `
		UPDATE card_id_mappings
		SET en_card_id = ?, is_synthetic = 0, placeholder_id = NULL, promoted_at = ?
		WHERE jp_card_id = ?
	`, officialENID, now, jpCardID)
	if err != nil {
		return fmt.Errorf("promote mapping: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("promote mapping rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no mapping exists for jp card id %q", jpCardID)
	}
	return nil
}

func getByJPIDTx(ctx context.Context, tx *sql.Tx, jpCardID string) (*models.CardIDMapping, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT id, jp_card_id, en_card_id, confidence, is_synthetic, placeholder_id, created_at, promoted_at
		FROM card_id_mappings
		WHERE jp_card_id = ?
	`, jpCardID)

	m, err := scanMapping(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMapping(row rowScanner) (*models.CardIDMapping, error) {
	var (
		m          models.CardIDMapping
		createdAt  string
		promotedAt sql.NullString
	)
	err := row.Scan(&m.ID, &m.JPCardID, &m.ENCardID, &m.Confidence, &m.IsSynthetic, &m.PlaceholderID, &createdAt, &promotedAt)
	if err != nil {
		return nil, err
	}
	if m.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if promotedAt.Valid {
		t, err := time.Parse(time.RFC3339, promotedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse promoted_at %q: %w", promotedAt.String, err)
		}
		m.PromotedAt = &t
	}
	return &m, nil
}

// PlaceholderStore adapts the repository to the batch resolver's
// placeholder interface.
type PlaceholderStore struct {
	Repo CardMappingRepository
}

// EnsureMapping implements cardid.PlaceholderStore.
func (s PlaceholderStore) EnsureMapping(ctx context.Context, sourceID string) (cardid.Mapping, error) {
	m, err := s.Repo.EnsurePlaceholder(ctx, sourceID, "")
	if err != nil {
		return cardid.Mapping{}, err
	}
	return cardid.Mapping{
		JPCardID:   m.JPCardID,
		ENCardID:   m.ENCardID,
		Confidence: m.Confidence,
		Synthetic:  m.IsSynthetic,
	}, nil
}

// MappingLookup adapts the repository to the batch resolver's mapping
// lookup function.
func MappingLookup(repo CardMappingRepository) cardid.MappingLookup {
	return func(ctx context.Context, ids []string) ([]cardid.Mapping, error) {
		records, err := repo.FindByCardIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		mappings := make([]cardid.Mapping, 0, len(records))
		for _, rec := range records {
			mappings = append(mappings, cardid.Mapping{
				JPCardID:   rec.JPCardID,
				ENCardID:   rec.ENCardID,
				Confidence: rec.Confidence,
				Synthetic:  rec.IsSynthetic,
			})
		}
		return mappings, nil
	}
}
