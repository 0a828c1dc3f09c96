package cardid

import (
	"context"
	"fmt"
)

// CatalogCard is one row returned by a catalog lookup.
type CatalogCard struct {
	ID       string
	Name     string
	ImageURL string
}

// ResolvedCard is the per-id output of a batch resolution: enough to
// render a decklist entry with name and art.
type ResolvedCard struct {
	Name     string
	ImageURL string
}

// Mapping links a JP catalog id to its EN counterpart. Synthetic mappings
// reference a placeholder id minted before the card's official release.
type Mapping struct {
	JPCardID   string
	ENCardID   string
	Confidence float64
	Synthetic  bool
}

// Counterpart returns the other side of the mapping for the given id, or
// "" when the id is on neither side.
func (m Mapping) Counterpart(id string) string {
	switch id {
	case m.JPCardID:
		return m.ENCardID
	case m.ENCardID:
		return m.JPCardID
	}
	return ""
}

// CatalogLookup fetches catalog rows whose id is in ids. Implementations
// are expected to treat ids as a set; unmatched ids are simply omitted.
type CatalogLookup func(ctx context.Context, ids []string) ([]CatalogCard, error)

// MappingLookup fetches cross-reference mappings where either side's id is
// in ids.
type MappingLookup func(ctx context.Context, ids []string) ([]Mapping, error)

// PlaceholderStore mints placeholder-backed synthetic mappings for source
// ids with no counterpart. EnsureMapping must be idempotent: repeated calls
// with the same source id return the same mapping.
type PlaceholderStore interface {
	EnsureMapping(ctx context.Context, sourceID string) (Mapping, error)
}

// BatchResolver matches scraped card ids against a catalog, falling back
// to the JP/EN cross-reference table, using variant expansion on both
// passes. Lookups are injected so the resolver itself stays pure: the same
// catalog state and input always produce the same output map.
type BatchResolver struct {
	Catalog  CatalogLookup
	Mappings MappingLookup

	// Placeholders, when set, registers a synthetic mapping for every id
	// that survives both passes unresolved. Resolution output is not
	// affected; placeholders carry no name or art.
	Placeholders PlaceholderStore
}

// Resolve maps each requested id to its catalog name and image. Ids that
// cannot be matched are absent from the result; that is not an error.
func (r *BatchResolver) Resolve(ctx context.Context, ids []string) (map[string]ResolvedCard, error) {
	if r.Catalog == nil {
		return nil, fmt.Errorf("batch resolver requires a catalog lookup")
	}

	variantsByID := make(map[string][]string, len(ids))
	for _, id := range ids {
		if _, dup := variantsByID[id]; dup {
			continue
		}
		variantsByID[id] = GenerateVariants(id)
	}

	resolved := make(map[string]ResolvedCard, len(ids))
	if err := r.matchAgainstCatalog(ctx, ids, variantsByID, resolved); err != nil {
		return nil, err
	}

	unresolved := missingFrom(ids, resolved)
	if len(unresolved) == 0 {
		return resolved, nil
	}

	if r.Mappings != nil {
		if err := r.resolveThroughMappings(ctx, unresolved, variantsByID, resolved); err != nil {
			return nil, err
		}
		unresolved = missingFrom(ids, resolved)
	}

	if r.Placeholders != nil {
		for _, id := range unresolved {
			if _, err := r.Placeholders.EnsureMapping(ctx, id); err != nil {
				return nil, fmt.Errorf("ensure placeholder mapping for %s: %w", id, err)
			}
		}
	}

	return resolved, nil
}

// matchAgainstCatalog issues one lookup over the union of every id's
// variants and maps each returned row back to every original id whose
// variant set contains the row's catalog id.
func (r *BatchResolver) matchAgainstCatalog(ctx context.Context, ids []string, variantsByID map[string][]string, out map[string]ResolvedCard) error {
	union := variantUnion(ids, variantsByID)
	if len(union) == 0 {
		return nil
	}

	rows, err := r.Catalog(ctx, union)
	if err != nil {
		return fmt.Errorf("catalog lookup: %w", err)
	}

	byCatalogID := make(map[string]CatalogCard, len(rows))
	for _, row := range rows {
		byCatalogID[row.ID] = row
	}

	for _, id := range ids {
		if _, done := out[id]; done {
			continue
		}
		for _, v := range variantsByID[id] {
			if row, ok := byCatalogID[v]; ok {
				out[id] = ResolvedCard{Name: row.Name, ImageURL: row.ImageURL}
				break
			}
		}
	}
	return nil
}

// resolveThroughMappings retries unresolved ids via the cross-reference
// table: look the id's variants up in the mapping table, then match the
// mapped counterpart's variants against the catalog.
func (r *BatchResolver) resolveThroughMappings(ctx context.Context, unresolved []string, variantsByID map[string][]string, out map[string]ResolvedCard) error {
	union := variantUnion(unresolved, variantsByID)
	mappings, err := r.Mappings(ctx, union)
	if err != nil {
		return fmt.Errorf("mapping lookup: %w", err)
	}

	// Counterpart id per original, first mapping hit wins.
	counterpartByID := make(map[string]string, len(unresolved))
	counterpartVariants := make(map[string][]string)
	for _, id := range unresolved {
		for _, v := range variantsByID[id] {
			cp := firstCounterpart(mappings, v)
			if cp == "" {
				continue
			}
			counterpartByID[id] = cp
			if _, dup := counterpartVariants[cp]; !dup {
				counterpartVariants[cp] = GenerateVariants(cp)
			}
			break
		}
	}
	if len(counterpartByID) == 0 {
		return nil
	}

	counterparts := make([]string, 0, len(counterpartVariants))
	for _, id := range unresolved {
		cp, ok := counterpartByID[id]
		if !ok {
			continue
		}
		counterparts = append(counterparts, cp)
	}

	rows, err := r.Catalog(ctx, variantUnion(counterparts, counterpartVariants))
	if err != nil {
		return fmt.Errorf("catalog lookup for mapped ids: %w", err)
	}
	byCatalogID := make(map[string]CatalogCard, len(rows))
	for _, row := range rows {
		byCatalogID[row.ID] = row
	}

	for _, id := range unresolved {
		cp, ok := counterpartByID[id]
		if !ok {
			continue
		}
		for _, v := range counterpartVariants[cp] {
			if row, found := byCatalogID[v]; found {
				out[id] = ResolvedCard{Name: row.Name, ImageURL: row.ImageURL}
				break
			}
		}
	}
	return nil
}

func firstCounterpart(mappings []Mapping, id string) string {
	for _, m := range mappings {
		if cp := m.Counterpart(id); cp != "" {
			return cp
		}
	}
	return ""
}

// variantUnion flattens the variant sets of ids, deduplicated, preserving
// first-seen order so downstream lookups are deterministic.
func variantUnion(ids []string, variantsByID map[string][]string) []string {
	seen := make(map[string]struct{})
	var union []string
	for _, id := range ids {
		for _, v := range variantsByID[id] {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			union = append(union, v)
		}
	}
	return union
}

func missingFrom(ids []string, resolved map[string]ResolvedCard) []string {
	var missing []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := resolved[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
