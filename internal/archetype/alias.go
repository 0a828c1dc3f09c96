package archetype

import "strings"

// Unknown is the sentinel archetype for placements that resolve to
// nothing usable. It is never empty and never whitespace.
const Unknown = "Unknown"

// AliasTable normalizes free-text archetype labels to canonical names.
// Matching is case-insensitive over trimmed input.
type AliasTable struct {
	byAlias map[string]string
}

// NewAliasTable returns an empty alias table.
func NewAliasTable() *AliasTable {
	return &AliasTable{byAlias: make(map[string]string)}
}

// Add registers an alias for a canonical archetype name. The canonical
// name itself is also registered so exact spellings survive round trips.
func (t *AliasTable) Add(alias, canonical string) {
	if alias == "" || canonical == "" {
		return
	}
	t.byAlias[normalizeAlias(alias)] = canonical
	t.byAlias[normalizeAlias(canonical)] = canonical
}

// Normalize maps a raw label to its canonical archetype name. Empty or
// whitespace-only input collapses to Unknown; labels with no alias entry
// are returned trimmed but otherwise untouched.
func (t *AliasTable) Normalize(label string) string {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return Unknown
	}
	if canonical, ok := t.byAlias[normalizeAlias(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// Known reports whether the label has a canonical entry.
func (t *AliasTable) Known(label string) bool {
	_, ok := t.byAlias[normalizeAlias(strings.TrimSpace(label))]
	return ok
}

// Len returns the number of registered alias spellings.
func (t *AliasTable) Len() int {
	return len(t.byAlias)
}

func normalizeAlias(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
