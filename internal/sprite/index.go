// Package sprite resolves archetypes from the small icon-image URLs
// providers embed next to tournament placements. Each URL names one
// card's sprite; a combination of sprites identifies a deck.
package sprite

import (
	"path"
	"sort"
	"strings"
)

// Match is a successful combination lookup.
type Match struct {
	Archetype  string
	Confidence float64
}

// Index holds the known sprite-combination to archetype table and the
// per-sprite display names used for auto-derivation. It is loaded once
// per batch and read concurrently without locking.
type Index struct {
	combos map[string]Match
	names  map[string]string
	art    map[string]string
}

// NewIndex returns an empty sprite index.
func NewIndex() *Index {
	return &Index{
		combos: make(map[string]Match),
		names:  make(map[string]string),
		art:    make(map[string]string),
	}
}

// AddCombo registers a canonical sprite combination for an archetype.
// Tokens are matched order-insensitively: providers emit the same icons
// in different orders. A zero confidence defaults to 0.95.
func (ix *Index) AddCombo(tokens []string, archetype string, confidence float64) {
	if len(tokens) == 0 || archetype == "" {
		return
	}
	if confidence == 0 {
		confidence = 0.95
	}
	ix.combos[comboKey(tokens)] = Match{Archetype: archetype, Confidence: confidence}
}

// AddName registers the display name for a single sprite token, used when
// a combination is unmapped but its members are individually recognized.
func (ix *Index) AddName(token, display string) {
	if token == "" || display == "" {
		return
	}
	ix.names[normalizeToken(token)] = display
}

// Lookup resolves a full sprite-URL combination against the canonical
// table.
func (ix *Index) Lookup(urls []string) (Match, bool) {
	tokens := Tokens(urls)
	if len(tokens) == 0 {
		return Match{}, false
	}
	m, ok := ix.combos[comboKey(tokens)]
	return m, ok
}

// DeriveName composes an archetype name from the recognized sprites of an
// unmapped combination, preserving sprite order. It fails when no sprite
// is individually recognized; unrecognized sprites in a partially
// recognized combination are dropped.
func (ix *Index) DeriveName(urls []string) (string, bool) {
	var parts []string
	for _, token := range Tokens(urls) {
		if display, ok := ix.names[token]; ok {
			parts = append(parts, display)
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, " "), true
}

// AddArt registers the representative art URL for an archetype, used to
// enrich forecast output.
func (ix *Index) AddArt(archetype, url string) {
	if archetype == "" || url == "" {
		return
	}
	ix.art[archetype] = url
}

// ArtFor returns the representative art URL registered for an archetype.
func (ix *Index) ArtFor(archetype string) (string, bool) {
	url, ok := ix.art[archetype]
	return url, ok
}

// NameFor returns the display name registered for a single sprite URL.
func (ix *Index) NameFor(url string) (string, bool) {
	display, ok := ix.names[TokenFromURL(url)]
	return display, ok
}

// Tokens extracts the sprite tokens of each URL, skipping URLs that yield
// no token.
func Tokens(urls []string) []string {
	tokens := make([]string, 0, len(urls))
	for _, u := range urls {
		if t := TokenFromURL(u); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// TokenFromURL extracts the sprite token from an icon URL: the basename
// with its extension stripped, lowercased. Query strings and fragments
// are ignored.
func TokenFromURL(url string) string {
	u := url
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	base := path.Base(u)
	if base == "." || base == "/" {
		return ""
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	return normalizeToken(base)
}

func normalizeToken(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

// comboKey builds the order-insensitive lookup key for a token set.
func comboKey(tokens []string) string {
	normalized := make([]string, 0, len(tokens))
	for _, t := range tokens {
		normalized = append(normalized, normalizeToken(t))
	}
	sort.Strings(normalized)
	return strings.Join(normalized, "+")
}
