// Package signature maps known signature cards to deck archetypes and
// detects the archetype of a decklist by aggregate signature quantity.
package signature

// Index maps card ids to the archetype they signal. It is built once per
// resolution batch and shared read-only across workers; registration order
// is retained and used as the deterministic tie-break between archetypes
// with equal aggregate quantity.
type Index struct {
	byCard map[string]string
	rank   map[string]int
}

// NewIndex returns an empty signature index.
func NewIndex() *Index {
	return &Index{
		byCard: make(map[string]string),
		rank:   make(map[string]int),
	}
}

// Add registers cardID as a signature card for archetype. Re-adding a card
// overwrites its archetype but keeps the archetype's original rank.
func (ix *Index) Add(cardID, archetype string) {
	if cardID == "" || archetype == "" {
		return
	}
	ix.byCard[cardID] = archetype
	if _, seen := ix.rank[archetype]; !seen {
		ix.rank[archetype] = len(ix.rank)
	}
}

// Archetype returns the archetype signaled by cardID.
func (ix *Index) Archetype(cardID string) (string, bool) {
	a, ok := ix.byCard[cardID]
	return a, ok
}

// Rank returns the declaration rank of an archetype; archetypes registered
// earlier rank lower. Unknown archetypes rank after all known ones.
func (ix *Index) Rank(archetype string) int {
	if r, ok := ix.rank[archetype]; ok {
		return r
	}
	return len(ix.rank)
}

// Len returns the number of registered signature cards.
func (ix *Index) Len() int {
	return len(ix.byCard)
}
