package signature

import "strings"

// Rogue is returned when a decklist matches no signature cards. It marks
// an off-meta deck, not an error.
const Rogue = "Rogue"

// Entry is one decklist line as scraped: a provider card id, an optional
// display name, and a quantity that providers frequently omit or mangle.
type Entry struct {
	CardID   string
	Name     string
	Quantity int
}

// Translator maps a provider card id to its catalog counterpart (JP to EN
// in practice). Ids with no mapping must be returned unchanged.
type Translator func(cardID string) string

// Detector votes a decklist into an archetype using a signature-card
// index. The zero value is unusable; construct with NewDetector.
type Detector struct {
	index     *Index
	translate Translator

	// normalizeLabel cleans a free-text archetype label when detection
	// finds nothing. Defaults to trimming whitespace.
	normalizeLabel func(string) string
}

// Option configures a Detector.
type Option func(*Detector)

// WithTranslator installs a card id translation applied before index
// lookup.
func WithTranslator(t Translator) Option {
	return func(d *Detector) { d.translate = t }
}

// WithLabelNormalizer installs the fallback normalizer used by
// DetectFromExisting.
func WithLabelNormalizer(f func(string) string) Option {
	return func(d *Detector) { d.normalizeLabel = f }
}

// NewDetector creates a detector over the given index.
func NewDetector(index *Index, opts ...Option) *Detector {
	d := &Detector{
		index:          index,
		translate:      func(id string) string { return id },
		normalizeLabel: strings.TrimSpace,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the archetype with the highest aggregate signature
// quantity in the decklist, or Rogue when nothing matches.
func (d *Detector) Detect(deck []Entry) string {
	name, _ := d.DetectWithConfidence(deck)
	return name
}

// DetectWithConfidence returns the winning archetype together with the
// full per-archetype quantity map that produced it. Ties on aggregate
// quantity break toward the archetype registered earliest in the index.
func (d *Detector) DetectWithConfidence(deck []Entry) (string, map[string]int) {
	votes := make(map[string]int)

	for _, entry := range deck {
		id := strings.TrimSpace(entry.CardID)
		if id == "" {
			// No usable id; nothing to look up.
			continue
		}
		qty := entry.Quantity
		if qty <= 0 {
			qty = 1
		}
		if mapped := d.translate(id); mapped != "" {
			id = mapped
		}
		if archetype, ok := d.index.Archetype(id); ok {
			votes[archetype] += qty
		}
	}

	if len(votes) == 0 {
		return Rogue, votes
	}

	best := ""
	bestQty := -1
	for archetype, qty := range votes {
		switch {
		case qty > bestQty:
			best, bestQty = archetype, qty
		case qty == bestQty && d.index.Rank(archetype) < d.index.Rank(best):
			best = archetype
		}
	}
	return best, votes
}

// DetectFromExisting prefers a freshly detected signature archetype and
// falls back to the normalized existing label only when detection finds
// nothing.
func (d *Detector) DetectFromExisting(deck []Entry, existing string) string {
	if detected := d.Detect(deck); detected != Rogue {
		return detected
	}
	if normalized := d.normalizeLabel(existing); normalized != "" {
		return normalized
	}
	return Rogue
}
