package cardid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PlaceholderSetCode is the reserved set prefix for cards that have no
// official id in the target catalog yet.
const PlaceholderSetCode = "PH"

// RefKind distinguishes official catalog ids from synthesized stand-ins.
type RefKind int

const (
	// RefOfficial is an id published by the catalog.
	RefOfficial RefKind = iota
	// RefPlaceholder is a temporary id minted for an unreleased card.
	RefPlaceholder
)

// CardRef is a tagged reference to a card: either an official catalog id
// or a placeholder minted for a card that has not been released in the
// target catalog. A placeholder always records the source id that caused
// its creation.
type CardRef struct {
	kind     RefKind
	id       string
	sourceID string
}

// OfficialRef returns a reference to an official catalog id.
func OfficialRef(id string) CardRef {
	return CardRef{kind: RefOfficial, id: id}
}

// PlaceholderRef returns a reference to a placeholder id minted for
// sourceID.
func PlaceholderRef(tempID, sourceID string) CardRef {
	return CardRef{kind: RefPlaceholder, id: tempID, sourceID: sourceID}
}

// Kind reports whether the reference is official or a placeholder.
func (r CardRef) Kind() RefKind { return r.kind }

// ID returns the referenced id (official or temporary).
func (r CardRef) ID() string { return r.id }

// SourceID returns the id that caused a placeholder's creation. Empty for
// official references.
func (r CardRef) SourceID() string { return r.sourceID }

// IsPlaceholder reports whether the reference points at a synthesized id.
func (r CardRef) IsPlaceholder() bool { return r.kind == RefPlaceholder }

// Promote converts a placeholder reference into an official one. The
// temporary id is retired, never reused with a new meaning. Promoting an
// already-official reference is an error.
func (r CardRef) Promote(officialID string) (CardRef, error) {
	if r.kind != RefPlaceholder {
		return CardRef{}, fmt.Errorf("cannot promote official id %q", r.id)
	}
	if officialID == "" {
		return CardRef{}, fmt.Errorf("cannot promote placeholder %q to empty id", r.id)
	}
	return OfficialRef(officialID), nil
}

// NewPlaceholderID mints a temporary card id under the placeholder set
// prefix, e.g. "PH-3f2a9c41". Uniqueness comes from the uuid ordinal;
// idempotency across repeated discovery of the same source card is the
// mapping store's responsibility, not this function's.
func NewPlaceholderID() string {
	ordinal := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return PlaceholderSetCode + "-" + ordinal
}
