// Package archetype resolves scraped tournament placements to canonical
// deck archetypes through a strict cascade of detection methods.
package archetype

import "fmt"

// DetectionMethod identifies which stage of the cascade resolved a
// placement. The set is closed; plain strings exist only at the
// serialization boundary.
type DetectionMethod int

const (
	// MethodSpriteLookup resolved via a known sprite combination.
	MethodSpriteLookup DetectionMethod = iota
	// MethodAutoDerive composed a name from individually recognized sprites.
	MethodAutoDerive
	// MethodSignatureCard resolved via the signature-card detector.
	MethodSignatureCard
	// MethodTextLabel normalized the provider's free-text label.
	MethodTextLabel
)

var methodNames = map[DetectionMethod]string{
	MethodSpriteLookup:  "sprite_lookup",
	MethodAutoDerive:    "auto_derive",
	MethodSignatureCard: "signature_card",
	MethodTextLabel:     "text_label",
}

// String returns the wire spelling of the method.
func (m DetectionMethod) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("detection_method(%d)", int(m))
}

// ParseMethod converts a wire spelling back into a DetectionMethod.
func ParseMethod(s string) (DetectionMethod, error) {
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown detection method %q", s)
}

// TrustRank orders methods by how much we trust their output; lower is
// more trusted. sprite_lookup > auto_derive > signature_card > text_label.
func (m DetectionMethod) TrustRank() int {
	return int(m)
}

// MoreTrustedThan reports whether m outranks other.
func (m DetectionMethod) MoreTrustedThan(other DetectionMethod) bool {
	return m.TrustRank() < other.TrustRank()
}
