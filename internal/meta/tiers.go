package meta

// Tier labels, strongest first. TierRogue is the catch-all below every
// threshold.
const (
	TierS     = "S"
	TierA     = "A"
	TierB     = "B"
	TierC     = "C"
	TierRogue = "Rogue"
)

// TierThresholds are the minimum shares for each tier. These are tuning
// knobs, not invariants; they come from configuration.
type TierThresholds struct {
	S float64
	A float64
	B float64
	C float64
}

// DefaultTierThresholds mirror the published tier cutoffs.
func DefaultTierThresholds() TierThresholds {
	return TierThresholds{S: 0.15, A: 0.08, B: 0.04, C: 0.01}
}

// Assign buckets a single share into a tier.
func (t TierThresholds) Assign(share float64) string {
	switch {
	case share >= t.S:
		return TierS
	case share >= t.A:
		return TierA
	case share >= t.B:
		return TierB
	case share >= t.C:
		return TierC
	default:
		return TierRogue
	}
}

// AssignTiers buckets every archetype's share.
func (t TierThresholds) AssignTiers(shares map[string]float64) map[string]string {
	tiers := make(map[string]string, len(shares))
	for name, share := range shares {
		tiers[name] = t.Assign(share)
	}
	return tiers
}
