package meta

// Confidence bands for snapshot quality: how much to trust a snapshot
// given its sample size and age.
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

// BandConfig holds the confidence-band cutoffs. Boundaries are inclusive
// on the favorable side: a sample of exactly HighMinSample at exactly
// HighMaxAgeDays is high.
type BandConfig struct {
	HighMinSample    int
	HighMaxAgeDays   int
	MediumMinSample  int
	MediumMaxAgeDays int
}

// DefaultBandConfig mirrors the published cutoffs: high at 200+ samples
// within 3 days, medium at 50+ within 7.
func DefaultBandConfig() BandConfig {
	return BandConfig{
		HighMinSample:    200,
		HighMaxAgeDays:   3,
		MediumMinSample:  50,
		MediumMaxAgeDays: 7,
	}
}

// Band classifies a snapshot's sample size and freshness.
func (c BandConfig) Band(sampleSize, freshnessDays int) string {
	switch {
	case sampleSize >= c.HighMinSample && freshnessDays <= c.HighMaxAgeDays:
		return BandHigh
	case sampleSize >= c.MediumMinSample && freshnessDays <= c.MediumMaxAgeDays:
		return BandMedium
	default:
		return BandLow
	}
}
