package scoring

// Tier is the ordinal quality classification of a proposal, A best to D worst.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// Thresholds holds the inclusive lower bound of each tier above D.
// The C bound has varied across business-rule revisions (50 and 60 have both
// shipped), so it is injected rather than fixed.
type Thresholds struct {
	A float64
	B float64
	C float64
}

// DefaultThresholds returns the current production tier boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{A: 85, B: 70, C: 60}
}

// Classify maps a total score to its tier, evaluating bounds highest-first.
// Total over all real scores and monotonic in the score.
func Classify(totalScore float64, t Thresholds) Tier {
	switch {
	case totalScore >= t.A:
		return TierA
	case totalScore >= t.B:
		return TierB
	case totalScore >= t.C:
		return TierC
	default:
		return TierD
	}
}

// Rank returns the ordinal position of a tier, D=0 up to A=3.
func (t Tier) Rank() int {
	switch t {
	case TierA:
		return 3
	case TierB:
		return 2
	case TierC:
		return 1
	default:
		return 0
	}
}

// Description returns the reader-facing meaning of a tier.
func (t Tier) Description() string {
	switch t {
	case TierA:
		return "Exceptional - Ready for top-tier publishers"
	case TierB:
		return "Strong - Minor improvements recommended"
	case TierC:
		return "Promising - Significant work needed"
	default:
		return "Needs Development - Major revisions required"
	}
}
