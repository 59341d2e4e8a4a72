package scoring

import "math"

// Confidence labels for an advance estimate.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Advance-estimate strategy names, selectable by configuration. The business
// rule has been rewritten several times; both shipped variants stay available
// as named strategies.
const (
	StrategyPlatformMetrics = "platform_metrics"
	StrategySimple          = "simple"
)

// AdvanceEstimate is the dollar range offered for a proposal. It is always
// computed here from tier and platform metrics; the model's own suggested
// numbers are discarded.
type AdvanceEstimate struct {
	LowRange   int    `json:"low_range"`
	HighRange  int    `json:"high_range"`
	Viable     bool   `json:"viable"`
	Confidence string `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

// Estimator converts a tier plus supporting signals into an advance range.
type Estimator interface {
	Estimate(tier Tier, totalScore float64, metrics PlatformMetrics, llmReasoning string) AdvanceEstimate
}

// NewEstimator returns the configured strategy. Unknown names fall back to
// the platform-metrics formula, the current production rule.
func NewEstimator(strategy string, aTierCap int) Estimator {
	if strategy == StrategySimple {
		return &StepFunctionEstimator{}
	}
	if aTierCap <= 0 {
		aTierCap = DefaultATierCap
	}
	return &PlatformFormulaEstimator{ATierCap: aTierCap}
}

// Policy constants for the platform-metrics formula. Royalty per unit and
// the advance-to-royalty ratio are negotiated business terms, not derived.
const (
	DefaultATierCap  = 250000
	bTierCap         = 10000
	aTierFloor       = 10000
	bTierViableFloor = 2000
	royaltyPerCopy   = 4.0
	advanceRatio     = 0.5
)

const (
	reasonNotViable      = "Proposal scored below the viability threshold. No advance range is offered at this tier; see the improvement recommendations for the path to resubmission."
	reasonNoPlatformData = "No platform data was provided, so the range reflects tier-level defaults only. Supplying audience metrics would produce a data-backed estimate."
	reasonReachTooSmall  = "Projected first-year reach is insufficient to support a publisher advance at this tier."
)

// PlatformFormulaEstimator projects first-year unit sales from the author's
// platform metrics and derives the advance range from the projected royalty
// stream, capped and floored per tier.
type PlatformFormulaEstimator struct {
	ATierCap int
}

func (e *PlatformFormulaEstimator) Estimate(tier Tier, totalScore float64, metrics PlatformMetrics, llmReasoning string) AdvanceEstimate {
	// Tier gate: C and D never receive an offer, whatever the metrics say.
	if tier != TierA && tier != TierB {
		return AdvanceEstimate{Confidence: ConfidenceLow, Reasoning: reasonNotViable}
	}

	confidence := confidenceFor(metrics.PopulatedSlots())

	// Without any platform data, fall back to tier-level defaults.
	if metrics.Empty() {
		est := AdvanceEstimate{
			Viable:     true,
			Confidence: ConfidenceLow,
			Reasoning:  reasonNoPlatformData,
		}
		if tier == TierA {
			est.LowRange, est.HighRange = 10000, 25000
		} else {
			est.LowRange, est.HighRange = 0, 5000
		}
		return est
	}

	copies := projectedCopies(metrics)
	ceiling := float64(copies) * royaltyPerCopy * advanceRatio

	est := AdvanceEstimate{Viable: true, Confidence: confidence}

	if tier == TierB {
		capped := math.Min(ceiling, bTierCap)
		if capped <= bTierViableFloor {
			return AdvanceEstimate{Confidence: confidence, Reasoning: reasonReachTooSmall}
		}
		est.HighRange = roundToNearest(capped, 500)
		est.LowRange = roundToNearest(float64(est.HighRange)*0.5, 500)
	} else {
		floored := math.Max(ceiling, aTierFloor)
		capped := math.Min(floored, float64(e.ATierCap))
		est.HighRange = roundToNearest(capped, 1000)
		low := roundToNearest(float64(est.HighRange)*0.6, 1000)
		if low < aTierFloor {
			low = aTierFloor
		}
		est.LowRange = low
	}

	est.Reasoning = llmReasoning
	if est.Reasoning == "" {
		est.Reasoning = "Range derived from projected first-year sales across the author's stated platform."
	}
	return est
}

// projectedCopies is the weighted linear projection of first-year unit
// sales from whichever metrics the author supplied.
func projectedCopies(m PlatformMetrics) int64 {
	var copies float64

	if m.EmailList != nil {
		copies += float64(*m.EmailList) * 0.03
	}
	if m.InstagramFollowers != nil {
		copies += float64(*m.InstagramFollowers) * 0.007
	}
	if m.TikTokFollowers != nil {
		copies += float64(*m.TikTokFollowers) * 0.007
	}
	if m.LinkedInFollowers != nil {
		copies += float64(*m.LinkedInFollowers) * 0.01
	}
	if m.YouTubeSubscribers != nil {
		copies += float64(*m.YouTubeSubscribers) * 0.015
	}
	if m.PodcastAudience != nil {
		copies += float64(*m.PodcastAudience) * 0.02
	}
	if m.SpeakingPopulated() {
		copies += float64(*m.SpeakingEngagements) * float64(*m.AvgSpeakingAudience) * 0.07
	}
	if m.BulkOrders != nil {
		copies += float64(*m.BulkOrders)
	}

	if copies < 0 {
		return 0
	}
	return int64(copies)
}

func confidenceFor(populatedSlots int) string {
	switch {
	case populatedSlots >= 3:
		return ConfidenceHigh
	case populatedSlots >= 1:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func roundToNearest(value float64, increment int) int {
	return int(math.Round(value/float64(increment))) * increment
}

// StepFunctionEstimator is the earlier revision of the rule: a step function
// over tier and score alone, with no platform-metrics input. Retained as a
// selectable strategy for regression comparison.
type StepFunctionEstimator struct{}

func (e *StepFunctionEstimator) Estimate(tier Tier, totalScore float64, metrics PlatformMetrics, llmReasoning string) AdvanceEstimate {
	if tier != TierA && tier != TierB {
		return AdvanceEstimate{Confidence: ConfidenceLow, Reasoning: reasonNotViable}
	}

	// This revision predates the confidence field; it consumes no platform
	// data, which is the zero-slots condition of the richer rule.
	est := AdvanceEstimate{Viable: true, Confidence: ConfidenceLow, Reasoning: llmReasoning}
	if est.Reasoning == "" {
		est.Reasoning = "Range derived from tier and total score."
	}

	switch {
	case tier == TierA && totalScore >= 93:
		est.LowRange, est.HighRange = 15000, 25000
	case tier == TierA:
		est.LowRange, est.HighRange = 10000, 15000
	case totalScore >= 77:
		est.LowRange, est.HighRange = 5000, 10000
	default:
		est.LowRange, est.HighRange = 0, 5000
	}

	return est
}
