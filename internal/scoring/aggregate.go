package scoring

import "math"

// Aggregate combines bucketed category scores into a single 0-100 total
// using the weight table for the proposal type, rounded to 2 decimals.
// Missing categories count as zero. Pure function: re-running it on stored
// bucketed scores always reproduces the stored total.
func Aggregate(bucketed map[string]int, proposalType string) float64 {
	weights := WeightsFor(proposalType)

	var total float64
	for _, category := range Categories {
		total += float64(bucketed[category]) * weights[category]
	}

	return math.Round(total*100) / 100
}
