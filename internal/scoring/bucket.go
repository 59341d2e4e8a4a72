package scoring

import "math"

// DefaultBucketStep is the default rounding step for category scores.
const DefaultBucketStep = 5

// Bucket rounds a raw 0-100 category score to the nearest multiple of step
// and clamps the result to [0, 100]. Model sampling produces spurious
// precision (72 vs 73); bucketing keeps scores on a coarse scale so tier
// boundaries don't flap on jitter.
func Bucket(raw float64, step int) int {
	if step <= 0 {
		step = DefaultBucketStep
	}

	bucketed := int(math.Round(raw/float64(step))) * step
	if bucketed < 0 {
		return 0
	}
	if bucketed > 100 {
		return 100
	}
	return bucketed
}

// BucketAll buckets every category score independently. Categories missing
// from raw are omitted from the result; Aggregate treats them as zero.
func BucketAll(raw map[string]float64, step int) map[string]int {
	bucketed := make(map[string]int, len(raw))
	for category, score := range raw {
		bucketed[category] = Bucket(score, step)
	}
	return bucketed
}
