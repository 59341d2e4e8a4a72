package scoring

import "testing"

func intPtr(v int64) *int64 { return &v }

func TestPlatformFormulaTierGate(t *testing.T) {
	t.Parallel()

	est := NewEstimator(StrategyPlatformMetrics, 0)

	// Metrics are irrelevant below tier B: the gate short-circuits before
	// any metric parsing.
	rich := PlatformMetrics{
		EmailList:          intPtr(500000),
		InstagramFollowers: intPtr(2000000),
		BulkOrders:         intPtr(50000),
	}

	for _, tier := range []Tier{TierC, TierD} {
		got := est.Estimate(tier, 65, rich, "the platform is enormous")
		if got.Viable {
			t.Errorf("tier %v must not be viable", tier)
		}
		if got.LowRange != 0 || got.HighRange != 0 {
			t.Errorf("tier %v range = [%d,%d], want [0,0]", tier, got.LowRange, got.HighRange)
		}
		if got.Confidence != ConfidenceLow {
			t.Errorf("tier %v confidence = %s, want Low", tier, got.Confidence)
		}
		if got.Reasoning == "the platform is enormous" {
			t.Error("non-viable estimates must use the fixed explanation, not the model's reasoning")
		}
	}
}

// Worked example: tier A with only a 10,000-strong email list. copies = 300,
// ceiling = 300*4/2 = 600, floored to 10000, high = 10000, low = max(10000,
// 6000) = 10000.
func TestPlatformFormulaTierASingleMetric(t *testing.T) {
	t.Parallel()

	est := NewEstimator(StrategyPlatformMetrics, 0)
	metrics := PlatformMetrics{EmailList: intPtr(10000)}

	got := est.Estimate(TierA, 90, metrics, "")

	if !got.Viable {
		t.Fatal("tier A with metrics must be viable")
	}
	if got.LowRange != 10000 || got.HighRange != 10000 {
		t.Errorf("range = [%d,%d], want [10000,10000]", got.LowRange, got.HighRange)
	}
	if got.Confidence != ConfidenceMedium {
		t.Errorf("confidence = %s, want Medium (1 slot populated)", got.Confidence)
	}
}

func TestPlatformFormulaTierBNoMetricsFallback(t *testing.T) {
	t.Parallel()

	est := NewEstimator(StrategyPlatformMetrics, 0)

	got := est.Estimate(TierB, 75, PlatformMetrics{}, "")

	if !got.Viable {
		t.Fatal("tier B fallback must be viable")
	}
	if got.LowRange != 0 || got.HighRange != 5000 {
		t.Errorf("range = [%d,%d], want [0,5000]", got.LowRange, got.HighRange)
	}
	if got.Confidence != ConfidenceLow {
		t.Errorf("confidence = %s, want Low", got.Confidence)
	}
}

func TestPlatformFormulaTierANoMetricsFallback(t *testing.T) {
	t.Parallel()

	est := NewEstimator(StrategyPlatformMetrics, 0)

	got := est.Estimate(TierA, 90, PlatformMetrics{}, "")

	if !got.Viable {
		t.Fatal("tier A fallback must be viable")
	}
	if got.LowRange != 10000 || got.HighRange != 25000 {
		t.Errorf("range = [%d,%d], want [10000,25000]", got.LowRange, got.HighRange)
	}
	if got.Confidence != ConfidenceLow {
		t.Errorf("fallback confidence = %s, want Low", got.Confidence)
	}
}

func TestPlatformFormulaTierBInsufficientReach(t *testing.T) {
	t.Parallel()

	est := NewEstimator(StrategyPlatformMetrics, 0)

	// copies = 20000*0.03 = 600, ceiling = 1200 <= 2000: not viable.
	metrics := PlatformMetrics{EmailList: intPtr(20000)}
	got := est.Estimate(TierB, 75, metrics, "reads well")

	if got.Viable {
		t.Error("a ceiling under $2000 must not be viable for tier B")
	}
	if got.LowRange != 0 || got.HighRange != 0 {
		t.Errorf("range = [%d,%d], want [0,0]", got.LowRange, got.HighRange)
	}
	if got.Confidence != ConfidenceMedium {
		t.Errorf("confidence = %s, want Medium (slot was populated)", got.Confidence)
	}
}

func TestPlatformFormulaTierBCapAndRounding(t *testing.T) {
	t.Parallel()

	est := NewEstimator(StrategyPlatformMetrics, 0)

	// copies = 100000*0.03 = 3000, ceiling = 6000: high = 6000, low = 3000.
	metrics := PlatformMetrics{EmailList: intPtr(100000)}
	got := est.Estimate(TierB, 78, metrics, "")
	if got.HighRange != 6000 || got.LowRange != 3000 {
		t.Errorf("range = [%d,%d], want [3000,6000]", got.LowRange, got.HighRange)
	}
	if got.HighRange%500 != 0 || got.LowRange%500 != 0 {
		t.Error("tier B figures must round to $500 increments")
	}

	// A huge platform still caps at $10k for tier B.
	huge := PlatformMetrics{EmailList: intPtr(5000000)}
	got = est.Estimate(TierB, 78, huge, "")
	if got.HighRange > 10000 {
		t.Errorf("tier B high = %d, exceeds the $10000 cap", got.HighRange)
	}
	if got.HighRange != 10000 || got.LowRange != 5000 {
		t.Errorf("range = [%d,%d], want [5000,10000]", got.LowRange, got.HighRange)
	}
}

func TestPlatformFormulaTierACapAndRounding(t *testing.T) {
	t.Parallel()

	est := NewEstimator(StrategyPlatformMetrics, 0)

	// A colossal platform caps at the configured A-tier ceiling.
	huge := PlatformMetrics{
		EmailList:  intPtr(10000000),
		BulkOrders: intPtr(500000),
	}
	got := est.Estimate(TierA, 95, huge, "")
	if got.HighRange != DefaultATierCap {
		t.Errorf("high = %d, want cap %d", got.HighRange, DefaultATierCap)
	}
	if got.LowRange != 150000 {
		t.Errorf("low = %d, want 150000 (60%% of cap)", got.LowRange)
	}
	if got.HighRange%1000 != 0 || got.LowRange%1000 != 0 {
		t.Error("tier A figures must round to $1000 increments")
	}

	// The cap itself is policy, injected via configuration.
	legacy := NewEstimator(StrategyPlatformMetrics, 25000)
	got = legacy.Estimate(TierA, 95, huge, "")
	if got.HighRange != 25000 {
		t.Errorf("legacy cap high = %d, want 25000", got.HighRange)
	}
}

func TestPlatformFormulaSpeakingPair(t *testing.T) {
	t.Parallel()

	est := NewEstimator(StrategyPlatformMetrics, 0)

	// 40 engagements * 250 avg audience * 0.07 = 700 copies, ceiling 1400,
	// floored to 10000 for tier A.
	metrics := PlatformMetrics{
		SpeakingEngagements: intPtr(40),
		AvgSpeakingAudience: intPtr(250),
	}
	got := est.Estimate(TierA, 88, metrics, "")
	if got.LowRange != 10000 || got.HighRange != 10000 {
		t.Errorf("range = [%d,%d], want [10000,10000]", got.LowRange, got.HighRange)
	}

	// Half a pair contributes nothing: with no other metrics the estimator
	// takes the tier-default fallback path.
	halfPair := PlatformMetrics{SpeakingEngagements: intPtr(40)}
	got = est.Estimate(TierA, 88, halfPair, "")
	if got.LowRange != 10000 || got.HighRange != 25000 {
		t.Errorf("range = [%d,%d], want fallback [10000,25000]", got.LowRange, got.HighRange)
	}
}

func TestPlatformFormulaConfidenceLevels(t *testing.T) {
	t.Parallel()

	est := NewEstimator(StrategyPlatformMetrics, 0)
	n := intPtr(100000)

	one := PlatformMetrics{EmailList: n}
	if got := est.Estimate(TierA, 90, one, ""); got.Confidence != ConfidenceMedium {
		t.Errorf("1 slot confidence = %s, want Medium", got.Confidence)
	}

	three := PlatformMetrics{EmailList: n, InstagramFollowers: n, PodcastAudience: n}
	if got := est.Estimate(TierA, 90, three, ""); got.Confidence != ConfidenceHigh {
		t.Errorf("3 slot confidence = %s, want High", got.Confidence)
	}
}

func TestPlatformFormulaPreservesModelReasoningWhenViable(t *testing.T) {
	t.Parallel()

	est := NewEstimator(StrategyPlatformMetrics, 0)
	metrics := PlatformMetrics{EmailList: intPtr(500000)}

	got := est.Estimate(TierA, 90, metrics, "strong niche audience with direct sales channels")
	if got.Reasoning != "strong niche audience with direct sales channels" {
		t.Errorf("viable estimates keep the model's reasoning, got %q", got.Reasoning)
	}
}

func TestStepFunctionEstimator(t *testing.T) {
	t.Parallel()

	est := NewEstimator(StrategySimple, 0)

	cases := []struct {
		tier     Tier
		score    float64
		wantLow  int
		wantHigh int
		viable   bool
	}{
		{TierA, 95, 15000, 25000, true},
		{TierA, 93, 15000, 25000, true},
		{TierA, 88, 10000, 15000, true},
		{TierB, 80, 5000, 10000, true},
		{TierB, 77, 5000, 10000, true},
		{TierB, 72, 0, 5000, true},
		{TierC, 65, 0, 0, false},
		{TierD, 30, 0, 0, false},
	}

	for _, tc := range cases {
		got := est.Estimate(tc.tier, tc.score, PlatformMetrics{}, "")
		if got.Viable != tc.viable {
			t.Errorf("tier %v score %v: viable = %v, want %v", tc.tier, tc.score, got.Viable, tc.viable)
		}
		if got.LowRange != tc.wantLow || got.HighRange != tc.wantHigh {
			t.Errorf("tier %v score %v: range = [%d,%d], want [%d,%d]",
				tc.tier, tc.score, got.LowRange, got.HighRange, tc.wantLow, tc.wantHigh)
		}
		if got.HighRange > 25000 {
			t.Errorf("step function high = %d, exceeds its $25000 ceiling", got.HighRange)
		}
	}
}

func TestNewEstimatorUnknownStrategyDefaults(t *testing.T) {
	t.Parallel()

	est := NewEstimator("whatever", 0)
	if _, ok := est.(*PlatformFormulaEstimator); !ok {
		t.Errorf("unknown strategy should default to the platform formula, got %T", est)
	}
}
