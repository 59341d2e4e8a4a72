package scoring

// Proposal classification tags. The tag decides which categories are scored
// and how the category scores are weighted into the total.
const (
	TypeFull          = "full"
	TypeMarketingOnly = "marketing_only"
	TypeNoMarketing   = "no_marketing"
)

// Scored categories, in report order.
const (
	CategoryMarketing    = "marketing"
	CategoryOverview     = "overview"
	CategoryCredentials  = "credentials"
	CategoryComps        = "comps"
	CategoryWriting      = "writing"
	CategoryOutline      = "outline"
	CategoryCompleteness = "completeness"
)

// Categories lists every scored category.
var Categories = []string{
	CategoryMarketing,
	CategoryOverview,
	CategoryCredentials,
	CategoryComps,
	CategoryWriting,
	CategoryOutline,
	CategoryCompleteness,
}

var fullWeights = map[string]float64{
	CategoryMarketing:    0.30,
	CategoryOverview:     0.20,
	CategoryCredentials:  0.15,
	CategoryComps:        0.10,
	CategoryWriting:      0.15,
	CategoryOutline:      0.05,
	CategoryCompleteness: 0.05,
}

var marketingOnlyWeights = map[string]float64{
	CategoryMarketing:    1.00,
	CategoryOverview:     0.00,
	CategoryCredentials:  0.00,
	CategoryComps:        0.00,
	CategoryWriting:      0.00,
	CategoryOutline:      0.00,
	CategoryCompleteness: 0.00,
}

// Non-marketing weights renormalized to sum to 1.00.
var noMarketingWeights = map[string]float64{
	CategoryMarketing:    0.00,
	CategoryOverview:     0.29,
	CategoryCredentials:  0.21,
	CategoryComps:        0.14,
	CategoryWriting:      0.21,
	CategoryOutline:      0.07,
	CategoryCompleteness: 0.08,
}

// WeightsFor returns the category weight table for a proposal type.
// Unknown tags fall back to the full-proposal table.
func WeightsFor(proposalType string) map[string]float64 {
	switch proposalType {
	case TypeMarketingOnly:
		return marketingOnlyWeights
	case TypeNoMarketing:
		return noMarketingWeights
	default:
		return fullWeights
	}
}

// ZeroedCategories returns the categories that are forced to zero for a
// proposal type, regardless of what the model scored them.
func ZeroedCategories(proposalType string) []string {
	switch proposalType {
	case TypeMarketingOnly:
		return []string{
			CategoryOverview,
			CategoryCredentials,
			CategoryComps,
			CategoryWriting,
			CategoryOutline,
			CategoryCompleteness,
		}
	case TypeNoMarketing:
		return []string{CategoryMarketing}
	default:
		return nil
	}
}
