package models

import (
	"writeitgreat/proposal-evaluator/internal/scoring"
)

// CategoryFeedback is the model's qualitative read on one category.
type CategoryFeedback struct {
	Score     float64  `json:"score"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
	Summary   string   `json:"summary"`
}

// LLMEvaluation is the structured payload we ask the model to return. The
// advance_estimate field is a placeholder the prompt instructs the model to
// zero out; it is discarded and recomputed deterministically.
type LLMEvaluation struct {
	BookTitle            string                      `json:"book_title"`
	Scores               map[string]float64          `json:"scores"`
	CategoryFeedback     map[string]CategoryFeedback `json:"category_feedback"`
	ExecutiveSummary     string                      `json:"executive_summary"`
	TopStrengths         []string                    `json:"top_3_strengths"`
	TopImprovements      []string                    `json:"top_3_improvements"`
	RecommendedNextSteps []string                    `json:"recommended_next_steps"`
	CommercialReasoning  string                      `json:"commercial_reasoning"`
	AdvanceEstimate      *scoring.AdvanceEstimate    `json:"advance_estimate,omitempty"`
}

// EvaluationResult is the persisted outcome of scoring one submission.
// Append-only once written, except that AdvanceEstimate is recomputed from
// the submission's own platform metrics every time the result is loaded.
type EvaluationResult struct {
	BookTitle            string                      `json:"book_title"`
	ProposalType         string                      `json:"proposal_type"`
	Scores               map[string]float64          `json:"scores"`
	BucketedScores       map[string]int              `json:"bucketed_scores"`
	TotalScore           float64                     `json:"total_score"`
	Tier                 scoring.Tier                `json:"tier"`
	WeightsUsed          map[string]float64          `json:"weights_used"`
	CategoryFeedback     map[string]CategoryFeedback `json:"category_feedback"`
	ExecutiveSummary     string                      `json:"executive_summary"`
	TopStrengths         []string                    `json:"top_3_strengths"`
	TopImprovements      []string                    `json:"top_3_improvements"`
	RecommendedNextSteps []string                    `json:"recommended_next_steps"`
	CommercialReasoning  string                      `json:"commercial_reasoning,omitempty"`
	AdvanceEstimate      scoring.AdvanceEstimate     `json:"advance_estimate"`
	CachedFrom           string                      `json:"cached_from,omitempty"`
}
