package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"gorm.io/datatypes"

	"writeitgreat/proposal-evaluator/internal/config"
	"writeitgreat/proposal-evaluator/internal/models"
	"writeitgreat/proposal-evaluator/internal/repositories"
	"writeitgreat/proposal-evaluator/internal/scoring"
)

type EvaluatorService interface {
	EvaluateSubmission(ctx context.Context, submissionID string) error
}

type evaluatorService struct {
	subRepo       repositories.SubmissionRepository
	gemini        GeminiService
	rubricStore   RubricStoreService
	notifier      NotifierService
	promptBuilder *PromptBuilder
	estimator     scoring.Estimator
	scoringCfg    config.ScoringConfig
	maxRetries    int
}

func NewEvaluatorService(
	subRepo repositories.SubmissionRepository,
	gemini GeminiService,
	rubricStore RubricStoreService,
	notifier NotifierService,
	scoringCfg config.ScoringConfig,
	maxRetries int,
) EvaluatorService {
	return &evaluatorService{
		subRepo:       subRepo,
		gemini:        gemini,
		rubricStore:   rubricStore,
		notifier:      notifier,
		promptBuilder: NewPromptBuilder(),
		estimator:     scoring.NewEstimator(scoringCfg.AdvanceStrategy, scoringCfg.ATierCap),
		scoringCfg:    scoringCfg,
		maxRetries:    maxRetries,
	}
}

// ApplyAdvanceEstimate overwrites the result's advance estimate with a fresh
// computation against the submission's own platform metrics. Called on every
// persist and on every read: cached narratives may carry numbers from before
// a business-rule change, and those numbers are never trusted.
func ApplyAdvanceEstimate(estimator scoring.Estimator, sub *models.Submission, result *models.EvaluationResult) {
	metrics := scoring.ParsePlatformMetrics(sub.PlatformMetrics)
	result.AdvanceEstimate = estimator.Estimate(result.Tier, result.TotalScore, metrics, result.CommercialReasoning)
}

func (e *evaluatorService) EvaluateSubmission(ctx context.Context, submissionID string) error {
	log.Printf("🔄 Starting evaluation for submission %s\n", submissionID)

	sub, err := e.subRepo.FindByID(submissionID)
	if err != nil {
		return fmt.Errorf("failed to get submission: %w", err)
	}

	var result *models.EvaluationResult

	// Identical (type, text) resubmissions reuse the prior scores and
	// narrative instead of re-invoking the model.
	prior, err := e.subRepo.FindByFingerprint(sub.Fingerprint, sub.ID)
	if err != nil {
		log.Printf("⚠️ Fingerprint lookup failed for %s: %v\n", sub.ID, err)
	}

	if prior != nil && len(prior.Result) > 0 {
		log.Printf("♻️ Cache hit for %s (prior submission %s)\n", sub.ID, prior.ID)
		result, err = decodeResult(prior.Result)
		if err != nil {
			log.Printf("⚠️ Cached result for %s is unreadable, re-evaluating: %v\n", prior.ID, err)
			result = nil
		} else {
			result.CachedFrom = prior.ID
			result.BookTitle = sub.BookTitle
		}
	}

	if result == nil {
		result, err = e.scoreWithModel(ctx, sub)
		if err != nil {
			return err
		}
	}

	// Dollar figures are always recomputed against this submission's own
	// metrics, cached or not.
	ApplyAdvanceEstimate(e.estimator, sub, result)

	payload, err := json.Marshal(result)
	if err != nil {
		e.fail(sub.ID, "Failed to store the evaluation result. Please resubmit.")
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	log.Printf("💾 Saving evaluation result for %s\n", sub.ID)
	if err := e.subRepo.UpdateResult(sub.ID, string(result.Tier), result.TotalScore, datatypes.JSON(payload)); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	// Best-effort; a failed email never changes the submission's state.
	if e.notifier != nil {
		e.notifier.NotifyTeam(ctx, sub, result)
	}

	log.Printf("✅ Evaluation completed for %s (tier %s, score %.2f)\n", sub.ID, result.Tier, result.TotalScore)
	return nil
}

func (e *evaluatorService) scoreWithModel(ctx context.Context, sub *models.Submission) (*models.EvaluationResult, error) {
	rubricContext := e.retrieveRubricContext(ctx, sub)

	prompt := e.promptBuilder.BuildProposalEvaluationPrompt(
		sub.ProposalText,
		sub.ProposalType,
		sub.AuthorName,
		sub.BookTitle,
		rubricContext,
		e.scoringCfg.MaxPromptChars,
	)

	log.Printf("🤖 Scoring proposal %s with LLM (prompt %d chars)\n", sub.ID, len(prompt))

	response, err := e.gemini.GenerateTextWithRetry(ctx, prompt, 0.3, e.maxRetries)
	if err != nil {
		e.fail(sub.ID, "The evaluation could not be completed. Please resubmit.")
		return nil, fmt.Errorf("failed to generate evaluation: %w", err)
	}

	var llmEval models.LLMEvaluation
	if err := parseJSONResponse(response, &llmEval); err != nil {
		e.fail(sub.ID, "The evaluation returned an unreadable response. Please resubmit.")
		return nil, fmt.Errorf("failed to parse evaluation response: %w", err)
	}

	if llmEval.Scores == nil {
		e.fail(sub.ID, "The evaluation returned no scores. Please resubmit.")
		return nil, fmt.Errorf("evaluation response missing scores")
	}

	zeroExcludedCategories(&llmEval, sub.ProposalType)

	bucketed := scoring.BucketAll(llmEval.Scores, e.scoringCfg.BucketStep)
	total := scoring.Aggregate(bucketed, sub.ProposalType)
	tier := scoring.Classify(total, e.scoringCfg.TierThresholds)

	return &models.EvaluationResult{
		BookTitle:            sub.BookTitle,
		ProposalType:         sub.ProposalType,
		Scores:               llmEval.Scores,
		BucketedScores:       bucketed,
		TotalScore:           total,
		Tier:                 tier,
		WeightsUsed:          scoring.WeightsFor(sub.ProposalType),
		CategoryFeedback:     llmEval.CategoryFeedback,
		ExecutiveSummary:     llmEval.ExecutiveSummary,
		TopStrengths:         llmEval.TopStrengths,
		TopImprovements:      llmEval.TopImprovements,
		RecommendedNextSteps: llmEval.RecommendedNextSteps,
		CommercialReasoning:  llmEval.CommercialReasoning,
	}, nil
}

// retrieveRubricContext pulls matching chunks of the house rubric documents
// into the prompt. Failures degrade to an empty context.
func (e *evaluatorService) retrieveRubricContext(ctx context.Context, sub *models.Submission) string {
	if e.rubricStore == nil {
		return ""
	}

	query := e.promptBuilder.BuildRetrievalQuery("scoring_rubric", sub.BookTitle)
	embedding, err := e.gemini.GenerateEmbedding(ctx, query+"\n"+sub.ProposalText)
	if err != nil {
		log.Printf("⚠️ Failed to embed retrieval query for %s: %v\n", sub.ID, err)
		return ""
	}

	var allResults []SearchResult
	for _, docType := range []string{"scoring_rubric", "genre_comps", "advance_guidelines"} {
		results, err := e.rubricStore.SearchSimilar(ctx, embedding, docType, 3)
		if err != nil {
			log.Printf("⚠️ Rubric search failed for %s: %v\n", docType, err)
			continue
		}
		allResults = append(allResults, results...)
	}

	return FormatRubricContext(allResults)
}

// zeroExcludedCategories forces unsubmitted categories to zero regardless of
// what the model scored them.
func zeroExcludedCategories(llmEval *models.LLMEvaluation, proposalType string) {
	zeroed := scoring.ZeroedCategories(proposalType)
	if len(zeroed) == 0 {
		return
	}

	note := "Not submitted - No marketing section included"
	gap := "Marketing section not included in submission"
	if proposalType == scoring.TypeMarketingOnly {
		note = "Not submitted - Marketing only evaluation"
		gap = "Not included in submission"
	}

	for _, category := range zeroed {
		llmEval.Scores[category] = 0
		if feedback, ok := llmEval.CategoryFeedback[category]; ok {
			feedback.Score = 0
			feedback.Summary = note
			feedback.Strengths = nil
			feedback.Gaps = []string{gap}
			llmEval.CategoryFeedback[category] = feedback
		}
	}
}

func (e *evaluatorService) fail(submissionID, userMessage string) {
	if err := e.subRepo.UpdateError(submissionID, userMessage); err != nil {
		log.Printf("❌ Failed to mark submission %s as errored: %v\n", submissionID, err)
	}
}

func decodeResult(raw datatypes.JSON) (*models.EvaluationResult, error) {
	var result models.EvaluationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode stored result: %w", err)
	}
	return &result, nil
}

func parseJSONResponse(response string, target interface{}) error {
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

// extractJSON strips the code-fence wrapping models like to add around
// structured output.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
