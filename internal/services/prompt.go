package services

import (
	"fmt"
	"strings"

	"writeitgreat/proposal-evaluator/internal/scoring"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

func evaluationFocus(proposalType string) string {
	switch proposalType {
	case scoring.TypeMarketingOnly:
		return `You are evaluating ONLY the Marketing & Platform section of this proposal.
All other categories should be scored as 0 since they were not submitted.
Focus entirely on assessing the author's platform, marketing plan, and promotional capabilities.`
	case scoring.TypeNoMarketing:
		return `This proposal does NOT include a Marketing section.
Score the Marketing category as 0.
Evaluate all other sections normally: Overview, Credentials, Comps, Writing, Outline, Completeness.`
	default:
		return `This is a FULL proposal submission. Evaluate all categories comprehensively.`
	}
}

// BuildProposalEvaluationPrompt creates the scoring prompt for a proposal.
// The dollar figures in advance_estimate are a placeholder: the model is told
// to emit zeros, and the real range is computed deterministically afterwards.
func (pb *PromptBuilder) BuildProposalEvaluationPrompt(proposalText, proposalType, authorName, bookTitle, rubricContext string, maxChars int) string {
	if maxChars > 0 && len(proposalText) > maxChars {
		proposalText = proposalText[:maxChars]
	}
	if rubricContext == "" {
		rubricContext = "No house rubric context available."
	}

	return fmt.Sprintf(`You are an expert literary agent evaluating book proposals for Write It Great LLC, an elite ghostwriting firm.

%s

HOUSE RUBRIC CONTEXT:
%s

AUTHOR: %s
BOOK TITLE: %s

PROPOSAL TEXT:
%s

---

Provide your evaluation as a JSON object with this exact structure:

{
    "book_title": "%s",
    "scores": {
        "marketing": <0-100>,
        "overview": <0-100>,
        "credentials": <0-100>,
        "comps": <0-100>,
        "writing": <0-100>,
        "outline": <0-100>,
        "completeness": <0-100>
    },
    "category_feedback": {
        "<category>": {
            "score": <0-100>,
            "strengths": ["strength 1", "strength 2"],
            "gaps": ["gap 1", "gap 2"],
            "summary": "2-3 sentence summary of this category"
        }
    },
    "executive_summary": "3-5 sentences summarizing the overall proposal quality, key strengths, and main areas for improvement",
    "top_3_strengths": ["strength 1", "strength 2", "strength 3"],
    "top_3_improvements": ["improvement 1", "improvement 2", "improvement 3"],
    "recommended_next_steps": ["step 1", "step 2", "step 3"],
    "commercial_reasoning": "2-3 sentences on the proposal's commercial viability, without naming dollar figures",
    "advance_estimate": {"low_range": 0, "high_range": 0, "viable": false, "confidence": "Low", "reasoning": ""}
}

Include a category_feedback entry for every category. Always set advance_estimate exactly to the zeroed placeholder above; advance figures are decided by the firm, not by you.

SCORING GUIDELINES:
- 90-100: Exceptional, ready for top-tier publishers
- 80-89: Strong, minor improvements needed
- 70-79: Good foundation, some gaps to address
- 60-69: Promising but needs significant work
- 50-59: Weak, major revisions required
- Below 50: Not ready for submission

Return ONLY the JSON object, no other text.`,
		evaluationFocus(proposalType),
		rubricContext,
		authorName,
		bookTitle,
		proposalText,
		bookTitle,
	)
}

// BuildRetrievalQuery creates the query text for rubric context retrieval.
func (pb *PromptBuilder) BuildRetrievalQuery(docType, bookTitle string) string {
	switch docType {
	case "scoring_rubric":
		return "Book proposal scoring criteria and category guidelines"
	case "genre_comps":
		return fmt.Sprintf("Comparable titles and genre positioning for %s", bookTitle)
	case "advance_guidelines":
		return "Publisher advance expectations and platform benchmarks"
	default:
		return bookTitle
	}
}

// FormatRubricContext flattens retrieval hits into a prompt section.
func FormatRubricContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Context %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
