package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"writeitgreat/proposal-evaluator/internal/models"
	"writeitgreat/proposal-evaluator/internal/repositories"
	"writeitgreat/proposal-evaluator/internal/scoring"
	"writeitgreat/proposal-evaluator/internal/services"
)

type ResultHandler struct {
	subRepo   repositories.SubmissionRepository
	estimator scoring.Estimator
}

func NewResultHandler(subRepo repositories.SubmissionRepository, estimator scoring.Estimator) *ResultHandler {
	return &ResultHandler{
		subRepo:   subRepo,
		estimator: estimator,
	}
}

// HandleGetResult handles GET /submissions/:id. The advance estimate is
// recomputed on every read so displayed numbers always reflect the current
// business rules and the submission's own platform metrics.
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	submission, err := h.subRepo.FindByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Submission not found",
		})
	}

	response := models.ResultResponse{
		SubmissionID: submission.ID,
		AuthorName:   submission.AuthorName,
		AuthorEmail:  submission.AuthorEmail,
		BookTitle:    submission.BookTitle,
		ProposalType: submission.ProposalType,
		Status:       string(submission.Status),
	}

	if submission.Status == models.StatusSubmitted && len(submission.Result) > 0 {
		var result models.EvaluationResult
		if err := json.Unmarshal(submission.Result, &result); err != nil {
			log.Printf("⚠️ Stored result for %s is unreadable: %v\n", submission.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Stored evaluation result is unreadable",
			})
		}

		services.ApplyAdvanceEstimate(h.estimator, submission, &result)
		response.Result = &result
	}

	if submission.Status == models.StatusError {
		response.ErrorMessage = submission.ErrorMessage
	}

	return c.JSON(response)
}
