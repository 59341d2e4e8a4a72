package handlers

import (
	"github.com/gofiber/fiber/v2"

	"writeitgreat/proposal-evaluator/internal/models"
	"writeitgreat/proposal-evaluator/internal/repositories"
)

type StatusHandler struct {
	subRepo repositories.SubmissionRepository
}

func NewStatusHandler(subRepo repositories.SubmissionRepository) *StatusHandler {
	return &StatusHandler{subRepo: subRepo}
}

// HandleGetStatus handles GET /submissions/:id/status. Ready flips as soon
// as the submission leaves processing, whether it succeeded or failed.
func (h *StatusHandler) HandleGetStatus(c *fiber.Ctx) error {
	submission, err := h.subRepo.FindByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Submission not found",
		})
	}

	return c.JSON(models.StatusResponse{
		SubmissionID: submission.ID,
		Status:       string(submission.Status),
		Ready:        submission.Status != models.StatusProcessing,
	})
}
