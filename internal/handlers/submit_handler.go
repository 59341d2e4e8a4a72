package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"writeitgreat/proposal-evaluator/internal/config"
	"writeitgreat/proposal-evaluator/internal/models"
	"writeitgreat/proposal-evaluator/internal/repositories"
	"writeitgreat/proposal-evaluator/internal/scoring"
	"writeitgreat/proposal-evaluator/internal/services"
)

type SubmitHandler struct {
	subRepo        repositories.SubmissionRepository
	storageService services.StorageService
	extractor      services.ExtractorService
	worker         services.Worker
	maxFileSize    int64
	scoringCfg     config.ScoringConfig
}

func NewSubmitHandler(
	subRepo repositories.SubmissionRepository,
	storageService services.StorageService,
	extractor services.ExtractorService,
	worker services.Worker,
	maxFileSize int64,
	scoringCfg config.ScoringConfig,
) *SubmitHandler {
	return &SubmitHandler{
		subRepo:        subRepo,
		storageService: storageService,
		extractor:      extractor,
		worker:         worker,
		maxFileSize:    maxFileSize,
		scoringCfg:     scoringCfg,
	}
}

// HandleSubmit handles POST /submissions. The synchronous path only
// validates, extracts and persists a processing row; the model call runs on
// the worker so slow evaluations don't hit gateway timeouts.
func (h *SubmitHandler) HandleSubmit(c *fiber.Ctx) error {
	for _, field := range []string{"author_name", "author_email", "book_title", "proposal_type"} {
		if c.FormValue(field) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Missing required field: %s", field),
			})
		}
	}

	metricsJSON := c.FormValue("platform_metrics")
	if metricsJSON != "" && !json.Valid([]byte(metricsJSON)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "platform_metrics must be a valid JSON object",
		})
	}

	file, err := c.FormFile("proposal_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No proposal file uploaded",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	fileType := services.FileTypeFor(file.Filename)
	if fileType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only PDF, DOCX and plain-text files are accepted",
		})
	}

	filename, filePath, err := h.storageService.SaveFile(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to save uploaded file: %v", err),
		})
	}
	defer h.storageService.DeleteFile(filename)

	text := services.CleanText(h.extractor.ExtractText(filePath, fileType))
	if len(text) < h.scoringCfg.MinTextLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not extract sufficient text from the document. Please ensure it is not image-based or encrypted.",
		})
	}

	proposalType := c.FormValue("proposal_type")

	submission := &models.Submission{
		ID:           models.NewSubmissionID(time.Now()),
		AuthorName:   c.FormValue("author_name"),
		AuthorEmail:  c.FormValue("author_email"),
		BookTitle:    c.FormValue("book_title"),
		ProposalType: proposalType,
		Status:       models.StatusProcessing,
		ProposalText: truncate(text, h.scoringCfg.MaxPromptChars),
		Fingerprint:  scoring.Fingerprint(proposalType, text),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if metricsJSON != "" {
		submission.PlatformMetrics = datatypes.JSON(metricsJSON)
	}

	if err := h.subRepo.Create(submission); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create submission",
		})
	}

	h.worker.EnqueueJob(submission.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.SubmitResponse{
		SubmissionID: submission.ID,
		Status:       string(models.StatusProcessing),
	})
}

func truncate(text string, max int) string {
	if max > 0 && len(text) > max {
		return text[:max]
	}
	return text
}
