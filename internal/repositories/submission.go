package repositories

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"writeitgreat/proposal-evaluator/internal/models"
)

type SubmissionRepository interface {
	Create(submission *models.Submission) error
	FindByID(id string) (*models.Submission, error)
	// FindByFingerprint returns the most recent submitted evaluation sharing
	// the content fingerprint, excluding the given submission's own row.
	FindByFingerprint(fingerprint, excludeID string) (*models.Submission, error)
	UpdateResult(id string, tier string, totalScore float64, result datatypes.JSON) error
	UpdateError(id string, errorMsg string) error
	FindStaleProcessing(olderThan time.Time, limit int) ([]models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(submission *models.Submission) error {
	if err := r.db.Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *submissionRepository) FindByID(id string) (*models.Submission, error) {
	var sub models.Submission
	if err := r.db.Where("id = ?", id).First(&sub).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("submission not found")
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}
	return &sub, nil
}

func (r *submissionRepository) FindByFingerprint(fingerprint, excludeID string) (*models.Submission, error) {
	var sub models.Submission
	err := r.db.
		Where("fingerprint = ? AND id <> ? AND status = ?", fingerprint, excludeID, models.StatusSubmitted).
		Order("created_at DESC").
		First(&sub).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up fingerprint: %w", err)
	}

	return &sub, nil
}

func (r *submissionRepository) UpdateResult(id string, tier string, totalScore float64, result datatypes.JSON) error {
	res := r.db.Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.StatusSubmitted,
			"tier":        tier,
			"total_score": totalScore,
			"result":      result,
			"updated_at":  time.Now(),
		})

	if res.Error != nil {
		return fmt.Errorf("failed to update result: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("submission not found")
	}

	return nil
}

func (r *submissionRepository) UpdateError(id string, errorMsg string) error {
	res := r.db.Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusError,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if res.Error != nil {
		return fmt.Errorf("failed to update error: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("submission not found")
	}

	return nil
}

func (r *submissionRepository) FindStaleProcessing(olderThan time.Time, limit int) ([]models.Submission, error) {
	var subs []models.Submission
	err := r.db.
		Where("status = ? AND updated_at < ?", models.StatusProcessing, olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&subs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find stale submissions: %w", err)
	}

	return subs, nil
}
