package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubmissionStatus string

const (
	StatusProcessing SubmissionStatus = "processing"
	StatusSubmitted  SubmissionStatus = "submitted"
	StatusError      SubmissionStatus = "error"
)

// Submission is one evaluated proposal. The full evaluation payload lives in
// the Result JSON blob; tier, total score and fingerprint are duplicated as
// scalar columns for querying.
type Submission struct {
	ID              string           `gorm:"type:text;primary_key" json:"id"`
	AuthorName      string           `gorm:"type:text;not null" json:"author_name"`
	AuthorEmail     string           `gorm:"type:text;not null" json:"author_email"`
	BookTitle       string           `gorm:"type:text;not null" json:"book_title"`
	ProposalType    string           `gorm:"type:text;not null" json:"proposal_type"`
	Status          SubmissionStatus `gorm:"not null;default:'processing'" json:"status"`
	ProposalText    string           `gorm:"type:text" json:"-"`
	Fingerprint     string           `gorm:"type:text;index" json:"fingerprint"`
	PlatformMetrics datatypes.JSON   `gorm:"type:jsonb" json:"platform_metrics,omitempty"`
	Tier            *string          `gorm:"type:text" json:"tier,omitempty"`
	TotalScore      *float64         `gorm:"type:decimal(5,2)" json:"total_score,omitempty"`
	Result          datatypes.JSON   `gorm:"type:jsonb" json:"-"`
	ErrorMessage    *string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt       time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Submission) TableName() string {
	return "submissions"
}

// NewSubmissionID builds the human-readable submission id: submission date
// plus a short random suffix, e.g. WIG-20260831142501-A3F29B.
func NewSubmissionID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("WIG-%s-%s", now.Format("20060102150405"), suffix)
}
