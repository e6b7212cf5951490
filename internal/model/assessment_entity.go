package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/pedagolab/parcours-backend/internal/assessment"
)

// AssessmentStatus enumerates the possible states of an assessment.
type AssessmentStatus string

const (
	AssessmentStatusDraft     AssessmentStatus = "DRAFT"
	AssessmentStatusPublished AssessmentStatus = "PUBLISHED"
	AssessmentStatusArchived  AssessmentStatus = "ARCHIVED"
)

// Assessment represents an assessment entity.
type Assessment struct {
	ID               uuid.UUID              `json:"id"`
	Title            string                 `json:"title"`
	Description      string                 `json:"description,omitempty"`
	GradingMode      assessment.GradingMode `json:"grading_mode"`
	ThresholdPercent int                    `json:"threshold_percent"`
	Stake            int                    `json:"stake"`
	DurationSeconds  int                    `json:"duration_seconds"`
	StepCount        int                    `json:"step_count"`
	Status           AssessmentStatus       `json:"status"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// Grading builds the grading parameters for this assessment.
func (a Assessment) Grading() assessment.Grading {
	return assessment.Grading{
		Mode:      a.GradingMode,
		Threshold: a.ThresholdPercent,
		Stake:     a.Stake,
	}
}

// CatalogEntry is an assessment as listed in the learner catalog, with
// the calling learner's attempt history overlaid.
type CatalogEntry struct {
	ID              uuid.UUID              `json:"id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description,omitempty"`
	GradingMode     assessment.GradingMode `json:"grading_mode"`
	DurationSeconds int                    `json:"duration_seconds"`
	StepCount       int                    `json:"step_count"`

	AttemptCount      int            `json:"attempt_count"`
	LastAttemptStatus *AttemptStatus `json:"last_attempt_status,omitempty"`
	LastScore         *int           `json:"last_score,omitempty"`
	LastPassed        *bool          `json:"last_passed,omitempty"`
}
