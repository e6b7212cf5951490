package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates attempt states.
type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "IN_PROGRESS"
	AttemptStatusCompleted  AttemptStatus = "COMPLETED"
	AttemptStatusAbandoned  AttemptStatus = "ABANDONED"
)

// Attempt represents a learner's run through an assessment.
type Attempt struct {
	ID                uuid.UUID     `json:"id"`
	AssessmentID      uuid.UUID     `json:"assessment_id"`
	LearnerID         int           `json:"learner_id"`
	StartedAt         time.Time     `json:"started_at"`
	FinishedAt        *time.Time    `json:"finished_at,omitempty"`
	Status            AttemptStatus `json:"status"`
	FinalScore        *int          `json:"final_score,omitempty"`
	CorrectCount      *int          `json:"correct_count,omitempty"`
	TotalCount        *int          `json:"total_count,omitempty"`
	ElapsedSeconds    *int          `json:"elapsed_seconds,omitempty"`
	Passed            *bool         `json:"passed,omitempty"`
	ValidationsEarned *int          `json:"validations_earned,omitempty"`
}

// AttemptResult is the full grading outcome persisted on a completed
// attempt row.
type AttemptResult struct {
	Score             int
	Correct           int
	Total             int
	ElapsedSeconds    int
	Passed            bool
	ValidationsEarned int
}

// AnswerRequest is the payload for recording a step answer.
type AnswerRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

// NavigateRequest is the payload for moving between steps.
type NavigateRequest struct {
	Direction string `json:"direction" binding:"required,oneof=next previous"`
}
