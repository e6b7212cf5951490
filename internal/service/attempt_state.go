package service

import (
	"github.com/google/uuid"

	"github.com/pedagolab/parcours-backend/internal/assessment"
)

// StepView is one step as rendered to the learner: format-specific content
// with the answer key stripped, plus the learner's own captured answers
// and verification result.
type StepView struct {
	Index       int                    `json:"index"`
	ID          uuid.UUID              `json:"id"`
	Format      assessment.Format      `json:"format"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Supported   bool                   `json:"supported"`
	Content     any                    `json:"content,omitempty"`
	Answers     assessment.AnswerSet   `json:"answers,omitempty"`
	Result      *assessment.StepResult `json:"result,omitempty"`
}

// AttemptState is the full learner-facing snapshot of a live attempt.
type AttemptState struct {
	AttemptID        uuid.UUID                 `json:"attempt_id"`
	AssessmentID     uuid.UUID                 `json:"assessment_id"`
	CurrentStep      int                       `json:"current_step"`
	Finalized        bool                      `json:"finalized"`
	Timed            bool                      `json:"timed"`
	RemainingSeconds int                       `json:"remaining_seconds"`
	Steps            []StepView                `json:"steps"`
	Result           *assessment.SessionResult `json:"result,omitempty"`
}

// stateOf assembles the snapshot from the live session.
func (s *AttemptService) stateOf(la *liveAttempt) *AttemptState {
	sess := la.session
	steps := sess.Steps()

	views := make([]StepView, len(steps))
	for i, step := range steps {
		view := StepView{
			Index:       i,
			ID:          step.ID,
			Format:      step.Format,
			Title:       step.Title,
			Description: step.Description,
			Supported:   step.Payload != nil,
			Answers:     sess.Answers(i),
		}
		if step.Payload != nil {
			view.Content = step.Payload.View(sess.Presentation(i))
		}
		if result, ok := sess.Result(i); ok {
			view.Result = &result
		}
		views[i] = view
	}

	state := &AttemptState{
		AttemptID:        la.attemptID,
		AssessmentID:     la.assessmentID,
		CurrentStep:      sess.Current(),
		Finalized:        sess.Finalized(),
		Timed:            sess.Timed(),
		RemainingSeconds: sess.Remaining(),
		Steps:            views,
	}
	if res, ok := sess.FinalResult(); ok {
		state.Result = &res
	}
	return state
}
