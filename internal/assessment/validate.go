package assessment

import "errors"

// Engine sentinel errors. Handlers map these onto API error codes.
var (
	// ErrEmptyContent means the content provider returned no steps; the
	// session cannot start and the error blocks before anything renders.
	ErrEmptyContent = errors.New("assessment has no steps")

	// ErrSessionFinalized rejects mutation after finalization.
	ErrSessionFinalized = errors.New("session already finalized")

	// ErrStepOutOfRange rejects an operation on a step index outside the
	// session's step list.
	ErrStepOutOfRange = errors.New("step index out of range")

	// ErrStepNotVerified is returned by Next when the navigation gate is
	// enabled and the current step has not been verified yet.
	ErrStepNotVerified = errors.New("current step not verified")
)

// Tally is the outcome of validating one step: how many sub-answers were
// right out of how many gradable items.
type Tally struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// StepResult is the verified outcome of a single step. A step may be
// re-verified after a reset; each verification replaces the prior result.
type StepResult struct {
	Verified    bool `json:"verified"`
	Unsupported bool `json:"unsupported,omitempty"`
	Correct     int  `json:"correct"`
	Total       int  `json:"total"`
	Score       int  `json:"score"`
}

// EvaluateStep runs the step's format validator over the captured answers.
// A step whose format tag had no decoder yields an empty, zero-total
// result: the step is surfaced as unsupported but never sinks the session.
func EvaluateStep(step Step, answers AnswerSet, pres *Presentation) StepResult {
	if step.Payload == nil {
		return StepResult{Verified: true, Unsupported: true}
	}

	tally := step.Payload.Evaluate(answers, pres)
	if tally.Correct > tally.Total {
		tally.Correct = tally.Total
	}
	return StepResult{
		Verified: true,
		Correct:  tally.Correct,
		Total:    tally.Total,
		Score:    Percent(tally.Correct, tally.Total),
	}
}
