package assessment

import "math"

// GradingMode selects the pass/fail policy applied at finalization.
type GradingMode string

const (
	// GradingThreshold passes at a configured minimum percentage. Used for
	// knowledge and competency assessments.
	GradingThreshold GradingMode = "threshold"

	// GradingExact passes only a perfect score. Used for skill/procedure
	// assessments where any single error fails the whole session.
	GradingExact GradingMode = "exact"
)

// Grading bundles the pass policy with the stake awarded on success.
type Grading struct {
	Mode      GradingMode `json:"mode"`
	Threshold int         `json:"threshold"`
	Stake     int         `json:"stake"`
}

// SessionResult is the final aggregate of a session, computed once at
// finalization and immutable thereafter.
type SessionResult struct {
	Score             int  `json:"score"`
	Correct           int  `json:"correct"`
	Total             int  `json:"total"`
	ElapsedSeconds    int  `json:"elapsed_seconds"`
	Passed            bool `json:"passed"`
	ValidationsEarned int  `json:"validations_earned"`
}

// Percent is the session-wide rounded percentage. A zero total is
// vacuously perfect: a session with no gradable items scores 100.
func Percent(correct, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// Aggregate sums per-step tallies into the session-level counts.
func Aggregate(results []StepResult) (correct, total int) {
	for _, r := range results {
		correct += r.Correct
		total += r.Total
	}
	return correct, total
}

// Passed applies the grading policy to a session score.
func (g Grading) Passed(score int) bool {
	if g.Mode == GradingExact {
		return score == 100
	}
	return score >= g.Threshold
}

// Validations returns the stake earned: the full configured stake on a
// pass, nothing otherwise.
func (g Grading) Validations(passed bool) int {
	if passed {
		return g.Stake
	}
	return 0
}
