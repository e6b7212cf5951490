package worker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The queue payload written on finalization carries the whole session
// result; the worker must decode every field so the durable row keeps the
// learner's tally and time spent, not just the score.
func TestResultJobDecodesFullResult(t *testing.T) {
	raw := `{
		"attempt_id": "5e6f64c2-8f5a-4b1e-9a7d-1a2b3c4d5e6f",
		"score": 75,
		"correct": 3,
		"total": 4,
		"elapsed_seconds": 180,
		"passed": true,
		"validations_earned": 2
	}`

	var job resultJob
	require.NoError(t, json.Unmarshal([]byte(raw), &job))

	assert.Equal(t, "5e6f64c2-8f5a-4b1e-9a7d-1a2b3c4d5e6f", job.AttemptID)
	assert.Equal(t, 75, job.Score)
	assert.Equal(t, 3, job.Correct)
	assert.Equal(t, 4, job.Total)
	assert.Equal(t, 180, job.ElapsedSeconds)
	assert.True(t, job.Passed)
	assert.Equal(t, 2, job.ValidationsEarned)
}
