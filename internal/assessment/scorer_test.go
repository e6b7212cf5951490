package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	assert.Equal(t, 100, Percent(0, 0), "no gradable items is vacuously perfect")
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 0, Percent(0, 5))
	assert.Equal(t, 100, Percent(5, 5))
}

func TestAggregate(t *testing.T) {
	correct, total := Aggregate([]StepResult{
		{Correct: 2, Total: 3},
		{Correct: 0, Total: 0, Unsupported: true},
		{Correct: 4, Total: 4},
	})
	assert.Equal(t, 6, correct)
	assert.Equal(t, 7, total)
}

func TestGradingExact(t *testing.T) {
	g := Grading{Mode: GradingExact, Stake: 2}
	assert.False(t, g.Passed(99))
	assert.True(t, g.Passed(100))
	assert.Equal(t, 2, g.Validations(true))
	assert.Equal(t, 0, g.Validations(false))
}

func TestGradingThreshold(t *testing.T) {
	g := Grading{Mode: GradingThreshold, Threshold: 80, Stake: 1}
	assert.True(t, g.Passed(80))
	assert.False(t, g.Passed(79))
	assert.True(t, g.Passed(100))
}
