package assessment

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoChoiceSteps() []Step {
	return []Step{
		{
			ID:     uuid.New(),
			Format: FormatSingleChoice,
			Payload: &SingleChoicePayload{Questions: []ChoiceQuestion{
				{ID: "q1", Options: []string{"a", "b"}, Correct: 0},
				{ID: "q2", Options: []string{"a", "b"}, Correct: 1},
			}},
		},
		{
			ID:     uuid.New(),
			Format: FormatTrueFalse,
			Payload: &TrueFalsePayload{Propositions: []Proposition{
				{ID: "p1", Correct: true},
			}},
		},
	}
}

func identityOptions(steps []Step) Options {
	// A fixed seed keeps presentations deterministic; answers in these
	// tests are written as display positions matching that seed's
	// permutations via the session's own presentation.
	return Options{
		Grading: Grading{Mode: GradingThreshold, Threshold: 50, Stake: 1},
		Rand:    rand.New(rand.NewSource(1)),
	}
}

// displayFor translates a canonical option index into the display position
// the session would have shown, so tests can answer "correctly" without
// caring which permutation was rolled.
func displayFor(s *Session, stepIndex int, questionID string, canonical int) int {
	pres := s.Presentation(stepIndex)
	if perm, ok := pres.optionPerm(questionID); ok {
		return perm.Display(canonical)
	}
	return canonical
}

func TestNewSessionEmptyContent(t *testing.T) {
	_, err := New(uuid.New(), nil, Options{})
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestSessionVerifyFlow(t *testing.T) {
	steps := twoChoiceSteps()
	s, err := New(uuid.New(), steps, identityOptions(steps))
	require.NoError(t, err)

	require.NoError(t, s.RecordAnswer(0, "q1", raw(t, displayFor(s, 0, "q1", 0))))
	require.NoError(t, s.RecordAnswer(0, "q2", raw(t, displayFor(s, 0, "q2", 0))))

	result, err := s.VerifyStep(0)
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 50, result.Score)

	// Input freezes once verified: the capture is silently dropped.
	require.NoError(t, s.RecordAnswer(0, "q2", raw(t, displayFor(s, 0, "q2", 1))))
	result, err = s.VerifyStep(0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Correct, "frozen answer must not change the tally")

	// Reset clears answers and result, then the retry can rescore.
	require.NoError(t, s.ResetStep(0))
	_, ok := s.Result(0)
	assert.False(t, ok)
	assert.Empty(t, s.Answers(0))

	require.NoError(t, s.RecordAnswer(0, "q1", raw(t, displayFor(s, 0, "q1", 0))))
	require.NoError(t, s.RecordAnswer(0, "q2", raw(t, displayFor(s, 0, "q2", 1))))
	result, err = s.VerifyStep(0)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Correct)
}

func TestSessionNavigation(t *testing.T) {
	steps := twoChoiceSteps()
	s, err := New(uuid.New(), steps, identityOptions(steps))
	require.NoError(t, err)

	assert.Equal(t, 0, s.Current())

	idx, err := s.Previous()
	require.NoError(t, err)
	assert.Equal(t, 0, idx, "previous clamps at the first step")

	idx, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, idx, "next clamps at the last step")
}

func TestSessionNavigationGate(t *testing.T) {
	steps := twoChoiceSteps()
	opts := identityOptions(steps)
	opts.GateNavigation = true
	s, err := New(uuid.New(), steps, opts)
	require.NoError(t, err)

	_, err = s.Next()
	assert.ErrorIs(t, err, ErrStepNotVerified)

	_, err = s.VerifyStep(0)
	require.NoError(t, err)

	idx, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestSessionFinalizeScoresEverything(t *testing.T) {
	steps := twoChoiceSteps()
	s, err := New(uuid.New(), steps, identityOptions(steps))
	require.NoError(t, err)

	// Answer only the first question of the first step; never verify.
	require.NoError(t, s.RecordAnswer(0, "q1", raw(t, displayFor(s, 0, "q1", 0))))

	res, first := s.Finalize()
	assert.True(t, first)
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 3, res.Total, "skipped steps still count in the total")
	assert.Equal(t, 33, res.Score)
	assert.False(t, res.Passed)
	assert.Zero(t, res.ValidationsEarned)
	assert.GreaterOrEqual(t, res.Score, 0)
	assert.LessOrEqual(t, res.Score, 100)
}

func TestSessionFinalizeIdempotent(t *testing.T) {
	steps := twoChoiceSteps()
	s, err := New(uuid.New(), steps, identityOptions(steps))
	require.NoError(t, err)

	first, performed := s.Finalize()
	assert.True(t, performed)

	second, performed := s.Finalize()
	assert.False(t, performed, "second finalize must not re-run")
	assert.Equal(t, first, second, "both calls observe the same result")

	// Terminal state: every mutation is rejected.
	assert.ErrorIs(t, s.RecordAnswer(0, "q1", raw(t, 0)), ErrSessionFinalized)
	_, err = s.VerifyStep(0)
	assert.ErrorIs(t, err, ErrSessionFinalized)
	assert.ErrorIs(t, s.ResetStep(0), ErrSessionFinalized)
	_, err = s.Next()
	assert.ErrorIs(t, err, ErrSessionFinalized)
}

func TestSessionPassedWithStake(t *testing.T) {
	steps := twoChoiceSteps()
	opts := identityOptions(steps)
	opts.Grading = Grading{Mode: GradingExact, Stake: 3}
	s, err := New(uuid.New(), steps, opts)
	require.NoError(t, err)

	require.NoError(t, s.RecordAnswer(0, "q1", raw(t, displayFor(s, 0, "q1", 0))))
	require.NoError(t, s.RecordAnswer(0, "q2", raw(t, displayFor(s, 0, "q2", 1))))
	require.NoError(t, s.RecordAnswer(1, "p1", raw(t, true)))

	res, _ := s.Finalize()
	assert.Equal(t, 100, res.Score)
	assert.True(t, res.Passed)
	assert.Equal(t, 3, res.ValidationsEarned)
}

func TestSessionTimerForcesFinalization(t *testing.T) {
	steps := twoChoiceSteps()
	opts := identityOptions(steps)
	opts.DurationSeconds = 2
	opts.ClockInterval = time.Millisecond

	expired := make(chan SessionResult, 1)
	opts.OnExpire = func(res SessionResult) { expired <- res }

	s, err := New(uuid.New(), steps, opts)
	require.NoError(t, err)
	assert.True(t, s.Timed())

	select {
	case res := <-expired:
		assert.True(t, s.Finalized())
		assert.Equal(t, 3, res.Total)
	case <-time.After(time.Second):
		t.Fatal("timer never forced finalization")
	}

	// A learner submit racing the expiry observes the same result and
	// does not trigger a second persistence.
	res, performed := s.Finalize()
	assert.False(t, performed)
	assert.Equal(t, 3, res.Total)
}

func TestSessionAbandonDisarmsClock(t *testing.T) {
	steps := twoChoiceSteps()
	opts := identityOptions(steps)
	opts.DurationSeconds = 1
	opts.ClockInterval = 100 * time.Millisecond

	fired := make(chan SessionResult, 1)
	opts.OnExpire = func(res SessionResult) { fired <- res }

	s, err := New(uuid.New(), steps, opts)
	require.NoError(t, err)

	s.Abandon()
	select {
	case <-fired:
		t.Fatal("abandoned session must not be finalized by a stray tick")
	case <-time.After(300 * time.Millisecond):
	}
	assert.False(t, s.Finalized())
}
