package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedagolab/parcours-backend/internal/assessment"
	"github.com/pedagolab/parcours-backend/internal/config"
)

// newTestAttemptService builds a service whose Redis client points at a
// closed port, so cache and queue writes fail fast and are logged away.
// The repository and broker stay nil; tests inject sessions directly.
func newTestAttemptService() *AttemptService {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 10 * time.Millisecond,
		ReadTimeout: 10 * time.Millisecond,
		MaxRetries:  -1,
	})
	return NewAttemptService(&config.Config{}, nil, nil, nil, rdb, zerolog.Nop())
}

func putLiveSession(t *testing.T, s *AttemptService, durationSeconds int) *liveAttempt {
	t.Helper()

	steps := []assessment.Step{{
		ID:     uuid.New(),
		Format: assessment.FormatTrueFalse,
		Payload: &assessment.TrueFalsePayload{Propositions: []assessment.Proposition{
			{ID: "p1", Correct: true},
		}},
	}}
	sess, err := assessment.New(uuid.New(), steps, assessment.Options{
		Grading:         assessment.Grading{Mode: assessment.GradingThreshold, Threshold: 50, Stake: 1},
		DurationSeconds: durationSeconds,
	})
	require.NoError(t, err)

	la := &liveAttempt{
		attemptID:    sess.ID(),
		assessmentID: uuid.New(),
		learnerID:    7,
		session:      sess,
	}
	s.live.put(la)
	return la
}

func TestClockAfterFinalize(t *testing.T) {
	s := newTestAttemptService()
	la := putLiveSession(t, s, 120)

	remaining, _, err := s.Clock(la.attemptID, la.learnerID)
	require.NoError(t, err)
	assert.Greater(t, remaining, 0)

	_, err = s.Finalize(context.Background(), la.attemptID, la.learnerID)
	require.NoError(t, err)

	// The session lingers in the registry for the retention window, but
	// its clock is over: a streaming caller must get the terminal error,
	// not a frozen remaining value.
	_, _, err = s.Clock(la.attemptID, la.learnerID)
	assert.ErrorIs(t, err, assessment.ErrSessionFinalized)
}

func TestFinalizeEvictsLiveAttempt(t *testing.T) {
	old := finalizedRetention
	finalizedRetention = 20 * time.Millisecond
	defer func() { finalizedRetention = old }()

	s := newTestAttemptService()
	la := putLiveSession(t, s, 0)

	_, err := s.Finalize(context.Background(), la.attemptID, la.learnerID)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, ok := s.live.get(la.attemptID)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)

	_, ok := s.live.findByLearner(la.learnerID)
	assert.False(t, ok)
}

func TestFinalizeIdempotentResult(t *testing.T) {
	s := newTestAttemptService()
	la := putLiveSession(t, s, 0)

	first, err := s.Finalize(context.Background(), la.attemptID, la.learnerID)
	require.NoError(t, err)
	again, err := s.Finalize(context.Background(), la.attemptID, la.learnerID)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}
