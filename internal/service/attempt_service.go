package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pedagolab/parcours-backend/internal/assessment"
	"github.com/pedagolab/parcours-backend/internal/config"
	"github.com/pedagolab/parcours-backend/internal/events"
	"github.com/pedagolab/parcours-backend/internal/model"
	"github.com/pedagolab/parcours-backend/internal/repository"
)

// Attempt lifecycle errors.
var (
	ErrAttemptNotFound = errors.New("attempt not found or not live on this instance")
	ErrAttemptNotOwned = errors.New("attempt belongs to another learner")
	ErrAttemptActive   = errors.New("another attempt is already in progress")
	ErrAttemptUntimed  = errors.New("attempt has no countdown")
)

// finalizedRetention is how long a finalized session stays readable in the
// live registry before eviction.
var finalizedRetention = time.Minute

// liveAttempt binds an in-memory session to its attempt row.
type liveAttempt struct {
	attemptID    uuid.UUID
	assessmentID uuid.UUID
	learnerID    int
	session      *assessment.Session
}

// AttemptService owns the live attempt sessions of this instance. Each
// session is held in memory for its whole run; Redis carries the autosave
// buffer and the persistence queues so workers can write PostgreSQL off
// the hot path.
type AttemptService struct {
	cfg         *config.Config
	attemptRepo *repository.AttemptRepository
	content     *ContentService
	publisher   *events.Publisher
	rdb         *redis.Client
	log         zerolog.Logger

	live *liveRegistry
}

// NewAttemptService creates a new AttemptService. publisher may be nil
// when no broker is configured.
func NewAttemptService(
	cfg *config.Config,
	attemptRepo *repository.AttemptRepository,
	content *ContentService,
	publisher *events.Publisher,
	rdb *redis.Client,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		cfg:         cfg,
		attemptRepo: attemptRepo,
		content:     content,
		publisher:   publisher,
		rdb:         rdb,
		log:         log.With().Str("component", "attempt_service").Logger(),
		live:        newLiveRegistry(),
	}
}

// Start begins a new attempt for a learner, or resumes their live one when
// they already started this assessment. One in-progress attempt per
// learner at a time.
func (s *AttemptService) Start(ctx context.Context, assessmentID uuid.UUID, learnerID int) (*AttemptState, error) {
	a, err := s.content.GetAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	// Rejoin path: a live session for this assessment is returned as-is so
	// a refresh or device switch does not burn the attempt.
	if la, ok := s.live.findByLearner(learnerID); ok {
		if la.assessmentID == assessmentID && !la.session.Finalized() {
			return s.stateOf(la), nil
		}
		if !la.session.Finalized() {
			return nil, ErrAttemptActive
		}
	}

	existing, err := s.attemptRepo.GetActiveByLearner(ctx, learnerID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check active attempt: %w", err)
	}
	if existing != nil {
		// An in-progress row without a live session means the instance that
		// owned it died. The row is abandoned so the learner can restart.
		if err := s.attemptRepo.Abandon(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("abandon stale attempt: %w", err)
		}
		s.log.Warn().Str("attempt_id", existing.ID.String()).Msg("Abandoned stale attempt without live session")
	}

	steps, err := s.content.GetSteps(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		ID:           uuid.New(),
		AssessmentID: assessmentID,
		LearnerID:    learnerID,
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	la := &liveAttempt{
		attemptID:    attempt.ID,
		assessmentID: assessmentID,
		learnerID:    learnerID,
	}

	session, err := assessment.New(attempt.ID, steps, assessment.Options{
		Grading:         a.Grading(),
		DurationSeconds: a.DurationSeconds,
		GateNavigation:  s.cfg.GateNavigation,
		OnExpire: func(res assessment.SessionResult) {
			s.persistFinalization(context.Background(), la, res)
		},
	})
	if err != nil {
		return nil, err
	}
	la.session = session
	s.live.put(la)

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.AttemptStartKey(attempt.ID.String()), attempt.StartedAt.Unix(), 0)
	pipe.Set(ctx, config.CacheKey.LearnerActiveAttemptKey(learnerID), attempt.ID.String(), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Failed to cache attempt start state")
	}

	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("assessment_id", assessmentID.String()).
		Int("learner_id", learnerID).
		Int("steps", len(steps)).
		Msg("Attempt started")

	return s.stateOf(la), nil
}

// State returns the learner-facing snapshot of a live attempt.
func (s *AttemptService) State(attemptID uuid.UUID, learnerID int) (*AttemptState, error) {
	la, err := s.get(attemptID, learnerID)
	if err != nil {
		return nil, err
	}
	return s.stateOf(la), nil
}

// RecordAnswer captures one raw answer value on a step and autosaves it.
func (s *AttemptService) RecordAnswer(ctx context.Context, attemptID uuid.UUID, learnerID, stepIndex int, key string, value json.RawMessage) error {
	la, err := s.get(attemptID, learnerID)
	if err != nil {
		return err
	}

	if err := la.session.RecordAnswer(stepIndex, key, value); err != nil {
		return err
	}

	// Autosave runs off the request's critical path. The in-memory session
	// already holds the answer, so a Redis failure here only weakens crash
	// recovery.
	field := strconv.Itoa(stepIndex) + ":" + key
	if err := s.rdb.HSet(ctx, config.CacheKey.AttemptAnswersKey(attemptID.String()), field, string(value)).Err(); err != nil {
		s.log.Warn().Err(err).Str("attempt_id", attemptID.String()).Msg("Autosave buffer write failed")
	}

	job, _ := json.Marshal(struct {
		AttemptID string          `json:"attempt_id"`
		StepIndex int             `json:"step_index"`
		Key       string          `json:"key"`
		Value     json.RawMessage `json:"value"`
	}{attemptID.String(), stepIndex, key, value})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, job).Err(); err != nil {
		s.log.Warn().Err(err).Str("attempt_id", attemptID.String()).Msg("Answer persistence enqueue failed")
	}

	return nil
}

// Verify runs the current validator of a step and returns its result.
func (s *AttemptService) Verify(attemptID uuid.UUID, learnerID, stepIndex int) (assessment.StepResult, error) {
	la, err := s.get(attemptID, learnerID)
	if err != nil {
		return assessment.StepResult{}, err
	}
	return la.session.VerifyStep(stepIndex)
}

// Reset clears a step's answers and verification so it can be retried.
func (s *AttemptService) Reset(attemptID uuid.UUID, learnerID, stepIndex int) error {
	la, err := s.get(attemptID, learnerID)
	if err != nil {
		return err
	}
	return la.session.ResetStep(stepIndex)
}

// Navigate moves the attempt's current step and returns the new index.
func (s *AttemptService) Navigate(attemptID uuid.UUID, learnerID int, direction string) (int, error) {
	la, err := s.get(attemptID, learnerID)
	if err != nil {
		return 0, err
	}
	if direction == "previous" {
		return la.session.Previous()
	}
	return la.session.Next()
}

// Finalize submits the attempt. Already-finalized attempts return their
// stored result, so a double submit or a race against the countdown is
// harmless.
func (s *AttemptService) Finalize(ctx context.Context, attemptID uuid.UUID, learnerID int) (assessment.SessionResult, error) {
	la, err := s.get(attemptID, learnerID)
	if err != nil {
		return assessment.SessionResult{}, err
	}

	res, first := la.session.Finalize()
	if first {
		s.persistFinalization(ctx, la, res)
	}
	return res, nil
}

// Abandon discards a live attempt without grading it.
func (s *AttemptService) Abandon(ctx context.Context, attemptID uuid.UUID, learnerID int) error {
	la, err := s.get(attemptID, learnerID)
	if err != nil {
		return err
	}
	if la.session.Finalized() {
		return assessment.ErrSessionFinalized
	}

	la.session.Abandon()
	s.live.remove(attemptID, learnerID)

	if err := s.attemptRepo.Abandon(ctx, attemptID); err != nil {
		return fmt.Errorf("abandon attempt: %w", err)
	}
	s.clearAttemptCache(ctx, la)

	s.log.Info().Str("attempt_id", attemptID.String()).Msg("Attempt abandoned")
	return nil
}

// Clock returns the live countdown state of an attempt.
func (s *AttemptService) Clock(attemptID uuid.UUID, learnerID int) (remaining int, phase assessment.Phase, err error) {
	la, err := s.get(attemptID, learnerID)
	if err != nil {
		return 0, "", err
	}
	if la.session.Finalized() {
		return 0, "", assessment.ErrSessionFinalized
	}
	if !la.session.Timed() {
		return 0, "", ErrAttemptUntimed
	}
	remaining = la.session.Remaining()
	return remaining, assessment.PhaseFor(remaining), nil
}

// History lists one page of a learner's past attempts from PostgreSQL and
// returns the total attempt count for pagination.
func (s *AttemptService) History(ctx context.Context, learnerID, page, perPage int) ([]model.Attempt, int, error) {
	attempts, err := s.attemptRepo.ListByLearner(ctx, learnerID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}

	total, err := s.attemptRepo.CountByLearner(ctx, learnerID)
	if err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

func (s *AttemptService) get(attemptID uuid.UUID, learnerID int) (*liveAttempt, error) {
	la, ok := s.live.get(attemptID)
	if !ok {
		return nil, ErrAttemptNotFound
	}
	if la.learnerID != learnerID {
		return nil, ErrAttemptNotOwned
	}
	return la, nil
}

// persistFinalization runs exactly once per attempt, for either a user
// submit or a countdown expiry. The result is queued for the result worker
// and announced on the broker; both paths are non-fatal because the live
// session already holds the authoritative result.
func (s *AttemptService) persistFinalization(ctx context.Context, la *liveAttempt, res assessment.SessionResult) {
	job, _ := json.Marshal(struct {
		AttemptID         string `json:"attempt_id"`
		Score             int    `json:"score"`
		Correct           int    `json:"correct"`
		Total             int    `json:"total"`
		ElapsedSeconds    int    `json:"elapsed_seconds"`
		Passed            bool   `json:"passed"`
		ValidationsEarned int    `json:"validations_earned"`
	}{la.attemptID.String(), res.Score, res.Correct, res.Total, res.ElapsedSeconds, res.Passed, res.ValidationsEarned})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, job).Err(); err != nil {
		s.log.Error().Err(err).Str("attempt_id", la.attemptID.String()).Msg("Result persistence enqueue failed")
	}

	if err := s.publisher.PublishAttemptFinalized(ctx, events.AttemptFinalized{
		AttemptID:         la.attemptID.String(),
		AssessmentID:      la.assessmentID.String(),
		LearnerID:         la.learnerID,
		Score:             res.Score,
		Passed:            res.Passed,
		ValidationsEarned: res.ValidationsEarned,
		ElapsedSeconds:    res.ElapsedSeconds,
		FinalizedAt:       time.Now(),
	}); err != nil {
		s.log.Warn().Err(err).Str("attempt_id", la.attemptID.String()).Msg("Event publish failed")
	}

	s.clearAttemptCache(ctx, la)

	// The session lingers briefly so a result screen can still read its
	// state, then leaves the registry for good.
	s.live.removeLater(la.attemptID, la.learnerID, finalizedRetention)

	s.log.Info().
		Str("attempt_id", la.attemptID.String()).
		Int("score", res.Score).
		Bool("passed", res.Passed).
		Msg("Attempt finalized")
}

func (s *AttemptService) clearAttemptCache(ctx context.Context, la *liveAttempt) {
	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, config.CacheKey.AttemptStartKey(la.attemptID.String()))
	pipe.Del(ctx, config.CacheKey.LearnerActiveAttemptKey(la.learnerID))
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("attempt_id", la.attemptID.String()).Msg("Attempt cache cleanup failed")
	}
}
