package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pedagolab/parcours-backend/internal/assessment"
	"github.com/pedagolab/parcours-backend/internal/config"
	"github.com/pedagolab/parcours-backend/internal/model"
	"github.com/pedagolab/parcours-backend/internal/repository"
)

// Domain errors.
var (
	ErrAssessmentNotAvailable = errors.New("assessment is not published")
	ErrNoSteps                = errors.New("assessment has no steps")
)

// ContentService serves assessment content, with published step records
// cached in Redis and PostgreSQL as the source of truth.
type ContentService struct {
	assessmentRepo *repository.AssessmentRepository
	rdb            *redis.Client
	log            zerolog.Logger
}

// NewContentService creates a new ContentService.
func NewContentService(assessmentRepo *repository.AssessmentRepository, rdb *redis.Client, log zerolog.Logger) *ContentService {
	return &ContentService{
		assessmentRepo: assessmentRepo,
		rdb:            rdb,
		log:            log.With().Str("component", "content_service").Logger(),
	}
}

// Catalog lists the published assessments open to a learner, with the
// learner's attempt history overlaid on each entry.
func (s *ContentService) Catalog(ctx context.Context, learnerID int) ([]model.CatalogEntry, error) {
	entries, err := s.assessmentRepo.ListPublished(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.CatalogEntry{}
	}
	return entries, nil
}

// GetAssessment retrieves a published assessment by ID.
func (s *ContentService) GetAssessment(ctx context.Context, id uuid.UUID) (*model.Assessment, error) {
	a, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != model.AssessmentStatusPublished {
		return nil, ErrAssessmentNotAvailable
	}
	return a, nil
}

// GetSteps returns the decoded steps of an assessment. The Redis cache is
// read first; on a miss the records are loaded from PostgreSQL and the
// cache is healed in place.
func (s *ContentService) GetSteps(ctx context.Context, assessmentID uuid.UUID) ([]assessment.Step, error) {
	key := config.CacheKey.AssessmentStepsKey(assessmentID.String())

	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var recs []assessment.StepRecord
		if err := json.Unmarshal(data, &recs); err == nil {
			return assessment.DecodeSteps(recs)
		}
		s.log.Warn().Str("assessment_id", assessmentID.String()).Msg("Corrupt step cache, falling back to database")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Step cache read failed, falling back to database")
	}

	recs, err := s.assessmentRepo.ListSteps(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrNoSteps
	}

	if err := s.cacheSteps(ctx, assessmentID, recs); err != nil {
		s.log.Warn().Err(err).Str("assessment_id", assessmentID.String()).Msg("Failed to heal step cache")
	}

	return assessment.DecodeSteps(recs)
}

// WarmStepCache loads one assessment's step records from PostgreSQL into
// Redis.
func (s *ContentService) WarmStepCache(ctx context.Context, assessmentID uuid.UUID) error {
	recs, err := s.assessmentRepo.ListSteps(ctx, assessmentID)
	if err != nil {
		return fmt.Errorf("list steps: %w", err)
	}
	if len(recs) == 0 {
		return ErrNoSteps
	}
	return s.cacheSteps(ctx, assessmentID, recs)
}

// PrewarmAllCaches loads all published assessments into Redis on
// application startup.
func (s *ContentService) PrewarmAllCaches(ctx context.Context) error {
	ids, err := s.assessmentRepo.ListPublishedIDs(ctx)
	if err != nil {
		return fmt.Errorf("list published assessments: %w", err)
	}

	if len(ids) == 0 {
		s.log.Info().Msg("No published assessments to prewarm")
		return nil
	}

	s.log.Info().Int("count", len(ids)).Msg("Prewarming published assessments...")

	warmed := 0
	for _, id := range ids {
		if err := s.WarmStepCache(ctx, id); err != nil {
			s.log.Warn().
				Err(err).
				Str("assessment_id", id.String()).
				Msg("Failed to warm assessment, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(ids)).
		Msg("Prewarming complete")
	return nil
}

func (s *ContentService) cacheSteps(ctx context.Context, assessmentID uuid.UUID, recs []assessment.StepRecord) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshal step records: %w", err)
	}
	key := config.CacheKey.AssessmentStepsKey(assessmentID.String())
	if err := s.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().
		Str("assessment_id", assessmentID.String()).
		Int("steps", len(recs)).
		Msg("Step cache warmed")
	return nil
}
