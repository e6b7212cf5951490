package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedagolab/parcours-backend/internal/assessment"
	"github.com/pedagolab/parcours-backend/internal/model"
)

// AssessmentRepository handles assessment data access.
type AssessmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepository creates a new AssessmentRepository.
func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

// GetByID retrieves an assessment by ID.
func (r *AssessmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Assessment, error) {
	a := &model.Assessment{}
	err := r.pool.QueryRow(ctx,
		`SELECT a.id, a.title, a.description, a.grading_mode, a.threshold_percent, a.stake,
		        a.duration_seconds, a.status, a.created_at, a.updated_at,
		        (SELECT COUNT(*) FROM assessment_steps s WHERE s.assessment_id = a.id)
		 FROM assessments a WHERE a.id = $1`, id,
	).Scan(&a.ID, &a.Title, &a.Description, &a.GradingMode, &a.ThresholdPercent, &a.Stake,
		&a.DurationSeconds, &a.Status, &a.CreatedAt, &a.UpdatedAt, &a.StepCount)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListPublished retrieves the catalog of assessments open to learners,
// annotated with the learner's own attempt history.
func (r *AssessmentRepository) ListPublished(ctx context.Context, learnerID int) ([]model.CatalogEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.title, a.description, a.grading_mode, a.duration_seconds,
		        (SELECT COUNT(*) FROM assessment_steps s WHERE s.assessment_id = a.id),
		        (SELECT COUNT(*) FROM attempts t WHERE t.assessment_id = a.id AND t.learner_id = $2),
		        la.status, la.final_score, la.passed
		 FROM assessments a
		 LEFT JOIN LATERAL (
		     SELECT t.status, t.final_score, t.passed
		     FROM attempts t
		     WHERE t.assessment_id = a.id AND t.learner_id = $2
		     ORDER BY t.started_at DESC
		     LIMIT 1
		 ) la ON TRUE
		 WHERE a.status = $1
		 ORDER BY a.title ASC`, model.AssessmentStatusPublished, learnerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.CatalogEntry
	for rows.Next() {
		var e model.CatalogEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.GradingMode, &e.DurationSeconds, &e.StepCount,
			&e.AttemptCount, &e.LastAttemptStatus, &e.LastScore, &e.LastPassed); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListSteps retrieves the ordered step records of an assessment. The
// payload column is JSONB and is passed through undecoded.
func (r *AssessmentRepository) ListSteps(ctx context.Context, assessmentID uuid.UUID) ([]assessment.StepRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, format, title, description, payload
		 FROM assessment_steps
		 WHERE assessment_id = $1
		 ORDER BY position ASC`, assessmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []assessment.StepRecord
	for rows.Next() {
		var rec assessment.StepRecord
		if err := rows.Scan(&rec.ID, &rec.Format, &rec.Title, &rec.Description, &rec.Payload); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ListPublishedIDs retrieves the IDs of all published assessments, used
// for cache prewarming at startup.
func (r *AssessmentRepository) ListPublishedIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM assessments WHERE status = $1`, model.AssessmentStatusPublished,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
