package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedagolab/parcours-backend/internal/model"
)

// AttemptRepository handles attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Create inserts a new attempt row and fills in its generated fields.
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO attempts (id, assessment_id, learner_id, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING started_at`,
		a.ID, a.AssessmentID, a.LearnerID, model.AttemptStatusInProgress,
	).Scan(&a.StartedAt)
}

// GetActiveByLearner retrieves the learner's in-progress attempt, if any.
func (r *AttemptRepository) GetActiveByLearner(ctx context.Context, learnerID int) (*model.Attempt, error) {
	a := &model.Attempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, assessment_id, learner_id, started_at, finished_at, status,
		        final_score, correct_count, total_count, elapsed_seconds, passed, validations_earned
		 FROM attempts
		 WHERE learner_id = $1 AND status = $2
		 ORDER BY started_at DESC
		 LIMIT 1`, learnerID, model.AttemptStatusInProgress,
	).Scan(&a.ID, &a.AssessmentID, &a.LearnerID, &a.StartedAt, &a.FinishedAt, &a.Status,
		&a.FinalScore, &a.CorrectCount, &a.TotalCount, &a.ElapsedSeconds, &a.Passed, &a.ValidationsEarned)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Complete marks an attempt as completed with its full grading outcome.
func (r *AttemptRepository) Complete(ctx context.Context, id uuid.UUID, res model.AttemptResult) error {
	now := time.Now()
	_, err := r.pool.Exec(ctx,
		`UPDATE attempts
		 SET status = $1, final_score = $2, correct_count = $3, total_count = $4,
		     elapsed_seconds = $5, passed = $6, validations_earned = $7, finished_at = $8
		 WHERE id = $9 AND status = $10`,
		model.AttemptStatusCompleted, res.Score, res.Correct, res.Total,
		res.ElapsedSeconds, res.Passed, res.ValidationsEarned, now, id, model.AttemptStatusInProgress)
	return err
}

// Abandon marks an attempt as abandoned without a result.
func (r *AttemptRepository) Abandon(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	_, err := r.pool.Exec(ctx,
		`UPDATE attempts SET status = $1, finished_at = $2 WHERE id = $3 AND status = $4`,
		model.AttemptStatusAbandoned, now, id, model.AttemptStatusInProgress)
	return err
}

// ListByLearner retrieves one page of a learner's attempts, most recent
// first.
func (r *AttemptRepository) ListByLearner(ctx context.Context, learnerID, limit, offset int) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, assessment_id, learner_id, started_at, finished_at, status,
		        final_score, correct_count, total_count, elapsed_seconds, passed, validations_earned
		 FROM attempts
		 WHERE learner_id = $1
		 ORDER BY started_at DESC
		 LIMIT $2 OFFSET $3`, learnerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.AssessmentID, &a.LearnerID, &a.StartedAt, &a.FinishedAt, &a.Status,
			&a.FinalScore, &a.CorrectCount, &a.TotalCount, &a.ElapsedSeconds, &a.Passed, &a.ValidationsEarned); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// CountByLearner counts all attempts of a learner.
func (r *AttemptRepository) CountByLearner(ctx context.Context, learnerID int) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM attempts WHERE learner_id = $1`, learnerID,
	).Scan(&total)
	return total, err
}
