package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pedagolab/parcours-backend/internal/config"
	"github.com/pedagolab/parcours-backend/internal/model"
	"github.com/pedagolab/parcours-backend/internal/repository"
)

const (
	ResultBatchSize    = 50
	ResultBatchTimeout = 2 * time.Second
	ResultPollTimeout  = 1 * time.Second
)

// ResultWorker consumes the result persistence queue and marks attempts
// completed in PostgreSQL, batched for write throughput.
type ResultWorker struct {
	pool     *pgxpool.Pool
	attempts *repository.AttemptRepository
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewResultWorker creates a new ResultWorker.
func NewResultWorker(pool *pgxpool.Pool, attempts *repository.AttemptRepository, rdb *redis.Client, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		pool:     pool,
		attempts: attempts,
		rdb:      rdb,
		log:      log.With().Str("component", "result_worker").Logger(),
	}
}

// resultJob mirrors the payload enqueued on finalization. Every field of
// the session result rides along so the durable row can reproduce the
// learner's tally and time spent.
type resultJob struct {
	AttemptID         string `json:"attempt_id"`
	Score             int    `json:"score"`
	Correct           int    `json:"correct"`
	Total             int    `json:"total"`
	ElapsedSeconds    int    `json:"elapsed_seconds"`
	Passed            bool   `json:"passed"`
	ValidationsEarned int    `json:"validations_earned"`
}

// Start begins the worker loop with batching. Call in a goroutine.
func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	batch := make([]*resultJob, 0, ResultBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ResultBatchSize || time.Since(lastFlush) >= ResultBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ResultPollTimeout, config.WorkerKey.PersistResultsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var job resultJob
			if err := json.Unmarshal([]byte(item[1]), &job); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &job)
		}
	}
}

func (w *ResultWorker) flushSafe(ctx context.Context, batch []*resultJob) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkComplete(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("Bulk result update failed, using fallback")

		for _, job := range batch {
			if err := w.persistSingle(ctx, job); err != nil {
				w.log.Error().Err(err).Str("attempt_id", job.AttemptID).Msg("Single persist failed, requeueing")
				raw, _ := json.Marshal(job)
				w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw)
			}
		}
		return
	}

	// Results are durable; the autosave buffers served their purpose.
	w.bulkClearAnswerBuffers(ctx, batch)
}

// bulkComplete updates the whole batch in one statement via UNNEST.
func (w *ResultWorker) bulkComplete(ctx context.Context, batch []*resultJob) error {
	n := len(batch)

	attemptIDs := make([]uuid.UUID, 0, n)
	scores := make([]int, 0, n)
	corrects := make([]int, 0, n)
	totals := make([]int, 0, n)
	elapsed := make([]int, 0, n)
	passed := make([]bool, 0, n)
	validations := make([]int, 0, n)
	finishedAts := make([]time.Time, n)

	now := time.Now()
	for i, job := range batch {
		id, err := uuid.Parse(job.AttemptID)
		if err != nil {
			return err
		}
		attemptIDs = append(attemptIDs, id)
		scores = append(scores, job.Score)
		corrects = append(corrects, job.Correct)
		totals = append(totals, job.Total)
		elapsed = append(elapsed, job.ElapsedSeconds)
		passed = append(passed, job.Passed)
		validations = append(validations, job.ValidationsEarned)
		finishedAts[i] = now
	}

	query := `
		UPDATE attempts AS a
		SET status = 'COMPLETED',
		    final_score = t.score,
		    correct_count = t.correct,
		    total_count = t.total,
		    elapsed_seconds = t.elapsed,
		    passed = t.passed,
		    validations_earned = t.validations,
		    finished_at = t.finished_at
		FROM (
			SELECT
				u.attempt_id,
				u.score,
				u.correct,
				u.total,
				u.elapsed,
				u.passed,
				u.validations,
				u.finished_at
			FROM UNNEST(
				$1::uuid[],
				$2::int[],
				$3::int[],
				$4::int[],
				$5::int[],
				$6::bool[],
				$7::int[],
				$8::timestamptz[]
			) AS u (attempt_id, score, correct, total, elapsed, passed, validations, finished_at)
		) AS t
		WHERE a.id = t.attempt_id
		  AND a.status = 'IN_PROGRESS'
	`

	_, err := w.pool.Exec(ctx, query, attemptIDs, scores, corrects, totals, elapsed, passed, validations, finishedAts)
	return err
}

func (w *ResultWorker) bulkClearAnswerBuffers(ctx context.Context, batch []*resultJob) {
	pipe := w.rdb.Pipeline()

	for _, job := range batch {
		pipe.Del(ctx, config.CacheKey.AttemptAnswersKey(job.AttemptID))
	}

	_, _ = pipe.Exec(ctx)
}

// persistSingle is the fallback when the bulk statement fails.
func (w *ResultWorker) persistSingle(ctx context.Context, job *resultJob) error {
	id, err := uuid.Parse(job.AttemptID)
	if err != nil {
		return err
	}

	return w.attempts.Complete(ctx, id, model.AttemptResult{
		Score:             job.Score,
		Correct:           job.Correct,
		Total:             job.Total,
		ElapsedSeconds:    job.ElapsedSeconds,
		Passed:            job.Passed,
		ValidationsEarned: job.ValidationsEarned,
	})
}
