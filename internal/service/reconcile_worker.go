package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// ReconcileWorker listens for PostgreSQL NOTIFY on the 'vote_cast' channel
// and batches counter reconciliation. The vote log is the source of truth:
// option counters and poll totals are recomputed from it, repairing any
// drift left by partially applied writes. The pass is idempotent, so
// reconciling a poll that is already consistent is a no-op.
type ReconcileWorker struct {
	pool    *pgxpool.Pool
	cache   *CacheService
	batchMs time.Duration

	// Observe, when set, receives the duration of every reconcile pass.
	// Wired to a Prometheus histogram at startup.
	Observe func(time.Duration)

	mu      sync.Mutex
	pending map[string]struct{} // poll IDs waiting for reconciliation
}

// NewReconcileWorker creates a counter reconciliation worker.
func NewReconcileWorker(pool *pgxpool.Pool, cache *CacheService) *ReconcileWorker {
	return &ReconcileWorker{
		pool:    pool,
		cache:   cache,
		batchMs: 5 * time.Second,
		pending: make(map[string]struct{}),
	}
}

// Start begins listening for vote_cast notifications and processing batches.
func (w *ReconcileWorker) Start(ctx context.Context) {
	log.Info().Dur("batch_window", w.batchMs).Msg("reconcile-worker: starting")

	for {
		if err := w.listenLoop(ctx); err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("reconcile-worker: stopping (context cancelled)")
				return
			}
			log.Error().Err(err).Msg("reconcile-worker: listen error, reconnecting in 5s")
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				log.Info().Msg("reconcile-worker: stopping (context cancelled)")
				return
			}
		}
	}
}

// listenLoop acquires a dedicated connection, LISTENs on vote_cast, and
// collects notifications into batched windows.
func (w *ReconcileWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err = conn.Exec(ctx, "LISTEN vote_cast"); err != nil {
		return err
	}
	log.Info().Msg("reconcile-worker: listening on vote_cast")

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		pollID := notification.Payload
		if pollID == "" {
			continue
		}

		w.mu.Lock()
		w.pending[pollID] = struct{}{}
		w.mu.Unlock()
	}
}

// flushLoop periodically drains the pending set and reconciles each poll.
func (w *ReconcileWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.batchMs)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flush(ctx)
		case <-ctx.Done():
			// Final flush before exit
			w.flush(context.Background())
			return
		}
	}
}

func (w *ReconcileWorker) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}

	batch := w.pending
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	reconciled := 0
	for pollID := range batch {
		start := time.Now()
		err := w.Reconcile(ctx, pollID)
		if w.Observe != nil {
			w.Observe(time.Since(start))
		}
		if err != nil {
			log.Error().Err(err).Str("poll_id", pollID).Msg("reconcile-worker: reconcile error")
			continue
		}

		if w.cache != nil {
			if err := w.cache.InvalidateResults(ctx, pollID); err != nil {
				log.Warn().Err(err).Str("poll_id", pollID).Msg("reconcile-worker: cache invalidate error")
			}
		}

		reconciled++
	}

	if reconciled > 0 {
		log.Info().
			Int("reconciled", reconciled).
			Int("notified", len(batch)).
			Msg("reconcile-worker: batch complete")
	}
}

// Reconcile recomputes one poll's counters from the vote log in a single
// transaction.
func (w *ReconcileWorker) Reconcile(ctx context.Context, pollID string) error {
	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Per-option counters from non-custom selections. The update target is
	// only visible in SET and WHERE, so the recount is a correlated subquery
	// rather than a join.
	_, err = tx.Exec(ctx, `
		UPDATE options o
		SET votes = (
			SELECT COUNT(*)
			FROM vote_selections s
			JOIN votes v ON v.id = s.vote_id
			WHERE s.option_id = o.id AND NOT s.is_custom AND v.poll_id = $1
		)
		WHERE o.question_id IN (SELECT id FROM questions WHERE poll_id = $1)`, pollID)
	if err != nil {
		return err
	}

	// Poll totals: one submission is one voter event.
	_, err = tx.Exec(ctx, `
		UPDATE polls p
		SET total_votes = counts.total,
		    unique_voters = counts.total,
		    updated_at = NOW()
		FROM (SELECT COUNT(*) AS total FROM votes WHERE poll_id = $1) counts
		WHERE p.id = $1`, pollID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
