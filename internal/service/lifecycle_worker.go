package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// LifecycleWorker is a periodic background job that closes live polls whose
// end date has passed. Votes are already rejected on expired polls at
// validation time; the sweep keeps the stored status in line with reality.
type LifecycleWorker struct {
	pool     *pgxpool.Pool
	interval time.Duration
	stopCh   chan struct{}
}

// NewLifecycleWorker creates a worker that ticks every interval.
func NewLifecycleWorker(pool *pgxpool.Pool, interval time.Duration) *LifecycleWorker {
	return &LifecycleWorker{
		pool:     pool,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic expiry sweep. It runs one tick immediately,
// then every interval.
func (w *LifecycleWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("lifecycle-worker: starting")

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Info().Msg("lifecycle-worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Info().Msg("lifecycle-worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *LifecycleWorker) Stop() {
	close(w.stopCh)
}

func (w *LifecycleWorker) tick(ctx context.Context) {
	start := time.Now()

	tag, err := w.pool.Exec(ctx, `
		UPDATE polls
		SET status = 'closed', is_on = FALSE, updated_at = NOW()
		WHERE status = 'live' AND end_date IS NOT NULL AND end_date < NOW()`)
	if err != nil {
		log.Error().Err(err).Msg("lifecycle-worker: sweep error")
		return
	}

	if closed := tag.RowsAffected(); closed > 0 {
		log.Info().
			Int64("closed", closed).
			Dur("elapsed", time.Since(start)).
			Msg("lifecycle-worker: closed expired polls")
	}
}
