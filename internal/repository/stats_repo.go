package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sirlahm/vm-poll/internal/model"
)

// StatsRepo serves the aggregate platform counters shown on the landing
// dashboard.
type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

func (r *StatsRepo) Stats(ctx context.Context) (*model.StatsResponse, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM polls),
			(SELECT COUNT(*) FROM polls WHERE status = 'live'),
			(SELECT COUNT(*) FROM votes),
			(SELECT COUNT(*) FROM pollsters),
			(SELECT COUNT(*) FROM votes WHERE created_at > NOW() - INTERVAL '24 hours')`

	var stats model.StatsResponse
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalPolls,
		&stats.LivePolls,
		&stats.TotalVotes,
		&stats.TotalPollsters,
		&stats.Votes24h,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
