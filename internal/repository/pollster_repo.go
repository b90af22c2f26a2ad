package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sirlahm/vm-poll/internal/model"
)

// ErrDuplicateInvite is returned when a pollster already exists for the
// same (poll, email) pair.
var ErrDuplicateInvite = errors.New("pollster already invited")

type PollsterRepo struct {
	pool *pgxpool.Pool
}

func NewPollsterRepo(pool *pgxpool.Pool) *PollsterRepo {
	return &PollsterRepo{pool: pool}
}

// Create inserts a pollster and bumps the poll's invitee counter in one
// transaction.
func (r *PollsterRepo) Create(ctx context.Context, p *model.Pollster) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO pollsters (id, poll_id, email, phone, name, vote_token)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.PollID, p.Email, p.Phone, p.Name, p.VoteToken)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateInvite
		}
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE polls SET total_pollsters = total_pollsters + 1, updated_at = NOW()
		WHERE id = $1`, p.PollID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// FindByToken resolves a vote token to its pollster.
func (r *PollsterRepo) FindByToken(ctx context.Context, voteToken string) (*model.Pollster, error) {
	var p model.Pollster
	err := r.pool.QueryRow(ctx, `
		SELECT id, poll_id, email, phone, name, has_voted, vote_token, invited_at, voted_at
		FROM pollsters
		WHERE vote_token = $1`, voteToken).Scan(
		&p.ID, &p.PollID, &p.Email, &p.Phone, &p.Name, &p.HasVoted,
		&p.VoteToken, &p.InvitedAt, &p.VotedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByPoll returns all pollsters invited to the poll, newest first.
func (r *PollsterRepo) ListByPoll(ctx context.Context, pollID string) ([]model.Pollster, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, poll_id, email, phone, name, has_voted, vote_token, invited_at, voted_at
		FROM pollsters
		WHERE poll_id = $1
		ORDER BY invited_at DESC`, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pollsters []model.Pollster
	for rows.Next() {
		var p model.Pollster
		err := rows.Scan(&p.ID, &p.PollID, &p.Email, &p.Phone, &p.Name,
			&p.HasVoted, &p.VoteToken, &p.InvitedAt, &p.VotedAt)
		if err != nil {
			return nil, err
		}
		pollsters = append(pollsters, p)
	}
	return pollsters, rows.Err()
}
