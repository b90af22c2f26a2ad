package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sirlahm/vm-poll/internal/model"
)

type PollRepo struct {
	pool *pgxpool.Pool
}

func NewPollRepo(pool *pgxpool.Pool) *PollRepo {
	return &PollRepo{pool: pool}
}

const pollColumns = `
	id, title, description, image_url, creator_id, poll_type, status,
	is_publish, is_on, allow_anonymous, require_auth, require_voter_name,
	show_other_option, total_votes, unique_voters, total_pollsters,
	view_count, share_code, end_date, created_at, updated_at`

func scanPoll(row pgx.Row) (*model.Poll, error) {
	var p model.Poll
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.CreatorID,
		&p.PollType, &p.Status, &p.IsPublish, &p.IsOn, &p.AllowAnonymous,
		&p.RequireAuth, &p.RequireVoterName, &p.ShowOtherOption,
		&p.TotalVotes, &p.UniqueVoters, &p.TotalPollsters, &p.ViewCount,
		&p.ShareCode, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a poll with its embedded questions and options in one
// transaction.
func (r *PollRepo) Create(ctx context.Context, p *model.Poll) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO polls (
			id, title, description, image_url, creator_id, poll_type, status,
			is_publish, is_on, allow_anonymous, require_auth,
			require_voter_name, show_other_option, total_votes, unique_voters,
			total_pollsters, view_count, share_code, end_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		p.ID, p.Title, p.Description, p.ImageURL, p.CreatorID, p.PollType,
		p.Status, p.IsPublish, p.IsOn, p.AllowAnonymous, p.RequireAuth,
		p.RequireVoterName, p.ShowOtherOption, p.TotalVotes, p.UniqueVoters,
		p.TotalPollsters, p.ViewCount, p.ShareCode, p.EndDate)
	if err != nil {
		return err
	}

	for _, q := range p.Questions {
		_, err = tx.Exec(ctx, `
			INSERT INTO questions (id, poll_id, title, question_type, required, display_order)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			q.ID, p.ID, q.Title, q.Type, q.Required, q.Order)
		if err != nil {
			return err
		}
		for i, opt := range q.Options {
			_, err = tx.Exec(ctx, `
				INSERT INTO options (id, question_id, text, image_url, votes, display_order)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				opt.ID, q.ID, opt.Text, opt.ImageURL, opt.Votes, i)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

// FindByID returns a poll with its questions and options assembled.
func (r *PollRepo) FindByID(ctx context.Context, pollID string) (*model.Poll, error) {
	p, err := scanPoll(r.pool.QueryRow(ctx,
		`SELECT `+pollColumns+` FROM polls WHERE id = $1`, pollID))
	if err != nil {
		return nil, err
	}
	if err := r.loadQuestions(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// FindByShareCode returns a poll by its public share code.
func (r *PollRepo) FindByShareCode(ctx context.Context, shareCode string) (*model.Poll, error) {
	p, err := scanPoll(r.pool.QueryRow(ctx,
		`SELECT `+pollColumns+` FROM polls WHERE share_code = $1`, shareCode))
	if err != nil {
		return nil, err
	}
	if err := r.loadQuestions(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PollRepo) loadQuestions(ctx context.Context, p *model.Poll) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, question_type, required, display_order
		FROM questions
		WHERE poll_id = $1
		ORDER BY display_order`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Title, &q.Type, &q.Required, &q.Order); err != nil {
			return err
		}
		p.Questions = append(p.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range p.Questions {
		optRows, err := r.pool.Query(ctx, `
			SELECT id, text, image_url, votes
			FROM options
			WHERE question_id = $1
			ORDER BY display_order`, p.Questions[i].ID)
		if err != nil {
			return err
		}
		for optRows.Next() {
			var o model.Option
			if err := optRows.Scan(&o.ID, &o.Text, &o.ImageURL, &o.Votes); err != nil {
				optRows.Close()
				return err
			}
			p.Questions[i].Options = append(p.Questions[i].Options, o)
		}
		if err := optRows.Err(); err != nil {
			optRows.Close()
			return err
		}
		optRows.Close()
	}
	return nil
}

// ListByCreator returns a page of the creator's polls, newest first.
// status filters by lifecycle state when non-empty.
func (r *PollRepo) ListByCreator(ctx context.Context, creatorID string, status model.PollStatus, page, limit int) ([]model.Poll, int, error) {
	where := `WHERE creator_id = $1`
	args := []any{creatorID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM polls `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM polls %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		pollColumns, where, limit, (page-1)*limit)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var polls []model.Poll
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return nil, 0, err
		}
		polls = append(polls, *p)
	}
	return polls, total, rows.Err()
}

// IncrementViewCount bumps the poll's view counter. View counts are
// best-effort; callers ignore the error.
func (r *PollRepo) IncrementViewCount(ctx context.Context, pollID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE polls SET view_count = view_count + 1 WHERE id = $1`, pollID)
	return err
}

// UpdateLifecycle sets the lifecycle fields in one statement.
func (r *PollRepo) UpdateLifecycle(ctx context.Context, pollID string, status model.PollStatus, isPublish, isOn bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE polls
		SET status = $1, is_publish = $2, is_on = $3, updated_at = NOW()
		WHERE id = $4`,
		status, isPublish, isOn, pollID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateFields applies the editable poll fields. Lifecycle gating happens in
// the service layer.
func (r *PollRepo) UpdateFields(ctx context.Context, pollID string, req model.UpdatePollRequest) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE polls
		SET title = COALESCE($1, title),
		    description = COALESCE($2, description),
		    image_url = COALESCE($3, image_url),
		    require_voter_name = COALESCE($4, require_voter_name),
		    show_other_option = COALESCE($5, show_other_option),
		    end_date = COALESCE($6, end_date),
		    updated_at = NOW()
		WHERE id = $7`,
		req.Title, req.Description, req.ImageURL, req.RequireVoterName,
		req.ShowOtherOption, req.EndDate, pollID)
	return err
}

// Delete removes the poll; questions, options, pollsters, and votes cascade.
func (r *PollRepo) Delete(ctx context.Context, pollID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM polls WHERE id = $1`, pollID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Reset clears all vote and pollster records for the poll and zeroes every
// counter, preserving the poll configuration. One transaction: a reset
// observed halfway would look like a poll with votes but no vote log.
func (r *PollRepo) Reset(ctx context.Context, pollID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, `DELETE FROM votes WHERE poll_id = $1`, pollID); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM pollsters WHERE poll_id = $1`, pollID); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `
		UPDATE options SET votes = 0
		WHERE question_id IN (SELECT id FROM questions WHERE poll_id = $1)`, pollID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE polls
		SET total_votes = 0, unique_voters = 0, total_pollsters = 0, updated_at = NOW()
		WHERE id = $1`, pollID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

// IsNotFound reports whether err is the no-rows sentinel from pgx.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
