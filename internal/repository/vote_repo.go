package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sirlahm/vm-poll/internal/model"
)

type VoteRepo struct {
	pool *pgxpool.Pool
}

func NewVoteRepo(pool *pgxpool.Pool) *VoteRepo {
	return &VoteRepo{pool: pool}
}

// HasVoteByVoter reports whether the authenticated voter already voted on
// this poll.
func (r *VoteRepo) HasVoteByVoter(ctx context.Context, pollID, voterID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM votes WHERE poll_id = $1 AND voter_id = $2)`,
		pollID, voterID).Scan(&exists)
	return exists, err
}

// HasVoteByIP reports whether an anonymous vote from this IP hash already
// exists on this poll.
func (r *VoteRepo) HasVoteByIP(ctx context.Context, pollID, ipHash string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM votes WHERE poll_id = $1 AND voter_ip_hash = $2 AND voter_id IS NULL)`,
		pollID, ipHash).Scan(&exists)
	return exists, err
}

// Insert persists a validated vote and applies all tally updates as one
// transaction: vote row, selection rows, per-option counters, poll counters,
// and the pollster flag for token votes. Counter updates are SQL-side
// increments so concurrent votes never lose updates. A pg_notify wakes the
// reconcile worker for drift repair.
func (r *VoteRepo) Insert(ctx context.Context, v *model.Vote, ident model.VoterIdentity) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var voterID, pollsterID, ipHash *string
	switch ident.Kind {
	case model.IdentityVoter:
		voterID = &ident.VoterID
	case model.IdentityPollster:
		pollsterID = &ident.PollsterID
	case model.IdentityIP:
		ipHash = &ident.IPHash
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO votes (id, poll_id, voter_id, pollster_id, voter_ip_hash, voter_name, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		v.ID, v.PollID, voterID, pollsterID, ipHash, v.VoterName, v.UserAgent)
	if err != nil {
		return err
	}

	for _, resp := range v.Responses {
		for _, sel := range resp.Selections {
			_, err = tx.Exec(ctx, `
				INSERT INTO vote_selections (vote_id, question_id, option_id, option_text, is_custom)
				VALUES ($1, $2, $3, $4, $5)`,
				v.ID, resp.QuestionID, sel.OptionID, sel.OptionText, sel.IsCustom)
			if err != nil {
				return err
			}
			if !sel.IsCustom && sel.OptionID != nil {
				_, err = tx.Exec(ctx, `
					UPDATE options SET votes = votes + 1 WHERE id = $1`, *sel.OptionID)
				if err != nil {
					return err
				}
			}
		}
	}

	// One submission is one voter event regardless of how many options were
	// selected across questions.
	_, err = tx.Exec(ctx, `
		UPDATE polls
		SET total_votes = total_votes + 1, unique_voters = unique_voters + 1, updated_at = NOW()
		WHERE id = $1`, v.PollID)
	if err != nil {
		return err
	}

	if ident.Kind == model.IdentityPollster {
		_, err = tx.Exec(ctx, `
			UPDATE pollsters SET has_voted = TRUE, voted_at = NOW() WHERE id = $1`,
			ident.PollsterID)
		if err != nil {
			return err
		}
	}

	if _, err = tx.Exec(ctx, `SELECT pg_notify('vote_cast', $1)`, v.PollID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// CustomAnswerCounts groups the poll's custom free-text answers for one
// question by distinct text, most voted first.
func (r *VoteRepo) CustomAnswerCounts(ctx context.Context, pollID, questionID string) ([]model.CustomAnswerCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.option_text, COUNT(*) AS votes
		FROM vote_selections s
		JOIN votes v ON v.id = s.vote_id
		WHERE v.poll_id = $1 AND s.question_id = $2 AND s.is_custom
		GROUP BY s.option_text
		ORDER BY votes DESC, s.option_text`,
		pollID, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.CustomAnswerCount
	for rows.Next() {
		var c model.CustomAnswerCount
		if err := rows.Scan(&c.Text, &c.Votes); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
