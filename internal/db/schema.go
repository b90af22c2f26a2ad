package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateSchema creates all tables needed by the service. Everything is
// IF NOT EXISTS, so it is safe to run on every startup.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS polls (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    image_url TEXT,
    creator_id TEXT NOT NULL,
    poll_type TEXT NOT NULL DEFAULT 'open' CHECK (poll_type IN ('open', 'closed')),
    status TEXT NOT NULL DEFAULT 'building' CHECK (status IN ('building', 'scheduled', 'live', 'closed')),
    is_publish BOOLEAN NOT NULL DEFAULT FALSE,
    is_on BOOLEAN NOT NULL DEFAULT FALSE,
    allow_anonymous BOOLEAN NOT NULL DEFAULT TRUE,
    require_auth BOOLEAN NOT NULL DEFAULT FALSE,
    require_voter_name BOOLEAN NOT NULL DEFAULT FALSE,
    show_other_option BOOLEAN NOT NULL DEFAULT FALSE,
    total_votes INTEGER NOT NULL DEFAULT 0,
    unique_voters INTEGER NOT NULL DEFAULT 0,
    total_pollsters INTEGER NOT NULL DEFAULT 0,
    view_count INTEGER NOT NULL DEFAULT 0,
    share_code TEXT NOT NULL UNIQUE,
    end_date TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_polls_creator ON polls(creator_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_polls_share_code ON polls(share_code);
CREATE INDEX IF NOT EXISTS idx_polls_status ON polls(status);

CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    question_type TEXT NOT NULL DEFAULT 'single' CHECK (question_type IN ('single', 'multiple')),
    required BOOLEAN NOT NULL DEFAULT TRUE,
    display_order INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_questions_poll ON questions(poll_id, display_order);

CREATE TABLE IF NOT EXISTS options (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    image_url TEXT,
    votes INTEGER NOT NULL DEFAULT 0,
    display_order INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_options_question ON options(question_id, display_order);

CREATE TABLE IF NOT EXISTS pollsters (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    email TEXT NOT NULL,
    phone TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT '',
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    vote_token TEXT NOT NULL UNIQUE,
    invited_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    voted_at TIMESTAMPTZ,
    UNIQUE (poll_id, email)
);

CREATE INDEX IF NOT EXISTS idx_pollsters_token ON pollsters(vote_token);

CREATE TABLE IF NOT EXISTS votes (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    voter_id TEXT,
    pollster_id TEXT REFERENCES pollsters(id) ON DELETE CASCADE,
    voter_ip_hash TEXT,
    voter_name TEXT NOT NULL DEFAULT '',
    user_agent TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_votes_poll_voter ON votes(poll_id, voter_id);
CREATE INDEX IF NOT EXISTS idx_votes_poll_ip ON votes(poll_id, voter_ip_hash);
CREATE INDEX IF NOT EXISTS idx_votes_poll_created ON votes(poll_id, created_at DESC);

CREATE TABLE IF NOT EXISTS vote_selections (
    id BIGSERIAL PRIMARY KEY,
    vote_id TEXT NOT NULL REFERENCES votes(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL,
    option_id TEXT,
    option_text TEXT NOT NULL,
    is_custom BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_selections_vote ON vote_selections(vote_id);
CREATE INDEX IF NOT EXISTS idx_selections_question ON vote_selections(question_id) WHERE is_custom;
`
