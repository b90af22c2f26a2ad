package service

import (
	"context"

	"github.com/Sirlahm/vm-poll/internal/model"
)

// Store interfaces consumed by the services. The pgx repositories satisfy
// them; tests substitute in-memory fakes.

type PollStore interface {
	FindByID(ctx context.Context, pollID string) (*model.Poll, error)
}

type VoteStore interface {
	HasVoteByVoter(ctx context.Context, pollID, voterID string) (bool, error)
	HasVoteByIP(ctx context.Context, pollID, ipHash string) (bool, error)
	Insert(ctx context.Context, v *model.Vote, ident model.VoterIdentity) error
	CustomAnswerCounts(ctx context.Context, pollID, questionID string) ([]model.CustomAnswerCount, error)
}

type PollsterStore interface {
	FindByToken(ctx context.Context, voteToken string) (*model.Pollster, error)
}

// LivePublisher fans a freshly computed result view out to subscribers of
// the poll's update channel. Publishing to a poll nobody watches is a no-op.
type LivePublisher interface {
	PublishResults(pollID string, view *model.ResultView)
}
