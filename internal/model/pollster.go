package model

import "time"

// Pollster is an invited participant of a closed poll. At most one pollster
// exists per (poll, email); the vote token is generated once at creation.
type Pollster struct {
	ID        string     `json:"id"`
	PollID    string     `json:"pollId"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Name      string     `json:"name,omitempty"`
	HasVoted  bool       `json:"hasVoted"`
	VoteToken string     `json:"-"`
	InvitedAt time.Time  `json:"invitedAt"`
	VotedAt   *time.Time `json:"votedAt,omitempty"`
}

// PollsterInvite is the creator-facing response when an invite is created.
// It is the only response that carries the vote token; listings keep it
// masked.
type PollsterInvite struct {
	Pollster
	VoteToken string `json:"voteToken"`
}

// NewPollsterInvite wraps a freshly created pollster with its vote token.
func NewPollsterInvite(p *Pollster) PollsterInvite {
	return PollsterInvite{Pollster: *p, VoteToken: p.VoteToken}
}

// CreatePollsterRequest is the API request body for inviting a single pollster.
type CreatePollsterRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

// ImportResult summarizes a CSV invitee import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
