package model

import "time"

// IdentityKind tags how a vote submission is identified. Exactly one
// identification path applies per submission, resolved before any write.
type IdentityKind int

const (
	IdentityVoter    IdentityKind = iota + 1 // authenticated user ID
	IdentityIP                               // anonymous, deduplicated by IP hash
	IdentityPollster                         // closed-poll vote token
)

// VoterIdentity is the resolved identification for one submission.
type VoterIdentity struct {
	Kind       IdentityKind
	VoterID    string // set when Kind == IdentityVoter
	IPHash     string // set when Kind == IdentityIP
	PollsterID string // set when Kind == IdentityPollster
}

// Vote is an immutable record of one submission. Corrections are modeled as
// poll resets, never as vote updates.
type Vote struct {
	ID         string     `json:"id"`
	PollID     string     `json:"pollId"`
	VoterID    *string    `json:"voterId,omitempty"`
	PollsterID *string    `json:"pollsterId,omitempty"`
	VoterName  string     `json:"voterName,omitempty"`
	Responses  []Response `json:"responses"`
	UserAgent  string     `json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Response is the answer to one question within a vote.
type Response struct {
	QuestionID string      `json:"questionId"`
	Selections []Selection `json:"selectedOptions"`
}

// Selection is one selected option or one custom free-text answer.
type Selection struct {
	OptionID   *string `json:"optionId,omitempty"`
	OptionText string  `json:"optionText"`
	IsCustom   bool    `json:"isCustom"`
}

// VoteRequest is the API request body for submitting a vote.
type VoteRequest struct {
	VoteToken string            `json:"voteToken,omitempty"`
	VoterName string            `json:"voterName,omitempty"`
	Responses []ResponseRequest `json:"responses"`
	UserAgent string            `json:"userAgent,omitempty"`
}

// ResponseRequest is one raw per-question answer in a vote request. Each
// selection carries either an option ID or free text, never both.
type ResponseRequest struct {
	QuestionID string             `json:"questionId"`
	Selections []SelectionRequest `json:"selectedOptions"`
}

// SelectionRequest is one raw selection in a vote request.
type SelectionRequest struct {
	OptionID   string `json:"optionId,omitempty"`
	CustomText string `json:"customText,omitempty"`
}

// VoteResponse is the API response after a successful vote.
type VoteResponse struct {
	Success  bool        `json:"success"`
	VoteID   string      `json:"voteId"`
	PollType PollType    `json:"pollType"`
	Results  *ResultView `json:"results,omitempty"`
}
