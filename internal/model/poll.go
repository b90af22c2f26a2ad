package model

import "time"

// PollType controls who may vote: open polls accept anyone (deduplicated by
// identity or IP), closed polls accept only invited pollsters with a token.
type PollType string

const (
	PollTypeOpen   PollType = "open"
	PollTypeClosed PollType = "closed"
)

// PollStatus is the poll lifecycle state.
type PollStatus string

const (
	StatusBuilding  PollStatus = "building"
	StatusScheduled PollStatus = "scheduled"
	StatusLive      PollStatus = "live"
	StatusClosed    PollStatus = "closed"
)

// QuestionType controls how many options a respondent may select.
type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
)

// Structural limits enforced at creation time.
const (
	MinQuestions = 1
	MaxQuestions = 20
	MinOptions   = 2
	MaxOptions   = 10
)

// Poll is the authoritative poll configuration plus denormalized vote counters.
type Poll struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	ImageURL         *string    `json:"imageUrl,omitempty"`
	CreatorID        string     `json:"creatorId"`
	PollType         PollType   `json:"pollType"`
	Status           PollStatus `json:"status"`
	Questions        []Question `json:"questions"`
	IsPublish        bool       `json:"isPublish"`
	IsOn             bool       `json:"isOn"`
	AllowAnonymous   bool       `json:"allowAnonymous"`
	RequireAuth      bool       `json:"requireAuth"`
	RequireVoterName bool       `json:"requireVoterName"`
	ShowOtherOption  bool       `json:"showOtherOption"`
	TotalVotes       int        `json:"totalVotes"`
	UniqueVoters     int        `json:"uniqueVoters"`
	TotalPollsters   int        `json:"totalPollsters"`
	ViewCount        int        `json:"viewCount"`
	ShareCode        string     `json:"shareCode"`
	EndDate          *time.Time `json:"endDate,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Question belongs to exactly one poll; options are embedded with it.
type Question struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Type     QuestionType `json:"type"`
	Required bool         `json:"required"`
	Options  []Option     `json:"options"`
	Order    int          `json:"order"`
}

// Option is a fixed answer choice with its denormalized vote counter.
type Option struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Votes    int     `json:"votes"`
}

// IsExpired reports whether the poll's end date has passed. Polls without an
// end date never expire.
func (p *Poll) IsExpired() bool {
	return p.EndDate != nil && time.Now().After(*p.EndDate)
}

// Question returns the embedded question with the given ID, or nil.
func (p *Poll) Question(questionID string) *Question {
	for i := range p.Questions {
		if p.Questions[i].ID == questionID {
			return &p.Questions[i]
		}
	}
	return nil
}

// Option returns the embedded option with the given ID, or nil.
func (q *Question) Option(optionID string) *Option {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i]
		}
	}
	return nil
}

// CreatePollRequest is the API request body for creating a poll.
type CreatePollRequest struct {
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	ImageURL         *string                 `json:"imageUrl"`
	PollType         PollType                `json:"pollType"`
	Questions        []CreateQuestionRequest `json:"questions"`
	AllowAnonymous   *bool                   `json:"allowAnonymous"`
	RequireAuth      bool                    `json:"requireAuth"`
	RequireVoterName bool                    `json:"requireVoterName"`
	ShowOtherOption  bool                    `json:"showOtherOption"`
	EndDate          *time.Time              `json:"endDate"`
}

// CreateQuestionRequest is one question in a poll creation request.
type CreateQuestionRequest struct {
	Title    string   `json:"title"`
	Type     QuestionType `json:"type"`
	Required *bool    `json:"required"`
	Options  []string `json:"options"`
}

// UpdatePollRequest carries the editable poll fields. Only polls still in
// the building state accept updates.
type UpdatePollRequest struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	ImageURL         *string    `json:"imageUrl"`
	RequireVoterName *bool      `json:"requireVoterName"`
	ShowOtherOption  *bool      `json:"showOtherOption"`
	EndDate          *time.Time `json:"endDate"`
}

// SetStatusRequest toggles a published poll between live and closed.
type SetStatusRequest struct {
	Live bool `json:"live"`
}

// PollListResponse is a paged list of the caller's polls.
type PollListResponse struct {
	Polls      []Poll `json:"polls"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
}
