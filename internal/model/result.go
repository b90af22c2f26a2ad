package model

import "time"

// ResultView is the derived, read-only aggregation of a poll's vote counts.
// It is recomputed from option counters and, when the poll enables custom
// answers, from a scan of the vote log. Never stored.
type ResultView struct {
	PollID         string           `json:"pollId"`
	Title          string           `json:"title"`
	Description    string           `json:"description,omitempty"`
	ImageURL       *string          `json:"imageUrl,omitempty"`
	PollType       PollType         `json:"pollType"`
	TotalVotes     int              `json:"totalVotes"`
	UniqueVoters   int              `json:"uniqueVoters"`
	TotalPollsters int              `json:"totalPollsters"`
	Questions      []QuestionResult `json:"questions"`
	IsExpired      bool             `json:"isExpired"`
	EndDate        *time.Time       `json:"endDate,omitempty"`
}

// QuestionResult is the per-question slice of a result view.
type QuestionResult struct {
	QuestionID string         `json:"questionId"`
	Title      string         `json:"title"`
	Type       QuestionType   `json:"type"`
	TotalVotes int            `json:"totalVotes"`
	Options    []OptionResult `json:"options"`
}

// OptionResult is one option row in a question result. Custom free-text
// entries are synthetic: IsCustom is true and OptionID is nil.
type OptionResult struct {
	OptionID   *string `json:"optionId"`
	Text       string  `json:"text"`
	ImageURL   *string `json:"imageUrl,omitempty"`
	Votes      int     `json:"votes"`
	Percentage int     `json:"percentage"`
	IsCustom   bool    `json:"isCustom"`
}

// CustomAnswerCount is one distinct free-text answer with its occurrence
// count, aggregated from the vote log for a single question.
type CustomAnswerCount struct {
	Text  string
	Votes int
}

// StatsResponse is the API response for global platform statistics.
type StatsResponse struct {
	TotalPolls     int `json:"totalPolls"`
	LivePolls      int `json:"livePolls"`
	TotalVotes     int `json:"totalVotes"`
	TotalPollsters int `json:"totalPollsters"`
	Votes24h       int `json:"votes24h"`
}
