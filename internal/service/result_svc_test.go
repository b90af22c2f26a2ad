package service

import (
	"testing"
	"time"

	"github.com/Sirlahm/vm-poll/internal/model"
)

func resultPoll(votes ...int) *model.Poll {
	poll := &model.Poll{
		ID:       "poll-1",
		Title:    "Lunch",
		PollType: model.PollTypeOpen,
		Questions: []model.Question{
			{ID: "q1", Title: "Pick", Type: model.QuestionSingle},
		},
	}
	for i, v := range votes {
		poll.Questions[0].Options = append(poll.Questions[0].Options, model.Option{
			ID:    "o" + string(rune('1'+i)),
			Text:  "Option",
			Votes: v,
		})
	}
	return poll
}

func TestBuildResultView_Percentages(t *testing.T) {
	view := BuildResultView(resultPoll(3, 1), nil)

	q := view.Questions[0]
	if q.TotalVotes != 4 {
		t.Fatalf("question total = %d, want 4", q.TotalVotes)
	}
	if q.Options[0].Percentage != 75 {
		t.Errorf("option 1 percentage = %d, want 75", q.Options[0].Percentage)
	}
	if q.Options[1].Percentage != 25 {
		t.Errorf("option 2 percentage = %d, want 25", q.Options[1].Percentage)
	}
}

func TestBuildResultView_RoundsToNearest(t *testing.T) {
	// 1/3, 1/3, 1/3 → 33% each, not 33.33 truncated oddly.
	view := BuildResultView(resultPoll(1, 1, 1), nil)

	for i, opt := range view.Questions[0].Options {
		if opt.Percentage != 33 {
			t.Errorf("option %d percentage = %d, want 33", i+1, opt.Percentage)
		}
	}

	// 2/3 rounds up to 67.
	view = BuildResultView(resultPoll(2, 1), nil)
	if got := view.Questions[0].Options[0].Percentage; got != 67 {
		t.Errorf("percentage = %d, want 67", got)
	}
}

func TestBuildResultView_ZeroVotes(t *testing.T) {
	view := BuildResultView(resultPoll(0, 0), nil)

	q := view.Questions[0]
	if q.TotalVotes != 0 {
		t.Fatalf("question total = %d, want 0", q.TotalVotes)
	}
	for i, opt := range q.Options {
		if opt.Percentage != 0 {
			t.Errorf("option %d percentage = %d, want 0 for empty question", i+1, opt.Percentage)
		}
	}
}

func TestBuildResultView_CustomAnswersAppended(t *testing.T) {
	poll := resultPoll(2, 2)
	poll.ShowOtherOption = true

	custom := map[string][]model.CustomAnswerCount{
		"q1": {
			{Text: "Sushi", Votes: 3},
			{Text: "Tacos", Votes: 1},
		},
	}
	view := BuildResultView(poll, custom)

	q := view.Questions[0]
	if len(q.Options) != 4 {
		t.Fatalf("option rows = %d, want 2 fixed + 2 custom", len(q.Options))
	}

	sushi := q.Options[2]
	if !sushi.IsCustom || sushi.OptionID != nil {
		t.Fatalf("custom row = %+v, want IsCustom with nil option ID", sushi)
	}
	if sushi.Text != "Sushi" || sushi.Votes != 3 {
		t.Fatalf("custom row = %+v, want Sushi with 3 votes", sushi)
	}

	// Fixed option rows keep their identity.
	if q.Options[0].OptionID == nil || q.Options[0].IsCustom {
		t.Fatalf("fixed row = %+v, want option ID and IsCustom=false", q.Options[0])
	}
}

func TestBuildResultView_PollCounters(t *testing.T) {
	poll := resultPoll(1, 0)
	poll.TotalVotes = 7
	poll.UniqueVoters = 7
	poll.TotalPollsters = 12

	view := BuildResultView(poll, nil)

	if view.TotalVotes != 7 || view.UniqueVoters != 7 || view.TotalPollsters != 12 {
		t.Fatalf("counters = %d/%d/%d, want 7/7/12",
			view.TotalVotes, view.UniqueVoters, view.TotalPollsters)
	}
}

func TestBuildResultView_ExpiredFlag(t *testing.T) {
	poll := resultPoll(1, 1)
	past := time.Now().Add(-time.Minute)
	poll.EndDate = &past

	view := BuildResultView(poll, nil)
	if !view.IsExpired {
		t.Fatal("expected IsExpired for a poll past its end date")
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		votes, total, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 200, 1},
		{1, 201, 0},
	}
	for _, tc := range cases {
		if got := percentage(tc.votes, tc.total); got != tc.want {
			t.Errorf("percentage(%d, %d) = %d, want %d", tc.votes, tc.total, got, tc.want)
		}
	}
}
