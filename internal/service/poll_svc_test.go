package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Sirlahm/vm-poll/internal/model"
)

func validCreateRequest() model.CreatePollRequest {
	return model.CreatePollRequest{
		Title: "Team lunch",
		Questions: []model.CreateQuestionRequest{
			{Title: "Where to?", Options: []string{"Pizza", "Sushi"}},
		},
	}
}

func TestBuildPoll_Defaults(t *testing.T) {
	poll, err := BuildPoll("creator-1", validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if poll.Status != model.StatusBuilding {
		t.Errorf("status = %s, want building", poll.Status)
	}
	if poll.PollType != model.PollTypeOpen {
		t.Errorf("poll type = %s, want open", poll.PollType)
	}
	if !poll.AllowAnonymous {
		t.Error("anonymous voting should default to allowed")
	}
	if poll.IsPublish || poll.IsOn {
		t.Error("new poll must be unpublished and off")
	}
	if len(poll.ShareCode) != 8 {
		t.Errorf("share code length = %d, want 8", len(poll.ShareCode))
	}

	q := poll.Questions[0]
	if q.Type != model.QuestionSingle {
		t.Errorf("question type = %s, want single", q.Type)
	}
	if !q.Required {
		t.Error("questions should default to required")
	}
	if q.ID == "" || q.Options[0].ID == "" {
		t.Error("questions and options need generated IDs")
	}
}

func TestBuildPoll_Validation(t *testing.T) {
	tooMany := make([]model.CreateQuestionRequest, model.MaxQuestions+1)
	for i := range tooMany {
		tooMany[i] = model.CreateQuestionRequest{Title: "Q", Options: []string{"A", "B"}}
	}
	past := time.Now().Add(-time.Hour)

	cases := []struct {
		name   string
		mutate func(*model.CreatePollRequest)
	}{
		{"empty title", func(r *model.CreatePollRequest) { r.Title = "  " }},
		{"title too long", func(r *model.CreatePollRequest) { r.Title = strings.Repeat("x", 201) }},
		{"bad poll type", func(r *model.CreatePollRequest) { r.PollType = "hybrid" }},
		{"no questions", func(r *model.CreatePollRequest) { r.Questions = nil }},
		{"too many questions", func(r *model.CreatePollRequest) { r.Questions = tooMany }},
		{"end date in past", func(r *model.CreatePollRequest) { r.EndDate = &past }},
		{"question without title", func(r *model.CreatePollRequest) { r.Questions[0].Title = "" }},
		{"bad question type", func(r *model.CreatePollRequest) { r.Questions[0].Type = "ranked" }},
		{"one option", func(r *model.CreatePollRequest) { r.Questions[0].Options = []string{"Only"} }},
		{"empty option text", func(r *model.CreatePollRequest) { r.Questions[0].Options = []string{"A", " "} }},
	}

	for _, tc := range cases {
		req := validCreateRequest()
		tc.mutate(&req)
		if _, err := BuildPoll("creator-1", req); !IsValidation(err) {
			t.Errorf("%s: err = %v, want validation error", tc.name, err)
		}
	}
}

func TestPublishTransition(t *testing.T) {
	poll := &model.Poll{Status: model.StatusBuilding}

	status, err := PublishTransition(poll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != model.StatusScheduled {
		t.Fatalf("status = %s, want scheduled", status)
	}
}

func TestPublishTransition_AlreadyPublished(t *testing.T) {
	poll := &model.Poll{Status: model.StatusScheduled, IsPublish: true}

	if _, err := PublishTransition(poll); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestStatusTransition(t *testing.T) {
	poll := &model.Poll{Status: model.StatusScheduled, IsPublish: true}

	status, err := StatusTransition(poll, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != model.StatusLive {
		t.Fatalf("status = %s, want live", status)
	}

	status, err = StatusTransition(poll, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != model.StatusClosed {
		t.Fatalf("status = %s, want closed", status)
	}
}

func TestStatusTransition_Unpublished(t *testing.T) {
	poll := &model.Poll{Status: model.StatusBuilding}

	if _, err := StatusTransition(poll, true); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestDuplicatePoll(t *testing.T) {
	end := time.Now().Add(24 * time.Hour)
	src := &model.Poll{
		ID:              "src-1",
		Title:           "Original",
		CreatorID:       "creator-1",
		PollType:        model.PollTypeClosed,
		Status:          model.StatusClosed,
		IsPublish:       true,
		IsOn:            true,
		ShowOtherOption: true,
		TotalVotes:      42,
		UniqueVoters:    42,
		TotalPollsters:  10,
		ViewCount:       99,
		ShareCode:       "AAAA1111",
		EndDate:         &end,
		Questions: []model.Question{
			{ID: "q1", Title: "Q", Type: model.QuestionMultiple, Required: true, Options: []model.Option{
				{ID: "o1", Text: "A", Votes: 20},
				{ID: "o2", Text: "B", Votes: 22},
			}},
		},
	}

	cp := DuplicatePoll(src, "creator-2")

	if cp.ID == src.ID {
		t.Error("copy must get a fresh ID")
	}
	if cp.ShareCode == src.ShareCode {
		t.Error("copy must get a fresh share code")
	}
	if cp.Title != "Original (Copy)" {
		t.Errorf("title = %q, want %q", cp.Title, "Original (Copy)")
	}
	if cp.CreatorID != "creator-2" {
		t.Errorf("creator = %q, want the duplicating user", cp.CreatorID)
	}
	if cp.Status != model.StatusBuilding || cp.IsPublish || cp.IsOn {
		t.Error("copy must start unpublished in the building state")
	}
	if cp.TotalVotes != 0 || cp.UniqueVoters != 0 || cp.TotalPollsters != 0 || cp.ViewCount != 0 {
		t.Error("copy counters must start at zero")
	}

	// Configuration carries over; vote counts and identifiers do not.
	if cp.PollType != model.PollTypeClosed || !cp.ShowOtherOption {
		t.Error("copy must keep the source configuration")
	}
	q := cp.Questions[0]
	if q.ID == "q1" || q.Options[0].ID == "o1" {
		t.Error("copied questions and options need fresh IDs")
	}
	if q.Options[0].Votes != 0 || q.Options[1].Votes != 0 {
		t.Error("copied option counters must start at zero")
	}
	if q.Type != model.QuestionMultiple || !q.Required || q.Options[1].Text != "B" {
		t.Error("copied question must keep its configuration")
	}

	// Source untouched.
	if src.TotalVotes != 42 || src.Questions[0].Options[0].Votes != 20 {
		t.Error("duplicating must not mutate the source poll")
	}
}
