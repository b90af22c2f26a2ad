package service

import (
	"testing"

	"github.com/Sirlahm/vm-poll/internal/model"
)

// recountFromLog is a pure-logic mirror of the Reconcile SQL pass: option
// counters come from non-custom selections in the vote log, poll totals
// count one per submission. Keeps the repair semantics testable without a
// database.
func recountFromLog(poll *model.Poll, votes []model.Vote) {
	counts := make(map[string]int)
	for _, v := range votes {
		for _, r := range v.Responses {
			for _, sel := range r.Selections {
				if !sel.IsCustom && sel.OptionID != nil {
					counts[*sel.OptionID]++
				}
			}
		}
	}

	for qi := range poll.Questions {
		for oi := range poll.Questions[qi].Options {
			opt := &poll.Questions[qi].Options[oi]
			opt.Votes = counts[opt.ID]
		}
	}
	poll.TotalVotes = len(votes)
	poll.UniqueVoters = len(votes)
}

func optID(id string) *string { return &id }

func reconcileVotes() []model.Vote {
	return []model.Vote{
		{ID: "v1", PollID: "poll-1", Responses: []model.Response{
			{QuestionID: "q1", Selections: []model.Selection{{OptionID: optID("o1"), OptionText: "Red"}}},
		}},
		{ID: "v2", PollID: "poll-1", Responses: []model.Response{
			{QuestionID: "q1", Selections: []model.Selection{{OptionID: optID("o2"), OptionText: "Blue"}}},
		}},
	}
}

func TestRecount_RepairsDrift(t *testing.T) {
	poll := livePoll()
	// Drifted state: counters disagree with the two-vote log.
	poll.Questions[0].Options[0].Votes = 7
	poll.Questions[0].Options[1].Votes = 0
	poll.TotalVotes = 9
	poll.UniqueVoters = 9

	recountFromLog(poll, reconcileVotes())

	if got := poll.Questions[0].Options[0].Votes; got != 1 {
		t.Errorf("option o1 votes = %d, want 1", got)
	}
	if got := poll.Questions[0].Options[1].Votes; got != 1 {
		t.Errorf("option o2 votes = %d, want 1", got)
	}
	if poll.TotalVotes != 2 || poll.UniqueVoters != 2 {
		t.Errorf("totals = %d/%d, want 2/2", poll.TotalVotes, poll.UniqueVoters)
	}
}

func TestRecount_Idempotent(t *testing.T) {
	poll := livePoll()
	votes := reconcileVotes()

	recountFromLog(poll, votes)
	first := *poll
	recountFromLog(poll, votes)

	if poll.TotalVotes != first.TotalVotes ||
		poll.Questions[0].Options[0].Votes != first.Questions[0].Options[0].Votes {
		t.Fatal("repairing an already consistent poll must change nothing")
	}
}

func TestRecount_CustomSelectionsExcluded(t *testing.T) {
	poll := livePoll()
	poll.ShowOtherOption = true

	votes := []model.Vote{
		{ID: "v1", PollID: "poll-1", Responses: []model.Response{
			{QuestionID: "q1", Selections: []model.Selection{{OptionText: "Green", IsCustom: true}}},
		}},
	}
	recountFromLog(poll, votes)

	// A custom answer is a submission without a fixed-option tally.
	if poll.Questions[0].Options[0].Votes != 0 || poll.Questions[0].Options[1].Votes != 0 {
		t.Error("custom selections must not count toward fixed options")
	}
	if poll.TotalVotes != 1 {
		t.Errorf("total votes = %d, want 1", poll.TotalVotes)
	}
}

func TestRecount_TotalsPerSubmission(t *testing.T) {
	poll := livePoll()
	poll.Questions[0].Type = model.QuestionMultiple

	// One voter picks both options: two option tallies, one voter event.
	votes := []model.Vote{
		{ID: "v1", PollID: "poll-1", Responses: []model.Response{
			{QuestionID: "q1", Selections: []model.Selection{
				{OptionID: optID("o1"), OptionText: "Red"},
				{OptionID: optID("o2"), OptionText: "Blue"},
			}},
		}},
	}
	recountFromLog(poll, votes)

	if poll.TotalVotes != 1 || poll.UniqueVoters != 1 {
		t.Errorf("totals = %d/%d, want 1/1 for a single submission", poll.TotalVotes, poll.UniqueVoters)
	}
	if poll.Questions[0].Options[0].Votes != 1 || poll.Questions[0].Options[1].Votes != 1 {
		t.Error("each selected option gets one tally")
	}
}
