package service

import (
	"context"
	"encoding/json"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/Sirlahm/vm-poll/internal/model"
	"github.com/Sirlahm/vm-poll/internal/repository"
)

// ResultService produces the derived read view of a poll's current results.
type ResultService struct {
	polls PollStore
	votes VoteStore
	cache *CacheService
}

func NewResultService(polls PollStore, votes VoteStore, cache *CacheService) *ResultService {
	return &ResultService{polls: polls, votes: votes, cache: cache}
}

// Results returns the poll's result view. Uses cache-aside: check Redis
// first, recompute on miss, then populate the cache.
func (s *ResultService) Results(ctx context.Context, pollID string) (*model.ResultView, error) {
	if s.cache != nil {
		cached, err := s.cache.GetResults(ctx, pollID)
		if err != nil {
			log.Warn().Err(err).Str("poll_id", pollID).Msg("cache: results get error")
		} else if cached != nil {
			var view model.ResultView
			if err := json.Unmarshal(cached, &view); err == nil {
				return &view, nil
			}
		}
	}

	view, err := s.compute(ctx, pollID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetResults(ctx, pollID, view); err != nil {
			log.Warn().Err(err).Str("poll_id", pollID).Msg("cache: results set error")
		}
	}
	return view, nil
}

// compute recomputes the view from option counters and, when custom answers
// are enabled, the vote log.
func (s *ResultService) compute(ctx context.Context, pollID string) (*model.ResultView, error) {
	poll, err := s.polls.FindByID(ctx, pollID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}

	var custom map[string][]model.CustomAnswerCount
	if poll.ShowOtherOption {
		custom = make(map[string][]model.CustomAnswerCount, len(poll.Questions))
		for _, q := range poll.Questions {
			counts, err := s.votes.CustomAnswerCounts(ctx, pollID, q.ID)
			if err != nil {
				return nil, err
			}
			custom[q.ID] = counts
		}
	}

	return BuildResultView(poll, custom), nil
}

// BuildResultView assembles a result view from a poll's counters and the
// pre-aggregated custom answers per question. Pure, so tests can exercise
// the percentage math without a database.
func BuildResultView(poll *model.Poll, custom map[string][]model.CustomAnswerCount) *model.ResultView {
	view := &model.ResultView{
		PollID:         poll.ID,
		Title:          poll.Title,
		Description:    poll.Description,
		ImageURL:       poll.ImageURL,
		PollType:       poll.PollType,
		TotalVotes:     poll.TotalVotes,
		UniqueVoters:   poll.UniqueVoters,
		TotalPollsters: poll.TotalPollsters,
		IsExpired:      poll.IsExpired(),
		EndDate:        poll.EndDate,
	}

	for _, q := range poll.Questions {
		total := 0
		for _, opt := range q.Options {
			total += opt.Votes
		}

		qr := model.QuestionResult{
			QuestionID: q.ID,
			Title:      q.Title,
			Type:       q.Type,
			TotalVotes: total,
		}
		for _, opt := range q.Options {
			optID := opt.ID
			qr.Options = append(qr.Options, model.OptionResult{
				OptionID:   &optID,
				Text:       opt.Text,
				ImageURL:   opt.ImageURL,
				Votes:      opt.Votes,
				Percentage: percentage(opt.Votes, total),
			})
		}
		for _, c := range custom[q.ID] {
			qr.Options = append(qr.Options, model.OptionResult{
				Text:       c.Text,
				Votes:      c.Votes,
				Percentage: percentage(c.Votes, total),
				IsCustom:   true,
			})
		}

		view.Questions = append(view.Questions, qr)
	}
	return view
}

// percentage is round(votes/total*100), defined as 0 for an empty question.
func percentage(votes, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}
