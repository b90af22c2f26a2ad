package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Sirlahm/vm-poll/internal/model"
	"github.com/Sirlahm/vm-poll/internal/repository"
)

// VoteService validates vote submissions and records admitted votes.
type VoteService struct {
	polls     PollStore
	votes     VoteStore
	pollsters PollsterStore
	results   *ResultService
	cache     *CacheService
	publisher LivePublisher
}

func NewVoteService(polls PollStore, votes VoteStore, pollsters PollsterStore,
	results *ResultService, cache *CacheService, publisher LivePublisher) *VoteService {
	return &VoteService{
		polls:     polls,
		votes:     votes,
		pollsters: pollsters,
		results:   results,
		cache:     cache,
		publisher: publisher,
	}
}

// Submit processes one vote submission end to end: validate, record, then
// fan the updated results out to live subscribers. voterID is the
// authenticated identity ("" when anonymous); ipHash is the salted hash of
// the client IP. No write happens on any validation failure.
func (s *VoteService) Submit(ctx context.Context, pollID, voterID, ipHash string, req model.VoteRequest) (*model.VoteResponse, error) {
	poll, err := s.polls.FindByID(ctx, pollID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}

	if poll.IsExpired() {
		return nil, ErrPollExpired
	}
	if poll.Status != model.StatusLive {
		return nil, ErrPollInactive
	}

	if poll.RequireVoterName && strings.TrimSpace(req.VoterName) == "" {
		return nil, Validationf("voter name is required for this poll")
	}

	ident, err := s.resolveIdentity(ctx, poll, voterID, ipHash, req.VoteToken)
	if err != nil {
		return nil, err
	}

	responses, err := resolveResponses(poll, req.Responses)
	if err != nil {
		return nil, err
	}

	vote := &model.Vote{
		ID:        uuid.NewString(),
		PollID:    poll.ID,
		VoterName: strings.TrimSpace(req.VoterName),
		Responses: responses,
		UserAgent: req.UserAgent,
	}

	if err := s.votes.Insert(ctx, vote, ident); err != nil {
		return nil, err
	}

	// Recorded. Everything below is best-effort: a cache or publish failure
	// never fails the submission.
	if s.cache != nil {
		if err := s.cache.InvalidateResults(ctx, pollID); err != nil {
			log.Warn().Err(err).Str("poll_id", pollID).Msg("cache: invalidate error")
		}
	}

	resp := &model.VoteResponse{Success: true, VoteID: vote.ID, PollType: poll.PollType}
	if s.results != nil {
		view, err := s.results.Results(ctx, pollID)
		if err != nil {
			log.Warn().Err(err).Str("poll_id", pollID).Msg("vote: result recompute error")
		} else {
			resp.Results = view
			if s.publisher != nil {
				go s.publisher.PublishResults(pollID, view)
			}
		}
	}

	return resp, nil
}

// resolveIdentity decides, once per submission, how the voter is identified
// and runs the matching duplicate check. Exactly one identification path
// applies; a token vote never falls through to an IP check.
func (s *VoteService) resolveIdentity(ctx context.Context, poll *model.Poll, voterID, ipHash, voteToken string) (model.VoterIdentity, error) {
	var none model.VoterIdentity

	if poll.PollType == model.PollTypeClosed {
		if voteToken == "" {
			return none, ErrInvalidToken
		}
		pollster, err := s.pollsters.FindByToken(ctx, voteToken)
		if err != nil {
			if repository.IsNotFound(err) {
				return none, ErrInvalidToken
			}
			return none, err
		}
		if pollster.PollID != poll.ID {
			return none, ErrInvalidToken
		}
		if pollster.HasVoted {
			return none, ErrDuplicateVote
		}
		return model.VoterIdentity{Kind: model.IdentityPollster, PollsterID: pollster.ID}, nil
	}

	if voterID != "" {
		voted, err := s.votes.HasVoteByVoter(ctx, poll.ID, voterID)
		if err != nil {
			return none, err
		}
		if voted {
			return none, ErrDuplicateVote
		}
		return model.VoterIdentity{Kind: model.IdentityVoter, VoterID: voterID}, nil
	}

	if poll.RequireAuth || !poll.AllowAnonymous {
		return none, ErrAuthRequired
	}

	voted, err := s.votes.HasVoteByIP(ctx, poll.ID, ipHash)
	if err != nil {
		return none, err
	}
	if voted {
		return none, ErrDuplicateVote
	}
	return model.VoterIdentity{Kind: model.IdentityIP, IPHash: ipHash}, nil
}

// resolveResponses validates the raw responses against the poll's questions
// and resolves each selection to its option, or tags it as a custom answer.
// Pure; no lookups beyond the poll already in hand.
func resolveResponses(poll *model.Poll, raw []model.ResponseRequest) ([]model.Response, error) {
	answered := make(map[string]bool, len(raw))
	var out []model.Response

	for _, rr := range raw {
		q := poll.Question(rr.QuestionID)
		if q == nil {
			return nil, Validationf("unknown question %q", rr.QuestionID)
		}
		if answered[q.ID] {
			return nil, Validationf("question %q answered more than once", q.ID)
		}
		answered[q.ID] = true

		if q.Required && len(rr.Selections) == 0 {
			return nil, Validationf("question %q requires an answer", q.ID)
		}
		if q.Type == model.QuestionSingle && len(rr.Selections) > 1 {
			return nil, Validationf("question %q accepts only one selection", q.ID)
		}

		resp := model.Response{QuestionID: q.ID}
		for _, sel := range rr.Selections {
			switch {
			case sel.OptionID != "":
				opt := q.Option(sel.OptionID)
				if opt == nil {
					return nil, Validationf("unknown option %q for question %q", sel.OptionID, q.ID)
				}
				optID := opt.ID
				resp.Selections = append(resp.Selections, model.Selection{
					OptionID:   &optID,
					OptionText: opt.Text,
				})
			case strings.TrimSpace(sel.CustomText) != "":
				if !poll.ShowOtherOption {
					return nil, Validationf("custom answers are not allowed on this poll")
				}
				resp.Selections = append(resp.Selections, model.Selection{
					OptionText: strings.TrimSpace(sel.CustomText),
					IsCustom:   true,
				})
			default:
				return nil, Validationf("empty selection for question %q", q.ID)
			}
		}
		out = append(out, resp)
	}

	for _, q := range poll.Questions {
		if q.Required && !answered[q.ID] {
			return nil, Validationf("question %q requires an answer", q.ID)
		}
	}

	// A vote with no responses at all is never meaningful, even when every
	// question is optional.
	if len(out) == 0 {
		return nil, Validationf("at least one response is required")
	}

	return out, nil
}
