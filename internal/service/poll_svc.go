package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Sirlahm/vm-poll/internal/model"
	"github.com/Sirlahm/vm-poll/internal/repository"
	"github.com/Sirlahm/vm-poll/pkg/token"
)

// PollService owns poll creation and the explicit lifecycle operations:
// publish, live/closed toggling, reset, and duplication.
type PollService struct {
	repo  *repository.PollRepo
	cache *CacheService
}

func NewPollService(repo *repository.PollRepo, cache *CacheService) *PollService {
	return &PollService{repo: repo, cache: cache}
}

// Create validates and persists a new poll in the building state.
func (s *PollService) Create(ctx context.Context, creatorID string, req model.CreatePollRequest) (*model.Poll, error) {
	poll, err := BuildPoll(creatorID, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

// BuildPoll validates a creation request and assembles the poll aggregate
// with fresh identifiers and a share code. Pure aside from ID generation.
func BuildPoll(creatorID string, req model.CreatePollRequest) (*model.Poll, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, Validationf("poll title is required")
	}
	if len(title) > 200 {
		return nil, Validationf("poll title cannot exceed 200 characters")
	}

	pollType := req.PollType
	if pollType == "" {
		pollType = model.PollTypeOpen
	}
	if pollType != model.PollTypeOpen && pollType != model.PollTypeClosed {
		return nil, Validationf("pollType must be open or closed")
	}

	if len(req.Questions) < model.MinQuestions || len(req.Questions) > model.MaxQuestions {
		return nil, Validationf("a poll must have between %d and %d questions",
			model.MinQuestions, model.MaxQuestions)
	}

	if req.EndDate != nil && !req.EndDate.After(time.Now()) {
		return nil, Validationf("end date must be in the future")
	}

	allowAnonymous := true
	if req.AllowAnonymous != nil {
		allowAnonymous = *req.AllowAnonymous
	}

	poll := &model.Poll{
		ID:               uuid.NewString(),
		Title:            title,
		Description:      strings.TrimSpace(req.Description),
		ImageURL:         req.ImageURL,
		CreatorID:        creatorID,
		PollType:         pollType,
		Status:           model.StatusBuilding,
		AllowAnonymous:   allowAnonymous,
		RequireAuth:      req.RequireAuth,
		RequireVoterName: req.RequireVoterName,
		ShowOtherOption:  req.ShowOtherOption,
		ShareCode:        token.NewShareCode(),
		EndDate:          req.EndDate,
	}

	for i, qr := range req.Questions {
		qTitle := strings.TrimSpace(qr.Title)
		if qTitle == "" {
			return nil, Validationf("question %d is missing a title", i+1)
		}
		qType := qr.Type
		if qType == "" {
			qType = model.QuestionSingle
		}
		if qType != model.QuestionSingle && qType != model.QuestionMultiple {
			return nil, Validationf("question %d has an invalid type", i+1)
		}
		if len(qr.Options) < model.MinOptions || len(qr.Options) > model.MaxOptions {
			return nil, Validationf("question %d must have between %d and %d options",
				i+1, model.MinOptions, model.MaxOptions)
		}

		required := true
		if qr.Required != nil {
			required = *qr.Required
		}

		q := model.Question{
			ID:       uuid.NewString(),
			Title:    qTitle,
			Type:     qType,
			Required: required,
			Order:    i,
		}
		for _, optText := range qr.Options {
			text := strings.TrimSpace(optText)
			if text == "" {
				return nil, Validationf("question %d has an empty option", i+1)
			}
			q.Options = append(q.Options, model.Option{ID: uuid.NewString(), Text: text})
		}
		poll.Questions = append(poll.Questions, q)
	}

	return poll, nil
}

// Get returns a poll by ID.
func (s *PollService) Get(ctx context.Context, pollID string) (*model.Poll, error) {
	poll, err := s.repo.FindByID(ctx, pollID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	return poll, nil
}

// GetByShareCode resolves a share code and bumps the poll's view counter.
func (s *PollService) GetByShareCode(ctx context.Context, shareCode string) (*model.Poll, error) {
	poll, err := s.repo.FindByShareCode(ctx, shareCode)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	if err := s.repo.IncrementViewCount(ctx, poll.ID); err != nil {
		log.Warn().Err(err).Str("poll_id", poll.ID).Msg("poll: view count error")
	}
	return poll, nil
}

// ListMine returns a page of the creator's polls.
func (s *PollService) ListMine(ctx context.Context, creatorID string, status model.PollStatus, page, limit int) (*model.PollListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	polls, total, err := s.repo.ListByCreator(ctx, creatorID, status, page, limit)
	if err != nil {
		return nil, err
	}
	totalPages := (total + limit - 1) / limit
	return &model.PollListResponse{Polls: polls, Total: total, Page: page, TotalPages: totalPages}, nil
}

// Update applies editable fields. Only the creator may update, and only
// while the poll is still being built.
func (s *PollService) Update(ctx context.Context, pollID, actorID string, req model.UpdatePollRequest) error {
	poll, err := s.ownedPoll(ctx, pollID, actorID)
	if err != nil {
		return err
	}
	if poll.Status != model.StatusBuilding {
		return ErrConflict
	}
	if req.EndDate != nil && !req.EndDate.After(time.Now()) {
		return Validationf("end date must be in the future")
	}
	return s.repo.UpdateFields(ctx, pollID, req)
}

// Delete removes the poll and everything tied to it.
func (s *PollService) Delete(ctx context.Context, pollID, actorID string) error {
	if _, err := s.ownedPoll(ctx, pollID, actorID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, pollID); err != nil {
		return err
	}
	s.invalidate(ctx, pollID)
	return nil
}

// Publish moves a building poll to scheduled. Publishing twice is a
// conflict.
func (s *PollService) Publish(ctx context.Context, pollID, actorID string) (*model.Poll, error) {
	poll, err := s.ownedPoll(ctx, pollID, actorID)
	if err != nil {
		return nil, err
	}
	status, err := PublishTransition(poll)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLifecycle(ctx, pollID, status, true, poll.IsOn); err != nil {
		return nil, err
	}
	poll.Status = status
	poll.IsPublish = true
	return poll, nil
}

// SetStatus toggles a published poll between live and closed.
func (s *PollService) SetStatus(ctx context.Context, pollID, actorID string, live bool) (*model.Poll, error) {
	poll, err := s.ownedPoll(ctx, pollID, actorID)
	if err != nil {
		return nil, err
	}
	status, err := StatusTransition(poll, live)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLifecycle(ctx, pollID, status, poll.IsPublish, live); err != nil {
		return nil, err
	}
	poll.Status = status
	poll.IsOn = live
	return poll, nil
}

// Reset deletes every vote and pollster tied to the poll and zeroes the
// counters, keeping the configuration. Used for re-running a poll.
func (s *PollService) Reset(ctx context.Context, pollID, actorID string) error {
	if _, err := s.ownedPoll(ctx, pollID, actorID); err != nil {
		return err
	}
	if err := s.repo.Reset(ctx, pollID); err != nil {
		return err
	}
	s.invalidate(ctx, pollID)
	return nil
}

// Duplicate creates an independent copy of the poll: same configuration,
// counters zeroed, status back to building, fresh share code. The original
// is untouched.
func (s *PollService) Duplicate(ctx context.Context, pollID, actorID string) (*model.Poll, error) {
	src, err := s.repo.FindByID(ctx, pollID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}

	copyPoll := DuplicatePoll(src, actorID)
	if err := s.repo.Create(ctx, copyPoll); err != nil {
		return nil, err
	}
	return copyPoll, nil
}

// DuplicatePoll builds the copy aggregate. Exported for tests.
func DuplicatePoll(src *model.Poll, actorID string) *model.Poll {
	cp := &model.Poll{
		ID:               uuid.NewString(),
		Title:            src.Title + " (Copy)",
		Description:      src.Description,
		ImageURL:         src.ImageURL,
		CreatorID:        actorID,
		PollType:         src.PollType,
		Status:           model.StatusBuilding,
		AllowAnonymous:   src.AllowAnonymous,
		RequireAuth:      src.RequireAuth,
		RequireVoterName: src.RequireVoterName,
		ShowOtherOption:  src.ShowOtherOption,
		ShareCode:        token.NewShareCode(),
		EndDate:          src.EndDate,
	}
	for _, q := range src.Questions {
		nq := model.Question{
			ID:       uuid.NewString(),
			Title:    q.Title,
			Type:     q.Type,
			Required: q.Required,
			Order:    q.Order,
		}
		for _, opt := range q.Options {
			nq.Options = append(nq.Options, model.Option{
				ID:       uuid.NewString(),
				Text:     opt.Text,
				ImageURL: opt.ImageURL,
			})
		}
		cp.Questions = append(cp.Questions, nq)
	}
	return cp
}

// PublishTransition computes the publish state change for a poll.
func PublishTransition(p *model.Poll) (model.PollStatus, error) {
	if p.IsPublish {
		return "", ErrConflict
	}
	if p.Status == model.StatusBuilding {
		return model.StatusScheduled, nil
	}
	return p.Status, nil
}

// StatusTransition computes the live/closed toggle. Only published polls
// can be toggled.
func StatusTransition(p *model.Poll, live bool) (model.PollStatus, error) {
	if !p.IsPublish {
		return "", ErrConflict
	}
	if live {
		return model.StatusLive, nil
	}
	return model.StatusClosed, nil
}

func (s *PollService) ownedPoll(ctx context.Context, pollID, actorID string) (*model.Poll, error) {
	poll, err := s.repo.FindByID(ctx, pollID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	if poll.CreatorID != actorID {
		return nil, ErrNotCreator
	}
	return poll, nil
}

func (s *PollService) invalidate(ctx context.Context, pollID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateResults(ctx, pollID); err != nil {
		log.Warn().Err(err).Str("poll_id", pollID).Msg("cache: invalidate error")
	}
}
