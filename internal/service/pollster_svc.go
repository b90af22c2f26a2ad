package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Sirlahm/vm-poll/internal/model"
	"github.com/Sirlahm/vm-poll/internal/repository"
	"github.com/Sirlahm/vm-poll/pkg/token"
)

// Notifier dispatches invite notifications. Mail delivery is an external
// collaborator; the service only cares about fire-and-forget dispatch.
type Notifier interface {
	SendInvite(ctx context.Context, p *model.Pollster, shareCode string)
}

// LogNotifier is the default Notifier: it records the invite instead of
// sending mail.
type LogNotifier struct{}

func (LogNotifier) SendInvite(_ context.Context, p *model.Pollster, shareCode string) {
	// The token is the content of the invite; without a mail transport the
	// log line is how it reaches the pollster.
	log.Info().
		Str("poll_id", p.PollID).
		Str("email", p.Email).
		Str("share_code", shareCode).
		Str("vote_token", p.VoteToken).
		Msg("invite dispatched")
}

// PollsterService manages closed-poll invitees and their vote tokens.
type PollsterService struct {
	polls    *repository.PollRepo
	repo     *repository.PollsterRepo
	notifier Notifier
}

func NewPollsterService(polls *repository.PollRepo, repo *repository.PollsterRepo, notifier Notifier) *PollsterService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &PollsterService{polls: polls, repo: repo, notifier: notifier}
}

// Invite creates a single pollster with a fresh vote token and dispatches
// the invite notification.
func (s *PollsterService) Invite(ctx context.Context, pollID, actorID string, req model.CreatePollsterRequest) (*model.Pollster, error) {
	poll, err := s.ownedClosedPoll(ctx, pollID, actorID)
	if err != nil {
		return nil, err
	}

	pollster, err := buildPollster(pollID, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, pollster); err != nil {
		if errors.Is(err, repository.ErrDuplicateInvite) {
			return nil, Validationf("%s is already invited to this poll", pollster.Email)
		}
		return nil, err
	}

	go s.notifier.SendInvite(context.WithoutCancel(ctx), pollster, poll.ShareCode)
	return pollster, nil
}

// ImportCSV ingests invitee rows of the form email,phone,name. Bad rows are
// skipped and reported; valid rows are imported independently.
func (s *PollsterService) ImportCSV(ctx context.Context, pollID, actorID string, r io.Reader) (*model.ImportResult, error) {
	poll, err := s.ownedClosedPoll(ctx, pollID, actorID)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	result := &model.ImportResult{}
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if line == 1 && looksLikeHeader(record) {
			continue
		}

		req := model.CreatePollsterRequest{Email: field(record, 0), Phone: field(record, 1), Name: field(record, 2)}
		pollster, err := buildPollster(pollID, req)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		if err := s.repo.Create(ctx, pollster); err != nil {
			result.Skipped++
			if errors.Is(err, repository.ErrDuplicateInvite) {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: %s already invited", line, pollster.Email))
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		result.Imported++
		go s.notifier.SendInvite(context.WithoutCancel(ctx), pollster, poll.ShareCode)
	}

	return result, nil
}

// List returns all pollsters invited to the poll. Creator only: the list
// exposes vote state per invitee.
func (s *PollsterService) List(ctx context.Context, pollID, actorID string) ([]model.Pollster, error) {
	if _, err := s.ownedClosedPoll(ctx, pollID, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListByPoll(ctx, pollID)
}

func (s *PollsterService) ownedClosedPoll(ctx context.Context, pollID, actorID string) (*model.Poll, error) {
	poll, err := s.polls.FindByID(ctx, pollID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	if poll.CreatorID != actorID {
		return nil, ErrNotCreator
	}
	if poll.PollType != model.PollTypeClosed {
		return nil, Validationf("pollsters can only be invited to closed polls")
	}
	return poll, nil
}

func buildPollster(pollID string, req model.CreatePollsterRequest) (*model.Pollster, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, Validationf("a valid email is required")
	}
	return &model.Pollster{
		ID:        uuid.NewString(),
		PollID:    pollID,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Name:      strings.TrimSpace(req.Name),
		VoteToken: token.NewVoteToken(),
	}, nil
}

func looksLikeHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "email")
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}
