package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Sirlahm/vm-poll/internal/middleware"
	"github.com/Sirlahm/vm-poll/internal/model"
	"github.com/Sirlahm/vm-poll/internal/service"
	"github.com/Sirlahm/vm-poll/pkg/token"
)

type VoteHandler struct {
	svc    *service.VoteService
	ipSalt string
}

func NewVoteHandler(svc *service.VoteService, ipSalt string) *VoteHandler {
	return &VoteHandler{svc: svc, ipSalt: ipSalt}
}

// Submit handles POST /api/polls/:pollId/votes
func (h *VoteHandler) Submit(c fiber.Ctx) error {
	pollID, errMsg := middleware.ValidatePollID(c.Params("pollId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.VoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	voteToken, errMsg := middleware.ValidateVoteToken(req.VoteToken)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_TOKEN", errMsg)
	}
	req.VoteToken = voteToken

	voterName, errMsg := middleware.ValidateVoterName(req.VoterName)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.VoterName = voterName

	if req.UserAgent == "" {
		req.UserAgent = c.Get("User-Agent")
	}
	req.UserAgent = middleware.ValidateUserAgent(req.UserAgent)

	if len(req.Responses) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "at least one response is required")
	}

	ipHash := token.HashIP(c.IP(), h.ipSalt)

	resp, err := h.svc.Submit(c.Context(), pollID, userID(c), ipHash, req)
	if err != nil {
		return serviceError(c, err, "Failed to submit vote")
	}

	if Metrics.VotesTotal != nil {
		Metrics.VotesTotal.WithLabelValues(string(resp.PollType)).Inc()
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}
