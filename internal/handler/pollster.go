package handler

import (
	"bytes"

	"github.com/gofiber/fiber/v3"

	"github.com/Sirlahm/vm-poll/internal/middleware"
	"github.com/Sirlahm/vm-poll/internal/model"
	"github.com/Sirlahm/vm-poll/internal/service"
)

// maxImportBytes bounds the CSV import body (1 MiB covers ~20k invitees).
const maxImportBytes = 1 << 20

type PollsterHandler struct {
	svc *service.PollsterService
}

func NewPollsterHandler(svc *service.PollsterService) *PollsterHandler {
	return &PollsterHandler{svc: svc}
}

// Invite handles POST /api/polls/:pollId/pollsters
func (h *PollsterHandler) Invite(c fiber.Ctx) error {
	pollID, errMsg := middleware.ValidatePollID(c.Params("pollId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.CreatePollsterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	pollster, err := h.svc.Invite(c.Context(), pollID, userID(c), req)
	if err != nil {
		return serviceError(c, err, "Failed to invite pollster")
	}
	// Creation is the one moment the creator sees the token.
	return c.Status(fiber.StatusCreated).JSON(model.NewPollsterInvite(pollster))
}

// Import handles POST /api/polls/:pollId/pollsters/import
//
// Body is raw CSV (email,phone,name per row, optional header). Rows fail
// independently; the response reports imported and skipped counts.
func (h *PollsterHandler) Import(c fiber.Ctx) error {
	pollID, errMsg := middleware.ValidatePollID(c.Params("pollId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	body := c.Body()
	if len(body) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "CSV body is required")
	}
	if len(body) > maxImportBytes {
		return middleware.ErrorResponse(c, fiber.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "CSV body exceeds 1 MiB")
	}

	result, err := h.svc.ImportCSV(c.Context(), pollID, userID(c), bytes.NewReader(body))
	if err != nil {
		return serviceError(c, err, "Failed to import pollsters")
	}
	return c.JSON(result)
}

// List handles GET /api/polls/:pollId/pollsters
func (h *PollsterHandler) List(c fiber.Ctx) error {
	pollID, errMsg := middleware.ValidatePollID(c.Params("pollId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	pollsters, err := h.svc.List(c.Context(), pollID, userID(c))
	if err != nil {
		return serviceError(c, err, "Failed to list pollsters")
	}
	return c.JSON(fiber.Map{"pollsters": pollsters, "total": len(pollsters)})
}
