package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/Sirlahm/vm-poll/internal/middleware"
	"github.com/Sirlahm/vm-poll/internal/model"
	"github.com/Sirlahm/vm-poll/internal/service"
)

type PollHandler struct {
	svc *service.PollService
}

func NewPollHandler(svc *service.PollService) *PollHandler {
	return &PollHandler{svc: svc}
}

// Create handles POST /api/polls
func (h *PollHandler) Create(c fiber.Ctx) error {
	uid := userID(c)
	if uid == "" {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "AUTH_REQUIRED", "authentication is required to create a poll")
	}

	var req model.CreatePollRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	poll, err := h.svc.Create(c.Context(), uid, req)
	if err != nil {
		return serviceError(c, err, "Failed to create poll")
	}
	return c.Status(fiber.StatusCreated).JSON(poll)
}

// GetByShareCode handles GET /api/polls/:shareCode
//
// This is the public voter-facing fetch, so it bumps the view counter.
func (h *PollHandler) GetByShareCode(c fiber.Ctx) error {
	code, errMsg := middleware.ValidateShareCode(c.Params("shareCode"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	poll, err := h.svc.GetByShareCode(c.Context(), code)
	if err != nil {
		return serviceError(c, err, "Failed to fetch poll")
	}
	return c.JSON(poll)
}

// ListMine handles GET /api/polls/mine?status=&page=&limit=
func (h *PollHandler) ListMine(c fiber.Ctx) error {
	uid := userID(c)
	if uid == "" {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "AUTH_REQUIRED", "authentication is required")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	status := model.PollStatus(c.Query("status"))

	resp, err := h.svc.ListMine(c.Context(), uid, status, page, limit)
	if err != nil {
		return serviceError(c, err, "Failed to list polls")
	}
	return c.JSON(resp)
}

// Get handles GET /api/polls/id/:pollId (creator dashboard fetch, no view bump)
func (h *PollHandler) Get(c fiber.Ctx) error {
	pollID, errMsg := middleware.ValidatePollID(c.Params("pollId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	poll, err := h.svc.Get(c.Context(), pollID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch poll")
	}
	return c.JSON(poll)
}

// Update handles PUT /api/polls/:pollId
func (h *PollHandler) Update(c fiber.Ctx) error {
	pollID, errMsg := middleware.ValidatePollID(c.Params("pollId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.UpdatePollRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if err := h.svc.Update(c.Context(), pollID, userID(c), req); err != nil {
		return serviceError(c, err, "Failed to update poll")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete handles DELETE /api/polls/:pollId
func (h *PollHandler) Delete(c fiber.Ctx) error {
	pollID, errMsg := middleware.ValidatePollID(c.Params("pollId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.Delete(c.Context(), pollID, userID(c)); err != nil {
		return serviceError(c, err, "Failed to delete poll")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Publish handles POST /api/polls/:pollId/publish
func (h *PollHandler) Publish(c fiber.Ctx) error {
	pollID, errMsg := middleware.ValidatePollID(c.Params("pollId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	poll, err := h.svc.Publish(c.Context(), pollID, userID(c))
	if err != nil {
		return serviceError(c, err, "Failed to publish poll")
	}
	return c.JSON(poll)
}

// SetStatus handles PATCH /api/polls/:pollId/status
func (h *PollHandler) SetStatus(c fiber.Ctx) error {
	pollID, errMsg := middleware.ValidatePollID(c.Params("pollId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.SetStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	poll, err := h.svc.SetStatus(c.Context(), pollID, userID(c), req.Live)
	if err != nil {
		return serviceError(c, err, "Failed to change poll status")
	}
	return c.JSON(poll)
}

// Reset handles POST /api/polls/:pollId/reset
func (h *PollHandler) Reset(c fiber.Ctx) error {
	pollID, errMsg := middleware.ValidatePollID(c.Params("pollId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.Reset(c.Context(), pollID, userID(c)); err != nil {
		return serviceError(c, err, "Failed to reset poll")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Duplicate handles POST /api/polls/:pollId/duplicate
func (h *PollHandler) Duplicate(c fiber.Ctx) error {
	pollID, errMsg := middleware.ValidatePollID(c.Params("pollId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	uid := userID(c)
	if uid == "" {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "AUTH_REQUIRED", "authentication is required to duplicate a poll")
	}

	poll, err := h.svc.Duplicate(c.Context(), pollID, uid)
	if err != nil {
		return serviceError(c, err, "Failed to duplicate poll")
	}
	return c.Status(fiber.StatusCreated).JSON(poll)
}
