package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Sirlahm/vm-poll/internal/middleware"
	"github.com/Sirlahm/vm-poll/internal/service"
)

type ResultHandler struct {
	svc *service.ResultService
}

func NewResultHandler(svc *service.ResultService) *ResultHandler {
	return &ResultHandler{svc: svc}
}

// Get handles GET /api/polls/:pollId/results
func (h *ResultHandler) Get(c fiber.Ctx) error {
	pollID, errMsg := middleware.ValidatePollID(c.Params("pollId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	view, err := h.svc.Results(c.Context(), pollID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch results")
	}
	return c.JSON(view)
}
