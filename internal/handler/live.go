package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Sirlahm/vm-poll/internal/live"
	"github.com/Sirlahm/vm-poll/internal/middleware"
	"github.com/Sirlahm/vm-poll/internal/service"
)

// keepAliveInterval keeps proxies from timing out idle SSE connections.
const keepAliveInterval = 25 * time.Second

// LiveHandler streams vote updates to connected viewers over SSE. Each
// connection subscribes to one poll's hub channel.
type LiveHandler struct {
	results *service.ResultService
	hub     *live.Hub
}

func NewLiveHandler(results *service.ResultService, hub *live.Hub) *LiveHandler {
	return &LiveHandler{results: results, hub: hub}
}

// Stream handles GET /api/polls/:pollId/live
//
// The first event is the current result snapshot so a viewer never starts
// from a blank screen; subsequent voteUpdate events arrive as votes land.
func (h *LiveHandler) Stream(c fiber.Ctx) error {
	pollID, errMsg := middleware.ValidatePollID(c.Params("pollId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	snapshot, err := h.results.Results(c.Context(), pollID)
	if err != nil {
		return serviceError(c, err, "Failed to open live stream")
	}

	ch := h.hub.Subscribe(pollID)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.RequestCtx().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer h.hub.Unsubscribe(pollID, ch)

		if err := writeEvent(w, live.Event{PollID: pollID, Results: snapshot}); err != nil {
			return
		}

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case evt, ok := <-ch:
				if !ok {
					return
				}
				if err := writeEvent(w, evt); err != nil {
					return
				}
			case <-keepAlive.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})

	return nil
}

func writeEvent(w *bufio.Writer, evt live.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: voteUpdate\ndata: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}
