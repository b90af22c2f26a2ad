package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/Sirlahm/vm-poll/internal/handler"
	"github.com/Sirlahm/vm-poll/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Poll     *handler.PollHandler
	Vote     *handler.VoteHandler
	Result   *handler.ResultHandler
	Pollster *handler.PollsterHandler
	Live     *handler.LiveHandler
	Stats    *handler.StatsHandler
	Health   *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Probes and metrics (before API group, no rate limits)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	voteLimit := middleware.NewVoteSubmitRateLimiter().Handler()
	resultsLimit := middleware.NewResultsRateLimiter().Handler()
	manageLimit := middleware.NewManageRateLimiter().Handler()
	importLimit := middleware.NewImportRateLimiter().Handler()

	api := app.Group("/api")

	// Poll management (creator-scoped)
	api.Post("/polls", h.Poll.Create, manageLimit)
	api.Get("/polls/mine", h.Poll.ListMine, manageLimit)
	api.Get("/polls/id/:pollId", h.Poll.Get, manageLimit)
	api.Put("/polls/:pollId", h.Poll.Update, manageLimit)
	api.Delete("/polls/:pollId", h.Poll.Delete, manageLimit)
	api.Post("/polls/:pollId/publish", h.Poll.Publish, manageLimit)
	api.Patch("/polls/:pollId/status", h.Poll.SetStatus, manageLimit)
	api.Post("/polls/:pollId/reset", h.Poll.Reset, manageLimit)
	api.Post("/polls/:pollId/duplicate", h.Poll.Duplicate, manageLimit)

	// Voter-facing surface
	api.Get("/polls/share/:shareCode", h.Poll.GetByShareCode, resultsLimit)
	api.Post("/polls/:pollId/votes", h.Vote.Submit, voteLimit)
	api.Get("/polls/:pollId/results", h.Result.Get, resultsLimit)
	api.Get("/polls/:pollId/live", h.Live.Stream)

	// Closed-poll invitees
	api.Post("/polls/:pollId/pollsters", h.Pollster.Invite, manageLimit)
	api.Post("/polls/:pollId/pollsters/import", h.Pollster.Import, importLimit)
	api.Get("/polls/:pollId/pollsters", h.Pollster.List, manageLimit)

	// Platform stats
	api.Get("/stats", h.Stats.Get, resultsLimit)
}
