package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/Sirlahm/vm-poll/internal/config"
	"github.com/Sirlahm/vm-poll/internal/db"
	"github.com/Sirlahm/vm-poll/internal/handler"
	"github.com/Sirlahm/vm-poll/internal/live"
	"github.com/Sirlahm/vm-poll/internal/middleware"
	"github.com/Sirlahm/vm-poll/internal/repository"
	"github.com/Sirlahm/vm-poll/internal/router"
	"github.com/Sirlahm/vm-poll/internal/service"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "vm-poll")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	if err := db.CreateSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	hub := live.NewHub()
	bridge := live.NewBridge(hub, cache.Client())
	go bridge.Run(ctx)

	handler.InitMetrics(pool, hub.TotalSubscribers)
	cache.OnHit = handler.Metrics.CacheHits.Inc
	cache.OnMiss = handler.Metrics.CacheMisses.Inc

	pollRepo := repository.NewPollRepo(pool)
	voteRepo := repository.NewVoteRepo(pool)
	pollsterRepo := repository.NewPollsterRepo(pool)
	statsRepo := repository.NewStatsRepo(pool)

	pollSvc := service.NewPollService(pollRepo, cache)
	resultSvc := service.NewResultService(pollRepo, voteRepo, cache)
	voteSvc := service.NewVoteService(pollRepo, voteRepo, pollsterRepo, resultSvc, cache, bridge)
	pollsterSvc := service.NewPollsterService(pollRepo, pollsterRepo, nil)

	reconciler := service.NewReconcileWorker(pool, cache)
	reconciler.Observe = func(d time.Duration) {
		handler.Metrics.ReconcileDuration.Observe(d.Seconds())
	}
	go reconciler.Start(ctx)

	lifecycle := service.NewLifecycleWorker(pool, cfg.SweepInterval)
	go lifecycle.Start(ctx)
	defer lifecycle.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "vm-poll API",
		ServerHeader: "vm-poll",
	})

	router.Setup(app, &router.Handlers{
		Poll:     handler.NewPollHandler(pollSvc),
		Vote:     handler.NewVoteHandler(voteSvc, cfg.IPHashSalt),
		Result:   handler.NewResultHandler(resultSvc),
		Pollster: handler.NewPollsterHandler(pollsterSvc),
		Live:     handler.NewLiveHandler(resultSvc, hub),
		Stats:    handler.NewStatsHandler(statsRepo),
		Health:   handler.NewHealthHandler(pool, cache.Client()),
	}, cfg.CORSOrigins)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		log.Info().Msg("shutting down")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Environment).
		Msg("vm-poll backend starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
