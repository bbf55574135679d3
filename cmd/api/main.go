package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"alfredoptarigan/interview-coach/internal/bootstrap"
	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/handlers"
	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/metrics"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	metrics.Register()
	logger.Info().Str("env", cfg.Server.Env).Msg("config loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}

	redisClient, err := config.InitRedis(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize redis")
	}
	defer redisClient.Close()

	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)

	pipeline, err := bootstrap.NewPipeline(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize interview pipeline")
	}

	worker := services.NewWorker(
		sessionRepo,
		pipeline.Interview,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
	)
	worker.Start(ctx)

	drafts := services.NewDraftStore(redisClient, cfg.Redis.DraftTTL)
	sessions := services.NewSessionService(userRepo, sessionRepo, drafts, worker)
	uploads := services.NewUploadService(cfg.Storage.MaxFileSize)

	server := handlers.NewApp(
		handlers.AppOptions{
			BodyLimit:          int(cfg.Storage.MaxFileSize) * 2,
			RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
			AccessLog:          true,
		},
		handlers.Handlers{
			Interview: handlers.NewInterviewHandler(pipeline.Interview, pipeline.Resumes, uploads, drafts, sessions),
			Coding:    handlers.NewCodingHandler(pipeline.Coding),
			User:      handlers.NewUserHandler(sessions),
		},
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info().Msg("shutting down server")
		worker.Stop()
		cancel()
		if err := server.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("server forced to shutdown")
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Strs("backends", pipeline.Gateway.Backends()).Msg("server starting")

	if err := server.Listen(addr); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
