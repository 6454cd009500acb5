package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"propsearch/config"
	"propsearch/internal/api"
	"propsearch/internal/database"
	"propsearch/internal/dispatcher"
	"propsearch/internal/engine"
	"propsearch/internal/processor"
	"propsearch/internal/queue"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := cfg.NewLogger()

	logger.Infof("Using database at: %s", cfg.Database.Path)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	eng := engine.New(engine.WithParallelism(cfg.Engine.Parallelism, cfg.Engine.ParallelThreshold))
	disp := dispatcher.NewDispatcher(eng, cfg.Engine.FuzzyDefault, logger)

	requestQueue := queue.NewRequestQueue(cfg.Engine.QueueSize, logger)
	proc := processor.NewRequestProcessor(disp, requestQueue, cfg, logger)
	proc.Start()

	handler := api.NewHandler(db, proc, logger)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown did not complete")
	}

	// Requests already queued are still answered before exit.
	proc.Stop()
}
