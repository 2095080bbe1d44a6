package main

import (
	"context"
	"net/http"
	"os"

	"github.com/crewcast/shootflow-backend/api/routes"
	"github.com/crewcast/shootflow-backend/internal/directory"
	"github.com/crewcast/shootflow-backend/internal/requests"
	"github.com/crewcast/shootflow-backend/pkg/config"
	"github.com/crewcast/shootflow-backend/pkg/db"
	"github.com/crewcast/shootflow-backend/pkg/logger"
	"github.com/crewcast/shootflow-backend/pkg/metrics"
	"github.com/crewcast/shootflow-backend/pkg/migrate"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	workflowMetrics := metrics.NewWorkflowMetrics(prometheus.DefaultRegisterer)

	directoryService, err := directory.NewService(directory.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create directory service", err)
		os.Exit(1)
	}

	requestsService, err := requests.NewService(
		requests.NewRepository(dbClient.DB()),
		dbClient,
		workflowMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create requests service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, directoryService, requestsService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
