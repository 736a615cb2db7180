package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Foxichek/wiralis/internal/config"
	"github.com/Foxichek/wiralis/internal/domain"
	"github.com/Foxichek/wiralis/internal/observability/logging"
	"github.com/Foxichek/wiralis/internal/observability/metrics"
	"github.com/Foxichek/wiralis/internal/service"
	"github.com/Foxichek/wiralis/internal/store"
	httptransport "github.com/Foxichek/wiralis/internal/transport/http"
	"github.com/Foxichek/wiralis/pkg/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.New("wiralis", env, os.Getenv("LOG_LEVEL"))
	slog.SetDefault(logger)

	cfg := config.Load()

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	if err := gdb.AutoMigrate(&domain.Profile{}, &domain.RegistrationCode{}); err != nil {
		logger.Error("automigrate", "error", err)
		os.Exit(1)
	}

	metrics.MustRegister()

	st := store.New(gdb)
	svc := service.New(st, cfg.AdminTelegramIDs)

	router := httptransport.NewRouter(svc, httptransport.Config{
		BotAPISecret: cfg.BotAPISecret,
		CORSOrigins:  cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("wiralis api listening", "addr", srv.Addr, "admins", len(cfg.AdminTelegramIDs))
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
