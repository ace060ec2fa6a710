package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/diagnosis/clinicdesk/internal/http/handlers"
	"github.com/diagnosis/clinicdesk/internal/platform/password"
	"github.com/diagnosis/clinicdesk/internal/repo"
	"github.com/diagnosis/clinicdesk/internal/service"
	"github.com/diagnosis/clinicdesk/internal/store"
	"github.com/diagnosis/clinicdesk/pkg/config"
	"github.com/diagnosis/clinicdesk/pkg/events"
	"github.com/diagnosis/clinicdesk/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to load .env file", "error", err)
	}
	logger.SetDefault(logger.New(os.Stdout, os.Getenv("LOG_LEVEL")))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	backend, closer, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer closer.Close()

	// Connect to event bus
	var eventBus events.Publisher = events.NopPublisher{}
	if cfg.NATS.URL != "" {
		bus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		eventBus = bus
	}
	defer eventBus.Close()

	hasher, err := password.New(cfg.Auth.PasswordHasher, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Error("Invalid password hasher", "error", err)
		os.Exit(1)
	}

	// Initialize repositories and services
	staffRepo := repo.NewStaffRepo(backend)
	authService := service.NewAuthService(staffRepo, hasher, eventBus, cfg.Auth)
	patientService := service.NewPatientService(backend, eventBus)
	doctorService := service.NewDoctorService(backend, eventBus)

	r := handlers.NewRouter(handlers.RouterDeps{
		Config:   cfg,
		Auth:     authService,
		Patients: patientService,
		Doctors:  doctorService,
		HealthCheck: func(ctx context.Context) error {
			_, err := staffRepo.Count(ctx)
			return err
		},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down clinicdesk...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting clinicdesk", "port", cfg.Server.Port, "env", cfg.Server.Env, "storage", cfg.Storage.Driver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	<-done
}
