package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/hrdesk-be/internal/api"
	"github.com/isdelr/hrdesk-be/internal/auth"
	"github.com/isdelr/hrdesk-be/internal/config"
	"github.com/isdelr/hrdesk-be/internal/database"
	"github.com/isdelr/hrdesk-be/internal/logger"
	"github.com/isdelr/hrdesk-be/internal/monitoring"
	"github.com/isdelr/hrdesk-be/internal/services"
	"github.com/isdelr/hrdesk-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logCloser, err := logger.Init(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	defer logCloser.Close()

	// Ensure the directory for generated reports exists
	if err := os.MkdirAll(cfg.ReportsPath, 0o755); err != nil {
		log.Fatal().Err(err).Str("path", cfg.ReportsPath).Msg("Failed to create reports directory")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(db, hub)
	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.AccessTokenTTL)
	userService := services.NewUserService(db, auth.NewBcryptHasher(cfg.BcryptCost), codec, eventService)
	departmentService := services.NewDepartmentService(db, eventService)
	employeeService := services.NewEmployeeService(db, eventService)
	reportService := services.NewReportService(db, eventService, cfg.ReportsPath)

	// Set up and run the report retention job
	janitor, err := monitoring.NewReportJanitor(cfg.ReportsPath, cfg.ReportRetention, cfg.ReportCleanupSchedule, eventService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize report janitor")
	}
	janitor.Start()

	// Set up router
	router := api.NewRouter(hub, api.Services{
		Users:       userService,
		Departments: departmentService,
		Employees:   employeeService,
		Reports:     reportService,
		Events:      eventService,
	}, cfg.CORSAllowedOrigins)

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.AppEnv).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	janitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}
