package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"labreserva-backend/config"
	"labreserva-backend/internal/api"
	"labreserva-backend/internal/auth"
	"labreserva-backend/internal/db"
	"labreserva-backend/internal/model"
	"labreserva-backend/internal/store"
)

func main() {
	// A .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %s: %v\n", configPath, err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	logger.Info().Str("path", configPath).Msg("configuration loaded")

	gormDB, err := db.Init(&cfg.Database, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}

	appStore := store.NewGormStore(gormDB)
	logger.Info().Msg("data store initialized")

	if err := seedAdmin(context.Background(), appStore, cfg.Admin, &logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed administrator account")
	}

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	router := api.NewRouter(appStore, tokens, &cfg.Server, &logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server ListenAndServe")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Info().Msg("shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("HTTP server shutdown")
	}

	logger.Info().Msg("server gracefully stopped")
}

// newLogger builds the zerolog logger from config. Defaults to JSON at info
// level on stdout.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && cfg.Level != "" {
		level = parsed
	}

	var logger zerolog.Logger
	if strings.EqualFold(cfg.Format, "console") {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Str("service", "labreserva").Logger()
}

// seedAdmin creates the bootstrap administrator unless an account with the
// configured email already exists.
func seedAdmin(ctx context.Context, s store.Store, cfg config.AdminConfig, logger *zerolog.Logger) error {
	if _, err := s.UserByEmail(ctx, cfg.Email); err == nil {
		logger.Debug().Str("email", cfg.Email).Msg("administrator account already exists")
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if cfg.Password == "" {
		return fmt.Errorf("no administrator exists and admin.password is not configured")
	}

	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := model.User{
		Nome:  cfg.Nome,
		Email: cfg.Email,
		Senha: hash,
		Tipo:  model.TipoAdmin,
	}
	if err := s.CreateUser(ctx, &admin); err != nil {
		return err
	}

	logger.Info().Str("email", cfg.Email).Msg("administrator account created")
	return nil
}
