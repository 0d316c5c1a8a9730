// File: cmd/prefstub/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"telegram-gita-bot/internal/config"
	"telegram-gita-bot/internal/infra/logging"
	"telegram-gita-bot/internal/infra/prefstub"
)

// prefstub serves an in-memory preference service for local runs:
//
//	go run ./cmd/prefstub -addr :8081
//	PREFERENCE_API_URL=http://localhost:8081 go run ./cmd/app -dev
func main() {
	addr := flag.String("addr", ":8081", "listen address")
	flag.Parse()

	_ = godotenv.Load()
	logger := logging.New(config.LogConfig{Level: "debug"}, true)

	user, pass := os.Getenv(config.EnvPreferenceUsername), os.Getenv(config.EnvPreferencePassword)
	if user == "" || pass == "" {
		logger.Fatal().Msgf("%s and %s must be set", config.EnvPreferenceUsername, config.EnvPreferencePassword)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           prefstub.NewServer(user, pass, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", *addr).Msg("preference stub listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("preference stub")
	}
}
