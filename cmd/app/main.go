// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-gita-bot/internal/application"
	"telegram-gita-bot/internal/config"
	"telegram-gita-bot/internal/infra/adapters/content"
	"telegram-gita-bot/internal/infra/adapters/preference"
	tele "telegram-gita-bot/internal/infra/adapters/telegram"
	httpapi "telegram-gita-bot/internal/infra/http"
	"telegram-gita-bot/internal/infra/i18n"
	"telegram-gita-bot/internal/infra/logging"
	"telegram-gita-bot/internal/infra/metrics"
	red "telegram-gita-bot/internal/infra/redis"
	"telegram-gita-bot/internal/infra/scheduler"
	"telegram-gita-bot/internal/infra/worker"
	"telegram-gita-bot/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted usernames)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister(nil)
	metrics.SetBuildInfo(version, commit)

	// ---- Redis (optional) ----
	var (
		rateLimiter tele.RateLimiter
		verseCache  content.VerseCache
	)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		rateLimiter = red.NewRateLimiter(redisClient)
		verseCache = red.NewVerseCache(redisClient, cfg.Redis.TTL)
		logger.Info().Msg("redis enabled: rate limiting and verse cache")
	}

	// ---- Remote services ----
	prefStore, err := preference.NewHTTPStore(cfg.Preference.URL, cfg.Preference.Username, cfg.Preference.Password, cfg.Preference.HTTPTimeout, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("preference store")
	}
	gita, err := content.NewGitaAPI(cfg.Content.URL, cfg.Content.AudioDir, cfg.Content.HTTPTimeout, verseCache, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("content service")
	}

	// ---- Use cases ----
	scheduleUC := usecase.NewScheduleUseCase(prefStore, logger, cfg.Runtime.Dev)
	verseUC := usecase.NewVerseUseCase(gita, logger)

	// ---- Facade ----
	translator, err := i18n.NewTranslator(i18n.LocalesFS, i18n.DefaultLang)
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}
	facade := application.NewBotFacade(scheduleUC, verseUC, translator, logger)

	// ---- Audio janitor ----
	janitor := scheduler.NewScheduler(cfg.Janitor.Interval, scheduler.NewAudioJanitor(gita.AudioDir(), content.AudioExt, cfg.Janitor.MaxAge), logger)
	janitor.Start(ctx)
	defer janitor.Stop()

	// ---- Ops HTTP server ----
	ops := httpapi.NewServer(cfg.Ops.Port, nil, logger)
	go func() {
		if err := ops.Start(); err != nil {
			logger.Error().Err(err).Msg("ops server error")
		}
	}()
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := ops.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("ops server shutdown")
		}
	}()

	// ---- Telegram ----
	switch {
	case cfg.Bot.IsNoop():
		// Commands are read from stdin and replies written to stdout.
		noop := tele.NewNoopBotAdapter(logger, os.Stdout)
		dispatcher := tele.NewDispatcher(facade, noop, rateLimiter, cfg.Bot.RateLimit, logger)
		user := &tgbotapi.User{ID: 1, UserName: "console"}
		logger.Info().Msg("bot.mode=noop: reading commands from stdin")
		if err := tele.RunConsole(ctx, os.Stdin, 1, user, dispatcher); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("console stopped")
		}
	default:
		if !cfg.Bot.IsPolling() {
			logger.Warn().Str("mode", cfg.Bot.Mode).Msg("unknown bot.mode; falling back to polling")
		}
		bot, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram")
		}
		dispatcher := tele.NewDispatcher(facade, bot, rateLimiter, cfg.Bot.RateLimit, logger)

		pool := worker.NewPool(cfg.Bot.Workers, logger)
		pool.Start(ctx)
		defer pool.Stop()

		if err := bot.StartPolling(ctx, pool, dispatcher); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}

	logger.Info().Msg("shutdown requested")
}
