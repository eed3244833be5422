package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jonboulle/clockwork"

	"matchbot/internal/api"
	"matchbot/internal/bot"
	"matchbot/internal/config"
	"matchbot/internal/notify"
	"matchbot/internal/query"
	"matchbot/internal/scheduler"
	"matchbot/internal/snapshot"
	"matchbot/internal/storage"
	"matchbot/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	clock := clockwork.NewRealClock()

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath, clock)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	snapStore, err := snapshot.NewStore(cfg.CacheDir, log)
	if err != nil {
		log.Error("open snapshot store", "dir", cfg.CacheDir, "error", err)
		os.Exit(1)
	}

	client := upstream.NewClient(cfg.PandascoreBaseURL, cfg.PandascoreToken, nil, log)
	refresher := upstream.NewRefresher(client, snapStore, clock, log)
	engine := query.New(snapStore, clock, log)

	b, err := bot.New(cfg.TelegramBotToken, store, engine, clock, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	dispatcher := notify.New(store, engine, b, clock, notify.Config{
		WindowBefore: cfg.NotifyWindowBefore,
		WindowAfter:  cfg.NotifyWindowAfter,
		FetchLimit:   cfg.UpcomingFetchLimit,
		MaxInFlight:  cfg.MaxInFlightSends,
		Retention:    cfg.NotifiedRetention,
	}, log)

	sched := scheduler.New(refresher, dispatcher, log)
	sched.SetIntervals(cfg.RefreshInterval, cfg.DispatchInterval)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.NewServer(engine, snapStore, log).Router(cfg.RateLimitPerMinute),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting bot", "api_addr", cfg.ListenAddr)

	go sched.Run(ctx)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("api server", "error", err)
		}
	}()

	b.Run(ctx)

	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error("shutdown api server", "error", err)
	}

	log.Info("bot stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
