package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gatelog/internal/config"
	"gatelog/internal/db"
	"gatelog/internal/gatelog/service"
	"gatelog/internal/gatelog/store"
	"gatelog/internal/gatelog/store/memory"
	"gatelog/internal/gatelog/store/postgres"
	sqlitestore "gatelog/internal/gatelog/store/sqlite"
	"gatelog/internal/httpapi"
	"gatelog/internal/hub"
	"gatelog/internal/logging"
	"gatelog/internal/notify"
)

func main() {
	configPath := flag.String("config", os.Getenv("GATELOG_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, allowList, cleanup, err := openStores(ctx, cfg.Storage)
	if err != nil {
		logger.Error("open stores", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	// Broadcast hub
	h := hub.New(logger)
	go h.Run(ctx)

	// Alert notifier
	sender, err := buildSender(cfg.Alerts, logger)
	if err != nil {
		logger.Error("alert transport", "err", err)
		os.Exit(1)
	}
	notifier := notify.New(sender, logger, cfg.Alerts.QueueSize)
	go notifier.Run(ctx)

	// Services
	authorizer := service.NewAuthorizer(allowList)
	ingestSvc := service.NewIngestService(authorizer, events, h, notifier, logger)
	querySvc := service.NewQueryService(events)
	allowSvc := service.NewAllowListService(allowList)

	seedAllowList(ctx, allowSvc, cfg.Seed, logger)

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:     logger,
		Addr:       cfg.HTTPAddr,
		Ingest:     ingestSvc,
		Query:      querySvc,
		AllowList:  allowSvc,
		Hub:        h,
		SendBuffer: cfg.Hub.SendBuffer,
	})

	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "storage", cfg.Storage.Driver, "alerts", cfg.Alerts.Transport)
		if err := srv.Start(); err != nil {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg config.StorageConfig) (store.AccessLogStore, store.AuthorizationStore, func(), error) {
	switch strings.ToLower(cfg.Driver) {
	case "sqlite":
		conn, err := db.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		writer := db.NewWorker(conn)
		cleanup := func() {
			writer.Close()
			_ = conn.Close()
		}
		return sqlitestore.NewAccessLogStore(conn, writer),
			sqlitestore.NewAuthorizationStore(conn, writer), cleanup, nil

	case "postgres", "postgresql":
		conn, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		cleanup := func() { _ = conn.Close() }
		return postgres.NewAccessLogStore(conn),
			postgres.NewAuthorizationStore(conn), cleanup, nil

	default: // memory
		auth := memory.NewAuthorizationStore()
		return memory.NewAccessLogStore(auth), auth, func() {}, nil
	}
}

func buildSender(cfg config.AlertsConfig, logger *slog.Logger) (notify.Sender, error) {
	switch strings.ToLower(cfg.Transport) {
	case "line":
		return notify.NewLineSender(cfg.Line.Endpoint, cfg.Line.Token, cfg.Line.Recipient), nil
	case "kafka":
		return notify.NewKafkaSender(cfg.Kafka.Brokers, cfg.Kafka.Topic), nil
	case "log":
		return notify.NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown alert transport %q", cfg.Transport)
	}
}

// seedAllowList pre-populates the allow-list from config.  Existing
// entries win; a failed seed is logged and skipped.
func seedAllowList(ctx context.Context, svc *service.AllowListService, entries []config.SeedEntry, logger *slog.Logger) {
	for _, e := range entries {
		if err := svc.Add(ctx, e.UID, e.Username); err != nil {
			logger.Warn("seed allow-list entry", "uid", e.UID, "err", err)
		}
	}
}
