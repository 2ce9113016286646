package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/netutil"

	httpadapter "botwatch/internal/adapters/http"
	pg "botwatch/internal/adapters/postgres"
	"botwatch/internal/config"
	"botwatch/internal/logging"
	"botwatch/internal/ports"
	"botwatch/internal/services/botscore"
	profsvc "botwatch/internal/services/profiles"
	"botwatch/internal/workers/scorerunner"
)

func main() {
	cfg, err := config.Load()
	logger := logging.NewLoggerWithService("botwatch", cfg.LogLevel)
	if err != nil {
		logger.WithError(err).Warn("config")
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required for Postgres adapters")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := pg.Connect(ctx, cfg.DatabaseURL, pg.Options{MaxConns: cfg.DBMaxConns, MaxRetries: cfg.StoreMaxRetries})
	if err != nil {
		logger.WithError(err).Fatal("db connect error")
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx); err != nil {
			logger.WithError(err).Fatal("db migrate error")
		}
	}

	// Wire repositories to services (ports)
	var _ ports.AccountRepository = db
	var _ ports.PostRepository = db
	var _ ports.EventRepository = db
	var _ ports.RunRepository = db

	scorer := botscore.New(db, db, db, db, botscore.Options{
		DefaultLimit: cfg.ScoreDefaultLimit,
		MaxLimit:     cfg.ScoreMaxLimit,
		Workers:      cfg.ScoreWorkers,
		Logger:       logger,
	})
	profiles := profsvc.New(db)

	srv := httpadapter.New(scorer, profiles, logger)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	if cfg.ScoreTimerEnabled {
		go scorerunner.Run(ctx, scorer, cfg.ScoreInterval, logger)
		logger.WithField("interval", cfg.ScoreInterval.String()).Info("bot score timer started")
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		logger.WithError(err).Fatal("listen error")
	}
	if cfg.HTTPMaxConns > 0 {
		ln = netutil.LimitListener(ln, cfg.HTTPMaxConns)
	}
	httpSrv := &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()
	logger.WithField("addr", cfg.ListenAddr).Info("listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
		cancel()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("http shutdown")
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Errorf("server error: %w", err))
		}
	}
}
