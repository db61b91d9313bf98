package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"defight/internal/arena"
	"defight/internal/combat"
	"defight/internal/config"
	"defight/internal/logging"
	"defight/internal/notify"
	"defight/internal/store"
	"defight/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("config: %v", err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		config.Exitf("logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	rules := combat.DefaultRules()
	if cfg.RulesPath != "" {
		r, err := combat.LoadRules(cfg.RulesPath)
		if err != nil {
			return err
		}
		rules = r
	}

	svc := &arena.Service{Rules: rules, Log: log}
	if cfg.DBPath != "" {
		db, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		svc.Duels = store.Bucket[arena.Record](db, "duels")
		svc.Stats = store.Bucket[arena.AccountStats](db, "stats")
		svc.Active = store.Bucket[string](db, "active")
		log.Info("using sqlite store", zap.String("path", cfg.DBPath))
	} else {
		svc.Duels = store.NewMemoryStore[arena.Record]()
		svc.Stats = store.NewMemoryStore[arena.AccountStats]()
		svc.Active = store.NewMemoryStore[string]()
		log.Info("using in-memory store")
	}

	if cfg.RedisAddr != "" {
		pub, err := notify.NewRedisPublisher(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer pub.Close()
		svc.Publisher = pub
		log.Info("publishing duel results", zap.String("redis", cfg.RedisAddr))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           (&web.Server{Arena: svc, Log: log}).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
