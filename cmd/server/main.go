package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"crypto-rush/internal/config"
	"crypto-rush/internal/leaderboard"
	"crypto-rush/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	store, err := leaderboard.New(cfg.Database.Path, logger)
	if err != nil {
		logger.Fatal("open leaderboard store", zap.Error(err))
	}
	defer store.Close()

	srv := server.New(cfg, store, logger)

	scheduler := cron.New()
	if cfg.Leaderboard.PruneCron != "" {
		retention := time.Duration(cfg.Leaderboard.RetentionDays) * 24 * time.Hour
		_, err := scheduler.AddFunc(cfg.Leaderboard.PruneCron, func() {
			cutoff := time.Now().Add(-retention)
			pruned, err := store.PruneOlderThan(cutoff)
			if err != nil {
				logger.Error("prune leaderboard", zap.Error(err))
				return
			}
			logger.Info("pruned leaderboard",
				zap.Int64("rows", pruned),
				zap.Time("cutoff", cutoff))
		})
		if err != nil {
			logger.Fatal("schedule prune job", zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
	logger.Info("goodbye")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
