package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yourusername/matchboard/internal/database"
	"github.com/yourusername/matchboard/internal/health"
	"github.com/yourusername/matchboard/internal/metrics"
	"github.com/yourusername/matchboard/internal/repository"
	"github.com/yourusername/matchboard/internal/scheduler"
	"github.com/yourusername/matchboard/internal/selector"
	"github.com/yourusername/matchboard/internal/service"
	"github.com/yourusername/matchboard/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(parent context.Context) error {
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Matchboard dashboard starting")

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	db, err := database.Initialize(initCtx, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	sel := selector.New(selector.Options{MinOdds: cfg.ValueBets.MinOdds})
	svc := service.NewDashboardService(repos, sel, cfg.CacheTTL(), appLog)
	feed := web.NewFeed(appLog)
	checker := health.NewChecker(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		DB:          db,
	})

	server := web.NewServer(web.Config{
		Addr:               cfg.GetServerAddress(),
		ReadTimeout:        time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:       time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		RateLimitPerSecond: cfg.Server.RateLimitPerSecond,
		RateLimitBurst:     cfg.Server.RateLimitBurst,
		MetricsEnabled:     cfg.Metrics.Enabled,
		MetricsPath:        cfg.Metrics.Path,
		Service:            svc,
		Health:             checker,
		Feed:               feed,
		Logger:             appLog,
	})

	var sched *scheduler.Scheduler
	if cfg.ValueBets.RefreshSchedule != "" {
		sched = scheduler.NewScheduler(svc, feed, appLog)
		if err := sched.ScheduleRefresh(cfg.ValueBets.RefreshSchedule); err != nil {
			return fmt.Errorf("failed to schedule refresh: %w", err)
		}
		sched.RunRefresh(ctx, "startup")
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	checker.SetReady(true)
	appLog.WithFields(logrus.Fields{
		"addr":             cfg.GetServerAddress(),
		"min_odds":         sel.MinOdds(),
		"cache_ttl":        cfg.CacheTTL().String(),
		"refresh_schedule": cfg.ValueBets.RefreshSchedule,
	}).Info("Dashboard is running")

	<-ctx.Done()
	appLog.Info("Shutdown signal received")
	checker.SetReady(false)

	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Failed to stop scheduler")
		}
	}
	if err := server.Shutdown(); err != nil {
		appLog.WithError(err).Error("Failed to shut down server")
	}

	appLog.Info("Dashboard stopped")
	return nil
}
