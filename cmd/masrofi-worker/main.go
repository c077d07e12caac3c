package main

import (
	"context"
	"errors"
	"os"
	"time"

	"masrofi/internal/achievements"
	"masrofi/internal/alerts"
	"masrofi/internal/backend"
	"masrofi/internal/cli"
	"masrofi/internal/log"
	"masrofi/internal/services"
	"masrofi/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting masrofi-worker")

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(nil).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize storage", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	store := res.Store

	outbound, amqpClient := cli.Outbound(cfg, logger)

	ach := achievements.NewEngine(store)
	al := alerts.NewEngine(store, outbound)
	svc := services.New(store,
		services.WithNotifier(outbound),
		services.WithActivity(services.NewTracker(ach, al)),
	)

	var deliverer *worker.Deliverer
	if amqpClient != nil {
		deliverer = worker.NewDeliverer(cli.Delivery(cfg), time.Now)
	}
	jobs := worker.NewJobs(svc.Recurring, al, ach, deliverer)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		jobs.Stop(ctx)
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", log.FieldError, err)
			}
		}
		if err := res.Cleanup(); err != nil {
			logger.Error("Storage close error", log.FieldError, err)
		}
	})

	logger.Info("Running startup pass")
	_ = jobs.RunOnce(ctx)

	if err := jobs.Start(ctx, cfg.AlertSchedule); err != nil {
		logger.Error("Failed to schedule worker", log.FieldError, err)
		os.Exit(1)
	}

	if amqpClient != nil {
		go func() {
			err := amqpClient.ConsumeNotifications(ctx, deliverer.HandleNotification)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Notification consumption failed", log.FieldError, err)
			}
		}()
	} else {
		logger.Info("AMQP disabled - notifications are delivered inline")
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
