package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"masrofi/internal/achievements"
	"masrofi/internal/ai"
	"masrofi/internal/alerts"
	"masrofi/internal/analysis"
	"masrofi/internal/backend"
	"masrofi/internal/backup"
	"masrofi/internal/backup/gdrive"
	"masrofi/internal/cli"
	apphttp "masrofi/internal/http"
	"masrofi/internal/log"
	"masrofi/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	bootCtx := context.Background()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(nil).CreateBackend(bootCtx, backendCfg)
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
	backups := backup.NewService(store, cfg.AppVersion, time.Now)

	var cloud *gdrive.Client
	if cfg.DriveEnabled() {
		creds, err := cfg.ServiceAccountCredentials()
		if err == nil {
			cloud, err = gdrive.New(bootCtx, creds, cfg.GoogleDriveFolderID, backups, store)
		}
		if err != nil {
			logger.Warn("Cloud backup disabled", log.FieldError, err)
			cloud = nil
		} else {
			logger.Info("Cloud backup enabled", "folder_id", cfg.GoogleDriveFolderID)
		}
	}

	srv := apphttp.NewServer(apphttp.Config{
		Addr:              ":" + cfg.Port,
		RequestsPerMinute: cfg.RateLimitRPM,
		TrustedProxies:    cfg.TrustedProxies,
	}, apphttp.Deps{
		Store:        store,
		Services:     svc,
		Analysis:     analysis.NewService(store, time.Now),
		Alerts:       al,
		Achievements: ach,
		Backup:       backups,
		Cloud:        cloud,
		AI:           ai.NewClient(cfg.AIAPIURL, cfg.AITimeout, store, ach),
	})

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", log.FieldError, err)
			}
		}
		if err := res.Cleanup(); err != nil {
			logger.Error("Storage close error", log.FieldError, err)
		}
	})

	logger.Info("Starting masrofi server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"version", cfg.AppVersion,
		"ai_remote", cfg.AIAPIURL != "")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
