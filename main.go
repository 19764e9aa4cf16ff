package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"llamaflow/collector"
	"llamaflow/config"
	"llamaflow/logger"
	"llamaflow/reader/llama"
	"llamaflow/writer"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	if cfg.Logging.DashboardName != "" {
		logger.InitCloudWatch(cfg.Storage.S3.Region, "", cfg.Logging.DashboardName)
	}

	log.WithFields(logger.Fields{
		"service": cfg.Llamaflow.Name,
		"version": cfg.Llamaflow.Version,
	}).Info("starting llamaflow")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := llama.NewClient(cfg)
	snapshotWriter, err := writer.NewSnapshotWriter(cfg)
	if err != nil {
		log.WithError(err).Error("failed to create snapshot writer")
		os.Exit(1)
	}

	if cfg.Schedule == "" {
		collectOnce(ctx, cfg, client, snapshotWriter, log)
		return
	}

	cr := cron.New()
	if _, err := cr.AddFunc(cfg.Schedule, func() {
		collectOnce(ctx, cfg, client, snapshotWriter, log)
	}); err != nil {
		log.WithError(err).Error("invalid schedule expression")
		os.Exit(1)
	}
	cr.Start()
	log.WithFields(logger.Fields{"schedule": cfg.Schedule}).Info("scheduler started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.WithFields(logger.Fields{"signal": sig.String()}).Info("shutdown signal received")
	cancel()
	<-cr.Stop().Done()
	log.Info("llamaflow stopped")
}

// collectOnce runs one full collection and prints the resulting summary.
// Errors escaping the run are caught here once; the process continues (or
// exits cleanly) without a distinguished exit code.
func collectOnce(ctx context.Context, cfg *config.Config, client *llama.Client, w *writer.SnapshotWriter, log *logger.Log) {
	run := collector.New(cfg, client, w)
	summary, err := run.Run(ctx)
	if err != nil {
		log.WithError(err).Error("error in collection run")
		logger.ReportRun(ctx, log)
		return
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.WithError(err).Error("failed to encode summary")
		return
	}
	fmt.Println("Data fetching summary:")
	fmt.Println(string(out))

	logger.ReportRun(ctx, log)
}
