// Command auditor consumes film change events and appends one line per
// event to the audit log.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/film-archive-api/internal/config"
	"github.com/iliyamo/film-archive-api/internal/logger"
	"github.com/iliyamo/film-archive-api/internal/queue"
)

func main() {
	_ = godotenv.Load()
	log := logger.New(os.Getenv("LOG_LEVEL"), false)

	qcfg := config.LoadQueueConfig()
	if qcfg.URL == "" {
		log.Fatal("RABBITMQ_URL is required")
	}
	path := os.Getenv("AUDIT_LOG_PATH")
	if path == "" {
		path = "logs/film_audit.log"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &queue.AuditConsumer{URL: qcfg.URL, Queue: qcfg.Queue, LogPath: path, Log: log}
	log.WithFields(logrus.Fields{"queue": qcfg.Queue, "file": path}).Info("auditor started")
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("auditor stopped")
	}
	log.Info("auditor stopped")
}
