package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/config"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/messaging/kafka"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/messaging/kafka/producer"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker publishes outbox rows to Kafka until SIGINT or SIGTERM.
func RunWorker(cfg config.Config, logger *zap.Logger) error {
	logger = logger.Named("app.worker")

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	_, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.ConnectMaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, logger, cfg.OutboxPollInterval)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()
	<-done

	return nil
}
