package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/activity"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/config"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/events"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const activityConsumerGroup = "dailyreport-activity"

// RunConsumer records lifecycle events as activities until SIGINT or
// SIGTERM.
func RunConsumer(cfg config.Config, logger *zap.Logger) error {
	logger = logger.Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	gormDB, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	activityService := activity.NewService(activity.NewRepository(gormDB), logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		GroupID:        activityConsumerGroup,
		GroupTopics:    []string{events.EmployeeLifecycleTopic, events.ReportLifecycleTopic},
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.ConsumeLifecycle(ctx, reader, activityService, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	<-done

	return nil
}
