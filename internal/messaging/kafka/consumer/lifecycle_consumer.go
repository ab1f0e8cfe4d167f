package consumer

import (
	"context"
	"time"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/activity"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type ActivityRecorder interface {
	Record(ctx context.Context, in activity.RecordInput) error
}

// ConsumeLifecycle records every employee and report lifecycle event as an
// activity row. Undecodable messages are committed and skipped; recorder
// failures leave the message uncommitted so it is redelivered.
func ConsumeLifecycle(
	ctx context.Context,
	reader MessageReader,
	recorder ActivityRecorder,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.lifecycle")
	log.Info("lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("lifecycle consumer stopped")
				return
			}
			log.Error("fetch lifecycle message failed", zap.Error(err))
			continue
		}

		if err := handleMessage(ctx, msg, recorder, log); err != nil {
			log.Error("record activity failed",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit lifecycle message failed", zap.Error(err))
		}
	}
}

func handleMessage(ctx context.Context, msg kafkago.Message, recorder ActivityRecorder, log *zap.Logger) error {
	env, err := events.DecodeEnvelope(msg.Value)
	if err != nil || env.EventType == "" {
		log.Warn("skip undecodable lifecycle message",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return nil
	}

	eventID := header(msg, "event_id")
	if eventID == "" {
		log.Warn("skip lifecycle message without event id", zap.String("event_type", env.EventType))
		return nil
	}

	occurredAt := msg.Time
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return recorder.Record(ctx, activity.RecordInput{
		EventID:       eventID,
		EventType:     env.EventType,
		AggregateType: header(msg, "aggregate_type"),
		AggregateID:   string(msg.Key),
		ActorCode:     env.ActorCode,
		RequestID:     env.RequestID,
		Payload:       msg.Value,
		OccurredAt:    occurredAt,
	})
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
