package producer

import (
	"context"
	"errors"
	"testing"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/messaging/kafka"
	kafkaMock "github.com/yutaorii/saisyuukadaiteisyutu/internal/messaging/kafka/mock"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func outboxEvent(id, eventType string) kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:            id,
		RequestID:     "rid-" + id,
		AggregateType: "report",
		AggregateID:   "42",
		EventType:     eventType,
		Topic:         "dailyreport.report.lifecycle.v1",
		Payload:       []byte(`{"event_type":"` + eventType + `"}`),
		Status:        kafka.OutboxStatusPending,
	}
}

func TestProcessPendingEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and marks each event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &mockWriter{}

		repo.EXPECT().ListPending(ctx, batchSize).Return([]kafka.OutboxEvent{
			outboxEvent("o1", "report_created"),
			outboxEvent("o2", "report_deleted"),
		}, nil)
		writer.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafkago.Message) bool {
			return len(msgs) == 1 && string(msgs[0].Key) == "42"
		})).Return(nil).Twice()
		repo.EXPECT().MarkSent(ctx, "o1").Return(nil)
		repo.EXPECT().MarkSent(ctx, "o2").Return(nil)

		sent, err := processPendingEvents(ctx, repo, writer, zaptest.NewLogger(t))

		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		writer.AssertExpectations(t)
	})

	t.Run("headers carry the routing metadata", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &mockWriter{}

		repo.EXPECT().ListPending(ctx, batchSize).Return([]kafka.OutboxEvent{outboxEvent("o1", "report_created")}, nil)
		writer.On("WriteMessages", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
			msg := args.Get(1).([]kafkago.Message)[0]
			headers := map[string]string{}
			for _, h := range msg.Headers {
				headers[h.Key] = string(h.Value)
			}
			assert.Equal(t, "o1", headers["event_id"])
			assert.Equal(t, "report", headers["aggregate_type"])
			assert.Equal(t, "report_created", headers["event_type"])
			assert.Equal(t, "dailyreport.report.lifecycle.v1", msg.Topic)
		})
		repo.EXPECT().MarkSent(ctx, "o1").Return(nil)

		_, err := processPendingEvents(ctx, repo, writer, zaptest.NewLogger(t))
		require.NoError(t, err)
	})

	t.Run("write failure marks the row failed and continues", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &mockWriter{}

		repo.EXPECT().ListPending(ctx, batchSize).Return([]kafka.OutboxEvent{
			outboxEvent("o1", "report_created"),
			outboxEvent("o2", "report_updated"),
		}, nil)
		writer.On("WriteMessages", ctx, mock.Anything).Return(errors.New("broker down")).Once()
		writer.On("WriteMessages", ctx, mock.Anything).Return(nil).Once()
		repo.EXPECT().MarkFailed(ctx, "o1", "broker down").Return(nil)
		repo.EXPECT().MarkSent(ctx, "o2").Return(nil)

		sent, err := processPendingEvents(ctx, repo, writer, zaptest.NewLogger(t))

		require.NoError(t, err)
		assert.Equal(t, 1, sent)
	})

	t.Run("list failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)

		repo.EXPECT().ListPending(ctx, batchSize).Return(nil, errors.New("db down"))

		_, err := processPendingEvents(ctx, repo, &mockWriter{}, zaptest.NewLogger(t))
		assert.Error(t, err)
	})
}

func TestProcessOutboxEvents_StopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		ProcessOutboxEvents(ctx, repo, &mockWriter{}, zaptest.NewLogger(t), 0)
		close(done)
	}()
	<-done
}
