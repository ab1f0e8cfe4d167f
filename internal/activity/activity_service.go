package activity

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const defaultListLimit = 100

//go:generate mockgen -source=activity_service.go -destination=mock/activity_service_mock.go -package=mock
type Service interface {
	Record(ctx context.Context, in RecordInput) error
	List(ctx context.Context, filter ListFilter) ([]ActivityResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("activity.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("activity.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Record(ctx context.Context, in RecordInput) error {
	if strings.TrimSpace(in.EventID) == "" {
		return errors.New("activity event id is required")
	}

	a := &Activity{
		EventID:       in.EventID,
		EventType:     in.EventType,
		AggregateType: in.AggregateType,
		AggregateID:   in.AggregateID,
		ActorCode:     in.ActorCode,
		RequestID:     in.RequestID,
		Payload:       string(in.Payload),
		OccurredAt:    in.OccurredAt.UTC(),
	}

	created, err := s.repo.CreateIfAbsent(ctx, a)
	if err != nil {
		s.logger.Error("record activity failed",
			zap.String("event_id", in.EventID),
			zap.String("event_type", in.EventType),
			zap.Error(err),
		)
		return err
	}
	if !created {
		s.logger.Debug("activity already recorded", zap.String("event_id", in.EventID))
		return nil
	}

	s.logger.Info("activity recorded",
		zap.String("event_id", in.EventID),
		zap.String("event_type", in.EventType),
		zap.String("aggregate_id", in.AggregateID),
	)
	return nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]ActivityResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list activities failed", zap.Error(err))
		return nil, err
	}

	resp := make([]ActivityResponse, len(rows))
	for i, a := range rows {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

func mapToResponse(a Activity) ActivityResponse {
	resp := ActivityResponse{
		ID:            a.ID,
		EventID:       a.EventID,
		EventType:     a.EventType,
		AggregateType: a.AggregateType,
		AggregateID:   a.AggregateID,
		ActorCode:     a.ActorCode,
		RequestID:     a.RequestID,
		OccurredAt:    a.OccurredAt,
	}
	if json.Valid([]byte(a.Payload)) {
		resp.Payload = json.RawMessage(a.Payload)
	}
	return resp
}
