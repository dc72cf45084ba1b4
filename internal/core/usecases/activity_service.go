package usecases

import (
	"context"
	"log/slog"

	"github.com/geofieldx/geofieldx/internal/core/domain"
	"github.com/geofieldx/geofieldx/internal/core/ports"
)

// ActivityService consumes domain events off the bus and keeps team and user
// last-active timestamps fresh. It runs in the worker binary, not in the API.
type ActivityService struct {
	subscriber ports.EventSubscriber
	teams      ports.TeamRepository
	users      ports.UserRepository
	logger     *slog.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(subscriber ports.EventSubscriber, teams ports.TeamRepository, users ports.UserRepository, logger *slog.Logger) *ActivityService {
	return &ActivityService{subscriber: subscriber, teams: teams, users: users, logger: logger}
}

// Start attaches the event handlers. Blocks only on subscription setup;
// message delivery happens on broker callbacks until ctx is cancelled.
func (s *ActivityService) Start(ctx context.Context) error {
	if err := s.subscriber.SubscribeFeatureEvents(ctx, s.onFeatureEvent); err != nil {
		return err
	}
	if err := s.subscriber.SubscribeTaskEvents(ctx, s.onTaskEvent); err != nil {
		return err
	}
	return s.subscriber.SubscribeShapefileEvents(ctx, s.onShapefileEvent)
}

func (s *ActivityService) onFeatureEvent(ctx context.Context, ev *domain.FeatureEvent) error {
	if ev.Feature == nil {
		return nil
	}
	if ev.Feature.TeamID != nil {
		if err := s.teams.TouchActivity(ctx, *ev.Feature.TeamID); err != nil {
			s.logger.Warn("touch team activity", "team_id", *ev.Feature.TeamID, "error", err)
		}
	}
	if ev.Feature.CreatedBy != "" {
		if err := s.users.TouchActivity(ctx, ev.Feature.CreatedBy); err != nil {
			s.logger.Warn("touch user activity", "user_id", ev.Feature.CreatedBy, "error", err)
		}
	}
	s.logger.Info("feature event processed",
		"action", ev.Action, "feature_id", ev.Feature.ID, "type", ev.Feature.Type)
	return nil
}

func (s *ActivityService) onTaskEvent(ctx context.Context, ev *domain.TaskEvent) error {
	if ev.Task == nil {
		return nil
	}
	if ev.Task.TeamID != nil {
		if err := s.teams.TouchActivity(ctx, *ev.Task.TeamID); err != nil {
			s.logger.Warn("touch team activity", "team_id", *ev.Task.TeamID, "error", err)
		}
	}
	if ev.Task.AssigneeID != nil {
		if err := s.users.TouchActivity(ctx, *ev.Task.AssigneeID); err != nil {
			s.logger.Warn("touch user activity", "user_id", *ev.Task.AssigneeID, "error", err)
		}
	}
	s.logger.Info("task event processed",
		"action", ev.Action, "task_id", ev.Task.ID, "status", ev.Task.Status)
	return nil
}

func (s *ActivityService) onShapefileEvent(ctx context.Context, ev *domain.ShapefileEvent) error {
	if ev.TeamID != nil {
		if err := s.teams.TouchActivity(ctx, *ev.TeamID); err != nil {
			s.logger.Warn("touch team activity", "team_id", *ev.TeamID, "error", err)
		}
	}
	s.logger.Info("shapefile imported", "shapefile_id", ev.ID, "features", ev.FeatureCount)
	return nil
}
