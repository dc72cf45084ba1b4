package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/geofieldx/geofieldx/internal/core/domain"
	"github.com/geofieldx/geofieldx/internal/core/ports"
	"github.com/geofieldx/geofieldx/internal/pkg/metrics"
)

// CreateTaskInput is a task creation request.
type CreateTaskInput struct {
	Title       string           `json:"title" validate:"required,max=200"`
	Description string           `json:"description" validate:"max=5000"`
	Priority    string           `json:"priority" validate:"required"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	TeamID      *string          `json:"team_id,omitempty" validate:"omitempty,uuid4"`
	AssigneeID  *string          `json:"assignee_id,omitempty" validate:"omitempty,uuid4"`
	Location    *domain.GeoPoint `json:"location,omitempty"`
	FeatureID   *string          `json:"feature_id,omitempty" validate:"omitempty,uuid4"`
}

// allowedTaskTransitions encodes the task workflow. Cancelled and done are
// terminal except for reopening a cancelled task.
var allowedTaskTransitions = map[domain.TaskStatus][]domain.TaskStatus{
	domain.TaskOpen:       {domain.TaskInProgress, domain.TaskCancelled},
	domain.TaskInProgress: {domain.TaskReview, domain.TaskOpen, domain.TaskCancelled},
	domain.TaskReview:     {domain.TaskDone, domain.TaskInProgress},
	domain.TaskCancelled:  {domain.TaskOpen},
}

// TaskService handles field-task business logic.
type TaskService struct {
	tasks     ports.TaskRepository
	publisher ports.EventPublisher
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks ports.TaskRepository, publisher ports.EventPublisher) *TaskService {
	return &TaskService{tasks: tasks, publisher: publisher}
}

// Create validates and persists a new task.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput, createdBy string) (*domain.Task, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}
	priority := domain.TaskPriority(in.Priority)
	if !domain.ValidTaskPriority(priority) {
		return nil, fmt.Errorf("unknown priority %q", in.Priority)
	}
	if in.DueDate != nil && in.DueDate.Before(time.Now()) {
		return nil, fmt.Errorf("due date is in the past")
	}

	t := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.TaskOpen,
		Priority:    priority,
		DueDate:     in.DueDate,
		TeamID:      in.TeamID,
		AssigneeID:  in.AssigneeID,
		Location:    in.Location,
		FeatureID:   in.FeatureID,
		CreatedBy:   createdBy,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	metrics.TasksCreated.WithLabelValues(string(priority)).Inc()
	if s.publisher != nil {
		_ = s.publisher.PublishTaskEvent(ctx, &domain.TaskEvent{Action: "created", Task: t})
	}
	return t, nil
}

// SetStatus moves a task along its workflow, rejecting illegal jumps.
func (s *TaskService) SetStatus(ctx context.Context, id string, next domain.TaskStatus) (*domain.Task, error) {
	if !domain.ValidTaskStatus(next) {
		return nil, fmt.Errorf("unknown status %q", next)
	}

	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	legal := false
	for _, allowed := range allowedTaskTransitions[t.Status] {
		if allowed == next {
			legal = true
			break
		}
	}
	if !legal {
		return nil, fmt.Errorf("cannot move task from %s to %s", t.Status, next)
	}

	if err := s.tasks.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	t.Status = next

	metrics.TaskStatusChanges.WithLabelValues(string(next)).Inc()
	if s.publisher != nil {
		_ = s.publisher.PublishTaskEvent(ctx, &domain.TaskEvent{Action: "status_changed", Task: t})
	}
	return t, nil
}

// Assign hands a task to a team and optionally a specific user.
func (s *TaskService) Assign(ctx context.Context, id string, teamID, assigneeID *string) (*domain.Task, error) {
	if teamID == nil && assigneeID != nil {
		return nil, fmt.Errorf("cannot assign a user without a team")
	}
	if err := s.tasks.Assign(ctx, id, teamID, assigneeID); err != nil {
		return nil, err
	}

	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.publisher != nil {
		_ = s.publisher.PublishTaskEvent(ctx, &domain.TaskEvent{Action: "assigned", Task: t})
	}
	return t, nil
}

// Update rewrites a task's editable fields.
func (s *TaskService) Update(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	if !domain.ValidTaskStatus(t.Status) {
		return nil, fmt.Errorf("unknown status %q", t.Status)
	}
	if !domain.ValidTaskPriority(t.Priority) {
		return nil, fmt.Errorf("unknown priority %q", t.Priority)
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	if s.publisher != nil {
		_ = s.publisher.PublishTaskEvent(ctx, &domain.TaskEvent{Action: "updated", Task: t})
	}
	return t, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}

// GetByID returns a single task.
func (s *TaskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// List returns tasks matching a filter plus the unpaged total.
func (s *TaskService) List(ctx context.Context, filter ports.TaskFilter) ([]domain.Task, int, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.tasks.List(ctx, filter)
}
