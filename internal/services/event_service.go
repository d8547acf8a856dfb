package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/credential-api/internal/models"
)

// EventRepository is the storage the event service needs.
type EventRepository interface {
	Insert(ctx context.Context, event *models.Event) error
	Recent(ctx context.Context, limit int) ([]models.Event, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, message, username string) error
	GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error)
	PruneEvents(ctx context.Context, olderThan time.Duration) (int64, error)
}

// EventService provides business logic for the audit trail.
type EventService struct {
	repo    EventRepository
	timeout time.Duration
	now     func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(repo EventRepository, timeout time.Duration) *EventService {
	return &EventService{repo: repo, timeout: timeout, now: time.Now}
}

// CreateEvent stores a new event.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, message, username string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.repo.Insert(ctx, &models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		Username:  username,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	})
}

// GetRecentEvents retrieves the most recent events.
func (s *EventService) GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.repo.Recent(ctx, limit)
}

// PruneEvents deletes events older than olderThan.
func (s *EventService) PruneEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.repo.DeleteOlderThan(ctx, s.now().Add(-olderThan))
}
