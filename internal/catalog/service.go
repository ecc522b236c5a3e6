package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ms-boxoffice/internal/models"
)

type DBLayer interface {
	CreateEvent(ctx context.Context, event models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
}

// Service owns event and section identity. Events are created once and never
// resized; the only field that changes afterwards is each section's remaining,
// and that belongs to the inventory store.
type Service struct {
	DB DBLayer
}

func NewService(db DBLayer) *Service {
	return &Service{DB: db}
}

func (s *Service) CreateEvent(ctx context.Context, req models.CreateEventRequest) (*models.Event, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: event name is required", models.ErrInvalidInput)
	}
	if len(req.Sections) == 0 {
		return nil, fmt.Errorf("%w: at least one section is required", models.ErrInvalidInput)
	}
	for i, sec := range req.Sections {
		if sec.Name == "" {
			return nil, fmt.Errorf("%w: section %d has no name", models.ErrInvalidInput, i)
		}
		if sec.Capacity < 1 {
			return nil, fmt.Errorf("%w: section %q capacity must be >= 1, got %d",
				models.ErrInvalidInput, sec.Name, sec.Capacity)
		}
		if sec.Price < 0 {
			return nil, fmt.Errorf("%w: section %q price must not be negative", models.ErrInvalidInput, sec.Name)
		}
	}

	event := models.Event{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
		Sections:  make([]models.Section, len(req.Sections)),
	}
	for i, sec := range req.Sections {
		event.Sections[i] = models.Section{
			ID:        uuid.NewString(),
			EventID:   event.ID,
			Name:      sec.Name,
			Price:     sec.Price,
			Capacity:  sec.Capacity,
			Remaining: sec.Capacity,
		}
	}

	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &event, nil
}

func (s *Service) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.DB.GetEvent(ctx, id)
}

func (s *Service) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.DB.ListEvents(ctx)
}
