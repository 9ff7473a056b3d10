package service

import (
	"context"
	"strings"
	"time"

	"github.com/pesona/api/internal/model"
)

// EventRepository defines the interface for cultural event storage
type EventRepository interface {
	Create(ctx context.Context, event *model.CulturalEvent) error
	GetByID(ctx context.Context, id string) (*model.CulturalEvent, error)
	List(ctx context.Context, upcomingOnly bool, limit, offset int) ([]*model.CulturalEvent, error)
	ListByDestination(ctx context.Context, destinationID string) ([]*model.CulturalEvent, error)
	Update(ctx context.Context, event *model.CulturalEvent) error
	Delete(ctx context.Context, id string) error
}

// EventService handles cultural event operations
type EventService struct {
	eventRepo EventRepository
	destRepo  DestinationRepository
}

// NewEventService creates a new event service
func NewEventService(eventRepo EventRepository, destRepo DestinationRepository) *EventService {
	return &EventService{eventRepo: eventRepo, destRepo: destRepo}
}

// EventInput carries the writable fields of a cultural event
type EventInput struct {
	Name          string
	Date          time.Time
	Location      string
	Description   string
	Organizer     *string
	DestinationID *string
}

func (s *EventService) validateInput(ctx context.Context, in EventInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if len(in.Name) > model.MaxDestinationNameLength {
		return ErrNameTooLong
	}
	if in.Date.IsZero() {
		return ErrDateRequired
	}
	if strings.TrimSpace(in.Location) == "" {
		return ErrLocationRequired
	}
	if len(in.Location) > model.MaxLocationLength {
		return ErrLocationTooLong
	}

	// A linked destination must exist
	if in.DestinationID != nil {
		dest, err := s.destRepo.GetByID(ctx, *in.DestinationID)
		if err != nil {
			return err
		}
		if dest == nil {
			return ErrDestinationNotFound
		}
	}
	return nil
}

// Create adds a cultural event to the catalog
func (s *EventService) Create(ctx context.Context, actorID string, in EventInput) (*model.CulturalEvent, error) {
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	event := &model.CulturalEvent{
		Name:          strings.TrimSpace(in.Name),
		Date:          in.Date,
		Location:      strings.TrimSpace(in.Location),
		Description:   in.Description,
		Organizer:     in.Organizer,
		DestinationID: in.DestinationID,
		CreatedBy:     actorID,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Get retrieves a cultural event
func (s *EventService) Get(ctx context.Context, id string) (*model.CulturalEvent, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// List retrieves cultural events ordered by date
func (s *EventService) List(ctx context.Context, upcomingOnly bool, limit, offset int) ([]*model.CulturalEvent, error) {
	limit, offset = clampPage(limit, offset)
	return s.eventRepo.List(ctx, upcomingOnly, limit, offset)
}

// ListByDestination retrieves events tied to a destination
func (s *EventService) ListByDestination(ctx context.Context, destinationID string) ([]*model.CulturalEvent, error) {
	dest, err := s.destRepo.GetByID(ctx, destinationID)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		return nil, ErrDestinationNotFound
	}
	return s.eventRepo.ListByDestination(ctx, destinationID)
}

// Update replaces a cultural event's content
func (s *EventService) Update(ctx context.Context, id string, in EventInput) (*model.CulturalEvent, error) {
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	event.Name = strings.TrimSpace(in.Name)
	event.Date = in.Date
	event.Location = strings.TrimSpace(in.Location)
	event.Description = in.Description
	event.Organizer = in.Organizer
	event.DestinationID = in.DestinationID

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes a cultural event
func (s *EventService) Delete(ctx context.Context, id string) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrEventNotFound
	}
	return s.eventRepo.Delete(ctx, id)
}
