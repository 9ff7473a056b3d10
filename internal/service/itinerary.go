package service

import (
	"context"
	"sort"
	"strings"

	"github.com/pesona/api/internal/model"
)

// ItineraryRepository defines the interface for itinerary storage
type ItineraryRepository interface {
	Create(ctx context.Context, itin *model.Itinerary) error
	GetByID(ctx context.Context, id string) (*model.Itinerary, error)
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*model.Itinerary, error)
	ListPublic(ctx context.Context, limit, offset int) ([]*model.Itinerary, error)
	Update(ctx context.Context, itin *model.Itinerary) error
	SetVisibility(ctx context.Context, id string, visibility model.ItineraryVisibility) error
	Delete(ctx context.Context, id string) error
}

// ItineraryService handles itinerary operations
type ItineraryService struct {
	itinRepo ItineraryRepository
	destRepo DestinationRepository
}

// NewItineraryService creates a new itinerary service
func NewItineraryService(itinRepo ItineraryRepository, destRepo DestinationRepository) *ItineraryService {
	return &ItineraryService{itinRepo: itinRepo, destRepo: destRepo}
}

// StopInput is one stop in an itinerary submission
type StopInput struct {
	DestinationID string
	Note          *string
}

// ItineraryInput carries the writable fields of an itinerary
type ItineraryInput struct {
	Title       string
	Description *string
	Stops       []StopInput
	Visibility  model.ItineraryVisibility
}

func (s *ItineraryService) validateInput(ctx context.Context, in ItineraryInput) ([]model.ItineraryStop, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}
	if len(in.Title) > model.MaxItineraryTitleLength {
		return nil, ErrTitleTooLong
	}
	if len(in.Stops) == 0 {
		return nil, ErrNoStops
	}
	if len(in.Stops) > model.MaxItineraryStops {
		return nil, ErrTooManyStops
	}
	if in.Visibility != "" && !in.Visibility.IsValid() {
		return nil, ErrInvalidVisibility
	}

	// Positions are assigned from submission order, so they always come
	// out dense and zero-based.
	stops := make([]model.ItineraryStop, 0, len(in.Stops))
	for i, stop := range in.Stops {
		if stop.Note != nil && len(*stop.Note) > model.MaxStopNoteLength {
			return nil, ErrStopNoteTooLong
		}
		dest, err := s.destRepo.GetByID(ctx, stop.DestinationID)
		if err != nil {
			return nil, err
		}
		if dest == nil {
			return nil, ErrDestinationNotFound
		}
		stops = append(stops, model.ItineraryStop{
			Position:      i,
			DestinationID: dest.ID,
			Note:          stop.Note,
		})
	}
	return stops, nil
}

// Create stores a new itinerary. Visibility defaults to private.
func (s *ItineraryService) Create(ctx context.Context, authorID string, in ItineraryInput) (*model.Itinerary, error) {
	stops, err := s.validateInput(ctx, in)
	if err != nil {
		return nil, err
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = model.VisibilityPrivate
	}

	itin := &model.Itinerary{
		AuthorID:    authorID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Stops:       stops,
		Visibility:  visibility,
	}

	if err := s.itinRepo.Create(ctx, itin); err != nil {
		return nil, err
	}
	return itin, nil
}

// Get retrieves an itinerary. Private itineraries are only visible to
// their author and admins; everyone else gets not-found rather than
// forbidden, so the response does not confirm the itinerary exists.
func (s *ItineraryService) Get(ctx context.Context, actorID string, actorIsAdmin bool, id string) (*model.Itinerary, error) {
	itin, err := s.itinRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if itin == nil {
		return nil, ErrItineraryNotFound
	}

	if itin.Visibility == model.VisibilityPrivate && itin.AuthorID != actorID && !actorIsAdmin {
		return nil, ErrItineraryNotFound
	}

	sortStops(itin)
	return itin, nil
}

// ListMine retrieves the acting user's itineraries
func (s *ItineraryService) ListMine(ctx context.Context, authorID string, limit, offset int) ([]*model.Itinerary, error) {
	limit, offset = clampPage(limit, offset)
	itineraries, err := s.itinRepo.ListByAuthor(ctx, authorID, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, itin := range itineraries {
		sortStops(itin)
	}
	return itineraries, nil
}

// ListPublic retrieves publicly shared itineraries
func (s *ItineraryService) ListPublic(ctx context.Context, limit, offset int) ([]*model.Itinerary, error) {
	limit, offset = clampPage(limit, offset)
	itineraries, err := s.itinRepo.ListPublic(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, itin := range itineraries {
		sortStops(itin)
	}
	return itineraries, nil
}

// Update replaces an itinerary's content. Only the author or an admin
// may edit.
func (s *ItineraryService) Update(ctx context.Context, actorID string, actorIsAdmin bool, id string, in ItineraryInput) (*model.Itinerary, error) {
	itin, err := s.itinRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if itin == nil {
		return nil, ErrItineraryNotFound
	}
	if itin.AuthorID != actorID && !actorIsAdmin {
		return nil, ErrForbidden
	}

	stops, err := s.validateInput(ctx, in)
	if err != nil {
		return nil, err
	}

	itin.Title = strings.TrimSpace(in.Title)
	itin.Description = in.Description
	itin.Stops = stops
	if in.Visibility != "" {
		itin.Visibility = in.Visibility
	}

	if err := s.itinRepo.Update(ctx, itin); err != nil {
		return nil, err
	}
	return itin, nil
}

// SetVisibility shares or unshares an itinerary
func (s *ItineraryService) SetVisibility(ctx context.Context, actorID string, actorIsAdmin bool, id string, visibility model.ItineraryVisibility) error {
	if !visibility.IsValid() {
		return ErrInvalidVisibility
	}

	itin, err := s.itinRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if itin == nil {
		return ErrItineraryNotFound
	}
	if itin.AuthorID != actorID && !actorIsAdmin {
		return ErrForbidden
	}

	return s.itinRepo.SetVisibility(ctx, id, visibility)
}

// Delete removes an itinerary. Only the author or an admin may delete.
func (s *ItineraryService) Delete(ctx context.Context, actorID string, actorIsAdmin bool, id string) error {
	itin, err := s.itinRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if itin == nil {
		return ErrItineraryNotFound
	}
	if itin.AuthorID != actorID && !actorIsAdmin {
		return ErrForbidden
	}

	return s.itinRepo.Delete(ctx, id)
}

func sortStops(itin *model.Itinerary) {
	sort.Slice(itin.Stops, func(i, j int) bool {
		return itin.Stops[i].Position < itin.Stops[j].Position
	})
}
