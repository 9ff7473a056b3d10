package service

import (
	"context"
	"strings"

	"github.com/pesona/api/internal/model"
)

// Pagination bounds shared by the list endpoints
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// DestinationRepository defines the interface for destination storage
type DestinationRepository interface {
	Create(ctx context.Context, dest *model.Destination) error
	GetByID(ctx context.Context, id string) (*model.Destination, error)
	List(ctx context.Context, category string, limit, offset int) ([]*model.Destination, error)
	ListLocations(ctx context.Context) ([]*model.DestinationLocation, error)
	Count(ctx context.Context, category string) (int, error)
	Update(ctx context.Context, dest *model.Destination) error
	Delete(ctx context.Context, id string) error
}

// DestinationService handles destination catalog operations. Writes are
// admin-only; that gate lives in the middleware, so the service only
// validates content and records which admin made the change.
type DestinationService struct {
	destRepo   DestinationRepository
	reviewRepo ReviewRepository
	files      FileStore
}

// NewDestinationService creates a new destination service
func NewDestinationService(destRepo DestinationRepository, reviewRepo ReviewRepository, files FileStore) *DestinationService {
	return &DestinationService{destRepo: destRepo, reviewRepo: reviewRepo, files: files}
}

// DestinationInput carries the writable fields of a destination
type DestinationInput struct {
	Name        string
	Category    string
	Location    string
	Description string
	ImageURL    *string
	Latitude    *float64
	Longitude   *float64
}

func (in *DestinationInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if len(in.Name) > model.MaxDestinationNameLength {
		return ErrNameTooLong
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrCategoryRequired
	}
	if len(in.Category) > model.MaxCategoryLength {
		return ErrCategoryTooLong
	}
	if strings.TrimSpace(in.Location) == "" {
		return ErrLocationRequired
	}
	if len(in.Location) > model.MaxLocationLength {
		return ErrLocationTooLong
	}

	// Coordinates come as a pair or not at all
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return ErrInvalidCoordinates
	}
	if in.Latitude != nil {
		if *in.Latitude < -90 || *in.Latitude > 90 {
			return ErrInvalidCoordinates
		}
		if *in.Longitude < -180 || *in.Longitude > 180 {
			return ErrInvalidCoordinates
		}
	}
	return nil
}

// Create adds a destination to the catalog
func (s *DestinationService) Create(ctx context.Context, actorID string, in DestinationInput) (*model.Destination, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	dest := &model.Destination{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(strings.ToLower(in.Category)),
		Location:    strings.TrimSpace(in.Location),
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		CreatedBy:   actorID,
	}

	if err := s.destRepo.Create(ctx, dest); err != nil {
		return nil, err
	}
	return dest, nil
}

// DestinationDetail is a destination together with its review summary
type DestinationDetail struct {
	*model.Destination
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

// Get retrieves a destination with its aggregated rating
func (s *DestinationService) Get(ctx context.Context, id string) (*DestinationDetail, error) {
	dest, err := s.destRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		return nil, ErrDestinationNotFound
	}

	count, average, err := s.reviewRepo.GetRatingSummary(ctx, dest.ID)
	if err != nil {
		return nil, err
	}

	return &DestinationDetail{
		Destination:   dest,
		ReviewCount:   count,
		AverageRating: average,
	}, nil
}

// ListResult is a page of destinations plus the total count
type ListResult struct {
	Destinations []*model.Destination `json:"destinations"`
	Total        int                  `json:"total"`
}

// List retrieves a page of destinations, optionally filtered by category
func (s *DestinationService) List(ctx context.Context, category string, limit, offset int) (*ListResult, error) {
	limit, offset = clampPage(limit, offset)
	category = strings.TrimSpace(strings.ToLower(category))

	destinations, err := s.destRepo.List(ctx, category, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.destRepo.Count(ctx, category)
	if err != nil {
		return nil, err
	}

	return &ListResult{Destinations: destinations, Total: total}, nil
}

// ListLocations retrieves the coordinates feed for the map widget
func (s *DestinationService) ListLocations(ctx context.Context) ([]*model.DestinationLocation, error) {
	return s.destRepo.ListLocations(ctx)
}

// Update replaces a destination's content
func (s *DestinationService) Update(ctx context.Context, id string, in DestinationInput) (*model.Destination, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	dest, err := s.destRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		return nil, ErrDestinationNotFound
	}

	dest.Name = strings.TrimSpace(in.Name)
	dest.Category = strings.TrimSpace(strings.ToLower(in.Category))
	dest.Location = strings.TrimSpace(in.Location)
	dest.Description = in.Description
	dest.ImageURL = in.ImageURL
	dest.Latitude = in.Latitude
	dest.Longitude = in.Longitude

	if err := s.destRepo.Update(ctx, dest); err != nil {
		return nil, err
	}
	return dest, nil
}

// Delete removes a destination from the catalog together with its
// reviews and their photos, which have no reachable parent afterwards.
func (s *DestinationService) Delete(ctx context.Context, id string) error {
	dest, err := s.destRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if dest == nil {
		return ErrDestinationNotFound
	}

	filenames, err := s.reviewRepo.ListPhotoFilenamesByDestination(ctx, id)
	if err != nil {
		return err
	}

	if err := s.destRepo.Delete(ctx, id); err != nil {
		return err
	}

	// Rows are gone; file removal failures only leave orphans on disk
	for _, name := range filenames {
		_ = s.files.Remove(name)
	}
	return nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
