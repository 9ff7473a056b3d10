package service

import (
	"context"
	"strings"

	"github.com/pesona/api/internal/model"
)

// PackageRepository defines the interface for tourist package storage
type PackageRepository interface {
	Create(ctx context.Context, pkg *model.TouristPackage) error
	GetByID(ctx context.Context, id string) (*model.TouristPackage, error)
	List(ctx context.Context, promotedOnly bool, limit, offset int) ([]*model.TouristPackage, error)
	Update(ctx context.Context, pkg *model.TouristPackage) error
	SetPromoted(ctx context.Context, id string, promoted bool) error
	Delete(ctx context.Context, id string) error
}

// PackageService handles tourist package operations
type PackageService struct {
	pkgRepo  PackageRepository
	destRepo DestinationRepository
}

// NewPackageService creates a new package service
func NewPackageService(pkgRepo PackageRepository, destRepo DestinationRepository) *PackageService {
	return &PackageService{pkgRepo: pkgRepo, destRepo: destRepo}
}

// PackageInput carries the writable fields of a tourist package
type PackageInput struct {
	Name           string
	Description    string
	Price          int64
	Promoted       bool
	DestinationIDs []string
}

func (s *PackageService) validateInput(ctx context.Context, in PackageInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if len(in.Name) > model.MaxDestinationNameLength {
		return ErrNameTooLong
	}
	if in.Price <= 0 {
		return ErrInvalidPrice
	}
	if len(in.DestinationIDs) == 0 {
		return ErrPackageNeedsStops
	}

	// Every bundled destination must exist
	for _, destID := range in.DestinationIDs {
		dest, err := s.destRepo.GetByID(ctx, destID)
		if err != nil {
			return err
		}
		if dest == nil {
			return ErrDestinationNotFound
		}
	}
	return nil
}

// Create adds a tourist package to the catalog
func (s *PackageService) Create(ctx context.Context, actorID string, in PackageInput) (*model.TouristPackage, error) {
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	pkg := &model.TouristPackage{
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		Price:          in.Price,
		Promoted:       in.Promoted,
		DestinationIDs: in.DestinationIDs,
		CreatedBy:      actorID,
	}

	if err := s.pkgRepo.Create(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// Get retrieves a tourist package
func (s *PackageService) Get(ctx context.Context, id string) (*model.TouristPackage, error) {
	pkg, err := s.pkgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	return pkg, nil
}

// List retrieves tourist packages, promoted ones surfacing first
func (s *PackageService) List(ctx context.Context, promotedOnly bool, limit, offset int) ([]*model.TouristPackage, error) {
	limit, offset = clampPage(limit, offset)
	return s.pkgRepo.List(ctx, promotedOnly, limit, offset)
}

// Update replaces a tourist package's content
func (s *PackageService) Update(ctx context.Context, id string, in PackageInput) (*model.TouristPackage, error) {
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	pkg, err := s.pkgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}

	pkg.Name = strings.TrimSpace(in.Name)
	pkg.Description = in.Description
	pkg.Price = in.Price
	pkg.Promoted = in.Promoted
	pkg.DestinationIDs = in.DestinationIDs

	if err := s.pkgRepo.Update(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// SetPromoted toggles the promoted flag on a package
func (s *PackageService) SetPromoted(ctx context.Context, id string, promoted bool) error {
	pkg, err := s.pkgRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pkg == nil {
		return ErrPackageNotFound
	}
	return s.pkgRepo.SetPromoted(ctx, id, promoted)
}

// Delete removes a tourist package
func (s *PackageService) Delete(ctx context.Context, id string) error {
	pkg, err := s.pkgRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pkg == nil {
		return ErrPackageNotFound
	}
	return s.pkgRepo.Delete(ctx, id)
}
