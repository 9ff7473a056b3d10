package service

import (
	"context"
	"log/slog"

	"github.com/pesona/api/internal/model"
)

// SeederService bootstraps data the application needs on first start and
// optional sample content for development.
type SeederService struct {
	userRepo UserRepository
	destRepo DestinationRepository
}

// NewSeederService creates a new seeder service
func NewSeederService(userRepo UserRepository, destRepo DestinationRepository) *SeederService {
	return &SeederService{userRepo: userRepo, destRepo: destRepo}
}

// EnsureAdmin creates the initial admin account if it does not exist.
// Catalog writes are admin-only, so a fresh deployment is unusable
// without one.
func (s *SeederService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		if !existing.IsAdmin() {
			return s.userRepo.SetRole(ctx, existing.ID, model.UserRoleAdmin)
		}
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username: username,
		Email:    email,
		Hash:     &hash,
		Role:     model.UserRoleAdmin,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return err
	}

	slog.Info("created initial admin account", "username", username)
	return nil
}

// SeedSampleCatalog inserts a handful of destinations for development
// environments. It does nothing when the catalog already has entries.
func (s *SeederService) SeedSampleCatalog(ctx context.Context, adminID string) error {
	count, err := s.destRepo.Count(ctx, "")
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []model.Destination{
		{
			Name:        "Tanjung Karang Beach",
			Category:    "nature",
			Location:    "Donggala",
			Description: "White sand beach with coral reefs popular for snorkeling and diving.",
			Latitude:    floatPtr(-0.6644),
			Longitude:   floatPtr(119.7311),
		},
		{
			Name:        "Lore Lindu National Park",
			Category:    "nature",
			Location:    "Sigi",
			Description: "UNESCO biosphere reserve with megalithic statues and endemic wildlife.",
			Latitude:    floatPtr(-1.4063),
			Longitude:   floatPtr(120.1836),
		},
		{
			Name:        "Banua Oge Palace",
			Category:    "culture",
			Location:    "Palu",
			Description: "Traditional wooden palace of the Palu kingdom, now a cultural museum.",
			Latitude:    floatPtr(-0.8890),
			Longitude:   floatPtr(119.8420),
		},
	}

	for i := range samples {
		samples[i].CreatedBy = adminID
		if err := s.destRepo.Create(ctx, &samples[i]); err != nil {
			return err
		}
	}

	slog.Info("seeded sample catalog", "destinations", len(samples))
	return nil
}

func floatPtr(f float64) *float64 {
	return &f
}
