// Package fixtures provides test data factories for e2e testing.
//
// Each factory method creates an entity with sensible defaults,
// customizable through option functions, and returns the fully
// populated model after database insertion.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	admin := f.CreateAdmin(t)
//	dest := f.CreateDestination(t, admin)
//	review := f.CreateReview(t, dest, f.CreateUser(t))
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/pesona/api/internal/database"
	"github.com/pesona/api/internal/model"
	"github.com/pesona/api/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the plaintext password of every fixture user
const DefaultPassword = "testpass123"

// Factory creates test entities in the database
type Factory struct {
	users        *repository.UserRepository
	destinations *repository.DestinationRepository
	events       *repository.EventRepository
	packages     *repository.PackageRepository
	reviews      *repository.ReviewRepository
	itineraries  *repository.ItineraryRepository
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{
		users:        repository.NewUserRepository(db),
		destinations: repository.NewDestinationRepository(db),
		events:       repository.NewEventRepository(db),
		packages:     repository.NewPackageRepository(db),
		reviews:      repository.NewReviewRepository(db),
		itineraries:  repository.NewItineraryRepository(db),
	}
}

// randomID generates a random hex suffix for unique fixture values
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	_ = cancel
	return c
}

// UserOpts customizes user creation
type UserOpts struct {
	Username string
	Email    string
	Password string
	Role     model.UserRole
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	id := randomID()
	o := &UserOpts{
		Username: fmt.Sprintf("user_%s", id),
		Email:    fmt.Sprintf("user_%s@test.local", id),
		Password: DefaultPassword,
		Role:     model.UserRoleUser,
	}
	for _, fn := range opts {
		fn(o)
	}

	// MinCost keeps fixture creation fast; these hashes never leave tests
	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}
	hashStr := string(hash)

	user := &model.User{
		Username: o.Username,
		Email:    o.Email,
		Hash:     &hashStr,
		Role:     o.Role,
	}
	if err := f.users.Create(ctx(), user); err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}
	return user
}

// CreateAdmin creates an admin user
func (f *Factory) CreateAdmin(t *testing.T) *model.User {
	return f.CreateUser(t, func(o *UserOpts) {
		o.Role = model.UserRoleAdmin
	})
}

// DestinationOpts customizes destination creation
type DestinationOpts struct {
	Name      string
	Category  string
	Location  string
	Latitude  *float64
	Longitude *float64
}

// CreateDestination creates a destination owned by the given admin
func (f *Factory) CreateDestination(t *testing.T, createdBy *model.User, opts ...func(*DestinationOpts)) *model.Destination {
	t.Helper()

	o := &DestinationOpts{
		Name:     fmt.Sprintf("Destination %s", randomID()),
		Category: "nature",
		Location: "Palu",
	}
	for _, fn := range opts {
		fn(o)
	}

	dest := &model.Destination{
		Name:        o.Name,
		Category:    o.Category,
		Location:    o.Location,
		Description: "Fixture destination",
		Latitude:    o.Latitude,
		Longitude:   o.Longitude,
		CreatedBy:   createdBy.ID,
	}
	if err := f.destinations.Create(ctx(), dest); err != nil {
		t.Fatalf("fixtures: failed to create destination: %v", err)
	}
	return dest
}

// EventOpts customizes cultural event creation
type EventOpts struct {
	Name          string
	Date          time.Time
	DestinationID *string
}

// CreateEvent creates a cultural event
func (f *Factory) CreateEvent(t *testing.T, createdBy *model.User, opts ...func(*EventOpts)) *model.CulturalEvent {
	t.Helper()

	o := &EventOpts{
		Name: fmt.Sprintf("Festival %s", randomID()),
		Date: time.Now().Add(30 * 24 * time.Hour),
	}
	for _, fn := range opts {
		fn(o)
	}

	event := &model.CulturalEvent{
		Name:          o.Name,
		Date:          o.Date,
		Location:      "Palu",
		Description:   "Fixture event",
		DestinationID: o.DestinationID,
		CreatedBy:     createdBy.ID,
	}
	if err := f.events.Create(ctx(), event); err != nil {
		t.Fatalf("fixtures: failed to create event: %v", err)
	}
	return event
}

// CreatePackage creates a tourist package bundling the given destinations
func (f *Factory) CreatePackage(t *testing.T, createdBy *model.User, destinations ...*model.Destination) *model.TouristPackage {
	t.Helper()

	ids := make([]string, 0, len(destinations))
	for _, d := range destinations {
		ids = append(ids, d.ID)
	}

	pkg := &model.TouristPackage{
		Name:           fmt.Sprintf("Package %s", randomID()),
		Description:    "Fixture package",
		Price:          2500000,
		DestinationIDs: ids,
		CreatedBy:      createdBy.ID,
	}
	if err := f.packages.Create(ctx(), pkg); err != nil {
		t.Fatalf("fixtures: failed to create package: %v", err)
	}
	return pkg
}

// ReviewOpts customizes review creation
type ReviewOpts struct {
	Rating  int
	Comment string
}

// CreateReview creates a review of the destination by the author
func (f *Factory) CreateReview(t *testing.T, dest *model.Destination, author *model.User, opts ...func(*ReviewOpts)) *model.Review {
	t.Helper()

	o := &ReviewOpts{
		Rating:  4,
		Comment: "Fixture review",
	}
	for _, fn := range opts {
		fn(o)
	}

	review := &model.Review{
		DestinationID: dest.ID,
		AuthorID:      author.ID,
		Rating:        o.Rating,
		Comment:       o.Comment,
	}
	if err := f.reviews.Create(ctx(), review); err != nil {
		t.Fatalf("fixtures: failed to create review: %v", err)
	}
	return review
}

// ItineraryOpts customizes itinerary creation
type ItineraryOpts struct {
	Title      string
	Visibility model.ItineraryVisibility
}

// CreateItinerary creates an itinerary with one stop per destination
func (f *Factory) CreateItinerary(t *testing.T, author *model.User, destinations []*model.Destination, opts ...func(*ItineraryOpts)) *model.Itinerary {
	t.Helper()

	o := &ItineraryOpts{
		Title:      fmt.Sprintf("Trip %s", randomID()),
		Visibility: model.VisibilityPrivate,
	}
	for _, fn := range opts {
		fn(o)
	}

	stops := make([]model.ItineraryStop, 0, len(destinations))
	for i, d := range destinations {
		stops = append(stops, model.ItineraryStop{
			Position:      i,
			DestinationID: d.ID,
		})
	}

	itinerary := &model.Itinerary{
		AuthorID:   author.ID,
		Title:      o.Title,
		Stops:      stops,
		Visibility: o.Visibility,
	}
	if err := f.itineraries.Create(ctx(), itinerary); err != nil {
		t.Fatalf("fixtures: failed to create itinerary: %v", err)
	}
	return itinerary
}
