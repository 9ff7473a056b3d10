package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pesona/api/internal/model"
)

type mockItineraryRepo struct {
	itineraries map[string]*model.Itinerary
	seq         int
}

func newMockItineraryRepo() *mockItineraryRepo {
	return &mockItineraryRepo{itineraries: make(map[string]*model.Itinerary)}
}

func (m *mockItineraryRepo) Create(ctx context.Context, itin *model.Itinerary) error {
	m.seq++
	itin.ID = fmt.Sprintf("itinerary:%d", m.seq)
	itin.CreatedOn = time.Now()
	itin.UpdatedOn = time.Now()
	m.itineraries[itin.ID] = itin
	return nil
}

func (m *mockItineraryRepo) GetByID(ctx context.Context, id string) (*model.Itinerary, error) {
	return m.itineraries[id], nil
}

func (m *mockItineraryRepo) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*model.Itinerary, error) {
	var out []*model.Itinerary
	for _, itin := range m.itineraries {
		if itin.AuthorID == authorID {
			out = append(out, itin)
		}
	}
	return out, nil
}

func (m *mockItineraryRepo) ListPublic(ctx context.Context, limit, offset int) ([]*model.Itinerary, error) {
	var out []*model.Itinerary
	for _, itin := range m.itineraries {
		if itin.Visibility == model.VisibilityPublic {
			out = append(out, itin)
		}
	}
	return out, nil
}

func (m *mockItineraryRepo) Update(ctx context.Context, itin *model.Itinerary) error {
	m.itineraries[itin.ID] = itin
	return nil
}

func (m *mockItineraryRepo) SetVisibility(ctx context.Context, id string, visibility model.ItineraryVisibility) error {
	if itin, ok := m.itineraries[id]; ok {
		itin.Visibility = visibility
	}
	return nil
}

func (m *mockItineraryRepo) Delete(ctx context.Context, id string) error {
	delete(m.itineraries, id)
	return nil
}

func newTestItineraryService(t *testing.T) (*ItineraryService, string) {
	t.Helper()
	destRepo := newMockDestRepo()
	dest := &model.Destination{Name: "Beach", Category: "nature", Location: "Palu"}
	if err := destRepo.Create(context.Background(), dest); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	return NewItineraryService(newMockItineraryRepo(), destRepo), dest.ID
}

func TestItineraryCreate_Validation(t *testing.T) {
	svc, destID := newTestItineraryService(t)
	ctx := context.Background()

	longNote := strings.Repeat("x", model.MaxStopNoteLength+1)
	tooManyStops := make([]StopInput, model.MaxItineraryStops+1)
	for i := range tooManyStops {
		tooManyStops[i] = StopInput{DestinationID: destID}
	}

	cases := []struct {
		name    string
		in      ItineraryInput
		wantErr error
	}{
		{"missing title", ItineraryInput{Stops: []StopInput{{DestinationID: destID}}}, ErrTitleRequired},
		{"title too long", ItineraryInput{Title: strings.Repeat("x", 151), Stops: []StopInput{{DestinationID: destID}}}, ErrTitleTooLong},
		{"no stops", ItineraryInput{Title: "Weekend trip"}, ErrNoStops},
		{"too many stops", ItineraryInput{Title: "Weekend trip", Stops: tooManyStops}, ErrTooManyStops},
		{"unknown destination", ItineraryInput{Title: "Weekend trip", Stops: []StopInput{{DestinationID: "destination:missing"}}}, ErrDestinationNotFound},
		{"note too long", ItineraryInput{Title: "Weekend trip", Stops: []StopInput{{DestinationID: destID, Note: &longNote}}}, ErrStopNoteTooLong},
		{"bad visibility", ItineraryInput{Title: "Weekend trip", Stops: []StopInput{{DestinationID: destID}}, Visibility: "friends"}, ErrInvalidVisibility},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "user:made", tc.in); !errors.Is(err, tc.wantErr) {
				t.Errorf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestItineraryCreate_DefaultsAndPositions(t *testing.T) {
	svc, destID := newTestItineraryService(t)

	itin, err := svc.Create(context.Background(), "user:made", ItineraryInput{
		Title: "Three days in Palu",
		Stops: []StopInput{
			{DestinationID: destID},
			{DestinationID: destID},
			{DestinationID: destID},
		},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if itin.Visibility != model.VisibilityPrivate {
		t.Errorf("visibility defaults to private, got %s", itin.Visibility)
	}
	for i, stop := range itin.Stops {
		if stop.Position != i {
			t.Errorf("stop %d has position %d, positions must be dense", i, stop.Position)
		}
	}
}

func TestItineraryGet_PrivateHiddenFromOthers(t *testing.T) {
	svc, destID := newTestItineraryService(t)
	ctx := context.Background()

	itin, err := svc.Create(ctx, "user:author", ItineraryInput{
		Title: "Secret trip",
		Stops: []StopInput{{DestinationID: destID}},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Author sees it
	if _, err := svc.Get(ctx, "user:author", false, itin.ID); err != nil {
		t.Errorf("author Get error: %v", err)
	}
	// Admin sees it
	if _, err := svc.Get(ctx, "user:admin", true, itin.ID); err != nil {
		t.Errorf("admin Get error: %v", err)
	}
	// Stranger gets not-found, same as a nonexistent ID
	if _, err := svc.Get(ctx, "user:stranger", false, itin.ID); !errors.Is(err, ErrItineraryNotFound) {
		t.Errorf("stranger Get = %v, want ErrItineraryNotFound", err)
	}

	// After sharing, everyone sees it
	if err := svc.SetVisibility(ctx, "user:author", false, itin.ID, model.VisibilityPublic); err != nil {
		t.Fatalf("SetVisibility error: %v", err)
	}
	if _, err := svc.Get(ctx, "user:stranger", false, itin.ID); err != nil {
		t.Errorf("public Get error: %v", err)
	}
}

func TestItineraryOwnership(t *testing.T) {
	svc, destID := newTestItineraryService(t)
	ctx := context.Background()

	itin, err := svc.Create(ctx, "user:author", ItineraryInput{
		Title: "Trip",
		Stops: []StopInput{{DestinationID: destID}},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	edit := ItineraryInput{Title: "Renamed", Stops: []StopInput{{DestinationID: destID}}}

	if _, err := svc.Update(ctx, "user:stranger", false, itin.ID, edit); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger Update = %v, want ErrForbidden", err)
	}
	if err := svc.SetVisibility(ctx, "user:stranger", false, itin.ID, model.VisibilityPublic); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger SetVisibility = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, "user:stranger", false, itin.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger Delete = %v, want ErrForbidden", err)
	}

	if _, err := svc.Update(ctx, "user:admin", true, itin.ID, edit); err != nil {
		t.Errorf("admin Update error: %v", err)
	}
	if err := svc.Delete(ctx, "user:author", false, itin.ID); err != nil {
		t.Errorf("author Delete error: %v", err)
	}
}
