package tests

import (
	"context"
	"testing"

	"github.com/pesona/api/internal/model"
	"github.com/pesona/api/internal/repository"
	"github.com/pesona/api/internal/service"
	"github.com/pesona/api/internal/testing/fixtures"
	"github.com/pesona/api/internal/testing/helpers"
	"github.com/pesona/api/internal/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItineraryStack(tdb *testdb.TestDB) *service.ItineraryService {
	return service.NewItineraryService(
		repository.NewItineraryRepository(tdb.DB),
		repository.NewDestinationRepository(tdb.DB),
	)
}

func TestItineraries_CreateOrdersStops(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newItineraryStack(tdb)
	ctx := context.Background()

	admin := f.CreateAdmin(t)
	author := f.CreateUser(t)
	first := f.CreateDestination(t, admin)
	second := f.CreateDestination(t, admin)

	itin, err := svc.Create(ctx, author.ID, service.ItineraryInput{
		Title: "Two Temples in a Day",
		Stops: []service.StopInput{
			{DestinationID: first.ID, Note: helpers.StringPtr("arrive before sunrise")},
			{DestinationID: second.ID},
		},
		Visibility: model.VisibilityPrivate,
	})
	require.NoError(t, err)
	require.NotEmpty(t, itin.ID)

	fetched, err := svc.Get(ctx, author.ID, false, itin.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Stops, 2)
	assert.Equal(t, 0, fetched.Stops[0].Position)
	assert.Equal(t, first.ID, fetched.Stops[0].DestinationID)
	assert.Equal(t, 1, fetched.Stops[1].Position)
	assert.Equal(t, second.ID, fetched.Stops[1].DestinationID)
}

func TestItineraries_PrivateHiddenFromStrangers(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newItineraryStack(tdb)
	ctx := context.Background()

	admin := f.CreateAdmin(t)
	author := f.CreateUser(t)
	stranger := f.CreateUser(t)
	dest := f.CreateDestination(t, admin)

	itin := f.CreateItinerary(t, author, []*model.Destination{dest})

	// Strangers and anonymous readers get not-found, not forbidden
	_, err := svc.Get(ctx, stranger.ID, false, itin.ID)
	assert.ErrorIs(t, err, service.ErrItineraryNotFound)

	_, err = svc.Get(ctx, "", false, itin.ID)
	assert.ErrorIs(t, err, service.ErrItineraryNotFound)

	// The author and admins still see it
	_, err = svc.Get(ctx, author.ID, false, itin.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, admin.ID, true, itin.ID)
	require.NoError(t, err)
}

func TestItineraries_SharingMakesItPublic(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newItineraryStack(tdb)
	ctx := context.Background()

	admin := f.CreateAdmin(t)
	author := f.CreateUser(t)
	stranger := f.CreateUser(t)
	dest := f.CreateDestination(t, admin)

	itin := f.CreateItinerary(t, author, []*model.Destination{dest})

	public, err := svc.ListPublic(ctx, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, public)

	require.NoError(t, svc.SetVisibility(ctx, author.ID, false, itin.ID, model.VisibilityPublic))

	_, err = svc.Get(ctx, stranger.ID, false, itin.ID)
	require.NoError(t, err)

	public, err = svc.ListPublic(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, itin.ID, public[0].ID)

	// Unsharing hides it again
	require.NoError(t, svc.SetVisibility(ctx, author.ID, false, itin.ID, model.VisibilityPrivate))

	_, err = svc.Get(ctx, stranger.ID, false, itin.ID)
	assert.ErrorIs(t, err, service.ErrItineraryNotFound)
}

func TestItineraries_MutationsRequireOwnership(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newItineraryStack(tdb)
	ctx := context.Background()

	admin := f.CreateAdmin(t)
	author := f.CreateUser(t)
	stranger := f.CreateUser(t)
	dest := f.CreateDestination(t, admin)

	itin := f.CreateItinerary(t, author, []*model.Destination{dest}, func(o *fixtures.ItineraryOpts) {
		o.Visibility = model.VisibilityPublic
	})

	input := service.ItineraryInput{
		Title: "Hijacked Title",
		Stops: []service.StopInput{{DestinationID: dest.ID}},
	}

	// Public itineraries are readable but not editable by strangers
	_, err := svc.Update(ctx, stranger.ID, false, itin.ID, input)
	assert.ErrorIs(t, err, service.ErrForbidden)

	err = svc.SetVisibility(ctx, stranger.ID, false, itin.ID, model.VisibilityPrivate)
	assert.ErrorIs(t, err, service.ErrForbidden)

	err = svc.Delete(ctx, stranger.ID, false, itin.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	// Admins may moderate
	require.NoError(t, svc.Delete(ctx, admin.ID, true, itin.ID))

	_, err = svc.Get(ctx, author.ID, false, itin.ID)
	assert.ErrorIs(t, err, service.ErrItineraryNotFound)
}

func TestItineraries_ValidationRules(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newItineraryStack(tdb)
	ctx := context.Background()

	admin := f.CreateAdmin(t)
	author := f.CreateUser(t)
	dest := f.CreateDestination(t, admin)

	_, err := svc.Create(ctx, author.ID, service.ItineraryInput{
		Title: "No Stops Trip",
	})
	assert.ErrorIs(t, err, service.ErrNoStops)

	_, err = svc.Create(ctx, author.ID, service.ItineraryInput{
		Stops: []service.StopInput{{DestinationID: dest.ID}},
	})
	assert.ErrorIs(t, err, service.ErrTitleRequired)

	_, err = svc.Create(ctx, author.ID, service.ItineraryInput{
		Title: "Ghost Stop Trip",
		Stops: []service.StopInput{{DestinationID: "destination:missing"}},
	})
	assert.ErrorIs(t, err, service.ErrDestinationNotFound)
}
