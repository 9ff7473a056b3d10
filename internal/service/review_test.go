package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/pesona/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock implementations shared by the catalog and review tests

type mockDestRepo struct {
	destinations map[string]*model.Destination
}

func newMockDestRepo() *mockDestRepo {
	return &mockDestRepo{destinations: make(map[string]*model.Destination)}
}

func (m *mockDestRepo) Create(ctx context.Context, dest *model.Destination) error {
	dest.ID = fmt.Sprintf("destination:%d", len(m.destinations)+1)
	dest.CreatedOn = time.Now()
	dest.UpdatedOn = time.Now()
	m.destinations[dest.ID] = dest
	return nil
}

func (m *mockDestRepo) GetByID(ctx context.Context, id string) (*model.Destination, error) {
	return m.destinations[id], nil
}

func (m *mockDestRepo) List(ctx context.Context, category string, limit, offset int) ([]*model.Destination, error) {
	var out []*model.Destination
	for _, d := range m.destinations {
		if category == "" || d.Category == category {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDestRepo) ListLocations(ctx context.Context) ([]*model.DestinationLocation, error) {
	var out []*model.DestinationLocation
	for _, d := range m.destinations {
		if d.HasCoordinates() {
			out = append(out, &model.DestinationLocation{
				ID: d.ID, Name: d.Name, Latitude: *d.Latitude, Longitude: *d.Longitude,
			})
		}
	}
	return out, nil
}

func (m *mockDestRepo) Count(ctx context.Context, category string) (int, error) {
	list, _ := m.List(ctx, category, 0, 0)
	return len(list), nil
}

func (m *mockDestRepo) Update(ctx context.Context, dest *model.Destination) error {
	m.destinations[dest.ID] = dest
	return nil
}

func (m *mockDestRepo) Delete(ctx context.Context, id string) error {
	delete(m.destinations, id)
	return nil
}

type mockReviewRepo struct {
	reviews map[string]*model.Review
	photos  map[string]*model.ReviewPhoto
	seq     int
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{
		reviews: make(map[string]*model.Review),
		photos:  make(map[string]*model.ReviewPhoto),
	}
}

func (m *mockReviewRepo) Create(ctx context.Context, review *model.Review) error {
	return m.CreateWithPhotos(ctx, review, nil)
}

func (m *mockReviewRepo) CreateWithPhotos(ctx context.Context, review *model.Review, photos []*model.ReviewPhoto) error {
	m.seq++
	review.ID = fmt.Sprintf("review:%d", m.seq)
	review.CreatedOn = time.Now()
	review.UpdatedOn = time.Now()
	for _, photo := range photos {
		photo.ReviewID = review.ID
		m.photos[photo.Filename] = photo
	}
	review.Photos = photos
	m.reviews[review.ID] = review
	return nil
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id string) (*model.Review, error) {
	return m.reviews[id], nil
}

func (m *mockReviewRepo) ListByDestination(ctx context.Context, destinationID string, limit, offset int) ([]*model.Review, error) {
	var out []*model.Review
	for _, r := range m.reviews {
		if r.DestinationID == destinationID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*model.Review, error) {
	var out []*model.Review
	for _, r := range m.reviews {
		if r.AuthorID == authorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) GetRatingSummary(ctx context.Context, destinationID string) (int, float64, error) {
	count, sum := 0, 0
	for _, r := range m.reviews {
		if r.DestinationID == destinationID {
			count++
			sum += r.Rating
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return count, float64(sum) / float64(count), nil
}

func (m *mockReviewRepo) Update(ctx context.Context, review *model.Review) error {
	m.reviews[review.ID] = review
	return nil
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) error {
	delete(m.reviews, id)
	return nil
}

func (m *mockReviewRepo) GetPhotosByReview(ctx context.Context, reviewID string) ([]*model.ReviewPhoto, error) {
	var out []*model.ReviewPhoto
	for _, p := range m.photos {
		if p.ReviewID == reviewID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) GetPhotoByFilename(ctx context.Context, filename string) (*model.ReviewPhoto, error) {
	return m.photos[filename], nil
}

func (m *mockReviewRepo) ListPhotoFilenamesByDestination(ctx context.Context, destinationID string) ([]string, error) {
	var out []string
	for _, p := range m.photos {
		if r, ok := m.reviews[p.ReviewID]; ok && r.DestinationID == destinationID {
			out = append(out, p.Filename)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) ListPhotoFilenamesByAuthor(ctx context.Context, authorID string) ([]string, error) {
	var out []string
	for _, p := range m.photos {
		if r, ok := m.reviews[p.ReviewID]; ok && r.AuthorID == authorID {
			out = append(out, p.Filename)
		}
	}
	return out, nil
}

type memFileStore struct {
	files map[string][]byte
}

func newMemFileStore() *memFileStore {
	return &memFileStore{files: make(map[string][]byte)}
}

func (m *memFileStore) Save(filename string, data []byte) error {
	m.files[filename] = data
	return nil
}

func (m *memFileStore) Open(filename string) ([]byte, error) {
	data, ok := m.files[filename]
	if !ok {
		return nil, fmt.Errorf("file %s not found", filename)
	}
	return data, nil
}

func (m *memFileStore) Remove(filename string) error {
	delete(m.files, filename)
	return nil
}

// Test fixtures

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestReviewService(t *testing.T) (*ReviewService, *mockDestRepo, *mockReviewRepo, *memFileStore, string) {
	t.Helper()
	destRepo := newMockDestRepo()
	reviewRepo := newMockReviewRepo()
	files := newMemFileStore()

	dest := &model.Destination{Name: "Tanjung Karang Beach", Category: "nature", Location: "Donggala"}
	require.NoError(t, destRepo.Create(context.Background(), dest))

	svc := NewReviewService(ReviewServiceConfig{
		ReviewRepo: reviewRepo,
		DestRepo:   destRepo,
		Files:      files,
	})
	return svc, destRepo, reviewRepo, files, dest.ID
}

// Tests

func TestCreateReview_WithPhotos(t *testing.T) {
	svc, _, _, files, destID := newTestReviewService(t)

	review, err := svc.CreateReview(context.Background(), "user:made", CreateReviewRequest{
		DestinationID: destID,
		Rating:        4,
		Comment:       "Great sunset, bring snorkeling gear.",
		Photos: []PhotoUpload{
			{Data: jpegBytes(t)},
			{Data: pngBytes(t)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "user:made", review.AuthorID)
	require.Len(t, review.Photos, 2)
	assert.Equal(t, "image/jpeg", review.Photos[0].MIMEType)
	assert.Equal(t, "image/png", review.Photos[1].MIMEType)
	for _, photo := range review.Photos {
		assert.Equal(t, review.ID, photo.ReviewID)
		_, err := files.Open(photo.Filename)
		assert.NoError(t, err, "photo bytes should be on disk")
	}
}

func TestCreateReview_RatingBounds(t *testing.T) {
	svc, _, _, _, destID := newTestReviewService(t)
	ctx := context.Background()

	for _, rating := range []int{0, 6, -3} {
		_, err := svc.CreateReview(ctx, "user:made", CreateReviewRequest{
			DestinationID: destID,
			Rating:        rating,
			Comment:       "out of range",
		})
		assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
	}

	for rating := model.MinRating; rating <= model.MaxRating; rating++ {
		_, err := svc.CreateReview(ctx, "user:made", CreateReviewRequest{
			DestinationID: destID,
			Rating:        rating,
			Comment:       "in range",
		})
		assert.NoError(t, err, "rating %d", rating)
	}
}

func TestCreateReview_SniffsContentNotFilename(t *testing.T) {
	svc, _, reviewRepo, files, destID := newTestReviewService(t)

	// Plain text pretending to be an image: the bytes decide, so the
	// upload is rejected no matter what the client called the file.
	_, err := svc.CreateReview(context.Background(), "user:made", CreateReviewRequest{
		DestinationID: destID,
		Rating:        5,
		Comment:       "",
		Photos:        []PhotoUpload{{Data: []byte("#!/bin/sh\nrm -rf /\n")}},
	})
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
	assert.Empty(t, reviewRepo.reviews, "no review row may exist after a rejected upload")
	assert.Empty(t, files.files, "no file may be written for a rejected upload")
}

func TestCreateReview_OneBadPhotoRejectsAll(t *testing.T) {
	svc, _, reviewRepo, files, destID := newTestReviewService(t)

	_, err := svc.CreateReview(context.Background(), "user:made", CreateReviewRequest{
		DestinationID: destID,
		Rating:        4,
		Photos: []PhotoUpload{
			{Data: jpegBytes(t)},
			{Data: []byte("not an image")},
		},
	})
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
	assert.Empty(t, reviewRepo.reviews)
	assert.Empty(t, files.files, "the valid photo must not survive a failed submission")
}

func TestCreateReview_UnknownDestination(t *testing.T) {
	svc, _, _, _, _ := newTestReviewService(t)

	_, err := svc.CreateReview(context.Background(), "user:made", CreateReviewRequest{
		DestinationID: "destination:nope",
		Rating:        4,
	})
	assert.ErrorIs(t, err, ErrDestinationNotFound)
}

func TestCreateReview_PhotoLimits(t *testing.T) {
	svc, _, _, _, destID := newTestReviewService(t)
	ctx := context.Background()

	tooMany := make([]PhotoUpload, 6)
	for i := range tooMany {
		tooMany[i] = PhotoUpload{Data: jpegBytes(t)}
	}
	_, err := svc.CreateReview(ctx, "user:made", CreateReviewRequest{DestinationID: destID, Rating: 3, Photos: tooMany})
	assert.ErrorIs(t, err, ErrTooManyPhotos)

	huge := PhotoUpload{Data: make([]byte, (5<<20)+1)}
	_, err = svc.CreateReview(ctx, "user:made", CreateReviewRequest{DestinationID: destID, Rating: 3, Photos: []PhotoUpload{huge}})
	assert.ErrorIs(t, err, ErrPhotoTooLarge)
}

func TestUpdateReview_Ownership(t *testing.T) {
	svc, _, _, _, destID := newTestReviewService(t)
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, "user:author", CreateReviewRequest{DestinationID: destID, Rating: 3, Comment: "ok"})
	require.NoError(t, err)

	// Stranger cannot edit
	_, err = svc.Update(ctx, "user:stranger", false, review.ID, UpdateReviewRequest{Rating: intPtr(1), Comment: strPtr("vandalism")})
	assert.ErrorIs(t, err, ErrForbidden)

	// Author can edit
	updated, err := svc.Update(ctx, "user:author", false, review.ID, UpdateReviewRequest{Rating: intPtr(5), Comment: strPtr("changed my mind")})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "user:author", updated.AuthorID, "authorship must never change")

	// Admin can edit someone else's review
	_, err = svc.Update(ctx, "user:admin", true, review.ID, UpdateReviewRequest{Rating: intPtr(2), Comment: strPtr("moderated")})
	assert.NoError(t, err)
}

func TestUpdateReview_PartialEdit(t *testing.T) {
	svc, _, _, _, destID := newTestReviewService(t)
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, "user:author", CreateReviewRequest{DestinationID: destID, Rating: 3, Comment: "ok"})
	require.NoError(t, err)

	// Comment-only edit keeps the stored rating
	updated, err := svc.Update(ctx, "user:author", false, review.ID, UpdateReviewRequest{Comment: strPtr("better on a second visit")})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Rating)
	assert.Equal(t, "better on a second visit", updated.Comment)

	// Rating-only edit keeps the stored comment
	updated, err = svc.Update(ctx, "user:author", false, review.ID, UpdateReviewRequest{Rating: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "better on a second visit", updated.Comment)

	// A present but invalid rating still fails
	_, err = svc.Update(ctx, "user:author", false, review.ID, UpdateReviewRequest{Rating: intPtr(0)})
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestDeleteReview_OwnershipAndFiles(t *testing.T) {
	svc, _, reviewRepo, files, destID := newTestReviewService(t)
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, "user:author", CreateReviewRequest{
		DestinationID: destID,
		Rating:        4,
		Photos:        []PhotoUpload{{Data: jpegBytes(t)}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "user:stranger", false, review.ID), ErrForbidden)

	require.NoError(t, svc.Delete(ctx, "user:admin", true, review.ID))
	assert.Empty(t, reviewRepo.reviews)
	assert.Empty(t, files.files, "photo files must be removed with the review")
}

func TestGetPhoto(t *testing.T) {
	svc, _, _, _, destID := newTestReviewService(t)
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, "user:made", CreateReviewRequest{
		DestinationID: destID,
		Rating:        5,
		Photos:        []PhotoUpload{{Data: pngBytes(t)}},
	})
	require.NoError(t, err)

	data, mimeType, err := svc.GetPhoto(ctx, review.Photos[0].Filename)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.NotEmpty(t, data)

	_, _, err = svc.GetPhoto(ctx, "missing.png")
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}
