package repository

import (
	"context"
	"errors"

	"github.com/pesona/api/internal/database"
	"github.com/pesona/api/internal/model"
)

// ReviewRepository handles review and review photo data access
type ReviewRepository struct {
	db database.Database
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db database.Database) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create creates a review without photos
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		CREATE review CONTENT {
			destination: type::record($destination),
			author: type::record($author),
			rating: $rating,
			comment: $comment,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"destination": review.DestinationID,
		"author":      review.AuthorID,
		"rating":      review.Rating,
		"comment":     review.Comment,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	review.ID = created.ID
	review.CreatedOn = created.CreatedOn
	review.UpdatedOn = created.UpdatedOn
	return nil
}

// CreateWithPhotos creates a review and its photo rows in one transaction.
// If any statement fails the whole write rolls back, so a review never
// ends up with half its photos.
func (r *ReviewRepository) CreateWithPhotos(ctx context.Context, review *model.Review, photos []*model.ReviewPhoto) error {
	if len(photos) == 0 {
		return r.Create(ctx, review)
	}

	tb := database.NewTxBuilder()

	tb.Add(`
		LET $created = (CREATE review CONTENT {
			destination: type::record($destination),
			author: type::record($author),
			rating: $rating,
			comment: $comment,
			created_on: time::now(),
			updated_on: time::now()
		})
	`, map[string]interface{}{
		"destination": review.DestinationID,
		"author":      review.AuthorID,
		"rating":      review.Rating,
		"comment":     review.Comment,
	})

	for _, photo := range photos {
		tb.Add(`
			CREATE review_photo CONTENT {
				review: $created[0].id,
				filename: $filename,
				mime_type: $mime,
				created_on: time::now()
			}
		`, map[string]interface{}{
			"filename": photo.Filename,
			"mime":     photo.MIMEType,
		})
	}

	tb.Add(`RETURN $created`, nil)

	results, err := database.ExecuteTransaction(ctx, r.db, tb)
	if err != nil {
		return err
	}

	created, err := extractCreatedReview(results)
	if err != nil {
		return err
	}

	review.ID = created.ID
	review.CreatedOn = created.CreatedOn
	review.UpdatedOn = created.UpdatedOn

	for _, photo := range photos {
		photo.ReviewID = review.ID
	}
	review.Photos = photos
	return nil
}

// GetByID retrieves a review by ID, including its photos
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*model.Review, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	review, err := r.parseReviewResult(result)
	if err != nil || review == nil {
		return review, err
	}

	photos, err := r.GetPhotosByReview(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	review.Photos = photos
	return review, nil
}

// ListByDestination retrieves reviews for a destination, newest first
func (r *ReviewRepository) ListByDestination(ctx context.Context, destinationID string, limit, offset int) ([]*model.Review, error) {
	query := `
		SELECT * FROM review
		WHERE destination = type::record($destination)
		ORDER BY created_on DESC
		LIMIT $limit START $offset
	`
	vars := map[string]interface{}{
		"destination": destinationID,
		"limit":       limit,
		"offset":      offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	reviews, err := r.parseReviewsResult(result)
	if err != nil {
		return nil, err
	}

	for _, review := range reviews {
		photos, err := r.GetPhotosByReview(ctx, review.ID)
		if err != nil {
			return nil, err
		}
		review.Photos = photos
	}
	return reviews, nil
}

// ListByAuthor retrieves reviews written by a user, newest first
func (r *ReviewRepository) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*model.Review, error) {
	query := `
		SELECT * FROM review
		WHERE author = type::record($author)
		ORDER BY created_on DESC
		LIMIT $limit START $offset
	`
	vars := map[string]interface{}{
		"author": authorID,
		"limit":  limit,
		"offset": offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return r.parseReviewsResult(result)
}

// GetRatingSummary returns the review count and mean rating for a destination
func (r *ReviewRepository) GetRatingSummary(ctx context.Context, destinationID string) (count int, average float64, err error) {
	query := `
		SELECT count() as count, math::mean(rating) as average FROM review
		WHERE destination = type::record($destination)
		GROUP ALL
	`
	vars := map[string]interface{}{"destination": destinationID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	if data, ok := result.(map[string]interface{}); ok {
		return getInt(data, "count"), getFloat(data, "average"), nil
	}
	return 0, 0, nil
}

// Update updates a review's rating and comment
func (r *ReviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE type::record($id) SET
			rating = $rating,
			comment = $comment,
			updated_on = time::now()
	`

	vars := map[string]interface{}{
		"id":      review.ID,
		"rating":  review.Rating,
		"comment": review.Comment,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes a review together with its photo rows
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`DELETE review_photo WHERE review = type::record($review)`, map[string]interface{}{
		"review": id,
	})
	batch.Add(`DELETE type::record($id)`, map[string]interface{}{
		"id": id,
	})
	return batch.Execute(ctx, r.db)
}

// GetPhotosByReview retrieves the photo rows attached to a review
func (r *ReviewRepository) GetPhotosByReview(ctx context.Context, reviewID string) ([]*model.ReviewPhoto, error) {
	query := `
		SELECT * FROM review_photo
		WHERE review = type::record($review)
		ORDER BY created_on ASC
	`
	vars := map[string]interface{}{"review": reviewID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	photos := make([]*model.ReviewPhoto, 0)
	if items, ok := extractQueryResults(result); ok {
		for _, item := range items {
			photo := r.parsePhotoResult(item)
			if photo != nil {
				photos = append(photos, photo)
			}
		}
	}
	return photos, nil
}

// ListPhotoFilenamesByDestination collects the stored filenames of every
// photo attached to a destination's reviews, for file cleanup before the
// destination cascade runs.
func (r *ReviewRepository) ListPhotoFilenamesByDestination(ctx context.Context, destinationID string) ([]string, error) {
	query := `
		SELECT filename FROM review_photo
		WHERE review.destination = type::record($destination)
	`
	vars := map[string]interface{}{"destination": destinationID}
	return r.listPhotoFilenames(ctx, query, vars)
}

// ListPhotoFilenamesByAuthor collects the stored filenames of every photo
// attached to a user's reviews.
func (r *ReviewRepository) ListPhotoFilenamesByAuthor(ctx context.Context, authorID string) ([]string, error) {
	query := `
		SELECT filename FROM review_photo
		WHERE review.author = type::record($author)
	`
	vars := map[string]interface{}{"author": authorID}
	return r.listPhotoFilenames(ctx, query, vars)
}

func (r *ReviewRepository) listPhotoFilenames(ctx context.Context, query string, vars map[string]interface{}) ([]string, error) {
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	filenames := make([]string, 0)
	if items, ok := extractQueryResults(result); ok {
		for _, item := range items {
			if data, ok := item.(map[string]interface{}); ok {
				if name := getString(data, "filename"); name != "" {
					filenames = append(filenames, name)
				}
			}
		}
	}
	return filenames, nil
}

// GetPhotoByFilename looks up a photo row by its stored filename
func (r *ReviewRepository) GetPhotoByFilename(ctx context.Context, filename string) (*model.ReviewPhoto, error) {
	query := `SELECT * FROM review_photo WHERE filename = $filename LIMIT 1`
	vars := map[string]interface{}{"filename": filename}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if data, ok := result.(map[string]interface{}); ok {
		return r.parsePhotoResult(data), nil
	}
	return nil, nil
}

// Helper functions

func (r *ReviewRepository) parseReviewResult(result interface{}) (*model.Review, error) {
	if result == nil {
		return nil, nil
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, nil
		}
		result = arr[0]
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	review := &model.Review{
		ID:      convertSurrealID(data["id"]),
		Rating:  getInt(data, "rating"),
		Comment: getString(data, "comment"),
	}

	if dest, ok := data["destination"]; ok {
		review.DestinationID = convertSurrealID(dest)
	}
	if author, ok := data["author"]; ok {
		review.AuthorID = convertSurrealID(author)
	}
	if t := getTime(data, "created_on"); t != nil {
		review.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		review.UpdatedOn = *t
	}

	return review, nil
}

func (r *ReviewRepository) parseReviewsResult(result []interface{}) ([]*model.Review, error) {
	reviews := make([]*model.Review, 0)

	if items, ok := extractQueryResults(result); ok {
		for _, item := range items {
			review, err := r.parseReviewResult(item)
			if err != nil || review == nil {
				continue
			}
			reviews = append(reviews, review)
		}
	}

	return reviews, nil
}

func (r *ReviewRepository) parsePhotoResult(result interface{}) *model.ReviewPhoto {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil
	}

	photo := &model.ReviewPhoto{
		ID:       convertSurrealID(data["id"]),
		Filename: getString(data, "filename"),
		MIMEType: getString(data, "mime_type"),
	}
	if review, ok := data["review"]; ok {
		photo.ReviewID = convertSurrealID(review)
	}
	if t := getTime(data, "created_on"); t != nil {
		photo.CreatedOn = *t
	}
	return photo
}

// extractCreatedReview pulls the created review out of transaction results.
// The final RETURN statement yields the record, but statement ordering in
// the response is not guaranteed across client versions, so every result
// is scanned for a record carrying a rating field.
func extractCreatedReview(results []interface{}) (*createdRecord, error) {
	for i := len(results) - 1; i >= 0; i-- {
		candidate := results[i]
		if resp, ok := candidate.(map[string]interface{}); ok {
			if inner, ok := resp["result"]; ok {
				candidate = inner
			}
		}
		if arr, ok := candidate.([]interface{}); ok && len(arr) > 0 {
			candidate = arr[0]
		}
		data, ok := candidate.(map[string]interface{})
		if !ok {
			continue
		}
		if _, hasRating := data["rating"]; !hasRating {
			continue
		}

		record := &createdRecord{ID: convertSurrealID(data["id"])}
		if t := getTime(data, "created_on"); t != nil {
			record.CreatedOn = *t
		}
		if t := getTime(data, "updated_on"); t != nil {
			record.UpdatedOn = *t
		}
		return record, nil
	}
	return nil, errors.New("created review not found in transaction result")
}
