package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/pesona/api/internal/database"
	"github.com/pesona/api/internal/model"
)

// DestinationRepository handles destination data access
type DestinationRepository struct {
	db database.Database
}

// NewDestinationRepository creates a new destination repository
func NewDestinationRepository(db database.Database) *DestinationRepository {
	return &DestinationRepository{db: db}
}

// Create creates a new destination
func (r *DestinationRepository) Create(ctx context.Context, dest *model.Destination) error {
	query := `
		CREATE destination CONTENT {
			name: $name,
			category: $category,
			location: $location,
			description: $description,
			image_url: $image_url,
			latitude: $latitude,
			longitude: $longitude,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"name":        dest.Name,
		"category":    dest.Category,
		"location":    dest.Location,
		"description": dest.Description,
		"image_url":   dest.ImageURL,
		"latitude":    dest.Latitude,
		"longitude":   dest.Longitude,
		"created_by":  dest.CreatedBy,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: destination name already exists", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	dest.ID = created.ID
	dest.CreatedOn = created.CreatedOn
	dest.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a destination by ID
func (r *DestinationRepository) GetByID(ctx context.Context, id string) (*model.Destination, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.parseDestinationResult(result)
}

// List retrieves destinations, optionally filtered by category, newest first
func (r *DestinationRepository) List(ctx context.Context, category string, limit, offset int) ([]*model.Destination, error) {
	query := `
		SELECT * FROM destination
		ORDER BY created_on DESC
		LIMIT $limit START $offset
	`
	vars := map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	}

	if category != "" {
		query = `
			SELECT * FROM destination
			WHERE category = $category
			ORDER BY created_on DESC
			LIMIT $limit START $offset
		`
		vars["category"] = category
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return r.parseDestinationsResult(result)
}

// ListLocations retrieves id, name and coordinates for every destination
// that has them. This feeds the map widget, so it skips the heavy fields.
func (r *DestinationRepository) ListLocations(ctx context.Context) ([]*model.DestinationLocation, error) {
	query := `
		SELECT id, name, latitude, longitude FROM destination
		WHERE latitude IS NOT NONE AND longitude IS NOT NONE
		ORDER BY name ASC
	`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	locations := make([]*model.DestinationLocation, 0)
	if items, ok := extractQueryResults(result); ok {
		for _, item := range items {
			data, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			locations = append(locations, &model.DestinationLocation{
				ID:        convertSurrealID(data["id"]),
				Name:      getString(data, "name"),
				Latitude:  getFloat(data, "latitude"),
				Longitude: getFloat(data, "longitude"),
			})
		}
	}
	return locations, nil
}

// Count returns the number of destinations, optionally within a category
func (r *DestinationRepository) Count(ctx context.Context, category string) (int, error) {
	query := `SELECT count() as count FROM destination GROUP ALL`
	var vars map[string]interface{}

	if category != "" {
		query = `SELECT count() as count FROM destination WHERE category = $category GROUP ALL`
		vars = map[string]interface{}{"category": category}
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return extractCount(result), nil
}

// Update updates a destination
func (r *DestinationRepository) Update(ctx context.Context, dest *model.Destination) error {
	query := `
		UPDATE type::record($id) SET
			name = $name,
			category = $category,
			location = $location,
			description = $description,
			image_url = $image_url,
			latitude = $latitude,
			longitude = $longitude,
			updated_on = time::now()
	`

	vars := map[string]interface{}{
		"id":          dest.ID,
		"name":        dest.Name,
		"category":    dest.Category,
		"location":    dest.Location,
		"description": dest.Description,
		"image_url":   dest.ImageURL,
		"latitude":    dest.Latitude,
		"longitude":   dest.Longitude,
	}

	err := r.db.Execute(ctx, query, vars)
	if err != nil && isUniqueConstraintError(err) {
		return fmt.Errorf("%w: destination name already exists", database.ErrDuplicate)
	}
	return err
}

// Delete removes a destination together with its reviews and their photo
// rows, in one transaction. Photo files on disk are the service layer's
// responsibility.
func (r *DestinationRepository) Delete(ctx context.Context, id string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`DELETE review_photo WHERE review.destination = type::record($destination)`, map[string]interface{}{
		"destination": id,
	})
	batch.Add(`DELETE review WHERE destination = type::record($destination)`, map[string]interface{}{
		"destination": id,
	})
	batch.Add(`DELETE type::record($id)`, map[string]interface{}{
		"id": id,
	})
	return batch.Execute(ctx, r.db)
}

// Helper functions

func (r *DestinationRepository) parseDestinationResult(result interface{}) (*model.Destination, error) {
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

	dest := &model.Destination{
		ID:          convertSurrealID(data["id"]),
		Name:        getString(data, "name"),
		Category:    getString(data, "category"),
		Location:    getString(data, "location"),
		Description: getString(data, "description"),
		ImageURL:    getStringPtr(data, "image_url"),
		Latitude:    getFloatPtr(data, "latitude"),
		Longitude:   getFloatPtr(data, "longitude"),
	}

	if createdBy, ok := data["created_by"]; ok {
		dest.CreatedBy = convertSurrealID(createdBy)
	}
	if t := getTime(data, "created_on"); t != nil {
		dest.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		dest.UpdatedOn = *t
	}

	return dest, nil
}

func (r *DestinationRepository) parseDestinationsResult(result []interface{}) ([]*model.Destination, error) {
	destinations := make([]*model.Destination, 0)

	if items, ok := extractQueryResults(result); ok {
		for _, item := range items {
			dest, err := r.parseDestinationResult(item)
			if err != nil || dest == nil {
				continue
			}
			destinations = append(destinations, dest)
		}
	}

	return destinations, nil
}
