package repository

import (
	"context"
	"errors"

	"github.com/pesona/api/internal/database"
	"github.com/pesona/api/internal/model"
)

// ItineraryRepository handles itinerary data access
type ItineraryRepository struct {
	db database.Database
}

// NewItineraryRepository creates a new itinerary repository
func NewItineraryRepository(db database.Database) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

// Create creates a new itinerary with its stops embedded
func (r *ItineraryRepository) Create(ctx context.Context, itin *model.Itinerary) error {
	query := `
		CREATE itinerary CONTENT {
			author: type::record($author),
			title: $title,
			description: $description,
			stops: $stops,
			visibility: $visibility,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"author":      itin.AuthorID,
		"title":       itin.Title,
		"description": itin.Description,
		"stops":       stopsToMaps(itin.Stops),
		"visibility":  itin.Visibility,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	itin.ID = created.ID
	itin.CreatedOn = created.CreatedOn
	itin.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves an itinerary by ID
func (r *ItineraryRepository) GetByID(ctx context.Context, id string) (*model.Itinerary, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.parseItineraryResult(result)
}

// ListByAuthor retrieves a user's itineraries, newest first
func (r *ItineraryRepository) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*model.Itinerary, error) {
	query := `
		SELECT * FROM itinerary
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

	return r.parseItinerariesResult(result)
}

// ListPublic retrieves publicly shared itineraries, newest first
func (r *ItineraryRepository) ListPublic(ctx context.Context, limit, offset int) ([]*model.Itinerary, error) {
	query := `
		SELECT * FROM itinerary
		WHERE visibility = $visibility
		ORDER BY created_on DESC
		LIMIT $limit START $offset
	`
	vars := map[string]interface{}{
		"visibility": model.VisibilityPublic,
		"limit":      limit,
		"offset":     offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return r.parseItinerariesResult(result)
}

// Update replaces an itinerary's content
func (r *ItineraryRepository) Update(ctx context.Context, itin *model.Itinerary) error {
	query := `
		UPDATE type::record($id) SET
			title = $title,
			description = $description,
			stops = $stops,
			visibility = $visibility,
			updated_on = time::now()
	`

	vars := map[string]interface{}{
		"id":          itin.ID,
		"title":       itin.Title,
		"description": itin.Description,
		"stops":       stopsToMaps(itin.Stops),
		"visibility":  itin.Visibility,
	}

	return r.db.Execute(ctx, query, vars)
}

// SetVisibility updates only the visibility of an itinerary
func (r *ItineraryRepository) SetVisibility(ctx context.Context, id string, visibility model.ItineraryVisibility) error {
	query := `UPDATE type::record($id) SET visibility = $visibility, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":         id,
		"visibility": visibility,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete deletes an itinerary
func (r *ItineraryRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// Helper functions

func stopsToMaps(stops []model.ItineraryStop) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(stops))
	for _, stop := range stops {
		m := map[string]interface{}{
			"position":    stop.Position,
			"destination": stop.DestinationID,
		}
		if stop.Note != nil {
			m["note"] = *stop.Note
		}
		out = append(out, m)
	}
	return out
}

func (r *ItineraryRepository) parseItineraryResult(result interface{}) (*model.Itinerary, error) {
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

	itin := &model.Itinerary{
		ID:          convertSurrealID(data["id"]),
		Title:       getString(data, "title"),
		Description: getStringPtr(data, "description"),
		Visibility:  model.ItineraryVisibility(getString(data, "visibility")),
	}

	if author, ok := data["author"]; ok {
		itin.AuthorID = convertSurrealID(author)
	}
	itin.Stops = parseStops(data["stops"])
	if t := getTime(data, "created_on"); t != nil {
		itin.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		itin.UpdatedOn = *t
	}

	return itin, nil
}

func parseStops(v interface{}) []model.ItineraryStop {
	stops := make([]model.ItineraryStop, 0)
	items, ok := v.([]interface{})
	if !ok {
		return stops
	}

	for _, item := range items {
		data, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		stop := model.ItineraryStop{
			Position: getInt(data, "position"),
			Note:     getStringPtr(data, "note"),
		}
		if dest, ok := data["destination"]; ok {
			stop.DestinationID = convertSurrealID(dest)
		}
		stops = append(stops, stop)
	}
	return stops
}

func (r *ItineraryRepository) parseItinerariesResult(result []interface{}) ([]*model.Itinerary, error) {
	itineraries := make([]*model.Itinerary, 0)

	if items, ok := extractQueryResults(result); ok {
		for _, item := range items {
			itin, err := r.parseItineraryResult(item)
			if err != nil || itin == nil {
				continue
			}
			itineraries = append(itineraries, itin)
		}
	}

	return itineraries, nil
}
