package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pesona/api/internal/database"
	"github.com/pesona/api/internal/model"
)

// EventRepository handles cultural event data access
type EventRepository struct {
	db database.Database
}

// NewEventRepository creates a new event repository
func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates a new cultural event
func (r *EventRepository) Create(ctx context.Context, event *model.CulturalEvent) error {
	query := `
		CREATE cultural_event CONTENT {
			name: $name,
			date: <datetime>$date,
			location: $location,
			description: $description,
			organizer: $organizer,
			destination: IF $destination IS NOT NULL THEN type::record($destination) ELSE NONE END,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"name":        event.Name,
		"date":        event.Date.Format(time.RFC3339),
		"location":    event.Location,
		"description": event.Description,
		"organizer":   event.Organizer,
		"destination": event.DestinationID,
		"created_by":  event.CreatedBy,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	event.ID = created.ID
	event.CreatedOn = created.CreatedOn
	event.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a cultural event by ID
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.CulturalEvent, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.parseEventResult(result)
}

// List retrieves cultural events ordered by date. When upcomingOnly is
// set, past events are filtered out.
func (r *EventRepository) List(ctx context.Context, upcomingOnly bool, limit, offset int) ([]*model.CulturalEvent, error) {
	query := `
		SELECT * FROM cultural_event
		ORDER BY date ASC
		LIMIT $limit START $offset
	`
	if upcomingOnly {
		query = `
			SELECT * FROM cultural_event
			WHERE date >= time::now()
			ORDER BY date ASC
			LIMIT $limit START $offset
		`
	}

	vars := map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return r.parseEventsResult(result)
}

// ListByDestination retrieves events tied to a destination
func (r *EventRepository) ListByDestination(ctx context.Context, destinationID string) ([]*model.CulturalEvent, error) {
	query := `
		SELECT * FROM cultural_event
		WHERE destination = type::record($destination)
		ORDER BY date ASC
	`
	vars := map[string]interface{}{"destination": destinationID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return r.parseEventsResult(result)
}

// Update updates a cultural event
func (r *EventRepository) Update(ctx context.Context, event *model.CulturalEvent) error {
	query := `
		UPDATE type::record($id) SET
			name = $name,
			date = <datetime>$date,
			location = $location,
			description = $description,
			organizer = $organizer,
			destination = IF $destination IS NOT NULL THEN type::record($destination) ELSE NONE END,
			updated_on = time::now()
	`

	vars := map[string]interface{}{
		"id":          event.ID,
		"name":        event.Name,
		"date":        event.Date.Format(time.RFC3339),
		"location":    event.Location,
		"description": event.Description,
		"organizer":   event.Organizer,
		"destination": event.DestinationID,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete deletes a cultural event
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// Helper functions

func (r *EventRepository) parseEventResult(result interface{}) (*model.CulturalEvent, error) {
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

	event := &model.CulturalEvent{
		ID:          convertSurrealID(data["id"]),
		Name:        getString(data, "name"),
		Location:    getString(data, "location"),
		Description: getString(data, "description"),
		Organizer:   getStringPtr(data, "organizer"),
	}

	if dest, ok := data["destination"]; ok && dest != nil {
		id := convertSurrealID(dest)
		if id != "" && id != "<nil>" {
			event.DestinationID = &id
		}
	}
	if createdBy, ok := data["created_by"]; ok {
		event.CreatedBy = convertSurrealID(createdBy)
	}
	if t := getTime(data, "date"); t != nil {
		event.Date = *t
	}
	if t := getTime(data, "created_on"); t != nil {
		event.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		event.UpdatedOn = *t
	}

	return event, nil
}

func (r *EventRepository) parseEventsResult(result []interface{}) ([]*model.CulturalEvent, error) {
	events := make([]*model.CulturalEvent, 0)

	if items, ok := extractQueryResults(result); ok {
		for _, item := range items {
			event, err := r.parseEventResult(item)
			if err != nil || event == nil {
				continue
			}
			events = append(events, event)
		}
	}

	return events, nil
}
