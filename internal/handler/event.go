package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/pesona/api/internal/middleware"
	"github.com/pesona/api/internal/model"
	"github.com/pesona/api/internal/service"
)

// EventService is the part of the event service the handler uses
type EventService interface {
	Create(ctx context.Context, actorID string, in service.EventInput) (*model.CulturalEvent, error)
	Get(ctx context.Context, id string) (*model.CulturalEvent, error)
	List(ctx context.Context, upcomingOnly bool, limit, offset int) ([]*model.CulturalEvent, error)
	ListByDestination(ctx context.Context, destinationID string) ([]*model.CulturalEvent, error)
	Update(ctx context.Context, id string, in service.EventInput) (*model.CulturalEvent, error)
	Delete(ctx context.Context, id string) error
}

// EventHandler handles cultural event endpoints
type EventHandler struct {
	eventService EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// EventRequest represents the create and update request body. Date uses
// RFC 3339.
type EventRequest struct {
	Name          string  `json:"name"`
	Date          string  `json:"date"`
	Location      string  `json:"location"`
	Description   string  `json:"description"`
	Organizer     *string `json:"organizer,omitempty"`
	DestinationID *string `json:"destination_id,omitempty"`
}

func (req *EventRequest) toInput() (service.EventInput, *model.ProblemDetails) {
	if req.Date == "" {
		return service.EventInput{}, model.NewValidationError([]model.FieldError{
			{Field: "date", Message: "date is required"},
		})
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return service.EventInput{}, model.NewValidationError([]model.FieldError{
			{Field: "date", Message: "date must be RFC 3339, e.g. 2026-10-17T09:00:00Z"},
		})
	}
	return service.EventInput{
		Name:          req.Name,
		Date:          date,
		Location:      req.Location,
		Description:   req.Description,
		Organizer:     req.Organizer,
		DestinationID: req.DestinationID,
	}, nil
}

// List handles GET /v1/events. Pass upcoming=true to hide past events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := queryPagination(r)
	upcomingOnly := r.URL.Query().Get("upcoming") == "true"

	events, err := h.eventService.List(r.Context(), upcomingOnly, limit, offset)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "listing events"))
		return
	}

	WriteCollection(w, http.StatusOK, events, nil, map[string]string{
		"self": "/v1/events",
	})
}

// Get handles GET /v1/events/{eventId}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	event, err := h.eventService.Get(r.Context(), eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, event, map[string]string{
		"self": "/v1/events/" + eventID,
	})
}

// ListByDestination handles GET /v1/destinations/{destinationId}/events
func (h *EventHandler) ListByDestination(w http.ResponseWriter, r *http.Request) {
	destinationID := r.PathValue("destinationId")
	if destinationID == "" {
		WriteError(w, model.NewBadRequestError("destination ID required"))
		return
	}

	events, err := h.eventService.ListByDestination(r.Context(), destinationID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, events, nil, nil)
}

// Create handles POST /v1/events (admin only)
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var req EventRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	input, problem := req.toInput()
	if problem != nil {
		WriteError(w, problem)
		return
	}

	event, err := h.eventService.Create(r.Context(), actorID, input)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "creating event"))
		return
	}

	WriteData(w, http.StatusCreated, event, map[string]string{
		"self": "/v1/events/" + event.ID,
	})
}

// Update handles PATCH /v1/events/{eventId} (admin only)
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	var req EventRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	input, problem := req.toInput()
	if problem != nil {
		WriteError(w, problem)
		return
	}

	event, err := h.eventService.Update(r.Context(), eventID, input)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "updating event"))
		return
	}

	WriteData(w, http.StatusOK, event, map[string]string{
		"self": "/v1/events/" + event.ID,
	})
}

// Delete handles DELETE /v1/events/{eventId} (admin only)
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	if err := h.eventService.Delete(r.Context(), eventID); err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "deleting event"))
		return
	}

	WriteNoContent(w)
}
