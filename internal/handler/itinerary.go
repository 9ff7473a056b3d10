package handler

import (
	"context"
	"net/http"

	"github.com/pesona/api/internal/middleware"
	"github.com/pesona/api/internal/model"
	"github.com/pesona/api/internal/service"
)

// ItineraryService is the part of the itinerary service the handler uses
type ItineraryService interface {
	Create(ctx context.Context, authorID string, in service.ItineraryInput) (*model.Itinerary, error)
	Get(ctx context.Context, actorID string, actorIsAdmin bool, id string) (*model.Itinerary, error)
	ListMine(ctx context.Context, authorID string, limit, offset int) ([]*model.Itinerary, error)
	ListPublic(ctx context.Context, limit, offset int) ([]*model.Itinerary, error)
	Update(ctx context.Context, actorID string, actorIsAdmin bool, id string, in service.ItineraryInput) (*model.Itinerary, error)
	SetVisibility(ctx context.Context, actorID string, actorIsAdmin bool, id string, visibility model.ItineraryVisibility) error
	Delete(ctx context.Context, actorID string, actorIsAdmin bool, id string) error
}

// ItineraryHandler handles itinerary endpoints
type ItineraryHandler struct {
	itineraryService ItineraryService
}

// NewItineraryHandler creates a new itinerary handler
func NewItineraryHandler(itineraryService ItineraryService) *ItineraryHandler {
	return &ItineraryHandler{itineraryService: itineraryService}
}

// StopRequest is one stop in an itinerary request body. Order in the
// array is the order of the trip.
type StopRequest struct {
	DestinationID string  `json:"destination_id"`
	Note          *string `json:"note,omitempty"`
}

// ItineraryRequest represents the create and update request body
type ItineraryRequest struct {
	Title       string        `json:"title"`
	Description *string       `json:"description,omitempty"`
	Stops       []StopRequest `json:"stops"`
	Visibility  string        `json:"visibility,omitempty"`
}

// VisibilityRequest represents the visibility toggle request body
type VisibilityRequest struct {
	Visibility string `json:"visibility"`
}

func (req *ItineraryRequest) toInput() service.ItineraryInput {
	stops := make([]service.StopInput, 0, len(req.Stops))
	for _, stop := range req.Stops {
		stops = append(stops, service.StopInput{
			DestinationID: stop.DestinationID,
			Note:          stop.Note,
		})
	}
	return service.ItineraryInput{
		Title:       req.Title,
		Description: req.Description,
		Stops:       stops,
		Visibility:  model.ItineraryVisibility(req.Visibility),
	}
}

// Create handles POST /v1/itineraries
func (h *ItineraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req ItineraryRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	itinerary, err := h.itineraryService.Create(r.Context(), userID, req.toInput())
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "creating itinerary"))
		return
	}

	WriteData(w, http.StatusCreated, itinerary, map[string]string{
		"self": "/v1/itineraries/" + itinerary.ID,
	})
}

// Get handles GET /v1/itineraries/{itineraryId}. The route carries
// optional authentication: anonymous readers see public itineraries
// only.
func (h *ItineraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	itineraryID := r.PathValue("itineraryId")
	if itineraryID == "" {
		WriteError(w, model.NewBadRequestError("itinerary ID required"))
		return
	}

	actorID := middleware.GetUserID(r.Context())
	itinerary, err := h.itineraryService.Get(r.Context(), actorID, middleware.IsAdmin(r.Context()), itineraryID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, itinerary, map[string]string{
		"self": "/v1/itineraries/" + itineraryID,
	})
}

// ListPublic handles GET /v1/itineraries
func (h *ItineraryHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	limit, offset := queryPagination(r)

	itineraries, err := h.itineraryService.ListPublic(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "listing itineraries"))
		return
	}

	WriteCollection(w, http.StatusOK, itineraries, nil, map[string]string{
		"self": "/v1/itineraries",
	})
}

// ListMine handles GET /v1/itineraries/mine
func (h *ItineraryHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	limit, offset := queryPagination(r)

	itineraries, err := h.itineraryService.ListMine(r.Context(), userID, limit, offset)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "listing itineraries"))
		return
	}

	WriteCollection(w, http.StatusOK, itineraries, nil, nil)
}

// Update handles PATCH /v1/itineraries/{itineraryId}
func (h *ItineraryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	itineraryID := r.PathValue("itineraryId")
	if itineraryID == "" {
		WriteError(w, model.NewBadRequestError("itinerary ID required"))
		return
	}

	var req ItineraryRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	itinerary, err := h.itineraryService.Update(r.Context(), userID, middleware.IsAdmin(r.Context()), itineraryID, req.toInput())
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "updating itinerary"))
		return
	}

	WriteData(w, http.StatusOK, itinerary, map[string]string{
		"self": "/v1/itineraries/" + itineraryID,
	})
}

// SetVisibility handles PATCH /v1/itineraries/{itineraryId}/visibility
func (h *ItineraryHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	itineraryID := r.PathValue("itineraryId")
	if itineraryID == "" {
		WriteError(w, model.NewBadRequestError("itinerary ID required"))
		return
	}

	var req VisibilityRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	err := h.itineraryService.SetVisibility(r.Context(), userID, middleware.IsAdmin(r.Context()), itineraryID, model.ItineraryVisibility(req.Visibility))
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "changing visibility"))
		return
	}

	WriteNoContent(w)
}

// Delete handles DELETE /v1/itineraries/{itineraryId}
func (h *ItineraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	itineraryID := r.PathValue("itineraryId")
	if itineraryID == "" {
		WriteError(w, model.NewBadRequestError("itinerary ID required"))
		return
	}

	if err := h.itineraryService.Delete(r.Context(), userID, middleware.IsAdmin(r.Context()), itineraryID); err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "deleting itinerary"))
		return
	}

	WriteNoContent(w)
}
