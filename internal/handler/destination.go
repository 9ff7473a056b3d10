package handler

import (
	"context"
	"net/http"

	"github.com/pesona/api/internal/middleware"
	"github.com/pesona/api/internal/model"
	"github.com/pesona/api/internal/service"
)

// DestinationService is the part of the destination service the handler uses
type DestinationService interface {
	Create(ctx context.Context, actorID string, in service.DestinationInput) (*model.Destination, error)
	Get(ctx context.Context, id string) (*service.DestinationDetail, error)
	List(ctx context.Context, category string, limit, offset int) (*service.ListResult, error)
	ListLocations(ctx context.Context) ([]*model.DestinationLocation, error)
	Update(ctx context.Context, id string, in service.DestinationInput) (*model.Destination, error)
	Delete(ctx context.Context, id string) error
}

// DestinationHandler handles destination catalog endpoints
type DestinationHandler struct {
	destinationService DestinationService
}

// NewDestinationHandler creates a new destination handler
func NewDestinationHandler(destinationService DestinationService) *DestinationHandler {
	return &DestinationHandler{destinationService: destinationService}
}

// DestinationRequest represents the create and update request body
type DestinationRequest struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

func (req *DestinationRequest) toInput() service.DestinationInput {
	return service.DestinationInput{
		Name:        req.Name,
		Category:    req.Category,
		Location:    req.Location,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}
}

// List handles GET /v1/destinations
func (h *DestinationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := queryPagination(r)
	category := r.URL.Query().Get("category")

	result, err := h.destinationService.List(r.Context(), category, limit, offset)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "listing destinations"))
		return
	}

	WriteCollection(w, http.StatusOK, result.Destinations, &PaginationInfo{
		Total:  result.Total,
		Limit:  limit,
		Offset: offset,
	}, map[string]string{
		"self": "/v1/destinations",
	})
}

// Get handles GET /v1/destinations/{destinationId}
func (h *DestinationHandler) Get(w http.ResponseWriter, r *http.Request) {
	destinationID := r.PathValue("destinationId")
	if destinationID == "" {
		WriteError(w, model.NewBadRequestError("destination ID required"))
		return
	}

	detail, err := h.destinationService.Get(r.Context(), destinationID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, detail, map[string]string{
		"self":    "/v1/destinations/" + destinationID,
		"reviews": "/v1/destinations/" + destinationID + "/reviews",
		"events":  "/v1/destinations/" + destinationID + "/events",
	})
}

// ListLocations handles GET /v1/destinations/locations. It serves the
// coordinate set the client-side map widget plots.
func (h *DestinationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.destinationService.ListLocations(r.Context())
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "listing locations"))
		return
	}

	WriteData(w, http.StatusOK, locations, nil)
}

// Create handles POST /v1/destinations (admin only)
func (h *DestinationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var req DestinationRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	dest, err := h.destinationService.Create(r.Context(), actorID, req.toInput())
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "creating destination"))
		return
	}

	WriteData(w, http.StatusCreated, dest, map[string]string{
		"self": "/v1/destinations/" + dest.ID,
	})
}

// Update handles PATCH /v1/destinations/{destinationId} (admin only)
func (h *DestinationHandler) Update(w http.ResponseWriter, r *http.Request) {
	destinationID := r.PathValue("destinationId")
	if destinationID == "" {
		WriteError(w, model.NewBadRequestError("destination ID required"))
		return
	}

	var req DestinationRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	dest, err := h.destinationService.Update(r.Context(), destinationID, req.toInput())
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "updating destination"))
		return
	}

	WriteData(w, http.StatusOK, dest, map[string]string{
		"self": "/v1/destinations/" + dest.ID,
	})
}

// Delete handles DELETE /v1/destinations/{destinationId} (admin only)
func (h *DestinationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	destinationID := r.PathValue("destinationId")
	if destinationID == "" {
		WriteError(w, model.NewBadRequestError("destination ID required"))
		return
	}

	if err := h.destinationService.Delete(r.Context(), destinationID); err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "deleting destination"))
		return
	}

	WriteNoContent(w)
}
