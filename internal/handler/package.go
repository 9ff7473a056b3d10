package handler

import (
	"context"
	"net/http"

	"github.com/pesona/api/internal/middleware"
	"github.com/pesona/api/internal/model"
	"github.com/pesona/api/internal/service"
)

// PackageService is the part of the package service the handler uses
type PackageService interface {
	Create(ctx context.Context, actorID string, in service.PackageInput) (*model.TouristPackage, error)
	Get(ctx context.Context, id string) (*model.TouristPackage, error)
	List(ctx context.Context, promotedOnly bool, limit, offset int) ([]*model.TouristPackage, error)
	Update(ctx context.Context, id string, in service.PackageInput) (*model.TouristPackage, error)
	SetPromoted(ctx context.Context, id string, promoted bool) error
	Delete(ctx context.Context, id string) error
}

// PackageHandler handles tourist package endpoints
type PackageHandler struct {
	packageService PackageService
}

// NewPackageHandler creates a new package handler
func NewPackageHandler(packageService PackageService) *PackageHandler {
	return &PackageHandler{packageService: packageService}
}

// PackageRequest represents the create and update request body
type PackageRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          int64    `json:"price"`
	Promoted       bool     `json:"promoted"`
	DestinationIDs []string `json:"destination_ids"`
}

// PromoteRequest represents the promote toggle request body
type PromoteRequest struct {
	Promoted bool `json:"promoted"`
}

func (req *PackageRequest) toInput() service.PackageInput {
	return service.PackageInput{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Promoted:       req.Promoted,
		DestinationIDs: req.DestinationIDs,
	}
}

// List handles GET /v1/packages. Pass promoted=true for the highlighted
// selection shown on the landing page.
func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := queryPagination(r)
	promotedOnly := r.URL.Query().Get("promoted") == "true"

	packages, err := h.packageService.List(r.Context(), promotedOnly, limit, offset)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "listing packages"))
		return
	}

	WriteCollection(w, http.StatusOK, packages, nil, map[string]string{
		"self": "/v1/packages",
	})
}

// Get handles GET /v1/packages/{packageId}
func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request) {
	packageID := r.PathValue("packageId")
	if packageID == "" {
		WriteError(w, model.NewBadRequestError("package ID required"))
		return
	}

	pkg, err := h.packageService.Get(r.Context(), packageID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, pkg, map[string]string{
		"self": "/v1/packages/" + packageID,
	})
}

// Create handles POST /v1/packages (admin only)
func (h *PackageHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var req PackageRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	pkg, err := h.packageService.Create(r.Context(), actorID, req.toInput())
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "creating package"))
		return
	}

	WriteData(w, http.StatusCreated, pkg, map[string]string{
		"self": "/v1/packages/" + pkg.ID,
	})
}

// Update handles PATCH /v1/packages/{packageId} (admin only)
func (h *PackageHandler) Update(w http.ResponseWriter, r *http.Request) {
	packageID := r.PathValue("packageId")
	if packageID == "" {
		WriteError(w, model.NewBadRequestError("package ID required"))
		return
	}

	var req PackageRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	pkg, err := h.packageService.Update(r.Context(), packageID, req.toInput())
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "updating package"))
		return
	}

	WriteData(w, http.StatusOK, pkg, map[string]string{
		"self": "/v1/packages/" + pkg.ID,
	})
}

// Promote handles PATCH /v1/packages/{packageId}/promote (admin only)
func (h *PackageHandler) Promote(w http.ResponseWriter, r *http.Request) {
	packageID := r.PathValue("packageId")
	if packageID == "" {
		WriteError(w, model.NewBadRequestError("package ID required"))
		return
	}

	var req PromoteRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if err := h.packageService.SetPromoted(r.Context(), packageID, req.Promoted); err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "promoting package"))
		return
	}

	WriteNoContent(w)
}

// Delete handles DELETE /v1/packages/{packageId} (admin only)
func (h *PackageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	packageID := r.PathValue("packageId")
	if packageID == "" {
		WriteError(w, model.NewBadRequestError("package ID required"))
		return
	}

	if err := h.packageService.Delete(r.Context(), packageID); err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "deleting package"))
		return
	}

	WriteNoContent(w)
}
