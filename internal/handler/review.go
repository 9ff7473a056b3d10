package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/pesona/api/internal/middleware"
	"github.com/pesona/api/internal/model"
	"github.com/pesona/api/internal/service"
)

// Review submissions arrive as multipart forms so photos can ride along
// with the rating and comment in one request.
const maxReviewFormMemory = 32 << 20

// ReviewService is the part of the review service the handler uses
type ReviewService interface {
	CreateReview(ctx context.Context, authorID string, req service.CreateReviewRequest) (*model.Review, error)
	Get(ctx context.Context, id string) (*model.Review, error)
	ListByDestination(ctx context.Context, destinationID string, limit, offset int) ([]*model.Review, error)
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*model.Review, error)
	Update(ctx context.Context, actorID string, actorIsAdmin bool, reviewID string, req service.UpdateReviewRequest) (*model.Review, error)
	Delete(ctx context.Context, actorID string, actorIsAdmin bool, reviewID string) error
	GetPhoto(ctx context.Context, filename string) ([]byte, string, error)
}

// ReviewHandler handles review and photo endpoints
type ReviewHandler struct {
	reviewService ReviewService
	maxPhotoBytes int64
}

// NewReviewHandler creates a new review handler. maxPhotoBytes bounds
// how much of each uploaded file is read into memory.
func NewReviewHandler(reviewService ReviewService, maxPhotoBytes int64) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		maxPhotoBytes: maxPhotoBytes,
	}
}

// UpdateReviewRequest represents the review edit request body. Fields
// omitted from the body keep their stored values.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// Create handles POST /v1/destinations/{destinationId}/reviews. The body
// is multipart/form-data: a "rating" field, an optional "comment" field
// and up to five "photos" files.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	destinationID := r.PathValue("destinationId")
	if destinationID == "" {
		WriteError(w, model.NewBadRequestError("destination ID required"))
		return
	}

	if err := r.ParseMultipartForm(maxReviewFormMemory); err != nil {
		WriteError(w, model.NewBadRequestError("expected multipart/form-data body"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "rating", Message: "rating must be an integer between 1 and 5"},
		}))
		return
	}

	photos, problem := h.readPhotos(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	review, err := h.reviewService.CreateReview(r.Context(), userID, service.CreateReviewRequest{
		DestinationID: destinationID,
		Rating:        rating,
		Comment:       r.FormValue("comment"),
		Photos:        photos,
	})
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "creating review"))
		return
	}

	WriteData(w, http.StatusCreated, review, map[string]string{
		"self": "/v1/reviews/" + review.ID,
	})
}

// readPhotos pulls the uploaded files out of the parsed form. Each file
// is read one byte past the size limit so the service can reject
// oversize uploads without the handler buffering the whole thing.
func (h *ReviewHandler) readPhotos(r *http.Request) ([]service.PhotoUpload, *model.ProblemDetails) {
	files := r.MultipartForm.File["photos"]
	photos := make([]service.PhotoUpload, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return nil, model.NewBadRequestError("could not read uploaded photo")
		}
		data, err := io.ReadAll(io.LimitReader(file, h.maxPhotoBytes+1))
		file.Close()
		if err != nil {
			return nil, model.NewBadRequestError("could not read uploaded photo")
		}
		photos = append(photos, service.PhotoUpload{Data: data})
	}
	return photos, nil
}

// ListByDestination handles GET /v1/destinations/{destinationId}/reviews
func (h *ReviewHandler) ListByDestination(w http.ResponseWriter, r *http.Request) {
	destinationID := r.PathValue("destinationId")
	if destinationID == "" {
		WriteError(w, model.NewBadRequestError("destination ID required"))
		return
	}

	limit, offset := queryPagination(r)

	reviews, err := h.reviewService.ListByDestination(r.Context(), destinationID, limit, offset)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, reviews, nil, nil)
}

// ListMine handles GET /v1/profile/reviews
func (h *ReviewHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	limit, offset := queryPagination(r)

	reviews, err := h.reviewService.ListByAuthor(r.Context(), userID, limit, offset)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "listing reviews"))
		return
	}

	WriteCollection(w, http.StatusOK, reviews, nil, nil)
}

// Get handles GET /v1/reviews/{reviewId}
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("reviewId")
	if reviewID == "" {
		WriteError(w, model.NewBadRequestError("review ID required"))
		return
	}

	review, err := h.reviewService.Get(r.Context(), reviewID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, review, map[string]string{
		"self": "/v1/reviews/" + reviewID,
	})
}

// Update handles PATCH /v1/reviews/{reviewId}. Only the author or an
// admin may edit.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	reviewID := r.PathValue("reviewId")
	if reviewID == "" {
		WriteError(w, model.NewBadRequestError("review ID required"))
		return
	}

	var req UpdateReviewRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	review, err := h.reviewService.Update(r.Context(), userID, middleware.IsAdmin(r.Context()), reviewID, service.UpdateReviewRequest{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "updating review"))
		return
	}

	WriteData(w, http.StatusOK, review, map[string]string{
		"self": "/v1/reviews/" + reviewID,
	})
}

// Delete handles DELETE /v1/reviews/{reviewId}. Only the author or an
// admin may delete; the review's photos go with it.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	reviewID := r.PathValue("reviewId")
	if reviewID == "" {
		WriteError(w, model.NewBadRequestError("review ID required"))
		return
	}

	if err := h.reviewService.Delete(r.Context(), userID, middleware.IsAdmin(r.Context()), reviewID); err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "deleting review"))
		return
	}

	WriteNoContent(w)
}

// GetPhoto handles GET /v1/photos/{filename}. It serves the stored bytes
// with the MIME type that was sniffed at upload time.
func (h *ReviewHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	if filename == "" {
		WriteError(w, model.NewBadRequestError("filename required"))
		return
	}

	data, mimeType, err := h.reviewService.GetPhoto(r.Context(), filename)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
