package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pesona/api/internal/model"
)

// allowedImageTypes are the MIME types accepted for review photos. The
// type is detected from the file bytes, never from the client-supplied
// filename or Content-Type header.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// ReviewRepository defines the interface for review storage
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	CreateWithPhotos(ctx context.Context, review *model.Review, photos []*model.ReviewPhoto) error
	GetByID(ctx context.Context, id string) (*model.Review, error)
	ListByDestination(ctx context.Context, destinationID string, limit, offset int) ([]*model.Review, error)
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*model.Review, error)
	GetRatingSummary(ctx context.Context, destinationID string) (count int, average float64, err error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id string) error
	GetPhotosByReview(ctx context.Context, reviewID string) ([]*model.ReviewPhoto, error)
	GetPhotoByFilename(ctx context.Context, filename string) (*model.ReviewPhoto, error)
	ListPhotoFilenamesByDestination(ctx context.Context, destinationID string) ([]string, error)
	ListPhotoFilenamesByAuthor(ctx context.Context, authorID string) ([]string, error)
}

// FileStore abstracts photo binary storage
type FileStore interface {
	Save(filename string, data []byte) error
	Open(filename string) ([]byte, error)
	Remove(filename string) error
}

// ReviewService handles review operations
type ReviewService struct {
	reviewRepo    ReviewRepository
	destRepo      DestinationRepository
	files         FileStore
	maxPhotoBytes int64
	maxPhotos     int
}

// ReviewServiceConfig holds configuration for the review service
type ReviewServiceConfig struct {
	ReviewRepo    ReviewRepository
	DestRepo      DestinationRepository
	Files         FileStore
	MaxPhotoBytes int64 // Default: 5 MiB
	MaxPhotos     int   // Default: 5
}

// NewReviewService creates a new review service
func NewReviewService(cfg ReviewServiceConfig) *ReviewService {
	if cfg.MaxPhotoBytes == 0 {
		cfg.MaxPhotoBytes = 5 << 20
	}
	if cfg.MaxPhotos == 0 {
		cfg.MaxPhotos = 5
	}
	return &ReviewService{
		reviewRepo:    cfg.ReviewRepo,
		destRepo:      cfg.DestRepo,
		files:         cfg.Files,
		maxPhotoBytes: cfg.MaxPhotoBytes,
		maxPhotos:     cfg.MaxPhotos,
	}
}

// PhotoUpload is an in-memory uploaded file awaiting validation
type PhotoUpload struct {
	Data []byte
}

// CreateReviewRequest represents a review submission
type CreateReviewRequest struct {
	DestinationID string
	Rating        int
	Comment       string
	Photos        []PhotoUpload
}

// CreateReview validates and stores a review with its photos. Photo bytes
// are sniffed before anything is written; the review row and its photo
// rows commit in a single transaction.
func (s *ReviewService) CreateReview(ctx context.Context, authorID string, req CreateReviewRequest) (*model.Review, error) {
	if !model.IsValidRating(req.Rating) {
		return nil, ErrInvalidRating
	}
	if len(req.Comment) > model.MaxCommentLength {
		return nil, ErrCommentTooLong
	}
	if len(req.Photos) > s.maxPhotos {
		return nil, ErrTooManyPhotos
	}

	dest, err := s.destRepo.GetByID(ctx, req.DestinationID)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		return nil, ErrDestinationNotFound
	}

	// Validate every photo before writing any of them
	photos := make([]*model.ReviewPhoto, 0, len(req.Photos))
	for _, upload := range req.Photos {
		if int64(len(upload.Data)) > s.maxPhotoBytes {
			return nil, ErrPhotoTooLarge
		}
		mimeType := sniffImageType(upload.Data)
		ext, ok := allowedImageTypes[mimeType]
		if !ok {
			return nil, ErrUnsupportedMediaType
		}
		photos = append(photos, &model.ReviewPhoto{
			Filename: uuid.NewString() + ext,
			MIMEType: mimeType,
		})
	}

	saved := make([]string, 0, len(photos))
	for i, photo := range photos {
		if err := s.files.Save(photo.Filename, req.Photos[i].Data); err != nil {
			s.removeFiles(saved)
			return nil, err
		}
		saved = append(saved, photo.Filename)
	}

	review := &model.Review{
		DestinationID: dest.ID,
		AuthorID:      authorID,
		Rating:        req.Rating,
		Comment:       strings.TrimSpace(req.Comment),
	}

	if err := s.reviewRepo.CreateWithPhotos(ctx, review, photos); err != nil {
		// The transaction rolled back, so the files must go too
		s.removeFiles(saved)
		return nil, err
	}

	return review, nil
}

// Get retrieves a review with its photos
func (s *ReviewService) Get(ctx context.Context, id string) (*model.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// ListByDestination retrieves a destination's reviews, newest first
func (s *ReviewService) ListByDestination(ctx context.Context, destinationID string, limit, offset int) ([]*model.Review, error) {
	limit, offset = clampPage(limit, offset)

	dest, err := s.destRepo.GetByID(ctx, destinationID)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		return nil, ErrDestinationNotFound
	}

	return s.reviewRepo.ListByDestination(ctx, destinationID, limit, offset)
}

// ListByAuthor retrieves reviews written by a user
func (s *ReviewService) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*model.Review, error) {
	limit, offset = clampPage(limit, offset)
	return s.reviewRepo.ListByAuthor(ctx, authorID, limit, offset)
}

// UpdateReviewRequest represents an edit to an existing review. Nil
// fields are left unchanged, so a comment can be edited without
// resubmitting the rating.
type UpdateReviewRequest struct {
	Rating  *int
	Comment *string
}

// Update edits a review's rating and comment. Only the author or an
// admin may edit; authorship itself never changes.
func (s *ReviewService) Update(ctx context.Context, actorID string, actorIsAdmin bool, reviewID string, req UpdateReviewRequest) (*model.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	if review.AuthorID != actorID && !actorIsAdmin {
		return nil, ErrForbidden
	}

	if req.Rating != nil {
		if !model.IsValidRating(*req.Rating) {
			return nil, ErrInvalidRating
		}
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		if len(*req.Comment) > model.MaxCommentLength {
			return nil, ErrCommentTooLong
		}
		review.Comment = strings.TrimSpace(*req.Comment)
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review, its photo rows and the files on disk. Only
// the author or an admin may delete.
func (s *ReviewService) Delete(ctx context.Context, actorID string, actorIsAdmin bool, reviewID string) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	if review.AuthorID != actorID && !actorIsAdmin {
		return ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	// Row is gone; file removal failures only leave orphans on disk
	for _, photo := range review.Photos {
		_ = s.files.Remove(photo.Filename)
	}
	return nil
}

// GetPhoto opens a stored photo and returns its bytes and detected MIME type
func (s *ReviewService) GetPhoto(ctx context.Context, filename string) ([]byte, string, error) {
	photo, err := s.reviewRepo.GetPhotoByFilename(ctx, filename)
	if err != nil {
		return nil, "", err
	}
	if photo == nil {
		return nil, "", ErrPhotoNotFound
	}

	data, err := s.files.Open(photo.Filename)
	if err != nil {
		return nil, "", ErrPhotoNotFound
	}
	return data, photo.MIMEType, nil
}

func (s *ReviewService) removeFiles(filenames []string) {
	for _, name := range filenames {
		_ = s.files.Remove(name)
	}
}

// sniffImageType detects the content type from the first bytes of the file
func sniffImageType(data []byte) string {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	mimeType := http.DetectContentType(head)
	// DetectContentType can append charset parameters for text types
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return mimeType
}
