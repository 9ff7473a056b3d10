package handler

import (
	"errors"
	"log/slog"

	"github.com/pesona/api/internal/model"
	"github.com/pesona/api/internal/service"
)

// MapServiceError converts a service layer error into problem details.
// Handlers that need a custom message for a specific error check it
// themselves before falling through to this mapping.
func MapServiceError(err error) *model.ProblemDetails {
	switch {
	// ===== 401 Unauthorized =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError("invalid username or password")
	case errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrRefreshTokenExpired),
		errors.Is(err, service.ErrRefreshTokenRevoked):
		return model.NewUnauthorizedError("invalid or expired refresh token")

	// ===== 403 Forbidden =====
	case errors.Is(err, service.ErrForbidden):
		return model.NewForbiddenError("you do not have access to this resource")

	// ===== 404 Not Found =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrDestinationNotFound):
		return model.NewNotFoundError("destination")
	case errors.Is(err, service.ErrEventNotFound):
		return model.NewNotFoundError("event")
	case errors.Is(err, service.ErrPackageNotFound):
		return model.NewNotFoundError("package")
	case errors.Is(err, service.ErrReviewNotFound):
		return model.NewNotFoundError("review")
	case errors.Is(err, service.ErrPhotoNotFound):
		return model.NewNotFoundError("photo")
	case errors.Is(err, service.ErrItineraryNotFound):
		return model.NewNotFoundError("itinerary")

	// ===== 409 Conflict =====
	case errors.Is(err, service.ErrDuplicateIdentity):
		return model.NewConflictError("username or email already registered")
	case errors.Is(err, service.ErrCannotEditSelf):
		return model.NewConflictError("cannot change your own role")
	case errors.Is(err, service.ErrCannotDeleteSelf):
		return model.NewConflictError("cannot delete your own account")

	// ===== 413 / 415 Uploads =====
	case errors.Is(err, service.ErrUnsupportedMediaType):
		return model.NewUnsupportedMediaTypeError("photos must be JPEG, PNG or GIF")
	case errors.Is(err, service.ErrPhotoTooLarge):
		return model.NewValidationError([]model.FieldError{
			{Field: "photos", Message: "each photo must be at most 5 MB"},
		})
	case errors.Is(err, service.ErrTooManyPhotos):
		return model.NewValidationError([]model.FieldError{
			{Field: "photos", Message: "too many photos attached"},
		})

	// ===== 422 Validation: identity =====
	case errors.Is(err, service.ErrPasswordRequired):
		return model.NewValidationError([]model.FieldError{
			{Field: "password", Message: "password is required"},
		})
	case errors.Is(err, service.ErrPasswordTooShort):
		return model.NewValidationError([]model.FieldError{
			{Field: "password", Message: "password must be at least 8 characters"},
		})
	case errors.Is(err, service.ErrPasswordTooLong):
		return model.NewValidationError([]model.FieldError{
			{Field: "password", Message: "password must be at most 128 characters"},
		})
	case errors.Is(err, service.ErrInvalidEmail):
		return model.NewValidationError([]model.FieldError{
			{Field: "email", Message: "invalid email format"},
		})
	case errors.Is(err, service.ErrInvalidUsername):
		return model.NewValidationError([]model.FieldError{
			{Field: "username", Message: "username must be 3-30 characters of letters, digits or underscores"},
		})
	case errors.Is(err, service.ErrInvalidRole):
		return model.NewValidationError([]model.FieldError{
			{Field: "role", Message: "role must be 'user' or 'admin'"},
		})

	// ===== 422 Validation: catalog =====
	case errors.Is(err, service.ErrNameRequired):
		return model.NewValidationError([]model.FieldError{
			{Field: "name", Message: "name is required"},
		})
	case errors.Is(err, service.ErrNameTooLong):
		return model.NewValidationError([]model.FieldError{
			{Field: "name", Message: "name is too long"},
		})
	case errors.Is(err, service.ErrCategoryRequired):
		return model.NewValidationError([]model.FieldError{
			{Field: "category", Message: "category is required"},
		})
	case errors.Is(err, service.ErrCategoryTooLong):
		return model.NewValidationError([]model.FieldError{
			{Field: "category", Message: "category is too long"},
		})
	case errors.Is(err, service.ErrLocationRequired):
		return model.NewValidationError([]model.FieldError{
			{Field: "location", Message: "location is required"},
		})
	case errors.Is(err, service.ErrLocationTooLong):
		return model.NewValidationError([]model.FieldError{
			{Field: "location", Message: "location is too long"},
		})
	case errors.Is(err, service.ErrInvalidCoordinates):
		return model.NewValidationError([]model.FieldError{
			{Field: "latitude", Message: "latitude and longitude must be given together and within range"},
		})
	case errors.Is(err, service.ErrDateRequired):
		return model.NewValidationError([]model.FieldError{
			{Field: "date", Message: "date is required"},
		})
	case errors.Is(err, service.ErrInvalidPrice):
		return model.NewValidationError([]model.FieldError{
			{Field: "price", Message: "price must be greater than zero"},
		})
	case errors.Is(err, service.ErrPackageNeedsStops):
		return model.NewValidationError([]model.FieldError{
			{Field: "destination_ids", Message: "a package needs at least one destination"},
		})

	// ===== 422 Validation: reviews and itineraries =====
	case errors.Is(err, service.ErrInvalidRating):
		return model.NewValidationError([]model.FieldError{
			{Field: "rating", Message: "rating must be between 1 and 5"},
		})
	case errors.Is(err, service.ErrCommentTooLong):
		return model.NewValidationError([]model.FieldError{
			{Field: "comment", Message: "comment is too long"},
		})
	case errors.Is(err, service.ErrTitleRequired):
		return model.NewValidationError([]model.FieldError{
			{Field: "title", Message: "title is required"},
		})
	case errors.Is(err, service.ErrTitleTooLong):
		return model.NewValidationError([]model.FieldError{
			{Field: "title", Message: "title is too long"},
		})
	case errors.Is(err, service.ErrNoStops):
		return model.NewValidationError([]model.FieldError{
			{Field: "stops", Message: "an itinerary needs at least one stop"},
		})
	case errors.Is(err, service.ErrTooManyStops):
		return model.NewValidationError([]model.FieldError{
			{Field: "stops", Message: "too many stops"},
		})
	case errors.Is(err, service.ErrStopNoteTooLong):
		return model.NewValidationError([]model.FieldError{
			{Field: "stops", Message: "stop note is too long"},
		})
	case errors.Is(err, service.ErrInvalidVisibility):
		return model.NewValidationError([]model.FieldError{
			{Field: "visibility", Message: "visibility must be 'private' or 'public'"},
		})

	// ===== 500 everything else =====
	default:
		slog.Error("unhandled service error", "error", err)
		return model.NewInternalError("an unexpected error occurred")
	}
}

// MapServiceErrorWithContext maps like MapServiceError but replaces the
// generic 500 detail with an operation-specific one.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	problem := MapServiceError(err)
	if problem.Status == 500 {
		problem.Detail = operation + " failed"
	}
	return problem
}
