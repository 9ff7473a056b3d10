package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateIdentity  = errors.New("username or email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidUsername    = errors.New("username must be 3-30 characters: letters, digits, underscore")
)

// ===== Token Errors =====
var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
)

// ===== Authorization Errors =====
var (
	ErrForbidden = errors.New("not allowed to perform this action")
)

// ===== Catalog Errors =====
var (
	ErrDestinationNotFound  = errors.New("destination not found")
	ErrEventNotFound        = errors.New("cultural event not found")
	ErrPackageNotFound      = errors.New("tourist package not found")
	ErrNameRequired         = errors.New("name is required")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
	ErrCategoryRequired     = errors.New("category is required")
	ErrCategoryTooLong      = errors.New("category exceeds maximum length")
	ErrLocationRequired     = errors.New("location is required")
	ErrLocationTooLong      = errors.New("location exceeds maximum length")
	ErrInvalidCoordinates   = errors.New("invalid coordinates")
	ErrDateRequired         = errors.New("event date is required")
	ErrInvalidPrice         = errors.New("price must be greater than zero")
	ErrPackageNeedsStops    = errors.New("package must include at least one destination")
)

// ===== Review Errors =====
var (
	ErrReviewNotFound       = errors.New("review not found")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong       = errors.New("comment exceeds maximum length")
	ErrUnsupportedMediaType = errors.New("uploaded file is not a supported image type")
	ErrTooManyPhotos        = errors.New("too many photos attached")
	ErrPhotoTooLarge        = errors.New("photo exceeds maximum size")
	ErrPhotoNotFound        = errors.New("photo not found")
)

// ===== Itinerary Errors =====
var (
	ErrItineraryNotFound = errors.New("itinerary not found")
	ErrTitleRequired     = errors.New("title is required")
	ErrTitleTooLong      = errors.New("title exceeds maximum length")
	ErrNoStops           = errors.New("itinerary must contain at least one stop")
	ErrTooManyStops      = errors.New("itinerary exceeds maximum number of stops")
	ErrStopNoteTooLong   = errors.New("stop note exceeds maximum length")
	ErrInvalidVisibility = errors.New("invalid visibility setting")
)

// ===== Admin Errors =====
var (
	ErrInvalidRole      = errors.New("invalid role")
	ErrCannotEditSelf   = errors.New("cannot change your own role")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
)
