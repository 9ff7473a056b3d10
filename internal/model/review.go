package model

import "time"

// Rating scale and field limits for reviews
const (
	MinRating = 1
	MaxRating = 5

	MaxCommentLength = 2000
)

// Review represents a user's rating and comment on a destination.
// The author reference is immutable after creation.
type Review struct {
	ID            string         `json:"id"`
	DestinationID string         `json:"destination_id"`
	AuthorID      string         `json:"author_id"`
	Rating        int            `json:"rating"`
	Comment       string         `json:"comment"`
	Photos        []*ReviewPhoto `json:"photos,omitempty"`
	CreatedOn     time.Time      `json:"created_on"`
	UpdatedOn     time.Time      `json:"updated_on"`
}

// IsValidRating reports whether a rating falls on the accepted scale
func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// ReviewPhoto represents an uploaded photo attached to a review. The
// binary lives on disk under the upload directory; the database keeps
// the generated filename and the MIME type detected from the bytes.
type ReviewPhoto struct {
	ID        string    `json:"id"`
	ReviewID  string    `json:"review_id"`
	Filename  string    `json:"filename"`
	MIMEType  string    `json:"mime_type"`
	CreatedOn time.Time `json:"created_on"`
}
