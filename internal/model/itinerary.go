package model

import "time"

// ItineraryVisibility controls who can read an itinerary
type ItineraryVisibility string

const (
	VisibilityPrivate ItineraryVisibility = "private" // author and admins only
	VisibilityPublic  ItineraryVisibility = "public"
)

// IsValid returns true for a known visibility value
func (v ItineraryVisibility) IsValid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

// Field limits for itineraries
const (
	MaxItineraryTitleLength = 150
	MaxItineraryStops       = 30
	MaxStopNoteLength       = 500
)

// ItineraryStop is one ordered entry in a travel story: a destination
// plus an optional note. Position is zero-based and dense.
type ItineraryStop struct {
	Position      int     `json:"position"`
	DestinationID string  `json:"destination_id"`
	Note          *string `json:"note,omitempty"`
}

// Itinerary represents a user-authored travel story: an ordered sequence
// of destination stops shared with other users when public.
type Itinerary struct {
	ID          string              `json:"id"`
	AuthorID    string              `json:"author_id"`
	Title       string              `json:"title"`
	Description *string             `json:"description,omitempty"`
	Stops       []ItineraryStop     `json:"stops"`
	Visibility  ItineraryVisibility `json:"visibility"`
	CreatedOn   time.Time           `json:"created_on"`
	UpdatedOn   time.Time           `json:"updated_on"`
}
