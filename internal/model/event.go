package model

import "time"

// CulturalEvent represents a cultural event or festival, optionally tied
// to a destination in the catalog.
type CulturalEvent struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Date          time.Time `json:"date"`
	Location      string    `json:"location"`
	Description   string    `json:"description"`
	Organizer     *string   `json:"organizer,omitempty"`
	DestinationID *string   `json:"destination_id,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedOn     time.Time `json:"created_on"`
	UpdatedOn     time.Time `json:"updated_on"`
}
