package model

import "time"

// Field limits for destinations
const (
	MaxDestinationNameLength = 100
	MaxCategoryLength        = 50
	MaxLocationLength        = 200
)

// Destination represents a tourist destination in the catalog
type Destination struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"` // e.g. "nature", "culture", "culinary"
	Location    string    `json:"location"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedBy   string    `json:"created_by"` // admin account that created the entry
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// HasCoordinates returns true if the destination can be placed on a map
func (d *Destination) HasCoordinates() bool {
	return d.Latitude != nil && d.Longitude != nil
}

// DestinationLocation is the minimal shape served to the client-side map
// widget: the API hands out coordinates, the widget renders the tiles.
type DestinationLocation struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
