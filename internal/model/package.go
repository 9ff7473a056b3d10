package model

import "time"

// TouristPackage represents a curated bundle of destinations sold as a
// single trip.
type TouristPackage struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          int64     `json:"price"` // in the smallest currency unit
	Promoted       bool      `json:"promoted"`
	DestinationIDs []string  `json:"destination_ids"`
	CreatedBy      string    `json:"created_by"`
	CreatedOn      time.Time `json:"created_on"`
	UpdatedOn      time.Time `json:"updated_on"`
}
