package domain

import "time"

type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeRoom       PropertyType = "room"
	PropertyTypeStudio     PropertyType = "studio"
	PropertyTypeCommercial PropertyType = "commercial"
)

type Property struct {
	ID           string       `json:"id"`
	OwnerID      string       `json:"owner_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	PropertyType PropertyType `json:"property_type"`
	// Price is an exact decimal string, e.g. "1500000.00".
	Price        string    `json:"price"`
	Currency     string    `json:"currency"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Neighborhood string    `json:"neighborhood,omitempty"`
	Bedrooms     int32     `json:"bedrooms"`
	Bathrooms    int32     `json:"bathrooms"`
	AreaSqm      string    `json:"area_sqm,omitempty"`
	IsFurnished  bool      `json:"is_furnished"`
	IsAvailable  bool      `json:"is_available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
