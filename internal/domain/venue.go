package domain

import "time"

type VenueStatus string

const (
	VenueActive   VenueStatus = "Active"
	VenueInactive VenueStatus = "Inactive"
)

type Venue struct {
	ID          int64       `json:"id"`
	OwnerID     int64       `json:"owner_id" validate:"required"`
	Name        string      `json:"name" validate:"required"`
	Location    string      `json:"location"`
	Description string      `json:"description,omitempty"`
	Status      VenueStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Halls []Hall `json:"halls,omitempty"`
	Foods []Food `json:"foods,omitempty"`
}

type Hall struct {
	ID        int64     `json:"id"`
	VenueID   int64     `json:"venue_id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Capacity  int       `json:"capacity" validate:"gt=0"`
	BasePrice float64   `json:"base_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Food struct {
	ID        int64     `json:"id"`
	VenueID   int64     `json:"venue_id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Category  string    `json:"category,omitempty"`
	Price     float64   `json:"price" validate:"gte=0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdditionalService is an extra billed item attached to a request or booking
// (decoration, DJ, photography). Stored as part of the booking document,
// not a catalog entity.
type AdditionalService struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}
