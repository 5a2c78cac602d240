package request

import (
	"time"

	"venuebook/internal/domain"
)

type CreateRequest struct {
	VenueID int64 `json:"venue_id" binding:"required"`
	HallID  int64 `json:"hall_id" binding:"required"`

	EventType  string    `json:"event_type" binding:"required"`
	EventDate  time.Time `json:"event_date" binding:"required"`
	GuestCount int       `json:"guest_count" binding:"required"`

	OfferedPerPlatePrice float64 `json:"offered_per_plate_price"`

	SelectedFoods      []string                   `json:"selected_foods"`
	RequestedFoods     []string                   `json:"requested_foods"`
	AdditionalServices []domain.AdditionalService `json:"additional_services"`
}

type DecideRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`

	// Owner-side pricing adjustments applied on acceptance.
	FinalPerPlatePrice float64 `json:"final_per_plate_price"`
	DiscountAmount     float64 `json:"discount_amount"`
}

type UpdateDetailsRequest struct {
	EventType  *string    `json:"event_type"`
	EventDate  *time.Time `json:"event_date"`
	GuestCount *int       `json:"guest_count"`

	OfferedPerPlatePrice *float64 `json:"offered_per_plate_price"`

	SelectedFoods      []string                   `json:"selected_foods"`
	RequestedFoods     []string                   `json:"requested_foods"`
	AdditionalServices []domain.AdditionalService `json:"additional_services"`
}
