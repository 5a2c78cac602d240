package booking

import (
	"time"

	"venuebook/internal/domain"
)

// OwnerCreateRequest is the direct-booking path: the venue owner records a
// confirmed event without a preceding user request.
type OwnerCreateRequest struct {
	VenueID int64 `json:"venue_id" binding:"required"`
	HallID  int64 `json:"hall_id" binding:"required"`
	UserID  int64 `json:"user_id" binding:"required"`

	EventType  string    `json:"event_type" binding:"required"`
	EventDate  time.Time `json:"event_date" binding:"required"`
	GuestCount int       `json:"guest_count" binding:"required"`

	PerPlatePrice  float64 `json:"per_plate_price" binding:"required"`
	DiscountAmount float64 `json:"discount_amount"`

	SelectedFoods      []string                   `json:"selected_foods"`
	AdditionalServices []domain.AdditionalService `json:"additional_services"`

	CancellationPolicy string `json:"cancellation_policy"`
	OwnerNotes         string `json:"owner_notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}
