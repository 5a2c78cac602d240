package domain

import "time"

type RequestStatus string

const (
	RequestPending   RequestStatus = "Pending"
	RequestAccepted  RequestStatus = "Accepted"
	RequestRejected  RequestStatus = "Rejected"
	RequestCancelled RequestStatus = "Cancelled"
)

// Terminal reports whether the request can no longer change. An accepted
// request is terminal for the request itself; further lifecycle lives on the
// converted Booking.
func (s RequestStatus) Terminal() bool {
	return s == RequestAccepted || s == RequestRejected || s == RequestCancelled
}

// BookingRequest is a user's ask for an event at a venue hall. It stays
// Pending until the owner decides; acceptance converts it into a Booking.
type BookingRequest struct {
	ID      int64 `json:"id"`
	UserID  int64 `json:"user_id" validate:"required"`
	VenueID int64 `json:"venue_id" validate:"required"`
	HallID  int64 `json:"hall_id" validate:"required"`

	EventDetails EventDetails `json:"event_details"`
	Pricing      Pricing      `json:"pricing"`

	SelectedFoods      []string            `json:"selected_foods,omitempty"`
	RequestedFoods     []string            `json:"requested_foods,omitempty"`
	AdditionalServices []AdditionalService `json:"additional_services,omitempty"`

	Status RequestStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
