package booking

import (
	"time"

	"venuebook/internal/domain"
)

// FromRequest materializes the Booking for an accepted request. Event
// details, foods and services are copied verbatim; the cost fields are
// recomputed from the inputs rather than trusted from the request, so a
// stale request-side pricing snapshot cannot survive conversion. The
// booking period is derived once, here, and never refreshed.
func FromRequest(r *domain.BookingRequest, now time.Time) *domain.Booking {
	requestID := r.ID

	pricing := r.Pricing
	pricing.AmountPaid = 0
	pricing.Recalculate(r.EventDetails.GuestCount, r.AdditionalServices)

	return &domain.Booking{
		RequestID:    &requestID,
		UserID:       r.UserID,
		VenueID:      r.VenueID,
		HallID:       r.HallID,
		EventDetails: r.EventDetails,
		Pricing:      pricing,

		SelectedFoods:      r.SelectedFoods,
		RequestedFoods:     r.RequestedFoods,
		AdditionalServices: r.AdditionalServices,

		Status:        domain.BookingAccepted,
		PaymentStatus: domain.BookingUnpaid,
		BookingPeriod: domain.DeriveBookingPeriod(r.EventDetails.Date, now),
	}
}
