package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingAccepted  BookingStatus = "Accepted"
	BookingRejected  BookingStatus = "Rejected"
	BookingCancelled BookingStatus = "Cancelled"
	BookingRunning   BookingStatus = "Running"
	BookingCompleted BookingStatus = "Completed"
)

func (s BookingStatus) Terminal() bool {
	return s == BookingRejected || s == BookingCancelled || s == BookingCompleted
}

// BookingPaymentStatus is the booking-side mirror of the payment ledger.
// Only the payment service and the read-time reconciliation write it.
type BookingPaymentStatus string

const (
	BookingUnpaid        BookingPaymentStatus = "Unpaid"
	BookingPartiallyPaid BookingPaymentStatus = "Partially Paid"
	BookingPaid          BookingPaymentStatus = "Paid"
	BookingRefunded      BookingPaymentStatus = "Refunded"
)

type BookingPeriod string

const (
	PeriodPast    BookingPeriod = "Past"
	PeriodCurrent BookingPeriod = "Current"
	PeriodFuture  BookingPeriod = "Future"
)

// DeriveBookingPeriod compares the event date with now on calendar-day
// granularity. Derived once at conversion time; never refreshed afterwards,
// so a booking accepted long before its date keeps "Future" until an owner
// action touches it. Snapshot semantics are intentional.
func DeriveBookingPeriod(eventDate, now time.Time) BookingPeriod {
	ed := time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, eventDate.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, eventDate.Location())
	switch {
	case ed.Before(today):
		return PeriodPast
	case ed.Equal(today):
		return PeriodCurrent
	default:
		return PeriodFuture
	}
}

// Booking is a confirmed event. Created only by accepting a BookingRequest
// or directly by the venue owner; carries its own pricing snapshot.
type Booking struct {
	ID        int64  `json:"id"`
	RequestID *int64 `json:"request_id,omitempty"`
	UserID    int64  `json:"user_id"`
	VenueID   int64  `json:"venue_id"`
	HallID    int64  `json:"hall_id"`

	EventDetails EventDetails `json:"event_details"`
	Pricing      Pricing      `json:"pricing"`

	SelectedFoods      []string            `json:"selected_foods,omitempty"`
	RequestedFoods     []string            `json:"requested_foods,omitempty"`
	AdditionalServices []AdditionalService `json:"additional_services,omitempty"`

	Status        BookingStatus        `json:"status"`
	PaymentStatus BookingPaymentStatus `json:"payment_status"`
	BookingPeriod BookingPeriod        `json:"booking_period"`

	CancellationPolicy string `json:"cancellation_policy,omitempty"`
	OwnerNotes         string `json:"owner_notes,omitempty"`
	Reason             string `json:"reason,omitempty"`
	IsDeleted          bool   `json:"is_deleted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the booking still blocks a new request for the same
// (user, venue) pair.
func (b *Booking) Active() bool {
	return !b.IsDeleted && !b.Status.Terminal()
}
