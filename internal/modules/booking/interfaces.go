package booking

import (
	"context"

	"venuebook/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByRequestID(ctx context.Context, requestID int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListByVenue(ctx context.Context, venueID int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, reason string) error
	UpdateOwnerNotes(ctx context.Context, id int64, notes string) error
	SoftDelete(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error
	ApplyPaymentMirror(ctx context.Context, bookingID int64, status domain.BookingPaymentStatus, amountPaid, balance float64) error
}

// PaymentReader exposes the ledger row for read-time reconciliation.
type PaymentReader interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
}

type VenueReader interface {
	GetHall(ctx context.Context, hallID int64) (*domain.Hall, error)
	IsOwner(ctx context.Context, venueID, userID int64) (bool, error)
}

type NotificationSender interface {
	NotifyBookingStatusChanged(ctx context.Context, userID, bookingID int64, status domain.BookingStatus, reason string) error
}
