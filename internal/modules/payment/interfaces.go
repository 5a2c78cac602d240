package payment

import (
	"context"

	"venuebook/internal/domain"
	"venuebook/internal/gateway/khalti"
)

// Gateway is the slice of the Khalti client the ledger needs. Satisfied by
// *khalti.Client; tests substitute a fake.
type Gateway interface {
	Initiate(ctx context.Context, p khalti.InitiateParams) (*khalti.InitiateResult, error)
	Lookup(ctx context.Context, pidx string) (*khalti.LookupResult, error)
}

type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type VenueReader interface {
	IsOwner(ctx context.Context, venueID, userID int64) (bool, error)
}

type PaymentReader interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Payment, error)
}
