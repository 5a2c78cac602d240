package request

import (
	"context"

	"venuebook/internal/domain"
)

// RequestRepository persists booking requests and runs the accept+convert
// transaction.
type RequestRepository interface {
	Create(ctx context.Context, br *domain.BookingRequest) error
	GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.BookingRequest, error)
	ListByVenue(ctx context.Context, venueID int64) ([]domain.BookingRequest, error)
	Update(ctx context.Context, br *domain.BookingRequest) error
	UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus, reason string) error
	HasActive(ctx context.Context, userID, venueID int64) (bool, error)
	AcceptAndConvert(ctx context.Context, requestID int64, reason string, build func(req *domain.BookingRequest) *domain.Booking) (*domain.Booking, error)
}

type VenueReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
	GetHall(ctx context.Context, hallID int64) (*domain.Hall, error)
	IsOwner(ctx context.Context, venueID, userID int64) (bool, error)
}

// NotificationSender dispatches best-effort notifications. Failures are
// logged by the implementation and never roll back a state transition.
type NotificationSender interface {
	NotifyRequestCreated(ctx context.Context, ownerID, requestID, venueID int64) error
	NotifyRequestDecided(ctx context.Context, userID, requestID int64, status domain.RequestStatus, reason string) error
	NotifyRequestCancelled(ctx context.Context, ownerID, requestID int64) error
}
