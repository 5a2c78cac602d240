package booking

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"venuebook/internal/domain"
	"venuebook/internal/repository"
)

type Service struct {
	bookings BookingRepository
	payments PaymentReader
	venues   VenueReader
	notifs   NotificationSender
	log      *logrus.Logger
}

func NewService(bookings BookingRepository, payments PaymentReader, venues VenueReader, notifs NotificationSender, log *logrus.Logger) *Service {
	return &Service{
		bookings: bookings,
		payments: payments,
		venues:   venues,
		notifs:   notifs,
		log:      log,
	}
}

var allowedTransitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingPending:  {domain.BookingAccepted, domain.BookingRejected, domain.BookingCancelled},
	domain.BookingAccepted: {domain.BookingRunning, domain.BookingCancelled},
	domain.BookingRunning:  {domain.BookingCompleted, domain.BookingCancelled},
}

func transitionAllowed(from, to domain.BookingStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// OwnerCreate records a confirmed booking directly, without a request. Same
// invariants as conversion: recomputed pricing, one-time period derivation.
func (s *Service) OwnerCreate(ctx context.Context, actor domain.Actor, req OwnerCreateRequest) (*domain.Booking, error) {
	if req.GuestCount <= 0 || req.PerPlatePrice <= 0 {
		return nil, ErrValidation
	}

	ok, err := s.venues.IsOwner(ctx, req.VenueID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	hall, err := s.venues.GetHall(ctx, req.HallID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if hall.VenueID != req.VenueID {
		return nil, ErrValidation
	}

	pricing := domain.Pricing{
		OriginalPerPlatePrice: hall.BasePrice,
		FinalPerPlatePrice:    req.PerPlatePrice,
		DiscountAmount:        req.DiscountAmount,
	}
	pricing.Recalculate(req.GuestCount, req.AdditionalServices)

	b := &domain.Booking{
		UserID:  req.UserID,
		VenueID: req.VenueID,
		HallID:  req.HallID,
		EventDetails: domain.EventDetails{
			EventType:  req.EventType,
			Date:       req.EventDate,
			GuestCount: req.GuestCount,
		},
		Pricing:            pricing,
		SelectedFoods:      req.SelectedFoods,
		AdditionalServices: req.AdditionalServices,
		Status:             domain.BookingAccepted,
		PaymentStatus:      domain.BookingUnpaid,
		BookingPeriod:      domain.DeriveBookingPeriod(req.EventDate, time.Now()),
		CancellationPolicy: req.CancellationPolicy,
		OwnerNotes:         req.OwnerNotes,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Get loads a booking visible to the actor and reconciles its payment
// mirror from the ledger row before returning it.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.authorize(ctx, actor, b); err != nil {
		return nil, err
	}
	return s.reconcile(ctx, b), nil
}

func (s *Service) authorize(ctx context.Context, actor domain.Actor, b *domain.Booking) error {
	if actor.IsAdmin() || actor.ID == b.UserID {
		return nil
	}
	ok, err := s.venues.IsOwner(ctx, b.VenueID, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// reconcile re-derives the booking-side payment status from the Payment row
// and repairs drift in place. The mirror can diverge only when the process
// died between a settled gateway call and the local write; reads self-heal
// instead of trusting the stale column.
func (s *Service) reconcile(ctx context.Context, b *domain.Booking) *domain.Booking {
	p, err := s.payments.GetByBookingID(ctx, b.ID)
	if err != nil {
		if !repository.IsNotFound(err) {
			s.log.WithError(err).WithField("booking_id", b.ID).Error("payment lookup failed during reconciliation")
		}
		return b
	}

	want := p.DeriveBookingStatus()
	netPaid := p.NetPaid()
	wantBalance := b.Pricing.TotalCost - netPaid

	if b.PaymentStatus == want && b.Pricing.AmountPaid == netPaid {
		return b
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"have":       b.PaymentStatus,
		"want":       want,
	}).Error("booking payment status drifted from ledger, repairing")

	if err := s.bookings.ApplyPaymentMirror(ctx, b.ID, want, netPaid, wantBalance); err != nil {
		s.log.WithError(err).WithField("booking_id", b.ID).Error("failed to repair payment mirror")
		return b
	}

	b.PaymentStatus = want
	b.Pricing.ApplyPaid(netPaid)
	return b
}

func (s *Service) ListByUser(ctx context.Context, actor domain.Actor, userID int64) ([]domain.Booking, error) {
	if actor.ID != userID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.bookings.ListByUser(ctx, userID)
}

func (s *Service) ListByVenue(ctx context.Context, actor domain.Actor, venueID int64) ([]domain.Booking, error) {
	ok, err := s.venues.IsOwner(ctx, venueID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.bookings.ListByVenue(ctx, venueID)
}

// UpdateStatus applies an explicit owner transition. Running and Completed
// are never set automatically from dates.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, newStatus domain.BookingStatus, reason string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ok, err := s.venues.IsOwner(ctx, b.VenueID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	if !transitionAllowed(b.Status, newStatus) {
		return nil, ErrInvalidStatusTransition
	}
	if newStatus == domain.BookingCancelled && reason == "" {
		return nil, ErrReasonRequired
	}

	if err := s.bookings.UpdateStatus(ctx, id, newStatus, reason); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		if err := s.notifs.NotifyBookingStatusChanged(ctx, b.UserID, b.ID, newStatus, reason); err != nil {
			s.log.WithError(err).WithField("booking_id", b.ID).Warn("booking status notification failed")
		}
	}

	return s.bookings.GetByID(ctx, id)
}

func (s *Service) SetOwnerNotes(ctx context.Context, actor domain.Actor, id int64, notes string) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	ok, err := s.venues.IsOwner(ctx, b.VenueID, actor.ID)
	if err != nil {
		return err
	}
	if !ok && !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.bookings.UpdateOwnerNotes(ctx, id, notes)
}

func (s *Service) SoftDelete(ctx context.Context, actor domain.Actor, id int64) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	if err := s.authorize(ctx, actor, b); err != nil {
		return err
	}
	return s.bookings.SoftDelete(ctx, id)
}

func (s *Service) HardDelete(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if _, err := s.bookings.GetByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return s.bookings.HardDelete(ctx, id)
}
