package request

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"venuebook/internal/domain"
	"venuebook/internal/modules/booking"
	"venuebook/internal/repository"
)

type Service struct {
	requests RequestRepository
	venues   VenueReader
	notifs   NotificationSender
	log      *logrus.Logger
}

func NewService(requests RequestRepository, venues VenueReader, notifs NotificationSender, log *logrus.Logger) *Service {
	return &Service{
		requests: requests,
		venues:   venues,
		notifs:   notifs,
		log:      log,
	}
}

// Create validates and persists a new pending request for the acting user.
// The per-plate price negotiation starts from the hall's base price; the
// user's offer becomes the working final price until the owner adjusts it.
func (s *Service) Create(ctx context.Context, actor domain.Actor, req CreateRequest) (*domain.BookingRequest, error) {
	if req.GuestCount <= 0 {
		return nil, ErrValidation
	}
	now := time.Now()
	if req.EventDate.Before(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())) {
		return nil, ErrValidation
	}

	venue, err := s.venues.GetByID(ctx, req.VenueID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	hall, err := s.venues.GetHall(ctx, req.HallID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if hall.VenueID != venue.ID {
		return nil, ErrValidation
	}

	active, err := s.requests.HasActive(ctx, actor.ID, req.VenueID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrDuplicateActiveBooking
	}

	final := hall.BasePrice
	if req.OfferedPerPlatePrice > 0 {
		final = req.OfferedPerPlatePrice
	}

	pricing := domain.Pricing{
		OriginalPerPlatePrice:    hall.BasePrice,
		UserOfferedPerPlatePrice: req.OfferedPerPlatePrice,
		FinalPerPlatePrice:       final,
	}
	pricing.Recalculate(req.GuestCount, req.AdditionalServices)

	br := &domain.BookingRequest{
		UserID:  actor.ID,
		VenueID: req.VenueID,
		HallID:  req.HallID,
		EventDetails: domain.EventDetails{
			EventType:  req.EventType,
			Date:       req.EventDate,
			GuestCount: req.GuestCount,
		},
		Pricing:            pricing,
		SelectedFoods:      req.SelectedFoods,
		RequestedFoods:     req.RequestedFoods,
		AdditionalServices: req.AdditionalServices,
		Status:             domain.RequestPending,
	}

	if err := s.requests.Create(ctx, br); err != nil {
		if repository.IsUniqueViolation(err, "idx_one_active_request") {
			return nil, ErrDuplicateActiveBooking
		}
		return nil, err
	}

	if s.notifs != nil {
		if err := s.notifs.NotifyRequestCreated(ctx, venue.OwnerID, br.ID, venue.ID); err != nil {
			s.log.WithError(err).WithField("request_id", br.ID).Warn("request-created notification failed")
		}
	}

	return br, nil
}

// Decide applies the owner's accept/reject decision. Acceptance converts the
// request into a Booking inside one transaction; rejection demands a reason.
// Notification failures never roll the transition back.
func (s *Service) Decide(ctx context.Context, actor domain.Actor, requestID int64, req DecideRequest) (*domain.BookingRequest, *domain.Booking, error) {
	status := domain.RequestStatus(req.Status)
	if status != domain.RequestAccepted && status != domain.RequestRejected {
		return nil, nil, ErrInvalidStatus
	}
	if status == domain.RequestRejected && req.Reason == "" {
		return nil, nil, ErrReasonRequired
	}

	br, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	ok, err := s.venues.IsOwner(ctx, br.VenueID, actor.ID)
	if err != nil {
		return nil, nil, err
	}
	if !ok && !actor.IsAdmin() {
		return nil, nil, ErrForbidden
	}

	if br.Status.Terminal() {
		return nil, nil, ErrAlreadyTerminal
	}

	var converted *domain.Booking
	switch status {
	case domain.RequestRejected:
		if err := s.requests.UpdateStatus(ctx, requestID, domain.RequestRejected, req.Reason); err != nil {
			return nil, nil, err
		}

	case domain.RequestAccepted:
		now := time.Now()
		converted, err = s.requests.AcceptAndConvert(ctx, requestID, req.Reason, func(r *domain.BookingRequest) *domain.Booking {
			if req.FinalPerPlatePrice > 0 {
				r.Pricing.FinalPerPlatePrice = req.FinalPerPlatePrice
			}
			if req.DiscountAmount > 0 {
				r.Pricing.DiscountAmount = req.DiscountAmount
			}
			return booking.FromRequest(r, now)
		})
		if err != nil {
			if err == repository.ErrRequestNotPending || repository.IsUniqueViolation(err, "idx_booking_request_once") {
				return nil, nil, ErrAlreadyTerminal
			}
			return nil, nil, err
		}
	}

	updated, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}

	if s.notifs != nil {
		if err := s.notifs.NotifyRequestDecided(ctx, br.UserID, requestID, status, req.Reason); err != nil {
			s.log.WithError(err).WithField("request_id", requestID).Warn("decision notification failed")
		}
	}

	return updated, converted, nil
}

// Cancel is the requesting user withdrawing a still-pending request.
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, requestID int64) (*domain.BookingRequest, error) {
	br, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if br.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if br.Status.Terminal() {
		return nil, ErrAlreadyTerminal
	}

	if err := s.requests.UpdateStatus(ctx, requestID, domain.RequestCancelled, ""); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		if venue, verr := s.venues.GetByID(ctx, br.VenueID); verr == nil {
			if err := s.notifs.NotifyRequestCancelled(ctx, venue.OwnerID, requestID); err != nil {
				s.log.WithError(err).WithField("request_id", requestID).Warn("cancel notification failed")
			}
		}
	}

	return s.requests.GetByID(ctx, requestID)
}

// UpdateDetails lets the requesting user edit a pending request. Derived
// pricing is recomputed and persisted together with the changed inputs.
func (s *Service) UpdateDetails(ctx context.Context, actor domain.Actor, requestID int64, req UpdateDetailsRequest) (*domain.BookingRequest, error) {
	br, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if br.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if br.Status != domain.RequestPending {
		return nil, ErrAlreadyTerminal
	}

	if req.EventType != nil {
		br.EventDetails.EventType = *req.EventType
	}
	if req.EventDate != nil {
		br.EventDetails.Date = *req.EventDate
	}
	if req.GuestCount != nil {
		if *req.GuestCount <= 0 {
			return nil, ErrValidation
		}
		br.EventDetails.GuestCount = *req.GuestCount
	}
	if req.OfferedPerPlatePrice != nil {
		br.Pricing.UserOfferedPerPlatePrice = *req.OfferedPerPlatePrice
		if *req.OfferedPerPlatePrice > 0 {
			br.Pricing.FinalPerPlatePrice = *req.OfferedPerPlatePrice
		}
	}
	if req.SelectedFoods != nil {
		br.SelectedFoods = req.SelectedFoods
	}
	if req.RequestedFoods != nil {
		br.RequestedFoods = req.RequestedFoods
	}
	if req.AdditionalServices != nil {
		br.AdditionalServices = req.AdditionalServices
	}

	br.Pricing.Recalculate(br.EventDetails.GuestCount, br.AdditionalServices)

	if err := s.requests.Update(ctx, br); err != nil {
		return nil, err
	}
	return s.requests.GetByID(ctx, requestID)
}

func (s *Service) Get(ctx context.Context, actor domain.Actor, requestID int64) (*domain.BookingRequest, error) {
	br, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if br.UserID == actor.ID || actor.IsAdmin() {
		return br, nil
	}
	ok, err := s.venues.IsOwner(ctx, br.VenueID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return br, nil
}

func (s *Service) ListForUser(ctx context.Context, actor domain.Actor) ([]domain.BookingRequest, error) {
	return s.requests.ListByUser(ctx, actor.ID)
}

func (s *Service) ListForVenue(ctx context.Context, actor domain.Actor, venueID int64) ([]domain.BookingRequest, error) {
	ok, err := s.venues.IsOwner(ctx, venueID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.requests.ListByVenue(ctx, venueID)
}
