package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"venuebook/internal/domain"
	"venuebook/internal/gateway/khalti"
	"venuebook/internal/repository"
)

// Service is the money ledger. It owns all mutations of the payments table:
// every write locks the booking's single ledger row, applies the amounts and
// updates the booking-side mirror inside the same transaction. Reads go
// through PaymentReader.
type Service struct {
	db         *gorm.DB
	gateway    Gateway
	bookings   BookingReader
	venues     VenueReader
	payments   PaymentReader
	minAdvance float64
	log        *logrus.Logger
}

func NewService(db *gorm.DB, gateway Gateway, bookings BookingReader, venues VenueReader, payments PaymentReader, minAdvance float64, log *logrus.Logger) *Service {
	return &Service{
		db:         db,
		gateway:    gateway,
		bookings:   bookings,
		venues:     venues,
		payments:   payments,
		minAdvance: minAdvance,
		log:        log,
	}
}

// Initiate registers a payment attempt with the gateway and records it as
// pending on the ledger row. The gateway call happens before the database
// transaction: a gateway timeout leaves the ledger untouched.
func (s *Service) Initiate(ctx context.Context, actor domain.Actor, req InitiateRequest) (*InitiateResponse, error) {
	if req.Amount <= 0 {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if !b.Active() || b.Status == domain.BookingPending {
		return nil, ErrBookingNotPayable
	}

	expected := b.Pricing.TotalCost
	remaining := expected
	if existing, err := s.payments.GetByBookingID(ctx, req.BookingID); err == nil {
		remaining = round2(expected - existing.CumulativePaid)
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	// An advance below the floor is rejected unless it clears the whole
	// remaining balance in one go.
	if req.Amount < s.minAdvance && req.Amount < remaining-domain.AmountTolerance {
		return nil, ErrBelowMinimum
	}
	if req.Amount > remaining+domain.AmountTolerance {
		return nil, ErrExceedsExpected
	}

	// Order ids must be unique per attempt; the gateway rejects reuse.
	orderID := fmt.Sprintf("booking-%d-%s", b.ID, uuid.NewString()[:8])
	initRes, err := s.gateway.Initiate(ctx, khalti.InitiateParams{
		AmountPaisa:       toPaisa(req.Amount),
		PurchaseOrderID:   orderID,
		PurchaseOrderName: fmt.Sprintf("Venue booking #%d", b.ID),
		ReturnURL:         req.ReturnURL,
		WebsiteURL:        req.ReturnURL,
	})
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Payment
		if err := getOrCreateLedgerForUpdate(tx, b, &p); err != nil {
			return err
		}

		// Re-check under the lock; a concurrent settle may have moved
		// the cumulative since the read above.
		if p.CumulativePaid+req.Amount > p.ExpectedAmount+domain.AmountTolerance {
			return ErrExceedsExpected
		}

		p.PendingAmount = req.Amount
		p.TransactionID = initRes.Pidx
		p.PurchaseOrderID = orderID
		p.Instructions = "Complete the payment via Khalti: " + initRes.PaymentURL
		if req.Amount >= round2(p.ExpectedAmount-p.CumulativePaid)-domain.AmountTolerance {
			p.Type = domain.PaymentFull
		} else {
			p.Type = domain.PaymentAdvance
		}

		return tx.Model(&domain.Payment{}).Where("id = ?", p.ID).Updates(map[string]any{
			"pending_amount":    p.PendingAmount,
			"transaction_id":    p.TransactionID,
			"purchase_order_id": p.PurchaseOrderID,
			"instructions":      p.Instructions,
			"type":              string(p.Type),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"pidx":       initRes.Pidx,
		"amount":     req.Amount,
	}).Info("payment initiated")

	return &InitiateResponse{
		Pidx:       initRes.Pidx,
		PaymentURL: initRes.PaymentURL,
		ExpiresAt:  initRes.ExpiresAt,
		Amount:     req.Amount,
	}, nil
}

// Verify settles an initiated payment after the user returns from the
// gateway. A lookup that does not report Completed is answered with
// Settled=false, not an error; callers retry. Settling is idempotent: the
// pending amount is consumed exactly once.
func (s *Service) Verify(ctx context.Context, actor domain.Actor, pidx string) (*VerifyResponse, error) {
	p, err := s.payments.GetByTransactionID(ctx, pidx)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	look, err := s.gateway.Lookup(ctx, pidx)
	if err != nil {
		return nil, err
	}
	if look.Status != khalti.StatusCompleted {
		return &VerifyResponse{
			Settled:        false,
			GatewayStatus:  look.Status,
			CumulativePaid: p.CumulativePaid,
			Balance:        round2(p.ExpectedAmount - p.CumulativePaid),
		}, nil
	}

	var settled domain.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("transaction_id = ?", pidx).First(&settled).Error; err != nil {
			return err
		}

		if settled.PendingAmount <= 0 {
			// Already settled by an earlier verify; nothing to do.
			return nil
		}

		if toPaisa(settled.PendingAmount) != look.TotalAmountPaisa {
			return ErrAmountMismatch
		}
		if settled.CumulativePaid+settled.PendingAmount > settled.ExpectedAmount+domain.AmountTolerance {
			return ErrExceedsExpected
		}

		settled.Amount = settled.PendingAmount
		settled.CumulativePaid = round2(settled.CumulativePaid + settled.PendingAmount)
		settled.PendingAmount = 0
		settled.Status = settled.DeriveStatus()

		if err := tx.Model(&domain.Payment{}).Where("id = ?", settled.ID).Updates(map[string]any{
			"amount":          settled.Amount,
			"pending_amount":  0,
			"cumulative_paid": settled.CumulativePaid,
			"status":          string(settled.Status),
		}).Error; err != nil {
			return err
		}

		balance := round2(settled.ExpectedAmount - settled.CumulativePaid)
		return repository.UpdatePaymentMirror(tx, settled.BookingID, settled.DeriveBookingStatus(), settled.CumulativePaid, balance)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":      settled.BookingID,
		"pidx":            pidx,
		"cumulative_paid": settled.CumulativePaid,
	}).Info("payment settled")

	return &VerifyResponse{
		Settled:        true,
		GatewayStatus:  look.Status,
		CumulativePaid: settled.CumulativePaid,
		Balance:        round2(settled.ExpectedAmount - settled.CumulativePaid),
	}, nil
}

// Refund books a refund against the ledger row. Only the venue owner or an
// admin may refund; the gateway must report the transaction Completed first.
// A zero amount refunds the full net paid; asking for more than the net paid
// is rejected, never clamped.
func (s *Service) Refund(ctx context.Context, actor domain.Actor, req RefundRequest) (*domain.Payment, error) {
	if req.Amount < 0 {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if !actor.IsAdmin() {
		ok, err := s.venues.IsOwner(ctx, b.VenueID, actor.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrForbidden
		}
	}

	p, err := s.payments.GetByBookingID(ctx, req.BookingID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.TransactionID == "" {
		return nil, ErrNothingToRefund
	}

	look, err := s.gateway.Lookup(ctx, p.TransactionID)
	if err != nil {
		return nil, err
	}
	if look.Status != khalti.StatusCompleted && look.Status != khalti.StatusRefunded {
		return nil, ErrPaymentNotCompleted
	}

	var refunded domain.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("booking_id = ?", req.BookingID).First(&refunded).Error; err != nil {
			return err
		}

		net := refunded.NetPaid()
		if net <= domain.AmountTolerance {
			return ErrNothingToRefund
		}

		amount := req.Amount
		if amount == 0 {
			amount = net
		}
		if amount > net+domain.AmountTolerance {
			return ErrRefundExceedsNet
		}

		refunded.RefundAmount = round2(refunded.RefundAmount + amount)
		refunded.Status = refunded.DeriveStatus()

		if err := tx.Model(&domain.Payment{}).Where("id = ?", refunded.ID).Updates(map[string]any{
			"refund_amount": refunded.RefundAmount,
			"status":        string(refunded.Status),
		}).Error; err != nil {
			return err
		}

		netPaid := round2(refunded.NetPaid())
		balance := round2(refunded.ExpectedAmount - netPaid)
		return repository.UpdatePaymentMirror(tx, refunded.BookingID, refunded.DeriveBookingStatus(), netPaid, balance)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":    refunded.BookingID,
		"refund_amount": refunded.RefundAmount,
	}).Info("refund recorded")

	return &refunded, nil
}

func (s *Service) GetByBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Payment, error) {
	p, err := s.payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.UserID == actor.ID || actor.IsAdmin() {
		return p, nil
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	ok, err := s.venues.IsOwner(ctx, b.VenueID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *Service) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Payment, error) {
	return s.payments.ListByUser(ctx, actor.ID)
}

// getOrCreateLedgerForUpdate locks the booking's ledger row, creating it on
// first use. A concurrent create loses on the booking_id unique index and
// falls back to locking the winner's row.
func getOrCreateLedgerForUpdate(tx *gorm.DB, b *domain.Booking, p *domain.Payment) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("booking_id = ?", b.ID).First(p).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	*p = domain.Payment{
		BookingID:      b.ID,
		UserID:         b.UserID,
		ExpectedAmount: b.Pricing.TotalCost,
		Status:         domain.PaymentPending,
		Type:           domain.PaymentAdvance,
	}
	if due := b.EventDetails.Date; !due.IsZero() {
		p.DueDate = &due
	}
	if err := tx.Create(p).Error; err != nil {
		if repository.IsUniqueViolation(err, "") {
			return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("booking_id = ?", b.ID).First(p).Error
		}
		return err
	}
	return nil
}

func toPaisa(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
