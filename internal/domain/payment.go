package domain

import "time"

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "Pending"
	PaymentCompleted     PaymentStatus = "Completed"
	PaymentFailed        PaymentStatus = "Failed"
	PaymentRefunded      PaymentStatus = "Refunded"
	PaymentPartiallyPaid PaymentStatus = "Partially Paid"
)

type PaymentType string

const (
	PaymentAdvance PaymentType = "Advance"
	PaymentFull    PaymentType = "Full"
)

// AmountTolerance absorbs rounding drift from the gateway's paisa amounts
// when comparing major-unit totals.
const AmountTolerance = 0.01

// Payment is the money ledger row for a booking. Exactly one row per
// booking; partial payments accrue onto CumulativePaid, refunds onto
// RefundAmount. The row is never deleted.
type Payment struct {
	ID        int64 `gorm:"primaryKey" json:"id"`
	BookingID int64 `gorm:"uniqueIndex;not null" json:"booking_id"`
	UserID    int64 `gorm:"index;not null" json:"user_id"`

	Amount          float64 `gorm:"not null" json:"amount"` // last settled partial payment
	PendingAmount   float64 `gorm:"not null;default:0" json:"-"` // initiated at the gateway, not yet verified
	CumulativePaid  float64 `gorm:"not null;default:0" json:"cumulative_paid"`
	ExpectedAmount  float64 `gorm:"not null" json:"expected_amount"`
	RefundAmount    float64 `gorm:"not null;default:0" json:"refund_amount"`
	TransactionID   string  `gorm:"type:varchar(128);uniqueIndex" json:"transaction_id"`
	PurchaseOrderID string  `gorm:"type:varchar(64);index" json:"purchase_order_id"`

	Status PaymentStatus `gorm:"type:varchar(20);default:'Pending';index" json:"payment_status"`
	Type   PaymentType   `gorm:"type:varchar(10);default:'Advance'" json:"payment_type"`

	DueDate      *time.Time `json:"due_date,omitempty"`
	Instructions string     `gorm:"type:text" json:"payment_instructions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

// NetPaid is what the user has actually parted with.
func (p *Payment) NetPaid() float64 {
	return p.CumulativePaid - p.RefundAmount
}

// DeriveStatus computes the ledger status from the row's own amounts.
// Status never depends on the last partial Amount.
func (p *Payment) DeriveStatus() PaymentStatus {
	if p.RefundAmount > 0 {
		if p.NetPaid() <= 0 {
			return PaymentRefunded
		}
		return PaymentPartiallyPaid
	}
	if p.CumulativePaid >= p.ExpectedAmount-AmountTolerance {
		return PaymentCompleted
	}
	return PaymentPending
}

// DeriveBookingStatus computes the booking-side mirror from the same
// amounts. Used by the ledger on every mutation and by the read-time
// reconciliation pass.
func (p *Payment) DeriveBookingStatus() BookingPaymentStatus {
	if p.RefundAmount > 0 {
		if p.NetPaid() <= 0 {
			return BookingRefunded
		}
		return BookingPartiallyPaid
	}
	switch {
	case p.CumulativePaid >= p.ExpectedAmount-AmountTolerance:
		return BookingPaid
	case p.CumulativePaid > 0:
		return BookingPartiallyPaid
	default:
		return BookingUnpaid
	}
}
