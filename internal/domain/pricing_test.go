package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecalculate(t *testing.T) {
	p := Pricing{FinalPerPlatePrice: 500}
	services := []AdditionalService{{Name: "Decoration", Price: 200}}

	p.Recalculate(10, services)

	assert.Equal(t, 5000.0, p.FoodCost)
	assert.Equal(t, 200.0, p.AdditionalServicesCost)
	assert.Equal(t, 5200.0, p.TotalCost)
	assert.Equal(t, 5200.0, p.BalanceAmount)
}

func TestRecalculateWithDiscountAndPaid(t *testing.T) {
	p := Pricing{FinalPerPlatePrice: 450, DiscountAmount: 500, AmountPaid: 1000}
	p.Recalculate(20, nil)

	assert.Equal(t, 9000.0, p.FoodCost)
	assert.Equal(t, 0.0, p.AdditionalServicesCost)
	assert.Equal(t, 8500.0, p.TotalCost)
	assert.Equal(t, 7500.0, p.BalanceAmount)
}

func TestRecalculateHoldsInvariantAfterInputChanges(t *testing.T) {
	p := Pricing{FinalPerPlatePrice: 333.33}
	services := []AdditionalService{{Price: 150.5}, {Price: 49.5}}

	for _, guests := range []int{1, 7, 120} {
		p.Recalculate(guests, services)
		assert.InDelta(t, p.FoodCost+p.AdditionalServicesCost-p.DiscountAmount, p.TotalCost, 0.001)
		assert.InDelta(t, p.TotalCost-p.AmountPaid, p.BalanceAmount, 0.001)
	}
}

func TestApplyPaid(t *testing.T) {
	p := Pricing{TotalCost: 5200}
	p.ApplyPaid(1000)
	assert.Equal(t, 4200.0, p.BalanceAmount)

	p.ApplyPaid(5200)
	assert.Equal(t, 0.0, p.BalanceAmount)
}

func TestDeriveBookingPeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 13, 30, 0, 0, time.UTC)

	assert.Equal(t, PeriodPast, DeriveBookingPeriod(now.AddDate(0, 0, -1), now))
	assert.Equal(t, PeriodCurrent, DeriveBookingPeriod(now.Add(8*time.Hour), now))
	assert.Equal(t, PeriodFuture, DeriveBookingPeriod(now.AddDate(0, 1, 0), now))
}

func TestPaymentDeriveStatus(t *testing.T) {
	p := Payment{ExpectedAmount: 5200}
	assert.Equal(t, PaymentPending, p.DeriveStatus())
	assert.Equal(t, BookingUnpaid, p.DeriveBookingStatus())

	p.CumulativePaid = 1000
	assert.Equal(t, PaymentPending, p.DeriveStatus())
	assert.Equal(t, BookingPartiallyPaid, p.DeriveBookingStatus())

	p.CumulativePaid = 5200
	assert.Equal(t, PaymentCompleted, p.DeriveStatus())
	assert.Equal(t, BookingPaid, p.DeriveBookingStatus())

	p.RefundAmount = 2000
	assert.Equal(t, PaymentPartiallyPaid, p.DeriveStatus())
	assert.Equal(t, BookingPartiallyPaid, p.DeriveBookingStatus())

	p.RefundAmount = 5200
	assert.Equal(t, PaymentRefunded, p.DeriveStatus())
	assert.Equal(t, BookingRefunded, p.DeriveBookingStatus())
}

func TestPaymentDeriveStatusToleratesPaisaRounding(t *testing.T) {
	// gateway reports paisa; 5199.996 back-converted should count as settled
	p := Payment{ExpectedAmount: 5200, CumulativePaid: 5199.995}
	assert.Equal(t, PaymentCompleted, p.DeriveStatus())
	assert.Equal(t, BookingPaid, p.DeriveBookingStatus())
}
