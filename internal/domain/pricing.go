package domain

import (
	"math"
	"time"
)

// EventDetails describes the event a request or booking is for.
type EventDetails struct {
	EventType  string    `json:"event_type" validate:"required"`
	Date       time.Time `json:"date" validate:"required"`
	GuestCount int       `json:"guest_count" validate:"gt=0"`
}

// Pricing carries the per-plate price negotiation and the derived cost
// fields. The derived fields are never written directly; callers mutate the
// inputs and call Recalculate before persisting.
type Pricing struct {
	OriginalPerPlatePrice    float64 `json:"original_per_plate_price"`
	UserOfferedPerPlatePrice float64 `json:"user_offered_per_plate_price,omitempty"`
	FinalPerPlatePrice       float64 `json:"final_per_plate_price"`
	FoodCost                 float64 `json:"food_cost"`
	AdditionalServicesCost   float64 `json:"additional_services_cost"`
	TotalCost                float64 `json:"total_cost"`
	DiscountAmount           float64 `json:"discount_amount"`
	AmountPaid               float64 `json:"amount_paid"`
	BalanceAmount            float64 `json:"balance_amount"`
}

// Recalculate rederives all cost fields from the current inputs:
//
//	food_cost   = final_per_plate_price * guest_count
//	services    = sum(service.price)
//	total_cost  = food_cost + services - discount
//	balance     = total_cost - amount_paid
//
// Pure arithmetic; guest_count validation belongs to the caller.
func (p *Pricing) Recalculate(guestCount int, services []AdditionalService) {
	p.FoodCost = round2(p.FinalPerPlatePrice * float64(guestCount))

	var svcCost float64
	for _, s := range services {
		svcCost += s.Price
	}
	p.AdditionalServicesCost = round2(svcCost)

	p.TotalCost = round2(p.FoodCost + p.AdditionalServicesCost - p.DiscountAmount)
	p.BalanceAmount = round2(p.TotalCost - p.AmountPaid)
}

// ApplyPaid sets amount_paid and rederives the balance without touching the
// other cost fields.
func (p *Pricing) ApplyPaid(amountPaid float64) {
	p.AmountPaid = round2(amountPaid)
	p.BalanceAmount = round2(p.TotalCost - p.AmountPaid)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
