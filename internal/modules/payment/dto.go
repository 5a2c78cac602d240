package payment

type InitiateRequest struct {
	BookingID int64   `json:"booking_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
	ReturnURL string  `json:"return_url" binding:"required"`
}

type InitiateResponse struct {
	Pidx       string  `json:"pidx"`
	PaymentURL string  `json:"payment_url"`
	ExpiresAt  string  `json:"expires_at,omitempty"`
	Amount     float64 `json:"amount"`
}

type VerifyRequest struct {
	Pidx string `json:"pidx" binding:"required"`
}

// VerifyResponse reports the ledger state after a lookup. Settled is false
// when the gateway has not completed the transaction yet; that is not an
// error, the caller may verify again later.
type VerifyResponse struct {
	Settled        bool    `json:"settled"`
	GatewayStatus  string  `json:"gateway_status"`
	CumulativePaid float64 `json:"cumulative_paid"`
	Balance        float64 `json:"balance"`
}

type RefundRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
	// Amount zero means refund the full net paid.
	Amount float64 `json:"amount"`
}
