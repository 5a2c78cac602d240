package payment

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("payment not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrForbidden           = errors.New("forbidden")
	ErrBookingNotPayable   = errors.New("booking cannot accept payments")
	ErrBelowMinimum        = errors.New("amount is below the minimum advance")
	ErrExceedsExpected     = errors.New("amount exceeds the outstanding balance")
	ErrAmountMismatch      = errors.New("gateway amount does not match the initiated amount")
	ErrNothingToVerify     = errors.New("no initiated payment awaiting verification")
	ErrNothingToRefund     = errors.New("nothing to refund")
	ErrRefundExceedsNet    = errors.New("refund exceeds the net amount paid")
	ErrPaymentNotCompleted = errors.New("gateway does not report the payment as completed")
)
