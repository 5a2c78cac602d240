package request

import "errors"

var (
	ErrValidation             = errors.New("validation error")
	ErrNotFound               = errors.New("booking request not found")
	ErrForbidden              = errors.New("forbidden")
	ErrDuplicateActiveBooking = errors.New("active booking already exists for this venue")
	ErrInvalidStatus          = errors.New("invalid decision status")
	ErrReasonRequired         = errors.New("rejection reason is required")
	ErrAlreadyTerminal        = errors.New("booking request already decided")
)
