package catalog

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("venue not found")
	ErrForbidden  = errors.New("forbidden")
)
