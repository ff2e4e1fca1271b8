package service

import "errors"

// Recoverable error taxonomy. Handlers map these to HTTP statuses with
// errors.Is; anything else is treated as an internal error.
var (
	// ErrOutOfWindow is returned when a mutation arrives after the cutoff
	// for its service date.
	ErrOutOfWindow = errors.New("cutoff time has passed")

	// ErrInvalidCouponFormat is returned for codes that are not 4-digit
	// numeric strings.
	ErrInvalidCouponFormat = errors.New("coupon code must be a 4-digit number")

	// ErrCouponAlreadyRedeemed is returned when a coupon code has already
	// been verified.
	ErrCouponAlreadyRedeemed = errors.New("coupon has already been used")

	// ErrNotFound is returned for unknown users, meals or submissions.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when a required field is missing or out of
	// range.
	ErrValidation = errors.New("validation failed")

	// ErrAlreadySubmitted is returned when submitting counts for a date
	// that is already in the submitted state.
	ErrAlreadySubmitted = errors.New("meal counts already submitted")

	// ErrInvalidCredentials is returned on login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
