package review

import "errors"

var (
	ErrBookingNotEligible = errors.New("can only review completed bookings")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
)
