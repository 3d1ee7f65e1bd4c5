package booking

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrIntentNotFound     = errors.New("payment intent not found")
	ErrCapacityExceeded   = errors.New("guest count exceeds room capacity")
	ErrInvalidDateRange   = errors.New("check-out must be after check-in")
	ErrPaymentNotComplete = errors.New("payment not completed")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayRejected    = errors.New("payment gateway rejected request")
	ErrRateLimited        = errors.New("rate limited")
)
