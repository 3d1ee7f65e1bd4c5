package httpgin

import (
	"time"

	"github.com/avelorn/staygo/internal/domain"
)

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
	UserType  string `json:"userType" binding:"omitempty,oneof=guest hotel_partner"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	User *domain.User `json:"user"`
}

// SplitPaymentData is the split-payment blob accepted on booking creation:
// the additional payers' email addresses.
type SplitPaymentData struct {
	Emails []string `json:"emails" binding:"required,min=1,dive,email"`
}

type CreateBookingRequest struct {
	HotelID          int64             `json:"hotelId" binding:"required"`
	RoomID           int64             `json:"roomId" binding:"required"`
	CheckInDate      string            `json:"checkInDate" binding:"required"`
	CheckOutDate     string            `json:"checkOutDate" binding:"required"`
	GuestCount       int               `json:"guestCount" binding:"required,gt=0"`
	SpecialRequests  string            `json:"specialRequests"`
	IsSplitPayment   bool              `json:"isSplitPayment"`
	SplitPaymentData *SplitPaymentData `json:"splitPaymentData" binding:"omitempty"`
}

type CreateBookingResponse struct {
	Booking      *domain.Booking `json:"booking"`
	ClientSecret string          `json:"clientSecret"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
}

type ConfirmPaymentResponse struct {
	Success bool            `json:"success"`
	Booking *domain.Booking `json:"booking"`
}

type CreateReviewRequest struct {
	BookingID string `json:"bookingId" binding:"required,uuid"`
	HotelID   int64  `json:"hotelId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
}

type StripeConfigResponse struct {
	PublishableKey string `json:"publishableKey"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// parseDate accepts plain dates and RFC3339 timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
