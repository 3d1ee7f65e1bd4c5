package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus tracks settlement of a booking's payment intent.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// BookingStatus is the booking lifecycle state.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// IntentStatus is the processor-reported state of a payment intent,
// collapsed from the processor's wire statuses.
type IntentStatus string

const (
	IntentRequiresPayment IntentStatus = "requires_payment"
	IntentProcessing      IntentStatus = "processing"
	IntentSucceeded       IntentStatus = "succeeded"
	IntentFailed          IntentStatus = "failed"
	IntentCanceled        IntentStatus = "canceled"
)

type UserType string

const (
	UserGuest   UserType = "guest"
	UserPartner UserType = "hotel_partner"
	UserAdmin   UserType = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        string    `json:"phone,omitempty"`
	UserType     UserType  `json:"userType"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Hotel struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	ZipCode     string    `json:"zipCode"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Amenities   []string  `json:"amenities,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Rating      float64   `json:"rating"`
	PartnerID   int64     `json:"partnerId"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Room is read-only from the booking flow's point of view: the
// orchestrator only ever looks up price and capacity.
type Room struct {
	ID              int64     `json:"id"`
	HotelID         int64     `json:"hotelId"`
	RoomNumber      string    `json:"roomNumber"`
	Type            string    `json:"type"`
	Capacity        int       `json:"capacity"`
	PriceCentsNight int64     `json:"pricePerNightCents"`
	Description     string    `json:"description,omitempty"`
	Amenities       []string  `json:"amenities,omitempty"`
	Images          []string  `json:"images,omitempty"`
	IsAvailable     bool      `json:"isAvailable"`
	CreatedAt       time.Time `json:"createdAt"`
}

// SplitParticipant is one named payer of a split booking. Amounts are in
// minor currency units.
type SplitParticipant struct {
	Email       string `json:"email"`
	AmountCents int64  `json:"amount"`
	Paid        bool   `json:"paid"`
}

type Booking struct {
	ID                uuid.UUID          `json:"id"`
	UserID            int64              `json:"userId"`
	HotelID           int64              `json:"hotelId"`
	RoomID            int64              `json:"roomId"`
	CheckIn           time.Time          `json:"checkInDate"`
	CheckOut          time.Time          `json:"checkOutDate"`
	GuestCount        int                `json:"guestCount"`
	TotalCents        int64              `json:"totalCents"`
	PaymentStatus     PaymentStatus      `json:"paymentStatus"`
	Status            BookingStatus      `json:"status"`
	SpecialRequests   string             `json:"specialRequests,omitempty"`
	PaymentIntentID   string             `json:"paymentIntentId"`
	IsSplitPayment    bool               `json:"isSplitPayment"`
	SplitParticipants []SplitParticipant `json:"splitParticipants,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// BookingDraft is the validated shape the orchestrator hands to the
// repository. The repository assigns the ID and timestamps.
type BookingDraft struct {
	UserID            int64
	HotelID           int64
	RoomID            int64
	CheckIn           time.Time
	CheckOut          time.Time
	GuestCount        int
	TotalCents        int64
	PaymentStatus     PaymentStatus
	Status            BookingStatus
	SpecialRequests   string
	PaymentIntentID   string
	IsSplitPayment    bool
	SplitParticipants []SplitParticipant
}

// PaymentIntent is the orchestrator's view of a remote intent.
// ClientSecret is only populated on creation.
type PaymentIntent struct {
	ID           string       `json:"id"`
	ClientSecret string       `json:"clientSecret,omitempty"`
	Status       IntentStatus `json:"status"`
}

type Review struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"bookingId"`
	UserID    int64     `json:"userId"`
	HotelID   int64     `json:"hotelId"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewWithHotel is the shape of the "my reviews" listing.
type ReviewWithHotel struct {
	Review
	HotelName string `json:"hotelName"`
}

// Session is the identity resolved once at the HTTP boundary and passed
// explicitly into services.
type Session struct {
	UserID   int64    `json:"userId"`
	UserType UserType `json:"userType"`
}
