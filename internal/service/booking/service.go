// Package booking is the booking orchestrator: it sequences the room
// lookup, price computation, remote payment-intent creation and booking
// persistence for a single request, and reports settlement on confirm.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avelorn/staygo/internal/domain"
	"github.com/avelorn/staygo/internal/payments"
	"github.com/avelorn/staygo/internal/pricing"
	"github.com/avelorn/staygo/internal/repository"
	redisrepo "github.com/avelorn/staygo/internal/repository/redis"
	"github.com/google/uuid"
)

// RoomReader is the read-only room catalog lookup the orchestrator needs.
type RoomReader interface {
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
}

// Store persists bookings and looks them up by user or payment intent.
type Store interface {
	Create(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error)
	Get(ctx context.Context, userID int64, id uuid.UUID) (*domain.Booking, error)
	ByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ByPaymentIntent(ctx context.Context, userID int64, intentID string) (*domain.Booking, error)
}

type Config struct {
	Currency string
}

type Service struct {
	rooms    RoomReader
	bookings Store
	gateway  payments.Gateway
	limiter  *redisrepo.SlidingWindowLimiter
	cfg      Config
}

func New(
	rooms RoomReader,
	bookings Store,
	gateway payments.Gateway,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}

	return &Service{
		rooms:    rooms,
		bookings: bookings,
		gateway:  gateway,
		limiter:  limiter,
		cfg:      cfg,
	}
}

// CreateInput is the validated request shape for CreateBooking.
type CreateInput struct {
	HotelID         int64
	RoomID          int64
	CheckIn         time.Time
	CheckOut        time.Time
	GuestCount      int
	SpecialRequests string
	IsSplitPayment  bool
	SplitEmails     []string
}

// CreateBooking runs the full creation sequence. On success the booking is
// persisted with paymentStatus=pending and the processor's client secret is
// returned for the caller to complete payment.
//
// Validation failures short-circuit before any remote side effect. A
// storage failure after the intent was created leaves an orphaned remote
// intent; no compensation is attempted.
func (s *Service) CreateBooking(
	ctx context.Context,
	userID int64,
	in CreateInput,
	rlKey string,
) (*domain.Booking, string, error) {
	const op = "service.booking.CreateBooking"

	room, err := s.rooms.GetRoom(ctx, in.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", fmt.Errorf("%s:%w", op, ErrRoomNotFound)
		}

		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	if in.GuestCount > room.Capacity {
		return nil, "", fmt.Errorf("%s:%w", op, ErrCapacityExceeded)
	}

	splitEmails := cleanEmails(in.SplitEmails)
	if !in.IsSplitPayment {
		splitEmails = nil
	}

	quote, err := pricing.Compute(room.PriceCentsNight, in.CheckIn, in.CheckOut, len(splitEmails))
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidRange) {
			return nil, "", fmt.Errorf("%s:%w", op, ErrInvalidDateRange)
		}

		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, "", fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, "", fmt.Errorf("%s:%w: retry in %s", op, ErrRateLimited, retry)
		}
	}

	intent, err := s.gateway.CreateIntent(ctx, quote.TotalCents, s.cfg.Currency, map[string]string{
		"hotelId":        strconv.FormatInt(in.HotelID, 10),
		"roomId":         strconv.FormatInt(in.RoomID, 10),
		"userId":         strconv.FormatInt(userID, 10),
		"checkInDate":    in.CheckIn.Format(time.RFC3339),
		"checkOutDate":   in.CheckOut.Format(time.RFC3339),
		"guestCount":     strconv.Itoa(in.GuestCount),
		"isSplitPayment": strconv.FormatBool(in.IsSplitPayment),
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s:%w", op, translateGatewayErr(err))
	}

	var participants []domain.SplitParticipant
	for _, email := range splitEmails {
		participants = append(participants, domain.SplitParticipant{
			Email:       email,
			AmountCents: quote.PerParticipantCents,
			Paid:        false,
		})
	}

	booked, err := s.bookings.Create(ctx, domain.BookingDraft{
		UserID:            userID,
		HotelID:           in.HotelID,
		RoomID:            in.RoomID,
		CheckIn:           in.CheckIn,
		CheckOut:          in.CheckOut,
		GuestCount:        in.GuestCount,
		TotalCents:        quote.TotalCents,
		PaymentStatus:     domain.PaymentPending,
		Status:            domain.BookingConfirmed,
		SpecialRequests:   in.SpecialRequests,
		PaymentIntentID:   intent.ID,
		IsSplitPayment:    in.IsSplitPayment,
		SplitParticipants: participants,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	return booked, intent.ClientSecret, nil
}

// ConfirmPayment re-queries the gateway for settlement and returns the
// caller's booking for the intent. It does not write paymentStatus back;
// confirmation is a pure read/report step.
func (s *Service) ConfirmPayment(ctx context.Context, userID int64, intentID string) (*domain.Booking, error) {
	const op = "service.booking.ConfirmPayment"

	intent, err := s.gateway.RetrieveIntent(ctx, intentID)
	if err != nil {
		if errors.Is(err, payments.ErrIntentNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrIntentNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, translateGatewayErr(err))
	}

	if intent.Status != domain.IntentSucceeded {
		return nil, fmt.Errorf("%s:%w", op, ErrPaymentNotComplete)
	}

	booked, err := s.bookings.ByPaymentIntent(ctx, userID, intentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrBookingNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return booked, nil
}

// MyBookings lists the caller's bookings, newest first.
func (s *Service) MyBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	const op = "service.booking.MyBookings"

	bookings, err := s.bookings.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return bookings, nil
}

// GetBooking returns one of the caller's bookings by ID.
func (s *Service) GetBooking(ctx context.Context, userID int64, id uuid.UUID) (*domain.Booking, error) {
	const op = "service.booking.GetBooking"

	booked, err := s.bookings.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrBookingNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return booked, nil
}

func translateGatewayErr(err error) error {
	switch {
	case errors.Is(err, payments.ErrUnavailable):
		return ErrGatewayUnavailable
	case errors.Is(err, payments.ErrRejected):
		return ErrGatewayRejected
	default:
		return err
	}
}

func cleanEmails(emails []string) []string {
	var out []string
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}
