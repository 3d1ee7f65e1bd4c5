package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avelorn/staygo/internal/domain"
	"github.com/avelorn/staygo/internal/payments"
	"github.com/avelorn/staygo/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRooms struct {
	mock.Mock
}

func (m *mockRooms) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, userID int64, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockStore) ByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *mockStore) ByPaymentIntent(ctx context.Context, userID int64, intentID string) (*domain.Booking, error) {
	args := m.Called(ctx, userID, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, amountCents, currency, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}

func (m *mockGateway) RetrieveIntent(ctx context.Context, intentID string) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}

func testRoom() *domain.Room {
	return &domain.Room{
		ID:              7,
		HotelID:         3,
		RoomNumber:      "204",
		Type:            "deluxe",
		Capacity:        2,
		PriceCentsNight: 10000,
		IsAvailable:     true,
	}
}

func validInput() CreateInput {
	return CreateInput{
		HotelID:    3,
		RoomID:     7,
		CheckIn:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		GuestCount: 2,
	}
}

func TestCreateBooking_RoomNotFound(t *testing.T) {
	rooms := new(mockRooms)
	bookings := new(mockStore)
	gateway := new(mockGateway)

	rooms.On("GetRoom", mock.Anything, int64(7)).Return(nil, repository.ErrNotFound)

	svc := New(rooms, bookings, gateway, nil, Config{})

	_, _, err := svc.CreateBooking(context.Background(), 1, validInput(), "")
	require.ErrorIs(t, err, ErrRoomNotFound)

	gateway.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_CapacityExceeded(t *testing.T) {
	rooms := new(mockRooms)
	bookings := new(mockStore)
	gateway := new(mockGateway)

	rooms.On("GetRoom", mock.Anything, int64(7)).Return(testRoom(), nil)

	svc := New(rooms, bookings, gateway, nil, Config{})

	in := validInput()
	in.GuestCount = 5

	_, _, err := svc.CreateBooking(context.Background(), 1, in, "")
	require.ErrorIs(t, err, ErrCapacityExceeded)

	gateway.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_InvalidDateRange(t *testing.T) {
	rooms := new(mockRooms)
	bookings := new(mockStore)
	gateway := new(mockGateway)

	rooms.On("GetRoom", mock.Anything, int64(7)).Return(testRoom(), nil)

	svc := New(rooms, bookings, gateway, nil, Config{})

	in := validInput()
	in.CheckOut = in.CheckIn

	_, _, err := svc.CreateBooking(context.Background(), 1, in, "")
	require.ErrorIs(t, err, ErrInvalidDateRange)

	gateway.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_Success(t *testing.T) {
	rooms := new(mockRooms)
	bookings := new(mockStore)
	gateway := new(mockGateway)

	rooms.On("GetRoom", mock.Anything, int64(7)).Return(testRoom(), nil)

	// 3 nights at 10000 plus 12% tax
	wantTotal := int64(33600)

	gateway.On(
		"CreateIntent",
		mock.Anything,
		wantTotal,
		"usd",
		mock.MatchedBy(func(md map[string]string) bool {
			return md["hotelId"] == "3" &&
				md["roomId"] == "7" &&
				md["userId"] == "42" &&
				md["guestCount"] == "2" &&
				md["isSplitPayment"] == "false"
		}),
	).Return(&domain.PaymentIntent{
		ID:           "pi_123",
		ClientSecret: "pi_123_secret",
		Status:       domain.IntentRequiresPayment,
	}, nil)

	bookings.On("Create", mock.Anything, mock.MatchedBy(func(d domain.BookingDraft) bool {
		return d.UserID == 42 &&
			d.HotelID == 3 &&
			d.RoomID == 7 &&
			d.TotalCents == wantTotal &&
			d.PaymentStatus == domain.PaymentPending &&
			d.Status == domain.BookingConfirmed &&
			d.PaymentIntentID == "pi_123" &&
			!d.IsSplitPayment &&
			d.SplitParticipants == nil
	})).Return(&domain.Booking{ID: uuid.New(), UserID: 42, TotalCents: wantTotal}, nil)

	svc := New(rooms, bookings, gateway, nil, Config{})

	booked, clientSecret, err := svc.CreateBooking(context.Background(), 42, validInput(), "")
	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret", clientSecret)
	assert.Equal(t, wantTotal, booked.TotalCents)

	gateway.AssertExpectations(t)
	bookings.AssertExpectations(t)
}

func TestCreateBooking_SplitPayment(t *testing.T) {
	rooms := new(mockRooms)
	bookings := new(mockStore)
	gateway := new(mockGateway)

	rooms.On("GetRoom", mock.Anything, int64(7)).Return(testRoom(), nil)

	gateway.On(
		"CreateIntent",
		mock.Anything,
		int64(33600),
		"usd",
		mock.MatchedBy(func(md map[string]string) bool {
			return md["isSplitPayment"] == "true"
		}),
	).Return(&domain.PaymentIntent{ID: "pi_s", ClientSecret: "pi_s_secret"}, nil)

	bookings.On("Create", mock.Anything, mock.MatchedBy(func(d domain.BookingDraft) bool {
		if !d.IsSplitPayment || len(d.SplitParticipants) != 2 {
			return false
		}
		// 33600 split three ways, owner included
		for _, p := range d.SplitParticipants {
			if p.AmountCents != 11200 || p.Paid {
				return false
			}
		}
		return d.SplitParticipants[0].Email == "a@example.com" &&
			d.SplitParticipants[1].Email == "b@example.com"
	})).Return(&domain.Booking{ID: uuid.New(), IsSplitPayment: true}, nil)

	svc := New(rooms, bookings, gateway, nil, Config{})

	in := validInput()
	in.IsSplitPayment = true
	in.SplitEmails = []string{"  a@example.com ", "", "b@example.com"}

	_, _, err := svc.CreateBooking(context.Background(), 42, in, "")
	require.NoError(t, err)

	gateway.AssertExpectations(t)
	bookings.AssertExpectations(t)
}

func TestCreateBooking_GatewayUnavailable(t *testing.T) {
	rooms := new(mockRooms)
	bookings := new(mockStore)
	gateway := new(mockGateway)

	rooms.On("GetRoom", mock.Anything, int64(7)).Return(testRoom(), nil)
	gateway.On("CreateIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, payments.ErrUnavailable)

	svc := New(rooms, bookings, gateway, nil, Config{})

	_, _, err := svc.CreateBooking(context.Background(), 1, validInput(), "")
	require.ErrorIs(t, err, ErrGatewayUnavailable)

	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_StoreFailureAfterIntent(t *testing.T) {
	rooms := new(mockRooms)
	bookings := new(mockStore)
	gateway := new(mockGateway)

	rooms.On("GetRoom", mock.Anything, int64(7)).Return(testRoom(), nil)
	gateway.On("CreateIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.PaymentIntent{ID: "pi_orphan", ClientSecret: "cs"}, nil)

	storeErr := errors.New("connection reset")
	bookings.On("Create", mock.Anything, mock.Anything).Return(nil, storeErr)

	svc := New(rooms, bookings, gateway, nil, Config{})

	_, _, err := svc.CreateBooking(context.Background(), 1, validInput(), "")
	require.ErrorIs(t, err, storeErr)
}

func TestConfirmPayment_IntentNotFound(t *testing.T) {
	rooms := new(mockRooms)
	bookings := new(mockStore)
	gateway := new(mockGateway)

	gateway.On("RetrieveIntent", mock.Anything, "pi_missing").
		Return(nil, payments.ErrIntentNotFound)

	svc := New(rooms, bookings, gateway, nil, Config{})

	_, err := svc.ConfirmPayment(context.Background(), 1, "pi_missing")
	require.ErrorIs(t, err, ErrIntentNotFound)
}

func TestConfirmPayment_NotSucceeded(t *testing.T) {
	rooms := new(mockRooms)
	bookings := new(mockStore)
	gateway := new(mockGateway)

	for _, status := range []domain.IntentStatus{
		domain.IntentRequiresPayment,
		domain.IntentProcessing,
		domain.IntentCanceled,
		domain.IntentFailed,
	} {
		gateway.On("RetrieveIntent", mock.Anything, "pi_1").
			Return(&domain.PaymentIntent{ID: "pi_1", Status: status}, nil).Once()

		svc := New(rooms, bookings, gateway, nil, Config{})

		_, err := svc.ConfirmPayment(context.Background(), 1, "pi_1")
		require.ErrorIs(t, err, ErrPaymentNotComplete, "status %s", status)
	}

	bookings.AssertNotCalled(t, "ByPaymentIntent", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPayment_Succeeded(t *testing.T) {
	rooms := new(mockRooms)
	bookings := new(mockStore)
	gateway := new(mockGateway)

	gateway.On("RetrieveIntent", mock.Anything, "pi_ok").
		Return(&domain.PaymentIntent{ID: "pi_ok", Status: domain.IntentSucceeded}, nil)

	want := &domain.Booking{ID: uuid.New(), UserID: 42, PaymentIntentID: "pi_ok", PaymentStatus: domain.PaymentPending}
	bookings.On("ByPaymentIntent", mock.Anything, int64(42), "pi_ok").Return(want, nil)

	svc := New(rooms, bookings, gateway, nil, Config{})

	booked, err := svc.ConfirmPayment(context.Background(), 42, "pi_ok")
	require.NoError(t, err)
	assert.Equal(t, want, booked)
	// settlement is reported, never written back
	assert.Equal(t, domain.PaymentPending, booked.PaymentStatus)
}

func TestConfirmPayment_BookingNotFound(t *testing.T) {
	rooms := new(mockRooms)
	bookings := new(mockStore)
	gateway := new(mockGateway)

	gateway.On("RetrieveIntent", mock.Anything, "pi_other").
		Return(&domain.PaymentIntent{ID: "pi_other", Status: domain.IntentSucceeded}, nil)
	bookings.On("ByPaymentIntent", mock.Anything, int64(1), "pi_other").
		Return(nil, repository.ErrNotFound)

	svc := New(rooms, bookings, gateway, nil, Config{})

	_, err := svc.ConfirmPayment(context.Background(), 1, "pi_other")
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetBooking_NotFound(t *testing.T) {
	rooms := new(mockRooms)
	bookings := new(mockStore)
	gateway := new(mockGateway)

	id := uuid.New()
	bookings.On("Get", mock.Anything, int64(1), id).Return(nil, repository.ErrNotFound)

	svc := New(rooms, bookings, gateway, nil, Config{})

	_, err := svc.GetBooking(context.Background(), 1, id)
	require.ErrorIs(t, err, ErrBookingNotFound)
}
