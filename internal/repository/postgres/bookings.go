package postgresrepo

import (
	"context"

	"github.com/avelorn/staygo/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// splitData is the jsonb blob layout of bookings.split_payment_data.
type splitData struct {
	Participants []domain.SplitParticipant `json:"participants"`
}

const bookingColumns = `id, user_id, hotel_id, room_id, check_in_date, check_out_date,
	guest_count, total_cents, payment_status, status,
	COALESCE(special_requests, ''), COALESCE(payment_intent_id, ''),
	is_split_payment, split_payment_data, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	var b domain.Booking
	var split *splitData

	err := row.Scan(
		&b.ID, &b.UserID, &b.HotelID, &b.RoomID, &b.CheckIn, &b.CheckOut,
		&b.GuestCount, &b.TotalCents, &b.PaymentStatus, &b.Status,
		&b.SpecialRequests, &b.PaymentIntentID,
		&b.IsSplitPayment, &split, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if split != nil {
		b.SplitParticipants = split.Participants
	}

	return &b, nil
}

// Create persists a booking draft as a single row and returns the stored
// booking with its assigned ID and timestamps.
func (r *BookingRepo) Create(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.Create"

	db := r.handle()

	var split *splitData
	if len(draft.SplitParticipants) > 0 {
		split = &splitData{Participants: draft.SplitParticipants}
	}

	row := db.QueryRow(ctx,
		`INSERT INTO bookings(
			id, user_id, hotel_id, room_id, check_in_date, check_out_date,
			guest_count, total_cents, payment_status, status,
			special_requests, payment_intent_id, is_split_payment, split_payment_data
		 )
     	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14)
     	 RETURNING `+bookingColumns,
		uuid.New(), draft.UserID, draft.HotelID, draft.RoomID,
		draft.CheckIn, draft.CheckOut, draft.GuestCount, draft.TotalCents,
		draft.PaymentStatus, draft.Status, draft.SpecialRequests,
		draft.PaymentIntentID, draft.IsSplitPayment, split,
	)

	b, err := scanBooking(row)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return b, nil
}

func (r *BookingRepo) ByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.ByUser"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return bookings, nil
}

// Get returns a booking only when it belongs to userID.
func (r *BookingRepo) Get(ctx context.Context, userID int64, id uuid.UUID) (*domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.Get"

	db := r.handle()

	b, err := scanBooking(db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return b, nil
}

// ByPaymentIntent correlates a settled intent back to the owning user's
// booking. The user scope is the authorization check.
func (r *BookingRepo) ByPaymentIntent(ctx context.Context, userID int64, intentID string) (*domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.ByPaymentIntent"

	db := r.handle()

	b, err := scanBooking(db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings
      	 WHERE payment_intent_id = $1 AND user_id = $2`,
		intentID, userID,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return b, nil
}
