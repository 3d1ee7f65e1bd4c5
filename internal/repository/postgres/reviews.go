package postgresrepo

import (
	"context"

	"github.com/avelorn/staygo/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepo struct {
	pool  *pgxpool.Pool
	store *Store
	db    DB
}

func (r *ReviewRepo) With(db DB) *ReviewRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ReviewRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const reviewColumns = `id, booking_id, user_id, hotel_id, rating,
	COALESCE(title, ''), COALESCE(comment, ''), created_at`

func scanReview(row interface{ Scan(...any) error }) (*domain.Review, error) {
	var rv domain.Review
	err := row.Scan(
		&rv.ID, &rv.BookingID, &rv.UserID, &rv.HotelID, &rv.Rating,
		&rv.Title, &rv.Comment, &rv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// Create inserts the review and recomputes the hotel's aggregate rating in
// the same transaction.
func (r *ReviewRepo) Create(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	const op = "postgresrepo.ReviewRepo.Create"

	var created *domain.Review

	err := r.store.RunTx(ctx, nil, func(ctx context.Context, tx DB) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO reviews(id, booking_id, user_id, hotel_id, rating, title, comment)
         	 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
         	 RETURNING `+reviewColumns,
			uuid.New(), rv.BookingID, rv.UserID, rv.HotelID, rv.Rating, rv.Title, rv.Comment,
		)

		ins, err := scanReview(row)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE hotels
            	SET rating = (SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE hotel_id = $1)
          	 WHERE id = $1`,
			rv.HotelID,
		); err != nil {
			return err
		}

		created = ins
		return nil
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return created, nil
}

func (r *ReviewRepo) ByHotel(ctx context.Context, hotelID int64) ([]domain.Review, error) {
	const op = "postgresrepo.ReviewRepo.ByHotel"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE hotel_id = $1 ORDER BY created_at DESC`,
		hotelID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		reviews = append(reviews, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return reviews, nil
}

func (r *ReviewRepo) ByUser(ctx context.Context, userID int64) ([]domain.ReviewWithHotel, error) {
	const op = "postgresrepo.ReviewRepo.ByUser"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT r.id, r.booking_id, r.user_id, r.hotel_id, r.rating,
				COALESCE(r.title, ''), COALESCE(r.comment, ''), r.created_at,
				COALESCE(h.name, '')
       	 FROM reviews r
       	 LEFT JOIN hotels h ON h.id = r.hotel_id
      	 WHERE r.user_id = $1
      	 ORDER BY r.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var reviews []domain.ReviewWithHotel
	for rows.Next() {
		var rv domain.ReviewWithHotel
		if err := rows.Scan(
			&rv.ID, &rv.BookingID, &rv.UserID, &rv.HotelID, &rv.Rating,
			&rv.Title, &rv.Comment, &rv.CreatedAt, &rv.HotelName,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return reviews, nil
}
