package postgresrepo

import (
	"context"

	"github.com/avelorn/staygo/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepo reads hotels and rooms. The booking flow only ever needs
// GetRoom; the rest backs the public browsing endpoints.
type CatalogRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CatalogRepo) With(db DB) *CatalogRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CatalogRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const hotelColumns = `id, name, COALESCE(description, ''), address, city, state,
	country, zip_code, COALESCE(phone, ''), COALESCE(email, ''),
	COALESCE(amenities, '[]'::jsonb), COALESCE(images, '[]'::jsonb),
	rating, partner_id, is_active, created_at`

func scanHotel(row interface{ Scan(...any) error }) (*domain.Hotel, error) {
	var h domain.Hotel
	err := row.Scan(
		&h.ID, &h.Name, &h.Description, &h.Address, &h.City, &h.State,
		&h.Country, &h.ZipCode, &h.Phone, &h.Email,
		&h.Amenities, &h.Images,
		&h.Rating, &h.PartnerID, &h.IsActive, &h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *CatalogRepo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	const op = "postgresrepo.CatalogRepo.ListHotels"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+hotelColumns+` FROM hotels WHERE is_active ORDER BY id`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var hotels []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		hotels = append(hotels, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return hotels, nil
}

func (r *CatalogRepo) GetHotel(ctx context.Context, id int64) (*domain.Hotel, error) {
	const op = "postgresrepo.CatalogRepo.GetHotel"

	db := r.handle()

	h, err := scanHotel(db.QueryRow(ctx,
		`SELECT `+hotelColumns+` FROM hotels WHERE id = $1`, id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return h, nil
}

const roomColumns = `id, hotel_id, room_number, type, capacity, price_per_night_cents,
	COALESCE(description, ''), COALESCE(amenities, '[]'::jsonb),
	COALESCE(images, '[]'::jsonb), is_available, created_at`

func scanRoom(row interface{ Scan(...any) error }) (*domain.Room, error) {
	var rm domain.Room
	err := row.Scan(
		&rm.ID, &rm.HotelID, &rm.RoomNumber, &rm.Type, &rm.Capacity,
		&rm.PriceCentsNight, &rm.Description, &rm.Amenities, &rm.Images,
		&rm.IsAvailable, &rm.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func (r *CatalogRepo) ListRoomsByHotel(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	const op = "postgresrepo.CatalogRepo.ListRoomsByHotel"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE hotel_id = $1 ORDER BY id`,
		hotelID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		rooms = append(rooms, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return rooms, nil
}

func (r *CatalogRepo) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	const op = "postgresrepo.CatalogRepo.GetRoom"

	db := r.handle()

	rm, err := scanRoom(db.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return rm, nil
}
