// Package catalog serves the public hotel/room browsing reads, cached in
// redis with short TTLs.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avelorn/staygo/internal/domain"
	"github.com/avelorn/staygo/internal/repository"
	redisrepo "github.com/avelorn/staygo/internal/repository/redis"
)

// Store is the read-only lookup set backing the catalog.
type Store interface {
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
	GetHotel(ctx context.Context, id int64) (*domain.Hotel, error)
	ListRoomsByHotel(ctx context.Context, hotelID int64) ([]domain.Room, error)
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
}

type Config struct {
	HotelListTTL    time.Duration
	HotelSummaryTTL time.Duration
	RoomListTTL     time.Duration
}

type Service struct {
	store Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.HotelListTTL <= 0 {
		cfg.HotelListTTL = 60 * time.Second
	}

	if cfg.HotelSummaryTTL <= 0 {
		cfg.HotelSummaryTTL = 60 * time.Second
	}

	if cfg.RoomListTTL <= 0 {
		cfg.RoomListTTL = 30 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// ListHotels returns all active hotels.
func (s *Service) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	const op = "service.catalog.ListHotels"

	hotels, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyHotelList(),
		s.cfg.HotelListTTL,
		func(ctx context.Context) ([]domain.Hotel, error) {
			return s.store.ListHotels(ctx)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return hotels, nil
}

func (s *Service) GetHotel(ctx context.Context, id int64) (*domain.Hotel, error) {
	const op = "service.catalog.GetHotel"

	hotel, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyHotelSummary(id),
		s.cfg.HotelSummaryTTL,
		func(ctx context.Context) (domain.Hotel, error) {
			h, err := s.store.GetHotel(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Hotel{}, ErrHotelNotFound
				}

				return domain.Hotel{}, err
			}

			return *h, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &hotel, nil
}

func (s *Service) ListRooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	const op = "service.catalog.ListRooms"

	rooms, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyHotelRooms(hotelID),
		s.cfg.RoomListTTL,
		func(ctx context.Context) ([]domain.Room, error) {
			return s.store.ListRoomsByHotel(ctx, hotelID)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rooms, nil
}

// GetRoom is the uncached read-only lookup the booking orchestrator uses
// for price and capacity.
func (s *Service) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	const op = "service.catalog.GetRoom"

	room, err := s.store.GetRoom(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrRoomNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return room, nil
}
