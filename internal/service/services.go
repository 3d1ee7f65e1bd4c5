package service

import (
	"github.com/avelorn/staygo/internal/payments"
	postgres "github.com/avelorn/staygo/internal/repository/postgres"
	redis "github.com/avelorn/staygo/internal/repository/redis"
	"github.com/avelorn/staygo/internal/service/auth"
	"github.com/avelorn/staygo/internal/service/booking"
	"github.com/avelorn/staygo/internal/service/catalog"
	"github.com/avelorn/staygo/internal/service/review"
)

type Services struct {
	Auth    *auth.Service
	Catalog *catalog.Service
	Booking *booking.Service
	Review  *review.Service
}

type Config struct {
	Booking booking.Config
	Catalog catalog.Config
	Review  review.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	sessions *redis.SessionStore,
	limiter *redis.SlidingWindowLimiter,
	gateway payments.Gateway,
	cfg Config,
) *Services {
	return &Services{
		Auth:    auth.New(store.Users(), sessions),
		Catalog: catalog.New(store.Catalog(), cache, cfg.Catalog),
		Booking: booking.New(store.Catalog(), store.Bookings(), gateway, limiter, cfg.Booking),
		Review:  review.New(store.Bookings(), store.Reviews(), cache, cfg.Review),
	}
}
