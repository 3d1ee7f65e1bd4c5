// Package review handles review submission and listing. A review is only
// accepted from a user with a completed booking at the reviewed hotel.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/avelorn/staygo/internal/domain"
	redisrepo "github.com/avelorn/staygo/internal/repository/redis"
	"github.com/google/uuid"
)

// BookingReader is the booking lookup needed for the eligibility check.
type BookingReader interface {
	ByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
}

// Store persists and lists reviews.
type Store interface {
	Create(ctx context.Context, rv domain.Review) (*domain.Review, error)
	ByHotel(ctx context.Context, hotelID int64) ([]domain.Review, error)
	ByUser(ctx context.Context, userID int64) ([]domain.ReviewWithHotel, error)
}

type Config struct {
	HotelReviewsTTL time.Duration
}

type Service struct {
	bookings BookingReader
	reviews  Store
	cache    *redisrepo.Cache
	cfg      Config
}

func New(bookings BookingReader, reviews Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.HotelReviewsTTL <= 0 {
		cfg.HotelReviewsTTL = 60 * time.Second
	}

	return &Service{
		bookings: bookings,
		reviews:  reviews,
		cache:    cache,
		cfg:      cfg,
	}
}

// CreateInput is the validated request shape for CreateReview.
type CreateInput struct {
	BookingID uuid.UUID
	HotelID   int64
	Rating    int
	Title     string
	Comment   string
}

// CreateReview verifies the caller owns a completed booking for the hotel,
// then persists the review.
func (s *Service) CreateReview(ctx context.Context, userID int64, in CreateInput) (*domain.Review, error) {
	const op = "service.review.CreateReview"

	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidRating)
	}

	bookings, err := s.bookings.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	eligible := false
	for _, b := range bookings {
		if b.ID == in.BookingID && b.HotelID == in.HotelID && b.Status == domain.BookingCompleted {
			eligible = true
			break
		}
	}

	if !eligible {
		return nil, fmt.Errorf("%s:%w", op, ErrBookingNotEligible)
	}

	created, err := s.reviews.Create(ctx, domain.Review{
		BookingID: in.BookingID,
		UserID:    userID,
		HotelID:   in.HotelID,
		Rating:    in.Rating,
		Title:     in.Title,
		Comment:   in.Comment,
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if s.cache != nil {
		_ = s.cache.InvalidateHotel(ctx, in.HotelID)
	}

	return created, nil
}

// ReviewsByHotel lists a hotel's reviews, cached briefly.
func (s *Service) ReviewsByHotel(ctx context.Context, hotelID int64) ([]domain.Review, error) {
	const op = "service.review.ReviewsByHotel"

	if s.cache == nil {
		reviews, err := s.reviews.ByHotel(ctx, hotelID)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		return reviews, nil
	}

	reviews, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyHotelReviews(hotelID),
		s.cfg.HotelReviewsTTL,
		func(ctx context.Context) ([]domain.Review, error) {
			return s.reviews.ByHotel(ctx, hotelID)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return reviews, nil
}

// MyReviews lists the caller's reviews with hotel names.
func (s *Service) MyReviews(ctx context.Context, userID int64) ([]domain.ReviewWithHotel, error) {
	const op = "service.review.MyReviews"

	reviews, err := s.reviews.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return reviews, nil
}
