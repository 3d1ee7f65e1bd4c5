package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avelorn/staygo/internal/domain"
	redisrepo "github.com/avelorn/staygo/internal/repository/redis"
	"github.com/avelorn/staygo/internal/service"
	"github.com/avelorn/staygo/internal/service/auth"
	"github.com/avelorn/staygo/internal/service/booking"
	"github.com/avelorn/staygo/internal/service/catalog"
	"github.com/avelorn/staygo/internal/service/review"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Config struct {
	SessionSecret        string
	SessionMaxAgeSeconds int
	StripePublishableKey string
}

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	cfg Config,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	if cfg.SessionMaxAgeSeconds <= 0 {
		cfg.SessionMaxAgeSeconds = int((24 * time.Hour).Seconds())
	}

	r := gin.New()

	r.Use(
		gin.Recovery(),
		LoggingMiddleware(logger),
		RequestIDMiddleware(),
		CORS(),
		SessionMiddleware(svcs.Auth, cfg.SessionSecret),
	)
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Auth
	api.POST("/auth/register", handleRegister(svcs, cfg))
	api.POST("/auth/login", handleLogin(svcs, cfg))
	api.POST("/auth/logout", handleLogout(svcs))
	api.GET("/auth/me", RequireAuth(), handleMe(svcs))

	// Public catalog
	api.GET("/hotels", handleListHotels(svcs))
	api.GET("/hotels/:id", handleGetHotel(svcs))
	api.GET("/hotels/:id/rooms", handleListRooms(svcs))
	api.GET("/hotels/:id/reviews", handleHotelReviews(svcs))

	// Bookings
	api.POST("/bookings", RequireAuth(), handleCreateBooking(svcs, idem))
	api.GET("/bookings/my-bookings", RequireAuth(), handleMyBookings(svcs))
	api.GET("/bookings/:id", RequireAuth(), handleGetBooking(svcs))

	// Payments
	api.POST("/payments/confirm", RequireAuth(), handleConfirmPayment(svcs))
	api.GET("/stripe/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, StripeConfigResponse{PublishableKey: cfg.StripePublishableKey})
	})

	// Reviews
	api.POST("/reviews", RequireAuth(), handleCreateReview(svcs))
	api.GET("/reviews/my-reviews", RequireAuth(), handleMyReviews(svcs))

	return r
}

// --- Auth handlers ---

// @Summary  Register a new user
// @Param    req body RegisterRequest true "payload"
// @Success  201 {object} UserResponse
// @Failure  400 {object} ErrorResponse
// @Router   /api/auth/register [post]
func handleRegister(svcs *service.Services, cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid input", err)
			return
		}

		user, token, err := svcs.Auth.Register(c.Request.Context(), auth.RegisterInput{
			Username:  req.Username,
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			UserType:  domain.UserType(req.UserType),
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		setSessionCookie(c, token, cfg)
		c.JSON(http.StatusCreated, UserResponse{User: user})
	}
}

// @Summary  Log in
// @Param    req body LoginRequest true "payload"
// @Success  200 {object} UserResponse
// @Failure  401 {object} ErrorResponse
// @Router   /api/auth/login [post]
func handleLogin(svcs *service.Services, cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Email and password are required", err)
			return
		}

		user, token, err := svcs.Auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}

		setSessionCookie(c, token, cfg)
		c.JSON(http.StatusOK, UserResponse{User: user})
	}
}

// @Summary  Log out
// @Success  200 {object} MessageResponse
// @Router   /api/auth/logout [post]
func handleLogout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := c.Get("session_token"); ok {
			_ = svcs.Auth.Logout(c.Request.Context(), token.(string))
		}

		c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
	}
}

// @Summary  Current user
// @Success  200 {object} UserResponse
// @Failure  401 {object} ErrorResponse
// @Router   /api/auth/me [get]
func handleMe(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := sessionFrom(c)

		user, err := svcs.Auth.Me(c.Request.Context(), sess.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, UserResponse{User: user})
	}
}

// --- Catalog handlers ---

// @Summary  List active hotels
// @Success  200 {array} domain.Hotel
// @Router   /api/hotels [get]
func handleListHotels(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		hotels, err := svcs.Catalog.ListHotels(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, hotels, "public, max-age=60", true)
	}
}

// @Summary  Get hotel
// @Param    id path int true "Hotel ID"
// @Success  200 {object} domain.Hotel
// @Failure  404 {object} ErrorResponse
// @Router   /api/hotels/{id} [get]
func handleGetHotel(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		hotelID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		h, err := svcs.Catalog.GetHotel(c.Request.Context(), hotelID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, h, "public, max-age=60", true)
	}
}

// @Summary  List hotel rooms
// @Param    id path int true "Hotel ID"
// @Success  200 {array} domain.Room
// @Router   /api/hotels/{id}/rooms [get]
func handleListRooms(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		hotelID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		rooms, err := svcs.Catalog.ListRooms(c.Request.Context(), hotelID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, rooms, "public, max-age=30", true)
	}
}

// @Summary  List hotel reviews
// @Param    id path int true "Hotel ID"
// @Success  200 {array} domain.Review
// @Router   /api/hotels/{id}/reviews [get]
func handleHotelReviews(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		hotelID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		reviews, err := svcs.Review.ReviewsByHotel(c.Request.Context(), hotelID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, reviews, "public, max-age=60", true)
	}
}

// --- Booking handlers ---

// @Summary  Create booking (idempotent)
// @Param    req body CreateBookingRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} CreateBookingResponse
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse "room not found"
// @Failure  409 {object} ErrorResponse "idempotency key in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /api/bookings [post]
func handleCreateBooking(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := sessionFrom(c)

		var req CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid input", err)
			return
		}

		checkIn, err := parseDate(req.CheckInDate)
		if err != nil {
			badRequest(c, "invalid checkInDate", nil)
			return
		}
		checkOut, err := parseDate(req.CheckOutDate)
		if err != nil {
			badRequest(c, "invalid checkOutDate", nil)
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemBooking(sess.UserID, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Message: "idempotency key in progress"},
				)
				return
			}
		}

		var splitEmails []string
		if req.SplitPaymentData != nil {
			splitEmails = req.SplitPaymentData.Emails
		}

		booked, clientSecret, err := svcs.Booking.CreateBooking(
			c.Request.Context(),
			sess.UserID,
			booking.CreateInput{
				HotelID:         req.HotelID,
				RoomID:          req.RoomID,
				CheckIn:         checkIn,
				CheckOut:        checkOut,
				GuestCount:      req.GuestCount,
				SpecialRequests: req.SpecialRequests,
				IsSplitPayment:  req.IsSplitPayment,
				SplitEmails:     splitEmails,
			},
			"ip:"+c.ClientIP(),
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := CreateBookingResponse{Booking: booked, ClientSecret: clientSecret}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  List own bookings
// @Success  200 {array} domain.Booking
// @Router   /api/bookings/my-bookings [get]
func handleMyBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := sessionFrom(c)

		bookings, err := svcs.Booking.MyBookings(c.Request.Context(), sess.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, bookings)
	}
}

// @Summary  Get own booking
// @Param    id path string true "Booking ID (uuid)"
// @Success  200 {object} domain.Booking
// @Failure  404 {object} ErrorResponse
// @Router   /api/bookings/{id} [get]
func handleGetBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := sessionFrom(c)

		bookingID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid booking id", nil)
			return
		}

		booked, err := svcs.Booking.GetBooking(c.Request.Context(), sess.UserID, bookingID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, booked)
	}
}

// @Summary  Confirm payment settlement
// @Param    req body ConfirmPaymentRequest true "payload"
// @Success  200 {object} ConfirmPaymentResponse
// @Failure  400 {object} ErrorResponse "payment not completed"
// @Failure  404 {object} ErrorResponse
// @Router   /api/payments/confirm [post]
func handleConfirmPayment(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := sessionFrom(c)

		var req ConfirmPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid input", err)
			return
		}

		booked, err := svcs.Booking.ConfirmPayment(
			c.Request.Context(),
			sess.UserID,
			req.PaymentIntentID,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, ConfirmPaymentResponse{Success: true, Booking: booked})
	}
}

// --- Review handlers ---

// @Summary  Create review
// @Param    req body CreateReviewRequest true "payload"
// @Success  201 {object} domain.Review
// @Failure  400 {object} ErrorResponse "booking not eligible"
// @Router   /api/reviews [post]
func handleCreateReview(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := sessionFrom(c)

		var req CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid input", err)
			return
		}

		bookingID, err := uuid.Parse(req.BookingID)
		if err != nil {
			badRequest(c, "invalid bookingId", nil)
			return
		}

		created, err := svcs.Review.CreateReview(c.Request.Context(), sess.UserID, review.CreateInput{
			BookingID: bookingID,
			HotelID:   req.HotelID,
			Rating:    req.Rating,
			Title:     req.Title,
			Comment:   req.Comment,
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, created)
	}
}

// @Summary  List own reviews
// @Success  200 {array} domain.ReviewWithHotel
// @Router   /api/reviews/my-reviews [get]
func handleMyReviews(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := sessionFrom(c)

		reviews, err := svcs.Review.MyReviews(c.Request.Context(), sess.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, reviews)
	}
}

// --- Helpers ---

func setSessionCookie(c *gin.Context, token string, cfg Config) {
	c.SetCookie(
		sessionCookie,
		sealCookie(token, cfg.SessionSecret),
		cfg.SessionMaxAgeSeconds,
		"/",
		"",
		false,
		true,
	)
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name, nil)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string, err error) {
	resp := ErrorResponse{Message: msg}
	if err != nil {
		resp.Errors = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// auth service
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "User already exists with this email"})
		return
	case errors.Is(err, auth.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Username already taken"})
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid credentials"})
		return
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrSessionNotFound):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	// catalog service
	case errors.Is(err, catalog.ErrHotelNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Hotel not found"})
		return
	case errors.Is(err, catalog.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Room not found"})
		return
	// booking service
	case errors.Is(err, booking.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Room not found"})
		return
	case errors.Is(err, booking.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Booking not found"})
		return
	case errors.Is(err, booking.ErrIntentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Payment intent not found"})
		return
	case errors.Is(err, booking.ErrCapacityExceeded):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Guest count exceeds room capacity"})
		return
	case errors.Is(err, booking.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Check-out must be after check-in"})
		return
	case errors.Is(err, booking.ErrPaymentNotComplete):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Payment not completed"})
		return
	case errors.Is(err, booking.ErrRateLimited):
		c.Header("Retry-After", "60")
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Message: "Too many booking attempts"})
		return
	// review service
	case errors.Is(err, review.ErrBookingNotEligible):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Can only review completed bookings"})
		return
	case errors.Is(err, review.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Rating must be between 1 and 5"})
		return
	}

	// gateway and storage failures stay generic; detail goes to the log
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
}
