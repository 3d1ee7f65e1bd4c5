// Package auth covers registration, login and redis-backed sessions.
// Identity is resolved here once per request and injected into the other
// services as plain parameters.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/avelorn/staygo/internal/domain"
	"github.com/avelorn/staygo/internal/repository"
	redisrepo "github.com/avelorn/staygo/internal/repository/redis"
	"golang.org/x/crypto/bcrypt"
)

// UserStore persists and looks up users.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type Service struct {
	users    UserStore
	sessions *redisrepo.SessionStore
}

func New(users UserStore, sessions *redisrepo.SessionStore) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
	}
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	UserType  domain.UserType
}

// Register creates the user and logs them in, returning the user and the
// new session token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	const op = "service.auth.Register"

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", fmt.Errorf("%s:%w", op, ErrEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, "", fmt.Errorf("%s:%w", op, ErrUsernameTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	userType := in.UserType
	if userType == "" {
		userType = domain.UserGuest
	}

	user, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		UserType:     userType,
	})
	if err != nil {
		// unique index raced with the pre-check
		if errors.Is(err, repository.ErrConflict) {
			return nil, "", fmt.Errorf("%s:%w", op, ErrEmailTaken)
		}

		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	token, err := s.sessions.Create(ctx, domain.Session{
		UserID:   user.ID,
		UserType: user.UserType,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	return user, token, nil
}

// Login verifies credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	const op = "service.auth.Login"

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", fmt.Errorf("%s:%w", op, ErrInvalidCredentials)
		}

		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", fmt.Errorf("%s:%w", op, ErrInvalidCredentials)
	}

	token, err := s.sessions.Create(ctx, domain.Session{
		UserID:   user.ID,
		UserType: user.UserType,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s:%w", op, err)
	}

	return user, token, nil
}

// Logout destroys the session for the given token.
func (s *Service) Logout(ctx context.Context, token string) error {
	const op = "service.auth.Logout"

	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// Resolve maps a session token to the identity it carries.
func (s *Service) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	const op = "service.auth.Resolve"

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrSessionNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return sess, nil
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	const op = "service.auth.Me"

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return user, nil
}
