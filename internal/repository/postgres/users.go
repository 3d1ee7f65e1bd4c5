package postgresrepo

import (
	"context"

	"github.com/avelorn/staygo/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *UserRepo) With(db DB) *UserRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *UserRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const userColumns = `id, username, email, password, first_name, last_name,
	COALESCE(phone, ''), user_type, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.Phone, &u.UserType,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persists a new user. Returns repository.ErrConflict when the
// username or email is already taken.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	const op = "postgresrepo.UserRepo.Create"

	db := r.handle()

	row := db.QueryRow(ctx,
		`INSERT INTO users(username, email, password, first_name, last_name, phone, user_type)
     	 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
     	 RETURNING `+userColumns,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.UserType,
	)

	created, err := scanUser(row)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return created, nil
}

func (r *UserRepo) Get(ctx context.Context, id int64) (*domain.User, error) {
	const op = "postgresrepo.UserRepo.Get"

	db := r.handle()

	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const op = "postgresrepo.UserRepo.GetByEmail"

	db := r.handle()

	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const op = "postgresrepo.UserRepo.GetByUsername"

	db := r.handle()

	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return u, nil
}
