package userservice

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sushihentaime/inkwell/internal/common"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
)

func NewUserModel(db *sql.DB) *UserModel {
	return &UserModel{db: db}
}

const userColumns = `id, email, first_name, last_name, profile_image_url, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *User) error {
	return row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL, &u.Password.hash, &u.CreatedAt, &u.UpdatedAt)
}

func (m *UserModel) insert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	args := []any{
		u.ID,
		u.Email,
		u.FirstName,
		u.LastName,
		u.ProfileImageURL,
		u.Password.hash,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case common.UniqueViolationError(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

// upsert inserts the profile or, when the id already exists, overwrites its profile fields.
// The stored password hash is never touched.
func (m *UserModel) upsert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			profile_image_url = EXCLUDED.profile_image_url,
			updated_at = NOW()
		RETURNING ` + userColumns

	err := scanUser(m.db.QueryRowContext(ctx, query, u.ID, u.Email, u.FirstName, u.LastName, u.ProfileImageURL), u)
	if err != nil {
		switch {
		case common.UniqueViolationError(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

func (m *UserModel) getByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u User
	err := scanUser(m.db.QueryRowContext(ctx, query, id), &u)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *UserModel) getByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var u User
	err := scanUser(m.db.QueryRowContext(ctx, query, email), &u)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

// getForToken returns the owner of an unexpired token with the given scope, and the token's expiry.
func (m *UserModel) getForToken(ctx context.Context, scope tokenScope, hash []byte) (*User, time.Time, error) {
	query := `
		SELECT u.id, u.email, u.first_name, u.last_name, u.profile_image_url, u.password_hash, u.created_at, u.updated_at, t.expiry
		FROM users u
		INNER JOIN tokens t ON u.id = t.user_id
		WHERE t.hash = $1 AND t.scope = $2 AND t.expiry > $3`

	var (
		u      User
		expiry time.Time
	)
	err := m.db.QueryRowContext(ctx, query, hash, string(scope), time.Now()).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL, &u.Password.hash, &u.CreatedAt, &u.UpdatedAt, &expiry)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, time.Time{}, common.ErrRecordNotFound
		default:
			return nil, time.Time{}, err
		}
	}

	return &u, expiry, nil
}
