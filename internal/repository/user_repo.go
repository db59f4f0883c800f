package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"go-feedback-gate/internal/model"
)

const userColumns = `id, username, email, password_hash, role_id, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.RoleID, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, oops.Code("USER_QUERY_FAILED").With("user_id", id).Wrapf(err, "find user by id")
	}
	return u, nil
}

// FindByEmail matches case-insensitively, mirroring the unique index.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email)))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, oops.Code("USER_QUERY_FAILED").With("operation", "find by email").Wrapf(err, "find user by email")
	}
	return u, nil
}

// Insert relies on the lower(email) unique index to settle concurrent
// registrations: the loser gets ErrUserAlreadyExists.
func (r *UserRepository) Insert(ctx context.Context, u model.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, role_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.RoleID, u.CreatedAt, u.UpdatedAt)

	if isUniqueViolation(err) {
		return model.ErrUserAlreadyExists
	}
	if isInvalidText(err) {
		return model.ErrInvalidText
	}
	if err != nil {
		return oops.Code("USER_INSERT_FAILED").With("user_id", u.ID).Wrapf(err, "insert user")
	}
	return nil
}
