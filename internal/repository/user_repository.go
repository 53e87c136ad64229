package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/film-archive-api/internal/model"
	"github.com/iliyamo/film-archive-api/internal/utils"
)

// UserRepo manages API accounts. Deleted users keep their row with
// deleted_at set; every lookup here ignores them.
type UserRepo struct {
	DB  *sql.DB
	now func() time.Time
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, now: func() time.Time { return time.Now().UTC() }}
}

const userColumns = "user_id, username, password_hash, role, created_at"

func scanUser(s rowScanner) (model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

// Create hashes password and inserts a live user, returning its id.
func (r *UserRepo) Create(ctx context.Context, username, password, role string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, role, created_at) VALUES (?, ?, ?, ?)",
		username, hash, role, r.now())
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrUsernameExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches the live user holding username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ? AND deleted_at IS NULL LIMIT 1",
		strings.TrimSpace(username)))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// ListNonAdmin returns every live account that is not an admin.
func (r *UserRepo) ListNonAdmin(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE role <> ? AND deleted_at IS NULL ORDER BY user_id", model.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update changes username and password of a live user.
func (r *UserRepo) Update(ctx context.Context, id uint64, username, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET username = ?, password_hash = ? WHERE user_id = ? AND deleted_at IS NULL",
		strings.TrimSpace(username), hash, id)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res, ErrUserNotFound)
}

// SoftDelete marks a live user deleted. The username becomes free again.
func (r *UserRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET deleted_at = ? WHERE user_id = ? AND deleted_at IS NULL", r.now(), id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res, ErrUserNotFound)
}

// EnsureAdmin creates the bootstrap admin account unless a live user with
// that username already exists. It reports whether a row was created.
func (r *UserRepo) EnsureAdmin(ctx context.Context, username, password string, cost int) (bool, error) {
	if _, err := r.GetByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrUserNotFound) {
		return false, err
	}
	if _, err := r.Create(ctx, username, password, model.RoleAdmin, cost); err != nil {
		if errors.Is(err, ErrUsernameExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
