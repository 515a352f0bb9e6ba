package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"golang.org/x/crypto/bcrypt"

	"github.com/kvasha/digitype/internal/model"
)

// CreateUser inserts a new account with a bcrypt-hashed password and
// returns the generated id. A taken username yields ErrDuplicateUsername
// and leaves the table untouched.
func (s *Store) CreateUser(ctx context.Context, req model.SignupRequest) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	query, args, err := qb.Insert("users").
		Columns("username", "password_hash", "email").
		Values(req.Username, string(hash), req.Email).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateUsername
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}
	return id, nil
}

// Authenticate verifies credentials and returns the account. Unknown
// usernames and wrong passwords both yield ErrInvalidCredentials; callers
// cannot tell the two apart.
func (s *Store) Authenticate(ctx context.Context, req model.LoginRequest) (model.User, error) {
	query, args, err := qb.Select("id", "password_hash", "email").
		From("users").
		Where(squirrel.Eq{"username": req.Username}).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to build query: %w", err)
	}

	var (
		id    int64
		hash  string
		email string
	)
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id, &hash, &email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}
	return model.User{ID: id, Username: req.Username, Email: email}, nil
}

// UpdateUser applies non-empty fields of the request to an existing
// account. Renaming onto a taken username yields ErrDuplicateUsername.
func (s *Store) UpdateUser(ctx context.Context, id int64, req model.UpdateProfileRequest) error {
	update := qb.Update("users").Where(squirrel.Eq{"id": id})
	changed := false
	if req.Username != "" {
		update = update.Set("username", req.Username)
		changed = true
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		update = update.Set("password_hash", string(hash))
		changed = true
	}
	if req.Email != "" {
		update = update.Set("email", req.Email)
		changed = true
	}
	if !changed {
		return nil
	}

	query, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetUser loads an account by id.
func (s *Store) GetUser(ctx context.Context, id int64) (model.User, error) {
	query, args, err := qb.Select("username", "email").
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to build query: %w", err)
	}
	user := model.User{ID: id}
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&user.Username, &user.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// isUniqueViolation matches the driver's uniqueness-constraint error. The
// modernc driver exposes it only through the message text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
