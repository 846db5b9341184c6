// Package postgres implements store.Store on a pgx connection pool. Durable
// state lives entirely in the database; multi-table mutations run inside
// explicit transactions with rollback on any failure.
package postgres

import (
	"context"
	"errors"

	"github.com/IRFXN3671/TaskFlow/internal/models"
	"github.com/IRFXN3671/TaskFlow/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Authenticate checks the password against the stored hash and then the
// activation state. A missing employee record is indistinguishable from a
// deactivated one.
func (s *Store) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	var user models.User
	var passwordHash string
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, password, role, name
		FROM users
		WHERE username = $1
	`, username)
	if err := row.Scan(&user.ID, &user.Username, &passwordHash, &user.Role, &user.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, store.ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return models.User{}, store.ErrInvalidCredentials
	}

	active, err := s.IsActive(ctx, user.ID)
	if err != nil {
		return models.User{}, err
	}
	if !active {
		return models.User{}, store.ErrAccountInactive
	}
	return user, nil
}

func (s *Store) GetUser(ctx context.Context, id int) (models.User, error) {
	var user models.User
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, role, name
		FROM users
		WHERE id = $1
	`, id)
	if err := row.Scan(&user.ID, &user.Username, &user.Role, &user.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, store.ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error {
	var passwordHash string
	row := s.pool.QueryRow(ctx, `
		SELECT password
		FROM users
		WHERE id = $1
	`, userID)
	if err := row.Scan(&passwordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(currentPassword)); err != nil {
		return store.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		UPDATE users
		SET password = $1, updated_at = NOW()
		WHERE id = $2
	`, string(hashed), userID)
	return err
}

// IsActive reports the live activation state for the access gate. A user
// without an employee record reads as inactive (fail-closed).
func (s *Store) IsActive(ctx context.Context, userID int) (bool, error) {
	var active bool
	row := s.pool.QueryRow(ctx, `
		SELECT is_active
		FROM employees
		WHERE user_id = $1
	`, userID)
	if err := row.Scan(&active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return active, nil
}

func (s *Store) TouchLastLogin(ctx context.Context, userID int) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE employees
		SET last_login = NOW()
		WHERE user_id = $1
	`, userID)
	return err
}
