// internal/auth/repository.go
// Repository pattern isolates database queries from business logic.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines all database operations for auth
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUserByUID(ctx context.Context, uid string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	DeleteUser(ctx context.Context, uid string) error

	// Session operations
	CreateSession(ctx context.Context, session *Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*Session, error)
	DeleteSessionByRefreshToken(ctx context.Context, refreshToken string) error
	DeleteUserSessions(ctx context.Context, uid string) error
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// Migrate creates the auth tables if they do not exist
func Migrate(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users_auth (
		uid           TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		category      TEXT NOT NULL,
		is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id            BIGSERIAL PRIMARY KEY,
		user_uid      TEXT NOT NULL REFERENCES users_auth(uid) ON DELETE CASCADE,
		refresh_token TEXT NOT NULL UNIQUE,
		device_info   TEXT,
		expires_at    TIMESTAMPTZ NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user_uid ON sessions(user_uid);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run auth migrations: %w", err)
	}
	return nil
}

// CreateUser inserts a new auth record
func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users_auth (uid, email, password_hash, category, is_admin, created_at, updated_at)
		VALUES ($1, LOWER($2), $3, $4, $5, NOW(), NOW())`

	_, err := r.db.ExecContext(ctx, query,
		user.UID,
		user.Email,
		user.PasswordHash,
		user.Category,
		user.IsAdmin,
	)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByUID retrieves a user by uid
func (r *postgresRepository) GetUserByUID(ctx context.Context, uid string) (*User, error) {
	user := &User{}
	query := `
		SELECT uid, email, password_hash, category, is_admin, created_at, updated_at
		FROM users_auth
		WHERE uid = $1`

	err := r.db.GetContext(ctx, user, query, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitive
func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user := &User{}
	query := `
		SELECT uid, email, password_hash, category, is_admin, created_at, updated_at
		FROM users_auth
		WHERE LOWER(email) = LOWER($1)`

	err := r.db.GetContext(ctx, user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// IsEmailTaken checks whether an email is already registered
func (r *postgresRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users_auth WHERE LOWER(email) = LOWER($1))`

	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// DeleteUser removes an auth record and, via cascade, its sessions
func (r *postgresRepository) DeleteUser(ctx context.Context, uid string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users_auth WHERE uid = $1`, uid); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// CreateSession stores a refresh token
func (r *postgresRepository) CreateSession(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (user_uid, refresh_token, device_info, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		session.UserUID,
		session.RefreshToken,
		session.DeviceInfo,
		session.ExpiresAt,
	).Scan(&session.ID)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSessionByRefreshToken retrieves an unexpired session
func (r *postgresRepository) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	session := &Session{}
	query := `
		SELECT id, user_uid, refresh_token, device_info, expires_at, created_at
		FROM sessions
		WHERE refresh_token = $1 AND expires_at > NOW()`

	err := r.db.GetContext(ctx, session, query, refreshToken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// DeleteSessionByRefreshToken revokes one session
func (r *postgresRepository) DeleteSessionByRefreshToken(ctx context.Context, refreshToken string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE refresh_token = $1`, refreshToken); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteUserSessions revokes every session for a user
func (r *postgresRepository) DeleteUserSessions(ctx context.Context, uid string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_uid = $1`, uid); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}
