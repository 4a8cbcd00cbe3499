package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"solo_adventure/internal/domain"
	apperrors "solo_adventure/pkg/errors"
	"solo_adventure/pkg/logger"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	CreateSession(ctx context.Context, session *domain.UserSession) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.UserSession, error)
	RevokeSession(ctx context.Context, sessionID uuid.UUID, reason string) error
}

type userRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewUserRepository(db *pgxpool.Pool, log logger.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, display_name, global_role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.DisplayName,
		user.GlobalRole, user.IsActive, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.log.Warn("User already exists", "email", user.Email, "constraint", pgErr.ConstraintName)
			return apperrors.ErrUserAlreadyExists
		}
		r.log.Error("Failed to create user", "error", err, "email", user.Email)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, global_role, is_active, last_login_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user := &domain.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName,
		&user.GlobalRole, &user.IsActive, &user.LastLoginAt,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.log.Error("Failed to get user by ID", "error", err)
		return nil, err
	}

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	query := `
		SELECT id, email, password_hash, display_name, global_role, is_active, last_login_at, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	user := &domain.User{}
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName,
		&user.GlobalRole, &user.IsActive, &user.LastLoginAt,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.log.Error("Failed to get user by email", "error", err, "email", email)
		return nil, err
	}

	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $2, display_name = $3, is_active = $4, last_login_at = $5, updated_at = $6
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.DisplayName, user.IsActive, user.LastLoginAt, time.Now(),
	).Scan(&user.UpdatedAt)

	if err != nil {
		r.log.Error("Failed to update user", "error", err)
		return err
	}

	return nil
}

func (r *userRepository) CreateSession(ctx context.Context, session *domain.UserSession) error {
	query := `
		INSERT INTO user_sessions (id, user_id, refresh_token_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		session.ID, session.UserID, session.RefreshTokenHash,
		session.CreatedAt, session.ExpiresAt,
	)

	if err != nil {
		r.log.Error("Failed to create session", "error", err)
		return err
	}

	return nil
}

func (r *userRepository) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.UserSession, error) {
	query := `
		SELECT id, user_id, refresh_token_hash, created_at, expires_at, revoked_at, revoked_reason
		FROM user_sessions
		WHERE refresh_token_hash = $1 AND revoked_at IS NULL AND expires_at > NOW()
	`

	session := &domain.UserSession{}
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&session.ID, &session.UserID, &session.RefreshTokenHash,
		&session.CreatedAt, &session.ExpiresAt, &session.RevokedAt, &session.RevokedReason,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.log.Error("Failed to get session", "error", err)
		return nil, err
	}

	return session, nil
}

func (r *userRepository) RevokeSession(ctx context.Context, sessionID uuid.UUID, reason string) error {
	query := `
		UPDATE user_sessions
		SET revoked_at = NOW(), revoked_reason = $2
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, sessionID, reason)
	if err != nil {
		r.log.Error("Failed to revoke session", "error", err)
		return err
	}

	return nil
}
