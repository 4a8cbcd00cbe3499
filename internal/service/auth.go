package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"solo_adventure/internal/config"
	"solo_adventure/internal/domain"
	"solo_adventure/internal/repository"
	apperrors "solo_adventure/pkg/errors"
	"solo_adventure/pkg/jwt"
	"solo_adventure/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, email, password, displayName string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*domain.User, error)
	Logout(ctx context.Context, refreshToken string) error
}

type LoginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
	log      logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig, log logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	password = strings.TrimSpace(password)

	if email == "" {
		return nil, errors.New("email is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	if displayName == "" {
		return nil, errors.New("display name is required")
	}
	if len(displayName) > 100 {
		return nil, errors.New("display name is too long (max 100 characters)")
	}
	if len(email) > 255 {
		return nil, errors.New("email is too long")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return nil, errors.New("invalid email format")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("Failed to hash password", "error", err)
		return nil, errors.New("failed to hash password")
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(passwordHash),
		DisplayName:  displayName,
		GlobalRole:   domain.GlobalRoleUser,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrUserAlreadyExists) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		s.log.Error("Failed to create user", "error", err, "email", email)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	if email == "" {
		return nil, errors.New("email is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	// Do not reveal whether the account exists.
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, errors.New("user account is disabled")
	}

	accessToken, err := jwt.GenerateAccessToken(user.ID, user.Email, user.GlobalRole, s.jwtCfg.AccessSecret, s.jwtCfg.AccessTTL)
	if err != nil {
		s.log.Error("Failed to generate access token", "error", err)
		return nil, errors.New("failed to generate access token")
	}

	refreshToken, err := jwt.GenerateRefreshToken(user.ID, s.jwtCfg.RefreshSecret, s.jwtCfg.RefreshTTL)
	if err != nil {
		s.log.Error("Failed to generate refresh token", "error", err)
		return nil, errors.New("failed to generate refresh token")
	}

	session := &domain.UserSession{
		ID:               uuid.New(),
		UserID:           user.ID,
		RefreshTokenHash: hashToken(refreshToken),
		CreatedAt:        time.Now(),
		ExpiresAt:        time.Now().Add(s.jwtCfg.RefreshTTL),
	}

	if err := s.userRepo.CreateSession(ctx, session); err != nil {
		s.log.Error("Failed to create session", "error", err)
		return nil, errors.New("failed to create session")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.log.Warn("Failed to update last login", "error", err)
	}

	user.PasswordHash = ""
	return &LoginResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.jwtCfg.RefreshSecret)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	session, err := s.userRepo.GetSessionByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, errors.New("session not found or expired")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	if !user.IsActive {
		return nil, errors.New("user account is disabled")
	}

	accessToken, err := jwt.GenerateAccessToken(user.ID, user.Email, user.GlobalRole, s.jwtCfg.AccessSecret, s.jwtCfg.AccessTTL)
	if err != nil {
		s.log.Error("Failed to generate access token", "error", err)
		return nil, errors.New("failed to generate access token")
	}

	newRefreshToken, err := jwt.GenerateRefreshToken(user.ID, s.jwtCfg.RefreshSecret, s.jwtCfg.RefreshTTL)
	if err != nil {
		s.log.Error("Failed to generate refresh token", "error", err)
		return nil, errors.New("failed to generate refresh token")
	}

	if err := s.userRepo.RevokeSession(ctx, session.ID, "refreshed"); err != nil {
		s.log.Warn("Failed to revoke old session", "error", err)
	}

	newSession := &domain.UserSession{
		ID:               uuid.New(),
		UserID:           user.ID,
		RefreshTokenHash: hashToken(newRefreshToken),
		CreatedAt:        time.Now(),
		ExpiresAt:        time.Now().Add(s.jwtCfg.RefreshTTL),
	}

	if err := s.userRepo.CreateSession(ctx, newSession); err != nil {
		s.log.Error("Failed to create new session", "error", err)
		return nil, errors.New("failed to create new session")
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := jwt.ValidateToken(tokenString, s.jwtCfg.AccessSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	if !user.IsActive {
		return nil, errors.New("user account is disabled")
	}

	return user, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.userRepo.GetSessionByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return errors.New("session not found")
	}

	return s.userRepo.RevokeSession(ctx, session.ID, "logout")
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
