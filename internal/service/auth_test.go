package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"solo_adventure/internal/config"
	"solo_adventure/internal/domain"
	apperrors "solo_adventure/pkg/errors"
)

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*domain.User
	sessions map[string]*domain.UserSession
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[uuid.UUID]*domain.User),
		sessions: make(map[string]*domain.UserSession),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return apperrors.ErrUserAlreadyExists
		}
	}
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return apperrors.ErrNotFound
	}
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *fakeUserRepo) CreateSession(ctx context.Context, s *domain.UserSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *s
	r.sessions[s.RefreshTokenHash] = &stored
	return nil
}

func (r *fakeUserRepo) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.UserSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[tokenHash]
	if !ok || s.RevokedAt != nil || s.ExpiresAt.Before(time.Now()) {
		return nil, apperrors.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeUserRepo) RevokeSession(ctx context.Context, sessionID uuid.UUID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ID == sessionID {
			now := time.Now()
			s.RevokedAt = &now
			s.RevokedReason = &reason
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		Issuer:        "test",
	}
}

func newAuthService() (AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewAuthService(repo, testJWTConfig(), noopLogger{}), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Player@Example.com", "password123", "Player One")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "player@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked in response")
	}

	resp, err := svc.Login(ctx, "player@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("login response missing tokens")
	}

	validated, err := svc.ValidateToken(ctx, resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if validated.ID != user.ID {
		t.Errorf("validated user = %s, want %s", validated.ID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@b.com", "password123", "First"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(ctx, "a@b.com", "password123", "Second")
	if !errors.Is(err, apperrors.ErrUserAlreadyExists) {
		t.Errorf("duplicate Register = %v, want ErrUserAlreadyExists", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		display  string
	}{
		{"empty email", "", "password123", "Name"},
		{"short password", "a@b.com", "short", "Name"},
		{"empty display name", "a@b.com", "password123", ""},
		{"bad email", "not-an-email", "password123", "Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.email, tt.password, tt.display); err == nil {
				t.Error("Register succeeded, want error")
			}
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@b.com", "password123", "Name"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(ctx, "a@b.com", "wrong-password")
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Login = %v, want ErrInvalidCredentials", err)
	}

	_, err = svc.Login(ctx, "nobody@b.com", "password123")
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Login unknown user = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@b.com", "password123", "Name"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	login, err := svc.Login(ctx, "a@b.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	refreshed, err := svc.RefreshToken(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Error("refresh response missing tokens")
	}

	// The old refresh token is revoked after rotation.
	if _, err := svc.RefreshToken(ctx, login.RefreshToken); err == nil {
		t.Error("old refresh token still accepted after rotation")
	}

	// The new one works.
	if _, err := svc.RefreshToken(ctx, refreshed.RefreshToken); err != nil {
		t.Errorf("new refresh token rejected: %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@b.com", "password123", "Name"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	login, err := svc.Login(ctx, "a@b.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(ctx, login.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.RefreshToken(ctx, login.RefreshToken); err == nil {
		t.Error("refresh token still accepted after logout")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthService()

	if _, err := svc.ValidateToken(context.Background(), "not.a.token"); err == nil {
		t.Error("ValidateToken accepted garbage")
	}
}
