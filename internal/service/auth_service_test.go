package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/config"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type memRegistry struct {
	mu     sync.Mutex
	logins map[uuid.UUID]map[string]bool
}

func newMemRegistry() *memRegistry {
	return &memRegistry{logins: map[uuid.UUID]map[string]bool{}}
}

func (r *memRegistry) Register(_ context.Context, userID uuid.UUID, jti string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.logins[userID] == nil {
		r.logins[userID] = map[string]bool{}
	}
	r.logins[userID][jti] = true
	return nil
}

func (r *memRegistry) IsActive(_ context.Context, userID uuid.UUID, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logins[userID][jti], nil
}

func (r *memRegistry) Revoke(_ context.Context, userID uuid.UUID, jti string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.logins[userID], jti)
	return nil
}

func (r *memRegistry) RevokeAll(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.logins, userID)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func newAuthFixture(t *testing.T) (*fixture, *AuthService, *memRegistry) {
	t.Helper()
	f := newFixture(t)
	reg := newMemRegistry()
	auth := NewAuthService(testConfig(), f.store, reg, zerolog.Nop())

	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	for _, id := range []uuid.UUID{f.super.UserID, f.admin.UserID, f.gate.UserID, f.servant.UserID} {
		if err := f.store.UpdateUserPassword(context.Background(), id, hash); err != nil {
			t.Fatalf("set password: %v", err)
		}
	}
	return f, auth, reg
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f, auth, _ := newAuthFixture(t)

	res, err := auth.Login(ctx, model.LoginRequest{Username: "SERVANT", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := auth.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if claims.Actor() != f.servant {
		t.Errorf("actor = %+v, want %+v", claims.Actor(), f.servant)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"wrong password", "servant", "nope", ErrInvalidCredentials},
		{"unknown user", "ghost", "secret123", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Login(ctx, model.LoginRequest{Username: tt.username, Password: tt.password})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	ctx := context.Background()
	f, auth, _ := newAuthFixture(t)
	u, _ := f.store.GetUser(ctx, f.gate.UserID)
	u.IsActive = false
	_ = f.store.UpdateUser(ctx, u)

	if _, err := auth.Login(ctx, model.LoginRequest{Username: "gate", Password: "secret123"}); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("err = %v, want ErrAccountDisabled", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	_, auth, _ := newAuthFixture(t)

	res, err := auth.Login(ctx, model.LoginRequest{Username: "admin", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := auth.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if err := auth.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := auth.Authenticate(ctx, res.Token); !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("err = %v, want ErrSessionRevoked", err)
	}
}

func TestValidateToken(t *testing.T) {
	ctx := context.Background()
	f, auth, _ := newAuthFixture(t)
	user, _ := f.store.GetUser(ctx, f.admin.UserID)

	issued := time.Date(2024, time.January, 6, 10, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return issued }
	token, err := auth.IssueToken(ctx, user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	auth.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := auth.ValidateToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired: err = %v, want ErrTokenExpired", err)
	}

	auth.now = func() time.Time { return issued.Add(time.Minute) }
	if _, err := auth.ValidateToken(token + "x"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("tampered: err = %v, want ErrTokenInvalid", err)
	}

	other := NewAuthService(&config.Config{JWTSecret: "other", JWTExpiry: time.Hour}, f.store, newMemRegistry(), zerolog.Nop())
	other.now = auth.now
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("wrong key: err = %v, want ErrTokenInvalid", err)
	}
}
