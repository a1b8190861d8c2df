package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/config"
	"github.com/khedma/sunday-school-backend/internal/handler"
	"github.com/khedma/sunday-school-backend/internal/middleware"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/service"
	"github.com/rs/zerolog"
)

type tokenAuth map[string]model.Role

func (a tokenAuth) Authenticate(_ context.Context, token string) (*service.Claims, error) {
	role, ok := a[token]
	if !ok {
		return nil, service.ErrTokenInvalid
	}
	return &service.Claims{UserID: uuid.New(), Role: role}, nil
}

// newRouter wires the real route table. Handlers are never reached by
// requests the middleware refuses, so only System is populated.
func newRouter(limit int) *gin.Engine {
	auth := tokenAuth{
		"servant": model.RoleServant,
		"gate":    model.RoleGateAdmin,
		"admin":   model.RoleAdmin,
		"super":   model.RoleSuperAdmin,
	}
	handlers := &Handlers{
		Auth:   &handler.AuthHandler{},
		System: handler.NewSystemHandler(nil, zerolog.Nop()),
	}
	cfg := &config.Config{GinMode: gin.TestMode}
	return SetupRouter(auth, handlers, middleware.NewRateLimiter(limit, time.Minute), cfg, zerolog.Nop())
}

func TestRouteGuards(t *testing.T) {
	r := newRouter(30)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"students need a token", http.MethodGet, "/api/v1/students", "", http.StatusUnauthorized},
		{"unknown token", http.MethodGet, "/api/v1/students", "nope", http.StatusUnauthorized},
		{"servant cannot read logs", http.MethodGet, "/api/v1/logs", "servant", http.StatusForbidden},
		{"admin cannot read logs", http.MethodGet, "/api/v1/logs", "admin", http.StatusForbidden},
		{"admin cannot manage users", http.MethodPost, "/api/v1/users", "admin", http.StatusForbidden},
		{"admin cannot edit reasons", http.MethodPost, "/api/v1/reasons", "admin", http.StatusForbidden},
		{"servant cannot change session", http.MethodPut, "/api/v1/attendance/today/status", "servant", http.StatusForbidden},
		{"gate admin cannot export", http.MethodGet, "/api/v1/reports/balances.xlsx", "gate", http.StatusForbidden},
		{"servant cannot edit rewards", http.MethodPost, "/api/v1/rewards", "servant", http.StatusForbidden},
		{"feed needs a token", http.MethodGet, "/ws/v1/attendance/feed", "", http.StatusUnauthorized},
		{"me needs a token", http.MethodGet, "/api/v1/auth/me", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestAPIResponsesAreNotCached(t *testing.T) {
	r := newRouter(30)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil)
	req.Header.Set("Authorization", "Bearer servant")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestLoginRateLimited(t *testing.T) {
	r := newRouter(2)

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes[i] = w.Code
	}

	// Empty bodies fail validation until the bucket runs dry.
	want := []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("attempt %d: status = %d, want %d", i+1, codes[i], want[i])
		}
	}
}
