package response

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{"reuses client id", "abc-123", true},
		{"generates when missing", "", false},
		{"rejects spaces", "abc 123", false},
		{"rejects oversized", strings.Repeat("x", 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(RequestIDMiddleware())
			r.GET("/", func(c *gin.Context) { Success(c, http.StatusOK, RequestID(c)) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("X-Request-ID", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get("X-Request-ID")
			if got == "" {
				t.Fatal("missing X-Request-ID header")
			}
			if tt.wantSame && got != tt.header {
				t.Errorf("id = %q, want %q", got, tt.header)
			}
			if !tt.wantSame && got == tt.header {
				t.Errorf("id %q should have been replaced", got)
			}
		})
	}
}
