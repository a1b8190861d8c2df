package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type payload struct {
	Name     string `json:"name" binding:"required,notblank,max=10"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1"`
}

func bind(t *testing.T, body string) map[string]any {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Setup()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var p payload
	return Bind(c, &p)
}

func TestBind(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"valid", `{"name":"Mina","quantity":2}`, ""},
		{"missing name", `{"quantity":2}`, "name"},
		{"blank name", `{"name":"   "}`, "name"},
		{"too long", `{"name":"abcdefghijkl"}`, "name"},
		{"zero quantity is omitted", `{"name":"Mina","quantity":0}`, ""},
		{"negative quantity", `{"name":"Mina","quantity":-1}`, "quantity"},
		{"malformed json", `{"name":`, "detail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := bind(t, tt.body)
			if tt.wantField == "" {
				if fields != nil {
					t.Fatalf("unexpected errors: %v", fields)
				}
				return
			}
			if _, ok := fields[tt.wantField]; !ok {
				t.Fatalf("want error on %q, got %v", tt.wantField, fields)
			}
		})
	}
}
