package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/response"
	"github.com/khedma/sunday-school-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"

	// AuthCookie carries the token for browser clients.
	AuthCookie = "token"
)

// Authenticator resolves a bearer token to live claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Claims, error)
}

// RequireAuth rejects requests without a valid, unrevoked token. The token
// is read from the Authorization header, then the auth cookie, then the
// ?token= query parameter, which WebSocket upgrades rely on.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			if service.KindOf(err) == service.KindUnauthenticated {
				response.AbortFail(c, http.StatusUnauthorized, service.CodeOf(err))
				return
			}
			_ = c.Error(err)
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetActor returns the authenticated actor. It must only be called behind
// RequireAuth.
func GetActor(c *gin.Context) model.Actor {
	if claims := GetClaims(c); claims != nil {
		return claims.Actor()
	}
	return model.Actor{}
}

func extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}
