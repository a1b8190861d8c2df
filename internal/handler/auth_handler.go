package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khedma/sunday-school-backend/internal/config"
	"github.com/khedma/sunday-school-backend/internal/middleware"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/response"
	"github.com/khedma/sunday-school-backend/internal/service"
)

// AuthHandler handles staff login and the current-user endpoints.
type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// Login godoc
// POST /api/v1/auth/login
// Verifies credentials and returns a token, also set as an HttpOnly cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		failWith(c, err)
		return
	}

	h.setCookie(c, res.Token, int(h.cfg.JWTExpiry.Seconds()))
	response.Success(c, http.StatusOK, gin.H{
		"token":        res.Token,
		"user":         res.User,
		"capabilities": model.Capabilities(res.User.Role),
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Revokes the current login and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		failWith(c, err)
		return
	}

	h.setCookie(c, "", -1)
	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the authenticated user and what their role may do.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":         user,
		"capabilities": model.Capabilities(user.Role),
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, value, maxAge, "/", "", h.cfg.CookieSecure, true)
}
