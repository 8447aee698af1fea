package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fredmak/hostel-manager/internal/repository"
	"github.com/fredmak/hostel-manager/internal/utils"
)

// AuthHandler serves the manager login and the current-user lookup. There is
// no self-service registration; manager accounts come from setup seeding.
type AuthHandler struct {
	UserRepo     *repository.UserRepo
	JWTSecret    string
	AccessTTLMin int
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(userRepo *repository.UserRepo, secret string, ttlMin int) *AuthHandler {
	if userRepo == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{UserRepo: userRepo, JWTSecret: secret, AccessTTLMin: ttlMin}
}

// Login handles POST /v1/auth/login. Invalid email and invalid password
// produce the same response so the endpoint does not confirm which accounts
// exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "email and password are required"})
	}

	user, err := h.UserRepo.GetByEmail(c.Request().Context(), email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if !utils.VerifyPassword(user.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	tok, err := utils.NewAccessToken(h.JWTSecret, user.ID, user.Role, h.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "token signing failed"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"access_token": tok.Token,
		"expires_at":   tok.Exp,
		"user":         user,
	})
}

// Me handles GET /v1/admin/me and returns the authenticated manager.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	user, err := h.UserRepo.GetByID(c.Request().Context(), uid)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, user)
}
