package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/truongnx/gearstore/internal/hash"
	"github.com/truongnx/gearstore/internal/logging"
	"github.com/truongnx/gearstore/internal/models"
	"github.com/truongnx/gearstore/internal/mykafka"
	"github.com/truongnx/gearstore/internal/service"
)

const accessTokenTTL = 24 * time.Hour

type AuthHTTP struct {
	DB        *gorm.DB
	JWTSecret []byte
	Carts     *service.CartService
	Events    *mykafka.Producer
}

func (h *AuthHTTP) publishUserEvent(c echo.Context, event map[string]any, key string) {
	if h.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Events.PublishEvent(ctx, "user_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "topic", "user_events", "error", err)
	}
}

func createCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || len(req.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "username and a password of at least 8 characters are required")
	}

	var existing models.User
	err := h.DB.WithContext(ctx).Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return httpError(err)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return httpError(err)
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: pwHash,
		Role:         "user",
	}
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return httpError(err)
	}

	h.publishUserEvent(c, map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	}, fmt.Sprint(user.ID))

	l.Info("register_success", "user_id", user.ID, "username", user.Username)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.WithContext(ctx).Where("username = ?", req.Username).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	exp := time.Now().Add(accessTokenTTL)
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.JWTSecret)
	if err != nil {
		return httpError(err)
	}
	c.SetCookie(createCookie(accessCookie, token, "/", exp))

	// A guest who logs in keeps everything they put in their cart.
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if _, err := h.Carts.MergeCarts(ctx, user.ID, cookie.Value); err != nil && !errors.Is(err, models.ErrNotFound) {
			l.Error("cart_merge_error", "user_id", user.ID, "error", err)
		}
		c.SetCookie(createCookie(sessionCookie, "", "/", time.Now().Add(-time.Hour)))
	}

	h.publishUserEvent(c, map[string]any{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	}, fmt.Sprint(user.ID))

	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"is_admin":     user.Role == "admin",
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	expired := time.Now().Add(-time.Hour)
	c.SetCookie(createCookie(accessCookie, "", "/", expired))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
