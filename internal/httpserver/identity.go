package httpserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/truongnx/gearstore/internal/service"
)

const (
	sessionCookie = "gs_session"
	accessCookie  = "accessToken"
)

func userIDFromContext(c echo.Context) *uint {
	if v, ok := c.Get("userID").(uint); ok {
		return &v
	}
	return nil
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}

// identityFrom resolves the cart owner: the signed-in user when there is
// one, otherwise the guest session cookie. With mint set, a missing guest
// session is created on the spot so first-touch cart writes work.
func identityFrom(c echo.Context, mint bool) (service.Identity, error) {
	if userID := userIDFromContext(c); userID != nil {
		return service.Identity{UserID: userID}, nil
	}

	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		sid := cookie.Value
		return service.Identity{SessionID: &sid}, nil
	}

	if !mint {
		return service.Identity{}, echo.NewHTTPError(http.StatusBadRequest, "no cart session")
	}

	sid := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return service.Identity{SessionID: &sid}, nil
}
