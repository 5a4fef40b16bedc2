package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/SpicyTech2823/Car-rental/logger"

	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// SessionReader is the part of Service the middleware needs.
type SessionReader interface {
	GetSession(ctx context.Context, accessToken string) (*Identity, error)
}

// BearerToken reads the access token from the Authorization header, falling
// back to ?token= for links opened from email.
func BearerToken(c echo.Context) string {
	if h := c.Request().Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.QueryParam("token")
}

// JWTAuthMiddleware rejects requests without a live session and sends the
// client to the sign-in page.
func JWTAuthMiddleware(sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c)
			if token == "" {
				logger.Log.Warn("[auth] JWT check failed: No token in header or query.")
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization token missing", "redirect": "/login"})
			}

			id, err := sessions.GetSession(c.Request().Context(), token)
			if err != nil {
				logger.Log.Warn(fmt.Sprintf("[auth] Invalid or expired session: %v", err))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token", "redirect": "/login"})
			}

			SetIdentity(c, id)
			return next(c)
		}
	}
}

func SetIdentity(c echo.Context, id *Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the caller stored by JWTAuthMiddleware.
func IdentityFrom(c echo.Context) (*Identity, bool) {
	id, ok := c.Get(identityKey).(*Identity)
	return id, ok && id != nil
}
