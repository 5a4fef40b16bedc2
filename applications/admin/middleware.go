package admin

import (
	"fmt"
	"net/http"

	"github.com/SpicyTech2823/Car-rental/applications/auth"
	"github.com/SpicyTech2823/Car-rental/logger"

	"github.com/labstack/echo/v4"
)

// GateMiddleware runs the gate on every request. Rejected callers get the
// route they should be sent to.
func GateMiddleware(g *Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := g.Check(c.Request().Context(), auth.BearerToken(c))
			if !d.Allowed() {
				status := http.StatusForbidden
				if d.Redirect == RouteLogin {
					status = http.StatusUnauthorized
				}
				logger.Log.Warn(fmt.Sprintf("[admin] Access to %s refused, redirect %s.", c.Path(), d.Redirect))
				return c.JSON(status, map[string]string{"error": "Access Forbidden: Admin privileges required", "redirect": d.Redirect})
			}

			auth.SetIdentity(c, d.Identity)
			return next(c)
		}
	}
}
