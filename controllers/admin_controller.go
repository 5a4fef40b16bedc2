package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SpicyTech2823/Car-rental/applications/admin"
	"github.com/SpicyTech2823/Car-rental/applications/auth"

	"github.com/labstack/echo/v4"
)

type AdminController struct {
	log       *slog.Logger
	dashboard *admin.DashboardUC
	route     *admin.ResolveAdminRouteUC
}

func NewAdminController(log *slog.Logger, dashboard *admin.DashboardUC, route *admin.ResolveAdminRouteUC) *AdminController {
	return &AdminController{log: log, dashboard: dashboard, route: route}
}

// Redirect handles GET /api/v1/admin and names the page to show.
func (h *AdminController) Redirect(c echo.Context) error {
	target := h.route.Invoke(c.Request().Context(), auth.BearerToken(c))
	return c.JSON(http.StatusOK, map[string]string{"redirect": target})
}

func (h *AdminController) Dashboard(c echo.Context) error {
	dash, d, err := h.dashboard.Invoke(c.Request().Context(), auth.BearerToken(c))
	if errors.Is(err, admin.ErrNotAuthorized) {
		status := http.StatusForbidden
		if d.Redirect == admin.RouteLogin {
			status = http.StatusUnauthorized
		}
		return c.JSON(status, ErrorResponse{Error: "Access Forbidden: Admin privileges required", Redirect: d.Redirect})
	}
	if err != nil {
		return respondError(c, err, "Failed to load dashboard")
	}
	return c.JSON(http.StatusOK, dash)
}
