package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SpicyTech2823/Car-rental/applications/contact"

	"github.com/labstack/echo/v4"
)

type ContactSubmitter interface {
	Submit(ctx context.Context, m contact.Message) error
}

type ContactController struct {
	log   *slog.Logger
	relay ContactSubmitter
}

func NewContactController(log *slog.Logger, relay ContactSubmitter) *ContactController {
	return &ContactController{log: log, relay: relay}
}

func (h *ContactController) Submit(c echo.Context) error {
	msg := new(contact.Message)
	if err := c.Bind(msg); err != nil {
		return badPayload(c, err)
	}
	if err := h.relay.Submit(c.Request().Context(), *msg); err != nil {
		return respondError(c, err, "Failed to send message")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
