package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/SpicyTech2823/Car-rental/applications/admin"
	"github.com/SpicyTech2823/Car-rental/applications/auth"
	"github.com/SpicyTech2823/Car-rental/applications/booking"
	"github.com/SpicyTech2823/Car-rental/applications/car"
	"github.com/SpicyTech2823/Car-rental/applications/contact"
	"github.com/SpicyTech2823/Car-rental/applications/feedback"
	"github.com/SpicyTech2823/Car-rental/applications/user"
	"github.com/SpicyTech2823/Car-rental/applications/wizard"
	"github.com/SpicyTech2823/Car-rental/logger"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request. Redirect names the
// client route to go to, when there is one.
type ErrorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

var statusByError = []struct {
	err    error
	status int
}{
	{car.ErrCarNotFound, http.StatusNotFound},
	{booking.ErrBookingNotFound, http.StatusNotFound},
	{feedback.ErrFeedbackNotFound, http.StatusNotFound},
	{wizard.ErrWizardNotFound, http.StatusNotFound},
	{user.ErrUserNotFound, http.StatusNotFound},

	{car.ErrInvalidCar, http.StatusBadRequest},
	{car.ErrInvalidCategory, http.StatusBadRequest},
	{booking.ErrInvalidBooking, http.StatusBadRequest},
	{booking.ErrInvalidPaymentMethod, http.StatusBadRequest},
	{feedback.ErrInvalidFeedback, http.StatusBadRequest},
	{contact.ErrInvalidMessage, http.StatusBadRequest},
	{wizard.ErrIncompleteDetails, http.StatusBadRequest},
	{wizard.ErrUnknownCar, http.StatusBadRequest},
	{auth.ErrInvalidEmail, http.StatusBadRequest},
	{auth.ErrPasswordTooShort, http.StatusBadRequest},
	{auth.ErrPasswordMismatch, http.StatusBadRequest},
	{auth.ErrInvalidResetToken, http.StatusBadRequest},

	{wizard.ErrInvalidTransition, http.StatusConflict},
	{user.ErrEmailTaken, http.StatusConflict},

	{auth.ErrInvalidCredentials, http.StatusUnauthorized},
	{auth.ErrNoSession, http.StatusUnauthorized},
	{auth.ErrInvalidOTP, http.StatusUnauthorized},
	{auth.ErrOTPExpired, http.StatusUnauthorized},
	{admin.ErrNotAuthorized, http.StatusForbidden},

	{auth.ErrOTPCooldown, http.StatusTooManyRequests},
	{contact.ErrRelayRejected, http.StatusBadGateway},
}

// StatusFor maps a use-case error to an HTTP status.
func StatusFor(err error) int {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes it with the matching status. Internal
// errors are reported with the generic message only.
func respondError(c echo.Context, err error, msg string) error {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Log.Error(fmt.Sprintf("[http] %s %s: %s: %v", c.Request().Method, c.Path(), msg, err))
		return c.JSON(status, ErrorResponse{Error: msg})
	}
	logger.Log.Warn(fmt.Sprintf("[http] %s %s: %v", c.Request().Method, c.Path(), err))
	return c.JSON(status, ErrorResponse{Error: err.Error()})
}

func readBody(c echo.Context) ([]byte, error) {
	return io.ReadAll(c.Request().Body)
}

func badPayload(c echo.Context, err error) error {
	logger.Log.Warn(fmt.Sprintf("[http] Failed to read request body: %v", err))
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
}

// requireConfirm guards deletions; the client must pass ?confirm=true.
func requireConfirm(c echo.Context) bool {
	return c.QueryParam("confirm") == "true"
}

func confirmationRequired(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Deletion must be confirmed with ?confirm=true"})
}
