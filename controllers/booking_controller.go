package controllers

import (
	"log/slog"
	"net/http"

	"github.com/SpicyTech2823/Car-rental/applications/booking"

	"github.com/labstack/echo/v4"
)

// BookingController serves the admin bookings panel. Customers create
// bookings only through the wizard.
type BookingController struct {
	log     *slog.Logger
	list    *booking.GetAllBookingsAdminUC
	setPaid *booking.UpdateBookingPaidUC
	delete  *booking.DeleteBookingUC
}

func NewBookingController(log *slog.Logger, repo booking.Repository) *BookingController {
	return &BookingController{
		log:     log,
		list:    booking.NewGetAllBookingsAdminUC(log, repo),
		setPaid: booking.NewUpdateBookingPaidUC(log, repo),
		delete:  booking.NewDeleteBookingUC(log, repo),
	}
}

func (h *BookingController) List(c echo.Context) error {
	return h.respondBookings(c)
}

// SetPaid handles PATCH /api/v1/admin/bookings/:bookingID/paid.
func (h *BookingController) SetPaid(c echo.Context) error {
	payload, err := readBody(c)
	if err != nil {
		return badPayload(c, err)
	}
	if err := h.setPaid.Invoke(c.Request().Context(), c.Param("bookingID"), payload); err != nil {
		return respondError(c, err, "Failed to update booking")
	}
	return h.respondBookings(c)
}

func (h *BookingController) Delete(c echo.Context) error {
	if !requireConfirm(c) {
		return confirmationRequired(c)
	}
	if err := h.delete.Invoke(c.Request().Context(), c.Param("bookingID")); err != nil {
		return respondError(c, err, "Failed to delete booking")
	}
	return h.respondBookings(c)
}

func (h *BookingController) respondBookings(c echo.Context) error {
	bookings, err := h.list.Invoke(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to retrieve bookings")
	}
	return c.JSON(http.StatusOK, bookings)
}
