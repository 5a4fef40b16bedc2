package controllers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SpicyTech2823/Car-rental/applications/auth"
	"github.com/SpicyTech2823/Car-rental/applications/booking"
	"github.com/SpicyTech2823/Car-rental/applications/wizard"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type WizardController struct {
	log   *slog.Logger
	store *wizard.Store
	now   func() time.Time
}

func NewWizardController(log *slog.Logger, store *wizard.Store) *WizardController {
	return &WizardController{log: log, store: store, now: time.Now}
}

type categoryParams struct {
	Category string `json:"category"`
}

type carParams struct {
	CarID int64 `json:"carId"`
}

type detailsParams struct {
	CustomerName *string `json:"customerName"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	PickupDate   *string `json:"pickupDate"`
	ReturnDate   *string `json:"returnDate"`
	Days         *int    `json:"days"`
}

// paymentParams accepts card fields so the form can post them as-is; they
// are never read.
type paymentParams struct {
	Method string          `json:"method"`
	Card   json.RawMessage `json:"card,omitempty"`
}

func (p detailsParams) empty() bool {
	return p.CustomerName == nil && p.Email == nil && p.Phone == nil &&
		p.PickupDate == nil && p.ReturnDate == nil && p.Days == nil
}

func (p detailsParams) event() (wizard.EditDetails, error) {
	ev := wizard.EditDetails{
		CustomerName: p.CustomerName,
		Email:        p.Email,
		Phone:        p.Phone,
		Days:         p.Days,
	}
	if p.PickupDate != nil {
		d, err := booking.ParseDate(*p.PickupDate)
		if err != nil {
			return ev, err
		}
		ev.PickupDate = &d
	}
	if p.ReturnDate != nil {
		d, err := booking.ParseDate(*p.ReturnDate)
		if err != nil {
			return ev, err
		}
		ev.ReturnDate = &d
	}
	return ev, nil
}

func loginRequired(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Please log in to book a car", Redirect: "/login"})
}

// session loads the caller's wizard named in the path.
func (h *WizardController) session(c echo.Context) (*auth.Identity, *wizard.Wizard, error) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return nil, nil, auth.ErrNoSession
	}
	wizardID, err := uuid.Parse(c.Param("wizardID"))
	if err != nil {
		return id, nil, fmt.Errorf("%w: %s", wizard.ErrWizardNotFound, c.Param("wizardID"))
	}
	w, err := h.store.Get(id.UserID, wizardID)
	return id, w, err
}

func (h *WizardController) dispatch(c echo.Context, ev wizard.Event) error {
	_, w, err := h.session(c)
	if err != nil {
		return h.sessionError(c, err)
	}
	view, err := w.Dispatch(c.Request().Context(), ev)
	if err != nil {
		return respondError(c, err, "Booking step failed")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *WizardController) sessionError(c echo.Context, err error) error {
	if _, ok := auth.IdentityFrom(c); !ok {
		return loginRequired(c)
	}
	return respondError(c, err, "Failed to load booking session")
}

// Start handles POST /api/v1/wizard.
func (h *WizardController) Start(c echo.Context) error {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return loginRequired(c)
	}
	w, err := h.store.Start(c.Request().Context(), id.UserID)
	if err != nil {
		return respondError(c, err, "Failed to start booking")
	}
	return c.JSON(http.StatusCreated, w.View())
}

func (h *WizardController) Get(c echo.Context) error {
	_, w, err := h.session(c)
	if err != nil {
		return h.sessionError(c, err)
	}
	return c.JSON(http.StatusOK, w.View())
}

func (h *WizardController) SelectCategory(c echo.Context) error {
	params := new(categoryParams)
	if err := c.Bind(params); err != nil {
		return badPayload(c, err)
	}
	return h.dispatch(c, wizard.SelectCategory{Category: params.Category})
}

func (h *WizardController) ChooseCar(c echo.Context) error {
	params := new(carParams)
	if err := c.Bind(params); err != nil {
		return badPayload(c, err)
	}
	_, w, err := h.session(c)
	if err != nil {
		return h.sessionError(c, err)
	}
	view, err := w.ChooseCar(c.Request().Context(), params.CarID)
	if err != nil {
		return respondError(c, err, "Failed to select car")
	}
	return c.JSON(http.StatusOK, view)
}

// EditDetails handles PATCH .../details with any subset of the form fields.
func (h *WizardController) EditDetails(c echo.Context) error {
	params := new(detailsParams)
	if err := c.Bind(params); err != nil {
		return badPayload(c, err)
	}
	ev, err := params.event()
	if err != nil {
		return respondError(c, err, "Invalid booking details")
	}
	return h.dispatch(c, ev)
}

// SubmitDetails handles POST .../details. Fields in the body are applied
// before the form is submitted.
func (h *WizardController) SubmitDetails(c echo.Context) error {
	params := new(detailsParams)
	if err := c.Bind(params); err != nil {
		return badPayload(c, err)
	}
	_, w, err := h.session(c)
	if err != nil {
		return h.sessionError(c, err)
	}

	ctx := c.Request().Context()
	if !params.empty() {
		ev, err := params.event()
		if err != nil {
			return respondError(c, err, "Invalid booking details")
		}
		if _, err := w.Dispatch(ctx, ev); err != nil {
			return respondError(c, err, "Invalid booking details")
		}
	}
	view, err := w.Dispatch(ctx, wizard.SubmitDetails{})
	if err != nil {
		return respondError(c, err, "Invalid booking details")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *WizardController) ChoosePayment(c echo.Context) error {
	params := new(paymentParams)
	if err := c.Bind(params); err != nil {
		return badPayload(c, err)
	}
	return h.dispatch(c, wizard.ChoosePayment{Method: params.Method})
}

// Confirm stores the booking. A failure leaves the session on the payment
// step so the customer can try again.
func (h *WizardController) Confirm(c echo.Context) error {
	id, w, err := h.session(c)
	if err != nil {
		return h.sessionError(c, err)
	}
	view, err := w.Dispatch(c.Request().Context(), wizard.ConfirmPayment{Now: h.now(), UserID: id.UserID})
	if err != nil {
		return respondError(c, err, "Booking failed. Please try again.")
	}
	return c.JSON(http.StatusCreated, view)
}

func (h *WizardController) Back(c echo.Context) error {
	return h.dispatch(c, wizard.Back{})
}

// InvoicePDF handles GET .../invoice.pdf for a completed session.
func (h *WizardController) InvoicePDF(c echo.Context) error {
	_, w, err := h.session(c)
	if err != nil {
		return h.sessionError(c, err)
	}
	inv, err := w.Invoice()
	if err != nil {
		return respondError(c, err, "Invoice not available")
	}
	pdf, err := booking.GenerateInvoicePDF(inv)
	if err != nil {
		return respondError(c, err, "Failed to generate invoice")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s.pdf"`, inv.InvoiceID))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
