package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SpicyTech2823/Car-rental/applications/admin"
	"github.com/SpicyTech2823/Car-rental/applications/auth"
	"github.com/SpicyTech2823/Car-rental/applications/booking"
	"github.com/SpicyTech2823/Car-rental/applications/car"
	"github.com/SpicyTech2823/Car-rental/applications/feedback"
	"github.com/SpicyTech2823/Car-rental/applications/wizard"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type server struct {
	e        *echo.Echo
	cars     *memCars
	bookings *memBookings
	feedback *memFeedback
	relay    *fakeRelay
	store    *wizard.Store
}

// newServer wires the full route table over in-memory fakes. Tokens
// "customer" and "admin" are live sessions; only "admin" is a member of
// the admins table.
func newServer(t *testing.T) *server {
	t.Helper()
	customer := &auth.Identity{UserID: uuid.New(), Email: "jane@example.com", SessionID: uuid.New()}
	adminID := &auth.Identity{UserID: uuid.New(), Email: "boss@example.com", SessionID: uuid.New()}
	sessions := &tokenSessions{sessions: map[string]*auth.Identity{"customer": customer, "admin": adminID}}
	gate := admin.NewGate(discard, sessions, adminSet{adminID.UserID: true})

	s := &server{
		e: echo.New(),
		cars: newMemCars(&car.Car{
			Name: "Family Van", Price: 100, Category: []string{car.CategoryAll, car.CategoryFamily},
		}),
		bookings: &memBookings{},
		feedback: &memFeedback{},
		relay:    &fakeRelay{},
	}
	s.store = wizard.NewStore(discard, s.cars, booking.NewCreateBookingUC(discard, s.bookings), nil, time.Hour)

	authSvc := &fakeAuth{
		sessions:  sessions,
		passwords: map[string]string{"jane@example.com": "secret"},
		tokens:    map[string]string{"jane@example.com": "customer"},
	}
	r := &Router{
		Sessions: sessions,
		Gate:     gate,
		Auth:     NewAuthController(discard, authSvc),
		Admin: NewAdminController(discard,
			admin.NewDashboardUC(discard, gate, s.cars, s.bookings, s.feedback),
			admin.NewResolveAdminRouteUC(discard, gate)),
		Cars:     NewCarController(discard, s.cars),
		Bookings: NewBookingController(discard, s.bookings),
		Feedback: NewFeedbackController(discard, s.feedback, s.cars),
		Wizard:   NewWizardController(discard, s.store),
		Contact:  NewContactController(discard, s.relay),
	}
	r.Register(s.e)
	return s
}

func (s *server) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestWizardOverHTTP(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/wizard", "customer", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view wizard.View
	decode(t, rec, &view)
	assert.Equal(t, wizard.StepSelectCar, view.Step)
	base := "/api/v1/wizard/" + view.ID.String()

	rec = s.do(t, http.MethodPut, base+"/category", "customer", `{"category":"Family"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &view)
	require.Len(t, view.Cars, 1)

	rec = s.do(t, http.MethodPost, base+"/car", "customer", fmt.Sprintf(`{"carId":%d}`, view.Cars[0].ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, base+"/details", "customer", `{"customerName":"Jane"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "incomplete form")

	rec = s.do(t, http.MethodPatch, base+"/details", "customer",
		`{"email":"jane@example.com","phone":"555","pickupDate":"2024-01-01","returnDate":"2024-01-04"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &view)
	assert.Equal(t, 3, view.Draft.Days)
	assert.Equal(t, 300.0, view.Total)

	rec = s.do(t, http.MethodPost, base+"/details", "customer", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &view)
	assert.Equal(t, wizard.StepPayment, view.Step)

	rec = s.do(t, http.MethodPut, base+"/payment", "customer", `{"method":"bank","card":{"number":"4242"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, base+"/invoice.pdf", "customer", "")
	assert.Equal(t, http.StatusConflict, rec.Code, "no invoice before payment")

	rec = s.do(t, http.MethodPost, base+"/confirm", "customer", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decode(t, rec, &view)
	assert.Equal(t, wizard.StepInvoice, view.Step)
	require.NotNil(t, view.Booking)
	assert.True(t, view.Booking.IsPaid)
	assert.Equal(t, 300.0, view.Booking.TotalPrice)
	assert.Equal(t, booking.PaymentBank, view.Booking.PaymentMethod)

	rec = s.do(t, http.MethodPost, base+"/back", "customer", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, base+"/invoice.pdf", "customer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	list, _ := s.bookings.List(context.Background())
	assert.Len(t, list, 1)
}

func TestWizardRequiresLogin(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodPost, "/api/v1/wizard", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body ErrorResponse
	decode(t, rec, &body)
	assert.Equal(t, "/login", body.Redirect)
}

func TestWizardIsPrivateToItsOwner(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodPost, "/api/v1/wizard", "customer", "")
	var view wizard.View
	decode(t, rec, &view)

	rec = s.do(t, http.MethodGet, "/api/v1/wizard/"+view.ID.String(), "admin", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/v1/wizard/not-a-uuid", "customer", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/admin", "admin", "")
	assert.JSONEq(t, `{"redirect":"/admin/dashboard"}`, rec.Body.String())
	rec = s.do(t, http.MethodGet, "/api/v1/admin", "", "")
	assert.JSONEq(t, `{"redirect":"/admin/login"}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/admin/cars", "admin",
		`{"name":"Limo","description":"long","price":"250","image":"limo.jpg","category":"All cars, Wedding","features":"Bar"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var cars []*car.Car
	decode(t, rec, &cars)
	assert.Len(t, cars, 2, "mutations answer with the whole catalog")

	path := fmt.Sprintf("/api/v1/admin/cars/%d", cars[1].ID)
	rec = s.do(t, http.MethodDelete, path, "admin", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "deletion needs confirmation")
	rec = s.do(t, http.MethodDelete, path+"?confirm=true", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &cars)
	assert.Len(t, cars, 1)

	rec = s.do(t, http.MethodGet, "/api/v1/admin/bookings", "customer", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body ErrorResponse
	decode(t, rec, &body)
	assert.Equal(t, admin.RouteNotAuthorized, body.Redirect)

	rec = s.do(t, http.MethodGet, "/api/v1/wizard/"+uuid.NewString(), "customer", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "forced sign-out ended the customer's session")
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("wrapped: %w", car.ErrCarNotFound): http.StatusNotFound,
		booking.ErrInvalidPaymentMethod:               http.StatusBadRequest,
		wizard.ErrInvalidTransition:                   http.StatusConflict,
		auth.ErrInvalidCredentials:                    http.StatusUnauthorized,
		auth.ErrOTPCooldown:                           http.StatusTooManyRequests,
		errors.New("boom"):                            http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusFor(err), err.Error())
	}

	failed := fmt.Errorf("%w: %w", wizard.ErrBookingFailed, booking.ErrInvalidBooking)
	assert.Equal(t, http.StatusBadRequest, StatusFor(failed), "writer cause decides the status")
}

func seedBookings(t *testing.T, s *server, n int) []*booking.Booking {
	t.Helper()
	out := make([]*booking.Booking, 0, n)
	for i := 0; i < n; i++ {
		b := &booking.Booking{
			ID: uuid.New(), Reference: fmt.Sprintf("1000000%d", i), CustomerName: "Jane",
			Days: 1, TotalPrice: 100, PaymentMethod: booking.PaymentCard, IsPaid: true,
		}
		require.NoError(t, s.bookings.Create(context.Background(), b))
		out = append(out, b)
	}
	return out
}

func TestAdminBookingsPanel(t *testing.T) {
	s := newServer(t)
	seeded := seedBookings(t, s, 2)
	target := "/api/v1/admin/bookings/" + seeded[0].ID.String()

	rec := s.do(t, http.MethodGet, "/api/v1/admin/bookings", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list []*booking.Booking
	decode(t, rec, &list)
	assert.Len(t, list, 2)

	rec = s.do(t, http.MethodPatch, target+"/paid", "admin", `{"paid":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &list)
	require.Len(t, list, 2, "toggle answers with every booking")
	for _, b := range list {
		assert.Equal(t, b.ID != seeded[0].ID, b.IsPaid, b.Reference)
	}

	rec = s.do(t, http.MethodDelete, target, "admin", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "deletion needs confirmation")
	stored, _ := s.bookings.List(context.Background())
	assert.Len(t, stored, 2)

	rec = s.do(t, http.MethodDelete, target+"?confirm=true", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, seeded[1].ID, list[0].ID)

	rec = s.do(t, http.MethodDelete, target+"?confirm=true", "admin", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeedbackOverHTTP(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/feedback", "", `{"rating":5,"comment":"Great"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var errBody ErrorResponse
	decode(t, rec, &errBody)
	assert.Equal(t, "/login", errBody.Redirect)

	rec = s.do(t, http.MethodPost, "/api/v1/feedback", "customer", `{"rating":6,"comment":"Great"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/feedback", "customer", `{"rating":5,"comment":"Great van","carId":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created feedback.Feedback
	decode(t, rec, &created)
	assert.Equal(t, "jane", created.UserName)
	assert.Equal(t, "Family Van", created.CarName)
	assert.False(t, created.IsFeatured)

	var public []*feedback.Feedback
	rec = s.do(t, http.MethodGet, "/api/v1/feedback", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &public)
	assert.Empty(t, public, "new feedback is not featured")

	target := "/api/v1/admin/feedback/" + created.ID.String()
	rec = s.do(t, http.MethodPatch, target+"/featured", "admin", `{"featured":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var all []*feedback.Feedback
	decode(t, rec, &all)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsFeatured)

	rec = s.do(t, http.MethodGet, "/api/v1/feedback", "", "")
	decode(t, rec, &public)
	assert.Len(t, public, 1)

	rec = s.do(t, http.MethodDelete, target, "admin", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "deletion needs confirmation")
	rec = s.do(t, http.MethodDelete, target+"?confirm=true", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &all)
	assert.Empty(t, all)
}

func TestDashboardOverHTTP(t *testing.T) {
	s := newServer(t)
	seedBookings(t, s, 1)

	rec := s.do(t, http.MethodGet, "/api/v1/admin/dashboard", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var dash admin.Dashboard
	decode(t, rec, &dash)
	assert.Len(t, dash.Cars, 1)
	assert.Len(t, dash.Bookings, 1)
	assert.Empty(t, dash.Feedback)

	var body ErrorResponse
	rec = s.do(t, http.MethodGet, "/api/v1/admin/dashboard", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	decode(t, rec, &body)
	assert.Equal(t, admin.RouteLogin, body.Redirect)

	rec = s.do(t, http.MethodGet, "/api/v1/admin/dashboard", "customer", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	decode(t, rec, &body)
	assert.Equal(t, admin.RouteNotAuthorized, body.Redirect)
}

func TestAuthRoutes(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/auth/login", "", `{"email":"Jane@Example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/login", "", `{"email":"Jane@Example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res auth.Result
	decode(t, rec, &res)
	assert.Equal(t, "jane@example.com", res.Identity.Email)

	rec = s.do(t, http.MethodGet, "/api/v1/session", res.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/password/reset", "", `{"accessToken":"t","password":"abcdef","confirmPassword":"abcdeg"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/logout", res.AccessToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/v1/session", res.AccessToken, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestContactAndHealth(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/contact", "", `{"name":"Jane","email":"jane@example.com","message":"Hi"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Len(t, s.relay.sent, 1)

	rec = s.do(t, http.MethodPost, "/contact", "", `{"name":"Jane"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/cars?category=Family", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cars []*car.Car
	decode(t, rec, &cars)
	assert.Len(t, cars, 1)
}
