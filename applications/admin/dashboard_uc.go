package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SpicyTech2823/Car-rental/applications/booking"
	"github.com/SpicyTech2823/Car-rental/applications/car"
	"github.com/SpicyTech2823/Car-rental/applications/feedback"
)

var ErrNotAuthorized = errors.New("not authorized")

type CarLister interface {
	List(ctx context.Context) ([]*car.Car, error)
}

type BookingLister interface {
	List(ctx context.Context) ([]*booking.Booking, error)
}

type FeedbackLister interface {
	List(ctx context.Context) ([]*feedback.Feedback, error)
}

type Dashboard struct {
	Cars     []*car.Car           `json:"cars"`
	Bookings []*booking.Booking   `json:"bookings"`
	Feedback []*feedback.Feedback `json:"feedback"`
}

type DashboardUC struct {
	log      *slog.Logger
	gate     *Gate
	cars     CarLister
	bookings BookingLister
	feedback FeedbackLister
}

func NewDashboardUC(log *slog.Logger, gate *Gate, cars CarLister, bookings BookingLister, feedback FeedbackLister) *DashboardUC {
	return &DashboardUC{log: log, gate: gate, cars: cars, bookings: bookings, feedback: feedback}
}

// Invoke runs the gate and, only when it authorizes, loads cars, bookings
// and feedback in that order.
func (uc *DashboardUC) Invoke(ctx context.Context, accessToken string) (*Dashboard, Decision, error) {
	d := uc.gate.Check(ctx, accessToken)
	if !d.Allowed() {
		return nil, d, ErrNotAuthorized
	}

	cars, err := uc.cars.List(ctx)
	if err != nil {
		return nil, d, fmt.Errorf("failed to load cars: %w", err)
	}
	bookings, err := uc.bookings.List(ctx)
	if err != nil {
		return nil, d, fmt.Errorf("failed to load bookings: %w", err)
	}
	items, err := uc.feedback.List(ctx)
	if err != nil {
		return nil, d, fmt.Errorf("failed to load feedback: %w", err)
	}

	uc.log.Info(fmt.Sprintf("[admin-dashboard-uc] %s loaded %d cars, %d bookings, %d feedback.",
		d.Identity.Email, len(cars), len(bookings), len(items)))
	return &Dashboard{Cars: cars, Bookings: bookings, Feedback: items}, d, nil
}
