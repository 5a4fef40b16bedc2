package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateBookingUC struct {
	log  *slog.Logger
	repo Repository
	now  func() time.Time
}

func NewCreateBookingUC(log *slog.Logger, repo Repository) *CreateBookingUC {
	return &CreateBookingUC{log: log, repo: repo, now: time.Now}
}

// Invoke stores a checkout record. It runs exactly once per confirmed
// payment and has no dedupe key, so a resubmission stores a second row.
func (uc *CreateBookingUC) Invoke(ctx context.Context, b *Booking) (*Booking, error) {
	if err := validate(b); err != nil {
		uc.log.Warn(fmt.Sprintf("[create-booking-uc] Rejected booking for %s: %v", b.Email, err))
		return nil, err
	}

	stored := *b
	stored.ID = uuid.New()
	stored.CreatedAt = uc.now()

	uc.log.Info(fmt.Sprintf("[create-booking-uc] Inserting booking %s (ref %s), %d days, total %.2f via %s.",
		stored.ID, stored.Reference, stored.Days, stored.TotalPrice, stored.PaymentMethod))

	if err := uc.repo.Create(ctx, &stored); err != nil {
		uc.log.Error(fmt.Sprintf("[create-booking-uc] Failed to save booking ref %s: %v", stored.Reference, err))
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	return &stored, nil
}

func validate(b *Booking) error {
	switch {
	case b.CarID == nil:
		return fmt.Errorf("%w: a car must be selected", ErrInvalidBooking)
	case strings.TrimSpace(b.CustomerName) == "",
		strings.TrimSpace(b.Email) == "",
		strings.TrimSpace(b.Phone) == "":
		return fmt.Errorf("%w: customer name, email and phone are required", ErrInvalidBooking)
	case b.PickupDate.IsZero() || b.ReturnDate.IsZero():
		return fmt.Errorf("%w: pickup and return dates are required", ErrInvalidBooking)
	case b.Days < 1:
		return fmt.Errorf("%w: rental must last at least one day", ErrInvalidBooking)
	case !IsPaymentMethod(b.PaymentMethod):
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, b.PaymentMethod)
	}
	return nil
}
