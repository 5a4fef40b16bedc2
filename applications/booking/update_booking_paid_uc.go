package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type UpdateBookingPaidParams struct {
	Paid *bool `json:"paid"`
}

type UpdateBookingPaidUC struct {
	log  *slog.Logger
	repo Repository
}

func NewUpdateBookingPaidUC(log *slog.Logger, repo Repository) *UpdateBookingPaidUC {
	return &UpdateBookingPaidUC{log: log, repo: repo}
}

// Invoke sets the paid flag. Only the admin panel can mark a booking unpaid.
func (uc *UpdateBookingPaidUC) Invoke(ctx context.Context, bookingID string, payload []byte) error {
	id, err := ParseID(bookingID)
	if err != nil {
		return err
	}

	var p UpdateBookingPaidParams
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("%w: failed to unmarshal payload: %v", ErrInvalidBooking, err)
	}
	if p.Paid == nil {
		return fmt.Errorf("%w: paid is required", ErrInvalidBooking)
	}

	if err := uc.repo.SetPaid(ctx, id, *p.Paid); err != nil {
		uc.log.Warn(fmt.Sprintf("[update-booking-paid-uc] Update failed for %s: %v", id, err))
		return err
	}

	uc.log.Info(fmt.Sprintf("[update-booking-paid-uc] Booking %s paid flag set to %t.", id, *p.Paid))
	return nil
}

// ParseID validates a booking id path parameter.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid booking ID format: %v", ErrInvalidBooking, err)
	}
	return id, nil
}
