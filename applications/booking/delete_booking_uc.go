package booking

import (
	"context"
	"fmt"
	"log/slog"
)

type DeleteBookingUC struct {
	log  *slog.Logger
	repo Repository
}

func NewDeleteBookingUC(log *slog.Logger, repo Repository) *DeleteBookingUC {
	return &DeleteBookingUC{log: log, repo: repo}
}

func (uc *DeleteBookingUC) Invoke(ctx context.Context, bookingID string) error {
	uc.log.Info(fmt.Sprintf("[delete-booking-uc] Deletion initiated for booking %s", bookingID))

	id, err := ParseID(bookingID)
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.log.Warn(fmt.Sprintf("[delete-booking-uc] Deletion failed for %s: %v", id, err))
		return err
	}

	uc.log.Info(fmt.Sprintf("[delete-booking-uc] Booking %s deleted.", id))
	return nil
}
