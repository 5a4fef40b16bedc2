package booking

import (
	"context"
	"fmt"
	"log/slog"
)

type GetAllBookingsAdminUC struct {
	log  *slog.Logger
	repo Repository
}

func NewGetAllBookingsAdminUC(log *slog.Logger, repo Repository) *GetAllBookingsAdminUC {
	return &GetAllBookingsAdminUC{log: log, repo: repo}
}

// Invoke lists every booking, newest first.
func (uc *GetAllBookingsAdminUC) Invoke(ctx context.Context) ([]*Booking, error) {
	bookings, err := uc.repo.List(ctx)
	if err != nil {
		uc.log.Error(fmt.Sprintf("[get-all-bookings-admin-uc] Database query failed: %v", err))
		return nil, err
	}
	uc.log.Info(fmt.Sprintf("[get-all-bookings-admin-uc] Successfully retrieved %d bookings.", len(bookings)))
	return bookings, nil
}
