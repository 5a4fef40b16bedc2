package car

import (
	"context"
	"fmt"
	"log/slog"
)

type UpdateCarUC struct {
	log  *slog.Logger
	repo Repository
}

func NewUpdateCarUC(log *slog.Logger, repo Repository) *UpdateCarUC {
	return &UpdateCarUC{log: log, repo: repo}
}

// Invoke replaces every editable field of the car, the way the admin edit
// form resubmits the whole record.
func (uc *UpdateCarUC) Invoke(ctx context.Context, carID string, payload []byte) (*Car, error) {
	uc.log.Info(fmt.Sprintf("[update-car-uc] Starting update for car %s", carID))

	id, err := ParseID(carID)
	if err != nil {
		return nil, err
	}

	p, err := parseParams(payload)
	if err != nil {
		uc.log.Warn(fmt.Sprintf("[update-car-uc] Rejected payload for car %d: %v", id, err))
		return nil, err
	}

	c := &Car{ID: id}
	p.apply(c)

	if err := uc.repo.Update(ctx, c); err != nil {
		uc.log.Error(fmt.Sprintf("[update-car-uc] Update failed for car %d: %v", id, err))
		return nil, err
	}

	uc.log.Info(fmt.Sprintf("[update-car-uc] Car %d updated successfully.", id))
	return c, nil
}
