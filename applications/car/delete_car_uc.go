package car

import (
	"context"
	"fmt"
	"log/slog"
)

type DeleteCarUC struct {
	log  *slog.Logger
	repo Repository
}

func NewDeleteCarUC(log *slog.Logger, repo Repository) *DeleteCarUC {
	return &DeleteCarUC{log: log, repo: repo}
}

func (uc *DeleteCarUC) Invoke(ctx context.Context, carID string) error {
	uc.log.Info(fmt.Sprintf("[delete-car-uc] Deletion initiated for car %s", carID))

	id, err := ParseID(carID)
	if err != nil {
		uc.log.Warn(fmt.Sprintf("[delete-car-uc] Deletion failed for %s: invalid ID.", carID))
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.log.Warn(fmt.Sprintf("[delete-car-uc] Deletion failed for car %d: %v", id, err))
		return err
	}

	uc.log.Info(fmt.Sprintf("[delete-car-uc] Car %d deleted successfully.", id))
	return nil
}
