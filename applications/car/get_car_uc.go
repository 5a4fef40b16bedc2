package car

import (
	"context"
	"fmt"
	"log/slog"
)

type GetCarUC struct {
	log  *slog.Logger
	repo Repository
}

func NewGetCarUC(log *slog.Logger, repo Repository) *GetCarUC {
	return &GetCarUC{log: log, repo: repo}
}

func (uc *GetCarUC) Invoke(ctx context.Context, carID string) (*Car, error) {
	id, err := ParseID(carID)
	if err != nil {
		return nil, err
	}

	c, err := uc.repo.Get(ctx, id)
	if err != nil {
		uc.log.Warn(fmt.Sprintf("[get-car-uc] Lookup failed for car %d: %v", id, err))
		return nil, err
	}
	return c, nil
}
