package car

import (
	"context"
	"fmt"
	"log/slog"
)

type CreateCarUC struct {
	log  *slog.Logger
	repo Repository
}

func NewCreateCarUC(log *slog.Logger, repo Repository) *CreateCarUC {
	return &CreateCarUC{log: log, repo: repo}
}

func (uc *CreateCarUC) Invoke(ctx context.Context, payload []byte) (*Car, error) {
	uc.log.Info("[create-car-uc] Starting car creation process.")

	p, err := parseParams(payload)
	if err != nil {
		uc.log.Warn(fmt.Sprintf("[create-car-uc] Rejected payload: %v", err))
		return nil, err
	}

	c := &Car{}
	p.apply(c)

	if err := uc.repo.Create(ctx, c); err != nil {
		uc.log.Error(fmt.Sprintf("[create-car-uc] Failed to insert car %q: %v", c.Name, err))
		return nil, fmt.Errorf("failed to insert car into database: %w", err)
	}

	uc.log.Info(fmt.Sprintf("[create-car-uc] Car %d (%s) created at %.2f per day.", c.ID, c.Name, c.Price))
	return c, nil
}
