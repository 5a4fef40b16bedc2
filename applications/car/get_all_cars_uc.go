package car

import (
	"context"
	"fmt"
	"log/slog"
)

type GetAllCarsUC struct {
	log  *slog.Logger
	repo Repository
}

func NewGetAllCarsUC(log *slog.Logger, repo Repository) *GetAllCarsUC {
	return &GetAllCarsUC{log: log, repo: repo}
}

// Invoke returns the catalog narrowed to category. An empty category means
// "All cars".
func (uc *GetAllCarsUC) Invoke(ctx context.Context, category string) ([]*Car, error) {
	if category == "" {
		category = CategoryAll
	}
	if !IsCategory(category) {
		uc.log.Warn(fmt.Sprintf("[get-all-cars-uc] Rejected unknown category %q.", category))
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	cars, err := uc.repo.List(ctx)
	if err != nil {
		uc.log.Error(fmt.Sprintf("[get-all-cars-uc] Failed to list cars: %v", err))
		return nil, err
	}

	filtered := FilterByCategory(cars, category)
	uc.log.Info(fmt.Sprintf("[get-all-cars-uc] Returning %d of %d cars for category %q.", len(filtered), len(cars), category))
	return filtered, nil
}
