package feedback

import (
	"context"
	"fmt"
	"log/slog"
)

type GetAllFeedbackAdminUC struct {
	log  *slog.Logger
	repo Repository
}

func NewGetAllFeedbackAdminUC(log *slog.Logger, repo Repository) *GetAllFeedbackAdminUC {
	return &GetAllFeedbackAdminUC{log: log, repo: repo}
}

func (uc *GetAllFeedbackAdminUC) Invoke(ctx context.Context) ([]*Feedback, error) {
	items, err := uc.repo.List(ctx)
	if err != nil {
		uc.log.Error(fmt.Sprintf("[get-all-feedback-admin-uc] %v", err))
		return nil, err
	}
	uc.log.Info(fmt.Sprintf("[get-all-feedback-admin-uc] Retrieved %d feedback entries.", len(items)))
	return items, nil
}
