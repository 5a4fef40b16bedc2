package feedback

import (
	"context"
	"fmt"
	"log/slog"
)

type DeleteFeedbackUC struct {
	log  *slog.Logger
	repo Repository
}

func NewDeleteFeedbackUC(log *slog.Logger, repo Repository) *DeleteFeedbackUC {
	return &DeleteFeedbackUC{log: log, repo: repo}
}

func (uc *DeleteFeedbackUC) Invoke(ctx context.Context, feedbackID string) error {
	id, err := ParseID(feedbackID)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.log.Warn(fmt.Sprintf("[delete-feedback-uc] Deletion failed for %s: %v", id, err))
		return err
	}
	uc.log.Info(fmt.Sprintf("[delete-feedback-uc] Feedback %s deleted.", id))
	return nil
}
