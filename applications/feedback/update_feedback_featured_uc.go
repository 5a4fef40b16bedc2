package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

type UpdateFeedbackFeaturedParams struct {
	Featured *bool `json:"featured"`
}

type UpdateFeedbackFeaturedUC struct {
	log  *slog.Logger
	repo Repository
}

func NewUpdateFeedbackFeaturedUC(log *slog.Logger, repo Repository) *UpdateFeedbackFeaturedUC {
	return &UpdateFeedbackFeaturedUC{log: log, repo: repo}
}

func (uc *UpdateFeedbackFeaturedUC) Invoke(ctx context.Context, feedbackID string, payload []byte) error {
	id, err := ParseID(feedbackID)
	if err != nil {
		return err
	}

	var p UpdateFeedbackFeaturedParams
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("%w: failed to unmarshal payload: %v", ErrInvalidFeedback, err)
	}
	if p.Featured == nil {
		return fmt.Errorf("%w: featured is required", ErrInvalidFeedback)
	}

	if err := uc.repo.SetFeatured(ctx, id, *p.Featured); err != nil {
		uc.log.Warn(fmt.Sprintf("[update-feedback-featured-uc] Update failed for %s: %v", id, err))
		return err
	}
	uc.log.Info(fmt.Sprintf("[update-feedback-featured-uc] Feedback %s featured set to %t.", id, *p.Featured))
	return nil
}
