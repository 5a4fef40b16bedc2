package feedback

import (
	"context"
	"fmt"
	"log/slog"
)

type GetFeaturedFeedbackUC struct {
	log  *slog.Logger
	repo Repository
}

func NewGetFeaturedFeedbackUC(log *slog.Logger, repo Repository) *GetFeaturedFeedbackUC {
	return &GetFeaturedFeedbackUC{log: log, repo: repo}
}

// Invoke returns the newest featured reviews for the public page.
func (uc *GetFeaturedFeedbackUC) Invoke(ctx context.Context) ([]*Feedback, error) {
	items, err := uc.repo.ListFeatured(ctx, FeaturedLimit)
	if err != nil {
		uc.log.Error(fmt.Sprintf("[get-featured-feedback-uc] %v", err))
		return nil, err
	}
	return items, nil
}
