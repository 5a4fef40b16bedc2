package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SpicyTech2823/Car-rental/applications/car"

	"github.com/google/uuid"
)

type SubmitFeedbackParams struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	CarID   *int64 `json:"carId"`
}

// CarLookup is used to check the optional car reference.
type CarLookup interface {
	Get(ctx context.Context, id int64) (*car.Car, error)
}

type SubmitFeedbackUC struct {
	log  *slog.Logger
	repo Repository
	cars CarLookup
}

func NewSubmitFeedbackUC(log *slog.Logger, repo Repository, cars CarLookup) *SubmitFeedbackUC {
	return &SubmitFeedbackUC{log: log, repo: repo, cars: cars}
}

// Invoke stores a new, unfeatured review. An admin decides later whether
// it is shown publicly.
func (uc *SubmitFeedbackUC) Invoke(ctx context.Context, author Author, payload []byte) (*Feedback, error) {
	var p SubmitFeedbackParams
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal payload: %v", ErrInvalidFeedback, err)
	}

	if err := ValidateRating(p.Rating); err != nil {
		return nil, err
	}
	comment := strings.TrimSpace(p.Comment)
	if comment == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidFeedback)
	}

	f := &Feedback{
		ID:        uuid.New(),
		UserName:  author.DisplayName(),
		Rating:    p.Rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	if author.UserID != uuid.Nil {
		uid := author.UserID
		f.UserID = &uid
	}
	if author.Email != "" {
		email := author.Email
		f.UserEmail = &email
	}

	if p.CarID != nil {
		c, err := uc.cars.Get(ctx, *p.CarID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFeedback, err)
		}
		f.CarID = &c.ID
		f.CarName = c.Name
	}

	if err := uc.repo.Create(ctx, f); err != nil {
		uc.log.Error(fmt.Sprintf("[submit-feedback-uc] Failed to store feedback: %v", err))
		return nil, err
	}

	uc.log.Info(fmt.Sprintf("[submit-feedback-uc] Feedback %s (%d stars) submitted by %s.", f.ID, f.Rating, f.UserName))
	return f, nil
}
