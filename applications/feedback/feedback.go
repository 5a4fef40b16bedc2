package feedback

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FeaturedLimit caps the public testimonials list.
const FeaturedLimit = 6

var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrInvalidFeedback  = errors.New("invalid feedback")
)

type Feedback struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	UserID     *uuid.UUID `db:"user_id" json:"userId,omitempty"`
	UserName   string     `db:"user_name" json:"userName"`
	UserEmail  *string    `db:"user_email" json:"userEmail,omitempty"`
	Rating     int        `db:"rating" json:"rating"`
	Comment    string     `db:"comment" json:"comment"`
	CarID      *int64     `db:"car_id" json:"carId,omitempty"`
	CarName    string     `db:"car_name" json:"carName,omitempty"`
	IsFeatured bool       `db:"is_featured" json:"isFeatured"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}

// Author is the signed-in user leaving feedback.
type Author struct {
	UserID uuid.UUID
	Name   string
	Email  string
}

// DisplayName prefers the profile name, then the email local part.
func (a Author) DisplayName() string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(a.Email, "@"); ok && local != "" {
		return local
	}
	return "Anonymous"
}

func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5, got %d", ErrInvalidFeedback, rating)
	}
	return nil
}

// ParseID validates a feedback id path parameter.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid feedback ID format: %v", ErrInvalidFeedback, err)
	}
	return id, nil
}
