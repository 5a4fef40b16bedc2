package feedback

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository is the storage behind the feedback collection.
type Repository interface {
	Create(ctx context.Context, f *Feedback) error
	ListFeatured(ctx context.Context, limit int) ([]*Feedback, error)
	List(ctx context.Context) ([]*Feedback, error)
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SQLRepository struct {
	db *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const selectFeedbackSQL = `
	SELECT f.id, f.user_id, f.user_name, f.user_email, f.rating, f.comment, f.car_id,
	       COALESCE(c.name, '') AS car_name, f.is_featured, f.created_at
	FROM feedback f
	LEFT JOIN cars c ON c.id = f.car_id`

func (r *SQLRepository) Create(ctx context.Context, f *Feedback) error {
	const q = `
		INSERT INTO feedback (id, user_id, user_name, user_email, rating, comment, car_id, is_featured, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, q,
		f.ID, f.UserID, f.UserName, f.UserEmail, f.Rating, f.Comment, f.CarID, f.IsFeatured, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("FeedbackRepository.Create: %w", err)
	}
	return nil
}

func (r *SQLRepository) ListFeatured(ctx context.Context, limit int) ([]*Feedback, error) {
	items := make([]*Feedback, 0)
	q := selectFeedbackSQL + ` WHERE f.is_featured = true ORDER BY f.created_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &items, q, limit); err != nil {
		return nil, fmt.Errorf("FeedbackRepository.ListFeatured: %w", err)
	}
	return items, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*Feedback, error) {
	items := make([]*Feedback, 0)
	if err := r.db.SelectContext(ctx, &items, selectFeedbackSQL+` ORDER BY f.created_at DESC`); err != nil {
		return nil, fmt.Errorf("FeedbackRepository.List: %w", err)
	}
	return items, nil
}

func (r *SQLRepository) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE feedback SET is_featured = $2 WHERE id = $1`, id, featured)
	if err != nil {
		return fmt.Errorf("FeedbackRepository.SetFeatured: %w", err)
	}
	return expectOneRow(result, id)
}

func (r *SQLRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("FeedbackRepository.Delete: %w", err)
	}
	return expectOneRow(result, id)
}

func expectOneRow(result sql.Result, id uuid.UUID) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: feedback %s", ErrFeedbackNotFound, id)
	}
	return nil
}
