package car

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository is the storage behind the cars collection.
type Repository interface {
	List(ctx context.Context) ([]*Car, error)
	Get(ctx context.Context, id int64) (*Car, error)
	Create(ctx context.Context, c *Car) error
	Update(ctx context.Context, c *Car) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type SQLRepository struct {
	db *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const carColumns = `id, name, category, price, description, features, image, created_at`

func (r *SQLRepository) List(ctx context.Context) ([]*Car, error) {
	cars := make([]*Car, 0)
	const q = `SELECT ` + carColumns + ` FROM cars ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &cars, q); err != nil {
		return nil, fmt.Errorf("CarRepository.List: %w", err)
	}
	return cars, nil
}

func (r *SQLRepository) Get(ctx context.Context, id int64) (*Car, error) {
	c := &Car{}
	const q = `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	if err := r.db.GetContext(ctx, c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: car with ID %d", ErrCarNotFound, id)
		}
		return nil, fmt.Errorf("CarRepository.Get: %w", err)
	}
	return c, nil
}

func (r *SQLRepository) Create(ctx context.Context, c *Car) error {
	const q = `
		INSERT INTO cars (name, category, price, description, features, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, q,
		c.Name, c.Category, c.Price, c.Description, c.Features, c.Image,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("CarRepository.Create: %w", err)
	}
	return nil
}

func (r *SQLRepository) Update(ctx context.Context, c *Car) error {
	const q = `
		UPDATE cars
		SET name = $2, category = $3, price = $4, description = $5, features = $6, image = $7
		WHERE id = $1
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, q,
		c.ID, c.Name, c.Category, c.Price, c.Description, c.Features, c.Image,
	).Scan(&c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: car with ID %d", ErrCarNotFound, c.ID)
		}
		return fmt.Errorf("CarRepository.Update: %w", err)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("CarRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("CarRepository.Delete rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: car with ID %d", ErrCarNotFound, id)
	}
	return nil
}

func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM cars`); err != nil {
		return 0, fmt.Errorf("CarRepository.Count: %w", err)
	}
	return n, nil
}
