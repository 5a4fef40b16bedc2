package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository is the storage behind the bookings collection.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	List(ctx context.Context) ([]*Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*Booking, error)
	SetPaid(ctx context.Context, id uuid.UUID, paid bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SQLRepository struct {
	db *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const selectBookingSQL = `
	SELECT b.id, b.reference, b.car_id, COALESCE(c.name, '') AS car_name, b.user_id,
	       b.customer_name, b.email, b.phone, b.pickup_date, b.return_date, b.days,
	       b.total_price, b.payment_method, b.is_paid, b.created_at
	FROM bookings b
	LEFT JOIN cars c ON c.id = b.car_id`

func (r *SQLRepository) Create(ctx context.Context, b *Booking) error {
	const q = `
		INSERT INTO bookings (id, reference, car_id, user_id, customer_name, email, phone,
		                      pickup_date, return_date, days, total_price, payment_method, is_paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, q,
		b.ID, b.Reference, b.CarID, b.UserID, b.CustomerName, b.Email, b.Phone,
		b.PickupDate, b.ReturnDate, b.Days, b.TotalPrice, b.PaymentMethod, b.IsPaid, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("BookingRepository.Create: %w", err)
	}
	return nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*Booking, error) {
	bookings := make([]*Booking, 0)
	if err := r.db.SelectContext(ctx, &bookings, selectBookingSQL+` ORDER BY b.created_at DESC`); err != nil {
		return nil, fmt.Errorf("BookingRepository.List: %w", err)
	}
	return bookings, nil
}

func (r *SQLRepository) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b := &Booking{}
	if err := r.db.GetContext(ctx, b, selectBookingSQL+` WHERE b.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %s", ErrBookingNotFound, id)
		}
		return nil, fmt.Errorf("BookingRepository.Get: %w", err)
	}
	return b, nil
}

func (r *SQLRepository) SetPaid(ctx context.Context, id uuid.UUID, paid bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE bookings SET is_paid = $2 WHERE id = $1`, id, paid)
	if err != nil {
		return fmt.Errorf("BookingRepository.SetPaid: %w", err)
	}
	return expectOneRow(result, id)
}

func (r *SQLRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("BookingRepository.Delete: %w", err)
	}
	return expectOneRow(result, id)
}

func expectOneRow(result sql.Result, id uuid.UUID) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: booking %s", ErrBookingNotFound, id)
	}
	return nil
}
