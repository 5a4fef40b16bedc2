package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type memRepo struct {
	mu        sync.Mutex
	bookings  []*Booking
	createErr error
}

func (r *memRepo) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *b
	r.bookings = append(r.bookings, &cp)
	return nil
}

func (r *memRepo) List(context.Context) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Booking, len(r.bookings))
	copy(out, r.bookings)
	return out, nil
}

func (r *memRepo) find(id uuid.UUID) (int, error) {
	for i, b := range r.bookings {
		if b.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: booking %s", ErrBookingNotFound, id)
}

func (r *memRepo) Get(_ context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, err := r.find(id)
	if err != nil {
		return nil, err
	}
	cp := *r.bookings[i]
	return &cp, nil
}

func (r *memRepo) SetPaid(_ context.Context, id uuid.UUID, paid bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, err := r.find(id)
	if err != nil {
		return err
	}
	r.bookings[i].IsPaid = paid
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, err := r.find(id)
	if err != nil {
		return err
	}
	r.bookings = append(r.bookings[:i], r.bookings[i+1:]...)
	return nil
}

func validBooking() *Booking {
	carID := int64(1)
	pickup := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &Booking{
		Reference:     "12345678",
		CarID:         &carID,
		CustomerName:  "Ada Lovelace",
		Email:         "ada@example.com",
		Phone:         "555-0100",
		PickupDate:    pickup,
		ReturnDate:    pickup.AddDate(0, 0, 3),
		Days:          3,
		TotalPrice:    300,
		PaymentMethod: PaymentCard,
		IsPaid:        true,
	}
}

func TestCreateBookingAssignsIdentity(t *testing.T) {
	repo := &memRepo{}
	uc := NewCreateBookingUC(discard, repo)

	stored, err := uc.Invoke(context.Background(), validBooking())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.True(t, stored.IsPaid)
	require.Len(t, repo.bookings, 1)
}

func TestCreateBookingIsNotIdempotent(t *testing.T) {
	repo := &memRepo{}
	uc := NewCreateBookingUC(discard, repo)
	b := validBooking()

	_, err := uc.Invoke(context.Background(), b)
	require.NoError(t, err)
	_, err = uc.Invoke(context.Background(), b)
	require.NoError(t, err)

	assert.Len(t, repo.bookings, 2)
	assert.Equal(t, repo.bookings[0].Reference, repo.bookings[1].Reference)
}

func TestCreateBookingValidation(t *testing.T) {
	uc := NewCreateBookingUC(discard, &memRepo{})
	cases := map[string]func(b *Booking){
		"no car":      func(b *Booking) { b.CarID = nil },
		"no name":     func(b *Booking) { b.CustomerName = "" },
		"no phone":    func(b *Booking) { b.Phone = " " },
		"no pickup":   func(b *Booking) { b.PickupDate = time.Time{} },
		"zero days":   func(b *Booking) { b.Days = 0 },
		"bad payment": func(b *Booking) { b.PaymentMethod = "cash" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			b := validBooking()
			mutate(b)
			_, err := uc.Invoke(context.Background(), b)
			assert.Error(t, err)
		})
	}
}

func TestCreateBookingStorageFailure(t *testing.T) {
	repo := &memRepo{createErr: errors.New("connection reset")}
	_, err := NewCreateBookingUC(discard, repo).Invoke(context.Background(), validBooking())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestAdminBookingLifecycle(t *testing.T) {
	repo := &memRepo{}
	ctx := context.Background()
	stored, err := NewCreateBookingUC(discard, repo).Invoke(ctx, validBooking())
	require.NoError(t, err)

	require.NoError(t, NewUpdateBookingPaidUC(discard, repo).Invoke(ctx, stored.ID.String(), []byte(`{"paid": false}`)))
	list, err := NewGetAllBookingsAdminUC(discard, repo).Invoke(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsPaid)

	err = NewUpdateBookingPaidUC(discard, repo).Invoke(ctx, stored.ID.String(), []byte(`{}`))
	assert.ErrorIs(t, err, ErrInvalidBooking)

	require.NoError(t, NewDeleteBookingUC(discard, repo).Invoke(ctx, stored.ID.String()))
	err = NewDeleteBookingUC(discard, repo).Invoke(ctx, stored.ID.String())
	assert.ErrorIs(t, err, ErrBookingNotFound)

	err = NewDeleteBookingUC(discard, repo).Invoke(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidBooking)
}
