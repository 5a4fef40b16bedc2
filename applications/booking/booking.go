package booking

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Reference     string     `db:"reference" json:"reference"`
	CarID         *int64     `db:"car_id" json:"carId"`
	CarName       string     `db:"car_name" json:"carName,omitempty"`
	UserID        *uuid.UUID `db:"user_id" json:"userId,omitempty"`
	CustomerName  string     `db:"customer_name" json:"customerName"`
	Email         string     `db:"email" json:"email"`
	Phone         string     `db:"phone" json:"phone"`
	PickupDate    time.Time  `db:"pickup_date" json:"pickupDate"`
	ReturnDate    time.Time  `db:"return_date" json:"returnDate"`
	Days          int        `db:"days" json:"days"`
	TotalPrice    float64    `db:"total_price" json:"totalPrice"`
	PaymentMethod string     `db:"payment_method" json:"paymentMethod"`
	IsPaid        bool       `db:"is_paid" json:"isPaid"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
}

// Payment methods offered at checkout. None of them is charged for real.
const (
	PaymentCard   = "card"
	PaymentPayPal = "paypal"
	PaymentBank   = "bank"
)

var PaymentMethods = []string{PaymentCard, PaymentPayPal, PaymentBank}

const DateLayout = "2006-01-02"

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrInvalidBooking       = errors.New("invalid booking")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

func IsPaymentMethod(m string) bool {
	for _, known := range PaymentMethods {
		if known == m {
			return true
		}
	}
	return false
}

const millisPerDay = 24 * 60 * 60 * 1000

// RentalDays is ceil((return - pickup) / 1 day). It falls back to 1 when a
// date is unset or the span is not positive.
func RentalDays(pickup, ret time.Time) int {
	if pickup.IsZero() || ret.IsZero() {
		return 1
	}
	days := math.Ceil(float64(ret.Sub(pickup).Milliseconds()) / millisPerDay)
	if math.IsNaN(days) || math.IsInf(days, 0) || days < 1 {
		return 1
	}
	return int(days)
}

// TotalPrice is the per-day price times the rental days.
func TotalPrice(pricePerDay float64, days int) float64 {
	return pricePerDay * float64(days)
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
// An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must look like %s", ErrInvalidBooking, s, DateLayout)
	}
	return t, nil
}

// NewReference derives a booking reference from the last eight digits of
// the millisecond clock. Two sessions opened in the same millisecond share
// a reference.
func NewReference(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return ms
}

func InvoiceID(reference string) string {
	return "INV-" + reference
}
