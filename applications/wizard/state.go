package wizard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SpicyTech2823/Car-rental/applications/booking"
	"github.com/SpicyTech2823/Car-rental/applications/car"

	"github.com/google/uuid"
)

type Step string

const (
	StepSelectCar      Step = "select_car"
	StepBookingDetails Step = "booking_details"
	StepPayment        Step = "payment"
	StepInvoice        Step = "invoice"
)

var (
	ErrInvalidTransition = errors.New("action not allowed at this step")
	ErrUnknownCar        = errors.New("selected car does not exist")
	ErrIncompleteDetails = errors.New("booking details are incomplete")
)

// Draft is the in-memory form behind a wizard session. It is never stored.
type Draft struct {
	Category      string    `json:"category"`
	Car           *car.Car  `json:"car,omitempty"`
	CustomerName  string    `json:"customerName"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	PickupDate    time.Time `json:"pickupDate"`
	ReturnDate    time.Time `json:"returnDate"`
	Days          int       `json:"days"`
	PaymentMethod string    `json:"paymentMethod"`
}

func newDraft() Draft {
	return Draft{Category: car.CategoryAll, Days: 1, PaymentMethod: booking.PaymentCard}
}

// Total is the price the payment step shows and the booking records.
func (d Draft) Total() float64 {
	if d.Car == nil {
		return 0
	}
	return booking.TotalPrice(d.Car.Price, d.Days)
}

func (d Draft) missing() []string {
	var out []string
	if strings.TrimSpace(d.CustomerName) == "" {
		out = append(out, "name")
	}
	if strings.TrimSpace(d.Email) == "" {
		out = append(out, "email")
	}
	if strings.TrimSpace(d.Phone) == "" {
		out = append(out, "phone")
	}
	if d.PickupDate.IsZero() {
		out = append(out, "pickupDate")
	}
	if d.ReturnDate.IsZero() {
		out = append(out, "returnDate")
	}
	return out
}

// State is one of SelectCar, BookingDetails, Payment or Invoice.
type State interface {
	Step() Step
	draft() Draft
}

type SelectCar struct{ Draft Draft }

type BookingDetails struct{ Draft Draft }

type Payment struct{ Draft Draft }

// Invoice is terminal.
type Invoice struct {
	Draft   Draft
	Booking *booking.Booking
}

func (SelectCar) Step() Step      { return StepSelectCar }
func (BookingDetails) Step() Step { return StepBookingDetails }
func (Payment) Step() Step        { return StepPayment }
func (Invoice) Step() Step        { return StepInvoice }

func (s SelectCar) draft() Draft      { return s.Draft }
func (s BookingDetails) draft() Draft { return s.Draft }
func (s Payment) draft() Draft        { return s.Draft }
func (s Invoice) draft() Draft        { return s.Draft }

// InvoiceID of the committed booking.
func (s Invoice) InvoiceID() string {
	return booking.InvoiceID(s.Booking.Reference)
}

// Event is a user action or a command result fed to Transition.
type Event interface {
	isEvent()
}

type SelectCategory struct{ Category string }

// ChooseCar carries the car resolved from the session's catalog snapshot;
// nil means the id did not match any car.
type ChooseCar struct{ Car *car.Car }

// EditDetails changes only the fields that are set.
type EditDetails struct {
	CustomerName *string
	Email        *string
	Phone        *string
	PickupDate   *time.Time
	ReturnDate   *time.Time
	Days         *int
}

type SubmitDetails struct{}

type ChoosePayment struct{ Method string }

type ConfirmPayment struct {
	Now    time.Time
	UserID uuid.UUID
}

// BookingCreated reports that a CreateBooking command succeeded.
type BookingCreated struct{ Booking *booking.Booking }

type Back struct{}

func (SelectCategory) isEvent() {}
func (ChooseCar) isEvent()      {}
func (EditDetails) isEvent()    {}
func (SubmitDetails) isEvent()  {}
func (ChoosePayment) isEvent()  {}
func (ConfirmPayment) isEvent() {}
func (BookingCreated) isEvent() {}
func (Back) isEvent()           {}

// Command is a side effect requested by a transition.
type Command interface {
	isCommand()
}

// CreateBooking asks the runner to persist a paid booking.
type CreateBooking struct{ Booking *booking.Booking }

func (CreateBooking) isCommand() {}

// Start is the state every wizard session begins in.
func Start() State {
	return SelectCar{Draft: newDraft()}
}

// Transition is the full transition table. It has no side effects; a
// returned Command must be executed by the caller and its outcome fed back
// as another event.
func Transition(s State, ev Event) (State, Command, error) {
	switch st := s.(type) {
	case SelectCar:
		return fromSelectCar(st, ev)
	case BookingDetails:
		return fromBookingDetails(st, ev)
	case Payment:
		return fromPayment(st, ev)
	case Invoice:
		return st, nil, fmt.Errorf("%w: booking already completed", ErrInvalidTransition)
	default:
		return s, nil, fmt.Errorf("%w: unknown state %T", ErrInvalidTransition, s)
	}
}

func fromSelectCar(st SelectCar, ev Event) (State, Command, error) {
	switch e := ev.(type) {
	case SelectCategory:
		if !car.IsCategory(e.Category) {
			return st, nil, fmt.Errorf("%w: %q", car.ErrInvalidCategory, e.Category)
		}
		st.Draft.Category = e.Category
		return st, nil, nil
	case ChooseCar:
		if e.Car == nil {
			return st, nil, ErrUnknownCar
		}
		d := st.Draft
		d.Car = e.Car
		return BookingDetails{Draft: d}, nil, nil
	}
	return st, nil, invalid(st, ev)
}

func fromBookingDetails(st BookingDetails, ev Event) (State, Command, error) {
	switch e := ev.(type) {
	case EditDetails:
		st.Draft = applyEdit(st.Draft, e)
		return st, nil, nil
	case SubmitDetails:
		if missing := st.Draft.missing(); len(missing) > 0 {
			return st, nil, fmt.Errorf("%w: missing %s", ErrIncompleteDetails, strings.Join(missing, ", "))
		}
		d := st.Draft
		if d.PaymentMethod == "" {
			d.PaymentMethod = booking.PaymentCard
		}
		return Payment{Draft: d}, nil, nil
	case Back:
		return SelectCar{Draft: st.Draft}, nil, nil
	}
	return st, nil, invalid(st, ev)
}

func fromPayment(st Payment, ev Event) (State, Command, error) {
	switch e := ev.(type) {
	case ChoosePayment:
		if !booking.IsPaymentMethod(e.Method) {
			return st, nil, fmt.Errorf("%w: %q", booking.ErrInvalidPaymentMethod, e.Method)
		}
		st.Draft.PaymentMethod = e.Method
		return st, nil, nil
	case ConfirmPayment:
		// Stays in Payment until the booking is stored.
		return st, CreateBooking{Booking: newBooking(st.Draft, e)}, nil
	case BookingCreated:
		if e.Booking == nil {
			return st, nil, fmt.Errorf("%w: no booking", ErrInvalidTransition)
		}
		return Invoice{Draft: st.Draft, Booking: e.Booking}, nil, nil
	case Back:
		return BookingDetails{Draft: st.Draft}, nil, nil
	}
	return st, nil, invalid(st, ev)
}

// applyEdit recomputes the rental days when the return date changes. Editing
// only the pickup date keeps the current count. An explicit day count wins
// over the computed one.
func applyEdit(d Draft, e EditDetails) Draft {
	if e.CustomerName != nil {
		d.CustomerName = *e.CustomerName
	}
	if e.Email != nil {
		d.Email = *e.Email
	}
	if e.Phone != nil {
		d.Phone = *e.Phone
	}
	if e.PickupDate != nil {
		d.PickupDate = *e.PickupDate
	}
	if e.ReturnDate != nil {
		d.ReturnDate = *e.ReturnDate
		d.Days = booking.RentalDays(d.PickupDate, d.ReturnDate)
	}
	if e.Days != nil {
		d.Days = *e.Days
		if d.Days < 1 {
			d.Days = 1
		}
	}
	return d
}

// newBooking is always paid: checkout is simulated.
func newBooking(d Draft, e ConfirmPayment) *booking.Booking {
	carID := d.Car.ID
	b := &booking.Booking{
		Reference:     booking.NewReference(e.Now),
		CarID:         &carID,
		CarName:       d.Car.Name,
		CustomerName:  strings.TrimSpace(d.CustomerName),
		Email:         strings.TrimSpace(d.Email),
		Phone:         strings.TrimSpace(d.Phone),
		PickupDate:    d.PickupDate,
		ReturnDate:    d.ReturnDate,
		Days:          d.Days,
		TotalPrice:    d.Total(),
		PaymentMethod: d.PaymentMethod,
		IsPaid:        true,
	}
	if e.UserID != uuid.Nil {
		uid := e.UserID
		b.UserID = &uid
	}
	return b
}

func invalid(s State, ev Event) error {
	return fmt.Errorf("%w: %T at %s", ErrInvalidTransition, ev, s.Step())
}
