package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SpicyTech2823/Car-rental/applications/booking"
	"github.com/SpicyTech2823/Car-rental/applications/car"

	"github.com/google/uuid"
)

var ErrBookingFailed = errors.New("booking could not be saved")

// BookingWriter persists the booking a confirmed payment produces.
type BookingWriter interface {
	Invoke(ctx context.Context, b *booking.Booking) (*booking.Booking, error)
}

// InvoiceSender mails the invoice once a booking is stored.
type InvoiceSender interface {
	Invoke(ctx context.Context, inv *booking.Invoice) error
}

// Wizard is one user's checkout session. The catalog is captured when the
// session starts and is not refreshed afterwards.
type Wizard struct {
	ID    uuid.UUID
	Owner uuid.UUID

	log      *slog.Logger
	writer   BookingWriter
	invoices InvoiceSender

	// lastActive is read without mu so idle checks never wait on a
	// booking insert in flight.
	lastActive atomic.Int64

	mu      sync.Mutex
	catalog []*car.Car
	state   State
}

func newWizard(log *slog.Logger, owner uuid.UUID, catalog []*car.Car, writer BookingWriter, invoices InvoiceSender, now time.Time) *Wizard {
	w := &Wizard{
		ID:       uuid.New(),
		Owner:    owner,
		log:      log,
		writer:   writer,
		invoices: invoices,
		catalog:  catalog,
		state:    Start(),
	}
	w.touch(now)
	return w
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Wizard) findCar(id int64) *car.Car {
	for _, c := range w.catalog {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ChooseCar resolves id against the snapshot before transitioning.
func (w *Wizard) ChooseCar(ctx context.Context, id int64) (View, error) {
	w.mu.Lock()
	c := w.findCar(id)
	w.mu.Unlock()
	return w.Dispatch(ctx, ChooseCar{Car: c})
}

// Dispatch applies ev and runs any command it produces. When storing the
// booking fails the session stays on the payment step; nothing is retried.
func (w *Wizard) Dispatch(ctx context.Context, ev Event) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, cmd, err := Transition(w.state, ev)
	if err != nil {
		return w.view(), err
	}
	w.state = next

	if create, ok := cmd.(CreateBooking); ok {
		if err := w.createBooking(ctx, create); err != nil {
			return w.view(), err
		}
	}
	return w.view(), nil
}

func (w *Wizard) createBooking(ctx context.Context, cmd CreateBooking) error {
	stored, err := w.writer.Invoke(ctx, cmd.Booking)
	if err != nil {
		w.log.Error(fmt.Sprintf("[wizard] Booking for wizard %s failed: %v", w.ID, err))
		return fmt.Errorf("%w: %w", ErrBookingFailed, err)
	}

	next, _, err := Transition(w.state, BookingCreated{Booking: stored})
	if err != nil {
		return err
	}
	w.state = next
	w.log.Info(fmt.Sprintf("[wizard] Wizard %s completed with booking %s.", w.ID, stored.Reference))

	if w.invoices != nil {
		inv := next.(Invoice)
		if err := w.invoices.Invoke(ctx, w.invoice(inv)); err != nil {
			w.log.Warn(fmt.Sprintf("[wizard] Invoice email for %s not sent: %v", inv.InvoiceID(), err))
		}
	}
	return nil
}

func (w *Wizard) invoice(inv Invoice) *booking.Invoice {
	name, price := inv.Booking.CarName, 0.0
	if inv.Draft.Car != nil {
		name, price = inv.Draft.Car.Name, inv.Draft.Car.Price
	}
	return booking.NewInvoice(inv.Booking, name, price)
}

// Invoice returns the invoice of a completed session.
func (w *Wizard) Invoice() (*booking.Invoice, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	inv, ok := w.state.(Invoice)
	if !ok {
		return nil, fmt.Errorf("%w: booking not completed yet", ErrInvalidTransition)
	}
	return w.invoice(inv), nil
}

func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view()
}

func (w *Wizard) touch(now time.Time) {
	w.lastActive.Store(now.UnixNano())
}

func (w *Wizard) idleSince() time.Time {
	return time.Unix(0, w.lastActive.Load())
}

// View is the JSON shape of a wizard session.
type View struct {
	ID             uuid.UUID        `json:"id"`
	Step           Step             `json:"step"`
	Categories     []string         `json:"categories,omitempty"`
	Cars           []*car.Car       `json:"cars,omitempty"`
	Draft          Draft            `json:"draft"`
	Total          float64          `json:"total"`
	PaymentMethods []string         `json:"paymentMethods,omitempty"`
	InvoiceID      string           `json:"invoiceId,omitempty"`
	Booking        *booking.Booking `json:"booking,omitempty"`
}

func (w *Wizard) view() View {
	d := w.state.draft()
	v := View{
		ID:    w.ID,
		Step:  w.state.Step(),
		Draft: d,
		Total: d.Total(),
	}
	switch st := w.state.(type) {
	case SelectCar:
		v.Categories = car.Categories
		v.Cars = car.FilterByCategory(w.catalog, d.Category)
	case Payment:
		v.PaymentMethods = booking.PaymentMethods
	case Invoice:
		v.InvoiceID = st.InvoiceID()
		v.Booking = st.Booking
		v.Total = st.Booking.TotalPrice
	}
	return v
}
