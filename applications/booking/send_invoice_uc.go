package booking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SpicyTech2823/Car-rental/applications/mailer"
)

type SendInvoiceUC struct {
	log  *slog.Logger
	mail mailer.Sender
}

func NewSendInvoiceUC(log *slog.Logger, mail mailer.Sender) *SendInvoiceUC {
	return &SendInvoiceUC{log: log, mail: mail}
}

// Invoke mails the invoice PDF to the customer.
func (uc *SendInvoiceUC) Invoke(ctx context.Context, inv *Invoice) error {
	pdf, err := GenerateInvoicePDF(inv)
	if err != nil {
		return err
	}

	msg := mailer.InvoiceMessage(inv.Booking.Email, inv.InvoiceID, inv.CarName, inv.Booking.TotalPrice, pdf)
	if err := uc.mail.Send(ctx, msg); err != nil {
		uc.log.Error(fmt.Sprintf("[send-invoice-uc] Failed to mail invoice %s to %s: %v", inv.InvoiceID, inv.Booking.Email, err))
		return err
	}

	uc.log.Info(fmt.Sprintf("[send-invoice-uc] Invoice %s mailed to %s.", inv.InvoiceID, inv.Booking.Email))
	return nil
}
