package booking

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Invoice is what the last wizard step shows and what the PDF prints.
type Invoice struct {
	InvoiceID   string   `json:"invoiceId"`
	Booking     *Booking `json:"booking"`
	CarName     string   `json:"carName"`
	PricePerDay float64  `json:"pricePerDay"`
}

func NewInvoice(b *Booking, carName string, pricePerDay float64) *Invoice {
	return &Invoice{
		InvoiceID:   InvoiceID(b.Reference),
		Booking:     b,
		CarName:     carName,
		PricePerDay: pricePerDay,
	}
}

// QRPayload is the text encoded into the invoice QR code.
func (inv *Invoice) QRPayload() string {
	b := inv.Booking
	lines := []string{
		"Invoice: " + inv.InvoiceID,
		"Booking: " + b.Reference,
		"Car: " + inv.CarName,
		"Customer: " + b.CustomerName,
		fmt.Sprintf("Dates: %s to %s (%d days)", b.PickupDate.Format(DateLayout), b.ReturnDate.Format(DateLayout), b.Days),
		fmt.Sprintf("Total: %.2f", b.TotalPrice),
		"Payment: " + b.PaymentMethod,
	}
	return strings.Join(lines, "\n")
}

// GenerateInvoicePDF renders a single-page invoice with a QR code of the
// invoice data.
func GenerateInvoicePDF(inv *Invoice) ([]byte, error) {
	if inv == nil || inv.Booking == nil {
		return nil, fmt.Errorf("%w: invoice has no booking", ErrInvalidBooking)
	}
	b := inv.Booking

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pdf.SetAutoPageBreak(false, 0)

	// --- Header ---
	pdf.SetFont("Helvetica", "B", 22)
	pdf.Cell(0, 15, "CAR RENTAL INVOICE")
	pdf.Ln(14)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice ID: %s", inv.InvoiceID))
	pdf.Ln(12)

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(8)

	// --- Booking summary + QR ---
	yStart := pdf.GetY()
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(15, yStart, 120, 62, "F")

	pdf.SetXY(20, yStart+7)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "BOOKING SUMMARY")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	for _, line := range []string{
		fmt.Sprintf("Booking ID: %s", b.Reference),
		fmt.Sprintf("Car: %s", inv.CarName),
		fmt.Sprintf("Pickup: %s", b.PickupDate.Format(DateLayout)),
		fmt.Sprintf("Return: %s", b.ReturnDate.Format(DateLayout)),
		fmt.Sprintf("Rate: %.2f x %d days", inv.PricePerDay, b.Days),
		fmt.Sprintf("Total Paid: %.2f", b.TotalPrice),
	} {
		pdf.SetX(20)
		pdf.Cell(0, 8, line)
		pdf.Ln(6)
	}

	qrBytes, err := qrcode.Encode(inv.QRPayload(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode invoice QR code: %w", err)
	}
	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(qrBytes))
	pdf.ImageOptions("qr", 145, yStart+5, 45, 0, false, gofpdf.ImageOptions{ImageType: "png"}, 0, "")

	pdf.SetY(yStart + 70)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 6, "Scan this QR code to verify the invoice.")
	pdf.Ln(10)

	// --- Customer ---
	drawSectionTitle(pdf, "CUSTOMER")
	pdf.SetFont("Helvetica", "", 12)
	for _, line := range []string{
		fmt.Sprintf("Name: %s", b.CustomerName),
		fmt.Sprintf("Email: %s", b.Email),
		fmt.Sprintf("Phone: %s", b.Phone),
	} {
		pdf.Cell(0, 8, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	// --- Payment ---
	drawSectionTitle(pdf, "PAYMENT INFORMATION")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Method: %s", b.PaymentMethod))
	pdf.Ln(6)
	status := "Unpaid"
	if b.IsPaid {
		status = "Paid"
	}
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", status))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Free cancellation up to 24 hours before pickup. Unlimited mileage included.")

	// --- Footer ---
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(15, 285, 195, 285)
	pdf.SetY(288)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 8, "Car Rental. All Rights Reserved.", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawSectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(0, 9, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
}
