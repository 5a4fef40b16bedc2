package mailer

import (
	"encoding/base64"
	"fmt"
	"html"
)

func LoginOTPMessage(to, code, link string) Message {
	body := fmt.Sprintf(`
		<h2>Your admin login code</h2>
		<p>Use this one-time code to sign in:</p>
		<h3 style="color:#991b1b;">%s</h3>
		<p>Or open <a href="%s">this login link</a>.</p>
		<p>This code is valid for 5 minutes.</p>
	`, code, html.EscapeString(link))
	return Message{
		To:      to,
		Subject: "Your Car Rental admin login code",
		HTML:    body,
		Text:    "Your login code is " + code + "\n" + link,
	}
}

func PasswordResetMessage(to, link string) Message {
	body := fmt.Sprintf(`
		<h2>Reset your password</h2>
		<p>Follow <a href="%s">this link</a> to choose a new password.</p>
		<p>If you did not ask for a reset you can ignore this email.</p>
	`, html.EscapeString(link))
	return Message{
		To:      to,
		Subject: "Reset your Car Rental password",
		HTML:    body,
		Text:    "Reset your password: " + link,
	}
}

func InvoiceMessage(to, invoiceID, carName string, total float64, pdf []byte) Message {
	body := fmt.Sprintf(`
		<h2>Booking confirmed</h2>
		<p>Thank you for renting the <b>%s</b>.</p>
		<p>Invoice: <b>%s</b><br>Total: %.2f</p>
		<p>Your invoice PDF is attached to this email.</p>
	`, html.EscapeString(carName), invoiceID, total)
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Your Car Rental invoice [%s]", invoiceID),
		HTML:    body,
		Attachments: []Attachment{{
			Filename: fmt.Sprintf("invoice-%s.pdf", invoiceID),
			Content:  base64.StdEncoding.EncodeToString(pdf),
		}},
	}
}
