package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/SpicyTech2823/Car-rental/logger"
)

const resendAPI = "https://api.resend.com/emails"

type Attachment struct {
	Filename string `json:"filename"`
	// Resend expects base64-encoded content
	Content string `json:"content"`
}

type Message struct {
	To          string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Sender delivers transactional mail.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

type resendEmail struct {
	From        string       `json:"from"`
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	Html        string       `json:"html"`
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// ResendClient sends mail through the Resend HTTP API. Without an API key
// it prints the message instead.
type ResendClient struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
	mockOut  io.Writer
}

func NewResendClient(apiKey, from string) *ResendClient {
	return &ResendClient{
		apiKey:   apiKey,
		from:     from,
		endpoint: resendAPI,
		client:   &http.Client{Timeout: 15 * time.Second},
		mockOut:  os.Stdout,
	}
}

// WithEndpoint points the client at another Resend-compatible URL.
func (c *ResendClient) WithEndpoint(url string) *ResendClient {
	c.endpoint = url
	return c
}

func (c *ResendClient) Send(ctx context.Context, m Message) error {
	if c.apiKey == "" {
		logger.Log.Warn("[mailer] Missing RESEND_API_KEY, mock email triggered.")
		fmt.Fprintf(c.mockOut, "\n--- MOCK EMAIL ---\nTo: %s\nSubject: %s\nBody:\n%s\nAttachments: %d\n-------------------\n",
			m.To, m.Subject, m.HTML, len(m.Attachments))
		return nil
	}

	body, err := json.Marshal(resendEmail{
		From:        c.from,
		To:          m.To,
		Subject:     m.Subject,
		Html:        m.HTML,
		Text:        m.Text,
		Attachments: m.Attachments,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("Resend API error: %s", resp.Status)
	}

	logger.Log.Info(fmt.Sprintf("[mailer] Email %q sent to %s via Resend.", m.Subject, m.To))
	return nil
}
