package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var (
	ErrInvalidMessage = errors.New("invalid contact message")
	ErrRelayRejected  = errors.New("form relay rejected the message")
)

type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type relayRequest struct {
	AccessKey string `json:"access_key"`
	Subject   string `json:"subject"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

type relayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Relay forwards contact-form submissions to a web3forms-style endpoint.
type Relay struct {
	log       *slog.Logger
	endpoint  string
	accessKey string
	client    *http.Client
}

func NewRelay(log *slog.Logger, endpoint, accessKey string) *Relay {
	return &Relay{
		log:       log,
		endpoint:  endpoint,
		accessKey: accessKey,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (m Message) validate() error {
	if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Email) == "" || strings.TrimSpace(m.Message) == "" {
		return fmt.Errorf("%w: name, email and message are required", ErrInvalidMessage)
	}
	return nil
}

func (r *Relay) Submit(ctx context.Context, m Message) error {
	if err := m.validate(); err != nil {
		return err
	}

	body, err := json.Marshal(relayRequest{
		AccessKey: r.accessKey,
		Subject:   "New contact message from " + strings.TrimSpace(m.Name),
		Name:      strings.TrimSpace(m.Name),
		Email:     strings.TrimSpace(m.Email),
		Message:   m.Message,
	})
	if err != nil {
		return fmt.Errorf("failed to encode contact message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Error(fmt.Sprintf("[contact] Relay request failed: %v", err))
		return fmt.Errorf("failed to reach form relay: %w", err)
	}
	defer resp.Body.Close()

	var out relayResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && resp.StatusCode < 300 {
		return fmt.Errorf("%w: unreadable response: %v", ErrRelayRejected, err)
	}
	if resp.StatusCode >= 300 || !out.Success {
		r.log.Warn(fmt.Sprintf("[contact] Relay rejected message from %s: %s %s", m.Email, resp.Status, out.Message))
		return fmt.Errorf("%w: %s", ErrRelayRejected, out.Message)
	}

	r.log.Info(fmt.Sprintf("[contact] Message from %s relayed.", m.Email))
	return nil
}
