package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"shikayat/config"
)

// ErrInvalidRecipient is returned when a message has no destination address.
var ErrInvalidRecipient = errors.New("invalid recipient")

// Sender delivers a citizen-facing message. Delivery is best effort: callers
// log failures and carry on, a notification never blocks a record mutation.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EmailSender sends plain-text email through SendGrid. In shadow mode every
// message is redirected to the configured shadow address, which keeps pilot
// runs from mailing real citizens. Without an API key Send validates and
// returns nil.
type EmailSender struct {
	apiKey      string
	fromAddress string
	shadowAddr  string
	client      *http.Client
}

// NewEmailSender builds a sender from the email section of the loaded config.
func NewEmailSender(cfg config.EmailConfig) *EmailSender {
	shadowAddr := ""
	if cfg.Mode == "shadow" {
		shadowAddr = cfg.ShadowAddress
	}
	return &EmailSender{
		apiKey:      cfg.APIKey,
		fromAddress: cfg.FromAddress,
		shadowAddr:  shadowAddr,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

const sendGridURL = "https://api.sendgrid.com/v3/mail/send"
const maxSendRetries = 3

func (s *EmailSender) Send(ctx context.Context, to, subject, body string) error {
	if s.shadowAddr != "" {
		to = s.shadowAddr
	}
	if to == "" {
		return ErrInvalidRecipient
	}
	if s.apiKey == "" {
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{"to": []map[string]interface{}{{"email": to}}},
		},
		"from":    map[string]string{"email": s.fromAddress},
		"subject": subject,
		"content": []map[string]string{{"type": "text/plain", "value": body}},
	})
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxSendRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendGridURL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to build email request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("sendgrid status %d", resp.StatusCode)
	}
	return lastErr
}

// NoopSender discards every message. Used in tests and local setups with no
// email configured.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, to, subject, body string) error { return nil }
