package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

type EmailSender interface {
	SendEmail(ctx context.Context, subject, body string, recipients []string) error
}

// Mailer sends email through the Resend API.
type Mailer struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
}

// NewMailer returns nil when RESEND_API_KEY or RESEND_FROM_EMAIL is missing.
func NewMailer(cfg config.MailConfig, client *http.Client) *Mailer {
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		return nil
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Mailer{apiKey: cfg.ResendAPIKey, from: cfg.FromEmail, endpoint: resendEndpoint, client: client}
}

// SendEmail sends body as HTML to every recipient.
func (m *Mailer) SendEmail(ctx context.Context, subject, body string, recipients []string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	payload := ResendEmailRequest{
		From:    m.from,
		To:      recipients,
		Subject: subject,
		Html:    body,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return errs.NewUpstreamError("resend", fmt.Errorf("failed to send request to Resend API: %w", err))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return errs.NewUpstreamError("resend", fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message))
		}
		return errs.NewUpstreamError("resend", fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes)))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}

	return nil
}
