package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
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
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// Mailer sends email through the Resend API
type Mailer struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
	logger   zerolog.Logger
}

// NewMailer creates a Resend client. from is the sender, e.g. "Portfolio <hi@example.com>".
func NewMailer(apiKey, from string) *Mailer {
	return &Mailer{
		apiKey:   apiKey,
		from:     from,
		endpoint: resendEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   log.With().Str("component", "mailer").Logger(),
	}
}

// SendEmail sends a plain text email and returns the id Resend assigned to it.
func (m *Mailer) SendEmail(ctx context.Context, subject, body, replyTo string, recipients []string) (string, error) {
	if len(recipients) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}

	payload := ResendEmailRequest{
		From:    m.from,
		To:      recipients,
		Subject: subject,
		Text:    body,
		ReplyTo: replyTo,
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return "", fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return "", fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
		return "", nil
	}
	m.logger.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	return emailResponse.ID, nil
}
