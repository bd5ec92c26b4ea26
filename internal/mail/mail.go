// Package mail sends transactional email through an HTTP mail API. Delivery
// is best-effort: callers must treat a send failure as non-fatal and keep a
// fallback path (for invitations, showing the join link directly).
package mail

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// Sender delivers one message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// APIClient posts messages to a JSON mail API.
type APIClient struct {
	client *resty.Client
	from   string
}

func NewAPIClient(apiURL, apiKey, from string) *APIClient {
	return &APIClient{
		client: resty.New().
			SetBaseURL(apiURL).
			SetTimeout(15*time.Second).
			SetHeader("Authorization", "Bearer "+apiKey),
		from: from,
	}
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

func (c *APIClient) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	var out sendResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(sendRequest{From: c.from, To: to, Subject: subject, HTML: htmlBody}).
		SetResult(&out).
		Post("/emails")
	if err != nil {
		return "", fmt.Errorf("sending mail to %s: %w", to, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("sending mail to %s: status %d", to, resp.StatusCode())
	}
	return out.ID, nil
}

// LogSender is the no-provider fallback: it logs instead of delivering.
// Used when MAIL_API_URL is not configured (local development).
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	log.Printf("mail (not sent, no provider): to=%s subject=%q", to, subject)
	return "", nil
}
