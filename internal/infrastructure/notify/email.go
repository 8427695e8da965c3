package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/resihub/community-system/internal/core/ports"
)

// EmailClient delivers mail through a transactional email provider's HTTP
// API. Fire-and-forget contract: callers log and drop errors.
type EmailClient struct {
	http *resty.Client
	from string
	log  zerolog.Logger
}

// NewEmailClient builds a client for the provider at baseURL.
func NewEmailClient(baseURL, apiKey, from string, log zerolog.Logger) *EmailClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	return &EmailClient{http: client, from: from, log: log}
}

type emailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send posts one message to the provider.
func (c *EmailClient) Send(ctx context.Context, msg ports.EmailMessage) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(emailPayload{From: c.from, To: msg.To, Subject: msg.Subject, HTML: msg.HTML}).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send email: provider returned %s", resp.Status())
	}

	c.log.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("email sent")
	return nil
}
