package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// SMSClient delivers text messages through an SMS gateway's HTTP API, with
// the same fire-and-forget contract as EmailClient.
type SMSClient struct {
	http   *resty.Client
	sender string
	log    zerolog.Logger
}

// NewSMSClient builds a client for the gateway at baseURL.
func NewSMSClient(baseURL, apiKey, sender string, log zerolog.Logger) *SMSClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	return &SMSClient{http: client, sender: sender, log: log}
}

type smsPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

// Send posts one text message to the gateway.
func (c *SMSClient) Send(ctx context.Context, to, body string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(smsPayload{From: c.sender, To: to, Body: body}).
		Post("/sms")
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send sms: gateway returned %s", resp.Status())
	}

	c.log.Debug().Str("to", to).Msg("sms sent")
	return nil
}
