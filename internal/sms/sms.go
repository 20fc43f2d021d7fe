// Package sms sends text messages through a Twilio-compatible REST API.
package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/convive/convive/internal/config"
	"github.com/convive/convive/internal/logging"
)

// Sender delivers a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

const defaultBaseURL = "https://api.twilio.com"

// Client is a Twilio REST API client.
type Client struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Twilio client from config.
func NewClient(c config.Config) *Client {
	baseURL := c.SMS.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		accountSID: c.SMS.AccountSID,
		authToken:  c.SMS.AuthToken,
		from:       c.SMS.FromNumber,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// IsConfigured reports whether credentials are present.
func (c *Client) IsConfigured() bool {
	return c.accountSID != "" && c.authToken != "" && c.from != ""
}

// Send posts a message to the Twilio Messages endpoint.
func (c *Client) Send(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.from)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build SMS request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send SMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("SMS API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	logging.Infof("SMS sent to %s", to)
	return nil
}

// LogSender is the Sender used when SMS is disabled: messages go to the log
// instead of the wire, so dev setups work without Twilio credentials.
type LogSender struct{}

// Send logs the message instead of delivering it.
func (LogSender) Send(_ context.Context, to, body string) error {
	logging.Infof("SMS (disabled) to %s: %s", to, body)
	return nil
}
