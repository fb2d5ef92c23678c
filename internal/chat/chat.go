// Package chat posts user messages to the assistant webhook.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/inmobiliaria/storefront/internal/models"
)

// ErrTransport is returned when the webhook cannot be reached or answers badly
var ErrTransport = errors.New("chat transport failed")

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Request is the webhook payload
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	Timestamp string `json:"timestamp"`
}

// Response is the assistant output. Both fields are optional.
type Response struct {
	Text       string            `json:"text,omitempty"`
	Properties []models.Property `json:"properties,omitempty"`
}

// reply is the wire form of a Response. Properties stay raw so that one
// malformed listing does not discard the reply text.
type reply struct {
	Text       string          `json:"text"`
	Properties json.RawMessage `json:"properties"`
}

// envelope accepts {output:{...}} and falls back to the flat shape
type envelope struct {
	Output *reply `json:"output"`
	reply
}

// response keeps the text and every property element that decodes
func (r reply) response() *Response {
	resp := &Response{Text: r.Text}
	var items []json.RawMessage
	if err := json.Unmarshal(r.Properties, &items); err != nil {
		return resp
	}
	for _, item := range items {
		var p models.Property
		if err := json.Unmarshal(item, &p); err != nil {
			continue
		}
		resp.Properties = append(resp.Properties, p)
	}
	return resp
}

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds every webhook call
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithClock replaces time.Now for request timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Client sends chat turns to a webhook
type Client struct {
	http *resty.Client
	now  func() time.Time
}

// NewClient creates a new chat client
func NewClient(opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts text to webhookURL and decodes the assistant reply
func (c *Client) Send(ctx context.Context, webhookURL, text, sessionID string) (*Response, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("%w: webhook URL is not configured", ErrTransport)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(Request{
			Message:   text,
			SessionID: sessionID,
			Timestamp: c.now().UTC().Format(timestampLayout),
		}).
		Post(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: HTTP %d - %s", ErrTransport, resp.StatusCode(), resp.String())
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 {
		return &Response{}, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: failed to decode reply: %v", ErrTransport, err)
	}
	if env.Output != nil {
		return env.Output.response(), nil
	}
	return env.reply.response(), nil
}
