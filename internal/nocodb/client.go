// Package nocodb is a small client for the NocoDB records REST API.
package nocodb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrMalformed is returned when a response does not have the expected shape
var ErrMalformed = errors.New("malformed nocodb response")

// Record is one row as returned by NocoDB. Column names are used verbatim as keys.
type Record map[string]any

// Query narrows a list request
type Query struct {
	Where string
	Limit int
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("nocodb %s: HTTP %d - %s", e.Op, e.StatusCode, e.Body)
}

// Client wraps NocoDB API interactions for one base URL and token
type Client struct {
	http *resty.Client
}

// NewClient creates a new NocoDB client. A zero timeout leaves requests bounded only by their context.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("xc-token", apiKey).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &Client{http: c}
}

// TablePath returns the v2 records path for a table id
func TablePath(table string) string {
	return fmt.Sprintf("/api/v2/tables/%s/records", table)
}

// LegacyTablePath returns the v1 data path, used when no database is configured
func LegacyTablePath(table string) string {
	return fmt.Sprintf("/api/v1/db/data/%s", table)
}

type listEnvelope struct {
	List json.RawMessage `json:"list"`
}

// List fetches the records at path matching q
func (c *Client) List(ctx context.Context, path string, q Query) ([]Record, error) {
	req := c.http.R().SetContext(ctx)
	if q.Where != "" {
		req.SetQueryParam("where", q.Where)
	}
	if q.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(q.Limit))
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{Op: "list", StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	var env listEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(env.List) == 0 || bytes.Equal(env.List, []byte("null")) {
		return nil, fmt.Errorf("%w: missing list", ErrMalformed)
	}

	var records []Record
	if err := json.Unmarshal(env.List, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return records, nil
}

// Create inserts a record at path
func (c *Client) Create(ctx context.Context, path string, body any) error {
	return c.write(ctx, http.MethodPost, "create", path, body)
}

// Update patches a record at path; body must carry the primary key
func (c *Client) Update(ctx context.Context, path string, body any) error {
	return c.write(ctx, http.MethodPatch, "update", path, body)
}

func (c *Client) write(ctx context.Context, method, op, path string, body any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Execute(method, path)
	if err != nil {
		return fmt.Errorf("failed to %s record: %w", op, err)
	}
	if !resp.IsSuccess() {
		return &StatusError{Op: op, StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}
