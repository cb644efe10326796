package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/weavedrop/weavedrop-go/tx"
)

// MaxContentResponseSize caps how many bytes Fetch will read from the
// gateway for a single record.
const MaxContentResponseSize = 1 << 30

// errorBodyLimit caps how much of an error response body is captured.
const errorBodyLimit = 1024

// Client talks HTTP to a storage network gateway. It submits signed
// records, fetches stored content by id, and reports node status. The
// underlying http.Client keeps a small connection pool and a 30 second
// default timeout.
type Client struct {
	base   string
	client *http.Client
}

// Compile-time check that Client satisfies Service.
var _ Service = (*Client)(nil)

// NewClient creates a gateway client from cfg. A zero Timeout falls back
// to DefaultTimeout.
func NewClient(cfg GatewayConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base: cfg.URL,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// submitResponse is the gateway's reply to a successful submission.
type submitResponse struct {
	ID string `json:"id"`
}

// Submit posts a signed record to <gateway>/tx.
//
// Exactly one round-trip: a non-success status returns *SubmissionError
// with the status code and (truncated) body, and the call is never
// retried here. The response id must match the record id or the response
// is treated as invalid.
func (c *Client) Submit(ctx context.Context, rec *tx.Record) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("network: nil record")
	}

	body, err := rec.EncodeWire()
	if err != nil {
		return "", fmt.Errorf("network: encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/tx", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("network: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return "", &SubmissionError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var sr submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrInvalidResponse, err)
	}
	if sr.ID == "" {
		return "", fmt.Errorf("%w: missing id", ErrInvalidResponse)
	}
	if sr.ID != rec.ID {
		return "", fmt.Errorf("%w: id mismatch: submitted %s, gateway returned %s",
			ErrInvalidResponse, rec.ID, sr.ID)
	}

	return sr.ID, nil
}

// Fetch retrieves the raw stored bytes of id from <gateway>/<id>.
// Every non-success response maps to ErrContentNotFound; for a permanent
// immutable store there is nothing to distinguish downstream.
func (c *Client) Fetch(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrContentNotFound)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("network: create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s (HTTP %d)", ErrContentNotFound, id, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxContentResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrInvalidResponse, err)
	}

	return data, nil
}

// Status queries <gateway>/status.
func (c *Client) Status(ctx context.Context) (*NodeStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/status", nil)
	if err != nil {
		return nil, fmt.Errorf("network: create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrConnectionFailed, resp.StatusCode, string(respBody))
	}

	var st NodeStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("%w: decode status: %w", ErrInvalidResponse, err)
	}

	return &st, nil
}
