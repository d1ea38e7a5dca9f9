// Package qrcodes talks to the external QR code generation service.
package qrcodes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Its-donkey/qrcode-creator/internal/metrics"
	"github.com/Its-donkey/qrcode-creator/internal/ui/model"
)

const (
	listPath   = "/all_qr_codes"
	createPath = "/create_qr_code"

	// DefaultBaseURL is where the QR service listens in local development.
	DefaultBaseURL = "http://localhost:9292"
	// DefaultTimeout bounds every outbound call.
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 16 << 20
)

// RequestError reports a failed call to the QR service: a transport error, a
// non-2xx status, or an undecodable body.
type RequestError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call hit its deadline.
func (e *RequestError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Metrics    *metrics.Metrics
}

// Client issues the list and create calls against the QR service.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewClient builds a Client, falling back to the local development defaults.
func NewClient(opts Options) *Client {
	base := strings.TrimSuffix(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: base,
		http:    httpClient,
		timeout: timeout,
		metrics: opts.Metrics,
	}
}

// BaseURL returns the service root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListQRCodes fetches every QR code the service has generated so far.
func (c *Client) ListQRCodes(ctx context.Context) (records []model.Record, err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveBackend(metrics.OpListQRCodes, time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+listPath, nil)
	if err != nil {
		return nil, &RequestError{Op: metrics.OpListQRCodes, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, metrics.OpListQRCodes)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &RequestError{Op: metrics.OpListQRCodes, Err: fmt.Errorf("decode response: %w", err)}
	}
	if records == nil {
		records = []model.Record{}
	}
	return records, nil
}

// CreateQRCode asks the service to generate a code for the submitted form.
func (c *Client) CreateQRCode(ctx context.Context, payload model.CreateRequest) (result model.SubmissionResult, err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveBackend(metrics.OpCreateQRCode, time.Since(start), err) }()

	encoded, err := json.Marshal(payload)
	if err != nil {
		return model.SubmissionResult{}, &RequestError{Op: metrics.OpCreateQRCode, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createPath, bytes.NewReader(encoded))
	if err != nil {
		return model.SubmissionResult{}, &RequestError{Op: metrics.OpCreateQRCode, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, metrics.OpCreateQRCode)
	if err != nil {
		return model.SubmissionResult{}, err
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return model.SubmissionResult{}, &RequestError{Op: metrics.OpCreateQRCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if result.AllQRCodes == nil {
		result.AllQRCodes = []model.Record{}
	}
	return result, nil
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &RequestError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(body)), 200),
		}
	}
	return body, nil
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max] + "…"
}
