// Package backend talks to the shop's REST API. Every call runs on behalf of
// the visitor whose backend cookies are attached to the context.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxResponseBytes caps how much of a backend response is read.
const DefaultMaxResponseBytes = 8 << 20

// ErrResponseTooLarge is returned when a response exceeds the read cap.
var ErrResponseTooLarge = errors.New("backend response too large")

type Options struct {
	BaseURL          string
	HTTPClient       *http.Client
	Timeout          time.Duration
	MaxRetries       int
	MaxResponseBytes int64
	Logger           *zap.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	maxBody    int64
	logger     *zap.Logger
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	maxBody := opts.MaxResponseBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxResponseBytes
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		maxRetries: maxRetries,
		maxBody:    maxBody,
		logger:     logger,
	}
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

type response struct {
	statusCode int
	body       []byte
	cookies    []*http.Cookie
}

// send performs req and turns any non-2xx answer into *APIError. GET requests
// are retried on throttling and server errors.
func (c *Client) send(ctx context.Context, req request) (*response, error) {
	attempts := 1
	if req.method == http.MethodGet {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := retryDelay(attempt - 1)
			c.logger.Debug("retrying backend request",
				zap.String("method", req.method),
				zap.String("path", req.path),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			if err := sleepWithContext(ctx, delay); err != nil {
				return nil, err
			}
		}

		resp, err := c.sendOnce(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			lastErr = err
			if errors.Is(err, ErrResponseTooLarge) {
				break
			}
			continue
		}
		if resp.statusCode >= 200 && resp.statusCode < 300 {
			return resp, nil
		}

		lastErr = newAPIError(resp.statusCode, resp.body)
		if !isRetryableStatus(resp.statusCode) {
			break
		}
	}

	c.logger.Warn("backend request failed",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Error(lastErr),
	)
	return nil, lastErr
}

func (c *Client) sendOnce(ctx context.Context, req request) (*response, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	for _, ck := range cookiesFrom(ctx) {
		httpReq.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", req.method, req.path, err)
	}
	if int64(len(respBody)) > c.maxBody {
		return nil, fmt.Errorf("read %s %s: %w (over %d bytes)", req.method, req.path, ErrResponseTooLarge, c.maxBody)
	}

	return &response{
		statusCode: httpResp.StatusCode,
		body:       respBody,
		cookies:    httpResp.Cookies(),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.send(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, query url.Values, in, out any) (*response, error) {
	req := request{method: method, path: path, query: query}
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		req.body = data
		req.contentType = "application/json"
	}
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if out != nil {
		if err := decode(resp, out); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func decode(resp *response, out any) error {
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return errors.New("backend returned an empty body")
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
