package hudu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hudulabs/hudumcp/internal/errortypes"
	"github.com/hudulabs/hudumcp/internal/telemetry"
)

// StatusError reports a non-2xx response from the Hudu API.
type StatusError struct {
	Code int
	Body string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("hudu api returned status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("hudu api returned status %d", e.Code)
}

// IsStatus reports whether err is a StatusError with the given HTTP status
// code. Handlers use this to special-case responses such as 401 on the
// password endpoints.
func IsStatus(err error, code int) bool {
	for err != nil {
		if se, ok := err.(*StatusError); ok {
			return se.Code == code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Client is the concrete HTTP implementation of the API interface.
type Client struct {
	config     Config
	httpClient *http.Client
	metrics    *telemetry.MetricsCollector
}

// NewClient creates a Hudu API client from the given configuration.
func NewClient(config Config) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithMetrics attaches a metrics collector for counting outbound API
// traffic. A nil collector is fine; recording becomes a no-op.
func (c *Client) WithMetrics(m *telemetry.MetricsCollector) *Client {
	c.metrics = m
	return c
}

// List performs a GET against a collection endpoint and decodes the body.
func (c *Client) List(ctx context.Context, path string, query url.Values) (map[string]interface{}, error) {
	return c.get(ctx, path, query)
}

// Get performs a GET against a single-record endpoint and decodes the body.
func (c *Client) Get(ctx context.Context, path string, id int) (map[string]interface{}, error) {
	return c.get(ctx, path+"/"+strconv.Itoa(id), nil)
}

// Ping verifies connectivity and credentials with a one-item listing.
func (c *Client) Ping(ctx context.Context) error {
	query := url.Values{}
	query.Set("page", "1")
	query.Set("page_size", "1")
	_, err := c.get(ctx, "/companies", query)
	return err
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (map[string]interface{}, error) {
	c.metrics.Increment(telemetry.MetricAPICalls)
	body, err := c.doGet(ctx, path, query)
	if err != nil {
		c.metrics.Increment(telemetry.MetricAPIFailures)
	}
	return body, err
}

func (c *Client) doGet(ctx context.Context, path string, query url.Values) (map[string]interface{}, error) {
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + APIPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errortypes.InternalError(err, "error creating request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errortypes.NetworkError(err, "error sending request to Hudu API").
			WithField("path", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errortypes.NetworkError(err, "error reading response body").
			WithField("path", path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncateBody(body)}
	}

	// Some endpoints return an empty body on success.
	if len(body) == 0 {
		return map[string]interface{}{}, nil
	}

	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, errortypes.APIError(err, "error decoding Hudu API response").
			WithField("path", path)
	}

	// List endpoints return an object keyed by the collection name; a few
	// return a bare array. Wrap arrays so callers always see a mapping.
	switch v := decoded.(type) {
	case map[string]interface{}:
		return v, nil
	case []interface{}:
		return map[string]interface{}{"data": v}, nil
	default:
		return nil, errortypes.APIError(
			fmt.Errorf("unexpected response shape %T", decoded),
			"error decoding Hudu API response").WithField("path", path)
	}
}

// truncateBody bounds the error body included in StatusError messages so a
// failing call never drags a huge HTML error page into logs.
func truncateBody(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}
