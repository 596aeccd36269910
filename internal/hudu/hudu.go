// Package hudu provides the REST client for the Hudu documentation and
// asset-management API. The client is the single collaborator every tool
// handler talks to: each tool call maps onto exactly one List or Get
// request against the Hudu API.
package hudu

import (
	"context"
	"net/url"
	"time"
)

const (
	// APIPrefix is the path prefix for all v1 Hudu API endpoints.
	APIPrefix = "/api/v1"

	// DefaultTimeout is the transport-level timeout applied when the
	// configuration does not specify one. There is no retry on failure;
	// a timed-out call surfaces as a normal request error.
	DefaultTimeout = 30 * time.Second
)

// Config holds the immutable connection settings for a Hudu instance.
// It is constructed once at startup and passed into NewClient; nothing
// mutates it afterwards.
type Config struct {
	// BaseURL is the root of the Hudu instance, e.g. "https://org.huducloud.com".
	BaseURL string

	// APIKey is the static credential sent on every request via the
	// x-api-key header.
	APIKey string

	// Timeout bounds each outbound HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// API is the interface tool handlers use to reach the Hudu service.
// It exists so handlers can be tested against a fake without a live
// instance.
type API interface {
	// List performs a GET against a collection endpoint such as
	// "/companies" with the given query parameters and returns the
	// decoded JSON body.
	List(ctx context.Context, path string, query url.Values) (map[string]interface{}, error)

	// Get performs a GET against a single-record endpoint such as
	// "/companies/42" and returns the decoded JSON body.
	Get(ctx context.Context, path string, id int) (map[string]interface{}, error)

	// Ping verifies connectivity and credentials with a minimal listing
	// request. Used as a startup pre-check.
	Ping(ctx context.Context) error
}
