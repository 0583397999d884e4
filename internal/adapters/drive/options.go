// Package drive adapts the Google Drive and Sheets read-only REST APIs.
package drive

import (
	"net/http"
	"strings"

	"github.com/xparky/portal/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for API requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithDriveBaseURL overrides the Drive API base URL. Used by tests to point
// the client at a stub server.
func WithDriveBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.driveBaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithSheetsBaseURL overrides the Sheets API base URL.
func WithSheetsBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.sheetsBaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTokenSource sets the bearer token source for API requests.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		if tokens != nil {
			c.tokens = tokens
		}
	}
}

// WithPageSize sets the page size requested from the files listing endpoint.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}
