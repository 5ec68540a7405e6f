// Package client implements a client of the purr HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	aerrors "go.hackfix.me/purr/app/errors"
	"go.hackfix.me/purr/schema"
)

// Client is a friendly interface over the purr HTTP API.
type Client struct {
	*http.Client
	baseURL *url.URL
	logger  *slog.Logger
}

// APIError is a failed API response.
type APIError struct {
	StatusCode int
	Message    string          `json:"message"`
	Errors     string          `json:"errors,omitempty"`
	Details    []schema.Detail `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Errors != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Errors)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, msg)
}

// New returns a new client of the server at address, which can be a
// [host]:port or a URL.
func New(address string, logger *slog.Logger) (*Client, error) {
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}
	baseURL, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("failed parsing server address: %w", err)
	}

	return &Client{
		Client: &http.Client{
			Timeout: time.Minute,
		},
		baseURL: baseURL,
		logger:  logger.With("component", "web-client"),
	}, nil
}

// do sends a request with the JSON encoded reqData, and decodes the response
// body into respData if it's not nil. Error responses are returned as
// *APIError.
func (c *Client) do(
	ctx context.Context, method, path string, query url.Values, reqData, respData any,
) (rerr error) {
	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	errFields := []any{"url", u.String(), "method", method}

	var body io.Reader
	if reqData != nil {
		reqDataJSON, err := json.Marshal(reqData)
		if err != nil {
			return aerrors.NewWithCause("failed marshalling request data", err, errFields...)
		}
		body = bytes.NewReader(reqDataJSON)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return aerrors.NewWithCause("failed creating request", err, errFields...)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("sending request", errFields...)
	resp, err := c.Do(req)
	if err != nil {
		return aerrors.NewWithCause("failed sending request", err, errFields...)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("failed closing response body: %w", err)
		}
	}()
	errFields = append(errFields, "status_code", resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return aerrors.NewWithCause("failed reading response body", err, errFields...)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{}
		// The body of error responses is best effort.
		_ = json.Unmarshal(respBody, apiErr)
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if respData == nil {
		return nil
	}
	if err = json.Unmarshal(respBody, respData); err != nil {
		return aerrors.NewWithCause("failed unmarshalling response body", err, errFields...)
	}

	return nil
}
