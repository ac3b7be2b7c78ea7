// Package jsonrpc provides a generic JSON-RPC 2.0 client over HTTP. Provider
// errors and non-2xx HTTP statuses are surfaced as typed errors so that
// callers can classify upstream failures (rate limiting in particular) without
// string-matching the whole error chain.
package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

// ErrProviderReturnedError indicates that the remote JSON-RPC server returned
// an error response. Every *Error wraps it.
var ErrProviderReturnedError = errors.New("provider error")

// Error is the JSON-RPC error object returned by the provider.
type Error struct {
	Code    int    `json:"code"`    // error code defined by the JSON-RPC spec or custom server logic
	Message string `json:"message"` // human-readable error message
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: [%d] - %s", ErrProviderReturnedError, e.Code, e.Message)
}

// Is makes errors.Is(err, ErrProviderReturnedError) hold for every *Error.
func (e *Error) Is(target error) bool {
	return target == ErrProviderReturnedError
}

// HTTPError reports a non-OK HTTP response whose body was not a JSON-RPC
// envelope (e.g. a bare 429 from a reverse proxy in front of the node).
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected http status %d from provider", e.StatusCode)
}

// response represents a standard JSON-RPC 2.0 response.
type response struct {
	JsonRPC string          `json:"jsonrpc"`
	Error   *Error          `json:"error"`
	Result  json.RawMessage `json:"result"`
}

// Err returns the provider error carried by the response, if any.
func (r response) Err() error {
	if r.Error == nil {
		return nil
	}

	return r.Error
}

// Client defines the interface for a generic JSON-RPC client. It can be used
// to abstract the underlying implementation and facilitate mocking in tests.
type Client interface {
	// Fetch sends a JSON-RPC request with the given method name and parameters.
	// It returns the raw JSON result or an error if the request or response fails.
	Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// client is the default implementation of the Client interface.
type client struct {
	providerEndpoint string                // URL of the remote JSON-RPC server
	httpClient       *retryablehttp.Client // HTTP client used to perform requests
}

// Compile-time assertion that client implements the Client interface.
var _ Client = (*client)(nil)

// Fetch sends a JSON-RPC request to the remote server with the given method
// and parameters. The `id` field of the request is a generated UUID string.
//
// An HTTP 429 response is returned as *HTTPError regardless of body shape; a
// JSON-RPC error object is returned as *Error; any other non-OK status with an
// undecodable body is returned as *HTTPError.
func (c *client) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      uuid.NewString(),
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.providerEndpoint, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		return nil, &HTTPError{StatusCode: res.StatusCode}
	}

	var data response
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		if res.StatusCode != http.StatusOK {
			return nil, &HTTPError{StatusCode: res.StatusCode}
		}
		return nil, err
	}

	return data.Result, data.Err()
}

// NewClient constructs a Client that sends JSON-RPC requests to the specified
// provider endpoint using the given HTTP client.
func NewClient(httpClient *retryablehttp.Client, providerEndpoint string) *client {
	return &client{
		providerEndpoint: providerEndpoint,
		httpClient:       httpClient,
	}
}
