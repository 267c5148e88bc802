// Package httpx contains the small HTTP plumbing shared by the provider
// adapters: a single-shot POST helper with uniform error surfacing.
//
// The harness deliberately performs no retries. A failed call is reported
// once, with the HTTP status code and raw response body, and the caller
// records it as a failed measurement.
package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBodyBytes caps how much of an error response body is carried into
// the error message. Vendors occasionally return very large HTML error pages.
const maxErrorBodyBytes = 4096

// StatusError is returned when a request completes with a non-2xx status.
// It preserves both the status code and the raw body so the benchmark report
// can show exactly what the vendor said.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error satisfies the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.StatusCode, e.Body)
}

// Post executes a single POST request and returns the full response body.
//
// A non-2xx status is a hard failure: the (truncated) body is drained into a
// *StatusError and no payload is returned. The caller owns the header set,
// including Content-Type and any credentials.
func Post(ctx context.Context, client *http.Client, url string, header http.Header, body []byte) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	for key, values := range header {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		errorBody, err := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
		if err != nil {
			errorBody = []byte("failed to read response body: " + err.Error())
		}
		return nil, &StatusError{StatusCode: response.StatusCode, Body: string(errorBody)}
	}

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return responseBody, nil
}
