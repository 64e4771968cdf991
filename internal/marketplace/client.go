// Package marketplace holds the HTTP plumbing shared by marketplace adapters.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andresuchdata/sellerpulse/internal/ingest"
)

// DefaultTimeout bounds a single source request.
const DefaultTimeout = 30 * time.Second

// NewHTTPClient returns a client with the given timeout, DefaultTimeout when zero.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NewJSONRequest builds a request with an optional JSON body.
func NewJSONRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// DoJSON sends req and decodes a JSON response into dst. It returns false without
// an error on 204 No Content. Failures are ingest errors.
func DoJSON(client *http.Client, req *http.Request, dst any) (bool, error) {
	resp, err := client.Do(req)
	if err != nil {
		return false, ingest.Transport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return false, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, ingest.Transport(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, ingest.FromStatus(resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return false, ingest.Malformed(fmt.Errorf("decode response: %w", err))
	}
	return true, nil
}
