package vpn

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
)

// newHTTPClient builds the per-server session. Total timeout covers the full
// request; the connect timeout only covers dialing.
func newHTTPClient(timeout, connectTimeout time.Duration, insecureSkipVerify bool) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
		TLSHandshakeTimeout: connectTimeout,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	if insecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- per-server opt-in for self-signed backends
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// doJSON performs one request and returns the raw body. Transport failures
// map to backend_unavailable, non-2xx responses to backend_rejected carrying
// the status code.
func doJSON(ctx context.Context, client *http.Client, method, url, credential string, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, apperrors.NewBackendUnavailableError("backend request failed").WithCause(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, resp.StatusCode, apperrors.NewBackendUnavailableError("failed to read backend response").WithCause(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return data, resp.StatusCode, apperrors.NewBackendRejectedError(
			fmt.Sprintf("backend returned status %d", resp.StatusCode)).
			WithCause(&rejectedResponse{status: resp.StatusCode, body: string(data)})
	}

	return data, resp.StatusCode, nil
}

// rejectedResponse preserves the status and body of a non-2xx answer so
// callers can tell a missing resource apart from a broken backend.
type rejectedResponse struct {
	status int
	body   string
}

func (r *rejectedResponse) Error() string {
	return fmt.Sprintf("status %d", r.status)
}

// isKeyMissing reports whether a rejected delete means the key is already
// gone on the backend. Only an explicit not-found answer qualifies; any
// other rejection surfaces to the caller.
func isKeyMissing(err error) bool {
	var rejected *rejectedResponse
	if !errors.As(err, &rejected) {
		return false
	}
	if rejected.status == http.StatusNotFound || rejected.status == http.StatusGone {
		return true
	}
	return strings.Contains(strings.ToLower(rejected.body), "not found")
}
